// Package transfer moves a project's item tree in and out as a JSON file.
//
// Export writes only the root item list (no project name or id). Import
// accepts the same shape, validates it, and gives every item and bug a fresh
// id so the imported tree cannot collide with anything already loaded.
package transfer

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"
	"sync"

	"tracker-cli/internal/ids"
	"tracker-cli/internal/model"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

const FileExtension = ".json"

var (
	ErrMalformed = errors.New("malformed import")
	ErrNotAList  = errors.New("import is not an item list")
)

//go:embed items.schema.json
var itemsSchemaJSON string

const itemsSchemaURL = "https://tracker-cli.local/items.schema.json"

var (
	schemaOnce sync.Once
	schema     *jsonschema.Schema
	schemaErr  error
)

func itemsSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource(itemsSchemaURL, strings.NewReader(itemsSchemaJSON)); err != nil {
			schemaErr = err
			return
		}
		schema, schemaErr = compiler.Compile(itemsSchemaURL)
	})
	return schema, schemaErr
}

// Export renders items as indented JSON.
func Export(items []model.Item) ([]byte, error) {
	if items == nil {
		items = []model.Item{}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(items); err != nil {
		return nil, fmt.Errorf("encode items: %w", err)
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

var whitespaceRun = regexp.MustCompile(`\s+`)

// SuggestedFilename turns a project name into "<name_with_underscores>.json".
func SuggestedFilename(projectName string) string {
	return whitespaceRun.ReplaceAllString(projectName, "_") + FileExtension
}

// Parse decodes and validates an exported item list. The returned items keep
// their original ids; pass them through RegenerateIDs before loading.
func Parse(text string) ([]model.Item, error) {
	dec := json.NewDecoder(strings.NewReader(text))
	dec.UseNumber()
	var raw any
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: trailing data after item list", ErrMalformed)
	}
	if _, ok := raw.([]any); !ok {
		return nil, ErrNotAList
	}

	sch, err := itemsSchema()
	if err != nil {
		return nil, fmt.Errorf("compile item schema: %w", err)
	}
	if err := sch.Validate(raw); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrMalformed, describe(err))
	}

	var items []model.Item
	if err := json.Unmarshal([]byte(text), &items); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return items, nil
}

// describe flattens a schema validation error into its leaf causes.
func describe(err error) string {
	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return err.Error()
	}
	var parts []string
	var collect func(e *jsonschema.ValidationError)
	collect = func(e *jsonschema.ValidationError) {
		if len(e.Causes) == 0 {
			loc := e.InstanceLocation
			if loc == "" {
				loc = "/"
			}
			parts = append(parts, loc+": "+e.Message)
			return
		}
		for _, c := range e.Causes {
			collect(c)
		}
	}
	collect(ve)
	return strings.Join(parts, "; ")
}

// RegenerateIDs returns a copy of items in which every item and bug has a
// fresh id. Structure and every other field are preserved.
func RegenerateIDs(items []model.Item, gen ids.Generator) []model.Item {
	if gen == nil {
		gen = ids.New
	}
	out := make([]model.Item, 0, len(items))
	for _, it := range items {
		cp := it
		cp.ID = gen()
		cp.Children = RegenerateIDs(it.Children, gen)
		cp.Bugs = make([]model.Bug, 0, len(it.Bugs))
		for _, b := range it.Bugs {
			b.ID = gen()
			cp.Bugs = append(cp.Bugs, b)
		}
		out = append(out, cp)
	}
	return out
}
