package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"tracker-cli/internal/ids"
	"tracker-cli/internal/model"

	"github.com/charmbracelet/log"
	"github.com/tidwall/gjson"
)

const (
	// LegacyKey holds the v1 schema: a bare JSON array of items.
	LegacyKey = "tracker-post-v1"
	// CurrentKey holds the v2 schema: {"projects": [...], "currentId": "..."}.
	CurrentKey = "tracker-post-v2"
)

// Source tells which branch of the load cascade produced a document.
type Source int

const (
	SourceCurrent Source = iota
	SourceLegacy
	SourceDefault
)

func (s Source) String() string {
	switch s {
	case SourceCurrent:
		return "current"
	case SourceLegacy:
		return "legacy"
	case SourceDefault:
		return "default"
	default:
		return fmt.Sprintf("source(%d)", int(s))
	}
}

type LoadResult struct {
	Document model.Document
	Source   Source
}

// Load reads the document through the migration cascade:
// current schema, then legacy flat list (wrapped into one project), then a
// fresh default document. Exactly one branch wins. Read errors and malformed
// data are treated like absence; the legacy key is never rewritten.
func Load(ctx context.Context, kv KV, gen ids.Generator, logger *log.Logger) LoadResult {
	if gen == nil {
		gen = ids.New
	}
	logger = orDiscard(logger)

	if raw, ok := read(ctx, kv, CurrentKey, logger); ok {
		if doc, ok := parseCurrent(raw); ok {
			logger.Debug("loaded document", "source", SourceCurrent, "projects", len(doc.Projects))
			return LoadResult{Document: doc, Source: SourceCurrent}
		}
		logger.Warn("current document unreadable; trying legacy", "key", CurrentKey)
	}

	if raw, ok := read(ctx, kv, LegacyKey, logger); ok {
		if items, ok := parseLegacy(raw); ok {
			p := model.Project{ID: gen(), Name: model.FallbackProjectName, Items: items}
			logger.Info("migrated legacy item list", "items", len(items), "project", p.ID)
			return LoadResult{
				Document: model.Document{Projects: []model.Project{p}, CurrentID: p.ID},
				Source:   SourceLegacy,
			}
		}
		logger.Warn("legacy document unreadable; using default", "key", LegacyKey)
	}

	logger.Debug("starting with default document")
	return LoadResult{Document: DefaultDocument(gen), Source: SourceDefault}
}

// DefaultDocument is one project holding one starter item.
func DefaultDocument(gen ids.Generator) model.Document {
	p := model.Project{
		ID:    gen(),
		Name:  model.FallbackProjectName,
		Items: []model.Item{model.NewItem(gen(), model.FirstItemTitle)},
	}
	return model.Document{Projects: []model.Project{p}, CurrentID: p.ID}
}

// Save writes the full document under CurrentKey.
func Save(ctx context.Context, kv KV, doc model.Document) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode document: %w", err)
	}
	if err := kv.Set(ctx, CurrentKey, strings.TrimSuffix(buf.String(), "\n")); err != nil {
		return fmt.Errorf("write %s: %w", CurrentKey, err)
	}
	return nil
}

func read(ctx context.Context, kv KV, key string, logger *log.Logger) (string, bool) {
	raw, ok, err := kv.Get(ctx, key)
	if err != nil {
		logger.Warn("store read failed", "key", key, "err", err)
		return "", false
	}
	return raw, ok
}

func parseCurrent(raw string) (model.Document, bool) {
	if !gjson.Valid(raw) || !gjson.Parse(raw).IsObject() {
		return model.Document{}, false
	}
	projects := gjson.Get(raw, "projects")
	if !projects.IsArray() || len(projects.Array()) == 0 {
		return model.Document{}, false
	}
	var doc model.Document
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		return model.Document{}, false
	}
	return doc, true
}

func parseLegacy(raw string) ([]model.Item, bool) {
	if !gjson.Valid(raw) || !gjson.Parse(raw).IsArray() {
		return nil, false
	}
	items := []model.Item{}
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return nil, false
	}
	return items, true
}

func orDiscard(logger *log.Logger) *log.Logger {
	if logger != nil {
		return logger
	}
	return log.New(io.Discard)
}
