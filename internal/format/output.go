package format

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	JSON = "json"
	YAML = "yaml"
	Text = "text"
)

// Parse normalizes a format name. Empty means JSON.
func Parse(s string) (string, error) {
	switch f := strings.ToLower(strings.TrimSpace(s)); f {
	case "", JSON:
		return JSON, nil
	case YAML, "yml":
		return YAML, nil
	case Text, "txt":
		return Text, nil
	default:
		return "", fmt.Errorf("unknown format: %s (expected json|yaml|text)", s)
	}
}

// Write writes output in the requested format.
//
// Supported formats:
// - json (default)
// - yaml
// - text (human-readable; payloads without a text view fall back to yaml)
func Write(w io.Writer, v any, format string, pretty bool) error {
	f, err := Parse(format)
	if err != nil {
		return err
	}
	switch f {
	case YAML:
		return WriteYAML(w, v)
	case Text:
		return WriteText(w, v)
	default:
		return WriteJSON(w, v, pretty)
	}
}

// WriteJSON writes strict JSON output for CLI commands.
func WriteJSON(w io.Writer, v any, pretty bool) error {
	var b []byte
	var err error
	if pretty {
		b, err = json.MarshalIndent(v, "", "  ")
	} else {
		b, err = json.Marshal(v)
	}
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(w, string(b))
	return err
}

// WriteYAML writes v as YAML. Values go through JSON first so field names
// follow the json tags used everywhere else.
func WriteYAML(w io.Writer, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	var x any
	if err := json.Unmarshal(b, &x); err != nil {
		return err
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(x); err != nil {
		return err
	}
	return enc.Close()
}

// Texter is implemented by payloads with a human-readable rendering.
type Texter interface {
	Text(r *Renderer) string
}

// WriteText renders v for a terminal. A {"data": ...} envelope is unwrapped.
func WriteText(w io.Writer, v any) error {
	if env, ok := v.(map[string]any); ok {
		if data, ok := env["data"]; ok && len(env) == 1 {
			v = data
		}
	}
	switch x := v.(type) {
	case Texter:
		_, err := fmt.Fprintln(w, strings.TrimRight(x.Text(NewRenderer(w)), "\n"))
		return err
	case string:
		_, err := fmt.Fprintln(w, x)
		return err
	default:
		return WriteYAML(w, v)
	}
}
