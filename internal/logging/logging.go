// Package logging builds the leveled diagnostic logger shared by the CLI and
// the tracker. Diagnostics go to stderr so command output stays parseable.
package logging

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/log"
)

const (
	Prefix       = "tracker"
	DefaultLevel = log.WarnLevel
)

type Options struct {
	Level string
	// Format is "text" (default), "json" or "logfmt".
	Format     string
	Timestamps bool
}

// ParseLevel accepts debug, info, warn, error or fatal. Empty means the default level.
func ParseLevel(s string) (log.Level, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return DefaultLevel, nil
	}
	if s == "warning" {
		s = "warn"
	}
	lvl, err := log.ParseLevel(s)
	if err != nil {
		return DefaultLevel, fmt.Errorf("invalid log level %q (expected debug|info|warn|error)", s)
	}
	return lvl, nil
}

func parseFormatter(s string) (log.Formatter, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "text":
		return log.TextFormatter, nil
	case "json":
		return log.JSONFormatter, nil
	case "logfmt":
		return log.LogfmtFormatter, nil
	default:
		return log.TextFormatter, fmt.Errorf("invalid log format %q (expected text|json|logfmt)", s)
	}
}

// New returns a logger writing to w.
func New(w io.Writer, opts Options) (*log.Logger, error) {
	lvl, err := ParseLevel(opts.Level)
	if err != nil {
		return nil, err
	}
	f, err := parseFormatter(opts.Format)
	if err != nil {
		return nil, err
	}
	return log.NewWithOptions(w, log.Options{
		Level:           lvl,
		Formatter:       f,
		Prefix:          Prefix,
		ReportTimestamp: opts.Timestamps,
	}), nil
}

// Discard returns a logger that drops everything.
func Discard() *log.Logger {
	return log.New(io.Discard)
}
