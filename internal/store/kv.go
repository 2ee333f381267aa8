package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"tracker-cli/internal/model"
)

// KV is the only storage capability the tracker needs: string values under
// string keys, where a key may be absent.
type KV interface {
	// Get returns ok=false when the key is absent.
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	Close() error
}

// EventLog is implemented by backends that keep a history of mutations.
type EventLog interface {
	AppendEvent(ctx context.Context, ev model.Event) error
	Events(ctx context.Context, limit int) ([]model.Event, error)
}

type Backend string

const (
	BackendSQLite Backend = "sqlite"
	BackendBolt   Backend = "bolt"
	BackendMemory Backend = "memory"
)

var ErrUnknownBackend = errors.New("unknown storage backend")

const (
	sqliteFileName = "tracker.sqlite"
	boltFileName   = "tracker.bolt"
)

func ParseBackend(s string) (Backend, error) {
	switch b := Backend(strings.ToLower(strings.TrimSpace(s))); b {
	case "":
		return BackendSQLite, nil
	case BackendSQLite, BackendBolt, BackendMemory:
		return b, nil
	default:
		return "", fmt.Errorf("%w: %q (want sqlite|bolt|memory)", ErrUnknownBackend, s)
	}
}

// Open opens the named backend rooted at dir, creating dir when needed.
func Open(ctx context.Context, backend Backend, dir string) (KV, error) {
	if backend == BackendMemory {
		return NewMemory(), nil
	}
	if strings.TrimSpace(dir) == "" {
		return nil, errors.New("store dir is empty")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create store dir: %w", err)
	}
	switch backend {
	case BackendSQLite, "":
		return OpenSQLite(ctx, filepath.Join(dir, sqliteFileName))
	case BackendBolt:
		return OpenBolt(filepath.Join(dir, boltFileName))
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, backend)
	}
}
