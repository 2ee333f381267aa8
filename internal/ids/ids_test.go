package ids

import (
	"strconv"
	"strings"
	"testing"
	"time"
)

func TestNew_TimePrefixAndRandomSuffix(t *testing.T) {
	now := time.UnixMilli(1_700_000_000_000)
	id := newAt(now)

	prefix := strconv.FormatInt(now.UnixMilli(), 36)
	if !strings.HasPrefix(id, prefix) {
		t.Fatalf("expected time prefix %q; got %q", prefix, id)
	}
	suffix := strings.TrimPrefix(id, prefix)
	if got, want := len(suffix), randomLen; got != want {
		t.Fatalf("expected suffix len %d; got %d (%q)", want, got, suffix)
	}
	for _, r := range suffix {
		if !strings.ContainsRune("0123456789abcdefghijklmnopqrstuvwxyz", r) {
			t.Fatalf("expected base36 suffix; got %q", suffix)
		}
	}
}

func TestNew_NoCollisionsInSession(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 200; i++ {
		id := New()
		if seen[id] {
			t.Fatalf("duplicate id after %d generations: %q", i, id)
		}
		seen[id] = true
	}
}

func TestSequence(t *testing.T) {
	gen := Sequence("it")
	if got := gen(); got != "it-1" {
		t.Fatalf("expected it-1; got %q", got)
	}
	if got := gen(); got != "it-2" {
		t.Fatalf("expected it-2; got %q", got)
	}
}
