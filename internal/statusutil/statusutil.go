// Package statusutil parses the user-facing spellings of item statuses,
// bug statuses and move positions.
package statusutil

import (
	"fmt"
	"strings"

	"tracker-cli/internal/model"
)

// Normalize folds the common CLI spellings ("In Progress", "wont_fix",
// " DONE ") onto the canonical dashed lowercase ids.
func Normalize(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.ReplaceAll(s, "_", "-")
	return strings.Join(strings.Fields(s), "-")
}

func ParseStatus(s string) (model.Status, error) {
	st := model.Status(Normalize(s))
	if !st.Valid() {
		return "", fmt.Errorf("%w: %q (want todo|in-progress|done|blocked)", model.ErrInvalidStatus, s)
	}
	return st, nil
}

func ParseBugStatus(s string) (model.BugStatus, error) {
	st := model.BugStatus(Normalize(s))
	if !st.Valid() {
		return "", fmt.Errorf("%w: %q (want open|fixed|wont-fix)", model.ErrInvalidStatus, s)
	}
	return st, nil
}

func ParsePosition(s string) (model.Position, error) {
	p := model.Position(Normalize(s))
	if !p.Valid() {
		return "", fmt.Errorf("%w: %q (want before|after|inside)", model.ErrInvalidPosition, s)
	}
	return p, nil
}

// IsEndState reports whether an item in status st counts as finished.
func IsEndState(st model.Status) bool {
	return st == model.StatusDone
}
