package model

import (
	"errors"
	"time"
)

type Status string

const (
	StatusTodo       Status = "todo"
	StatusInProgress Status = "in-progress"
	StatusDone       Status = "done"
	StatusBlocked    Status = "blocked"
)

var statusCycle = []Status{StatusTodo, StatusInProgress, StatusDone, StatusBlocked}

type BugStatus string

const (
	BugOpen    BugStatus = "open"
	BugFixed   BugStatus = "fixed"
	BugWontFix BugStatus = "wont-fix"
)

var bugStatusCycle = []BugStatus{BugOpen, BugFixed, BugWontFix}

// Position says where a moved item lands relative to its drop target.
type Position string

const (
	PositionBefore Position = "before"
	PositionAfter  Position = "after"
	PositionInside Position = "inside"
)

var (
	ErrInvalidStatus   = errors.New("invalid status")
	ErrInvalidPosition = errors.New("invalid position")
)

const (
	DefaultItemTitle    = "New Item"
	DefaultParentTitle  = "New Parent"
	DefaultProjectName  = "New Project"
	FallbackProjectName = "My Project"
	FirstItemTitle      = "My First Item"
)

type Bug struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Status    BugStatus `json:"status"`
	ErrorCode string    `json:"errorCode"`
}

type Item struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Status   Status `json:"status"`
	Progress int    `json:"progress"` // 0-100, only meaningful on leaves
	Expanded bool   `json:"expanded"`
	Children []Item `json:"children"`
	Bugs     []Bug  `json:"bugs"`

	// Notes may mention bug names; resolving those is left to the presentation layer.
	Notes      string `json:"notes"`
	DetailOpen bool   `json:"detailOpen"`
}

type Project struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Items []Item `json:"items"`
}

// Document is the persisted root. Projects is never empty once loaded.
type Document struct {
	Projects  []Project `json:"projects"`
	CurrentID string    `json:"currentId"`
}

// Current returns the active project, falling back to the first one when
// CurrentID does not resolve.
func (d *Document) Current() (*Project, bool) {
	if d == nil || len(d.Projects) == 0 {
		return nil, false
	}
	for i := range d.Projects {
		if d.Projects[i].ID == d.CurrentID {
			return &d.Projects[i], true
		}
	}
	return &d.Projects[0], true
}

func NewItem(id, title string) Item {
	return Item{
		ID:       id,
		Title:    title,
		Status:   StatusTodo,
		Expanded: true,
		Children: []Item{},
		Bugs:     []Bug{},
	}
}

func NewBug(id, name string) Bug {
	return Bug{ID: id, Name: name, Status: BugOpen}
}

// Next advances through todo -> in-progress -> done -> blocked -> todo.
// Unknown values restart the cycle at todo.
func (s Status) Next() Status {
	for i, st := range statusCycle {
		if st == s {
			return statusCycle[(i+1)%len(statusCycle)]
		}
	}
	return statusCycle[0]
}

func (s Status) Valid() bool {
	for _, st := range statusCycle {
		if st == s {
			return true
		}
	}
	return false
}

// Next advances through open -> fixed -> wont-fix -> open.
func (s BugStatus) Next() BugStatus {
	for i, st := range bugStatusCycle {
		if st == s {
			return bugStatusCycle[(i+1)%len(bugStatusCycle)]
		}
	}
	return bugStatusCycle[0]
}

func (s BugStatus) Valid() bool {
	for _, st := range bugStatusCycle {
		if st == s {
			return true
		}
	}
	return false
}

func (p Position) Valid() bool {
	switch p {
	case PositionBefore, PositionAfter, PositionInside:
		return true
	default:
		return false
	}
}

// StatusForProgress derives a status from a progress value: 100 is done,
// 0 is todo, anything in between is in-progress.
func StatusForProgress(p int) Status {
	switch p {
	case 100:
		return StatusDone
	case 0:
		return StatusTodo
	default:
		return StatusInProgress
	}
}

// Event records one successful mutation. Subscribers (persistence, views)
// receive it after the tree, including derived statuses, is fully updated.
type Event struct {
	ID        string    `json:"id"`
	TS        time.Time `json:"ts"`
	Type      string    `json:"type"`
	ProjectID string    `json:"projectId,omitempty"`
	EntityID  string    `json:"entityId,omitempty"`
}
