// Package tracker owns the live multi-project document for one session and
// exposes every command the presentation layer may invoke.
//
// Each mutating call either changes the current project and then emits one
// model.Event to subscribers (persistence among them), or changes nothing and
// emits nothing. A Tracker is not safe for concurrent use; one session owns it.
package tracker

import (
	"context"
	"io"
	"slices"
	"time"

	"tracker-cli/internal/ids"
	"tracker-cli/internal/model"
	"tracker-cli/internal/outline"
	"tracker-cli/internal/store"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

type project struct {
	id     string
	name   string
	forest *outline.Forest
}

type subscriber struct {
	id int
	fn func(model.Event)
}

type Tracker struct {
	projects  []*project
	currentID string

	newID ids.Generator
	now   func() time.Time
	log   *log.Logger

	subs    []subscriber
	nextSub int
}

type Option func(*Tracker)

func WithIDGenerator(gen ids.Generator) Option {
	return func(t *Tracker) {
		if gen != nil {
			t.newID = gen
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(t *Tracker) {
		if now != nil {
			t.now = now
		}
	}
}

func WithLogger(l *log.Logger) Option {
	return func(t *Tracker) {
		if l != nil {
			t.log = l
		}
	}
}

func newTracker(opts []Option) *Tracker {
	t := &Tracker{
		newID: ids.New,
		now:   time.Now,
		log:   log.New(io.Discard),
	}
	for _, o := range opts {
		o(t)
	}
	return t
}

// New builds a tracker over doc. An empty document is replaced by the default one.
func New(doc model.Document, opts ...Option) *Tracker {
	t := newTracker(opts)
	t.setDocument(doc)
	return t
}

// Open loads the document from kv through the migration cascade and wires
// best-effort persistence: a migrated or default document is written under the
// current-schema key right away, and after every successful mutation the whole
// document is written back.
func Open(ctx context.Context, kv store.KV, opts ...Option) (*Tracker, store.Source) {
	t := newTracker(opts)
	res := store.Load(ctx, kv, t.newID, t.log)
	t.setDocument(res.Document)
	if res.Source != store.SourceCurrent {
		// Pin the ids minted by migration or defaulting. The legacy key is left as is.
		if err := store.Save(ctx, kv, t.Document()); err != nil {
			t.log.Warn("save loaded document", "source", res.Source, "err", err)
		}
	}

	p := store.NewPersister(kv, t.log)
	t.Subscribe(func(ev model.Event) {
		p.Persist(ctx, t.Document(), ev)
	})
	return t, res.Source
}

func (t *Tracker) setDocument(doc model.Document) {
	if len(doc.Projects) == 0 {
		doc = store.DefaultDocument(t.newID)
	}
	t.projects = make([]*project, 0, len(doc.Projects))
	for _, p := range doc.Projects {
		t.projects = append(t.projects, &project{
			id:     p.ID,
			name:   p.Name,
			forest: outline.FromItems(p.Items, t.newID),
		})
	}
	t.currentID = doc.CurrentID
}

// Subscribe registers fn to receive an event after each successful mutation.
// The returned func removes the subscription.
func (t *Tracker) Subscribe(fn func(model.Event)) (unsubscribe func()) {
	t.nextSub++
	id := t.nextSub
	t.subs = append(t.subs, subscriber{id: id, fn: fn})
	return func() {
		t.subs = slices.DeleteFunc(t.subs, func(s subscriber) bool { return s.id == id })
	}
}

func (t *Tracker) emit(typ, entityID string) {
	ev := model.Event{
		ID:        newEventID(),
		TS:        t.now().UTC(),
		Type:      typ,
		ProjectID: t.current().id,
		EntityID:  entityID,
	}
	t.log.Debug("change", "type", typ, "entity", entityID)
	for _, s := range slices.Clone(t.subs) {
		s.fn(ev)
	}
}

func newEventID() string {
	if id, err := uuid.NewV7(); err == nil {
		return id.String()
	}
	return uuid.NewString()
}

// changed emits typ when ok is true and passes ok through.
func (t *Tracker) changed(ok bool, typ, entityID string) bool {
	if ok {
		t.emit(typ, entityID)
	}
	return ok
}

// current returns the active project, falling back to the first one.
func (t *Tracker) current() *project {
	for _, p := range t.projects {
		if p.id == t.currentID {
			return p
		}
	}
	return t.projects[0]
}

func (t *Tracker) forest() *outline.Forest { return t.current().forest }

// Document returns a deep copy of the full persisted state.
func (t *Tracker) Document() model.Document {
	doc := model.Document{Projects: make([]model.Project, 0, len(t.projects)), CurrentID: t.currentID}
	for _, p := range t.projects {
		doc.Projects = append(doc.Projects, model.Project{ID: p.id, Name: p.name, Items: p.forest.Items()})
	}
	return doc
}
