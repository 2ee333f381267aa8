package store

import (
	"context"

	"tracker-cli/internal/model"

	"github.com/charmbracelet/log"
)

// Persister saves the whole document after each mutation. Persistence is best
// effort: failures are logged and swallowed, and the in-memory document stays
// the source of truth for the session.
type Persister struct {
	kv  KV
	log *log.Logger
}

func NewPersister(kv KV, logger *log.Logger) *Persister {
	return &Persister{kv: kv, log: orDiscard(logger)}
}

// Persist reports whether the document write succeeded. Callers may ignore it.
func (p *Persister) Persist(ctx context.Context, doc model.Document, ev model.Event) bool {
	if err := Save(ctx, p.kv, doc); err != nil {
		p.log.Warn("save failed; keeping in-memory state", "event", ev.Type, "err", err)
		return false
	}
	if el, ok := p.kv.(EventLog); ok {
		if err := el.AppendEvent(ctx, ev); err != nil {
			p.log.Debug("append event failed", "event", ev.Type, "err", err)
		}
	}
	p.log.Debug("saved", "event", ev.Type, "entity", ev.EntityID)
	return true
}
