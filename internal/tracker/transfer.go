package tracker

import (
	"tracker-cli/internal/outline"
	"tracker-cli/internal/transfer"
)

type Export struct {
	Filename string
	Data     []byte
}

// ExportProject renders the current project's root items as a JSON file.
func (t *Tracker) ExportProject() (Export, error) {
	p := t.current()
	b, err := transfer.Export(p.forest.Items())
	if err != nil {
		return Export{}, err
	}
	return Export{Filename: transfer.SuggestedFilename(p.name), Data: b}, nil
}

// Import replaces the current project's items with the parsed list. Every
// imported item and bug gets a fresh id. On error nothing changes.
func (t *Tracker) Import(text string) error {
	items, err := transfer.Parse(text)
	if err != nil {
		t.log.Debug("import rejected", "err", err)
		return err
	}
	p := t.current()
	p.forest = outline.FromItems(transfer.RegenerateIDs(items, t.newID), t.newID)
	t.emit("project.import", p.id)
	return nil
}

// ImportProject is Import reduced to success or failure.
func (t *Tracker) ImportProject(text string) bool {
	return t.Import(text) == nil
}
