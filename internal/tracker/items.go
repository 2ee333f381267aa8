package tracker

import (
	"tracker-cli/internal/model"
	"tracker-cli/internal/outline"
)

// All item and bug commands act on the current project.

func (t *Tracker) Items() []model.Item { return t.forest().Items() }

// Item returns a copy of one item with its subtree.
func (t *Tracker) Item(id string) (model.Item, bool) { return t.forest().Item(id) }

// Walk visits the current project's items depth-first in display order.
func (t *Tracker) Walk(fn func(n *outline.Node, depth int)) { t.forest().Walk(fn) }

func (t *Tracker) Progress(id string) (int, bool) { return t.forest().ComputeProgress(id) }

func (t *Tracker) ProjectProgress() int { return t.forest().ProjectProgress() }

func (t *Tracker) AllBugs() []outline.BugRef { return t.forest().AllBugs() }

// AddRootItem appends a default item at the end of the root list.
func (t *Tracker) AddRootItem() string {
	id := t.forest().AddRoot(model.NewItem(t.newID(), model.DefaultItemTitle))
	t.emit("item.create", id)
	return id
}

// AddChildItem appends a default item under parentID and expands the parent.
func (t *Tracker) AddChildItem(parentID string) (string, bool) {
	id, ok := t.forest().AddChild(parentID, model.NewItem(t.newID(), model.DefaultItemTitle))
	return id, t.changed(ok, "item.create", id)
}

// AddParentItem wraps id in a new item that takes its place among its siblings.
func (t *Tracker) AddParentItem(id string) (string, bool) {
	wid, ok := t.forest().AddParent(id, model.NewItem(t.newID(), model.DefaultParentTitle))
	return wid, t.changed(ok, "item.wrap", wid)
}

func (t *Tracker) UpdateTitle(id, title string) bool {
	return t.changed(t.forest().UpdateTitle(id, title), "item.set_title", id)
}

// UpdateProgress clamps and rounds val, derives the item's status from it and
// re-syncs every parent status in the project.
func (t *Tracker) UpdateProgress(id string, val float64) bool {
	return t.changed(t.forest().UpdateProgress(id, val), "item.set_progress", id)
}

func (t *Tracker) UpdateNotes(id, notes string) bool {
	return t.changed(t.forest().UpdateNotes(id, notes), "item.set_notes", id)
}

func (t *Tracker) ToggleExpanded(id string) bool {
	return t.changed(t.forest().ToggleExpanded(id), "item.toggle_expanded", id)
}

func (t *Tracker) ToggleDetail(id string) bool {
	return t.changed(t.forest().ToggleDetail(id), "item.toggle_detail", id)
}

func (t *Tracker) CycleStatus(id string) bool {
	return t.changed(t.forest().CycleStatus(id), "item.set_status", id)
}

func (t *Tracker) SetStatus(id string, st model.Status) bool {
	return t.changed(t.forest().SetStatus(id, st), "item.set_status", id)
}

// DeleteItem removes the item and its whole subtree.
func (t *Tracker) DeleteItem(id string) bool {
	return t.changed(t.forest().Delete(id), "item.delete", id)
}

// MoveItem relocates dragged relative to target. Moves that would put an item
// inside itself or its own descendants are rejected.
func (t *Tracker) MoveItem(draggedID, targetID string, pos model.Position) bool {
	return t.changed(t.forest().Move(draggedID, targetID, pos), "item.move", draggedID)
}

func (t *Tracker) ExpandAll() bool {
	return t.changed(t.forest().SetAllExpanded(true), "items.expand_all", "")
}

func (t *Tracker) CollapseAll() bool {
	return t.changed(t.forest().SetAllExpanded(false), "items.collapse_all", "")
}

// AddBug appends a new open bug to the item and returns its id.
func (t *Tracker) AddBug(itemID, name string) (string, bool) {
	bid, ok := t.forest().AddBug(itemID, model.NewBug(t.newID(), name))
	return bid, t.changed(ok, "bug.create", bid)
}

func (t *Tracker) RenameBug(itemID, bugID, name string) bool {
	return t.changed(t.forest().RenameBug(itemID, bugID, name), "bug.rename", bugID)
}

func (t *Tracker) UpdateBugErrorCode(itemID, bugID, code string) bool {
	return t.changed(t.forest().UpdateBugErrorCode(itemID, bugID, code), "bug.set_error_code", bugID)
}

func (t *Tracker) CycleBugStatus(itemID, bugID string) bool {
	return t.changed(t.forest().CycleBugStatus(itemID, bugID), "bug.set_status", bugID)
}

func (t *Tracker) SetBugStatus(itemID, bugID string, st model.BugStatus) bool {
	return t.changed(t.forest().SetBugStatus(itemID, bugID, st), "bug.set_status", bugID)
}

func (t *Tracker) DeleteBug(itemID, bugID string) bool {
	return t.changed(t.forest().DeleteBug(itemID, bugID), "bug.delete", bugID)
}
