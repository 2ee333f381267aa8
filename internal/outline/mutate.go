package outline

import (
	"math"

	"tracker-cli/internal/model"
)

// Every mutation returns true when the tree changed. False means the target
// did not resolve or the change was structurally invalid; the tree is untouched.

// AddRoot appends it (with its subtree) to the root list and returns the id used.
func (f *Forest) AddRoot(it model.Item) string {
	return f.adopt(it, "", len(f.roots))
}

// AddChild appends it under parentID and expands the parent.
func (f *Forest) AddChild(parentID string, it model.Item) (string, bool) {
	p, ok := f.nodes[parentID]
	if !ok {
		return "", false
	}
	id := f.adopt(it, parentID, len(p.children))
	p.Expanded = true
	return id, true
}

func (f *Forest) update(id string, fn func(n *Node)) bool {
	n, ok := f.nodes[id]
	if !ok {
		return false
	}
	fn(n)
	return true
}

func (f *Forest) UpdateTitle(id, title string) bool {
	return f.update(id, func(n *Node) { n.Title = title })
}

func (f *Forest) UpdateNotes(id, notes string) bool {
	return f.update(id, func(n *Node) { n.Notes = notes })
}

func (f *Forest) ToggleExpanded(id string) bool {
	return f.update(id, func(n *Node) { n.Expanded = !n.Expanded })
}

func (f *Forest) ToggleDetail(id string) bool {
	return f.update(id, func(n *Node) { n.DetailOpen = !n.DetailOpen })
}

// CycleStatus is a manual override; it does not consult progress.
func (f *Forest) CycleStatus(id string) bool {
	return f.update(id, func(n *Node) { n.Status = n.Status.Next() })
}

func (f *Forest) SetStatus(id string, st model.Status) bool {
	if !st.Valid() {
		return false
	}
	return f.update(id, func(n *Node) { n.Status = st })
}

// UpdateProgress rounds and clamps val into [0,100], derives the item's own
// status from it, then re-syncs every ancestor status in the tree.
func (f *Forest) UpdateProgress(id string, val float64) bool {
	n, ok := f.nodes[id]
	if !ok {
		return false
	}
	p := RoundHalfUp(math.Max(0, math.Min(100, val)))
	n.Progress = p
	n.Status = model.StatusForProgress(p)
	f.SyncParentStatuses()
	return true
}

// Delete removes id together with its whole subtree.
func (f *Forest) Delete(id string) bool {
	loc, ok := f.Locate(id)
	if !ok {
		return false
	}
	n := f.nodes[id]
	f.detach(n, loc)
	f.drop(n)
	return true
}

func (f *Forest) drop(n *Node) {
	for _, ch := range n.children {
		f.drop(f.nodes[ch])
	}
	delete(f.nodes, n.ID)
}

// AddParent wraps id in wrapper: wrapper takes id's slot, id becomes its only
// child, and wrapper starts expanded. Returns the wrapper's id.
func (f *Forest) AddParent(id string, wrapper model.Item) (string, bool) {
	loc, ok := f.Locate(id)
	if !ok {
		return "", false
	}
	n := f.nodes[id]
	f.detach(n, loc)
	wrapper.Children = nil
	wrapper.Expanded = true
	wid := f.adopt(wrapper, loc.Parent, loc.Index)
	f.attach(n, wid, 0)
	return wid, true
}

// Move reparents or reorders draggedID relative to targetID.
//
// Rejected without change when dragged and target are the same, when either
// does not resolve, when pos is unknown, or when target lies inside dragged's
// own subtree (the move would create a cycle).
func (f *Forest) Move(draggedID, targetID string, pos model.Position) bool {
	if draggedID == targetID || !pos.Valid() {
		return false
	}
	from, ok := f.Locate(draggedID)
	if !ok {
		return false
	}
	if f.Contains(draggedID, targetID) {
		return false
	}
	dragged := f.nodes[draggedID]
	f.detach(dragged, from)

	if pos == model.PositionInside {
		target, ok := f.nodes[targetID]
		if !ok {
			f.attach(dragged, from.Parent, from.Index)
			return false
		}
		f.attach(dragged, targetID, len(target.children))
		target.Expanded = true
		return true
	}

	to, ok := f.Locate(targetID)
	if !ok {
		f.attach(dragged, from.Parent, from.Index)
		return false
	}
	idx := to.Index
	if pos == model.PositionAfter {
		idx++
	}
	f.attach(dragged, to.Parent, idx)
	return true
}

// SetAllExpanded sets the expanded flag on every item. Returns false for an
// empty forest.
func (f *Forest) SetAllExpanded(v bool) bool {
	for _, n := range f.nodes {
		n.Expanded = v
	}
	return len(f.nodes) > 0
}
