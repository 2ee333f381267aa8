package outline

import (
	"slices"

	"tracker-cli/internal/model"
)

// BugRef is one entry of the project-wide bug index.
type BugRef struct {
	Bug       model.Bug `json:"bug"`
	ItemID    string    `json:"itemId"`
	ItemTitle string    `json:"itemTitle"`
	// Path holds item titles from the project root down to the owning item.
	Path []string `json:"path"`
}

// AddBug appends b to the item's bug list and returns the bug id.
func (f *Forest) AddBug(itemID string, b model.Bug) (string, bool) {
	n, ok := f.nodes[itemID]
	if !ok {
		return "", false
	}
	if b.ID == "" {
		b.ID = f.newID()
	}
	n.Bugs = append(n.Bugs, b)
	return b.ID, true
}

func (f *Forest) updateBug(itemID, bugID string, fn func(b *model.Bug)) bool {
	n, ok := f.nodes[itemID]
	if !ok {
		return false
	}
	i := bugIndex(n, bugID)
	if i < 0 {
		return false
	}
	fn(&n.Bugs[i])
	return true
}

func bugIndex(n *Node, bugID string) int {
	return slices.IndexFunc(n.Bugs, func(b model.Bug) bool { return b.ID == bugID })
}

func (f *Forest) RenameBug(itemID, bugID, name string) bool {
	return f.updateBug(itemID, bugID, func(b *model.Bug) { b.Name = name })
}

func (f *Forest) UpdateBugErrorCode(itemID, bugID, code string) bool {
	return f.updateBug(itemID, bugID, func(b *model.Bug) { b.ErrorCode = code })
}

func (f *Forest) CycleBugStatus(itemID, bugID string) bool {
	return f.updateBug(itemID, bugID, func(b *model.Bug) { b.Status = b.Status.Next() })
}

func (f *Forest) SetBugStatus(itemID, bugID string, st model.BugStatus) bool {
	if !st.Valid() {
		return false
	}
	return f.updateBug(itemID, bugID, func(b *model.Bug) { b.Status = st })
}

func (f *Forest) DeleteBug(itemID, bugID string) bool {
	n, ok := f.nodes[itemID]
	if !ok {
		return false
	}
	i := bugIndex(n, bugID)
	if i < 0 {
		return false
	}
	n.Bugs = slices.Delete(n.Bugs, i, i+1)
	return true
}

// AllBugs flattens every bug in the forest, in depth-first item order.
func (f *Forest) AllBugs() []BugRef {
	out := []BugRef{}
	var visit func(list []string, path []string)
	visit = func(list []string, path []string) {
		for _, id := range list {
			n := f.nodes[id]
			itemPath := append(slices.Clone(path), n.Title)
			for _, b := range n.Bugs {
				out = append(out, BugRef{
					Bug:       b,
					ItemID:    n.ID,
					ItemTitle: n.Title,
					Path:      slices.Clone(itemPath),
				})
			}
			visit(n.children, itemPath)
		}
	}
	visit(f.roots, nil)
	return out
}
