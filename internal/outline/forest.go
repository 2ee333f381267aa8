// Package outline holds a project's item tree and every algorithm that reads or
// reshapes it: lookup, progress roll-up, status sync, structural moves and bugs.
//
// Items live in an arena keyed by id. Each node records its parent id and an
// ordered list of child ids; the forest keeps the ordered list of root ids.
// Conversions to and from the nested model.Item form happen only at the edges
// (load, save, export, import).
package outline

import (
	"slices"

	"tracker-cli/internal/ids"
	"tracker-cli/internal/model"
)

type Node struct {
	ID         string
	Title      string
	Status     model.Status
	Progress   int
	Expanded   bool
	Bugs       []model.Bug
	Notes      string
	DetailOpen bool

	parent   string
	children []string
}

// Parent returns the parent id, or "" for a root item.
func (n *Node) Parent() string { return n.parent }

// Children returns a copy of the ordered child ids.
func (n *Node) Children() []string { return slices.Clone(n.children) }

func (n *Node) IsLeaf() bool { return len(n.children) == 0 }

// Forest is one project's tree of items. Not safe for concurrent use.
type Forest struct {
	nodes map[string]*Node
	roots []string
	newID ids.Generator
}

func New(gen ids.Generator) *Forest {
	if gen == nil {
		gen = ids.New
	}
	return &Forest{nodes: map[string]*Node{}, newID: gen}
}

// FromItems builds a forest from nested items, preserving order and fields.
// Items with an empty or already-used id get a fresh one.
func FromItems(items []model.Item, gen ids.Generator) *Forest {
	f := New(gen)
	for _, it := range items {
		f.adopt(it, "", len(f.roots))
	}
	return f
}

// Items returns a deep copy of the tree in nested form.
func (f *Forest) Items() []model.Item {
	return f.itemsOf(f.roots)
}

func (f *Forest) itemsOf(idsList []string) []model.Item {
	out := make([]model.Item, 0, len(idsList))
	for _, id := range idsList {
		n := f.nodes[id]
		it := n.item()
		it.Children = f.itemsOf(n.children)
		out = append(out, it)
	}
	return out
}

// Item returns a deep copy of id and its subtree.
func (f *Forest) Item(id string) (model.Item, bool) {
	n, ok := f.nodes[id]
	if !ok {
		return model.Item{}, false
	}
	it := n.item()
	it.Children = f.itemsOf(n.children)
	return it, true
}

// Len returns the number of items in the forest.
func (f *Forest) Len() int { return len(f.nodes) }

// Roots returns a copy of the ordered root ids.
func (f *Forest) Roots() []string { return slices.Clone(f.roots) }

func (n *Node) item() model.Item {
	bugs := slices.Clone(n.Bugs)
	if bugs == nil {
		bugs = []model.Bug{}
	}
	return model.Item{
		ID:         n.ID,
		Title:      n.Title,
		Status:     n.Status,
		Progress:   n.Progress,
		Expanded:   n.Expanded,
		Children:   []model.Item{},
		Bugs:       bugs,
		Notes:      n.Notes,
		DetailOpen: n.DetailOpen,
	}
}

// adopt inserts it (and its subtree) under parent at index, returning the id used.
func (f *Forest) adopt(it model.Item, parent string, index int) string {
	id := it.ID
	if _, taken := f.nodes[id]; id == "" || taken {
		id = f.freshID()
	}
	bugs := slices.Clone(it.Bugs)
	if bugs == nil {
		bugs = []model.Bug{}
	}
	n := &Node{
		ID:         id,
		Title:      it.Title,
		Status:     it.Status,
		Progress:   it.Progress,
		Expanded:   it.Expanded,
		Bugs:       bugs,
		Notes:      it.Notes,
		DetailOpen: it.DetailOpen,
	}
	f.nodes[id] = n
	f.attach(n, parent, index)
	for _, ch := range it.Children {
		f.adopt(ch, id, len(n.children))
	}
	return id
}

func (f *Forest) freshID() string {
	for {
		id := f.newID()
		if _, taken := f.nodes[id]; !taken && id != "" {
			return id
		}
	}
}

// siblings returns the list that holds children of parent ("" = roots).
func (f *Forest) siblings(parent string) *[]string {
	if parent == "" {
		return &f.roots
	}
	return &f.nodes[parent].children
}

func (f *Forest) attach(n *Node, parent string, index int) {
	list := f.siblings(parent)
	if index < 0 {
		index = 0
	}
	if index > len(*list) {
		index = len(*list)
	}
	*list = slices.Insert(*list, index, n.ID)
	n.parent = parent
}

func (f *Forest) detach(n *Node, loc Location) {
	list := f.siblings(loc.Parent)
	*list = slices.Delete(*list, loc.Index, loc.Index+1)
	n.parent = ""
}
