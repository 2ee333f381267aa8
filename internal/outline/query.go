package outline

import "slices"

// Location identifies the list holding an item and its index in that list.
// Parent is "" when the item is a project root.
type Location struct {
	Parent string
	Index  int
}

// Find returns the item with the given id. A miss is a normal outcome.
func (f *Forest) Find(id string) (*Node, bool) {
	n, ok := f.nodes[id]
	return n, ok
}

// Locate returns the containing list and index of id.
func (f *Forest) Locate(id string) (Location, bool) {
	n, ok := f.nodes[id]
	if !ok {
		return Location{}, false
	}
	idx := slices.Index(*f.siblings(n.parent), id)
	if idx < 0 {
		return Location{}, false
	}
	return Location{Parent: n.parent, Index: idx}, true
}

// Contains reports whether id is ancestor itself or lies in ancestor's subtree.
func (f *Forest) Contains(ancestor, id string) bool {
	// Bounded by the node count so a corrupted parent chain cannot spin forever.
	for steps := 0; id != "" && steps <= len(f.nodes); steps++ {
		if id == ancestor {
			return true
		}
		n, ok := f.nodes[id]
		if !ok {
			return false
		}
		id = n.parent
	}
	return false
}

// Walk visits every item depth-first: each list left to right, descending into
// an item's children before moving to its next sibling.
func (f *Forest) Walk(fn func(n *Node, depth int)) {
	f.walk(f.roots, 0, fn)
}

func (f *Forest) walk(list []string, depth int, fn func(n *Node, depth int)) {
	for _, id := range list {
		n := f.nodes[id]
		fn(n, depth)
		f.walk(n.children, depth+1, fn)
	}
}
