package outline

import (
	"math"

	"tracker-cli/internal/model"
)

// RoundHalfUp rounds to the nearest integer, with .5 going up (33.5 -> 34).
// Progress values are never negative, so this matches conventional rounding.
func RoundHalfUp(x float64) int {
	if math.IsNaN(x) {
		return 0
	}
	return int(math.Floor(x + 0.5))
}

// ComputeProgress returns an item's own progress when it is a leaf, otherwise
// the rounded mean of its children's computed progress.
func (f *Forest) ComputeProgress(id string) (int, bool) {
	n, ok := f.nodes[id]
	if !ok {
		return 0, false
	}
	return f.progressOf(n), true
}

func (f *Forest) progressOf(n *Node) int {
	if len(n.children) == 0 {
		return n.Progress
	}
	return f.meanProgress(n.children)
}

// ProjectProgress is the rounded mean over root items, 0 for an empty project.
func (f *Forest) ProjectProgress() int {
	if len(f.roots) == 0 {
		return 0
	}
	return f.meanProgress(f.roots)
}

func (f *Forest) meanProgress(list []string) int {
	sum := 0
	for _, id := range list {
		sum += f.progressOf(f.nodes[id])
	}
	return RoundHalfUp(float64(sum) / float64(len(list)))
}

// SyncParentStatuses re-derives every interior item's status from its computed
// progress, children before parents. Leaves and blocked items are left alone.
// It returns how many statuses changed.
func (f *Forest) SyncParentStatuses() int {
	return f.syncList(f.roots)
}

func (f *Forest) syncList(list []string) int {
	changed := 0
	for _, id := range list {
		n := f.nodes[id]
		if len(n.children) == 0 {
			continue
		}
		changed += f.syncList(n.children)
		if n.Status == model.StatusBlocked {
			continue
		}
		next := model.StatusForProgress(f.progressOf(n))
		if n.Status != next {
			n.Status = next
			changed++
		}
	}
	return changed
}
