// Package rollup aggregates child-task completion into parent progress.
// Rollup is a pull computation over the current snapshot; nothing here is
// cached or persisted, which sidesteps stale-write races when several
// children change at once.
package rollup

import (
	"math"

	"github.com/ewhitmore/focal/internal/models"
)

// Progress computes a parent's aggregate progress from its children's
// declared contribution weights:
//
//	Σ child.Progress/100 × child.ContributionPercent, clamped to [0,100]
//
// Weights that do not sum to 100 are documented behavior, not a defect: the
// unassigned remainder contributes zero and is never redistributed. A parent
// reaching 100 does not auto-transition to done; status stays an explicit
// user or resolver action.
func Progress(parent models.Task, children []models.Task) int {
	total := 0.0
	for _, child := range children {
		if child.ParentTaskID != parent.ID {
			continue
		}
		if child.ContributionPercent <= 0 {
			continue
		}
		total += float64(child.Progress) / 100 * float64(child.ContributionPercent)
	}

	progress := int(math.Round(total))
	if progress > 100 {
		progress = 100
	}
	if progress < 0 {
		progress = 0
	}
	return progress
}

// Children filters the snapshot down to a parent's direct children.
func Children(parent models.Task, tasks []models.Task) []models.Task {
	var children []models.Task
	for _, t := range tasks {
		if t.ParentTaskID == parent.ID {
			children = append(children, t)
		}
	}
	return children
}
