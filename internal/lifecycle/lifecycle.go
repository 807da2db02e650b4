// Package lifecycle governs a task's status transitions. The blocked state is
// an overlay owned by the resolver; user actions can never enter it directly.
package lifecycle

import (
	"errors"
	"fmt"
	"math"

	"github.com/ewhitmore/focal/internal/models"
)

// ErrBlockedIsDerived is returned when a caller tries to set the blocked
// status directly instead of going through the resolver.
var ErrBlockedIsDerived = errors.New("blocked is derived by the resolver, not set directly")

// ToggleDone flips a task between done and pending. Entering done sets
// progress to 100; leaving it resets progress to 0. Re-opening a completed
// task discards prior partial progress; the store keeps no history to
// restore it from.
func ToggleDone(task models.Task) (models.Task, error) {
	if task.Status == models.StatusBlocked {
		return task, fmt.Errorf("task %q is blocked and cannot be completed", task.Title)
	}

	if task.Status == models.StatusDone {
		task.Status = models.StatusPending
		task.Progress = 0
	} else {
		task.Status = models.StatusDone
		task.Progress = 100
	}
	return task, nil
}

// Start moves a pending task into in-progress.
func Start(task models.Task) (models.Task, error) {
	switch task.Status {
	case models.StatusPending:
		task.Status = models.StatusInProgress
		return task, nil
	case models.StatusInProgress:
		return task, nil
	case models.StatusBlocked:
		return task, fmt.Errorf("task %q is blocked and cannot be started", task.Title)
	default:
		return task, fmt.Errorf("task %q is already done", task.Title)
	}
}

// SetStatus applies a user-chosen status. Blocked is rejected; only the
// resolver sets or clears the overlay.
func SetStatus(task models.Task, status models.TaskStatus) (models.Task, error) {
	switch status {
	case models.StatusBlocked:
		return task, ErrBlockedIsDerived
	case models.StatusDone:
		if task.Status == models.StatusDone {
			return task, nil
		}
		return ToggleDone(task)
	case models.StatusPending, models.StatusInProgress:
		if task.Status == models.StatusDone {
			// Leaving done resets progress, same as the toggle path
			task.Progress = 0
		}
		task.Status = status
		return task, nil
	default:
		return task, fmt.Errorf("invalid status: %s", status)
	}
}

// DisplayProgress returns the progress percentage to render. A task with a
// checklist derives it from item completion; that overrides the stored value
// for display only and never drives status transitions.
func DisplayProgress(task models.Task) int {
	items := task.Content.Checklist
	if len(items) == 0 {
		return task.Progress
	}

	done := 0
	for _, item := range items {
		if item.Done {
			done++
		}
	}
	return int(math.Round(float64(done) / float64(len(items)) * 100))
}
