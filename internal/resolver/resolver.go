// Package resolver decides, for every task, whether it is currently
// executable. A task is blocked while it has a not-done milestone ancestor,
// while it references an unresolved conditional, or both; clearing one gate
// does not unblock a task still held by the other.
//
// The resolver is a pure computation over an in-memory snapshot. It never
// touches storage; callers re-run it whenever a new snapshot arrives and
// persist the returned changes.
package resolver

import (
	"errors"
	"fmt"

	"github.com/ewhitmore/focal/internal/models"
	"github.com/ewhitmore/focal/internal/utils"
)

var (
	// ErrAlreadyResolved is returned when a conditional that already has a
	// terminal outcome is resolved again. The dependency graph is left
	// untouched.
	ErrAlreadyResolved = errors.New("conditional already resolved")

	// ErrUnknownOutcome is returned when the selected outcome id is not one
	// of the conditional's declared outcomes.
	ErrUnknownOutcome = errors.New("unknown outcome")
)

// BlockState is the derived blocking verdict for one task.
type BlockState struct {
	TaskID string

	// MilestoneID is the nearest not-done milestone ancestor, if any
	MilestoneID string

	// ConditionalID is the gating conditional, if any
	ConditionalID string
}

// Blocked reports whether either gate is still closed.
func (b BlockState) Blocked() bool {
	return b.MilestoneID != "" || b.ConditionalID != ""
}

// ResolveBlocking computes the blocking state of every task in the snapshot.
// Dangling parent or conditional references degrade to "not blocking": the
// live snapshot is eventually consistent and may transiently point at
// entities that are not present.
func ResolveBlocking(tasks []models.Task, conditionals []models.Conditional) map[string]BlockState {
	byID := make(map[string]models.Task, len(tasks))
	for _, t := range tasks {
		byID[t.ID] = t
	}
	condByID := make(map[string]models.Conditional, len(conditionals))
	for _, c := range conditionals {
		condByID[c.ID] = c
	}

	states := make(map[string]BlockState, len(tasks))
	for _, t := range tasks {
		state := BlockState{TaskID: t.ID}

		// A done task is never blocked
		if t.Status == models.StatusDone {
			states[t.ID] = state
			continue
		}

		state.MilestoneID = blockingMilestone(t, byID)
		state.ConditionalID = blockingConditional(t, condByID)
		states[t.ID] = state
	}
	return states
}

// ApplyBlocking reconciles stored statuses against derived blocking states
// and returns the tasks whose status must change: newly gated tasks enter
// blocked, cleared tasks fall back to pending.
func ApplyBlocking(tasks []models.Task, states map[string]BlockState) []models.Task {
	var changed []models.Task
	for _, t := range tasks {
		state, ok := states[t.ID]
		if !ok {
			continue
		}

		switch {
		case state.Blocked() && t.Status != models.StatusBlocked && t.Status != models.StatusDone:
			t.Status = models.StatusBlocked
			changed = append(changed, t)
		case !state.Blocked() && t.Status == models.StatusBlocked:
			t.Status = models.StatusPending
			changed = append(changed, t)
		}
	}
	return changed
}

// Resolution is the effect of applying one outcome to a conditional's
// dependents.
type Resolution struct {
	Outcome models.Outcome

	// Changed holds every dependent task with its post-resolution fields
	Changed []models.Task
}

// ApplyOutcome resolves a conditional to the given outcome and computes the
// resulting task changes:
//
//   - activate: clear the conditional reference on every dependent; the
//     dependent leaves blocked (to pending) unless a milestone still gates it
//   - postpone: shift each dependent's dated fields forward by PostponeDays;
//     the conditional reference is unchanged and the task stays blocked
//   - switch_fallback: re-point dependents at the fallback conditional,
//     applying FallbackPostponeDays as a shift when set
//
// Resolution is terminal: a second resolution fails with ErrAlreadyResolved.
func ApplyOutcome(cond models.Conditional, outcomeID string, tasks []models.Task) (Resolution, error) {
	if cond.IsResolved() {
		return Resolution{}, fmt.Errorf("%w: %s resolved to outcome %s", ErrAlreadyResolved, cond.ID, cond.ResolvedOutcomeID)
	}

	outcome, ok := cond.Outcome(outcomeID)
	if !ok {
		return Resolution{}, fmt.Errorf("%w: %s has no outcome %s", ErrUnknownOutcome, cond.ID, outcomeID)
	}

	res := Resolution{Outcome: outcome}
	for _, t := range tasks {
		if t.BlockedByConditional != cond.ID {
			continue
		}

		switch outcome.Action {
		case models.ActionActivate:
			t.BlockedByConditional = ""
			res.Changed = append(res.Changed, t)

		case models.ActionPostpone:
			shifted, err := shiftDates(t, outcome.PostponeDays)
			if err != nil {
				return Resolution{}, err
			}
			res.Changed = append(res.Changed, shifted)

		case models.ActionSwitchFallback:
			t.BlockedByConditional = cond.FallbackConditionalRef
			if cond.FallbackPostponeDays > 0 {
				shifted, err := shiftDates(t, cond.FallbackPostponeDays)
				if err != nil {
					return Resolution{}, err
				}
				t.Deadline = shifted.Deadline
				t.ScopeKey = shifted.ScopeKey
			}
			res.Changed = append(res.Changed, t)

		default:
			return Resolution{}, fmt.Errorf("invalid outcome action: %s", outcome.Action)
		}
	}

	return res, nil
}

// shiftDates moves every dated field of a task forward by the given number of
// days. HH:MM slot times are untouched; postponing changes which day a task
// lands on, not where it sits on the grid. Fields that are unset or not
// date-shaped are left alone.
func shiftDates(t models.Task, days int) (models.Task, error) {
	if t.Deadline != "" {
		shifted, err := utils.AddDaysToDate(t.Deadline, days)
		if err != nil {
			return t, fmt.Errorf("task %s deadline: %w", t.ID, err)
		}
		t.Deadline = shifted
	}

	if t.Scope == models.ScopeDay && utils.ValidateDateFormat(t.ScopeKey) {
		shifted, err := utils.AddDaysToDate(t.ScopeKey, days)
		if err != nil {
			return t, fmt.Errorf("task %s scope key: %w", t.ID, err)
		}
		t.ScopeKey = shifted
	}

	return t, nil
}

// blockingMilestone walks the ancestor chain and returns the first milestone
// whose status is not done. Confidence grades on milestone conditions are
// display metadata; the gate is purely "milestone done or not".
func blockingMilestone(t models.Task, byID map[string]models.Task) string {
	seen := map[string]bool{t.ID: true}

	parentID := t.ParentTaskID
	for parentID != "" {
		if seen[parentID] {
			// Cycle in parent references; treat the remainder as non-blocking
			return ""
		}
		seen[parentID] = true

		parent, ok := byID[parentID]
		if !ok {
			// Dangling reference: no parent, not blocking
			return ""
		}
		if parent.IsMilestone && parent.Status != models.StatusDone {
			return parent.ID
		}
		parentID = parent.ParentTaskID
	}
	return ""
}

// blockingConditional returns the gating conditional id, if the reference is
// live and not yet resolved to a success outcome.
func blockingConditional(t models.Task, condByID map[string]models.Conditional) string {
	if t.BlockedByConditional == "" {
		return ""
	}

	cond, ok := condByID[t.BlockedByConditional]
	if !ok {
		// Dangling reference: not blocking
		return ""
	}

	if outcome, ok := cond.ResolvedOutcome(); ok && outcome.Type == models.OutcomeSuccess {
		return ""
	}
	return cond.ID
}
