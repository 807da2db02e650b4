package resolver

import (
	"errors"
	"testing"

	"github.com/ewhitmore/focal/internal/models"
)

func task(id, parentID string, milestone bool, status models.TaskStatus) models.Task {
	return models.Task{
		ID:           id,
		OwnerID:      "local",
		Title:        id,
		Status:       status,
		ParentTaskID: parentID,
		IsMilestone:  milestone,
		Scope:        models.ScopeDay,
		ScopeKey:     "2026-08-27",
	}
}

func TestResolveBlockingMilestone(t *testing.T) {
	tasks := []models.Task{
		task("milestone", "", true, models.StatusPending),
		task("child", "milestone", false, models.StatusPending),
		task("grandchild", "child", false, models.StatusPending),
		task("free", "", false, models.StatusPending),
	}

	states := ResolveBlocking(tasks, nil)

	if !states["child"].Blocked() || states["child"].MilestoneID != "milestone" {
		t.Errorf("child should be blocked by milestone, got %+v", states["child"])
	}
	if !states["grandchild"].Blocked() {
		t.Error("grandchild should inherit the milestone gate through its ancestry")
	}
	if states["free"].Blocked() {
		t.Error("free task should not be blocked")
	}
	if states["milestone"].Blocked() {
		t.Error("the milestone itself should not be blocked")
	}
}

func TestResolveBlockingMilestoneDone(t *testing.T) {
	tasks := []models.Task{
		task("milestone", "", true, models.StatusDone),
		task("child", "milestone", false, models.StatusBlocked),
	}

	states := ResolveBlocking(tasks, nil)
	if states["child"].Blocked() {
		t.Error("completing the milestone should clear the gate")
	}

	changed := ApplyBlocking(tasks, states)
	if len(changed) != 1 || changed[0].ID != "child" || changed[0].Status != models.StatusPending {
		t.Errorf("expected child to fall back to pending, got %+v", changed)
	}
}

func TestResolveBlockingConditionalAndMilestone(t *testing.T) {
	// Both gates must clear before the task unblocks
	conds := []models.Conditional{{
		ID:      "visa",
		OwnerID: "local",
		Title:   "Visa decision",
		Outcomes: []models.Outcome{
			{ID: "ok", Label: "Approved", Type: models.OutcomeSuccess, Action: models.ActionActivate},
		},
	}}
	milestone := task("milestone", "", true, models.StatusPending)
	gated := task("gated", "milestone", false, models.StatusPending)
	gated.BlockedByConditional = "visa"

	states := ResolveBlocking([]models.Task{milestone, gated}, conds)
	if states["gated"].MilestoneID != "milestone" || states["gated"].ConditionalID != "visa" {
		t.Fatalf("expected both gates, got %+v", states["gated"])
	}

	// Resolve the conditional to success: still blocked by the milestone
	resolved := conds[0]
	resolved.ResolvedOutcomeID = "ok"
	states = ResolveBlocking([]models.Task{milestone, gated}, []models.Conditional{resolved})
	if !states["gated"].Blocked() {
		t.Error("task should stay blocked while the milestone gate holds")
	}
	if states["gated"].ConditionalID != "" {
		t.Error("success resolution should clear the conditional gate")
	}

	// Complete the milestone too: fully unblocked
	milestone.Status = models.StatusDone
	states = ResolveBlocking([]models.Task{milestone, gated}, []models.Conditional{resolved})
	if states["gated"].Blocked() {
		t.Error("task should unblock once both gates clear")
	}
}

func TestResolveBlockingDanglingReferences(t *testing.T) {
	gated := task("gated", "missing-parent", false, models.StatusPending)
	gated.BlockedByConditional = "missing-cond"

	states := ResolveBlocking([]models.Task{gated}, nil)
	if states["gated"].Blocked() {
		t.Error("dangling references must degrade to non-blocking")
	}
}

func TestResolveBlockingParentCycle(t *testing.T) {
	a := task("a", "b", false, models.StatusPending)
	b := task("b", "a", false, models.StatusPending)

	states := ResolveBlocking([]models.Task{a, b}, nil)
	if states["a"].Blocked() || states["b"].Blocked() {
		t.Error("a parent cycle must not block or loop")
	}
}

func TestResolveBlockingDoneNeverBlocked(t *testing.T) {
	milestone := task("milestone", "", true, models.StatusPending)
	done := task("done", "milestone", false, models.StatusDone)

	states := ResolveBlocking([]models.Task{milestone, done}, nil)
	if states["done"].Blocked() {
		t.Error("a done task is never blocked")
	}

	if changed := ApplyBlocking([]models.Task{milestone, done}, states); len(changed) != 0 {
		t.Errorf("no status changes expected, got %+v", changed)
	}
}

func conditionalWithOutcomes() models.Conditional {
	return models.Conditional{
		ID:      "offer",
		OwnerID: "local",
		Title:   "Offer decision",
		Outcomes: []models.Outcome{
			{ID: "yes", Label: "Accepted", Type: models.OutcomeSuccess, Action: models.ActionActivate},
			{ID: "wait", Label: "Delayed", Type: models.OutcomeDelayed, Action: models.ActionPostpone, PostponeDays: 3},
			{ID: "no", Label: "Rejected", Type: models.OutcomeFailed, Action: models.ActionSwitchFallback},
		},
		FallbackConditionalRef: "plan-b",
		FallbackPostponeDays:   7,
	}
}

func TestApplyOutcomeActivate(t *testing.T) {
	cond := conditionalWithOutcomes()
	dep := task("dep", "", false, models.StatusBlocked)
	dep.BlockedByConditional = "offer"
	other := task("other", "", false, models.StatusPending)

	res, err := ApplyOutcome(cond, "yes", []models.Task{dep, other})
	if err != nil {
		t.Fatalf("ApplyOutcome returned error: %v", err)
	}
	if len(res.Changed) != 1 {
		t.Fatalf("expected 1 changed task, got %d", len(res.Changed))
	}
	if res.Changed[0].BlockedByConditional != "" {
		t.Error("activate should clear the conditional reference")
	}
}

func TestApplyOutcomePostpone(t *testing.T) {
	cond := conditionalWithOutcomes()
	dep := task("dep", "", false, models.StatusBlocked)
	dep.BlockedByConditional = "offer"
	dep.Deadline = "2026-08-30"
	dep.ScopeKey = "2026-08-28"
	dep.StartTime = "09:00"
	dep.EndTime = "10:00"

	res, err := ApplyOutcome(cond, "wait", []models.Task{dep})
	if err != nil {
		t.Fatalf("ApplyOutcome returned error: %v", err)
	}
	got := res.Changed[0]
	if got.Deadline != "2026-09-02" {
		t.Errorf("Deadline = %q, want 2026-09-02", got.Deadline)
	}
	if got.ScopeKey != "2026-08-31" {
		t.Errorf("ScopeKey = %q, want 2026-08-31", got.ScopeKey)
	}
	if got.StartTime != "09:00" || got.EndTime != "10:00" {
		t.Error("postpone must not touch HH:MM slot times")
	}
	if got.BlockedByConditional != "offer" {
		t.Error("postpone keeps the conditional reference")
	}
}

func TestApplyOutcomePostponeMonthBoundary(t *testing.T) {
	cond := conditionalWithOutcomes()
	dep := task("dep", "", false, models.StatusBlocked)
	dep.BlockedByConditional = "offer"
	dep.ScopeKey = "2026-08-30"

	res, err := ApplyOutcome(cond, "wait", []models.Task{dep})
	if err != nil {
		t.Fatalf("ApplyOutcome returned error: %v", err)
	}
	if res.Changed[0].ScopeKey != "2026-09-02" {
		t.Errorf("ScopeKey = %q, want 2026-09-02", res.Changed[0].ScopeKey)
	}
}

func TestApplyOutcomeSwitchFallback(t *testing.T) {
	cond := conditionalWithOutcomes()
	dep := task("dep", "", false, models.StatusBlocked)
	dep.BlockedByConditional = "offer"
	dep.Deadline = "2026-08-30"

	res, err := ApplyOutcome(cond, "no", []models.Task{dep})
	if err != nil {
		t.Fatalf("ApplyOutcome returned error: %v", err)
	}
	got := res.Changed[0]
	if got.BlockedByConditional != "plan-b" {
		t.Errorf("BlockedByConditional = %q, want plan-b", got.BlockedByConditional)
	}
	if got.Deadline != "2026-09-06" {
		t.Errorf("Deadline = %q, want 2026-09-06 after the fallback shift", got.Deadline)
	}
}

func TestApplyOutcomeAlreadyResolved(t *testing.T) {
	cond := conditionalWithOutcomes()
	cond.ResolvedOutcomeID = "yes"

	_, err := ApplyOutcome(cond, "wait", nil)
	if !errors.Is(err, ErrAlreadyResolved) {
		t.Errorf("expected ErrAlreadyResolved, got %v", err)
	}
}

func TestApplyOutcomeUnknown(t *testing.T) {
	cond := conditionalWithOutcomes()

	_, err := ApplyOutcome(cond, "nope", nil)
	if !errors.Is(err, ErrUnknownOutcome) {
		t.Errorf("expected ErrUnknownOutcome, got %v", err)
	}
}
