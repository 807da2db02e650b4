package models

import "testing"

func validConditional() Conditional {
	return Conditional{
		ID:      "c1",
		OwnerID: "local",
		Title:   "visa decision",
		Outcomes: []Outcome{
			{ID: "yes", Label: "Approved", Type: OutcomeSuccess, Action: ActionActivate},
			{ID: "wait", Label: "Delayed", Type: OutcomeDelayed, Action: ActionPostpone, PostponeDays: 14},
		},
	}
}

func TestConditionalValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Conditional)
		wantErr bool
	}{
		{"valid", func(*Conditional) {}, false},
		{"empty title", func(c *Conditional) { c.Title = "" }, true},
		{"no outcomes", func(c *Conditional) { c.Outcomes = nil }, true},
		{"valid expected date", func(c *Conditional) { c.ExpectedDate = "2026-09-15" }, false},
		{"bad expected date", func(c *Conditional) { c.ExpectedDate = "soon" }, true},
		{"empty outcome id", func(c *Conditional) { c.Outcomes[0].ID = "" }, true},
		{"duplicate outcome id", func(c *Conditional) { c.Outcomes[1].ID = "yes" }, true},
		{"unknown outcome type", func(c *Conditional) { c.Outcomes[0].Type = "maybe" }, true},
		{"unknown outcome action", func(c *Conditional) { c.Outcomes[0].Action = "explode" }, true},
		{"postpone without days", func(c *Conditional) { c.Outcomes[1].PostponeDays = 0 }, true},
		{"fallback without ref", func(c *Conditional) { c.Outcomes[0].Action = ActionSwitchFallback }, true},
		{"fallback with ref", func(c *Conditional) {
			c.Outcomes[0].Action = ActionSwitchFallback
			c.FallbackConditionalRef = "plan-b"
		}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cond := validConditional()
			tt.mutate(&cond)
			err := cond.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestConditionalResolvedOutcome(t *testing.T) {
	cond := validConditional()
	if _, ok := cond.ResolvedOutcome(); ok {
		t.Error("unresolved conditional has no resolved outcome")
	}

	cond.ResolvedOutcomeID = "wait"
	got, ok := cond.ResolvedOutcome()
	if !ok || got.ID != "wait" {
		t.Errorf("ResolvedOutcome = %+v, %v", got, ok)
	}
	if !cond.IsResolved() {
		t.Error("IsResolved should be true")
	}
}
