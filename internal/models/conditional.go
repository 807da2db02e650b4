package models

import (
	"fmt"
	"time"

	"github.com/ewhitmore/focal/internal/constants"
)

type OutcomeType string

const (
	OutcomeSuccess OutcomeType = "success"
	OutcomeDelayed OutcomeType = "delayed"
	OutcomeFailed  OutcomeType = "failed"
)

// OutcomeAction is what happens to dependent tasks when the outcome is chosen.
type OutcomeAction string

const (
	ActionActivate       OutcomeAction = "activate"
	ActionPostpone       OutcomeAction = "postpone"
	ActionSwitchFallback OutcomeAction = "switch_fallback"
)

type Urgency string

const (
	UrgencyLow    Urgency = "low"
	UrgencyMedium Urgency = "medium"
	UrgencyHigh   Urgency = "high"
)

// Outcome is one possible resolution of a Conditional.
type Outcome struct {
	ID           string        `json:"id"`
	Label        string        `json:"label"`
	Type         OutcomeType   `json:"type"`
	Action       OutcomeAction `json:"action"`
	PostponeDays int           `json:"postpone_days,omitempty"`
}

// Conditional is an uncertain future event with multiple possible outcomes
// that can gate dependent tasks. It is resolved exactly once; resolution is
// terminal.
type Conditional struct {
	ID           string    `json:"id"`
	OwnerID      string    `json:"owner_id"`
	Title        string    `json:"title"`
	ExpectedDate string    `json:"expected_date"` // YYYY-MM-DD format
	Urgency      Urgency   `json:"urgency"`
	Outcomes     []Outcome `json:"outcomes"`

	FallbackConditionalRef string `json:"fallback_conditional_ref,omitempty"`
	FallbackPostponeDays   int    `json:"fallback_postpone_days,omitempty"`

	ResolvedOutcomeID string     `json:"resolved_outcome_id,omitempty"`
	ResolvedAt        *time.Time `json:"resolved_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

func (c *Conditional) Validate() error {
	if c.Title == "" {
		return fmt.Errorf("conditional title cannot be empty")
	}

	if c.ExpectedDate != "" {
		if _, err := time.Parse(constants.DateFormat, c.ExpectedDate); err != nil {
			return fmt.Errorf("invalid expected date format (expected YYYY-MM-DD): %w", err)
		}
	}

	if len(c.Outcomes) == 0 {
		return fmt.Errorf("conditional must declare at least one outcome")
	}

	seen := make(map[string]bool)
	for _, o := range c.Outcomes {
		if o.ID == "" {
			return fmt.Errorf("outcome id cannot be empty")
		}
		if seen[o.ID] {
			return fmt.Errorf("duplicate outcome id: %s", o.ID)
		}
		seen[o.ID] = true

		switch o.Type {
		case OutcomeSuccess, OutcomeDelayed, OutcomeFailed:
		default:
			return fmt.Errorf("invalid outcome type: %s", o.Type)
		}

		switch o.Action {
		case ActionActivate:
		case ActionPostpone:
			if o.PostponeDays < 1 {
				return fmt.Errorf("postpone outcome %q must set postpone days", o.ID)
			}
		case ActionSwitchFallback:
			if c.FallbackConditionalRef == "" {
				return fmt.Errorf("switch_fallback outcome %q requires a fallback conditional", o.ID)
			}
		default:
			return fmt.Errorf("invalid outcome action: %s", o.Action)
		}
	}

	return nil
}

// IsResolved reports whether an outcome has already been selected.
func (c *Conditional) IsResolved() bool {
	return c.ResolvedOutcomeID != ""
}

// Outcome returns the outcome with the given id, if declared.
func (c *Conditional) Outcome(id string) (Outcome, bool) {
	for _, o := range c.Outcomes {
		if o.ID == id {
			return o, true
		}
	}
	return Outcome{}, false
}

// ResolvedOutcome returns the selected outcome for a resolved conditional.
func (c *Conditional) ResolvedOutcome() (Outcome, bool) {
	if !c.IsResolved() {
		return Outcome{}, false
	}
	return c.Outcome(c.ResolvedOutcomeID)
}
