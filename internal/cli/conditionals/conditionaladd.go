package conditionals

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/ewhitmore/focal/internal/cli"
	"github.com/ewhitmore/focal/internal/models"
	"github.com/ewhitmore/focal/internal/utils"
)

type ConditionalAddCmd struct {
	Title        string   `arg:"" help:"Conditional title."`
	ExpectedDate string   `short:"d" help:"Expected resolution date (YYYY-MM-DD)."`
	Urgency      string   `short:"u" help:"Urgency (low|medium|high)." default:"medium"`
	Outcome      []string `short:"o" help:"Outcome spec 'type:action[:days]:label'. Repeatable. Types: success|delayed|failed. Actions: activate|postpone|switch_fallback."`
	Fallback     string   `help:"Fallback conditional ID for switch_fallback outcomes."`
	FallbackDays int      `help:"Days to postpone dependents when switching to the fallback."`
}

func (c *ConditionalAddCmd) Validate() error {
	switch models.Urgency(c.Urgency) {
	case models.UrgencyLow, models.UrgencyMedium, models.UrgencyHigh:
	default:
		return fmt.Errorf("invalid urgency %q (expected low|medium|high)", c.Urgency)
	}
	if c.ExpectedDate != "" && !utils.ValidateDateFormat(c.ExpectedDate) {
		return fmt.Errorf("invalid expected date format (expected YYYY-MM-DD): %s", c.ExpectedDate)
	}
	if len(c.Outcome) == 0 {
		return fmt.Errorf("at least one --outcome is required")
	}
	for _, spec := range c.Outcome {
		if _, err := parseOutcomeSpec(0, spec); err != nil {
			return err
		}
	}
	return nil
}

func (c *ConditionalAddCmd) Run(ctx *cli.Context) error {
	ownerID, err := ctx.Owner()
	if err != nil {
		return err
	}

	var outcomes []models.Outcome
	for i, spec := range c.Outcome {
		outcome, err := parseOutcomeSpec(i+1, spec)
		if err != nil {
			return err
		}
		outcomes = append(outcomes, outcome)
	}

	if c.Fallback != "" {
		if _, err := ctx.Store.GetConditional(ownerID, c.Fallback); err != nil {
			return fmt.Errorf("fallback conditional: %w", err)
		}
	}

	cond := models.Conditional{
		ID:                     uuid.New().String(),
		OwnerID:                ownerID,
		Title:                  c.Title,
		ExpectedDate:           c.ExpectedDate,
		Urgency:                models.Urgency(c.Urgency),
		Outcomes:               outcomes,
		FallbackConditionalRef: c.Fallback,
		FallbackPostponeDays:   c.FallbackDays,
		CreatedAt:              ctx.Session.Now(),
	}

	if err := cond.Validate(); err != nil {
		return fmt.Errorf("invalid conditional: %w", err)
	}
	if err := ctx.Store.AddConditional(cond); err != nil {
		return err
	}

	fmt.Printf("Added conditional: %s (ID: %s)\n", c.Title, cond.ID)
	for _, o := range outcomes {
		fmt.Printf("  outcome %s: %s -> %s\n", o.ID, o.Label, o.Action)
	}
	return nil
}

// parseOutcomeSpec parses 'type:action[:days]:label'. The days part is only
// present for postpone actions.
func parseOutcomeSpec(n int, spec string) (models.Outcome, error) {
	parts := strings.SplitN(spec, ":", 4)
	if len(parts) < 3 {
		return models.Outcome{}, fmt.Errorf("invalid outcome spec %q (expected type:action[:days]:label)", spec)
	}

	outcome := models.Outcome{
		ID:     fmt.Sprintf("o%d", n),
		Type:   models.OutcomeType(parts[0]),
		Action: models.OutcomeAction(parts[1]),
	}

	if outcome.Action == models.ActionPostpone {
		if len(parts) != 4 {
			return models.Outcome{}, fmt.Errorf("postpone outcome %q must include days (type:postpone:days:label)", spec)
		}
		days, err := strconv.Atoi(parts[2])
		if err != nil || days < 1 {
			return models.Outcome{}, fmt.Errorf("invalid postpone days in outcome spec %q", spec)
		}
		outcome.PostponeDays = days
		outcome.Label = parts[3]
	} else {
		outcome.Label = strings.Join(parts[2:], ":")
	}

	if outcome.Label == "" {
		return models.Outcome{}, fmt.Errorf("outcome spec %q is missing a label", spec)
	}
	return outcome, nil
}
