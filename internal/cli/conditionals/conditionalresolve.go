package conditionals

import (
	"fmt"

	"github.com/charmbracelet/huh"

	"github.com/ewhitmore/focal/internal/cli"
	"github.com/ewhitmore/focal/internal/models"
	"github.com/ewhitmore/focal/internal/resolver"
)

type ConditionalResolveCmd struct {
	ID      string `arg:"" help:"Conditional ID to resolve."`
	Outcome string `short:"o" help:"Outcome ID to select. Omit for an interactive picker."`
}

func (c *ConditionalResolveCmd) Run(ctx *cli.Context) error {
	ownerID, err := ctx.Owner()
	if err != nil {
		return err
	}

	cond, err := ctx.Store.GetConditional(ownerID, c.ID)
	if err != nil {
		return err
	}

	outcomeID := c.Outcome
	if outcomeID == "" {
		outcomeID, err = pickOutcome(cond)
		if err != nil {
			return err
		}
	}

	tasks, err := ctx.Store.GetAllTasks(ownerID)
	if err != nil {
		return fmt.Errorf("failed to get tasks: %w", err)
	}

	// Compute the dependent effects first; ApplyOutcome rejects a second
	// resolution before anything is written.
	resolution, err := resolver.ApplyOutcome(cond, outcomeID, tasks)
	if err != nil {
		return err
	}

	if err := ctx.Store.ResolveConditional(ownerID, c.ID, outcomeID, ctx.Session.Now()); err != nil {
		return err
	}

	for _, t := range resolution.Changed {
		t.UpdatedAt = ctx.Session.Now()
		if err := ctx.Store.UpdateTask(t); err != nil {
			return fmt.Errorf("failed to update dependent task %s: %w", t.ID, err)
		}
	}

	fmt.Printf("Resolved %q -> %s (%s)\n", cond.Title, resolution.Outcome.Label, resolution.Outcome.Action)
	switch resolution.Outcome.Action {
	case models.ActionPostpone:
		fmt.Printf("Postponed %d dependent task(s) by %d day(s)\n", len(resolution.Changed), resolution.Outcome.PostponeDays)
	case models.ActionSwitchFallback:
		fmt.Printf("Re-pointed %d dependent task(s) at fallback %s\n", len(resolution.Changed), cond.FallbackConditionalRef)
	default:
		fmt.Printf("Activated %d dependent task(s)\n", len(resolution.Changed))
	}

	changed, err := ctx.ReconcileBlocking(ownerID)
	if err != nil {
		return err
	}
	if changed > 0 {
		fmt.Printf("Updated blocking state for %d task(s)\n", changed)
	}
	return nil
}

func pickOutcome(cond models.Conditional) (string, error) {
	if cond.IsResolved() {
		return "", fmt.Errorf("conditional %q is already resolved", cond.Title)
	}

	options := make([]huh.Option[string], 0, len(cond.Outcomes))
	for _, o := range cond.Outcomes {
		label := fmt.Sprintf("%s (%s/%s)", o.Label, o.Type, o.Action)
		options = append(options, huh.NewOption(label, o.ID))
	}

	var choice string
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title(fmt.Sprintf("How did %q turn out?", cond.Title)).
				Options(options...).
				Value(&choice),
		),
	)
	if err := form.Run(); err != nil {
		return "", fmt.Errorf("interactive form error: %w", err)
	}
	return choice, nil
}
