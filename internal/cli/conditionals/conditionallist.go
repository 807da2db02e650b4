package conditionals

import (
	"fmt"

	"github.com/ewhitmore/focal/internal/cli"
)

type ConditionalListCmd struct {
	Pending bool `help:"Show only unresolved conditionals."`
	ShowIDs bool `help:"Show conditional IDs." name:"show-ids"`
}

func (c *ConditionalListCmd) Run(ctx *cli.Context) error {
	ownerID, err := ctx.Owner()
	if err != nil {
		return err
	}

	conds, err := ctx.Store.GetAllConditionals(ownerID)
	if err != nil {
		return fmt.Errorf("failed to get conditionals: %w", err)
	}
	if len(conds) == 0 {
		fmt.Println("No conditionals found")
		return nil
	}

	fmt.Println("Conditionals:")
	for _, cond := range conds {
		if c.Pending && cond.IsResolved() {
			continue
		}

		idStr := ""
		if c.ShowIDs {
			idStr = fmt.Sprintf(" (ID: %s)", cond.ID)
		}

		state := "pending"
		if outcome, ok := cond.ResolvedOutcome(); ok {
			state = fmt.Sprintf("resolved: %s", outcome.Label)
		}

		fmt.Printf("  [%s] %s%s (%s urgency)\n", state, cond.Title, idStr, cond.Urgency)
		if cond.ExpectedDate != "" {
			fmt.Printf("      Expected: %s\n", cond.ExpectedDate)
		}
		if !cond.IsResolved() {
			for _, o := range cond.Outcomes {
				fmt.Printf("      %s: %s (%s/%s)\n", o.ID, o.Label, o.Type, o.Action)
			}
		}
	}
	return nil
}
