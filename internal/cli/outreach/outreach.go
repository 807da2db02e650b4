package outreach

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/ewhitmore/focal/internal/cli"
	"github.com/ewhitmore/focal/internal/constants"
	"github.com/ewhitmore/focal/internal/models"
)

type OutreachLogCmd struct {
	Contact string `arg:"" help:"Who was contacted."`
	Program string `short:"p" help:"Program the contact counts toward."`
	Note    string `short:"n" help:"Free-form note."`
}

func (c *OutreachLogCmd) Run(ctx *cli.Context) error {
	ownerID, err := ctx.Owner()
	if err != nil {
		return err
	}

	entry := models.OutreachEntry{
		ID:        uuid.New().String(),
		OwnerID:   ownerID,
		Contact:   c.Contact,
		Program:   c.Program,
		Note:      c.Note,
		CreatedAt: ctx.Session.Now(),
	}
	if err := entry.Validate(); err != nil {
		return fmt.Errorf("invalid outreach entry: %w", err)
	}
	if err := ctx.Store.AddOutreachEntry(entry); err != nil {
		return err
	}

	fmt.Printf("Logged outreach to %s\n", c.Contact)

	// Outreach feeds achievement metrics directly
	result, err := ctx.RecomputeAchievements(ownerID)
	if err != nil {
		return err
	}
	for _, unlock := range result.Unlocks {
		for _, a := range ctx.Catalog {
			if a.ID == unlock.AchievementID {
				fmt.Printf("🏆 Achievement unlocked: %s (+%d XP)\n", a.Title, a.RewardXP)
			}
		}
	}
	return nil
}

type OutreachListCmd struct {
	Program string `short:"p" help:"Filter by program."`
}

func (c *OutreachListCmd) Run(ctx *cli.Context) error {
	ownerID, err := ctx.Owner()
	if err != nil {
		return err
	}

	entries, err := ctx.Store.GetOutreachEntries(ownerID)
	if err != nil {
		return fmt.Errorf("failed to get outreach entries: %w", err)
	}

	shown := 0
	for _, e := range entries {
		if c.Program != "" && e.Program != c.Program {
			continue
		}
		shown++
		line := fmt.Sprintf("  %s  %s", e.CreatedAt.Format(constants.DateFormat), e.Contact)
		if e.Program != "" {
			line += fmt.Sprintf(" [%s]", e.Program)
		}
		if e.Note != "" {
			line += " - " + e.Note
		}
		fmt.Println(line)
	}
	if shown == 0 {
		fmt.Println("No outreach entries found")
	}
	return nil
}
