package tasks

import (
	"fmt"

	"github.com/ewhitmore/focal/internal/cli"
	"github.com/ewhitmore/focal/internal/lifecycle"
	"github.com/ewhitmore/focal/internal/models"
)

type TaskDoneCmd struct {
	ID string `arg:"" help:"Task ID to toggle."`
}

func (c *TaskDoneCmd) Run(ctx *cli.Context) error {
	ownerID, err := ctx.Owner()
	if err != nil {
		return err
	}

	task, err := ctx.Store.GetTask(ownerID, c.ID)
	if err != nil {
		return err
	}

	toggled, err := lifecycle.ToggleDone(task)
	if err != nil {
		return err
	}
	toggled.UpdatedAt = ctx.Session.Now()

	if err := ctx.Store.UpdateTask(toggled); err != nil {
		return err
	}

	if toggled.Status == models.StatusDone {
		event := models.CompletionEvent{TaskID: toggled.ID, CompletedAt: ctx.Session.Now()}
		if err := ctx.Store.AddCompletion(ownerID, event); err != nil {
			return fmt.Errorf("failed to record completion: %w", err)
		}
		fmt.Printf("Completed task: %s\n", toggled.Title)
	} else {
		fmt.Printf("Reopened task: %s\n", toggled.Title)
	}

	// Completing a milestone may unblock dependents; reopening re-gates them
	changed, err := ctx.ReconcileBlocking(ownerID)
	if err != nil {
		return err
	}
	if changed > 0 {
		fmt.Printf("Updated blocking state for %d dependent task(s)\n", changed)
	}

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

type TaskStartCmd struct {
	ID string `arg:"" help:"Task ID to start."`
}

func (c *TaskStartCmd) Run(ctx *cli.Context) error {
	ownerID, err := ctx.Owner()
	if err != nil {
		return err
	}

	task, err := ctx.Store.GetTask(ownerID, c.ID)
	if err != nil {
		return err
	}

	started, err := lifecycle.Start(task)
	if err != nil {
		return err
	}
	started.UpdatedAt = ctx.Session.Now()

	if err := ctx.Store.UpdateTask(started); err != nil {
		return err
	}

	fmt.Printf("Started task: %s\n", started.Title)
	return nil
}
