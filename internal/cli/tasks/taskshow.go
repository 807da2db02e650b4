package tasks

import (
	"fmt"

	"github.com/ewhitmore/focal/internal/cli"
	"github.com/ewhitmore/focal/internal/lifecycle"
	"github.com/ewhitmore/focal/internal/rollup"
)

type TaskShowCmd struct {
	ID string `arg:"" help:"Task ID to show."`
}

func (c *TaskShowCmd) Run(ctx *cli.Context) error {
	ownerID, err := ctx.Owner()
	if err != nil {
		return err
	}

	task, err := ctx.Store.GetTask(ownerID, c.ID)
	if err != nil {
		return err
	}

	fmt.Printf("%s %s\n", cli.StatusGlyph(task.Status), task.Title)
	if task.Description != "" {
		fmt.Printf("  %s\n", task.Description)
	}
	fmt.Printf("  Status:   %s\n", task.Status)
	fmt.Printf("  Priority: %s\n", task.Priority)
	fmt.Printf("  Scope:    %s/%s\n", task.Scope, task.ScopeKey)
	if task.HasSlot() {
		fmt.Printf("  Slot:     %s - %s\n", task.StartTime, task.EndTime)
	}
	if task.Deadline != "" {
		fmt.Printf("  Deadline: %s\n", task.Deadline)
	}
	if task.IsMilestone {
		fmt.Printf("  Milestone gating %d condition(s)\n", len(task.MilestoneConditions))
		for _, cond := range task.MilestoneConditions {
			fmt.Printf("    - %s (%s confidence)\n", cond.Label, cond.Confidence)
		}
	}
	if task.BlockedByConditional != "" {
		fmt.Printf("  Gated by conditional: %s\n", task.BlockedByConditional)
	}

	// Progress: rolled up from children when there are weighted children,
	// otherwise the task's own (checklist-aware) value.
	all, err := ctx.Store.GetAllTasks(ownerID)
	if err != nil {
		return fmt.Errorf("failed to get tasks: %w", err)
	}
	children := rollup.Children(task, all)
	if len(children) > 0 {
		fmt.Printf("  Progress: %d%% (rolled up from %d children)\n", rollup.Progress(task, children), len(children))
		for _, child := range children {
			fmt.Printf("    %s %s - %d%% (weight %d%%)\n",
				cli.StatusGlyph(child.Status), child.Title, child.Progress, child.ContributionPercent)
		}
	} else {
		fmt.Printf("  Progress: %d%%\n", lifecycle.DisplayProgress(task))
	}

	if len(task.Content.Checklist) > 0 {
		fmt.Println("  Checklist:")
		for _, item := range task.Content.Checklist {
			mark := " "
			if item.Done {
				mark = "x"
			}
			fmt.Printf("    [%s] %s\n", mark, item.Text)
		}
	}
	for _, link := range task.Content.Links {
		fmt.Printf("  Link: %s %s\n", link.Label, link.URL)
	}
	return nil
}
