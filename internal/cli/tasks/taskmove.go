package tasks

import (
	"fmt"

	"github.com/ewhitmore/focal/internal/cli"
	"github.com/ewhitmore/focal/internal/grid"
	"github.com/ewhitmore/focal/internal/validation"
)

// TaskMoveCmd reassigns a task's time slot, either to explicit times or by a
// pixel delta on the day canvas (snapped to 15 minutes, duration preserved).
type TaskMoveCmd struct {
	ID    string  `arg:"" help:"Task ID to move."`
	Start string  `short:"s" help:"New slot start time (HH:MM)."`
	End   string  `short:"e" help:"New slot end time (HH:MM)."`
	Delta float64 `help:"Move the existing slot by a canvas pixel delta instead of explicit times."`
}

func (c *TaskMoveCmd) Validate() error {
	explicit := c.Start != "" || c.End != ""
	if explicit && c.Delta != 0 {
		return fmt.Errorf("--delta cannot be combined with explicit times")
	}
	if !explicit && c.Delta == 0 {
		return fmt.Errorf("either --start/--end or --delta is required")
	}
	if explicit {
		if c.Start == "" || c.End == "" {
			return fmt.Errorf("--start and --end must be given together")
		}
		return validation.ValidateTimeRange(c.Start, c.End)
	}
	return nil
}

func (c *TaskMoveCmd) Run(ctx *cli.Context) error {
	ownerID, err := ctx.Owner()
	if err != nil {
		return err
	}

	task, err := ctx.Store.GetTask(ownerID, c.ID)
	if err != nil {
		return err
	}

	if c.Delta != 0 {
		if !task.HasSlot() {
			return fmt.Errorf("task %q has no slot to move; use --start/--end", task.Title)
		}
		slot, err := grid.Move(task.StartTime, task.EndTime, c.Delta)
		if err != nil {
			return err
		}
		task.StartTime = slot.Start
		task.EndTime = slot.End
	} else {
		task.StartTime = c.Start
		task.EndTime = c.End
	}

	task.UpdatedAt = ctx.Session.Now()
	if err := task.Validate(); err != nil {
		return fmt.Errorf("invalid slot: %w", err)
	}
	if err := ctx.Store.UpdateTask(task); err != nil {
		return err
	}

	fmt.Printf("Moved task %q to %s - %s\n", task.Title, task.StartTime, task.EndTime)
	return nil
}
