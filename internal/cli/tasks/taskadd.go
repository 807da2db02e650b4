package tasks

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/ewhitmore/focal/internal/cli"
	"github.com/ewhitmore/focal/internal/models"
	"github.com/ewhitmore/focal/internal/utils"
	"github.com/ewhitmore/focal/internal/validation"
)

type TaskAddCmd struct {
	Title        string `arg:"" help:"Task title."`
	Description  string `short:"d" help:"Task description."`
	Priority     string `short:"p" help:"Priority (low|medium|high|critical)." default:"medium"`
	Scope        string `help:"Scope bucket (day|week|month|year|client)." default:"day"`
	ScopeKey     string `help:"Scope key (date for time scopes, client id for client scope). Defaults to today for the day scope."`
	Start        string `short:"s" help:"Slot start time (HH:MM)."`
	End          string `short:"e" help:"Slot end time (HH:MM)."`
	Deadline     string `help:"Deadline (YYYY-MM-DD)."`
	Parent       string `help:"Parent task ID."`
	Contribution int    `help:"Contribution percent toward the parent's rollup (0-100)."`
	Milestone    bool   `help:"Mark as a milestone that gates its dependents."`
	BlockedBy    string `help:"Conditional ID gating this task."`
	Color        string `help:"Display color hint."`
}

func (c *TaskAddCmd) Validate() error {
	if _, err := cli.ParsePriority(c.Priority); err != nil {
		return err
	}
	if _, err := cli.ParseScope(c.Scope); err != nil {
		return err
	}

	if (c.Start == "") != (c.End == "") {
		return fmt.Errorf("--start and --end must be given together")
	}
	if c.Start != "" {
		if err := validation.ValidateTimeRange(c.Start, c.End); err != nil {
			return err
		}
	}
	if c.Deadline != "" && !utils.ValidateDateFormat(c.Deadline) {
		return fmt.Errorf("invalid deadline format (expected YYYY-MM-DD): %s", c.Deadline)
	}
	if c.Contribution < 0 || c.Contribution > 100 {
		return fmt.Errorf("contribution must be between 0 and 100")
	}
	if c.Contribution > 0 && c.Parent == "" {
		return fmt.Errorf("--contribution requires --parent")
	}
	return nil
}

func (c *TaskAddCmd) Run(ctx *cli.Context) error {
	ownerID, err := ctx.Owner()
	if err != nil {
		return err
	}

	scope, _ := cli.ParseScope(c.Scope)
	priority, _ := cli.ParsePriority(c.Priority)

	scopeKey := c.ScopeKey
	if scopeKey == "" {
		if scope != models.ScopeDay {
			return fmt.Errorf("--scope-key is required for the %s scope", scope)
		}
		scopeKey = ctx.Session.Now().Format("2006-01-02")
	}

	if c.Parent != "" {
		if _, err := ctx.Store.GetTask(ownerID, c.Parent); err != nil {
			return fmt.Errorf("parent task: %w", err)
		}
	}

	now := ctx.Session.Now()
	task := models.Task{
		ID:                   uuid.New().String(),
		OwnerID:              ownerID,
		Title:                c.Title,
		Description:          c.Description,
		Status:               models.StatusPending,
		Priority:             priority,
		Scope:                scope,
		ScopeKey:             scopeKey,
		StartTime:            c.Start,
		EndTime:              c.End,
		Deadline:             c.Deadline,
		ParentTaskID:         c.Parent,
		ContributionPercent:  c.Contribution,
		IsMilestone:          c.Milestone,
		BlockedByConditional: c.BlockedBy,
		Color:                c.Color,
		CreatedAt:            now,
		UpdatedAt:            now,
	}

	if err := task.Validate(); err != nil {
		return fmt.Errorf("invalid task: %w", err)
	}

	if err := ctx.Store.AddTask(task); err != nil {
		return err
	}

	// The new task may be gated by its ancestry or conditional right away
	if _, err := ctx.ReconcileBlocking(ownerID); err != nil {
		return err
	}

	fmt.Printf("Added task: %s (ID: %s)\n", c.Title, task.ID)
	return nil
}
