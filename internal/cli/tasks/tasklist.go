package tasks

import (
	"fmt"

	"github.com/ewhitmore/focal/internal/cli"
	"github.com/ewhitmore/focal/internal/lifecycle"
	"github.com/ewhitmore/focal/internal/models"
)

type TaskListCmd struct {
	Scope    string `help:"Scope bucket to list (day|week|month|year|client)." default:"day"`
	ScopeKey string `help:"Scope key to list. Defaults to today for the day scope."`
	All      bool   `short:"a" help:"List every task regardless of scope."`
	ShowIDs  bool   `help:"Show task IDs." name:"show-ids"`
}

func (c *TaskListCmd) Validate() error {
	if c.All {
		return nil
	}
	_, err := cli.ParseScope(c.Scope)
	return err
}

func (c *TaskListCmd) Run(ctx *cli.Context) error {
	ownerID, err := ctx.Owner()
	if err != nil {
		return err
	}

	var tasks []models.Task
	if c.All {
		tasks, err = ctx.Store.GetAllTasks(ownerID)
	} else {
		scope, _ := cli.ParseScope(c.Scope)
		scopeKey := c.ScopeKey
		if scopeKey == "" {
			if scope != models.ScopeDay {
				return fmt.Errorf("--scope-key is required for the %s scope", scope)
			}
			scopeKey = ctx.Session.Now().Format("2006-01-02")
		}
		tasks, err = ctx.Store.GetTasksByScope(ownerID, scope, scopeKey)
	}
	if err != nil {
		return fmt.Errorf("failed to get tasks: %w", err)
	}
	if len(tasks) == 0 {
		fmt.Println("No tasks found")
		return nil
	}

	fmt.Println("Tasks:")
	for _, task := range tasks {
		idStr := ""
		if c.ShowIDs {
			idStr = fmt.Sprintf(" (ID: %s)", task.ID)
		}

		fmt.Printf("  %s %s%s - %d%% (%s)\n",
			cli.StatusGlyph(task.Status), task.Title, idStr,
			lifecycle.DisplayProgress(task), task.Priority)

		if task.HasSlot() {
			fmt.Printf("      Slot: %s - %s\n", task.StartTime, task.EndTime)
		}
		if task.Deadline != "" {
			fmt.Printf("      Deadline: %s\n", task.Deadline)
		}
	}
	return nil
}
