package system

import (
	"fmt"

	"github.com/ewhitmore/focal/internal/cli"
	"github.com/ewhitmore/focal/internal/validation"
)

type ValidateCmd struct{}

func (cmd *ValidateCmd) Run(ctx *cli.Context) error {
	ownerID, err := ctx.Owner()
	if err != nil {
		return err
	}

	tasks, err := ctx.Store.GetAllTasks(ownerID)
	if err != nil {
		return fmt.Errorf("failed to get tasks: %w", err)
	}
	conds, err := ctx.Store.GetAllConditionals(ownerID)
	if err != nil {
		return fmt.Errorf("failed to get conditionals: %w", err)
	}

	result := validation.New().ValidateTasks(tasks, conds)
	fmt.Print(result.FormatReport())
	if result.HasErrors() {
		return fmt.Errorf("validation found errors")
	}
	return nil
}
