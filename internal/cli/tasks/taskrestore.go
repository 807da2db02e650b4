package tasks

import (
	"fmt"

	"github.com/ewhitmore/focal/internal/cli"
)

type TaskRestoreCmd struct {
	ID string `arg:"" help:"Task ID to restore."`
}

func (c *TaskRestoreCmd) Run(ctx *cli.Context) error {
	ownerID, err := ctx.Owner()
	if err != nil {
		return err
	}

	if err := ctx.Store.RestoreTask(ownerID, c.ID); err != nil {
		return err
	}

	// The restored task re-enters blocking resolution
	if _, err := ctx.ReconcileBlocking(ownerID); err != nil {
		return err
	}

	fmt.Printf("Restored task: %s\n", c.ID)
	return nil
}
