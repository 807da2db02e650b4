package tasks

import (
	"fmt"

	"github.com/ewhitmore/focal/internal/cli"
)

type TaskDeleteCmd struct {
	ID string `arg:"" help:"Task ID to delete."`
}

func (c *TaskDeleteCmd) Run(ctx *cli.Context) error {
	ownerID, err := ctx.Owner()
	if err != nil {
		return err
	}

	task, err := ctx.Store.GetTask(ownerID, c.ID)
	if err != nil {
		return err
	}
	if err := ctx.Store.DeleteTask(ownerID, c.ID); err != nil {
		return err
	}

	fmt.Printf("Deleted task: %s (restore with 'focal restore task %s')\n", task.Title, c.ID)
	return nil
}
