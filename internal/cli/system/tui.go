package system

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ewhitmore/focal/internal/cli"
	"github.com/ewhitmore/focal/internal/tui"
	"github.com/ewhitmore/focal/internal/utils"
)

type TuiCmd struct {
	Day string `short:"d" help:"Day to show (YYYY-MM-DD). Defaults to today."`
}

func (c *TuiCmd) Validate() error {
	if c.Day != "" && !utils.ValidateDateFormat(c.Day) {
		return fmt.Errorf("invalid day format (expected YYYY-MM-DD): %s", c.Day)
	}
	return nil
}

func (c *TuiCmd) Run(ctx *cli.Context) error {
	release, err := acquireLock(ctx.Store.GetConfigPath())
	if err != nil {
		return err
	}
	defer release()

	day := c.Day
	if day == "" {
		day = ctx.Session.Now().Format("2006-01-02")
	}

	model := tui.NewModel(ctx.Store, ctx.Watcher, ctx.Session, day, ctx.Catalog)
	program := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}
