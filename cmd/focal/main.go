package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/ewhitmore/focal/internal/achievements"
	"github.com/ewhitmore/focal/internal/cli"
	"github.com/ewhitmore/focal/internal/cli/achievementscmd"
	"github.com/ewhitmore/focal/internal/cli/conditionals"
	"github.com/ewhitmore/focal/internal/cli/outreach"
	"github.com/ewhitmore/focal/internal/cli/system"
	"github.com/ewhitmore/focal/internal/cli/tasks"
	"github.com/ewhitmore/focal/internal/constants"
	apperrors "github.com/ewhitmore/focal/internal/errors"
	"github.com/ewhitmore/focal/internal/keyring"
	"github.com/ewhitmore/focal/internal/logger"
	"github.com/ewhitmore/focal/internal/session"
	"github.com/ewhitmore/focal/internal/storage"
	"github.com/ewhitmore/focal/internal/utils"
)

var CLI struct {
	Version kong.VersionFlag
	Config  string `help:"Database file path (.json selects the single-file store) or PostgreSQL connection string. For PostgreSQL, credentials must NOT be embedded in the connection string. Use environment variables, .pgpass, or the OS keyring instead." default:"~/.config/focal/focal.db"`
	Owner   string `help:"Owner id to scope every query to. Defaults to the configured owner."`
	Debug   bool   `help:"Enable debug logging."`

	Init     system.InitCmd     `cmd:"" help:"Initialize focal storage."`
	Doctor   system.DoctorCmd   `cmd:"" help:"Run health checks and diagnostics."`
	Validate system.ValidateCmd `cmd:"" help:"Validate the snapshot for conflicts."`
	Board    system.TuiCmd      `cmd:"" help:"Open the interactive day board." default:"1"`
	Task     struct {
		Add    tasks.TaskAddCmd    `cmd:"" help:"Add a new task."`
		List   tasks.TaskListCmd   `cmd:"" help:"List tasks."`
		Show   tasks.TaskShowCmd   `cmd:"" help:"Show one task with rolled-up progress."`
		Done   tasks.TaskDoneCmd   `cmd:"" help:"Toggle a task between done and pending."`
		Start  tasks.TaskStartCmd  `cmd:"" help:"Start a pending task."`
		Move   tasks.TaskMoveCmd   `cmd:"" help:"Move a task's time slot."`
		Delete tasks.TaskDeleteCmd `cmd:"" help:"Delete a task."`
	} `cmd:"" help:"Manage tasks."`
	Conditional struct {
		Add     conditionals.ConditionalAddCmd     `cmd:"" help:"Add an uncertain event with outcomes."`
		List    conditionals.ConditionalListCmd    `cmd:"" help:"List conditionals."`
		Resolve conditionals.ConditionalResolveCmd `cmd:"" help:"Resolve a conditional to an outcome."`
	} `cmd:"" help:"Manage conditionals that gate tasks."`
	Outreach struct {
		Log  outreach.OutreachLogCmd  `cmd:"" help:"Log an outreach contact."`
		List outreach.OutreachListCmd `cmd:"" help:"List outreach entries."`
	} `cmd:"" help:"Track outreach contacts."`
	Achievements achievementscmd.ProgressCmd `cmd:"" help:"Show achievement progress and unlocks."`
	Restore      struct {
		Task tasks.TaskRestoreCmd `cmd:"" help:"Restore a deleted task."`
	} `cmd:"" help:"Restore deleted items."`
	Keyring struct {
		Set    system.KeyringSetCmd    `cmd:"" help:"Store a connection string in the OS keyring."`
		Get    system.KeyringGetCmd    `cmd:"" help:"Show the stored connection string (password masked)."`
		Delete system.KeyringDeleteCmd `cmd:"" help:"Delete the stored connection string."`
		Status system.KeyringStatusCmd `cmd:"" help:"Check keyring availability."`
	} `cmd:"" help:"Manage database credentials in the OS keyring."`
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name(constants.AppName),
		kong.Description("Personal productivity board: day grid, dependencies, conditionals, achievements"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{"version": constants.Version},
	)

	config := expandConfig(CLI.Config)
	if err := logger.Init(logger.Config{Debug: CLI.Debug, ConfigDir: logDir(config)}); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to initialize logging: %v\n", err)
	}

	store, err := selectStore(config)
	if err != nil {
		apperrors.Fatal(err)
	}

	hub := storage.NewHub()
	notifying := storage.WithNotifications(store, hub)

	// Init handles its own loading; everything else needs a live store
	if ctx.Selected() != nil && ctx.Selected().Name != "init" {
		if err := store.Load(); err != nil {
			apperrors.Fatal(err)
		}
	}

	appCtx := &cli.Context{
		Store:   notifying,
		Hub:     hub,
		Watcher: storage.NewWatcher(notifying, hub),
		Session: openSession(notifying, ctx.Selected() != nil && ctx.Selected().Name == "init"),
		Catalog: achievements.DefaultCatalog(),
	}
	defer appCtx.Session.Close()
	defer store.Close()

	if err := ctx.Run(appCtx); err != nil {
		store.Close()
		appCtx.Session.Close()
		apperrors.Fatal(err)
	}
}

// selectStore picks the backend from the config value: Postgres for
// connection strings, the single-file JSON store for .json paths, SQLite
// otherwise. Postgres connection strings without a usable credential source
// fall back to the OS keyring.
func selectStore(config string) (storage.Provider, error) {
	if !storage.IsPostgresConnString(config) {
		if strings.HasSuffix(config, ".json") {
			return storage.NewJSONStore(config), nil
		}
		return storage.NewSQLiteStore(config), nil
	}

	if storage.HasEmbeddedCredentials(config) {
		return nil, errors.New("PostgreSQL connection strings with embedded credentials are not allowed; use the OS keyring ('focal keyring set'), environment variables, or .pgpass")
	}

	// Prefer a keyring-stored string when one exists; it may carry the
	// credentials the bare flag value omits.
	if stored, err := keyring.GetConnectionString(); err == nil && stored != "" {
		logger.Debug("Using connection string from OS keyring")
		return storage.NewPostgresStore(stored), nil
	}
	return storage.NewPostgresStore(config), nil
}

// openSession resolves the owner and timezone for this run. The --owner flag
// wins; otherwise settings decide; a fresh (or uninitialized) store falls
// back to the defaults.
func openSession(store storage.Provider, initializing bool) *session.Session {
	ownerID := CLI.Owner
	timezone := constants.DefaultTimezone

	if !initializing {
		if settings, err := store.GetSettings(); err == nil {
			if ownerID == "" {
				ownerID = settings.OwnerID
			}
			if settings.Timezone != "" {
				timezone = settings.Timezone
			}
		}
	}
	if ownerID == "" {
		ownerID = constants.DefaultOwner
	}

	loc, err := utils.LoadLocation(timezone)
	if err != nil {
		logger.Warn("Invalid timezone in settings, using local", "timezone", timezone, "error", err)
		loc = nil
	}
	return session.Open(ownerID, loc)
}

// logDir picks where log files live. Postgres configs have no local data
// directory, so logs go to the default config dir instead.
func logDir(config string) string {
	if !storage.IsPostgresConnString(config) {
		return filepath.Dir(config)
	}
	return filepath.Dir(expandConfig(constants.DefaultConfigPath))
}

// expandConfig resolves a leading ~ in the config path.
func expandConfig(config string) string {
	if storage.IsPostgresConnString(config) {
		return config
	}
	if len(config) >= 2 && config[:2] == "~/" {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, config[2:])
		}
	}
	return config
}
