package system

import (
	"fmt"
	"time"

	"github.com/ewhitmore/focal/internal/cli"
	"github.com/ewhitmore/focal/internal/keyring"
	"github.com/ewhitmore/focal/internal/storage"
	"github.com/ewhitmore/focal/internal/storage/sqlite"
	"github.com/ewhitmore/focal/internal/utils"
	"github.com/ewhitmore/focal/internal/validation"
)

type DoctorCmd struct{}

func (cmd *DoctorCmd) Run(ctx *cli.Context) error {
	fmt.Println("Running diagnostics...")
	fmt.Println()

	hasError := false
	dbReachable := false

	if err := checkDBReachable(ctx); err != nil {
		fmt.Printf("❌ Database reachable: FAIL\n")
		fmt.Printf("   Error: %v\n", err)
		hasError = true
	} else {
		fmt.Printf("✓ Database reachable: OK\n")
		dbReachable = true
	}

	if err := checkStaleLock(ctx); err != nil {
		fmt.Printf("⚠ Lockfile: WARNING\n")
		fmt.Printf("   %v\n", err)
	} else {
		fmt.Printf("✓ Lockfile: OK\n")
	}

	if dbReachable {
		if err := checkSettings(ctx); err != nil {
			fmt.Printf("❌ Settings: FAIL\n")
			fmt.Printf("   Error: %v\n", err)
			hasError = true
		} else {
			fmt.Printf("✓ Settings: OK\n")
		}
	} else {
		fmt.Printf("⊘ Settings: SKIPPED (database not reachable)\n")
	}

	if dbReachable {
		if err := checkSnapshot(ctx); err != nil {
			fmt.Printf("❌ Data validation: FAIL\n")
			fmt.Printf("   Error: %v\n", err)
			hasError = true
		} else {
			fmt.Printf("✓ Data validation: OK\n")
		}
	} else {
		fmt.Printf("⊘ Data validation: SKIPPED (database not reachable)\n")
	}

	if dbReachable {
		if err := checkOverdueConditionals(ctx); err != nil {
			fmt.Printf("⚠ Conditionals: WARNING\n")
			fmt.Printf("   %v\n", err)
		} else {
			fmt.Printf("✓ Conditionals: OK\n")
		}
	} else {
		fmt.Printf("⊘ Conditionals: SKIPPED (database not reachable)\n")
	}

	if err := checkClockTimezone(); err != nil {
		fmt.Printf("❌ Clock/timezone: FAIL\n")
		fmt.Printf("   Error: %v\n", err)
		hasError = true
	} else {
		fmt.Printf("✓ Clock/timezone: OK\n")
	}

	if keyring.IsAvailable() {
		fmt.Printf("✓ OS keyring: OK\n")
	} else {
		fmt.Printf("⚠ OS keyring: WARNING\n")
		fmt.Printf("   keyring unavailable; Postgres credentials must come from the environment or .pgpass\n")
	}

	fmt.Println()
	if hasError {
		fmt.Println("Diagnostics completed with errors.")
		return fmt.Errorf("one or more health checks failed")
	}

	fmt.Println("All diagnostics passed!")
	return nil
}

func checkDBReachable(ctx *cli.Context) error {
	if err := ctx.Store.Load(); err != nil {
		return fmt.Errorf("failed to load database: %w", err)
	}

	if sqliteStore, ok := rawStore(ctx).(*sqlite.Store); ok {
		db := sqliteStore.GetDB()
		if db == nil {
			return fmt.Errorf("database connection is nil")
		}
		var result int
		if err := db.QueryRow("SELECT 1").Scan(&result); err != nil {
			return fmt.Errorf("failed to query database: %w", err)
		}
	}
	return nil
}

// checkStaleLock flags a lockfile whose owning process is gone.
func checkStaleLock(ctx *cli.Context) error {
	path := lockPath(ctx.Store.GetConfigPath())
	if path == "" {
		return nil
	}

	pid, ok := readLockPID(path)
	if !ok {
		return nil
	}
	if !processAlive(pid) {
		return fmt.Errorf("stale lockfile at %s (PID %d is gone); it will be replaced on the next run", path, pid)
	}
	return nil
}

func checkSettings(ctx *cli.Context) error {
	settings, err := ctx.Store.GetSettings()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}
	if settings.DayStart == "" || settings.DayEnd == "" {
		return fmt.Errorf("settings row incomplete (run 'focal init')")
	}
	if !utils.ValidateTimeFormat(settings.DayStart) || !utils.ValidateTimeFormat(settings.DayEnd) {
		return fmt.Errorf("settings day window is not HH:MM: %s-%s", settings.DayStart, settings.DayEnd)
	}
	if !utils.ValidateTimezone(settings.Timezone) {
		return fmt.Errorf("invalid timezone in settings: %s", settings.Timezone)
	}
	return nil
}

func checkSnapshot(ctx *cli.Context) error {
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
	if result.HasErrors() {
		return fmt.Errorf("%s", result.FormatReport())
	}
	return nil
}

// checkOverdueConditionals warns about unresolved conditionals whose expected
// date has passed.
func checkOverdueConditionals(ctx *cli.Context) error {
	ownerID, err := ctx.Owner()
	if err != nil {
		return err
	}
	conds, err := ctx.Store.GetAllConditionals(ownerID)
	if err != nil {
		return fmt.Errorf("failed to get conditionals: %w", err)
	}

	today := ctx.Session.Now().Format("2006-01-02")
	overdue := 0
	for _, c := range conds {
		if !c.IsResolved() && c.ExpectedDate != "" && c.ExpectedDate < today {
			overdue++
		}
	}
	if overdue > 0 {
		return fmt.Errorf("%d unresolved conditional(s) past their expected date; resolve them with 'focal conditional resolve'", overdue)
	}
	return nil
}

func checkClockTimezone() error {
	now := time.Now()
	if now.Year() < 2020 || now.Year() > 2100 {
		return fmt.Errorf("system time appears incorrect: %s", now.Format(time.RFC3339))
	}
	return nil
}

// rawStore unwraps the notification decorator for backend-specific probes.
func rawStore(ctx *cli.Context) storage.Provider {
	if ns, ok := ctx.Store.(*storage.NotifyingStore); ok {
		return ns.Provider
	}
	return ctx.Store
}
