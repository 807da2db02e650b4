package constants

const (
	AppName            = "focal"
	Version            = "v0.3.0"
	DefaultKeyringUser = "database-connection"
	DefaultConfigPath  = "~/.config/focal/focal.db"

	// DateFormat is the standard date format used throughout the application (YYYY-MM-DD)
	DateFormat = "2006-01-02"

	// TimeFormat is the standard time format used throughout the application (HH:MM)
	TimeFormat = "15:04"

	// Lockfile used to detect a concurrently running instance
	LockfileName = "focal.lock"
)

// Day-grid geometry. The board maps a 24-hour day onto a fixed-height
// vertical canvas; all geometry math lives in internal/grid.
const (
	GridHours = 24

	// HourHeight is the canvas height of one hour, in pixels
	HourHeight = 60

	// MinSlotHeight keeps very short tasks visible on the board
	MinSlotHeight = 15

	// SnapMinutes is the granularity drag/drop and slot creation round to
	SnapMinutes = 15

	// DefaultSlotMinutes is the proposed duration for empty-slot creation
	DefaultSlotMinutes = 60
)

// Default settings values
const (
	DefaultDayStart = "07:00"
	DefaultDayEnd   = "22:00"
	DefaultTimezone = "Local" // Use system local timezone by default
	DefaultOwner    = "local"
)
