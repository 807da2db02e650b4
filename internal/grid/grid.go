// Package grid maps a 24-hour day onto a fixed-height vertical canvas and
// resolves pointer gestures (drag moves, empty-slot clicks) into time-slot
// assignments. All math is minutes-from-midnight arithmetic; invalid ranges
// are rejected by the caller before they reach this package.
package grid

import (
	"fmt"
	"math"

	"github.com/ewhitmore/focal/internal/constants"
	"github.com/ewhitmore/focal/internal/utils"
)

const minutesPerDay = constants.GridHours * 60

// Position is a rendered slot's vertical placement on the canvas.
type Position struct {
	Top    float64
	Height float64
}

// Slot is a proposed or moved time assignment.
type Slot struct {
	Start string // HH:MM format
	End   string // HH:MM format
}

// TimeToOffset converts a clock time (HH:MM) to a pixel offset from the top
// of the canvas.
func TimeToOffset(timeStr string) (float64, error) {
	minutes, err := utils.ParseTimeToMinutes(timeStr)
	if err != nil {
		return 0, fmt.Errorf("invalid time %q: %w", timeStr, err)
	}
	return float64(minutes) / 60 * constants.HourHeight, nil
}

// OffsetToTime converts a pixel offset to a clock time, rounded to the
// nearest 15-minute increment. Offsets wrap at the 24-hour boundary.
func OffsetToTime(offset float64) string {
	return utils.FormatMinutes(snapOffset(offset))
}

// PositionOf returns the vertical placement for a start/end pair. Height is
// floored at MinSlotHeight so very short tasks stay visible; the true
// duration is preserved in the times themselves.
func PositionOf(start, end string) (Position, error) {
	startMin, err := utils.ParseTimeToMinutes(start)
	if err != nil {
		return Position{}, fmt.Errorf("invalid start time %q: %w", start, err)
	}
	endMin, err := utils.ParseTimeToMinutes(end)
	if err != nil {
		return Position{}, fmt.Errorf("invalid end time %q: %w", end, err)
	}

	height := float64(endMin-startMin) / 60 * constants.HourHeight
	if height < constants.MinSlotHeight {
		height = constants.MinSlotHeight
	}

	return Position{
		Top:    float64(startMin) / 60 * constants.HourHeight,
		Height: height,
	}, nil
}

// MoveTo resolves a drag-move: given the pointer's canvas offset for the
// slot's new top edge and the slot's original duration, it returns a new
// start rounded to 15 minutes and an end preserving the duration exactly.
// The slot is clamped so it stays within the day.
func MoveTo(offset float64, durationMin int) (Slot, error) {
	if durationMin <= 0 {
		return Slot{}, fmt.Errorf("duration must be positive, got %d", durationMin)
	}
	if durationMin > minutesPerDay {
		return Slot{}, fmt.Errorf("duration %dmin exceeds the day", durationMin)
	}

	start := snapOffset(offset)
	if start+durationMin > minutesPerDay {
		start = minutesPerDay - durationMin
	}
	if start < 0 {
		start = 0
	}

	return Slot{
		Start: utils.FormatMinutes(start),
		End:   utils.FormatMinutes(start + durationMin),
	}, nil
}

// Move recomputes a slot from its current times and a pixel delta, preserving
// the duration no matter where within the block the drag began.
func Move(start, end string, deltaPx float64) (Slot, error) {
	top, err := TimeToOffset(start)
	if err != nil {
		return Slot{}, err
	}
	duration, err := DurationMinutes(start, end)
	if err != nil {
		return Slot{}, err
	}
	return MoveTo(top+deltaPx, duration)
}

// ProposeSlot resolves a double-click on empty canvas into a default-length
// slot starting at the clicked offset, rounded to 15 minutes.
func ProposeSlot(offset float64) Slot {
	slot, _ := MoveTo(offset, constants.DefaultSlotMinutes)
	return slot
}

// DurationMinutes returns end minus start in minutes.
func DurationMinutes(start, end string) (int, error) {
	startMin, err := utils.ParseTimeToMinutes(start)
	if err != nil {
		return 0, fmt.Errorf("invalid start time %q: %w", start, err)
	}
	endMin, err := utils.ParseTimeToMinutes(end)
	if err != nil {
		return 0, fmt.Errorf("invalid end time %q: %w", end, err)
	}
	return endMin - startMin, nil
}

// snapOffset converts a pixel offset to minutes from midnight rounded to the
// nearest SnapMinutes increment, wrapped into the day.
func snapOffset(offset float64) int {
	minutes := offset / constants.HourHeight * 60
	snapped := int(math.Round(minutes/constants.SnapMinutes)) * constants.SnapMinutes
	snapped %= minutesPerDay
	if snapped < 0 {
		snapped += minutesPerDay
	}
	return snapped
}
