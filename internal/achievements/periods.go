package achievements

import (
	"fmt"
	"time"

	"github.com/ewhitmore/focal/internal/models"
)

// PeriodKey returns the canonical bucket key for a tier at the given instant:
// ISO week ("2026-W05"), calendar month ("2026-02"), or calendar year
// ("2026"). The instant should already be in the user's timezone.
func PeriodKey(tier models.AchievementTier, t time.Time) string {
	switch tier {
	case models.TierWeekly:
		year, week := t.ISOWeek()
		return fmt.Sprintf("%d-W%02d", year, week)
	case models.TierMonthly:
		return t.Format("2006-01")
	case models.TierYearly:
		return t.Format("2006")
	default:
		return ""
	}
}

// PeriodBounds returns the half-open [start, end) window a period key covers,
// in the given timezone.
func PeriodBounds(tier models.AchievementTier, t time.Time, loc *time.Location) (time.Time, time.Time) {
	t = t.In(loc)
	switch tier {
	case models.TierWeekly:
		// Walk back to the ISO week's Monday
		day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
		offset := (int(day.Weekday()) + 6) % 7
		start := day.AddDate(0, 0, -offset)
		return start, start.AddDate(0, 0, 7)
	case models.TierMonthly:
		start := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, loc)
		return start, start.AddDate(0, 1, 0)
	case models.TierYearly:
		start := time.Date(t.Year(), 1, 1, 0, 0, 0, 0, loc)
		return start, start.AddDate(1, 0, 0)
	default:
		return time.Time{}, time.Time{}
	}
}

// InPeriod reports whether an instant falls inside the window.
func InPeriod(instant, start, end time.Time) bool {
	return !instant.Before(start) && instant.Before(end)
}
