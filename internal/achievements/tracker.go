// Package achievements computes progress toward weekly, monthly and yearly
// achievement thresholds from a time-stamped history of task completions and
// outreach entries, and emits unlock records.
package achievements

import (
	"sort"
	"time"

	"github.com/ewhitmore/focal/internal/constants"
	"github.com/ewhitmore/focal/internal/logger"
	"github.com/ewhitmore/focal/internal/models"
)

// Tracker evaluates a fixed achievement catalog against history snapshots.
type Tracker struct {
	catalog []models.Achievement
}

func New(catalog []models.Achievement) *Tracker {
	return &Tracker{catalog: catalog}
}

// Result is one recomputation pass: derived progress for every achievement
// plus the unlocks newly earned this pass. Recomputing over identical history
// yields identical progress and no duplicate unlocks; idempotence is keyed on
// (AchievementID, PeriodKey) against the already-recorded set.
type Result struct {
	Progress []models.AchievementProgress
	Unlocks  []models.UserAchievement
}

// Compute evaluates every achievement for the period containing now.
// Malformed history entries (zero timestamps) are skipped rather than
// aborting the pass. Streak days are calendar days in the given timezone.
func (tr *Tracker) Compute(
	history []models.CompletionEvent,
	outreach []models.OutreachEntry,
	recorded []models.UserAchievement,
	now time.Time,
	loc *time.Location,
) Result {
	if loc == nil {
		loc = time.Local
	}

	already := make(map[string]bool, len(recorded))
	for _, ua := range recorded {
		already[ua.AchievementID+"|"+ua.PeriodKey] = true
	}

	// Unlocked-this-pass set feeds the monthly sweep, so evaluate it last.
	var sweeps []models.Achievement
	result := Result{}

	for _, a := range tr.catalog {
		if a.Metric == models.MetricMonthlySweep {
			sweeps = append(sweeps, a)
			continue
		}
		progress := tr.evaluate(a, history, outreach, now, loc)
		result.Progress = append(result.Progress, progress)
		result.Unlocks = appendUnlock(result.Unlocks, already, a, progress, now)
	}

	for _, a := range sweeps {
		progress := tr.evaluateSweep(a, already, now)
		result.Progress = append(result.Progress, progress)
		result.Unlocks = appendUnlock(result.Unlocks, already, a, progress, now)
	}

	return result
}

func appendUnlock(unlocks []models.UserAchievement, already map[string]bool, a models.Achievement, p models.AchievementProgress, now time.Time) []models.UserAchievement {
	if !p.Unlocked() {
		return unlocks
	}
	key := a.ID + "|" + p.PeriodKey
	if already[key] {
		return unlocks
	}
	already[key] = true
	logger.Info("Achievement unlocked", "achievement", a.ID, "period", p.PeriodKey)
	return append(unlocks, models.UserAchievement{
		AchievementID: a.ID,
		PeriodKey:     p.PeriodKey,
		UnlockedAt:    now,
	})
}

func (tr *Tracker) evaluate(a models.Achievement, history []models.CompletionEvent, outreach []models.OutreachEntry, now time.Time, loc *time.Location) models.AchievementProgress {
	start, end := PeriodBounds(a.Tier, now, loc)

	var current int
	switch a.Metric {
	case models.MetricCompletions:
		for _, e := range history {
			if e.CompletedAt.IsZero() {
				continue
			}
			if InPeriod(e.CompletedAt.In(loc), start, end) {
				current++
			}
		}

	case models.MetricActiveDays:
		current = len(completionDays(history, start, end, loc))

	case models.MetricMaxStreak:
		current = maxStreak(completionDays(history, start, end, loc))

	case models.MetricOutreach:
		for _, e := range outreach {
			if e.CreatedAt.IsZero() {
				continue
			}
			if a.Program != "" && e.Program != a.Program {
				continue
			}
			if InPeriod(e.CreatedAt.In(loc), start, end) {
				current++
			}
		}
	}

	return models.AchievementProgress{
		AchievementID: a.ID,
		PeriodKey:     PeriodKey(a.Tier, now.In(loc)),
		Current:       current,
		Target:        a.Requirement,
	}
}

// evaluateSweep counts how many of the other monthly achievements are
// unlocked for this month. It reads the unlock set rather than special-casing
// inside the other achievements.
func (tr *Tracker) evaluateSweep(a models.Achievement, already map[string]bool, now time.Time) models.AchievementProgress {
	period := PeriodKey(models.TierMonthly, now)

	current := 0
	target := 0
	for _, other := range tr.catalog {
		if other.ID == a.ID || other.Tier != models.TierMonthly || other.Metric == models.MetricMonthlySweep {
			continue
		}
		target++
		if already[other.ID+"|"+period] {
			current++
		}
	}
	if a.Requirement > 0 {
		target = a.Requirement
	}

	return models.AchievementProgress{
		AchievementID: a.ID,
		PeriodKey:     period,
		Current:       current,
		Target:        target,
	}
}

// completionDays returns the sorted distinct local calendar days inside the
// window that saw at least one completion. Entries without a timestamp are
// excluded from counts.
func completionDays(history []models.CompletionEvent, start, end time.Time, loc *time.Location) []string {
	seen := make(map[string]bool)
	for _, e := range history {
		if e.CompletedAt.IsZero() {
			continue
		}
		local := e.CompletedAt.In(loc)
		if !InPeriod(local, start, end) {
			continue
		}
		seen[local.Format(constants.DateFormat)] = true
	}

	days := make([]string, 0, len(seen))
	for day := range seen {
		days = append(days, day)
	}
	sort.Strings(days)
	return days
}

// maxStreak returns the longest run of consecutive days in a sorted list of
// distinct date strings. Any gap day resets the counter.
func maxStreak(days []string) int {
	best := 0
	run := 0
	var prev time.Time

	for _, day := range days {
		d, err := time.Parse(constants.DateFormat, day)
		if err != nil {
			continue
		}
		if run > 0 && d.Sub(prev) == 24*time.Hour {
			run++
		} else {
			run = 1
		}
		if run > best {
			best = run
		}
		prev = d
	}
	return best
}
