package models

import "time"

type AchievementTier string

const (
	TierWeekly  AchievementTier = "weekly"
	TierMonthly AchievementTier = "monthly"
	TierYearly  AchievementTier = "yearly"
)

// AchievementMetric selects which slice of history an achievement counts.
type AchievementMetric string

const (
	// MetricCompletions counts task completions in the period
	MetricCompletions AchievementMetric = "completions"
	// MetricActiveDays counts distinct local days with at least one completion
	MetricActiveDays AchievementMetric = "active_days"
	// MetricMaxStreak tracks the longest run of consecutive completion days
	MetricMaxStreak AchievementMetric = "max_streak"
	// MetricOutreach counts outreach entries matching the achievement's program
	MetricOutreach AchievementMetric = "outreach"
	// MetricMonthlySweep is satisfied when every other monthly achievement
	// for the period is already unlocked
	MetricMonthlySweep AchievementMetric = "monthly_sweep"
)

type Achievement struct {
	ID          string            `json:"id"`
	Title       string            `json:"title"`
	Tier        AchievementTier   `json:"tier"`
	Metric      AchievementMetric `json:"metric"`
	Requirement int               `json:"requirement"`
	RewardXP    int               `json:"reward_xp"`
	Program     string            `json:"program,omitempty"` // outreach metric filter
}

// UserAchievement records a single unlock. Unlocking is idempotent per
// (AchievementID, PeriodKey) pair.
type UserAchievement struct {
	OwnerID       string    `json:"owner_id"`
	AchievementID string    `json:"achievement_id"`
	PeriodKey     string    `json:"period_key"` // e.g. "2026-W05", "2026-02", "2026"
	UnlockedAt    time.Time `json:"unlocked_at"`
}

// AchievementProgress is derived per recomputation, never persisted
// authoritatively.
type AchievementProgress struct {
	AchievementID string `json:"achievement_id"`
	PeriodKey     string `json:"period_key"`
	Current       int    `json:"current"`
	Target        int    `json:"target"`
}

// Unlocked reports whether progress has reached the target.
func (p AchievementProgress) Unlocked() bool {
	return p.Current >= p.Target
}

// CompletionEvent is one time-stamped task completion in the history the
// achievement tracker consumes.
type CompletionEvent struct {
	TaskID      string    `json:"task_id"`
	CompletedAt time.Time `json:"completed_at"`
}
