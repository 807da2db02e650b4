package achievements

import "github.com/ewhitmore/focal/internal/models"

// DefaultCatalog is the built-in achievement set. Unlock records persist per
// period, so editing requirements here only affects periods not yet unlocked.
func DefaultCatalog() []models.Achievement {
	return []models.Achievement{
		{
			ID:          "weekly_finisher",
			Title:       "Weekly Finisher",
			Tier:        models.TierWeekly,
			Metric:      models.MetricCompletions,
			Requirement: 10,
			RewardXP:    50,
		},
		{
			ID:          "consistent",
			Title:       "Consistent",
			Tier:        models.TierWeekly,
			Metric:      models.MetricActiveDays,
			Requirement: 5,
			RewardXP:    75,
		},
		{
			ID:          "momentum",
			Title:       "Momentum",
			Tier:        models.TierMonthly,
			Metric:      models.MetricMaxStreak,
			Requirement: 7,
			RewardXP:    150,
		},
		{
			ID:          "heavy_lifter",
			Title:       "Heavy Lifter",
			Tier:        models.TierMonthly,
			Metric:      models.MetricCompletions,
			Requirement: 40,
			RewardXP:    200,
		},
		{
			ID:          "networking_pro",
			Title:       "Networking Pro",
			Tier:        models.TierMonthly,
			Metric:      models.MetricOutreach,
			Requirement: 8,
			RewardXP:    120,
		},
		{
			ID:          "monthly_maven",
			Title:       "Monthly Maven",
			Tier:        models.TierMonthly,
			Metric:      models.MetricMonthlySweep,
			RewardXP:    300,
		},
		{
			ID:          "marathoner",
			Title:       "Marathoner",
			Tier:        models.TierYearly,
			Metric:      models.MetricMaxStreak,
			Requirement: 30,
			RewardXP:    1000,
		},
	}
}
