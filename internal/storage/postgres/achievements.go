package postgres

import (
	"github.com/ewhitmore/focal/internal/models"
)

func (s *Store) RecordAchievementUnlock(ua models.UserAchievement) error {
	// DO NOTHING keeps recording idempotent on the composite key
	_, err := s.db.Exec(`
		INSERT INTO user_achievements (owner_id, achievement_id, period_key, unlocked_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (owner_id, achievement_id, period_key) DO NOTHING`,
		ua.OwnerID, ua.AchievementID, ua.PeriodKey, ua.UnlockedAt)
	return err
}

func (s *Store) GetUserAchievements(ownerID string) ([]models.UserAchievement, error) {
	rows, err := s.db.Query(`
		SELECT owner_id, achievement_id, period_key, unlocked_at
		FROM user_achievements WHERE owner_id = $1 ORDER BY unlocked_at`, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var unlocks []models.UserAchievement
	for rows.Next() {
		var ua models.UserAchievement
		if err := rows.Scan(&ua.OwnerID, &ua.AchievementID, &ua.PeriodKey, &ua.UnlockedAt); err != nil {
			return nil, err
		}
		unlocks = append(unlocks, ua)
	}
	return unlocks, rows.Err()
}
