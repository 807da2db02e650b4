package sqlite

import (
	"time"

	"github.com/ewhitmore/focal/internal/models"
)

func (s *Store) RecordAchievementUnlock(ua models.UserAchievement) error {
	// DO NOTHING keeps recording idempotent on the composite key
	_, err := s.db.Exec(`
		INSERT INTO user_achievements (owner_id, achievement_id, period_key, unlocked_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(owner_id, achievement_id, period_key) DO NOTHING`,
		ua.OwnerID, ua.AchievementID, ua.PeriodKey, ua.UnlockedAt.Format(time.RFC3339))
	return err
}

func (s *Store) GetUserAchievements(ownerID string) ([]models.UserAchievement, error) {
	rows, err := s.db.Query(`
		SELECT owner_id, achievement_id, period_key, unlocked_at
		FROM user_achievements WHERE owner_id = ? ORDER BY unlocked_at`, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var unlocks []models.UserAchievement
	for rows.Next() {
		var ua models.UserAchievement
		var unlockedAt string
		if err := rows.Scan(&ua.OwnerID, &ua.AchievementID, &ua.PeriodKey, &unlockedAt); err != nil {
			return nil, err
		}
		if ts, err := time.Parse(time.RFC3339, unlockedAt); err == nil {
			ua.UnlockedAt = ts
		}
		unlocks = append(unlocks, ua)
	}
	return unlocks, rows.Err()
}
