package postgres

import (
	"database/sql"
	"errors"

	"github.com/ewhitmore/focal/internal/models"
)

func (s *Store) GetSettings() (models.Settings, error) {
	row := s.db.QueryRow(`SELECT owner_id, timezone, day_start, day_end FROM settings WHERE id = 1`)

	var settings models.Settings
	err := row.Scan(&settings.OwnerID, &settings.Timezone, &settings.DayStart, &settings.DayEnd)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Settings{}, nil
	}
	if err != nil {
		return models.Settings{}, err
	}
	return settings, nil
}

func (s *Store) SaveSettings(settings models.Settings) error {
	_, err := s.db.Exec(`
		INSERT INTO settings (id, owner_id, timezone, day_start, day_end)
		VALUES (1, $1, $2, $3, $4)
		ON CONFLICT (id) DO UPDATE SET
			owner_id = EXCLUDED.owner_id,
			timezone = EXCLUDED.timezone,
			day_start = EXCLUDED.day_start,
			day_end = EXCLUDED.day_end`,
		settings.OwnerID, settings.Timezone, settings.DayStart, settings.DayEnd)
	return err
}
