package postgres

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/ewhitmore/focal/internal/models"
	"github.com/ewhitmore/focal/internal/storage/storeerr"
)

const conditionalColumns = `id, owner_id, title, expected_date, urgency, outcomes,
	fallback_ref, fallback_postpone_days, resolved_outcome_id, resolved_at, created_at`

func (s *Store) AddConditional(cond models.Conditional) error {
	outcomes, err := json.Marshal(cond.Outcomes)
	if err != nil {
		return fmt.Errorf("failed to serialize outcomes: %w", err)
	}

	var resolvedAt *time.Time
	if cond.ResolvedAt != nil {
		resolvedAt = cond.ResolvedAt
	}

	_, err = s.db.Exec(`
		INSERT INTO conditionals (`+conditionalColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (id) DO UPDATE SET
			title = EXCLUDED.title,
			expected_date = EXCLUDED.expected_date,
			urgency = EXCLUDED.urgency,
			outcomes = EXCLUDED.outcomes,
			fallback_ref = EXCLUDED.fallback_ref,
			fallback_postpone_days = EXCLUDED.fallback_postpone_days`,
		cond.ID, cond.OwnerID, cond.Title, cond.ExpectedDate, string(cond.Urgency),
		string(outcomes), cond.FallbackConditionalRef, cond.FallbackPostponeDays,
		cond.ResolvedOutcomeID, resolvedAt, cond.CreatedAt)
	return err
}

func scanConditional(scan func(dest ...any) error) (models.Conditional, error) {
	var c models.Conditional
	var urgency string
	var outcomes []byte
	var resolvedAt sql.NullTime

	err := scan(
		&c.ID, &c.OwnerID, &c.Title, &c.ExpectedDate, &urgency, &outcomes,
		&c.FallbackConditionalRef, &c.FallbackPostponeDays, &c.ResolvedOutcomeID,
		&resolvedAt, &c.CreatedAt,
	)
	if err != nil {
		return models.Conditional{}, err
	}

	c.Urgency = models.Urgency(urgency)

	if len(outcomes) > 0 {
		if err := json.Unmarshal(outcomes, &c.Outcomes); err != nil {
			return models.Conditional{}, fmt.Errorf("failed to parse outcomes: %w", err)
		}
	}
	if resolvedAt.Valid {
		c.ResolvedAt = &resolvedAt.Time
	}

	return c, nil
}

func (s *Store) GetConditional(ownerID, id string) (models.Conditional, error) {
	row := s.db.QueryRow(`
		SELECT `+conditionalColumns+` FROM conditionals
		WHERE id = $1 AND owner_id = $2`, id, ownerID)

	cond, err := scanConditional(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Conditional{}, fmt.Errorf("conditional %s: %w", id, storeerr.ErrNotFound)
	}
	return cond, err
}

func (s *Store) GetAllConditionals(ownerID string) ([]models.Conditional, error) {
	rows, err := s.db.Query(`
		SELECT `+conditionalColumns+` FROM conditionals
		WHERE owner_id = $1 ORDER BY created_at`, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var conds []models.Conditional
	for rows.Next() {
		cond, err := scanConditional(rows.Scan)
		if err != nil {
			return nil, err
		}
		conds = append(conds, cond)
	}
	return conds, rows.Err()
}

func (s *Store) ResolveConditional(ownerID, id, outcomeID string, resolvedAt time.Time) error {
	cond, err := s.GetConditional(ownerID, id)
	if err != nil {
		return err
	}
	if _, ok := cond.Outcome(outcomeID); !ok {
		return fmt.Errorf("conditional %s outcome %s: %w", id, outcomeID, storeerr.ErrNotFound)
	}

	// The guard on resolved_outcome_id makes resolution terminal even when
	// two writers race.
	res, err := s.db.Exec(`
		UPDATE conditionals SET resolved_outcome_id = $1, resolved_at = $2
		WHERE id = $3 AND owner_id = $4 AND resolved_outcome_id = ''`,
		outcomeID, resolvedAt, id, ownerID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("conditional %s: %w", id, storeerr.ErrConditionalResolved)
	}
	return nil
}
