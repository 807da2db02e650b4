package sqlite

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

	var resolvedAt any
	if cond.ResolvedAt != nil {
		resolvedAt = cond.ResolvedAt.Format(time.RFC3339)
	}

	_, err = s.db.Exec(`
		INSERT INTO conditionals (`+conditionalColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title = excluded.title,
			expected_date = excluded.expected_date,
			urgency = excluded.urgency,
			outcomes = excluded.outcomes,
			fallback_ref = excluded.fallback_ref,
			fallback_postpone_days = excluded.fallback_postpone_days`,
		cond.ID, cond.OwnerID, cond.Title, cond.ExpectedDate, string(cond.Urgency),
		string(outcomes), cond.FallbackConditionalRef, cond.FallbackPostponeDays,
		cond.ResolvedOutcomeID, resolvedAt, cond.CreatedAt.Format(time.RFC3339))
	return err
}

func scanConditional(scan func(dest ...any) error) (models.Conditional, error) {
	var c models.Conditional
	var urgency, outcomes, createdAt string
	var resolvedAt sql.NullString

	err := scan(
		&c.ID, &c.OwnerID, &c.Title, &c.ExpectedDate, &urgency, &outcomes,
		&c.FallbackConditionalRef, &c.FallbackPostponeDays, &c.ResolvedOutcomeID,
		&resolvedAt, &createdAt,
	)
	if err != nil {
		return models.Conditional{}, err
	}

	c.Urgency = models.Urgency(urgency)

	if outcomes != "" {
		if err := json.Unmarshal([]byte(outcomes), &c.Outcomes); err != nil {
			return models.Conditional{}, fmt.Errorf("failed to parse outcomes: %w", err)
		}
	}
	if ts, err := time.Parse(time.RFC3339, createdAt); err == nil {
		c.CreatedAt = ts
	}
	if resolvedAt.Valid {
		if ts, err := time.Parse(time.RFC3339, resolvedAt.String); err == nil {
			c.ResolvedAt = &ts
		}
	}

	return c, nil
}

func (s *Store) GetConditional(ownerID, id string) (models.Conditional, error) {
	row := s.db.QueryRow(`
		SELECT `+conditionalColumns+` FROM conditionals
		WHERE id = ? AND owner_id = ?`, id, ownerID)

	cond, err := scanConditional(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Conditional{}, fmt.Errorf("conditional %s: %w", id, storeerr.ErrNotFound)
	}
	return cond, err
}

func (s *Store) GetAllConditionals(ownerID string) ([]models.Conditional, error) {
	rows, err := s.db.Query(`
		SELECT `+conditionalColumns+` FROM conditionals
		WHERE owner_id = ? ORDER BY created_at`, ownerID)
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
		UPDATE conditionals SET resolved_outcome_id = ?, resolved_at = ?
		WHERE id = ? AND owner_id = ? AND resolved_outcome_id = ''`,
		outcomeID, resolvedAt.Format(time.RFC3339), id, ownerID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("conditional %s: %w", id, storeerr.ErrConditionalResolved)
	}
	return nil
}
