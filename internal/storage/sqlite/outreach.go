package sqlite

import (
	"time"

	"github.com/ewhitmore/focal/internal/models"
)

func (s *Store) AddOutreachEntry(entry models.OutreachEntry) error {
	_, err := s.db.Exec(`
		INSERT INTO outreach (id, owner_id, contact, program, note, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		entry.ID, entry.OwnerID, entry.Contact, entry.Program, entry.Note,
		entry.CreatedAt.Format(time.RFC3339))
	return err
}

func (s *Store) GetOutreachEntries(ownerID string) ([]models.OutreachEntry, error) {
	rows, err := s.db.Query(`
		SELECT id, owner_id, contact, program, note, created_at
		FROM outreach WHERE owner_id = ? ORDER BY created_at`, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []models.OutreachEntry
	for rows.Next() {
		var e models.OutreachEntry
		var createdAt string
		if err := rows.Scan(&e.ID, &e.OwnerID, &e.Contact, &e.Program, &e.Note, &createdAt); err != nil {
			return nil, err
		}
		if ts, err := time.Parse(time.RFC3339, createdAt); err == nil {
			e.CreatedAt = ts
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (s *Store) AddCompletion(ownerID string, event models.CompletionEvent) error {
	_, err := s.db.Exec(`
		INSERT INTO completions (owner_id, task_id, completed_at) VALUES (?, ?, ?)`,
		ownerID, event.TaskID, event.CompletedAt.Format(time.RFC3339))
	return err
}

func (s *Store) GetCompletions(ownerID string) ([]models.CompletionEvent, error) {
	rows, err := s.db.Query(`
		SELECT task_id, completed_at FROM completions
		WHERE owner_id = ? ORDER BY completed_at`, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []models.CompletionEvent
	for rows.Next() {
		var e models.CompletionEvent
		var completedAt string
		if err := rows.Scan(&e.TaskID, &completedAt); err != nil {
			return nil, err
		}
		if ts, err := time.Parse(time.RFC3339, completedAt); err == nil {
			e.CompletedAt = ts
		}
		events = append(events, e)
	}
	return events, rows.Err()
}
