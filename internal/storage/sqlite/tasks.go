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

const taskColumns = `id, owner_id, title, description, status, progress, priority,
	scope, scope_key, start_time, end_time, deadline, parent_task_id,
	contribution_percent, is_milestone, milestone_conditions,
	blocked_by_conditional, content, color, created_at, updated_at, deleted_at`

func (s *Store) AddTask(task models.Task) error {
	conditions, err := json.Marshal(task.MilestoneConditions)
	if err != nil {
		return fmt.Errorf("failed to serialize milestone conditions: %w", err)
	}
	content, err := json.Marshal(task.Content)
	if err != nil {
		return fmt.Errorf("failed to serialize task content: %w", err)
	}

	var deletedAt any
	if task.DeletedAt != nil {
		deletedAt = task.DeletedAt.Format(time.RFC3339)
	}

	_, err = s.db.Exec(`
		INSERT INTO tasks (`+taskColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title = excluded.title,
			description = excluded.description,
			status = excluded.status,
			progress = excluded.progress,
			priority = excluded.priority,
			scope = excluded.scope,
			scope_key = excluded.scope_key,
			start_time = excluded.start_time,
			end_time = excluded.end_time,
			deadline = excluded.deadline,
			parent_task_id = excluded.parent_task_id,
			contribution_percent = excluded.contribution_percent,
			is_milestone = excluded.is_milestone,
			milestone_conditions = excluded.milestone_conditions,
			blocked_by_conditional = excluded.blocked_by_conditional,
			content = excluded.content,
			color = excluded.color,
			updated_at = excluded.updated_at,
			deleted_at = excluded.deleted_at`,
		task.ID, task.OwnerID, task.Title, task.Description, string(task.Status), task.Progress,
		string(task.Priority), string(task.Scope), task.ScopeKey, task.StartTime, task.EndTime,
		task.Deadline, task.ParentTaskID, task.ContributionPercent, task.IsMilestone,
		string(conditions), task.BlockedByConditional, string(content), task.Color,
		task.CreatedAt.Format(time.RFC3339), task.UpdatedAt.Format(time.RFC3339), deletedAt)
	return err
}

// UpdateTask rewrites an existing row through the AddTask upsert. The
// existence guard keeps updates from silently inserting, matching the other
// backends.
func (s *Store) UpdateTask(task models.Task) error {
	var exists bool
	err := s.db.QueryRow(`
		SELECT EXISTS (SELECT 1 FROM tasks WHERE id = ? AND owner_id = ?)`,
		task.ID, task.OwnerID).Scan(&exists)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("task %s: %w", task.ID, storeerr.ErrNotFound)
	}
	return s.AddTask(task)
}

func scanTask(scan func(dest ...any) error) (models.Task, error) {
	var t models.Task
	var status, priority, scope string
	var conditions, content string
	var createdAt, updatedAt string
	var deletedAt sql.NullString

	err := scan(
		&t.ID, &t.OwnerID, &t.Title, &t.Description, &status, &t.Progress, &priority,
		&scope, &t.ScopeKey, &t.StartTime, &t.EndTime, &t.Deadline, &t.ParentTaskID,
		&t.ContributionPercent, &t.IsMilestone, &conditions,
		&t.BlockedByConditional, &content, &t.Color, &createdAt, &updatedAt, &deletedAt,
	)
	if err != nil {
		return models.Task{}, err
	}

	t.Status = models.TaskStatus(status)
	t.Priority = models.Priority(priority)
	t.Scope = models.Scope(scope)

	if conditions != "" {
		if err := json.Unmarshal([]byte(conditions), &t.MilestoneConditions); err != nil {
			return models.Task{}, fmt.Errorf("failed to parse milestone conditions: %w", err)
		}
	}
	if content != "" {
		if err := json.Unmarshal([]byte(content), &t.Content); err != nil {
			return models.Task{}, fmt.Errorf("failed to parse task content: %w", err)
		}
	}

	if ts, err := time.Parse(time.RFC3339, createdAt); err == nil {
		t.CreatedAt = ts
	}
	if ts, err := time.Parse(time.RFC3339, updatedAt); err == nil {
		t.UpdatedAt = ts
	}
	if deletedAt.Valid {
		if ts, err := time.Parse(time.RFC3339, deletedAt.String); err == nil {
			t.DeletedAt = &ts
		}
	}

	return t, nil
}

func (s *Store) GetTask(ownerID, id string) (models.Task, error) {
	row := s.db.QueryRow(`
		SELECT `+taskColumns+` FROM tasks
		WHERE id = ? AND owner_id = ? AND deleted_at IS NULL`, id, ownerID)

	task, err := scanTask(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Task{}, fmt.Errorf("task %s: %w", id, storeerr.ErrNotFound)
	}
	return task, err
}

func (s *Store) queryTasks(query string, args ...any) ([]models.Task, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tasks []models.Task
	for rows.Next() {
		task, err := scanTask(rows.Scan)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}
	return tasks, rows.Err()
}

func (s *Store) GetAllTasks(ownerID string) ([]models.Task, error) {
	return s.queryTasks(`
		SELECT `+taskColumns+` FROM tasks
		WHERE owner_id = ? AND deleted_at IS NULL
		ORDER BY created_at`, ownerID)
}

func (s *Store) GetTasksByScope(ownerID string, scope models.Scope, scopeKey string) ([]models.Task, error) {
	return s.queryTasks(`
		SELECT `+taskColumns+` FROM tasks
		WHERE owner_id = ? AND scope = ? AND scope_key = ? AND deleted_at IS NULL
		ORDER BY start_time, created_at`, ownerID, string(scope), scopeKey)
}

func (s *Store) DeleteTask(ownerID, id string) error {
	res, err := s.db.Exec(`
		UPDATE tasks SET deleted_at = ? WHERE id = ? AND owner_id = ? AND deleted_at IS NULL`,
		time.Now().Format(time.RFC3339), id, ownerID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("task %s: %w", id, storeerr.ErrNotFound)
	}
	return nil
}

func (s *Store) RestoreTask(ownerID, id string) error {
	res, err := s.db.Exec(`
		UPDATE tasks SET deleted_at = NULL WHERE id = ? AND owner_id = ? AND deleted_at IS NOT NULL`,
		id, ownerID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("deleted task %s: %w", id, storeerr.ErrNotFound)
	}
	return nil
}
