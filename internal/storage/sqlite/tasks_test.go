package sqlite_test

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/ewhitmore/focal/internal/models"
	"github.com/ewhitmore/focal/internal/storage"
)

func newTestStore(t *testing.T) storage.Provider {
	t.Helper()
	s := storage.NewSQLiteStore(filepath.Join(t.TempDir(), "focal.db"))
	if err := s.Init(); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func testTask(id, ownerID string) models.Task {
	now := time.Date(2026, 8, 27, 9, 0, 0, 0, time.UTC)
	return models.Task{
		ID:        id,
		OwnerID:   ownerID,
		Title:     "task " + id,
		Status:    models.StatusPending,
		Priority:  models.PriorityMedium,
		Scope:     models.ScopeDay,
		ScopeKey:  "2026-08-27",
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestUpdateTaskRequiresExistingRow(t *testing.T) {
	s := newTestStore(t)

	err := s.UpdateTask(testTask("ghost", "local"))
	if !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("updating a missing task should be ErrNotFound, got %v", err)
	}
	if tasks, err := s.GetAllTasks("local"); err != nil || len(tasks) != 0 {
		t.Errorf("a failed update must not insert, got %v tasks (err %v)", len(tasks), err)
	}

	if err := s.AddTask(testTask("t1", "local")); err != nil {
		t.Fatal(err)
	}
	task, err := s.GetTask("local", "t1")
	if err != nil {
		t.Fatal(err)
	}
	task.Progress = 50
	if err := s.UpdateTask(task); err != nil {
		t.Fatalf("UpdateTask failed: %v", err)
	}
	task, _ = s.GetTask("local", "t1")
	if task.Progress != 50 {
		t.Errorf("Progress = %d after update, want 50", task.Progress)
	}

	// Owner scoping applies to the existence guard too
	cross := testTask("t1", "intruder")
	if err := s.UpdateTask(cross); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("cross-owner update should be ErrNotFound, got %v", err)
	}
}

func TestNotFoundMatchesSharedSentinel(t *testing.T) {
	s := newTestStore(t)

	if _, err := s.GetTask("local", "nope"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("GetTask: expected ErrNotFound, got %v", err)
	}
	if err := s.DeleteTask("local", "nope"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("DeleteTask: expected ErrNotFound, got %v", err)
	}
	if _, err := s.GetConditional("local", "nope"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("GetConditional: expected ErrNotFound, got %v", err)
	}
}

func TestResolveConditionalSentinel(t *testing.T) {
	s := newTestStore(t)

	cond := models.Conditional{
		ID:      "c1",
		OwnerID: "local",
		Title:   "offer decision",
		Outcomes: []models.Outcome{
			{ID: "yes", Label: "Accepted", Type: models.OutcomeSuccess, Action: models.ActionActivate},
		},
		CreatedAt: time.Date(2026, 8, 27, 9, 0, 0, 0, time.UTC),
	}
	if err := s.AddConditional(cond); err != nil {
		t.Fatal(err)
	}

	resolvedAt := time.Date(2026, 8, 27, 12, 0, 0, 0, time.UTC)
	if err := s.ResolveConditional("local", "c1", "yes", resolvedAt); err != nil {
		t.Fatalf("ResolveConditional failed: %v", err)
	}
	err := s.ResolveConditional("local", "c1", "yes", resolvedAt)
	if !errors.Is(err, storage.ErrConditionalResolved) {
		t.Errorf("second resolution should be ErrConditionalResolved, got %v", err)
	}
}
