package storage

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/ewhitmore/focal/internal/models"
)

func newTestStore(t *testing.T) *JSONStore {
	t.Helper()
	s := newJSONStore(filepath.Join(t.TempDir(), "focal.json"))
	if err := s.Init(); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
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

func TestTaskCRUD(t *testing.T) {
	s := newTestStore(t)

	if err := s.AddTask(testTask("t1", "local")); err != nil {
		t.Fatalf("AddTask failed: %v", err)
	}

	got, err := s.GetTask("local", "t1")
	if err != nil {
		t.Fatalf("GetTask failed: %v", err)
	}
	if got.Title != "task t1" {
		t.Errorf("Title = %q", got.Title)
	}

	got.Progress = 50
	if err := s.UpdateTask(got); err != nil {
		t.Fatalf("UpdateTask failed: %v", err)
	}
	got, _ = s.GetTask("local", "t1")
	if got.Progress != 50 {
		t.Errorf("Progress = %d after update, want 50", got.Progress)
	}

	if _, err := s.GetTask("local", "nope"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if err := s.UpdateTask(testTask("nope", "local")); !errors.Is(err, ErrNotFound) {
		t.Errorf("updating a missing task should be ErrNotFound, got %v", err)
	}
}

func TestTaskOwnerScoping(t *testing.T) {
	s := newTestStore(t)
	if err := s.AddTask(testTask("t1", "alice")); err != nil {
		t.Fatal(err)
	}
	if err := s.AddTask(testTask("t2", "bob")); err != nil {
		t.Fatal(err)
	}

	if _, err := s.GetTask("bob", "t1"); !errors.Is(err, ErrNotFound) {
		t.Errorf("cross-owner reads must fail with ErrNotFound, got %v", err)
	}

	tasks, err := s.GetAllTasks("alice")
	if err != nil {
		t.Fatal(err)
	}
	if len(tasks) != 1 || tasks[0].ID != "t1" {
		t.Errorf("GetAllTasks(alice) = %+v", tasks)
	}
}

func TestGetTasksByScope(t *testing.T) {
	s := newTestStore(t)
	today := testTask("t1", "local")
	tomorrow := testTask("t2", "local")
	tomorrow.ScopeKey = "2026-08-28"
	weekly := testTask("t3", "local")
	weekly.Scope = models.ScopeWeek
	weekly.ScopeKey = "2026-W35"
	for _, task := range []models.Task{today, tomorrow, weekly} {
		if err := s.AddTask(task); err != nil {
			t.Fatal(err)
		}
	}

	got, err := s.GetTasksByScope("local", models.ScopeDay, "2026-08-27")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].ID != "t1" {
		t.Errorf("scope query = %+v", got)
	}
}

func TestSoftDeleteAndRestore(t *testing.T) {
	s := newTestStore(t)
	if err := s.AddTask(testTask("t1", "local")); err != nil {
		t.Fatal(err)
	}

	if err := s.DeleteTask("local", "t1"); err != nil {
		t.Fatalf("DeleteTask failed: %v", err)
	}
	if _, err := s.GetTask("local", "t1"); !errors.Is(err, ErrNotFound) {
		t.Error("deleted task must be invisible to GetTask")
	}
	tasks, _ := s.GetAllTasks("local")
	if len(tasks) != 0 {
		t.Errorf("deleted task leaked into GetAllTasks: %+v", tasks)
	}
	if err := s.DeleteTask("local", "t1"); !errors.Is(err, ErrNotFound) {
		t.Errorf("double delete should be ErrNotFound, got %v", err)
	}

	if err := s.RestoreTask("local", "t1"); err != nil {
		t.Fatalf("RestoreTask failed: %v", err)
	}
	got, err := s.GetTask("local", "t1")
	if err != nil {
		t.Fatalf("restored task should be visible: %v", err)
	}
	if got.DeletedAt != nil {
		t.Error("DeletedAt should be cleared on restore")
	}
	if err := s.RestoreTask("local", "t1"); !errors.Is(err, ErrNotFound) {
		t.Errorf("restoring a live task should be ErrNotFound, got %v", err)
	}
}

func testConditional(id, ownerID string) models.Conditional {
	return models.Conditional{
		ID:      id,
		OwnerID: ownerID,
		Title:   "conditional " + id,
		Outcomes: []models.Outcome{
			{ID: "yes", Label: "Approved", Type: models.OutcomeSuccess, Action: models.ActionActivate},
			{ID: "no", Label: "Denied", Type: models.OutcomeFailed, Action: models.ActionPostpone, PostponeDays: 7},
		},
		CreatedAt: time.Date(2026, 8, 27, 9, 0, 0, 0, time.UTC),
	}
}

func TestResolveConditionalIsTerminal(t *testing.T) {
	s := newTestStore(t)
	if err := s.AddConditional(testConditional("c1", "local")); err != nil {
		t.Fatal(err)
	}

	resolvedAt := time.Date(2026, 8, 27, 12, 0, 0, 0, time.UTC)
	if err := s.ResolveConditional("local", "c1", "yes", resolvedAt); err != nil {
		t.Fatalf("ResolveConditional failed: %v", err)
	}

	got, err := s.GetConditional("local", "c1")
	if err != nil {
		t.Fatal(err)
	}
	if got.ResolvedOutcomeID != "yes" || got.ResolvedAt == nil {
		t.Errorf("resolution not persisted: %+v", got)
	}

	err = s.ResolveConditional("local", "c1", "no", resolvedAt)
	if !errors.Is(err, ErrConditionalResolved) {
		t.Errorf("second resolution should be ErrConditionalResolved, got %v", err)
	}
}

func TestResolveConditionalUnknownOutcome(t *testing.T) {
	s := newTestStore(t)
	if err := s.AddConditional(testConditional("c1", "local")); err != nil {
		t.Fatal(err)
	}

	err := s.ResolveConditional("local", "c1", "maybe", time.Now())
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("undeclared outcome should be ErrNotFound, got %v", err)
	}
}

func TestRecordAchievementUnlockIdempotent(t *testing.T) {
	s := newTestStore(t)
	ua := models.UserAchievement{
		OwnerID:       "local",
		AchievementID: "weekly_finisher",
		PeriodKey:     "2026-W35",
		UnlockedAt:    time.Now(),
	}

	if err := s.RecordAchievementUnlock(ua); err != nil {
		t.Fatal(err)
	}
	if err := s.RecordAchievementUnlock(ua); err != nil {
		t.Fatalf("duplicate unlock must be a silent no-op, got %v", err)
	}

	unlocks, err := s.GetUserAchievements("local")
	if err != nil {
		t.Fatal(err)
	}
	if len(unlocks) != 1 {
		t.Errorf("expected 1 unlock, got %d", len(unlocks))
	}

	// A new period is a fresh unlock
	ua.PeriodKey = "2026-W36"
	if err := s.RecordAchievementUnlock(ua); err != nil {
		t.Fatal(err)
	}
	unlocks, _ = s.GetUserAchievements("local")
	if len(unlocks) != 2 {
		t.Errorf("expected 2 unlocks across periods, got %d", len(unlocks))
	}
}

func TestOutreachAndCompletions(t *testing.T) {
	s := newTestStore(t)

	entry := models.OutreachEntry{ID: "o1", OwnerID: "local", Program: "mentorship", Contact: "sam", CreatedAt: time.Now()}
	if err := s.AddOutreachEntry(entry); err != nil {
		t.Fatal(err)
	}
	if err := s.AddOutreachEntry(models.OutreachEntry{ID: "o2", OwnerID: "other", CreatedAt: time.Now()}); err != nil {
		t.Fatal(err)
	}
	entries, err := s.GetOutreachEntries("local")
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].Contact != "sam" {
		t.Errorf("GetOutreachEntries = %+v", entries)
	}

	if err := s.AddCompletion("local", models.CompletionEvent{TaskID: "t1", CompletedAt: time.Now()}); err != nil {
		t.Fatal(err)
	}
	history, err := s.GetCompletions("local")
	if err != nil {
		t.Fatal(err)
	}
	if len(history) != 1 || history[0].TaskID != "t1" {
		t.Errorf("GetCompletions = %+v", history)
	}
}

func TestLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "focal.json")
	first := newJSONStore(path)
	if err := first.Init(); err != nil {
		t.Fatal(err)
	}
	if err := first.AddTask(testTask("t1", "local")); err != nil {
		t.Fatal(err)
	}

	second := newJSONStore(path)
	if err := second.Load(); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if _, err := second.GetTask("local", "t1"); err != nil {
		t.Errorf("reloaded store lost the task: %v", err)
	}

	settings, err := second.GetSettings()
	if err != nil {
		t.Fatal(err)
	}
	if settings.OwnerID == "" || settings.Timezone == "" {
		t.Errorf("defaults not persisted: %+v", settings)
	}
}

func TestInitAndLoadErrors(t *testing.T) {
	path := filepath.Join(t.TempDir(), "focal.json")
	s := newJSONStore(path)

	if err := s.Load(); err == nil {
		t.Error("loading an uninitialized store must fail")
	}
	if err := s.Init(); err != nil {
		t.Fatal(err)
	}
	if err := s.Init(); err == nil {
		t.Error("double init must fail")
	}
}
