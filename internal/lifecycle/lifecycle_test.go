package lifecycle

import (
	"errors"
	"testing"

	"github.com/ewhitmore/focal/internal/models"
)

func TestToggleDone(t *testing.T) {
	task := models.Task{Title: "write report", Status: models.StatusPending, Progress: 40}

	done, err := ToggleDone(task)
	if err != nil {
		t.Fatalf("ToggleDone returned error: %v", err)
	}
	if done.Status != models.StatusDone || done.Progress != 100 {
		t.Errorf("expected done/100, got %s/%d", done.Status, done.Progress)
	}

	// Toggling back discards the prior partial progress
	reopened, err := ToggleDone(done)
	if err != nil {
		t.Fatalf("ToggleDone returned error: %v", err)
	}
	if reopened.Status != models.StatusPending || reopened.Progress != 0 {
		t.Errorf("expected pending/0, got %s/%d", reopened.Status, reopened.Progress)
	}
}

func TestToggleDoneBlocked(t *testing.T) {
	task := models.Task{Title: "gated", Status: models.StatusBlocked}
	if _, err := ToggleDone(task); err == nil {
		t.Error("a blocked task must not be completable")
	}
}

func TestStart(t *testing.T) {
	task := models.Task{Title: "t", Status: models.StatusPending}
	started, err := Start(task)
	if err != nil {
		t.Fatalf("Start returned error: %v", err)
	}
	if started.Status != models.StatusInProgress {
		t.Errorf("Status = %s, want in-progress", started.Status)
	}

	// Idempotent on an already started task
	again, err := Start(started)
	if err != nil || again.Status != models.StatusInProgress {
		t.Errorf("restarting should be a no-op, got %s, %v", again.Status, err)
	}

	if _, err := Start(models.Task{Title: "b", Status: models.StatusBlocked}); err == nil {
		t.Error("a blocked task must not be startable")
	}
	if _, err := Start(models.Task{Title: "d", Status: models.StatusDone}); err == nil {
		t.Error("a done task must not be startable")
	}
}

func TestSetStatusRejectsBlocked(t *testing.T) {
	task := models.Task{Title: "t", Status: models.StatusPending}
	if _, err := SetStatus(task, models.StatusBlocked); !errors.Is(err, ErrBlockedIsDerived) {
		t.Errorf("expected ErrBlockedIsDerived, got %v", err)
	}
}

func TestSetStatusLeavingDoneResetsProgress(t *testing.T) {
	task := models.Task{Title: "t", Status: models.StatusDone, Progress: 100}
	got, err := SetStatus(task, models.StatusInProgress)
	if err != nil {
		t.Fatalf("SetStatus returned error: %v", err)
	}
	if got.Status != models.StatusInProgress || got.Progress != 0 {
		t.Errorf("expected in-progress/0, got %s/%d", got.Status, got.Progress)
	}
}

func TestDisplayProgress(t *testing.T) {
	tests := []struct {
		name string
		task models.Task
		want int
	}{
		{
			name: "no checklist uses stored progress",
			task: models.Task{Progress: 55},
			want: 55,
		},
		{
			name: "checklist overrides stored progress",
			task: models.Task{
				Progress: 10,
				Content: models.TaskContent{Checklist: []models.ChecklistItem{
					{Text: "a", Done: true},
					{Text: "b", Done: true},
					{Text: "c", Done: false},
				}},
			},
			want: 67,
		},
		{
			name: "empty checklist items all pending",
			task: models.Task{
				Progress: 90,
				Content: models.TaskContent{Checklist: []models.ChecklistItem{
					{Text: "a"},
				}},
			},
			want: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DisplayProgress(tt.task); got != tt.want {
				t.Errorf("DisplayProgress = %d, want %d", got, tt.want)
			}
		})
	}
}
