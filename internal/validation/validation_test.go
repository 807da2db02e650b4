package validation

import (
	"strings"
	"testing"

	"github.com/ewhitmore/focal/internal/models"
)

func TestValidateTimeRange(t *testing.T) {
	tests := []struct {
		name    string
		start   string
		end     string
		wantErr bool
	}{
		{"valid range", "09:00", "10:30", false},
		{"end equals start", "09:00", "09:00", true},
		{"end before start", "10:00", "09:00", true},
		{"garbage start", "nine", "10:00", true},
		{"garbage end", "09:00", "25:99", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateTimeRange(tt.start, tt.end)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateTimeRange(%q, %q) error = %v, wantErr %v", tt.start, tt.end, err, tt.wantErr)
			}
		})
	}
}

func dayTask(id, start, end string) models.Task {
	return models.Task{
		ID:        id,
		OwnerID:   "local",
		Title:     id,
		Status:    models.StatusPending,
		Scope:     models.ScopeDay,
		ScopeKey:  "2026-08-27",
		StartTime: start,
		EndTime:   end,
	}
}

func conflictsOf(r Result, ct ConflictType) []Conflict {
	var out []Conflict
	for _, c := range r.Conflicts {
		if c.Type == ct {
			out = append(out, c)
		}
	}
	return out
}

func TestValidateTasksInvalidRange(t *testing.T) {
	v := New()

	result := v.ValidateTasks([]models.Task{dayTask("a", "14:00", "13:00")}, nil)
	got := conflictsOf(result, ConflictInvalidTimeRange)
	if len(got) != 1 {
		t.Fatalf("expected 1 invalid-range conflict, got %d", len(got))
	}
	if got[0].Warning {
		t.Error("an invalid range is an error, not a warning")
	}
	if !result.HasErrors() {
		t.Error("HasErrors should be true")
	}
}

func TestValidateTasksHalfSlot(t *testing.T) {
	v := New()
	task := dayTask("a", "09:00", "")

	result := v.ValidateTasks([]models.Task{task}, nil)
	if len(conflictsOf(result, ConflictInvalidDateTime)) != 1 {
		t.Error("a task with only one of start/end should be flagged")
	}
}

func TestValidateTasksOverlap(t *testing.T) {
	v := New()
	tasks := []models.Task{
		dayTask("a", "09:00", "10:00"),
		dayTask("b", "09:30", "11:00"),
		dayTask("c", "10:00", "10:30"), // back to back with a is fine
	}

	result := v.ValidateTasks(tasks, nil)
	got := conflictsOf(result, ConflictOverlappingSlots)
	if len(got) != 2 {
		t.Fatalf("expected a/b and b/c overlaps, got %d: %+v", len(got), got)
	}
	if !got[0].Warning {
		t.Error("overlaps are warnings")
	}
	if result.HasErrors() {
		t.Error("warnings alone must not trip HasErrors")
	}
}

func TestValidateTasksOverlapScopedByDay(t *testing.T) {
	v := New()
	other := dayTask("b", "09:00", "10:00")
	other.ScopeKey = "2026-08-28"

	result := v.ValidateTasks([]models.Task{dayTask("a", "09:00", "10:00"), other}, nil)
	if len(conflictsOf(result, ConflictOverlappingSlots)) != 0 {
		t.Error("slots on different days never overlap")
	}
}

func TestValidateTasksDanglingReferences(t *testing.T) {
	v := New()
	task := dayTask("a", "", "")
	task.ParentTaskID = "missing"
	task.BlockedByConditional = "missing-cond"

	result := v.ValidateTasks([]models.Task{task}, nil)
	if len(conflictsOf(result, ConflictDanglingParent)) != 1 {
		t.Error("missing parent should warn")
	}
	if len(conflictsOf(result, ConflictDanglingConditional)) != 1 {
		t.Error("missing conditional should warn")
	}
	if result.HasErrors() {
		t.Error("dangling references are warnings only")
	}
}

func TestValidateTasksContributionOverdraw(t *testing.T) {
	v := New()
	parent := dayTask("parent", "", "")
	a := dayTask("a", "", "")
	a.ParentTaskID = "parent"
	a.ContributionPercent = 60
	b := dayTask("b", "", "")
	b.ParentTaskID = "parent"
	b.ContributionPercent = 50

	result := v.ValidateTasks([]models.Task{parent, a, b}, nil)
	got := conflictsOf(result, ConflictContributionSum)
	if len(got) != 1 {
		t.Fatalf("expected 1 contribution conflict, got %d", len(got))
	}
	if !strings.Contains(got[0].Description, "110") {
		t.Errorf("description should carry the total, got %q", got[0].Description)
	}

	// Exactly 100 and below are silent
	b.ContributionPercent = 40
	result = v.ValidateTasks([]models.Task{parent, a, b}, nil)
	if len(conflictsOf(result, ConflictContributionSum)) != 0 {
		t.Error("contributions at or below 100 are not a conflict")
	}
}

func TestValidateTasksDoneWhileBlocked(t *testing.T) {
	v := New()
	task := dayTask("a", "", "")
	task.Status = models.StatusDone
	task.BlockedByConditional = "visa"
	conds := []models.Conditional{{ID: "visa", OwnerID: "local", Title: "Visa"}}

	result := v.ValidateTasks([]models.Task{task}, conds)
	got := conflictsOf(result, ConflictDoneWhileBlocked)
	if len(got) != 1 {
		t.Fatalf("expected 1 done-while-blocked conflict, got %d", len(got))
	}
	if got[0].Warning {
		t.Error("done while referencing a conditional is an error")
	}
}

func TestValidateTasksSkipsDeleted(t *testing.T) {
	v := New()
	deleted := dayTask("a", "14:00", "13:00")
	now := deleted.CreatedAt
	deleted.DeletedAt = &now

	result := v.ValidateTasks([]models.Task{deleted}, nil)
	if len(result.Conflicts) != 0 {
		t.Errorf("deleted tasks are excluded from validation, got %+v", result.Conflicts)
	}
}

func TestFormatReport(t *testing.T) {
	r := Result{}
	if got := r.FormatReport(); got != "No conflicts detected." {
		t.Errorf("empty report = %q", got)
	}

	r.Conflicts = append(r.Conflicts, Conflict{Description: "bad slot"}, Conflict{Description: "overlap", Warning: true})
	report := r.FormatReport()
	if !strings.Contains(report, "- bad slot") || !strings.Contains(report, "- (warning) overlap") {
		t.Errorf("unexpected report:\n%s", report)
	}
}
