package rollup

import (
	"testing"

	"github.com/ewhitmore/focal/internal/models"
)

func child(id, parentID string, progress, contribution int) models.Task {
	return models.Task{
		ID:                  id,
		ParentTaskID:        parentID,
		Progress:            progress,
		ContributionPercent: contribution,
	}
}

func TestProgress(t *testing.T) {
	parent := models.Task{ID: "parent"}

	tests := []struct {
		name     string
		children []models.Task
		want     int
	}{
		{
			name: "weighted sum",
			children: []models.Task{
				child("a", "parent", 100, 50),
				child("b", "parent", 50, 40),
			},
			want: 70,
		},
		{
			name: "weights under 100 leave a remainder at zero",
			children: []models.Task{
				child("a", "parent", 100, 30),
			},
			want: 30,
		},
		{
			name:     "no children",
			children: nil,
			want:     0,
		},
		{
			name: "zero contributions ignored",
			children: []models.Task{
				child("a", "parent", 100, 0),
				child("b", "parent", 80, 25),
			},
			want: 20,
		},
		{
			name: "other parents ignored",
			children: []models.Task{
				child("a", "someone-else", 100, 100),
				child("b", "parent", 40, 50),
			},
			want: 20,
		},
		{
			name: "overdrawn weights clamp at 100",
			children: []models.Task{
				child("a", "parent", 100, 80),
				child("b", "parent", 100, 60),
			},
			want: 100,
		},
		{
			name: "rounds to nearest",
			children: []models.Task{
				child("a", "parent", 33, 33), // 10.89
			},
			want: 11,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Progress(parent, tt.children); got != tt.want {
				t.Errorf("Progress = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestChildren(t *testing.T) {
	parent := models.Task{ID: "parent"}
	tasks := []models.Task{
		child("a", "parent", 0, 0),
		child("b", "other", 0, 0),
		child("c", "parent", 0, 0),
	}

	got := Children(parent, tasks)
	if len(got) != 2 {
		t.Fatalf("expected 2 children, got %d", len(got))
	}
	if got[0].ID != "a" || got[1].ID != "c" {
		t.Errorf("unexpected children: %v, %v", got[0].ID, got[1].ID)
	}
}
