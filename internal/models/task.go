package models

import (
	"fmt"
	"time"

	"github.com/ewhitmore/focal/internal/constants"
)

type TaskStatus string

const (
	StatusPending    TaskStatus = "pending"
	StatusInProgress TaskStatus = "in-progress"
	StatusDone       TaskStatus = "done"
	StatusBlocked    TaskStatus = "blocked"
)

type Priority string

const (
	PriorityLow      Priority = "low"
	PriorityMedium   Priority = "medium"
	PriorityHigh     Priority = "high"
	PriorityCritical Priority = "critical"
)

// Scope classifies which bucket a task belongs to. Time scopes key by a date
// string, the client scope keys by a client id.
type Scope string

const (
	ScopeDay    Scope = "day"
	ScopeWeek   Scope = "week"
	ScopeMonth  Scope = "month"
	ScopeYear   Scope = "year"
	ScopeClient Scope = "client"
)

// Confidence grades how likely a milestone condition is considered to be.
// Display metadata only; blocking never depends on it.
type Confidence string

const (
	ConfidenceLow     Confidence = "low"
	ConfidenceMedium  Confidence = "medium"
	ConfidenceHigh    Confidence = "high"
	ConfidenceCertain Confidence = "certain"
)

// MilestoneCondition is one gate on a milestone task. Dependents stay blocked
// until the milestone itself is done; the confidence grade is informational.
type MilestoneCondition struct {
	Label      string     `json:"label"`
	Confidence Confidence `json:"confidence"`
}

type ChecklistItem struct {
	Text string `json:"text"`
	Done bool   `json:"done"`
}

type Link struct {
	Label string `json:"label,omitempty"`
	URL   string `json:"url"`
}

// TaskContent holds the optional attachments a task may carry. Each kind is
// an explicit list so callers never probe for dynamically shaped fields.
type TaskContent struct {
	Checklist []ChecklistItem `json:"checklist,omitempty"`
	Links     []Link          `json:"links,omitempty"`
	Images    []string        `json:"images,omitempty"`
}

type Task struct {
	ID          string      `json:"id"`
	OwnerID     string      `json:"owner_id"`
	Title       string      `json:"title"`
	Description string      `json:"description,omitempty"`
	Status      TaskStatus  `json:"status"`
	Progress    int         `json:"progress"` // 0-100
	Priority    Priority    `json:"priority"`
	Scope       Scope       `json:"scope"`
	ScopeKey    string      `json:"scope_key"` // date string or client id, per Scope
	StartTime   string      `json:"start_time,omitempty"` // HH:MM format
	EndTime     string      `json:"end_time,omitempty"`   // HH:MM format
	Deadline    string      `json:"deadline,omitempty"`   // YYYY-MM-DD format

	ParentTaskID        string `json:"parent_task_id,omitempty"`
	ContributionPercent int    `json:"contribution_percent,omitempty"` // 0-100 weight toward parent rollup

	IsMilestone           bool                 `json:"is_milestone"`
	MilestoneConditions   []MilestoneCondition `json:"milestone_conditions,omitempty"`
	BlockedByConditional  string               `json:"blocked_by_conditional_id,omitempty"`

	Content TaskContent `json:"content,omitempty"`
	Color   string      `json:"color,omitempty"` // presentation hint only

	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	DeletedAt *time.Time `json:"deleted_at,omitempty"`
}

func (t *Task) Validate() error {
	if t.Title == "" {
		return fmt.Errorf("task title cannot be empty")
	}

	switch t.Status {
	case StatusPending, StatusInProgress, StatusDone, StatusBlocked:
	default:
		return fmt.Errorf("invalid task status: %s", t.Status)
	}

	if t.Progress < 0 || t.Progress > 100 {
		return fmt.Errorf("progress must be between 0 and 100")
	}

	if t.ContributionPercent < 0 || t.ContributionPercent > 100 {
		return fmt.Errorf("contribution percent must be between 0 and 100")
	}

	// Slot times come as a pair or not at all
	if (t.StartTime == "") != (t.EndTime == "") {
		return fmt.Errorf("start and end times must both be set or both be empty")
	}

	if t.StartTime != "" {
		start, err := time.Parse(constants.TimeFormat, t.StartTime)
		if err != nil {
			return fmt.Errorf("invalid start time format (expected HH:MM): %w", err)
		}
		end, err := time.Parse(constants.TimeFormat, t.EndTime)
		if err != nil {
			return fmt.Errorf("invalid end time format (expected HH:MM): %w", err)
		}
		if !end.After(start) {
			return fmt.Errorf("end time (%s) must be after start time (%s)", t.EndTime, t.StartTime)
		}
	}

	if t.Deadline != "" {
		if _, err := time.Parse(constants.DateFormat, t.Deadline); err != nil {
			return fmt.Errorf("invalid deadline format (expected YYYY-MM-DD): %w", err)
		}
	}

	if t.Status == StatusDone && t.IsBlocked() {
		return fmt.Errorf("a task cannot be both done and blocked")
	}

	return nil
}

// IsBlocked reports whether the stored status is the blocked overlay state.
func (t *Task) IsBlocked() bool {
	return t.Status == StatusBlocked
}

// HasSlot reports whether the task occupies a time slot on the day grid.
func (t *Task) HasSlot() bool {
	return t.StartTime != "" && t.EndTime != ""
}
