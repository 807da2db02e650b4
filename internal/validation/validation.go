package validation

import (
	"fmt"
	"sort"

	"github.com/ewhitmore/focal/internal/models"
	"github.com/ewhitmore/focal/internal/utils"
)

// ConflictType represents the type of validation conflict
type ConflictType string

const (
	ConflictInvalidTimeRange    ConflictType = "invalid_time_range"
	ConflictInvalidDateTime     ConflictType = "invalid_datetime"
	ConflictOverlappingSlots    ConflictType = "overlapping_slots"
	ConflictDanglingParent      ConflictType = "dangling_parent"
	ConflictDanglingConditional ConflictType = "dangling_conditional"
	ConflictContributionSum     ConflictType = "contribution_sum"
	ConflictDoneWhileBlocked    ConflictType = "done_while_blocked"
)

// Conflict represents a detected conflict in the snapshot
type Conflict struct {
	Type        ConflictType
	Description string
	TaskIDs     []string
	Warning     bool // warnings report documented-but-suspect states, not errors
}

// Result contains all detected conflicts
type Result struct {
	Conflicts []Conflict
}

// HasErrors returns true if any non-warning conflict was found
func (r *Result) HasErrors() bool {
	for _, c := range r.Conflicts {
		if !c.Warning {
			return true
		}
	}
	return false
}

// FormatReport returns a human-readable report of all conflicts
func (r *Result) FormatReport() string {
	if len(r.Conflicts) == 0 {
		return "No conflicts detected."
	}

	report := "Conflicts detected:\n"
	for _, c := range r.Conflicts {
		prefix := "-"
		if c.Warning {
			prefix = "- (warning)"
		}
		report += fmt.Sprintf("%s %s\n", prefix, c.Description)
	}
	return report
}

// ValidateTimeRange rejects an end at or before its start. Invalid ranges are
// surfaced to the caller as validation failures, never silently clamped by
// the grid.
func ValidateTimeRange(start, end string) error {
	startMin, err := utils.ParseTimeToMinutes(start)
	if err != nil {
		return fmt.Errorf("invalid start time %q (expected HH:MM): %w", start, err)
	}
	endMin, err := utils.ParseTimeToMinutes(end)
	if err != nil {
		return fmt.Errorf("invalid end time %q (expected HH:MM): %w", end, err)
	}
	if endMin <= startMin {
		return fmt.Errorf("end time %s must be after start time %s", end, start)
	}
	return nil
}

// Validator validates task/conditional snapshots for conflicts
type Validator struct{}

// New creates a new Validator
func New() *Validator {
	return &Validator{}
}

// ValidateTasks checks a task snapshot for structural conflicts. Dangling
// references and contribution sums are reported as warnings: the resolver
// degrades gracefully on the former and the rollup documents the latter.
func (v *Validator) ValidateTasks(tasks []models.Task, conditionals []models.Conditional) Result {
	result := Result{Conflicts: []Conflict{}}

	byID := make(map[string]bool, len(tasks))
	for _, t := range tasks {
		if t.DeletedAt == nil {
			byID[t.ID] = true
		}
	}
	condByID := make(map[string]bool, len(conditionals))
	for _, c := range conditionals {
		condByID[c.ID] = true
	}

	contributions := make(map[string]int)

	for _, t := range tasks {
		if t.DeletedAt != nil {
			continue
		}

		if t.HasSlot() {
			if err := ValidateTimeRange(t.StartTime, t.EndTime); err != nil {
				result.Conflicts = append(result.Conflicts, Conflict{
					Type:        ConflictInvalidTimeRange,
					Description: fmt.Sprintf("Task %q: %v", t.Title, err),
					TaskIDs:     []string{t.ID},
				})
			}
		} else if t.StartTime != "" || t.EndTime != "" {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictInvalidDateTime,
				Description: fmt.Sprintf("Task %q has only one of start/end time set", t.Title),
				TaskIDs:     []string{t.ID},
			})
		}

		if t.Deadline != "" && !utils.ValidateDateFormat(t.Deadline) {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictInvalidDateTime,
				Description: fmt.Sprintf("Task %q has invalid deadline: %s", t.Title, t.Deadline),
				TaskIDs:     []string{t.ID},
			})
		}

		if t.ParentTaskID != "" {
			if !byID[t.ParentTaskID] {
				result.Conflicts = append(result.Conflicts, Conflict{
					Type:        ConflictDanglingParent,
					Description: fmt.Sprintf("Task %q references missing parent %s", t.Title, t.ParentTaskID),
					TaskIDs:     []string{t.ID},
					Warning:     true,
				})
			} else if t.ContributionPercent > 0 {
				contributions[t.ParentTaskID] += t.ContributionPercent
			}
		}

		if t.BlockedByConditional != "" && !condByID[t.BlockedByConditional] {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictDanglingConditional,
				Description: fmt.Sprintf("Task %q references missing conditional %s", t.Title, t.BlockedByConditional),
				TaskIDs:     []string{t.ID},
				Warning:     true,
			})
		}

		if t.Status == models.StatusDone && t.BlockedByConditional != "" {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictDoneWhileBlocked,
				Description: fmt.Sprintf("Task %q is done but still references conditional %s", t.Title, t.BlockedByConditional),
				TaskIDs:     []string{t.ID},
			})
		}
	}

	// Sibling contributions above 100 overdraw the parent; below 100 is
	// documented partial coverage and not reported at all.
	parents := make([]string, 0, len(contributions))
	for id := range contributions {
		parents = append(parents, id)
	}
	sort.Strings(parents)
	for _, id := range parents {
		if contributions[id] > 100 {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictContributionSum,
				Description: fmt.Sprintf("Children of task %s declare %d%% total contribution", id, contributions[id]),
				TaskIDs:     []string{id},
				Warning:     true,
			})
		}
	}

	// Overlapping slots within the same day bucket
	result.Conflicts = append(result.Conflicts, overlapConflicts(tasks)...)

	return result
}

// overlapConflicts flags tasks in the same day bucket whose slots overlap.
// O(n²) per bucket, fine for a personal board.
func overlapConflicts(tasks []models.Task) []Conflict {
	buckets := make(map[string][]models.Task)
	for _, t := range tasks {
		if t.DeletedAt != nil || !t.HasSlot() || t.Scope != models.ScopeDay {
			continue
		}
		buckets[t.ScopeKey] = append(buckets[t.ScopeKey], t)
	}

	keys := make([]string, 0, len(buckets))
	for k := range buckets {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var conflicts []Conflict
	for _, key := range keys {
		day := buckets[key]
		sort.Slice(day, func(i, j int) bool { return day[i].StartTime < day[j].StartTime })
		for i := 0; i < len(day); i++ {
			for j := i + 1; j < len(day); j++ {
				if timesOverlap(day[i].StartTime, day[i].EndTime, day[j].StartTime, day[j].EndTime) {
					conflicts = append(conflicts, Conflict{
						Type: ConflictOverlappingSlots,
						Description: fmt.Sprintf("%s: %s-%s %q overlaps %q",
							key, day[i].StartTime, day[i].EndTime, day[i].Title, day[j].Title),
						TaskIDs: []string{day[i].ID, day[j].ID},
						Warning: true,
					})
				}
			}
		}
	}
	return conflicts
}

// timesOverlap checks if two HH:MM ranges overlap
func timesOverlap(start1, end1, start2, end2 string) bool {
	s1, err := utils.ParseTimeToMinutes(start1)
	if err != nil {
		return false
	}
	e1, err := utils.ParseTimeToMinutes(end1)
	if err != nil {
		return false
	}
	s2, err := utils.ParseTimeToMinutes(start2)
	if err != nil {
		return false
	}
	e2, err := utils.ParseTimeToMinutes(end2)
	if err != nil {
		return false
	}
	return s1 < e2 && s2 < e1
}
