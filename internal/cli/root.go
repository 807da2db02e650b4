package cli

import (
	"fmt"

	"github.com/ewhitmore/focal/internal/achievements"
	"github.com/ewhitmore/focal/internal/models"
	"github.com/ewhitmore/focal/internal/resolver"
	"github.com/ewhitmore/focal/internal/session"
	"github.com/ewhitmore/focal/internal/storage"
)

type Context struct {
	Store   storage.Provider
	Hub     *storage.Hub
	Watcher *storage.Watcher
	Session *session.Session
	Catalog []models.Achievement
}

// Owner returns the owner id every store query is scoped to.
func (c *Context) Owner() (string, error) {
	return c.Session.OwnerID()
}

// ReconcileBlocking recomputes derived blocking states over the owner's full
// snapshot and persists every status change. Returns the number of tasks
// whose status flipped.
func (c *Context) ReconcileBlocking(ownerID string) (int, error) {
	tasks, err := c.Store.GetAllTasks(ownerID)
	if err != nil {
		return 0, fmt.Errorf("failed to get tasks: %w", err)
	}
	conds, err := c.Store.GetAllConditionals(ownerID)
	if err != nil {
		return 0, fmt.Errorf("failed to get conditionals: %w", err)
	}

	states := resolver.ResolveBlocking(tasks, conds)
	changed := resolver.ApplyBlocking(tasks, states)
	for _, t := range changed {
		t.UpdatedAt = c.Session.Now()
		if err := c.Store.UpdateTask(t); err != nil {
			return 0, fmt.Errorf("failed to update task %s: %w", t.ID, err)
		}
	}
	return len(changed), nil
}

// RecomputeAchievements re-derives achievement progress from history and
// records any newly earned unlocks.
func (c *Context) RecomputeAchievements(ownerID string) (achievements.Result, error) {
	return achievements.Recompute(c.Store, c.Catalog, ownerID, c.Session.Now(), c.Session.Location())
}

// ParsePriority parses a priority flag value.
func ParsePriority(s string) (models.Priority, error) {
	switch models.Priority(s) {
	case models.PriorityLow, models.PriorityMedium, models.PriorityHigh, models.PriorityCritical:
		return models.Priority(s), nil
	default:
		return "", fmt.Errorf("invalid priority %q (expected low|medium|high|critical)", s)
	}
}

// ParseScope parses a scope flag value.
func ParseScope(s string) (models.Scope, error) {
	switch models.Scope(s) {
	case models.ScopeDay, models.ScopeWeek, models.ScopeMonth, models.ScopeYear, models.ScopeClient:
		return models.Scope(s), nil
	default:
		return "", fmt.Errorf("invalid scope %q (expected day|week|month|year|client)", s)
	}
}

// StatusGlyph returns the list marker for a task status.
func StatusGlyph(status models.TaskStatus) string {
	switch status {
	case models.StatusDone:
		return "[x]"
	case models.StatusInProgress:
		return "[~]"
	case models.StatusBlocked:
		return "[!]"
	default:
		return "[ ]"
	}
}
