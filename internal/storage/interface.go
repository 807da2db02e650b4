package storage

import (
	"time"

	"github.com/ewhitmore/focal/internal/models"
	"github.com/ewhitmore/focal/internal/storage/storeerr"
)

// ErrNotFound is returned when a requested entity does not exist for the
// owner. Shared by every backend via storeerr.
var ErrNotFound = storeerr.ErrNotFound

// ErrConditionalResolved is returned when a resolution is recorded against a
// conditional that already has a terminal outcome.
var ErrConditionalResolved = storeerr.ErrConditionalResolved

// Provider is the persistence collaborator. Every query is scoped to a
// single owner; entities are read and written as whole documents, so
// last-writer-wins is the accepted consistency model.
type Provider interface {
	// Lifecycle
	Init() error
	Load() error
	Close() error

	// Settings
	GetSettings() (models.Settings, error)
	SaveSettings(models.Settings) error

	// Tasks
	AddTask(models.Task) error
	GetTask(ownerID, id string) (models.Task, error)
	GetAllTasks(ownerID string) ([]models.Task, error)
	GetTasksByScope(ownerID string, scope models.Scope, scopeKey string) ([]models.Task, error)
	UpdateTask(models.Task) error
	DeleteTask(ownerID, id string) error
	RestoreTask(ownerID, id string) error

	// Conditionals
	AddConditional(models.Conditional) error
	GetConditional(ownerID, id string) (models.Conditional, error)
	GetAllConditionals(ownerID string) ([]models.Conditional, error)
	// ResolveConditional records the terminal outcome. A second resolution
	// fails with ErrConditionalResolved and leaves the row untouched.
	ResolveConditional(ownerID, id, outcomeID string, resolvedAt time.Time) error

	// Outreach
	AddOutreachEntry(models.OutreachEntry) error
	GetOutreachEntries(ownerID string) ([]models.OutreachEntry, error)

	// Completion history
	AddCompletion(ownerID string, event models.CompletionEvent) error
	GetCompletions(ownerID string) ([]models.CompletionEvent, error)

	// Achievement unlocks. Recording is an idempotent upsert on the
	// (owner, achievement, period) composite key.
	RecordAchievementUnlock(models.UserAchievement) error
	GetUserAchievements(ownerID string) ([]models.UserAchievement, error)

	// Utils
	GetConfigPath() string
}
