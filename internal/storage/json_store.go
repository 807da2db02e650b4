package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/ewhitmore/focal/internal/constants"
	"github.com/ewhitmore/focal/internal/models"
)

type fileContents struct {
	Version      int                                  `json:"version"`
	Settings     models.Settings                      `json:"settings"`
	Tasks        map[string]models.Task               `json:"tasks"`
	Conditionals map[string]models.Conditional        `json:"conditionals"`
	Outreach     []models.OutreachEntry               `json:"outreach"`
	Completions  map[string][]models.CompletionEvent  `json:"completions"` // owner -> history
	Unlocks      []models.UserAchievement             `json:"unlocks"`
}

// JSONStore keeps the whole database in one JSON document. Every write
// rewrites the file, which keeps the whole-document consistency model
// literal.
type JSONStore struct {
	path  string
	store *fileContents
}

func newJSONStore(path string) *JSONStore {
	return &JSONStore{path: path}
}

func (s *JSONStore) Init() error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if _, err := os.Stat(s.path); err == nil {
		return fmt.Errorf("storage already initialized at %s", s.path)
	}

	s.store = &fileContents{
		Version: 1,
		Settings: models.Settings{
			OwnerID:  constants.DefaultOwner,
			Timezone: constants.DefaultTimezone,
			DayStart: constants.DefaultDayStart,
			DayEnd:   constants.DefaultDayEnd,
		},
		Tasks:        make(map[string]models.Task),
		Conditionals: make(map[string]models.Conditional),
		Completions:  make(map[string][]models.CompletionEvent),
	}

	return s.save()
}

func (s *JSONStore) Load() error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("storage not initialized, run 'focal init' first")
		}
		return fmt.Errorf("failed to read storage: %w", err)
	}

	s.store = &fileContents{}
	if err := json.Unmarshal(data, s.store); err != nil {
		return fmt.Errorf("failed to parse storage: %w", err)
	}

	if s.store.Tasks == nil {
		s.store.Tasks = make(map[string]models.Task)
	}
	if s.store.Conditionals == nil {
		s.store.Conditionals = make(map[string]models.Conditional)
	}
	if s.store.Completions == nil {
		s.store.Completions = make(map[string][]models.CompletionEvent)
	}

	return nil
}

func (s *JSONStore) Close() error {
	return nil
}

func (s *JSONStore) save() error {
	data, err := json.MarshalIndent(s.store, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize storage: %w", err)
	}

	if err := os.WriteFile(s.path, data, 0600); err != nil {
		return fmt.Errorf("failed to write storage: %w", err)
	}

	return nil
}

func (s *JSONStore) loaded() error {
	if s.store == nil {
		return fmt.Errorf("storage not loaded")
	}
	return nil
}

func (s *JSONStore) GetSettings() (models.Settings, error) {
	if err := s.loaded(); err != nil {
		return models.Settings{}, err
	}
	return s.store.Settings, nil
}

func (s *JSONStore) SaveSettings(settings models.Settings) error {
	if err := s.loaded(); err != nil {
		return err
	}
	s.store.Settings = settings
	return s.save()
}

func (s *JSONStore) AddTask(task models.Task) error {
	if err := s.loaded(); err != nil {
		return err
	}
	s.store.Tasks[task.ID] = task
	return s.save()
}

func (s *JSONStore) GetTask(ownerID, id string) (models.Task, error) {
	if err := s.loaded(); err != nil {
		return models.Task{}, err
	}
	task, ok := s.store.Tasks[id]
	if !ok || task.OwnerID != ownerID || task.DeletedAt != nil {
		return models.Task{}, fmt.Errorf("task %s: %w", id, ErrNotFound)
	}
	return task, nil
}

func (s *JSONStore) GetAllTasks(ownerID string) ([]models.Task, error) {
	if err := s.loaded(); err != nil {
		return nil, err
	}
	var tasks []models.Task
	for _, t := range s.store.Tasks {
		if t.OwnerID == ownerID && t.DeletedAt == nil {
			tasks = append(tasks, t)
		}
	}
	sort.Slice(tasks, func(i, j int) bool { return tasks[i].CreatedAt.Before(tasks[j].CreatedAt) })
	return tasks, nil
}

func (s *JSONStore) GetTasksByScope(ownerID string, scope models.Scope, scopeKey string) ([]models.Task, error) {
	tasks, err := s.GetAllTasks(ownerID)
	if err != nil {
		return nil, err
	}
	var scoped []models.Task
	for _, t := range tasks {
		if t.Scope == scope && t.ScopeKey == scopeKey {
			scoped = append(scoped, t)
		}
	}
	return scoped, nil
}

func (s *JSONStore) UpdateTask(task models.Task) error {
	if err := s.loaded(); err != nil {
		return err
	}
	existing, ok := s.store.Tasks[task.ID]
	if !ok || existing.OwnerID != task.OwnerID {
		return fmt.Errorf("task %s: %w", task.ID, ErrNotFound)
	}
	s.store.Tasks[task.ID] = task
	return s.save()
}

func (s *JSONStore) DeleteTask(ownerID, id string) error {
	if err := s.loaded(); err != nil {
		return err
	}
	task, ok := s.store.Tasks[id]
	if !ok || task.OwnerID != ownerID || task.DeletedAt != nil {
		return fmt.Errorf("task %s: %w", id, ErrNotFound)
	}
	now := time.Now()
	task.DeletedAt = &now
	s.store.Tasks[id] = task
	return s.save()
}

func (s *JSONStore) RestoreTask(ownerID, id string) error {
	if err := s.loaded(); err != nil {
		return err
	}
	task, ok := s.store.Tasks[id]
	if !ok || task.OwnerID != ownerID || task.DeletedAt == nil {
		return fmt.Errorf("deleted task %s: %w", id, ErrNotFound)
	}
	task.DeletedAt = nil
	s.store.Tasks[id] = task
	return s.save()
}

func (s *JSONStore) AddConditional(cond models.Conditional) error {
	if err := s.loaded(); err != nil {
		return err
	}
	s.store.Conditionals[cond.ID] = cond
	return s.save()
}

func (s *JSONStore) GetConditional(ownerID, id string) (models.Conditional, error) {
	if err := s.loaded(); err != nil {
		return models.Conditional{}, err
	}
	cond, ok := s.store.Conditionals[id]
	if !ok || cond.OwnerID != ownerID {
		return models.Conditional{}, fmt.Errorf("conditional %s: %w", id, ErrNotFound)
	}
	return cond, nil
}

func (s *JSONStore) GetAllConditionals(ownerID string) ([]models.Conditional, error) {
	if err := s.loaded(); err != nil {
		return nil, err
	}
	var conds []models.Conditional
	for _, c := range s.store.Conditionals {
		if c.OwnerID == ownerID {
			conds = append(conds, c)
		}
	}
	sort.Slice(conds, func(i, j int) bool { return conds[i].CreatedAt.Before(conds[j].CreatedAt) })
	return conds, nil
}

func (s *JSONStore) ResolveConditional(ownerID, id, outcomeID string, resolvedAt time.Time) error {
	cond, err := s.GetConditional(ownerID, id)
	if err != nil {
		return err
	}
	if cond.IsResolved() {
		return fmt.Errorf("conditional %s: %w", id, ErrConditionalResolved)
	}
	if _, ok := cond.Outcome(outcomeID); !ok {
		return fmt.Errorf("conditional %s outcome %s: %w", id, outcomeID, ErrNotFound)
	}
	cond.ResolvedOutcomeID = outcomeID
	cond.ResolvedAt = &resolvedAt
	s.store.Conditionals[id] = cond
	return s.save()
}

func (s *JSONStore) AddOutreachEntry(entry models.OutreachEntry) error {
	if err := s.loaded(); err != nil {
		return err
	}
	s.store.Outreach = append(s.store.Outreach, entry)
	return s.save()
}

func (s *JSONStore) GetOutreachEntries(ownerID string) ([]models.OutreachEntry, error) {
	if err := s.loaded(); err != nil {
		return nil, err
	}
	var entries []models.OutreachEntry
	for _, e := range s.store.Outreach {
		if e.OwnerID == ownerID {
			entries = append(entries, e)
		}
	}
	return entries, nil
}

func (s *JSONStore) AddCompletion(ownerID string, event models.CompletionEvent) error {
	if err := s.loaded(); err != nil {
		return err
	}
	s.store.Completions[ownerID] = append(s.store.Completions[ownerID], event)
	return s.save()
}

func (s *JSONStore) GetCompletions(ownerID string) ([]models.CompletionEvent, error) {
	if err := s.loaded(); err != nil {
		return nil, err
	}
	return s.store.Completions[ownerID], nil
}

func (s *JSONStore) RecordAchievementUnlock(ua models.UserAchievement) error {
	if err := s.loaded(); err != nil {
		return err
	}
	for _, existing := range s.store.Unlocks {
		if existing.OwnerID == ua.OwnerID &&
			existing.AchievementID == ua.AchievementID &&
			existing.PeriodKey == ua.PeriodKey {
			// Idempotent on the composite key
			return nil
		}
	}
	s.store.Unlocks = append(s.store.Unlocks, ua)
	return s.save()
}

func (s *JSONStore) GetUserAchievements(ownerID string) ([]models.UserAchievement, error) {
	if err := s.loaded(); err != nil {
		return nil, err
	}
	var unlocks []models.UserAchievement
	for _, ua := range s.store.Unlocks {
		if ua.OwnerID == ownerID {
			unlocks = append(unlocks, ua)
		}
	}
	return unlocks, nil
}

func (s *JSONStore) GetConfigPath() string {
	return s.path
}
