package storage

import (
	"sync"
	"time"

	"github.com/ewhitmore/focal/internal/logger"
	"github.com/ewhitmore/focal/internal/models"
)

// ChangeKind identifies which entity collection a write touched.
type ChangeKind string

const (
	ChangeTasks        ChangeKind = "tasks"
	ChangeConditionals ChangeKind = "conditionals"
	ChangeOutreach     ChangeKind = "outreach"
	ChangeCompletions  ChangeKind = "completions"
	ChangeUnlocks      ChangeKind = "unlocks"
)

// Hub fans out change notifications to live-view subscriptions. Delivery is
// synchronous on the writer's goroutine; subscriptions are cooperative and
// must not block.
type Hub struct {
	mu   sync.Mutex
	next int
	subs map[int]hubSub
}

type hubSub struct {
	kind ChangeKind
	fn   func()
}

func NewHub() *Hub {
	return &Hub{subs: make(map[int]hubSub)}
}

// Notify re-delivers to every subscription registered for the kind.
func (h *Hub) Notify(kind ChangeKind) {
	h.mu.Lock()
	var fns []func()
	for _, s := range h.subs {
		if s.kind == kind {
			fns = append(fns, s.fn)
		}
	}
	h.mu.Unlock()

	for _, fn := range fns {
		fn()
	}
}

func (h *Hub) subscribe(kind ChangeKind, fn func()) *Subscription {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.next++
	id := h.next
	h.subs[id] = hubSub{kind: kind, fn: fn}
	return &Subscription{hub: h, id: id}
}

// Subscription is the unsubscribe handle for one live view. Unsubscribe is
// idempotent; leaked listeners are the caller's bug, so teardown paths should
// always call it.
type Subscription struct {
	hub  *Hub
	id   int
	once sync.Once
}

func (s *Subscription) Unsubscribe() {
	if s == nil {
		return
	}
	s.once.Do(func() {
		s.hub.mu.Lock()
		delete(s.hub.subs, s.id)
		s.hub.mu.Unlock()
	})
}

// Watcher composes a Provider and a Hub into live snapshot views: each
// callback receives a full refreshed snapshot on registration and again after
// every relevant write, never diffs.
type Watcher struct {
	store Provider
	hub   *Hub
}

func NewWatcher(store Provider, hub *Hub) *Watcher {
	return &Watcher{store: store, hub: hub}
}

// WatchTasks registers a live view over the owner's tasks. A nil filter
// passes everything. Query errors are logged and the previous snapshot
// stands; the subscription stays live.
func (w *Watcher) WatchTasks(ownerID string, filter func(models.Task) bool, fn func([]models.Task)) *Subscription {
	deliver := func() {
		tasks, err := w.store.GetAllTasks(ownerID)
		if err != nil {
			logger.Warn("Task snapshot refresh failed", "owner", ownerID, "error", err)
			return
		}
		if filter != nil {
			filtered := tasks[:0:0]
			for _, t := range tasks {
				if filter(t) {
					filtered = append(filtered, t)
				}
			}
			tasks = filtered
		}
		fn(tasks)
	}
	sub := w.hub.subscribe(ChangeTasks, deliver)
	deliver()
	return sub
}

// WatchConditionals registers a live view over the owner's conditionals.
func (w *Watcher) WatchConditionals(ownerID string, fn func([]models.Conditional)) *Subscription {
	deliver := func() {
		conds, err := w.store.GetAllConditionals(ownerID)
		if err != nil {
			logger.Warn("Conditional snapshot refresh failed", "owner", ownerID, "error", err)
			return
		}
		fn(conds)
	}
	sub := w.hub.subscribe(ChangeConditionals, deliver)
	deliver()
	return sub
}

// NotifyingStore decorates a Provider so every successful write publishes a
// change notification to the hub.
type NotifyingStore struct {
	Provider
	hub *Hub
}

func WithNotifications(store Provider, hub *Hub) *NotifyingStore {
	return &NotifyingStore{Provider: store, hub: hub}
}

func (s *NotifyingStore) notify(kind ChangeKind, err error) error {
	if err == nil {
		s.hub.Notify(kind)
	}
	return err
}

func (s *NotifyingStore) AddTask(task models.Task) error {
	return s.notify(ChangeTasks, s.Provider.AddTask(task))
}

func (s *NotifyingStore) UpdateTask(task models.Task) error {
	return s.notify(ChangeTasks, s.Provider.UpdateTask(task))
}

func (s *NotifyingStore) DeleteTask(ownerID, id string) error {
	return s.notify(ChangeTasks, s.Provider.DeleteTask(ownerID, id))
}

func (s *NotifyingStore) RestoreTask(ownerID, id string) error {
	return s.notify(ChangeTasks, s.Provider.RestoreTask(ownerID, id))
}

func (s *NotifyingStore) AddConditional(cond models.Conditional) error {
	return s.notify(ChangeConditionals, s.Provider.AddConditional(cond))
}

func (s *NotifyingStore) ResolveConditional(ownerID, id, outcomeID string, resolvedAt time.Time) error {
	return s.notify(ChangeConditionals, s.Provider.ResolveConditional(ownerID, id, outcomeID, resolvedAt))
}

func (s *NotifyingStore) AddOutreachEntry(entry models.OutreachEntry) error {
	return s.notify(ChangeOutreach, s.Provider.AddOutreachEntry(entry))
}

func (s *NotifyingStore) AddCompletion(ownerID string, event models.CompletionEvent) error {
	return s.notify(ChangeCompletions, s.Provider.AddCompletion(ownerID, event))
}

func (s *NotifyingStore) RecordAchievementUnlock(ua models.UserAchievement) error {
	return s.notify(ChangeUnlocks, s.Provider.RecordAchievementUnlock(ua))
}
