// Package tui renders the day board: the owner's scheduled tasks for one day,
// laid out on the time grid with drag-equivalent keyboard moves, done toggles,
// and live refresh whenever another writer touches the store.
package tui

import (
	"fmt"
	"sort"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/ewhitmore/focal/internal/achievements"
	"github.com/ewhitmore/focal/internal/constants"
	"github.com/ewhitmore/focal/internal/grid"
	"github.com/ewhitmore/focal/internal/lifecycle"
	"github.com/ewhitmore/focal/internal/models"
	"github.com/ewhitmore/focal/internal/resolver"
	"github.com/ewhitmore/focal/internal/session"
	"github.com/ewhitmore/focal/internal/storage"
)

// snapDelta is the pixel distance of one snap increment on the canvas.
const snapDelta = float64(constants.SnapMinutes) / 60 * constants.HourHeight

type KeyMap struct {
	Up      key.Binding
	Down    key.Binding
	Toggle  key.Binding
	Start   key.Binding
	Earlier key.Binding
	Later   key.Binding
	Quit    key.Binding
}

func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Toggle, k.Start, k.Earlier, k.Later, k.Quit}
}

func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

var defaultKeys = KeyMap{
	Up:      key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
	Down:    key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
	Toggle:  key.NewBinding(key.WithKeys(" ", "enter"), key.WithHelp("space", "toggle done")),
	Start:   key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "start")),
	Earlier: key.NewBinding(key.WithKeys("K", "shift+up"), key.WithHelp("K", "move earlier")),
	Later:   key.NewBinding(key.WithKeys("J", "shift+down"), key.WithHelp("J", "move later")),
	Quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
}

// tasksMsg carries a refreshed snapshot from the store watcher.
type tasksMsg []models.Task

type Model struct {
	store   storage.Provider
	session *session.Session
	day     string
	catalog []models.Achievement

	tasks   []models.Task
	cursor  int
	status  string
	keys    KeyMap
	help    help.Model
	width   int
	height  int

	refreshes chan []models.Task
	sub       *storage.Subscription
	quitting  bool
}

// NewModel builds the board for one day. The watcher subscription stays live
// for the model's lifetime; Update tears it down on quit.
func NewModel(store storage.Provider, watcher *storage.Watcher, sess *session.Session, day string, catalog []models.Achievement) Model {
	m := Model{
		store:     store,
		session:   sess,
		day:       day,
		catalog:   catalog,
		keys:      defaultKeys,
		help:      help.New(),
		refreshes: make(chan []models.Task, 1),
	}

	ownerID, err := sess.OwnerID()
	if err != nil {
		m.status = err.Error()
		return m
	}

	filter := func(t models.Task) bool {
		return t.Scope == models.ScopeDay && t.ScopeKey == day
	}
	m.sub = watcher.WatchTasks(ownerID, filter, func(tasks []models.Task) {
		// Coalesce bursts; the latest snapshot wins
		select {
		case <-m.refreshes:
		default:
		}
		m.refreshes <- tasks
	})
	return m
}

func (m Model) Init() tea.Cmd {
	return m.waitForRefresh()
}

func (m Model) waitForRefresh() tea.Cmd {
	return func() tea.Msg {
		return tasksMsg(<-m.refreshes)
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tasksMsg:
		m.tasks = sortedBySlot(msg)
		if m.cursor >= len(m.tasks) {
			m.cursor = len(m.tasks) - 1
		}
		if m.cursor < 0 {
			m.cursor = 0
		}
		return m, m.waitForRefresh()

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			m.sub.Unsubscribe()
			return m, tea.Quit

		case key.Matches(msg, m.keys.Up):
			if m.cursor > 0 {
				m.cursor--
			}
			return m, nil

		case key.Matches(msg, m.keys.Down):
			if m.cursor < len(m.tasks)-1 {
				m.cursor++
			}
			return m, nil

		case key.Matches(msg, m.keys.Toggle):
			return m.toggleSelected(), nil

		case key.Matches(msg, m.keys.Start):
			return m.startSelected(), nil

		case key.Matches(msg, m.keys.Earlier):
			return m.moveSelected(-snapDelta), nil

		case key.Matches(msg, m.keys.Later):
			return m.moveSelected(snapDelta), nil
		}
	}
	return m, nil
}

func (m Model) selected() (models.Task, bool) {
	if m.cursor < 0 || m.cursor >= len(m.tasks) {
		return models.Task{}, false
	}
	return m.tasks[m.cursor], true
}

func (m Model) toggleSelected() Model {
	task, ok := m.selected()
	if !ok {
		return m
	}

	toggled, err := lifecycle.ToggleDone(task)
	if err != nil {
		m.status = err.Error()
		return m
	}
	toggled.UpdatedAt = m.session.Now()
	if err := m.store.UpdateTask(toggled); err != nil {
		m.status = err.Error()
		return m
	}

	if toggled.Status == models.StatusDone {
		m.status = "Completed: " + toggled.Title
		ownerID, err := m.session.OwnerID()
		if err == nil {
			event := models.CompletionEvent{TaskID: toggled.ID, CompletedAt: m.session.Now()}
			if err := m.store.AddCompletion(ownerID, event); err != nil {
				m.status = err.Error()
				return m
			}
			// Recompute right away so a threshold crossed near a period
			// boundary is recorded while the period is still current.
			result, err := achievements.Recompute(m.store, m.catalog, ownerID, m.session.Now(), m.session.Location())
			if err != nil {
				m.status = err.Error()
				return m
			}
			if n := len(result.Unlocks); n > 0 {
				m.status = fmt.Sprintf("Completed: %s (%d achievements unlocked)", toggled.Title, n)
			}
		}
	} else {
		m.status = "Reopened: " + toggled.Title
	}

	m.reconcileBlocking()
	return m
}

func (m Model) startSelected() Model {
	task, ok := m.selected()
	if !ok {
		return m
	}

	started, err := lifecycle.Start(task)
	if err != nil {
		m.status = err.Error()
		return m
	}
	started.UpdatedAt = m.session.Now()
	if err := m.store.UpdateTask(started); err != nil {
		m.status = err.Error()
		return m
	}
	m.status = "Started: " + started.Title
	return m
}

func (m Model) moveSelected(deltaPx float64) Model {
	task, ok := m.selected()
	if !ok {
		return m
	}
	if !task.HasSlot() {
		m.status = "Task has no slot to move"
		return m
	}

	slot, err := grid.Move(task.StartTime, task.EndTime, deltaPx)
	if err != nil {
		m.status = err.Error()
		return m
	}
	task.StartTime = slot.Start
	task.EndTime = slot.End
	task.UpdatedAt = m.session.Now()
	if err := m.store.UpdateTask(task); err != nil {
		m.status = err.Error()
		return m
	}
	m.status = "Moved to " + slot.Start + " - " + slot.End
	return m
}

// reconcileBlocking re-derives blocked states over the full owner snapshot,
// not just the visible day; a milestone completed today can unblock work
// scheduled elsewhere.
func (m *Model) reconcileBlocking() {
	ownerID, err := m.session.OwnerID()
	if err != nil {
		return
	}
	tasks, err := m.store.GetAllTasks(ownerID)
	if err != nil {
		m.status = err.Error()
		return
	}
	conds, err := m.store.GetAllConditionals(ownerID)
	if err != nil {
		m.status = err.Error()
		return
	}

	states := resolver.ResolveBlocking(tasks, conds)
	for _, t := range resolver.ApplyBlocking(tasks, states) {
		t.UpdatedAt = m.session.Now()
		if err := m.store.UpdateTask(t); err != nil {
			m.status = err.Error()
			return
		}
	}
}

// sortedBySlot orders scheduled tasks by start time, then unscheduled ones by
// creation.
func sortedBySlot(tasks []models.Task) []models.Task {
	sorted := make([]models.Task, len(tasks))
	copy(sorted, tasks)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if a.HasSlot() != b.HasSlot() {
			return a.HasSlot()
		}
		if a.HasSlot() {
			return a.StartTime < b.StartTime
		}
		return a.CreatedAt.Before(b.CreatedAt)
	})
	return sorted
}
