package session

import (
	"errors"
	"time"
)

// ErrNoSession is returned when a component asks for the current owner before
// a session has been opened.
var ErrNoSession = errors.New("no active session")

// Session identifies the current owner for the lifetime of a command or TUI
// run. It is created once at startup and passed by reference to whichever
// component needs the owner id; there is no ambient global.
type Session struct {
	ownerID  string
	location *time.Location
	openedAt time.Time
	closed   bool
}

// Open creates a session for the given owner in the given timezone.
func Open(ownerID string, loc *time.Location) *Session {
	if loc == nil {
		loc = time.Local
	}
	return &Session{
		ownerID:  ownerID,
		location: loc,
		openedAt: time.Now(),
	}
}

// OwnerID returns the owner every store query is scoped to.
func (s *Session) OwnerID() (string, error) {
	if s == nil || s.closed || s.ownerID == "" {
		return "", ErrNoSession
	}
	return s.ownerID, nil
}

// Location returns the user's timezone. Local dates (streak days, period
// keys) are resolved here, not in UTC.
func (s *Session) Location() *time.Location {
	if s == nil || s.location == nil {
		return time.Local
	}
	return s.location
}

// Now returns the current time in the session's timezone.
func (s *Session) Now() time.Time {
	return time.Now().In(s.Location())
}

// Close clears the session. Further OwnerID calls fail with ErrNoSession.
// Safe to call multiple times.
func (s *Session) Close() {
	if s != nil {
		s.closed = true
	}
}
