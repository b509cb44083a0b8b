// Package sessionlog keeps a bounded in-memory record of auth lifecycle events
// for diagnostics. Recording never blocks callers and never fails.
package sessionlog

import (
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/iho/abrazar/internal/domain"
)

// DefaultCapacity is the number of events kept when no capacity is configured.
const DefaultCapacity = 100

// Summary describes the recorded session activity.
type Summary struct {
	TotalEvents     int                  `json:"totalEvents"`
	RefreshAttempts int                  `json:"refreshAttempts"`
	LastEvent       *domain.SessionEvent `json:"lastEvent,omitempty"`
}

// Log is a bounded, concurrency-safe session event log.
type Log struct {
	mu              sync.Mutex
	events          []domain.SessionEvent
	capacity        int
	refreshAttempts int

	logger zerolog.Logger
	now    func() time.Time
}

// New creates a log keeping at most capacity events. Every event is also
// written to logger at debug level.
func New(capacity int, logger zerolog.Logger) *Log {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Log{
		events:   make([]domain.SessionEvent, 0, capacity),
		capacity: capacity,
		logger:   logger.With().Str("component", "session").Logger(),
		now:      time.Now,
	}
}

// Record appends an event, evicting the oldest one when full.
func (l *Log) Record(kind domain.SessionEventKind, detail string) {
	if l == nil {
		return
	}

	l.mu.Lock()
	event := l.appendLocked(kind, detail)
	l.mu.Unlock()

	l.emit(event)
}

func (l *Log) appendLocked(kind domain.SessionEventKind, detail string) domain.SessionEvent {
	event := domain.SessionEvent{Kind: kind, Timestamp: l.now(), Detail: detail}
	if len(l.events) == l.capacity {
		copy(l.events, l.events[1:])
		l.events = l.events[:len(l.events)-1]
	}
	l.events = append(l.events, event)
	return event
}

func (l *Log) emit(event domain.SessionEvent) {
	e := l.logger.Debug().Str("event", string(event.Kind))
	if event.Detail != "" {
		e = e.Str("detail", event.Detail)
	}
	e.Msg("session event")
}

// LogLogin records a login and resets the refresh counter.
func (l *Log) LogLogin(email string) {
	if l == nil {
		return
	}
	l.resetRefreshAttempts()
	detail := ""
	if email != "" {
		detail = "User: " + email
	}
	l.Record(domain.EventLogin, detail)
}

// LogLogout records a user-initiated logout and resets the refresh counter.
func (l *Log) LogLogout() {
	if l == nil {
		return
	}
	l.resetRefreshAttempts()
	l.Record(domain.EventLogout, "User initiated")
}

// LogForcedLogout records a logout caused by an unrecoverable auth failure.
func (l *Log) LogForcedLogout(reason string) {
	if l == nil {
		return
	}
	l.Record(domain.EventForcedLogout, reason)
	l.resetRefreshAttempts()
}

// LogTokenExpired records a 401 that triggered a refresh.
func (l *Log) LogTokenExpired() {
	l.Record(domain.EventTokenExpired, "")
}

// LogRefreshSuccess counts the refresh and records it with the attempt number.
func (l *Log) LogRefreshSuccess() {
	if l == nil {
		return
	}

	l.mu.Lock()
	l.refreshAttempts++
	event := l.appendLocked(domain.EventRefreshSuccess, fmt.Sprintf("Attempt #%d", l.refreshAttempts))
	l.mu.Unlock()

	l.emit(event)
}

// LogRefreshFailed records a failed refresh.
func (l *Log) LogRefreshFailed(reason string) {
	l.Record(domain.EventRefreshFailed, reason)
}

// LogAuthError records an auth error that did not lead to a refresh.
func (l *Log) LogAuthError(reason string) {
	l.Record(domain.EventAuthError, reason)
}

// RefreshAttempts returns the refresh counter since the last login or logout.
func (l *Log) RefreshAttempts() int {
	if l == nil {
		return 0
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.refreshAttempts
}

// Events returns a copy of the recorded events, oldest first.
func (l *Log) Events() []domain.SessionEvent {
	if l == nil {
		return nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]domain.SessionEvent, len(l.events))
	copy(out, l.events)
	return out
}

// Summary returns the event count, refresh counter and most recent event.
func (l *Log) Summary() Summary {
	if l == nil {
		return Summary{}
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	s := Summary{
		TotalEvents:     len(l.events),
		RefreshAttempts: l.refreshAttempts,
	}
	if n := len(l.events); n > 0 {
		last := l.events[n-1]
		s.LastEvent = &last
	}
	return s
}

// Clear drops every event and resets the refresh counter.
func (l *Log) Clear() {
	if l == nil {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = l.events[:0]
	l.refreshAttempts = 0
}

func (l *Log) resetRefreshAttempts() {
	if l == nil {
		return
	}
	l.mu.Lock()
	l.refreshAttempts = 0
	l.mu.Unlock()
}
