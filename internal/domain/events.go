package domain

import "time"

// SessionEventKind identifies an auth lifecycle event.
type SessionEventKind string

// Session event kinds
const (
	EventLogin          SessionEventKind = "LOGIN"
	EventLogout         SessionEventKind = "LOGOUT"
	EventRefreshSuccess SessionEventKind = "REFRESH_SUCCESS"
	EventRefreshFailed  SessionEventKind = "REFRESH_FAILED"
	EventTokenExpired   SessionEventKind = "TOKEN_EXPIRED"
	EventForcedLogout   SessionEventKind = "FORCED_LOGOUT"
	EventAuthError      SessionEventKind = "AUTH_ERROR"
)

// SessionEvent is a diagnostic record of an auth lifecycle event. It never
// affects control flow.
type SessionEvent struct {
	Kind      SessionEventKind `json:"kind"`
	Timestamp time.Time        `json:"timestamp"`
	Detail    string           `json:"detail,omitempty"`
}
