// Package domain defines the audit log entities for authentication events.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// Event identifies the kind of authentication event being recorded.
type Event string

// Authentication events recorded in the audit log.
const (
	EventRegister    Event = "register"
	EventLogin       Event = "login"
	EventLoginFailed Event = "login_failed"
	EventLogout      Event = "logout"
)

// AuditLog records an authentication event for security monitoring. UserID is
// nil for failed logins where no user was resolved.
type AuditLog struct {
	ID         uuid.UUID
	RequestID  uuid.UUID
	UserID     *uuid.UUID
	Event      Event
	RemoteAddr string
	Metadata   map[string]any
	CreatedAt  time.Time
}
