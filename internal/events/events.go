// Package events carries identity state-change events between the auth
// surface and anything watching a session (per-connection listeners, the
// auth-state stream).
package events

import (
	"github.com/aniwoo/aniwoo-api/internal/idp"
	"github.com/google/uuid"
)

type Kind string

const (
	KindInitialSession Kind = "initial_session"
	KindSignedIn       Kind = "signed_in"
	KindSignedUp       Kind = "signed_up"
	KindSignedOut      Kind = "signed_out"
	KindTokenRefreshed Kind = "token_refreshed"
)

// Event is one identity transition. Session is nil for signed_out.
// PendingKey names the stashed OAuth role to consume on an OAuth return
// trip; it is empty everywhere else.
type Event struct {
	Kind       Kind
	User       uuid.UUID
	Session    *idp.Session
	PendingKey string
}

// SessionBearing reports whether the event carries a live session.
func (e Event) SessionBearing() bool {
	return e.Kind != KindSignedOut && e.Session != nil && e.Session.User != nil
}
