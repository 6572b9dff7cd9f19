package identity

import (
	"context"
	"time"

	"github.com/aniwoo/aniwoo-api/internal/events"
	"github.com/aniwoo/aniwoo-api/internal/idp"
	"github.com/aniwoo/aniwoo-api/internal/models"
	"github.com/aniwoo/aniwoo-api/internal/oauth"
	"github.com/google/uuid"
)

// ProfileStore is the persisted profile table. Implementations return
// ErrProfileNotFound for missing rows and ErrProfileExists when an insert
// loses a race to the signup trigger.
type ProfileStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Profile, error)
	Create(ctx context.Context, profile *models.Profile) (*models.Profile, error)
	Upsert(ctx context.Context, profile *models.Profile) (*models.Profile, error)
	SetRoleIfUnset(ctx context.Context, id uuid.UUID, role string) error
}

// PendingRoleStore bridges a role choice across an external OAuth redirect.
// Consume returns the stashed role at most once; a missing key yields "".
type PendingRoleStore interface {
	Stash(ctx context.Context, key, role string) error
	Consume(ctx context.Context, key string) (string, error)
	Clear(ctx context.Context, key string) error
}

// EventSource delivers identity state-change events. events.Bus implements it.
type EventSource interface {
	Subscribe(sub *events.Subscriber)
	Unsubscribe(sub *events.Subscriber)
}

// Deps wires a Context. IDP and Profiles are required; the rest are optional
// depending on which operations the owner uses.
type Deps struct {
	IDP      idp.Client
	Profiles ProfileStore
	Pending  PendingRoleStore
	Source   EventSource
	Google   oauth.Provider

	// ResolveTimeout bounds the fallback timer and the durability/trigger
	// waits. Zero means DefaultResolveTimeout.
	ResolveTimeout time.Duration
}

// DefaultResolveTimeout bounds identity resolution before the fallback path
// forces forward progress.
const DefaultResolveTimeout = 5 * time.Second
