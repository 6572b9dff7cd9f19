package identity

import (
	"context"
	"errors"
	"log"

	"github.com/aniwoo/aniwoo-api/internal/events"
	"github.com/aniwoo/aniwoo-api/internal/idp"
	"github.com/aniwoo/aniwoo-api/internal/models"
)

// HandleEvent is the session listener. Events are serialized: each one runs
// to completion, including its store round trips, before the next is applied.
// The handler never panics outward; failures degrade to a minimal identity.
func (c *Context) HandleEvent(ctx context.Context, ev events.Event) {
	c.mu.Lock()
	defer c.mu.Unlock()
	defer func() {
		if rec := recover(); rec != nil {
			log.Printf("identity: event handler panic: %v", rec)
			c.applyFallbackLocked(ev)
		}
	}()

	if c.disposed {
		return
	}

	switch ev.Kind {
	case events.KindTokenRefreshed:
		// Fresh tokens, same user. No profile refetch: a refetch here could
		// clobber a just-set in-memory role with stale store data.
		if ev.Session != nil {
			c.session = ev.Session
		}
		return
	case events.KindSignedOut:
		c.clearLocked()
		return
	}

	if !ev.SessionBearing() {
		c.clearLocked()
		return
	}

	c.state = StateResolving
	user := ev.Session.User

	if ev.Kind == events.KindSignedUp || ev.PendingKey != "" {
		c.ensureProfileLocked(ctx, user, ev.PendingKey)
	}

	id, err := c.resolver.Resolve(ctx, user.ID, user.Email, user.Metadata.DisplayName())
	if err != nil && !errors.Is(err, ErrProfileFetchDegraded) {
		log.Printf("identity: resolution for %s failed: %v", user.ID, err)
		id = fallbackIdentity(user.ID, user.Email, user.Metadata.DisplayName())
	}

	c.session = ev.Session
	c.setIdentityLocked(&id)
}

// ensureProfileLocked makes sure a profile row exists for the user, merging
// in a consumed pending OAuth role or signup metadata role without ever
// overwriting a role the store already has.
func (c *Context) ensureProfileLocked(ctx context.Context, user *idp.User, pendingKey string) {
	pendingRole := ""
	if pendingKey != "" && c.deps.Pending != nil {
		role, err := c.deps.Pending.Consume(ctx, pendingKey)
		if err != nil {
			log.Printf("identity: pending role consume failed: %v", err)
		} else {
			pendingRole = role
		}
	}

	name := models.DisplayNameFor("", user.Metadata.DisplayName(), user.Email)
	role := pendingRole
	if role == "" {
		role = user.Metadata.Role
	}

	if existing, err := c.deps.Profiles.GetByID(ctx, user.ID); err == nil {
		if existing.Name != "" {
			name = existing.Name
		}
		if existing.Role != nil && *existing.Role != "" {
			role = *existing.Role
		}
	}

	profile := &models.Profile{ID: user.ID, Name: name, Email: user.Email}
	if role != "" {
		profile.Role = &role
	}

	if _, err := c.deps.Profiles.Upsert(ctx, profile); err != nil {
		log.Printf("identity: profile upsert for %s failed: %v", user.ID, err)
	}
}

func (c *Context) applyFallbackLocked(ev events.Event) {
	if c.disposed {
		return
	}
	if !ev.SessionBearing() {
		c.clearLocked()
		return
	}
	user := ev.Session.User
	id := fallbackIdentity(user.ID, user.Email, user.Metadata.DisplayName())
	c.session = ev.Session
	c.setIdentityLocked(&id)
}
