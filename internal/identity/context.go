// Package identity holds the consolidated session and identity resolution
// logic: one listener per context lifetime, one resolver, one place that
// decides who the current user is.
package identity

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/aniwoo/aniwoo-api/internal/events"
	"github.com/aniwoo/aniwoo-api/internal/idp"
	"github.com/aniwoo/aniwoo-api/internal/models"
	"github.com/google/uuid"
)

type State int

const (
	StateUninitialized State = iota
	StateResolving
	StateResolved
)

// Snapshot is what watchers see after every transition.
type Snapshot struct {
	State         State            `json:"-"`
	Identity      *models.Identity `json:"identity"`
	Authenticated bool             `json:"authenticated"`
}

// Context owns the identity state for one logical device session. It is
// created per owner (an event-stream connection, an auth request), never
// shared as a global.
type Context struct {
	deps     Deps
	resolver *Resolver
	timeout  time.Duration

	mu       sync.Mutex
	state    State
	current  *models.Identity
	session  *idp.Session
	disposed bool

	sub           *events.Subscriber
	fallbackTimer *time.Timer
	watchers      []chan Snapshot
}

func NewContext(deps Deps) *Context {
	timeout := deps.ResolveTimeout
	if timeout <= 0 {
		timeout = DefaultResolveTimeout
	}
	return &Context{
		deps:     deps,
		resolver: NewResolver(deps.Profiles),
		timeout:  timeout,
	}
}

// Initialize attaches the event subscription first, then seeds state from the
// current session, so no event emitted in between is missed. A fallback timer
// forces a resolved state if neither path completes in time.
func (c *Context) Initialize(ctx context.Context, userID uuid.UUID, email, accessToken string) {
	c.mu.Lock()
	if c.disposed {
		c.mu.Unlock()
		return
	}

	if c.deps.Source != nil && userID != uuid.Nil {
		sub := &events.Subscriber{
			ID:     uuid.New().String(),
			UserID: userID,
			Send:   make(chan events.Event, 16),
		}
		c.deps.Source.Subscribe(sub)
		c.sub = sub
		go c.consume(sub)
	}

	c.fallbackTimer = time.AfterFunc(c.timeout, func() {
		c.forceResolve(userID, email)
	})
	c.mu.Unlock()

	go c.seed(userID, accessToken)
}

// Dispose releases the subscription and timers. Late events are ignored.
func (c *Context) Dispose() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.disposed {
		return
	}
	c.disposed = true

	if c.fallbackTimer != nil {
		c.fallbackTimer.Stop()
	}
	if c.sub != nil && c.deps.Source != nil {
		c.deps.Source.Unsubscribe(c.sub)
		c.sub = nil
	}
	for _, ch := range c.watchers {
		close(ch)
	}
	c.watchers = nil
}

// Current returns the resolved identity, if any.
func (c *Context) Current() (models.Identity, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.current == nil {
		return models.Identity{}, false
	}
	return *c.current, true
}

func (c *Context) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *Context) IsAuthenticated() bool {
	_, ok := c.Current()
	return ok
}

// Session returns the tokens backing the current identity, if any.
func (c *Context) Session() *idp.Session {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session
}

// AdoptSession attaches an already established session without triggering
// resolution. Request-scoped owners use it before Logout.
func (c *Context) AdoptSession(session *idp.Session) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.disposed {
		return
	}
	c.session = session
}

// Watch registers a watcher. The current snapshot is delivered immediately,
// then one per transition. The channel closes on Dispose.
func (c *Context) Watch() <-chan Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	ch := make(chan Snapshot, 8)
	ch <- c.snapshotLocked()
	if c.disposed {
		close(ch)
		return ch
	}
	c.watchers = append(c.watchers, ch)
	return ch
}

// consume applies bus events. Every event's store work is bounded by the
// resolve timeout: HandleEvent holds the context mutex, and forceResolve
// needs that mutex too, so a store call must never outlive the timer.
func (c *Context) consume(sub *events.Subscriber) {
	for ev := range sub.Send {
		ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
		c.HandleEvent(ctx, ev)
		cancel()
	}
}

func (c *Context) seed(userID uuid.UUID, accessToken string) {
	// Same bound as consume: seeding runs under the context mutex.
	ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
	defer cancel()

	if accessToken == "" {
		c.HandleEvent(ctx, events.Event{Kind: events.KindSignedOut, User: userID})
		return
	}

	user, err := c.deps.IDP.GetUser(ctx, accessToken)
	if err != nil {
		// The fallback timer guarantees forward progress.
		log.Printf("identity: session seed for %s failed: %v", userID, err)
		return
	}

	c.HandleEvent(ctx, events.Event{
		Kind:    events.KindInitialSession,
		User:    user.ID,
		Session: &idp.Session{AccessToken: accessToken, User: user},
	})
}

// forceResolve is the bounded-timeout escape hatch: build a minimal identity
// from whatever session data exists rather than leaving callers hanging.
func (c *Context) forceResolve(userID uuid.UUID, email string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.disposed || c.state == StateResolved {
		return
	}

	log.Printf("identity: resolution timed out, forcing resolved state")
	if userID != uuid.Nil {
		id := fallbackIdentity(userID, email, "")
		c.current = &id
	} else {
		c.current = nil
	}
	c.state = StateResolved
	c.notifyLocked()
}

func (c *Context) snapshotLocked() Snapshot {
	snap := Snapshot{State: c.state, Authenticated: c.current != nil}
	if c.current != nil {
		id := *c.current
		snap.Identity = &id
	}
	return snap
}

func (c *Context) notifyLocked() {
	snap := c.snapshotLocked()
	for _, ch := range c.watchers {
		select {
		case ch <- snap:
		default:
			// Watcher buffer full, skip
		}
	}
}

func (c *Context) setIdentityLocked(id *models.Identity) {
	c.current = id
	c.state = StateResolved
	if c.fallbackTimer != nil {
		c.fallbackTimer.Stop()
	}
	c.notifyLocked()
}

func (c *Context) clearLocked() {
	c.current = nil
	c.session = nil
	c.state = StateResolved
	if c.fallbackTimer != nil {
		c.fallbackTimer.Stop()
	}
	c.notifyLocked()
}
