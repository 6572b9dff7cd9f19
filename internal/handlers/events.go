package handlers

import (
	"context"

	"github.com/aniwoo/aniwoo-api/internal/identity"
	"github.com/aniwoo/aniwoo-api/internal/middleware"
	"github.com/google/uuid"
	"github.com/m1z23r/drift/pkg/drift"
)

// EventsHandler streams auth-state snapshots over SSE. Each connection owns
// one identity context for its whole lifetime.
type EventsHandler struct {
	deps identity.Deps
}

func NewEventsHandler(deps identity.Deps) *EventsHandler {
	return &EventsHandler{deps: deps}
}

func (h *EventsHandler) Connect(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	sseCtx := c.SSE()

	ictx := identity.NewContext(h.deps)
	defer ictx.Dispose()

	// Watch before Initialize so the very first snapshot is not missed.
	watch := ictx.Watch()
	ictx.Initialize(context.Background(), userID, middleware.GetUserEmail(c), middleware.GetAccessToken(c))

	if err := sseCtx.SendJSON(map[string]string{
		"type": "connected",
	}, "system", ""); err != nil {
		return
	}

	done := make(chan struct{})
	go func() {
		<-c.Request.Context().Done()
		close(done)
	}()

	for {
		select {
		case snap, ok := <-watch:
			if !ok {
				return
			}
			if err := sseCtx.SendJSON(snap, "auth_state", ""); err != nil {
				return
			}
		case <-done:
			return
		}
	}
}
