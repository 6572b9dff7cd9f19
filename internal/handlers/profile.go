package handlers

import (
	"context"
	"errors"
	"time"

	"github.com/aniwoo/aniwoo-api/internal/identity"
	"github.com/aniwoo/aniwoo-api/internal/middleware"
	"github.com/aniwoo/aniwoo-api/pkg/dto"
	"github.com/google/uuid"
	"github.com/m1z23r/drift/pkg/drift"
)

type ProfileHandler struct {
	profiles ProfileServiceInterface
	resolver *identity.Resolver
	timeout  time.Duration
}

func NewProfileHandler(profiles ProfileServiceInterface, timeout time.Duration) *ProfileHandler {
	return &ProfileHandler{
		profiles: profiles,
		resolver: identity.NewResolver(profiles),
		timeout:  timeout,
	}
}

// GetMe resolves the caller's identity. A degraded resolution still answers
// with the session's id and email so the client has something to render.
func (h *ProfileHandler) GetMe(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()

	id, err := h.resolver.Resolve(ctx, userID, middleware.GetUserEmail(c), "")
	degraded := errors.Is(err, identity.ErrProfileFetchDegraded)
	if err != nil && !degraded {
		c.InternalServerError("could not resolve profile")
		return
	}

	_ = c.JSON(200, dto.ProfileResponse{
		ID:       id.ID.String(),
		Name:     id.DisplayName,
		Email:    id.Email,
		Role:     id.Role,
		Degraded: degraded,
	})
}

func (h *ProfileHandler) UpdateMe(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	var req dto.UpdateProfileRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}
	if req.Name == "" {
		c.BadRequest("name is required")
		return
	}

	profile, err := h.profiles.UpdateName(c.Request.Context(), userID, req.Name)
	if err != nil {
		if errors.Is(err, identity.ErrProfileNotFound) {
			c.NotFound("profile not found")
			return
		}
		c.InternalServerError("could not update profile")
		return
	}

	role := ""
	if profile.Role != nil {
		role = *profile.Role
	}
	_ = c.JSON(200, dto.ProfileResponse{
		ID:        profile.ID.String(),
		Name:      profile.Name,
		Email:     profile.Email,
		Role:      role,
		UpdatedAt: profile.UpdatedAt,
	})
}
