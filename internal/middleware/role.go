package middleware

import (
	"context"
	"errors"
	"time"

	"github.com/aniwoo/aniwoo-api/internal/identity"
	"github.com/aniwoo/aniwoo-api/internal/models"
	"github.com/google/uuid"
	"github.com/m1z23r/drift/pkg/drift"
)

// LandingRoute is where a user with the given role belongs. Role-mismatch
// responses carry it so clients can redirect instead of dead-ending.
func LandingRoute(role string) string {
	if role == models.RoleVet {
		return "/vet/dashboard"
	}
	return "/profile"
}

// RequireRole gates a route on the profile role. Resolution is bounded by
// timeout; a store that cannot answer in time degrades to unauthenticated
// rather than hanging the request.
func RequireRole(role string, profiles identity.ProfileStore, timeout time.Duration) drift.HandlerFunc {
	return func(c *drift.Context) {
		userID := GetUserID(c)
		if userID == uuid.Nil {
			c.Unauthorized("authentication required")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), timeout)
		defer cancel()

		profile, err := profiles.GetByID(ctx, userID)
		if err != nil {
			if errors.Is(err, context.DeadlineExceeded) {
				c.Unauthorized("could not verify access in time")
				return
			}
			if errors.Is(err, identity.ErrProfileNotFound) {
				forbidden(c, role, "")
				return
			}
			c.Unauthorized("could not verify access")
			return
		}

		if profile.Role == nil || *profile.Role != role {
			actual := ""
			if profile.Role != nil {
				actual = *profile.Role
			}
			forbidden(c, role, actual)
			return
		}

		c.Next()
	}
}

// forbidden points the caller at the landing route for the role they DO have.
func forbidden(c *drift.Context, required, actual string) {
	_ = c.JSON(403, map[string]string{
		"error":    "insufficient role",
		"required": required,
		"redirect": LandingRoute(actual),
	})
}
