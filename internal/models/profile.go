package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Account roles. A profile starts with no role; one is set at signup, at the
// first role-carrying login, or later via the backfill tool.
const (
	RoleVet      = "vet"
	RolePetOwner = "pet_owner"
)

func ValidRole(role string) bool {
	return role == RoleVet || role == RolePetOwner
}

// Profile is one row in the profiles table, keyed by the identity service's
// user id. Rows are created by the identity service's signup trigger or
// lazily by the resolver, and are never deleted here.
type Profile struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      *string   `json:"role,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Identity is the resolved view of the signed-in user. Role is empty until a
// role has been chosen. ID is immutable for the lifetime of a session.
type Identity struct {
	ID          uuid.UUID `json:"id"`
	Email       string    `json:"email"`
	DisplayName string    `json:"display_name"`
	Role        string    `json:"role,omitempty"`
}

// DisplayNameFor picks a display name with the same precedence the resolver
// uses everywhere: explicit name, metadata hint, email local-part, placeholder.
func DisplayNameFor(name, hint, email string) string {
	if name != "" {
		return name
	}
	if hint != "" {
		return hint
	}
	if at := strings.Index(email, "@"); at > 0 {
		return email[:at]
	}
	return "Aniwoo member"
}
