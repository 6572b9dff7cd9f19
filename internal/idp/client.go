// Package idp talks to the external identity service. The service owns
// credentials, session issuance and OAuth token exchange; this package is a
// thin typed client over its REST surface.
package idp

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Metadata is the free-form user metadata the identity service stores at
// signup and returns with every user payload.
type Metadata struct {
	Name     string `json:"name,omitempty"`
	FullName string `json:"full_name,omitempty"`
	Role     string `json:"role,omitempty"`
}

// DisplayName returns the best name hint the metadata carries.
func (m Metadata) DisplayName() string {
	if m.Name != "" {
		return m.Name
	}
	return m.FullName
}

type User struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	Metadata  Metadata  `json:"user_metadata"`
	CreatedAt time.Time `json:"created_at"`
}

type Session struct {
	AccessToken  string `json:"access_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int64  `json:"expires_in"`
	RefreshToken string `json:"refresh_token"`
	User         *User  `json:"user"`
}

// Error is a failure response from the identity service.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("identity service returned %d: %s", e.Status, e.Message)
}

// IsStatus reports whether err is an identity service error with the given
// HTTP status.
func IsStatus(err error, status int) bool {
	var ie *Error
	return errors.As(err, &ie) && ie.Status == status
}

// Client is the identity service operation set the platform consumes.
type Client interface {
	SignInWithPassword(ctx context.Context, email, password string) (*Session, error)
	SignUp(ctx context.Context, email, password string, meta Metadata) (*Session, error)
	SignInWithIDToken(ctx context.Context, provider, idToken string) (*Session, error)
	RefreshSession(ctx context.Context, refreshToken string) (*Session, error)
	GetUser(ctx context.Context, accessToken string) (*User, error)
	SignOut(ctx context.Context, accessToken string) error
}
