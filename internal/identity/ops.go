package identity

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/aniwoo/aniwoo-api/internal/idp"
	"github.com/aniwoo/aniwoo-api/internal/models"
	"github.com/aniwoo/aniwoo-api/internal/oauth"
	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
)

// Login authenticates with the identity service, confirms the session is
// durable, backfills the chosen role only when the profile has none, and
// resolves the identity. A role already stored wins over the passed-in one.
func (c *Context) Login(ctx context.Context, email, password, role string) (models.Identity, *idp.Session, error) {
	if !models.ValidRole(role) {
		return models.Identity{}, nil, fmt.Errorf("login: invalid role %q", role)
	}

	session, err := c.deps.IDP.SignInWithPassword(ctx, email, password)
	if err != nil {
		if idp.IsStatus(err, http.StatusBadRequest) || idp.IsStatus(err, http.StatusUnauthorized) {
			return models.Identity{}, nil, fmt.Errorf("login: %w", ErrInvalidCredentials)
		}
		return models.Identity{}, nil, fmt.Errorf("login: %w", err)
	}

	user, err := c.confirmSession(ctx, session.AccessToken)
	if err != nil {
		return models.Identity{}, nil, fmt.Errorf("login: %w", ErrSessionEstablishmentFailed)
	}
	session.User = user

	storedRole := ""
	if profile, err := c.deps.Profiles.GetByID(ctx, user.ID); err == nil && profile.Role != nil {
		storedRole = *profile.Role
	}
	if storedRole == "" {
		if err := c.deps.Profiles.SetRoleIfUnset(ctx, user.ID, role); err != nil {
			log.Printf("identity: role backfill for %s failed: %v", user.ID, err)
		}
	}

	id, err := c.resolver.Resolve(ctx, user.ID, user.Email, user.Metadata.DisplayName())
	if err != nil && !errors.Is(err, ErrProfileFetchDegraded) {
		id = fallbackIdentity(user.ID, user.Email, user.Metadata.DisplayName())
	}
	if storedRole != "" {
		id.Role = storedRole
	} else if id.Role == "" {
		id.Role = role
	}

	c.mu.Lock()
	c.session = session
	c.setIdentityLocked(&id)
	c.mu.Unlock()

	return id, session, nil
}

// Register signs up with name/role metadata, waits for the server-side
// trigger to materialize the profile row, and creates the row itself when
// the trigger never shows up.
func (c *Context) Register(ctx context.Context, name, email, password, role string) (models.Identity, *idp.Session, error) {
	if !models.ValidRole(role) {
		return models.Identity{}, nil, fmt.Errorf("register: invalid role %q", role)
	}
	if name == "" {
		return models.Identity{}, nil, fmt.Errorf("register: name must not be empty")
	}

	session, err := c.deps.IDP.SignUp(ctx, email, password, idp.Metadata{
		Name:     name,
		FullName: name,
		Role:     role,
	})
	if err != nil {
		return models.Identity{}, nil, fmt.Errorf("register: %w", err)
	}
	if session.User == nil {
		return models.Identity{}, nil, fmt.Errorf("register: %w", ErrSessionEstablishmentFailed)
	}
	user := session.User

	profile, err := c.awaitProfile(ctx, user.ID)
	switch {
	case err == nil:
		// Trigger-created row: update it with the supplied name and role.
		profile, err = c.deps.Profiles.Upsert(ctx, &models.Profile{
			ID:    user.ID,
			Name:  name,
			Email: user.Email,
			Role:  &role,
		})
		if err != nil {
			return models.Identity{}, nil, fmt.Errorf("register: %w", ErrProfileCreationFailed)
		}
	default:
		profile, err = c.deps.Profiles.Create(ctx, &models.Profile{
			ID:    user.ID,
			Name:  name,
			Email: user.Email,
			Role:  &role,
		})
		if errors.Is(err, ErrProfileExists) {
			// The trigger landed between the poll and the insert.
			profile, err = c.deps.Profiles.GetByID(ctx, user.ID)
		}
		if err != nil {
			return models.Identity{}, nil, fmt.Errorf("register: %w", ErrProfileCreationFailed)
		}
	}

	id := identityFromProfile(profile, user.Email, name)
	if id.Role == "" {
		id.Role = role
	}

	c.mu.Lock()
	c.session = session
	c.setIdentityLocked(&id)
	c.mu.Unlock()

	return id, session, nil
}

// LoginWithGoogle stashes the chosen role under a fresh state nonce and
// returns the provider consent URL. Identity is not set here; the OAuth
// return trip arrives as a signed_in/signed_up event that consumes the stash.
// A stash whose return trip never happens expires on the store's TTL.
func (c *Context) LoginWithGoogle(ctx context.Context, role string) (string, error) {
	if !models.ValidRole(role) {
		return "", fmt.Errorf("login with google: invalid role %q", role)
	}
	if c.deps.Google == nil || c.deps.Pending == nil {
		return "", fmt.Errorf("login with google: %w", ErrOAuthInitiationFailed)
	}

	state, err := oauth.GenerateState()
	if err != nil {
		return "", fmt.Errorf("login with google: %w", ErrOAuthInitiationFailed)
	}

	if err := c.deps.Pending.Stash(ctx, state, role); err != nil {
		return "", fmt.Errorf("login with google: %w", ErrOAuthInitiationFailed)
	}

	url := c.deps.Google.ConsentURL(state)
	if url == "" {
		// Start the next attempt clean.
		_ = c.deps.Pending.Clear(ctx, state)
		return "", fmt.Errorf("login with google: %w", ErrOAuthInitiationFailed)
	}

	return url, nil
}

// Logout always clears local identity; a failing identity service must not
// keep the user signed in from their point of view.
func (c *Context) Logout(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.session != nil {
		if err := c.deps.IDP.SignOut(ctx, c.session.AccessToken); err != nil {
			log.Printf("identity: sign-out call failed: %v", err)
		}
	}

	c.clearLocked()
	return nil
}

// confirmSession verifies the freshly issued token actually works before the
// login is reported successful.
func (c *Context) confirmSession(ctx context.Context, accessToken string) (*idp.User, error) {
	var user *idp.User

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = 100 * time.Millisecond
	bo.MaxInterval = time.Second
	bo.MaxElapsedTime = c.timeout

	err := backoff.Retry(func() error {
		u, err := c.deps.IDP.GetUser(ctx, accessToken)
		if err != nil {
			return err
		}
		user = u
		return nil
	}, backoff.WithContext(bo, ctx))
	if err != nil {
		return nil, err
	}
	return user, nil
}

// awaitProfile polls for the trigger-created profile row with backoff, so
// variable trigger latency is tolerated without fixed sleeps.
func (c *Context) awaitProfile(ctx context.Context, id uuid.UUID) (*models.Profile, error) {
	var profile *models.Profile

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = 300 * time.Millisecond
	bo.MaxInterval = time.Second
	bo.MaxElapsedTime = c.timeout

	err := backoff.Retry(func() error {
		p, err := c.deps.Profiles.GetByID(ctx, id)
		if err != nil {
			if errors.Is(err, ErrProfileNotFound) {
				return err
			}
			return backoff.Permanent(err)
		}
		profile = p
		return nil
	}, backoff.WithContext(bo, ctx))
	if err != nil {
		return nil, err
	}
	return profile, nil
}
