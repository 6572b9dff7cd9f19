package identity

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/aniwoo/aniwoo-api/internal/models"
	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"
)

// Resolver produces the Identity for a user id, preferring the profile store,
// creating the row on a miss, and falling back to identity-service metadata
// when the store misbehaves. Concurrent resolutions for the same user id are
// collapsed into one store round trip.
type Resolver struct {
	profiles ProfileStore
	group    singleflight.Group
}

func NewResolver(profiles ProfileStore) *Resolver {
	return &Resolver{profiles: profiles}
}

type resolution struct {
	identity models.Identity
	degraded bool
}

// Resolve returns a fully populated Identity. When the store fails for any
// reason other than a missing row, the returned error is
// ErrProfileFetchDegraded and the identity is built from the supplied
// metadata; callers must treat that as non-fatal.
func (r *Resolver) Resolve(ctx context.Context, userID uuid.UUID, email, nameHint string) (models.Identity, error) {
	if userID == uuid.Nil {
		return models.Identity{}, fmt.Errorf("resolve: user id must not be empty")
	}

	v, err, _ := r.group.Do(userID.String(), func() (any, error) {
		return r.resolve(ctx, userID, email, nameHint), nil
	})
	if err != nil {
		return models.Identity{}, err
	}

	res := v.(resolution)
	if res.degraded {
		return res.identity, ErrProfileFetchDegraded
	}
	return res.identity, nil
}

func (r *Resolver) resolve(ctx context.Context, userID uuid.UUID, email, nameHint string) resolution {
	profile, err := r.profiles.GetByID(ctx, userID)
	if err == nil {
		return resolution{identity: identityFromProfile(profile, email, nameHint)}
	}

	if !errors.Is(err, ErrProfileNotFound) {
		log.Printf("identity: profile fetch for %s degraded: %v", userID, err)
		return resolution{identity: fallbackIdentity(userID, email, nameHint), degraded: true}
	}

	created, err := r.profiles.Create(ctx, &models.Profile{
		ID:    userID,
		Name:  models.DisplayNameFor("", nameHint, email),
		Email: email,
	})
	if errors.Is(err, ErrProfileExists) {
		// The signup trigger beat us to it; its row is canonical.
		if profile, err := r.profiles.GetByID(ctx, userID); err == nil {
			return resolution{identity: identityFromProfile(profile, email, nameHint)}
		}
	}
	if err != nil {
		log.Printf("identity: profile create for %s failed: %v", userID, err)
		return resolution{identity: fallbackIdentity(userID, email, nameHint), degraded: true}
	}

	return resolution{identity: identityFromProfile(created, email, nameHint)}
}

func identityFromProfile(profile *models.Profile, email, nameHint string) models.Identity {
	resolvedEmail := profile.Email
	if resolvedEmail == "" {
		resolvedEmail = email
	}

	role := ""
	if profile.Role != nil {
		role = *profile.Role
	}

	return models.Identity{
		ID:          profile.ID,
		Email:       resolvedEmail,
		DisplayName: models.DisplayNameFor(profile.Name, nameHint, resolvedEmail),
		Role:        role,
	}
}

func fallbackIdentity(userID uuid.UUID, email, nameHint string) models.Identity {
	return models.Identity{
		ID:          userID,
		Email:       email,
		DisplayName: models.DisplayNameFor("", nameHint, email),
	}
}
