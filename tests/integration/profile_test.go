package integration

import (
	"context"
	"testing"

	"github.com/aniwoo/aniwoo-api/internal/identity"
	"github.com/aniwoo/aniwoo-api/internal/models"
	"github.com/aniwoo/aniwoo-api/internal/services"
	"github.com/aniwoo/aniwoo-api/tests/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProfileService_Integration_CreateAndGet(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	tdb := setupTest(t)
	svc := services.NewProfileService(tdb.DB)
	ctx := context.Background()

	id := uuid.New()
	role := models.RolePetOwner
	created, err := svc.Create(ctx, &models.Profile{
		ID: id, Name: "Sasha", Email: "sasha@example.com", Role: &role,
	})
	require.NoError(t, err)
	assert.Equal(t, id, created.ID)

	fetched, err := svc.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Sasha", fetched.Name)
	require.NotNil(t, fetched.Role)
	assert.Equal(t, models.RolePetOwner, *fetched.Role)
}

func TestProfileService_Integration_DuplicateCreate(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	tdb := setupTest(t)
	svc := services.NewProfileService(tdb.DB)
	ctx := context.Background()

	profile := testutil.NewFixtures(tdb.DB).CreateProfile(t)

	_, err := svc.Create(ctx, &models.Profile{
		ID: profile.ID, Name: "Other", Email: "other@example.com",
	})

	assert.ErrorIs(t, err, identity.ErrProfileExists)
}

func TestProfileService_Integration_UpsertKeepsStoredRole(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	tdb := setupTest(t)
	svc := services.NewProfileService(tdb.DB)
	ctx := context.Background()

	profile := testutil.NewFixtures(tdb.DB).CreateProfile(t, testutil.WithRole(models.RoleVet))

	// Role-less upsert must not wipe the stored role.
	updated, err := svc.Upsert(ctx, &models.Profile{
		ID: profile.ID, Name: "Renamed", Email: profile.Email,
	})

	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.Name)
	require.NotNil(t, updated.Role)
	assert.Equal(t, models.RoleVet, *updated.Role)
}

func TestProfileService_Integration_SetRoleIfUnset(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	tdb := setupTest(t)
	svc := services.NewProfileService(tdb.DB)
	ctx := context.Background()
	fixtures := testutil.NewFixtures(tdb.DB)

	unset := fixtures.CreateProfile(t)
	set := fixtures.CreateProfile(t, testutil.WithRole(models.RoleVet))

	require.NoError(t, svc.SetRoleIfUnset(ctx, unset.ID, models.RolePetOwner))
	require.NoError(t, svc.SetRoleIfUnset(ctx, set.ID, models.RolePetOwner))

	got, err := svc.GetByID(ctx, unset.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RolePetOwner, *got.Role)

	// An existing role never changes.
	got, err = svc.GetByID(ctx, set.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RoleVet, *got.Role)
}

func TestResolver_Integration_CreatesOnMiss(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	tdb := setupTest(t)
	svc := services.NewProfileService(tdb.DB)
	resolver := identity.NewResolver(svc)
	ctx := context.Background()

	userID := uuid.New()
	id, err := resolver.Resolve(ctx, userID, "lazy@example.com", "")

	require.NoError(t, err)
	assert.Equal(t, "lazy", id.DisplayName)

	// The miss materialized a real row.
	profile, err := svc.GetByID(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, "lazy", profile.Name)
	assert.Nil(t, profile.Role)
}
