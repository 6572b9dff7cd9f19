package integration

import (
	"context"
	"testing"
	"time"

	"github.com/aniwoo/aniwoo-api/internal/identity"
	"github.com/aniwoo/aniwoo-api/internal/idp"
	"github.com/aniwoo/aniwoo-api/internal/models"
	"github.com/aniwoo/aniwoo-api/internal/services"
	"github.com/aniwoo/aniwoo-api/tests/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func integrationSession(userID uuid.UUID, email string) *idp.Session {
	return &idp.Session{
		AccessToken:  "access-token",
		RefreshToken: "refresh-token",
		ExpiresIn:    3600,
		User:         &idp.User{ID: userID, Email: email},
	}
}

func TestRegisterThenLogin_Integration_RoleSurvives(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	tdb := setupTest(t)
	profiles := services.NewProfileService(tdb.DB)
	mockIDP := new(testutil.MockIDPClient)
	ctx := context.Background()

	userID := uuid.New()
	email := "journey@example.com"
	session := integrationSession(userID, email)

	mockIDP.On("SignUp", mock.Anything, email, "secret", mock.Anything).Return(session, nil)
	mockIDP.On("SignInWithPassword", mock.Anything, email, "secret").Return(session, nil)
	mockIDP.On("GetUser", mock.Anything, session.AccessToken).Return(session.User, nil)

	deps := identity.Deps{IDP: mockIDP, Profiles: profiles, ResolveTimeout: 500 * time.Millisecond}

	// No signup trigger in the test database: registration falls back to a
	// direct insert after the poll gives up.
	regCtx := identity.NewContext(deps)
	id, _, err := regCtx.Register(ctx, "Journey", email, "secret", models.RoleVet)
	require.NoError(t, err)
	assert.Equal(t, models.RoleVet, id.Role)
	regCtx.Dispose()

	// A later login with a different role choice keeps the stored one.
	loginCtx := identity.NewContext(deps)
	id, _, err = loginCtx.Login(ctx, email, "secret", models.RolePetOwner)
	require.NoError(t, err)
	assert.Equal(t, models.RoleVet, id.Role)
	loginCtx.Dispose()

	stored, err := profiles.GetByID(ctx, userID)
	require.NoError(t, err)
	require.NotNil(t, stored.Role)
	assert.Equal(t, models.RoleVet, *stored.Role)
}

func TestVetDirectory_Integration_JoinsNames(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	tdb := setupTest(t)
	profiles := services.NewProfileService(tdb.DB)
	vets := services.NewVetService(tdb.DB, profiles)
	fixtures := testutil.NewFixtures(tdb.DB)
	ctx := context.Background()

	owner := fixtures.CreateProfile(t, testutil.WithRole(models.RoleVet))
	fixtures.CreateVet(t, owner.ID)

	listings, err := vets.List(ctx)

	require.NoError(t, err)
	require.Len(t, listings, 1)
	assert.Equal(t, owner.Name, listings[0].Name)
	assert.Equal(t, owner.ID, listings[0].UserID)
}

func TestHealthChecks_Integration_HistoryRoundTrip(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	tdb := setupTest(t)
	checks := services.NewHealthCheckService(tdb.DB)
	fixtures := testutil.NewFixtures(tdb.DB)
	ctx := context.Background()

	owner := fixtures.CreateProfile(t)

	first, err := checks.Analyze(ctx, owner.ID, "rex.jpg")
	require.NoError(t, err)
	_, err = checks.Analyze(ctx, owner.ID, "bella.jpg")
	require.NoError(t, err)

	history, err := checks.ListByUser(ctx, owner.ID)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, first.Findings, historyByID(history, first.ID).Findings)
}

func historyByID(checks []models.HealthCheck, id uuid.UUID) *models.HealthCheck {
	for i := range checks {
		if checks[i].ID == id {
			return &checks[i]
		}
	}
	return nil
}
