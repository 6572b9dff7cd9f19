package identity

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/aniwoo/aniwoo-api/internal/events"
	"github.com/aniwoo/aniwoo-api/internal/idp"
	"github.com/aniwoo/aniwoo-api/internal/models"
	"github.com/aniwoo/aniwoo-api/internal/oauth"
	"github.com/aniwoo/aniwoo-api/tests/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// shortTimeout keeps the backoff waits from slowing the suite down.
const shortTimeout = 200 * time.Millisecond

func TestLogin_StoredRoleWinsOverRequestedRole(t *testing.T) {
	mockIDP := new(testutil.MockIDPClient)
	mockProfiles := new(testutil.MockProfileService)
	userID := uuid.New()
	email := "mira@example.com"

	session := testSession(userID, email)
	mockIDP.On("SignInWithPassword", mock.Anything, email, "secret").Return(session, nil)
	mockIDP.On("GetUser", mock.Anything, session.AccessToken).Return(session.User, nil)
	mockProfiles.On("GetByID", mock.Anything, userID).Return(vetProfile(userID, email), nil)

	c := NewContext(Deps{IDP: mockIDP, Profiles: mockProfiles, ResolveTimeout: shortTimeout})

	id, gotSession, err := c.Login(context.Background(), email, "secret", models.RolePetOwner)

	require.NoError(t, err)
	assert.Equal(t, models.RoleVet, id.Role)
	assert.Equal(t, session.AccessToken, gotSession.AccessToken)
	assert.True(t, c.IsAuthenticated())
	mockProfiles.AssertNotCalled(t, "SetRoleIfUnset", mock.Anything, mock.Anything, mock.Anything)
}

func TestLogin_BackfillsRoleWhenUnset(t *testing.T) {
	mockIDP := new(testutil.MockIDPClient)
	mockProfiles := new(testutil.MockProfileService)
	userID := uuid.New()
	email := "owner@example.com"

	session := testSession(userID, email)
	profile := &models.Profile{ID: userID, Name: "Owner", Email: email}

	mockIDP.On("SignInWithPassword", mock.Anything, email, "secret").Return(session, nil)
	mockIDP.On("GetUser", mock.Anything, session.AccessToken).Return(session.User, nil)
	mockProfiles.On("GetByID", mock.Anything, userID).Return(profile, nil)
	mockProfiles.On("SetRoleIfUnset", mock.Anything, userID, models.RolePetOwner).Return(nil)

	c := NewContext(Deps{IDP: mockIDP, Profiles: mockProfiles, ResolveTimeout: shortTimeout})

	id, _, err := c.Login(context.Background(), email, "secret", models.RolePetOwner)

	require.NoError(t, err)
	assert.Equal(t, models.RolePetOwner, id.Role)
	mockProfiles.AssertCalled(t, "SetRoleIfUnset", mock.Anything, userID, models.RolePetOwner)
}

func TestLogin_InvalidCredentials(t *testing.T) {
	mockIDP := new(testutil.MockIDPClient)
	mockProfiles := new(testutil.MockProfileService)

	mockIDP.On("SignInWithPassword", mock.Anything, "x@example.com", "wrong").
		Return(nil, &idp.Error{Status: http.StatusBadRequest, Message: "invalid login credentials"})

	c := NewContext(Deps{IDP: mockIDP, Profiles: mockProfiles, ResolveTimeout: shortTimeout})

	_, _, err := c.Login(context.Background(), "x@example.com", "wrong", models.RolePetOwner)

	assert.ErrorIs(t, err, ErrInvalidCredentials)
	assert.False(t, c.IsAuthenticated())
}

func TestLogin_InvalidRoleRejected(t *testing.T) {
	c := NewContext(Deps{ResolveTimeout: shortTimeout})

	_, _, err := c.Login(context.Background(), "x@example.com", "secret", "admin")

	require.Error(t, err)
}

func TestLogin_SessionNeverDurable(t *testing.T) {
	mockIDP := new(testutil.MockIDPClient)
	mockProfiles := new(testutil.MockProfileService)
	userID := uuid.New()
	session := testSession(userID, "x@example.com")

	mockIDP.On("SignInWithPassword", mock.Anything, "x@example.com", "secret").Return(session, nil)
	mockIDP.On("GetUser", mock.Anything, session.AccessToken).Return(nil, errors.New("token not ready"))

	c := NewContext(Deps{IDP: mockIDP, Profiles: mockProfiles, ResolveTimeout: shortTimeout})

	_, _, err := c.Login(context.Background(), "x@example.com", "secret", models.RolePetOwner)

	assert.ErrorIs(t, err, ErrSessionEstablishmentFailed)
}

func TestRegister_TriggerRowIsUpdated(t *testing.T) {
	mockIDP := new(testutil.MockIDPClient)
	mockProfiles := new(testutil.MockProfileService)
	userID := uuid.New()
	email := "fresh@example.com"

	session := testSession(userID, email)
	session.User.Metadata = idp.Metadata{Name: "Fresh", FullName: "Fresh", Role: models.RoleVet}

	mockIDP.On("SignUp", mock.Anything, email, "secret", idp.Metadata{
		Name: "Fresh", FullName: "Fresh", Role: models.RoleVet,
	}).Return(session, nil)

	// Trigger already materialized the row.
	mockProfiles.On("GetByID", mock.Anything, userID).Return(&models.Profile{
		ID: userID, Name: "", Email: email,
	}, nil)
	mockProfiles.On("Upsert", mock.Anything, mock.MatchedBy(func(p *models.Profile) bool {
		return p.Name == "Fresh" && p.Role != nil && *p.Role == models.RoleVet
	})).Return(&models.Profile{
		ID: userID, Name: "Fresh", Email: email, Role: ptr(models.RoleVet),
	}, nil)

	c := NewContext(Deps{IDP: mockIDP, Profiles: mockProfiles, ResolveTimeout: shortTimeout})

	id, _, err := c.Register(context.Background(), "Fresh", email, "secret", models.RoleVet)

	require.NoError(t, err)
	assert.Equal(t, "Fresh", id.DisplayName)
	assert.Equal(t, models.RoleVet, id.Role)
	assert.True(t, c.IsAuthenticated())
	mockProfiles.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestRegister_CreatesRowWhenTriggerNeverShows(t *testing.T) {
	mockIDP := new(testutil.MockIDPClient)
	mockProfiles := new(testutil.MockProfileService)
	userID := uuid.New()
	email := "slow@example.com"

	session := testSession(userID, email)
	mockIDP.On("SignUp", mock.Anything, email, "secret", mock.Anything).Return(session, nil)

	mockProfiles.On("GetByID", mock.Anything, userID).Return(nil, ErrProfileNotFound)
	mockProfiles.On("Create", mock.Anything, mock.MatchedBy(func(p *models.Profile) bool {
		return p.ID == userID && p.Name == "Slow" && p.Role != nil && *p.Role == models.RolePetOwner
	})).Return(&models.Profile{
		ID: userID, Name: "Slow", Email: email, Role: ptr(models.RolePetOwner),
	}, nil)

	c := NewContext(Deps{IDP: mockIDP, Profiles: mockProfiles, ResolveTimeout: shortTimeout})

	id, _, err := c.Register(context.Background(), "Slow", email, "secret", models.RolePetOwner)

	require.NoError(t, err)
	assert.Equal(t, models.RolePetOwner, id.Role)
	mockProfiles.AssertCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestRegister_InsertLosesRaceToTrigger(t *testing.T) {
	mockIDP := new(testutil.MockIDPClient)
	mockProfiles := new(testutil.MockProfileService)
	userID := uuid.New()
	email := "race@example.com"

	session := testSession(userID, email)
	mockIDP.On("SignUp", mock.Anything, email, "secret", mock.Anything).Return(session, nil)

	triggerRow := &models.Profile{ID: userID, Name: "Race", Email: email, Role: ptr(models.RoleVet)}

	mockProfiles.On("GetByID", mock.Anything, userID).Return(nil, ErrProfileNotFound).Once()
	mockProfiles.On("Create", mock.Anything, mock.Anything).Return(nil, ErrProfileExists)
	mockProfiles.On("GetByID", mock.Anything, userID).Return(triggerRow, nil)

	c := NewContext(Deps{IDP: mockIDP, Profiles: mockProfiles, ResolveTimeout: shortTimeout})

	id, _, err := c.Register(context.Background(), "Race", email, "secret", models.RoleVet)

	require.NoError(t, err)
	assert.Equal(t, models.RoleVet, id.Role)
}

func TestLoginWithGoogle_StashesRoleAndReturnsURL(t *testing.T) {
	mockPending := new(testutil.MockPendingRoleStore)

	var stashedKey string
	mockPending.On("Stash", mock.Anything, mock.Anything, models.RoleVet).
		Run(func(args mock.Arguments) { stashedKey = args.String(1) }).
		Return(nil)

	c := NewContext(Deps{Pending: mockPending, Google: fakeProvider{}, ResolveTimeout: shortTimeout})

	consentURL, err := c.LoginWithGoogle(context.Background(), models.RoleVet)

	require.NoError(t, err)
	assert.Contains(t, consentURL, "state="+stashedKey)
	assert.NotEmpty(t, stashedKey)
	assert.False(t, c.IsAuthenticated())
}

func TestLoginWithGoogle_StashFailure(t *testing.T) {
	mockPending := new(testutil.MockPendingRoleStore)
	mockPending.On("Stash", mock.Anything, mock.Anything, mock.Anything).Return(errors.New("redis down"))

	c := NewContext(Deps{Pending: mockPending, Google: fakeProvider{}, ResolveTimeout: shortTimeout})

	_, err := c.LoginWithGoogle(context.Background(), models.RoleVet)

	assert.ErrorIs(t, err, ErrOAuthInitiationFailed)
}

func TestLogout_ClearsDespiteBackendFailure(t *testing.T) {
	mockIDP := new(testutil.MockIDPClient)
	mockProfiles := new(testutil.MockProfileService)
	userID := uuid.New()

	mockIDP.On("SignOut", mock.Anything, mock.Anything).Return(errors.New("identity service down"))
	mockProfiles.On("GetByID", mock.Anything, userID).Return(vetProfile(userID, "mira@example.com"), nil)

	c := NewContext(Deps{IDP: mockIDP, Profiles: mockProfiles, ResolveTimeout: shortTimeout})
	c.HandleEvent(context.Background(), eventSignedIn(userID, "mira@example.com"))
	require.True(t, c.IsAuthenticated())

	err := c.Logout(context.Background())

	require.NoError(t, err)
	assert.False(t, c.IsAuthenticated())
	assert.Nil(t, c.Session())
}

func TestLogout_LeavesPendingStashToTTL(t *testing.T) {
	mockIDP := new(testutil.MockIDPClient)
	mockPending := new(testutil.MockPendingRoleStore)
	mockIDP.On("SignOut", mock.Anything, mock.Anything).Return(nil)
	mockPending.On("Stash", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	c := NewContext(Deps{IDP: mockIDP, Pending: mockPending, Google: fakeProvider{}, ResolveTimeout: shortTimeout})

	_, err := c.LoginWithGoogle(context.Background(), models.RoleVet)
	require.NoError(t, err)

	c.AdoptSession(testSession(uuid.New(), "mira@example.com"))
	require.NoError(t, c.Logout(context.Background()))

	// An un-consumed stash is the TTL's problem, not logout's.
	mockPending.AssertNotCalled(t, "Clear", mock.Anything, mock.Anything)
}

func eventSignedIn(userID uuid.UUID, email string) events.Event {
	return events.Event{Kind: events.KindSignedIn, User: userID, Session: testSession(userID, email)}
}

// fakeProvider is a deterministic oauth.Provider for tests.
type fakeProvider struct{}

func (fakeProvider) Name() string { return "google" }

func (fakeProvider) ConsentURL(state string) string {
	return "https://accounts.google.com/o/oauth2/auth?state=" + state
}

func (fakeProvider) ExchangeCode(ctx context.Context, code string) (*oauth.Exchange, error) {
	return &oauth.Exchange{IDToken: "id-token-" + code}, nil
}
