package testutil

import (
	"context"

	"github.com/aniwoo/aniwoo-api/internal/idp"
	"github.com/aniwoo/aniwoo-api/internal/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockIDPClient mocks the identity service client
type MockIDPClient struct {
	mock.Mock
}

func (m *MockIDPClient) SignInWithPassword(ctx context.Context, email, password string) (*idp.Session, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*idp.Session), args.Error(1)
}

func (m *MockIDPClient) SignUp(ctx context.Context, email, password string, meta idp.Metadata) (*idp.Session, error) {
	args := m.Called(ctx, email, password, meta)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*idp.Session), args.Error(1)
}

func (m *MockIDPClient) SignInWithIDToken(ctx context.Context, provider, idToken string) (*idp.Session, error) {
	args := m.Called(ctx, provider, idToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*idp.Session), args.Error(1)
}

func (m *MockIDPClient) RefreshSession(ctx context.Context, refreshToken string) (*idp.Session, error) {
	args := m.Called(ctx, refreshToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*idp.Session), args.Error(1)
}

func (m *MockIDPClient) GetUser(ctx context.Context, accessToken string) (*idp.User, error) {
	args := m.Called(ctx, accessToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*idp.User), args.Error(1)
}

func (m *MockIDPClient) SignOut(ctx context.Context, accessToken string) error {
	args := m.Called(ctx, accessToken)
	return args.Error(0)
}

// MockProfileService mocks the ProfileService
type MockProfileService struct {
	mock.Mock
}

func (m *MockProfileService) GetByID(ctx context.Context, id uuid.UUID) (*models.Profile, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Profile), args.Error(1)
}

func (m *MockProfileService) Create(ctx context.Context, profile *models.Profile) (*models.Profile, error) {
	args := m.Called(ctx, profile)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Profile), args.Error(1)
}

func (m *MockProfileService) Upsert(ctx context.Context, profile *models.Profile) (*models.Profile, error) {
	args := m.Called(ctx, profile)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Profile), args.Error(1)
}

func (m *MockProfileService) SetRoleIfUnset(ctx context.Context, id uuid.UUID, role string) error {
	args := m.Called(ctx, id, role)
	return args.Error(0)
}

func (m *MockProfileService) UpdateName(ctx context.Context, id uuid.UUID, name string) (*models.Profile, error) {
	args := m.Called(ctx, id, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Profile), args.Error(1)
}

// MockPendingRoleStore mocks the pending OAuth role store
type MockPendingRoleStore struct {
	mock.Mock
}

func (m *MockPendingRoleStore) Stash(ctx context.Context, key, role string) error {
	args := m.Called(ctx, key, role)
	return args.Error(0)
}

func (m *MockPendingRoleStore) Consume(ctx context.Context, key string) (string, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Error(1)
}

func (m *MockPendingRoleStore) Clear(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

// MockVetService mocks the VetService
type MockVetService struct {
	mock.Mock
}

func (m *MockVetService) GetByUserID(ctx context.Context, userID uuid.UUID) (*models.Vet, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Vet), args.Error(1)
}

func (m *MockVetService) Upsert(ctx context.Context, vet *models.Vet) (*models.Vet, error) {
	args := m.Called(ctx, vet)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Vet), args.Error(1)
}

func (m *MockVetService) List(ctx context.Context) ([]models.VetListing, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.VetListing), args.Error(1)
}

// MockHealthCheckService mocks the HealthCheckService
type MockHealthCheckService struct {
	mock.Mock
}

func (m *MockHealthCheckService) Analyze(ctx context.Context, userID uuid.UUID, fileName string) (*models.HealthCheck, error) {
	args := m.Called(ctx, userID, fileName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.HealthCheck), args.Error(1)
}

func (m *MockHealthCheckService) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.HealthCheck, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.HealthCheck), args.Error(1)
}

// MockEmailService mocks the EmailService
type MockEmailService struct {
	mock.Mock
}

func (m *MockEmailService) IsConfigured() bool {
	args := m.Called()
	return args.Bool(0)
}

func (m *MockEmailService) SendContactMessage(name, email, subject, message string) error {
	args := m.Called(name, email, subject, message)
	return args.Error(0)
}
