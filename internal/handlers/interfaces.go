package handlers

import (
	"context"

	"github.com/aniwoo/aniwoo-api/internal/models"
	"github.com/google/uuid"
)

// ProfileServiceInterface defines the methods used by handlers from ProfileService
type ProfileServiceInterface interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Profile, error)
	Create(ctx context.Context, profile *models.Profile) (*models.Profile, error)
	Upsert(ctx context.Context, profile *models.Profile) (*models.Profile, error)
	SetRoleIfUnset(ctx context.Context, id uuid.UUID, role string) error
	UpdateName(ctx context.Context, id uuid.UUID, name string) (*models.Profile, error)
}

// VetServiceInterface defines the methods used by handlers from VetService
type VetServiceInterface interface {
	GetByUserID(ctx context.Context, userID uuid.UUID) (*models.Vet, error)
	Upsert(ctx context.Context, vet *models.Vet) (*models.Vet, error)
	List(ctx context.Context) ([]models.VetListing, error)
}

// HealthCheckServiceInterface defines the methods used by handlers from HealthCheckService
type HealthCheckServiceInterface interface {
	Analyze(ctx context.Context, userID uuid.UUID, fileName string) (*models.HealthCheck, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.HealthCheck, error)
}

// EmailServiceInterface defines the methods used by handlers from EmailService
type EmailServiceInterface interface {
	IsConfigured() bool
	SendContactMessage(name, email, subject, message string) error
}
