package testutil

import (
	"context"
	"fmt"
	"testing"

	"github.com/aniwoo/aniwoo-api/internal/database"
	"github.com/aniwoo/aniwoo-api/internal/models"
	"github.com/google/uuid"
)

// Fixtures provides factory methods for creating test data
type Fixtures struct {
	db      *database.DB
	counter int
}

// NewFixtures creates a new fixtures factory
func NewFixtures(db *database.DB) *Fixtures {
	return &Fixtures{db: db}
}

// ProfileOption mutates a profile fixture before insert
type ProfileOption func(*models.Profile)

func WithRole(role string) ProfileOption {
	return func(p *models.Profile) {
		p.Role = &role
	}
}

func WithEmail(email string) ProfileOption {
	return func(p *models.Profile) {
		p.Email = email
	}
}

// CreateProfile creates a test profile with default values
func (f *Fixtures) CreateProfile(t *testing.T, opts ...ProfileOption) *models.Profile {
	t.Helper()
	f.counter++

	profile := &models.Profile{
		ID:    uuid.New(),
		Name:  fmt.Sprintf("Test Owner %d", f.counter),
		Email: fmt.Sprintf("owner%d@example.com", f.counter),
	}

	for _, opt := range opts {
		opt(profile)
	}

	ctx := context.Background()
	err := f.db.Pool.QueryRow(ctx, `
		INSERT INTO profiles (id, name, email, role)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at, updated_at
	`, profile.ID, profile.Name, profile.Email, profile.Role).Scan(
		&profile.CreatedAt, &profile.UpdatedAt,
	)
	if err != nil {
		t.Fatalf("failed to create test profile: %v", err)
	}

	return profile
}

// CreateVet creates a vet clinic row for the given profile
func (f *Fixtures) CreateVet(t *testing.T, userID uuid.UUID) *models.Vet {
	t.Helper()
	f.counter++

	vet := &models.Vet{
		UserID:          userID,
		ClinicName:      fmt.Sprintf("Clinic %d", f.counter),
		Specialization:  "General practice",
		Location:        "12 Park Lane",
		City:            "Pune",
		State:           "Maharashtra",
		Phone:           "+91 90000 00000",
		ExperienceYears: 5,
		Qualifications:  "BVSc",
	}

	ctx := context.Background()
	err := f.db.Pool.QueryRow(ctx, `
		INSERT INTO vets (user_id, clinic_name, specialization, location, city, state, phone,
			experience_years, qualifications, bio)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at, updated_at
	`, vet.UserID, vet.ClinicName, vet.Specialization, vet.Location, vet.City, vet.State,
		vet.Phone, vet.ExperienceYears, vet.Qualifications, vet.Bio).Scan(
		&vet.ID, &vet.CreatedAt, &vet.UpdatedAt,
	)
	if err != nil {
		t.Fatalf("failed to create test vet: %v", err)
	}

	return vet
}
