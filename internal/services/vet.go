package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/aniwoo/aniwoo-api/internal/database"
	"github.com/aniwoo/aniwoo-api/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

var ErrVetNotFound = errors.New("vet profile not found")

const vetColumns = `id, user_id, clinic_name, specialization, location, city, state, phone,
		experience_years, qualifications, bio, created_at, updated_at`

// VetService manages veterinarian clinic profiles and the public directory.
type VetService struct {
	db       *database.DB
	profiles *ProfileService
}

func NewVetService(db *database.DB, profiles *ProfileService) *VetService {
	return &VetService{db: db, profiles: profiles}
}

func (s *VetService) GetByUserID(ctx context.Context, userID uuid.UUID) (*models.Vet, error) {
	var vet models.Vet
	err := s.db.Pool.QueryRow(ctx, `
		SELECT `+vetColumns+`
		FROM vets WHERE user_id = $1
	`, userID).Scan(
		&vet.ID, &vet.UserID, &vet.ClinicName, &vet.Specialization, &vet.Location,
		&vet.City, &vet.State, &vet.Phone, &vet.ExperienceYears, &vet.Qualifications,
		&vet.Bio, &vet.CreatedAt, &vet.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrVetNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch vet profile: %w", err)
	}
	return &vet, nil
}

func (s *VetService) Upsert(ctx context.Context, vet *models.Vet) (*models.Vet, error) {
	var updated models.Vet
	err := s.db.Pool.QueryRow(ctx, `
		INSERT INTO vets (user_id, clinic_name, specialization, location, city, state, phone,
			experience_years, qualifications, bio)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (user_id) DO UPDATE SET
			clinic_name = EXCLUDED.clinic_name,
			specialization = EXCLUDED.specialization,
			location = EXCLUDED.location,
			city = EXCLUDED.city,
			state = EXCLUDED.state,
			phone = EXCLUDED.phone,
			experience_years = EXCLUDED.experience_years,
			qualifications = EXCLUDED.qualifications,
			bio = EXCLUDED.bio,
			updated_at = NOW()
		RETURNING `+vetColumns+`
	`, vet.UserID, vet.ClinicName, vet.Specialization, vet.Location, vet.City,
		vet.State, vet.Phone, vet.ExperienceYears, vet.Qualifications, vet.Bio).Scan(
		&updated.ID, &updated.UserID, &updated.ClinicName, &updated.Specialization,
		&updated.Location, &updated.City, &updated.State, &updated.Phone,
		&updated.ExperienceYears, &updated.Qualifications, &updated.Bio,
		&updated.CreatedAt, &updated.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert vet profile: %w", err)
	}
	return &updated, nil
}

// List returns the public directory: clinic rows joined with display names
// fetched from the profile store by id list.
func (s *VetService) List(ctx context.Context) ([]models.VetListing, error) {
	rows, err := s.db.Pool.Query(ctx, `
		SELECT `+vetColumns+`
		FROM vets ORDER BY city, clinic_name
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list vets: %w", err)
	}
	defer rows.Close()

	var vets []models.Vet
	var userIDs []uuid.UUID
	for rows.Next() {
		var vet models.Vet
		if err := rows.Scan(
			&vet.ID, &vet.UserID, &vet.ClinicName, &vet.Specialization, &vet.Location,
			&vet.City, &vet.State, &vet.Phone, &vet.ExperienceYears, &vet.Qualifications,
			&vet.Bio, &vet.CreatedAt, &vet.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan vet: %w", err)
		}
		vets = append(vets, vet)
		userIDs = append(userIDs, vet.UserID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	profiles, err := s.profiles.GetByIDs(ctx, userIDs)
	if err != nil {
		return nil, err
	}
	names := make(map[uuid.UUID]string, len(profiles))
	for _, profile := range profiles {
		names[profile.ID] = profile.Name
	}

	listings := make([]models.VetListing, 0, len(vets))
	for _, vet := range vets {
		listings = append(listings, models.VetListing{Vet: vet, Name: names[vet.UserID]})
	}
	return listings, nil
}
