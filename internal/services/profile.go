package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/aniwoo/aniwoo-api/internal/database"
	"github.com/aniwoo/aniwoo-api/internal/identity"
	"github.com/aniwoo/aniwoo-api/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// ProfileService is the persisted profile store. All writes are idempotent
// and keyed by the identity service's user id.
type ProfileService struct {
	db *database.DB
}

func NewProfileService(db *database.DB) *ProfileService {
	return &ProfileService{db: db}
}

func (s *ProfileService) GetByID(ctx context.Context, id uuid.UUID) (*models.Profile, error) {
	var profile models.Profile
	err := s.db.Pool.QueryRow(ctx, `
		SELECT id, name, email, role, created_at, updated_at
		FROM profiles WHERE id = $1
	`, id).Scan(
		&profile.ID, &profile.Name, &profile.Email, &profile.Role,
		&profile.CreatedAt, &profile.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, identity.ErrProfileNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch profile: %w", err)
	}
	return &profile, nil
}

// GetByIDs returns the profiles for the given id list, in no particular
// order. Missing ids are simply absent from the result.
func (s *ProfileService) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Profile, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	rows, err := s.db.Pool.Query(ctx, `
		SELECT id, name, email, role, created_at, updated_at
		FROM profiles WHERE id = ANY($1)
	`, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch profiles: %w", err)
	}
	defer rows.Close()

	var profiles []models.Profile
	for rows.Next() {
		var profile models.Profile
		if err := rows.Scan(
			&profile.ID, &profile.Name, &profile.Email, &profile.Role,
			&profile.CreatedAt, &profile.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan profile: %w", err)
		}
		profiles = append(profiles, profile)
	}
	return profiles, rows.Err()
}

func (s *ProfileService) Create(ctx context.Context, profile *models.Profile) (*models.Profile, error) {
	var created models.Profile
	err := s.db.Pool.QueryRow(ctx, `
		INSERT INTO profiles (id, name, email, role)
		VALUES ($1, $2, $3, $4)
		RETURNING id, name, email, role, created_at, updated_at
	`, profile.ID, profile.Name, profile.Email, profile.Role).Scan(
		&created.ID, &created.Name, &created.Email, &created.Role,
		&created.CreatedAt, &created.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return nil, identity.ErrProfileExists
		}
		return nil, fmt.Errorf("failed to create profile: %w", err)
	}
	return &created, nil
}

// Upsert writes the row, keeping any role the store already has when the
// incoming role is null.
func (s *ProfileService) Upsert(ctx context.Context, profile *models.Profile) (*models.Profile, error) {
	var updated models.Profile
	err := s.db.Pool.QueryRow(ctx, `
		INSERT INTO profiles (id, name, email, role)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			email = EXCLUDED.email,
			role = COALESCE(EXCLUDED.role, profiles.role),
			updated_at = NOW()
		RETURNING id, name, email, role, created_at, updated_at
	`, profile.ID, profile.Name, profile.Email, profile.Role).Scan(
		&updated.ID, &updated.Name, &updated.Email, &updated.Role,
		&updated.CreatedAt, &updated.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert profile: %w", err)
	}
	return &updated, nil
}

// SetRoleIfUnset backfills a role without ever touching one that is already
// set. Zero rows affected is not an error.
func (s *ProfileService) SetRoleIfUnset(ctx context.Context, id uuid.UUID, role string) error {
	_, err := s.db.Pool.Exec(ctx, `
		UPDATE profiles SET role = $1, updated_at = NOW()
		WHERE id = $2 AND role IS NULL
	`, role, id)
	if err != nil {
		return fmt.Errorf("failed to backfill role: %w", err)
	}
	return nil
}

func (s *ProfileService) UpdateName(ctx context.Context, id uuid.UUID, name string) (*models.Profile, error) {
	var updated models.Profile
	err := s.db.Pool.QueryRow(ctx, `
		UPDATE profiles SET name = $1, updated_at = NOW()
		WHERE id = $2
		RETURNING id, name, email, role, created_at, updated_at
	`, name, id).Scan(
		&updated.ID, &updated.Name, &updated.Email, &updated.Role,
		&updated.CreatedAt, &updated.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, identity.ErrProfileNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}
	return &updated, nil
}
