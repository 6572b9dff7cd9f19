package database

import (
	"context"
	"fmt"
)

var migrations = []string{
	`CREATE EXTENSION IF NOT EXISTS "uuid-ossp"`,

	// Profiles are keyed by the identity service's user id, not a generated
	// one: the id arrives with the session and must match across services.
	`CREATE TABLE IF NOT EXISTS profiles (
		id UUID PRIMARY KEY,
		name VARCHAR(255) NOT NULL,
		email VARCHAR(255) NOT NULL DEFAULT '',
		role VARCHAR(20),
		created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
		updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
	)`,

	`CREATE TABLE IF NOT EXISTS vets (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		user_id UUID NOT NULL REFERENCES profiles(id) ON DELETE CASCADE,
		clinic_name VARCHAR(255) NOT NULL,
		specialization VARCHAR(255) NOT NULL,
		location VARCHAR(255) NOT NULL,
		city VARCHAR(100) NOT NULL,
		state VARCHAR(100) NOT NULL,
		phone VARCHAR(30) NOT NULL,
		experience_years INTEGER NOT NULL DEFAULT 0,
		qualifications VARCHAR(500) NOT NULL,
		bio TEXT,
		created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
		updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
		UNIQUE(user_id)
	)`,

	`CREATE TABLE IF NOT EXISTS health_checks (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		user_id UUID NOT NULL REFERENCES profiles(id) ON DELETE CASCADE,
		file_name VARCHAR(255) NOT NULL,
		status VARCHAR(20) NOT NULL,
		confidence INTEGER NOT NULL,
		findings JSONB NOT NULL DEFAULT '[]',
		recommendations JSONB NOT NULL DEFAULT '[]',
		created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
	)`,

	`CREATE INDEX IF NOT EXISTS idx_profiles_email ON profiles(email)`,
	`CREATE INDEX IF NOT EXISTS idx_profiles_role ON profiles(role)`,
	`CREATE INDEX IF NOT EXISTS idx_vets_user_id ON vets(user_id)`,
	`CREATE INDEX IF NOT EXISTS idx_vets_city ON vets(city)`,
	`CREATE INDEX IF NOT EXISTS idx_health_checks_user_id ON health_checks(user_id)`,
}

func (db *DB) Migrate(ctx context.Context) error {
	for i, migration := range migrations {
		if _, err := db.Pool.Exec(ctx, migration); err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}
	return nil
}
