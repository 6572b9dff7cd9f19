package models

import (
	"time"

	"github.com/google/uuid"
)

// Vet holds the clinic details a veterinarian fills in on the dashboard.
// One row per vet profile, keyed by user id.
type Vet struct {
	ID              uuid.UUID `json:"id"`
	UserID          uuid.UUID `json:"user_id"`
	ClinicName      string    `json:"clinic_name"`
	Specialization  string    `json:"specialization"`
	Location        string    `json:"location"`
	City            string    `json:"city"`
	State           string    `json:"state"`
	Phone           string    `json:"phone"`
	ExperienceYears int       `json:"experience_years"`
	Qualifications  string    `json:"qualifications"`
	Bio             *string   `json:"bio,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// VetListing is a directory entry: clinic details joined with the vet's
// display name from the profiles table.
type VetListing struct {
	Vet
	Name string `json:"name"`
}
