package models

import (
	"time"

	"github.com/google/uuid"
)

// Health check outcomes.
const (
	HealthStatusHealthy = "healthy"
	HealthStatusWarning = "warning"
	HealthStatusConcern = "concern"
)

// HealthCheck is one stored AI health-check result for a user's pet photo.
type HealthCheck struct {
	ID              uuid.UUID `json:"id"`
	UserID          uuid.UUID `json:"user_id"`
	FileName        string    `json:"file_name"`
	Status          string    `json:"status"`
	Confidence      int       `json:"confidence"`
	Findings        []string  `json:"findings"`
	Recommendations []string  `json:"recommendations"`
	CreatedAt       time.Time `json:"created_at"`
}
