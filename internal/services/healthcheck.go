package services

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand/v2"

	"github.com/aniwoo/aniwoo-api/internal/database"
	"github.com/aniwoo/aniwoo-api/internal/models"
	"github.com/google/uuid"
)

// outcome is one canned analysis result.
type outcome struct {
	status          string
	confidence      int
	findings        []string
	recommendations []string
}

var outcomes = []outcome{
	{
		status:     models.HealthStatusHealthy,
		confidence: 92,
		findings:   []string{"Healthy coat condition", "Clear eyes", "Normal posture"},
		recommendations: []string{
			"Continue regular checkups",
			"Maintain current diet",
			"Keep a monthly photo log for tracking",
		},
	},
	{
		status:     models.HealthStatusWarning,
		confidence: 81,
		findings: []string{
			"Mild redness on skin",
			"Slight dullness in coat",
			"Potential irritation around ears (low confidence)",
		},
		recommendations: []string{
			"Schedule a non-urgent vet consultation",
			"Monitor behavior and appetite over the next few days",
			"Avoid new foods or treats until cleared by a vet",
		},
	},
	{
		status:     models.HealthStatusConcern,
		confidence: 76,
		findings: []string{
			"Noticeable skin irritation",
			"Possible swelling near joints",
			"Body posture suggests discomfort",
		},
		recommendations: []string{
			"Consult a veterinarian as soon as possible",
			"Limit strenuous activity until evaluated",
			"Capture additional photos to share with your vet",
		},
	},
}

// HealthCheckService runs the AI health check and keeps a per-user history.
type HealthCheckService struct {
	db *database.DB
}

func NewHealthCheckService(db *database.DB) *HealthCheckService {
	return &HealthCheckService{db: db}
}

// Analyze picks a random canned outcome and persists it. No real scoring
// happens here; the uploaded file is never inspected.
func (s *HealthCheckService) Analyze(ctx context.Context, userID uuid.UUID, fileName string) (*models.HealthCheck, error) {
	result := outcomes[rand.IntN(len(outcomes))]

	findings, err := json.Marshal(result.findings)
	if err != nil {
		return nil, fmt.Errorf("failed to encode findings: %w", err)
	}
	recommendations, err := json.Marshal(result.recommendations)
	if err != nil {
		return nil, fmt.Errorf("failed to encode recommendations: %w", err)
	}

	check := models.HealthCheck{
		UserID:          userID,
		FileName:        fileName,
		Status:          result.status,
		Confidence:      result.confidence,
		Findings:        result.findings,
		Recommendations: result.recommendations,
	}

	err = s.db.Pool.QueryRow(ctx, `
		INSERT INTO health_checks (user_id, file_name, status, confidence, findings, recommendations)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`, userID, fileName, result.status, result.confidence, findings, recommendations).Scan(
		&check.ID, &check.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to store health check: %w", err)
	}
	return &check, nil
}

func (s *HealthCheckService) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.HealthCheck, error) {
	rows, err := s.db.Pool.Query(ctx, `
		SELECT id, user_id, file_name, status, confidence, findings, recommendations, created_at
		FROM health_checks WHERE user_id = $1
		ORDER BY created_at DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list health checks: %w", err)
	}
	defer rows.Close()

	var checks []models.HealthCheck
	for rows.Next() {
		var check models.HealthCheck
		var findings, recommendations []byte
		if err := rows.Scan(
			&check.ID, &check.UserID, &check.FileName, &check.Status, &check.Confidence,
			&findings, &recommendations, &check.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan health check: %w", err)
		}
		if err := json.Unmarshal(findings, &check.Findings); err != nil {
			return nil, fmt.Errorf("failed to decode findings: %w", err)
		}
		if err := json.Unmarshal(recommendations, &check.Recommendations); err != nil {
			return nil, fmt.Errorf("failed to decode recommendations: %w", err)
		}
		checks = append(checks, check)
	}
	return checks, rows.Err()
}
