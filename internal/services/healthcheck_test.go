package services

import (
	"context"
	"testing"
	"time"

	"github.com/aniwoo/aniwoo-api/internal/database"
	"github.com/aniwoo/aniwoo-api/internal/models"
	"github.com/google/uuid"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupHealthCheckService(t *testing.T) (*HealthCheckService, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(func() { mock.Close() })

	db := &database.DB{Pool: mock}
	return NewHealthCheckService(db), mock
}

func TestHealthCheckService_Analyze(t *testing.T) {
	svc, mock := setupHealthCheckService(t)
	userID := uuid.New()
	checkID := uuid.New()
	now := time.Now()

	rows := pgxmock.NewRows([]string{"id", "created_at"}).AddRow(checkID, now)

	mock.ExpectQuery(`INSERT INTO health_checks`).
		WithArgs(userID, "rex.jpg", pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnRows(rows)

	check, err := svc.Analyze(context.Background(), userID, "rex.jpg")

	require.NoError(t, err)
	assert.Equal(t, checkID, check.ID)
	assert.Equal(t, "rex.jpg", check.FileName)
	assert.Contains(t, []string{
		models.HealthStatusHealthy, models.HealthStatusWarning, models.HealthStatusConcern,
	}, check.Status)
	assert.Contains(t, []int{92, 81, 76}, check.Confidence)
	assert.NotEmpty(t, check.Findings)
	assert.NotEmpty(t, check.Recommendations)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHealthCheckService_ListByUser(t *testing.T) {
	svc, mock := setupHealthCheckService(t)
	userID := uuid.New()
	now := time.Now()

	rows := pgxmock.NewRows([]string{
		"id", "user_id", "file_name", "status", "confidence", "findings", "recommendations", "created_at",
	}).AddRow(
		uuid.New(), userID, "rex.jpg", models.HealthStatusHealthy, 92,
		[]byte(`["Healthy coat condition"]`), []byte(`["Continue regular checkups"]`), now,
	)

	mock.ExpectQuery(`SELECT .+ FROM health_checks WHERE user_id`).
		WithArgs(userID).
		WillReturnRows(rows)

	checks, err := svc.ListByUser(context.Background(), userID)

	require.NoError(t, err)
	require.Len(t, checks, 1)
	assert.Equal(t, models.HealthStatusHealthy, checks[0].Status)
	assert.Equal(t, []string{"Healthy coat condition"}, checks[0].Findings)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHealthCheckService_ListByUser_Empty(t *testing.T) {
	svc, mock := setupHealthCheckService(t)
	userID := uuid.New()

	rows := pgxmock.NewRows([]string{
		"id", "user_id", "file_name", "status", "confidence", "findings", "recommendations", "created_at",
	})

	mock.ExpectQuery(`SELECT .+ FROM health_checks WHERE user_id`).
		WithArgs(userID).
		WillReturnRows(rows)

	checks, err := svc.ListByUser(context.Background(), userID)

	require.NoError(t, err)
	assert.Empty(t, checks)
}
