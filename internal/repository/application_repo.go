package repository

import (
	"context"
	"time"

	"github.com/senyabanana/recruitment-service/internal/models"

	"github.com/google/uuid"
)

// ApplicationRepository - интерфейс для работы с откликами.
type ApplicationRepository interface {
	CreateApplication(ctx context.Context, appReq models.ApplicationRequest) (*models.JobApplication, error)
	GetApplication(ctx context.Context, applicationID string) (*models.JobApplication, error)
	GetApplicationForUpdate(ctx context.Context, applicationID string) (*models.JobApplication, error)
	UpdateStatus(ctx context.Context, applicationID string, status models.ApplicationStatus) error
}

// PostgresApplicationRepository - реализация ApplicationRepository для базы данных.
type PostgresApplicationRepository struct {
	DB DBTX
}

// NewPostgresApplicationRepository создает новый экземпляр PostgresApplicationRepository.
func NewPostgresApplicationRepository(db DBTX) *PostgresApplicationRepository {
	return &PostgresApplicationRepository{DB: db}
}

// CreateApplication создает новый отклик в статусе PENDING.
func (r *PostgresApplicationRepository) CreateApplication(ctx context.Context, appReq models.ApplicationRequest) (*models.JobApplication, error) {
	now := time.Now().UTC()
	newApp := models.JobApplication{
		ID:          uuid.New().String(),
		JobID:       appReq.JobID,
		ApplicantID: appReq.ApplicantID,
		Status:      models.PendingApplication,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	insertQuery := `INSERT INTO application (id, job_id, applicant_id, status, created_at, updated_at)
                   VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.DB.Exec(
		ctx,
		insertQuery,
		newApp.ID,
		newApp.JobID,
		newApp.ApplicantID,
		newApp.Status,
		newApp.CreatedAt,
		newApp.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &newApp, nil
}

// GetApplication возвращает отклик по ID.
func (r *PostgresApplicationRepository) GetApplication(ctx context.Context, applicationID string) (*models.JobApplication, error) {
	query := `SELECT id, job_id, applicant_id, status, created_at, updated_at
	          FROM application WHERE id = $1`
	var app models.JobApplication
	err := r.DB.QueryRow(ctx, query, applicationID).Scan(
		&app.ID,
		&app.JobID,
		&app.ApplicantID,
		&app.Status,
		&app.CreatedAt,
		&app.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &app, nil
}

// GetApplicationForUpdate возвращает отклик по ID с блокировкой строки.
// Все мутации по одному отклику сериализуются на этой блокировке.
func (r *PostgresApplicationRepository) GetApplicationForUpdate(ctx context.Context, applicationID string) (*models.JobApplication, error) {
	query := `SELECT id, job_id, applicant_id, status, created_at, updated_at
	          FROM application WHERE id = $1 FOR UPDATE`
	var app models.JobApplication
	err := r.DB.QueryRow(ctx, query, applicationID).Scan(
		&app.ID,
		&app.JobID,
		&app.ApplicantID,
		&app.Status,
		&app.CreatedAt,
		&app.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &app, nil
}

// UpdateStatus записывает статус отклика. Вызывается только проектором и
// терминальными действиями, другие пути записи статуса не существуют.
func (r *PostgresApplicationRepository) UpdateStatus(ctx context.Context, applicationID string, status models.ApplicationStatus) error {
	updateQuery := `UPDATE application SET status = $1, updated_at = $2 WHERE id = $3`
	_, err := r.DB.Exec(ctx, updateQuery, status, time.Now().UTC(), applicationID)
	return err
}
