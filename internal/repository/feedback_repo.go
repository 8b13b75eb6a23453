package repository

import (
	"context"

	"github.com/senyabanana/recruitment-service/internal/models"
)

// FeedbackRepository - интерфейс для работы с отзывами по откликам.
type FeedbackRepository interface {
	CreateFeedback(ctx context.Context, feedback models.Feedback) error
	GetFeedback(ctx context.Context, applicationID string, limit, offset int) ([]models.Feedback, error)
}

// PostgresFeedbackRepository - реализация FeedbackRepository для базы данных.
type PostgresFeedbackRepository struct {
	DB DBTX
}

// NewPostgresFeedbackRepository создает новый экземпляр PostgresFeedbackRepository.
func NewPostgresFeedbackRepository(db DBTX) *PostgresFeedbackRepository {
	return &PostgresFeedbackRepository{DB: db}
}

// CreateFeedback сохраняет новый отзыв. Отзывы не перезаписываются.
func (r *PostgresFeedbackRepository) CreateFeedback(ctx context.Context, feedback models.Feedback) error {
	insertQuery := `INSERT INTO feedback (id, application_id, decision, rating, comments, author_user_id, created_at)
                   VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.DB.Exec(
		ctx,
		insertQuery,
		feedback.ID,
		feedback.ApplicationID,
		feedback.Decision,
		feedback.Rating,
		feedback.Comments,
		feedback.AuthorUserID,
		feedback.CreatedAt)
	return err
}

// GetFeedback возвращает отзывы по отклику, свежие первыми.
func (r *PostgresFeedbackRepository) GetFeedback(ctx context.Context, applicationID string, limit, offset int) ([]models.Feedback, error) {
	query := `SELECT id, application_id, decision, rating, comments, author_user_id, created_at
	          FROM feedback
	          WHERE application_id = $1
	          ORDER BY created_at DESC
	          LIMIT $2 OFFSET $3`
	rows, err := r.DB.Query(ctx, query, applicationID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var feedbacks []models.Feedback
	for rows.Next() {
		var feedback models.Feedback
		if err := rows.Scan(
			&feedback.ID,
			&feedback.ApplicationID,
			&feedback.Decision,
			&feedback.Rating,
			&feedback.Comments,
			&feedback.AuthorUserID,
			&feedback.CreatedAt); err != nil {
			return nil, err
		}
		feedbacks = append(feedbacks, feedback)
	}
	return feedbacks, rows.Err()
}
