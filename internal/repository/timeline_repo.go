package repository

import (
	"context"

	"github.com/senyabanana/recruitment-service/internal/models"
)

// TimelineRepository - интерфейс для работы с журналом истории откликов.
type TimelineRepository interface {
	AppendEntry(ctx context.Context, entry models.TimelineEntry) error
	GetTimeline(ctx context.Context, applicationID string, limit, offset int) ([]models.TimelineEntry, error)
}

// PostgresTimelineRepository - реализация TimelineRepository для базы данных.
// Журнал append-only: UPDATE и DELETE по нему не выполняются.
type PostgresTimelineRepository struct {
	DB DBTX
}

// NewPostgresTimelineRepository создает новый экземпляр PostgresTimelineRepository.
func NewPostgresTimelineRepository(db DBTX) *PostgresTimelineRepository {
	return &PostgresTimelineRepository{DB: db}
}

// AppendEntry добавляет запись в журнал. Выполняется в той же транзакции,
// что и породившая ее мутация: если запись не прошла, откатывается все.
func (r *PostgresTimelineRepository) AppendEntry(ctx context.Context, entry models.TimelineEntry) error {
	insertQuery := `INSERT INTO timeline_entry (id, application_id, status, actor_user_id, actor_role, notes, created_at)
                   VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.DB.Exec(
		ctx,
		insertQuery,
		entry.ID,
		entry.ApplicationID,
		entry.Status,
		entry.ActorUserID,
		entry.ActorRole,
		entry.Notes,
		entry.CreatedAt)
	return err
}

// GetTimeline возвращает записи журнала по отклику, по возрастанию created_at.
func (r *PostgresTimelineRepository) GetTimeline(ctx context.Context, applicationID string, limit, offset int) ([]models.TimelineEntry, error) {
	query := `SELECT id, application_id, status, actor_user_id, actor_role, notes, created_at
	          FROM timeline_entry
	          WHERE application_id = $1
	          ORDER BY created_at
	          LIMIT $2 OFFSET $3`
	rows, err := r.DB.Query(ctx, query, applicationID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []models.TimelineEntry
	for rows.Next() {
		var entry models.TimelineEntry
		if err := rows.Scan(
			&entry.ID,
			&entry.ApplicationID,
			&entry.Status,
			&entry.ActorUserID,
			&entry.ActorRole,
			&entry.Notes,
			&entry.CreatedAt); err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}
