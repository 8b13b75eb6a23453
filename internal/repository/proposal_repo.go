package repository

import (
	"context"

	"github.com/senyabanana/recruitment-service/internal/models"
)

// ProposalRepository - интерфейс для работы с предложениями.
type ProposalRepository interface {
	CreateProposal(ctx context.Context, p *models.Proposal) error
	GetProposal(ctx context.Context, proposalID string) (*models.Proposal, error)
	GetProposalForUpdate(ctx context.Context, proposalID string) (*models.Proposal, error)
	GetActiveProposals(ctx context.Context, applicationID string, subject models.SubjectType) ([]models.Proposal, error)
	UpdateProposal(ctx context.Context, p *models.Proposal) error
	ListProposals(ctx context.Context, applicationID string, limit, offset int) ([]models.Proposal, error)
}

// PostgresProposalRepository - реализация ProposalRepository для базы данных.
type PostgresProposalRepository struct {
	DB DBTX
}

// NewPostgresProposalRepository создает новый экземпляр PostgresProposalRepository.
func NewPostgresProposalRepository(db DBTX) *PostgresProposalRepository {
	return &PostgresProposalRepository{DB: db}
}

const proposalColumns = `id, application_id, subject_type, owner_role, counterpart_id, payload, state,
	counterpart_response, counterpart_suggestion, counterpart_notes, counterpart_responded_at,
	owner_review, owner_review_notes, owner_reviewed_at, superseded_by_id, created_at`

func scanProposal(row interface{ Scan(dest ...any) error }, p *models.Proposal) error {
	return row.Scan(
		&p.ID,
		&p.ApplicationID,
		&p.SubjectType,
		&p.OwnerRole,
		&p.CounterpartID,
		&p.Payload,
		&p.State,
		&p.CounterpartResponse,
		&p.CounterpartSuggestion,
		&p.CounterpartNotes,
		&p.CounterpartRespondedAt,
		&p.OwnerReview,
		&p.OwnerReviewNotes,
		&p.OwnerReviewedAt,
		&p.SupersededByID,
		&p.CreatedAt,
	)
}

// CreateProposal сохраняет новое предложение.
func (r *PostgresProposalRepository) CreateProposal(ctx context.Context, p *models.Proposal) error {
	insertQuery := `INSERT INTO proposal (` + proposalColumns + `)
                   VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`
	_, err := r.DB.Exec(
		ctx,
		insertQuery,
		p.ID,
		p.ApplicationID,
		p.SubjectType,
		p.OwnerRole,
		p.CounterpartID,
		p.Payload,
		p.State,
		p.CounterpartResponse,
		p.CounterpartSuggestion,
		p.CounterpartNotes,
		p.CounterpartRespondedAt,
		p.OwnerReview,
		p.OwnerReviewNotes,
		p.OwnerReviewedAt,
		p.SupersededByID,
		p.CreatedAt)
	return err
}

// GetProposal возвращает предложение по ID.
func (r *PostgresProposalRepository) GetProposal(ctx context.Context, proposalID string) (*models.Proposal, error) {
	query := `SELECT ` + proposalColumns + ` FROM proposal WHERE id = $1`
	var p models.Proposal
	if err := scanProposal(r.DB.QueryRow(ctx, query, proposalID), &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// GetProposalForUpdate возвращает предложение по ID, блокируя строку на время
// транзакции: конкурирующие ответы по одному предложению сериализуются здесь.
func (r *PostgresProposalRepository) GetProposalForUpdate(ctx context.Context, proposalID string) (*models.Proposal, error) {
	query := `SELECT ` + proposalColumns + ` FROM proposal WHERE id = $1 FOR UPDATE`
	var p models.Proposal
	if err := scanProposal(r.DB.QueryRow(ctx, query, proposalID), &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// GetActiveProposals возвращает нефинальные предложения по паре (отклик, предмет)
// с блокировкой строк. Ожидается не больше одного, лишние - нарушение инварианта.
func (r *PostgresProposalRepository) GetActiveProposals(ctx context.Context, applicationID string, subject models.SubjectType) ([]models.Proposal, error) {
	query := `SELECT ` + proposalColumns + `
	          FROM proposal
	          WHERE application_id = $1 AND subject_type = $2 AND state IN ($3, $4)
	          ORDER BY created_at
	          FOR UPDATE`
	rows, err := r.DB.Query(ctx, query, applicationID, subject, models.ProposedProposal, models.CounteredProposal)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var proposals []models.Proposal
	for rows.Next() {
		var p models.Proposal
		if err := scanProposal(rows, &p); err != nil {
			return nil, err
		}
		proposals = append(proposals, p)
	}
	return proposals, rows.Err()
}

// UpdateProposal сохраняет изменяемые поля предложения.
func (r *PostgresProposalRepository) UpdateProposal(ctx context.Context, p *models.Proposal) error {
	updateQuery := `
		UPDATE proposal
		SET state = $1,
		    counterpart_response = $2,
		    counterpart_suggestion = $3,
		    counterpart_notes = $4,
		    counterpart_responded_at = $5,
		    owner_review = $6,
		    owner_review_notes = $7,
		    owner_reviewed_at = $8,
		    superseded_by_id = $9
		WHERE id = $10`
	_, err := r.DB.Exec(
		ctx,
		updateQuery,
		p.State,
		p.CounterpartResponse,
		p.CounterpartSuggestion,
		p.CounterpartNotes,
		p.CounterpartRespondedAt,
		p.OwnerReview,
		p.OwnerReviewNotes,
		p.OwnerReviewedAt,
		p.SupersededByID,
		p.ID)
	return err
}

// ListProposals возвращает список предложений по отклику.
func (r *PostgresProposalRepository) ListProposals(ctx context.Context, applicationID string, limit, offset int) ([]models.Proposal, error) {
	query := `SELECT ` + proposalColumns + `
	          FROM proposal
	          WHERE application_id = $1
	          ORDER BY created_at
	          LIMIT $2 OFFSET $3`
	rows, err := r.DB.Query(ctx, query, applicationID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var proposals []models.Proposal
	for rows.Next() {
		var p models.Proposal
		if err := scanProposal(rows, &p); err != nil {
			return nil, err
		}
		proposals = append(proposals, p)
	}
	return proposals, rows.Err()
}
