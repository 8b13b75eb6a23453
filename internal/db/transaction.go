package db

import (
	"context"
	"fmt"

	"github.com/senyabanana/recruitment-service/internal/repository"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Adapter собирает репозитории, привязанные к одной транзакции.
// Переход предложения, проекция статуса и запись в журнал идут через один
// Adapter и потому фиксируются или откатываются вместе.
type Adapter struct {
	Applications repository.ApplicationRepository
	Proposals    repository.ProposalRepository
	Timeline     repository.TimelineRepository
	Feedback     repository.FeedbackRepository
	Employees    repository.EmployeeRepository
}

func newAdapter(tx pgx.Tx) *Adapter {
	return &Adapter{
		Applications: repository.NewPostgresApplicationRepository(tx),
		Proposals:    repository.NewPostgresProposalRepository(tx),
		Timeline:     repository.NewPostgresTimelineRepository(tx),
		Feedback:     repository.NewPostgresFeedbackRepository(tx),
		Employees:    repository.NewPostgresEmployeeRepository(tx),
	}
}

// Runner выполняет функцию внутри одной транзакции.
type Runner interface {
	WithinTx(ctx context.Context, fn func(adapter *Adapter) error) error
}

// TransactionProvider - реализация Runner поверх пула pgx.
type TransactionProvider struct {
	pool *pgxpool.Pool
}

// NewTransactionProvider создает новый экземпляр TransactionProvider.
func NewTransactionProvider(pool *pgxpool.Pool) *TransactionProvider {
	return &TransactionProvider{pool: pool}
}

// WithinTx открывает транзакцию, передает в fn репозитории, привязанные к ней,
// и коммитит при успехе. Ошибка fn откатывает транзакцию и возвращается
// как есть, чтобы обработчики видели типизированную ошибку.
func (p *TransactionProvider) WithinTx(ctx context.Context, fn func(adapter *Adapter) error) error {
	tx, err := p.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	if err := fn(newAdapter(tx)); err != nil {
		_ = tx.Rollback(ctx)
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
