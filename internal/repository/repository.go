package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DBTX - минимальный интерфейс запросов, который реализуют и pgxpool.Pool,
// и pgx.Tx. Репозитории создаются поверх него, поэтому один и тот же код
// работает и на пуле для чтений, и внутри транзакции для мутаций.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}
