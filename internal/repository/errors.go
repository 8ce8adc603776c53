package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	// ErrNotFound indica que el registro no existe (o el compare-and-set no aplico).
	ErrNotFound = errors.New("repository: not found")
	// ErrDuplicate indica una violacion de unicidad.
	ErrDuplicate = errors.New("repository: duplicate")
)

const (
	uniqueViolation     = "23505"
	foreignKeyViolation = "23503"
)

// DBTX es el subconjunto de pgxpool.Pool que usan los repositorios.
// pgxmock.PgxPoolIface tambien lo satisface.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

// isForeignKeyViolation cubre likes y comentarios sobre campañas inexistentes.
func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == foreignKeyViolation
}

func translate(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	return err
}
