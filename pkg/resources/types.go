package resources

import (
	"context"

	"github.com/jackc/pgx/v5"
)

var (
	_ Closable = CloseFunc(nil)
)

// DBInstance is the part of a pgx pool the application reads through.
type DBInstance interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Ping(ctx context.Context) error
}

type Closable interface {
	Close()
}

type CloseFunc func()

func (fn CloseFunc) Close() {
	fn()
}
