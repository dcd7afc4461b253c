package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// table is always one of our own constants, never user input
func count(ctx context.Context, pool *pgxpool.Pool, obs DBObserver, table string) (int, error) {
	var n int
	err := obs.ObserveDB(table+".count", func() error {
		return pool.QueryRow(ctx, `SELECT COUNT(*) FROM `+table).Scan(&n)
	})
	return n, err
}
