package postgres

import (
	"context"

	"github.com/geocoder89/salescrm/internal/domain/audit"
	"github.com/jackc/pgx/v5/pgxpool"
)

type AuditRepo struct {
	pool *pgxpool.Pool
	obs  DBObserver
}

func NewAuditRepo(pool *pgxpool.Pool, obs DBObserver) *AuditRepo {
	return &AuditRepo{pool: pool, obs: observerOrNoop(obs)}
}

func (r *AuditRepo) Append(ctx context.Context, e audit.Entry) error {
	return r.obs.ObserveDB("audit.append", func() error {
		_, err := r.pool.Exec(ctx,
			`INSERT INTO audit_logs (id, actor_id, action, entity, entity_id, at) VALUES ($1,$2,$3,$4,$5,$6)`,
			e.ID, e.ActorID, string(e.Action), e.Entity, e.EntityID, e.At,
		)
		return err
	})
}

func (r *AuditRepo) List(ctx context.Context, limit int) ([]audit.Entry, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}

	out := make([]audit.Entry, 0, limit)

	err := r.obs.ObserveDB("audit.list", func() error {
		rows, err := r.pool.Query(ctx,
			`SELECT id, actor_id, action, entity, entity_id, at FROM audit_logs ORDER BY at DESC, id DESC LIMIT $1`, limit)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			var e audit.Entry
			if err := rows.Scan(&e.ID, &e.ActorID, &e.Action, &e.Entity, &e.EntityID, &e.At); err != nil {
				return err
			}
			out = append(out, e)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
