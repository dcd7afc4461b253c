package postgres

import (
	"context"

	"github.com/geocoder89/salescrm/internal/domain/opportunity"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type OpportunitiesRepo struct {
	pool *pgxpool.Pool
	obs  DBObserver
}

func NewOpportunitiesRepo(pool *pgxpool.Pool, obs DBObserver) *OpportunitiesRepo {
	return &OpportunitiesRepo{pool: pool, obs: observerOrNoop(obs)}
}

const opportunityColumns = `id, title, customer_id, assigned_sales_id, amount, stage, created_at, updated_at`

func scanOpportunity(row pgx.Row, o *opportunity.Opportunity) error {
	return row.Scan(&o.ID, &o.Title, &o.CustomerID, &o.AssignedSalesID, &o.Amount, &o.Stage, &o.CreatedAt, &o.UpdatedAt)
}

func (r *OpportunitiesRepo) Create(ctx context.Context, o opportunity.Opportunity) error {
	return r.obs.ObserveDB("opportunities.create", func() error {
		_, err := r.pool.Exec(ctx,
			`INSERT INTO opportunities (`+opportunityColumns+`) VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
			o.ID, o.Title, o.CustomerID, o.AssignedSalesID, o.Amount, o.Stage, o.CreatedAt, o.UpdatedAt,
		)
		return err
	})
}

func (r *OpportunitiesRepo) List(ctx context.Context) ([]opportunity.Opportunity, error) {
	out := make([]opportunity.Opportunity, 0)

	err := r.obs.ObserveDB("opportunities.list", func() error {
		rows, err := r.pool.Query(ctx, `SELECT `+opportunityColumns+` FROM opportunities ORDER BY created_at DESC, id ASC`)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			var o opportunity.Opportunity
			if err := scanOpportunity(rows, &o); err != nil {
				return err
			}
			out = append(out, o)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *OpportunitiesRepo) UpdateStage(ctx context.Context, id, stage string) (opportunity.Opportunity, error) {
	var o opportunity.Opportunity

	err := r.obs.ObserveDB("opportunities.update_stage", func() error {
		return scanOpportunity(r.pool.QueryRow(ctx,
			`UPDATE opportunities SET stage = $2, updated_at = NOW() WHERE id = $1 RETURNING `+opportunityColumns,
			id, stage,
		), &o)
	})
	if err != nil {
		return opportunity.Opportunity{}, notFound(err, opportunity.ErrNotFound)
	}
	return o, nil
}

func (r *OpportunitiesRepo) Count(ctx context.Context) (int, error) {
	return count(ctx, r.pool, r.obs, "opportunities")
}
