package postgres

import (
	"context"

	"github.com/geocoder89/salescrm/internal/domain/customer"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type CustomersRepo struct {
	pool *pgxpool.Pool
	obs  DBObserver
}

func NewCustomersRepo(pool *pgxpool.Pool, obs DBObserver) *CustomersRepo {
	return &CustomersRepo{pool: pool, obs: observerOrNoop(obs)}
}

const customerColumns = `id, name, email, company, phone, status, assigned_sales_id, created_at, updated_at`

func scanCustomer(row pgx.Row, c *customer.Customer) error {
	return row.Scan(&c.ID, &c.Name, &c.Email, &c.Company, &c.Phone, &c.Status, &c.AssignedSalesID, &c.CreatedAt, &c.UpdatedAt)
}

func (r *CustomersRepo) Create(ctx context.Context, req customer.CreateCustomerRequest) (customer.Customer, error) {
	c := customer.NewFromCreateRequest(req)

	err := r.obs.ObserveDB("customers.create", func() error {
		_, err := r.pool.Exec(ctx,
			`INSERT INTO customers (`+customerColumns+`) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`,
			c.ID, c.Name, c.Email, c.Company, c.Phone, c.Status, c.AssignedSalesID, c.CreatedAt, c.UpdatedAt,
		)
		return err
	})
	if err != nil {
		return customer.Customer{}, err
	}

	return c, nil
}

func (r *CustomersRepo) List(ctx context.Context) ([]customer.Customer, error) {
	out := make([]customer.Customer, 0)

	err := r.obs.ObserveDB("customers.list", func() error {
		rows, err := r.pool.Query(ctx, `SELECT `+customerColumns+` FROM customers ORDER BY created_at DESC, id ASC`)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			var c customer.Customer
			if err := scanCustomer(rows, &c); err != nil {
				return err
			}
			out = append(out, c)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *CustomersRepo) GetByID(ctx context.Context, id string) (customer.Customer, error) {
	var c customer.Customer

	err := r.obs.ObserveDB("customers.get", func() error {
		return scanCustomer(r.pool.QueryRow(ctx, `SELECT `+customerColumns+` FROM customers WHERE id = $1`, id), &c)
	})
	if err != nil {
		return customer.Customer{}, notFound(err, customer.ErrNotFound)
	}
	return c, nil
}

func (r *CustomersRepo) Update(ctx context.Context, id string, req customer.UpdateCustomerRequest) (customer.Customer, error) {
	var c customer.Customer

	status := req.Status
	if status == "" {
		status = customer.StatusLead
	}

	err := r.obs.ObserveDB("customers.update", func() error {
		return scanCustomer(r.pool.QueryRow(ctx,
			`UPDATE customers
				SET name = $2,
					email = $3,
					company = $4,
					phone = $5,
					status = $6,
					assigned_sales_id = $7,
					updated_at = NOW()
			WHERE id = $1
			RETURNING `+customerColumns,
			id, req.Name, req.Email, req.Company, req.Phone, status, req.AssignedSalesID,
		), &c)
	})
	if err != nil {
		return customer.Customer{}, notFound(err, customer.ErrNotFound)
	}
	return c, nil
}

func (r *CustomersRepo) Delete(ctx context.Context, id string) error {
	return r.obs.ObserveDB("customers.delete", func() error {
		tag, err := r.pool.Exec(ctx, `DELETE FROM customers WHERE id = $1`, id)
		if err != nil {
			return notFound(err, customer.ErrNotFound)
		}
		if tag.RowsAffected() == 0 {
			return customer.ErrNotFound
		}
		return nil
	})
}

func (r *CustomersRepo) Count(ctx context.Context) (int, error) {
	return count(ctx, r.pool, r.obs, "customers")
}
