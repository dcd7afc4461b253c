package postgres

import (
	"context"

	"github.com/geocoder89/salescrm/internal/domain/activity"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ActivitiesRepo backs both tasks and meetings (the sales-activities service).
type ActivitiesRepo struct {
	pool *pgxpool.Pool
	obs  DBObserver
}

func NewActivitiesRepo(pool *pgxpool.Pool, obs DBObserver) *ActivitiesRepo {
	return &ActivitiesRepo{pool: pool, obs: observerOrNoop(obs)}
}

const (
	taskColumns    = `id, title, description, customer_id, assigned_sales_id, due_date, status, created_at, updated_at`
	meetingColumns = `id, title, customer_id, assigned_sales_id, start_at, end_at, location, status, created_at, updated_at`
)

func scanTask(row pgx.Row, t *activity.Task) error {
	return row.Scan(&t.ID, &t.Title, &t.Description, &t.CustomerID, &t.AssignedSalesID, &t.DueDate, &t.Status, &t.CreatedAt, &t.UpdatedAt)
}

func scanMeeting(row pgx.Row, m *activity.Meeting) error {
	return row.Scan(&m.ID, &m.Title, &m.CustomerID, &m.AssignedSalesID, &m.StartAt, &m.EndAt, &m.Location, &m.Status, &m.CreatedAt, &m.UpdatedAt)
}

func (r *ActivitiesRepo) CreateTask(ctx context.Context, t activity.Task) error {
	return r.obs.ObserveDB("tasks.create", func() error {
		_, err := r.pool.Exec(ctx,
			`INSERT INTO tasks (`+taskColumns+`) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`,
			t.ID, t.Title, t.Description, t.CustomerID, t.AssignedSalesID, t.DueDate, t.Status, t.CreatedAt, t.UpdatedAt,
		)
		return err
	})
}

func (r *ActivitiesRepo) ListTasks(ctx context.Context) ([]activity.Task, error) {
	out := make([]activity.Task, 0)

	err := r.obs.ObserveDB("tasks.list", func() error {
		rows, err := r.pool.Query(ctx, `SELECT `+taskColumns+` FROM tasks ORDER BY due_date ASC NULLS LAST, id ASC`)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			var t activity.Task
			if err := scanTask(rows, &t); err != nil {
				return err
			}
			out = append(out, t)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *ActivitiesRepo) UpdateTaskStatus(ctx context.Context, id, status string) (activity.Task, error) {
	var t activity.Task

	err := r.obs.ObserveDB("tasks.update_status", func() error {
		return scanTask(r.pool.QueryRow(ctx,
			`UPDATE tasks SET status = $2, updated_at = NOW() WHERE id = $1 RETURNING `+taskColumns,
			id, status,
		), &t)
	})
	if err != nil {
		return activity.Task{}, notFound(err, activity.ErrNotFound)
	}
	return t, nil
}

func (r *ActivitiesRepo) CountTasks(ctx context.Context) (int, error) {
	return count(ctx, r.pool, r.obs, "tasks")
}

func (r *ActivitiesRepo) CreateMeeting(ctx context.Context, m activity.Meeting) error {
	return r.obs.ObserveDB("meetings.create", func() error {
		_, err := r.pool.Exec(ctx,
			`INSERT INTO meetings (`+meetingColumns+`) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)`,
			m.ID, m.Title, m.CustomerID, m.AssignedSalesID, m.StartAt, m.EndAt, m.Location, m.Status, m.CreatedAt, m.UpdatedAt,
		)
		return err
	})
}

func (r *ActivitiesRepo) ListMeetings(ctx context.Context) ([]activity.Meeting, error) {
	out := make([]activity.Meeting, 0)

	err := r.obs.ObserveDB("meetings.list", func() error {
		rows, err := r.pool.Query(ctx, `SELECT `+meetingColumns+` FROM meetings ORDER BY start_at ASC, id ASC`)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			var m activity.Meeting
			if err := scanMeeting(rows, &m); err != nil {
				return err
			}
			out = append(out, m)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *ActivitiesRepo) CountMeetings(ctx context.Context) (int, error) {
	return count(ctx, r.pool, r.obs, "meetings")
}
