package storage

import (
	"context"
)

const createService = `
INSERT INTO services (name, unit_price_cents, duration_min, created_at)
VALUES (?, ?, ?, ?)
RETURNING id, name, unit_price_cents, duration_min, created_at
`

type CreateServiceParams struct {
	Name           string
	UnitPriceCents int64
	DurationMin    int64
	CreatedAt      string
}

func (q *Queries) CreateService(ctx context.Context, arg CreateServiceParams) (Service, error) {
	row := q.db.QueryRowContext(ctx, createService, arg.Name, arg.UnitPriceCents, arg.DurationMin, arg.CreatedAt)
	var i Service
	err := row.Scan(&i.ID, &i.Name, &i.UnitPriceCents, &i.DurationMin, &i.CreatedAt)
	return i, err
}

const getService = `
SELECT id, name, unit_price_cents, duration_min, created_at FROM services WHERE id = ?
`

func (q *Queries) GetService(ctx context.Context, id int64) (Service, error) {
	row := q.db.QueryRowContext(ctx, getService, id)
	var i Service
	err := row.Scan(&i.ID, &i.Name, &i.UnitPriceCents, &i.DurationMin, &i.CreatedAt)
	return i, err
}

const listServices = `
SELECT id, name, unit_price_cents, duration_min, created_at FROM services
ORDER BY name COLLATE NOCASE, id
`

func (q *Queries) ListServices(ctx context.Context) ([]Service, error) {
	rows, err := q.db.QueryContext(ctx, listServices)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Service
	for rows.Next() {
		var i Service
		if err := rows.Scan(&i.ID, &i.Name, &i.UnitPriceCents, &i.DurationMin, &i.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const updateService = `
UPDATE services SET name = ?, unit_price_cents = ?, duration_min = ?
WHERE id = ?
RETURNING id, name, unit_price_cents, duration_min, created_at
`

type UpdateServiceParams struct {
	Name           string
	UnitPriceCents int64
	DurationMin    int64
	ID             int64
}

func (q *Queries) UpdateService(ctx context.Context, arg UpdateServiceParams) (Service, error) {
	row := q.db.QueryRowContext(ctx, updateService, arg.Name, arg.UnitPriceCents, arg.DurationMin, arg.ID)
	var i Service
	err := row.Scan(&i.ID, &i.Name, &i.UnitPriceCents, &i.DurationMin, &i.CreatedAt)
	return i, err
}

const deleteService = `
DELETE FROM services WHERE id = ?
`

func (q *Queries) DeleteService(ctx context.Context, id int64) (int64, error) {
	result, err := q.db.ExecContext(ctx, deleteService, id)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const countServices = `
SELECT COUNT(*) FROM services
`

func (q *Queries) CountServices(ctx context.Context) (int64, error) {
	row := q.db.QueryRowContext(ctx, countServices)
	var count int64
	err := row.Scan(&count)
	return count, err
}
