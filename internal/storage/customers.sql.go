package storage

import (
	"context"
)

const createCustomer = `
INSERT INTO customers (name, phone, note, created_at)
VALUES (?, ?, ?, ?)
RETURNING id, name, phone, note, created_at
`

type CreateCustomerParams struct {
	Name      string
	Phone     string
	Note      string
	CreatedAt string
}

func (q *Queries) CreateCustomer(ctx context.Context, arg CreateCustomerParams) (Customer, error) {
	row := q.db.QueryRowContext(ctx, createCustomer, arg.Name, arg.Phone, arg.Note, arg.CreatedAt)
	var i Customer
	err := row.Scan(&i.ID, &i.Name, &i.Phone, &i.Note, &i.CreatedAt)
	return i, err
}

const getCustomer = `
SELECT id, name, phone, note, created_at FROM customers WHERE id = ?
`

func (q *Queries) GetCustomer(ctx context.Context, id int64) (Customer, error) {
	row := q.db.QueryRowContext(ctx, getCustomer, id)
	var i Customer
	err := row.Scan(&i.ID, &i.Name, &i.Phone, &i.Note, &i.CreatedAt)
	return i, err
}

const listCustomers = `
SELECT id, name, phone, note, created_at FROM customers
ORDER BY name COLLATE NOCASE, id
`

func (q *Queries) ListCustomers(ctx context.Context) ([]Customer, error) {
	rows, err := q.db.QueryContext(ctx, listCustomers)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Customer
	for rows.Next() {
		var i Customer
		if err := rows.Scan(&i.ID, &i.Name, &i.Phone, &i.Note, &i.CreatedAt); err != nil {
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

const updateCustomer = `
UPDATE customers SET name = ?, phone = ?, note = ?
WHERE id = ?
RETURNING id, name, phone, note, created_at
`

type UpdateCustomerParams struct {
	Name  string
	Phone string
	Note  string
	ID    int64
}

func (q *Queries) UpdateCustomer(ctx context.Context, arg UpdateCustomerParams) (Customer, error) {
	row := q.db.QueryRowContext(ctx, updateCustomer, arg.Name, arg.Phone, arg.Note, arg.ID)
	var i Customer
	err := row.Scan(&i.ID, &i.Name, &i.Phone, &i.Note, &i.CreatedAt)
	return i, err
}

const deleteCustomer = `
DELETE FROM customers WHERE id = ?
`

func (q *Queries) DeleteCustomer(ctx context.Context, id int64) (int64, error) {
	result, err := q.db.ExecContext(ctx, deleteCustomer, id)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const countCustomers = `
SELECT COUNT(*) FROM customers
`

func (q *Queries) CountCustomers(ctx context.Context) (int64, error) {
	row := q.db.QueryRowContext(ctx, countCustomers)
	var count int64
	err := row.Scan(&count)
	return count, err
}

const countAppointmentsForCustomer = `
SELECT COUNT(*) FROM appointments WHERE customer_id = ?
`

func (q *Queries) CountAppointmentsForCustomer(ctx context.Context, customerID int64) (int64, error) {
	row := q.db.QueryRowContext(ctx, countAppointmentsForCustomer, customerID)
	var count int64
	err := row.Scan(&count)
	return count, err
}
