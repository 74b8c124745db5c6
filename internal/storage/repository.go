package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"salon/internal/core"

	_ "modernc.org/sqlite"
)

// Every connection gets foreign keys, a busy timeout and WAL. Write
// transactions take the lock up front so two writers never deadlock on
// upgrade.
const dsnParams = "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_txlock=immediate"

type SQLiteRepository struct {
	db      *sql.DB
	queries *Queries
	now     func() time.Time
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	dsn := dbPath + dsnParams
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dsn); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{
		db:      db,
		queries: New(db),
		now:     time.Now,
	}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Ping reports whether the database is reachable.
func (r *SQLiteRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// withTx runs fn in one transaction, rolling back on any error.
func (r *SQLiteRepository) withTx(ctx context.Context, fn func(q *Queries) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	if err := fn(r.queries.WithTx(tx)); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			slog.WarnContext(ctx, "Rollback failed", "error", rbErr)
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) timestamp() string {
	return r.now().UTC().Format(time.RFC3339Nano)
}

func parseTimestamp(s string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

func notFound(err error, what string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s: %w", what, ErrNotFound)
	}
	return fmt.Errorf("get %s: %w", what, err)
}

func toCoreCustomer(c Customer) core.Customer {
	return core.Customer{
		ID:        c.ID,
		Name:      c.Name,
		Phone:     c.Phone,
		Note:      c.Note,
		CreatedAt: parseTimestamp(c.CreatedAt),
	}
}

func toCoreService(s Service) core.Service {
	return core.Service{
		ID:          s.ID,
		Name:        s.Name,
		UnitPrice:   core.Cents(s.UnitPriceCents),
		DurationMin: int(s.DurationMin),
		CreatedAt:   parseTimestamp(s.CreatedAt),
	}
}

func (r *SQLiteRepository) CreateCustomer(ctx context.Context, c core.Customer) (core.Customer, error) {
	row, err := r.queries.CreateCustomer(ctx, CreateCustomerParams{
		Name:      c.Name,
		Phone:     c.Phone,
		Note:      c.Note,
		CreatedAt: r.timestamp(),
	})
	if err != nil {
		return core.Customer{}, fmt.Errorf("create customer: %w", err)
	}
	slog.InfoContext(ctx, "Customer saved", "id", row.ID)
	return toCoreCustomer(row), nil
}

func (r *SQLiteRepository) GetCustomer(ctx context.Context, id int64) (core.Customer, error) {
	row, err := r.queries.GetCustomer(ctx, id)
	if err != nil {
		return core.Customer{}, notFound(err, "customer")
	}
	return toCoreCustomer(row), nil
}

func (r *SQLiteRepository) ListCustomers(ctx context.Context) ([]core.Customer, error) {
	rows, err := r.queries.ListCustomers(ctx)
	if err != nil {
		return nil, fmt.Errorf("list customers: %w", err)
	}
	out := make([]core.Customer, 0, len(rows))
	for _, row := range rows {
		out = append(out, toCoreCustomer(row))
	}
	return out, nil
}

// UpdateCustomer applies patch to the stored customer and validates the
// result before writing it.
func (r *SQLiteRepository) UpdateCustomer(ctx context.Context, id int64, patch core.CustomerPatch) (core.Customer, error) {
	var out core.Customer
	err := r.withTx(ctx, func(q *Queries) error {
		row, err := q.GetCustomer(ctx, id)
		if err != nil {
			return notFound(err, "customer")
		}
		c := toCoreCustomer(row)
		patch.Apply(&c)
		if err := c.Validate(); err != nil {
			return err
		}
		updated, err := q.UpdateCustomer(ctx, UpdateCustomerParams{Name: c.Name, Phone: c.Phone, Note: c.Note, ID: id})
		if err != nil {
			return fmt.Errorf("update customer: %w", err)
		}
		out = toCoreCustomer(updated)
		return nil
	})
	return out, err
}

// DeleteCustomer refuses while appointments still reference the customer.
// Deleting an unknown id is not an error.
func (r *SQLiteRepository) DeleteCustomer(ctx context.Context, id int64) error {
	return r.withTx(ctx, func(q *Queries) error {
		n, err := q.CountAppointmentsForCustomer(ctx, id)
		if err != nil {
			return fmt.Errorf("count appointments: %w", err)
		}
		if n > 0 {
			return fmt.Errorf("delete customer %d (%d appointments): %w", id, n, ErrCustomerHasAppointments)
		}
		if _, err := q.DeleteCustomer(ctx, id); err != nil {
			return fmt.Errorf("delete customer: %w", err)
		}
		return nil
	})
}

func (r *SQLiteRepository) CreateService(ctx context.Context, s core.Service) (core.Service, error) {
	row, err := r.queries.CreateService(ctx, CreateServiceParams{
		Name:           s.Name,
		UnitPriceCents: s.UnitPrice.Cents,
		DurationMin:    int64(s.DurationMin),
		CreatedAt:      r.timestamp(),
	})
	if err != nil {
		return core.Service{}, fmt.Errorf("create service: %w", err)
	}
	slog.InfoContext(ctx, "Service saved", "id", row.ID, "unit_price_cents", row.UnitPriceCents)
	return toCoreService(row), nil
}

func (r *SQLiteRepository) GetService(ctx context.Context, id int64) (core.Service, error) {
	row, err := r.queries.GetService(ctx, id)
	if err != nil {
		return core.Service{}, notFound(err, "service")
	}
	return toCoreService(row), nil
}

func (r *SQLiteRepository) ListServices(ctx context.Context) ([]core.Service, error) {
	rows, err := r.queries.ListServices(ctx)
	if err != nil {
		return nil, fmt.Errorf("list services: %w", err)
	}
	out := make([]core.Service, 0, len(rows))
	for _, row := range rows {
		out = append(out, toCoreService(row))
	}
	return out, nil
}

func (r *SQLiteRepository) UpdateService(ctx context.Context, id int64, patch core.ServicePatch) (core.Service, error) {
	var out core.Service
	err := r.withTx(ctx, func(q *Queries) error {
		row, err := q.GetService(ctx, id)
		if err != nil {
			return notFound(err, "service")
		}
		s := toCoreService(row)
		patch.Apply(&s)
		if err := s.Validate(); err != nil {
			return err
		}
		updated, err := q.UpdateService(ctx, UpdateServiceParams{
			Name:           s.Name,
			UnitPriceCents: s.UnitPrice.Cents,
			DurationMin:    int64(s.DurationMin),
			ID:             id,
		})
		if err != nil {
			return fmt.Errorf("update service: %w", err)
		}
		out = toCoreService(updated)
		return nil
	})
	return out, err
}

// DeleteService removes a catalog entry. Line items that referenced it keep
// their snapshots and lose the service link.
func (r *SQLiteRepository) DeleteService(ctx context.Context, id int64) error {
	if _, err := r.queries.DeleteService(ctx, id); err != nil {
		return fmt.Errorf("delete service: %w", err)
	}
	return nil
}
