package store

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/rgehrsitz/billplan/internal/domain"
	"github.com/shopspring/decimal"

	_ "github.com/mattn/go-sqlite3"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// MemoryPath opens a private in-memory database.
const MemoryPath = ":memory:"

// SQLiteStore persists overrides and records in a sqlite database.
type SQLiteStore struct {
	db *sql.DB
}

// Open opens (creating if needed) the database at path and applies migrations.
func Open(path string) (*SQLiteStore, error) {
	if path != MemoryPath {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", fmt.Sprintf("file:%s?_foreign_keys=on&_busy_timeout=5000", path))
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	db.SetMaxOpenConns(1) // sqlite
	db.SetConnMaxLifetime(0)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping db: %w", err)
	}
	if err := runMigrations(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

// runMigrations applies the embedded up migrations. The migrate instance is
// not closed: its sqlite driver would close db along with it.
func runMigrations(db *sql.DB) error {
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return err
	}
	driver, err := sqlite3.WithInstance(db, &sqlite3.Config{})
	if err != nil {
		return err
	}
	m, err := migrate.NewWithInstance("iofs", src, "sqlite3", driver)
	if err != nil {
		return err
	}
	err = m.Up()
	if errors.Is(err, migrate.ErrNoChange) {
		return nil
	}
	return err
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) SaveOverride(ctx context.Context, instanceID string, paycheckDate domain.Date) error {
	_, err := s.db.ExecContext(ctx, `
	INSERT INTO bill_overrides(instance_id, paycheck_date, updated_at)
	VALUES (?, ?, CURRENT_TIMESTAMP)
	ON CONFLICT(instance_id) DO UPDATE SET
	 paycheck_date=excluded.paycheck_date,
	 updated_at=CURRENT_TIMESTAMP;
	`, instanceID, paycheckDate.String())
	if err != nil {
		return fmt.Errorf("save override %s: %w", instanceID, err)
	}
	return nil
}

func (s *SQLiteStore) DeleteOverride(ctx context.Context, instanceID string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM bill_overrides WHERE instance_id = ?`, instanceID)
	if err != nil {
		return fmt.Errorf("delete override %s: %w", instanceID, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SQLiteStore) ListOverrides(ctx context.Context) (domain.Overrides, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT instance_id, paycheck_date FROM bill_overrides ORDER BY instance_id`)
	if err != nil {
		return nil, fmt.Errorf("list overrides: %w", err)
	}
	defer rows.Close()

	out := make(domain.Overrides)
	for rows.Next() {
		var id, date string
		if err := rows.Scan(&id, &date); err != nil {
			return nil, err
		}
		d, err := domain.ParseDate(date)
		if err != nil {
			return nil, fmt.Errorf("override %s: %w", id, err)
		}
		out[id] = d
	}
	return out, rows.Err()
}

func (s *SQLiteStore) SaveSavings(ctx context.Context, rec domain.PaycheckSavings) error {
	_, err := s.db.ExecContext(ctx, `
	INSERT INTO paycheck_savings(paycheck_date, amount, is_deposited)
	VALUES (?, ?, ?)
	ON CONFLICT(paycheck_date) DO UPDATE SET
	 amount=excluded.amount,
	 is_deposited=excluded.is_deposited;
	`, rec.PaycheckDate.String(), rec.Amount.String(), rec.IsDeposited)
	if err != nil {
		return fmt.Errorf("save savings %s: %w", rec.PaycheckDate, err)
	}
	return nil
}

func (s *SQLiteStore) ListSavings(ctx context.Context) ([]domain.PaycheckSavings, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT paycheck_date, amount, is_deposited FROM paycheck_savings ORDER BY paycheck_date`)
	if err != nil {
		return nil, fmt.Errorf("list savings: %w", err)
	}
	defer rows.Close()

	var out []domain.PaycheckSavings
	for rows.Next() {
		var (
			date string
			rec  domain.PaycheckSavings
		)
		if err := rows.Scan(&date, &rec.Amount, &rec.IsDeposited); err != nil {
			return nil, err
		}
		if rec.PaycheckDate, err = domain.ParseDate(date); err != nil {
			return nil, fmt.Errorf("savings record: %w", err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) SavePayment(ctx context.Context, p domain.BillPayment) error {
	_, err := s.db.ExecContext(ctx, `
	INSERT INTO bill_payments(paycheck_date, bill_name, bill_due_date, is_paid)
	VALUES (?, ?, ?, ?)
	ON CONFLICT(paycheck_date, bill_name, bill_due_date) DO UPDATE SET
	 is_paid=excluded.is_paid;
	`, p.PaycheckDate.String(), p.BillName, p.BillDueDate.String(), p.IsPaid)
	if err != nil {
		return fmt.Errorf("save payment %s: %w", p.BillName, err)
	}
	return nil
}

func (s *SQLiteStore) ListPayments(ctx context.Context) ([]domain.BillPayment, error) {
	rows, err := s.db.QueryContext(ctx, `
	SELECT paycheck_date, bill_name, bill_due_date, is_paid
	FROM bill_payments
	ORDER BY paycheck_date, bill_due_date, bill_name`)
	if err != nil {
		return nil, fmt.Errorf("list payments: %w", err)
	}
	defer rows.Close()

	var out []domain.BillPayment
	for rows.Next() {
		var (
			pay, due string
			p        domain.BillPayment
		)
		if err := rows.Scan(&pay, &p.BillName, &due, &p.IsPaid); err != nil {
			return nil, err
		}
		if p.PaycheckDate, p.BillDueDate, err = parsePair(pay, due); err != nil {
			return nil, fmt.Errorf("payment %s: %w", p.BillName, err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) SaveAmountOverride(ctx context.Context, o domain.BillAmountOverride) error {
	_, err := s.db.ExecContext(ctx, `
	INSERT INTO bill_amount_overrides(paycheck_date, bill_name, bill_due_date, amount)
	VALUES (?, ?, ?, ?)
	ON CONFLICT(paycheck_date, bill_name, bill_due_date) DO UPDATE SET
	 amount=excluded.amount;
	`, o.PaycheckDate.String(), o.BillName, o.BillDueDate.String(), o.Amount.String())
	if err != nil {
		return fmt.Errorf("save amount override %s: %w", o.BillName, err)
	}
	return nil
}

func (s *SQLiteStore) ListAmountOverrides(ctx context.Context) ([]domain.BillAmountOverride, error) {
	rows, err := s.db.QueryContext(ctx, `
	SELECT paycheck_date, bill_name, bill_due_date, amount
	FROM bill_amount_overrides
	ORDER BY paycheck_date, bill_due_date, bill_name`)
	if err != nil {
		return nil, fmt.Errorf("list amount overrides: %w", err)
	}
	defer rows.Close()

	var out []domain.BillAmountOverride
	for rows.Next() {
		var (
			pay, due, amount string
			o                domain.BillAmountOverride
		)
		if err := rows.Scan(&pay, &o.BillName, &due, &amount); err != nil {
			return nil, err
		}
		if o.PaycheckDate, o.BillDueDate, err = parsePair(pay, due); err != nil {
			return nil, fmt.Errorf("amount override %s: %w", o.BillName, err)
		}
		if o.Amount, err = decimal.NewFromString(amount); err != nil {
			return nil, fmt.Errorf("amount override %s: %w", o.BillName, err)
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

func parsePair(pay, due string) (domain.Date, domain.Date, error) {
	p, err := domain.ParseDate(pay)
	if err != nil {
		return domain.Date{}, domain.Date{}, err
	}
	d, err := domain.ParseDate(due)
	if err != nil {
		return domain.Date{}, domain.Date{}, err
	}
	return p, d, nil
}
