// Package storage implements the ledger store on an in-memory SQLite
// database. The database lives and dies with its session: the DSN is
// ":memory:", so nothing ever touches disk and nothing survives a
// restart. It exists as an alternative to the slice-backed store for
// deployments that want SQL-enforced record constraints.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"tally/internal/core"

	_ "modernc.org/sqlite"
)

const dateLayout = "2006-01-02"

type SQLiteStore struct {
	db *sql.DB
}

// NewEphemeralStore opens a fresh private in-memory database and applies
// the schema.
func NewEphemeralStore() (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	// A ":memory:" database is per-connection; more than one pooled
	// connection would each see their own empty database.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Append implements ledger.Store.
func (s *SQLiteStore) Append(ctx context.Context, tx core.Transaction) (int64, error) {
	if err := tx.Validate(); err != nil {
		return 0, err
	}
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO records (record_type, kind, amount_cents, category, record_date, note)
		 VALUES ('transaction', ?, ?, ?, ?, ?)`,
		string(tx.Kind), tx.Amount.Cents, tx.Category, tx.Date.Format(dateLayout), tx.Note)
	if err != nil {
		return 0, fmt.Errorf("insert transaction: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("transaction id: %w", err)
	}
	return id, nil
}

// AppendFixedCost implements ledger.Store.
func (s *SQLiteStore) AppendFixedCost(ctx context.Context, fc core.FixedCost) (int64, error) {
	if err := fc.Validate(); err != nil {
		return 0, err
	}
	active := 0
	if fc.Active {
		active = 1
	}
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO records (record_type, direction, amount_cents, category, record_date, active)
		 VALUES ('fixed_cost', ?, ?, ?, ?, ?)`,
		string(fc.Direction), fc.Amount.Cents, fc.Category, fc.StartDate.Format(dateLayout), active)
	if err != nil {
		return 0, fmt.Errorf("insert fixed cost: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("fixed cost id: %w", err)
	}
	return id, nil
}

// Deactivate implements ledger.Store.
func (s *SQLiteStore) Deactivate(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE records SET active = 0 WHERE id = ? AND record_type = 'fixed_cost'`, id)
	if err != nil {
		return fmt.Errorf("deactivate fixed cost: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deactivate fixed cost: %w", err)
	}
	if n == 0 {
		return core.ErrNotFound
	}
	return nil
}

// Transactions implements ledger.Store.
func (s *SQLiteStore) Transactions(ctx context.Context) ([]core.Transaction, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, kind, amount_cents, category, record_date, note
		 FROM records WHERE record_type = 'transaction' ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("select transactions: %w", err)
	}
	defer rows.Close()

	var out []core.Transaction
	for rows.Next() {
		var (
			tx      core.Transaction
			kind    string
			dateStr string
		)
		if err := rows.Scan(&tx.ID, &kind, &tx.Amount.Cents, &tx.Category, &dateStr, &tx.Note); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		tx.Kind = core.TransactionKind(kind)
		d, err := time.Parse(dateLayout, dateStr)
		if err != nil {
			return nil, fmt.Errorf("parse transaction date %q: %w", dateStr, err)
		}
		tx.Date = core.Date{Time: d}
		out = append(out, tx)
	}
	return out, rows.Err()
}

// FixedCosts implements ledger.Store.
func (s *SQLiteStore) FixedCosts(ctx context.Context) ([]core.FixedCost, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, direction, amount_cents, category, record_date, active
		 FROM records WHERE record_type = 'fixed_cost' ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("select fixed costs: %w", err)
	}
	defer rows.Close()

	var out []core.FixedCost
	for rows.Next() {
		var (
			fc        core.FixedCost
			direction string
			dateStr   string
			active    int
		)
		if err := rows.Scan(&fc.ID, &direction, &fc.Amount.Cents, &fc.Category, &dateStr, &active); err != nil {
			return nil, fmt.Errorf("scan fixed cost: %w", err)
		}
		fc.Direction = core.Direction(direction)
		d, err := time.Parse(dateLayout, dateStr)
		if err != nil {
			return nil, fmt.Errorf("parse fixed cost date %q: %w", dateStr, err)
		}
		fc.StartDate = core.Date{Time: d}
		fc.Active = active != 0
		out = append(out, fc)
	}
	return out, rows.Err()
}
