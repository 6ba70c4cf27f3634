// Package store provides a SQLite-backed history of saved projections.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/theirongolddev/holdcalc/internal/model"
	"github.com/theirongolddev/holdcalc/internal/projection"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	_ "modernc.org/sqlite" // register sqlite driver
)

// ErrNotFound is returned when no record has the requested ID.
var ErrNotFound = errors.New("projection not found")

// History stores saved projections. Amounts are stored as decimal text so
// they round-trip exactly.
type History struct {
	db *sql.DB
}

// Open opens or creates the history database at the given path.
func Open(dbPath string) (*History, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("creating history dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=synchronous(normal)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening history db: %w", err)
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &History{db: db}, nil
}

// Close closes the history database.
func (h *History) Close() error {
	return h.db.Close()
}

// NewRecord projects p and wraps the result as an unsaved record.
func NewRecord(label string, p model.Portfolio) model.Record {
	savings := projection.Project(p)
	return model.Record{
		ID:         uuid.NewString(),
		Label:      label,
		CreatedAt:  time.Now().UTC().Truncate(time.Second),
		Portfolio:  p,
		SavingsY10: savings.At(10),
		SavingsY20: savings.Final(),
		Savings:    savings.Values(),
	}
}

// Save stores a record, replacing any record with the same ID.
// A record without an ID gets a fresh one.
func (h *History) Save(ctx context.Context, r model.Record) (model.Record, error) {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now().UTC().Truncate(time.Second)
	}

	series, err := json.Marshal(r.Savings)
	if err != nil {
		return r, fmt.Errorf("encoding series: %w", err)
	}

	_, err = h.db.ExecContext(ctx, `INSERT OR REPLACE INTO projections
		(id, label, created_at, vehicles, real_estate, cash, savings_y10, savings_y20, series)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.Label, r.CreatedAt.UTC().Format(time.RFC3339),
		r.Portfolio.Vehicles.String(), r.Portfolio.RealEstate.String(), r.Portfolio.Cash.String(),
		r.SavingsY10.String(), r.SavingsY20.String(), string(series),
	)
	if err != nil {
		return r, fmt.Errorf("saving projection: %w", err)
	}
	return r, nil
}

const selectColumns = `SELECT id, label, created_at, vehicles, real_estate, cash,
	savings_y10, savings_y20, series FROM projections`

// List returns the most recent records first. limit <= 0 means no limit.
func (h *History) List(ctx context.Context, limit int) ([]model.Record, error) {
	query := selectColumns + " ORDER BY created_at DESC, rowid DESC"
	args := []interface{}{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := h.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing projections: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []model.Record
	for rows.Next() {
		r, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// Get returns one record by ID or ErrNotFound.
func (h *History) Get(ctx context.Context, id string) (model.Record, error) {
	row := h.db.QueryRowContext(ctx, selectColumns+" WHERE id = ?", id)
	r, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Record{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return r, err
}

// Delete removes one record by ID or returns ErrNotFound.
func (h *History) Delete(ctx context.Context, id string) error {
	res, err := h.db.ExecContext(ctx, "DELETE FROM projections WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting projection: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return nil
}

// Count returns the number of saved records.
func (h *History) Count(ctx context.Context) (int, error) {
	var count int
	err := h.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM projections").Scan(&count)
	return count, err
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanRecord(s scanner) (model.Record, error) {
	var (
		r                              model.Record
		created                        string
		vehicles, realEstate, cash     string
		savingsY10, savingsY20, series string
	)
	err := s.Scan(&r.ID, &r.Label, &created, &vehicles, &realEstate, &cash,
		&savingsY10, &savingsY20, &series)
	if err != nil {
		return r, err
	}

	r.CreatedAt, err = time.Parse(time.RFC3339, created)
	if err != nil {
		return r, fmt.Errorf("decoding created_at for %s: %w", r.ID, err)
	}
	r.Portfolio = model.Portfolio{
		Vehicles:   decimalOrZero(vehicles),
		RealEstate: decimalOrZero(realEstate),
		Cash:       decimalOrZero(cash),
	}
	r.SavingsY10 = decimalOrZero(savingsY10)
	r.SavingsY20 = decimalOrZero(savingsY20)
	if err := json.Unmarshal([]byte(series), &r.Savings); err != nil {
		return r, fmt.Errorf("decoding series for %s: %w", r.ID, err)
	}
	return r, nil
}

func decimalOrZero(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}
