package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/theirongolddev/holdcalc/internal/model"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTemp(t *testing.T) *History {
	t.Helper()
	h, err := Open(filepath.Join(t.TempDir(), "nested", "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = h.Close() })
	return h
}

func TestNewRecord(t *testing.T) {
	r := NewRecord("family", model.NewPortfolio(100_000, 1_000_000, 500_000))

	assert.NotEmpty(t, r.ID)
	assert.Equal(t, "family", r.Label)
	require.Len(t, r.Savings, 21)
	// 30000 + 280000 + 25000
	assert.True(t, r.SavingsY10.Equal(decimal.NewFromInt(335_000)), "y10 = %s", r.SavingsY10)
	assert.True(t, r.SavingsY20.Equal(decimal.NewFromInt(670_000)), "y20 = %s", r.SavingsY20)
}

func TestHistory_SaveGet(t *testing.T) {
	h := openTemp(t)
	ctx := context.Background()

	p := model.Portfolio{
		Vehicles:   decimal.RequireFromString("123456.78"),
		RealEstate: decimal.NewFromInt(1_000_000),
	}
	saved, err := h.Save(ctx, NewRecord("", p))
	require.NoError(t, err)

	got, err := h.Get(ctx, saved.ID)
	require.NoError(t, err)

	assert.Equal(t, saved.ID, got.ID)
	assert.True(t, got.Portfolio.Vehicles.Equal(p.Vehicles))
	assert.True(t, got.Portfolio.Cash.IsZero())
	assert.True(t, got.SavingsY20.Equal(saved.SavingsY20))
	require.Len(t, got.Savings, len(saved.Savings))
	for y := range got.Savings {
		assert.Truef(t, got.Savings[y].Equal(saved.Savings[y]), "year %d", y)
	}
	assert.WithinDuration(t, saved.CreatedAt, got.CreatedAt, time.Second)
}

func TestHistory_SaveAssignsID(t *testing.T) {
	h := openTemp(t)
	r, err := h.Save(context.Background(), model.Record{Savings: []decimal.Decimal{}})
	require.NoError(t, err)
	assert.NotEmpty(t, r.ID)
	assert.False(t, r.CreatedAt.IsZero())
}

func TestHistory_ListNewestFirst(t *testing.T) {
	h := openTemp(t)
	ctx := context.Background()

	base := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	for i, label := range []string{"first", "second", "third"} {
		r := NewRecord(label, model.NewPortfolio(int64(i+1)*1000, 0, 0))
		r.CreatedAt = base.Add(time.Duration(i) * time.Hour)
		_, err := h.Save(ctx, r)
		require.NoError(t, err)
	}

	all, err := h.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "third", all[0].Label)
	assert.Equal(t, "first", all[2].Label)

	limited, err := h.List(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, limited, 2)

	n, err := h.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}

func TestHistory_NotFound(t *testing.T) {
	h := openTemp(t)
	ctx := context.Background()

	_, err := h.Get(ctx, "missing")
	assert.True(t, errors.Is(err, ErrNotFound), "Get error = %v", err)

	err = h.Delete(ctx, "missing")
	assert.True(t, errors.Is(err, ErrNotFound), "Delete error = %v", err)
}

func TestHistory_Delete(t *testing.T) {
	h := openTemp(t)
	ctx := context.Background()

	r, err := h.Save(ctx, NewRecord("gone", model.NewPortfolio(1, 1, 1)))
	require.NoError(t, err)
	require.NoError(t, h.Delete(ctx, r.ID))

	n, err := h.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestHistory_CorruptCreatedAt(t *testing.T) {
	h := openTemp(t)
	ctx := context.Background()

	r, err := h.Save(ctx, NewRecord("broken", model.NewPortfolio(1, 1, 1)))
	require.NoError(t, err)
	_, err = h.db.ExecContext(ctx, "UPDATE projections SET created_at = 'yesterday' WHERE id = ?", r.ID)
	require.NoError(t, err)

	_, err = h.Get(ctx, r.ID)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "created_at")

	_, err = h.List(ctx, 0)
	assert.Error(t, err)
}
