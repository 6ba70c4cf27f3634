package remote

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/theirongolddev/holdcalc/internal/assets"
	"github.com/theirongolddev/holdcalc/internal/model"
	"github.com/theirongolddev/holdcalc/internal/projection"
	"github.com/theirongolddev/holdcalc/internal/server"
	"github.com/theirongolddev/holdcalc/internal/store"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, withHistory bool) *Client {
	t.Helper()

	var st server.Store
	if withHistory {
		hist, err := store.Open(filepath.Join(t.TempDir(), "history.db"))
		require.NoError(t, err)
		t.Cleanup(func() { _ = hist.Close() })
		st = hist
	}

	svc, err := server.New(server.Config{}, zerolog.Nop(), st)
	require.NoError(t, err)
	ts := httptest.NewServer(svc.Handler())
	t.Cleanup(ts.Close)

	c, err := NewClient(ts.URL)
	require.NoError(t, err)
	return c
}

func TestNewClient(t *testing.T) {
	tests := []struct {
		addr string
		ok   bool
	}{
		{"http://127.0.0.1:8787", true},
		{"https://calc.example.com/api/", true},
		{"127.0.0.1:8787", true},
		{"", false},
		{"ftp://host", false},
		{"http://", false},
	}
	for _, tt := range tests {
		_, err := NewClient(tt.addr)
		if tt.ok {
			assert.NoError(t, err, tt.addr)
		} else {
			assert.ErrorIs(t, err, ErrInvalidURL, tt.addr)
		}
	}
}

func TestHealth(t *testing.T) {
	c := newTestServer(t, false)
	assert.NoError(t, c.Health(context.Background()))
}

func TestProject(t *testing.T) {
	c := newTestServer(t, false)

	got, err := c.Project(context.Background(), model.NewPortfolio(100_000, 1_000_000, 500_000), "", false)
	require.NoError(t, err)
	assert.Empty(t, got.RecordID)
	require.Len(t, got.Savings, projection.Points)
	assert.Equal(t, "335000", got.Savings[10].String())
	assert.Equal(t, "670000", got.Savings[20].String())

	r := got.Report()
	require.Len(t, r.Years, projection.Points)
	assert.Equal(t, "670000", r.Years[20].Savings.String())
	require.Len(t, r.Classes, 3)
	assert.Equal(t, "560000", r.Classes[1].Savings[20].String())
	assert.Equal(t, "1000000", r.Classes[1].Amount.String())
}

func TestProject_Rejected(t *testing.T) {
	c := newTestServer(t, false)

	_, err := c.Project(context.Background(), model.NewPortfolio(-100_000, 0, 0), "", false)
	require.Error(t, err)
	assert.True(t, errors.Is(err, assets.ErrInvalidAssetValue))

	var rejected *RejectedError
	require.ErrorAs(t, err, &rejected)
	require.Len(t, rejected.Violations, 1)
	assert.Equal(t, "vehicles", rejected.Violations[0].Field)
}

func TestProject_SaveWithoutHistory(t *testing.T) {
	c := newTestServer(t, false)
	_, err := c.Project(context.Background(), model.NewPortfolio(1, 0, 0), "x", true)
	assert.ErrorIs(t, err, ErrUnavailable)

	_, err = c.History(context.Background(), 10)
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestProjectAndHistory(t *testing.T) {
	c := newTestServer(t, true)
	ctx := context.Background()

	saved, err := c.Project(ctx, model.NewPortfolio(0, 0, 500_000), "cash", true)
	require.NoError(t, err)
	require.NotEmpty(t, saved.RecordID)

	records, err := c.History(ctx, 0)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, saved.RecordID, records[0].ID)
	assert.Equal(t, "cash", records[0].Label)
	assert.Equal(t, "50000", records[0].SavingsY20.String())
}

func TestUnexpectedStatus(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))
	defer ts.Close()

	c, err := NewClient(ts.URL)
	require.NoError(t, err)
	err = c.Health(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "418")
}
