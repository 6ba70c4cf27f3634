package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/theirongolddev/holdcalc/internal/model"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memStore struct {
	records []model.Record
	err     error
}

func (m *memStore) Save(_ context.Context, r model.Record) (model.Record, error) {
	if m.err != nil {
		return r, m.err
	}
	m.records = append(m.records, r)
	return r, nil
}

func (m *memStore) List(_ context.Context, limit int) ([]model.Record, error) {
	if limit > 0 && limit < len(m.records) {
		return m.records[:limit], nil
	}
	return m.records, nil
}

func newTestService(t *testing.T, cfg Config, st Store) *Service {
	t.Helper()
	s, err := New(cfg, zerolog.Nop(), st)
	require.NoError(t, err)
	return s
}

type projectionBody struct {
	RecordID string                       `json:"record_id"`
	Years    []int                        `json:"years"`
	Savings  []decimal.Decimal            `json:"savings"`
	With     []decimal.Decimal            `json:"with"`
	Without  []decimal.Decimal            `json:"without"`
	ByClass  map[string][]decimal.Decimal `json:"by_class"`
}

func decodeProjection(t *testing.T, rec *httptest.ResponseRecorder) projectionBody {
	t.Helper()
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var body projectionBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestNewAppliesDefaults(t *testing.T) {
	s := newTestService(t, Config{}, nil)
	assert.Equal(t, "127.0.0.1:8787", s.cfg.Addr)
	assert.Equal(t, 200, s.cfg.EventsBuffer)
	assert.Positive(t, s.cfg.ReadHeaderTimeout)
}

func TestPublishEventRingBuffer(t *testing.T) {
	s := newTestService(t, Config{EventsBuffer: 2}, nil)

	s.publishEvent(Event{Type: "projection"})
	s.publishEvent(Event{Type: "projection"})
	s.publishEvent(Event{Type: "projection"})

	events := s.recentEvents()
	require.Len(t, events, 2)
	assert.Equal(t, int64(2), events[0].ID)
	assert.Equal(t, int64(3), events[1].ID)
}

func TestHealthz(t *testing.T) {
	s := newTestService(t, Config{}, nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok\n", rec.Body.String())
}

func TestProjectionQuery(t *testing.T) {
	s := newTestService(t, Config{}, nil)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/v1/projection?vehicles=100000&real_estate=1000000&cash=500000", nil)
	s.Handler().ServeHTTP(rec, req)

	body := decodeProjection(t, rec)
	require.Len(t, body.Savings, 21)
	require.Len(t, body.Years, 21)
	assert.Equal(t, 20, body.Years[20])
	assert.True(t, body.Savings[0].IsZero())
	assert.True(t, body.Savings[20].Equal(decimal.NewFromInt(670_000)), "year 20 = %s", body.Savings[20])
	assert.True(t, body.Without[20].Sub(body.With[20]).Equal(body.Savings[20]))
	assert.True(t, body.ByClass["vehicles"][20].Equal(decimal.NewFromInt(60_000)))

	assert.Len(t, s.recentEvents(), 1)
}

func TestProjectionQueryCoercesGarbage(t *testing.T) {
	s := newTestService(t, Config{}, nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/projection?vehicles=abc", nil))

	body := decodeProjection(t, rec)
	for y, v := range body.Savings {
		assert.Truef(t, v.IsZero(), "year %d = %s", y, v)
	}
}

func TestProjectionRejectsNegative(t *testing.T) {
	s := newTestService(t, Config{}, nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/projection?vehicles=-100000", nil))

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	var body errorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "invalid asset value", body.Error)
	require.Len(t, body.Violations, 1)
	assert.Equal(t, "vehicles", body.Violations[0].Field)
	assert.Equal(t, "-100000", body.Violations[0].Value)
	assert.Empty(t, s.recentEvents())
}

func TestProjectionAllowNegative(t *testing.T) {
	s := newTestService(t, Config{AllowNegative: true}, nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/projection?vehicles=-100000", nil))

	body := decodeProjection(t, rec)
	assert.True(t, body.Savings[20].Equal(decimal.NewFromInt(-60_000)))
}

func TestProjectionBodySaves(t *testing.T) {
	st := &memStore{}
	s := newTestService(t, Config{}, st)
	payload := `{"vehicles": 100000, "real_estate": "R$ 1 000 000", "cash": null, "label": "family", "save": true}`
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/v1/projection", strings.NewReader(payload)))

	body := decodeProjection(t, rec)
	require.Len(t, st.records, 1)
	assert.Equal(t, st.records[0].ID, body.RecordID)
	assert.Equal(t, "family", st.records[0].Label)
	// 60000 + 560000
	assert.True(t, body.Savings[20].Equal(decimal.NewFromInt(620_000)))
	assert.True(t, st.records[0].SavingsY20.Equal(body.Savings[20]))
}

func TestProjectionBodySaveWithoutStore(t *testing.T) {
	s := newTestService(t, Config{}, nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/v1/projection",
		bytes.NewBufferString(`{"vehicles": 1, "save": true}`)))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestProjectionBodyMalformed(t *testing.T) {
	s := newTestService(t, Config{}, nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/v1/projection", strings.NewReader("{")))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestProjectionSaveError(t *testing.T) {
	s := newTestService(t, Config{}, &memStore{err: errors.New("disk full")})
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/v1/projection",
		strings.NewReader(`{"cash": 1000, "save": true}`)))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestAssumptions(t *testing.T) {
	s := newTestService(t, Config{}, nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/assumptions", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var rows []map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &rows))
	assert.Len(t, rows, 10)
	assert.Equal(t, "vehicles", rows[0]["class"])
}

func TestHistory(t *testing.T) {
	t.Run("no store", func(t *testing.T) {
		s := newTestService(t, Config{}, nil)
		rec := httptest.NewRecorder()
		s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/history", nil))
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("bad limit", func(t *testing.T) {
		s := newTestService(t, Config{}, &memStore{})
		rec := httptest.NewRecorder()
		s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/history?limit=x", nil))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("empty list", func(t *testing.T) {
		s := newTestService(t, Config{}, &memStore{})
		rec := httptest.NewRecorder()
		s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/history", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, "[]", rec.Body.String())
	})

	t.Run("limited", func(t *testing.T) {
		st := &memStore{records: []model.Record{{ID: "a"}, {ID: "b"}, {ID: "c"}}}
		s := newTestService(t, Config{}, st)
		rec := httptest.NewRecorder()
		s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/history?limit=2", nil))
		require.Equal(t, http.StatusOK, rec.Code)
		var got []model.Record
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		assert.Len(t, got, 2)
	})
}

func TestEventsEndpoint(t *testing.T) {
	s := newTestService(t, Config{}, nil)
	h := s.Handler()
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/v1/projection?cash=500000", nil))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/events", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var events []Event
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &events))
	require.Len(t, events, 1)
	assert.Equal(t, "projection", events[0].Type)
	assert.True(t, events[0].SavingsY20.Equal(decimal.NewFromInt(50_000)))
}

func TestStreamReplaysBufferedEvents(t *testing.T) {
	s := newTestService(t, Config{}, nil)
	s.publishEvent(Event{Type: "projection", SavingsY20: decimal.NewFromInt(1)})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	req := httptest.NewRequest(http.MethodGet, "/v1/stream", nil).WithContext(ctx)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	assert.Equal(t, "text/event-stream", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), "event: projection\n")
	assert.Contains(t, rec.Body.String(), "id: 1\n")
}

func TestProjectionQueryOversizedExponentIsZero(t *testing.T) {
	s := newTestService(t, Config{}, nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/projection?vehicles=1e100000000&cash=500000", nil))

	body := decodeProjection(t, rec)
	assert.True(t, body.ByClass["vehicles"][20].IsZero())
	assert.True(t, body.Savings[20].Equal(decimal.NewFromInt(50_000)))
}

func TestSuccession(t *testing.T) {
	s := newTestService(t, Config{}, nil)
	req := `{"properties":2,"property_value":"R$ 1 000 000","companies":1,"regime":"presumido",` +
		`"monthly_profit":10000,"monthly_rent":"5000","heirs":2}`
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/v1/succession", strings.NewReader(req)))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var body struct {
		InventorySavings       decimal.Decimal `json:"inventory_savings"`
		ProfitSavings          decimal.Decimal `json:"profit_savings"`
		RentalSavings          decimal.Decimal `json:"rental_savings"`
		TotalSavings           decimal.Decimal `json:"total_savings"`
		InventoryMonthsWithout int             `json:"inventory_months_without"`
		ConflictRisk           string          `json:"conflict_risk"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body.InventorySavings.Equal(decimal.NewFromInt(80_000)), "inventory %s", body.InventorySavings)
	assert.True(t, body.ProfitSavings.Equal(decimal.NewFromInt(33_000)), "profit %s", body.ProfitSavings)
	assert.True(t, body.RentalSavings.Equal(decimal.NewFromInt(9_702)), "rental %s", body.RentalSavings)
	assert.True(t, body.TotalSavings.Equal(decimal.NewFromInt(122_702)), "total %s", body.TotalSavings)
	assert.Equal(t, 24, body.InventoryMonthsWithout)
	assert.Equal(t, "medium", body.ConflictRisk)
}

func TestSuccessionRejectsInvalid(t *testing.T) {
	s := newTestService(t, Config{AllowNegative: true}, nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/v1/succession",
		strings.NewReader(`{"companies":1,"monthly_rent":-10}`)))

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	var body errorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Violations, 2)
	assert.Equal(t, "monthly_rent", body.Violations[0].Field)
	assert.Equal(t, "regime", body.Violations[1].Field)
}

func TestSuccessionMalformed(t *testing.T) {
	s := newTestService(t, Config{}, nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/v1/succession", strings.NewReader("{")))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
