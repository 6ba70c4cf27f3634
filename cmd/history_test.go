package cmd

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/theirongolddev/holdcalc/internal/model"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteHistoryCSV(t *testing.T) {
	records := []model.Record{{
		ID:         "abc",
		Label:      "family, main",
		CreatedAt:  time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
		Portfolio:  model.NewPortfolio(100_000, 1_000_000, 500_000),
		SavingsY10: decimal.NewFromInt(335_000),
		SavingsY20: decimal.NewFromInt(670_000),
	}}

	var buf bytes.Buffer
	require.NoError(t, writeHistoryCSV(&buf, records))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "id,created_at,label,vehicles,real_estate,cash,savings_y10,savings_y20", lines[0])
	assert.Equal(t, `abc,2026-01-02T03:04:05Z,"family, main",100000,1000000,500000,335000,670000`, lines[1])
}

func TestRequireLocal(t *testing.T) {
	prev := flagServer
	t.Cleanup(func() { flagServer = prev })

	flagServer = ""
	assert.NoError(t, requireLocal("history show"))

	flagServer = "127.0.0.1:8787"
	err := requireLocal("history delete")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "history delete")
}

func TestHistoryShowAndDeleteRejectServer(t *testing.T) {
	prev := flagServer
	t.Cleanup(func() { flagServer = prev })
	flagServer = "127.0.0.1:8787"

	assert.Error(t, runHistoryShow(nil, []string{"abc"}))
	assert.Error(t, runHistoryDelete(nil, []string{"abc"}))
}
