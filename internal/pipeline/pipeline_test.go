package pipeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/theirongolddev/holdcalc/internal/assets"
	"github.com/theirongolddev/holdcalc/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const yamlScenarios = `
scenarios:
  - name: starter
    vehicles: 100000
    real_estate: "R$ 1 000 000"
    cash: 500_000
  - name: cash only
    cash: 500000
  - vehicles: ~
    real_estate: garbage
`

func TestDecode_YAML(t *testing.T) {
	got, err := Decode(strings.NewReader(yamlScenarios), "yaml")
	require.NoError(t, err)
	require.Len(t, got, 3)

	assert.Equal(t, "starter", got[0].Name)
	assert.Equal(t, "100000", got[0].Portfolio.Vehicles.String())
	assert.Equal(t, "1000000", got[0].Portfolio.RealEstate.String())
	assert.Equal(t, "500000", got[0].Portfolio.Cash.String())

	assert.True(t, got[1].Portfolio.Vehicles.IsZero())
	assert.Equal(t, "scenario-3", got[2].Name)
	assert.True(t, got[2].Portfolio.IsZero())
}

func TestDecode_JSON(t *testing.T) {
	in := `{"scenarios":[{"name":"a","vehicles":"100000","real_estate":null,"cash":250000.5}]}`
	got, err := Decode(strings.NewReader(in), "json")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "100000", got[0].Portfolio.Vehicles.String())
	assert.True(t, got[0].Portfolio.RealEstate.IsZero())
	assert.Equal(t, "250000.5", got[0].Portfolio.Cash.String())
}

func TestDecode_CSV(t *testing.T) {
	in := "name, cash, vehicles\nfirst, 500000, 100000\nsecond, abc\n"
	got, err := Decode(strings.NewReader(in), "csv")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "first", got[0].Name)
	assert.Equal(t, "100000", got[0].Portfolio.Vehicles.String())
	assert.Equal(t, "500000", got[0].Portfolio.Cash.String())
	assert.True(t, got[0].Portfolio.RealEstate.IsZero())
	assert.True(t, got[1].Portfolio.IsZero())
}

func TestDecode_Empty(t *testing.T) {
	for _, format := range []string{"yaml", "csv"} {
		_, err := Decode(strings.NewReader(""), format)
		assert.ErrorIs(t, err, ErrNoScenarios, format)
	}
	_, err := Decode(strings.NewReader(`{"scenarios":[]}`), "json")
	assert.ErrorIs(t, err, ErrNoScenarios)
}

func TestDecode_UnknownFormat(t *testing.T) {
	_, err := Decode(strings.NewReader("x"), "toml")
	assert.Error(t, err)
}

func TestLoadFile_ByExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plans.yml")
	require.NoError(t, os.WriteFile(path, []byte(yamlScenarios), 0o600))

	got, err := LoadFile(path)
	require.NoError(t, err)
	assert.Len(t, got, 3)

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func sampleScenarios() []Scenario {
	return []Scenario{
		{Name: "vehicles", Portfolio: model.NewPortfolio(100_000, 0, 0)},
		{Name: "portfolio", Portfolio: model.NewPortfolio(100_000, 1_000_000, 500_000)},
		{Name: "negative", Portfolio: model.NewPortfolio(-100_000, 0, 0)},
		{Name: "cash", Portfolio: model.NewPortfolio(0, 0, 500_000)},
	}
}

func TestRun_KeepsOrderAndRejectsNegatives(t *testing.T) {
	got, err := Run(context.Background(), sampleScenarios(), Options{Workers: 3}, nil)
	require.NoError(t, err)
	require.Len(t, got, 4)

	assert.Equal(t, "vehicles", got[0].Scenario.Name)
	assert.Equal(t, "60000", got[0].Savings.Final().String())
	assert.Equal(t, "335000", got[1].Savings.At(10).String())
	assert.Equal(t, "670000", got[1].Savings.Final().String())
	assert.True(t, errors.Is(got[2].Err, assets.ErrInvalidAssetValue))
	assert.True(t, got[2].Savings.Final().IsZero())
	assert.Equal(t, "50000", got[3].Savings.Final().String())
}

func TestRun_AllowNegative(t *testing.T) {
	got, err := Run(context.Background(), sampleScenarios(), Options{AllowNegative: true}, nil)
	require.NoError(t, err)
	require.NoError(t, got[2].Err)
	assert.Equal(t, "-60000", got[2].Savings.Final().String())
}

func TestRun_Progress(t *testing.T) {
	var mu sync.Mutex
	var calls []int
	total := 0
	_, err := Run(context.Background(), benchScenarios(50), Options{Workers: 4}, func(current, n int) {
		mu.Lock()
		defer mu.Unlock()
		calls = append(calls, current)
		total = n
	})
	require.NoError(t, err)
	assert.Len(t, calls, 50)
	assert.Equal(t, 50, total)
	assert.Contains(t, calls, 50)
}

func TestRun_Empty(t *testing.T) {
	got, err := Run(context.Background(), nil, Options{}, nil)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestRun_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Run(ctx, benchScenarios(10), Options{}, nil)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRanked(t *testing.T) {
	outcomes, err := Run(context.Background(), sampleScenarios(), Options{}, nil)
	require.NoError(t, err)

	ranked := Ranked(outcomes)
	names := make([]string, len(ranked))
	for i, o := range ranked {
		names[i] = o.Scenario.Name
	}
	assert.Equal(t, []string{"portfolio", "vehicles", "cash", "negative"}, names)
	assert.Equal(t, "vehicles", outcomes[0].Scenario.Name, "input untouched")
}

func TestSummarize(t *testing.T) {
	outcomes, err := Run(context.Background(), sampleScenarios(), Options{}, nil)
	require.NoError(t, err)

	s := Summarize(outcomes)
	assert.Equal(t, 4, s.Scenarios)
	assert.Equal(t, 1, s.Rejected)
	assert.Equal(t, "780000", s.TotalY20.String())
	assert.Equal(t, "260000", s.MeanY20.String())
	assert.Equal(t, "portfolio", s.Best)
	assert.Equal(t, "cash", s.Worst)
	require.Len(t, s.Cumulative, 21)
	assert.True(t, s.Cumulative[0].IsZero())
	assert.True(t, s.TotalY20.Equal(s.Cumulative[20]))
}

func TestSummarize_AllRejected(t *testing.T) {
	outcomes, err := Run(context.Background(), sampleScenarios()[2:3], Options{}, nil)
	require.NoError(t, err)

	s := Summarize(outcomes)
	assert.Equal(t, 1, s.Rejected)
	assert.True(t, s.MeanY20.IsZero())
	assert.Empty(t, s.Best)
}
