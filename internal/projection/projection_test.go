package projection

import (
	"sync"
	"testing"

	"github.com/theirongolddev/holdcalc/internal/model"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func requireDecimal(t *testing.T, want string, got decimal.Decimal, msgAndArgs ...interface{}) {
	t.Helper()
	w := decimal.RequireFromString(want)
	require.Truef(t, got.Equal(w), "got %s, want %s %v", got, w, msgAndArgs)
}

func TestProject_ZeroPortfolio(t *testing.T) {
	s := Project(model.Portfolio{})
	require.Len(t, s, Points)
	for y, v := range s {
		assert.Truef(t, v.IsZero(), "year %d = %s, want 0", y, v)
	}
}

func TestProject_SingleClass(t *testing.T) {
	tests := []struct {
		name string
		p    model.Portfolio
		year int
		want string
	}{
		{"vehicles at horizon", model.NewPortfolio(100_000, 0, 0), 20, "60000"},
		{"vehicles year 10", model.NewPortfolio(100_000, 0, 0), 10, "30000"},
		{"vehicles year 9", model.NewPortfolio(100_000, 0, 0), 9, "13500"},
		{"real estate year 10", model.NewPortfolio(0, 1_000_000, 0), 10, "280000"},
		{"real estate at horizon", model.NewPortfolio(0, 1_000_000, 0), 20, "560000"},
		{"cash at horizon", model.NewPortfolio(0, 0, 500_000), 20, "50000"},
		{"cash year 1", model.NewPortfolio(0, 0, 500_000), 1, "2500"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			requireDecimal(t, tt.want, Project(tt.p)[tt.year])
		})
	}
}

func TestProject_StartsAtZero(t *testing.T) {
	portfolios := []model.Portfolio{
		model.NewPortfolio(1, 2, 3),
		model.NewPortfolio(250_000, 3_000_000, 40_000),
		{Vehicles: decimal.RequireFromString("0.01"), Cash: decimal.RequireFromString("1e12")},
	}
	for _, p := range portfolios {
		assert.True(t, Project(p)[0].IsZero(), "series[0] for %+v", p)
	}
}

func TestProject_NonDecreasing(t *testing.T) {
	portfolios := []model.Portfolio{
		model.NewPortfolio(100_000, 0, 0),
		model.NewPortfolio(0, 1_000_000, 0),
		model.NewPortfolio(0, 0, 500_000),
		model.NewPortfolio(350_000, 2_400_000, 125_000),
	}
	for _, p := range portfolios {
		s := Project(p)
		for y := 1; y < Points; y++ {
			assert.Truef(t, s[y].GreaterThanOrEqual(s[y-1]),
				"series[%d]=%s < series[%d]=%s for %+v", y, s[y], y-1, s[y-1], p)
		}

		ex := Explain(p)
		for _, c := range Classes {
			savings := ex.Class(c).Savings()
			for y, v := range savings {
				assert.Falsef(t, v.IsNegative(), "%s delta at year %d is negative: %s", c, y, v)
			}
		}
	}
}

func TestProject_Additive(t *testing.T) {
	a, b, c := int64(187_500), int64(2_345_678), int64(91_011)
	total := Project(model.NewPortfolio(a, b, c))
	parts := Project(model.NewPortfolio(a, 0, 0)).
		Add(Project(model.NewPortfolio(0, b, 0))).
		Add(Project(model.NewPortfolio(0, 0, c)))

	for y := range total {
		assert.Truef(t, total[y].Equal(parts[y]), "year %d: %s != %s", y, total[y], parts[y])
	}
}

func TestProject_OneTimeChargesFireTwice(t *testing.T) {
	ex := Explain(model.NewPortfolio(100_000, 1_000_000, 0))

	veh := ex.Class(Vehicles).Without
	// 0.025*19 = 0.475, + 0.15 from the year-10 charge.
	requireDecimal(t, "62500", veh[19])
	// 0.025*20 = 0.5, + 0.15 (year >= 10) + 0.15 (year == 20).
	requireDecimal(t, "80000", veh[20])
	// the jump from 19 to 20 is one year of tax plus a second charge
	requireDecimal(t, "17500", veh[20].Sub(veh[19]))

	re := ex.Class(RealEstate).Without
	requireDecimal(t, "90000", re[9])
	requireDecimal(t, "330000", re[10])
	requireDecimal(t, "420000", re[19])
	requireDecimal(t, "660000", re[20])
}

func TestProject_NegativeInputInverts(t *testing.T) {
	s := Project(model.NewPortfolio(-100_000, 0, 0))
	requireDecimal(t, "-60000", s[20])
	assert.True(t, s[0].IsZero())
}

func TestProject_Deterministic(t *testing.T) {
	p := model.NewPortfolio(420_000, 1_100_000, 77_000)
	first := Project(p)
	second := Project(p)
	for y := range first {
		assert.True(t, first[y].Equal(second[y]))
	}
}

func TestProject_ResultsAreIndependent(t *testing.T) {
	p := model.NewPortfolio(100_000, 0, 0)
	s := Project(p)
	s[20] = decimal.NewFromInt(-1)

	requireDecimal(t, "60000", Project(p)[20], "mutating a returned series must not leak")
}

func TestProject_ConcurrentCalls(t *testing.T) {
	p := model.NewPortfolio(100_000, 1_000_000, 500_000)
	want := Project(p)

	var wg sync.WaitGroup
	results := make([]Series, 16)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = Project(p)
		}(i)
	}
	wg.Wait()

	for i, got := range results {
		for y := range got {
			assert.Truef(t, got[y].Equal(want[y]), "goroutine %d year %d", i, y)
		}
	}
}

func TestExplain_MatchesProject(t *testing.T) {
	p := model.NewPortfolio(333_333, 1_500_000, 250_000)
	direct := Project(p)
	ex := Explain(p)
	explained := ex.Savings()

	for y := range direct {
		assert.Truef(t, direct[y].Equal(explained[y]), "year %d: %s != %s", y, direct[y], explained[y])
	}

	total := ex.Total()
	for y := range total.Without {
		assert.True(t, total.Without[y].Sub(total.With[y]).Equal(explained[y]))
	}
}

func TestExplain_WithTrack(t *testing.T) {
	ex := Explain(model.NewPortfolio(100_000, 1_000_000, 500_000))
	requireDecimal(t, "20000", ex.Class(Vehicles).With[20])
	requireDecimal(t, "100000", ex.Class(RealEstate).With[20])
	requireDecimal(t, "50000", ex.Class(Cash).With[20])
	requireDecimal(t, "100000", ex.Class(Cash).Without[20])
}

func TestSeries_Helpers(t *testing.T) {
	s := Project(model.NewPortfolio(100_000, 0, 0))

	assert.True(t, s.At(-3).Equal(s[0]))
	assert.True(t, s.At(99).Equal(s.Final()))

	floats := s.Floats()
	require.Len(t, floats, Points)
	assert.InDelta(t, 60000.0, floats[20], 1e-9)

	values := s.Values()
	values[0] = decimal.NewFromInt(7)
	assert.True(t, s[0].IsZero(), "Values must return a copy")

	labels := YearLabels()
	require.Len(t, labels, Points)
	assert.Equal(t, "0", labels[0])
	assert.Equal(t, "20", labels[20])
}

func TestAssumptions_CoverEveryClass(t *testing.T) {
	seen := make(map[AssetClass]int)
	for _, a := range Assumptions() {
		seen[a.Class]++
		assert.True(t, a.Rate.IsPositive(), "%s %s", a.Class, a.Name)
	}
	for _, c := range Classes {
		assert.NotZero(t, seen[c], "no assumptions for %s", c)
	}
}

func TestNewReport(t *testing.T) {
	p := model.NewPortfolio(100_000, 1_000_000, 500_000)
	r := NewReport(p)

	require.Len(t, r.Years, Points)
	require.Len(t, r.Savings, Points)
	require.Len(t, r.Classes, len(Classes))

	want := Project(p)
	for y, row := range r.Years {
		assert.Equal(t, y, row.Year)
		assert.True(t, row.Savings.Equal(want[y]))
		assert.True(t, row.Without.Sub(row.With).Equal(row.Savings))
	}

	assert.Equal(t, RealEstate, r.Classes[1].Class)
	assert.True(t, r.Classes[1].Amount.Equal(decimal.NewFromInt(1_000_000)))
	requireDecimal(t, "280000", r.Classes[1].Savings[10])
}
