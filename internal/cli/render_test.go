package cli

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
)

func TestRenderTable_Shape(t *testing.T) {
	out := RenderTable(Table{
		Title:   "Savings",
		Headers: []string{"Year", "Savings"},
		Rows: [][]string{
			{"0", "0"},
			{"20", "60,000"},
			{separatorRow},
			{"TOTAL", "60,000"},
		},
	})

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	// title + top + header + header rule + 2 rows + separator + total + bottom
	if len(lines) != 9 {
		t.Fatalf("got %d lines, want 9:\n%s", len(lines), out)
	}

	width := lipgloss.Width(lines[1])
	for i, line := range lines[1:] {
		if w := lipgloss.Width(line); w != width {
			t.Errorf("line %d width = %d, want %d", i+1, w, width)
		}
	}
	if !strings.Contains(out, "60,000") {
		t.Error("table is missing a cell value")
	}
}

func TestRenderTable_Empty(t *testing.T) {
	if got := RenderTable(Table{}); got != "" {
		t.Errorf("empty table rendered %q", got)
	}
}

func TestRenderSparkline(t *testing.T) {
	out := RenderSparkline([]float64{0, 1, 2, 4, 8})
	if w := lipgloss.Width(out); w != 5 {
		t.Errorf("sparkline width = %d, want 5", w)
	}
	if !strings.ContainsRune(out, '█') || !strings.ContainsRune(out, '▁') {
		t.Errorf("sparkline %q should span lowest to highest block", out)
	}
	if RenderSparkline(nil) != "" {
		t.Error("nil values should render empty")
	}
}

func TestRenderHorizontalBar_Width(t *testing.T) {
	for _, v := range []float64{-5, 0, 25, 50, 200} {
		out := RenderHorizontalBar("y", v, 50, 20, ColorGreen)
		// two spaces + label + space + bar area
		if w := lipgloss.Width(out); w != 2+1+1+20 {
			t.Errorf("value %v: width = %d, want 24", v, w)
		}
	}
}
