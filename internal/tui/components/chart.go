package components

import (
	"fmt"
	"math"
	"strings"

	"github.com/theirongolddev/holdcalc/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

// Line is one plotted series of a LineChart.
type Line struct {
	Name   string
	Values []float64
	Color  lipgloss.Color
}

const (
	pointMarker   = '●'
	segmentMarker = '·'
	overlapMarker = '◆'
)

type plotCell struct {
	r    rune
	line int // index into lines, -1 when empty or shared
}

// LineChart plots lines on a shared y-axis. labels name the x positions
// and must match the length of every line's values.
func LineChart(lines []Line, labels []string, width, height int) string {
	n := len(labels)
	if n == 0 || len(lines) == 0 {
		return ""
	}
	if height < 3 {
		height = 3
	}
	t := theme.Active

	lo, hi := valueRange(lines)
	step := chartTickStep(hi - lo)
	lo = math.Floor(lo/step) * step
	hi = math.Ceil(hi/step) * step
	if hi == lo {
		hi = lo + step
	}

	yLabelW := max(len(formatChartLabel(hi)), len(formatChartLabel(lo))) + 1
	plotW := width - yLabelW - 1
	if plotW < n {
		plotW = n
	}

	grid := make([][]plotCell, height)
	for r := range grid {
		grid[r] = make([]plotCell, plotW)
		for c := range grid[r] {
			grid[r][c] = plotCell{r: ' ', line: -1}
		}
	}

	col := func(i int) int {
		if n == 1 {
			return 0
		}
		return i * (plotW - 1) / (n - 1)
	}
	row := func(v float64) int {
		frac := (v - lo) / (hi - lo)
		r := int(math.Round(frac * float64(height-1)))
		return height - 1 - min(max(r, 0), height-1)
	}
	mark := func(r, c int, ch rune, li int) {
		cell := &grid[r][c]
		switch {
		case cell.r == ' ':
			*cell = plotCell{r: ch, line: li}
		case cell.line != li:
			*cell = plotCell{r: overlapMarker, line: -1}
		case ch == pointMarker:
			cell.r = ch
		}
	}

	for li, line := range lines {
		for i := 0; i < n && i < len(line.Values); i++ {
			if i > 0 {
				x0, x1 := col(i-1), col(i)
				v0, v1 := line.Values[i-1], line.Values[i]
				for c := x0 + 1; c < x1; c++ {
					v := v0 + (v1-v0)*float64(c-x0)/float64(x1-x0)
					mark(row(v), c, segmentMarker, li)
				}
			}
			mark(row(line.Values[i]), col(i), pointMarker, li)
		}
	}

	axisStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	blank := lipgloss.NewStyle().Background(t.Surface)
	overlap := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	lineStyles := make([]lipgloss.Style, len(lines))
	for i, line := range lines {
		lineStyles[i] = lipgloss.NewStyle().Foreground(line.Color).Background(t.Surface)
	}

	tickRows := map[int]string{
		0:          formatChartLabel(hi),
		height / 2: formatChartLabel((hi + lo) / 2),
		height - 1: formatChartLabel(lo),
	}

	var b strings.Builder
	for r := 0; r < height; r++ {
		b.WriteString(axisStyle.Render(fmt.Sprintf("%*s", yLabelW, tickRows[r])))
		b.WriteString(axisStyle.Render("│"))
		for _, cell := range grid[r] {
			switch {
			case cell.r == ' ':
				b.WriteString(blank.Render(" "))
			case cell.line < 0:
				b.WriteString(overlap.Render(string(cell.r)))
			default:
				b.WriteString(lineStyles[cell.line].Render(string(cell.r)))
			}
		}
		b.WriteString("\n")
	}
	b.WriteString(axisStyle.Render(strings.Repeat(" ", yLabelW) + "└" + strings.Repeat("─", plotW)))
	b.WriteString("\n")
	b.WriteString(blank.Render(strings.Repeat(" ", yLabelW+1)))
	b.WriteString(axisStyle.Render(xAxisLabels(labels, plotW, col)))
	return b.String()
}

func valueRange(lines []Line) (lo, hi float64) {
	for _, line := range lines {
		for _, v := range line.Values {
			lo = math.Min(lo, v)
			hi = math.Max(hi, v)
		}
	}
	return lo, hi
}

// xAxisLabels places labels under their columns, skipping any that would
// collide with the previous one. The last label is always attempted.
func xAxisLabels(labels []string, plotW int, col func(int) int) string {
	buf := []rune(strings.Repeat(" ", plotW))
	lastEnd := -1
	place := func(i int) bool {
		lbl := []rune(labels[i])
		pos := col(i)
		if pos+len(lbl) > plotW {
			pos = plotW - len(lbl)
		}
		if pos <= lastEnd || pos < 0 {
			return false
		}
		copy(buf[pos:], lbl)
		lastEnd = pos + len(lbl)
		return true
	}

	n := len(labels)
	for i := 0; i < n-1; i++ {
		place(i)
	}
	if !place(n - 1) {
		// Make room for the final label by clearing its slot.
		lbl := []rune(labels[n-1])
		pos := max(plotW-len(lbl), 0)
		for j := max(pos-1, 0); j < plotW; j++ {
			buf[j] = ' '
		}
		copy(buf[pos:], lbl)
	}
	return strings.TrimRight(string(buf), " ")
}

// BarChart renders vertical bars of values on a zero baseline. Negative
// values draw as empty bars.
func BarChart(values []float64, labels []string, color lipgloss.Color, width, height int) string {
	n := len(values)
	if n == 0 {
		return ""
	}
	if height < 2 {
		height = 2
	}
	t := theme.Active

	peak := 0.0
	for _, v := range values {
		peak = math.Max(peak, v)
	}
	step := chartTickStep(peak)
	ceiling := math.Ceil(peak/step) * step
	if ceiling == 0 {
		ceiling = step
	}

	yLabelW := len(formatChartLabel(ceiling)) + 1
	chartW := width - yLabelW - 1
	gap := 1
	barW := (chartW - (n-1)*gap) / n
	if barW < 1 {
		barW, gap = 1, 0
	}
	barW = min(barW, 6)
	axisLen := n*barW + (n-1)*gap

	blocks := []rune{' ', '▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}
	axisStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	barStyle := lipgloss.NewStyle().Foreground(color).Background(t.Surface)
	blank := lipgloss.NewStyle().Background(t.Surface)

	var b strings.Builder
	for r := height; r >= 1; r-- {
		top := ceiling * float64(r) / float64(height)
		bottom := ceiling * float64(r-1) / float64(height)

		label := ""
		if r == height {
			label = formatChartLabel(ceiling)
		}
		b.WriteString(axisStyle.Render(fmt.Sprintf("%*s", yLabelW, label)))
		b.WriteString(axisStyle.Render("│"))

		for i, v := range values {
			if i > 0 && gap > 0 {
				b.WriteString(blank.Render(strings.Repeat(" ", gap)))
			}
			switch {
			case v >= top:
				b.WriteString(barStyle.Render(strings.Repeat("█", barW)))
			case v > bottom:
				idx := int((v - bottom) / (top - bottom) * 8)
				idx = min(max(idx, 1), 8)
				b.WriteString(barStyle.Render(strings.Repeat(string(blocks[idx]), barW)))
			default:
				b.WriteString(blank.Render(strings.Repeat(" ", barW)))
			}
		}
		b.WriteString("\n")
	}

	b.WriteString(axisStyle.Render(fmt.Sprintf("%*s", yLabelW, "0") + "└" + strings.Repeat("─", axisLen)))
	if len(labels) == n {
		col := func(i int) int { return i * (barW + gap) }
		b.WriteString("\n")
		b.WriteString(blank.Render(strings.Repeat(" ", yLabelW+1)))
		b.WriteString(axisStyle.Render(xAxisLabels(labels, axisLen, col)))
	}
	return b.String()
}

// chartTickStep computes a round tick interval targeting about five ticks.
func chartTickStep(span float64) float64 {
	if span <= 0 {
		return 1
	}
	rough := span / 5
	exp := math.Floor(math.Log10(rough))
	base := math.Pow(10, exp)

	switch frac := rough / base; {
	case frac < 1.5:
		return base
	case frac < 3.5:
		return 2 * base
	default:
		return 5 * base
	}
}

func formatChartLabel(v float64) string {
	sign := ""
	if v < 0 {
		sign, v = "-", -v
	}
	for _, unit := range []struct {
		div    float64
		suffix string
	}{{1e9, "B"}, {1e6, "M"}, {1e3, "k"}} {
		if v >= unit.div {
			if v == math.Trunc(v/unit.div)*unit.div {
				return fmt.Sprintf("%s%.0f%s", sign, v/unit.div, unit.suffix)
			}
			return fmt.Sprintf("%s%.1f%s", sign, v/unit.div, unit.suffix)
		}
	}
	if v >= 1 || v == 0 {
		return fmt.Sprintf("%s%.0f", sign, v)
	}
	return fmt.Sprintf("%s%.2f", sign, v)
}
