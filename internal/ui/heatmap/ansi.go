package heatmap

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// RenderOptions tune terminal rendering.
type RenderOptions struct {
	MaxWidth int    // Terminal columns available, 0 means 80.
	Legend   bool   // Append a gradient bar with the value bounds.
	Unit     string // Bound label suffix, e.g. "lux" or "% DF".
}

const legendSteps = 24

// Render draws the field with two-column ANSI cells, north side up.
// Fields wider than the terminal are downsampled by block averaging.
func Render(f Field, opts RenderOptions) string {
	if len(f.Values) == 0 {
		return ""
	}

	width := opts.MaxWidth
	if width <= 0 {
		width = 80
	}
	maxNX := width / 2
	if maxNX < 1 {
		maxNX = 1
	}

	g := f.Downsample(maxNX)
	min, max := g.MinMax()

	var b strings.Builder
	for j := g.NY - 1; j >= 0; j-- {
		for i := 0; i < g.NX; i++ {
			t := normalize(g.At(i, j), min, max)
			b.WriteString(lipgloss.NewStyle().Background(lipgloss.Color(colorAt(t))).Render("  "))
		}
		b.WriteByte('\n')
	}

	if opts.Legend {
		b.WriteString(legend(min, max, opts.Unit))
		b.WriteByte('\n')
	}
	return b.String()
}

func legend(min, max float64, unit string) string {
	var bar strings.Builder
	for i := 0; i < legendSteps; i++ {
		t := float64(i) / float64(legendSteps-1)
		bar.WriteString(lipgloss.NewStyle().Background(lipgloss.Color(colorAt(t))).Render(" "))
	}

	label := lipgloss.NewStyle().Faint(true)
	return label.Render(formatBound(min, unit)) + " " + bar.String() + " " + label.Render(formatBound(max, unit))
}

func formatBound(v float64, unit string) string {
	var s string
	if math.Abs(v) >= 100 {
		s = fmt.Sprintf("%.0f", v)
	} else {
		s = fmt.Sprintf("%.2f", v)
	}
	if unit != "" {
		s += " " + unit
	}
	return s
}
