package tui

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/mdjska/daylight-analysis/internal/domain"
	"github.com/mdjska/daylight-analysis/internal/ui/heatmap"
)

func clampString(s string, maxLen int) string {
	if maxLen <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= maxLen {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))

	n := 0
	for _, r := range s {
		if n >= maxLen {
			break
		}
		b.WriteRune(r)
		n++
	}
	return b.String() + "…"
}

func renderResult(t Theme, res domain.AnalysisResult, blurred bool, width int) string {
	var b strings.Builder

	b.WriteString(t.Title.Render(res.Space.Label()))
	b.WriteString("\n\n")

	b.WriteString(fmt.Sprintf("Grid:     %d x %d sensors at %.2f m, plane %.2f m\n",
		res.Grid.NX, res.Grid.NY, res.Params.GridSize, res.Params.PlaneHeight))
	b.WriteString(fmt.Sprintf("Glazing:  VLT %.2f\n", res.Params.Transmittance))
	b.WriteString(fmt.Sprintf("Lux:      min %.0f  mean %.0f  median %.0f  max %.0f\n",
		res.Stats.Min, res.Stats.Mean, res.Stats.Median, res.Stats.Max))
	b.WriteString(fmt.Sprintf("DF:       min %.2f%%  mean %.2f%%  max %.2f%%\n",
		res.DF.Min, res.DF.Mean, res.DF.Max))
	b.WriteString(fmt.Sprintf("Engine:   %s %s in %s\n",
		res.Engine.Name, res.Engine.Version, res.Duration.Round(time.Millisecond)))
	b.WriteString("\n")

	badge := t.Fail.Render("FAIL")
	if res.Verdict.Passed {
		badge = t.Pass.Render("PASS")
	}
	b.WriteString(badge)
	b.WriteString("  ")
	b.WriteString(res.Verdict.Message)
	b.WriteString("\n")
	if res.RunID != "" {
		b.WriteString(t.Help.Render("Saved as run " + res.RunID))
		b.WriteString("\n")
	}

	f, err := heatmap.New(res.Grid.NX, res.Grid.NY, res.Lux)
	if err == nil {
		if blurred {
			f = f.Blurred(blurSigma)
		}
		b.WriteString("\n")
		b.WriteString(heatmap.Render(f, heatmap.RenderOptions{
			MaxWidth: width,
			Legend:   true,
			Unit:     "lux",
		}))
	}

	return b.String()
}
