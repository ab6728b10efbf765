package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/mdjska/daylight-analysis/internal/domain"
	"github.com/mdjska/daylight-analysis/internal/ui/heatmap"
	"github.com/mdjska/daylight-analysis/internal/usecase"
)

// Display blur for --blur, in grid cells.
const blurSigma = 1.0

var (
	passStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("35"))
	failStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196"))
)

func runCmd() *cobra.Command {
	var (
		workspace string
		modelArg  string
		space     string
		glass     string
		format    string
		plotPath  string

		transmittance float64
		gridSize      float64
		planeHeight   float64
		skyLux        float64

		all     bool
		workers int
		noSave  bool
		blur    bool
		strict  bool
	)

	c := &cobra.Command{
		Use:   "run",
		Short: "Simulate daylight for one space, or every space with --all",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if all && space != "" {
				return fmt.Errorf("--all and --space are mutually exclusive")
			}
			if all && plotPath != "" {
				return fmt.Errorf("--plot works on a single space, not --all")
			}
			if !all && space == "" {
				return fmt.Errorf("space is required (use --space or -s, or --all)")
			}

			ws, err := loadWorkspace(workspace)
			if err != nil {
				return err
			}

			modelPath, err := resolveModelPath(ws, modelArg)
			if err != nil {
				return err
			}

			params := ws.cfg.Params()
			if cmd.Flags().Changed("transmittance") {
				params.Transmittance = transmittance
			}
			if cmd.Flags().Changed("grid-size") {
				params.GridSize = gridSize
			}
			if cmd.Flags().Changed("plane-height") {
				params.PlaneHeight = planeHeight
			}
			if cmd.Flags().Changed("sky-lux") {
				params.SkyLux = skyLux
			}

			in := usecase.RunInput{
				ModelPath:     modelPath,
				MaterialsPath: ws.materialsPath(),
				SpaceCode:     space,
				Params:        params,
				GlassPreset:   glass,
				Save:          !noSave,
			}

			opts := []usecase.RunOption{usecase.WithRule(ws.cfg.Rule())}
			if !noSave {
				store, err := ws.openStore()
				if err != nil {
					return err
				}
				defer func() { _ = store.Close() }()
				opts = append(opts, usecase.WithStore(store))
			}
			run := usecase.NewRunAnalysis(ws.models, ws.materials, ws.simulator, opts...)

			if all {
				batch, err := usecase.NewRunAll(ws.models, run, usecase.WithWorkers(workers)).
					Execute(cmd.Context(), in)
				if err != nil {
					return err
				}
				if err := printBatch(os.Stdout, batch, format); err != nil {
					return err
				}
				if n := batch.Failures(); n > 0 {
					return fmt.Errorf("batch finished with %d failed space(s)", n)
				}
				if strict {
					if below := belowTarget(batch); below > 0 {
						return fmt.Errorf("%d space(s) below the daylight target", below)
					}
				}
				return nil
			}

			res, err := run.Execute(cmd.Context(), in)
			if err != nil {
				if res.RunID != "" {
					fmt.Fprintf(os.Stderr, "failed run recorded as %s\n", res.RunID)
				}
				return err
			}

			if err := printResult(os.Stdout, res, format, blur); err != nil {
				return err
			}

			if plotPath != "" {
				if err := writePlot(res, plotPath, blur); err != nil {
					return err
				}
				fmt.Printf("Plot written to %s\n", plotPath)
			}

			if strict && !res.Verdict.Passed {
				return fmt.Errorf("space %s is below the daylight target", res.Space.Code)
			}
			return nil
		},
	}

	c.Flags().StringVarP(&workspace, "workspace", "w", "", "Workspace root (optional; autodetected if omitted)")
	c.Flags().StringVarP(&modelArg, "model", "m", "", "Model name or path (optional when the workspace has one model)")
	c.Flags().StringVarP(&space, "space", "s", "", "Space code to analyze, e.g. A203")
	c.Flags().StringVar(&glass, "glass", "", "Glass preset from materials.yaml, overrides --transmittance")
	c.Flags().Float64VarP(&transmittance, "transmittance", "t", 0, "Visible light transmittance of the glazing (0,1]")
	c.Flags().Float64VarP(&gridSize, "grid-size", "g", 0, "Sensor spacing in metres")
	c.Flags().Float64VarP(&planeHeight, "plane-height", "p", 0, "Workplane height above the floor in metres")
	c.Flags().Float64Var(&skyLux, "sky-lux", 0, "Horizontal illuminance of the overcast design sky")
	c.Flags().BoolVar(&all, "all", false, "Analyze every space with windows")
	c.Flags().IntVar(&workers, "workers", 0, "Concurrent engine runs with --all (default 2)")
	c.Flags().BoolVar(&noSave, "no-save", false, "Do not record the run under runs/")
	c.Flags().StringVar(&plotPath, "plot", "", "Write an SVG heatmap to this path")
	c.Flags().BoolVar(&blur, "blur", false, "Smooth the heatmap with a gaussian blur")
	c.Flags().StringVar(&format, "format", "pretty", "Output format: pretty|json")
	c.Flags().BoolVar(&strict, "strict", false, "Exit non-zero when a space misses the daylight target")

	return c
}

func belowTarget(batch usecase.BatchResult) int {
	n := 0
	for _, it := range batch.Items {
		if it.Err == nil && !it.Result.Verdict.Passed {
			n++
		}
	}
	return n
}

func printResult(w io.Writer, res domain.AnalysisResult, format string, blur bool) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(resultPayload(res))
	case "pretty", "":
		printPrettyResult(w, res, blur)
		return nil
	default:
		return fmt.Errorf("unsupported format %q (expected pretty|json)", format)
	}
}

func resultPayload(res domain.AnalysisResult) map[string]any {
	payload := map[string]any{
		"model": res.ModelName,
		"space": map[string]any{
			"code":   res.Space.Code,
			"name":   res.Space.LongName,
			"width":  res.Space.Width,
			"depth":  res.Space.Depth,
			"height": res.Space.Height,
		},
		"params": map[string]any{
			"transmittance": res.Params.Transmittance,
			"grid_size":     res.Params.GridSize,
			"plane_height":  res.Params.PlaneHeight,
			"sky_lux":       res.Params.SkyLux,
		},
		"grid": map[string]any{
			"nx":     res.Grid.NX,
			"ny":     res.Grid.NY,
			"points": len(res.Grid.Points),
		},
		"stats_lux": map[string]any{
			"min":    res.Stats.Min,
			"mean":   res.Stats.Mean,
			"median": res.Stats.Median,
			"max":    res.Stats.Max,
		},
		"daylight_factor": map[string]any{
			"min":             res.DF.Min,
			"mean":            res.DF.Mean,
			"max":             res.DF.Max,
			"target":          res.DF.TargetDF,
			"share_at_target": res.DF.ShareAtLeast,
		},
		"verdict": map[string]any{
			"passed":  res.Verdict.Passed,
			"message": res.Verdict.Message,
		},
		"engine":      strings.TrimSpace(res.Engine.Name + " " + res.Engine.Version),
		"duration_ms": res.Duration.Milliseconds(),
		"lux":         res.Lux,
	}
	if res.RunID != "" {
		payload["run_id"] = res.RunID
	}
	return payload
}

func printPrettyResult(w io.Writer, res domain.AnalysisResult, blur bool) {
	fmt.Fprintf(w, "Model:    %s\n", res.ModelName)
	fmt.Fprintf(w, "Space:    %s\n", res.Space.Label())
	fmt.Fprintf(w, "Floor:    %.2f x %.2f m (%.1f m2)\n", res.Space.Width, res.Space.Depth, res.Space.FloorArea())
	fmt.Fprintf(w, "Grid:     %d x %d sensors at %g m, workplane %g m\n",
		res.Grid.NX, res.Grid.NY, res.Params.GridSize, res.Params.PlaneHeight)
	fmt.Fprintf(w, "Glazing:  transmittance %.2f\n", res.Params.Transmittance)
	if res.Engine.Name != "" {
		fmt.Fprintf(w, "Engine:   %s\n", strings.TrimSpace(res.Engine.Name+" "+res.Engine.Version))
	}
	fmt.Fprintf(w, "Duration: %s\n", res.Duration.Round(time.Millisecond))
	if res.RunID != "" {
		fmt.Fprintf(w, "Run ID:   %s\n", res.RunID)
	}
	fmt.Fprintln(w)

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"", "Illuminance (lux)", "Daylight factor (%)"})
	t.AppendRow(table.Row{"Min", fmt.Sprintf("%.0f", res.Stats.Min), fmt.Sprintf("%.2f", res.DF.Min)})
	t.AppendRow(table.Row{"Mean", fmt.Sprintf("%.0f", res.Stats.Mean), fmt.Sprintf("%.2f", res.DF.Mean)})
	t.AppendRow(table.Row{"Median", fmt.Sprintf("%.0f", res.Stats.Median), ""})
	t.AppendRow(table.Row{"Max", fmt.Sprintf("%.0f", res.Stats.Max), fmt.Sprintf("%.2f", res.DF.Max)})
	t.Render()

	fmt.Fprintln(w)
	fmt.Fprintln(w, verdictLine(res.Verdict))
	fmt.Fprintln(w)
	printHeatmap(w, res, blur)
}

func verdictLine(v domain.Verdict) string {
	badge := failStyle.Render("FAIL")
	if v.Passed {
		badge = passStyle.Render("PASS")
	}
	return badge + "  " + v.Message
}

func printHeatmap(w io.Writer, res domain.AnalysisResult, blur bool) {
	f, err := heatmap.New(res.Grid.NX, res.Grid.NY, res.Lux)
	if err != nil {
		return
	}
	if blur {
		f = f.Blurred(blurSigma)
	}
	fmt.Fprintln(w, heatmap.Render(f, heatmap.RenderOptions{Legend: true, Unit: "lux"}))
}

func writePlot(res domain.AnalysisResult, path string, blur bool) error {
	f, err := heatmap.New(res.Grid.NX, res.Grid.NY, res.Lux)
	if err != nil {
		return err
	}
	if blur {
		f = f.Blurred(blurSigma)
	}
	return heatmap.WriteSVG(f, heatmap.SVGOptions{
		Title:    "Daylight Analysis",
		Subtitle: res.Space.Label(),
		Unit:     "lux",
	}, path)
}

func printBatch(w io.Writer, batch usecase.BatchResult, format string) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(batchPayload(batch))
	case "pretty", "":
		printPrettyBatch(w, batch)
		return nil
	default:
		return fmt.Errorf("unsupported format %q (expected pretty|json)", format)
	}
}

func batchPayload(batch usecase.BatchResult) map[string]any {
	items := make([]map[string]any, 0, len(batch.Items))
	for _, it := range batch.Items {
		m := map[string]any{
			"space": it.SpaceCode,
			"name":  it.SpaceName,
		}
		if it.Err != nil {
			m["error"] = it.Err.Error()
		} else {
			m["result"] = resultPayload(it.Result)
		}
		items = append(items, m)
	}
	return map[string]any{
		"model":       batch.ModelName,
		"items":       items,
		"skipped":     batch.Skipped,
		"passed":      batch.Passed(),
		"failures":    batch.Failures(),
		"duration_ms": batch.Duration.Milliseconds(),
	}
}

func printPrettyBatch(w io.Writer, batch usecase.BatchResult) {
	fmt.Fprintf(w, "Model:    %s\n", batch.ModelName)
	fmt.Fprintf(w, "Spaces:   %d analyzed, %d skipped (no windows)\n", len(batch.Items), len(batch.Skipped))
	fmt.Fprintf(w, "Duration: %s\n\n", batch.Duration.Round(time.Millisecond))

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Space", "Name", "Mean DF (%)", "Area at target", "Verdict"})
	for _, it := range batch.Items {
		if it.Err != nil {
			t.AppendRow(table.Row{it.SpaceCode, it.SpaceName, "-", "-", failStyle.Render("ERROR")})
			continue
		}
		badge := failStyle.Render("FAIL")
		if it.Result.Verdict.Passed {
			badge = passStyle.Render("PASS")
		}
		t.AppendRow(table.Row{
			it.SpaceCode,
			it.SpaceName,
			fmt.Sprintf("%.2f", it.Result.DF.Mean),
			fmt.Sprintf("%.0f%%", it.Result.DF.ShareAtLeast*100),
			badge,
		})
	}
	t.Render()

	for _, it := range batch.Items {
		if it.Err != nil {
			fmt.Fprintf(w, "\n%s: %v\n", it.SpaceCode, it.Err)
		}
	}
	if len(batch.Skipped) > 0 {
		fmt.Fprintf(w, "\nSkipped (no windows): %s\n", strings.Join(batch.Skipped, ", "))
	}
}
