package cli

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/mdjska/daylight-analysis/internal/domain"
	"github.com/mdjska/daylight-analysis/internal/ui/heatmap"
)

func runsCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "runs",
		Short: "Browse past analysis runs",
	}

	c.AddCommand(runsListCmd(), runsShowCmd())
	return c
}

func runsListCmd() *cobra.Command {
	var workspace string
	var space string
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recorded runs, most recent first",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ws, err := loadWorkspace(workspace)
			if err != nil {
				return err
			}

			store, err := ws.openStore()
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			recs, err := store.ListRuns(cmd.Context(), domain.RunFilter{SpaceCode: space, Limit: limit})
			if err != nil {
				return err
			}

			if len(recs) == 0 {
				fmt.Println("(no runs recorded)")
				return nil
			}

			t := table.NewWriter()
			t.SetOutputMirror(os.Stdout)
			t.SetStyle(table.StyleLight)
			t.AppendHeader(table.Row{"ID", "Space", "Finished", "Mean (lux)", "Area at target", "Verdict"})
			for _, rec := range recs {
				t.AppendRow(table.Row{
					rec.ID,
					rec.SpaceCode,
					rec.FinishedAt.Local().Format("2006-01-02 15:04"),
					meanCell(rec),
					shareCell(rec),
					verdictCell(rec),
				})
			}
			t.Render()
			return nil
		},
	}

	cmd.Flags().StringVarP(&workspace, "workspace", "w", "", "Workspace root (optional; autodetected if omitted)")
	cmd.Flags().StringVarP(&space, "space", "s", "", "Only runs for this space code")
	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum rows (0 for all)")
	return cmd
}

func runsShowCmd() *cobra.Command {
	var workspace string
	var plotPath string
	var blur bool

	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show one run and replay its heatmap",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := loadWorkspace(workspace)
			if err != nil {
				return err
			}

			store, err := ws.openStore()
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			rec, err := store.GetRun(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			printRecord(os.Stdout, rec)

			if rec.Failed() {
				return nil
			}

			points, err := store.GetPoints(cmd.Context(), rec.ID)
			if err != nil {
				return err
			}

			f, ok := fieldFromPoints(rec, points)
			if !ok {
				fmt.Println("(no sensor points stored for this run)")
				return nil
			}
			if blur {
				f = f.Blurred(blurSigma)
			}

			fmt.Println()
			fmt.Println(heatmap.Render(f, heatmap.RenderOptions{Legend: true, Unit: "lux"}))

			if plotPath != "" {
				err := heatmap.WriteSVG(f, heatmap.SVGOptions{
					Title:    "Daylight Analysis",
					Subtitle: recordLabel(rec),
					Unit:     "lux",
				}, plotPath)
				if err != nil {
					return err
				}
				fmt.Printf("Plot written to %s\n", plotPath)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&workspace, "workspace", "w", "", "Workspace root (optional; autodetected if omitted)")
	cmd.Flags().StringVar(&plotPath, "plot", "", "Write an SVG heatmap to this path")
	cmd.Flags().BoolVar(&blur, "blur", false, "Smooth the heatmap with a gaussian blur")
	return cmd
}

func printRecord(w io.Writer, rec domain.RunRecord) {
	fmt.Fprintf(w, "Run:      %s\n", rec.ID)
	fmt.Fprintf(w, "Model:    %s\n", rec.ModelName)
	fmt.Fprintf(w, "Space:    %s\n", recordLabel(rec))
	fmt.Fprintf(w, "Started:  %s\n", rec.StartedAt.Local().Format(time.RFC3339))
	fmt.Fprintf(w, "Duration: %s\n", rec.FinishedAt.Sub(rec.StartedAt).Round(time.Millisecond))
	fmt.Fprintf(w, "Grid:     %d x %d sensors at %g m, workplane %g m\n",
		rec.NX, rec.NY, rec.Params.GridSize, rec.Params.PlaneHeight)
	fmt.Fprintf(w, "Glazing:  transmittance %.2f\n", rec.Params.Transmittance)
	if rec.Engine.Name != "" {
		fmt.Fprintf(w, "Engine:   %s %s\n", rec.Engine.Name, rec.Engine.Version)
	}

	if rec.Failed() {
		fmt.Fprintf(w, "\n%s  %s\n", failStyle.Render("ERROR"), rec.Error)
		return
	}

	fmt.Fprintln(w)

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"", "Illuminance (lux)"})
	t.AppendRow(table.Row{"Min", fmt.Sprintf("%.0f", rec.Stats.Min)})
	t.AppendRow(table.Row{"Mean", fmt.Sprintf("%.0f", rec.Stats.Mean)})
	t.AppendRow(table.Row{"Median", fmt.Sprintf("%.0f", rec.Stats.Median)})
	t.AppendRow(table.Row{"Max", fmt.Sprintf("%.0f", rec.Stats.Max)})
	t.Render()

	badge := failStyle.Render("FAIL")
	if rec.Passed {
		badge = passStyle.Render("PASS")
	}
	fmt.Fprintf(w, "\n%s  %.1f%% of the area reaches a daylight factor of %.1f%%\n",
		badge, rec.DFShare*100, rec.TargetDF)
}

// fieldFromPoints rebuilds the sensor field from stored points. Points come
// back ordered by idx, but the idx column stays authoritative.
func fieldFromPoints(rec domain.RunRecord, points []domain.RunPoint) (heatmap.Field, bool) {
	n := rec.PointCount()
	if n == 0 || len(points) != n {
		return heatmap.Field{}, false
	}

	lux := make([]float64, n)
	for _, p := range points {
		if p.Idx < 0 || p.Idx >= n {
			return heatmap.Field{}, false
		}
		lux[p.Idx] = p.Lux
	}

	f, err := heatmap.New(rec.NX, rec.NY, lux)
	if err != nil {
		return heatmap.Field{}, false
	}
	return f, true
}

func recordLabel(rec domain.RunRecord) string {
	if rec.SpaceName != "" {
		return fmt.Sprintf("%s (%s)", rec.SpaceName, rec.SpaceCode)
	}
	return rec.SpaceCode
}

func meanCell(rec domain.RunRecord) string {
	if rec.Failed() {
		return "-"
	}
	return fmt.Sprintf("%.0f", rec.Stats.Mean)
}

func shareCell(rec domain.RunRecord) string {
	if rec.Failed() {
		return "-"
	}
	return fmt.Sprintf("%.0f%%", rec.DFShare*100)
}

func verdictCell(rec domain.RunRecord) string {
	if rec.Failed() {
		return failStyle.Render("ERROR")
	}
	if rec.Passed {
		return passStyle.Render("PASS")
	}
	return failStyle.Render("FAIL")
}
