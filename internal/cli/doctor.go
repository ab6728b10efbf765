package cli

import (
	"fmt"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/mdjska/daylight-analysis/internal/infra/radiance"
)

func doctorCmd() *cobra.Command {
	var workspace string

	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check that the Radiance binaries are installed",
		RunE: func(cmd *cobra.Command, _ []string) error {
			// Works outside a workspace too: then only PATH is probed.
			binDir := ""
			if ws, err := loadWorkspace(workspace); err == nil {
				binDir = ws.cfg.Radiance.BinDir
			}

			checks := radiance.NewDoctor(binDir).Check(cmd.Context())

			t := table.NewWriter()
			t.SetOutputMirror(os.Stdout)
			t.SetStyle(table.StyleLight)
			t.AppendHeader(table.Row{"Binary", "Status", "Location", "Version"})

			missing := 0
			for _, c := range checks {
				status := passStyle.Render("ok")
				location := c.Path
				if !c.OK() {
					status = failStyle.Render("missing")
					location = c.Err
					missing++
				}
				t.AppendRow(table.Row{c.Binary, status, location, c.Version})
			}
			t.Render()

			if missing > 0 {
				return fmt.Errorf("%d of %d radiance binaries missing (install Radiance or set radiance.bin_dir)",
					missing, len(checks))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&workspace, "workspace", "w", "", "Workspace root (optional; autodetected if omitted)")
	return cmd
}
