package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/mdjska/daylight-analysis/internal/domain"
)

func spacesCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "spaces",
		Short: "Inspect the spaces of a model",
	}

	c.AddCommand(spacesListCmd(), spacesShowCmd())
	return c
}

func spacesListCmd() *cobra.Command {
	var workspace string
	var modelArg string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List spaces with dimensions and glazing",
		RunE: func(_ *cobra.Command, _ []string) error {
			ws, err := loadWorkspace(workspace)
			if err != nil {
				return err
			}

			modelPath, err := resolveModelPath(ws, modelArg)
			if err != nil {
				return err
			}

			model, err := ws.models.LoadModel(modelPath)
			if err != nil {
				return err
			}

			rel, _ := filepath.Rel(ws.root, modelPath)
			fmt.Printf("Model: %s (%s)\n\n", model.Name, rel)

			if len(model.Spaces) == 0 {
				fmt.Println("No spaces in this model. Check the export, or pick another file with --model.")
				return nil
			}

			t := table.NewWriter()
			t.SetOutputMirror(os.Stdout)
			t.SetStyle(table.StyleLight)
			t.AppendHeader(table.Row{"Code", "Name", "W x D x H (m)", "Floor (m2)", "Windows"})
			for _, s := range model.Spaces {
				windows := fmt.Sprintf("%d", len(s.Windows))
				if !s.HasWindows() {
					windows = "none"
				}
				t.AppendRow(table.Row{
					s.Code,
					s.LongName,
					fmt.Sprintf("%.2f x %.2f x %.2f", s.Width, s.Depth, s.Height),
					fmt.Sprintf("%.1f", s.FloorArea()),
					windows,
				})
			}
			t.Render()
			return nil
		},
	}

	cmd.Flags().StringVarP(&workspace, "workspace", "w", "", "Workspace root (optional; autodetected if omitted)")
	cmd.Flags().StringVarP(&modelArg, "model", "m", "", "Model name or path (optional when the workspace has one model)")
	return cmd
}

func spacesShowCmd() *cobra.Command {
	var workspace string
	var modelArg string

	cmd := &cobra.Command{
		Use:   "show <code>",
		Short: "Show one space's windows, walls and doors",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			ws, err := loadWorkspace(workspace)
			if err != nil {
				return err
			}

			modelPath, err := resolveModelPath(ws, modelArg)
			if err != nil {
				return err
			}

			model, err := ws.models.LoadModel(modelPath)
			if err != nil {
				return err
			}

			space, ok := model.Space(args[0])
			if !ok {
				return fmt.Errorf("space %q not in model %q (have %s)",
					args[0], model.Name, strings.Join(model.Codes(), ", "))
			}

			printSpace(os.Stdout, space)
			return nil
		},
	}

	cmd.Flags().StringVarP(&workspace, "workspace", "w", "", "Workspace root (optional; autodetected if omitted)")
	cmd.Flags().StringVarP(&modelArg, "model", "m", "", "Model name or path (optional when the workspace has one model)")
	return cmd
}

func printSpace(w io.Writer, s domain.Space) {
	fmt.Fprintf(w, "Space:  %s\n", s.Label())
	fmt.Fprintf(w, "Size:   %.2f x %.2f x %.2f m\n", s.Width, s.Depth, s.Height)
	fmt.Fprintf(w, "Floor:  %.1f m2\n\n", s.FloorArea())

	if len(s.Windows) == 0 {
		fmt.Fprintln(w, "No windows: this space cannot be daylit.")
	} else {
		t := table.NewWriter()
		t.SetOutputMirror(w)
		t.SetStyle(table.StyleLight)
		t.AppendHeader(table.Row{"Tag", "Name", "Wall", "W x H (m)", "Sill (m)", "Area (m2)"})
		for _, win := range s.Windows {
			t.AppendRow(table.Row{
				win.Tag,
				win.Name,
				string(win.Wall),
				fmt.Sprintf("%.2f x %.2f", win.Width, win.Height),
				fmt.Sprintf("%.2f", win.BottomZ()),
				fmt.Sprintf("%.2f", win.Area()),
			})
		}
		t.Render()
	}

	if len(s.Walls) > 0 {
		fmt.Fprintln(w)
		t := table.NewWriter()
		t.SetOutputMirror(w)
		t.SetStyle(table.StyleLight)
		t.AppendHeader(table.Row{"Wall", "External", "Build-up"})
		for _, wall := range s.Walls {
			t.AppendRow(table.Row{wallLabel(wall), yesNo(wall.External), layerSummary(wall.Layers)})
		}
		t.Render()
	}

	if len(s.Doors) > 0 {
		fmt.Fprintln(w)
		t := table.NewWriter()
		t.SetOutputMirror(w)
		t.SetStyle(table.StyleLight)
		t.AppendHeader(table.Row{"Door", "Type", "W x H (m)"})
		for _, d := range s.Doors {
			doorType := "Solid"
			if d.Glazed {
				doorType = "Glazed"
			}
			t.AppendRow(table.Row{doorLabel(d), doorType, fmt.Sprintf("%.2f x %.2f", d.Width, d.Height)})
		}
		t.Render()
	}
}

func wallLabel(w domain.Wall) string {
	if w.Tag != "" {
		return w.Tag
	}
	return w.Name
}

func doorLabel(d domain.Door) string {
	if d.Tag != "" {
		return d.Tag
	}
	return d.Name
}

func layerSummary(layers []domain.MaterialLayer) string {
	if len(layers) == 0 {
		return "(unknown)"
	}
	parts := make([]string, len(layers))
	for i, l := range layers {
		parts[i] = fmt.Sprintf("%s %.0f mm", l.Material, l.Thickness*1000)
	}
	return strings.Join(parts, " | ")
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
