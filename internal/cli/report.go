package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/mdjska/daylight-analysis/internal/usecase"
)

func reportCmd() *cobra.Command {
	var workspace string
	var modelArg string
	var out string

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Write the XLSX model inventory",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ws, err := loadWorkspace(workspace)
			if err != nil {
				return err
			}

			modelPath, err := resolveModelPath(ws, modelArg)
			if err != nil {
				return err
			}

			outPath := out
			if outPath == "" {
				outPath = filepath.Join(ws.root, ws.cfg.Paths.ReportsDir, "model-inventory.xlsx")
			}

			uc := usecase.NewWriteReport(ws.models, ws.reports)
			if err := uc.Execute(cmd.Context(), modelPath, outPath); err != nil {
				return err
			}

			fmt.Printf("Report written to %s\n", outPath)
			return nil
		},
	}

	cmd.Flags().StringVarP(&workspace, "workspace", "w", "", "Workspace root (optional; autodetected if omitted)")
	cmd.Flags().StringVarP(&modelArg, "model", "m", "", "Model name or path (optional when the workspace has one model)")
	cmd.Flags().StringVarP(&out, "out", "o", "", "Output path (default <workspace>/output/model-inventory.xlsx)")
	return cmd
}
