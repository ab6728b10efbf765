package cli

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"

	"github.com/mdjska/daylight-analysis/internal/usecase"
)

func modelCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "model",
		Short: "Work with the raw IFC-derived model JSON",
	}

	c.AddCommand(modelQueryCmd())
	return c
}

func modelQueryCmd() *cobra.Command {
	var workspace string
	var modelArg string

	cmd := &cobra.Command{
		Use:   "query <jsonpath>",
		Short: "Evaluate a JSONPath expression against the model file",
		Example: `  daylight model query '$.spaces[*].name'
  daylight model query '$.spaces[0].windows[*].tag'
  daylight model query '$.spaces[?(@.name=="A203")].dimensions'`,
		Args: cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			ws, err := loadWorkspace(workspace)
			if err != nil {
				return err
			}

			modelPath, err := resolveModelPath(ws, modelArg)
			if err != nil {
				return err
			}

			b, err := os.ReadFile(modelPath)
			if err != nil {
				return err
			}

			val, err := usecase.NewQueryModel().Execute(b, args[0])
			if err != nil {
				return err
			}

			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(val)
		},
	}

	cmd.Flags().StringVarP(&workspace, "workspace", "w", "", "Workspace root (optional; autodetected if omitted)")
	cmd.Flags().StringVarP(&modelArg, "model", "m", "", "Model name or path (optional when the workspace has one model)")
	return cmd
}
