package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mdjska/daylight-analysis/internal/usecase"
)

func validateCmd() *cobra.Command {
	var workspace string
	var modelArg string

	c := &cobra.Command{
		Use:   "validate",
		Short: "Check a model file without running the engine",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ws, err := loadWorkspace(workspace)
			if err != nil {
				return err
			}

			modelPath, err := resolveModelPath(ws, modelArg)
			if err != nil {
				return err
			}

			uc := usecase.NewValidateModel(ws.models)
			model, warnings, err := uc.Execute(cmd.Context(), modelPath)
			if err != nil {
				return err
			}

			for _, warning := range warnings {
				fmt.Printf("warning: %s\n", warning)
			}

			fmt.Printf("OK: %s (%d spaces, %d with windows)\n",
				model.Name, len(model.Spaces), len(model.WithWindows()))
			return nil
		},
	}

	c.Flags().StringVarP(&workspace, "workspace", "w", "", "Workspace root (optional; autodetected if omitted)")
	c.Flags().StringVarP(&modelArg, "model", "m", "", "Model name or path (optional when the workspace has one model)")
	return c
}
