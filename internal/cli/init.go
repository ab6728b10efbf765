package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/mdjska/daylight-analysis/internal/infra/fsworkspace"
	"github.com/mdjska/daylight-analysis/internal/usecase"
)

func initCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init [dir]",
		Short: "Scaffold a daylight workspace",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			dir := "."
			if len(args) == 1 {
				dir = args[0]
			}
			root, err := filepath.Abs(dir)
			if err != nil {
				return fmt.Errorf("invalid workspace path: %w", err)
			}

			uc := usecase.NewInitWorkspace(fsworkspace.NewInitializer())
			if err := uc.Execute(root, force); err != nil {
				return err
			}

			fmt.Printf("Workspace initialized at %s\n", root)
			fmt.Println()
			fmt.Println("Next steps:")
			fmt.Println("  - drop a model JSON into model/ (a sample duplex is included)")
			fmt.Println("  - `daylight spaces list` shows its spaces")
			fmt.Println("  - `daylight run -s <code>` analyzes one")
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite existing workspace files")
	return cmd
}
