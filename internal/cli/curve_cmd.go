package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"siteline/internal/cli/formatter"
	"siteline/internal/domain"
)

func newCurveCmd(app *App) *cobra.Command {
	var project, mode string

	cmd := &cobra.Command{
		Use:   "curve",
		Short: "Render a project's cumulative progress curve",
		Long: `Render plan and actual cumulative progress over the project window.

Physical mode weights each task by its planned duration in days; financial
mode weights by cost.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			projectID, err := resolveProjectID(ctx, app, project)
			if err != nil {
				return err
			}

			result, window, err := app.Progress.Curve(ctx, projectID, domain.WeightMode(mode))
			if err != nil {
				return err
			}
			fmt.Printf("%s\n", formatter.FormatCurve(result, window, domain.WeightMode(mode)))
			return nil
		},
	}

	cmd.Flags().StringVar(&project, "project", "", "Project ID, prefix, or name")
	cmd.Flags().StringVar(&mode, "mode", "physical", "physical or financial")
	_ = cmd.MarkFlagRequired("project")
	return cmd
}
