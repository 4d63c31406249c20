package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"siteline/internal/cli/formatter"
	"siteline/internal/timeline"
)

func newTimelineCmd(app *App) *cobra.Command {
	var project, granularity string
	var laneWidth int

	cmd := &cobra.Command{
		Use:   "timeline",
		Short: "Render a project's gantt chart",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			projectID, err := resolveProjectID(ctx, app, project)
			if err != nil {
				return err
			}

			view, err := app.Timeline.Timeline(ctx, projectID, timeline.Granularity(granularity), 20)
			if err != nil {
				return err
			}
			fmt.Printf("%s\n", formatter.FormatTimeline(view, laneWidth))
			return nil
		},
	}

	cmd.Flags().StringVar(&project, "project", "", "Project ID, prefix, or name")
	cmd.Flags().StringVar(&granularity, "granularity", "day", "day, week, or month")
	cmd.Flags().IntVar(&laneWidth, "width", 60, "Chart lane width in columns")
	_ = cmd.MarkFlagRequired("project")
	return cmd
}
