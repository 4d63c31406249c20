package cli

import (
	"github.com/spf13/cobra"

	"siteline/internal/service"
)

// App holds references to all service interfaces used by CLI commands.
type App struct {
	Projects service.ProjectService
	Tasks    service.TaskService
	Schedule service.ScheduleService
	Progress service.ProgressService
	Timeline service.TimelineService
	Import   service.ImportService

	// IsInteractive reports whether stdin is a terminal, enabling forms
	// and the interactive board.
	IsInteractive func() bool
}

// NewRootCmd creates the top-level "siteline" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:   "siteline",
		Short: "Construction schedule tracker with gantt and progress curves",
	}

	root.AddCommand(
		newProjectCmd(app),
		newTaskCmd(app),
		newImportCmd(app),
		newTimelineCmd(app),
		newCurveCmd(app),
		newBoardCmd(app),
	)

	return root
}

func (a *App) interactive() bool {
	return a.IsInteractive != nil && a.IsInteractive()
}
