package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"siteline/internal/cli/formatter"
)

func newImportCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Import a schedule from a JSON file",
		Long: `Import a project schedule from a JSON file.

The file carries a project header plus tasks keyed by ref, with parent_ref
for grouping and a dependencies list of finish-to-start links. Dates accept
YYYY-MM-DD, DD/MM/YYYY, and DD/MM/YY.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := app.Import.ImportSchedule(context.Background(), args[0])
			if err != nil {
				return err
			}
			fmt.Printf("%s\n", formatter.FormatImportResult(
				result.Project.Name, result.TaskCount, result.DependencyCount))
			return nil
		},
	}
}
