package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

func newImportCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Import a workspace from a JSON file",
		Long: "Import members, projects, tasks and dependencies from a workspace\n" +
			"JSON file. The whole file is validated up front and written in a\n" +
			"single transaction; a rejected import writes nothing.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := app.Imports.ImportWorkspace(context.Background(), callerFrom(cmd), args[0])
			if err != nil {
				return err
			}
			fmt.Printf("Imported workspace for %s: %d projects, %d tasks, %d members, %d dependencies\n",
				result.OrganizationID, result.ProjectCount, result.TaskCount,
				result.MemberCount, result.DependencyCount)
			return nil
		},
	}
}
