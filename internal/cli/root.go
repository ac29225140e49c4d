package cli

import (
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/wilfredeveloper/barka-sub001/internal/service"
	"github.com/wilfredeveloper/barka-sub001/internal/tenancy"
)

// App holds references to all service interfaces used by CLI commands.
type App struct {
	Tasks    service.TaskService
	Graph    service.GraphService
	Projects service.ProjectService
	Team     service.TeamService
	Recovery service.RecoveryService
	Imports  service.ImportService

	// Default caller identity from configuration; the persistent
	// --org/--actor/--role flags override these per invocation.
	DefaultOrg   string
	DefaultActor string
	DefaultRole  string

	// IsInteractive reports whether stdin is a terminal. Destructive
	// commands prompt when it is and require --yes when it is not.
	IsInteractive func() bool
}

// NewRootCmd creates the top-level "barka" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:          "barka",
		Short:        "Multi-tenant task and project lifecycle engine",
		SilenceUsage: true,
	}

	registerCallerFlags(root.PersistentFlags(), app)
	root.PersistentFlags().Bool("yes", false, "Skip confirmation prompts")

	root.AddCommand(
		newProjectCmd(app),
		newTaskCmd(app),
		newMemberCmd(app),
		newWorkloadCmd(app),
		newBoardCmd(app),
		newTrashCmd(app),
		newImportCmd(app),
	)

	return root
}

func registerCallerFlags(fs *pflag.FlagSet, app *App) {
	fs.String("org", app.DefaultOrg, "Acting organization ID (env BARKA_ORG)")
	fs.String("actor", app.DefaultActor, "Acting subject ID (env BARKA_ACTOR)")
	fs.String("role", app.DefaultRole, "Acting role: member, project_manager, admin or super_admin (env BARKA_ROLE)")
}

// callerFrom builds the acting identity from the persistent flags.
// Authorization itself happens in the services; the CLI only carries
// the claimed identity through.
func callerFrom(cmd *cobra.Command) tenancy.Caller {
	org, _ := cmd.Flags().GetString("org")
	actor, _ := cmd.Flags().GetString("actor")
	role, _ := cmd.Flags().GetString("role")
	return tenancy.Caller{
		SubjectID:      actor,
		OrganizationID: org,
		Role:           tenancy.Role(role),
	}
}
