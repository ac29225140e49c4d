package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wilfredeveloper/barka-sub001/internal/cli/formatter"
	"github.com/wilfredeveloper/barka-sub001/internal/service"
)

func newWorkloadCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "workload [member]",
		Short: "Show derived workload for the team or one member",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			var summaries []*service.WorkloadSummary
			if len(args) == 1 {
				id, err := resolveMemberID(ctx, app, cmd, args[0])
				if err != nil {
					return err
				}
				summary, err := app.Team.Workload(ctx, callerFrom(cmd), id)
				if err != nil {
					return err
				}
				summaries = []*service.WorkloadSummary{summary}
			} else {
				var err error
				summaries, err = app.Team.TeamWorkload(ctx, callerFrom(cmd))
				if err != nil {
					return err
				}
			}

			fmt.Print(formatter.FormatWorkloadTable(summaries))
			return nil
		},
	}
}
