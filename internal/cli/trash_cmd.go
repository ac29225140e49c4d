package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wilfredeveloper/barka-sub001/internal/cli/formatter"
	"github.com/wilfredeveloper/barka-sub001/internal/domain"
)

func newTrashCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "trash",
		Short: "Inspect and recover soft-deleted entities",
	}

	cmd.AddCommand(
		newTrashListCmd(app),
		newTrashRecoverCmd(app),
		newTrashPurgeCmd(app),
	)

	return cmd
}

func newTrashListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List trash entries",
		RunE: func(cmd *cobra.Command, args []string) error {
			entries, err := app.Recovery.List(context.Background(), callerFrom(cmd))
			if err != nil {
				return err
			}
			fmt.Print(formatter.FormatTrashList(entries))
			return nil
		},
	}
}

func newTrashRecoverCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "recover <entry>",
		Short: "Recover a trashed entity under a new ID",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			id, err := resolveTrashID(ctx, app, cmd, args[0])
			if err != nil {
				return err
			}
			recovered, err := app.Recovery.Recover(ctx, callerFrom(cmd), id)
			if err != nil {
				return err
			}
			switch recovered.Kind {
			case domain.KindTask:
				fmt.Printf("Recovered task %s %s\n", recovered.Task.Name, formatter.TruncID(recovered.Task.ID))
			case domain.KindProject:
				fmt.Printf("Recovered project %s %s\n", recovered.Project.Name, formatter.TruncID(recovered.Project.ID))
			}
			return nil
		},
	}
}

func newTrashPurgeCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "purge",
		Short: "Permanently remove expired trash entries",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := confirmDestructive(cmd, app, "Permanently remove expired trash entries?"); err != nil {
				return err
			}
			purged, err := app.Recovery.PurgeExpired(context.Background())
			if err != nil {
				return err
			}
			fmt.Printf("Purged %d expired entries\n", purged)
			return nil
		},
	}
}
