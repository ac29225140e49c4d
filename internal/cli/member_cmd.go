package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wilfredeveloper/barka-sub001/internal/cli/formatter"
	"github.com/wilfredeveloper/barka-sub001/internal/domain"
	"github.com/wilfredeveloper/barka-sub001/internal/service"
)

func newMemberCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "member",
		Short: "Manage team members",
	}

	cmd.AddCommand(
		newMemberAddCmd(app),
		newMemberListCmd(app),
		newMemberInspectCmd(app),
		newMemberCapacityCmd(app),
		newMemberStatusCmd(app),
	)

	return cmd
}

func newMemberAddCmd(app *App) *cobra.Command {
	var name, email, role, availability string
	var hours float64
	var skills []string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a team member",
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := app.Team.Create(context.Background(), callerFrom(cmd), service.CreateMemberInput{
				Name:         name,
				Email:        email,
				Role:         role,
				HoursPerWeek: hours,
				Availability: domain.Availability(availability),
				Skills:       skills,
			})
			if err != nil {
				return err
			}
			fmt.Printf("Added member %s %s\n", m.Name, formatter.TruncID(m.ID))
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Member name")
	cmd.Flags().StringVar(&email, "email", "", "Email address")
	cmd.Flags().StringVar(&role, "role", "", "Role title")
	cmd.Flags().Float64Var(&hours, "hours", 40, "Capacity in hours per week")
	cmd.Flags().StringVar(&availability, "availability", "full_time", "Availability: full_time, part_time or contract")
	cmd.Flags().StringSliceVar(&skills, "skills", nil, "Skill tags")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func newMemberListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List team members",
		RunE: func(cmd *cobra.Command, args []string) error {
			members, err := app.Team.List(context.Background(), callerFrom(cmd))
			if err != nil {
				return err
			}
			fmt.Print(formatter.FormatMemberList(members))
			return nil
		},
	}
}

func newMemberInspectCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <member>",
		Short: "Show a team member in full",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			id, err := resolveMemberID(ctx, app, cmd, args[0])
			if err != nil {
				return err
			}
			m, err := app.Team.Get(ctx, callerFrom(cmd), id)
			if err != nil {
				return err
			}
			fmt.Print(formatter.FormatMemberDetail(m))
			return nil
		},
	}
}

func newMemberCapacityCmd(app *App) *cobra.Command {
	var availability string

	cmd := &cobra.Command{
		Use:   "capacity <member> <hours-per-week>",
		Short: "Update a member's weekly capacity",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			id, err := resolveMemberID(ctx, app, cmd, args[0])
			if err != nil {
				return err
			}
			var hours float64
			if _, err := fmt.Sscanf(args[1], "%f", &hours); err != nil {
				return fmt.Errorf("invalid hours %q: %w", args[1], err)
			}
			if err := app.Team.SetCapacity(ctx, callerFrom(cmd), id, hours, domain.Availability(availability)); err != nil {
				return err
			}
			fmt.Printf("Capacity set to %s/wk\n", formatter.FormatHours(hours))
			return nil
		},
	}

	cmd.Flags().StringVar(&availability, "availability", "", "Availability: full_time, part_time or contract (unchanged when empty)")
	return cmd
}

func newMemberStatusCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "status <member> <status>",
		Short: "Update a member's status",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			id, err := resolveMemberID(ctx, app, cmd, args[0])
			if err != nil {
				return err
			}
			if err := app.Team.SetStatus(ctx, callerFrom(cmd), id, domain.MemberStatus(args[1])); err != nil {
				return err
			}
			fmt.Printf("Status set to %s\n", args[1])
			return nil
		},
	}
}
