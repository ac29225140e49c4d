package cli

import (
	"fmt"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
)

// confirmDestructive gates destructive commands. With --yes it passes
// straight through; on an interactive terminal it prompts; otherwise it
// refuses and asks for --yes so scripts never destroy data silently.
func confirmDestructive(cmd *cobra.Command, app *App, prompt string) error {
	if yes, _ := cmd.Flags().GetBool("yes"); yes {
		return nil
	}

	if app.IsInteractive == nil || !app.IsInteractive() {
		return fmt.Errorf("refusing without confirmation: re-run with --yes")
	}

	confirmed := false
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(prompt).
				Affirmative("Yes").
				Negative("No").
				Value(&confirmed),
		),
	).WithShowHelp(false)

	if err := form.Run(); err != nil {
		return err
	}
	if !confirmed {
		return fmt.Errorf("aborted")
	}
	return nil
}
