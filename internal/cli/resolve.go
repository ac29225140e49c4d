package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// resolveID matches user input against a set of candidates: first an
// exact UUID, then a case-insensitive exact name, then a unique UUID
// prefix. Ambiguous prefixes are rejected rather than guessed at.
func resolveID(kind, input string, ids, names []string) (string, error) {
	if input == "" {
		return "", fmt.Errorf("%s ID is required", kind)
	}

	for _, id := range ids {
		if id == input {
			return id, nil
		}
	}

	for i, name := range names {
		if name != "" && strings.EqualFold(name, input) {
			return ids[i], nil
		}
	}

	var matches []string
	for _, id := range ids {
		if strings.HasPrefix(id, input) {
			matches = append(matches, id)
		}
	}

	switch len(matches) {
	case 0:
		return "", fmt.Errorf("%s not found: %q", kind, input)
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("%s ID prefix %q is ambiguous (%d matches)", kind, input, len(matches))
	}
}

func resolveProjectID(ctx context.Context, app *App, cmd *cobra.Command, input string) (string, error) {
	projects, err := app.Projects.List(ctx, callerFrom(cmd))
	if err != nil {
		return "", err
	}
	ids := make([]string, len(projects))
	names := make([]string, len(projects))
	for i, p := range projects {
		ids[i], names[i] = p.ID, p.Name
	}
	return resolveID("project", input, ids, names)
}

func resolveTaskID(ctx context.Context, app *App, cmd *cobra.Command, input string) (string, error) {
	tasks, err := app.Tasks.List(ctx, callerFrom(cmd))
	if err != nil {
		return "", err
	}
	ids := make([]string, len(tasks))
	names := make([]string, len(tasks))
	for i, t := range tasks {
		ids[i], names[i] = t.ID, t.Name
	}
	return resolveID("task", input, ids, names)
}

func resolveMemberID(ctx context.Context, app *App, cmd *cobra.Command, input string) (string, error) {
	members, err := app.Team.List(ctx, callerFrom(cmd))
	if err != nil {
		return "", err
	}
	ids := make([]string, len(members))
	names := make([]string, len(members))
	for i, m := range members {
		ids[i], names[i] = m.ID, m.Name
	}
	return resolveID("member", input, ids, names)
}

func resolveTrashID(ctx context.Context, app *App, cmd *cobra.Command, input string) (string, error) {
	entries, err := app.Recovery.List(ctx, callerFrom(cmd))
	if err != nil {
		return "", err
	}
	ids := make([]string, len(entries))
	for i, e := range entries {
		ids[i] = e.ID
	}
	return resolveID("trash entry", input, ids, nil)
}
