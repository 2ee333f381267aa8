package cli

import (
	"strings"

	"tracker-cli/internal/format"
	"tracker-cli/internal/tracker"

	"github.com/spf13/cobra"
)

func newProjectsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "projects",
		Short: "Project commands",
	}
	cmd.AddCommand(newProjectsListCmd(app))
	cmd.AddCommand(newProjectsAddCmd(app))
	cmd.AddCommand(newProjectsRmCmd(app))
	cmd.AddCommand(newProjectsRenameCmd(app))
	cmd.AddCommand(newProjectsUseCmd(app))
	return cmd
}

func projectSummary(tr *tracker.Tracker, id string) (tracker.ProjectSummary, bool) {
	for _, p := range tr.Summaries() {
		if p.ID == id {
			return p, true
		}
	}
	return tracker.ProjectSummary{}, false
}

func newProjectsListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List projects (current one is marked)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tr, done, err := loadTracker(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer done()
			return writeOut(cmd, app, map[string]any{"data": format.ProjectList(tr.Summaries())})
		},
	}
}

func newProjectsAddCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "add [name]",
		Short: "Create a project and make it current",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tr, done, err := loadTracker(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer done()
			name := ""
			if len(args) == 1 {
				name = strings.TrimSpace(args[0])
			}
			id := tr.AddProject(name)
			p, _ := projectSummary(tr, id)
			return writeOut(cmd, app, map[string]any{"data": p})
		},
	}
}

func newProjectsRmCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "rm <project-id>",
		Short: "Delete a project (the last one cannot be deleted)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tr, done, err := loadTracker(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer done()
			id := args[0]
			if _, ok := projectSummary(tr, id); !ok {
				return writeErr(cmd, errNotFound("project", id))
			}
			if !tr.DeleteProject(id) {
				return writeErr(cmd, errRejected("delete project", "cannot delete the last project"))
			}
			return writeOut(cmd, app, map[string]any{"data": map[string]any{
				"deleted":   id,
				"currentId": tr.CurrentProject().ID,
			}})
		},
	}
}

func newProjectsRenameCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "rename <project-id> <name>",
		Short: "Rename a project",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			tr, done, err := loadTracker(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer done()
			if !tr.RenameProject(args[0], args[1]) {
				return writeErr(cmd, errNotFound("project", args[0]))
			}
			p, _ := projectSummary(tr, args[0])
			return writeOut(cmd, app, map[string]any{"data": p})
		},
	}
}

func newProjectsUseCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "use <project-id>",
		Short: "Switch the current project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tr, done, err := loadTracker(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer done()
			if !tr.SwitchProject(args[0]) {
				return writeErr(cmd, errNotFound("project", args[0]))
			}
			p, _ := projectSummary(tr, args[0])
			return writeOut(cmd, app, map[string]any{"data": p})
		},
	}
}
