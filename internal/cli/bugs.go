package cli

import (
	"tracker-cli/internal/format"
	"tracker-cli/internal/model"
	"tracker-cli/internal/statusutil"
	"tracker-cli/internal/tracker"

	"github.com/spf13/cobra"
)

func newBugsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bugs",
		Short: "Bug commands (bugs hang off items in the current project)",
	}
	cmd.AddCommand(newBugsListCmd(app))
	cmd.AddCommand(newBugsAddCmd(app))
	cmd.AddCommand(bugCmd(app, "rename <item-id> <bug-id> <name>", "Rename a bug", 3,
		func(tr *tracker.Tracker, itemID, bugID string, rest []string) (bool, error) {
			return tr.RenameBug(itemID, bugID, rest[0]), nil
		}))
	cmd.AddCommand(bugCmd(app, "code <item-id> <bug-id> <code>", "Set a bug's error code", 3,
		func(tr *tracker.Tracker, itemID, bugID string, rest []string) (bool, error) {
			return tr.UpdateBugErrorCode(itemID, bugID, rest[0]), nil
		}))
	cmd.AddCommand(bugCmd(app, "cycle <item-id> <bug-id>", "Advance bug status: open → fixed → wont-fix → open", 2,
		func(tr *tracker.Tracker, itemID, bugID string, _ []string) (bool, error) {
			return tr.CycleBugStatus(itemID, bugID), nil
		}))
	cmd.AddCommand(bugCmd(app, "status <item-id> <bug-id> <open|fixed|wont-fix>", "Set a bug's status", 3,
		func(tr *tracker.Tracker, itemID, bugID string, rest []string) (bool, error) {
			st, err := statusutil.ParseBugStatus(rest[0])
			if err != nil {
				return false, err
			}
			return tr.SetBugStatus(itemID, bugID, st), nil
		}))
	cmd.AddCommand(newBugsRmCmd(app))
	return cmd
}

func findBug(tr *tracker.Tracker, itemID, bugID string) (model.Bug, bool) {
	it, ok := tr.Item(itemID)
	if !ok {
		return model.Bug{}, false
	}
	for _, b := range it.Bugs {
		if b.ID == bugID {
			return b, true
		}
	}
	return model.Bug{}, false
}

func bugCmd(app *App, use, short string, nargs int, fn func(tr *tracker.Tracker, itemID, bugID string, rest []string) (bool, error)) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(nargs),
		RunE: func(cmd *cobra.Command, args []string) error {
			tr, done, err := loadTracker(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer done()
			itemID, bugID := args[0], args[1]
			if _, ok := tr.Item(itemID); !ok {
				return writeErr(cmd, errNotFound("item", itemID))
			}
			ok, err := fn(tr, itemID, bugID, args[2:])
			if err != nil {
				return writeErr(cmd, err)
			}
			if !ok {
				return writeErr(cmd, errNotFound("bug", bugID))
			}
			b, _ := findBug(tr, itemID, bugID)
			return writeOut(cmd, app, map[string]any{"data": b})
		},
	}
}

func newBugsListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List every bug in the current project with its item path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tr, done, err := loadTracker(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer done()
			l := format.BugList{Project: tr.CurrentProject().Name, Bugs: tr.AllBugs()}
			return writeOut(cmd, app, map[string]any{"data": l})
		},
	}
}

func newBugsAddCmd(app *App) *cobra.Command {
	var code string
	cmd := &cobra.Command{
		Use:   "add <item-id> <name>",
		Short: "Attach a new open bug to an item",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			tr, done, err := loadTracker(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer done()
			itemID := args[0]
			bugID, ok := tr.AddBug(itemID, args[1])
			if !ok {
				return writeErr(cmd, errNotFound("item", itemID))
			}
			if code != "" {
				tr.UpdateBugErrorCode(itemID, bugID, code)
			}
			b, _ := findBug(tr, itemID, bugID)
			return writeOut(cmd, app, map[string]any{"data": b})
		},
	}
	cmd.Flags().StringVar(&code, "code", "", "Error code")
	return cmd
}

func newBugsRmCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "rm <item-id> <bug-id>",
		Short: "Delete a bug",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			tr, done, err := loadTracker(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer done()
			if _, ok := tr.Item(args[0]); !ok {
				return writeErr(cmd, errNotFound("item", args[0]))
			}
			if !tr.DeleteBug(args[0], args[1]) {
				return writeErr(cmd, errNotFound("bug", args[1]))
			}
			return writeOut(cmd, app, map[string]any{"data": map[string]any{"deleted": args[1]}})
		},
	}
}
