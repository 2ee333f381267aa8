package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"tracker-cli/internal/format"
	"tracker-cli/internal/model"
	"tracker-cli/internal/statusutil"
	"tracker-cli/internal/tracker"

	"github.com/spf13/cobra"
)

func newItemsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "items",
		Short: "Item commands (act on the current project)",
	}
	cmd.AddCommand(newItemsListCmd(app))
	cmd.AddCommand(newItemsShowCmd(app))
	cmd.AddCommand(newItemsAddCmd(app))
	cmd.AddCommand(newItemsChildCmd(app))
	cmd.AddCommand(newItemsParentCmd(app))
	cmd.AddCommand(newItemsRmCmd(app))
	cmd.AddCommand(newItemsTitleCmd(app))
	cmd.AddCommand(newItemsProgressCmd(app))
	cmd.AddCommand(newItemsStatusCmd(app))
	cmd.AddCommand(newItemsCycleCmd(app))
	cmd.AddCommand(newItemsNotesCmd(app))
	cmd.AddCommand(newItemsToggleCmd(app))
	cmd.AddCommand(newItemsDetailCmd(app))
	cmd.AddCommand(newItemsMoveCmd(app))
	cmd.AddCommand(newItemsExpandAllCmd(app))
	cmd.AddCommand(newItemsCollapseAllCmd(app))
	return cmd
}

func itemDetail(tr *tracker.Tracker, id string) (format.ItemDetail, bool) {
	it, ok := tr.Item(id)
	if !ok {
		return format.ItemDetail{}, false
	}
	pct, _ := tr.Progress(id)
	return format.ItemDetail{Item: it, Progress: pct}, true
}

// itemCmd builds a command that applies fn to the item named by the first
// argument and prints the item afterwards.
func itemCmd(app *App, use, short string, nargs int, fn func(tr *tracker.Tracker, id string, rest []string) (bool, error)) *cobra.Command {
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
			id := args[0]
			ok, err := fn(tr, id, args[1:])
			if err != nil {
				return writeErr(cmd, err)
			}
			if !ok {
				return writeErr(cmd, errNotFound("item", id))
			}
			d, _ := itemDetail(tr, id)
			return writeOut(cmd, app, map[string]any{"data": d})
		},
	}
}

func newItemsListCmd(app *App) *cobra.Command {
	var all bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Show the current project's outline",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tr, done, err := loadTracker(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer done()
			return writeOut(cmd, app, map[string]any{"data": format.OutlineOf(tr, all)})
		},
	}
	cmd.Flags().BoolVar(&all, "all", false, "Include children of collapsed items")
	return cmd
}

func newItemsShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show <item-id>",
		Short: "Show one item with its subtree, bugs and notes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tr, done, err := loadTracker(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer done()
			d, ok := itemDetail(tr, args[0])
			if !ok {
				return writeErr(cmd, errNotFound("item", args[0]))
			}
			return writeOut(cmd, app, map[string]any{"data": d})
		},
	}
}

// created retitles a freshly added item when a title was given and prints it.
func created(cmd *cobra.Command, app *App, tr *tracker.Tracker, id, title string) error {
	if t := strings.TrimSpace(title); t != "" {
		tr.UpdateTitle(id, t)
	}
	d, _ := itemDetail(tr, id)
	return writeOut(cmd, app, map[string]any{"data": d})
}

func newItemsAddCmd(app *App) *cobra.Command {
	var title string
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Append a new root item",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tr, done, err := loadTracker(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer done()
			return created(cmd, app, tr, tr.AddRootItem(), title)
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "Title (default \""+model.DefaultItemTitle+"\")")
	return cmd
}

func newItemsChildCmd(app *App) *cobra.Command {
	var title string
	cmd := &cobra.Command{
		Use:   "child <parent-id>",
		Short: "Append a new child under an item (expands the parent)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tr, done, err := loadTracker(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer done()
			id, ok := tr.AddChildItem(args[0])
			if !ok {
				return writeErr(cmd, errNotFound("item", args[0]))
			}
			return created(cmd, app, tr, id, title)
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "Title (default \""+model.DefaultItemTitle+"\")")
	return cmd
}

func newItemsParentCmd(app *App) *cobra.Command {
	var title string
	cmd := &cobra.Command{
		Use:   "parent <item-id>",
		Short: "Wrap an item in a new parent that takes its place",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tr, done, err := loadTracker(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer done()
			id, ok := tr.AddParentItem(args[0])
			if !ok {
				return writeErr(cmd, errNotFound("item", args[0]))
			}
			return created(cmd, app, tr, id, title)
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "Title (default \""+model.DefaultParentTitle+"\")")
	return cmd
}

func newItemsRmCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "rm <item-id>",
		Short: "Delete an item and its whole subtree",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tr, done, err := loadTracker(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer done()
			if !tr.DeleteItem(args[0]) {
				return writeErr(cmd, errNotFound("item", args[0]))
			}
			return writeOut(cmd, app, map[string]any{"data": map[string]any{"deleted": args[0]}})
		},
	}
}

func newItemsTitleCmd(app *App) *cobra.Command {
	return itemCmd(app, "title <item-id> <title>", "Set an item's title", 2,
		func(tr *tracker.Tracker, id string, rest []string) (bool, error) {
			return tr.UpdateTitle(id, rest[0]), nil
		})
}

func newItemsProgressCmd(app *App) *cobra.Command {
	return itemCmd(app, "progress <item-id> <0-100>", "Set a leaf's progress (clamped, rounded; status follows)", 2,
		func(tr *tracker.Tracker, id string, rest []string) (bool, error) {
			v, err := strconv.ParseFloat(strings.TrimSpace(rest[0]), 64)
			if err != nil {
				return false, fmt.Errorf("invalid progress %q: expected a number", rest[0])
			}
			return tr.UpdateProgress(id, v), nil
		})
}

func newItemsStatusCmd(app *App) *cobra.Command {
	return itemCmd(app, "status <item-id> <todo|in-progress|done|blocked>", "Set an item's status", 2,
		func(tr *tracker.Tracker, id string, rest []string) (bool, error) {
			st, err := statusutil.ParseStatus(rest[0])
			if err != nil {
				return false, err
			}
			return tr.SetStatus(id, st), nil
		})
}

func newItemsCycleCmd(app *App) *cobra.Command {
	return itemCmd(app, "cycle <item-id>", "Advance status: todo → in-progress → done → blocked → todo", 1,
		func(tr *tracker.Tracker, id string, _ []string) (bool, error) {
			return tr.CycleStatus(id), nil
		})
}

func newItemsNotesCmd(app *App) *cobra.Command {
	var in io.Reader
	cmd := itemCmd(app, "notes <item-id> <text|->", "Replace an item's notes (\"-\" reads stdin)", 2,
		func(tr *tracker.Tracker, id string, rest []string) (bool, error) {
			notes := rest[0]
			if notes == "-" {
				b, err := io.ReadAll(in)
				if err != nil {
					return false, fmt.Errorf("read notes: %w", err)
				}
				notes = string(b)
			}
			return tr.UpdateNotes(id, notes), nil
		})
	run := cmd.RunE
	cmd.RunE = func(c *cobra.Command, args []string) error {
		in = c.InOrStdin()
		return run(c, args)
	}
	return cmd
}

func newItemsToggleCmd(app *App) *cobra.Command {
	return itemCmd(app, "toggle <item-id>", "Flip an item's expanded flag", 1,
		func(tr *tracker.Tracker, id string, _ []string) (bool, error) {
			return tr.ToggleExpanded(id), nil
		})
}

func newItemsDetailCmd(app *App) *cobra.Command {
	return itemCmd(app, "detail <item-id>", "Flip an item's detail-panel flag", 1,
		func(tr *tracker.Tracker, id string, _ []string) (bool, error) {
			return tr.ToggleDetail(id), nil
		})
}

func newItemsMoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "move <item-id> <before|after|inside> <target-id>",
		Short: "Move an item (with its subtree) relative to another item",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			pos, err := statusutil.ParsePosition(args[1])
			if err != nil {
				return writeErr(cmd, err)
			}
			tr, done, err := loadTracker(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer done()
			dragged, target := args[0], args[2]
			for _, id := range []string{dragged, target} {
				if _, ok := tr.Item(id); !ok {
					return writeErr(cmd, errNotFound("item", id))
				}
			}
			if !tr.MoveItem(dragged, target, pos) {
				return writeErr(cmd, errRejected("move", "target is the item itself or one of its descendants"))
			}
			d, _ := itemDetail(tr, dragged)
			return writeOut(cmd, app, map[string]any{"data": d})
		},
	}
}

func newItemsExpandAllCmd(app *App) *cobra.Command {
	return setAllCmd(app, "expand-all", "Expand every item in the current project", true)
}

func newItemsCollapseAllCmd(app *App) *cobra.Command {
	return setAllCmd(app, "collapse-all", "Collapse every item in the current project", false)
}

func setAllCmd(app *App, use, short string, expanded bool) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tr, done, err := loadTracker(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer done()
			if expanded {
				tr.ExpandAll()
			} else {
				tr.CollapseAll()
			}
			return writeOut(cmd, app, map[string]any{"data": format.OutlineOf(tr, false)})
		},
	}
}
