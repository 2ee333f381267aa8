package cli

import (
	"tracker-cli/internal/publish"

	"github.com/spf13/cobra"
)

func newPublishCmd(app *App) *cobra.Command {
	var (
		to        string
		itemID    string
		overwrite bool
	)

	cmd := &cobra.Command{
		Use:   "publish",
		Short: "Write the current project as Markdown files",
		Long: `Writes <to>/index.md with the whole outline and <to>/items/<id>.md for
every item. --item publishes a single item page instead. Existing files are
refused unless --overwrite is set.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tr, done, err := loadTracker(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer done()

			opt := publish.WriteOptions{Overwrite: overwrite}
			var res publish.WriteResult
			if itemID != "" {
				if _, ok := tr.Item(itemID); !ok {
					return writeErr(cmd, errNotFound("item", itemID))
				}
				res, err = publish.WriteItem(tr, itemID, to, opt)
			} else {
				res, err = publish.WriteProject(tr, to, opt)
			}
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": res})
		},
	}

	cmd.Flags().StringVar(&to, "to", "", "Output directory")
	cmd.Flags().StringVar(&itemID, "item", "", "Publish only this item")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Replace existing files")
	_ = cmd.MarkFlagRequired("to")
	return cmd
}
