package cli

import (
	"tracker-cli/internal/format"
	"tracker-cli/internal/model"

	"github.com/spf13/cobra"
)

func newEventsCmd(app *App) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "events",
		Short: "List recorded changes, newest first (sqlite backend)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			el, done, err := openEventLog(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer done()
			evs, err := el.Events(cmd.Context(), limit)
			if err != nil {
				return writeErr(cmd, err)
			}
			if evs == nil {
				evs = []model.Event{}
			}
			return writeOut(cmd, app, map[string]any{"data": format.EventList(evs)})
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 200, "Max events to return (0 = all)")
	return cmd
}
