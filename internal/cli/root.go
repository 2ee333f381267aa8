package cli

import (
	"context"
	"fmt"
	"strings"

	"tracker-cli/internal/config"
	"tracker-cli/internal/format"
	"tracker-cli/internal/logging"
	"tracker-cli/internal/store"
	"tracker-cli/internal/tracker"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

type App struct {
	Dir     string
	Backend string
	Format  string
	Pretty  bool

	ConfigFile string

	log *log.Logger
}

func NewRootCmd() *cobra.Command {
	app := &App{log: logging.Discard()}

	cmd := &cobra.Command{
		Use:          "tracker",
		Short:        "Local hierarchical progress tracker",
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  # Show the current project's outline
  tracker items list --format text

  # Add an item and report progress on it
  tracker items add --title "Write docs"
  tracker items progress <item-id> 40

  # Move an item under another one
  tracker items move <item-id> inside <target-id>

  # Export / import a project's items
  tracker export --out backup.json
  tracker import backup.json
`),
	}

	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		return app.configure(cmd)
	}

	// Defaults live in config; empty flags mean "not set".
	cmd.PersistentFlags().String("dir", "", "Path to store dir (default ~/.tracker; env TRACKER_DIR)")
	cmd.PersistentFlags().String("backend", "", "Storage backend (sqlite|bolt|memory)")
	cmd.PersistentFlags().String("format", "", "Output format (json|yaml|text)")
	cmd.PersistentFlags().Bool("pretty", false, "Pretty-print JSON output")
	cmd.PersistentFlags().String("log-level", "", "Diagnostic log level (debug|info|warn|error)")
	cmd.PersistentFlags().String("log-format", "", "Diagnostic log format (text|json|logfmt)")

	cmd.AddCommand(newProjectsCmd(app))
	cmd.AddCommand(newItemsCmd(app))
	cmd.AddCommand(newBugsCmd(app))
	cmd.AddCommand(newExportCmd(app))
	cmd.AddCommand(newImportCmd(app))
	cmd.AddCommand(newProgressCmd(app))
	cmd.AddCommand(newEventsCmd(app))
	cmd.AddCommand(newPublishCmd(app))
	cmd.AddCommand(newDocsCmd(app))

	return cmd
}

func (app *App) configure(cmd *cobra.Command) error {
	cfg, err := config.Load(cmd.Flags())
	if err != nil {
		return writeErr(cmd, err)
	}
	if _, err := format.Parse(cfg.Format); err != nil {
		return writeErr(cmd, err)
	}
	l, err := logging.New(cmd.ErrOrStderr(), logging.Options{Level: cfg.LogLevel, Format: cfg.LogFormat})
	if err != nil {
		return writeErr(cmd, err)
	}
	app.Dir = cfg.Dir
	app.Backend = cfg.Backend
	app.Format = cfg.Format
	app.Pretty = cfg.Pretty
	app.ConfigFile = cfg.ConfigFile
	app.log = l
	if cfg.ConfigFile != "" {
		l.Debug("config loaded", "file", cfg.ConfigFile)
	}
	return nil
}

// loadTracker opens the configured store and loads the document through the
// migration cascade. The returned func closes the store.
func loadTracker(cmd *cobra.Command, app *App) (*tracker.Tracker, func(), error) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	backend, err := store.ParseBackend(app.Backend)
	if err != nil {
		return nil, nil, err
	}
	kv, err := store.Open(ctx, backend, app.Dir)
	if err != nil {
		return nil, nil, err
	}
	tr, src := tracker.Open(ctx, kv, tracker.WithLogger(app.log))
	app.log.Info("document loaded", "source", src, "backend", backend, "dir", app.Dir)
	closeFn := func() {
		if err := kv.Close(); err != nil {
			app.log.Warn("close store", "err", err)
		}
	}
	return tr, closeFn, nil
}

// openEventLog opens the configured store for reading its change history.
func openEventLog(cmd *cobra.Command, app *App) (store.EventLog, func(), error) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	backend, err := store.ParseBackend(app.Backend)
	if err != nil {
		return nil, nil, err
	}
	kv, err := store.Open(ctx, backend, app.Dir)
	if err != nil {
		return nil, nil, err
	}
	el, ok := kv.(store.EventLog)
	if !ok {
		_ = kv.Close()
		return nil, nil, fmt.Errorf("backend %s keeps no event log", backend)
	}
	return el, func() { _ = kv.Close() }, nil
}

func writeOut(cmd *cobra.Command, app *App, v any) error {
	return format.Write(cmd.OutOrStdout(), v, app.Format, app.Pretty)
}

func writeErr(cmd *cobra.Command, err error) error {
	fmt.Fprintln(cmd.ErrOrStderr(), err.Error())
	return err
}
