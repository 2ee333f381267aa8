package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"tracker-cli/internal/format"

	"github.com/spf13/cobra"
)

func newExportCmd(app *App) *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the current project's items as JSON",
		Long: `Writes the current project's root item list (no project name or id) as
indented JSON. By default the file is named after the project
("My Project" -> My_Project.json) in the working directory. --out names a
file or a directory; "--out -" writes the JSON to stdout.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tr, done, err := loadTracker(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer done()
			exp, err := tr.ExportProject()
			if err != nil {
				return writeErr(cmd, err)
			}
			if out == "-" {
				_, err := fmt.Fprintln(cmd.OutOrStdout(), string(exp.Data))
				return err
			}
			path := exportPath(out, exp.Filename)
			if err := os.WriteFile(path, append(exp.Data, '\n'), 0o644); err != nil {
				return writeErr(cmd, fmt.Errorf("write export: %w", err))
			}
			return writeOut(cmd, app, map[string]any{"data": map[string]any{
				"path":  path,
				"bytes": len(exp.Data) + 1,
			}})
		},
	}
	cmd.Flags().StringVar(&out, "out", "", "Output file or directory (\"-\" for stdout)")
	return cmd
}

func exportPath(out, suggested string) string {
	if out == "" {
		return suggested
	}
	if st, err := os.Stat(out); err == nil && st.IsDir() {
		return filepath.Join(out, suggested)
	}
	return out
}

func newImportCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file|->",
		Short: "Replace the current project's items with an exported item list",
		Long: `Reads a JSON item list (as written by export) and replaces the current
project's items with it. Every imported item and bug gets a fresh id.
Invalid input leaves the project unchanged.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var b []byte
			var err error
			if args[0] == "-" {
				b, err = io.ReadAll(cmd.InOrStdin())
			} else {
				b, err = os.ReadFile(args[0])
			}
			if err != nil {
				return writeErr(cmd, fmt.Errorf("read import: %w", err))
			}

			tr, done, err := loadTracker(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer done()
			if err := tr.Import(string(b)); err != nil {
				return writeErr(cmd, errors.Join(errRejected("import", "project unchanged"), err))
			}
			return writeOut(cmd, app, map[string]any{"data": format.OutlineOf(tr, true)})
		},
	}
}

func newProgressCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "progress",
		Short: "Show the current project's overall progress",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tr, done, err := loadTracker(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer done()
			p := tr.CurrentProject()
			return writeOut(cmd, app, map[string]any{"data": format.Progress{
				ProjectID: p.ID,
				Project:   p.Name,
				Progress:  tr.ProjectProgress(),
			}})
		},
	}
}
