// Package publish writes the current project as a small Markdown site: an
// index page with the whole outline and one page per item.
package publish

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"tracker-cli/internal/outline"
	"tracker-cli/internal/tracker"
)

type WriteOptions struct {
	Overwrite bool
}

type WriteResult struct {
	Written []string `json:"written"`
}

func WriteItem(tr *tracker.Tracker, itemID string, toDir string, opt WriteOptions) (WriteResult, error) {
	if tr == nil {
		return WriteResult{}, errors.New("missing tracker")
	}
	itemID = strings.TrimSpace(itemID)
	if itemID == "" {
		return WriteResult{}, errors.New("missing itemID")
	}
	toDir = strings.TrimSpace(toDir)
	if toDir == "" {
		return WriteResult{}, errors.New("missing --to")
	}
	toDir = filepath.Clean(toDir)

	md, err := RenderItemMarkdown(tr, itemID)
	if err != nil {
		return WriteResult{}, err
	}

	outDir := filepath.Join(toDir, "items")
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return WriteResult{}, err
	}
	outPath := filepath.Join(outDir, itemID+".md")
	if err := writeFile(outPath, []byte(md), opt.Overwrite); err != nil {
		return WriteResult{}, err
	}
	return WriteResult{Written: []string{outPath}}, nil
}

// WriteProject writes index.md and items/<id>.md for every item of the
// current project. Collapsed items are published too.
func WriteProject(tr *tracker.Tracker, toDir string, opt WriteOptions) (WriteResult, error) {
	if tr == nil {
		return WriteResult{}, errors.New("missing tracker")
	}
	toDir = strings.TrimSpace(toDir)
	if toDir == "" {
		return WriteResult{}, errors.New("missing --to")
	}
	toDir = filepath.Clean(toDir)

	itemsDir := filepath.Join(toDir, "items")
	if err := os.MkdirAll(itemsDir, 0o755); err != nil {
		return WriteResult{}, err
	}

	indexMD, err := RenderProjectIndexMarkdown(tr)
	if err != nil {
		return WriteResult{}, err
	}
	indexPath := filepath.Join(toDir, "index.md")
	if err := writeFile(indexPath, []byte(indexMD), opt.Overwrite); err != nil {
		return WriteResult{}, err
	}

	var all []string
	tr.Walk(func(n *outline.Node, _ int) { all = append(all, n.ID) })

	// Stop on the first error.
	written := []string{indexPath}
	for _, id := range all {
		md, err := RenderItemMarkdown(tr, id)
		if err != nil {
			return WriteResult{}, err
		}
		p := filepath.Join(itemsDir, id+".md")
		if err := writeFile(p, []byte(md), opt.Overwrite); err != nil {
			return WriteResult{}, err
		}
		written = append(written, p)
	}

	return WriteResult{Written: written}, nil
}

func writeFile(path string, b []byte, overwrite bool) error {
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return errors.New("file exists (use --overwrite): " + path)
		}
	}
	return os.WriteFile(path, b, 0o644)
}
