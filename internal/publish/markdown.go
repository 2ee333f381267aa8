package publish

import (
	"bytes"
	"fmt"
	"strings"

	"tracker-cli/internal/model"
	"tracker-cli/internal/outline"
	"tracker-cli/internal/tracker"
)

// RenderItemMarkdown renders one item of the current project as a standalone page.
func RenderItemMarkdown(tr *tracker.Tracker, itemID string) (string, error) {
	if tr == nil {
		return "", fmt.Errorf("missing tracker")
	}
	item, ok := tr.Item(strings.TrimSpace(itemID))
	if !ok {
		return "", fmt.Errorf("item not found: %s", itemID)
	}
	progress, _ := tr.Progress(item.ID)

	var buf bytes.Buffer
	writeLn := func(s string) {
		buf.WriteString(s)
		buf.WriteString("\n")
	}

	writeLn("# " + titleOf(item.Title))
	writeLn("")
	writeLn("## Meta")
	writeLn("")
	writeLn("- ID: " + item.ID)
	p := tr.CurrentProject()
	writeLn("- Project: " + p.Name + " (" + p.ID + ")")
	writeLn("- Status: " + string(item.Status))
	writeLn(fmt.Sprintf("- Progress: %d%%", progress))

	if notes := strings.TrimSpace(item.Notes); notes != "" {
		writeLn("")
		writeLn("## Notes")
		writeLn("")
		writeLn(notes)
	}

	if len(item.Children) > 0 {
		writeLn("")
		writeLn("## Children")
		writeLn("")
		for _, ch := range item.Children {
			writeLn(fmt.Sprintf("- [%s](%s.md) (%s)", titleOf(ch.Title), ch.ID, ch.Status))
		}
	}

	if len(item.Bugs) > 0 {
		writeLn("")
		writeLn("## Bugs")
		writeLn("")
		for _, b := range item.Bugs {
			writeLn(bugLine(b))
		}
	}

	return buf.String(), nil
}

func bugLine(b model.Bug) string {
	line := "- " + titleOf(b.Name) + " (" + string(b.Status) + ")"
	if code := strings.TrimSpace(b.ErrorCode); code != "" {
		line += " `" + code + "`"
	}
	return line
}

// RenderProjectIndexMarkdown renders the current project's full outline with
// links into items/.
func RenderProjectIndexMarkdown(tr *tracker.Tracker) (string, error) {
	if tr == nil {
		return "", fmt.Errorf("missing tracker")
	}
	p := tr.CurrentProject()

	var buf bytes.Buffer
	writeLn := func(s string) {
		buf.WriteString(s)
		buf.WriteString("\n")
	}

	writeLn("# " + p.Name + " (" + p.ID + ")")
	writeLn("")
	writeLn(fmt.Sprintf("Progress: %d%%", tr.ProjectProgress()))
	writeLn("")
	writeLn("## Items")
	writeLn("")

	tr.Walk(func(n *outline.Node, depth int) {
		renderItemLine(&buf, n, depth)
	})
	return buf.String(), nil
}

func renderItemLine(buf *bytes.Buffer, n *outline.Node, depth int) {
	if buf == nil || n == nil {
		return
	}
	prefix := strings.Repeat("  ", depth)
	fmt.Fprintf(buf, "%s- [%s](items/%s.md) (%s)\n", prefix, titleOf(n.Title), n.ID, n.Status)
}

func titleOf(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "(untitled)"
	}
	return s
}
