package format

import (
	"fmt"
	"strings"

	"tracker-cli/internal/model"
	"tracker-cli/internal/outline"
	"tracker-cli/internal/statusutil"
	"tracker-cli/internal/tracker"
)

// Row is one visible line of a project outline.
type Row struct {
	ID          string       `json:"id"`
	Depth       int          `json:"depth"`
	Title       string       `json:"title"`
	Status      model.Status `json:"status"`
	Progress    int          `json:"progress"`
	Expanded    bool         `json:"expanded"`
	HasChildren bool         `json:"hasChildren"`
	Bugs        int          `json:"bugs"`
}

type Outline struct {
	ProjectID string `json:"projectId"`
	Project   string `json:"project"`
	Progress  int    `json:"progress"`
	Rows      []Row  `json:"rows"`
}

// OutlineOf collects rows in display order. Children of collapsed items are
// skipped unless all is set.
func OutlineOf(tr *tracker.Tracker, all bool) Outline {
	p := tr.CurrentProject()
	o := Outline{ProjectID: p.ID, Project: p.Name, Progress: tr.ProjectProgress(), Rows: []Row{}}
	hideBelow := -1
	tr.Walk(func(n *outline.Node, depth int) {
		if hideBelow >= 0 {
			if depth > hideBelow {
				return
			}
			hideBelow = -1
		}
		pct, _ := tr.Progress(n.ID)
		o.Rows = append(o.Rows, Row{
			ID:          n.ID,
			Depth:       depth,
			Title:       n.Title,
			Status:      n.Status,
			Progress:    pct,
			Expanded:    n.Expanded,
			HasChildren: !n.IsLeaf(),
			Bugs:        len(n.Bugs),
		})
		if !all && !n.IsLeaf() && !n.Expanded {
			hideBelow = depth
		}
	})
	return o
}

func (o Outline) Text(r *Renderer) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s  %s\n", r.Bold(o.Project), r.Bar(o.Progress))
	if len(o.Rows) == 0 {
		b.WriteString(r.Muted("(no items)") + "\n")
		return b.String()
	}
	for _, row := range o.Rows {
		glyph := "  "
		if row.HasChildren {
			glyph = "▸ "
			if row.Expanded {
				glyph = "▾ "
			}
		}
		tail := "  " + r.Bar(row.Progress)
		if row.Bugs > 0 {
			tail += "  " + r.Muted(fmt.Sprintf("bugs:%d", row.Bugs))
		}
		tail += "  " + r.Muted(row.ID)
		head := strings.Repeat("  ", row.Depth) + glyph + r.Status(row.Status) + " "
		avail := r.Width - visibleWidth(head) - visibleWidth(tail)
		title := r.Truncate(row.Title, avail)
		if statusutil.IsEndState(row.Status) {
			title = r.Muted(title)
		}
		b.WriteString(head + padRight(title, max(avail, 0)) + tail + "\n")
	}
	return b.String()
}

type BugList struct {
	Project string           `json:"project"`
	Bugs    []outline.BugRef `json:"bugs"`
}

func (l BugList) Text(r *Renderer) string {
	if len(l.Bugs) == 0 {
		return r.Muted("(no bugs)")
	}
	var b strings.Builder
	for _, ref := range l.Bugs {
		code := ""
		if ref.Bug.ErrorCode != "" {
			code = " " + r.Bold(ref.Bug.ErrorCode)
		}
		line := fmt.Sprintf("%s %s%s  %s  %s", padRight(r.BugStatus(ref.Bug.Status), 8), ref.Bug.Name, code,
			r.Muted(strings.Join(ref.Path, " › ")), r.Muted(ref.Bug.ID))
		b.WriteString(r.Truncate(line, r.Width) + "\n")
	}
	return b.String()
}

type ItemDetail struct {
	Item     model.Item `json:"item"`
	Progress int        `json:"progress"`
}

func (d ItemDetail) Text(r *Renderer) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s\n", r.Status(d.Item.Status), r.Bold(d.Item.Title))
	fmt.Fprintf(&b, "%s  %s\n", r.Bar(d.Progress), r.Muted(d.Item.ID))
	if n := len(d.Item.Children); n > 0 {
		fmt.Fprintf(&b, "%s\n", r.Muted(fmt.Sprintf("%d children", n)))
	}
	for _, bug := range d.Item.Bugs {
		line := "  " + r.BugStatus(bug.Status) + " " + bug.Name
		if bug.ErrorCode != "" {
			line += " " + r.Bold(bug.ErrorCode)
		}
		b.WriteString(line + "  " + r.Muted(bug.ID) + "\n")
	}
	if notes := r.Markdown(d.Item.Notes); notes != "" {
		b.WriteString("\n" + notes + "\n")
	}
	return b.String()
}

type ProjectList []tracker.ProjectSummary

func (l ProjectList) Text(r *Renderer) string {
	var b strings.Builder
	for _, p := range l {
		marker := "  "
		name := p.Name
		if p.Current {
			marker = "* "
			name = r.Bold(name)
		}
		fmt.Fprintf(&b, "%s%s  %s  %s\n", marker, padRight(name, 24), r.Bar(p.Progress),
			r.Muted(fmt.Sprintf("%d items  %s", p.Items, p.ID)))
	}
	return b.String()
}

type Progress struct {
	ProjectID string `json:"projectId"`
	Project   string `json:"project"`
	Progress  int    `json:"progress"`
}

func (p Progress) Text(r *Renderer) string {
	return r.Bold(p.Project) + "  " + r.Bar(p.Progress)
}

type EventList []model.Event

func (l EventList) Text(r *Renderer) string {
	if len(l) == 0 {
		return r.Muted("(no events)")
	}
	var b strings.Builder
	for _, ev := range l {
		fmt.Fprintf(&b, "%s  %s  %s\n", r.Muted(ev.TS.Format("2006-01-02 15:04:05")), padRight(ev.Type, 22), ev.EntityID)
	}
	return b.String()
}

type Doc struct {
	Topic    string `json:"topic"`
	Markdown string `json:"markdown"`
}

func (d Doc) Text(r *Renderer) string { return r.Markdown(d.Markdown) }
