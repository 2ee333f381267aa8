package publish

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"tracker-cli/internal/ids"
	"tracker-cli/internal/model"
	"tracker-cli/internal/tracker"
)

func sampleTracker() *tracker.Tracker {
	parent := model.NewItem("item-p", "Parent")
	a := model.NewItem("item-a", "Hello")
	a.Notes = "Some **markdown**."
	a.Progress = 40
	a.Status = model.StatusInProgress
	a.Bugs = []model.Bug{{ID: "bug-1", Name: "Crash", Status: model.BugOpen, ErrorCode: "E42"}}
	parent.Children = []model.Item{a}
	doc := model.Document{
		Projects:  []model.Project{{ID: "proj-test", Name: "Test Project", Items: []model.Item{parent}}},
		CurrentID: "proj-test",
	}
	return tracker.New(doc, tracker.WithIDGenerator(ids.Sequence("n")))
}

func TestRenderItemMarkdown_IncludesNotesAndBugs(t *testing.T) {
	t.Parallel()

	md, err := RenderItemMarkdown(sampleTracker(), "item-a")
	if err != nil {
		t.Fatalf("RenderItemMarkdown: %v", err)
	}
	if !strings.Contains(md, "# Hello") {
		t.Fatalf("expected title header, got:\n%s", md)
	}
	if !strings.Contains(md, "- Progress: 40%") {
		t.Fatalf("expected progress, got:\n%s", md)
	}
	if !strings.Contains(md, "## Notes") || !strings.Contains(md, "Some **markdown**.") {
		t.Fatalf("expected notes section, got:\n%s", md)
	}
	if !strings.Contains(md, "## Bugs") || !strings.Contains(md, "Crash (open) `E42`") {
		t.Fatalf("expected bugs section, got:\n%s", md)
	}

	if _, err := RenderItemMarkdown(sampleTracker(), "missing"); err == nil {
		t.Fatalf("expected error for unknown item")
	}
}

func TestRenderItemMarkdown_ParentLinksChildren(t *testing.T) {
	t.Parallel()

	md, err := RenderItemMarkdown(sampleTracker(), "item-p")
	if err != nil {
		t.Fatalf("RenderItemMarkdown: %v", err)
	}
	if !strings.Contains(md, "- [Hello](item-a.md) (in-progress)") {
		t.Fatalf("expected child link, got:\n%s", md)
	}
}

func TestWriteProject_WritesIndexAndItems(t *testing.T) {
	t.Parallel()

	to := t.TempDir()
	res, err := WriteProject(sampleTracker(), to, WriteOptions{Overwrite: true})
	if err != nil {
		t.Fatalf("WriteProject: %v", err)
	}
	if len(res.Written) != 3 {
		t.Fatalf("expected 3 written files; got %d (%v)", len(res.Written), res.Written)
	}
	index, err := os.ReadFile(filepath.Join(to, "index.md"))
	if err != nil {
		t.Fatalf("read index.md: %v", err)
	}
	if !strings.Contains(string(index), "  - [Hello](items/item-a.md)") {
		t.Fatalf("expected nested link in index, got:\n%s", index)
	}
	if _, err := os.Stat(filepath.Join(to, "items", "item-a.md")); err != nil {
		t.Fatalf("stat item-a.md: %v", err)
	}

	if _, err := WriteProject(sampleTracker(), to, WriteOptions{}); err == nil {
		t.Fatalf("expected existing files to be refused without overwrite")
	}
}

func TestWriteItem_SinglePage(t *testing.T) {
	t.Parallel()

	to := t.TempDir()
	res, err := WriteItem(sampleTracker(), "item-a", to, WriteOptions{})
	if err != nil {
		t.Fatalf("WriteItem: %v", err)
	}
	if len(res.Written) != 1 || filepath.Base(res.Written[0]) != "item-a.md" {
		t.Fatalf("unexpected result: %v", res.Written)
	}
}
