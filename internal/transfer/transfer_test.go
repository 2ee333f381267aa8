package transfer

import (
	"encoding/json"
	"errors"
	"reflect"
	"strings"
	"testing"

	"tracker-cli/internal/ids"
	"tracker-cli/internal/model"
)

func sampleItems() []model.Item {
	child := model.NewItem("c1", "Child")
	child.Progress = 70
	child.Status = model.StatusInProgress
	child.Bugs = []model.Bug{{ID: "b1", Name: "npe", Status: model.BugFixed, ErrorCode: "E7"}}

	root := model.NewItem("r1", "Root")
	root.Children = []model.Item{child}
	root.Notes = "watch <npe>"
	return []model.Item{root, model.NewItem("r2", "Second")}
}

func TestExport_PrettyRootListOnly(t *testing.T) {
	b, err := Export(sampleItems())
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	s := string(b)
	if !strings.HasPrefix(s, "[\n  {\n    \"id\": \"r1\"") {
		t.Fatalf("expected 2-space indented array; got:\n%s", s)
	}
	var back []model.Item
	if err := json.Unmarshal(b, &back); err != nil {
		t.Fatalf("unmarshal export: %v", err)
	}
	if !reflect.DeepEqual(back, sampleItems()) {
		t.Fatalf("expected export to decode to the same items")
	}

	empty, _ := Export(nil)
	if string(empty) != "[]" {
		t.Fatalf("expected [] for empty export; got %q", empty)
	}
}

func TestSuggestedFilename(t *testing.T) {
	cases := map[string]string{
		"My Project":     "My_Project.json",
		"a \t b\nc":      "a_b_c.json",
		"single":         "single.json",
		" padded  name ": "_padded_name_.json",
	}
	for in, want := range cases {
		if got := SuggestedFilename(in); got != want {
			t.Fatalf("SuggestedFilename(%q): expected %q; got %q", in, want, got)
		}
	}
}

func TestParse_AcceptsExportAndSparseItems(t *testing.T) {
	b, _ := Export(sampleItems())
	items, err := Parse(string(b))
	if err != nil {
		t.Fatalf("parse export: %v", err)
	}
	if !reflect.DeepEqual(items, sampleItems()) {
		t.Fatalf("expected parsed items to equal exported ones")
	}

	sparse, err := Parse(`[{"title":"only a title"},{"id":"x","children":null}]`)
	if err != nil {
		t.Fatalf("parse sparse: %v", err)
	}
	if len(sparse) != 2 || sparse[0].Title != "only a title" {
		t.Fatalf("unexpected sparse parse %+v", sparse)
	}
}

func TestParse_Rejects(t *testing.T) {
	cases := map[string]error{
		`{"projects":[]}`:              ErrNotAList,
		`"just a string"`:              ErrNotAList,
		`not json`:                     ErrMalformed,
		`[1, 2]`:                       ErrMalformed,
		`[null]`:                       ErrMalformed,
		`[{"progress":"high"}]`:        ErrMalformed,
		`[{"children":[{"bugs":{}}]}]`: ErrMalformed,
		`[{"progress":42.5}]`:          ErrMalformed,
		`[] []`:                        ErrMalformed,
	}
	for in, want := range cases {
		if _, err := Parse(in); !errors.Is(err, want) {
			t.Fatalf("Parse(%q): expected %v; got %v", in, want, err)
		}
	}
}

func TestRegenerateIDs_FreshIDsSameShape(t *testing.T) {
	in := sampleItems()
	out := RegenerateIDs(in, ids.Sequence("new"))

	if out[0].ID != "new-1" || out[0].Children[0].ID != "new-2" || out[0].Children[0].Bugs[0].ID != "new-3" || out[1].ID != "new-4" {
		t.Fatalf("unexpected ids %q %q %q %q", out[0].ID, out[0].Children[0].ID, out[0].Children[0].Bugs[0].ID, out[1].ID)
	}
	if in[0].ID != "r1" || in[0].Children[0].Bugs[0].ID != "b1" {
		t.Fatalf("expected input untouched")
	}

	strip := func(items []model.Item) []model.Item {
		var walk func([]model.Item) []model.Item
		walk = func(xs []model.Item) []model.Item {
			res := make([]model.Item, 0, len(xs))
			for _, it := range xs {
				it.ID = ""
				it.Children = walk(it.Children)
				bugs := make([]model.Bug, 0, len(it.Bugs))
				for _, b := range it.Bugs {
					b.ID = ""
					bugs = append(bugs, b)
				}
				it.Bugs = bugs
				res = append(res, it)
			}
			return res
		}
		return walk(items)
	}
	if !reflect.DeepEqual(strip(in), strip(out)) {
		t.Fatalf("expected identical structure and fields apart from ids")
	}
}

func TestExport_KeepsMarkupInNotes(t *testing.T) {
	it := model.NewItem("r1", "Root")
	it.Notes = "see <Crash> & <Hang>"
	b, err := Export([]model.Item{it})
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if !strings.Contains(string(b), `"notes": "see <Crash> & <Hang>"`) {
		t.Fatalf("expected unescaped notes; got:\n%s", b)
	}
	if strings.HasSuffix(string(b), "\n") {
		t.Fatalf("expected no trailing newline")
	}
}
