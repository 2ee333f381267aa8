package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"tracker-cli/internal/model"
	"tracker-cli/internal/store"
)

func runCLI(t *testing.T, args []string) (stdout []byte, stderr []byte, err error) {
	t.Helper()

	cmd := NewRootCmd()

	var outBuf bytes.Buffer
	var errBuf bytes.Buffer
	cmd.SetOut(&outBuf)
	cmd.SetErr(&errBuf)
	cmd.SetArgs(args)

	e := cmd.Execute()
	return outBuf.Bytes(), errBuf.Bytes(), e
}

// newStore returns an isolated store dir and a runner that expects success
// and a {"data": ...} envelope.
func newStore(t *testing.T, extra ...string) (string, func(args ...string) map[string]any) {
	t.Helper()
	dir := t.TempDir()
	return dir, func(args ...string) map[string]any {
		t.Helper()
		full := append([]string{"--dir", dir}, extra...)
		full = append(full, args...)
		stdout, stderr, err := runCLI(t, full)
		if err != nil {
			t.Fatalf("command failed: tracker %v\nerr: %v\nstderr:\n%s\nstdout:\n%s", args, err, stderr, stdout)
		}
		var env map[string]any
		if err := json.Unmarshal(stdout, &env); err != nil {
			t.Fatalf("unmarshal stdout as json envelope: %v\nstdout:\n%s\nargs: %v", err, stdout, args)
		}
		if _, ok := env["data"]; !ok {
			t.Fatalf("expected JSON envelope to contain data key; got: %v", env)
		}
		return env
	}
}

func data(env map[string]any) map[string]any {
	m, _ := env["data"].(map[string]any)
	return m
}

func itemOf(env map[string]any) map[string]any {
	m, _ := data(env)["item"].(map[string]any)
	return m
}

func idOf(m map[string]any) string {
	s, _ := m["id"].(string)
	return s
}

func rows(env map[string]any) []map[string]any {
	xs, _ := data(env)["rows"].([]any)
	out := make([]map[string]any, 0, len(xs))
	for _, x := range xs {
		if m, ok := x.(map[string]any); ok {
			out = append(out, m)
		}
	}
	return out
}

func TestCLI_FreshStoreStartsWithDefaultDocument(t *testing.T) {
	_, run := newStore(t)
	out := run("items", "list")
	rs := rows(out)
	if len(rs) != 1 || rs[0]["title"] != model.FirstItemTitle {
		t.Fatalf("expected one starter item; got %v", rs)
	}
	if data(out)["project"] != model.FallbackProjectName {
		t.Fatalf("unexpected project %v", data(out)["project"])
	}
}

func TestCLI_ProgressRollsUpAcrossInvocations(t *testing.T) {
	_, run := newStore(t)

	parent := itemOf(run("items", "add", "--title", "Release"))
	pid := idOf(parent)
	if pid == "" || parent["title"] != "Release" {
		t.Fatalf("unexpected created item %v", parent)
	}
	aID := idOf(itemOf(run("items", "child", pid, "--title", "Docs")))
	bID := idOf(itemOf(run("items", "child", pid, "--title", "Code")))

	run("items", "progress", aID, "33")
	shown := run("items", "progress", bID, "34.4")
	if got := itemOf(shown)["progress"]; got != float64(34) {
		t.Fatalf("expected rounded progress 34; got %v", got)
	}

	p := run("items", "show", pid)
	if got := data(p)["progress"]; got != float64(34) {
		t.Fatalf("expected parent mean 34 (half-up); got %v", got)
	}
	if itemOf(p)["status"] != string(model.StatusInProgress) {
		t.Fatalf("expected synced parent status in-progress; got %v", itemOf(p)["status"])
	}

	run("items", "progress", aID, "100")
	run("items", "progress", bID, "250")
	if got := itemOf(run("items", "show", pid))["status"]; got != string(model.StatusDone) {
		t.Fatalf("expected parent done; got %v", got)
	}
	// Starter item (0) and Release (100).
	if got := data(run("progress"))["progress"]; got != float64(50) {
		t.Fatalf("expected project progress 50; got %v", got)
	}
}

func TestCLI_MoveRejectsCycleAndUnknownIDs(t *testing.T) {
	dir, run := newStore(t)
	root := idOf(itemOf(run("items", "add")))
	child := idOf(itemOf(run("items", "child", root)))

	_, stderr, err := runCLI(t, []string{"--dir", dir, "items", "move", root, "inside", child})
	if err == nil || !strings.Contains(string(stderr), "move rejected") {
		t.Fatalf("expected cycle rejection; err=%v stderr=%s", err, stderr)
	}
	_, stderr, err = runCLI(t, []string{"--dir", dir, "items", "move", root, "after", "missing"})
	if err == nil || !strings.Contains(string(stderr), "item not found: missing") {
		t.Fatalf("expected not-found; err=%v stderr=%s", err, stderr)
	}
	_, _, err = runCLI(t, []string{"--dir", dir, "items", "move", root, "beside", child})
	if err == nil {
		t.Fatalf("expected unknown position to fail")
	}

	run("items", "move", child, "before", root)
	rs := rows(run("items", "list"))
	if len(rs) != 3 || rs[1]["id"] != child || rs[1]["depth"] != float64(0) {
		t.Fatalf("expected child promoted to root before its old parent; got %v", rs)
	}
}

func TestCLI_ProjectsLifecycle(t *testing.T) {
	dir, run := newStore(t)
	created := data(run("projects", "add", "Side Quest"))
	sid, _ := created["id"].(string)
	if created["name"] != "Side Quest" || created["current"] != true {
		t.Fatalf("expected new current project; got %v", created)
	}
	if rs := rows(run("items", "list")); len(rs) != 0 {
		t.Fatalf("expected empty new project; got %v", rs)
	}

	run("projects", "rename", sid, "Main Quest")
	del := data(run("projects", "rm", sid))
	if del["deleted"] != sid || del["currentId"] == sid {
		t.Fatalf("unexpected delete result %v", del)
	}

	var list struct {
		Data []map[string]any `json:"data"`
	}
	stdout, _, err := runCLI(t, []string{"--dir", dir, "projects", "list"})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if err := json.Unmarshal(stdout, &list); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(list.Data) != 1 {
		t.Fatalf("expected one project left; got %v", list.Data)
	}
	last, _ := list.Data[0]["id"].(string)
	_, stderr, err := runCLI(t, []string{"--dir", dir, "projects", "rm", last})
	if err == nil || !strings.Contains(string(stderr), "last project") {
		t.Fatalf("expected last-project rejection; err=%v stderr=%s", err, stderr)
	}
}

func TestCLI_BugsAcrossItems(t *testing.T) {
	_, run := newStore(t)
	root := idOf(itemOf(run("items", "add", "--title", "API")))
	leaf := idOf(itemOf(run("items", "child", root, "--title", "Auth")))

	bug := data(run("bugs", "add", leaf, "token expiry", "--code", "E401"))
	bid, _ := bug["id"].(string)
	if bug["status"] != string(model.BugOpen) || bug["errorCode"] != "E401" {
		t.Fatalf("unexpected bug %v", bug)
	}
	if got := data(run("bugs", "cycle", leaf, bid))["status"]; got != string(model.BugFixed) {
		t.Fatalf("expected fixed; got %v", got)
	}
	if got := data(run("bugs", "status", leaf, bid, "wont_fix"))["status"]; got != string(model.BugWontFix) {
		t.Fatalf("expected wont-fix; got %v", got)
	}

	refs, _ := data(run("bugs", "list"))["bugs"].([]any)
	if len(refs) != 1 {
		t.Fatalf("expected one bug; got %v", refs)
	}
	ref := refs[0].(map[string]any)
	path, _ := ref["path"].([]any)
	if ref["itemId"] != leaf || len(path) != 2 || path[0] != "API" || path[1] != "Auth" {
		t.Fatalf("unexpected bug ref %v", ref)
	}

	run("bugs", "rm", leaf, bid)
	if refs, _ := data(run("bugs", "list"))["bugs"].([]any); len(refs) != 0 {
		t.Fatalf("expected no bugs; got %v", refs)
	}
}

func TestCLI_ExportImportRoundTrip(t *testing.T) {
	dir, run := newStore(t)
	root := idOf(itemOf(run("items", "add", "--title", "Ship")))
	run("items", "notes", root, "remember the **changelog**")
	run("bugs", "add", root, "typo")

	outDir := t.TempDir()
	res := data(run("export", "--out", outDir))
	path, _ := res["path"].(string)
	if filepath.Base(path) != "My_Project.json" {
		t.Fatalf("expected suggested filename; got %q", path)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read export: %v", err)
	}
	var exported []model.Item
	if err := json.Unmarshal(b, &exported); err != nil {
		t.Fatalf("export is not an item list: %v", err)
	}

	run("projects", "add", "Copy")
	imported := rows(run("import", path))
	if len(imported) != 2 || imported[1]["title"] != "Ship" {
		t.Fatalf("unexpected imported rows %v", imported)
	}
	if imported[1]["id"] == root {
		t.Fatalf("expected fresh ids on import")
	}

	_, stderr, err := runCLI(t, []string{"--dir", dir, "import", writeFile(t, `{"not":"a list"}`)})
	if err == nil || !strings.Contains(string(stderr), "import rejected") {
		t.Fatalf("expected invalid import to fail; err=%v stderr=%s", err, stderr)
	}
	if rs := rows(run("items", "list")); len(rs) != 2 {
		t.Fatalf("expected project unchanged after failed import; got %v", rs)
	}
}

func TestCLI_ExportToStdout(t *testing.T) {
	dir, _ := newStore(t)
	stdout, _, err := runCLI(t, []string{"--dir", dir, "export", "--out", "-"})
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if !strings.HasPrefix(string(stdout), "[\n  {") {
		t.Fatalf("expected raw indented item list; got %q", stdout)
	}
}

func TestCLI_BoltBackendKeepsNoEventLog(t *testing.T) {
	dir, run := newStore(t, "--backend", "bolt")
	run("items", "add", "--title", "x")
	if _, err := os.Stat(filepath.Join(dir, "tracker.bolt")); err != nil {
		t.Fatalf("expected bolt file: %v", err)
	}
	if _, _, err := runCLI(t, []string{"--dir", dir, "--backend", "bolt", "events"}); err == nil {
		t.Fatalf("expected events to be unavailable on bolt")
	}
}

func TestCLI_EventsRecordMutations(t *testing.T) {
	dir, run := newStore(t)
	id := idOf(itemOf(run("items", "add")))
	run("items", "cycle", id)

	var evs struct {
		Data []model.Event `json:"data"`
	}
	stdout, _, err := runCLI(t, []string{"--dir", dir, "events", "--limit", "2"})
	if err != nil {
		t.Fatalf("events: %v", err)
	}
	if err := json.Unmarshal(stdout, &evs); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(evs.Data) != 2 || evs.Data[0].Type != "item.set_status" || evs.Data[1].Type != "item.create" {
		t.Fatalf("unexpected events %+v", evs.Data)
	}
	if evs.Data[0].EntityID != id {
		t.Fatalf("expected event for %s; got %s", id, evs.Data[0].EntityID)
	}
}

func TestCLI_NotFoundAndFormats(t *testing.T) {
	dir, _ := newStore(t)
	_, stderr, err := runCLI(t, []string{"--dir", dir, "items", "title", "nope", "x"})
	if err == nil || !strings.Contains(string(stderr), "item not found: nope") {
		t.Fatalf("expected not found; err=%v stderr=%s", err, stderr)
	}

	stdout, _, err := runCLI(t, []string{"--dir", dir, "--format", "text", "items", "list"})
	if err != nil {
		t.Fatalf("text list: %v", err)
	}
	if !strings.Contains(string(stdout), model.FirstItemTitle) || strings.Contains(string(stdout), "\x1b[") {
		t.Fatalf("expected plain text outline; got %q", stdout)
	}

	stdout, _, err = runCLI(t, []string{"--dir", dir, "--format", "yaml", "progress"})
	if err != nil {
		t.Fatalf("yaml progress: %v", err)
	}
	if !strings.Contains(string(stdout), "progress: 0") {
		t.Fatalf("expected yaml; got %q", stdout)
	}

	if _, _, err := runCLI(t, []string{"--dir", dir, "--format", "edn", "progress"}); err == nil {
		t.Fatalf("expected unknown format to fail")
	}
	if _, _, err := runCLI(t, []string{"--dir", dir, "--backend", "redis", "progress"}); err == nil {
		t.Fatalf("expected unknown backend to fail")
	}
}

func TestCLI_NotesFromStdin(t *testing.T) {
	dir, run := newStore(t)
	id := idOf(itemOf(run("items", "add")))

	cmd := NewRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetIn(strings.NewReader("line one\nline two"))
	cmd.SetArgs([]string{"--dir", dir, "items", "notes", id, "-"})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("notes: %v", err)
	}
	if got := itemOf(run("items", "show", id))["notes"]; got != "line one\nline two" {
		t.Fatalf("unexpected notes %q", got)
	}
}

func writeFile(t *testing.T, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "in.json")
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	return p
}

func TestCLI_Docs(t *testing.T) {
	_, run := newStore(t)
	topics, _ := data(run("docs"))["topics"].([]any)
	if len(topics) == 0 {
		t.Fatalf("expected docs topics")
	}
	if got := data(run("docs", "moves"))["topic"]; got != "moves" {
		t.Fatalf("unexpected doc %v", got)
	}
	stdout, _, err := runCLI(t, []string{"docs", "progress", "--raw", "--dir", t.TempDir()})
	if err != nil || !strings.HasPrefix(string(stdout), "# Progress") {
		t.Fatalf("expected raw markdown; err=%v out=%q", err, stdout)
	}
	if _, _, err := runCLI(t, []string{"docs", "nope", "--dir", t.TempDir()}); err == nil {
		t.Fatalf("expected unknown topic to fail")
	}
}

func TestCLI_PublishWritesMarkdown(t *testing.T) {
	_, run := newStore(t)
	first := idOf(rows(run("items", "list"))[0])

	to := t.TempDir()
	written, _ := data(run("publish", "--to", to))["written"].([]any)
	if len(written) != 2 {
		t.Fatalf("expected index and one item page, got %v", written)
	}
	b, err := os.ReadFile(filepath.Join(to, "items", first+".md"))
	if err != nil {
		t.Fatalf("read item page: %v", err)
	}
	if !strings.HasPrefix(string(b), "# My First Item") {
		t.Fatalf("unexpected page:\n%s", b)
	}

	if _, _, err := runCLI(t, []string{"--dir", t.TempDir(), "publish", "--to", to}); err == nil {
		t.Fatalf("expected publish without --overwrite to refuse existing files")
	}
	if _, _, err := runCLI(t, []string{"--dir", t.TempDir(), "publish", "--to", to, "--item", "nope"}); err == nil {
		t.Fatalf("expected unknown item to fail")
	}
}

func TestCLI_FreshStoreIDsAreStableAcrossRuns(t *testing.T) {
	_, run := newStore(t)

	id := idOf(rows(run("items", "list"))[0])
	if got := itemOf(run("items", "title", id, "Renamed"))["title"]; got != "Renamed" {
		t.Fatalf("expected retitled item; got %v", got)
	}
	if again := idOf(rows(run("items", "list"))[0]); again != id {
		t.Fatalf("expected stable item id %q; got %q", id, again)
	}
}

func TestCLI_LegacyStoreProjectIDIsStableAcrossRuns(t *testing.T) {
	dir, run := newStore(t)

	ctx := context.Background()
	kv, err := store.Open(ctx, store.BackendSQLite, dir)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	legacy := `[{"id":"old-1","title":"Legacy","status":"todo","progress":0,"expanded":true,"children":[],"bugs":[],"notes":"","detailOpen":false}]`
	if err := kv.Set(ctx, store.LegacyKey, legacy); err != nil {
		t.Fatalf("seed legacy key: %v", err)
	}
	_ = kv.Close()

	projectID := func() string {
		xs, _ := run("projects", "list")["data"].([]any)
		if len(xs) != 1 {
			t.Fatalf("expected one migrated project; got %v", xs)
		}
		m, _ := xs[0].(map[string]any)
		return idOf(m)
	}
	pid := projectID()
	if again := projectID(); again != pid {
		t.Fatalf("expected stable project id %q; got %q", pid, again)
	}
	run("projects", "rename", pid, "Renamed")
	if xs, _ := run("projects", "list")["data"].([]any); xs[0].(map[string]any)["name"] != "Renamed" {
		t.Fatalf("expected renamed project; got %v", xs)
	}

	kv, err = store.Open(ctx, store.BackendSQLite, dir)
	if err != nil {
		t.Fatalf("reopen store: %v", err)
	}
	defer kv.Close()
	if raw, _, _ := kv.Get(ctx, store.LegacyKey); raw != legacy {
		t.Fatalf("expected legacy key untouched; got %q", raw)
	}
}
