package summary

import (
	"bytes"
	"reflect"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

// countingRunner serves canned status/diff output and counts diff fetches.
type countingRunner struct {
	status    string
	statusOK  bool
	diffs     map[string]string
	fail      map[string]bool
	diffCalls map[string]int
}

func newCountingRunner(status string) *countingRunner {
	return &countingRunner{
		status:    status,
		statusOK:  true,
		diffs:     map[string]string{},
		fail:      map[string]bool{},
		diffCalls: map[string]int{},
	}
}

func (r *countingRunner) StatusText() (string, bool) {
	return r.status, r.statusOK
}

func (r *countingRunner) FileDiff(path string) (string, bool) {
	r.diffCalls[path]++
	if r.fail[path] {
		return "", false
	}
	return r.diffs[path], true
}

// fakeSurface records the rendered document and cursor position.
type fakeSurface struct {
	lines  []string
	cursor int
}

func (s *fakeSurface) SetLines(lines []string) { s.lines = lines }
func (s *fakeSurface) Cursor() int             { return s.cursor }
func (s *fakeSurface) SetCursor(line int)      { s.cursor = line }

const statusOneFile = `Working copy  (@) : wprqlrtr 08b82958 wip
Parent commit (@-): kxryzmor 41b1a093 base
Working copy changes:
M foo.txt
`

func newTestModel(runner *countingRunner) (*Model, *fakeSurface) {
	surface := &fakeSurface{}
	m := NewModel(runner, surface)
	m.Init()
	return m, surface
}

func lineIndex(t *testing.T, lines []string, want string) int {
	t.Helper()
	for i, line := range lines {
		if line == want {
			return i + 1 // 1-based
		}
	}
	t.Fatalf("line %q not found in document:\n%s", want, strings.Join(lines, "\n"))
	return 0
}

func TestRefresh_DocumentLayout(t *testing.T) {
	runner := newCountingRunner(statusOneFile)
	runner.diffs["foo.txt"] = "--- a/foo.txt\n+++ b/foo.txt\n+new line\n"
	m, surface := newTestModel(runner)

	m.Refresh(0)

	want := []string{
		"Working copy: wprqlrtr wip",
		"Parent commit: kxryzmor base",
		helpLine,
		"",
		"Modified (1)",
		"M foo.txt",
		"",
	}
	if !reflect.DeepEqual(surface.lines, want) {
		t.Errorf("document = %q, want %q", surface.lines, want)
	}

	file := m.FileAt(6)
	if file == nil || file.Path != "foo.txt" {
		t.Fatalf("FileAt(6) = %+v, want foo.txt", file)
	}
	if file.StartLine != 6 || file.EndLine != 6 {
		t.Errorf("collapsed file range = [%d,%d], want [6,6]", file.StartLine, file.EndLine)
	}
}

func TestToggle_RoundTripIsIdempotent(t *testing.T) {
	runner := newCountingRunner(statusOneFile)
	runner.diffs["foo.txt"] = "+one\n+two\n"
	m, surface := newTestModel(runner)

	m.Refresh(0)
	before := append([]string(nil), surface.lines...)

	surface.cursor = lineIndex(t, surface.lines, "M foo.txt")
	m.ToggleAt() // expand
	if !m.FileAt(surface.cursor).Expanded {
		t.Fatal("file should be expanded after first toggle")
	}
	if reflect.DeepEqual(surface.lines, before) {
		t.Fatal("expanding should change the document")
	}

	m.ToggleAt() // collapse
	if m.FileAt(surface.cursor).Expanded {
		t.Error("file should be collapsed after second toggle")
	}
	if !reflect.DeepEqual(surface.lines, before) {
		t.Errorf("document after two toggles = %q, want original %q", surface.lines, before)
	}
}

func TestToggle_CollapseRepositionsCursor(t *testing.T) {
	runner := newCountingRunner(statusOneFile)
	runner.diffs["foo.txt"] = "+one\n+two\n+three\n"
	m, surface := newTestModel(runner)

	m.Refresh(0)
	header := lineIndex(t, surface.lines, "M foo.txt")
	surface.cursor = header
	m.ToggleAt() // expand: diff body now occupies header+1..header+3

	surface.cursor = header + 2 // inside the diff body
	m.ToggleAt()                // collapse

	if surface.cursor != header {
		t.Errorf("cursor after collapse = %d, want header line %d", surface.cursor, header)
	}
	if got := len(surface.lines); surface.cursor > got {
		t.Errorf("cursor %d points past end of %d-line document", surface.cursor, got)
	}
}

func TestRefresh_DiffFetchedOnce(t *testing.T) {
	runner := newCountingRunner(statusOneFile)
	runner.diffs["foo.txt"] = "+line\n"
	m, _ := newTestModel(runner)

	m.Refresh(0)
	m.Refresh(0)
	m.Refresh(0)

	if got := runner.diffCalls["foo.txt"]; got != 1 {
		t.Errorf("diff fetched %d times, want 1 (cached)", got)
	}
}

func TestRefresh_PartialFetchFailure(t *testing.T) {
	status := `Working copy  (@) : wprqlrtr 08b82958 wip
Parent commit (@-): kxryzmor 41b1a093 base
M broken.txt
M fine.txt
`
	runner := newCountingRunner(status)
	runner.diffs["fine.txt"] = "+ok\n"
	runner.fail["broken.txt"] = true
	m, surface := newTestModel(runner)

	m.Refresh(0)

	// Both files render; expanding the failed one shows an empty body.
	broken := m.FileAt(lineIndex(t, surface.lines, "M broken.txt"))
	if broken == nil {
		t.Fatal("failed file missing from document")
	}
	if len(broken.DiffLines) != 0 {
		t.Errorf("failed fetch should yield empty diff, got %v", broken.DiffLines)
	}

	surface.cursor = broken.StartLine
	m.ToggleAt()
	if got := m.FileAt(surface.cursor); got == nil || !got.Expanded {
		t.Fatal("empty-bodied file should still toggle")
	}
	if got := m.FileAt(surface.cursor); got.EndLine != got.StartLine {
		t.Errorf("expanded empty body spans [%d,%d], want header only", got.StartLine, got.EndLine)
	}

	fine := m.FileAt(lineIndex(t, surface.lines, "M fine.txt"))
	if fine == nil || len(fine.DiffLines) != 1 {
		t.Errorf("healthy file should render with its diff, got %+v", fine)
	}
}

func TestRefresh_StatusUnavailableKeepsPriorState(t *testing.T) {
	runner := newCountingRunner(statusOneFile)
	m, surface := newTestModel(runner)

	m.Refresh(0)
	before := append([]string(nil), surface.lines...)

	runner.statusOK = false
	m.Refresh(0)
	if !reflect.DeepEqual(surface.lines, before) {
		t.Error("failed status fetch must leave the document untouched")
	}

	runner.statusOK = true
	runner.status = ""
	m.Refresh(0)
	if !reflect.DeepEqual(surface.lines, before) {
		t.Error("empty status output must leave the document untouched")
	}
}

func TestToggle_NoFileAtCursorIsNoOp(t *testing.T) {
	runner := newCountingRunner(statusOneFile)
	m, surface := newTestModel(runner)

	m.Refresh(0)
	before := append([]string(nil), surface.lines...)

	surface.cursor = 1 // header line, not a file
	m.ToggleAt()
	if !reflect.DeepEqual(surface.lines, before) {
		t.Error("toggling a non-file line must not change the document")
	}
}

func TestRender_DeterministicFileOrder(t *testing.T) {
	status := `Working copy  (@) : wprqlrtr 08b82958
Parent commit (@-): kxryzmor 41b1a093
M zebra.txt
M apple.txt
A new.txt
`
	runner := newCountingRunner(status)
	m, surface := newTestModel(runner)

	m.Refresh(0)

	apple := lineIndex(t, surface.lines, "M apple.txt")
	zebra := lineIndex(t, surface.lines, "M zebra.txt")
	added := lineIndex(t, surface.lines, "A new.txt")
	if apple > zebra {
		t.Error("files within a category should render in lexicographic order")
	}
	if zebra > added {
		t.Error("Modified section must render before Added")
	}
	// Category header carries its file count.
	lineIndex(t, surface.lines, "Modified (2)")
}

func TestInitIdempotentAndTeardown(t *testing.T) {
	runner := newCountingRunner(statusOneFile)
	runner.diffs["foo.txt"] = "+line\n"
	m, surface := newTestModel(runner)

	m.Refresh(0)
	surface.cursor = lineIndex(t, surface.lines, "M foo.txt")
	m.ToggleAt() // expand

	m.Init() // no-op while initialized
	if file := m.FileAt(surface.cursor); file == nil || !file.Expanded {
		t.Fatal("Init on a live model must not clear state")
	}

	m.Teardown()
	m.Refresh(0)
	if file := m.FileAt(lineIndex(t, surface.lines, "M foo.txt")); file.Expanded {
		t.Error("expansion state must not survive teardown")
	}
	if got := runner.diffCalls["foo.txt"]; got != 2 {
		t.Errorf("diff should be refetched after teardown, calls = %d", got)
	}
}

func TestSetLogger_EmitsDebugOnRefresh(t *testing.T) {
	runner := newCountingRunner(statusOneFile)
	runner.fail["foo.txt"] = true
	m, _ := newTestModel(runner)

	var buf bytes.Buffer
	m.SetLogger(log.NewWithOptions(&buf, log.Options{Level: log.DebugLevel}))

	m.Refresh(0)

	out := buf.String()
	if !strings.Contains(out, "refresh") {
		t.Errorf("refresh not logged, output: %q", out)
	}
	if !strings.Contains(out, "diff fetch failed") {
		t.Errorf("failed fetch not logged, output: %q", out)
	}
}

func TestRefresh_StaleEntriesPersist(t *testing.T) {
	runner := newCountingRunner(statusOneFile)
	runner.diffs["foo.txt"] = "+line\n"
	m, surface := newTestModel(runner)

	m.Refresh(0)

	// foo.txt disappears from the next snapshot but stays in the model.
	runner.status = `Working copy  (@) : wprqlrtr 08b82958 wip
Parent commit (@-): kxryzmor 41b1a093 base
M bar.txt
`
	m.Refresh(0)

	if m.FileAt(lineIndex(t, surface.lines, "M foo.txt")) == nil {
		t.Error("entries are kept until teardown, not pruned on refresh")
	}
	if m.FileAt(lineIndex(t, surface.lines, "M bar.txt")) == nil {
		t.Error("new path missing from document")
	}
}
