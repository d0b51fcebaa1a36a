// Package summary owns the change-summary state machine behind the main
// view: five categorized file sets, lazily fetched per-file diffs, per-file
// expand/collapse state, and a line-addressed rendering of the whole model.
//
// The rendered document is disposable: every refresh rebuilds it from scratch
// and recomputes all line ranges. The only state that survives a refresh is
// the per-path diff cache and the expansion set.
package summary

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/matharman/jjsum/jj"
)

// Runner executes the commands the model needs. ok=false means "no data
// available" and is never treated as a hard error.
type Runner interface {
	// StatusText returns raw `jj status` output.
	StatusText() (output string, ok bool)
	// FileDiff returns the unified diff for one file.
	FileDiff(path string) (output string, ok bool)
}

// Surface is the presentation layer the model renders into. Lines are
// 1-based to match cursor addressing.
type Surface interface {
	SetLines(lines []string)
	Cursor() int
	SetCursor(line int)
}

// FileDiff is one changed file tracked by the model. DiffLines is fetched at
// most once per model lifetime. StartLine/EndLine are the inclusive line
// range of the file's header+diff block in the last rendered document; both
// are 0 until the file has been rendered.
type FileDiff struct {
	Path      string
	DiffLines []string
	Expanded  bool
	StartLine int
	EndLine   int
}

// CategoryState holds one category's files keyed by path. The expanded set
// is the source of truth for which files show their diff body; each
// FileDiff's Expanded flag mirrors membership.
type CategoryState struct {
	Category  jj.Category
	Files     map[string]*FileDiff
	expanded  map[string]struct{}
	StartLine int
	EndLine   int
}

// Model ties one status snapshot to the five category states. It is owned by
// whatever creates the presentation surface and must not be shared across
// goroutines; all mutation happens through Refresh and ToggleAt.
type Model struct {
	runner  Runner
	surface Surface
	logger  *log.Logger
	states  []*CategoryState
	status  *jj.StatusSummary
}

const helpLine = "space: toggle diff  r: refresh  q: quit"

// NewModel creates an uninitialized model bound to a runner and surface.
func NewModel(runner Runner, surface Surface) *Model {
	return &Model{runner: runner, surface: surface}
}

// SetLogger enables debug logging for model operations.
func (m *Model) SetLogger(l *log.Logger) {
	m.logger = l
}

// Init creates the five empty category states. Calling it while already
// initialized is a no-op.
func (m *Model) Init() {
	if m.states != nil {
		return
	}
	m.states = make([]*CategoryState, 0, len(jj.Categories))
	for _, c := range jj.Categories {
		m.states = append(m.states, &CategoryState{
			Category: c,
			Files:    make(map[string]*FileDiff),
			expanded: make(map[string]struct{}),
		})
	}
}

// Teardown clears all file and expansion state. The next Init starts empty.
func (m *Model) Teardown() {
	m.states = nil
	m.status = nil
}

// Refresh re-synchronizes the rendered document with the current jj state.
// When the status output is unavailable the prior state is left untouched.
// cursorTarget repositions the cursor after the content swap when > 0; it is
// used to anchor the cursor to a file header when its diff block collapses.
func (m *Model) Refresh(cursorTarget int) {
	m.Init()

	text, ok := m.runner.StatusText()
	if !ok {
		return
	}
	status := jj.ParseStatus(text)
	if status == nil {
		return
	}
	m.status = status

	fetched := m.merge(status)
	lines := m.render()
	m.surface.SetLines(lines)
	if cursorTarget > 0 {
		m.surface.SetCursor(cursorTarget)
	}

	if m.logger != nil {
		m.logger.Debug("refresh", "lines", len(lines), "diffs fetched", fetched)
	}
}

// ToggleAt flips the expansion state of the file under the cursor, if any,
// and re-renders. Collapsing moves the cursor to the file's header line so it
// never lands on removed content. No file at the cursor is a no-op.
func (m *Model) ToggleAt() {
	if m.states == nil {
		return
	}
	file, state := m.fileAt(m.surface.Cursor())
	if file == nil {
		return
	}

	if _, expanded := state.expanded[file.Path]; expanded {
		delete(state.expanded, file.Path)
		file.Expanded = false
		m.Refresh(file.StartLine)
	} else {
		state.expanded[file.Path] = struct{}{}
		file.Expanded = true
		m.Refresh(0)
	}
}

// Status returns the most recent parsed status snapshot, nil before the
// first successful refresh.
func (m *Model) Status() *jj.StatusSummary {
	return m.status
}

// FileAt returns the file whose rendered block contains the given 1-based
// line, or nil when the line belongs to no file.
func (m *Model) FileAt(line int) *FileDiff {
	file, _ := m.fileAt(line)
	return file
}

func (m *Model) fileAt(line int) (*FileDiff, *CategoryState) {
	if line <= 0 {
		return nil, nil
	}
	for _, state := range m.states {
		for _, file := range state.Files {
			if file.StartLine > 0 && line >= file.StartLine && line <= file.EndLine {
				return file, state
			}
		}
	}
	return nil, nil
}

// merge folds a fresh status snapshot into the category states, fetching
// diffs only for paths not seen before. Paths that disappeared from the
// snapshot stay in the model until teardown.
func (m *Model) merge(status *jj.StatusSummary) (fetched int) {
	for _, state := range m.states {
		for _, path := range status.Paths(state.Category) {
			file, exists := state.Files[path]
			if !exists {
				file = &FileDiff{Path: path, DiffLines: m.fetchDiff(path)}
				state.Files[path] = file
				fetched++
			}
			_, file.Expanded = state.expanded[path]
		}
	}
	return fetched
}

// fetchDiff returns the diff body for a path. A failed fetch yields an empty
// body rather than aborting the refresh.
func (m *Model) fetchDiff(path string) []string {
	text, ok := m.runner.FileDiff(path)
	if !ok || text == "" {
		if m.logger != nil && !ok {
			m.logger.Debug("diff fetch failed", "path", path)
		}
		return nil
	}
	return strings.Split(strings.TrimRight(text, "\n"), "\n")
}

// render serializes the model into display lines, recording line ranges on
// every category and file as it goes. Files render in lexicographic path
// order so output is reproducible across runs.
func (m *Model) render() []string {
	lines := make([]string, 0, 64)
	emit := func(line string) int {
		lines = append(lines, line)
		return len(lines)
	}

	emit(headerLine("Working copy", m.status.ChangeID))
	emit(headerLine("Parent commit", m.status.ParentChangeID))
	emit(helpLine)
	emit("")

	for _, state := range m.states {
		if len(state.Files) == 0 {
			state.StartLine, state.EndLine = 0, 0
			continue
		}

		state.StartLine = emit(fmt.Sprintf("%s (%d)", state.Category.Label(), len(state.Files)))

		paths := make([]string, 0, len(state.Files))
		for path := range state.Files {
			paths = append(paths, path)
		}
		sort.Strings(paths)

		for _, path := range paths {
			file := state.Files[path]
			file.StartLine = emit(state.Category.Sigil() + " " + path)
			if file.Expanded {
				for _, diffLine := range file.DiffLines {
					emit(diffLine)
				}
			}
			file.EndLine = len(lines)
			state.EndLine = file.EndLine
			emit("") // separator after each file
		}
	}

	return lines
}

func headerLine(label string, id jj.ChangeIdentity) string {
	if id.Description == "" {
		return label + ": " + id.ID
	}
	return label + ": " + id.ID + " " + id.Description
}
