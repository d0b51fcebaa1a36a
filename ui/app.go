package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"

	"github.com/matharman/jjsum/jj"
	"github.com/matharman/jjsum/summary"
)

// clientRunner adapts the jj client to the summary model's Runner interface.
// A failed command surfaces as "no data" rather than an error.
type clientRunner struct {
	client *jj.Client
}

func (r clientRunner) StatusText() (string, bool) {
	out, err := r.client.Status(context.Background())
	if err != nil {
		return "", false
	}
	return out, true
}

func (r clientRunner) FileDiff(path string) (string, bool) {
	out, err := r.client.FileDiff(context.Background(), path)
	if err != nil {
		return "", false
	}
	return out, true
}

// opDoneMsg reports the outcome of a jj action triggered from the UI.
type opDoneMsg struct {
	label string
	err   error
}

// App is the main application model. It doubles as the presentation surface
// the summary model renders into: the model pushes plain lines via SetLines
// and reads the cursor back for hit-testing.
type App struct {
	client  *jj.Client
	model   *summary.Model
	watcher *fsnotify.Watcher

	keys     KeyMap
	help     help.Model
	viewport viewport.Model
	overlay  *describeOverlay

	lines     []string
	cursor    int // 0-based index into lines
	status    string
	statusErr bool

	width  int
	height int
	ready  bool
}

// NewApp wires a summary model to a new application surface. watcher may be
// nil when filesystem auto-refresh is disabled.
func NewApp(client *jj.Client, watcher *fsnotify.Watcher) *App {
	app := &App{
		client:  client,
		watcher: watcher,
		keys:    DefaultKeyMap(),
		help:    help.New(),
	}
	app.model = summary.NewModel(clientRunner{client: client}, app)
	return app
}

// SetLogger routes the summary model's debug logging. A nil logger disables
// it.
func (a *App) SetLogger(l *log.Logger) {
	a.model.SetLogger(l)
}

// SetLines replaces the displayed document. Part of summary.Surface.
func (a *App) SetLines(lines []string) {
	a.lines = lines
	if a.cursor >= len(lines) {
		a.cursor = max(0, len(lines)-1)
	}
	a.syncViewport()
}

// Cursor returns the 1-based cursor line. Part of summary.Surface.
func (a *App) Cursor() int {
	return a.cursor + 1
}

// SetCursor moves the cursor to a 1-based line. Part of summary.Surface.
func (a *App) SetCursor(line int) {
	a.cursor = clamp(line-1, 0, max(0, len(a.lines)-1))
	a.ensureCursorVisible()
	a.syncViewport()
}

func (a *App) Init() tea.Cmd {
	a.model.Refresh(0)
	if a.watcher != nil {
		return waitForChange(a.watcher)
	}
	return nil
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.help.Width = msg.Width

		contentHeight := max(1, msg.Height-2) // status bar + help bar
		if !a.ready {
			a.viewport = viewport.New(msg.Width, contentHeight)
			a.ready = true
		} else {
			a.viewport.Width = msg.Width
			a.viewport.Height = contentHeight
		}
		if a.overlay != nil {
			a.overlay.SetSize(msg.Width, msg.Height)
		}
		a.syncViewport()
		return a, nil

	case repoChangedMsg:
		a.model.Refresh(0)
		a.setStatus("refreshed: repository changed on disk", false)
		return a, waitForChange(a.watcher)

	case watchErrMsg:
		a.setStatus(fmt.Sprintf("watch error: %v", msg.err), true)
		return a, waitForChange(a.watcher)

	case opDoneMsg:
		if msg.err != nil {
			a.setStatus(fmt.Sprintf("%s failed: %v", msg.label, msg.err), true)
		} else {
			a.setStatus(msg.label+" done", false)
		}
		a.model.Refresh(0)
		return a, nil

	case tea.KeyMsg:
		if a.overlay != nil {
			return a.updateOverlay(msg)
		}
		return a.handleKey(msg)
	}

	return a, nil
}

func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, a.keys.Quit):
		a.model.Teardown()
		if a.watcher != nil {
			a.watcher.Close()
		}
		return a, tea.Quit

	case key.Matches(msg, a.keys.Help):
		a.help.ShowAll = !a.help.ShowAll

	case key.Matches(msg, a.keys.Up):
		a.moveCursor(-1)
	case key.Matches(msg, a.keys.Down):
		a.moveCursor(1)
	case key.Matches(msg, a.keys.PageUp):
		a.moveCursor(-a.viewport.Height / 2)
	case key.Matches(msg, a.keys.PageDown):
		a.moveCursor(a.viewport.Height / 2)
	case key.Matches(msg, a.keys.Home):
		a.SetCursor(1)
	case key.Matches(msg, a.keys.End):
		a.SetCursor(len(a.lines))

	case key.Matches(msg, a.keys.Toggle):
		a.model.ToggleAt()

	case key.Matches(msg, a.keys.Refresh):
		a.setStatus("", false)
		a.model.Refresh(0)

	case key.Matches(msg, a.keys.Describe):
		initial := ""
		if st := a.model.Status(); st != nil {
			initial = st.ChangeID.Description
		}
		a.overlay = newDescribeOverlay(initial)
		a.overlay.SetSize(a.width, a.height)
		return a, a.overlay.Init()

	case key.Matches(msg, a.keys.New):
		a.setStatus("creating new change...", false)
		return a, a.runOp("new", func(ctx context.Context) error {
			return a.client.NewChange(ctx, "")
		})

	case key.Matches(msg, a.keys.Push):
		a.setStatus("pushing...", false)
		return a, a.runOp("git push", func(ctx context.Context) error {
			_, err := a.client.GitPush(ctx)
			return err
		})

	case key.Matches(msg, a.keys.Fetch):
		a.setStatus("fetching...", false)
		return a, a.runOp("git fetch", func(ctx context.Context) error {
			_, err := a.client.GitFetch(ctx)
			return err
		})
	}

	return a, nil
}

func (a *App) updateOverlay(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		a.overlay = nil
		return a, nil
	case "enter":
		value := a.overlay.Value()
		a.overlay = nil
		return a, a.runOp("describe", func(ctx context.Context) error {
			return a.client.Describe(ctx, value)
		})
	}
	return a, a.overlay.Update(msg)
}

func (a *App) setStatus(text string, isErr bool) {
	a.status = text
	a.statusErr = isErr
}

// runOp executes a jj action off the update loop and reports its outcome.
func (a *App) runOp(label string, op func(context.Context) error) tea.Cmd {
	return func() tea.Msg {
		return opDoneMsg{label: label, err: op(context.Background())}
	}
}

func (a *App) moveCursor(delta int) {
	a.cursor = clamp(a.cursor+delta, 0, max(0, len(a.lines)-1))
	a.ensureCursorVisible()
	a.syncViewport()
}

func (a *App) ensureCursorVisible() {
	if !a.ready {
		return
	}
	if a.cursor < a.viewport.YOffset {
		a.viewport.SetYOffset(a.cursor)
	} else if a.cursor >= a.viewport.YOffset+a.viewport.Height {
		a.viewport.SetYOffset(a.cursor - a.viewport.Height + 1)
	}
}

func (a *App) syncViewport() {
	if !a.ready {
		return
	}
	a.viewport.SetContent(a.renderContent())
}

// renderContent styles the plain document for display. The raw lines stay
// untouched; styling is applied per render pass.
func (a *App) renderContent() string {
	rendered := make([]string, len(a.lines))
	for i, line := range a.lines {
		if i == a.cursor {
			rendered[i] = selectedStyle.Render(line)
			continue
		}
		rendered[i] = a.styleLine(i, line)
	}
	return strings.Join(rendered, "\n")
}

// styleLine picks a style from the line's role in the document, using the
// model's line-range index to tell file headers from diff bodies.
func (a *App) styleLine(i int, line string) string {
	switch {
	case i < 2:
		return headerStyle.Render(line)
	case i == 2:
		return dimmedStyle.Render(line)
	case line == "":
		return line
	}

	lineNo := i + 1
	file := a.model.FileAt(lineNo)
	if file == nil {
		// Only category headers remain unclaimed below the document header.
		return categoryStyle.Render(line)
	}
	if file.StartLine == lineNo {
		sigil := line[:1]
		return sigilStyle(sigil).Render(sigil) + line[1:]
	}
	return styleDiffLine(line)
}

func styleDiffLine(line string) string {
	switch {
	case strings.HasPrefix(line, "+++ ") || strings.HasPrefix(line, "--- "):
		return diffMetaStyle.Render(line)
	case strings.HasPrefix(line, "@@"):
		return diffHunkStyle.Render(line)
	case strings.HasPrefix(line, "+"):
		return diffAddStyle.Render(line)
	case strings.HasPrefix(line, "-"):
		return diffRemoveStyle.Render(line)
	case strings.HasPrefix(line, "diff --git"), strings.HasPrefix(line, "index "):
		return dimmedStyle.Render(line)
	default:
		return diffContextStyle.Render(line)
	}
}

func (a *App) View() string {
	if !a.ready {
		return "Loading..."
	}
	if a.overlay != nil {
		return a.overlay.View()
	}

	statusLine := statusBarStyle.Render(a.status)
	if a.statusErr {
		statusLine = errorStyle.Render(a.status)
	}
	return a.viewport.View() + "\n" + statusLine + "\n" + a.help.View(a.keys)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
