package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// describeOverlay is a centered floating window for editing the working-copy
// change description.
type describeOverlay struct {
	input  textinput.Model
	title  string
	width  int
	height int
}

func newDescribeOverlay(initial string) *describeOverlay {
	ti := textinput.New()
	ti.Placeholder = "describe this change"
	ti.SetValue(initial)
	ti.Focus()
	ti.CharLimit = 500
	ti.Width = 60

	return &describeOverlay{
		input: ti,
		title: "Describe",
	}
}

func (o *describeOverlay) Init() tea.Cmd {
	return textinput.Blink
}

func (o *describeOverlay) SetSize(width, height int) {
	o.width = width
	o.height = height
	o.input.Width = min(60, width-8)
}

func (o *describeOverlay) Update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	o.input, cmd = o.input.Update(msg)
	return cmd
}

func (o *describeOverlay) Value() string {
	return o.input.Value()
}

func (o *describeOverlay) View() string {
	content := strings.Join([]string{
		overlayTitleStyle.Render(o.title),
		"",
		o.input.View(),
		"",
		dimmedStyle.Render("enter save • esc cancel"),
	}, "\n")

	window := overlayBorderStyle.Width(min(70, max(20, o.width-4))).Render(content)

	return lipgloss.Place(o.width, o.height, lipgloss.Center, lipgloss.Center, window)
}
