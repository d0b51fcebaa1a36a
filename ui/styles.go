package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/matharman/jjsum/jj"
)

var (
	colorYellow  = lipgloss.Color("11")
	colorGreen   = lipgloss.Color("10")
	colorRed     = lipgloss.Color("9")
	colorMagenta = lipgloss.Color("13")
	colorCyan    = lipgloss.Color("14")
	colorBlue    = lipgloss.Color("12")
	colorDim     = lipgloss.Color("8")
)

var (
	headerStyle   = lipgloss.NewStyle().Bold(true).Foreground(colorBlue)
	dimmedStyle   = lipgloss.NewStyle().Foreground(colorDim)
	categoryStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	selectedStyle = lipgloss.NewStyle().Reverse(true)

	modifiedStyle = lipgloss.NewStyle().Foreground(colorYellow)
	addedStyle    = lipgloss.NewStyle().Foreground(colorGreen)
	deletedStyle  = lipgloss.NewStyle().Foreground(colorRed)
	renamedStyle  = lipgloss.NewStyle().Foreground(colorMagenta)
	copiedStyle   = lipgloss.NewStyle().Foreground(colorCyan)

	diffAddStyle     = lipgloss.NewStyle().Foreground(colorGreen)
	diffRemoveStyle  = lipgloss.NewStyle().Foreground(colorRed)
	diffHunkStyle    = lipgloss.NewStyle().Foreground(colorCyan)
	diffContextStyle = lipgloss.NewStyle()
	diffMetaStyle    = lipgloss.NewStyle().Foreground(colorDim).Bold(true)

	statusBarStyle = lipgloss.NewStyle().Foreground(colorDim)
	errorStyle     = lipgloss.NewStyle().Foreground(colorRed)

	overlayBorderStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(colorYellow).
				Padding(0, 1)
	overlayTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(colorYellow)
)

// sigilStyle maps a rendered status sigil back to its category color.
func sigilStyle(sigil string) lipgloss.Style {
	for _, c := range jj.Categories {
		if c.Sigil() == sigil {
			return categoryStyleFor(c)
		}
	}
	return diffContextStyle
}

// categoryStyleFor maps a file category to its sigil color.
func categoryStyleFor(c jj.Category) lipgloss.Style {
	switch c {
	case jj.CategoryAdded:
		return addedStyle
	case jj.CategoryDeleted:
		return deletedStyle
	case jj.CategoryRenamed:
		return renamedStyle
	case jj.CategoryCopied:
		return copiedStyle
	default:
		return modifiedStyle
	}
}
