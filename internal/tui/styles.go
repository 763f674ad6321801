package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/existflow/taskbreeze/internal/model"
)

// Color palette
var (
	// Priority colors
	PriorityHighColor   = lipgloss.Color("#FF6B6B") // Red
	PriorityMediumColor = lipgloss.Color("#FFE66D") // Yellow
	PriorityLowColor    = lipgloss.Color("#4ECDC4") // Teal

	// Column accents
	ColumnColors = map[model.ColumnID]lipgloss.Color{
		model.ColumnTodo:       lipgloss.Color("#3B82F6"),
		model.ColumnInProgress: lipgloss.Color("#F59E0B"),
		model.ColumnOnHold:     lipgloss.Color("#A855F7"),
		model.ColumnDone:       lipgloss.Color("#10B981"),
	}

	// UI colors
	Primary   = lipgloss.Color("#3B82F6")
	Danger    = lipgloss.Color("#FF6B6B")
	Warning   = lipgloss.Color("#FFE66D")
	TextMuted = lipgloss.Color("#888888")
	Border    = lipgloss.Color("#333333")
	Highlight = lipgloss.Color("#4ECDC4")
)

// Styles
var (
	HeaderStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(Primary)

	QuoteStyle = lipgloss.NewStyle().
			Italic(true).
			Foreground(TextMuted)

	ColumnStyle = lipgloss.NewStyle().
			Padding(0, 1)

	CardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Border)

	CardSelectedStyle = CardStyle.
				BorderForeground(Highlight).
				Bold(true)

	CardDraggingStyle = CardStyle.
				BorderForeground(TextMuted).
				Foreground(TextMuted).
				Faint(true)

	StatusBarStyle = lipgloss.NewStyle().
			Foreground(TextMuted).
			Padding(0, 1).
			BorderStyle(lipgloss.NormalBorder()).
			BorderTop(true).
			BorderForeground(Border)

	ErrorStyle = lipgloss.NewStyle().Foreground(Danger)

	ModalStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Primary).
			Padding(1, 2)

	HelpStyle = lipgloss.NewStyle().
			Foreground(TextMuted)

	OverdueStyle  = lipgloss.NewStyle().Foreground(Danger).Bold(true)
	DueTodayStyle = lipgloss.NewStyle().Foreground(Warning)
)

// PriorityStyle returns the badge style for a priority
func PriorityStyle(p model.Priority) lipgloss.Style {
	switch p {
	case model.PriorityHigh:
		return lipgloss.NewStyle().Foreground(PriorityHighColor).Bold(true)
	case model.PriorityLow:
		return lipgloss.NewStyle().Foreground(PriorityLowColor)
	default:
		return lipgloss.NewStyle().Foreground(PriorityMediumColor)
	}
}

// FormatPriority returns a short colored badge
func FormatPriority(p model.Priority) string {
	switch p {
	case model.PriorityHigh:
		return PriorityStyle(p).Render("HIGH")
	case model.PriorityLow:
		return PriorityStyle(p).Render("LOW")
	default:
		return PriorityStyle(p).Render("MED")
	}
}
