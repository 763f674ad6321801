package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"

	"github.com/existflow/taskbreeze/internal/model"
)

// View renders the UI
func (m Model) View() string {
	l := m.layout()
	bodyHeight := max(l.height-headerHeight-statusHeight, 1)

	var body string
	switch m.mode {
	case ModeAdd, ModeEdit:
		body = m.renderModal(m.form.view(), bodyHeight)
	case ModeConfirmDelete:
		body = m.renderModal(m.renderConfirm(), bodyHeight)
	case ModeHelp:
		body = m.renderModal(m.renderHelp(), bodyHeight)
	case ModeArchive:
		body = m.renderArchive(bodyHeight)
	case ModeSearch:
		if m.prevMode == ModeArchive {
			body = m.renderArchive(bodyHeight)
		} else {
			body = m.renderBoard(bodyHeight)
		}
	default:
		body = m.renderBoard(bodyHeight)
	}

	body = lipgloss.NewStyle().Height(bodyHeight).MaxHeight(bodyHeight).Render(body)
	return lipgloss.JoinVertical(lipgloss.Left, m.renderHeader(), body, m.renderStatusBar())
}

func (m Model) renderHeader() string {
	width := m.layout().width

	title := HeaderStyle.Render("🌬  TaskBreeze") + HelpStyle.Render(fmt.Sprintf("  %s board", m.board.Mode()))

	quoteLine := ""
	if m.quote.Text != "" {
		quoteLine = QuoteStyle.Render(truncate(fmt.Sprintf("\"%s\" ~ %s", m.quote.Text, m.quote.Author), width))
	}

	searchLine := ""
	switch {
	case m.mode == ModeSearch:
		searchLine = m.search.View()
	case m.query != "":
		searchLine = HelpStyle.Render(truncate(fmt.Sprintf("filter: %q (esc to clear)", m.query), width))
	}

	return strings.Join([]string{title, quoteLine, searchLine}, "\n")
}

func (m Model) renderBoard(height int) string {
	l := m.layout()
	c := m.board.Counts()
	if c.Active == 0 && c.Archived == 0 {
		empty := lipgloss.JoinVertical(lipgloss.Center,
			HeaderStyle.Render("Your board is empty"),
			"",
			HelpStyle.Render("Press a to add your first task"),
		)
		return lipgloss.Place(l.width, height, lipgloss.Center, lipgloss.Center, empty)
	}

	cols := make([]string, len(m.columns))
	for i, col := range m.columns {
		cols[i] = m.renderColumn(i, col, l)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cols...)
}

func (m Model) renderColumn(i int, col model.ColumnID, l layout) string {
	w := l.columnWidth()
	inner := max(w-2, 1)
	tasks := m.board.ColumnTasks(col, m.query)
	focused := i == m.col
	off := m.offset[col]
	visible := l.visibleCards()

	title := fmt.Sprintf("%s (%d)", col.Title(), len(tasks))
	if off > 0 {
		title += " ↑"
	}
	if off+visible < len(tasks) {
		title += " ↓"
	}
	color := ColumnColors[col]
	header := lipgloss.NewStyle().Bold(true).Foreground(color).Render(truncate(title, inner))

	ruleStyle := lipgloss.NewStyle().Foreground(color)
	rule := "─"
	if focused {
		rule = "━"
	}
	if over, ok := m.drag.Over(); ok && over == col {
		ruleStyle = ruleStyle.Foreground(Highlight)
		rule = "═"
	}

	lines := []string{header, ruleStyle.Render(strings.Repeat(rule, inner))}
	for j := off; j < len(tasks) && j < off+visible; j++ {
		lines = append(lines, m.renderCard(tasks[j], max(inner-2, 1), focused && j == m.cursor[col]))
	}
	if len(tasks) == 0 {
		lines = append(lines, HelpStyle.Render("No tasks"))
	}
	return ColumnStyle.Width(w).Render(strings.Join(lines, "\n"))
}

func (m Model) renderCard(t model.Task, width int, selected bool) string {
	style := CardStyle
	switch {
	case m.drag.Dragging() && m.drag.TaskID() == t.ID:
		style = CardDraggingStyle
	case selected:
		style = CardSelectedStyle
	}

	meta := FormatPriority(t.Priority)
	if t.DueDate != nil {
		now := m.now()
		switch {
		case t.IsOverdue(now):
			meta += " " + OverdueStyle.Render(t.DueDate.Format("Jan 2")+"!")
		case t.IsDueToday(now):
			meta += " " + DueTodayStyle.Render("today")
		default:
			meta += " " + HelpStyle.Render(t.DueDate.Format("Jan 2"))
		}
	}

	return style.Width(width).Height(2).Render(truncate(t.Title, width) + "\n" + meta)
}

func (m Model) renderArchive(height int) string {
	l := m.layout()
	tasks := m.board.Archived(m.query)

	var b strings.Builder
	b.WriteString(HeaderStyle.Render(fmt.Sprintf("📦 Archive (%d)", len(tasks))) + "\n\n")
	if len(tasks) == 0 {
		b.WriteString(HelpStyle.Render("Nothing archived"))
	}

	rows := max(height-4, 1)
	start := 0
	if m.archiveCursor >= rows {
		start = m.archiveCursor - rows + 1
	}
	for i := start; i < len(tasks) && i < start+rows; i++ {
		t := tasks[i]
		cursor := "  "
		if i == m.archiveCursor {
			cursor = "▸ "
		}
		when := ""
		if t.ArchivedAt != nil {
			when = t.ArchivedAt.Local().Format("Jan 2 15:04")
		}
		line := fmt.Sprintf("%s%s  %s  %s", cursor, truncate(t.Title, l.width/2), HelpStyle.Render(t.ColumnID.Title()), HelpStyle.Render(when))
		if i == m.archiveCursor {
			line = lipgloss.NewStyle().Foreground(Highlight).Render(line)
		}
		b.WriteString(line + "\n")
	}

	b.WriteString("\n" + HelpStyle.Render("u: restore • d: delete • /: search • esc: back"))
	return lipgloss.NewStyle().Padding(0, 1).Render(b.String())
}

func (m Model) renderModal(content string, height int) string {
	return lipgloss.Place(
		m.layout().width, height,
		lipgloss.Center, lipgloss.Center,
		ModalStyle.Render(content),
		lipgloss.WithWhitespaceChars(" "),
	)
}

func (m Model) renderConfirm() string {
	title := m.pendingDelete
	if t, ok := m.board.Task(m.pendingDelete); ok {
		title = t.Title
	}
	return ErrorStyle.Bold(true).Render("Delete task?") + "\n\n" +
		truncate(title, 40) + "\n\n" +
		HelpStyle.Render("This cannot be undone.\ny: delete • any other key: cancel")
}

func (m Model) renderHelp() string {
	sections := []struct {
		name     string
		bindings []key.Binding
	}{
		{"Navigation", []key.Binding{keys.Up, keys.Down, keys.Left, keys.Right}},
		{"Tasks", []key.Binding{keys.Add, keys.Edit, keys.MoveLeft, keys.MoveRight, keys.Archive, keys.Delete}},
		{"Board", []key.Binding{keys.Search, keys.ArchiveView, keys.Unarchive, keys.Export, keys.Quote}},
		{"General", []key.Binding{keys.Help, keys.Escape, keys.Quit}},
	}

	var b strings.Builder
	b.WriteString(HeaderStyle.Render("Keyboard Shortcuts") + "\n")
	for _, s := range sections {
		b.WriteString("\n" + lipgloss.NewStyle().Bold(true).Render(s.name) + "\n")
		for _, kb := range s.bindings {
			h := kb.Help()
			b.WriteString(fmt.Sprintf("  %-10s %s\n", h.Key, h.Desc))
		}
	}
	b.WriteString("\n" + HelpStyle.Render("Drag a card with the mouse to move it.\nPress any key to close."))
	return b.String()
}

func (m Model) renderStatusBar() string {
	l := m.layout()
	c := m.board.Counts()

	parts := []string{fmt.Sprintf("%d active • %d archived", c.Active, c.Archived)}
	if err := m.board.SaveErr(); err != nil {
		parts = append(parts, ErrorStyle.Render("⚠ not saved: "+truncate(err.Error(), 40)))
	}

	switch {
	case m.drag.Dragging():
		if t, ok := m.board.Task(m.drag.TaskID()); ok {
			target := "…"
			if over, ok := m.drag.Over(); ok {
				target = over.Title()
			}
			parts = append(parts, fmt.Sprintf("Moving %s → %s", truncate(t.Title, 20), target))
		}
	case m.message != "":
		msg := truncate(m.message, max(l.width/2, 10))
		if m.isError {
			parts = append(parts, ErrorStyle.Render("✗ "+msg))
		} else {
			parts = append(parts, "✓ "+msg)
		}
	}

	return StatusBarStyle.Width(l.width).Render(strings.Join(parts, "  │  ") + "  │  ? help • q quit")
}
