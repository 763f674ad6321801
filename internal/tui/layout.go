package tui

import "github.com/existflow/taskbreeze/internal/model"

// Fixed row heights of the board screen
const (
	headerHeight       = 3 // title, quote, blank
	columnHeaderHeight = 2 // title with count, rule
	cardHeight         = 4 // rounded border around two content lines
	statusHeight       = 2 // border and one line
)

// layout maps screen cells to columns and cards. Every card occupies the
// same height so hit testing is a division.
type layout struct {
	width, height int
	columns       []model.ColumnID
	offset        map[model.ColumnID]int
}

// layout is shared by every copy of the model so the drag hit test sees
// the current terminal size
func (m Model) layout() layout {
	return *m.geo
}

func (m Model) resize(width, height int) {
	m.geo.width = width
	m.geo.height = height
}

func (l layout) columnWidth() int {
	return max(l.width/max(len(l.columns), 1), 1)
}

func (l layout) cardsTop() int {
	return headerHeight + columnHeaderHeight
}

// visibleCards is how many cards fit in a column at once
func (l layout) visibleCards() int {
	h := l.height - headerHeight - columnHeaderHeight - statusHeight
	return max(h/cardHeight, 1)
}

// columnAt returns the column whose area contains the cell
func (l layout) columnAt(x, y int) (model.ColumnID, bool) {
	if x < 0 || y < headerHeight || y >= l.height-statusHeight {
		return "", false
	}
	i := x / l.columnWidth()
	if i >= len(l.columns) {
		return "", false
	}
	return l.columns[i], true
}

// cardAt returns the column and the index (into the column's filtered
// task list) of the card drawn at the cell
func (l layout) cardAt(x, y int) (model.ColumnID, int, bool) {
	col, ok := l.columnAt(x, y)
	if !ok || y < l.cardsTop() {
		return "", 0, false
	}
	row := (y - l.cardsTop()) / cardHeight
	if row >= l.visibleCards() {
		return "", 0, false
	}
	return col, l.offset[col] + row, true
}
