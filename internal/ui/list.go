package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/yourusername/console-landing/internal/model"
)

const (
	maxColumnWidth = 40
	cardWidth      = 30
	cardHeight     = 5 // content lines plus border
)

// renderList renders the current page in its display mode
func (m *Model) renderList() string {
	if m.session == nil {
		return StyleTextMuted.Render(m.T("status.loading"))
	}
	ctrl := m.session.Controller
	rows := ctrl.Rows()

	if len(rows) == 0 {
		switch {
		case ctrl.Filter().SearchText != "":
			return StyleTextMuted.Render(m.TF("list.no_match", map[string]any{"Text": ctrl.Filter().SearchText}))
		case ctrl.Loading() || ctrl.LastUpdate().IsZero():
			return StyleTextMuted.Render(m.T("status.loading"))
		default:
			return StyleTextMuted.Render(m.T("list.empty"))
		}
	}

	if ctrl.Preference().DisplayMode == model.DisplayGrid {
		return m.renderGrid(rows)
	}
	return m.renderTable(rows)
}

// columnWidths sizes each column to its widest cell, capped so the table
// fits the terminal.
func (m *Model) columnWidths(cols []string, rows []model.Item) []int {
	widths := make([]int, len(cols))
	for i, c := range cols {
		widths[i] = visualLength(c)
	}
	for _, item := range rows {
		for i, c := range cols {
			if w := visualLength(m.session.Cell(item, c)); w > widths[i] {
				widths[i] = w
			}
		}
	}

	total := 0
	for i := range widths {
		if widths[i] > maxColumnWidth {
			widths[i] = maxColumnWidth
		}
		total += widths[i] + 2
	}

	// Shrink the widest columns until the table fits
	for total > m.width && m.width > 0 {
		widest := 0
		for i := range widths {
			if widths[i] > widths[widest] {
				widest = i
			}
		}
		if widths[widest] <= 6 {
			break
		}
		widths[widest]--
		total--
	}
	return widths
}

func (m *Model) renderTable(rows []model.Item) string {
	cols := m.session.Columns()
	widths := m.columnWidths(cols, rows)

	var b strings.Builder

	header := make([]string, len(cols))
	for i, c := range cols {
		header[i] = padRight(truncate(strings.ToUpper(c), widths[i]), widths[i])
	}
	b.WriteString(StyleHeader.Render(strings.Join(header, "  ")))
	b.WriteString("\n")

	height := m.listHeight()
	end := m.scrollOffset + height
	if end > len(rows) {
		end = len(rows)
	}

	for idx := m.scrollOffset; idx < end; idx++ {
		item := rows[idx]
		cells := make([]string, len(cols))
		for i, c := range cols {
			text := truncate(m.session.Cell(item, c), widths[i])
			if c == "status" && idx != m.selectedIndex {
				text = RenderStatus(text)
			}
			cells[i] = padRight(text, widths[i])
		}
		line := " " + strings.Join(cells, "  ")
		if idx == m.selectedIndex {
			line = StyleSelected.Render(line)
		}
		b.WriteString(line)
		if idx < end-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

// cardsPerRow is how many grid cards fit side by side
func (m *Model) cardsPerRow() int {
	n := (m.width - 2) / (cardWidth + 2)
	if n < 1 {
		n = 1
	}
	return n
}

func (m *Model) renderGrid(rows []model.Item) string {
	perRow := m.cardsPerRow()
	visibleRows := m.listHeight() / cardHeight
	if visibleRows < 1 {
		visibleRows = 1
	}

	// Keep the selected card's row on screen
	selectedRow := m.selectedIndex / perRow
	firstRow := 0
	if selectedRow >= visibleRows {
		firstRow = selectedRow - visibleRows + 1
	}

	var lines []string
	for r := firstRow; r < firstRow+visibleRows; r++ {
		start := r * perRow
		if start >= len(rows) {
			break
		}
		end := start + perRow
		if end > len(rows) {
			end = len(rows)
		}
		cards := make([]string, 0, perRow)
		for idx := start; idx < end; idx++ {
			cards = append(cards, m.renderCard(rows[idx], idx == m.selectedIndex))
		}
		lines = append(lines, lipgloss.JoinHorizontal(lipgloss.Top, cards...))
	}
	return strings.Join(lines, "\n")
}

// renderCard shows an item's first column as the title and the next two
// as detail lines.
func (m *Model) renderCard(item model.Item, selected bool) string {
	cols := m.session.Columns()
	inner := cardWidth - 4

	title := item.ID()
	if len(cols) > 0 {
		if v := m.session.Cell(item, cols[0]); v != "" {
			title = v
		}
	}

	body := []string{StyleHighlight.Render(truncate(title, inner))}
	for _, c := range cols[min(1, len(cols)):min(3, len(cols))] {
		v := m.session.Cell(item, c)
		if c == "status" {
			v = RenderStatus(v)
		}
		body = append(body, truncate(StyleTextMuted.Render(c+": ")+v, inner))
	}
	for len(body) < cardHeight-2 {
		body = append(body, "")
	}

	style := StyleBorder
	if selected {
		style = StyleBorderSelected
	}
	return style.Width(cardWidth - 2).Render(strings.Join(body, "\n"))
}
