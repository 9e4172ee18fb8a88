package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// currentSortIndex returns the menu entry matching the active sort key
func (m *Model) currentSortIndex() int {
	current := m.session.Controller.Preference().SortBy
	for i, k := range m.session.Page.SortKeys {
		if k.Key == current {
			return i
		}
	}
	return 0
}

func (m *Model) handleSortKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	ctrl := m.session.Controller
	keys := m.session.Page.SortKeys

	switch {
	case key.Matches(msg, m.keys.Up):
		if m.sortIndex > 0 {
			m.sortIndex--
		}
	case key.Matches(msg, m.keys.Down):
		if m.sortIndex < len(keys)-1 {
			m.sortIndex++
		}
	case key.Matches(msg, m.keys.Enter):
		if m.sortIndex < len(keys) {
			ctrl.SetSort(keys[m.sortIndex].Key)
		}
		m.mode = modeList
	case key.Matches(msg, m.keys.ToggleSort):
		if m.sortIndex < len(keys) {
			ctrl.SetSort(reverseSortKey(keys[m.sortIndex].Key))
		}
		m.mode = modeList
	case key.Matches(msg, m.keys.Back), key.Matches(msg, m.keys.Sort):
		ctrl.CloseSortMenu()
		m.mode = modeList
	}
	return m, nil
}

// reverseSortKey flips the direction prefix of a sort key
func reverseSortKey(k string) string {
	if strings.HasPrefix(k, "-") {
		return strings.TrimPrefix(k, "-")
	}
	return "-" + k
}

// renderSortMenu renders the sort choices with the active one marked
func (m *Model) renderSortMenu() string {
	current := m.session.Controller.Preference().SortBy

	lines := []string{StyleHeader.Render(m.T("sort.title")), ""}
	for i, k := range m.session.Page.SortKeys {
		marker := "  "
		if k.Key == current {
			marker = "● "
		} else if reverseSortKey(k.Key) == current {
			marker = "↕ "
		}
		name := k.Name
		if name == "" {
			name = k.Key
		}
		line := fmt.Sprintf("  %s%s", marker, name)
		if i == m.sortIndex {
			line = StyleSelected.Render(line)
		}
		lines = append(lines, line)
	}
	lines = append(lines, "", StyleTextMuted.Render(m.T("sort.hint")))
	return strings.Join(lines, "\n")
}
