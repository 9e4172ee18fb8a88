package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/yourusername/console-landing/internal/model"
	"sigs.k8s.io/yaml"
)

// openDetail shows item, merged with its enrichment, as YAML
func (m *Model) openDetail(item model.Item) {
	data, err := yaml.Marshal(m.session.Detail(item))
	if err != nil {
		m.showNotice(noticeError, err.Error())
		return
	}
	m.detailTitle = m.TF("detail.title", map[string]any{"ID": item.ID()})
	m.detailContent = strings.TrimRight(string(data), "\n")
	m.detailScroll = 0
	m.mode = modeDetail
}

func (m *Model) handleDetailKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Back), key.Matches(msg, m.keys.Enter):
		m.mode = modeList
	case key.Matches(msg, m.keys.Up):
		m.detailScroll--
	case key.Matches(msg, m.keys.Down):
		m.detailScroll++
	case key.Matches(msg, m.keys.PageUp):
		m.detailScroll -= m.detailHeight()
	case key.Matches(msg, m.keys.PageDown):
		m.detailScroll += m.detailHeight()
	case key.Matches(msg, m.keys.Copy):
		if item, ok := m.selectedItem(); ok {
			m.copyToClipboard(item.ID())
		}
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit
	}
	return m, nil
}

func (m *Model) detailHeight() int {
	h := m.height - 10
	if h < 1 {
		h = 1
	}
	return h
}

// renderDetail renders the detail viewer with line numbers
func (m *Model) renderDetail() string {
	var sections []string
	sections = append(sections, StyleHeader.Render(m.detailTitle), "")

	var lines []string
	for _, line := range strings.Split(m.detailContent, "\n") {
		lines = append(lines, wrapLine(line, max(m.width-8, 20), 2)...)
	}

	maxVisible := m.detailHeight()
	totalLines := len(lines)
	maxScroll := totalLines - maxVisible
	if maxScroll < 0 {
		maxScroll = 0
	}

	// Clamp scroll offset
	if m.detailScroll > maxScroll {
		m.detailScroll = maxScroll
	}
	if m.detailScroll < 0 {
		m.detailScroll = 0
	}

	startIdx := m.detailScroll
	endIdx := startIdx + maxVisible
	if endIdx > totalLines {
		endIdx = totalLines
	}

	for i, line := range lines[startIdx:endIdx] {
		lineNumStr := StyleTextMuted.Render(fmt.Sprintf("%4d│ ", startIdx+i+1))
		sections = append(sections, lineNumStr+line)
	}

	if totalLines > maxVisible {
		scrollInfo := fmt.Sprintf("Lines %d-%d of %d", startIdx+1, endIdx, totalLines)
		sections = append(sections, "", StyleTextMuted.Render(scrollInfo))
	}
	sections = append(sections, StyleTextMuted.Render(m.T("detail.hint")))

	return strings.Join(sections, "\n")
}
