package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/yourusername/console-landing/internal/model"
	"github.com/yourusername/console-landing/internal/widget"
)

const actionTimeout = 30 * time.Second

// clipboardWrite is replaced in tests
var clipboardWrite = clipboard.WriteAll

// ActionMenuItem represents a single action in the menu
type ActionMenuItem struct {
	Label       string
	Key         string
	Description string
	Action      ActionType
	// Page is set for ActionPage
	Page *widget.Action
}

// ActionType defines the type of action
type ActionType int

const (
	ActionPage ActionType = iota
	ActionDetail
	ActionCopyID
	ActionCopyName
)

// getActionMenuItems returns the page's configured actions followed by the
// built-in ones for the selected row.
func (m *Model) getActionMenuItems() []ActionMenuItem {
	if m.session == nil {
		return nil
	}
	item, ok := m.selectedItem()
	if !ok {
		return nil
	}

	var items []ActionMenuItem
	for i := range m.session.Page.Actions {
		a := &m.session.Page.Actions[i]
		label := a.Title
		if label == "" {
			label = a.Name
		}
		items = append(items, ActionMenuItem{
			Label:       label,
			Description: a.URL,
			Action:      ActionPage,
			Page:        a,
		})
	}

	items = append(items, ActionMenuItem{
		Label:       "Details",
		Description: "Show the item as YAML",
		Action:      ActionDetail,
	})
	items = append(items, ActionMenuItem{
		Label:       "Copy ID",
		Description: item.ID(),
		Action:      ActionCopyID,
	})
	if name := item.Text(model.FieldName); name != "" {
		items = append(items, ActionMenuItem{
			Label:       "Copy Name",
			Description: name,
			Action:      ActionCopyName,
		})
	}

	for i := range items {
		items[i].Key = fmt.Sprintf("%d", i+1)
	}
	return items
}

func (m *Model) handleActionKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	items := m.getActionMenuItems()

	switch {
	case key.Matches(msg, m.keys.Back):
		m.mode = modeList
		return m, nil
	case key.Matches(msg, m.keys.Up):
		if m.actionIndex > 0 {
			m.actionIndex--
		}
		return m, nil
	case key.Matches(msg, m.keys.Down):
		if m.actionIndex < len(items)-1 {
			m.actionIndex++
		}
		return m, nil
	case key.Matches(msg, m.keys.Enter):
		if m.actionIndex < len(items) {
			return m, m.executeAction(items[m.actionIndex])
		}
		m.mode = modeList
		return m, nil
	}

	for _, it := range items {
		if msg.String() == it.Key {
			return m, m.executeAction(it)
		}
	}
	return m, nil
}

// executeAction executes the selected action
func (m *Model) executeAction(it ActionMenuItem) tea.Cmd {
	item, ok := m.selectedItem()
	m.mode = modeList
	if !ok {
		return nil
	}

	switch it.Action {
	case ActionPage:
		m.pendingAction = it.Page
		m.pendingItem = item
		m.mode = modeConfirm
	case ActionDetail:
		m.openDetail(item)
	case ActionCopyID:
		m.copyToClipboard(item.ID())
	case ActionCopyName:
		m.copyToClipboard(item.Text(model.FieldName))
	}
	return nil
}

// runAction posts a page action off the UI goroutine. The runner reports
// the outcome through the notifier and asks the page to refresh.
func (m *Model) runAction(action widget.Action, item model.Item) tea.Cmd {
	if m.session == nil || m.actionActive {
		return nil
	}
	m.actionActive = true
	runner := m.session.Actions

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), actionTimeout)
		defer cancel()
		return actionDoneMsg{action: action.Name, err: runner.Run(ctx, action, item)}
	}
}

func (m *Model) copyToClipboard(value string) {
	if value == "" {
		return
	}
	if err := clipboardWrite(value); err != nil {
		m.showNotice(noticeError, m.TF("copy.failed", map[string]any{"Error": err.Error()}))
		return
	}
	m.showNotice(noticeInfo, m.TF("copy.done", map[string]any{"Value": value}))
}

// renderActionMenu renders the action menu, or the confirmation prompt of
// a pending page action
func (m *Model) renderActionMenu() string {
	if m.mode == modeConfirm && m.pendingAction != nil {
		label := m.pendingAction.Title
		if label == "" {
			label = m.pendingAction.Name
		}
		prompt := m.TF("action.confirm", map[string]any{"Action": label, "ID": m.pendingItem.ID()})
		return menuStyle(visualLength(prompt)).Render(StyleWarning.Render(prompt))
	}

	items := m.getActionMenuItems()
	if len(items) == 0 {
		return StyleTextMuted.Render(m.T("action.none"))
	}

	menuLines := []string{StyleHeader.Render(m.T("action.title")), ""}
	for i, item := range items {
		var itemStr string
		if i == m.actionIndex {
			itemStr = StyleSelected.Render(fmt.Sprintf("  %s  %s", item.Key, item.Label))
		} else {
			itemStr = fmt.Sprintf("  %s  %s", StyleKey.Render(item.Key), item.Label)
		}
		menuLines = append(menuLines, itemStr)

		// Description (only for selected item)
		if i == m.actionIndex && item.Description != "" {
			menuLines = append(menuLines, StyleTextMuted.Render("     "+item.Description))
		}
	}
	if len(m.session.Page.Actions) == 0 {
		menuLines = append(menuLines, "", StyleTextMuted.Render("  "+m.T("action.none")))
	}

	maxWidth := 0
	for _, line := range menuLines {
		if w := visualLength(line); w > maxWidth {
			maxWidth = w
		}
	}
	return menuStyle(maxWidth).Render(strings.Join(menuLines, "\n"))
}

func menuStyle(width int) lipgloss.Style {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorPrimary).
		Padding(1, 2).
		Width(width + 5)
}
