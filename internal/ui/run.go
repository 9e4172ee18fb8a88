package ui

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/yourusername/console-landing/internal/app"
	"github.com/yourusername/console-landing/internal/landing"
	"go.uber.org/zap"
)

// notifier hands widget and controller reports to the UI goroutine. Its
// methods may be called from any goroutine.
type notifier struct {
	loop landing.Loop
	m    *Model
}

func (n *notifier) Failure(message string) {
	n.loop.Post(func() { n.m.showNotice(noticeError, message) })
}

func (n *notifier) Success(message string) {
	n.loop.Post(func() { n.m.showNotice(noticeInfo, message) })
}

func (n *notifier) SessionExpired() {
	n.loop.Post(func() { n.m.sessionGone = true })
}

// pump wakes the program whenever callbacks are queued on loop. Callbacks
// then run inside Update, so the controllers share the UI goroutine.
func pump(ctx context.Context, loop *landing.ChanLoop, send func(tea.Msg)) {
	for loop.Wait(ctx) {
		send(loopMsg{})
	}
}

// Run starts the interactive console and blocks until the operator quits
func Run(a *app.App, opts Options, noColor bool) error {
	if noColor {
		// lipgloss picks the colour profile on first render
		_ = os.Setenv("NO_COLOR", "1")
	}

	logger := a.Logger()
	logger.Info("Starting UI", zap.String("locale", opts.Locale), zap.String("page", opts.Page))

	m := NewModel(a, logger, opts)
	p := tea.NewProgram(m, tea.WithAltScreen())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go pump(ctx, m.Loop(), p.Send)

	_, err := p.Run()
	cancel()
	m.Close()
	if err != nil {
		return fmt.Errorf("UI error: %w", err)
	}
	return nil
}
