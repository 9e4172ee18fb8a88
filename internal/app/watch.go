package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"text/tabwriter"

	"github.com/yourusername/console-landing/internal/events"
	"github.com/yourusername/console-landing/internal/landing"
	"github.com/yourusername/console-landing/internal/model"
	"go.uber.org/zap"
	"sigs.k8s.io/yaml"
)

// ErrSessionExpired stops a headless watch; it cannot log in again
var ErrSessionExpired = errors.New("console session expired")

// Output formats of the watch command
const (
	OutputTable = "table"
	OutputJSON  = "json"
	OutputYAML  = "yaml"
)

// WatchOptions configures a headless watch
type WatchOptions struct {
	Page   string
	Query  string
	Once   bool
	Output string
}

// watchNotifier reports to the output stream. Fetch failures keep the
// watch running unless it is a one-shot.
type watchNotifier struct {
	mu     sync.Mutex
	w      io.Writer
	once   bool
	cancel context.CancelCauseFunc
	logger *zap.Logger
}

func (n *watchNotifier) Failure(message string) {
	n.mu.Lock()
	fmt.Fprintf(n.w, "! %s\n", message)
	n.mu.Unlock()
	if n.once {
		n.cancel(errors.New(message))
	}
}

func (n *watchNotifier) Success(message string) {
	n.mu.Lock()
	fmt.Fprintf(n.w, "%s\n", message)
	n.mu.Unlock()
}

func (n *watchNotifier) SessionExpired() {
	n.logger.Warn("Session expired, stopping watch")
	n.cancel(ErrSessionExpired)
}

// Watch prints the page's rows after every load until ctx is done, or
// after the first load when opts.Once is set.
func (a *App) Watch(ctx context.Context, opts WatchOptions, w io.Writer) error {
	if opts.Page == "" {
		opts.Page = a.config.DefaultPage
	}
	switch opts.Output {
	case "":
		opts.Output = OutputTable
	case OutputTable, OutputJSON, OutputYAML:
	default:
		return fmt.Errorf("unknown output format %q", opts.Output)
	}

	ctx, cancel := context.WithCancelCause(ctx)
	defer cancel(nil)

	loop := landing.NewChanLoop()
	notifier := &watchNotifier{w: w, once: opts.Once, cancel: cancel, logger: a.logger}

	s, err := a.OpenPage(opts.Page, loop, notifier, opts.Query)
	if err != nil {
		return err
	}
	if opts.Once && s.Refresher != nil {
		s.Refresher = nil
	}

	emit := func() {
		notifier.mu.Lock()
		defer notifier.mu.Unlock()
		if err := writeRows(w, s, s.Controller.Rows(), opts.Output); err != nil {
			cancel(fmt.Errorf("failed to write rows: %w", err))
			return
		}
		if opts.Once {
			cancel(nil)
		}
	}

	// Published from the loop, so the controller may be read here
	unsubscribe := events.On(s.Bus, func(ev events.ItemsLoaded) {
		if s.Enricher == nil {
			emit()
			return
		}
		items := ev.Items
		go func() {
			if err := s.Enricher.Enrich(ctx, items); err != nil && !errors.Is(err, context.Canceled) {
				a.logger.Warn("Enrichment interrupted", zap.Error(err))
			}
			loop.Post(emit)
		}()
	})
	defer unsubscribe()

	if err := s.Start(false); err != nil {
		return err
	}
	defer s.Close()

	_ = loop.Run(ctx)

	cause := context.Cause(ctx)
	if errors.Is(cause, context.Canceled) || errors.Is(cause, context.DeadlineExceeded) {
		return nil
	}
	return cause
}

func writeRows(w io.Writer, s *Session, rows []model.Item, output string) error {
	switch output {
	case OutputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(details(s, rows))
	case OutputYAML:
		data, err := yaml.Marshal(details(s, rows))
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w, "---\n%s", data); err != nil {
			return err
		}
		return nil
	}

	cols := s.Columns()
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	header := make([]string, len(cols))
	for i, c := range cols {
		header[i] = strings.ToUpper(c)
	}
	fmt.Fprintln(tw, strings.Join(header, "\t"))
	for _, item := range rows {
		cells := make([]string, len(cols))
		for i, c := range cols {
			cells[i] = s.Cell(item, c)
		}
		fmt.Fprintln(tw, strings.Join(cells, "\t"))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	ctrl := s.Controller
	if ctrl.HasMore() {
		fmt.Fprintf(w, "(%d of %d shown)\n", len(rows), ctrl.VisibleCount())
	}
	fmt.Fprintln(w)
	return nil
}

func details(s *Session, rows []model.Item) []model.Item {
	out := make([]model.Item, len(rows))
	for i, item := range rows {
		out[i] = s.Detail(item)
	}
	return out
}
