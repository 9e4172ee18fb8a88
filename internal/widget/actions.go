package widget

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/yourusername/console-landing/internal/datasource"
	"github.com/yourusername/console-landing/internal/events"
	"github.com/yourusername/console-landing/internal/landing"
	"github.com/yourusername/console-landing/internal/model"
	"go.uber.org/zap"
)

// FormPoster submits a form-encoded request to the console
type FormPoster interface {
	PostForm(ctx context.Context, endpoint string, values url.Values) (*model.Envelope, error)
}

// ActionNotifier extends the landing page notifier with success messages
type ActionNotifier interface {
	landing.Notifier
	Success(message string)
}

// Action is a mutating operation offered on a landing page row
type Action struct {
	Name  string `mapstructure:"name"`
	Title string `mapstructure:"title"`
	// URL holds _id_ or _name_ placeholders
	URL string `mapstructure:"url"`
	// Field is the form field carrying the item id
	Field   string `mapstructure:"field"`
	Success string `mapstructure:"success"`
}

// ActionRunner posts row actions and asks the landing page to refresh
// after each success.
type ActionRunner struct {
	poster           FormPoster
	bus              *events.Bus
	notifier         ActionNotifier
	tokenExpiryOn400 bool
	logger           *zap.Logger
}

// NewActionRunner creates an action runner
func NewActionRunner(poster FormPoster, bus *events.Bus, notifier ActionNotifier, tokenExpiryOn400 bool, logger *zap.Logger) *ActionRunner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ActionRunner{
		poster:           poster,
		bus:              bus,
		notifier:         notifier,
		tokenExpiryOn400: tokenExpiryOn400,
		logger:           logger,
	}
}

// Run executes action against item. On success a Refresh is published;
// on failure the operator is notified and the error returned.
func (r *ActionRunner) Run(ctx context.Context, action Action, item model.Item) error {
	id := item.ID()
	if id == "" {
		return fmt.Errorf("action %s: item has no id", action.Name)
	}

	endpoint := strings.NewReplacer(
		idPlaceholder, url.PathEscape(id),
		namePlaceholder, url.PathEscape(itemName(item)),
	).Replace(action.URL)

	field := action.Field
	if field == "" {
		field = model.FieldID
	}
	form := url.Values{}
	form.Set(field, id)

	r.logger.Info("Running action",
		zap.String("action", action.Name),
		zap.String("id", id),
		zap.String("endpoint", endpoint),
	)

	if _, err := r.poster.PostForm(ctx, endpoint, form); err != nil {
		r.report(action, err)
		return fmt.Errorf("action %s on %s: %w", action.Name, id, err)
	}

	msg := action.Success
	if msg == "" {
		msg = fmt.Sprintf("%s: %s", action.Title, id)
	}
	r.notifier.Success(msg)
	r.bus.Publish(events.Refresh{})
	return nil
}

func (r *ActionRunner) report(action Action, err error) {
	kind, msg := datasource.Classify(err, r.tokenExpiryOn400)
	switch kind {
	case datasource.FailureAborted:
		r.logger.Debug("Action aborted", zap.String("action", action.Name))
	case datasource.FailureSessionExpired:
		r.logger.Warn("Session expired during action", zap.String("action", action.Name), zap.Error(err))
		r.notifier.SessionExpired()
	default:
		r.logger.Error("Action failed", zap.String("action", action.Name), zap.Error(err))
		if msg == "" {
			msg = err.Error()
		}
		r.notifier.Failure(msg)
	}
}
