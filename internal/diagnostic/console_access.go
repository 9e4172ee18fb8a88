package diagnostic

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/yourusername/console-landing/internal/datasource"
	"github.com/yourusername/console-landing/internal/model"
)

// ItemFetcher is the part of the console client an access check needs
type ItemFetcher interface {
	FetchItems(ctx context.Context, endpoint string) ([]model.Item, error)
}

// ConsoleAccessStatus records whether the configured session can list a page.
type ConsoleAccessStatus struct {
	Endpoint  string
	Allowed   bool
	Kind      datasource.FailureKind
	Detail    string
	Hint      string
	Err       error
	Items     int
	Latency   time.Duration
	CheckedAt time.Time
}

// Message returns a human-friendly summary for display in the UI.
func (s *ConsoleAccessStatus) Message() string {
	if s == nil || s.Allowed {
		return ""
	}

	message := s.Detail
	if message == "" {
		message = "the console rejected the request"
	}
	if s.Hint == "" {
		return message
	}
	return fmt.Sprintf("%s • %s", message, s.Hint)
}

// CheckConsoleAccess lists endpoint once and reports whether the session
// can read it. Request failures are folded into the status; only an aborted
// check returns an error.
func CheckConsoleAccess(ctx context.Context, client ItemFetcher, resource, endpoint string, tokenExpiryOn400 bool) (*ConsoleAccessStatus, error) {
	start := time.Now()
	items, err := client.FetchItems(ctx, endpoint)

	status := &ConsoleAccessStatus{
		Endpoint:  endpoint,
		Latency:   time.Since(start),
		CheckedAt: time.Now(),
	}

	if err == nil {
		status.Allowed = true
		status.Items = len(items)
		return status, nil
	}

	kind, msg := datasource.Classify(err, tokenExpiryOn400)
	if kind == datasource.FailureAborted {
		return nil, fmt.Errorf("access check of %s aborted: %w", endpoint, err)
	}

	status.Kind = kind
	status.Err = err
	status.Detail = strings.TrimSpace(msg)
	if status.Detail == "" {
		status.Detail = err.Error()
	}
	status.Hint = GetRecommendedAction(err, tokenExpiryOn400, resource)
	return status, nil
}
