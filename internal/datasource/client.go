package datasource

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/yourusername/console-landing/internal/model"
	"go.uber.org/zap"
)

const (
	defaultHTTPTimeout = 30 * time.Second
	maxBodyBytes       = 32 << 20

	csrfField       = "csrf_token"
	formContentType = "application/x-www-form-urlencoded"
)

// ClientConfig configures a ConsoleClient
type ClientConfig struct {
	// BaseURL resolves relative endpoints, e.g. "https://console.example.com"
	BaseURL string
	// CSRFToken is posted with every form request
	CSRFToken string
	// SessionCookie is sent as-is in the Cookie header ("name=value; ...")
	SessionCookie string
	Timeout       time.Duration
	// Transport overrides the HTTP transport (tests)
	Transport http.RoundTripper
}

// ConsoleClient talks to the management console's JSON endpoints
type ConsoleClient struct {
	httpClient    *http.Client
	baseURL       *url.URL
	csrfToken     string
	sessionCookie string
	logger        *zap.Logger
}

// NewConsoleClient creates a console client
func NewConsoleClient(cfg ClientConfig, logger *zap.Logger) (*ConsoleClient, error) {
	base, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid console base URL %q: %w", cfg.BaseURL, err)
	}

	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create cookie jar: %w", err)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultHTTPTimeout
	}

	httpClient := &http.Client{
		Timeout:   timeout,
		Jar:       jar,
		Transport: cfg.Transport,
	}

	logger.Info("Console client initialized",
		zap.String("base_url", base.String()),
		zap.Duration("timeout", timeout),
		zap.Bool("csrf_token", cfg.CSRFToken != ""),
		zap.Bool("session_cookie", cfg.SessionCookie != ""),
	)

	return &ConsoleClient{
		httpClient:    httpClient,
		baseURL:       base,
		csrfToken:     cfg.CSRFToken,
		sessionCookie: cfg.SessionCookie,
		logger:        logger,
	}, nil
}

// Resolve turns an endpoint relative to the console into an absolute URL
func (c *ConsoleClient) Resolve(endpoint string) string {
	ref, err := url.Parse(endpoint)
	if err != nil {
		return endpoint
	}
	return c.baseURL.ResolveReference(ref).String()
}

// FetchItems posts the anti-forgery token to endpoint and returns the
// envelope's result list.
func (c *ConsoleClient) FetchItems(ctx context.Context, endpoint string) ([]model.Item, error) {
	env, err := c.do(ctx, http.MethodPost, endpoint, url.Values{})
	if err != nil {
		return nil, err
	}
	return env.Items(), nil
}

// GetObject issues a GET and returns the envelope's results as one object
func (c *ConsoleClient) GetObject(ctx context.Context, endpoint string) (model.Item, error) {
	env, err := c.do(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	return env.Object(), nil
}

// PostForm posts form values (plus the anti-forgery token) to endpoint and
// returns the decoded envelope.
func (c *ConsoleClient) PostForm(ctx context.Context, endpoint string, values url.Values) (*model.Envelope, error) {
	form := url.Values{}
	for k, v := range values {
		form[k] = append([]string(nil), v...)
	}
	return c.do(ctx, http.MethodPost, endpoint, form)
}

func (c *ConsoleClient) do(ctx context.Context, method, endpoint string, form url.Values) (*model.Envelope, error) {
	target := c.Resolve(endpoint)
	requestID := uuid.NewString()

	var body io.Reader
	if form != nil {
		// csrf_token goes first, the way the console's own pages build the body
		encoded := csrfField + "=" + url.QueryEscape(c.csrfToken)
		form.Del(csrfField)
		if rest := form.Encode(); rest != "" {
			encoded += "&" + rest
		}
		body = strings.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, fmt.Errorf("failed to build request for %s: %w", target, err)
	}
	req.Header.Set("X-Requested-With", "XMLHttpRequest")
	req.Header.Set("X-Request-ID", requestID)
	req.Header.Set("Accept", "application/json")
	if form != nil {
		req.Header.Set("Content-Type", formContentType)
	}
	if c.sessionCookie != "" {
		req.Header.Set("Cookie", c.sessionCookie)
	}

	c.logger.Debug("Console request",
		zap.String("method", method),
		zap.String("url", target),
		zap.String("request_id", requestID),
	)

	startTime := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil && errors.Is(ctx.Err(), context.Canceled) {
			c.logger.Debug("Console request aborted",
				zap.String("url", target),
				zap.String("request_id", requestID),
			)
			return nil, ErrAborted
		}
		return nil, fmt.Errorf("request to %s failed: %w", target, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		if errors.Is(ctx.Err(), context.Canceled) {
			return nil, ErrAborted
		}
		return nil, fmt.Errorf("failed to read response from %s: %w", target, err)
	}

	env := &model.Envelope{}
	decodeErr := json.Unmarshal(data, env)

	c.logger.Debug("Console response",
		zap.String("url", target),
		zap.String("request_id", requestID),
		zap.Int("status", resp.StatusCode),
		zap.Int("bytes", len(data)),
		zap.Duration("elapsed", time.Since(startTime)),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		fe := &FetchError{Status: resp.StatusCode, URL: target}
		if decodeErr == nil {
			fe.Message = env.Message
		}
		return nil, fe
	}

	if decodeErr != nil {
		// a body that is not an envelope reads as "no results"
		c.logger.Warn("Console response is not a JSON envelope",
			zap.String("url", target),
			zap.Error(decodeErr),
		)
		return &model.Envelope{}, nil
	}
	return env, nil
}
