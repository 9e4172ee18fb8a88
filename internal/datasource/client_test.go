package datasource

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *ConsoleClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := NewConsoleClient(ClientConfig{
		BaseURL:       srv.URL,
		CSRFToken:     "tok en",
		SessionCookie: "session=abc",
		Timeout:       5 * time.Second,
	}, zap.NewNop())
	require.NoError(t, err)
	return client
}

func TestFetchItemsPostsTokenAndDecodesEnvelope(t *testing.T) {
	var gotBody, gotType, gotXRW, gotCookie, gotQuery string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		gotBody = string(body)
		gotType = r.Header.Get("Content-Type")
		gotXRW = r.Header.Get("X-Requested-With")
		gotCookie = r.Header.Get("Cookie")
		gotQuery = r.URL.RawQuery
		assert.Equal(t, http.MethodPost, r.Method)
		assert.NotEmpty(t, r.Header.Get("X-Request-ID"))
		_, _ = w.Write([]byte(`{"results":[{"name":"web-1","transitional":false},{"name":"web-2","transitional":true}]}`))
	})

	items, err := client.FetchItems(context.Background(), "/instances/json?status=running")
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "web-2", items[1]["name"])
	assert.True(t, items[1].Transitional())

	assert.Equal(t, "csrf_token=tok+en", gotBody)
	assert.Equal(t, "application/x-www-form-urlencoded", gotType)
	assert.Equal(t, "XMLHttpRequest", gotXRW)
	assert.Equal(t, "session=abc", gotCookie)
	assert.Equal(t, "status=running", gotQuery)
}

func TestFetchItemsMissingEnvelopeIsEmpty(t *testing.T) {
	for _, body := range []string{`{}`, `null`, `not json`, `{"results":"oops"}`} {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(body))
		})
		items, err := client.FetchItems(context.Background(), "/volumes/json")
		require.NoError(t, err, body)
		assert.NotNil(t, items, body)
		assert.Empty(t, items, body)
	}
}

func TestFetchItemsErrorCarriesStatusAndMessage(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"message":"Not authorized"}`))
	})

	_, err := client.FetchItems(context.Background(), "/instances/json")
	var fe *FetchError
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, http.StatusForbidden, fe.Status)
	assert.Equal(t, "Not authorized", fe.Message)
}

func TestFetchItemsCancelledIsAborted(t *testing.T) {
	release := make(chan struct{})
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		<-release
	})
	defer close(release)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(50 * time.Millisecond)
		cancel()
	}()

	_, err := client.FetchItems(ctx, "/instances/json")
	assert.ErrorIs(t, err, ErrAborted)
}

func TestPostFormKeepsCallerValues(t *testing.T) {
	var gotBody string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		gotBody = string(body)
		_, _ = w.Write([]byte(`{"results":{"ok":true}}`))
	})

	values := url.Values{"instance_id": {"i-1"}}
	env, err := client.PostForm(context.Background(), "/instances/i-1/nixterminated", values)
	require.NoError(t, err)
	assert.Equal(t, true, env.Object()["ok"])
	assert.Equal(t, "csrf_token=tok+en&instance_id=i-1", gotBody)
	assert.Equal(t, url.Values{"instance_id": {"i-1"}}, values)
}

func TestGetObject(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/buckets/logs/objectcount/json", r.URL.Path)
		_, _ = w.Write([]byte(`{"results":{"object_count":7,"versioning_status":"Enabled"}}`))
	})

	obj, err := client.GetObject(context.Background(), "/buckets/logs/objectcount/json")
	require.NoError(t, err)
	assert.Equal(t, float64(7), obj["object_count"])
}

func TestResolve(t *testing.T) {
	client, err := NewConsoleClient(ClientConfig{BaseURL: "https://console.example.com/"}, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, "https://console.example.com/instances/json", client.Resolve("/instances/json"))
	assert.Equal(t, "https://other.example.com/x", client.Resolve("https://other.example.com/x"))
}
