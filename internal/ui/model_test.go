package ui

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourusername/console-landing/internal/app"
	"github.com/yourusername/console-landing/internal/events"
	"github.com/yourusername/console-landing/internal/model"
	"github.com/yourusername/console-landing/internal/widget"
	"go.uber.org/zap"
)

type consoleStub struct {
	mu       sync.Mutex
	requests []string
	routes   map[string]string
	status   map[string]int
}

func (c *consoleStub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	c.mu.Lock()
	c.requests = append(c.requests, r.Method+" "+r.URL.RequestURI())
	body, ok := c.routes[r.URL.Path]
	status := c.status[r.URL.Path]
	c.mu.Unlock()

	if !ok {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	if status != 0 {
		w.WriteHeader(status)
	}
	_, _ = w.Write([]byte(body))
}

func (c *consoleStub) count(request string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, r := range c.requests {
		if r == request {
			n++
		}
	}
	return n
}

const twoInstances = `{"results":[{"id":"i-2","name":"web","status":"running"},{"id":"i-1","name":"db","status":"stopped"}]}`

var testPages = []app.PageConfig{
	{
		Name:     "instances",
		Title:    "Instances",
		Path:     "/instances",
		Endpoint: "/instances/json",
		Sort:     "name",
		SortKeys: []app.SortKey{
			{Key: "name", Name: "Name: A to Z"},
			{Key: "-name", Name: "Name: Z to A"},
		},
		FilterKeys: []string{"name", "id"},
		Columns:    []string{"name", "status"},
		Actions: []widget.Action{{
			Name:    "remove",
			Title:   "Remove from view",
			URL:     "/instances/terminated/_id_/remove",
			Field:   "instance_id",
			Success: "Successfully removed terminated instance",
		}},
	},
	{
		Name:     "volumes",
		Title:    "Volumes",
		Path:     "/volumes",
		Endpoint: "/volumes/json",
		Columns:  []string{"name"},
	},
}

func newTestModel(t *testing.T, stub *consoleStub, pageSize int) *Model {
	t.Helper()
	srv := httptest.NewServer(stub)
	t.Cleanup(srv.Close)

	dir := t.TempDir()
	cfg := &app.Config{
		BaseURL:             srv.URL,
		Timeout:             5 * time.Second,
		PollInterval:        time.Hour,
		TransitionalRefresh: true,
		Locale:              "en",
		PageSize:            pageSize,
		StoragePath:         filepath.Join(dir, "prefs.db"),
		EnrichMaxConcurrent: 2,
		EnrichCacheSize:     16,
		EnrichCacheTTL:      time.Minute,
		LogLevel:            "error",
		LogFile:             filepath.Join(dir, "test.log"),
		Pages:               testPages,
	}
	a, err := app.New(cfg, "test")
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Shutdown() })

	m := NewModel(a, zap.NewNop(), Options{Pages: cfg.Pages, Locale: "en"})
	m.exportDir = filepath.Join(dir, "exports")
	t.Cleanup(m.Close)

	m.Init()
	m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return m
}

// settle feeds queued loop callbacks to Update until cond holds
func settle(t *testing.T, m *Model, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatal("condition not reached")
		}
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
		m.Loop().Wait(ctx)
		cancel()
		m.Update(loopMsg{})
	}
}

func loaded(m *Model) func() bool {
	return func() bool {
		ctrl := m.session.Controller
		return !ctrl.Loading() && !ctrl.LastUpdate().IsZero()
	}
}

func keyMsg(k string) tea.KeyMsg {
	switch k {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
}

func press(m *Model, keys ...string) tea.Cmd {
	var cmd tea.Cmd
	for _, k := range keys {
		_, cmd = m.Update(keyMsg(k))
	}
	return cmd
}

func TestModelRendersSortedTable(t *testing.T) {
	stub := &consoleStub{routes: map[string]string{"/instances/json": twoInstances}}
	m := newTestModel(t, stub, 100)
	settle(t, m, loaded(m))

	view := m.View()
	assert.Contains(t, view, "Console · Instances")
	assert.Contains(t, view, "2 items")
	assert.Contains(t, view, "/instances")
	assert.Less(t, strings.Index(view, "db"), strings.Index(view, "web"))

	item, ok := m.selectedItem()
	require.True(t, ok)
	assert.Equal(t, "i-1", item.ID())
}

func TestSearchNarrowsAndEscClears(t *testing.T) {
	stub := &consoleStub{routes: map[string]string{"/instances/json": twoInstances}}
	m := newTestModel(t, stub, 100)
	settle(t, m, loaded(m))

	press(m, "/", "w", "e")
	settle(t, m, func() bool { return m.session.Controller.VisibleCount() == 1 })
	assert.Contains(t, m.View(), "1 of 2 shown")
	assert.Equal(t, "we", m.session.Controller.Filter().SearchText)

	press(m, "enter")
	assert.Equal(t, modeList, m.mode)

	press(m, "esc")
	settle(t, m, func() bool { return m.session.Controller.VisibleCount() == 2 })
}

func TestSearchWithoutMatches(t *testing.T) {
	stub := &consoleStub{routes: map[string]string{"/instances/json": twoInstances}}
	m := newTestModel(t, stub, 100)
	settle(t, m, loaded(m))

	press(m, "/", "zzz")
	settle(t, m, func() bool { return m.session.Controller.VisibleCount() == 0 })
	assert.Contains(t, m.View(), `No items match "zzz"`)
}

func TestViewToggleRendersGrid(t *testing.T) {
	stub := &consoleStub{routes: map[string]string{"/instances/json": twoInstances}}
	m := newTestModel(t, stub, 100)
	settle(t, m, loaded(m))

	press(m, "v")
	assert.Equal(t, model.DisplayGrid, m.session.Controller.Preference().DisplayMode)
	view := m.View()
	assert.Contains(t, view, "╭")
	assert.Contains(t, view, "Grid")
}

func TestSortMenuSelectsKey(t *testing.T) {
	stub := &consoleStub{routes: map[string]string{"/instances/json": twoInstances}}
	m := newTestModel(t, stub, 100)
	settle(t, m, loaded(m))

	press(m, "s")
	require.Equal(t, modeSort, m.mode)
	assert.True(t, m.session.Controller.SortMenuOpen())
	assert.Contains(t, m.View(), "● Name: A to Z")

	press(m, "down", "enter")
	assert.Equal(t, modeList, m.mode)
	assert.False(t, m.session.Controller.SortMenuOpen())
	assert.Equal(t, "-name", m.session.Controller.Preference().SortBy)
	assert.Equal(t, "web", m.session.Controller.Rows()[0]["name"])

	press(m, "s", "-")
	assert.Equal(t, "name", m.session.Controller.Preference().SortBy)
}

func TestFacetFilterUpdatesQueryAndBack(t *testing.T) {
	stub := &consoleStub{routes: map[string]string{"/instances/json": twoInstances}}
	m := newTestModel(t, stub, 100)
	settle(t, m, loaded(m))

	press(m, "f", "status=running", "enter")
	settle(t, m, func() bool { return stub.count("POST /instances/json?status=running") == 1 })
	settle(t, m, loaded(m))
	assert.Equal(t, "/instances?status=running", m.session.Controller.Location())
	assert.Contains(t, m.View(), "Filter: status=running")

	press(m, "esc")
	settle(t, m, func() bool { return stub.count("POST /instances/json") == 2 })
	assert.Equal(t, "/instances", m.session.Controller.Location())
}

func TestFacetFilterRejectsBadInput(t *testing.T) {
	stub := &consoleStub{routes: map[string]string{"/instances/json": twoInstances}}
	m := newTestModel(t, stub, 100)
	settle(t, m, loaded(m))

	press(m, "f", "running", "enter")
	assert.Equal(t, modeFacet, m.mode)
	assert.Contains(t, m.notice, "Invalid filter")
}

func TestTabSwitchesPage(t *testing.T) {
	stub := &consoleStub{routes: map[string]string{
		"/instances/json": twoInstances,
		"/volumes/json":   `{"results":[{"id":"vol-1","name":"data"}]}`,
	}}
	m := newTestModel(t, stub, 100)
	settle(t, m, loaded(m))
	old := m.session

	press(m, "tab")
	assert.Equal(t, "volumes", m.session.Page.Name)
	settle(t, m, loaded(m))
	assert.Contains(t, m.View(), "data")

	// the closed page no longer reacts to its bus
	old.Bus.Publish(events.Refresh{})
	time.Sleep(50 * time.Millisecond)
	m.Update(loopMsg{})
	assert.Equal(t, 1, stub.count("POST /instances/json"))

	press(m, "1")
	assert.Equal(t, "instances", m.session.Page.Name)
}

func TestSessionExpiredModal(t *testing.T) {
	stub := &consoleStub{
		routes: map[string]string{"/instances/json": `{"message":"token expired"}`},
		status: map[string]int{"/instances/json": http.StatusForbidden},
	}
	m := newTestModel(t, stub, 100)
	settle(t, m, func() bool { return m.sessionGone })

	assert.Contains(t, m.View(), "Your session has expired")
	press(m, "r")
	assert.True(t, m.sessionGone)

	press(m, "esc")
	assert.False(t, m.sessionGone)
}

func TestFailureNoticeFades(t *testing.T) {
	stub := &consoleStub{
		routes: map[string]string{"/instances/json": `{"message":"Not authorized to list instances"}`},
		status: map[string]int{"/instances/json": http.StatusForbidden},
	}
	m := newTestModel(t, stub, 100)
	settle(t, m, func() bool { return m.notice != "" })

	assert.False(t, m.sessionGone)
	assert.Contains(t, m.View(), "Not authorized to list instances")

	m.now = func() time.Time { return time.Now().Add(time.Minute) }
	m.Update(tickMsg(time.Now()))
	assert.Empty(t, m.notice)
}

func TestActionRunsAfterConfirmation(t *testing.T) {
	stub := &consoleStub{routes: map[string]string{
		"/instances/json":                 twoInstances,
		"/instances/terminated/i-1/remove": `{"message":"ok"}`,
	}}
	m := newTestModel(t, stub, 100)
	settle(t, m, loaded(m))

	press(m, "a")
	require.Equal(t, modeActions, m.mode)
	assert.Contains(t, m.View(), "Remove from view")

	press(m, "enter")
	require.Equal(t, modeConfirm, m.mode)
	assert.Contains(t, m.View(), `Run "Remove from view" on i-1?`)

	cmd := press(m, "y")
	require.NotNil(t, cmd)
	m.Update(cmd())

	assert.Equal(t, 1, stub.count("POST /instances/terminated/i-1/remove"))
	settle(t, m, func() bool { return stub.count("POST /instances/json") == 2 })
	settle(t, m, func() bool { return m.notice == "Successfully removed terminated instance" })
}

func TestActionCancelled(t *testing.T) {
	stub := &consoleStub{routes: map[string]string{"/instances/json": twoInstances}}
	m := newTestModel(t, stub, 100)
	settle(t, m, loaded(m))

	press(m, "a", "enter", "n")
	assert.Equal(t, modeList, m.mode)
	assert.Nil(t, m.pendingAction)
}

func TestExportCSV(t *testing.T) {
	stub := &consoleStub{routes: map[string]string{"/instances/json": twoInstances}}
	m := newTestModel(t, stub, 1)
	settle(t, m, loaded(m))

	cmd := press(m, "e")
	require.NotNil(t, cmd)
	msg := cmd()
	done, ok := msg.(exportSuccessMsg)
	require.True(t, ok, "%#v", msg)
	assert.Equal(t, 2, done.count)

	data, err := os.ReadFile(done.filePath)
	require.NoError(t, err)
	assert.Equal(t, "name,status\ndb,stopped\nweb,running\n", string(data))

	m.Update(msg)
	assert.Contains(t, m.notice, "Exported 2 rows")
}

func TestDetailShowsYAML(t *testing.T) {
	stub := &consoleStub{routes: map[string]string{"/instances/json": twoInstances}}
	m := newTestModel(t, stub, 100)
	settle(t, m, loaded(m))

	press(m, "enter")
	require.Equal(t, modeDetail, m.mode)
	view := m.View()
	assert.Contains(t, view, "Details: i-1")
	assert.Contains(t, view, "id: i-1")

	press(m, "esc")
	assert.Equal(t, modeList, m.mode)
}

func TestScrollingPastWindowShowsMore(t *testing.T) {
	stub := &consoleStub{routes: map[string]string{
		"/instances/json": `{"results":[{"id":"a","name":"a"},{"id":"b","name":"b"},{"id":"c","name":"c"}]}`,
	}}
	m := newTestModel(t, stub, 2)
	settle(t, m, loaded(m))

	assert.True(t, m.session.Controller.HasMore())
	assert.Contains(t, m.View(), "show more (2 of 3)")

	press(m, "down", "down")
	assert.Equal(t, 2, m.selectedIndex)
	assert.Len(t, m.session.Controller.Rows(), 3)
	assert.False(t, m.session.Controller.HasMore())
}

func TestCopyID(t *testing.T) {
	var copied string
	restore := clipboardWrite
	clipboardWrite = func(s string) error { copied = s; return nil }
	t.Cleanup(func() { clipboardWrite = restore })

	stub := &consoleStub{routes: map[string]string{"/instances/json": twoInstances}}
	m := newTestModel(t, stub, 100)
	settle(t, m, loaded(m))

	press(m, "y")
	assert.Equal(t, "i-1", copied)
	assert.Equal(t, "Copied i-1 to clipboard", m.notice)
}

func TestFacetText(t *testing.T) {
	assert.Equal(t, "", facetText("/instances"))
	assert.Equal(t, "", facetText("/instances?"))
	assert.Equal(t, "status=running zone=a zone=b", facetText("/instances?zone=a&status=running&zone=b"))
}

func TestReverseSortKey(t *testing.T) {
	assert.Equal(t, "-name", reverseSortKey("name"))
	assert.Equal(t, "name", reverseSortKey("-name"))
}
