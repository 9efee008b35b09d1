package browser

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gobwas/glob"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/entrhq/webpilot/pkg/browser"
	"github.com/entrhq/webpilot/pkg/logging"
	"github.com/entrhq/webpilot/pkg/session"
	"github.com/entrhq/webpilot/pkg/tools"
)

// mockPage records driver calls and serves canned responses.
type mockPage struct {
	mu          sync.Mutex
	url         string
	html        string
	text        string
	evaluations []string
	evalArgs    [][]interface{}
	evalResult  interface{}
	clicks      [][2]float64
	typed       []string
	screenshot  []byte
	element     *mockElement
	waitErr     error
	closed      bool
}

func (m *mockPage) URL() string              { return m.url }
func (m *mockPage) Title() (string, error)   { return "Mock", nil }
func (m *mockPage) Content() (string, error) { return m.html, nil }

func (m *mockPage) Evaluate(script string, args ...interface{}) (interface{}, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.evaluations = append(m.evaluations, script)
	m.evalArgs = append(m.evalArgs, args)
	if script == pageTextScript {
		return m.text, nil
	}
	return m.evalResult, nil
}

func (m *mockPage) Click(x, y float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.clicks = append(m.clicks, [2]float64{x, y})
	return nil
}

func (m *mockPage) Type(text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.typed = append(m.typed, text)
	return nil
}

func (m *mockPage) QuerySelector(css string) (browser.Element, error) {
	if m.element == nil {
		return nil, fmt.Errorf("%w: %s", browser.ErrNoSuchElement, css)
	}
	return m.element, nil
}

func (m *mockPage) WaitForSelector(css string, timeout time.Duration) (browser.Element, error) {
	if m.waitErr != nil {
		return nil, m.waitErr
	}
	if m.element == nil {
		return nil, fmt.Errorf("%w: %s", browser.ErrNoSuchElement, css)
	}
	return m.element, nil
}

func (m *mockPage) Screenshot() ([]byte, error) { return m.screenshot, nil }

func (m *mockPage) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

func (m *mockPage) evaluated(script string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range m.evaluations {
		if s == script {
			return true
		}
	}
	return false
}

type mockElement struct {
	clicked bool
	box     *browser.Box
}

func (e *mockElement) Click() error { e.clicked = true; return nil }

func (e *mockElement) TextContent() (string, error) { return "element text", nil }

func (e *mockElement) BoundingBox() (*browser.Box, error) { return e.box, nil }

// mockDriver hands out pre-built pages and counts opens.
type mockDriver struct {
	mu    sync.Mutex
	pages []*mockPage
	opens int
	err   error
}

func (d *mockDriver) Open(ctx context.Context, url string) (browser.Page, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.opens++
	if d.err != nil {
		return nil, d.err
	}
	var page *mockPage
	if len(d.pages) > 0 {
		page = d.pages[0]
		d.pages = d.pages[1:]
	} else {
		page = &mockPage{}
	}
	page.url = url
	return page, nil
}

func (d *mockDriver) Close() error { return nil }

func (d *mockDriver) openCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.opens
}

type fixture struct {
	registry *tools.Registry
	store    *session.Store
	driver   *mockDriver
}

func newFixture(t *testing.T, driver *mockDriver, allowed []glob.Glob) *fixture {
	t.Helper()
	logger, _ := logging.NewLogger("test")
	t.Cleanup(func() { logger.Close() })

	store := session.NewStore(10, logger)
	registry := tools.NewRegistry(logger)
	toolset := NewToolset(store, driver, allowed, logger)
	require.NoError(t, toolset.Register(registry))
	return &fixture{registry: registry, store: store, driver: driver}
}

func (f *fixture) dispatch(name string, args map[string]interface{}) tools.Result {
	return f.registry.Dispatch(context.Background(), name, args)
}

func (f *fixture) launch(t *testing.T, page *mockPage) string {
	t.Helper()
	f.driver.mu.Lock()
	f.driver.pages = append(f.driver.pages, page)
	f.driver.mu.Unlock()
	res := f.dispatch("launch_browser", map[string]interface{}{"url": "https://example.com"})
	require.True(t, res.OK(), "launch failed: %v", res.Err)
	return res.Text
}

func TestRegisterExposesAllTools(t *testing.T) {
	f := newFixture(t, &mockDriver{}, nil)

	var names []string
	for _, d := range f.registry.Descriptors() {
		names = append(names, d.Name)
	}
	assert.Equal(t, []string{
		"launch_browser", "click_element", "click_selector", "type_text",
		"scroll_page", "get_page_content", "get_dom_structure",
		"take_screenshot", "extract_data", "clear_highlights",
		"show_selectors", "close_browser",
	}, names)
}

func TestLaunchRejectsBadURLsBeforeDriver(t *testing.T) {
	f := newFixture(t, &mockDriver{}, nil)

	tests := []struct {
		name string
		url  interface{}
	}{
		{"missing url", nil},
		{"empty url", ""},
		{"no scheme", "example.com"},
		{"file scheme", "file:///etc/passwd"},
		{"javascript scheme", "javascript:alert(1)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := map[string]interface{}{}
			if tt.url != nil {
				args["url"] = tt.url
			}
			res := f.dispatch("launch_browser", args)
			require.False(t, res.OK())
			assert.Equal(t, tools.KindInvalidArgument, res.Err.Kind)
		})
	}
	assert.Equal(t, 0, f.driver.openCount(), "rejected URLs must never reach the driver")
	assert.Equal(t, 0, f.store.Len())
}

func TestLaunchHonorsAllowlist(t *testing.T) {
	allowed := []glob.Glob{glob.MustCompile("https://*.example.com*"), glob.MustCompile("https://example.com*")}
	f := newFixture(t, &mockDriver{}, allowed)

	res := f.dispatch("launch_browser", map[string]interface{}{"url": "https://evil.test/login"})
	require.False(t, res.OK())
	assert.Equal(t, tools.KindInvalidArgument, res.Err.Kind)
	assert.Equal(t, 0, f.driver.openCount())

	res = f.dispatch("launch_browser", map[string]interface{}{"url": "https://docs.example.com/page"})
	require.True(t, res.OK(), "allowlisted URL should launch: %v", res.Err)
	assert.Equal(t, "0", res.Text)
}

func TestLaunchReturnsSequentialSessionIDs(t *testing.T) {
	f := newFixture(t, &mockDriver{}, nil)

	for _, want := range []string{"0", "1"} {
		res := f.dispatch("launch_browser", map[string]interface{}{"url": "https://example.com"})
		require.True(t, res.OK())
		assert.Equal(t, want, res.Text)
	}
}

func TestLaunchDriverFailureOpensNoSession(t *testing.T) {
	driver := &mockDriver{err: errors.New("chromium exited")}
	f := newFixture(t, driver, nil)

	res := f.dispatch("launch_browser", map[string]interface{}{"url": "https://example.com"})
	require.False(t, res.OK())
	assert.Equal(t, tools.KindExecutionFailed, res.Err.Kind)
	assert.Equal(t, 0, f.store.Len())
}

func TestSessionLifecycle(t *testing.T) {
	f := newFixture(t, &mockDriver{}, nil)
	page := &mockPage{text: "hello"}

	id := f.launch(t, page)

	res := f.dispatch("get_page_content", map[string]interface{}{"session_id": id})
	require.True(t, res.OK())
	assert.Equal(t, "hello", res.Text)

	res = f.dispatch("close_browser", map[string]interface{}{"session_id": id})
	require.True(t, res.OK())
	assert.Contains(t, res.Text, "closed successfully")
	assert.True(t, page.closed)

	res = f.dispatch("get_page_content", map[string]interface{}{"session_id": id})
	require.False(t, res.OK())
	assert.Equal(t, tools.KindNotFound, res.Err.Kind)
}

func TestToolsRejectUnknownSession(t *testing.T) {
	f := newFixture(t, &mockDriver{}, nil)

	for _, name := range []string{
		"click_selector", "type_text", "scroll_page", "get_page_content",
		"get_dom_structure", "take_screenshot", "extract_data",
		"clear_highlights", "show_selectors", "close_browser",
	} {
		args := map[string]interface{}{"session_id": "42"}
		switch name {
		case "click_selector":
			args["selector"] = "#go"
		case "type_text":
			args["text"] = "hi"
		case "extract_data":
			args["pattern"] = "anything"
		}
		res := f.dispatch(name, args)
		require.False(t, res.OK(), "%s should fail for unknown session", name)
		assert.Equal(t, tools.KindNotFound, res.Err.Kind, name)
	}
}

func TestClickValidatesCoordinatesBeforePage(t *testing.T) {
	f := newFixture(t, &mockDriver{}, nil)
	page := &mockPage{}
	id := f.launch(t, page)

	for _, args := range []map[string]interface{}{
		{"session_id": id, "x": -1, "y": 5},
		{"session_id": id, "x": 5, "y": 10001},
		{"session_id": id, "x": 1.5, "y": 5},
		{"session_id": id, "x": "12", "y": 5},
	} {
		res := f.dispatch("click_element", args)
		require.False(t, res.OK())
		assert.Equal(t, tools.KindInvalidArgument, res.Err.Kind)
	}
	assert.Empty(t, page.clicks, "invalid coordinates must never be clicked")
}

func TestClickHighlightsAndFiresEvents(t *testing.T) {
	f := newFixture(t, &mockDriver{}, nil)
	page := &mockPage{}
	id := f.launch(t, page)

	res := f.dispatch("click_element", map[string]interface{}{"session_id": id, "x": 100, "y": 200})
	require.True(t, res.OK())
	assert.Equal(t, "Clicked at coordinates (100, 200) with JavaScript events", res.Text)

	require.Len(t, page.clicks, 1)
	assert.Equal(t, [2]float64{100, 200}, page.clicks[0])
	assert.True(t, page.evaluated(highlightScript))
	assert.True(t, page.evaluated(clickEventsScript))

	sess, err := f.store.Get(id)
	require.NoError(t, err)
	assert.Equal(t, 1, sess.HighlightCount())

	res = f.dispatch("click_element", map[string]interface{}{"session_id": id, "x": 10, "y": 20})
	require.True(t, res.OK())
	assert.Equal(t, 2, sess.HighlightCount(), "each click numbers a fresh highlight")
}

func TestClickSelector(t *testing.T) {
	f := newFixture(t, &mockDriver{}, nil)
	el := &mockElement{box: &browser.Box{X: 10, Y: 20, Width: 100, Height: 40}}
	page := &mockPage{element: el}
	id := f.launch(t, page)

	res := f.dispatch("click_selector", map[string]interface{}{"session_id": id, "selector": "#submit"})
	require.True(t, res.OK())
	assert.Equal(t, "Clicked element with selector: #submit", res.Text)
	assert.True(t, el.clicked)
	assert.True(t, page.evaluated(highlightScript))
}

func TestClickSelectorNotFound(t *testing.T) {
	f := newFixture(t, &mockDriver{}, nil)
	page := &mockPage{}
	id := f.launch(t, page)

	res := f.dispatch("click_selector", map[string]interface{}{"session_id": id, "selector": "#missing"})
	require.False(t, res.OK())
	assert.Equal(t, tools.KindNotFound, res.Err.Kind)
	assert.Contains(t, res.Err.Message, "#missing")
}

func TestTypeTextPreview(t *testing.T) {
	f := newFixture(t, &mockDriver{}, nil)
	page := &mockPage{}
	id := f.launch(t, page)

	res := f.dispatch("type_text", map[string]interface{}{"session_id": id, "text": "short"})
	require.True(t, res.OK())
	assert.Equal(t, "Typed text: short", res.Text)

	long := strings.Repeat("x", 80)
	res = f.dispatch("type_text", map[string]interface{}{"session_id": id, "text": long})
	require.True(t, res.OK())
	assert.Equal(t, "Typed text: "+strings.Repeat("x", 50)+"...", res.Text)
	assert.Equal(t, []string{"short", long}, page.typed)
}

func TestTypeTextLengthLimit(t *testing.T) {
	f := newFixture(t, &mockDriver{}, nil)
	page := &mockPage{}
	id := f.launch(t, page)

	res := f.dispatch("type_text", map[string]interface{}{
		"session_id": id,
		"text":       strings.Repeat("a", maxTypedTextLength+1),
	})
	require.False(t, res.OK())
	assert.Equal(t, tools.KindInvalidArgument, res.Err.Kind)
	assert.Empty(t, page.typed)
}

func TestScrollDirections(t *testing.T) {
	f := newFixture(t, &mockDriver{}, nil)
	page := &mockPage{}
	id := f.launch(t, page)

	res := f.dispatch("scroll_page", map[string]interface{}{"session_id": id})
	require.True(t, res.OK())
	assert.Equal(t, "Scrolled down", res.Text, "direction defaults to down")
	assert.True(t, page.evaluated(scrollDownScript))

	res = f.dispatch("scroll_page", map[string]interface{}{"session_id": id, "direction": "up"})
	require.True(t, res.OK())
	assert.Equal(t, "Scrolled up", res.Text)
	assert.True(t, page.evaluated(scrollUpScript))

	res = f.dispatch("scroll_page", map[string]interface{}{"session_id": id, "direction": "sideways"})
	require.False(t, res.OK())
	assert.Equal(t, tools.KindInvalidArgument, res.Err.Kind)
}

func TestPageContentMarkdown(t *testing.T) {
	f := newFixture(t, &mockDriver{}, nil)
	page := &mockPage{html: "<html><body><h1>Title</h1><p>Some <strong>bold</strong> text.</p></body></html>"}
	id := f.launch(t, page)

	res := f.dispatch("get_page_content", map[string]interface{}{"session_id": id, "format": "markdown"})
	require.True(t, res.OK())
	assert.Contains(t, res.Text, "# Title")
	assert.Contains(t, res.Text, "**bold**")
}

func TestDOMStructure(t *testing.T) {
	f := newFixture(t, &mockDriver{}, nil)
	page := &mockPage{evalResult: map[string]interface{}{
		"tag":      "html",
		"children": []interface{}{map[string]interface{}{"tag": "body"}},
	}}
	id := f.launch(t, page)

	res := f.dispatch("get_dom_structure", map[string]interface{}{"session_id": id, "max_depth": 2})
	require.True(t, res.OK())
	assert.Contains(t, res.Text, `"tag": "html"`)
	assert.Equal(t, []interface{}{2}, page.evalArgs[len(page.evalArgs)-1], "depth travels as a script argument")

	for _, depth := range []interface{}{0, 11} {
		res = f.dispatch("get_dom_structure", map[string]interface{}{"session_id": id, "max_depth": depth})
		require.False(t, res.OK())
		assert.Equal(t, tools.KindInvalidArgument, res.Err.Kind)
	}
}

func TestScreenshotReportsSize(t *testing.T) {
	f := newFixture(t, &mockDriver{}, nil)
	page := &mockPage{screenshot: make([]byte, 2048)}
	id := f.launch(t, page)

	res := f.dispatch("take_screenshot", map[string]interface{}{"session_id": id})
	require.True(t, res.OK())
	assert.Contains(t, res.Text, "Screenshot captured (2048 bytes)")
}

func TestExtractDataStrategies(t *testing.T) {
	f := newFixture(t, &mockDriver{}, nil)
	page := &mockPage{evalResult: []interface{}{
		map[string]interface{}{"text": "$9.99"},
	}}
	id := f.launch(t, page)

	res := f.dispatch("extract_data", map[string]interface{}{"session_id": id, "pattern": "Product Prices"})
	require.True(t, res.OK())
	assert.Contains(t, res.Text, "$9.99")
	assert.True(t, page.evaluated(extractionStrategies["product prices"]), "known patterns use their tuned query")

	res = f.dispatch("extract_data", map[string]interface{}{"session_id": id, "pattern": "checkout"})
	require.True(t, res.OK())
	assert.True(t, page.evaluated(genericExtractionScript))
	last := page.evalArgs[len(page.evalArgs)-1]
	assert.Equal(t, []interface{}{"checkout"}, last, "the pattern travels as a script argument")
}

func TestClearHighlights(t *testing.T) {
	f := newFixture(t, &mockDriver{}, nil)
	page := &mockPage{}
	id := f.launch(t, page)

	res := f.dispatch("clear_highlights", map[string]interface{}{"session_id": id})
	require.True(t, res.OK())
	assert.Equal(t, "All highlight boxes cleared from page", res.Text)
	assert.True(t, page.evaluated(clearHighlightsScript))
}

func TestShowSelectorsSummary(t *testing.T) {
	f := newFixture(t, &mockDriver{}, nil)

	var collected []interface{}
	for i := 0; i < 12; i++ {
		collected = append(collected, map[string]interface{}{
			"selector": fmt.Sprintf("#el-%d", i),
			"x":        float64(10 * i),
			"y":        float64(20 * i),
			"width":    float64(50),
			"height":   float64(20),
			"color":    "#2196f3",
			"tag":      "button",
			"text":     "Go",
		})
	}
	page := &mockPage{evalResult: collected}
	id := f.launch(t, page)

	res := f.dispatch("show_selectors", map[string]interface{}{"session_id": id})
	require.True(t, res.OK())
	assert.Contains(t, res.Text, "Added 12 clickable debug dots (interactive elements)")
	assert.Contains(t, res.Text, "1. #el-0 (button)")
	assert.Contains(t, res.Text, "10. #el-9 (button)")
	assert.NotContains(t, res.Text, "#el-10", "summary lists the first ten only")
	assert.Contains(t, res.Text, "... and 2 more")
	assert.True(t, page.evaluated(drawSelectorLegendScript))

	res = f.dispatch("show_selectors", map[string]interface{}{"session_id": id, "element_types": "widgets"})
	require.False(t, res.OK())
	assert.Equal(t, tools.KindInvalidArgument, res.Err.Kind)
}
