package browser

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/playwright-community/playwright-go"
)

// Default values for Playwright-backed pages.
const (
	DefaultViewportWidth  = 1920
	DefaultViewportHeight = 1080
	DefaultNavTimeout     = 30 * time.Second
)

// Options configures the Playwright driver.
type Options struct {
	// Headless controls whether browsers run without a visible window.
	Headless bool

	// ViewportWidth and ViewportHeight set the page viewport.
	ViewportWidth  int
	ViewportHeight int

	// NavTimeout is the default timeout for navigation and page operations.
	NavTimeout time.Duration

	// Install runs the Playwright browser download before starting.
	Install bool
}

// PlaywrightDriver implements Driver on top of playwright-go. A single
// Playwright runtime is shared; each Open launches a dedicated Chromium
// instance so sessions stay fully isolated from one another.
type PlaywrightDriver struct {
	pw   *playwright.Playwright
	opts Options
}

// NewPlaywrightDriver starts the Playwright runtime. Driver output is
// discarded so it cannot interfere with the stdio transport.
func NewPlaywrightDriver(opts Options) (*PlaywrightDriver, error) {
	if opts.ViewportWidth == 0 {
		opts.ViewportWidth = DefaultViewportWidth
	}
	if opts.ViewportHeight == 0 {
		opts.ViewportHeight = DefaultViewportHeight
	}
	if opts.NavTimeout == 0 {
		opts.NavTimeout = DefaultNavTimeout
	}

	runOpts := &playwright.RunOptions{
		Verbose: false,
		Stdout:  io.Discard,
		Stderr:  io.Discard,
	}

	if opts.Install {
		if err := playwright.Install(runOpts); err != nil {
			return nil, fmt.Errorf("failed to install playwright: %w", err)
		}
	}

	pw, err := playwright.Run(runOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to start playwright: %w", err)
	}

	return &PlaywrightDriver{pw: pw, opts: opts}, nil
}

// Open launches a Chromium instance, creates an isolated context and page,
// and navigates to url. On any failure everything launched so far is torn
// down before the error is returned.
func (d *PlaywrightDriver) Open(ctx context.Context, url string) (Page, error) {
	launchOpts := playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(d.opts.Headless),
		Args:     []string{"--no-sandbox", "--disable-dev-shm-usage"},
	}
	b, err := d.pw.Chromium.Launch(launchOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}

	contextOpts := playwright.BrowserNewContextOptions{
		Viewport: &playwright.Size{
			Width:  d.opts.ViewportWidth,
			Height: d.opts.ViewportHeight,
		},
	}
	bctx, err := b.NewContext(contextOpts)
	if err != nil {
		b.Close()
		return nil, fmt.Errorf("failed to create context: %w", err)
	}

	page, err := bctx.NewPage()
	if err != nil {
		bctx.Close()
		b.Close()
		return nil, fmt.Errorf("failed to create page: %w", err)
	}

	page.SetDefaultTimeout(float64(d.opts.NavTimeout.Milliseconds()))

	if _, err := page.Goto(url, playwright.PageGotoOptions{}); err != nil {
		page.Close()
		bctx.Close()
		b.Close()
		return nil, fmt.Errorf("navigation failed: %w", err)
	}

	return &playwrightPage{browser: b, context: bctx, page: page}, nil
}

// Close stops the Playwright runtime.
func (d *PlaywrightDriver) Close() error {
	if err := d.pw.Stop(); err != nil {
		return fmt.Errorf("failed to stop playwright: %w", err)
	}
	return nil
}

// playwrightPage adapts a playwright page (and the browser launched for
// it) to the Page interface.
type playwrightPage struct {
	browser playwright.Browser
	context playwright.BrowserContext
	page    playwright.Page
}

func (p *playwrightPage) URL() string {
	return p.page.URL()
}

func (p *playwrightPage) Title() (string, error) {
	return p.page.Title()
}

func (p *playwrightPage) Content() (string, error) {
	return p.page.Content()
}

func (p *playwrightPage) Evaluate(script string, args ...interface{}) (interface{}, error) {
	return p.page.Evaluate(script, args...)
}

func (p *playwrightPage) Click(x, y float64) error {
	return p.page.Mouse().Click(x, y)
}

func (p *playwrightPage) Type(text string) error {
	return p.page.Keyboard().Type(text)
}

func (p *playwrightPage) QuerySelector(css string) (Element, error) {
	el, err := p.page.QuerySelector(css)
	if err != nil {
		return nil, fmt.Errorf("selector query failed: %w", err)
	}
	if el == nil {
		return nil, fmt.Errorf("%w: %s", ErrNoSuchElement, css)
	}
	return &playwrightElement{el: el}, nil
}

func (p *playwrightPage) WaitForSelector(css string, timeout time.Duration) (Element, error) {
	opts := playwright.PageWaitForSelectorOptions{
		Timeout: playwright.Float(float64(timeout.Milliseconds())),
	}
	el, err := p.page.WaitForSelector(css, opts)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrNoSuchElement, css)
	}
	if el == nil {
		return nil, fmt.Errorf("%w: %s", ErrNoSuchElement, css)
	}
	return &playwrightElement{el: el}, nil
}

func (p *playwrightPage) Screenshot() ([]byte, error) {
	return p.page.Screenshot()
}

// Close tears down the page, context and browser. Each step is attempted
// regardless of earlier failures; the first error is reported.
func (p *playwrightPage) Close() error {
	var firstErr error
	if err := p.page.Close(); err != nil {
		firstErr = err
	}
	if err := p.context.Close(); err != nil && firstErr == nil {
		firstErr = err
	}
	if err := p.browser.Close(); err != nil && firstErr == nil {
		firstErr = err
	}
	return firstErr
}

// playwrightElement adapts a playwright element handle.
type playwrightElement struct {
	el playwright.ElementHandle
}

func (e *playwrightElement) Click() error {
	return e.el.Click()
}

func (e *playwrightElement) TextContent() (string, error) {
	return e.el.TextContent()
}

func (e *playwrightElement) BoundingBox() (*Box, error) {
	rect, err := e.el.BoundingBox()
	if err != nil {
		return nil, err
	}
	if rect == nil {
		return nil, nil
	}
	return &Box{X: rect.X, Y: rect.Y, Width: rect.Width, Height: rect.Height}, nil
}
