// Package browser defines the automation-driver seam the tool layer is
// written against, plus the Playwright-backed implementation. Everything
// above this package talks to Driver/Page/Element; nothing above it
// imports the playwright bindings directly, which keeps the dispatch core
// testable with an in-memory fake.
package browser

import (
	"context"
	"errors"
	"time"
)

// ErrNoSuchElement is returned when a selector matches nothing, including
// when a bounded wait for the selector times out.
var ErrNoSuchElement = errors.New("no element matched selector")

// Driver launches and tears down browser pages. One driver instance is
// shared by all sessions; each Open yields an isolated page.
type Driver interface {
	// Open launches an isolated browser page and navigates it to url.
	// Navigation failures close whatever was launched and return an error.
	Open(ctx context.Context, url string) (Page, error)

	// Close shuts down the driver runtime. Pages should be closed first.
	Close() error
}

// Page is a live browser page owned by exactly one session.
type Page interface {
	// URL returns the page's current URL.
	URL() string

	// Title returns the current document title.
	Title() (string, error)

	// Content returns the full serialized HTML of the page.
	Content() (string, error)

	// Evaluate runs a JavaScript function in the page and returns its
	// result. Arguments are marshaled and passed to the function, never
	// spliced into the script text.
	Evaluate(script string, args ...interface{}) (interface{}, error)

	// Click performs a physical mouse click at viewport coordinates.
	Click(x, y float64) error

	// Type sends keystrokes to the currently focused element.
	Type(text string) error

	// QuerySelector returns the first element matching the CSS selector,
	// or ErrNoSuchElement when nothing matches.
	QuerySelector(css string) (Element, error)

	// WaitForSelector waits up to timeout for the selector to appear.
	// Returns ErrNoSuchElement when the wait expires.
	WaitForSelector(css string, timeout time.Duration) (Element, error)

	// Screenshot captures the current viewport as PNG bytes.
	Screenshot() ([]byte, error)

	// Close releases the page and everything launched for it.
	Close() error
}

// Element is a handle to a single DOM element.
type Element interface {
	// Click clicks the element, waiting for actionability.
	Click() error

	// TextContent returns the element's text content.
	TextContent() (string, error)

	// BoundingBox returns the element's layout box, or nil when the
	// element is not rendered.
	BoundingBox() (*Box, error)
}

// Box is an element's position and size in page coordinates.
type Box struct {
	X      float64
	Y      float64
	Width  float64
	Height float64
}
