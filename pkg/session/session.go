// Package session tracks live browser-automation sessions. Each session
// owns one page handle and is addressed by an opaque string identifier
// allocated from a process-wide monotonic counter.
package session

import (
	"sync"
	"time"

	"github.com/entrhq/webpilot/pkg/browser"
)

// Session is a live browser context addressed by its identifier.
type Session struct {
	// ID is the session's identifier: the decimal rendering of a
	// monotonic counter, never reused within a process even after close.
	ID string

	// Page is the automation handle owned by this session.
	Page browser.Page

	// CreatedAt is when the session became visible in the store.
	CreatedAt time.Time

	mu           sync.Mutex
	highlightSeq int
}

// NextHighlight increments and returns the session's highlight counter,
// used to number the overlay boxes drawn on clicked elements.
func (s *Session) NextHighlight() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.highlightSeq++
	return s.highlightSeq
}

// HighlightCount returns how many highlights have been drawn so far.
func (s *Session) HighlightCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.highlightSeq
}
