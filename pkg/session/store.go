package session

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/entrhq/webpilot/pkg/browser"
	"github.com/entrhq/webpilot/pkg/logging"
	"github.com/entrhq/webpilot/pkg/tools"
)

// DefaultMaxSessions caps how many sessions can be live at once.
const DefaultMaxSessions = 10

// OpenFunc opens the page a new session will own. It is called outside
// the store lock, so slow browser launches never block other callers.
type OpenFunc func(ctx context.Context) (browser.Page, error)

// Store owns all live sessions. Creation is all-or-nothing: a slot and
// identifier are reserved up front, the page is opened outside the lock,
// and the session only becomes visible once the open succeeds. Failed
// opens release the slot but never return the identifier to the pool.
type Store struct {
	mu       sync.Mutex
	sessions map[string]*Session
	pending  int
	nextID   uint64
	max      int
	logger   *logging.Logger
}

// NewStore creates an empty store. max <= 0 falls back to DefaultMaxSessions.
func NewStore(max int, logger *logging.Logger) *Store {
	if max <= 0 {
		max = DefaultMaxSessions
	}
	return &Store{
		sessions: make(map[string]*Session),
		max:      max,
		logger:   logger,
	}
}

// Create reserves a slot, opens the page via open, and commits the new
// session. The capacity check counts both live and in-flight creations,
// so concurrent callers can never overshoot the cap.
func (s *Store) Create(ctx context.Context, open OpenFunc) (*Session, error) {
	s.mu.Lock()
	if len(s.sessions)+s.pending >= s.max {
		s.mu.Unlock()
		return nil, tools.CapacityExceededf("maximum number of sessions (%d) reached", s.max)
	}
	s.pending++
	id := strconv.FormatUint(s.nextID, 10)
	s.nextID++
	s.mu.Unlock()

	page, err := open(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending--
	if err != nil {
		// The identifier stays consumed so ids remain monotonic even
		// across failed launches.
		return nil, err
	}

	sess := &Session{ID: id, Page: page, CreatedAt: time.Now()}
	s.sessions[id] = sess
	s.logger.Infof("session %s created", id)
	return sess, nil
}

// Get returns the session with the given identifier.
func (s *Store) Get(id string) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return nil, tools.NotFoundf("no session with id %q", id)
	}
	return sess, nil
}

// Close removes the session and closes its page. Page close failures are
// logged and swallowed; the session is gone from the store either way.
func (s *Store) Close(id string) error {
	s.mu.Lock()
	sess, ok := s.sessions[id]
	if ok {
		delete(s.sessions, id)
	}
	s.mu.Unlock()

	if !ok {
		return tools.NotFoundf("no session with id %q", id)
	}

	if err := sess.Page.Close(); err != nil {
		s.logger.Warnf("session %s: page close failed: %v", id, err)
	}
	s.logger.Infof("session %s closed", id)
	return nil
}

// CloseAll removes every session and closes each page best-effort. One
// failing close never stops the sweep. Returns how many sessions were
// removed.
func (s *Store) CloseAll() int {
	s.mu.Lock()
	removed := make([]*Session, 0, len(s.sessions))
	for id, sess := range s.sessions {
		removed = append(removed, sess)
		delete(s.sessions, id)
	}
	s.mu.Unlock()

	for _, sess := range removed {
		if err := sess.Page.Close(); err != nil {
			s.logger.Warnf("session %s: page close failed: %v", sess.ID, err)
		}
	}
	if len(removed) > 0 {
		s.logger.Infof("closed %d sessions", len(removed))
	}
	return len(removed)
}

// Len reports how many sessions are currently live.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// IDs returns the identifiers of all live sessions.
func (s *Store) IDs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids := make([]string, 0, len(s.sessions))
	for id := range s.sessions {
		ids = append(ids, id)
	}
	return ids
}
