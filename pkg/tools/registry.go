package tools

import (
	"context"
	"fmt"
	"sync"

	"github.com/entrhq/webpilot/pkg/logging"
)

const (
	// MaxResultLength is the ceiling applied to every success payload.
	MaxResultLength = 50000

	// TruncationMarker is appended when a payload is cut at the ceiling.
	TruncationMarker = "\n... (content truncated for size)"

	// maxLoggedArgLength bounds how much of an argument value ends up in
	// the invocation log.
	maxLoggedArgLength = 200
)

// Handler executes a validated tool invocation. Arguments have already
// passed schema validation and carry defaults; handlers return a plain
// text payload or an error (typed *Error values keep their kind,
// anything else is wrapped as ExecutionFailed).
type Handler func(ctx context.Context, args Args) (string, error)

type entry struct {
	desc    Descriptor
	handler Handler
}

// Registry maps tool names to schema-validated handlers. It is an owned
// instance rather than process-global state, so tests and embedders can
// run several independent registries side by side.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]*entry
	order   []string
	logger  *logging.Logger
}

// NewRegistry creates an empty registry. The logger records every
// invocation and its outcome.
func NewRegistry(logger *logging.Logger) *Registry {
	return &Registry{
		entries: make(map[string]*entry),
		logger:  logger,
	}
}

// Register adds a tool. The descriptor is validated once here so dispatch
// never sees a malformed schema. Duplicate names are rejected.
func (r *Registry) Register(desc Descriptor, h Handler) error {
	if err := desc.check(); err != nil {
		return err
	}
	if h == nil {
		return fmt.Errorf("tool %q registered without a handler", desc.Name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.entries[desc.Name]; exists {
		return fmt.Errorf("tool %q is already registered", desc.Name)
	}
	r.entries[desc.Name] = &entry{desc: desc, handler: h}
	r.order = append(r.order, desc.Name)
	return nil
}

// Descriptors returns all registered tool descriptors in registration order.
// Used by the transport layer to answer list-tools requests.
func (r *Registry) Descriptors() []Descriptor {
	r.mu.RLock()
	defer r.mu.RUnlock()

	descs := make([]Descriptor, 0, len(r.order))
	for _, name := range r.order {
		descs = append(descs, r.entries[name].desc)
	}
	return descs
}

// Dispatch validates arguments against the tool's schema, invokes the
// handler, and normalizes the outcome into a Result. Validation failures
// surface before any handler (and therefore any driver) call is made.
func (r *Registry) Dispatch(ctx context.Context, name string, rawArgs map[string]interface{}) Result {
	r.mu.RLock()
	e, ok := r.entries[name]
	r.mu.RUnlock()

	if !ok {
		r.logger.Warnf("dispatch rejected unknown tool %q", name)
		return Failure(&Error{Kind: KindUnknownTool, Message: fmt.Sprintf("unknown tool: %s", name)})
	}

	r.logger.Infof("dispatch %s %s", name, summarizeArgs(rawArgs))

	args, verr := e.desc.apply(rawArgs)
	if verr != nil {
		r.logger.Warnf("dispatch %s failed validation: %s", name, verr.Message)
		return Failure(verr)
	}

	text, err := e.handler(ctx, args)
	if err != nil {
		te := AsError(err)
		r.logger.Errorf("dispatch %s failed: %s", name, te.Message)
		return Failure(te)
	}

	if truncated, cut := truncateRunes(text, MaxResultLength); cut {
		text = truncated + TruncationMarker
	}
	r.logger.Infof("dispatch %s succeeded (%d chars)", name, len(text))
	return Success(text)
}

// summarizeArgs renders arguments for the invocation log, truncating long
// values so typed text and scripts do not flood the log file.
func summarizeArgs(raw map[string]interface{}) string {
	if len(raw) == 0 {
		return "{}"
	}
	out := "{"
	first := true
	for k, v := range raw {
		if !first {
			out += ", "
		}
		first = false
		s := fmt.Sprintf("%v", v)
		if trimmed, cut := truncateRunes(s, maxLoggedArgLength); cut {
			s = trimmed + "..."
		}
		out += fmt.Sprintf("%s: %s", k, s)
	}
	return out + "}"
}

// truncateRunes cuts s to at most max characters on a rune boundary, so
// truncated output stays valid UTF-8. The second return reports whether
// anything was cut.
func truncateRunes(s string, max int) (string, bool) {
	if len(s) <= max {
		return s, false
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s, false
	}
	return string(runes[:max]), true
}
