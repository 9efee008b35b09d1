package tools

import (
	"context"
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/entrhq/webpilot/pkg/logging"
)

func newTestRegistry(t *testing.T) *Registry {
	t.Helper()
	logger, _ := logging.NewLogger("test")
	t.Cleanup(func() { logger.Close() })
	return NewRegistry(logger)
}

func TestRegistryRejectsDuplicatesAndNilHandlers(t *testing.T) {
	r := newTestRegistry(t)
	desc := Descriptor{Name: "ping"}
	handler := func(ctx context.Context, args Args) (string, error) { return "pong", nil }

	require.NoError(t, r.Register(desc, handler))
	assert.Error(t, r.Register(desc, handler), "duplicate names are rejected")
	assert.Error(t, r.Register(Descriptor{Name: "other"}, nil))
}

func TestRegistryDescriptorsKeepRegistrationOrder(t *testing.T) {
	r := newTestRegistry(t)
	handler := func(ctx context.Context, args Args) (string, error) { return "", nil }

	for _, name := range []string{"launch_browser", "click_element", "close_browser"} {
		require.NoError(t, r.Register(Descriptor{Name: name}, handler))
	}

	descs := r.Descriptors()
	require.Len(t, descs, 3)
	assert.Equal(t, "launch_browser", descs[0].Name)
	assert.Equal(t, "click_element", descs[1].Name)
	assert.Equal(t, "close_browser", descs[2].Name)
}

func TestDispatchUnknownTool(t *testing.T) {
	r := newTestRegistry(t)

	res := r.Dispatch(context.Background(), "no_such_tool", nil)
	require.False(t, res.OK())
	assert.Equal(t, KindUnknownTool, res.Err.Kind)
	assert.Equal(t, "unknown tool: no_such_tool", res.Err.Message)
}

func TestDispatchValidatesBeforeHandler(t *testing.T) {
	r := newTestRegistry(t)

	called := false
	desc := Descriptor{Name: "click", Params: []Param{coordParam("x"), coordParam("y")}}
	require.NoError(t, r.Register(desc, func(ctx context.Context, args Args) (string, error) {
		called = true
		return "clicked", nil
	}))

	res := r.Dispatch(context.Background(), "click", map[string]interface{}{"x": -1, "y": 5})
	require.False(t, res.OK())
	assert.Equal(t, KindInvalidArgument, res.Err.Kind)
	assert.False(t, called, "handler must not run when validation fails")
}

func TestDispatchWrapsHandlerErrors(t *testing.T) {
	r := newTestRegistry(t)

	require.NoError(t, r.Register(Descriptor{Name: "boom"}, func(ctx context.Context, args Args) (string, error) {
		return "", errors.New("page crashed")
	}))
	require.NoError(t, r.Register(Descriptor{Name: "typed"}, func(ctx context.Context, args Args) (string, error) {
		return "", NotFoundf("no session with id %q", "7")
	}))

	res := r.Dispatch(context.Background(), "boom", nil)
	require.False(t, res.OK())
	assert.Equal(t, KindExecutionFailed, res.Err.Kind)
	assert.Equal(t, "page crashed", res.Err.Message)

	res = r.Dispatch(context.Background(), "typed", nil)
	require.False(t, res.OK())
	assert.Equal(t, KindNotFound, res.Err.Kind, "typed errors keep their kind")
}

func TestDispatchTruncatesLargeResults(t *testing.T) {
	r := newTestRegistry(t)

	big := strings.Repeat("a", MaxResultLength+500)
	require.NoError(t, r.Register(Descriptor{Name: "page"}, func(ctx context.Context, args Args) (string, error) {
		return big, nil
	}))
	require.NoError(t, r.Register(Descriptor{Name: "exact"}, func(ctx context.Context, args Args) (string, error) {
		return big[:MaxResultLength], nil
	}))

	res := r.Dispatch(context.Background(), "page", nil)
	require.True(t, res.OK())
	assert.Len(t, res.Text, MaxResultLength+len(TruncationMarker))
	assert.True(t, strings.HasSuffix(res.Text, TruncationMarker))

	res = r.Dispatch(context.Background(), "exact", nil)
	require.True(t, res.OK())
	assert.Len(t, res.Text, MaxResultLength, "payloads at the ceiling pass through unmarked")
}

func TestDispatchTruncatesOnRuneBoundaries(t *testing.T) {
	r := newTestRegistry(t)

	// The ceiling counts characters; a multibyte payload must never be
	// cut mid-rune.
	big := strings.Repeat("世", MaxResultLength+100)
	require.NoError(t, r.Register(Descriptor{Name: "cjk"}, func(ctx context.Context, args Args) (string, error) {
		return big, nil
	}))

	res := r.Dispatch(context.Background(), "cjk", nil)
	require.True(t, res.OK())
	assert.True(t, utf8.ValidString(res.Text), "truncated payload must stay valid UTF-8")
	assert.True(t, strings.HasSuffix(res.Text, TruncationMarker))
	body := strings.TrimSuffix(res.Text, TruncationMarker)
	assert.Equal(t, MaxResultLength, utf8.RuneCountInString(body))
}

func TestSummarizeArgsTruncatesOnRuneBoundaries(t *testing.T) {
	long := strings.Repeat("界", maxLoggedArgLength+50)

	out := summarizeArgs(map[string]interface{}{"text": long})
	assert.True(t, utf8.ValidString(out), "logged argument must stay valid UTF-8")
	assert.Contains(t, out, "...")

	assert.Equal(t, "{}", summarizeArgs(nil))
}

func TestDispatchAppliesDefaults(t *testing.T) {
	r := newTestRegistry(t)

	desc := Descriptor{Name: "scroll", Params: []Param{
		{Name: "direction", Type: TypeString, Enum: []string{"up", "down"}, Default: "down"},
	}}
	var got string
	require.NoError(t, r.Register(desc, func(ctx context.Context, args Args) (string, error) {
		got = args.String("direction")
		return "ok", nil
	}))

	res := r.Dispatch(context.Background(), "scroll", map[string]interface{}{})
	require.True(t, res.OK())
	assert.Equal(t, "down", got)
}
