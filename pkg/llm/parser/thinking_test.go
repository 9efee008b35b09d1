package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/entrhq/webpilot/pkg/llm"
)

func collect(p *ThinkingParser, chunks ...string) (thinking, message string) {
	for _, c := range chunks {
		tc, mc := p.Parse(c)
		if tc != nil {
			thinking += tc.Content
		}
		if mc != nil {
			message += mc.Content
		}
	}
	tc, mc := p.Flush()
	if tc != nil {
		thinking += tc.Content
	}
	if mc != nil {
		message += mc.Content
	}
	return thinking, message
}

func TestParseSeparatesThinkingFromMessage(t *testing.T) {
	tests := []struct {
		name         string
		chunks       []string
		wantThinking string
		wantMessage  string
	}{
		{
			name:        "plain content",
			chunks:      []string{"hello world"},
			wantMessage: "hello world",
		},
		{
			name:         "thinking tag",
			chunks:       []string{"<thinking>let me see</thinking>the answer"},
			wantThinking: "let me see",
			wantMessage:  "the answer",
		},
		{
			name:         "short think tag",
			chunks:       []string{"<think>hmm</think>done"},
			wantThinking: "hmm",
			wantMessage:  "done",
		},
		{
			name:         "tag split across chunks",
			chunks:       []string{"<thin", "king>deep", " thought</thi", "nking>reply"},
			wantThinking: "deep thought",
			wantMessage:  "reply",
		},
		{
			name:        "non-thinking tag passes through",
			chunks:      []string{"a <b>bold</b> claim"},
			wantMessage: "a <b>bold</b> claim",
		},
		{
			name:        "unterminated tag flushed at end",
			chunks:      []string{"value < threshold"},
			wantMessage: "value < threshold",
		},
		{
			name:         "only thinking",
			chunks:       []string{"<thinking>all reasoning</thinking>"},
			wantThinking: "all reasoning",
			wantMessage:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			thinking, message := collect(NewThinkingParser(), tt.chunks...)
			assert.Equal(t, tt.wantThinking, thinking)
			assert.Equal(t, tt.wantMessage, message)
		})
	}
}

func TestParseChunkTypes(t *testing.T) {
	p := NewThinkingParser()

	tc, mc := p.Parse("<thinking>a</thinking>b")
	require.NotNil(t, tc)
	require.NotNil(t, mc)
	assert.Equal(t, llm.ContentTypeThinking, tc.Type)
	assert.Equal(t, llm.ContentTypeMessage, mc.Type)
}

func TestResetClearsState(t *testing.T) {
	p := NewThinkingParser()

	p.Parse("<thinking>stuck in reasoning")
	assert.True(t, p.IsInThinking())

	p.Reset()
	assert.False(t, p.IsInThinking())

	_, mc := p.Parse("fresh content")
	require.NotNil(t, mc)
	assert.Equal(t, "fresh content", mc.Content)
}
