// Package llm provides the provider abstraction for chat-completion
// models and the message types exchanged with them.
package llm

import (
	"context"
)

// MessageRole identifies who authored a message.
type MessageRole string

const (
	RoleSystem    MessageRole = "system"
	RoleUser      MessageRole = "user"
	RoleAssistant MessageRole = "assistant"
)

// Message is a single chat message.
type Message struct {
	Role    MessageRole
	Content string
}

// NewSystemMessage creates a system message.
func NewSystemMessage(content string) *Message {
	return &Message{Role: RoleSystem, Content: content}
}

// NewUserMessage creates a user message.
func NewUserMessage(content string) *Message {
	return &Message{Role: RoleUser, Content: content}
}

// NewAssistantMessage creates an assistant message.
func NewAssistantMessage(content string) *Message {
	return &Message{Role: RoleAssistant, Content: content}
}

// ContentType distinguishes reasoning content from the answer proper.
type ContentType string

const (
	// ContentTypeThinking marks content that appeared inside thinking tags.
	ContentTypeThinking ContentType = "thinking"

	// ContentTypeMessage marks regular response content.
	ContentTypeMessage ContentType = "message"
)

// StreamChunk is one increment of a streamed completion.
//
// The first chunk typically carries Role; subsequent chunks carry
// Content deltas; the final chunk has Finished set. Stream-time failures
// arrive as chunks with Error set.
type StreamChunk struct {
	Role     string
	Content  string
	Type     ContentType
	Finished bool
	Error    error
}

// IsError reports whether the chunk carries a stream-time error.
func (c *StreamChunk) IsError() bool {
	return c.Error != nil
}

// ModelInfo describes the model behind a provider.
type ModelInfo struct {
	Provider          string
	Name              string
	SupportsStreaming bool
	MaxTokens         int
	Metadata          map[string]interface{}
}

// Provider is the interface planner code is written against. Providers
// handle API communication and return plain chunks; interpreting the
// response (plan parsing, tool execution) happens above this layer.
type Provider interface {
	// StreamCompletion sends messages to the model and streams back
	// response chunks. The channel is closed when streaming completes
	// or fails; stream-time errors arrive as chunks with Error set.
	StreamCompletion(ctx context.Context, messages []*Message) (<-chan *StreamChunk, error)

	// Complete sends messages and accumulates the streamed response
	// into a single assistant message.
	Complete(ctx context.Context, messages []*Message) (*Message, error)

	// GetModelInfo returns metadata about the configured model.
	GetModelInfo() *ModelInfo

	// GetModel returns the model name being used.
	GetModel() string
}
