// Package model declares the provider-agnostic chat interface the
// anthropic, openai, and google adapters each implement, plus the
// message/tool/response types the collaborators package builds prompts
// and parses results with.
package model

import "context"

// ChatModel is a single LLM turn: messages in, one response out. Every
// adapter package (anthropic, openai, google) implements this against its
// own SDK so internal/collaborators can depend on one interface
// regardless of which --model-provider flag the CLI selects.
type ChatModel interface {
	Chat(ctx context.Context, messages []Message, tools []ToolSpec) (ChatOut, error)
}

// Role constants identify who sent a Message.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one turn in a conversation.
type Message struct {
	Role    string
	Content string
}

// ToolSpec describes a tool the model may call, JSON-Schema style.
type ToolSpec struct {
	Name        string
	Description string
	Schema      map[string]interface{}
}

// ChatOut is a model's response: text, tool calls, or both.
type ChatOut struct {
	Text      string
	ToolCalls []ToolCall
}

// ToolCall is one tool invocation the model requested. The caller is
// responsible for running it and feeding the result back as a new
// Message.
type ToolCall struct {
	Name  string
	Input map[string]interface{}
}
