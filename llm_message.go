package careermentor

import (
	"github.com/openai/openai-go"
)

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is a single immutable entry in a session's history.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

func UserMessage(content string) Message {
	return Message{Role: RoleUser, Content: content}
}

func AssistantMessage(content string) Message {
	return Message{Role: RoleAssistant, Content: content}
}

// OpenAI converts the message into its chat-completions parameter form.
func (m Message) OpenAI() openai.ChatCompletionMessageParamUnion {
	if m.Role == RoleAssistant {
		return openai.AssistantMessage(m.Content)
	}
	return openai.UserMessage(m.Content)
}

// History is the append-only conversation of a session. Messages are never
// edited or removed once added.
type History struct {
	messages []Message
}

func NewHistory() *History {
	return &History{messages: []Message{}}
}

func (h *History) Len() int {
	return len(h.messages)
}

// Append adds one or more messages at the end of the history.
func (h *History) Append(msgs ...Message) {
	h.messages = append(h.messages, msgs...)
}

// All returns a copy of the messages in order.
func (h *History) All() []Message {
	return append([]Message(nil), h.messages...)
}

// Last returns the most recent message, if any.
func (h *History) Last() (Message, bool) {
	if len(h.messages) == 0 {
		return Message{}, false
	}
	return h.messages[len(h.messages)-1], true
}

// MessageList holds the request-local transcript sent to the provider: the
// agent's system prompt, the session history and any tool round trips.
type MessageList struct {
	Messages []openai.ChatCompletionMessageParamUnion
}

// NewMessageList builds a transcript from a system prompt and a history. An
// empty system prompt is omitted.
func NewMessageList(systemPrompt string, history []Message) *MessageList {
	ml := &MessageList{
		Messages: make([]openai.ChatCompletionMessageParamUnion, 0, len(history)+1),
	}
	if systemPrompt != "" {
		ml.Add(openai.SystemMessage(systemPrompt))
	}
	for _, msg := range history {
		ml.Add(msg.OpenAI())
	}
	return ml
}

func (ml *MessageList) Len() int {
	return len(ml.Messages)
}

// Add appends one or more new messages to the MessageList in a FIFO order.
func (ml *MessageList) Add(msgs ...openai.ChatCompletionMessageParamUnion) {
	ml.Messages = append(ml.Messages, msgs...)
}

func (ml *MessageList) All() []openai.ChatCompletionMessageParamUnion {
	return ml.Messages
}
