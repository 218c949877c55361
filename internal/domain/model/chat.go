package model

import (
	"strings"
	"time"
)

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// DefaultModel is used when a session or import does not name one.
const DefaultModel = "gemini-1.5-flash"

// titleLimit is how much of the first user message becomes the session title.
const titleLimit = 50

// ChatMessage is one turn within a session. Messages are append-only;
// individual messages are never edited or deleted.
type ChatMessage struct {
	ID        string    `json:"id"`
	Role      string    `json:"role"` // "user" | "assistant"
	Content   string    `json:"content"`
	Tokens    int       `json:"tokens,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// ChatSession is the aggregate root for one conversation.
type ChatSession struct {
	ID        string        `json:"id"`
	Title     string        `json:"title"`
	Messages  []ChatMessage `json:"messages"`
	CreatedAt time.Time     `json:"createdAt"`
	Model     string        `json:"model"`
}

func NewChatSession(id, title, modelName string) *ChatSession {
	if title == "" {
		title = "New Chat"
	}
	if modelName == "" {
		modelName = DefaultModel
	}
	return &ChatSession{
		ID:        id,
		Title:     title,
		Messages:  make([]ChatMessage, 0, 8),
		CreatedAt: time.Now(),
		Model:     modelName,
	}
}

// TitleFromPrompt derives a session title from the first user message:
// at most 50 characters, with an ellipsis when truncated.
func TitleFromPrompt(prompt string) string {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return "New Chat"
	}
	runes := []rune(prompt)
	if len(runes) <= titleLimit {
		return prompt
	}
	return string(runes[:titleLimit]) + "..."
}

// Clone returns a deep copy so callers cannot mutate repository state
// through a returned session.
func (s *ChatSession) Clone() *ChatSession {
	cp := *s
	cp.Messages = append([]ChatMessage(nil), s.Messages...)
	return &cp
}

// SessionPatch is a partial update for UpdateSession. Nil fields are
// left untouched (shallow merge).
type SessionPatch struct {
	Title    *string
	Model    *string
	Messages *[]ChatMessage
}

// Apply merges the patch into the session.
func (p SessionPatch) Apply(s *ChatSession) {
	if p.Title != nil {
		s.Title = *p.Title
	}
	if p.Model != nil {
		s.Model = *p.Model
	}
	if p.Messages != nil {
		s.Messages = append([]ChatMessage(nil), (*p.Messages)...)
	}
}
