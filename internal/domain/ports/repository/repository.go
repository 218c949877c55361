package repository

import (
	"context"

	"github.com/Amanouazh/Pishoo-Ai/internal/domain/model"
)

// SessionRepository owns the ordered session collection and the current
// selection. Every mutation persists the full collection before it
// returns; readers get defensive copies.
type SessionRepository interface {
	// List returns all sessions, most recently created or updated first.
	List(ctx context.Context) []*model.ChatSession
	// Find returns the session with the given id, or domain.ErrNotFound.
	Find(ctx context.Context, id string) (*model.ChatSession, error)
	// Create allocates an id, prepends the new session, persists, and
	// makes it the current selection.
	Create(ctx context.Context, title, modelName string) (*model.ChatSession, error)
	// Update merges the patch into the matching session and persists.
	// Unknown ids are a no-op.
	Update(ctx context.Context, id string, patch model.SessionPatch) error
	// Delete removes the matching session and persists. Deleting the
	// current session clears the selection.
	Delete(ctx context.Context, id string) error
	// AppendMessage appends to the session's message sequence and
	// returns the new sequence.
	AppendMessage(ctx context.Context, sessionID string, msg model.ChatMessage) ([]model.ChatMessage, error)
	// Current returns the selected session, or domain.ErrNotFound when
	// no session is selected.
	Current(ctx context.Context) (*model.ChatSession, error)
	// Select marks the session with the given id as current.
	Select(ctx context.Context, id string) error
	// Reset drops the in-memory collection and selection after a
	// clear-all has wiped the underlying store.
	Reset(ctx context.Context)
}

// SettingsRepository reads and writes user preferences, one store key
// per field, each defaulted when absent.
type SettingsRepository interface {
	Get(ctx context.Context) model.Settings
	SetAPIKey(ctx context.Context, key string) error
	SetFontSize(ctx context.Context, size string) error
	SetAutoSave(ctx context.Context, enabled bool) error
	SetSoundEnabled(ctx context.Context, enabled bool) error
	SetTheme(ctx context.Context, theme string) error
	// ClearAll wipes every key this application owns, sessions and
	// selection included. Destructive; confirmation belongs to the caller.
	ClearAll(ctx context.Context) error
}
