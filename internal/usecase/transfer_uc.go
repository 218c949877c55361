// File: internal/usecase/transfer_uc.go
package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/Amanouazh/Pishoo-Ai/internal/domain"
	"github.com/Amanouazh/Pishoo-Ai/internal/domain/model"
	"github.com/Amanouazh/Pishoo-Ai/internal/domain/ports/repository"
)

// Compile-time check
var _ TransferUseCase = (*transferUC)(nil)

// exportSchemaVersion tags exported payloads so later format changes
// can be detected. Import tolerates its absence.
const exportSchemaVersion = 1

// ChatExport is the documented interchange shape for one session.
type ChatExport struct {
	SchemaVersion int                 `json:"schemaVersion,omitempty"`
	Title         string              `json:"title"`
	Model         string              `json:"model"`
	CreatedAt     time.Time           `json:"createdAt"`
	Messages      []model.ChatMessage `json:"messages"`
}

// SettingsExport is the documented interchange shape for preferences.
// The credential is deliberately not part of it.
type SettingsExport struct {
	SchemaVersion int       `json:"schemaVersion,omitempty"`
	FontSize      string    `json:"fontSize"`
	AutoSave      bool      `json:"autoSave"`
	SoundEnabled  bool      `json:"soundEnabled"`
	Theme         string    `json:"theme"`
	ExportedAt    time.Time `json:"exportedAt"`
}

type TransferUseCase interface {
	ExportChat(ctx context.Context, sessionID string) ([]byte, error)
	// ImportChat creates a new session from an exported payload. Missing
	// fields fall back to defaults; malformed JSON fails without
	// touching existing state.
	ImportChat(ctx context.Context, data []byte) (*model.ChatSession, error)
	ExportSettings(ctx context.Context) ([]byte, error)
	ImportSettings(ctx context.Context, data []byte) error
	// ClearAll wipes every persisted key and the in-memory session
	// collection. The confirmation gate belongs to the caller.
	ClearAll(ctx context.Context) error
}

type transferUC struct {
	sessions repository.SessionRepository
	settings repository.SettingsRepository
}

func NewTransferUseCase(sessions repository.SessionRepository, settings repository.SettingsRepository) *transferUC {
	return &transferUC{sessions: sessions, settings: settings}
}

func (t *transferUC) ExportChat(ctx context.Context, sessionID string) ([]byte, error) {
	s, err := t.sessions.Find(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if len(s.Messages) == 0 {
		return nil, fmt.Errorf("%w: session has no messages", domain.ErrInvalidArgument)
	}
	return json.MarshalIndent(ChatExport{
		SchemaVersion: exportSchemaVersion,
		Title:         s.Title,
		Model:         s.Model,
		CreatedAt:     s.CreatedAt,
		Messages:      s.Messages,
	}, "", "  ")
}

func (t *transferUC) ImportChat(ctx context.Context, data []byte) (*model.ChatSession, error) {
	var in ChatExport
	if err := json.Unmarshal(data, &in); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrImportParse, err)
	}

	title := in.Title
	if title == "" {
		title = "Imported Chat"
	}
	modelName := in.Model
	if modelName == "" {
		modelName = model.DefaultModel
	}

	// Ids and timestamps are reassigned where absent; role and content
	// are preserved as given.
	msgs := make([]model.ChatMessage, 0, len(in.Messages))
	for _, m := range in.Messages {
		if m.ID == "" {
			m.ID = ulid.Make().String()
		}
		if m.Role == "" {
			m.Role = model.RoleUser
		}
		if m.Timestamp.IsZero() {
			m.Timestamp = time.Now()
		}
		msgs = append(msgs, m)
	}

	s, err := t.sessions.Create(ctx, title, modelName)
	if err != nil {
		return nil, err
	}
	if len(msgs) > 0 {
		if err := t.sessions.Update(ctx, s.ID, model.SessionPatch{Messages: &msgs}); err != nil {
			// A failed import must not leave a titled, empty shell behind.
			t.sessions.Delete(ctx, s.ID)
			return nil, err
		}
	}
	return t.sessions.Find(ctx, s.ID)
}

func (t *transferUC) ExportSettings(ctx context.Context) ([]byte, error) {
	s := t.settings.Get(ctx)
	return json.MarshalIndent(SettingsExport{
		SchemaVersion: exportSchemaVersion,
		FontSize:      s.FontSize,
		AutoSave:      s.AutoSave,
		SoundEnabled:  s.SoundEnabled,
		Theme:         s.Theme,
		ExportedAt:    time.Now(),
	}, "", "  ")
}

func (t *transferUC) ImportSettings(ctx context.Context, data []byte) error {
	// Pointer fields distinguish "absent" from zero values; only
	// present, valid fields are applied.
	var in struct {
		FontSize     *string `json:"fontSize"`
		AutoSave     *bool   `json:"autoSave"`
		SoundEnabled *bool   `json:"soundEnabled"`
		Theme        *string `json:"theme"`
	}
	if err := json.Unmarshal(data, &in); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrImportParse, err)
	}

	if in.FontSize != nil && model.ValidFontSize(*in.FontSize) {
		if err := t.settings.SetFontSize(ctx, *in.FontSize); err != nil {
			return err
		}
	}
	if in.AutoSave != nil {
		if err := t.settings.SetAutoSave(ctx, *in.AutoSave); err != nil {
			return err
		}
	}
	if in.SoundEnabled != nil {
		if err := t.settings.SetSoundEnabled(ctx, *in.SoundEnabled); err != nil {
			return err
		}
	}
	if in.Theme != nil && model.ValidTheme(*in.Theme) {
		if err := t.settings.SetTheme(ctx, *in.Theme); err != nil {
			return err
		}
	}
	return nil
}

func (t *transferUC) ClearAll(ctx context.Context) error {
	if err := t.settings.ClearAll(ctx); err != nil {
		return err
	}
	t.sessions.Reset(ctx)
	return nil
}
