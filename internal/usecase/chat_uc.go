// File: internal/usecase/chat_uc.go
package usecase

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"

	"github.com/Amanouazh/Pishoo-Ai/internal/domain"
	"github.com/Amanouazh/Pishoo-Ai/internal/domain/model"
	"github.com/Amanouazh/Pishoo-Ai/internal/domain/ports/adapter"
	"github.com/Amanouazh/Pishoo-Ai/internal/domain/ports/repository"
	"github.com/Amanouazh/Pishoo-Ai/internal/infra/logging"
	"github.com/Amanouazh/Pishoo-Ai/internal/infra/metrics"
)

// Compile-time check
var _ ChatUseCase = (*chatUC)(nil)

// SendResult carries the assistant's reply and the session it landed in.
type SendResult struct {
	Session *model.ChatSession `json:"session"`
	Reply   model.ChatMessage  `json:"reply"`
}

type ChatUseCase interface {
	// Send runs one user turn: optimistic append, provider call,
	// assistant append, or full rollback on failure. An empty sessionID
	// targets the current session, creating one when none is selected.
	Send(ctx context.Context, sessionID, text, modelName string) (*SendResult, error)
	// Models lists the selectable completion models.
	Models(ctx context.Context) ([]adapter.ModelInfo, error)
}

type chatUC struct {
	sessions repository.SessionRepository
	settings repository.SettingsRepository
	ai       adapter.CompletionAdapter
	tokens   adapter.Tokenizer
	provider string
	log      *zerolog.Logger

	mu       sync.Mutex
	inflight map[string]struct{} // session ids with a request in flight
}

func NewChatUseCase(
	sessions repository.SessionRepository,
	settings repository.SettingsRepository,
	ai adapter.CompletionAdapter,
	tokens adapter.Tokenizer,
	provider string,
	log *zerolog.Logger,
) *chatUC {
	return &chatUC{
		sessions: sessions,
		settings: settings,
		ai:       ai,
		tokens:   tokens,
		provider: provider,
		log:      log,
		inflight: make(map[string]struct{}),
	}
}

func (c *chatUC) Send(ctx context.Context, sessionID, text, modelName string) (*SendResult, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, domain.ErrInvalidArgument
	}

	// Credential gate comes before anything else: no session is created
	// and no network is touched without one.
	credential := c.settings.Get(ctx).APIKey
	if credential == "" {
		return nil, domain.ErrMissingCredential
	}

	// Lock before resolving so two simultaneous implicit sends cannot
	// both create a session. With nothing selected they contend on a
	// sentinel that no real session id can take.
	lockID := sessionID
	if lockID == "" {
		if cur, err := c.sessions.Current(ctx); err == nil {
			lockID = cur.ID
		} else {
			lockID = newSessionLock
		}
	}
	if err := c.acquire(lockID); err != nil {
		return nil, err
	}
	defer c.release(lockID)

	s, err := c.resolveSession(ctx, sessionID, text, modelName)
	if err != nil {
		return nil, err
	}
	if s.ID != lockID {
		if err := c.acquire(s.ID); err != nil {
			return nil, err
		}
		defer c.release(s.ID)
	}

	ctx = logging.WithSessionID(ctx, s.ID)
	log := logging.With(ctx, c.log)
	defer logging.TraceDuration(log, "chat.send")()

	// The model choice on a send wins over whatever the session had.
	if modelName != "" && modelName != s.Model {
		if err := c.sessions.Update(ctx, s.ID, model.SessionPatch{Model: &modelName}); err != nil {
			return nil, err
		}
		s.Model = modelName
	}

	snapshot := append([]model.ChatMessage(nil), s.Messages...)

	userMsg := model.ChatMessage{
		ID:        ulid.Make().String(),
		Role:      model.RoleUser,
		Content:   text,
		Tokens:    c.tokens.Count(text),
		Timestamp: time.Now(),
	}
	if _, err := c.sessions.AppendMessage(ctx, s.ID, userMsg); err != nil {
		return nil, err
	}

	start := time.Now()
	reply, err := c.ai.Complete(ctx, s.Model, text, credential)
	if err != nil {
		metrics.AIRequest(c.provider, s.Model, outcome(err), time.Since(start))
		// Retract the optimistic user message; the session's message
		// list must equal its pre-send state after a failure.
		if rbErr := c.sessions.Update(ctx, s.ID, model.SessionPatch{Messages: &snapshot}); rbErr != nil {
			log.Error().Err(rbErr).Msg("rollback after failed send did not persist")
		}
		log.Warn().Err(err).Str("model", s.Model).Msg("send failed")
		return nil, err
	}
	metrics.AIRequest(c.provider, s.Model, "ok", time.Since(start))

	assistantMsg := model.ChatMessage{
		ID:        ulid.Make().String(),
		Role:      model.RoleAssistant,
		Content:   reply,
		Tokens:    c.tokens.Count(reply),
		Timestamp: time.Now(),
	}
	if _, err := c.sessions.AppendMessage(ctx, s.ID, assistantMsg); err != nil {
		return nil, err
	}
	metrics.AITokens(s.Model, userMsg.Tokens, assistantMsg.Tokens)

	updated, err := c.sessions.Find(ctx, s.ID)
	if err != nil {
		return nil, err
	}
	return &SendResult{Session: updated, Reply: assistantMsg}, nil
}

// resolveSession picks the target session: an explicit id, else the
// current selection, else a fresh session titled from the prompt.
func (c *chatUC) resolveSession(ctx context.Context, sessionID, text, modelName string) (*model.ChatSession, error) {
	if sessionID != "" {
		return c.sessions.Find(ctx, sessionID)
	}
	if s, err := c.sessions.Current(ctx); err == nil {
		return s, nil
	}
	return c.sessions.Create(ctx, model.TitleFromPrompt(text), modelName)
}

func (c *chatUC) Models(ctx context.Context) ([]adapter.ModelInfo, error) {
	return c.ai.ListModels(ctx, c.settings.Get(ctx).APIKey)
}

// newSessionLock serializes implicit sends while no session exists;
// real ids are uuids and can never collide with it.
const newSessionLock = "\x00new-session"

func (c *chatUC) acquire(sessionID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, busy := c.inflight[sessionID]; busy {
		return domain.ErrRequestInProgress
	}
	c.inflight[sessionID] = struct{}{}
	return nil
}

func (c *chatUC) release(sessionID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.inflight, sessionID)
}

func outcome(err error) string {
	var apiErr *domain.APIError
	var transport *domain.TransportError
	switch {
	case errors.As(err, &apiErr):
		return "api_error"
	case errors.As(err, &transport):
		return "transport_error"
	case errors.Is(err, domain.ErrMalformedResponse):
		return "malformed_response"
	default:
		return "error"
	}
}
