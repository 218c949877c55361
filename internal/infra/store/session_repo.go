package store

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/Amanouazh/Pishoo-Ai/internal/domain"
	"github.com/Amanouazh/Pishoo-Ai/internal/domain/model"
	"github.com/Amanouazh/Pishoo-Ai/internal/domain/ports/repository"
	"github.com/Amanouazh/Pishoo-Ai/internal/infra/metrics"
)

var _ repository.SessionRepository = (*SessionRepo)(nil)

// SessionRepo keeps the canonical session collection in memory and
// mirrors it to the KV under a single key on every mutation. The
// persisted value is the whole collection re-serialized; cost is
// O(sessions x messages) per write, acceptable at single-user scale.
type SessionRepo struct {
	mu        sync.RWMutex
	kv        KV
	log       *zerolog.Logger
	sessions  []*model.ChatSession
	currentID string
}

// NewSessionRepo loads the stored collection. A missing or unparsable
// value means "no prior sessions": the failure is logged, never raised.
func NewSessionRepo(ctx context.Context, kv KV, log *zerolog.Logger) *SessionRepo {
	r := &SessionRepo{kv: kv, log: log}
	r.load(ctx)
	return r
}

func (r *SessionRepo) load(ctx context.Context) {
	raw, ok, err := r.kv.Get(ctx, KeySessions)
	if err != nil || !ok {
		if err != nil {
			r.log.Warn().Err(err).Msg("session store unreadable, starting empty")
		}
		return
	}
	var sessions []*model.ChatSession
	if err := json.Unmarshal([]byte(raw), &sessions); err != nil {
		r.log.Warn().Err(domain.ErrStoreRead).AnErr("cause", err).
			Msg("stored sessions failed to parse, starting empty")
		return
	}
	r.sessions = sessions

	if id, ok, _ := r.kv.Get(ctx, KeyCurrentChat); ok {
		if r.indexOf(id) >= 0 {
			r.currentID = id
		}
	}
}

// persist must be called with the write lock held.
func (r *SessionRepo) persist(ctx context.Context) error {
	b, err := json.Marshal(r.sessions)
	if err != nil {
		return err
	}
	err = r.kv.Set(ctx, KeySessions, string(b))
	metrics.StoreWrite(KeySessions, err)
	return err
}

func (r *SessionRepo) indexOf(id string) int {
	for i, s := range r.sessions {
		if s.ID == id {
			return i
		}
	}
	return -1
}

// moveToFront must be called with the write lock held.
func (r *SessionRepo) moveToFront(i int) {
	if i <= 0 {
		return
	}
	s := r.sessions[i]
	copy(r.sessions[1:i+1], r.sessions[:i])
	r.sessions[0] = s
}

func (r *SessionRepo) List(ctx context.Context) []*model.ChatSession {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*model.ChatSession, len(r.sessions))
	for i, s := range r.sessions {
		out[i] = s.Clone()
	}
	return out
}

func (r *SessionRepo) Find(ctx context.Context, id string) (*model.ChatSession, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if i := r.indexOf(id); i >= 0 {
		return r.sessions[i].Clone(), nil
	}
	return nil, domain.ErrNotFound
}

func (r *SessionRepo) Create(ctx context.Context, title, modelName string) (*model.ChatSession, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s := model.NewChatSession(uuid.NewString(), title, modelName)
	r.sessions = append([]*model.ChatSession{s}, r.sessions...)
	if err := r.persist(ctx); err != nil {
		r.sessions = r.sessions[1:]
		return nil, err
	}
	r.currentID = s.ID
	r.persistCurrent(ctx)
	return s.Clone(), nil
}

func (r *SessionRepo) Update(ctx context.Context, id string, patch model.SessionPatch) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(id)
	if i < 0 {
		return nil // unknown id is a no-op
	}
	patch.Apply(r.sessions[i])
	r.moveToFront(i)
	return r.persist(ctx)
}

func (r *SessionRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(id)
	if i < 0 {
		return nil
	}
	r.sessions = append(r.sessions[:i], r.sessions[i+1:]...)
	if r.currentID == id {
		r.currentID = ""
		if err := r.kv.Delete(ctx, KeyCurrentChat); err != nil {
			r.log.Warn().Err(err).Msg("clearing current-chat key failed")
		}
	}
	return r.persist(ctx)
}

func (r *SessionRepo) AppendMessage(ctx context.Context, sessionID string, msg model.ChatMessage) ([]model.ChatMessage, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(sessionID)
	if i < 0 {
		return nil, domain.ErrNotFound
	}
	s := r.sessions[i]
	s.Messages = append(s.Messages, msg)
	r.moveToFront(i)
	if err := r.persist(ctx); err != nil {
		s.Messages = s.Messages[:len(s.Messages)-1]
		return nil, err
	}
	return append([]model.ChatMessage(nil), s.Messages...), nil
}

func (r *SessionRepo) Current(ctx context.Context) (*model.ChatSession, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.currentID == "" {
		return nil, domain.ErrNotFound
	}
	if i := r.indexOf(r.currentID); i >= 0 {
		return r.sessions[i].Clone(), nil
	}
	return nil, domain.ErrNotFound
}

func (r *SessionRepo) Select(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.indexOf(id) < 0 {
		return domain.ErrNotFound
	}
	r.currentID = id
	r.persistCurrent(ctx)
	return nil
}

// Reset drops the cached collection and selection. Used after a
// clear-all wipes the store out from under the repository.
func (r *SessionRepo) Reset(ctx context.Context) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions = nil
	r.currentID = ""
}

// persistCurrent must be called with the write lock held. Selection is
// a convenience pointer; losing it is not worth failing the operation.
func (r *SessionRepo) persistCurrent(ctx context.Context) {
	if err := r.kv.Set(ctx, KeyCurrentChat, r.currentID); err != nil {
		r.log.Warn().Err(err).Msg("persisting current-chat key failed")
	}
}
