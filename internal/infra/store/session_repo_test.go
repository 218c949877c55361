package store

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/Amanouazh/Pishoo-Ai/internal/domain"
	"github.com/Amanouazh/Pishoo-Ai/internal/domain/model"
)

func newTestRepo(t *testing.T) (*SessionRepo, *MemoryKV) {
	t.Helper()
	kv := NewMemoryKV()
	logger := zerolog.Nop()
	return NewSessionRepo(context.Background(), kv, &logger), kv
}

func TestCreateUniqueIDsNewestFirst(t *testing.T) {
	ctx := context.Background()
	repo, _ := newTestRepo(t)

	seen := map[string]bool{}
	var lastID string
	for i := 0; i < 5; i++ {
		s, err := repo.Create(ctx, "", "")
		if err != nil {
			t.Fatalf("create: %v", err)
		}
		if seen[s.ID] {
			t.Fatalf("duplicate session id %q", s.ID)
		}
		seen[s.ID] = true
		lastID = s.ID
	}

	list := repo.List(ctx)
	if len(list) != 5 {
		t.Fatalf("len(list) = %d, want 5", len(list))
	}
	if list[0].ID != lastID {
		t.Fatalf("newest session not first: got %q, want %q", list[0].ID, lastID)
	}
}

func TestUpdateMergesAndIgnoresUnknown(t *testing.T) {
	ctx := context.Background()
	repo, _ := newTestRepo(t)

	s, _ := repo.Create(ctx, "original", "gemini-1.5-flash")

	newModel := "gemini-1.5-pro"
	if err := repo.Update(ctx, s.ID, model.SessionPatch{Model: &newModel}); err != nil {
		t.Fatalf("update: %v", err)
	}

	got, err := repo.Find(ctx, s.ID)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if got.Model != newModel {
		t.Fatalf("model = %q, want %q", got.Model, newModel)
	}
	if got.Title != "original" {
		t.Fatalf("unpatched title changed: %q", got.Title)
	}
	if !got.CreatedAt.Equal(s.CreatedAt) {
		t.Fatal("createdAt mutated by update")
	}

	// Unknown id is a no-op, never an error.
	if err := repo.Update(ctx, "no-such-id", model.SessionPatch{Model: &newModel}); err != nil {
		t.Fatalf("update unknown id: %v", err)
	}
}

func TestUpdateMovesSessionToFront(t *testing.T) {
	ctx := context.Background()
	repo, _ := newTestRepo(t)

	first, _ := repo.Create(ctx, "first", "")
	second, _ := repo.Create(ctx, "second", "")

	title := "renamed"
	if err := repo.Update(ctx, first.ID, model.SessionPatch{Title: &title}); err != nil {
		t.Fatalf("update: %v", err)
	}

	list := repo.List(ctx)
	if list[0].ID != first.ID || list[1].ID != second.ID {
		t.Fatalf("updated session should lead the list: got [%s %s]", list[0].ID, list[1].ID)
	}
}

func TestAppendMessageIsStrictlyAdditive(t *testing.T) {
	ctx := context.Background()
	repo, _ := newTestRepo(t)

	s, _ := repo.Create(ctx, "", "")
	m1 := model.ChatMessage{ID: "m1", Role: model.RoleUser, Content: "one"}
	m2 := model.ChatMessage{ID: "m2", Role: model.RoleAssistant, Content: "two"}

	msgs, err := repo.AppendMessage(ctx, s.ID, m1)
	if err != nil {
		t.Fatalf("append: %v", err)
	}
	if len(msgs) != 1 {
		t.Fatalf("len after first append = %d", len(msgs))
	}

	msgs, err = repo.AppendMessage(ctx, s.ID, m2)
	if err != nil {
		t.Fatalf("append: %v", err)
	}
	if len(msgs) != 2 {
		t.Fatalf("len after second append = %d", len(msgs))
	}
	if msgs[0].ID != "m1" || msgs[0].Content != "one" {
		t.Fatal("existing message reordered or mutated by append")
	}

	if _, err := repo.AppendMessage(ctx, "no-such-id", m1); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("append to unknown session: %v, want ErrNotFound", err)
	}
}

func TestDeleteCurrentClearsSelection(t *testing.T) {
	ctx := context.Background()
	repo, _ := newTestRepo(t)

	s, _ := repo.Create(ctx, "", "")
	if cur, err := repo.Current(ctx); err != nil || cur.ID != s.ID {
		t.Fatalf("create should select the new session: %v", err)
	}

	if err := repo.Delete(ctx, s.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := repo.Current(ctx); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("current after deleting selected session: %v, want ErrNotFound", err)
	}
	if _, err := repo.Find(ctx, s.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatal("deleted session still findable")
	}

	// Deleting an unknown id is harmless.
	if err := repo.Delete(ctx, "no-such-id"); err != nil {
		t.Fatalf("delete unknown id: %v", err)
	}
}

func TestPersistenceRoundTrip(t *testing.T) {
	ctx := context.Background()
	kv := NewMemoryKV()
	logger := zerolog.Nop()

	repo := NewSessionRepo(ctx, kv, &logger)
	s, _ := repo.Create(ctx, "kept", "gemini-1.5-pro")
	repo.AppendMessage(ctx, s.ID, model.ChatMessage{ID: "m1", Role: model.RoleUser, Content: "hello"})

	// A second repository over the same store sees the same state,
	// selection included.
	reloaded := NewSessionRepo(ctx, kv, &logger)
	got, err := reloaded.Find(ctx, s.ID)
	if err != nil {
		t.Fatalf("find after reload: %v", err)
	}
	if got.Title != "kept" || got.Model != "gemini-1.5-pro" {
		t.Fatalf("reloaded session lost fields: %+v", got)
	}
	if len(got.Messages) != 1 || got.Messages[0].Content != "hello" {
		t.Fatal("reloaded session lost messages")
	}
	if cur, err := reloaded.Current(ctx); err != nil || cur.ID != s.ID {
		t.Fatalf("selection not restored: %v", err)
	}
}

func TestCorruptStoreFallsBackToEmpty(t *testing.T) {
	ctx := context.Background()
	kv := NewMemoryKV()
	kv.Set(ctx, KeySessions, "{not json[")
	logger := zerolog.Nop()

	repo := NewSessionRepo(ctx, kv, &logger)
	if got := repo.List(ctx); len(got) != 0 {
		t.Fatalf("corrupt store should read as empty, got %d sessions", len(got))
	}

	// The store is usable again after the next mutation.
	if _, err := repo.Create(ctx, "fresh", ""); err != nil {
		t.Fatalf("create after corrupt load: %v", err)
	}
}

func TestListReturnsCopies(t *testing.T) {
	ctx := context.Background()
	repo, _ := newTestRepo(t)

	s, _ := repo.Create(ctx, "guarded", "")
	repo.AppendMessage(ctx, s.ID, model.ChatMessage{ID: "m1", Content: "original"})

	list := repo.List(ctx)
	list[0].Title = "tampered"
	list[0].Messages[0].Content = "tampered"

	got, _ := repo.Find(ctx, s.ID)
	if got.Title != "guarded" || got.Messages[0].Content != "original" {
		t.Fatal("caller mutation leaked into repository state")
	}
}
