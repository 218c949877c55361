package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/Amanouazh/Pishoo-Ai/internal/domain"
	"github.com/Amanouazh/Pishoo-Ai/internal/domain/model"
)

func TestSendWithoutCredentialTouchesNothing(t *testing.T) {
	ctx := context.Background()
	sessions, settings := newTestRepos(ctx)
	ai := &fakeAI{reply: "ok"}
	uc := newTestChatUC(sessions, settings, ai)

	_, err := uc.Send(ctx, "", "Hello", "")
	if !errors.Is(err, domain.ErrMissingCredential) {
		t.Fatalf("want ErrMissingCredential, got %v", err)
	}
	if ai.callCount() != 0 {
		t.Fatalf("network touched without credential: %d calls", ai.callCount())
	}
	if got := sessions.List(ctx); len(got) != 0 {
		t.Fatalf("session created without credential: %d", len(got))
	}
}

func TestSendEmptyMessageRejected(t *testing.T) {
	ctx := context.Background()
	sessions, settings := newTestRepos(ctx)
	settings.SetAPIKey(ctx, "key")
	ai := &fakeAI{reply: "ok"}
	uc := newTestChatUC(sessions, settings, ai)

	if _, err := uc.Send(ctx, "", "   \n ", ""); !errors.Is(err, domain.ErrInvalidArgument) {
		t.Fatalf("want ErrInvalidArgument, got %v", err)
	}
	if ai.callCount() != 0 {
		t.Fatal("empty message reached the adapter")
	}
}

func TestSendHappyPathAppendsBothTurns(t *testing.T) {
	ctx := context.Background()
	sessions, settings := newTestRepos(ctx)
	settings.SetAPIKey(ctx, "key")
	uc := newTestChatUC(sessions, settings, &fakeAI{reply: "Hi there"})

	s, err := sessions.Create(ctx, "test chat", "gemini-1.5-flash")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	result, err := uc.Send(ctx, s.ID, "Hello", "")
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	if result.Reply.Role != model.RoleAssistant || result.Reply.Content != "Hi there" {
		t.Fatalf("reply = %+v", result.Reply)
	}

	got, _ := sessions.Find(ctx, s.ID)
	if len(got.Messages) != 2 {
		t.Fatalf("message count = %d, want 2", len(got.Messages))
	}
	if got.Messages[0].Role != model.RoleUser || got.Messages[0].Content != "Hello" {
		t.Fatalf("first message = %+v", got.Messages[0])
	}
	if got.Messages[1].Role != model.RoleAssistant || got.Messages[1].Content != "Hi there" {
		t.Fatalf("second message = %+v", got.Messages[1])
	}
	if got.Messages[0].ID == got.Messages[1].ID {
		t.Fatal("message ids collide within the session")
	}
}

func TestSendFailureRetractsOptimisticMessage(t *testing.T) {
	ctx := context.Background()
	sessions, settings := newTestRepos(ctx)
	settings.SetAPIKey(ctx, "key")

	cases := []struct {
		name string
		err  error
	}{
		{"api error", &domain.APIError{Status: 500, Reason: "boom"}},
		{"transport error", &domain.TransportError{Err: errors.New("timeout")}},
		{"malformed response", domain.ErrMalformedResponse},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			uc := newTestChatUC(sessions, settings, &fakeAI{err: tc.err})

			s, _ := sessions.Create(ctx, "", "")
			sessions.AppendMessage(ctx, s.ID, model.ChatMessage{ID: "m0", Role: model.RoleUser, Content: "earlier"})
			before, _ := sessions.Find(ctx, s.ID)

			_, err := uc.Send(ctx, s.ID, "Hello", "")
			if !errors.Is(err, tc.err) {
				t.Fatalf("send error = %v, want %v", err, tc.err)
			}

			after, _ := sessions.Find(ctx, s.ID)
			if len(after.Messages) != len(before.Messages) {
				t.Fatalf("message list changed after failed send: %d -> %d",
					len(before.Messages), len(after.Messages))
			}
			for i := range before.Messages {
				if after.Messages[i].Content != before.Messages[i].Content {
					t.Fatalf("message %d mutated after failed send", i)
				}
			}
		})
	}
}

func TestSendImplicitlyCreatesSessionWithTruncatedTitle(t *testing.T) {
	ctx := context.Background()
	sessions, settings := newTestRepos(ctx)
	settings.SetAPIKey(ctx, "key")
	uc := newTestChatUC(sessions, settings, &fakeAI{reply: "ok"})

	long := strings.Repeat("x", 80)
	result, err := uc.Send(ctx, "", long, "gemini-1.5-pro")
	if err != nil {
		t.Fatalf("send: %v", err)
	}

	want := strings.Repeat("x", 50) + "..."
	if result.Session.Title != want {
		t.Fatalf("title = %q, want %q", result.Session.Title, want)
	}
	if result.Session.Model != "gemini-1.5-pro" {
		t.Fatalf("model = %q", result.Session.Model)
	}
	if cur, err := sessions.Current(ctx); err != nil || cur.ID != result.Session.ID {
		t.Fatalf("new session should become current: %v", err)
	}
}

func TestSendAfterDeletingCurrentCreatesFreshSession(t *testing.T) {
	ctx := context.Background()
	sessions, settings := newTestRepos(ctx)
	settings.SetAPIKey(ctx, "key")
	uc := newTestChatUC(sessions, settings, &fakeAI{reply: "ok"})

	first, _ := uc.Send(ctx, "", "Hello", "")
	if err := sessions.Delete(ctx, first.Session.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	second, err := uc.Send(ctx, "", "Again", "")
	if err != nil {
		t.Fatalf("send after delete: %v", err)
	}
	if second.Session.ID == first.Session.ID {
		t.Fatal("send reused a deleted session")
	}
	if len(second.Session.Messages) != 2 {
		t.Fatalf("fresh session message count = %d", len(second.Session.Messages))
	}
}

func TestSendRejectsConcurrentSendOnSameSession(t *testing.T) {
	ctx := context.Background()
	sessions, settings := newTestRepos(ctx)
	settings.SetAPIKey(ctx, "key")

	ai := &fakeAI{
		reply:   "slow reply",
		started: make(chan struct{}, 1),
		release: make(chan struct{}),
	}
	uc := newTestChatUC(sessions, settings, ai)

	s, _ := sessions.Create(ctx, "", "")

	done := make(chan error, 1)
	go func() {
		_, err := uc.Send(ctx, s.ID, "first", "")
		done <- err
	}()
	<-ai.started // first send is now in flight

	if _, err := uc.Send(ctx, s.ID, "second", ""); !errors.Is(err, domain.ErrRequestInProgress) {
		t.Fatalf("second send: %v, want ErrRequestInProgress", err)
	}

	close(ai.release)
	if err := <-done; err != nil {
		t.Fatalf("first send: %v", err)
	}

	// Once the first request resolves, the session accepts sends again.
	ai.started = nil
	ai.release = nil
	if _, err := uc.Send(ctx, s.ID, "third", ""); err != nil {
		t.Fatalf("send after release: %v", err)
	}
}

func TestConcurrentImplicitSendsCreateOneSession(t *testing.T) {
	ctx := context.Background()
	sessions, settings := newTestRepos(ctx)
	settings.SetAPIKey(ctx, "key")

	ai := &fakeAI{
		reply:   "ok",
		started: make(chan struct{}, 1),
		release: make(chan struct{}),
	}
	uc := newTestChatUC(sessions, settings, ai)

	done := make(chan error, 1)
	go func() {
		_, err := uc.Send(ctx, "", "first implicit", "")
		done <- err
	}()
	<-ai.started // first implicit send is in flight

	// A second implicit send must not create another session.
	if _, err := uc.Send(ctx, "", "second implicit", ""); !errors.Is(err, domain.ErrRequestInProgress) {
		t.Fatalf("second implicit send: %v, want ErrRequestInProgress", err)
	}

	close(ai.release)
	if err := <-done; err != nil {
		t.Fatalf("first implicit send: %v", err)
	}
	if got := sessions.List(ctx); len(got) != 1 {
		t.Fatalf("session count = %d, want 1", len(got))
	}
}

func TestSendOnOtherSessionWhileInFlight(t *testing.T) {
	ctx := context.Background()
	sessions, settings := newTestRepos(ctx)
	settings.SetAPIKey(ctx, "key")

	ai := &fakeAI{
		reply:   "ok",
		started: make(chan struct{}, 2),
		release: make(chan struct{}),
	}
	uc := newTestChatUC(sessions, settings, ai)

	a, _ := sessions.Create(ctx, "a", "")
	b, _ := sessions.Create(ctx, "b", "")

	done := make(chan error, 2)
	go func() {
		_, err := uc.Send(ctx, a.ID, "to a", "")
		done <- err
	}()
	<-ai.started

	// Cross-session sends are independent of the in-flight request.
	go func() {
		_, err := uc.Send(ctx, b.ID, "to b", "")
		done <- err
	}()
	<-ai.started

	close(ai.release)
	for i := 0; i < 2; i++ {
		if err := <-done; err != nil {
			t.Fatalf("send %d: %v", i, err)
		}
	}
}

func TestSendModelOverrideWins(t *testing.T) {
	ctx := context.Background()
	sessions, settings := newTestRepos(ctx)
	settings.SetAPIKey(ctx, "key")
	uc := newTestChatUC(sessions, settings, &fakeAI{reply: "ok"})

	s, _ := sessions.Create(ctx, "", "gemini-1.5-flash")
	if _, err := uc.Send(ctx, s.ID, "Hello", "gemini-1.5-pro"); err != nil {
		t.Fatalf("send: %v", err)
	}

	got, _ := sessions.Find(ctx, s.ID)
	if got.Model != "gemini-1.5-pro" {
		t.Fatalf("model after override = %q", got.Model)
	}
}
