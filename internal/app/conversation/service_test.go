package conversation_test

import (
	"context"
	"errors"
	"testing"

	"github.com/PabloGalante/rajbari-portal/internal/adapters/llm"
	"github.com/PabloGalante/rajbari-portal/internal/adapters/storage/memory"
	"github.com/PabloGalante/rajbari-portal/internal/app/conversation"
	"github.com/PabloGalante/rajbari-portal/internal/domain"
)

type scriptedGateway struct {
	results []domain.Result
	calls   []domain.Request
}

func (g *scriptedGateway) Call(_ context.Context, req domain.Request) domain.Result {
	g.calls = append(g.calls, req)
	res := g.results[0]
	if len(g.results) > 1 {
		g.results = g.results[1:]
	}
	return res
}

func newService(gw domain.Gateway) *conversation.Service {
	return conversation.NewService(gw, memory.NewSessionStore(), memory.NewMessageStore())
}

func TestStartSessionAndSendMessage(t *testing.T) {
	ctx := context.Background()
	svc := newService(llm.NewMockGateway())

	out, err := svc.StartSession(ctx, conversation.StartSessionInput{Title: "Test session"})
	if err != nil {
		t.Fatalf("StartSession failed: %v", err)
	}
	if out.Session.ID == "" {
		t.Fatalf("expected session id, got empty")
	}
	if out.Welcome == nil || out.Welcome.Role != domain.RoleModel {
		t.Fatalf("expected a model welcome message")
	}

	reply, err := svc.SendMessage(ctx, conversation.SendMessageInput{
		SessionID: out.Session.ID,
		Text:      "রাজবাড়ীর দর্শনীয় স্থান কী?",
	})
	if err != nil {
		t.Fatalf("SendMessage failed: %v", err)
	}
	if reply.ModelMessage == nil || reply.ModelMessage.Text == "" {
		t.Fatalf("expected non-empty model reply")
	}
	if reply.ModelMessage.IsError {
		t.Fatalf("live reply must not be flagged as error")
	}

	_, msgs, err := svc.GetSessionTimeline(ctx, out.Session.ID, 0)
	if err != nil {
		t.Fatalf("GetSessionTimeline: %v", err)
	}
	if len(msgs) != 3 {
		t.Fatalf("expected welcome, user and reply, got %d messages", len(msgs))
	}
}

func TestSendMessageSendsFullHistory(t *testing.T) {
	ctx := context.Background()
	gw := &scriptedGateway{results: []domain.Result{
		domain.Success("প্রথম উত্তর", domain.ModeLive, nil),
		domain.Success("দ্বিতীয় উত্তর", domain.ModeLive, nil),
	}}
	svc := newService(gw)

	out, _ := svc.StartSession(ctx, conversation.StartSessionInput{})
	if _, err := svc.SendMessage(ctx, conversation.SendMessageInput{SessionID: out.Session.ID, Text: "এক"}); err != nil {
		t.Fatalf("SendMessage: %v", err)
	}
	if _, err := svc.SendMessage(ctx, conversation.SendMessageInput{SessionID: out.Session.ID, Text: "দুই"}); err != nil {
		t.Fatalf("SendMessage: %v", err)
	}

	last := gw.calls[1]
	if len(last.Turns) != 4 {
		t.Fatalf("expected welcome + 3 turns, got %d: %+v", len(last.Turns), last.Turns)
	}
	if last.Turns[0].Role != domain.RoleModel || last.Turns[3].Text != "দুই" {
		t.Fatalf("unexpected turn order: %+v", last.Turns)
	}
	if last.UseSearch {
		t.Fatalf("chat must not enable search")
	}
}

func TestSendMessageFallback(t *testing.T) {
	tests := []struct {
		code        domain.ErrorCode
		wantIsError bool
	}{
		{domain.ErrCodeTimeout, true},
		{domain.ErrCodeGateway, true},
		{domain.ErrCodeCredentialMissing, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			ctx := context.Background()
			svc := newService(&scriptedGateway{results: []domain.Result{domain.Failure(tt.code, "x")}})

			out, _ := svc.StartSession(ctx, conversation.StartSessionInput{})
			reply, err := svc.SendMessage(ctx, conversation.SendMessageInput{SessionID: out.Session.ID, Text: "হ্যালো"})
			if err != nil {
				t.Fatalf("provider failure must not fail SendMessage: %v", err)
			}
			if reply.ModelMessage.Mode != domain.ModeFallback {
				t.Fatalf("expected local_fallback, got %q", reply.ModelMessage.Mode)
			}
			if reply.ModelMessage.IsError != tt.wantIsError {
				t.Fatalf("expected isError=%v, got %v", tt.wantIsError, reply.ModelMessage.IsError)
			}
		})
	}
}

func TestRetryResendsLastUserMessage(t *testing.T) {
	ctx := context.Background()
	gw := &scriptedGateway{results: []domain.Result{
		domain.Failure(domain.ErrCodeTimeout, "slow"),
		domain.Success("এবার পেয়েছি", domain.ModeLive, nil),
	}}
	svc := newService(gw)

	out, _ := svc.StartSession(ctx, conversation.StartSessionInput{})
	if _, err := svc.SendMessage(ctx, conversation.SendMessageInput{SessionID: out.Session.ID, Text: "ট্রেন কখন?"}); err != nil {
		t.Fatalf("SendMessage: %v", err)
	}

	reply, err := svc.SendMessage(ctx, conversation.SendMessageInput{SessionID: out.Session.ID, Retry: true})
	if err != nil {
		t.Fatalf("retry: %v", err)
	}
	if reply.UserMessage != nil {
		t.Fatalf("retry must not append a new user message")
	}
	if reply.ModelMessage.Text != "এবার পেয়েছি" {
		t.Fatalf("unexpected retry reply %q", reply.ModelMessage.Text)
	}

	turns := gw.calls[1].Turns
	if turns[len(turns)-1].Text != "ট্রেন কখন?" {
		t.Fatalf("retry should end with the last user text, got %+v", turns)
	}

	if _, err := svc.SendMessage(ctx, conversation.SendMessageInput{SessionID: out.Session.ID, Retry: true}); !errors.Is(err, domain.ErrNothingToRetry) {
		t.Fatalf("expected ErrNothingToRetry after a live reply, got %v", err)
	}
}

func TestSendMessageValidation(t *testing.T) {
	ctx := context.Background()
	svc := newService(llm.NewMockGateway())

	if _, err := svc.SendMessage(ctx, conversation.SendMessageInput{SessionID: "x", Text: "  "}); !errors.Is(err, domain.ErrEmptyMessage) {
		t.Fatalf("expected ErrEmptyMessage, got %v", err)
	}
	if _, err := svc.SendMessage(ctx, conversation.SendMessageInput{SessionID: "missing", Text: "hi"}); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
}

func TestClearSession(t *testing.T) {
	ctx := context.Background()
	svc := newService(llm.NewMockGateway())

	out, _ := svc.StartSession(ctx, conversation.StartSessionInput{})
	_, _ = svc.SendMessage(ctx, conversation.SendMessageInput{SessionID: out.Session.ID, Text: "এক"})

	welcome, err := svc.ClearSession(ctx, out.Session.ID)
	if err != nil {
		t.Fatalf("ClearSession: %v", err)
	}

	_, msgs, _ := svc.GetSessionTimeline(ctx, out.Session.ID, 0)
	if len(msgs) != 1 || msgs[0].ID != welcome.ID {
		t.Fatalf("expected only the fresh welcome message, got %d messages", len(msgs))
	}
}
