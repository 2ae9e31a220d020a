package conversation

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/PabloGalante/rajbari-portal/internal/domain"
	"github.com/PabloGalante/rajbari-portal/internal/observability"
)

const (
	chatInstruction = `আপনি "রাজবাড়ী জেলা তথ্য সহায়িকা"। রাজবাড়ী জেলার প্রেক্ষাপটে বাংলায় উত্তর দিন।`

	welcomeText  = "স্বাগতম! আমি রাজবাড়ী জেলা তথ্য সহায়িকা। রাজবাড়ী সম্পর্কে যেকোনো প্রশ্ন করুন। আজ আপনাকে কীভাবে সাহায্য করতে পারি?"
	clearedText  = "চ্যাট হিস্টোরি ক্লিয়ার করা হয়েছে। আমি আপনাকে রাজবাড়ী সম্পর্কে নতুনভাবে কীভাবে সাহায্য করতে পারি?"
	fallbackText = "দুঃখিত, বর্তমানে এআই সার্ভারের সাথে সংযোগ বিচ্ছিন্ন। কিছুক্ষণ পর আবার চেষ্টা করুন।"

	defaultTitle = "রাজবাড়ী চ্যাট"
)

type Service struct {
	gateway      domain.Gateway
	sessionStore domain.SessionStore
	messageStore domain.MessageStore
	now          func() time.Time
	newID        func() string
}

func NewService(
	gateway domain.Gateway,
	sessionStore domain.SessionStore,
	messageStore domain.MessageStore,
) *Service {
	return &Service{
		gateway:      gateway,
		sessionStore: sessionStore,
		messageStore: messageStore,
		now:          time.Now,
		newID:        uuid.NewString,
	}
}

type StartSessionInput struct {
	Title string
}

type StartSessionOutput struct {
	Session *domain.Session
	Welcome *domain.Message
}

func (s *Service) StartSession(ctx context.Context, in StartSessionInput) (*StartSessionOutput, error) {
	now := s.now()
	log := observability.LoggerFromContext(ctx)
	log.Info("starting new session")

	title := strings.TrimSpace(in.Title)
	if title == "" {
		title = defaultTitle
	}

	session := &domain.Session{
		ID:        domain.SessionID(s.newID()),
		Title:     title,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.sessionStore.CreateSession(ctx, session); err != nil {
		log.Error("failed to create session", "error", err)
		return nil, fmt.Errorf("create session: %w", err)
	}

	welcome := s.modelMessage(session.ID, welcomeText, domain.ModeLive)
	if err := s.messageStore.AppendMessage(ctx, welcome); err != nil {
		log.Error("failed to append welcome message", "error", err)
		return nil, fmt.Errorf("append welcome message: %w", err)
	}

	log.Info("session started", "session_id", session.ID)

	return &StartSessionOutput{
		Session: session,
		Welcome: welcome,
	}, nil
}

type SendMessageInput struct {
	SessionID domain.SessionID
	Text      string

	// Retry re-sends the latest user message instead of appending Text.
	Retry bool
}

type SendMessageOutput struct {
	UserMessage  *domain.Message // nil on retry
	ModelMessage *domain.Message
}

// SendMessage appends the user's text, sends the whole conversation to the
// gateway and appends the reply. Provider failures never fail the call;
// they produce a fallback reply instead.
func (s *Service) SendMessage(ctx context.Context, in SendMessageInput) (*SendMessageOutput, error) {
	text := strings.TrimSpace(in.Text)
	if text == "" && !in.Retry {
		return nil, domain.ErrEmptyMessage
	}

	session, err := s.sessionStore.GetSession(ctx, in.SessionID)
	if err != nil {
		return nil, err
	}

	log := observability.LoggerFromContext(ctx).With(
		"session_id", session.ID,
		"retry", in.Retry,
	)
	log.Info("sending message")

	var userMsg *domain.Message
	if !in.Retry {
		userMsg = &domain.Message{
			ID:        domain.MessageID(s.newID()),
			SessionID: session.ID,
			Role:      domain.RoleUser,
			Text:      text,
			CreatedAt: s.now(),
		}
		if err := s.messageStore.AppendMessage(ctx, userMsg); err != nil {
			log.Error("failed to append user message", "error", err)
			return nil, fmt.Errorf("append user message: %w", err)
		}
	}

	history, err := s.messageStore.GetMessagesBySession(ctx, session.ID, 0)
	if err != nil {
		log.Error("failed to load history", "error", err)
		return nil, fmt.Errorf("load history: %w", err)
	}

	turns := historyTurns(history)
	if len(turns) == 0 || turns[len(turns)-1].Role != domain.RoleUser {
		return nil, domain.ErrNothingToRetry
	}

	res := s.gateway.Call(ctx, domain.Request{
		Turns:             turns,
		SystemInstruction: chatInstruction,
	})

	var reply *domain.Message
	if res.Failed() {
		reply = s.modelMessage(session.ID, fallbackText, domain.ModeFallback)
		reply.IsError = res.Error != domain.ErrCodeCredentialMissing
		observability.FallbacksTotal.WithLabelValues("chat", string(res.Error)).Inc()
		log.Warn("chat reply fell back", "error_code", res.Error)
	} else {
		reply = s.modelMessage(session.ID, res.TextOrEmpty(), res.Mode)
		reply.Sources = res.Sources
	}

	if err := s.messageStore.AppendMessage(ctx, reply); err != nil {
		log.Error("failed to append model message", "error", err)
		return nil, fmt.Errorf("append model message: %w", err)
	}

	session.UpdatedAt = s.now()
	if err := s.sessionStore.UpdateSession(ctx, session); err != nil {
		log.Error("failed to update session", "error", err)
		return nil, fmt.Errorf("update session: %w", err)
	}

	log.Info("send message completed", "mode", reply.Mode, "is_error", reply.IsError)

	return &SendMessageOutput{
		UserMessage:  userMsg,
		ModelMessage: reply,
	}, nil
}

func (s *Service) GetSessionTimeline(
	ctx context.Context,
	sessionID domain.SessionID,
	limit int,
) (*domain.Session, []*domain.Message, error) {

	log := observability.LoggerFromContext(ctx).With(
		"session_id", sessionID,
		"limit", limit,
	)

	session, err := s.sessionStore.GetSession(ctx, sessionID)
	if err != nil {
		log.Error("failed to get session", "error", err)
		return nil, nil, err
	}

	msgs, err := s.messageStore.GetMessagesBySession(ctx, sessionID, limit)
	if err != nil {
		log.Error("failed to get messages", "error", err)
		return nil, nil, fmt.Errorf("get messages: %w", err)
	}

	log.Info("fetched session timeline", "message_count", len(msgs))

	return session, msgs, nil
}

// ClearSession drops the history and leaves a single fresh welcome message.
func (s *Service) ClearSession(ctx context.Context, sessionID domain.SessionID) (*domain.Message, error) {
	log := observability.LoggerFromContext(ctx).With("session_id", sessionID)

	session, err := s.sessionStore.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if err := s.messageStore.DeleteMessagesBySession(ctx, session.ID); err != nil {
		log.Error("failed to delete messages", "error", err)
		return nil, fmt.Errorf("delete messages: %w", err)
	}

	welcome := s.modelMessage(session.ID, clearedText, domain.ModeLive)
	if err := s.messageStore.AppendMessage(ctx, welcome); err != nil {
		return nil, fmt.Errorf("append welcome message: %w", err)
	}

	session.UpdatedAt = s.now()
	if err := s.sessionStore.UpdateSession(ctx, session); err != nil {
		return nil, fmt.Errorf("update session: %w", err)
	}

	log.Info("session cleared")
	return welcome, nil
}

func (s *Service) modelMessage(sessionID domain.SessionID, text string, mode domain.ResponseMode) *domain.Message {
	return &domain.Message{
		ID:        domain.MessageID(s.newID()),
		SessionID: sessionID,
		Role:      domain.RoleModel,
		Text:      text,
		CreatedAt: s.now(),
		Mode:      mode,
	}
}

// historyTurns converts the stored timeline to provider turns. Fallback
// replies are local text and are not sent back to the provider.
func historyTurns(history []*domain.Message) []domain.Turn {
	turns := make([]domain.Turn, 0, len(history))
	for _, m := range history {
		if m.Role == domain.RoleModel && m.Mode == domain.ModeFallback {
			continue
		}
		turns = append(turns, domain.Turn{Role: m.Role, Text: m.Text})
	}
	return turns
}
