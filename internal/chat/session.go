package chat

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/VivanRajath/Neusearch/internal/models"
	"github.com/VivanRajath/Neusearch/internal/upstream"
	"github.com/VivanRajath/Neusearch/internal/util"

	"go.uber.org/zap"
)

// Canned assistant texts. The greeting seeds every transcript; the fallback
// covers replies with an empty answer; the apology covers failed sends.
const (
	GreetingText   = "Hi! I'm your AI shopping assistant. Looking for something specific?"
	FallbackAnswer = "Here are some recommendations based on your query."
	ApologyText    = "Sorry, I encountered an error. Please try again."
)

// Responder issues one chat exchange with the recommendation backend.
// Implemented by the upstream client; tests inject fakes.
type Responder interface {
	Chat(ctx context.Context, query string) (*upstream.ChatReply, error)
}

// Session owns one append-only chat transcript and serializes sends: at most
// one request is in flight, extra sends are dropped rather than queued.
type Session struct {
	responder Responder
	logger    *zap.Logger

	mu       sync.Mutex
	messages []models.Message
	busy     bool
}

// NewSession creates a session seeded with the assistant greeting.
func NewSession(responder Responder) *Session {
	return &Session{
		responder: responder,
		logger:    util.GetLogger(),
		messages: []models.Message{
			{Text: GreetingText, Sender: models.SenderAssistant},
		},
	}
}

// Send appends the user message and one assistant reply to the transcript.
// Empty or whitespace-only text and sends while another exchange is in
// flight are silently rejected; the returned bool reports acceptance only.
// Failures never escape: a failed exchange appends the apology instead.
func (s *Session) Send(ctx context.Context, text string) bool {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return false
	}

	s.mu.Lock()
	if s.busy {
		s.mu.Unlock()
		util.ChatSendsTotal.WithLabelValues("dropped").Inc()
		return false
	}
	s.busy = true
	s.messages = append(s.messages, models.Message{Text: trimmed, Sender: models.SenderUser})
	s.mu.Unlock()

	start := time.Now()
	reply, err := s.responder.Chat(ctx, trimmed)
	util.ChatSendLatency.Observe(time.Since(start).Seconds())

	assistant := models.Message{Sender: models.SenderAssistant}
	if err != nil {
		s.logger.Warn("Chat exchange failed", zap.Error(err))
		util.ChatSendsTotal.WithLabelValues("error").Inc()
		assistant.Text = ApologyText
	} else {
		util.ChatSendsTotal.WithLabelValues("success").Inc()
		assistant.Text = reply.Answer
		if strings.TrimSpace(assistant.Text) == "" {
			assistant.Text = FallbackAnswer
		}
		assistant.Recommendations = reply.Recommendations
	}

	s.mu.Lock()
	s.messages = append(s.messages, assistant)
	s.busy = false
	s.mu.Unlock()

	return true
}

// Messages returns a copy of the transcript in chronological order.
func (s *Session) Messages() []models.Message {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]models.Message, len(s.messages))
	copy(out, s.messages)
	return out
}

// Busy reports whether an exchange is currently in flight.
func (s *Session) Busy() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.busy
}
