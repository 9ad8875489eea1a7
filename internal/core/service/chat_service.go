package service

import (
	"context"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/cursos-uc/cursos-app/internal/core/domain"
	"github.com/cursos-uc/cursos-app/internal/core/ports"
	"github.com/cursos-uc/cursos-app/internal/pkg/metrics"
)

const (
	defaultReplyTimeout = 30 * time.Second
	sendError           = "Error al enviar el mensaje"
	historyError        = "Error al cargar el historial del chat"
)

// greeting seeds the transcript when no archive is configured.
var greeting = []domain.ChatMessage{
	{ID: "1", Sender: domain.SenderUser, Content: "¿Qué OFGs me recomiendas?", Timestamp: "2023-08-10T15:30:00Z"},
	{ID: "2", Sender: domain.SenderBot, Content: DefaultRules[0].Response, Timestamp: "2023-08-10T15:30:05Z"},
}

// ChatService holds the chat transcript. It moves Idle -> Awaiting-Reply ->
// Idle, and at most one message may await a reply at any time.
type ChatService struct {
	replier   ports.Replier
	archive   ports.TranscriptRepository
	sessionID string
	timeout   time.Duration
	log       zerolog.Logger
	clock     func() time.Time

	mu       sync.Mutex
	messages []domain.ChatMessage
	awaiting bool
	loaded   bool
	lastErr  string
	lastID   int64
	// gen is bumped by Clear; a reply started under an older gen is dropped.
	gen uint64
}

// NewChatService builds the store. archive may be nil, in which case the
// transcript lives only in memory.
func NewChatService(
	replier ports.Replier,
	archive ports.TranscriptRepository,
	sessionID string,
	replyTimeout time.Duration,
	log zerolog.Logger,
) *ChatService {
	if replyTimeout <= 0 {
		replyTimeout = defaultReplyTimeout
	}
	return &ChatService{
		replier:   replier,
		archive:   archive,
		sessionID: sessionID,
		timeout:   replyTimeout,
		log:       log.With().Str("service", "ChatService").Logger(),
		clock:     time.Now,
	}
}

// Send appends the user's message, waits for the bot and appends its reply.
// Blank content is ignored. While a reply is awaited further sends fail with
// domain.ErrBusy and append nothing. A failed reply keeps the user's message.
func (s *ChatService) Send(ctx context.Context, content string) error {
	if strings.TrimSpace(content) == "" {
		return nil
	}

	s.mu.Lock()
	if s.awaiting {
		s.mu.Unlock()
		return domain.ErrBusy
	}
	msg := s.newMessage(domain.SenderUser, content)
	s.messages = append(s.messages, msg)
	s.awaiting = true
	gen := s.gen
	s.lastErr = ""
	s.mu.Unlock()
	metrics.ChatAwaitingReply.Set(1)

	s.archiveAppend(ctx, msg)

	replyCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	text, err := s.replier.Reply(replyCtx, content)

	s.mu.Lock()
	s.awaiting = false
	if err != nil {
		s.lastErr = sendError
		s.mu.Unlock()
		metrics.ChatAwaitingReply.Set(0)
		s.log.Error().Err(err).Msg("error sending message")
		return fmt.Errorf("send message: %w", err)
	}
	if gen != s.gen {
		s.mu.Unlock()
		metrics.ChatAwaitingReply.Set(0)
		s.log.Debug().Msg("reply dropped, transcript cleared while awaiting")
		return nil
	}
	reply := s.newMessage(domain.SenderBot, text)
	s.messages = append(s.messages, reply)
	s.mu.Unlock()
	metrics.ChatAwaitingReply.Set(0)

	s.archiveAppend(ctx, reply)
	return nil
}

// LoadHistory fills an empty transcript from the archive, or with the built-in
// greeting when there is no archive. It loads at most once per process: later
// calls, including after Clear, leave the transcript as is.
func (s *ChatService) LoadHistory(ctx context.Context) error {
	s.mu.Lock()
	done := s.loaded
	s.mu.Unlock()
	if done {
		return nil
	}

	history := greeting
	if s.archive != nil {
		h, err := s.archive.Load(ctx, s.sessionID)
		if err != nil {
			s.mu.Lock()
			s.lastErr = historyError
			s.mu.Unlock()
			s.log.Error().Err(err).Msg("error loading chat history")
			return fmt.Errorf("load chat history: %w", err)
		}
		history = h
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.loaded && len(s.messages) == 0 {
		s.messages = slices.Clone(history)
	}
	s.loaded = true
	return nil
}

// Clear empties the transcript and, best-effort, the archive. A reply still
// pending is discarded when it arrives.
func (s *ChatService) Clear(ctx context.Context) {
	s.mu.Lock()
	s.messages = nil
	s.lastErr = ""
	s.loaded = true
	s.gen++
	s.mu.Unlock()

	if s.archive != nil {
		if err := s.archive.Clear(ctx, s.sessionID); err != nil {
			s.log.Warn().Err(err).Msg("failed to clear chat archive")
		}
	}
}

// Messages returns the transcript in insertion order.
func (s *ChatService) Messages() []domain.ChatMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.messages)
}

// Awaiting reports whether a reply is pending; input should be disabled.
func (s *ChatService) Awaiting() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.awaiting
}

// Err returns the user-facing message of the last failure.
func (s *ChatService) Err() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

// newMessage stamps a message with a millisecond clock reading as id, bumped
// so ids strictly increase within the session. Callers hold s.mu.
func (s *ChatService) newMessage(sender domain.Sender, content string) domain.ChatMessage {
	now := s.clock()
	id := now.UnixMilli()
	if id <= s.lastID {
		id = s.lastID + 1
	}
	s.lastID = id
	return domain.ChatMessage{
		ID:        strconv.FormatInt(id, 10),
		Sender:    sender,
		Content:   content,
		Timestamp: now.UTC().Format(time.RFC3339Nano),
	}
}

func (s *ChatService) archiveAppend(ctx context.Context, msg domain.ChatMessage) {
	if s.archive == nil {
		return
	}
	if err := s.archive.Append(ctx, s.sessionID, msg); err != nil {
		s.log.Warn().Err(err).Str("message_id", msg.ID).Msg("failed to archive chat message")
	}
}
