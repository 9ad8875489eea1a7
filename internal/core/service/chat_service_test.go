package service

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/cursos-uc/cursos-app/internal/core/domain"
)

type replierFunc func(ctx context.Context, content string) (string, error)

func (f replierFunc) Reply(ctx context.Context, content string) (string, error) { return f(ctx, content) }

type memArchive struct {
	mu   sync.Mutex
	msgs map[string][]domain.ChatMessage
}

func (a *memArchive) Load(_ context.Context, session string) ([]domain.ChatMessage, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]domain.ChatMessage{}, a.msgs[session]...), nil
}

func (a *memArchive) Append(_ context.Context, session string, m domain.ChatMessage) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.msgs == nil {
		a.msgs = make(map[string][]domain.ChatMessage)
	}
	a.msgs[session] = append(a.msgs[session], m)
	return nil
}

func (a *memArchive) Clear(_ context.Context, session string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	delete(a.msgs, session)
	return nil
}

func TestKeywordBot_RuleOrder(t *testing.T) {
	bot := NewKeywordBot(-1)

	tests := []struct {
		msg  string
		want string
	}{
		{"¿Qué OFG me recomiendas?", "ofg"},
		{"¿Qué OFGs me recomiendas?", "ofg"},
		{"cursos de Ingeniería", "engineering"},
		{"algo FACIL por favor", "easy"},
		{"quiero algo desafiante", "hard"},
		{"necesito ayuda", "help"},
		{"hola", fallbackRule},
	}
	for _, tt := range tests {
		if rule, _ := bot.Match(tt.msg); rule != tt.want {
			t.Fatalf("Match(%q) = %s, want %s", tt.msg, rule, tt.want)
		}
	}
}

func TestKeywordBot_OFGQuestionRecommendsLET1000(t *testing.T) {
	reply, err := NewKeywordBot(-1).Reply(context.Background(), "¿Qué OFGs me recomiendas?")
	if err != nil {
		t.Fatalf("reply: %v", err)
	}
	if reply != DefaultRules[0].Response || !strings.Contains(reply, "LET1000") {
		t.Fatalf("expected the OFG answer, got %q", reply)
	}
}

func TestKeywordBot_ReplyHonorsContext(t *testing.T) {
	bot := NewKeywordBot(time.Second)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := bot.Reply(ctx, "hola"); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestChat_SendAppendsUserThenBot(t *testing.T) {
	svc := NewChatService(NewKeywordBot(-1), nil, "s", 0, zerolog.Nop())

	if err := svc.Send(context.Background(), "¿Qué OFG tomo?"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	msgs := svc.Messages()
	if len(msgs) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(msgs))
	}
	if msgs[0].Sender != domain.SenderUser || msgs[1].Sender != domain.SenderBot {
		t.Fatalf("unexpected senders: %s, %s", msgs[0].Sender, msgs[1].Sender)
	}
	if msgs[1].Content != DefaultRules[0].Response {
		t.Fatalf("expected OFG answer, got %q", msgs[1].Content)
	}
	a, _ := strconv.ParseInt(msgs[0].ID, 10, 64)
	b, _ := strconv.ParseInt(msgs[1].ID, 10, 64)
	if b <= a {
		t.Fatalf("ids must strictly increase: %s, %s", msgs[0].ID, msgs[1].ID)
	}
}

func TestChat_BlankMessageIgnored(t *testing.T) {
	svc := NewChatService(NewKeywordBot(-1), nil, "s", 0, zerolog.Nop())

	if err := svc.Send(context.Background(), "   "); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(svc.Messages()) != 0 {
		t.Fatalf("blank message must not be appended")
	}
}

func TestChat_SingleMessageInFlight(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})
	rep := replierFunc(func(context.Context, string) (string, error) {
		close(started)
		<-release
		return "ok", nil
	})
	svc := NewChatService(rep, nil, "s", 0, zerolog.Nop())

	done := make(chan error, 1)
	go func() { done <- svc.Send(context.Background(), "primero") }()
	<-started

	if !svc.Awaiting() {
		t.Fatalf("expected awaiting state")
	}
	if err := svc.Send(context.Background(), "segundo"); !errors.Is(err, domain.ErrBusy) {
		t.Fatalf("expected ErrBusy, got %v", err)
	}
	close(release)
	if err := <-done; err != nil {
		t.Fatalf("first send: %v", err)
	}
	if n := len(svc.Messages()); n != 2 {
		t.Fatalf("expected 2 messages, got %d", n)
	}
}

func TestChat_ReplyFailureKeepsUserMessage(t *testing.T) {
	rep := replierFunc(func(context.Context, string) (string, error) { return "", errors.New("bot down") })
	svc := NewChatService(rep, nil, "s", 0, zerolog.Nop())

	if err := svc.Send(context.Background(), "hola"); err == nil {
		t.Fatalf("expected error")
	}
	msgs := svc.Messages()
	if len(msgs) != 1 || msgs[0].Sender != domain.SenderUser {
		t.Fatalf("expected only the user message, got %+v", msgs)
	}
	if svc.Err() != sendError || svc.Awaiting() {
		t.Fatalf("unexpected state: err=%q awaiting=%v", svc.Err(), svc.Awaiting())
	}
}

func TestChat_HistorySeedAndArchive(t *testing.T) {
	mem := NewChatService(NewKeywordBot(-1), nil, "s", 0, zerolog.Nop())
	if err := mem.LoadHistory(context.Background()); err != nil {
		t.Fatalf("load history: %v", err)
	}
	if len(mem.Messages()) != 2 {
		t.Fatalf("expected greeting seed")
	}

	archive := &memArchive{}
	ctx := context.Background()
	first := NewChatService(NewKeywordBot(-1), archive, "s", 0, zerolog.Nop())
	if err := first.Send(ctx, "ayuda"); err != nil {
		t.Fatalf("send: %v", err)
	}

	second := NewChatService(NewKeywordBot(-1), archive, "s", 0, zerolog.Nop())
	if err := second.LoadHistory(ctx); err != nil {
		t.Fatalf("load history: %v", err)
	}
	if len(second.Messages()) != 2 {
		t.Fatalf("expected archived transcript, got %d messages", len(second.Messages()))
	}

	second.Clear(ctx)
	if len(second.Messages()) != 0 {
		t.Fatalf("transcript not cleared")
	}
	if h, _ := archive.Load(ctx, "s"); len(h) != 0 {
		t.Fatalf("archive not cleared")
	}
}

func TestChat_ClearSticksAcrossHistoryLoads(t *testing.T) {
	ctx := context.Background()
	svc := NewChatService(NewKeywordBot(-1), nil, "s", 0, zerolog.Nop())

	if err := svc.LoadHistory(ctx); err != nil {
		t.Fatalf("load history: %v", err)
	}
	svc.Clear(ctx)
	if err := svc.LoadHistory(ctx); err != nil {
		t.Fatalf("reload history: %v", err)
	}
	if n := len(svc.Messages()); n != 0 {
		t.Fatalf("transcript has %d messages after clear", n)
	}
}

func TestChat_ClearBeforeFirstLoadSkipsSeed(t *testing.T) {
	ctx := context.Background()
	svc := NewChatService(NewKeywordBot(-1), nil, "s", 0, zerolog.Nop())

	svc.Clear(ctx)
	if err := svc.LoadHistory(ctx); err != nil {
		t.Fatalf("load history: %v", err)
	}
	if n := len(svc.Messages()); n != 0 {
		t.Fatalf("expected empty transcript, got %d messages", n)
	}
}

func TestChat_ClearWhileAwaitingDropsReply(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})
	rep := replierFunc(func(context.Context, string) (string, error) {
		close(started)
		<-release
		return "bot", nil
	})
	archive := &memArchive{}
	svc := NewChatService(rep, archive, "s", 0, zerolog.Nop())
	ctx := context.Background()

	done := make(chan error, 1)
	go func() { done <- svc.Send(ctx, "hola") }()
	<-started

	svc.Clear(ctx)
	close(release)
	if err := <-done; err != nil {
		t.Fatalf("send: %v", err)
	}

	if msgs := svc.Messages(); len(msgs) != 0 {
		t.Fatalf("expected empty transcript, got %+v", msgs)
	}
	if svc.Awaiting() {
		t.Fatalf("awaiting flag not reset")
	}
	if h, _ := archive.Load(ctx, "s"); len(h) != 0 {
		t.Fatalf("dropped reply was archived: %+v", h)
	}

	if err := svc.Send(ctx, "de nuevo"); err != nil {
		t.Fatalf("send after clear: %v", err)
	}
}
