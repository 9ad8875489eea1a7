package ports

import (
	"context"

	"github.com/cursos-uc/cursos-app/internal/core/domain"
)

// Replier produces the bot's answer text for a user message.
type Replier interface {
	Reply(ctx context.Context, content string) (string, error)
}

// TranscriptRepository archives a chat transcript. Implementations must keep
// insertion order.
type TranscriptRepository interface {
	Load(ctx context.Context, sessionID string) ([]domain.ChatMessage, error)
	Append(ctx context.Context, sessionID string, msg domain.ChatMessage) error
	Clear(ctx context.Context, sessionID string) error
}
