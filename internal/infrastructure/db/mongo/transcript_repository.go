package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/cursos-uc/cursos-app/internal/core/domain"
	"github.com/cursos-uc/cursos-app/internal/core/ports"
)

const transcriptCollection = "chat_messages"

// TranscriptRepository archives chat messages per session in MongoDB.
type TranscriptRepository struct {
	col     *mongo.Collection
	timeout time.Duration
}

func NewTranscriptRepository(db *mongo.Database) *TranscriptRepository {
	return &TranscriptRepository{col: db.Collection(transcriptCollection), timeout: defaultTimeout}
}

type transcriptDoc struct {
	SessionID  string    `bson:"session_id"`
	ArchivedAt time.Time `bson:"archived_at"`

	domain.ChatMessage `bson:",inline"`
}

// Load returns the session's messages in the order they were appended.
func (r *TranscriptRepository) Load(ctx context.Context, sessionID string) ([]domain.ChatMessage, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "archived_at", Value: 1}, {Key: "_id", Value: 1}})
	cur, err := r.col.Find(ctx, bson.M{"session_id": sessionID}, opts)
	if err != nil {
		return nil, fmt.Errorf("find transcript: %w", err)
	}
	defer cur.Close(ctx)

	var docs []transcriptDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode transcript: %w", err)
	}

	out := make([]domain.ChatMessage, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.ChatMessage)
	}
	return out, nil
}

func (r *TranscriptRepository) Append(ctx context.Context, sessionID string, msg domain.ChatMessage) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	doc := transcriptDoc{SessionID: sessionID, ArchivedAt: time.Now().UTC(), ChatMessage: msg}
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert chat message: %w", err)
	}
	return nil
}

func (r *TranscriptRepository) Clear(ctx context.Context, sessionID string) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	if _, err := r.col.DeleteMany(ctx, bson.M{"session_id": sessionID}); err != nil {
		return fmt.Errorf("clear transcript: %w", err)
	}
	return nil
}

// EnsureIndexes creates the per-session lookup index.
func (r *TranscriptRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := r.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "session_id", Value: 1}, {Key: "archived_at", Value: 1}},
	})
	return err
}

var _ ports.TranscriptRepository = (*TranscriptRepository)(nil)
