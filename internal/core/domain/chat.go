package domain

// Sender identifies who authored a chat message.
type Sender string

const (
	SenderUser Sender = "user"
	SenderBot  Sender = "bot"
)

// ChatMessage is one entry of the append-only transcript. Timestamp is RFC 3339.
type ChatMessage struct {
	ID        string `json:"id"        bson:"id"`
	Sender    Sender `json:"sender"    bson:"sender"`
	Content   string `json:"content"   bson:"content"`
	Timestamp string `json:"timestamp" bson:"timestamp"`
}
