package domain

import (
	"context"
	"time"
)

// Role identifies the author of a conversation entry.
type Role string

const (
	RoleHuman Role = "human"
	RoleAI    Role = "ai"
)

// LogDocument is the full text of one source log file together with the
// identity tuple used for cache keying. It is re-read from the filesystem
// on every session and never cached itself.
type LogDocument struct {
	Path    string
	Size    int64
	ModTime time.Time
	Content string
}

// Chunk is a contiguous slice of log text with its starting byte offset,
// the unit indexed for retrieval.
type Chunk struct {
	Text   string `json:"text"`
	Start  int    `json:"start"`
	Source string `json:"source"`
}

// SearchResult is a matching chunk with a similarity score.
type SearchResult struct {
	Chunk Chunk
	Score float64
}

// ConversationEntry is one turn of the conversation. Entries are appended
// in chronological order and never edited. The JSON field names match the
// on-disk conversation file format.
type ConversationEntry struct {
	Role      Role      `json:"type"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// Message is a role-tagged message in a model invocation.
type Message struct {
	Role    string
	Content string
}

const (
	MessageRoleSystem    = "system"
	MessageRoleUser      = "user"
	MessageRoleAssistant = "assistant"
)

// ChatModel invokes the language model with an ordered message sequence and
// returns its text output.
type ChatModel interface {
	Invoke(ctx context.Context, messages []Message) (string, error)
}

// Embedder converts text into fixed-length numeric vectors. Results are
// deterministic for a given model identifier.
type Embedder interface {
	Model() string
	EmbedBatch(ctx context.Context, texts []string) ([][]float64, error)
}
