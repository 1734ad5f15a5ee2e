package chunker

import (
	"crypto/sha1"
	"encoding/hex"
	"fmt"

	"logwhisper/internal/domain"
)

// Chunker splits log text into fixed-size chunks with byte overlap,
// recording the starting offset of every chunk.
type Chunker struct {
	chunkSize    int
	chunkOverlap int
}

// New creates a Chunker. Overlap must be strictly smaller than the chunk
// size or splitting would never advance past the first chunk.
func New(chunkSize, chunkOverlap int) (*Chunker, error) {
	if chunkSize <= 0 {
		return nil, fmt.Errorf("chunk size must be positive, got %d", chunkSize)
	}
	if chunkOverlap < 0 {
		return nil, fmt.Errorf("chunk overlap must not be negative, got %d", chunkOverlap)
	}
	if chunkOverlap >= chunkSize {
		return nil, fmt.Errorf("chunk overlap %d must be smaller than chunk size %d", chunkOverlap, chunkSize)
	}
	return &Chunker{chunkSize: chunkSize, chunkOverlap: chunkOverlap}, nil
}

// Params returns the configured chunk size and overlap.
func (c *Chunker) Params() (chunkSize, chunkOverlap int) {
	return c.chunkSize, c.chunkOverlap
}

// Split cuts the document content into chunks. Every byte of the input
// appears in at least one chunk and offsets are strictly increasing.
// Text shorter than the chunk size yields exactly one chunk at offset 0.
func (c *Chunker) Split(doc domain.LogDocument) []domain.Chunk {
	source := SourceID(doc.Path)
	text := doc.Content
	if len(text) <= c.chunkSize {
		return []domain.Chunk{{Text: text, Start: 0, Source: source}}
	}
	var chunks []domain.Chunk
	start := 0
	for {
		end := start + c.chunkSize
		if end >= len(text) {
			chunks = append(chunks, domain.Chunk{Text: text[start:], Start: start, Source: source})
			return chunks
		}
		chunks = append(chunks, domain.Chunk{Text: text[start:end], Start: start, Source: source})
		start = end - c.chunkOverlap
	}
}

// SourceID derives a short stable identifier for a log path.
func SourceID(path string) string {
	h := sha1.Sum([]byte(path))
	return hex.EncodeToString(h[:8])
}
