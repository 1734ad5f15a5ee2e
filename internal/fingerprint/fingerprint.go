// Package fingerprint derives the deterministic cache key addressing index
// artifacts. The key covers source identity and every pipeline parameter
// that affects artifact content, so any change forces a cache miss.
package fingerprint

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"
	"time"
)

// SchemaVersion is bumped whenever the artifact layout or the chunking and
// embedding pipeline changes incompatibly, invalidating all cached artifacts.
const SchemaVersion = 1

// Source identifies a log file by path, byte size, and modification time.
// Content is deliberately not hashed: path+size+mtime stands in for it.
type Source struct {
	Path    string
	Size    int64
	ModTime time.Time
}

// Params are the pipeline parameters baked into the cache key.
type Params struct {
	ChunkSize      int
	ChunkOverlap   int
	EmbeddingModel string
}

// New computes the fingerprint for a source and parameter set. The same
// inputs always produce the same key; changing any field changes it.
func New(src Source, p Params) string {
	fields := map[string]string{
		"path":            src.Path,
		"size":            fmt.Sprintf("%d", src.Size),
		"mtime":           fmt.Sprintf("%d", src.ModTime.UnixNano()),
		"chunk_size":      fmt.Sprintf("%d", p.ChunkSize),
		"chunk_overlap":   fmt.Sprintf("%d", p.ChunkOverlap),
		"embedding_model": p.EmbeddingModel,
		"schema":          fmt.Sprintf("%d", SchemaVersion),
	}
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var sb strings.Builder
	for _, k := range keys {
		sb.WriteString(k)
		sb.WriteByte('=')
		sb.WriteString(fields[k])
		sb.WriteByte('\n')
	}
	sum := sha256.Sum256([]byte(sb.String()))
	return hex.EncodeToString(sum[:])
}
