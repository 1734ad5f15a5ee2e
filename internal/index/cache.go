package index

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"logwhisper/internal/chunker"
	"logwhisper/internal/domain"
	"logwhisper/internal/fingerprint"
)

// Manager maps a fingerprint to an on-disk artifact: it loads on a cache
// hit and chunks, embeds, and persists on a miss. Building is the expensive
// path; loading is local deserialization.
type Manager struct {
	dir       string
	chunker   *chunker.Chunker
	embedder  domain.Embedder
	batchSize int
}

// BuildResult reports how an artifact was obtained. Warnings carry
// non-fatal conditions (corrupt cache entry, persist failure) for the
// caller to surface; the components themselves never print.
type BuildResult struct {
	Artifact  *Artifact
	FromCache bool
	Warnings  []string
}

// NewManager creates a cache manager rooted at dir.
func NewManager(dir string, ch *chunker.Chunker, embedder domain.Embedder, batchSize int) *Manager {
	if batchSize <= 0 {
		batchSize = 32
	}
	return &Manager{dir: dir, chunker: ch, embedder: embedder, batchSize: batchSize}
}

// Fingerprint computes the cache key for a document under this manager's
// chunking parameters and embedding model.
func (m *Manager) Fingerprint(doc domain.LogDocument) string {
	size, overlap := m.chunker.Params()
	return fingerprint.New(
		fingerprint.Source{Path: doc.Path, Size: doc.Size, ModTime: doc.ModTime},
		fingerprint.Params{ChunkSize: size, ChunkOverlap: overlap, EmbeddingModel: m.embedder.Model()},
	)
}

// ArtifactPath returns the storage location for a fingerprint.
func (m *Manager) ArtifactPath(fp string) string {
	return filepath.Join(m.dir, fp+".json")
}

// LoadOrBuild returns the artifact for the document, reusing the cached
// copy when present unless forceRebuild is set. Any failure is returned as
// an error the caller can recover from by answering without retrieval.
func (m *Manager) LoadOrBuild(ctx context.Context, doc domain.LogDocument, forceRebuild bool) (BuildResult, error) {
	fp := m.Fingerprint(doc)
	path := m.ArtifactPath(fp)

	var warnings []string
	if !forceRebuild {
		a, err := ReadArtifact(path)
		if err == nil {
			return BuildResult{Artifact: a, FromCache: true}, nil
		}
		if !isNotExist(err) {
			warnings = append(warnings, fmt.Sprintf("discarding unreadable index artifact %s: %v", path, err))
		}
	}

	a, err := m.build(ctx, doc, fp)
	if err != nil {
		return BuildResult{Warnings: warnings}, err
	}
	if err := WriteArtifact(path, a); err != nil {
		// The artifact is still usable in memory for this session; the
		// next session will simply rebuild.
		warnings = append(warnings, fmt.Sprintf("could not persist index artifact %s: %v", path, err))
	}
	return BuildResult{Artifact: a, Warnings: warnings}, nil
}

// Stats reports the number of artifacts in the cache directory and their
// total size in bytes. A missing directory counts as an empty cache.
func (m *Manager) Stats() (count int, bytes int64, err error) {
	entries, err := os.ReadDir(m.dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return 0, 0, nil
		}
		return 0, 0, err
	}
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		count++
		bytes += info.Size()
	}
	return count, bytes, nil
}

func isNotExist(err error) bool { return errors.Is(err, os.ErrNotExist) }

func (m *Manager) build(ctx context.Context, doc domain.LogDocument, fp string) (*Artifact, error) {
	chunks := m.chunker.Split(doc)
	vectors := make([][]float64, 0, len(chunks))
	for start := 0; start < len(chunks); start += m.batchSize {
		end := start + m.batchSize
		if end > len(chunks) {
			end = len(chunks)
		}
		texts := make([]string, 0, end-start)
		for _, ch := range chunks[start:end] {
			texts = append(texts, ch.Text)
		}
		batch, err := m.embedder.EmbedBatch(ctx, texts)
		if err != nil {
			return nil, fmt.Errorf("embed chunks %d-%d: %w", start, end-1, err)
		}
		if len(batch) != end-start {
			return nil, fmt.Errorf("embedding result size mismatch: got %d, want %d", len(batch), end-start)
		}
		vectors = append(vectors, batch...)
	}
	dimension := 0
	if len(vectors) > 0 {
		dimension = len(vectors[0])
	}
	return &Artifact{
		Schema:         fingerprint.SchemaVersion,
		Fingerprint:    fp,
		EmbeddingModel: m.embedder.Model(),
		Dimension:      dimension,
		Chunks:         chunks,
		Vectors:        vectors,
	}, nil
}
