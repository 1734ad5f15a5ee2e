package index

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"logwhisper/internal/domain"
)

// Artifact is the persisted, fingerprint-addressed bundle of chunk
// embeddings and metadata. It is created once per fingerprint and read-only
// afterwards; a changed log yields a new fingerprint and a new artifact.
type Artifact struct {
	Schema         int            `json:"schema"`
	Fingerprint    string         `json:"fingerprint"`
	EmbeddingModel string         `json:"embedding_model"`
	Dimension      int            `json:"dimension"`
	Chunks         []domain.Chunk `json:"chunks"`
	Vectors        [][]float64    `json:"vectors"`
}

// ReadArtifact loads an artifact from disk.
func ReadArtifact(path string) (*Artifact, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var a Artifact
	if err := json.Unmarshal(data, &a); err != nil {
		return nil, fmt.Errorf("decode artifact: %w", err)
	}
	if len(a.Chunks) != len(a.Vectors) {
		return nil, fmt.Errorf("corrupt artifact: %d chunks but %d vectors", len(a.Chunks), len(a.Vectors))
	}
	return &a, nil
}

// WriteArtifact persists an artifact atomically: it is written to a
// temporary file and renamed into place, so racing builders of the same
// fingerprint resolve to last-writer-wins with no torn files.
func WriteArtifact(path string, a *Artifact) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := json.Marshal(a)
	if err != nil {
		return fmt.Errorf("encode artifact: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return nil
}
