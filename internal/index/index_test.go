package index

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"logwhisper/internal/chunker"
	"logwhisper/internal/domain"
)

// fakeEmbedder derives tiny deterministic vectors from keyword hits and
// counts how many embedding calls were made.
type fakeEmbedder struct {
	calls int
	fail  bool
}

func (f *fakeEmbedder) Model() string { return "fake-embedding-model" }

func (f *fakeEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float64, error) {
	f.calls++
	if f.fail {
		return nil, assert.AnError
	}
	out := make([][]float64, len(texts))
	for i, text := range texts {
		lower := strings.ToLower(text)
		v := []float64{0, 0, 0}
		for j, kw := range []string{"error", "warn", "info"} {
			if strings.Contains(lower, kw) {
				v[j] = 1
			}
		}
		out[i] = v
	}
	return out, nil
}

func testDoc(t *testing.T, content string) domain.LogDocument {
	t.Helper()
	path := filepath.Join(t.TempDir(), "app.log")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	info, err := os.Stat(path)
	require.NoError(t, err)
	return domain.LogDocument{Path: path, Size: info.Size(), ModTime: info.ModTime(), Content: content}
}

func newManager(t *testing.T, emb domain.Embedder) (*Manager, string) {
	t.Helper()
	ch, err := chunker.New(20, 5)
	require.NoError(t, err)
	dir := t.TempDir()
	return NewManager(dir, ch, emb, 2), dir
}

func TestArtifactRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "abc.json")
	a := &Artifact{
		Schema:         1,
		Fingerprint:    "abc",
		EmbeddingModel: "fake-embedding-model",
		Dimension:      3,
		Chunks: []domain.Chunk{
			{Text: "INFO start", Start: 0, Source: "s"},
			{Text: "ERROR boom", Start: 11, Source: "s"},
		},
		Vectors: [][]float64{{0, 0, 1}, {1, 0, 0}},
	}
	require.NoError(t, WriteArtifact(path, a))

	got, err := ReadArtifact(path)
	require.NoError(t, err)
	assert.Equal(t, a, got)
}

func TestReadArtifact_RejectsMismatchedLengths(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"chunks":[{"text":"a","start":0,"source":"s"}],"vectors":[]}`), 0o644))
	_, err := ReadArtifact(path)
	assert.Error(t, err)
}

func TestLoadOrBuild_BuildsOncePerFingerprint(t *testing.T) {
	emb := &fakeEmbedder{}
	m, _ := newManager(t, emb)
	doc := testDoc(t, strings.Repeat("INFO tick\n", 12))

	first, err := m.LoadOrBuild(context.Background(), doc, false)
	require.NoError(t, err)
	assert.False(t, first.FromCache)
	assert.Positive(t, emb.calls)

	callsAfterBuild := emb.calls
	second, err := m.LoadOrBuild(context.Background(), doc, false)
	require.NoError(t, err)
	assert.True(t, second.FromCache)
	assert.Equal(t, callsAfterBuild, emb.calls, "cache hit must not embed again")
	assert.Equal(t, first.Artifact, second.Artifact)
}

func TestLoadOrBuild_ForceRebuildEmbedsAgain(t *testing.T) {
	emb := &fakeEmbedder{}
	m, _ := newManager(t, emb)
	doc := testDoc(t, strings.Repeat("WARN slow\n", 8))

	_, err := m.LoadOrBuild(context.Background(), doc, false)
	require.NoError(t, err)
	callsAfterBuild := emb.calls

	res, err := m.LoadOrBuild(context.Background(), doc, true)
	require.NoError(t, err)
	assert.False(t, res.FromCache)
	assert.Greater(t, emb.calls, callsAfterBuild)
}

func TestLoadOrBuild_CorruptArtifactIsRebuiltWithWarning(t *testing.T) {
	emb := &fakeEmbedder{}
	m, _ := newManager(t, emb)
	doc := testDoc(t, strings.Repeat("INFO tick\n", 6))

	_, err := m.LoadOrBuild(context.Background(), doc, false)
	require.NoError(t, err)
	path := m.ArtifactPath(m.Fingerprint(doc))
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	res, err := m.LoadOrBuild(context.Background(), doc, false)
	require.NoError(t, err)
	assert.False(t, res.FromCache)
	assert.NotEmpty(t, res.Warnings)
}

func TestLoadOrBuild_EmbeddingFailureIsRecoverable(t *testing.T) {
	emb := &fakeEmbedder{fail: true}
	m, dir := newManager(t, emb)
	doc := testDoc(t, "ERROR boom")

	_, err := m.LoadOrBuild(context.Background(), doc, false)
	require.Error(t, err)

	entries, readErr := os.ReadDir(dir)
	require.NoError(t, readErr)
	assert.Empty(t, entries, "no artifact must be persisted on a failed build")
}

func TestLoadOrBuild_DifferentMtimeIsDifferentArtifact(t *testing.T) {
	emb := &fakeEmbedder{}
	m, _ := newManager(t, emb)
	doc := testDoc(t, strings.Repeat("INFO tick\n", 6))

	_, err := m.LoadOrBuild(context.Background(), doc, false)
	require.NoError(t, err)

	touched := doc
	touched.ModTime = doc.ModTime.Add(time.Second)
	assert.NotEqual(t, m.Fingerprint(doc), m.Fingerprint(touched))

	res, err := m.LoadOrBuild(context.Background(), touched, false)
	require.NoError(t, err)
	assert.False(t, res.FromCache, "changed identity must be a cache miss, not a patch")

	count, _, err := m.Stats()
	require.NoError(t, err)
	assert.Equal(t, 2, count, "the stale artifact stays orphaned")
}

func TestSearcher_RanksByScoreWithStableTies(t *testing.T) {
	a := &Artifact{
		Chunks: []domain.Chunk{
			{Text: "first", Start: 0},
			{Text: "second", Start: 10},
			{Text: "third", Start: 20},
			{Text: "fourth", Start: 30},
		},
		Vectors: [][]float64{
			{0.5, 0},
			{1, 0},
			{0.5, 0},
			{0, 1},
		},
	}
	s, err := NewSearcher(a)
	require.NoError(t, err)

	results := s.Search([]float64{1, 0}, 3)
	require.Len(t, results, 3)
	assert.Equal(t, "second", results[0].Chunk.Text)
	// Tied scores keep original chunk order.
	assert.Equal(t, "first", results[1].Chunk.Text)
	assert.Equal(t, "third", results[2].Chunk.Text)
}

func TestSearcher_NonPositiveTopKUsesDefault(t *testing.T) {
	chunks := make([]domain.Chunk, 8)
	vectors := make([][]float64, 8)
	for i := range chunks {
		chunks[i] = domain.Chunk{Text: "line", Start: i * 10}
		vectors[i] = []float64{1}
	}
	s, err := NewSearcher(&Artifact{Chunks: chunks, Vectors: vectors})
	require.NoError(t, err)
	assert.Len(t, s.Search([]float64{1}, 0), 6)
}

func TestSearcher_TopKClampedToCorpus(t *testing.T) {
	a := &Artifact{
		Chunks:  []domain.Chunk{{Text: "only", Start: 0}},
		Vectors: [][]float64{{1}},
	}
	s, err := NewSearcher(a)
	require.NoError(t, err)
	assert.Len(t, s.Search([]float64{1}, 10), 1)
}
