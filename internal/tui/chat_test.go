package tui

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"logwhisper/internal/chunker"
	"logwhisper/internal/conversation"
	"logwhisper/internal/domain"
	"logwhisper/internal/index"
	"logwhisper/internal/pipeline"
	"logwhisper/internal/session"
)

type fakeEmbedder struct{}

func (f *fakeEmbedder) Model() string { return "fake-embedding-model" }

func (f *fakeEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float64, error) {
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

type fakeModel struct{ reply string }

func (f *fakeModel) Invoke(ctx context.Context, messages []domain.Message) (string, error) {
	return f.reply, nil
}

func testModel(t *testing.T, reply string) Model {
	t.Helper()
	doc := domain.LogDocument{
		Path:    "/var/log/app.log",
		Size:    38,
		ModTime: time.Unix(1700000000, 0),
		Content: "INFO start\nWARN be careful\nERROR boom\n",
	}
	ch, err := chunker.New(2000, 200)
	require.NoError(t, err)
	manager := index.NewManager(t.TempDir(), ch, &fakeEmbedder{}, 32)
	answerer := pipeline.New(&fakeModel{reply: reply}, &fakeEmbedder{}, manager, doc, 6, 10)
	store, warnings := conversation.Open(filepath.Join(t.TempDir(), "chat.json"), doc.Path)
	require.Empty(t, warnings)
	loop := session.New(doc, answerer, store, nil)
	return New(loop, "")
}

func TestSubmit_AppendsTurnToTranscript(t *testing.T) {
	m := testModel(t, "one ERROR line: boom")
	m.input.SetValue("what errors are present?")

	updated, cmd := m.submit()
	assert.Nil(t, cmd)
	got := updated.(Model)

	require.GreaterOrEqual(t, len(got.transcript), 3)
	assert.Contains(t, got.transcript[len(got.transcript)-2], "what errors are present?")
	assert.Contains(t, got.transcript[len(got.transcript)-1], "one ERROR line: boom")
	assert.Empty(t, got.input.Value(), "prompt clears after a turn")
}

func TestSubmit_EmptyInputDoesNothing(t *testing.T) {
	m := testModel(t, "unused")
	m.input.SetValue("   ")

	updated, cmd := m.submit()
	assert.Nil(t, cmd)
	got := updated.(Model)
	assert.Len(t, got.transcript, len(m.transcript))
}

func TestSubmit_TerminationTokenQuits(t *testing.T) {
	m := testModel(t, "unused")
	m.input.SetValue("quit")

	_, cmd := m.submit()
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}
