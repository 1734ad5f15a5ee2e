package summarizer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSummarize_PrefersSeverityLines(t *testing.T) {
	s := NewFrequencySummarizer()
	log := strings.Join([]string{
		"INFO server listening on :8080",
		"INFO request handled in 12ms",
		"ERROR database connection refused",
		"INFO request handled in 9ms",
		"WARN retrying database connection",
	}, "\n")

	out := s.Summarize(log, 2)
	assert.Contains(t, out, "ERROR database connection refused")
	lines := strings.Split(out, "\n")
	assert.Len(t, lines, 2)
}

func TestSummarize_KeepsOriginalOrder(t *testing.T) {
	s := NewFrequencySummarizer()
	log := "ERROR first failure\nINFO noise\nERROR second failure\n"
	out := s.Summarize(log, 2)
	first := strings.Index(out, "first failure")
	second := strings.Index(out, "second failure")
	assert.GreaterOrEqual(t, first, 0)
	assert.Greater(t, second, first)
}

func TestSummarize_EmptyInput(t *testing.T) {
	s := NewFrequencySummarizer()
	assert.Equal(t, "", s.Summarize("   \n \n", 3))
}

func TestSummarize_FewerLinesThanRequested(t *testing.T) {
	s := NewFrequencySummarizer()
	out := s.Summarize("only one line here", 5)
	assert.Equal(t, "only one line here", out)
}
