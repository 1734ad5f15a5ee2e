// Package summarizer produces the brief log overview shown in the chat
// banner at session start.
package summarizer

import (
	"math"
	"regexp"
	"sort"
	"strings"
)

// FrequencySummarizer ranks log lines by token frequency (stopwords
// filtered), boosting lines that carry error or warning markers.
type FrequencySummarizer struct {
	tokenPattern *regexp.Regexp
	stopwords    map[string]struct{}
}

// NewFrequencySummarizer creates a frequency-based line ranker.
func NewFrequencySummarizer() *FrequencySummarizer {
	return &FrequencySummarizer{
		tokenPattern: regexp.MustCompile(`\p{L}+(?:['’]\p{L}+)*`),
		stopwords:    defaultStopwords(),
	}
}

var severityBoost = map[string]float64{
	"fatal": 3.0,
	"error": 3.0,
	"panic": 3.0,
	"warn":  1.5,
}

// Summarize returns up to maxLines notable lines from the log, in their
// original order.
func (s *FrequencySummarizer) Summarize(text string, maxLines int) string {
	if maxLines <= 0 {
		maxLines = 3
	}
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) != "" {
			lines = append(lines, strings.TrimSpace(line))
		}
	}
	if len(lines) == 0 {
		return ""
	}
	// Token frequencies across the whole log
	freq := map[string]float64{}
	for _, line := range lines {
		for _, tok := range s.tokens(line) {
			if _, ok := s.stopwords[tok]; ok {
				continue
			}
			freq[tok]++
		}
	}
	maxF := 0.0
	for _, v := range freq {
		if v > maxF {
			maxF = v
		}
	}
	if maxF > 0 {
		for k, v := range freq {
			freq[k] = v / maxF
		}
	}
	type pair struct {
		idx   int
		score float64
	}
	scores := make([]pair, len(lines))
	for i, line := range lines {
		toks := s.tokens(line)
		lscore := 0.0
		boost := 1.0
		for _, tok := range toks {
			if v, ok := freq[tok]; ok {
				lscore += v
			}
			if b, ok := severityBoost[tok]; ok && b > boost {
				boost = b
			}
		}
		if l := float64(len(toks)); l > 0 {
			lscore /= math.Sqrt(l)
		}
		scores[i] = pair{i, lscore * boost}
	}
	sort.SliceStable(scores, func(i, j int) bool { return scores[i].score > scores[j].score })
	if maxLines > len(scores) {
		maxLines = len(scores)
	}
	selected := make([]int, maxLines)
	for i := 0; i < maxLines; i++ {
		selected[i] = scores[i].idx
	}
	sort.Ints(selected)
	var out []string
	for _, idx := range selected {
		out = append(out, lines[idx])
	}
	return strings.Join(out, "\n")
}

func (s *FrequencySummarizer) tokens(text string) []string {
	lower := strings.ToLower(text)
	return s.tokenPattern.FindAllString(lower, -1)
}

func defaultStopwords() map[string]struct{} {
	words := []string{
		"a", "an", "the", "and", "or", "but", "if", "then", "else", "for", "to", "of", "in", "on", "at", "by", "with", "as", "is", "are", "was", "were", "be", "been", "being", "it", "this", "that", "these", "those", "from", "up", "down", "over", "under", "again", "further", "than", "so", "such", "into", "about", "between", "through", "during", "before", "after", "above", "below", "out", "off", "own", "same", "too", "very", "can", "will", "just", "don", "should", "now",
	}
	m := make(map[string]struct{}, len(words))
	for _, w := range words {
		m[w] = struct{}{}
	}
	return m
}
