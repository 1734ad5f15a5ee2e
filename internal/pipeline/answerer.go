// Package pipeline composes model invocations from retrieved log chunks,
// degrading to a direct call over recent history when no index is
// available.
package pipeline

import (
	"context"
	"fmt"
	"strings"

	"logwhisper/internal/domain"
	"logwhisper/internal/index"
)

// RetrieverState is the lifecycle of the lazily built retriever. Every
// call site handles all three outcomes.
type RetrieverState int

const (
	// RetrieverUninitialized means no index load or build has been
	// attempted yet. Priming is deferred to the first query so sessions
	// that never ask anything pay no indexing cost.
	RetrieverUninitialized RetrieverState = iota
	// RetrieverReady means an artifact is loaded and queries go through
	// similarity search.
	RetrieverReady
	// RetrieverUnavailable means the build or load failed; the pipeline
	// stays in direct mode for the rest of the session.
	RetrieverUnavailable
)

// Mode reports which answering path produced a response.
type Mode string

const (
	ModeRetrieval Mode = "retrieval"
	ModeDirect    Mode = "direct"
)

// Result is the outcome of one answered query. Warnings are surfaced by
// the caller; the pipeline itself never prints.
type Result struct {
	Text     string
	Mode     Mode
	Warnings []string
}

// Answerer answers queries about one log document.
type Answerer struct {
	model         domain.ChatModel
	embedder      domain.Embedder
	cache         *index.Manager
	doc           domain.LogDocument
	topK          int
	historyWindow int

	state    RetrieverState
	searcher *index.Searcher
}

// New creates an Answerer for the given document. The retriever is not
// primed until the first call to Answer.
func New(model domain.ChatModel, embedder domain.Embedder, cache *index.Manager, doc domain.LogDocument, topK, historyWindow int) *Answerer {
	if topK <= 0 {
		topK = 6
	}
	if historyWindow <= 0 {
		historyWindow = 10
	}
	return &Answerer{
		model:         model,
		embedder:      embedder,
		cache:         cache,
		doc:           doc,
		topK:          topK,
		historyWindow: historyWindow,
	}
}

// State returns the current retriever state.
func (a *Answerer) State() RetrieverState { return a.state }

// Answer responds to a query. With a ready retriever it embeds the query,
// fetches the top-k chunks, and composes a single model call from system
// instructions, the chunk context, and the query. Without one it falls
// back to a direct call over the last historyWindow conversation entries.
// Prompt size is bounded by the chunk budget either way, never by the size
// of the log.
func (a *Answerer) Answer(ctx context.Context, query string, history []domain.ConversationEntry) (Result, error) {
	warnings := a.prime(ctx)

	if a.state == RetrieverReady {
		res, err := a.retrievalAnswer(ctx, query)
		if err == nil {
			res.Warnings = append(warnings, res.Warnings...)
			return res, nil
		}
		// A failed query embedding is a per-turn condition, not a reason
		// to abandon the index: degrade this turn only.
		warnings = append(warnings, fmt.Sprintf("retrieval failed, answering from history: %v", err))
	}

	text, err := a.directAnswer(ctx, query, history)
	if err != nil {
		return Result{Warnings: warnings}, err
	}
	return Result{Text: text, Mode: ModeDirect, Warnings: warnings}, nil
}

// prime performs the one-time lazy transition out of
// RetrieverUninitialized.
func (a *Answerer) prime(ctx context.Context) []string {
	if a.state != RetrieverUninitialized {
		return nil
	}
	build, err := a.cache.LoadOrBuild(ctx, a.doc, false)
	if err != nil {
		a.state = RetrieverUnavailable
		return append(build.Warnings, fmt.Sprintf("index unavailable, falling back to direct answers: %v", err))
	}
	searcher, err := index.NewSearcher(build.Artifact)
	if err != nil {
		a.state = RetrieverUnavailable
		return append(build.Warnings, fmt.Sprintf("index unavailable, falling back to direct answers: %v", err))
	}
	a.searcher = searcher
	a.state = RetrieverReady
	return build.Warnings
}

func (a *Answerer) retrievalAnswer(ctx context.Context, query string) (Result, error) {
	vectors, err := a.embedder.EmbedBatch(ctx, []string{query})
	if err != nil {
		return Result{}, fmt.Errorf("embed query: %w", err)
	}
	if len(vectors) != 1 {
		return Result{}, fmt.Errorf("embed query: got %d vectors", len(vectors))
	}
	results := a.searcher.Search(vectors[0], a.topK)

	var excerpts strings.Builder
	for i, r := range results {
		if i > 0 {
			excerpts.WriteString("\n---\n")
		}
		excerpts.WriteString(r.Chunk.Text)
	}
	messages := []domain.Message{
		{Role: domain.MessageRoleSystem, Content: SystemPrompt(a.doc.Path) + "\n\nRELEVANT LOG EXCERPTS:\n```\n" + excerpts.String() + "\n```"},
		{Role: domain.MessageRoleUser, Content: query},
	}
	text, err := a.model.Invoke(ctx, messages)
	if err != nil {
		return Result{}, err
	}
	return Result{Text: text, Mode: ModeRetrieval}, nil
}

func (a *Answerer) directAnswer(ctx context.Context, query string, history []domain.ConversationEntry) (string, error) {
	messages := make([]domain.Message, 0, a.historyWindow+2)
	messages = append(messages, domain.Message{Role: domain.MessageRoleSystem, Content: SystemPrompt(a.doc.Path)})
	start := len(history) - a.historyWindow
	if start < 0 {
		start = 0
	}
	for _, e := range history[start:] {
		role := domain.MessageRoleUser
		if e.Role == domain.RoleAI {
			role = domain.MessageRoleAssistant
		}
		messages = append(messages, domain.Message{Role: role, Content: e.Content})
	}
	messages = append(messages, domain.Message{Role: domain.MessageRoleUser, Content: query})
	return a.model.Invoke(ctx, messages)
}

// SystemPrompt is the log-analyst instruction block sent with every model
// invocation.
func SystemPrompt(logPath string) string {
	return fmt.Sprintf(`You are an expert log analyst. You have been provided with excerpts from a log file to analyze.
Your job is to help the user understand the log content, identify issues, patterns, errors, and provide insights.

LOG FILE PATH: %s

Instructions:
- Analyze the provided log content thoroughly
- Provide clear, actionable insights
- Identify errors, warnings, and patterns
- Suggest solutions when possible
- Be concise but comprehensive
- If the user asks follow-up questions, maintain context from previous messages
- Focus on the most relevant information for the user's queries`, logPath)
}
