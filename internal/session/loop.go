// Package session drives the turn-by-turn chat loop state machine over the
// answering pipeline and the conversation store.
package session

import (
	"context"
	"log/slog"
	"strings"

	"logwhisper/internal/conversation"
	"logwhisper/internal/domain"
	"logwhisper/internal/pipeline"
)

// State is the lifecycle of a chat session.
type State int

const (
	StateStarting State = iota
	StateReady
	StateAwaitingInput
	StateProcessing
	StateTerminating
)

// Termination tokens recognized at the prompt. Matching is
// case-insensitive.
var terminationTokens = map[string]struct{}{
	"quit": {},
	"exit": {},
}

// IsTerminationToken reports whether input is a recognized termination
// command.
func IsTerminationToken(input string) bool {
	_, ok := terminationTokens[strings.ToLower(strings.TrimSpace(input))]
	return ok
}

// TurnResult is the outcome of processing one line of user input.
type TurnResult struct {
	// Answer is the model's text, empty for skipped or terminated turns.
	Answer string
	// Mode reports which answering path was used.
	Mode pipeline.Mode
	// Warnings are non-fatal conditions to surface to the user.
	Warnings []string
	// Skipped is set for empty input: no state change, no persistence.
	Skipped bool
	// Terminated is set when input was a termination command.
	Terminated bool
}

// Loop owns one conversation session. It is single-threaded: turns are
// strictly sequential and the loop blocks on model and persistence I/O.
type Loop struct {
	doc      domain.LogDocument
	answerer *pipeline.Answerer
	store    *conversation.Store
	log      *slog.Logger
	state    State
}

// New assembles a loop. The caller has already loaded the document and
// initialized the model capability, so the session moves straight to
// Ready; retrieval priming stays lazy inside the pipeline.
func New(doc domain.LogDocument, answerer *pipeline.Answerer, store *conversation.Store, log *slog.Logger) *Loop {
	if log == nil {
		log = slog.Default()
	}
	l := &Loop{doc: doc, answerer: answerer, store: store, log: log, state: StateStarting}
	l.state = StateReady
	return l
}

// State returns the current loop state.
func (l *Loop) State() State { return l.state }

// Document returns the log document this session analyzes.
func (l *Loop) Document() domain.LogDocument { return l.doc }

// History returns the full conversation history.
func (l *Loop) History() []domain.ConversationEntry { return l.store.Entries() }

// Process handles one line of user input. Empty input is a no-op. A
// termination token moves the loop to Terminating after a final persist.
// An answering error drops the turn without persisting anything; the
// session continues. On success both entries of the turn are appended and
// written through before the result is returned.
func (l *Loop) Process(ctx context.Context, input string) (TurnResult, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return TurnResult{Skipped: true}, nil
	}
	if IsTerminationToken(input) {
		warnings := l.Close()
		return TurnResult{Terminated: true, Warnings: warnings}, nil
	}

	l.state = StateProcessing
	res, err := l.answerer.Answer(ctx, input, l.store.Entries())
	if err != nil {
		// The turn is dropped, not persisted; a single failed
		// invocation never ends the session.
		l.state = StateAwaitingInput
		l.log.Warn("turn failed", "error", err)
		return TurnResult{Warnings: res.Warnings}, err
	}

	warnings := res.Warnings
	warnings = append(warnings, l.store.Append(domain.RoleHuman, input)...)
	warnings = append(warnings, l.store.Append(domain.RoleAI, res.Text)...)
	l.state = StateAwaitingInput
	return TurnResult{Answer: res.Text, Mode: res.Mode, Warnings: warnings}, nil
}

// Close performs the final persist and moves the loop to Terminating.
// Every exit path must call it; it is idempotent.
func (l *Loop) Close() []string {
	if l.state == StateTerminating {
		return nil
	}
	l.state = StateTerminating
	return l.store.Persist()
}
