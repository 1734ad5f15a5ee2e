// Package conversation persists the ordered turn log for one chat session.
// The file is rewritten in full on every append (write-through), so an
// external reader always sees a consistent document as of the last
// completed turn.
package conversation

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"logwhisper/internal/domain"
)

// File is the on-disk session format: a timestamp, the source log path,
// and the ordered entry sequence.
type File struct {
	Timestamp time.Time                  `json:"timestamp"`
	LogFile   string                     `json:"log_file"`
	Entries   []domain.ConversationEntry `json:"conversation"`
}

// Store holds the in-memory entry sequence, the single source of truth for
// conversation history. The persisted file is a full snapshot of it, never
// an incremental append.
type Store struct {
	path    string
	logFile string
	entries []domain.ConversationEntry
}

// Open creates a store writing to path. If a file already exists there,
// its entries are loaded as the session history; a missing or corrupt file
// is non-fatal and reported as a warning, starting the session empty.
// An empty path disables persistence entirely.
func Open(path, logFile string) (*Store, []string) {
	s := &Store{path: path, logFile: logFile}
	if path == "" {
		return s, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return s, nil
		}
		return s, []string{fmt.Sprintf("could not load previous conversation: %v", err)}
	}
	var f File
	if err := json.Unmarshal(data, &f); err != nil {
		return s, []string{fmt.Sprintf("could not load previous conversation: %v", err)}
	}
	s.entries = f.Entries
	return s, nil
}

// Append adds an entry to the history and immediately persists the full
// session. A persist failure is returned as a warning: the entry stays in
// memory and the next successful persist captures it.
func (s *Store) Append(role domain.Role, content string) []string {
	s.entries = append(s.entries, domain.ConversationEntry{
		Role:      role,
		Content:   content,
		Timestamp: time.Now(),
	})
	return s.Persist()
}

// Persist writes the full session snapshot. Errors are reported as
// warnings; persistence failure never aborts the interactive loop.
func (s *Store) Persist() []string {
	if s.path == "" {
		return nil
	}
	entries := s.entries
	if entries == nil {
		// A session with no turns still writes a valid file with an
		// empty entry sequence.
		entries = []domain.ConversationEntry{}
	}
	f := File{
		Timestamp: time.Now(),
		LogFile:   s.logFile,
		Entries:   entries,
	}
	data, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return []string{fmt.Sprintf("could not save conversation: %v", err)}
	}
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return []string{fmt.Sprintf("could not save conversation: %v", err)}
		}
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return []string{fmt.Sprintf("could not save conversation: %v", err)}
	}
	return nil
}

// Entries returns the full ordered history.
func (s *Store) Entries() []domain.ConversationEntry {
	return s.entries
}

// Len returns the number of entries.
func (s *Store) Len() int { return len(s.entries) }
