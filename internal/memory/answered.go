package memory

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// AnsweredEntry is one curated question/answer record. Next optionally
// points at the question the inquiry walk should ask after this one.
type AnsweredEntry struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
	Next     string `json:"next"`
}

// Answered is the permanent, append-only answered-question table.
type Answered struct {
	path string
	mu   sync.Mutex
}

// NewAnswered creates an answered-question table persisted at path.
func NewAnswered(path string) *Answered {
	return &Answered{path: path}
}

// Exists reports whether the table file is present on disk.
func (a *Answered) Exists() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	_, err := os.Stat(a.path)
	return err == nil
}

// Entries returns all records in stored order.
func (a *Answered) Entries() []AnsweredEntry {
	a.mu.Lock()
	defer a.mu.Unlock()

	data, err := os.ReadFile(a.path)
	if err != nil {
		return nil
	}
	var entries []AnsweredEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		slog.Warn("failed to parse answered questions", "error", err)
		return nil
	}
	return entries
}

// Append adds one answered question to the table.
func (a *Answered) Append(question, answer string) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	var entries []AnsweredEntry
	if data, err := os.ReadFile(a.path); err == nil {
		if err := json.Unmarshal(data, &entries); err != nil {
			slog.Warn("failed to parse answered questions, starting fresh", "error", err)
			entries = nil
		}
	}

	entries = append(entries, AnsweredEntry{
		Question: strings.TrimSpace(question),
		Answer:   strings.TrimSpace(answer),
	})

	if err := os.MkdirAll(filepath.Dir(a.path), 0755); err != nil {
		return fmt.Errorf("create permanent dir: %w", err)
	}
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal answered questions: %w", err)
	}
	if err := os.WriteFile(a.path, data, 0644); err != nil {
		return fmt.Errorf("write answered questions: %w", err)
	}

	slog.Info("appended answered question", "question", question)
	return nil
}
