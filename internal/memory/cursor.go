package memory

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Cursor persists the inquiry walk's resume point across restarts.
type Cursor struct {
	path string
	mu   sync.Mutex
}

// NewCursor creates a cursor persisted at path.
func NewCursor(path string) *Cursor {
	return &Cursor{path: path}
}

// Load returns the last persisted question, or fallback when no cursor has
// been written yet.
func (c *Cursor) Load(fallback string) string {
	c.mu.Lock()
	defer c.mu.Unlock()

	data, err := os.ReadFile(c.path)
	if err != nil {
		return fallback
	}
	var state struct {
		LastQuestion string `json:"last_question"`
	}
	if err := json.Unmarshal(data, &state); err != nil {
		return fallback
	}
	if q := strings.TrimSpace(state.LastQuestion); q != "" {
		return q
	}
	return fallback
}

// Save persists the current question.
func (c *Cursor) Save(question string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(c.path), 0755); err != nil {
		return fmt.Errorf("create cursor dir: %w", err)
	}
	data, err := json.MarshalIndent(map[string]string{"last_question": question}, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal cursor: %w", err)
	}
	return os.WriteFile(c.path, data, 0644)
}
