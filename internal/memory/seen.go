package memory

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
)

// SeenSet tracks absolute file paths that have already been reflected, so a
// scan never ingests the same path twice. Membership is an exact string
// test: no case folding, no separator normalization, and no content-change
// detection (a re-edited file is never re-scanned). Both are deliberate
// ingest-once semantics carried over from the original design.
type SeenSet struct {
	path string
	mu   sync.Mutex
	set  map[string]struct{}
}

// NewSeenSet loads the persisted set from path, starting empty when the file
// is absent or unreadable.
func NewSeenSet(path string) *SeenSet {
	s := &SeenSet{path: path, set: make(map[string]struct{})}

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			slog.Warn("failed to load seen paths", "error", err)
		}
		return s
	}
	var paths []string
	if err := json.Unmarshal(data, &paths); err != nil {
		slog.Warn("failed to parse seen paths", "error", err)
		return s
	}
	for _, p := range paths {
		s.set[p] = struct{}{}
	}
	return s
}

// Contains reports whether path has been reflected before.
func (s *SeenSet) Contains(path string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.set[path]
	return ok
}

// Add marks a path as reflected. The set is persisted separately via Save.
func (s *SeenSet) Add(path string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.set[path] = struct{}{}
}

// Len returns the number of tracked paths.
func (s *SeenSet) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.set)
}

// Save persists the whole set as a flat JSON list.
func (s *SeenSet) Save() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	paths := make([]string, 0, len(s.set))
	for p := range s.set {
		paths = append(paths, p)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("create seen dir: %w", err)
	}
	data, err := json.MarshalIndent(paths, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal seen paths: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0644); err != nil {
		return fmt.Errorf("write seen paths: %w", err)
	}

	slog.Info("saved seen paths", "count", len(paths))
	return nil
}
