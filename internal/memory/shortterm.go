package memory

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/oklog/ulid/v2"

	"github.com/Dream2Nightmare/brainbot/internal/reflection"
)

// ShortTerm is the ephemeral one-file-per-reflection holding area. Files are
// written by the reflection builder and consumed exactly once by the dream
// cycle.
type ShortTerm struct {
	dir string
	mu  sync.Mutex
}

// NewShortTerm creates a short-term store rooted at dir.
func NewShortTerm(dir string) *ShortTerm {
	return &ShortTerm{dir: dir}
}

// Put writes one reflection to its own file. A write failure is returned to
// the caller, who logs and drops the reflection; short-term memory is
// advisory, not transactional.
func (st *ShortTerm) Put(r reflection.Reflection) error {
	st.mu.Lock()
	defer st.mu.Unlock()

	if err := os.MkdirAll(st.dir, 0755); err != nil {
		return fmt.Errorf("create shortterm dir: %w", err)
	}

	name := fmt.Sprintf("reflection_%s.json", ulid.Make().String())
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal reflection: %w", err)
	}
	if err := os.WriteFile(filepath.Join(st.dir, name), data, 0644); err != nil {
		return fmt.Errorf("write reflection: %w", err)
	}

	slog.Info("stored shortterm reflection", "file", name, "path", r.Path)
	return nil
}

// Drain reads and deletes every reflection file, returning the batch.
// Each file is deleted immediately after a successful read, so consumption
// is at-most-once: a crash mid-drain can lose a reflection. A file that
// fails to read or parse is skipped and left behind; the rest of the batch
// still drains.
func (st *ShortTerm) Drain() []reflection.Reflection {
	st.mu.Lock()
	defer st.mu.Unlock()

	matches, err := filepath.Glob(filepath.Join(st.dir, "reflection_*.json"))
	if err != nil {
		slog.Warn("shortterm glob failed", "error", err)
		return nil
	}

	var batch []reflection.Reflection
	for _, path := range matches {
		data, err := os.ReadFile(path)
		if err != nil {
			slog.Warn("failed to read shortterm file", "file", filepath.Base(path), "error", err)
			continue
		}
		var r reflection.Reflection
		if err := json.Unmarshal(data, &r); err != nil {
			slog.Warn("failed to parse shortterm file", "file", filepath.Base(path), "error", err)
			continue
		}
		batch = append(batch, r)
		if err := os.Remove(path); err != nil {
			slog.Warn("failed to delete shortterm file", "file", filepath.Base(path), "error", err)
		}
	}
	return batch
}

// Count returns the number of reflections currently held.
func (st *ShortTerm) Count() int {
	st.mu.Lock()
	defer st.mu.Unlock()

	matches, err := filepath.Glob(filepath.Join(st.dir, "reflection_*.json"))
	if err != nil {
		return 0
	}
	return len(matches)
}
