// Package memory owns every persisted store of the agent: the ephemeral
// short-term reflection directory, the chunked long-term archive, the
// seen-path set, the question pool, the permanent answered-question table and
// the inquiry cursor. Each store is a single owning component that serializes
// access with a mutex; the transaction unit is a whole-file
// read-modify-write. Writes are not atomic across processes — a concurrent
// writer from another process can lose updates. That is accepted for a
// single-user local agent.
package memory

import (
	"fmt"
	"os"
	"path/filepath"
)

// Layout holds the on-disk locations of every store under a base directory.
type Layout struct {
	Base          string
	ShortTermDir  string
	LongTermPath  string
	AnsweredPath  string
	SeenPath      string
	QuestionsPath string
	CursorPath    string
}

// NewLayout computes the standard store layout rooted at base.
func NewLayout(base string) Layout {
	return Layout{
		Base:          base,
		ShortTermDir:  filepath.Join(base, "memory", "shortterm"),
		LongTermPath:  filepath.Join(base, "memory", "longterm", "longterm.json"),
		AnsweredPath:  filepath.Join(base, "memory", "longterm", "permanent", "answeredquestions.json"),
		SeenPath:      filepath.Join(base, "memory", "longterm", "seen_paths.json"),
		QuestionsPath: filepath.Join(base, "memory", "questions", "questions.json"),
		CursorPath:    filepath.Join(base, "memory", "questions", "last_inquiry.json"),
	}
}

// Ensure creates every store directory.
func (l Layout) Ensure() error {
	dirs := []string{
		l.ShortTermDir,
		filepath.Dir(l.LongTermPath),
		filepath.Dir(l.AnsweredPath),
		filepath.Dir(l.QuestionsPath),
		filepath.Dir(l.CursorPath),
	}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}
	return nil
}
