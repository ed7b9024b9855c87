package memory

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
)

// QuestionPool is the append-only list of raw question strings harvested
// from reflections. Entries are not deduplicated.
type QuestionPool struct {
	path string
	mu   sync.Mutex
}

// NewQuestionPool creates a question pool persisted at path.
func NewQuestionPool(path string) *QuestionPool {
	return &QuestionPool{path: path}
}

// Append adds questions to the pool. An empty batch is a no-op.
func (qp *QuestionPool) Append(questions []string) error {
	if len(questions) == 0 {
		return nil
	}

	qp.mu.Lock()
	defer qp.mu.Unlock()

	existing := qp.loadUnsafe()
	existing = append(existing, questions...)

	if err := os.MkdirAll(filepath.Dir(qp.path), 0755); err != nil {
		return fmt.Errorf("create questions dir: %w", err)
	}
	data, err := json.MarshalIndent(existing, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal questions: %w", err)
	}
	if err := os.WriteFile(qp.path, data, 0644); err != nil {
		return fmt.Errorf("write questions: %w", err)
	}

	slog.Info("appended questions to pool", "count", len(questions), "total", len(existing))
	return nil
}

// All returns every pooled question, in insertion order.
func (qp *QuestionPool) All() []string {
	qp.mu.Lock()
	defer qp.mu.Unlock()
	return qp.loadUnsafe()
}

// loadUnsafe tolerates both plain strings and objects with a "question"
// field, since older pools mixed the two shapes.
func (qp *QuestionPool) loadUnsafe() []string {
	data, err := os.ReadFile(qp.path)
	if err != nil {
		return nil
	}
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		slog.Warn("failed to parse question pool", "error", err)
		return nil
	}

	var out []string
	for _, item := range raw {
		var s string
		if err := json.Unmarshal(item, &s); err == nil {
			out = append(out, s)
			continue
		}
		var obj struct {
			Question string `json:"question"`
		}
		if err := json.Unmarshal(item, &obj); err == nil && obj.Question != "" {
			out = append(out, obj.Question)
		}
	}
	return out
}
