// Package inquiry implements the self-directed question walk: starting from
// the persisted current question, the agent repeatedly looks up its answer
// in the permanent answered-question table and follows either an embedded
// {term} placeholder or the entry's explicit next pointer.
package inquiry

import (
	"log/slog"
	"strings"

	"github.com/Dream2Nightmare/brainbot/internal/memory"
	"github.com/Dream2Nightmare/brainbot/internal/respond"
)

// DefaultQuestion seeds the walk when no cursor has ever been persisted.
const DefaultQuestion = "what is 0?"

// Walker advances through the answered-question graph. The visited set is
// rebuilt on every walk, so any cycle in the answer graph terminates the
// walk after each node is asked once.
type Walker struct {
	answered *memory.Answered
	cursor   *memory.Cursor
}

// NewWalker creates a walker over the permanent table and resume cursor.
func NewWalker(answered *memory.Answered, cursor *memory.Cursor) *Walker {
	return &Walker{answered: answered, cursor: cursor}
}

// Walk runs one inquiry walk to termination and returns the questions asked
// in order. The cursor is persisted before each lookup so a restart resumes
// from the question that was in flight.
func (w *Walker) Walk() []string {
	if !w.answered.Exists() {
		slog.Warn("no permanent memory found")
		return nil
	}

	current := w.cursor.Load(DefaultQuestion)
	entries := w.answered.Entries()

	visited := make(map[string]struct{})
	var asked []string

	for current != "" {
		if _, seen := visited[current]; seen {
			slog.Info("inquiry walk closed a cycle", "question", current)
			break
		}
		visited[current] = struct{}{}
		asked = append(asked, current)

		slog.Info("inquiry asks", "question", current)
		if err := w.cursor.Save(current); err != nil {
			slog.Warn("failed to persist inquiry cursor", "error", err)
		}

		folded := respond.Fold(respond.Normalize(current))
		entry, ok := lookup(entries, folded)
		if !ok {
			slog.Info("no answer found", "question", current)
			break
		}

		answer := strings.TrimSpace(entry.Answer)
		slog.Info("inquiry answer", "answer", answer)

		if term, ok := embeddedTerm(answer); ok {
			current = "what is " + term
		} else {
			current = strings.TrimSpace(entry.Next)
		}
	}

	return asked
}

// lookup finds the first entry whose folded question equals the folded
// current question.
func lookup(entries []memory.AnsweredEntry, folded string) (memory.AnsweredEntry, bool) {
	for _, e := range entries {
		if respond.Fold(respond.Normalize(e.Question)) == folded {
			return e, true
		}
	}
	return memory.AnsweredEntry{}, false
}

// embeddedTerm extracts the follow-up term from a "{term}" placeholder.
// Both braces must be present; the term runs from the first "{" to the next
// "}" after it, or to the end of the answer when the braces are inverted.
func embeddedTerm(answer string) (string, bool) {
	if !strings.Contains(answer, "{") || !strings.Contains(answer, "}") {
		return "", false
	}
	rest := answer[strings.Index(answer, "{")+1:]
	if j := strings.Index(rest, "}"); j >= 0 {
		rest = rest[:j]
	}
	return strings.TrimSpace(rest), true
}
