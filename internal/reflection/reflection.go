// Package reflection defines the record produced for every observed unit of
// content (a scanned file, a sensed input, or an autonomous utterance) and
// the heuristics that derive its metadata.
package reflection

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

// UnreadableMarker is stored as the preview when content is empty or binary.
const UnreadableMarker = "Unreadable or binary"

// PreviewLimit caps the number of preview characters (runes, not bytes) kept
// per reflection.
const PreviewLimit = 1000

// TimeLayout is the persisted timestamp format: fixed-width UTC so that
// lexicographic order equals chronological order.
const TimeLayout = "2006-01-02T15:04:05.000000Z"

// Now returns the current UTC time in the persisted layout.
func Now() string {
	return time.Now().UTC().Format(TimeLayout)
}

// Pair is one (input, output) training pair. It marshals as a two-element
// JSON array, which is the on-disk format for pairs.
type Pair [2]string

// Input returns the prompt side of the pair.
func (p Pair) Input() string { return p[0] }

// Output returns the response side of the pair.
func (p Pair) Output() string { return p[1] }

// Reflection is one observed unit of content. Emotion and Mood are optional
// first-match keyword annotations; absent values are omitted on disk.
type Reflection struct {
	Path               string   `json:"path"`
	Timestamp          string   `json:"timestamp"`
	Extension          string   `json:"extension"`
	SourceType         string   `json:"source_type"`
	Summary            string   `json:"summary"`
	Glyph              string   `json:"glyph"`
	Thoughts           string   `json:"thoughts"`
	Preview            string   `json:"preview"`
	Trained            bool     `json:"trained"`
	TrainingPairs      []Pair   `json:"training_pairs"`
	QuestionsGenerated int      `json:"questions_generated"`
	InvokedTools       []string `json:"invoked_tools"`
	MemoryTag          string   `json:"memory_tag"`
	Emotion            string   `json:"emotion,omitempty"`
	Mood               string   `json:"mood,omitempty"`
}

// Meta carries the caller-supplied metadata for a new reflection.
// Zero values fall back to scan defaults.
type Meta struct {
	Role          string
	Glyph         string
	Thoughts      string
	SourcePath    string
	Extension     string
	SourceType    string
	MemoryTag     string
	InvokedTools  []string
	TrainingPairs []Pair
	Questions     []string
}

// New builds a reflection from content and metadata. The path falls back to
// a synthesized role+timestamp id when no source path is given; synthesized
// ids are not guaranteed unique and collisions resolve last-write-wins.
func New(content string, meta Meta) Reflection {
	ts := Now()

	if meta.Role == "" {
		meta.Role = "scan"
	}
	if meta.Glyph == "" {
		meta.Glyph = "🔍"
	}
	if meta.Extension == "" {
		meta.Extension = ".txt"
	}
	if meta.SourceType == "" {
		meta.SourceType = "text"
	}
	if meta.MemoryTag == "" {
		meta.MemoryTag = "scan"
	}

	path := meta.SourcePath
	if path == "" {
		path = fmt.Sprintf("%s_%s", meta.Role, ts)
	}

	summary := AnalyzeContent(content)
	thoughts := meta.Thoughts
	if thoughts == "" {
		thoughts = summary
	}

	preview := UnreadableMarker
	if content != "" {
		preview = truncateRunes(content, PreviewLimit)
	}

	tools := meta.InvokedTools
	if tools == nil {
		tools = []string{}
	}
	pairs := meta.TrainingPairs
	if pairs == nil {
		pairs = []Pair{}
	}

	r := Reflection{
		Path:               path,
		Timestamp:          ts,
		Extension:          meta.Extension,
		SourceType:         meta.SourceType,
		Summary:            summary,
		Glyph:              meta.Glyph,
		Thoughts:           thoughts,
		Preview:            preview,
		Trained:            len(pairs) > 0,
		TrainingPairs:      pairs,
		QuestionsGenerated: len(meta.Questions),
		InvokedTools:       tools,
		MemoryTag:          meta.MemoryTag,
	}
	r.Annotate()
	return r
}

// AnalyzeContent summarizes content as word/line counts plus a truncated
// first-line preview.
func AnalyzeContent(content string) string {
	if content == "" {
		return "No readable content found."
	}
	trimmed := strings.TrimSpace(content)
	lines := strings.Split(trimmed, "\n")
	words := strings.Fields(trimmed)

	first := "No preview available."
	if len(lines) > 0 && lines[0] != "" {
		first = lines[0]
	}
	first = truncateRunes(first, 80)
	return fmt.Sprintf("%d words across %d lines. Preview: %s", len(words), len(lines), first)
}

// truncateRunes caps s at limit characters. The cut falls on a rune boundary
// so a multi-byte character is never split into invalid UTF-8.
func truncateRunes(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	runes := []rune(s)
	return string(runes[:limit])
}

// ExtractTrainingPairs splits each colon-bearing line into a (prompt,
// response) pair on the first colon. Lines with an empty side are dropped.
func ExtractTrainingPairs(content string) []Pair {
	var pairs []Pair
	for _, line := range strings.Split(strings.TrimSpace(content), "\n") {
		idx := strings.Index(line, ":")
		if idx < 0 {
			continue
		}
		input := strings.TrimSpace(line[:idx])
		output := strings.TrimSpace(line[idx+1:])
		if input != "" && output != "" {
			pairs = append(pairs, Pair{input, output})
		}
	}
	return pairs
}

// GenerateQuestions harvests short question lines (containing "?", under 200
// characters) from content.
func GenerateQuestions(content string) []string {
	var questions []string
	for _, line := range strings.Split(strings.TrimSpace(content), "\n") {
		if strings.Contains(line, "?") && len(line) < 200 {
			questions = append(questions, strings.TrimSpace(line))
		}
	}
	return questions
}
