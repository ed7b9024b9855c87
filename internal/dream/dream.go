// Package dream implements memory consolidation: the dream cycle drains
// short-term reflections into the long-term archive, trains the responder on
// their pairs, harvests open questions and partitions the archive when it
// outgrows its limits.
package dream

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/Dream2Nightmare/brainbot/internal/agent"
	"github.com/Dream2Nightmare/brainbot/internal/reflection"
)

// tagLayout stamps each dream batch to the minute.
const tagLayout = "20060102_1504"

// Report summarizes one dream cycle.
type Report struct {
	Tag          string `json:"tag"`
	Consolidated int    `json:"consolidated"`
	PairsTrained int    `json:"pairs_trained"`
	Questions    int    `json:"questions"`
	Partitioned  bool   `json:"partitioned"`
}

// Engine runs dream cycles over a bot's stores.
type Engine struct {
	bot *agent.Bot
}

// NewEngine creates a dream engine.
func NewEngine(bot *agent.Bot) *Engine {
	return &Engine{bot: bot}
}

// Dream runs one consolidation cycle. An empty short-term store is a no-op:
// nothing is appended, trained or partitioned.
func (e *Engine) Dream(ctx context.Context) (Report, error) {
	_, span := otel.Tracer("brainbot").Start(ctx, "dream")
	defer span.End()

	batch := e.bot.ShortTerm().Drain()
	if len(batch) == 0 {
		slog.Info("dream skipped: no short-term memory")
		span.SetAttributes(attribute.Int("dream.consolidated", 0))
		return Report{}, nil
	}

	// Timestamps are fixed-width UTC, so lexicographic order is
	// chronological.
	sort.Slice(batch, func(i, j int) bool {
		return batch[i].Timestamp < batch[j].Timestamp
	})

	tag := fmt.Sprintf("dream_%s", time.Now().UTC().Format(tagLayout))
	glyphs := map[string]int{}
	emotions := map[string]int{}
	var pairs []reflection.Pair
	var questions []string

	for i := range batch {
		batch[i].MemoryTag = tag
		glyphs[batch[i].Glyph]++
		if batch[i].Emotion != "" {
			emotions[batch[i].Emotion]++
		}
		pairs = append(pairs, batch[i].TrainingPairs...)
		questions = append(questions, reflection.GenerateQuestions(batch[i].Preview)...)
	}
	slog.Info("dreaming", "tag", tag, "reflections", len(batch), "glyphs", glyphs, "emotions", emotions)

	trained := e.bot.Responder().TrainOnPairs(pairs)

	if err := e.bot.LongTerm().Append(batch); err != nil {
		return Report{}, fmt.Errorf("consolidate batch: %w", err)
	}
	if len(questions) > 0 {
		if err := e.bot.Questions().Append(questions); err != nil {
			slog.Warn("failed to harvest questions", "error", err)
		}
	}

	partitioned := false
	before := e.bot.LongTerm().SizeBytes()
	if err := e.bot.LongTerm().Partition(); err != nil {
		slog.Warn("partition failed", "error", err)
	} else if e.bot.LongTerm().SizeBytes() < before {
		partitioned = true
	}

	e.bot.Responder().Invalidate()

	report := Report{
		Tag:          tag,
		Consolidated: len(batch),
		PairsTrained: trained,
		Questions:    len(questions),
		Partitioned:  partitioned,
	}
	span.SetAttributes(
		attribute.Int("dream.consolidated", report.Consolidated),
		attribute.Int("dream.pairs", report.PairsTrained),
	)
	slog.Info("dream complete", "tag", tag, "consolidated", report.Consolidated, "pairs", report.PairsTrained, "questions", report.Questions)
	return report, nil
}
