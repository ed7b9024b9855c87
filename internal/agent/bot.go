// Package agent wires the stores, the extractor and the responder into one
// Bot. The Bot is the single owner of the memory layout; every other service
// (scanner, dreamer, craving loop, gateway) acts through it.
package agent

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Dream2Nightmare/brainbot/internal/bus"
	"github.com/Dream2Nightmare/brainbot/internal/extract"
	"github.com/Dream2Nightmare/brainbot/internal/memory"
	"github.com/Dream2Nightmare/brainbot/internal/reflection"
	"github.com/Dream2Nightmare/brainbot/internal/respond"
)

// Bot owns every persistent store and the retrieval responder.
type Bot struct {
	layout    memory.Layout
	shortTerm *memory.ShortTerm
	longTerm  *memory.LongTerm
	seen      *memory.SeenSet
	pool      *memory.QuestionPool
	answered  *memory.Answered
	cursor    *memory.Cursor
	extractor *extract.Extractor
	responder *respond.Responder
	events    *bus.Bus

	training atomic.Bool

	mu        sync.Mutex
	lastSpoke time.Time
}

// New builds a Bot over the store layout rooted at base. The store
// directories are created up front so that every later write can assume
// they exist.
func New(base string, extractor *extract.Extractor, events *bus.Bus) (*Bot, error) {
	layout := memory.NewLayout(base)
	if err := layout.Ensure(); err != nil {
		return nil, fmt.Errorf("ensure memory layout: %w", err)
	}

	if extractor == nil {
		extractor = &extract.Extractor{}
	}
	if events == nil {
		events = bus.New()
	}

	b := &Bot{
		layout:    layout,
		shortTerm: memory.NewShortTerm(layout.ShortTermDir),
		longTerm:  memory.NewLongTerm(layout.LongTermPath),
		seen:      memory.NewSeenSet(layout.SeenPath),
		pool:      memory.NewQuestionPool(layout.QuestionsPath),
		answered:  memory.NewAnswered(layout.AnsweredPath),
		cursor:    memory.NewCursor(layout.CursorPath),
		extractor: extractor,
		events:    events,
		lastSpoke: time.Now(),
	}
	b.responder = respond.NewResponder(b.loadCorpus)
	return b, nil
}

// loadCorpus merges long-term memory (main file plus chunks) with the
// permanent directory, which holds the answered-question table alongside any
// curated reflection files.
func (b *Bot) loadCorpus() []reflection.Reflection {
	corpus := b.longTerm.ReadAll()
	permanent := memory.ReadReflectionDir(filepath.Dir(b.layout.AnsweredPath))
	return append(corpus, permanent...)
}

// StoreReflection builds a reflection from content and metadata and writes it
// to short-term memory. A write failure is logged and the reflection dropped.
func (b *Bot) StoreReflection(content string, meta reflection.Meta) reflection.Reflection {
	r := reflection.New(content, meta)
	if err := b.shortTerm.Put(r); err != nil {
		slog.Error("failed to store reflection", "path", r.Path, "error", err)
	}
	b.events.Publish(bus.EventReflection, meta.Role, r.Summary)
	return r
}

// ReflectFile ingests one file: extract its text, derive training pairs and
// questions, register the pairs, store the reflection and mark the path
// seen. A path that yields no readable text is skipped entirely, left
// unseen so a later cycle retries it once a reader is available. Returns
// whether the file was ingested.
func (b *Bot) ReflectFile(ctx context.Context, path string) bool {
	content := b.extractor.Extract(ctx, path)
	if content.Text == "" {
		slog.Debug("no readable content, leaving for retry", "path", path)
		return false
	}

	pairs := reflection.ExtractTrainingPairs(content.Text)
	questions := reflection.GenerateQuestions(content.Text)
	b.responder.TrainOnPairs(pairs)

	b.StoreReflection(content.Text, reflection.Meta{
		Role:          "scan",
		Glyph:         "🔍",
		SourcePath:    path,
		Extension:     strings.ToLower(filepath.Ext(path)),
		SourceType:    content.SourceType,
		MemoryTag:     "idle",
		InvokedTools:  content.Tools,
		TrainingPairs: pairs,
		Questions:     questions,
	})
	b.seen.Add(path)
	return true
}

// Respond answers a user query and records the exchange as a conversation
// reflection.
func (b *Bot) Respond(ctx context.Context, input string) string {
	answer := b.responder.Respond(ctx, input)

	b.mu.Lock()
	b.lastSpoke = time.Now()
	b.mu.Unlock()

	b.StoreReflection(fmt.Sprintf("Q: %s\nA: %s", input, answer), reflection.Meta{
		Role:       "chat",
		Glyph:      "💬",
		Thoughts:   "Conversation exchange",
		SourceType: "conversation",
		MemoryTag:  "chat",
	})
	b.events.Publish(bus.EventChat, "bot", answer)
	return answer
}

// SayAutonomous emits an unprompted utterance and records it.
func (b *Bot) SayAutonomous(text string) {
	b.mu.Lock()
	b.lastSpoke = time.Now()
	b.mu.Unlock()

	slog.Info("autonomous speech", "text", text)
	b.StoreReflection(text, reflection.Meta{
		Role:       "bot",
		Glyph:      "🧠",
		Thoughts:   "Autonomous speech",
		SourceType: "autonomous",
		MemoryTag:  "craving",
	})
	b.events.Publish(bus.EventChat, "bot", text)
}

// LastSpoke returns the time of the most recent utterance, prompted or not.
func (b *Bot) LastSpoke() time.Time {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.lastSpoke
}

// IsTraining reports whether a training ritual is in progress. The idle
// scanner skips its cycle while this holds.
func (b *Bot) IsTraining() bool {
	return b.training.Load()
}

// TrainFolder runs the training ritual over every known-extension file in
// dir, storing each as a training-tagged reflection. Returns the number of
// files ingested.
func (b *Bot) TrainFolder(ctx context.Context, dir string) (int, error) {
	if !b.training.CompareAndSwap(false, true) {
		return 0, fmt.Errorf("training already in progress")
	}
	defer b.training.Store(false)

	slog.Info("training ritual started", "dir", dir)
	ingested := 0

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			slog.Warn("training walk error", "path", path, "error", err)
			return nil
		}
		if d.IsDir() {
			return nil
		}
		ext := strings.ToLower(filepath.Ext(path))
		if !extract.Known(ext) {
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}

		content := b.extractor.Extract(ctx, path)
		if content.Text == "" {
			slog.Debug("no readable content in training file", "path", path)
			return nil
		}
		pairs := reflection.ExtractTrainingPairs(content.Text)
		questions := reflection.GenerateQuestions(content.Text)
		b.responder.TrainOnPairs(pairs)

		b.StoreReflection(content.Text, reflection.Meta{
			Role:          "training",
			Glyph:         "🔥",
			SourcePath:    path,
			Extension:     ext,
			SourceType:    content.SourceType,
			MemoryTag:     "training",
			InvokedTools:  content.Tools,
			TrainingPairs: pairs,
			Questions:     questions,
		})
		b.seen.Add(path)
		ingested++
		return nil
	})
	if err != nil {
		return ingested, fmt.Errorf("walk training dir: %w", err)
	}

	if err := b.seen.Save(); err != nil {
		slog.Warn("failed to save seen paths", "error", err)
	}
	slog.Info("training ritual finished", "dir", dir, "files", ingested)
	return ingested, nil
}

// Status is a point-in-time snapshot of the agent's memory state.
type Status struct {
	ShortTermCount int       `json:"shortterm_count"`
	LongTermBytes  int64     `json:"longterm_bytes"`
	SeenPaths      int       `json:"seen_paths"`
	TrainedPairs   int       `json:"trained_pairs"`
	Questions      int       `json:"questions"`
	Training       bool      `json:"training"`
	LastSpoke      time.Time `json:"last_spoke"`
}

// Status reports the current memory state.
func (b *Bot) Status() Status {
	return Status{
		ShortTermCount: b.shortTerm.Count(),
		LongTermBytes:  b.longTerm.SizeBytes(),
		SeenPaths:      b.seen.Len(),
		TrainedPairs:   b.responder.TrainedPairs(),
		Questions:      len(b.pool.All()),
		Training:       b.IsTraining(),
		LastSpoke:      b.LastSpoke(),
	}
}

// Accessors for the services built around the bot.

func (b *Bot) Layout() memory.Layout           { return b.layout }
func (b *Bot) ShortTerm() *memory.ShortTerm    { return b.shortTerm }
func (b *Bot) LongTerm() *memory.LongTerm      { return b.longTerm }
func (b *Bot) Seen() *memory.SeenSet           { return b.seen }
func (b *Bot) Questions() *memory.QuestionPool { return b.pool }
func (b *Bot) Answered() *memory.Answered      { return b.answered }
func (b *Bot) InquiryCursor() *memory.Cursor   { return b.cursor }
func (b *Bot) Responder() *respond.Responder   { return b.responder }
func (b *Bot) Events() *bus.Bus                { return b.events }
