// Package autonomy runs the craving loop: a low-probability background urge
// to speak unprompted or to seek something outside the agent's own memory.
package autonomy

import (
	"context"
	"log/slog"
	"math/rand"
	"sync"
	"time"

	"github.com/Dream2Nightmare/brainbot/internal/agent"
	"github.com/Dream2Nightmare/brainbot/internal/bus"
	"github.com/Dream2Nightmare/brainbot/internal/inquiry"
	"github.com/Dream2Nightmare/brainbot/internal/reflection"
	"github.com/Dream2Nightmare/brainbot/internal/respond"
	"github.com/Dream2Nightmare/brainbot/internal/seeker"
)

const (
	tickInterval  = 10 * time.Second
	errorBackoff  = 15 * time.Second
	silenceWindow = 90 * time.Second

	speakProbability = 0.1
	seekProbability  = 0.02
)

// Service is the craving loop. The seeker collaborator may be nil, which
// disables the seek urge.
type Service struct {
	bot    *agent.Bot
	seeker seeker.Seeker
	rng    *rand.Rand

	mu      sync.Mutex
	running bool
	cancel  context.CancelFunc
}

// NewService creates the craving loop over a bot.
func NewService(bot *agent.Bot, sk seeker.Seeker) *Service {
	return &Service{
		bot:    bot,
		seeker: sk,
		rng:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Start begins the craving loop in a background goroutine.
func (s *Service) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.running = true

	go s.loop(ctx)
	slog.Info("craving loop started")
}

// Stop halts the craving loop.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return
	}

	s.cancel()
	s.running = false
	slog.Info("craving loop stopped")
}

// IsRunning returns whether the craving loop is active.
func (s *Service) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

func (s *Service) loop(ctx context.Context) {
	timer := time.NewTimer(tickInterval)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
			delay := tickInterval
			if err := s.tick(ctx); err != nil {
				slog.Warn("craving tick failed", "error", err)
				delay = errorBackoff
			}
			timer.Reset(delay)
		}
	}
}

// tick rolls the urges once. Both urges can fire on the same tick.
func (s *Service) tick(ctx context.Context) error {
	if s.roll(speakProbability) && time.Since(s.bot.LastSpoke()) > silenceWindow {
		s.bot.SayAutonomous(s.utterance())
	}

	if s.seeker != nil && s.roll(seekProbability) {
		if err := s.seek(ctx); err != nil {
			return err
		}
	}
	return nil
}

func (s *Service) roll(p float64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.Float64() < p
}

// utterance picks something to say: a pooled open question when one exists,
// otherwise a canned phrase.
func (s *Service) utterance() string {
	questions := s.bot.Questions().All()
	if len(questions) > 0 {
		s.mu.Lock()
		q := questions[s.rng.Intn(len(questions))]
		s.mu.Unlock()
		return q
	}
	return respond.UnknownPhrase()
}

// seek runs one seeker query and stores the result as a reflection. The
// query comes from the inquiry cursor so cravings chase the open thread.
func (s *Service) seek(ctx context.Context) error {
	query := s.bot.InquiryCursor().Load(inquiry.DefaultQuestion)

	results, err := s.seeker.Search(ctx, query)
	if err != nil {
		return err
	}
	if len(results) == 0 {
		slog.Info("craving seek found nothing", "query", query)
		return nil
	}

	slog.Info("craving seek", "query", query, "results", len(results))
	s.bot.StoreReflection(seeker.Compose(query, results), reflection.Meta{
		Role:         "seeker",
		Glyph:        "🌐",
		Thoughts:     "Sought beyond memory",
		SourceType:   "web",
		MemoryTag:    "seeker",
		InvokedTools: []string{s.seeker.Name()},
	})
	s.bot.Events().Publish(bus.EventLog, "seeker", "sought: "+query)
	return nil
}
