package senses

import (
	"context"
	"errors"
	"image/color"
	"path/filepath"
	"testing"
	"time"

	"github.com/disintegration/imaging"

	"github.com/Dream2Nightmare/brainbot/internal/agent"
)

type stubScreen struct {
	capture Capture
	err     error
}

func (s stubScreen) CaptureScreen(context.Context) (Capture, error) { return s.capture, s.err }

type stubMic struct {
	capture Capture
}

func (s stubMic) Listen(context.Context) (Capture, error) { return s.capture, nil }

func newBot(t *testing.T) *agent.Bot {
	t.Helper()
	b, err := agent.New(t.TempDir(), nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	return b
}

func TestSense_StoresCaptures(t *testing.T) {
	bot := newBot(t)
	c := NewController(bot,
		stubScreen{capture: Capture{Text: "a window full of text"}},
		nil,
		stubMic{capture: Capture{Text: "someone said hello"}},
	)

	if got := c.Sense(context.Background()); got != 2 {
		t.Fatalf("Sense stored %d, want 2", got)
	}

	batch := bot.ShortTerm().Drain()
	if len(batch) != 2 {
		t.Fatalf("drained %d reflections, want 2", len(batch))
	}
	types := map[string]bool{}
	for _, r := range batch {
		types[r.SourceType] = true
		if r.MemoryTag != "sense" {
			t.Errorf("memory tag = %q, want sense", r.MemoryTag)
		}
	}
	if !types["screen"] || !types["microphone"] {
		t.Errorf("source types = %v", types)
	}
}

func TestSense_SkipsEmptyAndFailedCaptures(t *testing.T) {
	bot := newBot(t)
	c := NewController(bot, stubScreen{err: errors.New("no display")}, nil,
		stubMic{capture: Capture{Text: "   "}})

	if got := c.Sense(context.Background()); got != 0 {
		t.Errorf("Sense stored %d, want 0", got)
	}
	if got := bot.ShortTerm().Count(); got != 0 {
		t.Errorf("shortterm count = %d, want 0", got)
	}
}

func TestService_StoresOnTick(t *testing.T) {
	bot := newBot(t)
	c := NewController(bot, stubScreen{capture: Capture{Text: "a window full of text"}}, nil, nil)

	svc := NewService(c, 10*time.Millisecond)
	svc.Start()
	defer svc.Stop()
	if !svc.IsRunning() {
		t.Fatal("expected running after Start")
	}

	deadline := time.Now().Add(5 * time.Second)
	for bot.ShortTerm().Count() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("no capture stored within deadline")
		}
		time.Sleep(10 * time.Millisecond)
	}

	svc.Stop()
	if svc.IsRunning() {
		t.Error("expected stopped after Stop")
	}
}

func TestService_NilSensorsAreInert(t *testing.T) {
	bot := newBot(t)
	svc := NewService(NewController(bot, nil, nil, nil), 5*time.Millisecond)

	svc.Start()
	time.Sleep(30 * time.Millisecond)
	svc.Stop()

	if got := bot.ShortTerm().Count(); got != 0 {
		t.Errorf("shortterm count = %d, want 0 with no sensors", got)
	}
}

func TestThumbnail(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "capture.png")

	img := imaging.New(1024, 768, color.NRGBA{R: 10, G: 20, B: 30, A: 255})
	if err := imaging.Save(img, path); err != nil {
		t.Fatal(err)
	}

	out, err := Thumbnail(path)
	if err != nil {
		t.Fatalf("Thumbnail: %v", err)
	}
	if out != filepath.Join(dir, "capture_thumb.png") {
		t.Errorf("thumbnail path = %q", out)
	}

	thumb, err := imaging.Open(out)
	if err != nil {
		t.Fatalf("open thumbnail: %v", err)
	}
	bounds := thumb.Bounds()
	if bounds.Dx() > thumbnailSize || bounds.Dy() > thumbnailSize {
		t.Errorf("thumbnail bounds = %v, want within %d", bounds, thumbnailSize)
	}
}

func TestThumbnail_MissingFile(t *testing.T) {
	if _, err := Thumbnail(filepath.Join(t.TempDir(), "nope.png")); err == nil {
		t.Error("expected error for missing capture")
	}
}
