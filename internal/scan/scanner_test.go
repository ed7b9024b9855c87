package scan

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"golang.org/x/time/rate"

	"github.com/Dream2Nightmare/brainbot/internal/agent"
)

func writeFiles(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		path := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}
}

func newTestService(t *testing.T, roots ...string) (*Service, *agent.Bot) {
	t.Helper()
	bot, err := agent.New(t.TempDir(), nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	svc := NewService(Config{Roots: roots, Rate: rate.Inf}, bot)
	return svc, bot
}

func TestScan_FiltersByExtension(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"a.txt":      "hello",
		"b.md":       "notes",
		"c.exe":      "binary",
		"sub/d.srt":  "1\n00:00:01,000 --> 00:00:02,000\nhi\n",
		"sub/e.lock": "nope",
	})

	var paths []string
	for path := range Scan(context.Background(), []string{dir}) {
		paths = append(paths, path)
	}
	if len(paths) != 3 {
		t.Fatalf("Scan yielded %d paths, want 3: %v", len(paths), paths)
	}
	for _, p := range paths {
		ext := filepath.Ext(p)
		if ext == ".exe" || ext == ".lock" {
			t.Errorf("unexpected extension in scan: %s", p)
		}
	}
}

func TestScan_MissingRoot(t *testing.T) {
	ch := Scan(context.Background(), []string{filepath.Join(t.TempDir(), "nope")})
	if path, ok := <-ch; ok {
		t.Errorf("expected closed channel for missing root, got %q", path)
	}
}

func TestScan_CancelStopsWalk(t *testing.T) {
	dir := t.TempDir()
	files := map[string]string{}
	for i := 0; i < 20; i++ {
		files[fmt.Sprintf("f%02d.txt", i)] = "x"
	}
	writeFiles(t, dir, files)

	ctx, cancel := context.WithCancel(context.Background())
	ch := Scan(ctx, []string{dir})

	// The walk is lazy: only the first path has been produced so far.
	if _, ok := <-ch; !ok {
		t.Fatal("expected at least one path")
	}
	cancel()

	// After cancellation the channel drains and closes without walking the
	// remaining tree.
	deadline := time.After(5 * time.Second)
	for {
		select {
		case _, ok := <-ch:
			if !ok {
				return
			}
		case <-deadline:
			t.Fatal("channel did not close after cancel")
		}
	}
}

func TestCycle_IngestsUnseenOnly(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"a.txt": "sky: blue",
		"b.txt": "grass: green",
	})

	svc, bot := newTestService(t, dir)
	ctx := context.Background()

	if got := svc.Cycle(ctx); got != 2 {
		t.Fatalf("first cycle ingested %d, want 2", got)
	}
	if got := bot.ShortTerm().Count(); got != 2 {
		t.Errorf("shortterm count = %d, want 2", got)
	}

	// Second cycle sees nothing new.
	if got := svc.Cycle(ctx); got != 0 {
		t.Errorf("second cycle ingested %d, want 0", got)
	}

	// A new file is picked up; the old ones stay seen.
	writeFiles(t, dir, map[string]string{"c.txt": "water: wet"})
	if got := svc.Cycle(ctx); got != 1 {
		t.Errorf("third cycle ingested %d, want 1", got)
	}
}

func TestCycle_SkipsUnreadableFiles(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"a.txt":     "sky: blue",
		"paper.pdf": "%PDF", // no reader configured, extraction yields nothing
	})

	svc, bot := newTestService(t, dir)

	if got := svc.Cycle(context.Background()); got != 1 {
		t.Errorf("cycle ingested %d, want 1", got)
	}
	// The unreadable file stays unseen, so it is retried next cycle.
	if bot.Seen().Contains(filepath.Join(dir, "paper.pdf")) {
		t.Error("unreadable file must stay unseen")
	}
}

func TestSetRoots(t *testing.T) {
	first := t.TempDir()
	second := t.TempDir()
	writeFiles(t, first, map[string]string{"a.txt": "one: 1"})
	writeFiles(t, second, map[string]string{"b.txt": "two: 2"})

	svc, _ := newTestService(t, first)
	ctx := context.Background()

	if got := svc.Cycle(ctx); got != 1 {
		t.Fatalf("first cycle ingested %d, want 1", got)
	}

	svc.SetRoots([]string{second})
	if got := svc.Cycle(ctx); got != 1 {
		t.Errorf("cycle over swapped roots ingested %d, want 1", got)
	}
}

func TestCycle_PersistsSeenSet(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{"a.txt": "hello"})

	svc, bot := newTestService(t, dir)
	svc.Cycle(context.Background())

	data, err := os.ReadFile(bot.Layout().SeenPath)
	if err != nil {
		t.Fatalf("seen set was not persisted: %v", err)
	}
	if len(data) == 0 {
		t.Error("seen set file is empty")
	}
}

func TestCycle_TrainingMarksPathsSeen(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{"a.txt": "hello"})

	svc, bot := newTestService(t, dir)

	// A training ritual over the same folder marks its files seen, so the
	// next idle cycle has nothing left to ingest.
	if _, err := bot.TrainFolder(context.Background(), dir); err != nil {
		t.Fatal(err)
	}
	if got := svc.Cycle(context.Background()); got != 0 {
		t.Errorf("cycle after training ingested %d, want 0", got)
	}
}

func TestStartStop(t *testing.T) {
	svc, _ := newTestService(t, t.TempDir())

	svc.Start()
	if !svc.IsRunning() {
		t.Error("expected running after Start")
	}
	svc.Start() // idempotent

	svc.Stop()
	if svc.IsRunning() {
		t.Error("expected stopped after Stop")
	}
	svc.Stop() // idempotent
}
