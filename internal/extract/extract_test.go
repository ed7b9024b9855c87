package extract

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestExtract_TextPassthrough(t *testing.T) {
	path := writeFile(t, "note.txt", "hello world")
	e := &Extractor{}

	c := e.Extract(context.Background(), path)
	if c.Text != "hello world" {
		t.Errorf("text = %q", c.Text)
	}
	if c.SourceType != "text" {
		t.Errorf("source type = %q, want text", c.SourceType)
	}
	if len(c.Tools) != 1 || c.Tools[0] != "text_reader" {
		t.Errorf("tools = %v", c.Tools)
	}
}

func TestExtract_UnsupportedExtension(t *testing.T) {
	path := writeFile(t, "image.bmp", "binary")
	e := &Extractor{}

	c := e.Extract(context.Background(), path)
	if c.Text != "" {
		t.Errorf("expected no content, got %q", c.Text)
	}
	if c.SourceType != "unknown" {
		t.Errorf("source type = %q", c.SourceType)
	}
}

func TestExtract_CaseInsensitiveExtension(t *testing.T) {
	path := writeFile(t, "NOTE.TXT", "upper")
	e := &Extractor{}

	if c := e.Extract(context.Background(), path); c.Text != "upper" {
		t.Errorf("text = %q", c.Text)
	}
}

func TestExtract_MissingCollaboratorYieldsEmpty(t *testing.T) {
	path := writeFile(t, "paper.pdf", "%PDF")
	e := &Extractor{}

	c := e.Extract(context.Background(), path)
	if c.Text != "" {
		t.Errorf("expected empty content without a pdf reader, got %q", c.Text)
	}
	if c.SourceType != "document" {
		t.Errorf("source type = %q", c.SourceType)
	}
}

type stubTranscriber struct {
	text string
	err  error
}

func (s stubTranscriber) Transcribe(_ context.Context, _ string) (string, error) {
	return s.text, s.err
}

type stubAudioExtractor struct {
	path string
	err  error
}

func (s stubAudioExtractor) ExtractAudio(_ context.Context, _ string) (string, error) {
	return s.path, s.err
}

func TestExtract_AudioDelegatesToTranscriber(t *testing.T) {
	path := writeFile(t, "voice.wav", "")
	e := &Extractor{Transcriber: stubTranscriber{text: "spoken words"}}

	c := e.Extract(context.Background(), path)
	if c.Text != "spoken words" {
		t.Errorf("text = %q", c.Text)
	}
	if c.SourceType != "audio" {
		t.Errorf("source type = %q", c.SourceType)
	}
}

func TestExtract_VideoChainsAudioExtraction(t *testing.T) {
	path := writeFile(t, "clip.mp4", "")
	e := &Extractor{
		Audio:       stubAudioExtractor{path: "clip.wav"},
		Transcriber: stubTranscriber{text: "video speech"},
	}

	c := e.Extract(context.Background(), path)
	if c.Text != "video speech" {
		t.Errorf("text = %q", c.Text)
	}
	if c.SourceType != "video" {
		t.Errorf("source type = %q", c.SourceType)
	}
}

func TestExtract_CollaboratorFailureIsSwallowed(t *testing.T) {
	path := writeFile(t, "voice.mp3", "")
	e := &Extractor{Transcriber: stubTranscriber{err: errors.New("no backend")}}

	if c := e.Extract(context.Background(), path); c.Text != "" {
		t.Errorf("expected empty content on failure, got %q", c.Text)
	}
}

func TestReadSubtitles(t *testing.T) {
	srt := strings.Join([]string{
		"1",
		"00:00:01,000 --> 00:00:03,000",
		"ALICE: Hello there.",
		"",
		"2",
		"00:00:04,000 --> 00:00:06,000",
		"BOB: Hi,",
		"nice to see you.",
		"",
		"3",
		"00:00:07,000 --> 00:00:09,000",
		"No speaker in this block",
		"",
	}, "\n")
	path := writeFile(t, "film.srt", srt)

	got := readSubtitles(path)
	want := "ALICE: Hello there.\nBOB: Hi, nice to see you."
	if got != want {
		t.Errorf("subtitles = %q, want %q", got, want)
	}
}

func TestReadSubtitles_LongPrefixIsNotASpeaker(t *testing.T) {
	block := strings.Repeat("a", 45) + ": trailing text"
	path := writeFile(t, "film.srt", "1\n00:00:01,000 --> 00:00:02,000\n"+block+"\n")

	if got := readSubtitles(path); got != "" {
		t.Errorf("expected no speaker lines, got %q", got)
	}
}

func TestKnown(t *testing.T) {
	for _, ext := range []string{".txt", ".srt", ".mp3", ".mp4"} {
		if !Known(ext) {
			t.Errorf("Known(%q) = false", ext)
		}
	}
	for _, ext := range []string{".exe", ".bmp", ""} {
		if Known(ext) {
			t.Errorf("Known(%q) = true", ext)
		}
	}
}
