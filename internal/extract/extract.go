// Package extract converts filesystem paths into plain text, dispatching by
// file extension. Non-text formats are delegated to external reader and
// transcription collaborators; any per-file failure is logged and yields
// empty content, never an error to the caller.
package extract

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// Extension allow-lists. A path whose extension appears in none of them is
// skipped by the scanner and yields no content here.
var (
	ReadableExtensions = []string{".txt", ".md", ".json", ".py", ".html", ".xml", ".pdf", ".doc", ".docx", ".srt"}
	AudioExtensions    = []string{".mp3", ".wav"}
	VideoExtensions    = []string{".wmv", ".avi", ".mp4", ".mpg", ".mpeg"}
)

// Known reports whether a lowercased extension is in any allow-list.
func Known(ext string) bool {
	for _, list := range [][]string{ReadableExtensions, AudioExtensions, VideoExtensions} {
		for _, e := range list {
			if e == ext {
				return true
			}
		}
	}
	return false
}

// DocumentReader reads word-processor documents (.doc/.docx).
type DocumentReader interface {
	Read(ctx context.Context, path string) (string, error)
}

// PDFReader reads PDF documents.
type PDFReader interface {
	Read(ctx context.Context, path string) (string, error)
}

// Transcriber converts an audio file into text.
type Transcriber interface {
	Transcribe(ctx context.Context, path string) (string, error)
}

// AudioExtractor pulls the audio track out of a video file, returning the
// path of the extracted audio.
type AudioExtractor interface {
	ExtractAudio(ctx context.Context, videoPath string) (string, error)
}

// Content is the result of extracting one path.
type Content struct {
	Text       string
	SourceType string
	Tools      []string
}

// Extractor dispatches extraction by extension. Collaborator fields may be
// nil; a missing collaborator behaves like a failed read.
type Extractor struct {
	Docs        DocumentReader
	PDFs        PDFReader
	Transcriber Transcriber
	Audio       AudioExtractor
}

// Extract returns the text for path, plus the source type and the names of
// the collaborators invoked. Empty Text means the path produced no readable
// content and must not be ingested.
func (e *Extractor) Extract(ctx context.Context, path string) Content {
	ext := strings.ToLower(filepath.Ext(path))

	switch {
	case contains(VideoExtensions, ext):
		return Content{Text: e.transcribeVideo(ctx, path), SourceType: "video", Tools: []string{"ffmpeg", "transcription"}}

	case contains(AudioExtensions, ext):
		return Content{Text: e.transcribe(ctx, path), SourceType: "audio", Tools: []string{"transcription"}}

	case ext == ".doc" || ext == ".docx":
		return Content{Text: e.readDoc(ctx, path), SourceType: "document", Tools: []string{"doc_reader"}}

	case ext == ".pdf":
		return Content{Text: e.readPDF(ctx, path), SourceType: "document", Tools: []string{"pdf_reader"}}

	case ext == ".srt":
		return Content{Text: readSubtitles(path), SourceType: "subtitle", Tools: []string{"subtitle_reader"}}

	case contains(ReadableExtensions, ext):
		return Content{Text: readTextFile(path), SourceType: "text", Tools: []string{"text_reader"}}
	}

	slog.Debug("unsupported extension", "path", path, "ext", ext)
	return Content{SourceType: "unknown"}
}

func (e *Extractor) readDoc(ctx context.Context, path string) string {
	if e.Docs == nil {
		slog.Warn("no document reader configured", "path", path)
		return ""
	}
	text, err := e.Docs.Read(ctx, path)
	if err != nil {
		slog.Warn("failed to read document", "path", path, "error", err)
		return ""
	}
	return text
}

func (e *Extractor) readPDF(ctx context.Context, path string) string {
	if e.PDFs == nil {
		slog.Warn("no pdf reader configured", "path", path)
		return ""
	}
	text, err := e.PDFs.Read(ctx, path)
	if err != nil {
		slog.Warn("failed to read pdf", "path", path, "error", err)
		return ""
	}
	return text
}

func (e *Extractor) transcribe(ctx context.Context, path string) string {
	if e.Transcriber == nil {
		slog.Warn("no transcriber configured", "path", path)
		return ""
	}
	text, err := e.Transcriber.Transcribe(ctx, path)
	if err != nil {
		slog.Warn("failed to transcribe audio", "path", path, "error", err)
		return ""
	}
	return text
}

func (e *Extractor) transcribeVideo(ctx context.Context, path string) string {
	if e.Audio == nil {
		slog.Warn("no audio extractor configured", "path", path)
		return ""
	}
	audioPath, err := e.Audio.ExtractAudio(ctx, path)
	if err != nil {
		slog.Warn("failed to extract audio track", "path", path, "error", err)
		return ""
	}
	return e.transcribe(ctx, audioPath)
}

func readTextFile(path string) string {
	data, err := os.ReadFile(path)
	if err != nil {
		slog.Warn("failed to read file", "path", path, "error", err)
		return ""
	}
	return string(data)
}

func contains(list []string, ext string) bool {
	for _, e := range list {
		if e == ext {
			return true
		}
	}
	return false
}
