package extract

import (
	"log/slog"
	"os"
	"strings"
)

// speakerMaxLen is the cutoff for treating a colon prefix as a speaker name.
// Longer prefixes are assumed to be ordinary dialogue containing a colon.
const speakerMaxLen = 40

// readSubtitles converts an .srt file into "speaker: line" text. Non-blank
// lines that are neither a numeric cue index nor a timestamp arrow are
// grouped into dialogue blocks separated by blank lines; each block with a
// short colon prefix becomes one speaker line, in block order.
func readSubtitles(path string) string {
	data, err := os.ReadFile(path)
	if err != nil {
		slog.Warn("failed to read subtitles", "path", path, "error", err)
		return ""
	}

	var blocks []string
	var buffer []string
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			if len(buffer) > 0 {
				blocks = append(blocks, strings.Join(buffer, " "))
				buffer = nil
			}
			continue
		}
		if isDigits(line) || strings.Contains(line, "-->") {
			continue
		}
		buffer = append(buffer, line)
	}
	if len(buffer) > 0 {
		blocks = append(blocks, strings.Join(buffer, " "))
	}

	var out []string
	for _, block := range blocks {
		idx := strings.Index(block, ":")
		if idx < 0 {
			continue
		}
		speaker := strings.TrimSpace(block[:idx])
		line := strings.TrimSpace(block[idx+1:])
		if speaker != "" && line != "" && len(speaker) < speakerMaxLen {
			out = append(out, speaker+": "+line)
		}
	}

	slog.Info("read subtitles", "path", path, "lines", len(out))
	return strings.Join(out, "\n")
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
