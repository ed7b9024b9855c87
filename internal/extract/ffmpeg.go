package extract

import (
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"
)

// FFmpegExtractor extracts a mono 16 kHz WAV track from a video file by
// shelling out to ffmpeg.
type FFmpegExtractor struct {
	// Binary overrides the ffmpeg executable name (default "ffmpeg").
	Binary string
}

// ExtractAudio writes the audio track next to the video as <name>.wav and
// returns that path.
func (f *FFmpegExtractor) ExtractAudio(ctx context.Context, videoPath string) (string, error) {
	bin := f.Binary
	if bin == "" {
		bin = "ffmpeg"
	}

	outPath := strings.TrimSuffix(videoPath, extOf(videoPath)) + ".wav"
	cmd := exec.CommandContext(ctx, bin,
		"-y", "-i", videoPath,
		"-vn", "-acodec", "pcm_s16le",
		"-ar", "16000", "-ac", "1", outPath,
	)
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("ffmpeg: %w", err)
	}

	slog.Info("extracted audio track", "video", videoPath, "audio", outPath)
	return outPath, nil
}

func extOf(path string) string {
	if i := strings.LastIndex(path, "."); i >= 0 {
		return path[i:]
	}
	return ""
}
