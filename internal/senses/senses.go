// Package senses funnels ambient sensor captures (screen, camera,
// microphone) into reflections. Sensors are external collaborators; a nil or
// empty capture is skipped, never an error.
package senses

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"

	"github.com/Dream2Nightmare/brainbot/internal/agent"
	"github.com/Dream2Nightmare/brainbot/internal/reflection"
)

// thumbnailSize bounds the longest edge of rendered capture thumbnails.
const thumbnailSize = 256

// Capture is one sensor reading. Text is what was perceived (OCR text,
// transcript, description); MediaPath optionally points at the captured
// image for thumbnailing.
type Capture struct {
	Text      string
	MediaPath string
}

// Screen observes the user's display.
type Screen interface {
	CaptureScreen(ctx context.Context) (Capture, error)
}

// Camera observes the physical surroundings.
type Camera interface {
	CaptureFrame(ctx context.Context) (Capture, error)
}

// Microphone listens for ambient speech.
type Microphone interface {
	Listen(ctx context.Context) (Capture, error)
}

// glyph per modality.
var modalityGlyphs = map[string]string{
	"screen":     "🖥️",
	"camera":     "👁️",
	"microphone": "👂",
}

// Controller polls the configured sensors and stores whatever they perceive.
// Any sensor may be nil.
type Controller struct {
	bot    *agent.Bot
	screen Screen
	camera Camera
	mic    Microphone
}

// NewController creates a sense controller over a bot.
func NewController(bot *agent.Bot, screen Screen, camera Camera, mic Microphone) *Controller {
	return &Controller{bot: bot, screen: screen, camera: camera, mic: mic}
}

// Sense polls every configured sensor once and returns how many captures
// produced reflections.
func (c *Controller) Sense(ctx context.Context) int {
	stored := 0
	if c.screen != nil {
		capture, err := c.screen.CaptureScreen(ctx)
		if c.store("screen", capture, err) {
			stored++
		}
	}
	if c.camera != nil {
		capture, err := c.camera.CaptureFrame(ctx)
		if c.store("camera", capture, err) {
			stored++
		}
	}
	if c.mic != nil {
		capture, err := c.mic.Listen(ctx)
		if c.store("microphone", capture, err) {
			stored++
		}
	}
	return stored
}

// store turns one capture into a reflection. Failed or empty captures are
// logged and dropped.
func (c *Controller) store(modality string, capture Capture, err error) bool {
	if err != nil {
		slog.Warn("sense capture failed", "modality", modality, "error", err)
		return false
	}
	if strings.TrimSpace(capture.Text) == "" {
		slog.Debug("sense capture empty", "modality", modality)
		return false
	}

	if capture.MediaPath != "" {
		if thumb, err := Thumbnail(capture.MediaPath); err != nil {
			slog.Warn("failed to render thumbnail", "path", capture.MediaPath, "error", err)
		} else {
			slog.Info("rendered capture thumbnail", "path", thumb)
		}
	}

	c.bot.StoreReflection(capture.Text, reflection.Meta{
		Role:       modality,
		Glyph:      modalityGlyphs[modality],
		Thoughts:   "Sensed " + modality,
		SourcePath: capture.MediaPath,
		SourceType: modality,
		MemoryTag:  "sense",
	})
	return true
}

// Thumbnail renders a bounded-size thumbnail next to the captured image and
// returns its path.
func Thumbnail(path string) (string, error) {
	img, err := imaging.Open(path)
	if err != nil {
		return "", fmt.Errorf("open capture: %w", err)
	}

	thumb := imaging.Fit(img, thumbnailSize, thumbnailSize, imaging.Lanczos)

	ext := filepath.Ext(path)
	out := strings.TrimSuffix(path, ext) + "_thumb" + ext
	if err := imaging.Save(thumb, out); err != nil {
		return "", fmt.Errorf("save thumbnail: %w", err)
	}
	return out, nil
}
