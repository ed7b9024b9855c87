package memory

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/Dream2Nightmare/brainbot/internal/reflection"
)

const (
	// DefaultMaxBytes is the partition threshold for the long-term file.
	DefaultMaxBytes = 500 * 1024 * 1024

	// DefaultChunkSize is the number of records per partition chunk.
	DefaultChunkSize = 10000
)

// LongTerm is the durable append-only reflection archive. It lives as a
// single array file until it crosses the size threshold, after which it is
// split into immutable chunk files in the same directory.
type LongTerm struct {
	path string
	mu   sync.Mutex

	// MaxBytes and ChunkSize default to the production thresholds and are
	// overridable for tests.
	MaxBytes  int64
	ChunkSize int
}

// NewLongTerm creates a long-term store persisted at path.
func NewLongTerm(path string) *LongTerm {
	return &LongTerm{
		path:      path,
		MaxBytes:  DefaultMaxBytes,
		ChunkSize: DefaultChunkSize,
	}
}

// Append adds a batch of reflections to the main store file.
func (lt *LongTerm) Append(batch []reflection.Reflection) error {
	if len(batch) == 0 {
		return nil
	}

	lt.mu.Lock()
	defer lt.mu.Unlock()

	existing, err := lt.loadUnsafe()
	if err != nil {
		return fmt.Errorf("load longterm: %w", err)
	}
	existing = append(existing, batch...)

	if err := lt.saveUnsafe(existing); err != nil {
		return fmt.Errorf("save longterm: %w", err)
	}

	slog.Info("appended reflections to long-term memory", "count", len(batch), "total", len(existing))
	return nil
}

// ReadAll returns every reflection reachable from the store directory: the
// main file plus any partition chunks, merged in file name order. A file
// that fails to parse as a reflection list (or single reflection object) is
// skipped; the others are still read.
func (lt *LongTerm) ReadAll() []reflection.Reflection {
	lt.mu.Lock()
	defer lt.mu.Unlock()
	return ReadReflectionDir(filepath.Dir(lt.path))
}

// SizeBytes returns the byte size of the main store file, 0 when absent.
func (lt *LongTerm) SizeBytes() int64 {
	lt.mu.Lock()
	defer lt.mu.Unlock()

	info, err := os.Stat(lt.path)
	if err != nil {
		return 0
	}
	return info.Size()
}

// Partition splits an oversized main store file into chunk files of
// ChunkSize records and removes the original. No-op while the file is at or
// under MaxBytes.
//
// This is a non-atomic multi-file operation: a crash after some chunks are
// written but before the original is removed leaves duplicate records behind.
// There is no automatic recovery; a later ReadAll simply sees the duplicates.
func (lt *LongTerm) Partition() error {
	lt.mu.Lock()
	defer lt.mu.Unlock()

	info, err := os.Stat(lt.path)
	if err != nil {
		return nil // nothing to partition
	}
	if info.Size() <= lt.MaxBytes {
		return nil
	}

	records, err := lt.loadUnsafe()
	if err != nil {
		return fmt.Errorf("load for partition: %w", err)
	}

	stamp := time.Now().UTC().Format("20060102_150405")
	dir := filepath.Dir(lt.path)

	for i := 0; i < len(records); i += lt.ChunkSize {
		end := i + lt.ChunkSize
		if end > len(records) {
			end = len(records)
		}
		chunk := records[i:end]

		name := fmt.Sprintf("longterm_%s_part%d.json", stamp, i/lt.ChunkSize+1)
		data, err := json.MarshalIndent(chunk, "", "  ")
		if err != nil {
			return fmt.Errorf("marshal chunk %s: %w", name, err)
		}
		if err := os.WriteFile(filepath.Join(dir, name), data, 0644); err != nil {
			return fmt.Errorf("write chunk %s: %w", name, err)
		}
		slog.Info("created long-term chunk", "file", name, "records", len(chunk))
	}

	if err := os.Remove(lt.path); err != nil {
		return fmt.Errorf("remove oversized store: %w", err)
	}
	slog.Info("removed oversized long-term store", "path", lt.path)
	return nil
}

func (lt *LongTerm) loadUnsafe() ([]reflection.Reflection, error) {
	data, err := os.ReadFile(lt.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	var records []reflection.Reflection
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, err
	}
	return records, nil
}

func (lt *LongTerm) saveUnsafe(records []reflection.Reflection) error {
	if err := os.MkdirAll(filepath.Dir(lt.path), 0755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(lt.path, data, 0644)
}

// ReadReflectionDir merges every parseable JSON file in dir into one
// reflection list. Files holding other schemas (the seen-path list lives in
// the same directory) fail to decode and are skipped.
func ReadReflectionDir(dir string) []reflection.Reflection {
	matches, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return nil
	}

	var out []reflection.Reflection
	for _, path := range matches {
		data, err := os.ReadFile(path)
		if err != nil {
			slog.Warn("failed to read memory file", "file", filepath.Base(path), "error", err)
			continue
		}

		var list []reflection.Reflection
		if err := json.Unmarshal(data, &list); err == nil {
			out = append(out, list...)
			continue
		}
		var single reflection.Reflection
		if err := json.Unmarshal(data, &single); err == nil {
			out = append(out, single)
			continue
		}
		slog.Warn("skipping malformed memory file", "file", filepath.Base(path))
	}
	return out
}
