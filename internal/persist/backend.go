package persist

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/klauspost/compress/zstd"

	"github.com/hanuman1123/interviewAIAgent/internal/store"
)

// Backend is a key/value byte store. Get reports ok=false for a missing
// key without an error.
type Backend interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Put(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

var _ Backend = store.DocumentRepo(nil)

// FileBackend keeps one zstd-compressed file per key in a directory.
type FileBackend struct {
	dir string

	mu      sync.Mutex
	encoder *zstd.Encoder
	decoder *zstd.Decoder
}

// NewFileBackend creates dir if needed.
func NewFileBackend(dir string) (*FileBackend, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("persist: create %s: %w", dir, err)
	}
	encoder, err := zstd.NewWriter(nil)
	if err != nil {
		return nil, fmt.Errorf("persist: create zstd encoder: %w", err)
	}
	decoder, err := zstd.NewReader(nil, zstd.WithDecoderConcurrency(0))
	if err != nil {
		encoder.Close()
		return nil, fmt.Errorf("persist: create zstd decoder: %w", err)
	}
	return &FileBackend{dir: dir, encoder: encoder, decoder: decoder}, nil
}

func (b *FileBackend) path(key string) string {
	safe := strings.Map(func(r rune) rune {
		if r == '/' || r == '\\' || r == os.PathSeparator {
			return '_'
		}
		return r
	}, key)
	return filepath.Join(b.dir, safe+".json.zst")
}

func (b *FileBackend) Get(_ context.Context, key string) ([]byte, bool, error) {
	data, err := os.ReadFile(b.path(key))
	if errors.Is(err, os.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("persist: read %q: %w", key, err)
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	out, err := b.decoder.DecodeAll(data, nil)
	if err != nil {
		return nil, false, fmt.Errorf("persist: decompress %q: %w", key, err)
	}
	return out, true, nil
}

// Put writes through a temp file and renames it into place.
func (b *FileBackend) Put(_ context.Context, key string, value []byte) error {
	b.mu.Lock()
	data := b.encoder.EncodeAll(value, make([]byte, 0, len(value)/2))
	b.mu.Unlock()

	name := b.path(key)
	tmp := name + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("persist: write %q: %w", key, err)
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("persist: write %q: %w", key, err)
	}
	if err := f.Sync(); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("persist: sync %q: %w", key, err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("persist: close %q: %w", key, err)
	}
	return os.Rename(tmp, name)
}

func (b *FileBackend) Delete(_ context.Context, key string) error {
	err := os.Remove(b.path(key))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("persist: delete %q: %w", key, err)
	}
	return nil
}

// Close releases the codec.
func (b *FileBackend) Close() error {
	b.encoder.Close()
	b.decoder.Close()
	return nil
}
