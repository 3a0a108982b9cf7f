package tts

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strings"

	"golang.org/x/sync/singleflight"

	"github.com/d1nch8g/quizvoice/logger"
)

const (
	// DefaultSpeaker is mixed into identifiers when none is configured.
	DefaultSpeaker = "liivika"

	clipExt = ".wav"
)

var (
	// ErrInvalidIdentifier is returned for identifiers that are not 32
	// lowercase hex characters.
	ErrInvalidIdentifier = errors.New("invalid clip identifier")

	// ErrNotCached is returned by Open when the clip is not on disk.
	ErrNotCached = errors.New("clip not cached")

	identifierPattern = regexp.MustCompile(`^[0-9a-f]{32}$`)
)

// CacheConfig holds the Cache settings.
type CacheConfig struct {
	Dir     string
	Speaker string
	Options SynthesisOptions
}

// Cache is a content-addressed clip store. A clip's identifier is derived
// from the speaker and the spoken text, so the same sentence is only ever
// synthesized once.
type Cache struct {
	dir     string
	speaker string
	options SynthesisOptions
	synth   Synthesizer
	group   singleflight.Group
}

// NewCache creates the cache directory if needed. synth may be nil, in
// which case misses fail.
func NewCache(config CacheConfig, synth Synthesizer) (*Cache, error) {
	if config.Speaker == "" {
		config.Speaker = DefaultSpeaker
	}
	if err := os.MkdirAll(config.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}
	return &Cache{
		dir:     config.Dir,
		speaker: config.Speaker,
		options: config.Options,
		synth:   synth,
	}, nil
}

// Identifier returns the clip identifier for text: the first 16 bytes of
// sha256("speaker|text"), hex encoded.
func Identifier(speaker, text string) string {
	sum := sha256.Sum256([]byte(speaker + "|" + text))
	return hex.EncodeToString(sum[:16])
}

// ValidIdentifier reports whether id has the shape Identifier produces.
func ValidIdentifier(id string) bool {
	return identifierPattern.MatchString(id)
}

// Identifier returns the clip identifier for text with the cache's speaker.
func (c *Cache) Identifier(text string) string {
	return Identifier(c.speaker, text)
}

// Path returns where the clip for id is stored.
func (c *Cache) Path(id string) string {
	return filepath.Join(c.dir, id+clipExt)
}

// Has reports whether the clip for text is cached.
func (c *Cache) Has(text string) bool {
	_, err := os.Stat(c.Path(c.Identifier(text)))
	return err == nil
}

// Ensure returns the identifier for text, synthesizing and storing the
// clip first if it is not cached yet. Concurrent calls for the same text
// share one synthesis.
func (c *Cache) Ensure(ctx context.Context, text string) (string, error) {
	id := c.Identifier(text)
	if _, err := os.Stat(c.Path(id)); err == nil {
		logger.Log.Debug("tts cache hit", "id", id)
		return id, nil
	}
	if c.synth == nil {
		return "", fmt.Errorf("failed to synthesize %s: %w", id, ErrNotCached)
	}

	_, err, _ := c.group.Do(id, func() (interface{}, error) {
		logger.Log.Info("tts cache miss", "id", id, "text", preview(text))
		data, err := c.synthesize(ctx, text)
		if err != nil {
			return nil, err
		}
		return nil, c.store(id, data)
	})
	if err != nil {
		return "", err
	}
	return id, nil
}

func (c *Cache) synthesize(ctx context.Context, text string) ([]byte, error) {
	audioData := make(chan []byte, 16)
	errc := make(chan error, 1)

	go func() {
		defer close(audioData)
		errc <- c.synth.SynthesizeToStreamWithContext(ctx, text, c.options, audioData)
	}()

	var buf bytes.Buffer
	for chunk := range audioData {
		buf.Write(chunk)
	}
	if err := <-errc; err != nil {
		return nil, fmt.Errorf("failed to synthesize speech: %w", err)
	}
	if buf.Len() == 0 {
		return nil, errors.New("failed to synthesize speech: empty audio")
	}
	return buf.Bytes(), nil
}

// store writes data next to its final name and renames it into place so
// readers never see a partial clip.
func (c *Cache) store(id string, data []byte) error {
	tmp, err := os.CreateTemp(c.dir, "tts-*.wav.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write clip: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write clip: %w", err)
	}
	if err := os.Rename(tmp.Name(), c.Path(id)); err != nil {
		return fmt.Errorf("failed to store clip: %w", err)
	}
	logger.Log.Debug("tts cached", "id", id, "bytes", len(data))
	return nil
}

// Open serves a clip locator such as /audio/<id>.wav from disk.
func (c *Cache) Open(ctx context.Context, uri string) (io.ReadCloser, error) {
	base := path.Base(uri)
	if !strings.HasSuffix(base, clipExt) {
		return nil, fmt.Errorf("%s: %w", uri, ErrInvalidIdentifier)
	}
	id := strings.TrimSuffix(base, clipExt)
	if !ValidIdentifier(id) {
		return nil, fmt.Errorf("%s: %w", uri, ErrInvalidIdentifier)
	}

	f, err := os.Open(c.Path(id))
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%s: %w", id, ErrNotCached)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open cached clip: %w", err)
	}
	return f, nil
}

// Close releases the synthesizer.
func (c *Cache) Close() error {
	if c.synth == nil {
		return nil
	}
	return c.synth.Close()
}

func preview(text string) string {
	r := []rune(text)
	if len(r) > 30 {
		return string(r[:30])
	}
	return text
}
