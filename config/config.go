package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	DefaultServerURL       = "http://localhost:7070"
	DefaultRegion          = "problem-area"
	DefaultFeedbackDelay   = 500 * time.Millisecond
	DefaultFramesPerBuffer = 1024
	DefaultSpeaker         = "liivika"
	DefaultVoice           = "marina"
	DefaultAudioFormat     = "wav"
)

type Config struct {
	ServerURL string
	// PlayerID is the quiz player to select on start; 0 keeps the
	// server session as is.
	PlayerID      int
	Region        string
	FeedbackDelay time.Duration

	CacheDir        string
	FramesPerBuffer int

	// Speaker is mixed into clip identifiers and must match the server's
	// speaker for cached clips to be found. Voice is the Yandex voice that
	// renders clips stored under those identifiers.
	Speaker        string
	Voice          string
	AudioFormat    string
	YandexAPIKey   string
	YandexFolderID string

	LogLevel  string
	LogFormat string
}

// LoadConfig reads files (default ".env") into the environment, then
// builds the Config from it. Missing files are not an error.
func LoadConfig(files ...string) (*Config, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to load %s: %w", f, err)
		}
	}
	return FromEnv()
}

// FromEnv builds the Config from the process environment.
func FromEnv() (*Config, error) {
	cfg := &Config{
		ServerURL:      getenv("QUIZ_SERVER_URL", DefaultServerURL),
		Region:         getenv("QUIZ_CONTENT_REGION", DefaultRegion),
		CacheDir:       os.Getenv("AUDIO_CACHE_DIR"),
		Speaker:        getenv("TTS_SPEAKER", DefaultSpeaker),
		Voice:          getenv("TTS_VOICE", DefaultVoice),
		AudioFormat:    strings.ToLower(getenv("TTS_FORMAT", DefaultAudioFormat)),
		YandexAPIKey:   os.Getenv("YANDEX_API_KEY"),
		YandexFolderID: os.Getenv("YANDEX_FOLDER_ID"),
		LogLevel:       getenv("LOG_LEVEL", "info"),
		LogFormat:      getenv("LOG_FORMAT", "text"),
	}

	var err error
	if cfg.PlayerID, err = getInt("QUIZ_PLAYER_ID", 0); err != nil {
		return nil, err
	}
	if cfg.FramesPerBuffer, err = getInt("AUDIO_FRAMES_PER_BUFFER", DefaultFramesPerBuffer); err != nil {
		return nil, err
	}
	if cfg.FeedbackDelay, err = getDuration("QUIZ_FEEDBACK_DELAY", DefaultFeedbackDelay); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.ServerURL == "" {
		return errors.New("QUIZ_SERVER_URL must not be empty")
	}
	if c.PlayerID < 0 {
		return fmt.Errorf("QUIZ_PLAYER_ID must be positive, got %d", c.PlayerID)
	}
	if c.FramesPerBuffer <= 0 {
		return fmt.Errorf("AUDIO_FRAMES_PER_BUFFER must be positive, got %d", c.FramesPerBuffer)
	}
	if c.AudioFormat != "wav" && c.AudioFormat != "mp3" {
		return fmt.Errorf("TTS_FORMAT must be wav or mp3, got %q", c.AudioFormat)
	}
	if c.FeedbackDelay < 0 {
		return fmt.Errorf("QUIZ_FEEDBACK_DELAY must not be negative, got %s", c.FeedbackDelay)
	}
	return nil
}

func getenv(key, def string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return def
}

func getInt(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("failed to parse %s: %w", key, err)
	}
	return n, nil
}

func getDuration(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("failed to parse %s: %w", key, err)
	}
	return d, nil
}
