package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/tubeseo/tubeseo/internal/models"
	"gopkg.in/yaml.v3"
)

const (
	DefaultPath        = "tubeseo.yaml"
	DefaultTextModel   = "gemini-2.5-flash"
	DefaultPort        = "8888"
	DefaultUploadLimit = 10 << 20
	DefaultImageTTL    = time.Hour
)

type Config struct {
	APIKey string `yaml:"api_key"`

	TextModel   string             `yaml:"text_model"`
	ImageModel  models.ImageModel  `yaml:"image_model"`
	AspectRatio models.AspectRatio `yaml:"aspect_ratio"`
	Language    models.Language    `yaml:"language"`

	Server ServerConfig `yaml:"server"`
	Log    LogConfig    `yaml:"log"`

	// ImageRateInterval is the minimum gap between image calls; zero means unlimited
	ImageRateInterval time.Duration `yaml:"image_rate_interval"`
}

type ServerConfig struct {
	Port        string        `yaml:"port"`
	UploadLimit int64         `yaml:"upload_limit"`
	ImageTTL    time.Duration `yaml:"image_ttl"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

func Default() Config {
	return Config{
		TextModel:   DefaultTextModel,
		ImageModel:  models.ImageModelGeminiFlash,
		AspectRatio: models.AspectLandscape,
		Language:    models.LanguageAuto,
		Server: ServerConfig{
			Port:        DefaultPort,
			UploadLimit: DefaultUploadLimit,
			ImageTTL:    DefaultImageTTL,
		},
		Log: LogConfig{Level: "info", Format: "text"},
	}
}

// Load reads defaults, then the YAML file at path, then environment overrides.
// A missing file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		path = DefaultPath
	}

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return cfg, fmt.Errorf("failed to read config %s: %w", path, err)
	default:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	}

	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	get := func(key string) (string, bool) {
		v, ok := lookup(key)
		v = strings.TrimSpace(v)
		return v, ok && v != ""
	}

	if v, ok := get("GEMINI_API_KEY"); ok {
		c.APIKey = v
	} else if v, ok := get("API_KEY"); ok {
		c.APIKey = v
	}
	if v, ok := get("GEMINI_MODEL"); ok {
		c.TextModel = v
	}
	if v, ok := get("IMAGE_MODEL"); ok {
		c.ImageModel = models.ImageModel(v)
	}
	if v, ok := get("ASPECT_RATIO"); ok {
		c.AspectRatio = models.AspectRatio(v)
	}
	if v, ok := get("LANGUAGE"); ok {
		c.Language = models.Language(v)
	}
	if v, ok := get("PORT"); ok {
		c.Server.Port = v
	}
	if v, ok := get("LOG_LEVEL"); ok {
		c.Log.Level = v
	}
	if v, ok := get("LOG_FORMAT"); ok {
		c.Log.Format = v
	}
	if v, ok := get("IMAGE_RATE_INTERVAL"); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid IMAGE_RATE_INTERVAL %q: %w", v, err)
		}
		c.ImageRateInterval = d
	}
	return nil
}

// Validate checks the closed enumerations and normalizes the language name
func (c *Config) Validate() error {
	if _, err := models.ParseImageModel(string(c.ImageModel)); err != nil {
		return err
	}
	if _, err := models.ParseAspectRatio(string(c.AspectRatio)); err != nil {
		return err
	}
	lang, err := models.ParseLanguage(string(c.Language))
	if err != nil {
		return err
	}
	c.Language = lang

	if _, err := c.Log.level(); err != nil {
		return err
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("unknown log format %q", c.Log.Format)
	}
	if c.ImageRateInterval < 0 {
		return fmt.Errorf("image rate interval must not be negative")
	}
	if c.Server.UploadLimit <= 0 {
		return fmt.Errorf("upload limit must be positive")
	}
	return nil
}

func (l LogConfig) level() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(l.Level)); err != nil {
		return level, fmt.Errorf("unknown log level %q", l.Level)
	}
	return level, nil
}

// Logger builds the process logger. verbose forces debug.
func (l LogConfig) Logger(w io.Writer, verbose bool) *slog.Logger {
	level, err := l.level()
	if err != nil || verbose {
		level = slog.LevelDebug
	}
	opts := &slog.HandlerOptions{Level: level}
	if l.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
