package marketdesk

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/eringen/marketdesk/content"
	"github.com/eringen/marketdesk/media"
	"github.com/eringen/marketdesk/textgen"
)

// Config holds all configuration for a marketdesk server.
type Config struct {
	Addr    string `yaml:"addr"`     // Listen address (default ":3000")
	BaseURL string `yaml:"base_url"` // Public URL (default "http://localhost:3000")

	DatabasePath string `yaml:"database_path"` // SQLite path (default "data/marketdesk.db")
	DatabaseURL  string `yaml:"database_url"`  // Postgres DSN; selects the gorm store when set

	MediaDir      string `yaml:"media_dir"`      // Blob directory (default "data/media")
	MongoURI      string `yaml:"mongo_uri"`      // Selects the GridFS blob store when set
	MongoDatabase string `yaml:"mongo_database"` // GridFS database (default "marketdesk")

	AdminPassword string `yaml:"admin_password"` // Required unless DisableAuth
	SessionSecret string `yaml:"session_secret"` // Required unless DisableAuth
	CookieSecure  bool   `yaml:"cookie_secure"`  // Set true for HTTPS
	DisableAuth   bool   `yaml:"disable_auth"`   // Open the API without a login

	TextProvider  string `yaml:"text_provider"` // "openai", "gemini" or "" for auto
	OpenAIKey     string `yaml:"openai_api_key"`
	OpenAIBaseURL string `yaml:"openai_base_url"`
	OpenAIModel   string `yaml:"openai_model"`
	GeminiKey     string `yaml:"gemini_api_key"`
	GeminiModel   string `yaml:"gemini_model"`
	ImageModel    string `yaml:"image_model"`  // OpenAI images model (default "dall-e-3")
	ImagenModel   string `yaml:"imagen_model"` // Gemini image model
	VeoModel      string `yaml:"veo_model"`    // Gemini video model

	GenerationInterval     time.Duration `yaml:"generation_interval"`      // Post spacing (default 2s)
	BlogGenerationInterval time.Duration `yaml:"blog_generation_interval"` // Blog spacing (default 3s)
	AccountCacheTTL        time.Duration `yaml:"account_cache_ttl"`        // Account list TTL (default 1m)

	LogLevel  string `yaml:"log_level"`  // debug, info, warn, error (default info)
	LogFormat string `yaml:"log_format"` // json or console (default json)
}

func (c *Config) setDefaults() {
	if c.Addr == "" {
		c.Addr = ":3000"
	}
	if c.BaseURL == "" {
		c.BaseURL = "http://localhost:3000"
	}
	if c.DatabasePath == "" {
		c.DatabasePath = "data/marketdesk.db"
	}
	if c.MediaDir == "" {
		c.MediaDir = "data/media"
	}
	if c.MongoDatabase == "" {
		c.MongoDatabase = "marketdesk"
	}
	if c.ImageModel == "" {
		c.ImageModel = "dall-e-3"
	}
	if c.GenerationInterval == 0 {
		c.GenerationInterval = 2 * time.Second
	}
	if c.BlogGenerationInterval == 0 {
		c.BlogGenerationInterval = 3 * time.Second
	}
	if c.AccountCacheTTL == 0 {
		c.AccountCacheTTL = time.Minute
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.LogFormat == "" {
		c.LogFormat = "json"
	}
}

// TextConfig returns the text provider settings.
func (c Config) TextConfig() textgen.Config {
	return textgen.Config{
		Provider:      c.TextProvider,
		OpenAIKey:     c.OpenAIKey,
		OpenAIBaseURL: c.OpenAIBaseURL,
		OpenAIModel:   c.OpenAIModel,
		GeminiKey:     c.GeminiKey,
		GeminiModel:   c.GeminiModel,
	}
}

// LoadConfig reads an optional YAML file, then a .env file if present, then
// the environment. Environment variables override file values.
func LoadConfig(path string) (Config, error) {
	var cfg Config
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}
	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func applyEnv(c *Config) error {
	str := map[string]*string{
		"ADDR":            &c.Addr,
		"BASE_URL":        &c.BaseURL,
		"DATABASE_PATH":   &c.DatabasePath,
		"DATABASE_URL":    &c.DatabaseURL,
		"MEDIA_DIR":       &c.MediaDir,
		"MONGO_URI":       &c.MongoURI,
		"MONGO_DATABASE":  &c.MongoDatabase,
		"ADMIN_PASSWORD":  &c.AdminPassword,
		"SESSION_SECRET":  &c.SessionSecret,
		"TEXT_PROVIDER":   &c.TextProvider,
		"OPENAI_API_KEY":  &c.OpenAIKey,
		"OPENAI_BASE_URL": &c.OpenAIBaseURL,
		"OPENAI_MODEL":    &c.OpenAIModel,
		"GEMINI_API_KEY":  &c.GeminiKey,
		"GEMINI_MODEL":    &c.GeminiModel,
		"IMAGE_MODEL":     &c.ImageModel,
		"IMAGEN_MODEL":    &c.ImagenModel,
		"VEO_MODEL":       &c.VeoModel,
		"LOG_LEVEL":       &c.LogLevel,
		"LOG_FORMAT":      &c.LogFormat,
	}
	for key, dst := range str {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}

	flags := map[string]*bool{
		"COOKIE_SECURE": &c.CookieSecure,
		"DISABLE_AUTH":  &c.DisableAuth,
	}
	for key, dst := range flags {
		if v := os.Getenv(key); v != "" {
			b, err := strconv.ParseBool(v)
			if err != nil {
				return fmt.Errorf("%s: %w", key, err)
			}
			*dst = b
		}
	}

	durations := map[string]*time.Duration{
		"GENERATION_INTERVAL":      &c.GenerationInterval,
		"BLOG_GENERATION_INTERVAL": &c.BlogGenerationInterval,
		"ACCOUNT_CACHE_TTL":        &c.AccountCacheTTL,
	}
	for key, dst := range durations {
		if v := os.Getenv(key); v != "" {
			d, err := time.ParseDuration(v)
			if err != nil {
				return fmt.Errorf("%s: %w", key, err)
			}
			*dst = d
		}
	}
	return nil
}

// Option configures additional App behavior.
type Option func(*App)

// WithStore replaces the store built from the config.
func WithStore(s Store) Option {
	return func(a *App) {
		a.Store = s
	}
}

// WithBlobStore replaces the blob store built from the config.
func WithBlobStore(b media.BlobStore) Option {
	return func(a *App) {
		a.Blobs = b
	}
}

// WithTextProvider replaces the text provider built from the config.
func WithTextProvider(p textgen.Provider) Option {
	return func(a *App) {
		a.Text = p
	}
}

// WithMediaGenerator replaces the media generator built from the config.
func WithMediaGenerator(m content.MediaSource) Option {
	return func(a *App) {
		a.Media = m
	}
}

// WithLogger sets the structured logger.
func WithLogger(l *zap.Logger) Option {
	return func(a *App) {
		a.Log = l
	}
}

// WithCustomRoutes registers additional routes on the Echo instance.
// The callback runs after the built-in routes are registered.
func WithCustomRoutes(fn func(*App)) Option {
	return func(a *App) {
		a.customRoutes = append(a.customRoutes, fn)
	}
}
