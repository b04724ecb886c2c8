package config

import (
	"time"

	"github.com/lvillar/deckforge/document"
	"github.com/lvillar/deckforge/logger"
)

// Config is the full deckforge configuration.
type Config struct {
	Server  Server              `yaml:"server"`
	Log     logger.Config       `yaml:"log"`
	AI      AI                  `yaml:"ai"`
	Storage Storage             `yaml:"storage"`
	Export  Export              `yaml:"export"`
	Images  Images              `yaml:"images"`
	Style   document.StyleConfig `yaml:"style"`
}

// Server configures the HTTP API.
type Server struct {
	Addr         string        `yaml:"addr" env:"DECKFORGE_ADDR"`
	ReadTimeout  time.Duration `yaml:"read_timeout" env:"DECKFORGE_READ_TIMEOUT"`
	WriteTimeout time.Duration `yaml:"write_timeout" env:"DECKFORGE_WRITE_TIMEOUT"`
	// Debug puts gin in debug mode.
	Debug bool `yaml:"debug" env:"DECKFORGE_DEBUG"`
	// ArtifactTTL is how long finished export artifacts stay downloadable.
	ArtifactTTL time.Duration `yaml:"artifact_ttl" env:"DECKFORGE_ARTIFACT_TTL"`
}

// AI selects and configures the content generator.
type AI struct {
	// Provider is anthropic, local or offline.
	Provider string `yaml:"provider" env:"DECKFORGE_AI_PROVIDER"`
	Model    string `yaml:"model" env:"DECKFORGE_AI_MODEL"`
	// BaseURL is the local server root, e.g. http://localhost:1234.
	BaseURL string `yaml:"base_url" env:"DECKFORGE_AI_BASE_URL"`
	// APIKey is read from the environment only and never persisted.
	APIKey  string        `yaml:"-" env:"ANTHROPIC_API_KEY"`
	Timeout time.Duration `yaml:"timeout" env:"DECKFORGE_AI_TIMEOUT"`
}

// Storage selects where the working document lives.
type Storage struct {
	// Backend is file or redis.
	Backend       string `yaml:"backend" env:"DECKFORGE_STORAGE"`
	Dir           string `yaml:"dir" env:"DECKFORGE_STORAGE_DIR"`
	RedisAddr     string `yaml:"redis_addr" env:"REDIS_ADDR"`
	RedisPassword string `yaml:"-" env:"REDIS_PASSWORD"`
	RedisDB       int    `yaml:"redis_db" env:"REDIS_DB"`
	RedisPrefix   string `yaml:"redis_prefix" env:"DECKFORGE_REDIS_PREFIX"`
}

// Export tunes the two exporters.
type Export struct {
	// Format is a4, 16:9 or 9:16.
	Format string `yaml:"format" env:"DECKFORGE_FORMAT"`
	// Settle is delay (fixed wait) or load (wait for images, bounded).
	Settle        string        `yaml:"settle" env:"DECKFORGE_SETTLE"`
	SettleDelay   time.Duration `yaml:"settle_delay" env:"DECKFORGE_SETTLE_DELAY"`
	CaptureScale  float64       `yaml:"capture_scale" env:"DECKFORGE_CAPTURE_SCALE"`
	JPEGQuality   int           `yaml:"jpeg_quality" env:"DECKFORGE_JPEG_QUALITY"`
	BaselineRatio float64       `yaml:"baseline_ratio" env:"DECKFORGE_BASELINE_RATIO"`
}

// Images configures image fetching.
type Images struct {
	GeneratorBase string        `yaml:"generator_base" env:"DECKFORGE_IMAGE_BASE"`
	Timeout       time.Duration `yaml:"timeout" env:"DECKFORGE_IMAGE_TIMEOUT"`
	RatePerSecond float64       `yaml:"rate_per_second" env:"DECKFORGE_IMAGE_RATE"`
	Burst         int           `yaml:"burst" env:"DECKFORGE_IMAGE_BURST"`
	CacheBytes    int64         `yaml:"cache_bytes" env:"DECKFORGE_IMAGE_CACHE_BYTES"`
	AllowFiles    bool          `yaml:"allow_files" env:"DECKFORGE_IMAGE_ALLOW_FILES"`
}

// Provider names.
const (
	ProviderAnthropic = "anthropic"
	ProviderLocal     = "local"
	ProviderOffline   = "offline"
)

// Storage backends.
const (
	BackendFile  = "file"
	BackendRedis = "redis"
)

// Settle modes.
const (
	SettleDelay = "delay"
	SettleLoad  = "load"
)

// Defaults.
const (
	DefaultAddr          = ":8080"
	DefaultSettleDelay   = 1200 * time.Millisecond
	DefaultCaptureScale  = 2.0
	DefaultJPEGQuality   = 95
	DefaultBaselineRatio = 0.82
	DefaultLocalBaseURL  = "http://localhost:1234"
)

// SetDefaults fills every unset field.
func (c *Config) SetDefaults() {
	if c.Server.Addr == "" {
		c.Server.Addr = DefaultAddr
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = 30 * time.Second
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = 2 * time.Minute
	}
	if c.Server.ArtifactTTL == 0 {
		c.Server.ArtifactTTL = 15 * time.Minute
	}
	c.Log.SetDefaults()

	if c.AI.Provider == "" {
		c.AI.Provider = ProviderOffline
		if c.AI.APIKey != "" {
			c.AI.Provider = ProviderAnthropic
		}
	}
	if c.AI.Provider == ProviderLocal && c.AI.BaseURL == "" {
		c.AI.BaseURL = DefaultLocalBaseURL
	}
	if c.AI.Timeout == 0 {
		c.AI.Timeout = 2 * time.Minute
	}

	if c.Storage.Backend == "" {
		c.Storage.Backend = BackendFile
	}
	if c.Storage.Dir == "" {
		c.Storage.Dir = ".deckforge"
	}
	if c.Storage.RedisAddr == "" {
		c.Storage.RedisAddr = "localhost:6379"
	}

	if c.Export.Format == "" {
		c.Export.Format = "a4"
	}
	if c.Export.Settle == "" {
		c.Export.Settle = SettleDelay
	}
	if c.Export.SettleDelay == 0 {
		c.Export.SettleDelay = DefaultSettleDelay
	}
	if c.Export.CaptureScale == 0 {
		c.Export.CaptureScale = DefaultCaptureScale
	}
	if c.Export.JPEGQuality == 0 {
		c.Export.JPEGQuality = DefaultJPEGQuality
	}
	if c.Export.BaselineRatio == 0 {
		c.Export.BaselineRatio = DefaultBaselineRatio
	}

	if c.Images.Timeout == 0 {
		c.Images.Timeout = 30 * time.Second
	}
	if c.Images.RatePerSecond == 0 {
		c.Images.RatePerSecond = 4
	}
	if c.Images.Burst == 0 {
		c.Images.Burst = 4
	}
	if c.Images.CacheBytes == 0 {
		c.Images.CacheBytes = 64 << 20
	}

	if c.Style == (document.StyleConfig{}) {
		c.Style = document.DefaultStyle
	}
}

// Default returns a configuration with every default applied and the
// environment overrides read.
func Default() *Config {
	var c Config
	ApplyEnv(&c)
	c.SetDefaults()
	return &c
}

// LoadConfig loads path (may be empty), applies defaults and validates.
func LoadConfig(path string) (*Config, error) {
	c, err := Load[Config](path)
	if err != nil {
		return nil, err
	}
	c.SetDefaults()
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}
