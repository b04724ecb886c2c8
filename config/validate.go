package config

import (
	"errors"
	"fmt"

	"github.com/lvillar/deckforge/geom"
	"github.com/lvillar/deckforge/logger"
)

// ValidationError names the offending field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("config: %s %s", e.Field, e.Message)
}

func invalid(field, format string, args ...any) error {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// Validate reports every invalid field at once.
func (c *Config) Validate() error {
	var errs []error
	if c.Server.Addr == "" {
		errs = append(errs, invalid("server.addr", "is required"))
	}
	if !logger.ValidLevel(c.Log.Level) {
		errs = append(errs, invalid("log.level", "must be one of debug, info, warn, error; got %q", c.Log.Level))
	}

	switch c.AI.Provider {
	case ProviderAnthropic:
		if c.AI.APIKey == "" {
			errs = append(errs, invalid("ai.api_key", "is required for the anthropic provider (set ANTHROPIC_API_KEY)"))
		}
	case ProviderLocal:
		if c.AI.BaseURL == "" {
			errs = append(errs, invalid("ai.base_url", "is required for the local provider"))
		}
	case ProviderOffline:
	default:
		errs = append(errs, invalid("ai.provider", "must be anthropic, local or offline; got %q", c.AI.Provider))
	}

	switch c.Storage.Backend {
	case BackendFile:
		if c.Storage.Dir == "" {
			errs = append(errs, invalid("storage.dir", "is required for the file backend"))
		}
	case BackendRedis:
		if c.Storage.RedisAddr == "" {
			errs = append(errs, invalid("storage.redis_addr", "is required for the redis backend"))
		}
	default:
		errs = append(errs, invalid("storage.backend", "must be file or redis; got %q", c.Storage.Backend))
	}

	if _, err := geom.ParseFormat(c.Export.Format); err != nil {
		errs = append(errs, invalid("export.format", "%v", err))
	}
	if c.Export.Settle != SettleDelay && c.Export.Settle != SettleLoad {
		errs = append(errs, invalid("export.settle", "must be delay or load; got %q", c.Export.Settle))
	}
	if c.Export.SettleDelay < 0 {
		errs = append(errs, invalid("export.settle_delay", "must not be negative"))
	}
	if c.Export.CaptureScale <= 0 || c.Export.CaptureScale > 4 {
		errs = append(errs, invalid("export.capture_scale", "must be in (0, 4]; got %g", c.Export.CaptureScale))
	}
	if c.Export.JPEGQuality < 1 || c.Export.JPEGQuality > 100 {
		errs = append(errs, invalid("export.jpeg_quality", "must be in [1, 100]; got %d", c.Export.JPEGQuality))
	}
	if c.Export.BaselineRatio <= 0 || c.Export.BaselineRatio >= 1 {
		errs = append(errs, invalid("export.baseline_ratio", "must be in (0, 1); got %g", c.Export.BaselineRatio))
	}
	if c.Images.CacheBytes < 0 {
		errs = append(errs, invalid("images.cache_bytes", "must not be negative"))
	}
	return errors.Join(errs...)
}
