package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lvillar/deckforge/config"
)

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadAppliesFileThenEnv(t *testing.T) {
	path := writeFile(t, "deckforge.yml", `
server:
  addr: ":9000"
export:
  format: "16:9"
  settle: load
  settle_delay: 2s
images:
  rate_per_second: 1.5
`)
	t.Setenv("ENV_FILE", writeFile(t, "test.env", "DECKFORGE_JPEG_QUALITY=80\n"))
	t.Setenv("DECKFORGE_ADDR", ":9100")
	t.Setenv("DECKFORGE_IMAGE_ALLOW_FILES", "yes")

	cfg, err := config.LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, ":9100", cfg.Server.Addr)
	assert.Equal(t, "16:9", cfg.Export.Format)
	assert.Equal(t, config.SettleLoad, cfg.Export.Settle)
	assert.Equal(t, 2*time.Second, cfg.Export.SettleDelay)
	assert.Equal(t, 80, cfg.Export.JPEGQuality)
	assert.InDelta(t, 1.5, cfg.Images.RatePerSecond, 0)
	assert.True(t, cfg.Images.AllowFiles)
}

func TestDefaults(t *testing.T) {
	t.Setenv("ANTHROPIC_API_KEY", "")
	t.Setenv("ENV_FILE", writeFile(t, "empty.env", ""))

	cfg := config.Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, config.ProviderOffline, cfg.AI.Provider)
	assert.Equal(t, config.BackendFile, cfg.Storage.Backend)
	assert.Equal(t, config.DefaultSettleDelay, cfg.Export.SettleDelay)
	assert.InDelta(t, config.DefaultBaselineRatio, cfg.Export.BaselineRatio, 0)
	assert.Equal(t, "inter", cfg.Style.Font)
}

func TestAPIKeySelectsAnthropic(t *testing.T) {
	t.Setenv("ANTHROPIC_API_KEY", "sk-test")
	t.Setenv("ENV_FILE", writeFile(t, "empty.env", ""))

	cfg := config.Default()
	assert.Equal(t, config.ProviderAnthropic, cfg.AI.Provider)
	assert.Equal(t, "sk-test", cfg.AI.APIKey)
}

func TestValidateReportsEveryField(t *testing.T) {
	t.Setenv("ENV_FILE", writeFile(t, "empty.env", ""))

	cfg := config.Default()
	cfg.Log.Level = "loud"
	cfg.AI.Provider = "oracle"
	cfg.Storage.Backend = "tape"
	cfg.Export.Format = "letter"
	cfg.Export.JPEGQuality = 101
	cfg.Export.BaselineRatio = 1

	err := cfg.Validate()
	require.Error(t, err)
	for _, field := range []string{"log.level", "ai.provider", "storage.backend", "export.format", "export.jpeg_quality", "export.baseline_ratio"} {
		assert.Contains(t, err.Error(), field)
	}
	var ve *config.ValidationError
	assert.ErrorAs(t, err, &ve)
}

func TestAnthropicNeedsKey(t *testing.T) {
	t.Setenv("ENV_FILE", writeFile(t, "empty.env", ""))

	cfg := config.Default()
	cfg.AI.Provider = config.ProviderAnthropic
	cfg.AI.APIKey = ""
	assert.ErrorContains(t, cfg.Validate(), "ANTHROPIC_API_KEY")
}

func TestLoadMissingFile(t *testing.T) {
	t.Setenv("ENV_FILE", writeFile(t, "empty.env", ""))

	_, err := config.Load[config.Config](filepath.Join(t.TempDir(), "absent.yml"))
	assert.Error(t, err)
}

func TestPath(t *testing.T) {
	t.Setenv(config.PathEnv, "")
	assert.Equal(t, "deckforge.yml", config.Path("deckforge.yml"))
	t.Setenv(config.PathEnv, "/etc/deckforge.yml")
	assert.Equal(t, "/etc/deckforge.yml", config.Path("deckforge.yml"))
}
