package config

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Run("Should load defaults when no environment is set", func(t *testing.T) {
		cfg, err := NewService().Load(context.Background())
		require.NoError(t, err)

		assert.Equal(t, "https://api.brainus.ai", cfg.API.BaseURL)
		assert.Equal(t, 3, cfg.Retry.MaxAttempts)
		assert.Equal(t, 500*time.Millisecond, cfg.Retry.BaseDelay)
		assert.Equal(t, 8000, cfg.Server.Port)
		assert.True(t, cfg.Cache.Enabled)
		assert.Equal(t, time.Hour, cfg.Cache.TTL)
	})

	t.Run("Should override defaults with environment variables", func(t *testing.T) {
		t.Setenv("BRAINUS_API_KEY", "sk-test-123")
		t.Setenv("BRAINUS_API_BASE_URL", "https://staging.brainus.ai")
		t.Setenv("BRAINUS_RETRY_MAX_ATTEMPTS", "5")
		t.Setenv("BRAINUS_SERVER_PORT", "9090")
		t.Setenv("BRAINUS_CACHE_TTL", "10m")

		cfg, err := NewService().Load(context.Background())
		require.NoError(t, err)

		assert.Equal(t, "sk-test-123", cfg.API.Key.Value())
		assert.Equal(t, "https://staging.brainus.ai", cfg.API.BaseURL)
		assert.Equal(t, 5, cfg.Retry.MaxAttempts)
		assert.Equal(t, 9090, cfg.Server.Port)
		assert.Equal(t, 10*time.Minute, cfg.Cache.TTL)
	})

	t.Run("Should fail validation on invalid values", func(t *testing.T) {
		t.Setenv("BRAINUS_RETRY_MAX_ATTEMPTS", "0")

		_, err := NewService().Load(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "validation")
	})

	t.Run("Should fail validation on invalid log level", func(t *testing.T) {
		t.Setenv("BRAINUS_RUNTIME_LOG_LEVEL", "loud")

		_, err := NewService().Load(context.Background())
		require.Error(t, err)
	})
}

func TestSensitiveString(t *testing.T) {
	t.Run("Should redact when printed", func(t *testing.T) {
		key := SensitiveString("sk-secret")
		assert.Equal(t, "[REDACTED]", key.String())
		assert.Equal(t, "sk-secret", key.Value())
	})

	t.Run("Should redact in JSON output", func(t *testing.T) {
		out, err := json.Marshal(struct {
			Key SensitiveString `json:"key"`
		}{Key: "sk-secret"})
		require.NoError(t, err)
		assert.False(t, strings.Contains(string(out), "sk-secret"))
	})

	t.Run("Should keep empty values empty", func(t *testing.T) {
		assert.Equal(t, "", SensitiveString("").String())
	})
}

func TestTransformEnvKey(t *testing.T) {
	t.Run("Should map section prefix to nested key", func(t *testing.T) {
		assert.Equal(t, "retry.max_attempts", transformEnvKey("RETRY_MAX_ATTEMPTS"))
		assert.Equal(t, "api.base_url", transformEnvKey("API_BASE_URL"))
		assert.Equal(t, "server.port", transformEnvKey("SERVER_PORT"))
	})

	t.Run("Should handle single-part keys", func(t *testing.T) {
		assert.Equal(t, "debug", transformEnvKey("DEBUG"))
		assert.Equal(t, "", transformEnvKey(""))
	})
}
