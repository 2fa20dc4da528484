package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var configKeys = []string{
	"DISCORD_TOKEN", "GUILD_ID", "PORT", "CHALLENGE_TTL", "CHALLENGE_MODE",
	"TICKET_CLOSE_DELAY", "NATS_SERVERS", "NATS_SUBJECT_PREFIX", "OTEL_ENABLED",
	"OTEL_EXPORTER_TYPE", "OTEL_EXPORTER_OTLP_ENDPOINT", "OTEL_SERVICE_NAME",
	"OTEL_EXPORT_INTERVAL_MS", "LOG_LEVEL", "LOG_FORMAT", "ENVIRONMENT", "CONFIG_FILE",
}

func clearEnv(t *testing.T) {
	for _, key := range configKeys {
		t.Setenv(key, "")
	}
}

func writeFile(t *testing.T, name, content string) string {
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("DISCORD_TOKEN", "token")

	cfg, err := Load(LoadOptions{})

	require.NoError(t, err)
	assert.Equal(t, "token", cfg.DiscordToken)
	assert.Equal(t, 8000, cfg.HealthPort)
	assert.Equal(t, 3*time.Minute, cfg.ChallengeTTL)
	assert.Equal(t, ChallengeModeDM, cfg.ChallengeMode)
	assert.Equal(t, 3*time.Second, cfg.TicketCloseDelay)
	assert.Equal(t, []string{"🔴", "🟢", "🔵", "🟡", "🟣"}, cfg.RolePalette)
	assert.Equal(t, "inncoin", cfg.NATSSubjectPrefix)
	assert.False(t, cfg.OTel.Enabled)
	assert.Equal(t, "development", cfg.Environment)
}

func TestLoad_Environment(t *testing.T) {
	clearEnv(t)
	t.Setenv("DISCORD_TOKEN", "token")
	t.Setenv("GUILD_ID", "guild-1")
	t.Setenv("PORT", "9100")
	t.Setenv("CHALLENGE_TTL", "90s")
	t.Setenv("CHALLENGE_MODE", "choice")
	t.Setenv("OTEL_ENABLED", "true")
	t.Setenv("OTEL_EXPORTER_TYPE", "none")

	cfg, err := Load(LoadOptions{})

	require.NoError(t, err)
	assert.Equal(t, "guild-1", cfg.GuildID)
	assert.Equal(t, 9100, cfg.HealthPort)
	assert.Equal(t, 90*time.Second, cfg.ChallengeTTL)
	assert.Equal(t, ChallengeModeChoice, cfg.ChallengeMode)
	assert.True(t, cfg.OTel.Enabled)
	assert.Equal(t, "none", cfg.OTel.ExporterType)
}

func TestLoad_EnvFile(t *testing.T) {
	clearEnv(t)
	path := writeFile(t, "bot.env", "DISCORD_TOKEN=from-file\nGUILD_ID=guild-9\n")
	// godotenv never overrides variables already present in the process
	// environment, so drop the empty ones set by clearEnv.
	os.Unsetenv("DISCORD_TOKEN")
	os.Unsetenv("GUILD_ID")
	t.Cleanup(func() {
		os.Unsetenv("DISCORD_TOKEN")
		os.Unsetenv("GUILD_ID")
	})

	cfg, err := Load(LoadOptions{EnvFile: path})

	require.NoError(t, err)
	assert.Equal(t, "from-file", cfg.DiscordToken)
	assert.Equal(t, "guild-9", cfg.GuildID)
}

func TestLoad_MissingEnvFile(t *testing.T) {
	clearEnv(t)

	_, err := Load(LoadOptions{EnvFile: filepath.Join(t.TempDir(), "missing.env")})

	assert.Error(t, err)
}

func TestLoad_YAMLOverlay(t *testing.T) {
	clearEnv(t)
	t.Setenv("DISCORD_TOKEN", "token")
	t.Setenv("GUILD_ID", "from-env")
	path := writeFile(t, "inncoin.yaml", `
guild_id: from-yaml
challenge_ttl: 5m
ticket_close_delay: 10s
role_palette: ["A", "B"]
otel:
  enabled: true
  exporter_type: otlp
  otlp_endpoint: collector:4317
`)

	cfg, err := Load(LoadOptions{ConfigFile: path})

	require.NoError(t, err)
	assert.Equal(t, "from-yaml", cfg.GuildID)
	assert.Equal(t, 5*time.Minute, cfg.ChallengeTTL)
	assert.Equal(t, 10*time.Second, cfg.TicketCloseDelay)
	assert.Equal(t, []string{"A", "B"}, cfg.RolePalette)
	assert.True(t, cfg.OTel.Enabled)
	assert.Equal(t, "otlp", cfg.OTel.ExporterType)
	assert.Equal(t, "collector:4317", cfg.OTel.OTLPEndpoint)
	// untouched keys keep their defaults
	assert.Equal(t, "inncoin-bot", cfg.OTel.ServiceName)
	assert.Equal(t, 15000, cfg.OTel.ExportIntervalMillis)
}

func TestLoad_ConfigFileFromEnvironment(t *testing.T) {
	clearEnv(t)
	t.Setenv("DISCORD_TOKEN", "token")
	t.Setenv("CONFIG_FILE", writeFile(t, "inncoin.yaml", "health_port: 8123\n"))

	cfg, err := Load(LoadOptions{})

	require.NoError(t, err)
	assert.Equal(t, 8123, cfg.HealthPort)
}

func TestLoad_Validation(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"token required", map[string]string{}},
		{"bad ttl", map[string]string{"DISCORD_TOKEN": "t", "CHALLENGE_TTL": "soon"}},
		{"negative ttl", map[string]string{"DISCORD_TOKEN": "t", "CHALLENGE_TTL": "-1s"}},
		{"zero close delay", map[string]string{"DISCORD_TOKEN": "t", "TICKET_CLOSE_DELAY": "0s"}},
		{"unknown mode", map[string]string{"DISCORD_TOKEN": "t", "CHALLENGE_MODE": "captcha"}},
		{"bad port", map[string]string{"DISCORD_TOKEN": "t", "PORT": "http"}},
		{"port out of range", map[string]string{"DISCORD_TOKEN": "t", "PORT": "70000"}},
		{"unknown exporter", map[string]string{"DISCORD_TOKEN": "t", "OTEL_ENABLED": "true", "OTEL_EXPORTER_TYPE": "jaeger"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for key, value := range tt.env {
				t.Setenv(key, value)
			}

			_, err := Load(LoadOptions{})

			assert.Error(t, err)
		})
	}
}

func TestLoad_TestEnvironmentSkipsToken(t *testing.T) {
	clearEnv(t)
	t.Setenv("ENVIRONMENT", "test")

	cfg, err := Load(LoadOptions{})

	require.NoError(t, err)
	assert.Empty(t, cfg.DiscordToken)
}

func TestGlobalConfig(t *testing.T) {
	ResetConfig()
	t.Cleanup(ResetConfig)

	custom := NewTestConfig()
	custom.GuildID = "guild-42"
	SetTestConfig(custom)

	assert.Same(t, custom, Get())

	ResetConfig()
	clearEnv(t)
	t.Setenv("ENVIRONMENT", "test")
	assert.Equal(t, "test", Get().Environment)
}
