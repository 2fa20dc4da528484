package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Challenge presentation modes
const (
	ChallengeModeDM     = "dm"
	ChallengeModeChoice = "choice"
)

// Config holds all application configuration
type Config struct {
	DiscordToken string `yaml:"discord_token"`
	GuildID      string `yaml:"guild_id"` // Guild the economy commands are registered to

	HealthPort int `yaml:"health_port"`

	ChallengeTTL     time.Duration `yaml:"challenge_ttl"`
	ChallengeMode    string        `yaml:"challenge_mode"`
	TicketCloseDelay time.Duration `yaml:"ticket_close_delay"`
	RolePalette      []string      `yaml:"role_palette"`

	NATSServers       string `yaml:"nats_servers"` // Empty disables event forwarding
	NATSSubjectPrefix string `yaml:"nats_subject_prefix"`

	OTel OTelConfig `yaml:"otel"`

	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`

	Environment string `yaml:"environment"` // "development", "production" or "test"
}

// OTelConfig configures the metrics exporter
type OTelConfig struct {
	Enabled              bool   `yaml:"enabled"`
	ExporterType         string `yaml:"exporter_type"` // console, otlp or none
	OTLPEndpoint         string `yaml:"otlp_endpoint"`
	ServiceName          string `yaml:"service_name"`
	ExportIntervalMillis int    `yaml:"export_interval_ms"`
}

// LoadOptions points the loader at optional files
type LoadOptions struct {
	// EnvFile is preloaded into the environment. When empty, ./.env is used if present.
	EnvFile string
	// ConfigFile is a YAML overlay. When empty, CONFIG_FILE is consulted.
	ConfigFile string
}

var (
	instance *Config
	once     sync.Once
	mu       sync.Mutex // Protects instance for test setup
)

// Get returns the global configuration, loading it from the environment on first use
func Get() *Config {
	mu.Lock()
	defer mu.Unlock()

	if instance != nil {
		return instance
	}

	once.Do(func() {
		var err error
		instance, err = Load(LoadOptions{})
		if err != nil {
			if os.Getenv("ENVIRONMENT") == "test" {
				instance = NewTestConfig()
			} else {
				panic(fmt.Sprintf("failed to load config: %v", err))
			}
		}
	})
	return instance
}

// Init loads the configuration with explicit options and installs it globally
func Init(opts LoadOptions) (*Config, error) {
	cfg, err := Load(opts)
	if err != nil {
		return nil, err
	}
	SetTestConfig(cfg)
	return cfg, nil
}

// Load builds a configuration from defaults, the environment and the YAML overlay
func Load(opts LoadOptions) (*Config, error) {
	if opts.EnvFile != "" {
		if err := godotenv.Load(opts.EnvFile); err != nil {
			return nil, fmt.Errorf("failed to load env file %s: %w", opts.EnvFile, err)
		}
	} else {
		// .env is optional
		_ = godotenv.Load()
	}

	config := defaults()
	if err := config.applyEnv(); err != nil {
		return nil, err
	}

	path := opts.ConfigFile
	if path == "" {
		path = os.Getenv("CONFIG_FILE")
	}
	if path != "" {
		if err := config.applyFile(path); err != nil {
			return nil, err
		}
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

func defaults() *Config {
	return &Config{
		HealthPort:        8000,
		ChallengeTTL:      3 * time.Minute,
		ChallengeMode:     ChallengeModeDM,
		TicketCloseDelay:  3 * time.Second,
		RolePalette:       []string{"🔴", "🟢", "🔵", "🟡", "🟣"},
		NATSSubjectPrefix: "inncoin",
		OTel: OTelConfig{
			ExporterType:         "console",
			OTLPEndpoint:         "localhost:4317",
			ServiceName:          "inncoin-bot",
			ExportIntervalMillis: 15000,
		},
		LogLevel:    "info",
		LogFormat:   "text",
		Environment: "development",
	}
}

func (c *Config) applyEnv() error {
	setString(&c.DiscordToken, "DISCORD_TOKEN")
	setString(&c.GuildID, "GUILD_ID")
	setString(&c.ChallengeMode, "CHALLENGE_MODE")
	setString(&c.NATSServers, "NATS_SERVERS")
	setString(&c.NATSSubjectPrefix, "NATS_SUBJECT_PREFIX")
	setString(&c.OTel.ExporterType, "OTEL_EXPORTER_TYPE")
	setString(&c.OTel.OTLPEndpoint, "OTEL_EXPORTER_OTLP_ENDPOINT")
	setString(&c.OTel.ServiceName, "OTEL_SERVICE_NAME")
	setString(&c.LogLevel, "LOG_LEVEL")
	setString(&c.LogFormat, "LOG_FORMAT")
	setString(&c.Environment, "ENVIRONMENT")

	if port := os.Getenv("PORT"); port != "" {
		parsed, err := strconv.Atoi(port)
		if err != nil {
			return fmt.Errorf("invalid PORT: %w", err)
		}
		c.HealthPort = parsed
	}
	if ttl := os.Getenv("CHALLENGE_TTL"); ttl != "" {
		parsed, err := time.ParseDuration(ttl)
		if err != nil {
			return fmt.Errorf("invalid CHALLENGE_TTL: %w", err)
		}
		c.ChallengeTTL = parsed
	}
	if delay := os.Getenv("TICKET_CLOSE_DELAY"); delay != "" {
		parsed, err := time.ParseDuration(delay)
		if err != nil {
			return fmt.Errorf("invalid TICKET_CLOSE_DELAY: %w", err)
		}
		c.TicketCloseDelay = parsed
	}
	if enabled := os.Getenv("OTEL_ENABLED"); enabled != "" {
		parsed, err := strconv.ParseBool(enabled)
		if err != nil {
			return fmt.Errorf("invalid OTEL_ENABLED: %w", err)
		}
		c.OTel.Enabled = parsed
	}
	if interval := os.Getenv("OTEL_EXPORT_INTERVAL_MS"); interval != "" {
		parsed, err := strconv.Atoi(interval)
		if err != nil {
			return fmt.Errorf("invalid OTEL_EXPORT_INTERVAL_MS: %w", err)
		}
		c.OTel.ExportIntervalMillis = parsed
	}
	return nil
}

// applyFile overlays the keys present in the YAML file
func (c *Config) applyFile(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("config file %s does not exist", path)
		}
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(raw, c); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}

// Validate checks the loaded values
func (c *Config) Validate() error {
	if c.Environment != "test" && c.DiscordToken == "" {
		return fmt.Errorf("DISCORD_TOKEN is required")
	}
	if c.ChallengeTTL <= 0 {
		return fmt.Errorf("challenge TTL must be positive, got %s", c.ChallengeTTL)
	}
	if c.TicketCloseDelay <= 0 {
		return fmt.Errorf("ticket close delay must be positive, got %s", c.TicketCloseDelay)
	}
	switch c.ChallengeMode {
	case ChallengeModeDM, ChallengeModeChoice:
	default:
		return fmt.Errorf("unknown challenge mode %q (expected %s or %s)", c.ChallengeMode, ChallengeModeDM, ChallengeModeChoice)
	}
	if c.HealthPort < 1 || c.HealthPort > 65535 {
		return fmt.Errorf("health port %d out of range", c.HealthPort)
	}
	for i, symbol := range c.RolePalette {
		if strings.TrimSpace(symbol) == "" {
			return fmt.Errorf("role palette entry %d is empty", i)
		}
	}
	if c.OTel.Enabled {
		switch c.OTel.ExporterType {
		case "console", "otlp", "none":
		default:
			return fmt.Errorf("unknown exporter type: %s", c.OTel.ExporterType)
		}
		if c.OTel.ExportIntervalMillis <= 0 {
			return fmt.Errorf("export interval must be positive, got %dms", c.OTel.ExportIntervalMillis)
		}
	}
	return nil
}

func setString(target *string, key string) {
	if value := os.Getenv(key); value != "" {
		*target = value
	}
}

// SetTestConfig installs cfg as the global configuration
func SetTestConfig(testConfig *Config) {
	mu.Lock()
	defer mu.Unlock()
	instance = testConfig
}

// ResetConfig forgets the global configuration
func ResetConfig() {
	mu.Lock()
	defer mu.Unlock()
	instance = nil
	once = sync.Once{}
}

// NewTestConfig returns defaults suitable for tests
func NewTestConfig() *Config {
	cfg := defaults()
	cfg.Environment = "test"
	cfg.DiscordToken = "test-token"
	return cfg
}
