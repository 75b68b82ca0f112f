// Package config loads warplan settings from defaults, an optional YAML
// file, a .env file, WARPLAN_* environment variables and bound CLI flags.
//
// Credentials are never read from the YAML defaults; they come from the
// environment (or the .env file) as GOOGLE_API_KEY, OPENAI_API_KEY or
// ANTHROPIC_API_KEY, or from the WARPLAN_<PROVIDER>_API_KEY variants.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Supported providers.
const (
	ProviderGoogle    = "google"
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
)

// EnvPrefix is prepended to every environment variable viper reads.
const EnvPrefix = "WARPLAN"

var (
	// ErrMissingCredential is returned when no API key is configured for
	// the selected provider.
	ErrMissingCredential = errors.New("missing credential")

	// ErrUnknownProvider is returned for a provider name that is not supported.
	ErrUnknownProvider = errors.New("unknown provider")
)

// Config is the resolved configuration of one run.
type Config struct {
	Provider string `mapstructure:"provider"`

	// Model overrides the provider's default model.
	Model string `mapstructure:"model"`

	// MapFile is a scenario YAML. Empty uses the built-in realm.
	MapFile string `mapstructure:"map"`

	MaxTokens int `mapstructure:"max_tokens"`

	// NativeTools offers the tools to the model as callable functions.
	NativeTools bool `mapstructure:"native_tools"`

	MetricsFile string `mapstructure:"metrics_file"`
	EventsFile  string `mapstructure:"events_file"`
	Trace       bool   `mapstructure:"trace"`

	Log LogConfig `mapstructure:"log"`

	// APIKey is resolved from the environment for Provider.
	APIKey string `mapstructure:"-"`
}

// LogConfig configures the zap logger.
type LogConfig struct {
	Level string `mapstructure:"level"`

	// File enables a rotated JSON log file in addition to stderr.
	File       string `mapstructure:"file"`
	MaxSize    int    `mapstructure:"max_size"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAge     int    `mapstructure:"max_age"`
	Compress   bool   `mapstructure:"compress"`
}

// Options controls where Load looks for settings.
type Options struct {
	// ConfigFile is an optional YAML file. It must exist when set.
	ConfigFile string

	// EnvFile is loaded into the process environment when it exists.
	// Variables already set are not overridden. Defaults to ".env".
	EnvFile string
}

// SetDefaults registers the default value of every key on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("provider", ProviderGoogle)
	v.SetDefault("model", "")
	v.SetDefault("map", "")
	v.SetDefault("max_tokens", 0)
	v.SetDefault("native_tools", false)
	v.SetDefault("metrics_file", "")
	v.SetDefault("events_file", "")
	v.SetDefault("trace", false)
	v.SetDefault("log.level", "warn")
	v.SetDefault("log.file", "")
	v.SetDefault("log.max_size", 10)
	v.SetDefault("log.max_backups", 3)
	v.SetDefault("log.max_age", 28)
	v.SetDefault("log.compress", false)
}

// Load resolves the configuration. v may already carry bound flags; a nil
// v starts from an empty viper instance.
func Load(v *viper.Viper, opts Options) (*Config, error) {
	if v == nil {
		v = viper.New()
	}

	envFile := opts.EnvFile
	if envFile == "" {
		envFile = ".env"
	}
	if fileExist(envFile) {
		if err := godotenv.Load(envFile); err != nil {
			return nil, fmt.Errorf("failed to load %s: %w", envFile, err)
		}
	}

	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if opts.ConfigFile != "" {
		if !fileExist(opts.ConfigFile) {
			return nil, fmt.Errorf("config file not found: %s", opts.ConfigFile)
		}
		v.SetConfigFile(opts.ConfigFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	cfg.Provider = strings.ToLower(strings.TrimSpace(cfg.Provider))
	switch cfg.Provider {
	case ProviderGoogle, ProviderOpenAI, ProviderAnthropic:
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownProvider, cfg.Provider)
	}

	key, err := APIKey(cfg.Provider)
	if err != nil {
		return nil, err
	}
	cfg.APIKey = key

	return &cfg, nil
}

// APIKey returns the credential for provider from the environment.
// WARPLAN_<PROVIDER>_API_KEY takes precedence over the provider's usual
// variable name.
func APIKey(provider string) (string, error) {
	names := credentialVars(provider)
	if len(names) == 0 {
		return "", fmt.Errorf("%w: %q", ErrUnknownProvider, provider)
	}
	for _, name := range names {
		if key := strings.TrimSpace(os.Getenv(name)); key != "" {
			return key, nil
		}
	}
	return "", fmt.Errorf("%w: set %s", ErrMissingCredential, strings.Join(names, " or "))
}

func credentialVars(provider string) []string {
	var std string
	switch provider {
	case ProviderGoogle:
		std = "GOOGLE_API_KEY"
	case ProviderOpenAI:
		std = "OPENAI_API_KEY"
	case ProviderAnthropic:
		std = "ANTHROPIC_API_KEY"
	default:
		return nil
	}
	return []string{EnvPrefix + "_" + std, std}
}

func fileExist(name string) bool {
	_, err := os.Stat(name)
	return err == nil
}
