package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
)

// clearCredentials blanks every credential variable for the test.
func clearCredentials(t *testing.T) {
	t.Helper()
	for _, p := range []string{ProviderGoogle, ProviderOpenAI, ProviderAnthropic} {
		for _, name := range credentialVars(p) {
			t.Setenv(name, "")
			os.Unsetenv(name)
		}
	}
}

func noEnvFile(t *testing.T) Options {
	return Options{EnvFile: filepath.Join(t.TempDir(), "missing.env")}
}

func TestLoad_Defaults(t *testing.T) {
	clearCredentials(t)
	t.Setenv("GOOGLE_API_KEY", "test-google-key")

	cfg, err := Load(nil, noEnvFile(t))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Provider != ProviderGoogle {
		t.Errorf("expected provider google, got %q", cfg.Provider)
	}
	if cfg.APIKey != "test-google-key" {
		t.Errorf("expected key from GOOGLE_API_KEY, got %q", cfg.APIKey)
	}
	if cfg.Log.Level != "warn" {
		t.Errorf("expected default log level warn, got %q", cfg.Log.Level)
	}
	if cfg.Log.MaxSize != 10 {
		t.Errorf("expected default max size 10, got %d", cfg.Log.MaxSize)
	}
}

func TestLoad_MissingCredential(t *testing.T) {
	clearCredentials(t)

	_, err := Load(nil, noEnvFile(t))
	if !errors.Is(err, ErrMissingCredential) {
		t.Errorf("expected ErrMissingCredential, got %v", err)
	}
}

func TestLoad_UnknownProvider(t *testing.T) {
	clearCredentials(t)
	t.Setenv("WARPLAN_PROVIDER", "carrier-pigeon")

	_, err := Load(nil, noEnvFile(t))
	if !errors.Is(err, ErrUnknownProvider) {
		t.Errorf("expected ErrUnknownProvider, got %v", err)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	clearCredentials(t)
	t.Setenv("WARPLAN_PROVIDER", "OpenAI")
	t.Setenv("WARPLAN_MODEL", "gpt-4o")
	t.Setenv("WARPLAN_LOG_LEVEL", "debug")
	t.Setenv("OPENAI_API_KEY", "plain-key")
	t.Setenv("WARPLAN_OPENAI_API_KEY", "prefixed-key")

	cfg, err := Load(nil, noEnvFile(t))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Provider != ProviderOpenAI {
		t.Errorf("expected provider openai, got %q", cfg.Provider)
	}
	if cfg.Model != "gpt-4o" {
		t.Errorf("expected model gpt-4o, got %q", cfg.Model)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("expected log level debug, got %q", cfg.Log.Level)
	}
	if cfg.APIKey != "prefixed-key" {
		t.Errorf("expected prefixed key to win, got %q", cfg.APIKey)
	}
}

func TestLoad_ConfigFile(t *testing.T) {
	clearCredentials(t)
	t.Setenv("ANTHROPIC_API_KEY", "test-anthropic-key")

	dir := t.TempDir()
	path := filepath.Join(dir, "warplan.yaml")
	content := `provider: anthropic
map: realm.yaml
max_tokens: 2048
log:
  level: info
  file: warplan.log
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	cfg, err := Load(nil, Options{ConfigFile: path, EnvFile: filepath.Join(dir, "none.env")})
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Provider != ProviderAnthropic {
		t.Errorf("expected provider anthropic, got %q", cfg.Provider)
	}
	if cfg.MapFile != "realm.yaml" {
		t.Errorf("expected map realm.yaml, got %q", cfg.MapFile)
	}
	if cfg.MaxTokens != 2048 {
		t.Errorf("expected max tokens 2048, got %d", cfg.MaxTokens)
	}
	if cfg.Log.Level != "info" || cfg.Log.File != "warplan.log" {
		t.Errorf("unexpected log config: %+v", cfg.Log)
	}
}

func TestLoad_MissingConfigFile(t *testing.T) {
	clearCredentials(t)
	t.Setenv("GOOGLE_API_KEY", "test-google-key")

	_, err := Load(nil, Options{ConfigFile: filepath.Join(t.TempDir(), "nope.yaml")})
	if err == nil {
		t.Error("expected error for missing config file")
	}
}

func TestLoad_EnvFile(t *testing.T) {
	clearCredentials(t)
	t.Setenv("WARPLAN_MAP", "")
	os.Unsetenv("WARPLAN_MAP")

	path := filepath.Join(t.TempDir(), ".env")
	content := "GOOGLE_API_KEY=dotenv-key\nWARPLAN_MAP=dotenv-realm.yaml\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	cfg, err := Load(nil, Options{EnvFile: path})
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.APIKey != "dotenv-key" {
		t.Errorf("expected key from .env, got %q", cfg.APIKey)
	}
	if cfg.MapFile != "dotenv-realm.yaml" {
		t.Errorf("expected map from .env, got %q", cfg.MapFile)
	}
}

func TestLoad_BoundValuesWin(t *testing.T) {
	clearCredentials(t)
	t.Setenv("ANTHROPIC_API_KEY", "test-anthropic-key")
	t.Setenv("WARPLAN_PROVIDER", "google")

	v := viper.New()
	v.Set("provider", "anthropic")

	cfg, err := Load(v, noEnvFile(t))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Provider != ProviderAnthropic {
		t.Errorf("expected explicit value to win over env, got %q", cfg.Provider)
	}
}
