// Package config resolves settings from, in increasing precedence: built-in
// defaults, vendor API key variables, a TOML file, and JURUSAN_*
// environment variables. Command flags are applied last by the caller.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/abhisek/jurusan/internal/inference"
	"github.com/abhisek/jurusan/internal/llm"
)

// Config is the resolved configuration.
type Config struct {
	// Path is the config file that was read, or "" if none.
	Path string

	// DB is the SQLite path; "" means the default data location.
	DB string

	Inference inference.Options
	LLM       llm.Config

	// llmFile is the [llm] table read from Path. Its api_key, model, and
	// base_url bind to whichever provider is finally selected.
	llmFile LLMFile
}

// File mirrors the TOML config file.
type File struct {
	DB        string        `toml:"db"`
	Inference InferenceFile `toml:"inference"`
	LLM       LLMFile       `toml:"llm"`
}

// InferenceFile is the [inference] table.
type InferenceFile struct {
	MissingEvidence string `toml:"missing_evidence"`
	Selector        string `toml:"selector"`
}

// LLMFile is the [llm] table. APIKey and BaseURL apply to the selected
// provider.
type LLMFile struct {
	Provider    string   `toml:"provider"`
	Model       string   `toml:"model"`
	APIKey      string   `toml:"api_key"`
	BaseURL     string   `toml:"base_url"`
	Timeout     Duration `toml:"timeout"`
	MaxAttempts int      `toml:"max_attempts"`
}

// Duration is a time.Duration written as a string such as "45s".
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Inference: inference.DefaultOptions(),
		LLM:       llm.DefaultConfig(),
	}
}

// DefaultPath returns the config file location used when none is given:
// $JURUSAN_CONFIG, else $XDG_CONFIG_HOME/jurusan/config.toml, else
// ~/.config/jurusan/config.toml.
func DefaultPath() (string, error) {
	if p := os.Getenv("JURUSAN_CONFIG"); p != "" {
		return p, nil
	}
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "jurusan", "config.toml"), nil
}

// Load resolves the configuration. An explicit path must exist; the
// default path may be absent.
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		var err error
		if path, err = DefaultPath(); err != nil {
			return cfg, err
		}
		explicit = os.Getenv("JURUSAN_CONFIG") != ""
	}

	f, err := ReadFile(path)
	switch {
	case err == nil:
		cfg.Path = path
		if err := cfg.apply(f); err != nil {
			return cfg, fmt.Errorf("%s: %w", path, err)
		}
	case errors.Is(err, fs.ErrNotExist) && !explicit:
	default:
		return cfg, err
	}

	if err := cfg.applyEnv(); err != nil {
		return cfg, err
	}
	if err := cfg.resolveLLM(""); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// ReadFile decodes a TOML config file. Unknown keys are an error.
func ReadFile(path string) (*File, error) {
	var f File
	md, err := toml.DecodeFile(path, &f)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		slices.Sort(keys)
		return nil, fmt.Errorf("read config %s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	return &f, nil
}

// apply overlays the file's settings. The [llm] table is kept for
// resolveLLM, which binds it once the provider is known.
func (c *Config) apply(f *File) error {
	if f.DB != "" {
		c.DB = f.DB
	}
	if err := c.SetMissingEvidence(f.Inference.MissingEvidence); err != nil {
		return err
	}
	if err := c.SetSelector(f.Inference.Selector); err != nil {
		return err
	}
	c.llmFile = f.LLM
	return nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("JURUSAN_DB"); v != "" {
		c.DB = v
	}
	if err := c.SetMissingEvidence(os.Getenv("JURUSAN_MISSING_EVIDENCE")); err != nil {
		return fmt.Errorf("JURUSAN_MISSING_EVIDENCE: %w", err)
	}
	if err := c.SetSelector(os.Getenv("JURUSAN_SELECTOR")); err != nil {
		return fmt.Errorf("JURUSAN_SELECTOR: %w", err)
	}
	return nil
}

// SetProvider switches the LLM provider and re-resolves the LLM settings
// so the config file's api_key, model, and base_url follow the new
// provider. Call it before SetModel. An empty name is a no-op.
func (c *Config) SetProvider(name string) error {
	if name == "" {
		return nil
	}
	return c.resolveLLM(name)
}

// resolveLLM builds the LLM settings: defaults, vendor key discovery, the
// provider (file, then JURUSAN_LLM_PROVIDER, then provider), the file's
// [llm] values bound to that provider, and JURUSAN_* overrides.
func (c *Config) resolveLLM(provider string) error {
	c.LLM = llm.DefaultConfig()
	if discovered, ok := llm.DiscoverConfig(); ok {
		c.LLM = discovered
	}

	f := c.llmFile
	if f.Provider != "" {
		c.LLM.Provider = f.Provider
	}
	if v := os.Getenv("JURUSAN_LLM_PROVIDER"); v != "" {
		c.LLM.Provider = v
	}
	if provider != "" {
		c.LLM.Provider = provider
	}

	if f.Model != "" {
		c.LLM.SetModel(f.Model)
	}
	if f.APIKey != "" {
		c.setAPIKey(f.APIKey)
	}
	if f.BaseURL != "" {
		switch c.LLM.Provider {
		case llm.ProviderOpenAI:
			c.LLM.OpenAI.BaseURL = f.BaseURL
		case llm.ProviderOpenRouter:
			c.LLM.OpenRouter.BaseURL = f.BaseURL
		case llm.ProviderMock:
		default:
			return fmt.Errorf("%s: base_url is not supported for the %s provider", c.Path, c.LLM.Provider)
		}
	}
	if f.Timeout.Duration > 0 {
		c.LLM.Timeout = f.Timeout.Duration
	}
	if f.MaxAttempts > 0 {
		c.LLM.Retry.MaxAttempts = f.MaxAttempts
	}

	c.LLM.ApplyEnv()
	if provider != "" {
		c.LLM.Provider = provider
	}
	return nil
}

// SetMissingEvidence parses and applies a missing-evidence policy. An
// empty value leaves the current policy.
func (c *Config) SetMissingEvidence(v string) error {
	if v == "" {
		return nil
	}
	p, err := inference.ParseMissingEvidencePolicy(v)
	if err != nil {
		return err
	}
	c.Inference.MissingEvidence = p
	return nil
}

// SetSelector parses and applies a selector. An empty value leaves the
// current selector.
func (c *Config) SetSelector(v string) error {
	if v == "" {
		return nil
	}
	s, err := inference.ParseSelector(v)
	if err != nil {
		return err
	}
	c.Inference.Selector = s
	return nil
}

func (c *Config) setAPIKey(key string) {
	switch c.LLM.Provider {
	case llm.ProviderAnthropic:
		c.LLM.Anthropic.APIKey = key
	case llm.ProviderOpenAI:
		c.LLM.OpenAI.APIKey = key
	case llm.ProviderGemini:
		c.LLM.Gemini.APIKey = key
	case llm.ProviderOpenRouter:
		c.LLM.OpenRouter.APIKey = key
	}
}
