// Package config loads and validates the webpilot configuration from a
// YAML file. Missing files are not an error; every field has a working
// default so the binaries run with no config at all.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/gobwas/glob"
	"gopkg.in/yaml.v3"
)

// Duration wraps time.Duration so config files can use values like
// "30s" or "500ms"; the yaml decoder has no native duration support.
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	*d = Duration(parsed)
	return nil
}

// Std returns the value as a standard time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// ServerConfig configures the tool server and its browser driver.
type ServerConfig struct {
	// MaxSessions caps concurrently live browser sessions.
	MaxSessions int `yaml:"max_sessions"`

	// Headless controls whether browsers run without a visible window.
	Headless bool `yaml:"headless"`

	// ViewportWidth and ViewportHeight set the page viewport.
	ViewportWidth  int `yaml:"viewport_width"`
	ViewportHeight int `yaml:"viewport_height"`

	// NavTimeout bounds navigation and other page operations.
	NavTimeout Duration `yaml:"nav_timeout"`

	// InstallBrowsers downloads the browser binaries at startup.
	InstallBrowsers bool `yaml:"install_browsers"`

	// AllowedURLPatterns restricts launch_browser targets. Patterns use
	// glob syntax, e.g. "https://*.example.com/*". Empty allows all.
	AllowedURLPatterns []string `yaml:"allowed_url_patterns"`
}

// PlannerConfig configures the planning client.
type PlannerConfig struct {
	// Model is the chat model asked to plan the task.
	Model string `yaml:"model"`

	// BaseURL is the OpenAI-compatible endpoint serving the model.
	BaseURL string `yaml:"base_url"`

	// APIKey authenticates against the endpoint. Empty for local servers.
	APIKey string `yaml:"api_key"`

	// StepDelay is the pause between executed plan steps, giving pages
	// time to settle.
	StepDelay Duration `yaml:"step_delay"`

	// MaxSteps caps how many plan steps are executed.
	MaxSteps int `yaml:"max_steps"`

	// MaxResultTokens trims long tool results before they are logged or
	// fed back, measured in model tokens.
	MaxResultTokens int `yaml:"max_result_tokens"`
}

// Config is the root configuration.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Planner PlannerConfig `yaml:"planner"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			MaxSessions:    10,
			Headless:       true,
			ViewportWidth:  1920,
			ViewportHeight: 1080,
			NavTimeout:     Duration(30 * time.Second),
		},
		Planner: PlannerConfig{
			Model:           "llama3.2",
			BaseURL:         "http://localhost:11434/v1",
			StepDelay:       Duration(3 * time.Second),
			MaxSteps:        25,
			MaxResultTokens: 2000,
		},
	}
}

// Load reads the config file at path, overlaying it on the defaults.
// A missing file returns the defaults; a malformed file is an error.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Server.MaxSessions < 1 {
		return fmt.Errorf("server.max_sessions must be at least 1")
	}
	if c.Server.ViewportWidth < 1 || c.Server.ViewportHeight < 1 {
		return fmt.Errorf("server viewport dimensions must be positive")
	}
	if c.Server.NavTimeout <= 0 {
		return fmt.Errorf("server.nav_timeout must be positive")
	}
	if c.Planner.MaxSteps < 1 {
		return fmt.Errorf("planner.max_steps must be at least 1")
	}
	if c.Planner.StepDelay < 0 {
		return fmt.Errorf("planner.step_delay cannot be negative")
	}
	if _, err := c.CompileAllowlist(); err != nil {
		return err
	}
	return nil
}

// CompileAllowlist compiles the URL patterns. Returns nil for an empty
// allowlist, which permits every URL.
func (c *Config) CompileAllowlist() ([]glob.Glob, error) {
	if len(c.Server.AllowedURLPatterns) == 0 {
		return nil, nil
	}
	globs := make([]glob.Glob, 0, len(c.Server.AllowedURLPatterns))
	for _, pattern := range c.Server.AllowedURLPatterns {
		g, err := glob.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid URL pattern %q: %w", pattern, err)
		}
		globs = append(globs, g)
	}
	return globs, nil
}
