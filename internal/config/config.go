// Package config provides YAML-based configuration loading for Conductor.
package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config is the top-level Conductor configuration, loaded from conductor.yaml.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	DB       DBConfig       `yaml:"db"`
	LLM      LLMConfig      `yaml:"llm"`
	Vision   VisionConfig   `yaml:"vision"`
	Sessions SessionsConfig `yaml:"sessions"`
	Slack    SlackConfig    `yaml:"slack"`
	Discord  DiscordConfig  `yaml:"discord"`
}

// ServerConfig holds HTTP API server settings.
type ServerConfig struct {
	Port int `yaml:"port"`
}

// DBConfig holds database connection settings. Driver is either "sqlite"
// (Path) or "mysql" (Host/Port/User/Database).
type DBConfig struct {
	Driver   string `yaml:"driver"`
	Path     string `yaml:"path"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
}

// LLMConfig selects the intent classifier. Provider "gemini" uses the real
// Gemini API; "mock" uses the deterministic rule-based classifier.
type LLMConfig struct {
	Provider  string `yaml:"provider"`
	Model     string `yaml:"model"`
	APIKeyEnv string `yaml:"api_key_env"`
}

// VisionConfig selects the screenshot entity extractor. Defaults follow the
// LLM section so one API key serves both.
type VisionConfig struct {
	Provider  string `yaml:"provider"`
	Model     string `yaml:"model"`
	APIKeyEnv string `yaml:"api_key_env"`
}

// SessionsConfig controls conversation session retention.
type SessionsConfig struct {
	IdleTTLMinutes int    `yaml:"idle_ttl_minutes"`
	SweepCron      string `yaml:"sweep_cron"` // 5-field cron expression
}

// SlackConfig holds Slack bridge settings. Tokens are read from the named
// environment variables, never from the file itself.
type SlackConfig struct {
	AppTokenEnv string `yaml:"app_token_env"`
	BotTokenEnv string `yaml:"bot_token_env"`
	ChannelID   string `yaml:"channel_id"`
	DefaultPage string `yaml:"default_page"`
}

// DiscordConfig holds Discord bridge settings.
type DiscordConfig struct {
	TokenEnv    string `yaml:"token_env"`
	ChannelID   string `yaml:"channel_id"`
	DefaultPage string `yaml:"default_page"`
}

// Load reads a YAML config file from path and returns a validated Config.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	return Parse(data)
}

// Parse unmarshals YAML bytes into a validated Config.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config: parse: %w", err)
	}
	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Default returns a Config with all defaults applied, used when no config
// file exists (local sqlite file, mock classifier).
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// applyDefaults fills in derived and default values.
func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.DB.Driver == "" {
		c.DB.Driver = "sqlite"
	}
	if c.DB.Driver == "sqlite" && c.DB.Path == "" {
		c.DB.Path = "conductor.db"
	}
	if c.DB.Driver == "mysql" {
		if c.DB.Host == "" {
			c.DB.Host = "127.0.0.1"
		}
		if c.DB.Port == 0 {
			c.DB.Port = 3306
		}
		if c.DB.User == "" {
			c.DB.User = "root"
		}
		if c.DB.Database == "" {
			c.DB.Database = "conductor"
		}
	}
	if c.LLM.Provider == "" {
		c.LLM.Provider = "mock"
	}
	if c.LLM.Model == "" {
		c.LLM.Model = "gemini-2.0-flash"
	}
	if c.LLM.APIKeyEnv == "" {
		c.LLM.APIKeyEnv = "GEMINI_API_KEY"
	}
	if c.Vision.Provider == "" {
		c.Vision.Provider = c.LLM.Provider
	}
	if c.Vision.Model == "" {
		c.Vision.Model = c.LLM.Model
	}
	if c.Vision.APIKeyEnv == "" {
		c.Vision.APIKeyEnv = c.LLM.APIKeyEnv
	}
	if c.Sessions.IdleTTLMinutes == 0 {
		c.Sessions.IdleTTLMinutes = 120
	}
	if c.Sessions.SweepCron == "" {
		c.Sessions.SweepCron = "*/15 * * * *"
	}
	if c.Slack.AppTokenEnv == "" {
		c.Slack.AppTokenEnv = "SLACK_APP_TOKEN"
	}
	if c.Slack.BotTokenEnv == "" {
		c.Slack.BotTokenEnv = "SLACK_BOT_TOKEN"
	}
	if c.Slack.DefaultPage == "" {
		c.Slack.DefaultPage = "busDashboard"
	}
	if c.Discord.TokenEnv == "" {
		c.Discord.TokenEnv = "DISCORD_BOT_TOKEN"
	}
	if c.Discord.DefaultPage == "" {
		c.Discord.DefaultPage = "busDashboard"
	}
}

// validate checks that all required fields are present and consistent.
func (c *Config) validate() error {
	var errs []string
	switch c.DB.Driver {
	case "sqlite":
		if c.DB.Path == "" {
			errs = append(errs, "db.path is required for sqlite")
		}
	case "mysql":
		if c.DB.Database == "" {
			errs = append(errs, "db.database is required for mysql")
		}
	default:
		errs = append(errs, fmt.Sprintf("db.driver %q is not supported (sqlite or mysql)", c.DB.Driver))
	}
	switch c.LLM.Provider {
	case "gemini", "mock":
	default:
		errs = append(errs, fmt.Sprintf("llm.provider %q is not supported (gemini or mock)", c.LLM.Provider))
	}
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Sprintf("server.port %d is out of range", c.Server.Port))
	}
	if len(errs) > 0 {
		return fmt.Errorf("config: validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}
