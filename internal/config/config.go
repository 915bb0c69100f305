package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	DefaultEndpoint = "https://api.openai.com/v1/chat/completions"
	DefaultModel    = "gpt-3.5-turbo"

	// TokenHelpURL is where users obtain an API token.
	TokenHelpURL = "https://platform.openai.com/account/api-keys"
)

// ErrMissingToken is returned by Validate when no API token is configured.
var ErrMissingToken = errors.New("api token is empty")

type Config struct {
	APIToken     string        `mapstructure:"api_token"`
	Endpoint     string        `mapstructure:"endpoint"`
	Model        string        `mapstructure:"model"`
	Timeout      time.Duration `mapstructure:"timeout"`
	TelemetryURL string        `mapstructure:"telemetry_url"`
	Color        bool          `mapstructure:"color"`
	Log          LogConfig     `mapstructure:"log"`
	Mock         MockConfig    `mapstructure:"mock"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
	File  string `mapstructure:"file"`
}

// MockConfig configures the local OpenAI-compatible endpoint.
type MockConfig struct {
	Address     string   `mapstructure:"address"`
	ModelsPath  string   `mapstructure:"models_path"`
	BannedWords []string `mapstructure:"banned_words"`
}

// Load reads configuration from file, a .env file and the environment.
// An empty file searches config.yaml in the usual locations; a missing file is not an error.
func Load(file string) (*Config, error) {
	// .env is optional
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()
	v.SetDefault("endpoint", DefaultEndpoint)
	v.SetDefault("model", DefaultModel)
	v.SetDefault("timeout", time.Duration(0))
	v.SetDefault("telemetry_url", "")
	v.SetDefault("color", true)
	v.SetDefault("log.level", "warn")
	v.SetDefault("log.file", "")
	v.SetDefault("mock.address", ":8080")
	v.SetDefault("mock.models_path", "")
	v.SetDefault("mock.banned_words", []string{"banned"})

	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		v.AddConfigPath("$HOME/.conschat")
	}

	// allow environment variables like CONSCHAT_API_TOKEN or CONSCHAT_LOG_LEVEL
	v.SetEnvPrefix("CONSCHAT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv("api_token", "CONSCHAT_API_TOKEN", "OPENAI_API_TOKEN", "OPENAI_API_KEY"); err != nil {
		return nil, err
	}

	if err := v.ReadInConfig(); err != nil {
		// don't fail if config file is missing, allow env-only config
		var nf viper.ConfigFileNotFoundError
		if file != "" || !errors.As(err, &nf) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	c.APIToken = strings.TrimSpace(c.APIToken)
	return &c, nil
}

// Validate reports configuration that prevents a chat session from starting.
func (c *Config) Validate() error {
	if c.APIToken == "" {
		return ErrMissingToken
	}
	if c.Endpoint == "" {
		return errors.New("endpoint is empty")
	}
	if c.Model == "" {
		return errors.New("model is empty")
	}
	return nil
}
