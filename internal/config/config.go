package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

const DefaultPath = "config.yml"

const EnvPrefix = "TASKBOARD"

type Config struct {
	API     APIConfig     `yaml:"api" mapstructure:"api"`
	Logging LoggingConfig `yaml:"logging" mapstructure:"logging"`
	UI      UIConfig      `yaml:"ui" mapstructure:"ui"`
	Export  ExportConfig  `yaml:"export" mapstructure:"export"`
}

type APIConfig struct {
	BaseURL string        `yaml:"base_url" mapstructure:"base_url"`
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout"` // 0 = no timeout
}

type LoggingConfig struct {
	Development bool   `yaml:"development" mapstructure:"development"`
	Level       string `yaml:"level" mapstructure:"level"`
}

type UIConfig struct {
	Theme string `yaml:"theme" mapstructure:"theme"` // "light" or "dark"
}

type ExportConfig struct {
	Dir string `yaml:"dir" mapstructure:"dir"`
}

func Default() *Config {
	return &Config{
		API:     APIConfig{BaseURL: "http://127.0.0.1:5000"},
		Logging: LoggingConfig{Level: "warn"},
		UI:      UIConfig{Theme: "light"},
		Export:  ExportConfig{Dir: "."},
	}
}

// Load reads path over the defaults and applies TASKBOARD_* environment
// overrides, e.g. TASKBOARD_API_BASE_URL. A missing file is not an error.
func Load(path string) (*Config, error) {
	def := Default()

	v := viper.New()
	v.SetDefault("api.base_url", def.API.BaseURL)
	v.SetDefault("api.timeout", def.API.Timeout)
	v.SetDefault("logging.development", def.Logging.Development)
	v.SetDefault("logging.level", def.Logging.Level)
	v.SetDefault("ui.theme", def.UI.Theme)
	v.SetDefault("export.dir", def.Export.Dir)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil && !isNotExist(err) {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &cfg, nil
}

// Save writes cfg as YAML, creating the parent directory if needed.
func Save(path string, cfg *Config) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config dir: %w", err)
		}
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer file.Close()

	encoder := yaml.NewEncoder(file)
	encoder.SetIndent(2)
	if err := encoder.Encode(cfg); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return encoder.Close()
}

func isNotExist(err error) bool {
	var notFound viper.ConfigFileNotFoundError
	return errors.Is(err, os.ErrNotExist) || errors.As(err, &notFound)
}
