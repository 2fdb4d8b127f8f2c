package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// EnvPrefix is the prefix for all configuration environment variables.
const EnvPrefix = "TRADELENS"

// Config represents the complete application configuration.
type Config struct {
	Server   ServerConfig   `yaml:"server" envconfig:"SERVER"`
	Logging  LoggingConfig  `yaml:"logging" envconfig:"LOGGING"`
	Upload   UploadConfig   `yaml:"upload" envconfig:"UPLOAD"`
	Security SecurityConfig `yaml:"security" envconfig:"SECURITY"`
}

// ServerConfig contains HTTP server configuration.
type ServerConfig struct {
	Port            int           `yaml:"port" envconfig:"PORT" default:"8080" validate:"gt=0,lte=65535"`
	ReadTimeout     time.Duration `yaml:"read_timeout" envconfig:"READ_TIMEOUT" default:"15s"`
	WriteTimeout    time.Duration `yaml:"write_timeout" envconfig:"WRITE_TIMEOUT" default:"15s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" envconfig:"IDLE_TIMEOUT" default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" envconfig:"SHUTDOWN_TIMEOUT" default:"30s"`
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" default:"info" validate:"oneof=debug info warn error"`
	Output   string `yaml:"output" envconfig:"OUTPUT" default:"console" validate:"oneof=console file both"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH" default:"logs/tradelens.log"`
}

// UploadConfig contains the upload directory and size limits.
type UploadConfig struct {
	Dir          string `yaml:"dir" envconfig:"DIR" default:"uploads" validate:"required"`
	MaxSizeBytes int64  `yaml:"max_size_bytes" envconfig:"MAX_SIZE_BYTES" default:"16777216" validate:"gt=0"`
}

// SecurityConfig contains rate limiting configuration.
type SecurityConfig struct {
	RateLimit RateLimitConfig `yaml:"rate_limit" envconfig:"RATE_LIMIT"`
}

// RateLimitConfig contains rate limiting configuration.
type RateLimitConfig struct {
	Enabled bool    `yaml:"enabled" envconfig:"ENABLED" default:"true"`
	RPS     float64 `yaml:"rps" envconfig:"RPS" default:"50" validate:"gte=0"`
	Burst   int     `yaml:"burst" envconfig:"BURST" default:"25" validate:"gte=0"`
}

// Load loads configuration from the environment and, if present, the
// config file named by TRADELENS_CONFIG_FILE (default config.yaml).
func Load() (*Config, error) {
	var cfg Config

	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	configFile := os.Getenv(EnvPrefix + "_CONFIG_FILE")
	if configFile == "" {
		configFile = "config.yaml"
	}
	if _, err := os.Stat(configFile); err == nil {
		fileCfg, err := loadFromFile(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
		cfg = mergeConfigs(*fileCfg, cfg)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &cfg, nil
}

// Validate checks the struct-level validation tags.
func (c *Config) Validate() error {
	return validator.New().Struct(c)
}

// EnsureDirectories creates the upload and log directories if missing.
func (c *Config) EnsureDirectories() error {
	dirs := []string{c.Upload.Dir}
	if c.Logging.Output != "console" {
		dirs = append(dirs, filepath.Dir(c.Logging.FilePath))
	}
	for _, d := range dirs {
		if err := os.MkdirAll(d, 0o755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", d, err)
		}
	}
	return nil
}

// loadFromFile loads configuration from a YAML file.
func loadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// mergeConfigs merges file config with env config, env taking precedence.
// envconfig has already applied defaults, so a file value wins only where
// the env left the default in place and the file sets something else.
func mergeConfigs(fileCfg, envCfg Config) Config {
	out := envCfg
	if fileCfg.Server.Port != 0 && !isEnvSet("SERVER_PORT") {
		out.Server.Port = fileCfg.Server.Port
	}
	if fileCfg.Logging.Level != "" && !isEnvSet("LOGGING_LEVEL") {
		out.Logging.Level = fileCfg.Logging.Level
	}
	if fileCfg.Logging.Output != "" && !isEnvSet("LOGGING_OUTPUT") {
		out.Logging.Output = fileCfg.Logging.Output
	}
	if fileCfg.Logging.FilePath != "" && !isEnvSet("LOGGING_FILE_PATH") {
		out.Logging.FilePath = fileCfg.Logging.FilePath
	}
	if fileCfg.Upload.Dir != "" && !isEnvSet("UPLOAD_DIR") {
		out.Upload.Dir = fileCfg.Upload.Dir
	}
	if fileCfg.Upload.MaxSizeBytes != 0 && !isEnvSet("UPLOAD_MAX_SIZE_BYTES") {
		out.Upload.MaxSizeBytes = fileCfg.Upload.MaxSizeBytes
	}
	if fileCfg.Security.RateLimit.RPS != 0 && !isEnvSet("SECURITY_RATE_LIMIT_RPS") {
		out.Security.RateLimit.RPS = fileCfg.Security.RateLimit.RPS
	}
	if fileCfg.Security.RateLimit.Burst != 0 && !isEnvSet("SECURITY_RATE_LIMIT_BURST") {
		out.Security.RateLimit.Burst = fileCfg.Security.RateLimit.Burst
	}
	return out
}

func isEnvSet(suffix string) bool {
	_, ok := os.LookupEnv(EnvPrefix + "_" + suffix)
	return ok
}
