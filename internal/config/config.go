// Package config builds the process configuration once at startup.
//
// Precedence, lowest first: Defaults, the optional YAML file, the
// optional .env file, and the process environment.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	// DefaultConfigFile is the path checked for YAML configuration.
	DefaultConfigFile = "devdash.yaml"
	// DefaultEnvFile is the path checked for KEY=VALUE overrides.
	DefaultEnvFile = ".env"
)

// Config is the full process configuration.
type Config struct {
	// ScanDir is the scan root. Every project is an immediate child.
	ScanDir string        `yaml:"scan_dir"`
	Server  ServerConfig  `yaml:"server"`
	Store   StoreConfig   `yaml:"store"`
	Logging LoggingConfig `yaml:"logging"`
	Ignore  IgnoreConfig  `yaml:"ignore"`
	Editor  EditorConfig  `yaml:"editor"`
}

// ServerConfig configures the REST API listener.
type ServerConfig struct {
	Host      string `yaml:"host"`
	Port      string `yaml:"port"`
	StaticDir string `yaml:"static_dir"`
}

// Addr returns host:port.
func (s ServerConfig) Addr() string {
	return s.Host + ":" + s.Port
}

// StoreConfig locates the SQLite database. An empty DBPath uses the
// store's default location.
type StoreConfig struct {
	DBPath string `yaml:"db_path"`
}

// LoggingConfig holds the slog level name.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// IgnoreConfig extends the static ignore set.
type IgnoreConfig struct {
	Patterns         []string `yaml:"patterns"`
	RespectGitignore bool     `yaml:"respect_gitignore"`
}

// EditorConfig controls which editors may be launched.
type EditorConfig struct {
	Default string   `yaml:"default"`
	Allowed []string `yaml:"allowed"`
}

// Defaults returns the built-in configuration.
func Defaults() Config {
	return Config{
		ScanDir: ".",
		Server: ServerConfig{
			Host: "127.0.0.1",
			Port: "5001",
		},
		Logging: LoggingConfig{Level: "info"},
		Editor:  EditorConfig{Default: "code"},
	}
}

// Load reads devdash.yaml and .env from the working directory.
func Load() (*Config, error) {
	return LoadFrom(DefaultConfigFile, DefaultEnvFile)
}

// LoadFrom builds a Config from the given YAML and .env paths. Both
// files are optional.
func LoadFrom(yamlPath, envPath string) (*Config, error) {
	cfg := Defaults()

	if err := loadYAML(&cfg, yamlPath); err != nil {
		return nil, fmt.Errorf("config yaml: %w", err)
	}

	dotenv, err := readDotenv(envPath)
	if err != nil {
		return nil, fmt.Errorf("config env file: %w", err)
	}
	loadEnv(&cfg, func(key string) string {
		if v := os.Getenv(key); v != "" {
			return v
		}
		return dotenv[key]
	})

	abs, err := filepath.Abs(cfg.ScanDir)
	if err != nil {
		return nil, fmt.Errorf("config: resolve scan dir: %w", err)
	}
	cfg.ScanDir = abs

	return &cfg, nil
}

// Validate checks settings that would make the process useless.
func (c *Config) Validate() error {
	info, err := os.Stat(c.ScanDir)
	if err != nil {
		return fmt.Errorf("scan_dir %q: %w", c.ScanDir, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("scan_dir %q is not a directory", c.ScanDir)
	}
	if c.Server.Port == "" {
		return errors.New("server.port is required")
	}
	if _, err := strconv.Atoi(c.Server.Port); err != nil {
		return fmt.Errorf("server.port %q is not a number", c.Server.Port)
	}
	return nil
}

// LogLevel maps Logging.Level to a slog level. Unknown names mean info.
func (c *Config) LogLevel() slog.Level {
	switch strings.ToLower(c.Logging.Level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// loadYAML reads the YAML file and unmarshals it over cfg.
// Returns nil if the file does not exist.
func loadYAML(cfg *Config, path string) error {
	if path == "" {
		return nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}

// readDotenv parses the .env file without touching the process
// environment. A missing file yields an empty map.
func readDotenv(path string) (map[string]string, error) {
	if path == "" {
		return map[string]string{}, nil
	}
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return map[string]string{}, nil
	}
	env, err := godotenv.Read(path)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return env, nil
}

// loadEnv overlays environment values onto cfg. Only non-empty values
// override.
func loadEnv(cfg *Config, getenv func(string) string) {
	setString(&cfg.ScanDir, getenv, "SCAN_DIR")
	setString(&cfg.ScanDir, getenv, "DEVDASH_SCAN_DIR")
	setString(&cfg.Server.Host, getenv, "HOST")
	setString(&cfg.Server.Port, getenv, "PORT")
	setString(&cfg.Server.StaticDir, getenv, "DEVDASH_STATIC_DIR")
	setString(&cfg.Store.DBPath, getenv, "DB_PATH")
	setString(&cfg.Logging.Level, getenv, "DEVDASH_LOG_LEVEL")
	setString(&cfg.Editor.Default, getenv, "DEVDASH_EDITOR")
	setList(&cfg.Editor.Allowed, getenv, "DEVDASH_EDITORS")
	setList(&cfg.Ignore.Patterns, getenv, "DEVDASH_EXCLUDE")
	setBool(&cfg.Ignore.RespectGitignore, getenv, "DEVDASH_RESPECT_GITIGNORE")
}

func setString(dst *string, getenv func(string) string, key string) {
	if v := getenv(key); v != "" {
		*dst = v
	}
}

func setBool(dst *bool, getenv func(string) string, key string) {
	if v := getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}

// setList splits a comma-separated value.
func setList(dst *[]string, getenv func(string) string, key string) {
	v := getenv(key)
	if v == "" {
		return
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	*dst = out
}
