package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the complete loader configuration
type Config struct {
	Loader   LoaderConfig   `yaml:"loader" json:"loader"`
	Engine   EngineConfig   `yaml:"engine" json:"engine"`
	Repeater RepeaterConfig `yaml:"repeater" json:"repeater"`
	Logging  LoggingConfig  `yaml:"logging" json:"logging"`
}

// LoaderConfig controls where artifacts are looked up
type LoaderConfig struct {
	// Dir holds local artifacts. Empty means the executable's directory.
	Dir string `yaml:"dir" json:"dir"`
	// Prefix and Extension form local artifact names: <prefix>.<id><ext>.
	Prefix    string `yaml:"prefix" json:"prefix"`
	Extension string `yaml:"extension" json:"extension"`
	// PackagePaths are searched in order for <prefix>-<id> package directories.
	// Empty means <Dir>/packages.
	PackagePaths []string `yaml:"packagePaths" json:"packagePaths"`
	// LinkerPath is read to detect musl on linux x64/arm64.
	LinkerPath string `yaml:"linkerPath" json:"linkerPath"`
	// OS and Arch override the host facts when set.
	OS   string `yaml:"os" json:"os"`
	Arch string `yaml:"arch" json:"arch"`
}

// EngineConfig tunes the WebAssembly backend
type EngineConfig struct {
	MemoryLimitPages uint32 `yaml:"memoryLimitPages" json:"memoryLimitPages"`
	Interpreter      bool   `yaml:"interpreter" json:"interpreter"`
}

// RepeaterConfig controls JsRepeater ticking
type RepeaterConfig struct {
	Interval time.Duration `yaml:"interval" json:"interval"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `yaml:"level" json:"level"`
	Format string `yaml:"format" json:"format"`
}

// DefaultConfig Default configuration values
var DefaultConfig = Config{
	Loader: LoaderConfig{
		Prefix:     "bindings",
		Extension:  ".node",
		LinkerPath: "/usr/bin/ldd",
	},
	Repeater: RepeaterConfig{
		Interval: 500 * time.Millisecond,
	},
	Logging: LoggingConfig{
		Level:  "info",
		Format: "console",
	},
}

// Default returns a copy of DefaultConfig
func Default() *Config {
	cfg := DefaultConfig
	cfg.Loader.PackagePaths = append([]string(nil), DefaultConfig.Loader.PackagePaths...)
	return &cfg
}

// Load loads configuration from multiple sources in order of precedence:
// 1. Environment variables (highest precedence)
// 2. Configuration file
// 3. Default values (lowest precedence)
//
// path names the config file explicitly; a missing explicit file is an error.
// With an empty path, BINDINGS_CONFIG and the standard locations are tried.
// The second return value describes where the configuration came from.
func Load(path string) (*Config, string, error) {
	cfg := Default()

	source, err := loadFromFile(cfg, path)
	if err != nil {
		return nil, "", fmt.Errorf("failed to load config file: %w", err)
	}

	if err := loadFromEnv(cfg); err != nil {
		return nil, "", fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, source, nil
}

// Parse decodes YAML on top of the defaults and validates the result
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

func loadFromFile(cfg *Config, explicit string) (string, error) {
	if explicit != "" {
		if err := readInto(cfg, explicit); err != nil {
			return "", err
		}
		return explicit, nil
	}

	configPaths := []string{
		os.Getenv("BINDINGS_CONFIG"),
		"./bindings.yaml",
		"/etc/bindings/config.yaml",
	}

	for _, path := range configPaths {
		if path == "" {
			continue
		}
		if _, err := os.Stat(path); os.IsNotExist(err) {
			continue
		}
		if err := readInto(cfg, path); err != nil {
			return "", err
		}
		return path, nil
	}

	return "built-in defaults (no config file found)", nil
}

func readInto(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

func loadFromEnv(cfg *Config) error {
	// Loader config
	if val := os.Getenv("BINDINGS_DIR"); val != "" {
		cfg.Loader.Dir = val
	}
	if val := os.Getenv("BINDINGS_PREFIX"); val != "" {
		cfg.Loader.Prefix = val
	}
	if val := os.Getenv("BINDINGS_EXTENSION"); val != "" {
		cfg.Loader.Extension = val
	}
	if val := os.Getenv("BINDINGS_PATH"); val != "" {
		cfg.Loader.PackagePaths = filepath.SplitList(val)
	}
	if val := os.Getenv("BINDINGS_LINKER_PATH"); val != "" {
		cfg.Loader.LinkerPath = val
	}
	if val := os.Getenv("BINDINGS_OS"); val != "" {
		cfg.Loader.OS = val
	}
	if val := os.Getenv("BINDINGS_ARCH"); val != "" {
		cfg.Loader.Arch = val
	}

	// Engine config
	if val := os.Getenv("BINDINGS_MEMORY_LIMIT_PAGES"); val != "" {
		pages, err := strconv.ParseUint(val, 10, 32)
		if err != nil {
			return fmt.Errorf("BINDINGS_MEMORY_LIMIT_PAGES: %w", err)
		}
		cfg.Engine.MemoryLimitPages = uint32(pages)
	}
	if val := os.Getenv("BINDINGS_INTERPRETER"); val != "" {
		cfg.Engine.Interpreter = val == "true" || val == "1"
	}

	// Repeater config
	if val := os.Getenv("BINDINGS_REPEAT_INTERVAL"); val != "" {
		interval, err := time.ParseDuration(val)
		if err != nil {
			return fmt.Errorf("BINDINGS_REPEAT_INTERVAL: %w", err)
		}
		cfg.Repeater.Interval = interval
	}

	// Logging config
	if val := os.Getenv("BINDINGS_LOG_LEVEL"); val != "" {
		cfg.Logging.Level = val
	}
	if val := os.Getenv("BINDINGS_LOG_FORMAT"); val != "" {
		cfg.Logging.Format = val
	}

	return nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Loader.Prefix == "" || strings.ContainsAny(c.Loader.Prefix, `/\`) {
		return fmt.Errorf("invalid artifact prefix: %q", c.Loader.Prefix)
	}
	if c.Loader.Extension != "" && !strings.HasPrefix(c.Loader.Extension, ".") {
		return fmt.Errorf("invalid artifact extension: %q", c.Loader.Extension)
	}
	if c.Loader.LinkerPath == "" {
		return fmt.Errorf("linker path must not be empty")
	}
	if c.Repeater.Interval <= 0 {
		return fmt.Errorf("invalid repeater interval: %s", c.Repeater.Interval)
	}

	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level: %s", c.Logging.Level)
	}

	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("invalid log format: %s", c.Logging.Format)
	}

	return nil
}

// ArtifactDir returns Loader.Dir, or the directory of the running executable
func (c *Config) ArtifactDir() (string, error) {
	if c.Loader.Dir != "" {
		return c.Loader.Dir, nil
	}
	exe, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("locate executable: %w", err)
	}
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}
	return filepath.Dir(exe), nil
}

// SearchPaths returns the package search paths for dir
func (c *Config) SearchPaths(dir string) []string {
	if len(c.Loader.PackagePaths) > 0 {
		return append([]string(nil), c.Loader.PackagePaths...)
	}
	return []string{filepath.Join(dir, "packages")}
}
