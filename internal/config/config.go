package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"
)

// Source drivers.
const (
	DriverFile   = "file"
	DriverRedis  = "redis"
	DriverValkey = "valkey"
	DriverSQLite = "sqlite"
)

// Config holds the jokedex configuration.
type Config struct {
	HTTP       HTTPConfig       `yaml:"http"`
	Source     SourceConfig     `yaml:"source"`
	Query      QueryConfig      `yaml:"query"`
	Generators GeneratorsConfig `yaml:"generators"`
	MCP        MCPConfig        `yaml:"mcp"`
	Auth       AuthConfig       `yaml:"auth"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// AuthConfig holds API authentication settings.
type AuthConfig struct {
	APIKeys []string `yaml:"api_keys"`
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int `yaml:"port"`
	ReadTimeoutSec  int `yaml:"read_timeout_sec"`
	WriteTimeoutSec int `yaml:"write_timeout_sec"`
	ShutdownSec     int `yaml:"shutdown_timeout_sec"`
}

// SourceConfig selects where datasets are loaded from at startup.
type SourceConfig struct {
	Driver           string   `yaml:"driver"`   // file, redis, valkey, sqlite (default: file)
	Path             string   `yaml:"path"`     // file: dataset directory
	LockTimeoutSec   int      `yaml:"lock_timeout_sec"`
	Addrs            []string `yaml:"addrs"`    // redis/valkey
	Password         string   `yaml:"password"` // redis/valkey
	KeyPrefix        string   `yaml:"key_prefix"`
	ReadinessTimeout int      `yaml:"readiness_timeout_sec"`
	DSN              string   `yaml:"dsn"` // sqlite
}

// QueryConfig holds query defaults for the outer surfaces.
type QueryConfig struct {
	DefaultTopN int `yaml:"default_top_n"`
}

// GeneratorsConfig holds the explicitly registered joke generators.
type GeneratorsConfig struct {
	OpenAI *OpenAIGeneratorConfig `yaml:"openai"`
	Sample *SampleGeneratorConfig `yaml:"sample"`
}

// OpenAIGeneratorConfig holds OpenAI-compatible chat completion settings.
type OpenAIGeneratorConfig struct {
	APIKey      string  `yaml:"api_key"`
	BaseURL     string  `yaml:"base_url"`
	Model       string  `yaml:"model"`
	Temperature float32 `yaml:"temperature"`
	Prompt      string  `yaml:"prompt"`
}

// SampleGeneratorConfig draws jokes from loaded datasets.
type SampleGeneratorConfig struct {
	Datasets []string `yaml:"datasets"`
}

// MCPConfig holds MCP server settings.
type MCPConfig struct {
	Addr string `yaml:"addr"` // empty: stdio transport
}

// Load reads configuration from a YAML file by environment name (local, dev, prod).
func Load(env string) (Config, error) {
	return LoadFile(findConfigPath(env))
}

// LoadFile reads configuration from an explicit path.
func LoadFile(configPath string) (Config, error) {
	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}

	// Substitute env variables of the form ${VAR}
	data = expandEnvVars(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.HTTP.Port == 0 {
		c.HTTP.Port = 8080
	}
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		c.HTTP.WriteTimeoutSec = 10
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.Source.Driver == "" {
		c.Source.Driver = DriverFile
	}
	if c.Source.Driver == DriverFile && c.Source.Path == "" {
		c.Source.Path = "data"
	}
	if c.Source.LockTimeoutSec <= 0 {
		c.Source.LockTimeoutSec = 5
	}
	if c.Source.ReadinessTimeout <= 0 {
		c.Source.ReadinessTimeout = 10
	}
	if c.Source.KeyPrefix == "" {
		c.Source.KeyPrefix = "jokedex:"
	}
	if c.Query.DefaultTopN <= 0 {
		c.Query.DefaultTopN = 10
	}
	if c.Generators.OpenAI != nil && c.Generators.OpenAI.Model == "" {
		c.Generators.OpenAI.Model = "gpt-4o-mini"
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	switch c.Source.Driver {
	case DriverFile:
		if c.Source.Path == "" {
			return fmt.Errorf("source.path is required for the file driver")
		}
	case DriverRedis, DriverValkey:
		if len(c.Source.Addrs) == 0 {
			return fmt.Errorf("source.addrs is required for the %s driver", c.Source.Driver)
		}
	case DriverSQLite:
		if c.Source.DSN == "" {
			return fmt.Errorf("source.dsn is required for the sqlite driver")
		}
	default:
		return fmt.Errorf("source.driver must be one of file, redis, valkey, sqlite, got %q", c.Source.Driver)
	}
	if g := c.Generators.OpenAI; g != nil && g.APIKey == "" {
		return fmt.Errorf("generators.openai.api_key is required when the openai generator is configured")
	}
	if g := c.Generators.Sample; g != nil && len(g.Datasets) == 0 {
		return fmt.Errorf("generators.sample.datasets must list at least one dataset")
	}
	return nil
}

// findConfigPath locates the config file.
func findConfigPath(env string) string {
	filename := fmt.Sprintf("%s.yaml", env)

	// 1. Check ./config/
	if path := filepath.Join("config", filename); fileExists(path) {
		return path
	}

	// 2. Check relative to the source file
	_, b, _, _ := runtime.Caller(0)
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(b))) // internal/config -> project root
	if path := filepath.Join(projectRoot, "config", filename); fileExists(path) {
		return path
	}

	// 3. Fallback to ./config/
	return filepath.Join("config", filename)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1]) // strip ${ and }
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}
