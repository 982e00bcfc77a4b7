package config

import (
	"fmt"
	"runtime"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"gomlready/internal"
	"gomlready/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Analysis  AnalysisConfig
	Profiling ProfilingConfig
	LogLevel  string
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port    string
	GinMode string
}

// DatabaseConfig holds the optional result store. An empty URL disables
// persistence.
type DatabaseConfig struct {
	URL string
}

// AnalysisConfig bounds the work a single server accepts.
type AnalysisConfig struct {
	MaxUploadMB           int
	MaxConcurrentAnalyses int
	ProfileWorkers        int
}

// ProfilingConfig holds the pprof ops server settings
type ProfilingConfig struct {
	Port    string
	Enabled bool
}

// Load reads configuration from .env, the environment, an optional YAML
// file and defaults, in that order of precedence.
func Load(cfgFile string) (*Config, error) {
	// A missing .env is fine.
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("port", "8080")
	v.SetDefault("gin_mode", "release")
	v.SetDefault("ops_port", "6060")
	v.SetDefault("ops_enabled", true)
	v.SetDefault("database_url", "")
	v.SetDefault("max_upload_mb", 100)
	v.SetDefault("max_concurrent_analyses", 4)
	v.SetDefault("profile_workers", runtime.NumCPU())
	v.SetDefault("log_level", "INFO")

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrapf(errors.ConfigInvalid(err.Error()), "failed to read config file %s", cfgFile)
		}
	}

	cfg := Config{
		Server: ServerConfig{
			Port:    v.GetString("port"),
			GinMode: v.GetString("gin_mode"),
		},
		Database: DatabaseConfig{
			URL: v.GetString("database_url"),
		},
		Analysis: AnalysisConfig{
			MaxUploadMB:           v.GetInt("max_upload_mb"),
			MaxConcurrentAnalyses: v.GetInt("max_concurrent_analyses"),
			ProfileWorkers:        v.GetInt("profile_workers"),
		},
		Profiling: ProfilingConfig{
			Port:    v.GetString("ops_port"),
			Enabled: v.GetBool("ops_enabled"),
		},
		LogLevel: v.GetString("log_level"),
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}
	return &cfg, nil
}

// Validate checks ranges and enumerations.
func (c *Config) Validate() error {
	if _, err := strconv.Atoi(c.Server.Port); err != nil {
		return errors.ConfigInvalid(fmt.Sprintf("PORT must be numeric, got %q", c.Server.Port))
	}
	if c.Profiling.Enabled {
		if _, err := strconv.Atoi(c.Profiling.Port); err != nil {
			return errors.ConfigInvalid(fmt.Sprintf("OPS_PORT must be numeric, got %q", c.Profiling.Port))
		}
	}
	switch c.Server.GinMode {
	case "debug", "release", "test":
	default:
		return errors.ConfigInvalid(fmt.Sprintf("GIN_MODE must be debug, release or test, got %q", c.Server.GinMode))
	}
	if c.Analysis.MaxUploadMB <= 0 {
		return errors.ConfigInvalid("MAX_UPLOAD_MB must be positive")
	}
	if c.Analysis.MaxConcurrentAnalyses <= 0 {
		return errors.ConfigInvalid("MAX_CONCURRENT_ANALYSES must be positive")
	}
	if c.Analysis.ProfileWorkers < 0 {
		return errors.ConfigInvalid("PROFILE_WORKERS cannot be negative")
	}
	switch strings.ToUpper(strings.TrimSpace(c.LogLevel)) {
	case "", "ERROR", "WARN", "WARNING", "INFO", "DEBUG", "TRACE":
	default:
		return errors.ConfigInvalid(fmt.Sprintf("LOG_LEVEL %q is not a known level", c.LogLevel))
	}
	return nil
}

// MaxUploadBytes is the multipart body limit.
func (c *Config) MaxUploadBytes() int64 {
	return int64(c.Analysis.MaxUploadMB) << 20
}

// Level is the parsed log level.
func (c *Config) Level() internal.LogLevel {
	return internal.ParseLogLevel(c.LogLevel)
}

// Persistent reports whether results are stored.
func (c *Config) Persistent() bool {
	return c.Database.URL != ""
}
