// Package config provides application configuration management with support for environment variables, command-line flags, and .env files.
package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Store drivers.
const (
	DriverBadger = "badger"
	DriverSQLite = "sqlite"
	DriverRedis  = "redis"
	DriverMemory = "memory"
)

// Config holds the application configuration.
type Config struct {
	App     AppConfig
	Logger  LoggerConfig
	Store   StoreConfig
	Engine  EngineConfig
	Profile ProfileConfig
	Server  ServerConfig
}

// AppConfig holds application-level configuration.
type AppConfig struct {
	Environment string
}

// LoggerConfig holds logging configuration.
type LoggerConfig struct {
	Level string
	File  string // Optional; JSON lines are appended here as well as stdout
}

// StoreConfig selects and configures the preference store.
type StoreConfig struct {
	Driver string // badger, sqlite, redis or memory (default: badger)
	Path   string // Badger directory or SQLite file (default: ~/Krishi/settings)
	Key    string // Name the settings bag is stored under (default: krishi-settings)

	RedisAddr     string
	RedisPassword string
	RedisDB       int
}

// EngineConfig tunes the settings engine.
type EngineConfig struct {
	StoreTimeout time.Duration // Bound on each load and save (default: 10s)
	SavedWindow  time.Duration // How long a field shows as saved (default: 1.5s)
	QueueSize    int           // Write queue capacity (default: 64)

	// Artificial store latency, for demos and UI work.
	LoadLatency time.Duration
	SaveLatency time.Duration
}

// ProfileConfig holds the public profile facts that are not settings.
type ProfileConfig struct {
	Location string
	Earnings string
}

// ServerConfig holds server configuration.
type ServerConfig struct {
	Port         string        // Server port (default: 8080)
	ReadTimeout  time.Duration // HTTP read timeout (default: 15s)
	WriteTimeout time.Duration // HTTP write timeout (default: 15s)
	IdleTimeout  time.Duration // HTTP idle timeout (default: 60s)

	WriteRatePerMinute int      // Settings writes per client per minute (default: 120)
	WriteBurst         int      // Burst allowance (default: 20)
	CORSOrigins        []string // Allowed origins (default: *)
}

// LoadConfig loads configuration from the process arguments.
func LoadConfig() (*Config, error) {
	return Load(os.Args[1:])
}

// Load builds the configuration from args with precedence:
// 1. Command-line flags (highest priority).
// 2. Environment variables.
// 3. .env file.
// 4. Default values (lowest priority).
func Load(args []string) (*Config, error) {
	fs := flag.NewFlagSet("krishi-settings", flag.ContinueOnError)

	env := fs.String("env", "", "Environment (development, staging, production)")
	logLevel := fs.String("log-level", "", "Log level (debug, info, warn, error)")
	logFile := fs.String("log-file", "", "Also write JSON logs to this file")

	// Store flags
	storeDriver := fs.String("store", "", "Preference store driver (badger, sqlite, redis, memory)")
	storePath := fs.String("store-path", "", "Badger directory or SQLite file")
	storeKey := fs.String("store-key", "", "Key the settings are stored under")
	redisAddr := fs.String("redis-addr", "", "Redis address (default: localhost:6379)")
	redisDB := fs.String("redis-db", "", "Redis database number (default: 0)")

	// Engine flags
	storeTimeout := fs.String("store-timeout", "", "Timeout for each store call (default: 10s)")
	savedWindow := fs.String("saved-window", "", "How long a field shows as saved (default: 1500ms)")
	queueSize := fs.String("queue-size", "", "Write queue capacity (default: 64)")
	loadLatency := fs.String("load-latency", "", "Artificial store load latency (default: 0)")
	saveLatency := fs.String("save-latency", "", "Artificial store save latency (default: 0)")

	// Server flags
	serverPort := fs.String("port", "", "Server port (default: 8080)")
	readTimeout := fs.String("read-timeout", "", "HTTP read timeout (default: 15s)")
	writeTimeout := fs.String("write-timeout", "", "HTTP write timeout (default: 15s)")
	idleTimeout := fs.String("idle-timeout", "", "HTTP idle timeout (default: 60s)")
	writeRate := fs.String("write-rate", "", "Settings writes per client per minute (default: 120)")

	envFile := fs.String("env-file", ".env", "Path to .env file")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	// Load .env file if it exists (silently ignore if not found).
	// godotenv never overrides variables that are already set.
	_ = godotenv.Load(*envFile)

	cfg := &Config{
		App: AppConfig{
			Environment: getConfigValue(*env, "ENV", "development"),
		},
		Logger: LoggerConfig{
			Level: getConfigValue(*logLevel, "LOG_LEVEL", "info"),
			File:  getConfigValue(*logFile, "LOG_FILE", ""),
		},
		Store: StoreConfig{
			Driver:        strings.ToLower(getConfigValue(*storeDriver, "STORE_DRIVER", DriverBadger)),
			Path:          getConfigValue(*storePath, "STORE_PATH", ""),
			Key:           getConfigValue(*storeKey, "STORE_KEY", "krishi-settings"),
			RedisAddr:     getConfigValue(*redisAddr, "REDIS_ADDR", "localhost:6379"),
			RedisPassword: getConfigValue("", "REDIS_PASSWORD", ""),
			RedisDB:       getIntConfigValue(*redisDB, "REDIS_DB", 0),
		},
		Engine: EngineConfig{
			QueueSize: getIntConfigValue(*queueSize, "ENGINE_QUEUE_SIZE", 64),
		},
		Profile: ProfileConfig{
			Location: getConfigValue("", "PROFILE_LOCATION", "Village Rampur, Varanasi"),
			Earnings: getConfigValue("", "PROFILE_EARNINGS", "₹2.4L"),
		},
		Server: ServerConfig{
			Port:               getConfigValue(*serverPort, "SERVER_PORT", "8080"),
			WriteRatePerMinute: getIntConfigValue(*writeRate, "SERVER_WRITE_RATE", 120),
			WriteBurst:         getIntConfigValue("", "SERVER_WRITE_BURST", 20),
			CORSOrigins:        splitList(getConfigValue("", "SERVER_CORS_ORIGINS", "*")),
		},
	}

	durations := []struct {
		flagValue, envKey, def string
		dst                    *time.Duration
	}{
		{*storeTimeout, "ENGINE_STORE_TIMEOUT", "10s", &cfg.Engine.StoreTimeout},
		{*savedWindow, "ENGINE_SAVED_WINDOW", "1500ms", &cfg.Engine.SavedWindow},
		{*loadLatency, "ENGINE_LOAD_LATENCY", "0s", &cfg.Engine.LoadLatency},
		{*saveLatency, "ENGINE_SAVE_LATENCY", "0s", &cfg.Engine.SaveLatency},
		{*readTimeout, "SERVER_READ_TIMEOUT", "15s", &cfg.Server.ReadTimeout},
		{*writeTimeout, "SERVER_WRITE_TIMEOUT", "15s", &cfg.Server.WriteTimeout},
		{*idleTimeout, "SERVER_IDLE_TIMEOUT", "60s", &cfg.Server.IdleTimeout},
	}
	for _, d := range durations {
		v, err := getDurationConfigValue(d.flagValue, d.envKey, d.def)
		if err != nil {
			return nil, err
		}
		*d.dst = v
	}

	if err := cfg.expandStorePath(); err != nil {
		return nil, fmt.Errorf("invalid store path: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks that all required config values are present and valid.
func (c *Config) Validate() error {
	if c.App.Environment == "" {
		return errors.New("ENV is required")
	}

	validEnvs := map[string]bool{
		"development": true,
		"staging":     true,
		"production":  true,
	}
	if !validEnvs[c.App.Environment] {
		return fmt.Errorf("invalid environment: %s (must be development, staging, or production)", c.App.Environment)
	}

	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[strings.ToLower(c.Logger.Level)] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.Logger.Level)
	}

	switch c.Store.Driver {
	case DriverBadger, DriverSQLite:
		if c.Store.Path == "" {
			return errors.New("store path cannot be empty after expansion")
		}
	case DriverRedis:
		if c.Store.RedisAddr == "" {
			return errors.New("REDIS_ADDR is required for the redis store")
		}
	case DriverMemory:
	default:
		return fmt.Errorf("invalid store driver: %s (must be badger, sqlite, redis, or memory)", c.Store.Driver)
	}

	if c.Store.Key == "" {
		return errors.New("store key cannot be empty")
	}
	if c.Engine.StoreTimeout <= 0 {
		return errors.New("store timeout must be positive")
	}
	if c.Engine.SavedWindow <= 0 {
		return errors.New("saved window must be positive")
	}
	if c.Engine.LoadLatency < 0 || c.Engine.SaveLatency < 0 {
		return errors.New("store latency cannot be negative")
	}
	if c.Server.WriteRatePerMinute <= 0 || c.Server.WriteBurst <= 0 {
		return errors.New("write rate and burst must be positive")
	}

	return nil
}

// expandPath expands ~ and makes the path absolute.
// If path is empty and defaultPath is provided, uses the default.
func expandPath(path, defaultPath string) (string, error) {
	if path == "" {
		return defaultPath, nil
	}

	// Expand tilde.
	if strings.HasPrefix(path, "~/") {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		path = filepath.Join(homeDir, path[2:])
	}

	// Make absolute if needed.
	if !filepath.IsAbs(path) {
		absPath, err := filepath.Abs(path)
		if err != nil {
			return "", fmt.Errorf("failed to get absolute path: %w", err)
		}
		path = absPath
	}

	return filepath.Clean(path), nil
}

// expandStorePath resolves the store location. Badger gets a directory,
// SQLite a file inside it. Network and memory stores need no path.
func (c *Config) expandStorePath() error {
	if c.Store.Driver != DriverBadger && c.Store.Driver != DriverSQLite {
		return nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("failed to get home directory: %w", err)
	}
	defaultPath := filepath.Join(homeDir, "Krishi", "settings")
	if c.Store.Driver == DriverSQLite {
		defaultPath = filepath.Join(defaultPath, "settings.db")
	}

	expanded, err := expandPath(c.Store.Path, defaultPath)
	if err != nil {
		return err
	}
	c.Store.Path = expanded
	return nil
}

// getConfigValue returns the first non-empty value from flag, env var, or default.
func getConfigValue(flagValue, envKey, defaultValue string) string {
	// Priority 1: Command-line flag.
	if flagValue != "" {
		return flagValue
	}

	// Priority 2: Environment variable.
	if envValue := os.Getenv(envKey); envValue != "" {
		return envValue
	}

	// Priority 3: Default value.
	return defaultValue
}

// getIntConfigValue returns an int from flag, env var, or default.
func getIntConfigValue(flagValue, envKey string, defaultValue int) int {
	strValue := getConfigValue(flagValue, envKey, "")
	if strValue == "" {
		return defaultValue
	}
	result, err := strconv.Atoi(strings.TrimSpace(strValue))
	if err != nil {
		return defaultValue
	}
	return result
}

// getDurationConfigValue parses a duration from flag, env var, or default.
func getDurationConfigValue(flagValue, envKey, defaultValue string) (time.Duration, error) {
	strValue := getConfigValue(flagValue, envKey, defaultValue)
	d, err := time.ParseDuration(strValue)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", envKey, strValue, err)
	}
	return d, nil
}

func splitList(s string) []string {
	var out []string
	for part := range strings.SplitSeq(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
