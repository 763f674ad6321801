package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"
)

// DirName is the per-user directory holding config, data and logs
const DirName = ".taskbreeze"

// Config holds user preferences
type Config struct {
	ConfirmDelete bool   `yaml:"confirm_delete" json:"confirm_delete"` // Require confirmation for delete
	StorageQuota  int64  `yaml:"storage_quota" json:"storage_quota"`   // Max bytes of the local snapshot
	ExportDir     string `yaml:"export_dir" json:"export_dir"`         // Where exports are written
	QuoteURL      string `yaml:"quote_url" json:"quote_url"`           // Upstream used when not signed in

	// Logging configuration
	LogLevel   string `yaml:"log_level" json:"log_level"`     // Log level: DEBUG, INFO, WARN, ERROR
	LogFile    string `yaml:"log_file" json:"log_file"`       // Path to log file
	LogConsole bool   `yaml:"log_console" json:"log_console"` // Enable console logging

	path string
}

// Dir returns ~/.taskbreeze, honouring TASKBREEZE_HOME
func Dir() (string, error) {
	if dir := os.Getenv("TASKBREEZE_HOME"); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, DirName), nil
}

// DefaultConfig returns default settings
func DefaultConfig() *Config {
	dir, _ := Dir()
	logPath := ""
	if dir != "" {
		logPath = filepath.Join(dir, "logs", "breeze.log")
	}
	exportDir, _ := os.Getwd()

	return &Config{
		ConfirmDelete: true,
		StorageQuota:  getEnvInt("TASKBREEZE_STORAGE_QUOTA", 5*1024*1024),
		ExportDir:     exportDir,
		QuoteURL:      getEnv("TASKBREEZE_QUOTE_URL", "https://zenquotes.io/api/random"),
		LogLevel:      getEnv("TASKBREEZE_LOG_LEVEL", "INFO"),
		LogFile:       getEnv("TASKBREEZE_LOG_FILE", logPath),
		LogConsole:    getEnv("TASKBREEZE_LOG_CONSOLE", "false") == "true",
	}
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.ParseInt(value, 10, 64); err == nil {
			return n
		}
	}
	return defaultValue
}

// Load loads config from ~/.taskbreeze/config.yaml
func Load() (*Config, error) {
	dir, err := Dir()
	if err != nil {
		return nil, err
	}
	return LoadFile(filepath.Join(dir, "config.yaml"))
}

// LoadFile loads config from path, returning defaults when it does not exist
func LoadFile(path string) (*Config, error) {
	cfg := DefaultConfig()
	cfg.path = path

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return cfg, nil
}

// Save writes config back to the file it was loaded from
func (c *Config) Save() error {
	path := c.path
	if path == "" {
		dir, err := Dir()
		if err != nil {
			return err
		}
		path = filepath.Join(dir, "config.yaml")
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}
