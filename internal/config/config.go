package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	DataDir  string
	DBPath   string
	LogFile  string
	LogLevel string
}

// Load reads configuration from a .env file (if present) and the
// environment, falling back to the XDG data directory for paths
func Load() (*Config, error) {
	// A missing .env file is not an error
	_ = godotenv.Load()

	dataDir := os.Getenv("TASKBOARD_DATA_DIR")
	if dataDir == "" {
		var err error
		dataDir, err = defaultDataDir()
		if err != nil {
			return nil, err
		}
	}
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, err
	}

	cfg := &Config{
		DataDir:  dataDir,
		DBPath:   getenv("TASKBOARD_DB", filepath.Join(dataDir, "taskboard.db")),
		LogFile:  getenv("TASKBOARD_LOG_FILE", filepath.Join(dataDir, "taskboard.log")),
		LogLevel: strings.ToLower(getenv("TASKBOARD_LOG_LEVEL", "info")),
	}

	return cfg, nil
}

func getenv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

// defaultDataDir returns the XDG data directory for the app, falling back
// to ~/.local/share
func defaultDataDir() (string, error) {
	dataDir := os.Getenv("XDG_DATA_HOME")
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		dataDir = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataDir, "taskboard"), nil
}
