package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const (
	// EnvFileVar points at an alternate .env location when no .env sits
	// beside the executable.
	EnvFileVar = "QR_VIEWER_ENV"

	defaultDeadlineSec = 20
)

type LoadOptions struct {
	DeadlineOverrideSec int
}

type Config struct {
	EnableFileLogging bool
	DecodeDeadlineSec int
	WindowTitle       string
}

func Load() (*Config, error) {
	return LoadWithOptions(LoadOptions{})
}

func LoadWithOptions(opts LoadOptions) (*Config, error) {
	// Configuration sources in priority order:
	// 1) .env in the application (executable) directory
	// 2) If not found, use QR_VIEWER_ENV as a path to a config file
	if envPath := resolveEnvPath(); envPath != "" {
		_ = godotenv.Load(envPath)
	}

	deadlineSec := defaultDeadlineSec
	if v := os.Getenv("DECODE_DEADLINE_SEC"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			deadlineSec = n
		}
	}
	if opts.DeadlineOverrideSec > 0 {
		deadlineSec = opts.DeadlineOverrideSec
	}

	cfg := &Config{
		EnableFileLogging: strings.ToLower(os.Getenv("ENABLE_FILE_LOGGING")) == "true",
		DecodeDeadlineSec: deadlineSec,
		WindowTitle:       getEnvWithDefault("WINDOW_TITLE", "QR Code Viewer"),
	}

	return cfg, nil
}

func resolveEnvPath() string {
	execPath, err := os.Executable()
	if err != nil {
		return ""
	}

	exeEnv := filepath.Join(filepath.Dir(execPath), ".env")
	if _, err := os.Stat(exeEnv); err == nil {
		return exeEnv
	}

	if alt := os.Getenv(EnvFileVar); alt != "" {
		if _, err := os.Stat(alt); err == nil {
			return alt
		}
	}

	return ""
}

func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
