package config

import (
	"os"
	"testing"
)

func TestLoad(t *testing.T) {
	os.Setenv("ENABLE_FILE_LOGGING", "true")
	os.Setenv("DECODE_DEADLINE_SEC", "7")
	os.Setenv("WINDOW_TITLE", "Test Viewer")

	defer func() {
		os.Unsetenv("ENABLE_FILE_LOGGING")
		os.Unsetenv("DECODE_DEADLINE_SEC")
		os.Unsetenv("WINDOW_TITLE")
	}()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Failed to load configuration: %v", err)
	}

	if !cfg.EnableFileLogging {
		t.Errorf("Expected EnableFileLogging to be true, got %v", cfg.EnableFileLogging)
	}
	if cfg.DecodeDeadlineSec != 7 {
		t.Errorf("Expected DecodeDeadlineSec to be 7, got %d", cfg.DecodeDeadlineSec)
	}
	if cfg.WindowTitle != "Test Viewer" {
		t.Errorf("Expected WindowTitle to be 'Test Viewer', got '%s'", cfg.WindowTitle)
	}
}

func TestLoadDefaults(t *testing.T) {
	os.Unsetenv("ENABLE_FILE_LOGGING")
	os.Unsetenv("DECODE_DEADLINE_SEC")
	os.Unsetenv("WINDOW_TITLE")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Failed to load configuration: %v", err)
	}

	if cfg.EnableFileLogging {
		t.Error("Expected EnableFileLogging to default to false")
	}
	if cfg.DecodeDeadlineSec != 20 {
		t.Errorf("Expected default deadline of 20s, got %d", cfg.DecodeDeadlineSec)
	}
	if cfg.WindowTitle != "QR Code Viewer" {
		t.Errorf("Unexpected default window title '%s'", cfg.WindowTitle)
	}
}

func TestLoadWithOptions(t *testing.T) {
	os.Setenv("DECODE_DEADLINE_SEC", "30")
	defer os.Unsetenv("DECODE_DEADLINE_SEC")

	cfg, err := LoadWithOptions(LoadOptions{DeadlineOverrideSec: 5})
	if err != nil {
		t.Fatalf("Failed to load configuration: %v", err)
	}
	if cfg.DecodeDeadlineSec != 5 {
		t.Errorf("Override should win over env, got %d", cfg.DecodeDeadlineSec)
	}
}

func TestLoadInvalidDeadline(t *testing.T) {
	os.Setenv("DECODE_DEADLINE_SEC", "not-a-number")
	defer os.Unsetenv("DECODE_DEADLINE_SEC")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Failed to load configuration: %v", err)
	}
	if cfg.DecodeDeadlineSec != 20 {
		t.Errorf("Invalid env value should fall back to default, got %d", cfg.DecodeDeadlineSec)
	}
}
