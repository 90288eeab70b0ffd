package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestDefaultSettings(t *testing.T) {
	settings := DefaultSettings()

	if settings == nil {
		t.Fatal("DefaultSettings returned nil")
	}

	t.Run("GeneralSettings", func(t *testing.T) {
		if settings.General.DefaultOutputDir == "" {
			t.Error("Default output directory should not be empty")
		}
		if settings.General.LogRetentionCount <= 0 {
			t.Errorf("LogRetentionCount should be positive, got: %d", settings.General.LogRetentionCount)
		}
	})

	t.Run("CatalogSettings", func(t *testing.T) {
		if !strings.HasPrefix(settings.Catalog.BaseURL, "https://") {
			t.Errorf("Catalog base URL should be https, got: %s", settings.Catalog.BaseURL)
		}
		if settings.Catalog.UserAgent == "" {
			t.Error("UserAgent should not be empty")
		}
		if settings.Catalog.RequestTimeout <= 0 {
			t.Errorf("RequestTimeout should be positive, got: %v", settings.Catalog.RequestTimeout)
		}
		if settings.Catalog.PageLimit != 300 {
			t.Errorf("PageLimit should default to 300, got: %d", settings.Catalog.PageLimit)
		}
	})

	t.Run("DownloadSettings", func(t *testing.T) {
		if settings.Downloads.Concurrency <= 0 {
			t.Errorf("Concurrency should be positive, got: %d", settings.Downloads.Concurrency)
		}
		if settings.Downloads.ConnectTimeout <= 0 {
			t.Errorf("ConnectTimeout should be positive, got: %v", settings.Downloads.ConnectTimeout)
		}
		if settings.Downloads.ReadStallTimeout <= settings.Downloads.ConnectTimeout {
			t.Error("ReadStallTimeout should exceed ConnectTimeout (slow start tolerated longer than a stall)")
		}
		if settings.Downloads.WorkerBufferSize != 64*KB {
			t.Errorf("WorkerBufferSize should default to 64KB, got: %d", settings.Downloads.WorkerBufferSize)
		}
	})
}

func TestDefaultSettings_Consistency(t *testing.T) {
	// Multiple calls should return equivalent (but not same pointer) settings
	s1 := DefaultSettings()
	s2 := DefaultSettings()

	if s1 == s2 {
		t.Error("DefaultSettings should return new instance each time")
	}

	if s1.Downloads.Concurrency != s2.Downloads.Concurrency {
		t.Error("Default settings should be consistent")
	}
}

func TestGetSettingsPath(t *testing.T) {
	path := GetSettingsPath()

	if path == "" {
		t.Error("GetSettingsPath returned empty string")
	}

	helioDir := GetHelioDir()
	if !strings.HasPrefix(path, helioDir) {
		t.Errorf("Settings path should be under app dir. Path: %s, Dir: %s", path, helioDir)
	}

	if !strings.HasSuffix(path, "settings.json") {
		t.Errorf("Settings path should end with 'settings.json', got: %s", path)
	}
}

func TestSettingsJSON_RoundTrip(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "heliofetch-settings-test-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tmpDir)

	original := &Settings{
		General: GeneralSettings{
			DefaultOutputDir:  tmpDir,
			PlainOutput:       true,
			LogRetentionCount: 3,
		},
		Catalog: CatalogSettings{
			BaseURL:        "https://example.com/records",
			UserAgent:      "TestAgent/1.0",
			RequestTimeout: 5 * time.Second,
			PageLimit:      100,
		},
		Downloads: DownloadSettings{
			Concurrency:      8,
			ConnectTimeout:   2 * time.Second,
			ReadStallTimeout: 9 * time.Second,
			WorkerBufferSize: 128 * KB,
		},
	}

	data, err := json.MarshalIndent(original, "", "  ")
	if err != nil {
		t.Fatalf("Failed to marshal settings: %v", err)
	}

	testPath := filepath.Join(tmpDir, "test_settings.json")
	if err := os.WriteFile(testPath, data, 0644); err != nil {
		t.Fatalf("Failed to write settings file: %v", err)
	}

	readData, err := os.ReadFile(testPath)
	if err != nil {
		t.Fatalf("Failed to read settings file: %v", err)
	}

	loaded := DefaultSettings()
	if err := json.Unmarshal(readData, loaded); err != nil {
		t.Fatalf("Failed to unmarshal settings: %v", err)
	}

	if loaded.General.DefaultOutputDir != original.General.DefaultOutputDir {
		t.Errorf("DefaultOutputDir mismatch: got %q, want %q",
			loaded.General.DefaultOutputDir, original.General.DefaultOutputDir)
	}
	if loaded.Catalog.BaseURL != original.Catalog.BaseURL {
		t.Error("BaseURL mismatch")
	}
	if loaded.Catalog.PageLimit != original.Catalog.PageLimit {
		t.Error("PageLimit mismatch")
	}
	if loaded.Downloads.Concurrency != original.Downloads.Concurrency {
		t.Errorf("Concurrency mismatch: got %d, want %d", loaded.Downloads.Concurrency, original.Downloads.Concurrency)
	}
	if loaded.Downloads.ReadStallTimeout != original.Downloads.ReadStallTimeout {
		t.Error("ReadStallTimeout mismatch (duration)")
	}
}

func TestLoadSettings_PartialJSON(t *testing.T) {
	// Missing fields should get filled with defaults
	partial := `{
		"general": {
			"default_output_dir": "/custom/path"
		}
	}`

	settings := DefaultSettings()
	if err := json.Unmarshal([]byte(partial), settings); err != nil {
		t.Fatalf("Failed to unmarshal partial JSON: %v", err)
	}

	if settings.General.DefaultOutputDir != "/custom/path" {
		t.Errorf("Custom field not set: %s", settings.General.DefaultOutputDir)
	}

	// Default field should remain (from the defaults we started with)
	if settings.Downloads.Concurrency <= 0 {
		t.Error("Default values should be preserved for missing fields")
	}
}

func TestSaveAndLoadSettings(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	s := DefaultSettings()
	s.Downloads.Concurrency = 9
	s.General.DefaultOutputDir = "custom_downloads"

	if err := SaveSettings(s); err != nil {
		t.Fatalf("SaveSettings failed: %v", err)
	}

	if _, err := os.Stat(GetSettingsPath()); err != nil {
		t.Fatalf("Settings file not written: %v", err)
	}
	if _, err := os.Stat(GetSettingsPath() + ".tmp"); !os.IsNotExist(err) {
		t.Error("Temp file should not survive a successful save")
	}

	loaded, err := LoadSettings()
	if err != nil {
		t.Fatalf("LoadSettings failed: %v", err)
	}
	if loaded.Downloads.Concurrency != 9 {
		t.Errorf("Concurrency not round-tripped: got %d", loaded.Downloads.Concurrency)
	}
	if loaded.General.DefaultOutputDir != "custom_downloads" {
		t.Errorf("DefaultOutputDir not round-tripped: got %q", loaded.General.DefaultOutputDir)
	}
}

func TestLoadSettings_MissingFileReturnsDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	loaded, err := LoadSettings()
	if err != nil {
		t.Fatalf("LoadSettings should not fail on a missing file: %v", err)
	}
	if loaded.Downloads.Concurrency != DefaultSettings().Downloads.Concurrency {
		t.Error("Missing file should yield defaults")
	}
}

func TestLoadSettings_CorruptedJSON(t *testing.T) {
	settings := DefaultSettings()
	err := json.Unmarshal([]byte("{invalid json"), settings)

	if err == nil {
		t.Error("Expected error when unmarshaling invalid JSON")
	}
}

func TestConstants(t *testing.T) {
	if KB != 1024 {
		t.Errorf("KB should be 1024, got %d", KB)
	}
	if MB != 1024*1024 {
		t.Errorf("MB should be 1048576, got %d", MB)
	}
}
