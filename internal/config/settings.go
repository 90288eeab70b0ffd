package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"
)

// Settings holds all user-configurable application settings organized by category.
type Settings struct {
	General   GeneralSettings  `json:"general"`
	Catalog   CatalogSettings  `json:"catalog"`
	Downloads DownloadSettings `json:"downloads"`
}

// GeneralSettings contains application behavior settings.
type GeneralSettings struct {
	DefaultOutputDir  string `json:"default_output_dir"`
	PlainOutput       bool   `json:"plain_output"`
	LogRetentionCount int    `json:"log_retention_count"`
}

// CatalogSettings contains parameters for the records catalog endpoint.
type CatalogSettings struct {
	BaseURL        string        `json:"base_url"`
	UserAgent      string        `json:"user_agent"`
	RequestTimeout time.Duration `json:"request_timeout"`
	PageLimit      int           `json:"page_limit"`
}

// DownloadSettings contains parameters for the file download phase.
type DownloadSettings struct {
	Concurrency      int           `json:"concurrency"`
	ConnectTimeout   time.Duration `json:"connect_timeout"`
	ReadStallTimeout time.Duration `json:"read_stall_timeout"`
	WorkerBufferSize int           `json:"worker_buffer_size"`
}

const (
	KB = 1024
	MB = 1024 * KB
)

// DefaultCatalogURL is the IAS SDO-AIA dataset records endpoint.
const DefaultCatalogURL = "https://idoc-medoc.ias.u-psud.fr/webs_IAS_SDO_AIA_dataset/records"

// DefaultUserAgent mimics a browser; the catalog rejects obvious bots.
const DefaultUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) " +
	"AppleWebKit/537.36 (KHTML, like Gecko) " +
	"Chrome/131.0.0 Safari/537.36"

// DefaultSettings returns a new Settings instance with sensible defaults.
func DefaultSettings() *Settings {
	return &Settings{
		General: GeneralSettings{
			DefaultOutputDir:  "sdo_downloads",
			PlainOutput:       false,
			LogRetentionCount: 5,
		},
		Catalog: CatalogSettings{
			BaseURL:        DefaultCatalogURL,
			UserAgent:      DefaultUserAgent,
			RequestTimeout: 15 * time.Second,
			PageLimit:      300,
		},
		Downloads: DownloadSettings{
			Concurrency:      6,
			ConnectTimeout:   10 * time.Second,
			ReadStallTimeout: 30 * time.Second,
			WorkerBufferSize: 64 * KB,
		},
	}
}

// GetSettingsPath returns the path to the settings JSON file.
func GetSettingsPath() string {
	return filepath.Join(GetHelioDir(), "settings.json")
}

// LoadSettings loads settings from disk. Returns defaults if file doesn't exist.
func LoadSettings() (*Settings, error) {
	path := GetSettingsPath()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultSettings(), nil
		}
		return nil, err
	}

	settings := DefaultSettings() // Start with defaults to fill any missing fields
	if err := json.Unmarshal(data, settings); err != nil {
		return nil, err
	}

	return settings, nil
}

// SaveSettings saves settings to disk atomically.
func SaveSettings(s *Settings) error {
	path := GetSettingsPath()

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}

	// Atomic write: write to temp file, then rename
	tempPath := path + ".tmp"
	if err := os.WriteFile(tempPath, data, 0644); err != nil {
		return err
	}

	return os.Rename(tempPath, path)
}
