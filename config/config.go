// backend/config/config.go
package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Source formats understood by the scraper.
const (
	FormatXLSX      = "xlsx"
	FormatCSV       = "csv"
	FormatHTML      = "html"
	FormatSheetsAPI = "sheets_api"
	FormatFile      = "file"
)

const (
	DefaultPort         = "8080"
	DefaultSheetName    = "Data_Entry"
	DefaultRange        = "A:AD"
	DefaultInterval     = 30 * time.Minute
	DefaultFetchTimeout = 30 * time.Second
)

type ServerConfig struct {
	Port string `yaml:"port"`
}

type DatabaseConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Driver   string `yaml:"driver"` // "mysql" or "sqlite"
	Host     string `yaml:"host"`
	Port     string `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	DBName   string `yaml:"dbname"`
	Path     string `yaml:"path"` // sqlite file
}

type GoogleConfig struct {
	APIKey          string `yaml:"api_key"`
	CredentialsFile string `yaml:"credentials_file"`
}

type RefreshConfig struct {
	IntervalStr     string        `yaml:"interval"`
	FetchTimeoutStr string        `yaml:"fetch_timeout"`
	DownloadDir     string        `yaml:"download_dir"` // optional copy of every fetched export
	Interval        time.Duration `yaml:"-"` // Parsed duration
	FetchTimeout    time.Duration `yaml:"-"` // Parsed duration
}

// SheetSourceConfig describes where one package's progress sheet comes from.
type SheetSourceConfig struct {
	PackageID     string `yaml:"package_id"`
	PackageName   string `yaml:"package_name"`
	Format        string `yaml:"format"`
	URL           string `yaml:"url"`
	Path          string `yaml:"path"`
	SpreadsheetID string `yaml:"spreadsheet_id"`
	SheetName     string `yaml:"sheet_name"`
	Range         string `yaml:"range"`
}

type Config struct {
	Server   ServerConfig        `yaml:"server"`
	Database DatabaseConfig      `yaml:"database"`
	Google   GoogleConfig        `yaml:"google"`
	Refresh  RefreshConfig       `yaml:"refresh"`
	Sources  []SheetSourceConfig `yaml:"sources"`
}

var AppConfig Config

// LoadConfig reads configuration from a YAML file, overlays an optional .env
// file and environment variables, applies defaults and validates the result.
// On success the result is also stored in AppConfig.
func LoadConfig(configPath string) error {
	if configPath == "" {
		potentialPaths := []string{
			"config.yaml",
			"config/config.yaml",
			"../config/config.yaml",
		}
		for _, p := range potentialPaths {
			if _, err := os.Stat(p); err == nil {
				configPath = p
				break
			}
		}
		if configPath == "" {
			return fmt.Errorf("config.yaml not found in standard locations")
		}
		log.Printf("Config: Loading configuration from: %s\n", configPath)
	}

	file, err := os.ReadFile(configPath)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	cfg, err := Parse(file)
	if err != nil {
		return err
	}
	AppConfig = *cfg
	return nil
}

// Parse decodes and finalizes a configuration document.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// A missing .env is normal outside local development.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("WARN Config: could not load .env: %v\n", err)
	}
	cfg.applyEnv()

	if err := cfg.applyDefaults(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if cfg.Refresh.DownloadDir != "" {
		if err := os.MkdirAll(cfg.Refresh.DownloadDir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create download directory %s: %w", cfg.Refresh.DownloadDir, err)
		}
	}
	if cfg.Database.Enabled && cfg.Database.Driver == "sqlite" && cfg.Database.Path != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.Database.Path), 0755); err != nil {
			return nil, fmt.Errorf("failed to create directory for sqlite database: %w", err)
		}
	}
	return &cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("SITETRACK_PORT"); v != "" {
		c.Server.Port = v
	}
	if v := os.Getenv("SITETRACK_DB_PASSWORD"); v != "" {
		c.Database.Password = v
	}
	if v := os.Getenv("SITETRACK_DB_DSN_PATH"); v != "" {
		c.Database.Path = v
	}
	if v := os.Getenv("GOOGLE_SHEETS_API_KEY"); v != "" {
		c.Google.APIKey = v
	}
	if v := os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"); v != "" && c.Google.CredentialsFile == "" {
		c.Google.CredentialsFile = v
	}
}

func (c *Config) applyDefaults() error {
	var err error
	if c.Server.Port == "" {
		c.Server.Port = DefaultPort
	}
	if c.Database.Driver == "" {
		c.Database.Driver = "mysql"
	}

	// Parse durations
	if c.Refresh.IntervalStr != "" {
		c.Refresh.Interval, err = time.ParseDuration(c.Refresh.IntervalStr)
		if err != nil {
			return fmt.Errorf("failed to parse refresh interval: %w", err)
		}
	} else {
		c.Refresh.Interval = DefaultInterval
	}
	if c.Refresh.FetchTimeoutStr != "" {
		c.Refresh.FetchTimeout, err = time.ParseDuration(c.Refresh.FetchTimeoutStr)
		if err != nil {
			return fmt.Errorf("failed to parse fetch timeout: %w", err)
		}
	} else {
		c.Refresh.FetchTimeout = DefaultFetchTimeout
	}

	for i := range c.Sources {
		src := &c.Sources[i]
		src.Format = strings.ToLower(strings.TrimSpace(src.Format))
		if src.Format == "" {
			src.Format = FormatXLSX
		}
		if src.PackageName == "" {
			src.PackageName = src.PackageID
		}
		if src.SheetName == "" {
			src.SheetName = DefaultSheetName
		}
		if src.Range == "" {
			src.Range = DefaultRange
		}
	}
	return nil
}

// Validate reports the first configuration problem found.
func (c *Config) Validate() error {
	if c.Refresh.Interval <= 0 {
		return fmt.Errorf("refresh interval must be positive, got %s", c.Refresh.Interval)
	}
	switch c.Database.Driver {
	case "mysql", "sqlite":
	default:
		return fmt.Errorf("unsupported database driver %q", c.Database.Driver)
	}

	seen := make(map[string]bool)
	for i, src := range c.Sources {
		if src.PackageID == "" {
			return fmt.Errorf("source %d: package_id is required", i)
		}
		if seen[src.PackageID] {
			return fmt.Errorf("source %d: duplicate package_id %q", i, src.PackageID)
		}
		seen[src.PackageID] = true

		switch src.Format {
		case FormatXLSX, FormatCSV, FormatHTML:
			if src.URL == "" {
				return fmt.Errorf("source %s: url is required for format %s", src.PackageID, src.Format)
			}
		case FormatFile:
			if src.Path == "" {
				return fmt.Errorf("source %s: path is required for format file", src.PackageID)
			}
		case FormatSheetsAPI:
			if src.SpreadsheetID == "" {
				return fmt.Errorf("source %s: spreadsheet_id is required for format sheets_api", src.PackageID)
			}
		default:
			return fmt.Errorf("source %s: unknown format %q", src.PackageID, src.Format)
		}
	}
	return nil
}

// PackageIDs lists the configured package identifiers in order.
func (c *Config) PackageIDs() []string {
	ids := make([]string, 0, len(c.Sources))
	for _, s := range c.Sources {
		ids = append(ids, s.PackageID)
	}
	return ids
}
