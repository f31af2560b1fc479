// internal/config/config.go
package conf

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bartek5186/plentyexport/internal/errs"
	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Główny config aplikacji
type Config struct {
	Source   SourceConfig   `yaml:"source"`
	Export   ExportConfig   `yaml:"export"`
	Database DBConfig       `yaml:"database"`
	Log      LogConfig      `yaml:"log"`
	Schedule ScheduleConfig `yaml:"schedule"`
}

// SourceConfig – dostęp do REST API sklepu. Dane logowania można nadpisać z env.
type SourceConfig struct {
	Type           string      `yaml:"type" validate:"required"`
	URL            string      `yaml:"url" env:"PLENTY_URL" validate:"required,url"`
	Username       string      `yaml:"username" env:"PLENTY_USERNAME" validate:"required"`
	Password       string      `yaml:"password" env:"PLENTY_PASSWORD" validate:"required"`
	ItemsPerPage   int         `yaml:"items_per_page" validate:"gte=1,lte=250"`
	TimeoutSeconds int         `yaml:"timeout_seconds" validate:"gte=1"`
	Retry          RetryConfig `yaml:"retry"`
}

type RetryConfig struct {
	MaxAttempts       int     `yaml:"max_attempts" validate:"gte=1"`
	InitialBackoff    float64 `yaml:"initial_backoff_seconds" validate:"gte=0"`
	BackoffMultiplier float64 `yaml:"backoff_multiplier" validate:"gte=1"`
	RetryableStatuses []int   `yaml:"retryable_statuses"`
}

// ExportConfig – wszystko czego potrzebuje budowanie rekordu produktu
type ExportConfig struct {
	Language              string   `yaml:"language" validate:"required,len=2"`
	TaxCountry            string   `yaml:"tax_country" validate:"required,len=2"`
	SellingPriceID        string   `yaml:"selling_price_id" validate:"required"`
	RRPPriceID            string   `yaml:"rrp_price_id"`
	ProductNameField      int      `yaml:"product_name_field" validate:"oneof=1 2 3"`
	ProductURLPrefix      string   `yaml:"product_url_prefix"`
	AvailabilityBlocklist []string `yaml:"availability_blocklist"`
	DefaultEmptyValue     string   `yaml:"default_empty_value"`
	StoreURL              string   `yaml:"store_url" validate:"required"`
	Protocol              string   `yaml:"protocol" validate:"oneof=http:// https://"`
	PlentyID              string   `yaml:"plenty_id"`
	Workers               int      `yaml:"workers" validate:"gte=1,lte=64"`
	OutputDir             string   `yaml:"output_dir" validate:"required"`
	OutputFile            string   `yaml:"output_file" validate:"required"`
}

type DBConfig struct {
	Driver string `yaml:"driver" validate:"omitempty,oneof=sqlite sqlite3 mysql postgres"`
	DSN    string `yaml:"dsn"`
}

type LogConfig struct {
	Level      string `yaml:"level" validate:"omitempty,oneof=trace debug info warn error"`
	File       string `yaml:"file"`
	Console    bool   `yaml:"console"`
	MaxSizeMB  int    `yaml:"max_size_mb" validate:"gte=0"`
	MaxBackups int    `yaml:"max_backups" validate:"gte=0"`
	MaxAgeDays int    `yaml:"max_age_days" validate:"gte=0"`
	Compress   bool   `yaml:"compress"`
}

type ScheduleConfig struct {
	IntervalSeconds int `yaml:"interval_seconds" validate:"gte=0"`
}

// Default zwraca config z sensownymi wartościami (używany też do pierwszego zapisu)
func Default() *Config {
	return &Config{
		Source: SourceConfig{
			Type:           "plentymarkets",
			URL:            "https://example.plentymarkets-cloud01.com",
			Username:       "rest-user",
			Password:       "change-me",
			ItemsPerPage:   100,
			TimeoutSeconds: 30,
			Retry: RetryConfig{
				MaxAttempts:       3,
				InitialBackoff:    1,
				BackoffMultiplier: 2,
				RetryableStatuses: []int{429, 500, 502, 503, 504},
			},
		},
		Export: ExportConfig{
			Language:              "DE",
			TaxCountry:            "DE",
			SellingPriceID:        "1",
			RRPPriceID:            "2",
			ProductNameField:      1,
			AvailabilityBlocklist: []string{},
			StoreURL:              "www.example.com",
			Protocol:              "https://",
			Workers:               4,
			OutputDir:             "export",
			OutputFile:            "findologic.csv",
		},
		Database: DBConfig{Driver: "sqlite"},
		Log: LogConfig{
			Level:      "info",
			File:       "export.log",
			Console:    true,
			MaxSizeMB:  50,
			MaxBackups: 5,
			MaxAgeDays: 14,
			Compress:   true,
		},
	}
}

func LoadOrCreate(path string) (*Config, bool, error) {
	// upewnij się, że katalog istnieje
	_ = os.MkdirAll(filepath.Dir(path), 0o755)

	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return nil, false, errs.Wrap(err, errs.ErrConfiguration, "open config")
		}
		cfg := Default()
		if err := Save(path, cfg); err != nil {
			return nil, false, errs.Wrap(err, errs.ErrConfiguration, "write default config")
		}
		if err := cfg.finish(); err != nil {
			return nil, false, err
		}
		return cfg, true, nil
	}

	cfg, err := Load(path)
	if err != nil {
		return nil, false, err
	}
	return cfg, false, nil
}

// Load czyta YAML, rozwija ${VAR}, nakłada env i waliduje
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errs.Wrap(err, errs.ErrConfiguration, "read config")
	}
	return Parse(data)
}

func Parse(data []byte) (*Config, error) {
	expanded := os.Expand(string(data), os.Getenv)

	cfg := Default()
	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return nil, errs.Wrap(err, errs.ErrConfiguration, "parse YAML")
	}
	if err := cfg.finish(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	_ = os.MkdirAll(filepath.Dir(path), 0o755)
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := yaml.NewEncoder(f)
	enc.SetIndent(2)
	if err := enc.Encode(cfg); err != nil {
		return err
	}
	return enc.Close()
}

func (c *Config) finish() error {
	if err := env.Parse(&c.Source); err != nil {
		return errs.Wrap(err, errs.ErrConfiguration, "read environment")
	}
	c.Export.Language = strings.ToUpper(strings.TrimSpace(c.Export.Language))
	c.Export.TaxCountry = strings.ToUpper(strings.TrimSpace(c.Export.TaxCountry))
	return c.Validate()
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate zwraca jeden błąd ze wszystkimi polami, które nie przeszły walidacji
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return errs.Wrap(err, errs.ErrConfiguration, "validate")
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s: failed %q", fe.Namespace(), fe.Tag()))
	}
	return errs.Wrap(errors.New(strings.Join(msgs, "; ")), errs.ErrConfiguration, "validation errors")
}

// OutputPath – pełna ścieżka pliku eksportu
func (c *Config) OutputPath() string {
	return filepath.Join(c.Export.OutputDir, c.Export.OutputFile)
}
