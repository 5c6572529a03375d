// Package config handles application configuration using Viper.
// Viper supports YAML files, environment variables, and defaults — merged in priority order.
// Go convention: configuration is loaded into structs, not accessed as raw key-value pairs.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the root configuration struct. Nested structs organize related settings.
// `mapstructure` tags tell Viper how to map YAML/env keys to struct fields.
type Config struct {
	Wikipedia WikipediaConfig `mapstructure:"wikipedia"`
	Filter    FilterConfig    `mapstructure:"filter"`
	Storage   StorageConfig   `mapstructure:"storage"`
	Pace      PaceConfig      `mapstructure:"pace"`
	Log       LogConfig       `mapstructure:"log"`
}

// WikipediaConfig covers every outbound call: article lookup, image listing,
// Commons imageinfo queries, and binary downloads.
type WikipediaConfig struct {
	APIURL     string `mapstructure:"api_url"`
	CommonsURL string `mapstructure:"commons_url"`
	// UserAgent must stay descriptive and contact-bearing — the Wikimedia
	// User-Agent policy requires it for automated clients.
	UserAgent string `mapstructure:"user_agent"`
	// ImageLimit is the imlimit parameter of the image-listing query.
	// One bounded page; the tool never paginates past it.
	ImageLimit      int           `mapstructure:"image_limit"`
	QueryTimeout    time.Duration `mapstructure:"query_timeout"`
	DownloadTimeout time.Duration `mapstructure:"download_timeout"`
	// MaxQPS caps outbound API queries per second.
	MaxQPS float64 `mapstructure:"max_qps"`
}

type FilterConfig struct {
	// MinSVGWidth is the minimum pixel width for an SVG candidate to be
	// accepted. PNG candidates are accepted at any width.
	MinSVGWidth int `mapstructure:"min_svg_width"`
}

type StorageConfig struct {
	LogoDir     string `mapstructure:"logo_dir"`
	CatalogPath string `mapstructure:"catalog_path"`
}

// PaceConfig holds the mandatory politeness delays between external calls.
type PaceConfig struct {
	DownloadDelay time.Duration `mapstructure:"download_delay"`
	CompanyDelay  time.Duration `mapstructure:"company_delay"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

// Load reads configuration from a YAML file and environment variables.
// In Go, functions return errors as the last return value — callers must check them.
// This pattern replaces try/catch: if err != nil { handle it }.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	// Set defaults — these apply when neither file nor env provides a value
	v.SetDefault("wikipedia.api_url", "https://en.wikipedia.org/w/api.php")
	v.SetDefault("wikipedia.commons_url", "https://commons.wikimedia.org/w/api.php")
	v.SetDefault("wikipedia.user_agent", "logofetch/1.0 (contact@votewallet.example)")
	v.SetDefault("wikipedia.image_limit", 50)
	v.SetDefault("wikipedia.query_timeout", 15*time.Second)
	v.SetDefault("wikipedia.download_timeout", 30*time.Second)
	v.SetDefault("wikipedia.max_qps", 5.0)
	v.SetDefault("filter.min_svg_width", 100)
	v.SetDefault("storage.logo_dir", "./company_logos")
	v.SetDefault("storage.catalog_path", "./company_logos/catalog.db")
	v.SetDefault("pace.download_delay", 2*time.Second)
	v.SetDefault("pace.company_delay", 3*time.Second)
	v.SetDefault("log.level", "info")

	// Read from YAML config file if provided
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	// Read config file (ignore "not found" — defaults + env are enough)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && configPath != "" {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	// Environment variables override everything.
	// LOGOFETCH_ prefix + nested keys: LOGOFETCH_STORAGE_LOGO_DIR=/tmp/logos
	v.SetEnvPrefix("LOGOFETCH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Unmarshal into our Config struct
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	return &cfg, nil
}
