package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("loading config: %v", err)
	}

	if cfg.Wikipedia.APIURL != "https://en.wikipedia.org/w/api.php" {
		t.Errorf("api_url = %q", cfg.Wikipedia.APIURL)
	}
	if cfg.Wikipedia.CommonsURL != "https://commons.wikimedia.org/w/api.php" {
		t.Errorf("commons_url = %q", cfg.Wikipedia.CommonsURL)
	}
	if cfg.Wikipedia.ImageLimit != 50 {
		t.Errorf("image_limit = %d, want 50", cfg.Wikipedia.ImageLimit)
	}
	if cfg.Wikipedia.UserAgent == "" {
		t.Error("user_agent default must not be empty — the upstream policy requires identification")
	}
	if cfg.Wikipedia.QueryTimeout != 15*time.Second {
		t.Errorf("query_timeout = %v, want 15s", cfg.Wikipedia.QueryTimeout)
	}
	if cfg.Wikipedia.DownloadTimeout != 30*time.Second {
		t.Errorf("download_timeout = %v, want 30s", cfg.Wikipedia.DownloadTimeout)
	}
	if cfg.Filter.MinSVGWidth != 100 {
		t.Errorf("min_svg_width = %d, want 100", cfg.Filter.MinSVGWidth)
	}
	if cfg.Pace.DownloadDelay != 2*time.Second {
		t.Errorf("download_delay = %v, want 2s", cfg.Pace.DownloadDelay)
	}
	if cfg.Pace.CompanyDelay != 3*time.Second {
		t.Errorf("company_delay = %v, want 3s", cfg.Pace.CompanyDelay)
	}
	if cfg.Storage.LogoDir != "./company_logos" {
		t.Errorf("logo_dir = %q", cfg.Storage.LogoDir)
	}
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("LOGOFETCH_STORAGE_LOGO_DIR", "/tmp/test-logos")
	t.Setenv("LOGOFETCH_WIKIPEDIA_IMAGE_LIMIT", "25")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("loading config: %v", err)
	}
	if cfg.Storage.LogoDir != "/tmp/test-logos" {
		t.Errorf("logo_dir = %q, want env override", cfg.Storage.LogoDir)
	}
	if cfg.Wikipedia.ImageLimit != 25 {
		t.Errorf("image_limit = %d, want 25", cfg.Wikipedia.ImageLimit)
	}
}

func TestLoad_YAMLFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yaml := []byte("wikipedia:\n  user_agent: \"custom/2.0 (ops@example.com)\"\npace:\n  download_delay: 5s\n")
	if err := os.WriteFile(path, yaml, 0644); err != nil {
		t.Fatalf("writing config file: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("loading config: %v", err)
	}
	if cfg.Wikipedia.UserAgent != "custom/2.0 (ops@example.com)" {
		t.Errorf("user_agent = %q, want file value", cfg.Wikipedia.UserAgent)
	}
	if cfg.Pace.DownloadDelay != 5*time.Second {
		t.Errorf("download_delay = %v, want 5s", cfg.Pace.DownloadDelay)
	}
	// Values absent from the file keep their defaults.
	if cfg.Wikipedia.ImageLimit != 50 {
		t.Errorf("image_limit = %d, want default 50", cfg.Wikipedia.ImageLimit)
	}
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing explicit config file")
	}
}
