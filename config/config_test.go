package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("PORT", ":9999")
	t.Setenv("VIMEO_TIMEOUT", "3s")
	t.Setenv("VIMEO_PER_PAGE", "25")
	t.Setenv("COOKIE_SECURE", "true")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example, https://b.example ,")

	cfg, err := LoadConfig(t.TempDir())
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Port != ":9999" {
		t.Fatalf("port: got=%q", cfg.Port)
	}
	if cfg.VimeoTimeout != 3*time.Second {
		t.Fatalf("vimeo timeout: got=%v", cfg.VimeoTimeout)
	}
	if cfg.VimeoPerPage != 25 {
		t.Fatalf("per page: got=%d", cfg.VimeoPerPage)
	}
	if !cfg.CookieSecure {
		t.Fatalf("cookie secure: want true")
	}
	if cfg.VimeoCacheTTL != 60*time.Second {
		t.Fatalf("cache ttl default: got=%v", cfg.VimeoCacheTTL)
	}
	origins := cfg.Origins()
	if len(origins) != 2 || origins[1] != "https://b.example" {
		t.Fatalf("origins: got=%v", origins)
	}
}

func TestLoadConfigFromFile(t *testing.T) {
	dir := t.TempDir()
	content := "DB_NAME=fromfile\nCATALOG_PREVIEW_POLICY=none\n"
	if err := os.WriteFile(filepath.Join(dir, "app.env"), []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	cfg, err := LoadConfig(dir)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.DBName != "fromfile" {
		t.Fatalf("db name: got=%q", cfg.DBName)
	}
	if cfg.CatalogPreviewPolicy != "none" {
		t.Fatalf("preview policy: got=%q", cfg.CatalogPreviewPolicy)
	}
}

func TestValidateRequiresPolicies(t *testing.T) {
	cfg := Config{SessionSecret: "s"}
	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected error without policies")
	}
	cfg.CatalogPreviewPolicy = "none"
	cfg.AdminPayloadPolicy = "lenient"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}
