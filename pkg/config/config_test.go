package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Errorf("Default config should be valid: %v", err)
	}
	if cfg.PublishEnabled() {
		t.Error("Publishing should be off without a bucket")
	}
}

func TestParse(t *testing.T) {
	cfg, err := Parse(`
# render settings
PT_WIDTH=320
PT_HEIGHT=180
PT_SAMPLES=16
PT_SEED=-7
PT_SCENE=mesh:scenes/bunny.obj
PT_OUTPUT=out/bunny.jpg
S3_BUCKET=renders
S3_PREFIX="nightly"
`)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if cfg.Width != 320 || cfg.Height != 180 || cfg.Samples != 16 {
		t.Errorf("Unexpected size/samples: %dx%d @ %d", cfg.Width, cfg.Height, cfg.Samples)
	}
	if cfg.Seed != -7 {
		t.Errorf("Expected seed -7, got %d", cfg.Seed)
	}
	if cfg.Scene != "mesh:scenes/bunny.obj" || cfg.Output != "out/bunny.jpg" {
		t.Errorf("Unexpected scene/output: %q %q", cfg.Scene, cfg.Output)
	}
	if cfg.MaxDepth != 50 {
		t.Errorf("Unset values should keep defaults, got max depth %d", cfg.MaxDepth)
	}
	if !cfg.PublishEnabled() || cfg.S3.Prefix != "nightly" || cfg.S3.Region != "us-east-1" {
		t.Errorf("Unexpected S3 config: %+v", cfg.S3)
	}
}

func TestParse_InvalidNumber(t *testing.T) {
	for _, content := range []string{"PT_WIDTH=wide", "PT_SEED=1.5"} {
		if _, err := Parse(content); err == nil {
			t.Errorf("Expected error for %q", content)
		}
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	base := filepath.Join(dir, ".env")
	local := filepath.Join(dir, ".env.local")
	if err := os.WriteFile(base, []byte("PT_WIDTH=100\nPT_HEIGHT=50\nPT_SAMPLES=4\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(local, []byte("PT_HEIGHT=75\n"), 0644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("PT_SAMPLES", "9")

	cfg, err := Load(base, filepath.Join(dir, "missing.env"), local)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Width != 100 {
		t.Errorf("Expected width from .env, got %d", cfg.Width)
	}
	if cfg.Height != 75 {
		t.Errorf("Later file should win, got height %d", cfg.Height)
	}
	if cfg.Samples != 9 {
		t.Errorf("Environment should win, got samples %d", cfg.Samples)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{"zero width", func(c *Config) { c.Width = 0 }},
		{"negative height", func(c *Config) { c.Height = -1 }},
		{"zero samples", func(c *Config) { c.Samples = 0 }},
		{"zero depth", func(c *Config) { c.MaxDepth = 0 }},
		{"negative workers", func(c *Config) { c.Workers = -2 }},
		{"negative thumbnail", func(c *Config) { c.ThumbnailSize = -1 }},
		{"no scene", func(c *Config) { c.Scene = "" }},
		{"unknown output format", func(c *Config) { c.Output = "render.exr" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Errorf("Expected validation error")
			}
		})
	}
}
