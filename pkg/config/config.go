// Package config loads render settings from .env files and the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"runtime"
	"strconv"

	"github.com/df07/go-pathtracer/pkg/output"
	"github.com/joho/godotenv"
)

// Config holds everything a render run needs
type Config struct {
	Width         int
	Height        int
	Samples       int // Samples per pixel
	MaxDepth      int
	Workers       int
	Seed          int64
	Scene         string // Scene ID, see scene.Create
	MeshPath      string
	ScenesDir     string
	TexturePath   string
	Output        string // Output file, the extension picks the format; empty uses output/<scene>/
	ThumbnailSize int    // Longest side of the thumbnail, 0 disables it
	S3            output.S3Config
}

// Default returns the settings used when nothing is configured
func Default() Config {
	return Config{
		Width:    600,
		Height:   400,
		Samples:  100,
		MaxDepth: 50,
		Workers:  runtime.NumCPU(),
		Seed:     42,
		Scene:    "random",
		S3: output.S3Config{
			Region: "us-east-1",
		},
	}
}

// Load reads the given .env files in order (missing files are skipped, later
// files win) and then lets real environment variables override them
func Load(envFiles ...string) (Config, error) {
	values := make(map[string]string)
	for _, file := range envFiles {
		if file == "" {
			continue
		}
		fileValues, err := godotenv.Read(file)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return Config{}, fmt.Errorf("failed to read %s: %w", file, err)
		}
		for key, value := range fileValues {
			values[key] = value
		}
	}

	for _, key := range keys {
		if value, ok := os.LookupEnv(key); ok {
			values[key] = value
		}
	}

	return FromMap(values)
}

// Parse reads settings from .env formatted text
func Parse(content string) (Config, error) {
	values, err := godotenv.Unmarshal(content)
	if err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}
	return FromMap(values)
}

// keys lists every variable the config understands
var keys = []string{
	"PT_WIDTH", "PT_HEIGHT", "PT_SAMPLES", "PT_MAX_DEPTH", "PT_WORKERS", "PT_SEED",
	"PT_SCENE", "PT_MESH", "PT_SCENES_DIR", "PT_TEXTURE", "PT_OUTPUT", "PT_THUMBNAIL",
	"S3_ENDPOINT", "S3_REGION", "S3_BUCKET", "S3_ACCESS_KEY", "S3_SECRET_KEY", "S3_PREFIX", "S3_ACL",
}

// FromMap applies variables on top of Default
func FromMap(values map[string]string) (Config, error) {
	cfg := Default()

	ints := []struct {
		key string
		dst *int
	}{
		{"PT_WIDTH", &cfg.Width},
		{"PT_HEIGHT", &cfg.Height},
		{"PT_SAMPLES", &cfg.Samples},
		{"PT_MAX_DEPTH", &cfg.MaxDepth},
		{"PT_WORKERS", &cfg.Workers},
		{"PT_THUMBNAIL", &cfg.ThumbnailSize},
	}
	for _, field := range ints {
		value, ok := values[field.key]
		if !ok || value == "" {
			continue
		}
		n, err := strconv.Atoi(value)
		if err != nil {
			return Config{}, fmt.Errorf("%s: invalid integer %q", field.key, value)
		}
		*field.dst = n
	}

	if value := values["PT_SEED"]; value != "" {
		seed, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return Config{}, fmt.Errorf("PT_SEED: invalid integer %q", value)
		}
		cfg.Seed = seed
	}

	strs := []struct {
		key string
		dst *string
	}{
		{"PT_SCENE", &cfg.Scene},
		{"PT_MESH", &cfg.MeshPath},
		{"PT_SCENES_DIR", &cfg.ScenesDir},
		{"PT_TEXTURE", &cfg.TexturePath},
		{"PT_OUTPUT", &cfg.Output},
		{"S3_ENDPOINT", &cfg.S3.Endpoint},
		{"S3_REGION", &cfg.S3.Region},
		{"S3_BUCKET", &cfg.S3.Bucket},
		{"S3_ACCESS_KEY", &cfg.S3.AccessKey},
		{"S3_SECRET_KEY", &cfg.S3.SecretKey},
		{"S3_PREFIX", &cfg.S3.Prefix},
		{"S3_ACL", &cfg.S3.ACL},
	}
	for _, field := range strs {
		if value, ok := values[field.key]; ok && value != "" {
			*field.dst = value
		}
	}

	return cfg, nil
}

// Validate rejects settings a render cannot run with
func (c Config) Validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("invalid image size %dx%d", c.Width, c.Height)
	}
	if c.Samples <= 0 {
		return fmt.Errorf("samples per pixel must be positive, got %d", c.Samples)
	}
	if c.MaxDepth <= 0 {
		return fmt.Errorf("max depth must be positive, got %d", c.MaxDepth)
	}
	if c.Workers < 0 {
		return fmt.Errorf("workers must not be negative, got %d", c.Workers)
	}
	if c.ThumbnailSize < 0 {
		return fmt.Errorf("thumbnail size must not be negative, got %d", c.ThumbnailSize)
	}
	if c.Scene == "" {
		return errors.New("no scene selected")
	}
	if c.Output != "" {
		if _, err := output.FormatFromPath(c.Output); err != nil {
			return err
		}
	}
	return nil
}

// PublishEnabled reports whether renders should be uploaded to S3
func (c Config) PublishEnabled() bool {
	return c.S3.Bucket != ""
}
