package main

import (
	"bytes"
	"errors"
	"flag"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/output"
	"github.com/df07/go-pathtracer/pkg/scene"
	"github.com/disintegration/imaging"
)

func TestRun_RendersFiles(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "showcase", "frame.png")

	args := []string{
		"-env", filepath.Join(dir, "none.env"),
		"-scene", "showcase",
		"-width", "24", "-height", "12",
		"-samples", "1", "-depth", "4", "-workers", "2",
		"-output", out,
		"-thumbnail", "6",
	}
	if err := run(args, &bytes.Buffer{}, core.NopLogger{}); err != nil {
		t.Fatalf("run failed: %v", err)
	}

	img, err := imaging.Open(out)
	if err != nil {
		t.Fatalf("Failed to open render: %v", err)
	}
	if img.Bounds().Dx() != 24 || img.Bounds().Dy() != 12 {
		t.Errorf("Expected 24x12 render, got %v", img.Bounds())
	}

	thumb, err := imaging.Open(filepath.Join(dir, "showcase", "frame_thumb.png"))
	if err != nil {
		t.Fatalf("Failed to open thumbnail: %v", err)
	}
	if thumb.Bounds().Dx() != 6 || thumb.Bounds().Dy() != 3 {
		t.Errorf("Expected 6x3 thumbnail, got %v", thumb.Bounds())
	}
}

func TestRun_EnvFile(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "render.jpg")
	env := filepath.Join(dir, "test.env")
	content := "PT_SCENE=triangles\nPT_WIDTH=100\nPT_HEIGHT=8\nPT_SAMPLES=1\nPT_MAX_DEPTH=3\nPT_OUTPUT=" + out + "\n"
	if err := os.WriteFile(env, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	// Flags override the file
	if err := run([]string{"-env", env, "-width", "16"}, &bytes.Buffer{}, core.NopLogger{}); err != nil {
		t.Fatalf("run failed: %v", err)
	}

	img, err := imaging.Open(out)
	if err != nil {
		t.Fatalf("Failed to open render: %v", err)
	}
	if img.Bounds().Dx() != 16 || img.Bounds().Dy() != 8 {
		t.Errorf("Expected 16x8 render, got %v", img.Bounds())
	}
}

func TestRun_Errors(t *testing.T) {
	dir := t.TempDir()
	base := []string{"-env", filepath.Join(dir, "none.env"), "-width", "8", "-height", "8", "-samples", "1",
		"-output", filepath.Join(dir, "x.png")}

	tests := []struct {
		name  string
		args  []string
		check func(error) bool
	}{
		{"unknown scene", []string{"-scene", "nonexistent"}, func(err error) bool { return errors.Is(err, scene.ErrUnknownScene) }},
		{"mesh without file", []string{"-scene", "mesh"}, func(err error) bool { return errors.Is(err, scene.ErrNoMeshPath) }},
		{"zero samples", []string{"-samples", "0"}, func(err error) bool { return err != nil }},
		{"publish without bucket", []string{"-scene", "triangles", "-publish"}, func(err error) bool { return errors.Is(err, output.ErrNoBucket) }},
		{"bad flag", []string{"-bogus"}, func(err error) bool { return err != nil }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append(append([]string{}, base...), tt.args...)
			err := run(args, &bytes.Buffer{}, core.NopLogger{})
			if !tt.check(err) {
				t.Errorf("Unexpected error: %v", err)
			}
		})
	}
}

func TestRun_Help(t *testing.T) {
	var stdout bytes.Buffer
	err := run([]string{"-help"}, &stdout, core.NopLogger{})
	if !errors.Is(err, flag.ErrHelp) {
		t.Errorf("Expected flag.ErrHelp, got %v", err)
	}
	if !strings.Contains(stdout.String(), "Usage: pathtracer") {
		t.Errorf("Expected usage text, got %q", stdout.String())
	}
}

func TestRun_List(t *testing.T) {
	var stdout bytes.Buffer
	if err := run([]string{"-env", "", "-list", "-scenes-dir", t.TempDir()}, &stdout, core.NopLogger{}); err != nil {
		t.Fatalf("run -list failed: %v", err)
	}
	for _, id := range []string{"random", "showcase", "sphere-grid", "triangles", "textures", "mesh"} {
		if !strings.Contains(stdout.String(), id) {
			t.Errorf("Scene list missing %q", id)
		}
	}
}

func TestCreateOutputDir(t *testing.T) {
	tests := []struct {
		sceneID  string
		expected string
	}{
		{"random", filepath.Join("output", "random")},
		{"sphere-grid", filepath.Join("output", "sphere-grid")},
		{"mesh:scenes/bunny.obj", filepath.Join("output", "bunny")},
		{"mesh:models/nested/teapot.stl", filepath.Join("output", "teapot")},
		{"", filepath.Join("output", "scene")},
	}

	for _, tt := range tests {
		t.Run(tt.sceneID, func(t *testing.T) {
			if got := createOutputDir(tt.sceneID); got != tt.expected {
				t.Errorf("createOutputDir(%q) = %q, want %q", tt.sceneID, got, tt.expected)
			}
		})
	}
}

func TestThumbnailPath(t *testing.T) {
	if got := thumbnailPath(filepath.Join("out", "a.png")); got != filepath.Join("out", "a_thumb.png") {
		t.Errorf("Unexpected thumbnail path %q", got)
	}
}
