package loaders

import (
	"errors"
	"math"
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/geometry"
	"github.com/df07/go-pathtracer/pkg/material"
)

// A 2x1 quad in the XY plane split into two triangles, plus one collinear face
const quadOBJ = `# test quad
v 0 0 0
v 2 0 0
v 2 1 0
v 0 1 0
v 1 0 0
f 1 2 3
f 1 3 4
f 1 5 2
`

func writeFile(t *testing.T, name, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(contents), 0644); err != nil {
		t.Fatalf("Failed to write %s: %v", name, err)
	}
	return path
}

func near(a, b float64) bool {
	return math.Abs(a-b) < 1e-3
}

func TestLoadMesh_FileUnits(t *testing.T) {
	path := writeFile(t, "quad.obj", quadOBJ)
	mat := material.NewLambertian(core.NewVec3(0.5, 0.5, 0.5))

	data, err := LoadMesh(path, MeshOptions{Material: mat})
	if err != nil {
		t.Fatalf("LoadMesh failed: %v", err)
	}

	if len(data.Triangles) != 2 {
		t.Fatalf("Expected 2 triangles, got %d", len(data.Triangles))
	}
	if data.Skipped != 1 {
		t.Errorf("Expected 1 degenerate triangle skipped, got %d", data.Skipped)
	}

	tri, ok := data.Triangles[0].(*geometry.Triangle)
	if !ok {
		t.Fatalf("Expected *geometry.Triangle, got %T", data.Triangles[0])
	}
	if tri.Material != material.Material(mat) {
		t.Error("Triangles should carry the supplied material")
	}
	if tri.V1.Subtract(core.NewVec3(2, 0, 0)).Length() > 1e-9 {
		t.Errorf("Expected untransformed vertex (2,0,0), got %v", tri.V1)
	}

	// Ray through the middle of the quad hits it
	world := geometry.NewShapeList(data.Triangles...)
	hit, ok := world.Hit(core.NewRay(core.NewVec3(1.5, 0.3, 1), core.NewVec3(0, 0, -1)), 0.001, math.Inf(1))
	if !ok || math.Abs(hit.T-1) > 1e-9 {
		t.Errorf("Expected quad hit at t=1, got ok=%t", ok)
	}
}

func TestLoadMesh_Fit(t *testing.T) {
	path := writeFile(t, "quad.obj", quadOBJ)

	data, err := LoadMesh(path, MeshOptions{FitSize: 4, Center: core.NewVec3(0, 1, 0)})
	if err != nil {
		t.Fatalf("LoadMesh failed: %v", err)
	}

	b := data.Bounds
	if !near(b.Min.X, -2) || !near(b.Max.X, 2) {
		t.Errorf("Expected x in [-2,2], got [%f,%f]", b.Min.X, b.Max.X)
	}
	if !near(b.Min.Y, 0) || !near(b.Max.Y, 2) {
		t.Errorf("Expected y in [0,2], got [%f,%f]", b.Min.Y, b.Max.Y)
	}
	if !near(b.Min.Z, 0) || !near(b.Max.Z, 0) {
		t.Errorf("Expected flat z, got [%f,%f]", b.Min.Z, b.Max.Z)
	}
}

func TestLoadMesh_Rotate(t *testing.T) {
	path := writeFile(t, "quad.obj", quadOBJ)

	data, err := LoadMesh(path, MeshOptions{FitSize: 4, RotateY: 90})
	if err != nil {
		t.Fatalf("LoadMesh failed: %v", err)
	}

	// A quarter turn about Y swings the long X side onto Z
	b := data.Bounds
	if !near(b.Min.X, 0) || !near(b.Max.X, 0) {
		t.Errorf("Expected flat x after rotation, got [%f,%f]", b.Min.X, b.Max.X)
	}
	if !near(b.Min.Z, -2) || !near(b.Max.Z, 2) {
		t.Errorf("Expected z in [-2,2], got [%f,%f]", b.Min.Z, b.Max.Z)
	}
}

func TestLoadMesh_Errors(t *testing.T) {
	if _, err := LoadMesh(filepath.Join(t.TempDir(), "missing.obj"), MeshOptions{}); err == nil {
		t.Error("Expected error for a missing file")
	}

	degenerate := writeFile(t, "line.obj", "v 0 0 0\nv 1 0 0\nv 2 0 0\nf 1 2 3\n")
	if _, err := LoadMesh(degenerate, MeshOptions{}); !errors.Is(err, core.ErrEmptyScene) {
		t.Errorf("Expected ErrEmptyScene for an all-degenerate mesh, got %v", err)
	}
}

func TestLoadMesh_BuildsBVH(t *testing.T) {
	path := writeFile(t, "quad.obj", quadOBJ)
	data, err := LoadMesh(path, MeshOptions{})
	if err != nil {
		t.Fatalf("LoadMesh failed: %v", err)
	}

	if _, err := geometry.BuildBVH(data.Triangles, 0, 1, rand.New(rand.NewSource(1))); err != nil {
		t.Errorf("Imported triangles should be BVH-ready: %v", err)
	}
}
