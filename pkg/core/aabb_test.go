package core

import (
	"math"
	"math/rand"
	"testing"
)

func TestAABB_Hit(t *testing.T) {
	box := NewAABB(NewVec3(-1, -1, -1), NewVec3(1, 1, 1))

	tests := []struct {
		name     string
		ray      Ray
		tMin     float64
		tMax     float64
		expected bool
	}{
		{"Straight through", NewRay(NewVec3(0, 0, 5), NewVec3(0, 0, -1)), 0, math.Inf(1), true},
		{"Pointing away", NewRay(NewVec3(0, 0, 5), NewVec3(0, 0, 1)), 0, math.Inf(1), false},
		{"Miss above", NewRay(NewVec3(0, 3, 5), NewVec3(0, 0, -1)), 0, math.Inf(1), false},
		{"Diagonal", NewRay(NewVec3(-5, -5, -5), NewVec3(1, 1, 1)), 0, math.Inf(1), true},
		{"Interval ends before box", NewRay(NewVec3(0, 0, 5), NewVec3(0, 0, -1)), 0, 3.5, false},
		{"Interval starts after box", NewRay(NewVec3(0, 0, 5), NewVec3(0, 0, -1)), 6.5, 10, false},
		{"Parallel inside slab", NewRay(NewVec3(0.5, 0.5, 5), NewVec3(0, 0, -1)), 0, math.Inf(1), true},
		{"Parallel outside slab", NewRay(NewVec3(2, 0.5, 5), NewVec3(0, 0, -1)), 0, math.Inf(1), false},
		{"Negative zero direction outside", NewRay(NewVec3(2, 0, 5), NewVec3(math.Copysign(0, -1), 0, -1)), 0, math.Inf(1), false},
		{"Origin on min plane, away on Y", NewRay(NewVec3(-1, 5, 0), NewVec3(0, 1, 0)), 0, math.Inf(1), false},
		{"Origin on max plane, away on Z", NewRay(NewVec3(1, 0, 5), NewVec3(0, 0, 1)), 0, math.Inf(1), false},
		{"Origin on min plane, toward box", NewRay(NewVec3(-1, 5, 0), NewVec3(0, -1, 0)), 0, math.Inf(1), true},
		{"Origin on max plane, outside Z slab", NewRay(NewVec3(1, 0, 3), NewVec3(0, 1, 0)), 0, math.Inf(1), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := box.Hit(tt.ray, tt.tMin, tt.tMax); got != tt.expected {
				t.Errorf("Expected hit=%v, got %v", tt.expected, got)
			}
		})
	}
}

func TestAABB_HitFromInside(t *testing.T) {
	box := NewAABB(NewVec3(-2, -1, -3), NewVec3(2, 1, 3))
	sampler := NewSeededSampler(7)

	for i := 0; i < 500; i++ {
		origin := NewVec3(
			-2+4*sampler.Get1D(),
			-1+2*sampler.Get1D(),
			-3+6*sampler.Get1D(),
		)
		direction := RandomInUnitSphere(sampler)
		if direction.LengthSquared() == 0 {
			continue
		}
		if !box.Hit(NewRay(origin, direction), 0, math.Inf(1)) {
			t.Fatalf("Ray from inside the box missed: origin %v direction %v", origin, direction)
		}
	}
}

func TestAABB_MissOnOneAxis(t *testing.T) {
	box := NewAABB(NewVec3(0, 0, 0), NewVec3(1, 1, 1))
	random := rand.New(rand.NewSource(3))

	// Every ray lives in the plane y = 5, so it misses in both directions
	for i := 0; i < 200; i++ {
		dir := NewVec3(random.Float64()*2-1, 0, random.Float64()*2-1)
		ray := NewRay(NewVec3(0.5, 5, 0.5), dir)
		if box.Hit(ray, math.Inf(-1), math.Inf(1)) {
			t.Fatalf("Expected miss for ray %v", ray)
		}
	}
}

func TestAABB_SurroundingBox(t *testing.T) {
	a := NewAABB(NewVec3(0, 0, 0), NewVec3(1, 1, 1))
	b := NewAABB(NewVec3(-1, 0.5, 2), NewVec3(0.5, 3, 4))

	got := SurroundingBox(a, b)
	expected := NewAABB(NewVec3(-1, 0, 0), NewVec3(1, 3, 4))
	if got != expected {
		t.Errorf("Expected %v, got %v", expected, got)
	}
	if !got.IsValid() {
		t.Error("Expected union to be valid")
	}
}

func TestAABB_FromPointsAndExpand(t *testing.T) {
	box := NewAABBFromPoints(NewVec3(1, 0, 0), NewVec3(0, 1, 0), NewVec3(0, 0, 1))
	if box.Min != NewVec3(0, 0, 0) || box.Max != NewVec3(1, 1, 1) {
		t.Errorf("Unexpected box %v", box)
	}

	flat := NewAABBFromPoints(NewVec3(0, 0, 0), NewVec3(1, 1, 0))
	expanded := flat.Expand(0.1)
	if expanded.Size().Z <= 0 {
		t.Errorf("Expected expanded box to have thickness, got %v", expanded.Size())
	}
}

func TestAABB_IsValid(t *testing.T) {
	if NewAABB(NewVec3(1, 0, 0), NewVec3(0, 1, 1)).IsValid() {
		t.Error("Inverted box should be invalid")
	}
	if NewAABB(NewVec3(math.Inf(-1), 0, 0), NewVec3(0, 1, 1)).IsValid() {
		t.Error("Infinite box should be invalid")
	}
}
