package core

import (
	"math"
	"testing"
)

func TestVec3_Normalize(t *testing.T) {
	tests := []struct {
		name     string
		vector   Vec3
		expected Vec3
	}{
		{"Unit X", NewVec3(1, 0, 0), NewVec3(1, 0, 0)},
		{"Scaled Y", NewVec3(0, 5, 0), NewVec3(0, 1, 0)},
		{"Diagonal", NewVec3(3, 4, 0), NewVec3(0.6, 0.8, 0)},
		{"Zero vector", NewVec3(0, 0, 0), NewVec3(0, 0, 0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.vector.Normalize()

			const tolerance = 1e-9
			if result.Subtract(tt.expected).Length() > tolerance {
				t.Errorf("Expected %v, got %v", tt.expected, result)
			}
		})
	}
}

func TestVec3_GammaCorrect(t *testing.T) {
	v := NewVec3(0.25, 1.0, 0.0)
	result := v.GammaCorrect(2.0)

	if math.Abs(result.X-0.5) > 1e-9 {
		t.Errorf("Expected X=0.5, got %f", result.X)
	}
	if result.Y != 1.0 {
		t.Errorf("Expected Y=1.0, got %f", result.Y)
	}
	if result.Z != 0.0 {
		t.Errorf("Expected Z=0.0, got %f", result.Z)
	}

	// Negative input must not produce NaN
	neg := NewVec3(-1, 0, 0).GammaCorrect(2.2)
	if math.IsNaN(neg.X) {
		t.Error("Expected negative channel to clamp to zero, got NaN")
	}
}

func TestVec3_AbsSum(t *testing.T) {
	v := NewVec3(-1, 2, -3)
	if v.AbsSum() != 6 {
		t.Errorf("Expected 6, got %f", v.AbsSum())
	}
	if !NewVec3(0, 0, 0).IsZero() {
		t.Error("Expected zero vector to report IsZero")
	}
	if NewVec3(0, 1e-12, 0).IsZero() {
		t.Error("Expected tiny vector not to report IsZero")
	}
}

func TestVec3_Cross(t *testing.T) {
	x := NewVec3(1, 0, 0)
	y := NewVec3(0, 1, 0)
	z := x.Cross(y)
	if z != NewVec3(0, 0, 1) {
		t.Errorf("Expected (0,0,1), got %v", z)
	}
}

func TestAABB_ExtendAndContains(t *testing.T) {
	box := EmptyAABB()
	if box.IsValid() {
		t.Error("Expected empty AABB to be invalid")
	}

	box = box.Extend(NewVec3(1, 2, 3)).Extend(NewVec3(-1, 0, 5))
	if box.Min != NewVec3(-1, 0, 3) {
		t.Errorf("Expected min (-1,0,3), got %v", box.Min)
	}
	if box.Max != NewVec3(1, 2, 5) {
		t.Errorf("Expected max (1,2,5), got %v", box.Max)
	}

	if !box.Contains(NewVec3(0, 1, 4)) {
		t.Error("Expected interior point to be contained")
	}
	if !box.Contains(NewVec3(1, 2, 5)) {
		t.Error("Expected corner point to be contained")
	}
	if box.Contains(NewVec3(0, 3, 4)) {
		t.Error("Expected exterior point not to be contained")
	}
}

func TestAABB_Hit(t *testing.T) {
	box := NewAABB(NewVec3(-1, -1, -1), NewVec3(1, 1, 1))

	tests := []struct {
		name     string
		ray      Ray
		expected bool
	}{
		{"Straight through", NewRay(NewVec3(0, 0, -5), NewVec3(0, 0, 1)), true},
		{"Miss to the side", NewRay(NewVec3(3, 0, -5), NewVec3(0, 0, 1)), false},
		{"Pointing away", NewRay(NewVec3(0, 0, -5), NewVec3(0, 0, -1)), false},
		{"Parallel inside slab", NewRay(NewVec3(0, 0.5, -5), NewVec3(0, 0, 1)), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := box.Hit(tt.ray, 0.001, 1000); got != tt.expected {
				t.Errorf("Expected %v, got %v", tt.expected, got)
			}
		})
	}
}
