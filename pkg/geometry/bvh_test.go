package geometry

import (
	"math"
	"testing"

	"github.com/df07/go-lighting-preview/pkg/core"
)

// wallOfTriangles creates n small triangles facing -Z spread along X at depth z
func wallOfTriangles(n int, z float64) []*Triangle {
	tris := make([]*Triangle, n)
	for i := 0; i < n; i++ {
		x := float64(i) * 2
		tris[i] = NewTriangle(i,
			core.NewVec3(x, 0, z),
			core.NewVec3(x+1, 0, z),
			core.NewVec3(x, 1, z),
			core.NewVec3(1, 1, 1))
	}
	return tris
}

func TestBVH_LeafThresholdBoundary(t *testing.T) {
	bvh := NewBVH(wallOfTriangles(leafThreshold, 0))
	stats := bvh.Stats()

	if stats.TotalNodes != 1 {
		t.Errorf("Expected 1 node for %d triangles, got %d", leafThreshold, stats.TotalNodes)
	}

	bvh = NewBVH(wallOfTriangles(leafThreshold+1, 0))
	stats = bvh.Stats()

	if stats.TotalNodes == 1 {
		t.Errorf("Expected split for %d triangles, but got single node", leafThreshold+1)
	}
	if stats.TotalTriangles != leafThreshold+1 {
		t.Errorf("Expected %d triangles in leaves, got %d", leafThreshold+1, stats.TotalTriangles)
	}
}

func TestBVH_Empty(t *testing.T) {
	bvh := NewBVH(nil)
	if bvh.Root != nil {
		t.Error("Expected nil root for empty BVH")
	}

	ray := core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(1, 0, 0))
	if _, _, ok := bvh.Intersect(ray, 0.001, 1000.0); ok {
		t.Error("Expected no hit for empty BVH")
	}
}

func TestBVH_MatchesLinearSearch(t *testing.T) {
	// Two walls: the ray must report the nearer one
	tris := append(wallOfTriangles(20, 5), wallOfTriangles(20, 3)...)
	for i, tri := range tris {
		tri.ID = i
	}
	bvh := NewBVH(tris)

	for i := 0; i < 20; i++ {
		ray := core.NewRay(core.NewVec3(float64(i)*2+0.2, 0.2, 0), core.NewVec3(0, 0, 1))

		expectedT := math.Inf(1)
		for _, tri := range tris {
			if tHit, ok := tri.Intersect(ray, 0.001, 100); ok && tHit < expectedT {
				expectedT = tHit
			}
		}

		_, gotT, ok := bvh.Intersect(ray, 0.001, 100)
		if !ok {
			t.Fatalf("Ray %d: expected hit, got none", i)
		}
		if math.Abs(gotT-expectedT) > 1e-9 {
			t.Errorf("Ray %d: expected t=%f, got %f", i, expectedT, gotT)
		}
		if math.Abs(gotT-3) > 1e-9 {
			t.Errorf("Ray %d: expected nearer wall at t=3, got %f", i, gotT)
		}
	}
}
