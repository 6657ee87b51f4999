package geometry

import (
	"math"
	"testing"

	"github.com/df07/go-lighting-preview/pkg/core"
)

func TestTracer_EmptyReportsNoHits(t *testing.T) {
	tracer := NewTracer()

	rays := []core.Ray{
		core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 1, 0)),
		core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(1, 0, 0)),
	}
	results := make([]TraceResult, len(rays))
	tracer.TraceBatch(rays, 0, math.Inf(1), results)

	for i, result := range results {
		if result.Hit {
			t.Errorf("Ray %d: expected miss on empty geometry", i)
		}
	}
}

func TestTracer_TraceBatch(t *testing.T) {
	tracer := NewTracer()
	// Occluder plane at y=2 covering x,z in [-1, 1]
	tracer.AddTriangles(QuadTriangles(0,
		core.NewVec3(-1, 2, -1), core.NewVec3(2, 0, 0), core.NewVec3(0, 0, 2), core.NewVec3(1, 1, 1)))

	if !tracer.NeedsRebuild() {
		t.Error("Expected tracer to need a rebuild after adding triangles")
	}

	up := core.NewVec3(0, 1, 0)
	rays := []core.Ray{
		core.NewRay(core.NewVec3(0.3, 0, -0.2), up), // hits at t=2
		core.NewRay(core.NewVec3(5, 0, 0), up),      // misses to the side
		core.NewRay(core.NewVec3(0.5, 1, 0.1), up),  // hits at t=1
		core.NewRay(core.NewVec3(0, 3, 0), up),      // starts above the occluder
	}
	results := make([]TraceResult, 4)
	tracer.TraceBatch(rays, 0, 10, results)

	if tracer.NeedsRebuild() {
		t.Error("Expected acceleration structure to be built by TraceBatch")
	}
	if stats := tracer.Stats(); stats.TotalTriangles != 2 || stats.TotalNodes != 1 {
		t.Errorf("Expected a single leaf holding 2 triangles, got %+v", stats)
	}

	expected := []TraceResult{
		{Hit: true, Distance: 2},
		{Hit: false},
		{Hit: true, Distance: 1},
		{Hit: false},
	}
	for i := range expected {
		if results[i].Hit != expected[i].Hit {
			t.Errorf("Ray %d: expected hit=%v, got %v", i, expected[i].Hit, results[i].Hit)
			continue
		}
		if expected[i].Hit && math.Abs(results[i].Distance-expected[i].Distance) > 1e-9 {
			t.Errorf("Ray %d: expected distance %f, got %f", i, expected[i].Distance, results[i].Distance)
		}
	}

	// tMax shorter than the occluder distance
	tracer.TraceBatch(rays[:1], 0, 1.5, results)
	if results[0].Hit {
		t.Error("Expected no hit when tMax is closer than the occluder")
	}
}

func TestTracer_IntersectAndReset(t *testing.T) {
	tracer := NewTracer()
	red := core.NewVec3(1, 0, 0)
	tracer.AddTriangle(42, core.NewVec3(-1, -1, 5), core.NewVec3(1, -1, 5), core.NewVec3(0, 1, 5), red)

	hit, ok := tracer.Intersect(core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, 1)), 0.001, 100)
	if !ok {
		t.Fatal("Expected hit")
	}
	if hit.TriangleID != 42 {
		t.Errorf("Expected triangle 42, got %d", hit.TriangleID)
	}
	if hit.Color != red {
		t.Errorf("Expected color %v, got %v", red, hit.Color)
	}
	if hit.Normal.Z >= 0 {
		t.Errorf("Expected normal facing the camera, got %v", hit.Normal)
	}

	tracer.Reset()
	if tracer.TriangleCount() != 0 {
		t.Errorf("Expected 0 triangles after reset, got %d", tracer.TriangleCount())
	}
	if _, ok := tracer.Intersect(core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, 1)), 0.001, 100); ok {
		t.Error("Expected no hit after reset")
	}
}
