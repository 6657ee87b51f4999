package geometry

import (
	"github.com/df07/go-lighting-preview/pkg/core"
)

// TraceResult is the outcome of one ray in a batch
type TraceResult struct {
	Hit      bool
	Distance float64
}

// Tracer owns the occluder triangle set and answers batched ray queries.
// It is not safe for concurrent use; the preview worker is its only user.
type Tracer struct {
	triangles []*Triangle
	bvh       *BVH
	dirty     bool
}

// NewTracer creates an empty tracer. An empty tracer reports every ray as unoccluded.
func NewTracer() *Tracer {
	return &Tracer{bvh: &BVH{}}
}

// Reset drops all triangles
func (t *Tracer) Reset() {
	t.triangles = t.triangles[:0]
	t.bvh = &BVH{}
	t.dirty = false
}

// AddTriangle adds an occluder. The acceleration structure is rebuilt before the next trace.
func (t *Tracer) AddTriangle(id int, v0, v1, v2, baseColor core.Vec3) {
	t.triangles = append(t.triangles, NewTriangle(id, v0, v1, v2, baseColor))
	t.dirty = true
}

// AddTriangles adds every triangle in data
func (t *Tracer) AddTriangles(data []TriangleData) {
	for _, tri := range data {
		t.triangles = append(t.triangles, NewTriangleFromData(tri))
	}
	if len(data) > 0 {
		t.dirty = true
	}
}

// BuildAccelerationStructure rebuilds the BVH over the current triangle set
func (t *Tracer) BuildAccelerationStructure() {
	t.bvh = NewBVH(t.triangles)
	t.dirty = false
}

// NeedsRebuild reports whether triangles were added since the last build
func (t *Tracer) NeedsRebuild() bool {
	return t.dirty
}

// TriangleCount returns the number of triangles in the set
func (t *Tracer) TriangleCount() int {
	return len(t.triangles)
}

// Stats returns the shape of the current acceleration structure
func (t *Tracer) Stats() BVHStats {
	return t.bvh.Stats()
}

// TraceBatch traces rays against the triangle set and writes one result per ray into results.
// results must be at least as long as rays.
func (t *Tracer) TraceBatch(rays []core.Ray, tMin, tMax float64, results []TraceResult) {
	if t.dirty {
		t.BuildAccelerationStructure()
	}

	for i, ray := range rays {
		_, dist, hit := t.bvh.Intersect(ray, tMin, tMax)
		results[i] = TraceResult{Hit: hit, Distance: dist}
	}
}

// Intersect returns the closest hit with full surface information
func (t *Tracer) Intersect(ray core.Ray, tMin, tMax float64) (*Hit, bool) {
	if t.dirty {
		t.BuildAccelerationStructure()
	}

	tri, _, ok := t.bvh.Intersect(ray, tMin, tMax)
	if !ok {
		return nil, false
	}
	return tri.Hit(ray, tMin, tMax)
}
