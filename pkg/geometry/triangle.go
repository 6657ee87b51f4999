package geometry

import (
	"github.com/df07/go-lighting-preview/pkg/core"
)

// TriangleData is the wire form of an occluder triangle as supplied by the host
type TriangleData struct {
	ID         int
	V0, V1, V2 core.Vec3
	Color      core.Vec3 // Base color, used when the host renders G-buffers
}

// Hit describes a ray-triangle intersection
type Hit struct {
	T          float64   // Parameter t along the ray
	Point      core.Vec3 // Point of intersection
	Normal     core.Vec3 // Geometric normal, flipped to face the ray origin
	Color      core.Vec3 // Base color of the hit triangle
	TriangleID int
}

// Triangle represents a single triangle defined by three vertices
type Triangle struct {
	ID         int
	V0, V1, V2 core.Vec3 // The three vertices
	Color      core.Vec3 // Base color
	normal     core.Vec3 // Cached normal vector
	bbox       core.AABB // Cached bounding box
}

// NewTriangle creates a new triangle from three vertices
func NewTriangle(id int, v0, v1, v2, color core.Vec3) *Triangle {
	t := &Triangle{
		ID:    id,
		V0:    v0,
		V1:    v1,
		V2:    v2,
		Color: color,
	}

	// Precompute normal and bounding box
	t.normal = v1.Subtract(v0).Cross(v2.Subtract(v0)).Normalize()
	t.bbox = core.NewAABBFromPoints(v0, v1, v2)

	return t
}

// NewTriangleFromData creates a triangle from its wire form
func NewTriangleFromData(data TriangleData) *Triangle {
	return NewTriangle(data.ID, data.V0, data.V1, data.V2, data.Color)
}

// Intersect returns the ray parameter of the intersection using the Möller-Trumbore algorithm
func (t *Triangle) Intersect(ray core.Ray, tMin, tMax float64) (float64, bool) {
	const epsilon = 1e-8

	edge1 := t.V1.Subtract(t.V0)
	edge2 := t.V2.Subtract(t.V0)

	h := ray.Direction.Cross(edge2)
	a := edge1.Dot(h)

	// Ray lies in the plane of the triangle
	if a > -epsilon && a < epsilon {
		return 0, false
	}

	f := 1.0 / a
	s := ray.Origin.Subtract(t.V0)
	u := f * s.Dot(h)
	if u < 0.0 || u > 1.0 {
		return 0, false
	}

	q := s.Cross(edge1)
	v := f * ray.Direction.Dot(q)
	if v < 0.0 || u+v > 1.0 {
		return 0, false
	}

	tParam := f * edge2.Dot(q)
	if tParam < tMin || tParam > tMax {
		return 0, false
	}

	return tParam, true
}

// Hit tests the ray against the triangle and fills in a full hit description
func (t *Triangle) Hit(ray core.Ray, tMin, tMax float64) (*Hit, bool) {
	tParam, ok := t.Intersect(ray, tMin, tMax)
	if !ok {
		return nil, false
	}

	normal := t.normal
	if ray.Direction.Dot(normal) > 0 {
		normal = normal.Negate()
	}

	return &Hit{
		T:          tParam,
		Point:      ray.At(tParam),
		Normal:     normal,
		Color:      t.Color,
		TriangleID: t.ID,
	}, true
}

// BoundingBox returns the axis-aligned bounding box for this triangle
func (t *Triangle) BoundingBox() core.AABB {
	return t.bbox
}

// Normal returns the triangle's geometric normal
func (t *Triangle) Normal() core.Vec3 {
	return t.normal
}

// QuadTriangles splits the quad corner, corner+u, corner+u+v, corner+v into two triangles
func QuadTriangles(firstID int, corner, u, v, color core.Vec3) []TriangleData {
	p1 := corner.Add(u)
	p2 := corner.Add(u).Add(v)
	p3 := corner.Add(v)
	return []TriangleData{
		{ID: firstID, V0: corner, V1: p1, V2: p2, Color: color},
		{ID: firstID + 1, V0: corner, V1: p2, V2: p3, Color: color},
	}
}
