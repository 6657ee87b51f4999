package scene

import (
	"math"

	"github.com/df07/go-lighting-preview/pkg/core"
	"github.com/df07/go-lighting-preview/pkg/geometry"
	"github.com/df07/go-lighting-preview/pkg/lights"
	"github.com/df07/go-lighting-preview/pkg/loaders"
	"github.com/df07/go-lighting-preview/pkg/preview"
)

// Scene is the editor-side description of a level: occluder triangles, lights and a camera
type Scene struct {
	Name         string
	Camera       *Camera
	CameraConfig CameraConfig
	Triangles    []geometry.TriangleData
	Lights       []lights.Light

	nextTriangleID int
	nextLightID    int
}

// newScene creates an empty scene viewed through config
func newScene(name string, config CameraConfig) *Scene {
	return &Scene{
		Name:           name,
		Camera:         NewCamera(config),
		CameraConfig:   config,
		Triangles:      make([]geometry.TriangleData, 0),
		Lights:         make([]lights.Light, 0),
		nextTriangleID: 1,
		nextLightID:    1,
	}
}

// SetCamera replaces the camera, e.g. after the editor user moved the view
func (s *Scene) SetCamera(config CameraConfig) {
	s.CameraConfig = config
	s.Camera = NewCamera(config)
}

// Eye returns the camera position
func (s *Scene) Eye() core.Vec3 {
	return s.Camera.Origin()
}

// AddQuad adds the parallelogram corner, corner+u, corner+u+v, corner+v
func (s *Scene) AddQuad(corner, u, v, color core.Vec3) {
	s.Triangles = append(s.Triangles, geometry.QuadTriangles(s.nextTriangleID, corner, u, v, color)...)
	s.nextTriangleID += 2
}

// AddGroundQuad adds a large horizontal quad centered at center
func (s *Scene) AddGroundQuad(center core.Vec3, size float64, color core.Vec3) {
	corner := core.NewVec3(center.X-size/2, center.Y, center.Z-size/2)
	s.AddQuad(corner, core.NewVec3(size, 0, 0), core.NewVec3(0, 0, size), color)
}

// AddBox adds an axis-aligned box as six quads
func (s *Scene) AddBox(min, max, color core.Vec3) {
	dx := core.NewVec3(max.X-min.X, 0, 0)
	dy := core.NewVec3(0, max.Y-min.Y, 0)
	dz := core.NewVec3(0, 0, max.Z-min.Z)

	s.AddQuad(min, dx, dz, color)         // bottom
	s.AddQuad(min.Add(dy), dx, dz, color) // top
	s.AddQuad(min, dx, dy, color)         // front
	s.AddQuad(min.Add(dz), dx, dy, color) // back
	s.AddQuad(min, dz, dy, color)         // left
	s.AddQuad(min.Add(dx), dz, dy, color) // right
}

// AddMesh adds every triangle of a loaded PLY mesh, scaled then translated.
// Per-vertex colors are averaged per face when present.
func (s *Scene) AddMesh(data *loaders.PLYData, offset core.Vec3, scale float64, color core.Vec3) {
	transform := func(v core.Vec3) core.Vec3 {
		return v.Multiply(scale).Add(offset)
	}

	for i := 0; i+2 < len(data.Faces); i += 3 {
		i0, i1, i2 := data.Faces[i], data.Faces[i+1], data.Faces[i+2]
		faceColor := color
		if len(data.Colors) == len(data.Vertices) {
			faceColor = data.Colors[i0].Add(data.Colors[i1]).Add(data.Colors[i2]).Multiply(1.0 / 3.0)
		}
		s.Triangles = append(s.Triangles, geometry.TriangleData{
			ID:    s.nextTriangleID,
			V0:    transform(data.Vertices[i0]),
			V1:    transform(data.Vertices[i1]),
			V2:    transform(data.Vertices[i2]),
			Color: faceColor,
		})
		s.nextTriangleID++
	}
}

// AddPointLight adds an omnidirectional light and returns its id
func (s *Scene) AddPointLight(position, color core.Vec3, attenuation lights.Attenuation) int {
	id := s.nextLightID
	s.nextLightID++
	s.Lights = append(s.Lights, lights.NewPointLight(id, position, color, attenuation))
	return id
}

// AddSpotLight adds a cone light pointing from -> to and returns its id
func (s *Scene) AddSpotLight(from, to, color core.Vec3, attenuation lights.Attenuation, coneAngleDegrees, coneDeltaAngleDegrees float64) int {
	id := s.nextLightID
	s.nextLightID++
	s.Lights = append(s.Lights, lights.NewSpotLight(id, from, to, color, attenuation, coneAngleDegrees, coneDeltaAngleDegrees))
	return id
}

// AddDirectionalLight adds a sun-like light travelling along direction and returns its id
func (s *Scene) AddDirectionalLight(direction, color core.Vec3) int {
	id := s.nextLightID
	s.nextLightID++
	s.Lights = append(s.Lights, lights.NewDirectionalLight(id, direction, color))
	return id
}

// GetPrimitiveCount returns the number of occluder triangles
func (s *Scene) GetPrimitiveCount() int {
	return len(s.Triangles)
}

// LightsSnapshot returns a copy of the light list safe to hand to the preview worker
func (s *Scene) LightsSnapshot() []lights.Light {
	snapshot := make([]lights.Light, len(s.Lights))
	copy(snapshot, s.Lights)
	return snapshot
}

// TrianglesSnapshot returns a copy of the triangle list safe to hand to the preview worker
func (s *Scene) TrianglesSnapshot() []geometry.TriangleData {
	snapshot := make([]geometry.TriangleData, len(s.Triangles))
	copy(snapshot, s.Triangles)
	return snapshot
}

// PixelRay returns the camera ray through the center of pixel (x, y). Row 0 is the top of the image.
func (s *Scene) PixelRay(x, y, width, height int) core.Ray {
	u := (float64(x) + 0.5) / float64(width)
	v := 1 - (float64(y)+0.5)/float64(height)
	return s.Camera.GetRay(u, v)
}

// RenderGBuffers ray casts the scene from the camera and records the first hit's
// position, normal and base color per pixel. Pixels that see nothing get a zero normal.
func (s *Scene) RenderGBuffers(width, height int) *preview.SceneBuffers {
	tracer := geometry.NewTracer()
	tracer.AddTriangles(s.Triangles)
	tracer.BuildAccelerationStructure()

	buffers := preview.NewSceneBuffers(width, height)
	buffers.Eye = s.Eye()

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			hit, ok := tracer.Intersect(s.PixelRay(x, y, width, height), 1e-4, math.Inf(1))
			if !ok {
				continue
			}
			buffers.Position.Set(x, y, hit.Point)
			buffers.Normal.Set(x, y, hit.Normal)
			buffers.Albedo.Set(x, y, hit.Color)
		}
	}

	return buffers
}
