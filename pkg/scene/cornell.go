package scene

import (
	"github.com/df07/go-lighting-preview/pkg/core"
	"github.com/df07/go-lighting-preview/pkg/lights"
)

// NewCornellScene creates a classic Cornell box with two blocks, a ceiling light and a spot light
func NewCornellScene(cameraOverrides ...CameraConfig) *Scene {
	defaultCameraConfig := CameraConfig{
		Center:      core.NewVec3(278, 278, -800), // Position camera outside the box looking in
		LookAt:      core.NewVec3(278, 278, 0),    // Look at the center of the box
		Up:          core.NewVec3(0, 1, 0),
		Width:       400,
		AspectRatio: 1.0, // Square aspect ratio for Cornell box
		VFov:        40.0,
	}

	cameraConfig := defaultCameraConfig
	if len(cameraOverrides) > 0 {
		cameraConfig = MergeCameraConfig(defaultCameraConfig, cameraOverrides[0])
	}

	s := newScene("cornell", cameraConfig)

	white := core.NewVec3(0.73, 0.73, 0.73)
	red := core.NewVec3(0.65, 0.05, 0.05)
	green := core.NewVec3(0.12, 0.45, 0.15)

	// Cornell box dimensions (standard 555x555x555 units)
	boxSize := 555.0

	// Floor, ceiling and back wall
	s.AddQuad(core.NewVec3(0, 0, 0), core.NewVec3(boxSize, 0, 0), core.NewVec3(0, 0, boxSize), white)
	s.AddQuad(core.NewVec3(0, boxSize, 0), core.NewVec3(boxSize, 0, 0), core.NewVec3(0, 0, boxSize), white)
	s.AddQuad(core.NewVec3(0, 0, boxSize), core.NewVec3(boxSize, 0, 0), core.NewVec3(0, boxSize, 0), white)

	// Left (red) and right (green) walls
	s.AddQuad(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, boxSize), core.NewVec3(0, boxSize, 0), red)
	s.AddQuad(core.NewVec3(boxSize, 0, 0), core.NewVec3(0, boxSize, 0), core.NewVec3(0, 0, boxSize), green)

	// Tall block at the back left, short block at the front right
	s.AddBox(core.NewVec3(130, 0, 280), core.NewVec3(295, 330, 445), white)
	s.AddBox(core.NewVec3(290, 0, 100), core.NewVec3(455, 165, 265), white)

	// Attenuation tuned so intensity is ~1 across the box
	boxFalloff := lights.Attenuation{Constant: 1, Quadratic: 1.0 / (300 * 300)}

	// Ceiling light just below the ceiling
	s.AddPointLight(core.NewVec3(278, boxSize-5, 278), core.NewVec3(2.0, 1.9, 1.7), boxFalloff)

	// Warm spot aimed at the short block
	s.AddSpotLight(
		core.NewVec3(60, 450, 60),   // from
		core.NewVec3(372, 165, 182), // to
		core.NewVec3(3.0, 2.2, 1.2),
		boxFalloff,
		20, // cone angle
		5,  // falloff band
	)

	// Dim fill light near the floor behind the short block
	s.AddPointLight(core.NewVec3(480, 40, 380), core.NewVec3(0.4, 0.5, 0.9), boxFalloff)

	return s
}
