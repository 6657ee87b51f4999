package scene

import (
	"github.com/df07/go-lighting-preview/pkg/core"
	"github.com/df07/go-lighting-preview/pkg/lights"
)

// NewDefaultScene creates an outdoor scene with a few blocks, a sun and two lamps
func NewDefaultScene(cameraOverrides ...CameraConfig) *Scene {
	defaultCameraConfig := CameraConfig{
		Center:      core.NewVec3(0, 2.5, 6), // Position camera higher and farther back
		LookAt:      core.NewVec3(0, 0.5, -1),
		Up:          core.NewVec3(0, 1, 0),
		Width:       400,
		AspectRatio: 16.0 / 9.0,
		VFov:        40.0,
	}

	cameraConfig := defaultCameraConfig
	if len(cameraOverrides) > 0 {
		cameraConfig = MergeCameraConfig(defaultCameraConfig, cameraOverrides[0])
	}

	s := newScene("default", cameraConfig)

	// Large but finite ground so bounds stay meaningful
	s.AddGroundQuad(core.NewVec3(0, 0, 0), 40.0, core.NewVec3(0.48, 0.48, 0.0))

	s.AddBox(core.NewVec3(-0.5, 0, -1.5), core.NewVec3(0.5, 1, -0.5), core.NewVec3(0.65, 0.25, 0.2))
	s.AddBox(core.NewVec3(-2, 0, -2), core.NewVec3(-1.4, 1.8, -1.4), core.NewVec3(0.8, 0.8, 0.8))
	s.AddBox(core.NewVec3(1.2, 0, -1.2), core.NewVec3(1.8, 0.6, -0.6), core.NewVec3(0.1, 0.2, 0.5))

	// Low afternoon sun
	s.AddDirectionalLight(core.NewVec3(-1, -1.2, -0.6), core.NewVec3(0.9, 0.85, 0.75))

	// Two street lamps
	s.AddPointLight(core.NewVec3(-1.5, 2.0, 0.5), core.NewVec3(1.5, 1.2, 0.8), lights.Attenuation{Constant: 1, Quadratic: 0.5})
	s.AddPointLight(core.NewVec3(2.0, 1.5, -2.5), core.NewVec3(0.6, 0.8, 1.5), lights.Attenuation{Constant: 1, Quadratic: 0.5})

	return s
}
