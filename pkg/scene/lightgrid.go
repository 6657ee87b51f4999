package scene

import (
	"math"

	"github.com/df07/go-lighting-preview/pkg/core"
	"github.com/df07/go-lighting-preview/pkg/lights"
)

// oklchToRGB converts OKLCH color values to RGB
// L: lightness (0-1), C: chroma (0-0.4+), H: hue (0-360 degrees)
func oklchToRGB(l, c, h float64) core.Vec3 {
	hRad := h * math.Pi / 180.0

	// OKLCH to OKLAB
	a := c * math.Cos(hRad)
	b := c * math.Sin(hRad)

	// OKLAB to LMS
	l_ := l + 0.3963377774*a + 0.2158037573*b
	m_ := l - 0.1055613458*a - 0.0638541728*b
	s_ := l - 0.0894841775*a - 1.2914855480*b

	l_ = l_ * l_ * l_
	m_ = m_ * m_ * m_
	s_ = s_ * s_ * s_

	// LMS to linear RGB
	r := +4.0767416621*l_ - 3.3077115913*m_ + 0.2309699292*s_
	g := -1.2684380046*l_ + 2.6097574011*m_ - 0.3413193965*s_
	blue := -0.0041960863*l_ - 0.7034186147*m_ + 1.7076147010*s_

	return core.NewVec3(r, g, blue).Clamp(0, 1)
}

// NewLightGridScene creates a field of pillars lit by a grid of colored point lights.
// The light count is large enough that scheduling order is visible in the preview.
func NewLightGridScene(cameraOverrides ...CameraConfig) *Scene {
	defaultCameraConfig := CameraConfig{
		Center:      core.NewVec3(4.5, 7, 16),
		LookAt:      core.NewVec3(4.5, 0.5, 4.5), // Center of grid
		Up:          core.NewVec3(0, 1, 0),
		Width:       400,
		AspectRatio: 16.0 / 9.0,
		VFov:        40.0,
	}

	cameraConfig := defaultCameraConfig
	if len(cameraOverrides) > 0 {
		cameraConfig = MergeCameraConfig(defaultCameraConfig, cameraOverrides[0])
	}

	s := newScene("lightgrid", cameraConfig)

	s.AddGroundQuad(core.NewVec3(4.5, 0, 4.5), 30, core.NewVec3(0.5, 0.5, 0.5))

	// Pillars between the lights
	pillarCount := 5
	pillarSpacing := 9.0 / float64(pillarCount-1)
	for i := 0; i < pillarCount; i++ {
		for j := 0; j < pillarCount; j++ {
			x := float64(i) * pillarSpacing
			z := float64(j) * pillarSpacing
			height := 0.6 + 0.4*math.Sin(float64(i*pillarCount+j))
			s.AddBox(core.NewVec3(x-0.2, 0, z-0.2), core.NewVec3(x+0.2, 1+height, z+0.2), core.NewVec3(0.8, 0.8, 0.8))
		}
	}

	// OKLCH parameters for color variation
	gridSize := 8
	lightness := 0.75
	minChroma := 0.05
	maxChroma := 0.2
	spacing := 9.0 / float64(gridSize-1)
	falloff := lights.Attenuation{Constant: 1, Quadratic: 1.5}

	for i := 0; i < gridSize; i++ {
		for j := 0; j < gridSize; j++ {
			x := float64(i)*spacing + spacing/2 - 0.5
			z := float64(j)*spacing + spacing/2 - 0.5

			// Vary hue across X, chroma across Z
			hue := (float64(i) / float64(gridSize-1)) * 360.0
			chroma := minChroma + (float64(j)/float64(gridSize-1))*(maxChroma-minChroma)

			color := oklchToRGB(lightness, chroma, hue).Multiply(0.6)
			s.AddPointLight(core.NewVec3(x, 0.8, z), color, falloff)
		}
	}

	return s
}
