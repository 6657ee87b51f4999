package lights

import (
	"math"

	"github.com/df07/go-lighting-preview/pkg/core"
)

// SpotLight is a point light restricted to a cone with a smooth falloff band
type SpotLight struct {
	PointLight
	direction       core.Vec3 // Normalized direction the cone is aimed along
	cosTotalWidth   float64   // Cosine of the outer cone angle
	cosFalloffStart float64   // Cosine of the inner (full intensity) cone angle
}

// NewSpotLight creates a spot light
// from: light position
// to: point the light is aimed at
// coneAngleDegrees: total cone half-angle in degrees
// coneDeltaAngleDegrees: width of the falloff band in degrees
func NewSpotLight(id int, from, to, color core.Vec3, attenuation Attenuation, coneAngleDegrees, coneDeltaAngleDegrees float64) *SpotLight {
	totalWidthRadians := coneAngleDegrees * math.Pi / 180.0
	falloffStartRadians := (coneAngleDegrees - coneDeltaAngleDegrees) * math.Pi / 180.0

	return &SpotLight{
		PointLight:      *NewPointLight(id, from, color, attenuation),
		direction:       to.Subtract(from).Normalize(),
		cosTotalWidth:   math.Cos(totalWidthRadians),
		cosFalloffStart: math.Cos(falloffStartRadians),
	}
}

func (sl *SpotLight) Type() LightType { return LightTypeSpot }

// ComputeContribution implements the Light interface
func (sl *SpotLight) ComputeContribution(position, normal core.Vec3) core.Vec3 {
	toLight, _ := sl.DirectionFrom(position)
	spot := sl.falloff(sl.direction.Dot(toLight.Negate()))
	if spot == 0 {
		return core.Vec3{}
	}
	return sl.PointLight.ComputeContribution(position, normal).Multiply(spot)
}

// falloff calculates the spot attenuation for the cosine of the angle off the cone axis
func (sl *SpotLight) falloff(cosAngle float64) float64 {
	if cosAngle < sl.cosTotalWidth {
		return 0.0
	}
	if cosAngle >= sl.cosFalloffStart {
		return 1.0
	}

	delta := (cosAngle - sl.cosTotalWidth) / (sl.cosFalloffStart - sl.cosTotalWidth)
	return delta * delta * delta * delta
}
