package lights

import (
	"github.com/df07/go-lighting-preview/pkg/core"
)

// Attenuation holds the constant, linear and quadratic falloff terms.
// Intensity at distance d is scaled by 1 / (Constant + Linear*d + Quadratic*d²).
type Attenuation struct {
	Constant  float64
	Linear    float64
	Quadratic float64
}

// InverseSquare is physically based falloff
var InverseSquare = Attenuation{Quadratic: 1}

func (a Attenuation) factor(distance float64) float64 {
	denom := a.Constant + a.Linear*distance + a.Quadratic*distance*distance
	if denom <= 0 {
		return 0
	}
	return 1 / denom
}

// PointLight emits equally in all directions from a single position
type PointLight struct {
	id          int
	position    core.Vec3
	color       core.Vec3 // Color scaled by intensity
	attenuation Attenuation
}

// NewPointLight creates a point light with the given falloff
func NewPointLight(id int, position, color core.Vec3, attenuation Attenuation) *PointLight {
	return &PointLight{
		id:          id,
		position:    position,
		color:       color,
		attenuation: attenuation,
	}
}

func (pl *PointLight) ID() int             { return pl.id }
func (pl *PointLight) Type() LightType     { return LightTypePoint }
func (pl *PointLight) Position() core.Vec3 { return pl.position }
func (pl *PointLight) Color() core.Vec3    { return pl.color }

// DirectionFrom implements the Light interface
func (pl *PointLight) DirectionFrom(point core.Vec3) (core.Vec3, float64) {
	toLight := pl.position.Subtract(point)
	return toLight.Normalize(), toLight.Length()
}

// ComputeContribution implements the Light interface
func (pl *PointLight) ComputeContribution(position, normal core.Vec3) core.Vec3 {
	toLight, distance := pl.DirectionFrom(position)
	if distance == 0 {
		return core.Vec3{}
	}

	cosTheta := lambert(normal, toLight)
	if cosTheta == 0 {
		return core.Vec3{}
	}

	return pl.color.Multiply(cosTheta * pl.attenuation.factor(distance))
}
