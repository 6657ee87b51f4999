package lights

import (
	"math"

	"github.com/df07/go-lighting-preview/pkg/core"
)

// DirectionalLight is an infinitely distant light such as the sun
type DirectionalLight struct {
	id        int
	direction core.Vec3 // Normalized direction the light travels
	color     core.Vec3
}

// NewDirectionalLight creates a light travelling along direction
func NewDirectionalLight(id int, direction, color core.Vec3) *DirectionalLight {
	return &DirectionalLight{
		id:        id,
		direction: direction.Normalize(),
		color:     color,
	}
}

func (dl *DirectionalLight) ID() int         { return dl.id }
func (dl *DirectionalLight) Type() LightType { return LightTypeDirectional }
func (dl *DirectionalLight) Color() core.Vec3 {
	return dl.color
}

// Position has no meaning for a directional light; the zero vector is returned
func (dl *DirectionalLight) Position() core.Vec3 { return core.Vec3{} }

// DirectionFrom implements the Light interface
func (dl *DirectionalLight) DirectionFrom(point core.Vec3) (core.Vec3, float64) {
	return dl.direction.Negate(), math.Inf(1)
}

// ComputeContribution implements the Light interface
func (dl *DirectionalLight) ComputeContribution(position, normal core.Vec3) core.Vec3 {
	return dl.color.Multiply(lambert(normal, dl.direction.Negate()))
}
