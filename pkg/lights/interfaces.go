package lights

import "github.com/df07/go-lighting-preview/pkg/core"

type LightType string

const (
	LightTypePoint       LightType = "point"
	LightTypeSpot        LightType = "spot"
	LightTypeDirectional LightType = "directional"
)

// Light is a light source as seen by the preview engine. Implementations are
// owned by the host and must be safe to read from the worker goroutine.
type Light interface {
	// ID is the stable identity used to carry refinement state across updates
	ID() int
	Type() LightType
	Position() core.Vec3
	Color() core.Vec3

	// ComputeContribution returns the unshadowed light arriving at a surface point.
	// Occlusion is applied by the caller.
	ComputeContribution(position, normal core.Vec3) core.Vec3

	// DirectionFrom returns the unit direction from point toward the light and the
	// distance to it. Directional lights report an infinite distance.
	DirectionFrom(point core.Vec3) (core.Vec3, float64)
}

// lambert returns max(0, n·l)
func lambert(normal, toLight core.Vec3) float64 {
	return max(0, normal.Dot(toLight))
}
