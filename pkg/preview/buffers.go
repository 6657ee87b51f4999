package preview

import (
	"errors"
	"fmt"

	"github.com/df07/go-lighting-preview/pkg/core"
)

// ErrBufferDimensions is returned when G-buffers of one generation disagree in size
var ErrBufferDimensions = errors.New("mismatched buffer dimensions")

// Matrix is a row-major 2-D grid of RGB or XYZ values
type Matrix struct {
	Width, Height int
	Data          []core.Vec3
}

// NewMatrix allocates a zeroed matrix
func NewMatrix(width, height int) *Matrix {
	return &Matrix{
		Width:  width,
		Height: height,
		Data:   make([]core.Vec3, width*height),
	}
}

// At returns the element at column x, row y
func (m *Matrix) At(x, y int) core.Vec3 {
	return m.Data[y*m.Width+x]
}

// Set stores v at column x, row y
func (m *Matrix) Set(x, y int, v core.Vec3) {
	m.Data[y*m.Width+x] = v
}

// Row returns row y as a slice aliasing the matrix storage
func (m *Matrix) Row(y int) []core.Vec3 {
	return m.Data[y*m.Width : (y+1)*m.Width]
}

// SameSize reports whether both matrices have identical dimensions
func (m *Matrix) SameSize(other *Matrix) bool {
	return other != nil && m.Width == other.Width && m.Height == other.Height
}

// SceneBuffers is one generation of host-rendered G-buffers
type SceneBuffers struct {
	Position   *Matrix
	Normal     *Matrix // Zero normal marks a pixel with no geometry
	Albedo     *Matrix
	Eye        core.Vec3 // Camera position the buffers were rendered from
	Generation int64     // Host-assigned, echoed back on frames
}

// NewSceneBuffers allocates zeroed buffers of the given size
func NewSceneBuffers(width, height int) *SceneBuffers {
	return &SceneBuffers{
		Position: NewMatrix(width, height),
		Normal:   NewMatrix(width, height),
		Albedo:   NewMatrix(width, height),
	}
}

// Width returns the buffer width in pixels
func (sb *SceneBuffers) Width() int { return sb.Position.Width }

// Height returns the buffer height in pixels
func (sb *SceneBuffers) Height() int { return sb.Position.Height }

// Validate checks that every buffer is present and that all sizes agree
func (sb *SceneBuffers) Validate() error {
	if sb.Position == nil || sb.Normal == nil || sb.Albedo == nil {
		return fmt.Errorf("%w: missing buffer", ErrBufferDimensions)
	}
	if !sb.Position.SameSize(sb.Normal) || !sb.Position.SameSize(sb.Albedo) {
		return fmt.Errorf("%w: position %dx%d, normal %dx%d, albedo %dx%d", ErrBufferDimensions,
			sb.Position.Width, sb.Position.Height,
			sb.Normal.Width, sb.Normal.Height,
			sb.Albedo.Width, sb.Albedo.Height)
	}
	if len(sb.Position.Data) != sb.Position.Width*sb.Position.Height ||
		len(sb.Normal.Data) != len(sb.Position.Data) ||
		len(sb.Albedo.Data) != len(sb.Position.Data) {
		return fmt.Errorf("%w: storage does not match declared size", ErrBufferDimensions)
	}
	return nil
}

// ViewBounds returns the box around every covered pixel position and the eye
func (sb *SceneBuffers) ViewBounds() core.AABB {
	box := core.EmptyAABB().Extend(sb.Eye)
	for i, n := range sb.Normal.Data {
		if n.IsZero() {
			continue
		}
		box = box.Extend(sb.Position.Data[i])
	}
	return box
}
