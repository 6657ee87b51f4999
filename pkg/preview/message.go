package preview

import (
	"image"

	"github.com/df07/go-lighting-preview/pkg/core"
	"github.com/df07/go-lighting-preview/pkg/geometry"
	"github.com/df07/go-lighting-preview/pkg/lights"
)

// Message is anything that travels over a Channel. The set of variants is closed.
// Data carried by a message belongs to the receiver once pushed; the sender must
// not retain or mutate it.
type Message interface {
	isMessage()
}

// StopMessage pauses the worker until the next scene update
type StopMessage struct{}

// ExitMessage terminates the worker loop
type ExitMessage struct{}

// GeometryUpdatedMessage replaces the occluder triangle set
type GeometryUpdatedMessage struct {
	Triangles []geometry.TriangleData
}

// BuffersUpdatedMessage replaces the G-buffers
type BuffersUpdatedMessage struct {
	Buffers *SceneBuffers
}

// LightsUpdatedMessage replaces the light list
type LightsUpdatedMessage struct {
	Lights []lights.Light
	Eye    core.Vec3
}

// FrameReadyMessage carries a composited preview back to the host
type FrameReadyMessage struct {
	Image                  *image.RGBA
	Generation             int64 // Generation of the G-buffers the frame was built from
	ContributionGeneration int64 // Worker counter bumped on every result discard
	Complete               bool  // No useful work and no pending host update when sent
	Stats                  WorkerStats
}

func (StopMessage) isMessage()            {}
func (ExitMessage) isMessage()            {}
func (GeometryUpdatedMessage) isMessage() {}
func (BuffersUpdatedMessage) isMessage()  {}
func (LightsUpdatedMessage) isMessage()   {}
func (FrameReadyMessage) isMessage()      {}
