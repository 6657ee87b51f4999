package preview

import (
	"context"
	"errors"

	"github.com/df07/go-lighting-preview/pkg/core"
	"github.com/df07/go-lighting-preview/pkg/geometry"
	"github.com/df07/go-lighting-preview/pkg/lights"
)

// ErrWorkerNotStarted is returned by Wait when Start was never called
var ErrWorkerNotStarted = errors.New("preview worker not started")

// Host is the editor side of a preview session. It owns the worker goroutine
// and never blocks except in WaitFrame and Wait.
type Host struct {
	pipe   *Pipe
	config Config
	logger core.Logger
	worker *Worker

	generation int64 // Generation assigned to the last buffers sent
	done       chan error
}

// NewHost creates a host and its (not yet running) worker
func NewHost(config Config, logger core.Logger) *Host {
	if logger == nil {
		logger = core.NopLogger{}
	}
	pipe := NewPipe()
	return &Host{
		pipe:   pipe,
		config: config,
		logger: logger,
		worker: NewWorker(pipe, config, logger),
	}
}

// Start launches the worker goroutine
func (h *Host) Start(ctx context.Context) {
	h.done = make(chan error, 1)
	go func() {
		h.done <- h.worker.Run(ctx)
	}()
}

// Wait blocks until the worker goroutine returns and reports its error
func (h *Host) Wait() error {
	if h.done == nil {
		return ErrWorkerNotStarted
	}
	return <-h.done
}

// Pipe returns the channels shared with the worker
func (h *Host) Pipe() *Pipe {
	return h.pipe
}

// SendLights replaces the worker's light list
func (h *Host) SendLights(lightList []lights.Light, eye core.Vec3) {
	h.pipe.ToWorker.Push(LightsUpdatedMessage{Lights: lightList, Eye: eye})
}

// SendGeometry replaces the worker's occluder set
func (h *Host) SendGeometry(triangles []geometry.TriangleData) {
	h.pipe.ToWorker.Push(GeometryUpdatedMessage{Triangles: triangles})
}

// SendBuffers hands a new G-buffer generation to the worker and returns the
// generation assigned to it. The host must not touch the buffers afterwards.
func (h *Host) SendBuffers(buffers *SceneBuffers) int64 {
	h.generation++
	buffers.Generation = h.generation
	h.pipe.ToWorker.Push(BuffersUpdatedMessage{Buffers: buffers})
	return h.generation
}

// Stop pauses the worker until the next scene update
func (h *Host) Stop() {
	h.pipe.ToWorker.Push(StopMessage{})
}

// Exit asks the worker loop to terminate
func (h *Host) Exit() {
	h.pipe.ToWorker.Push(ExitMessage{})
}

// accept reports whether a frame is current and large enough to show
func (h *Host) accept(frame FrameReadyMessage) bool {
	if frame.Image == nil {
		return false
	}
	bounds := frame.Image.Bounds()
	if bounds.Dx() < h.config.MinFrameSize || bounds.Dy() < h.config.MinFrameSize {
		return false
	}
	return frame.Generation >= h.generation
}

// PollFrame drains every queued frame without blocking and returns the newest
// acceptable one. Stale and degenerate frames are dropped.
func (h *Host) PollFrame() (*FrameReadyMessage, bool) {
	var newest *FrameReadyMessage
	for {
		msg, ok := h.pipe.ToHost.TryPop()
		if !ok {
			break
		}
		frame, ok := msg.(FrameReadyMessage)
		if !ok || !h.accept(frame) {
			continue
		}
		newest = &frame
	}
	return newest, newest != nil
}

// WaitFrame blocks until an acceptable frame arrives or ctx is done
func (h *Host) WaitFrame(ctx context.Context) (*FrameReadyMessage, error) {
	for {
		msg, err := h.pipe.ToHost.Pop(ctx)
		if err != nil {
			return nil, err
		}
		frame, ok := msg.(FrameReadyMessage)
		if !ok || !h.accept(frame) {
			continue
		}
		return &frame, nil
	}
}
