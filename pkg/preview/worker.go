package preview

import (
	"context"
	"fmt"
	"time"

	"github.com/df07/go-lighting-preview/pkg/core"
	"github.com/df07/go-lighting-preview/pkg/geometry"
)

// Worker computes per-light contributions in the background and streams
// composited frames to the host. All of its state is owned by the goroutine
// running Run; the host talks to it only through the Pipe.
type Worker struct {
	pipe   *Pipe
	config Config
	logger core.Logger

	tracer  *geometry.Tracer
	buffers *SceneBuffers
	viewBox core.AABB
	eye     core.Vec3

	infos  map[int]*IncrementalLightInfo // Every light seen and not yet evicted
	linked []*IncrementalLightInfo       // Infos for the current light list, in list order

	contributionGeneration int64
	pending                bool // Result changed since the last frame
	lastSend               time.Time
	paused                 bool

	stats WorkerStats
	now   func() time.Time
}

// NewWorker creates an idle worker with no scene data
func NewWorker(pipe *Pipe, config Config, logger core.Logger) *Worker {
	if logger == nil {
		logger = core.NopLogger{}
	}
	return &Worker{
		pipe:    pipe,
		config:  config,
		logger:  logger,
		tracer:  geometry.NewTracer(),
		viewBox: core.EmptyAABB(),
		infos:   make(map[int]*IncrementalLightInfo),
		now:     time.Now,
	}
}

// Run is the worker loop. It returns nil after an ExitMessage, the context error
// if ctx is cancelled while waiting for messages, or a protocol error.
func (w *Worker) Run(ctx context.Context) error {
	w.logger.Printf("Preview worker started\n")

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		exit, err := w.step(ctx)
		if err != nil || exit {
			return err
		}
	}
}

// step runs one loop iteration: an optional frame send, then either one message
// or one unit of work. It reports whether the worker should exit.
func (w *Worker) step(ctx context.Context) (bool, error) {
	useful := w.AnyUsefulWorkToDo()

	if w.pending && (!useful || w.now().Sub(w.lastSend) >= w.config.SendInterval) {
		w.SendResult()
	}

	if w.pipe.ToWorker.Len() > 0 || !useful {
		msg, err := w.pipe.ToWorker.Pop(ctx)
		if err != nil {
			return false, err
		}

		exit, err := w.handleMessage(msg)
		if err != nil {
			w.logger.Printf("Preview worker stopped: %v\n", err)
			return false, err
		}
		if exit {
			w.logger.Printf("Preview worker exiting after %d units of work\n", w.stats.UnitsOfWork)
		}
		return exit, nil
	}

	w.DoWork()
	return false, nil
}

// handleMessage applies one host message. It reports whether the worker should exit.
func (w *Worker) handleMessage(msg Message) (bool, error) {
	switch m := msg.(type) {
	case ExitMessage:
		return true, nil

	case StopMessage:
		w.DiscardResults()
		w.paused = true
		w.logger.Printf("Preview paused\n")

	case LightsUpdatedMessage:
		w.updateLights(m)
		w.paused = false
		w.DiscardResults()

	case GeometryUpdatedMessage:
		w.tracer.Reset()
		w.tracer.AddTriangles(m.Triangles)
		w.logger.Printf("Geometry updated: %d triangles\n", len(m.Triangles))
		w.paused = false
		w.DiscardResults()

	case BuffersUpdatedMessage:
		if err := w.updateBuffers(m.Buffers); err != nil {
			return false, err
		}
		w.paused = false
		w.DiscardResults()

	default:
		w.logger.Printf("Preview worker ignoring unexpected message %T\n", msg)
	}

	return false, nil
}

// updateLights re-links infos to the new light list and evicts long-absent lights
func (w *Worker) updateLights(m LightsUpdatedMessage) {
	w.eye = m.Eye

	for _, info := range w.infos {
		info.missedUpdates++
	}

	linked := make([]*IncrementalLightInfo, 0, len(m.Lights))
	seen := make(map[int]bool, len(m.Lights))
	for _, light := range m.Lights {
		if light == nil {
			continue
		}
		id := light.ID()
		if seen[id] {
			w.logger.Printf("Duplicate light id %d ignored\n", id)
			continue
		}
		seen[id] = true

		info, ok := w.infos[id]
		if !ok {
			info = newIncrementalLightInfo(light)
			w.infos[id] = info
		}
		info.Light = light
		info.missedUpdates = 0
		info.updateDistance(w.eye)
		linked = append(linked, info)
	}
	w.linked = linked

	evicted := 0
	if w.config.StaleLightUpdates >= 0 {
		for id, info := range w.infos {
			if info.missedUpdates > w.config.StaleLightUpdates {
				delete(w.infos, id)
				evicted++
			}
		}
	}

	w.logger.Printf("Lights updated: %d linked, %d known, %d evicted\n", len(w.linked), len(w.infos), evicted)
}

// updateBuffers validates and installs a new G-buffer generation
func (w *Worker) updateBuffers(buffers *SceneBuffers) error {
	if buffers == nil {
		return fmt.Errorf("buffers update: %w: nil buffers", ErrBufferDimensions)
	}
	if err := buffers.Validate(); err != nil {
		return fmt.Errorf("buffers update (generation %d): %w", buffers.Generation, err)
	}

	w.buffers = buffers
	w.viewBox = buffers.ViewBounds()
	w.eye = buffers.Eye
	for _, info := range w.infos {
		info.updateDistance(w.eye)
	}

	w.logger.Printf("Buffers updated: generation %d, %dx%d\n", buffers.Generation, buffers.Width(), buffers.Height())
	return nil
}

// DiscardResults drops every cached contribution and forces the next frame out immediately
func (w *Worker) DiscardResults() {
	for _, info := range w.infos {
		info.discard()
	}
	w.contributionGeneration++
	w.pending = true
	w.lastSend = time.Time{}
}

// Stats returns a snapshot of the worker counters
func (w *Worker) Stats() WorkerStats {
	stats := w.stats
	stats.countStates(w.linked)
	return stats
}

// LightInfo returns the refinement state for a light id, if known
func (w *Worker) LightInfo(id int) (*IncrementalLightInfo, bool) {
	info, ok := w.infos[id]
	return info, ok
}
