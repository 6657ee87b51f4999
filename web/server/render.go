package server

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"image"
	"image/png"
	"log"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	xdraw "golang.org/x/image/draw"

	"github.com/df07/go-lighting-preview/pkg/core"
	"github.com/df07/go-lighting-preview/pkg/preview"
)

// FrameUpdate represents a single preview frame sent via SSE
type FrameUpdate struct {
	FrameNumber int        `json:"frameNumber"`
	Generation  int64      `json:"generation"`
	Width       int        `json:"width"`
	Height      int        `json:"height"`
	ImageData   string     `json:"imageData"` // Base64 encoded PNG
	Stats       FrameStats `json:"stats"`
	IsComplete  bool       `json:"isComplete"`
	ElapsedMs   int64      `json:"elapsedMs"`
}

// FrameStats mirrors the worker counters at send time
type FrameStats struct {
	UnitsOfWork    int   `json:"unitsOfWork"`
	RaysTraced     int64 `json:"raysTraced"`
	NewLights      int   `json:"newLights"`
	NoResults      int   `json:"noResults"`
	PartialLights  int   `json:"partialLights"`
	FullLights     int   `json:"fullLights"`
	PrimitiveCount int   `json:"primitiveCount"`
}

// SSEEvent represents a unified SSE event for thread-safe writing
type SSEEvent struct {
	Type string `json:"type"` // "console", "frame", "error", "complete"
	Data string `json:"data"` // JSON-encoded data
}

// handlePreview streams preview frames for a scene via SSE until the preview converges
func (s *Server) handlePreview(c echo.Context) error {
	w := c.Response()
	s.setSSEHeaders(w)
	w.WriteHeader(http.StatusOK)

	ctx := c.Request().Context()

	sseEventChan := make(chan SSEEvent, 100)
	consoleChan, webLogger := s.setupConsoleLogging()

	writerDone := make(chan struct{})
	go func() {
		s.writeSSEEvents(ctx, w, sseEventChan, consoleChan)
		close(writerDone)
	}()

	if err := s.runPreview(ctx, c, sseEventChan, webLogger); err != nil {
		s.handleError(ctx, sseEventChan, err.Error())
	}

	close(sseEventChan)
	<-writerDone
	return nil
}

// runPreview parses the request, drives a preview host and forwards its frames
func (s *Server) runPreview(ctx context.Context, c echo.Context, sseEventChan chan<- SSEEvent, logger core.Logger) error {
	req, err := s.parsePreviewRequest(c.QueryParams())
	if err != nil {
		return fmt.Errorf("Invalid request: %v", err)
	}

	sceneObj, err := s.createScene(req)
	if err != nil {
		return err
	}

	config := s.config
	config.SendInterval = req.Interval
	config.AmbientScale = req.AmbientScale

	logger.Printf("Rendering %dx%d G-buffers for %s (%d triangles, %d lights)\n",
		req.Width, req.Height, sceneObj.Name, sceneObj.GetPrimitiveCount(), len(sceneObj.Lights))

	host := preview.NewHost(config, logger)
	host.SendGeometry(sceneObj.TrianglesSnapshot())
	host.SendBuffers(sceneObj.RenderGBuffers(req.Width, req.Height))
	host.SendLights(sceneObj.LightsSnapshot(), sceneObj.Eye())

	workerCtx, stopWorker := context.WithCancel(ctx)
	defer stopWorker()
	host.Start(workerCtx)

	startTime := time.Now()
	frameNumber := 0
	for {
		frame, err := host.WaitFrame(ctx)
		if err != nil {
			stopWorker()
			host.Wait()
			if ctx.Err() != nil {
				// Client disconnected
				return nil
			}
			return fmt.Errorf("Preview failed: %v", err)
		}

		frameNumber++
		update, err := s.frameUpdate(frame, frameNumber, req.Scale, startTime)
		if err != nil {
			stopWorker()
			host.Wait()
			return err
		}
		update.Stats.PrimitiveCount = sceneObj.GetPrimitiveCount()

		data, err := json.Marshal(update)
		if err != nil {
			log.Printf("Error marshaling frame update: %v", err)
			continue
		}
		select {
		case sseEventChan <- SSEEvent{Type: "frame", Data: string(data)}:
		case <-ctx.Done():
			stopWorker()
			host.Wait()
			return nil
		}

		if frame.Complete {
			break
		}
	}

	host.Exit()
	if err := host.Wait(); err != nil {
		return fmt.Errorf("Preview worker failed: %v", err)
	}

	select {
	case sseEventChan <- SSEEvent{Type: "complete", Data: "Preview converged"}:
	case <-ctx.Done():
	}
	return nil
}

// frameUpdate encodes a worker frame for the client
func (s *Server) frameUpdate(frame *preview.FrameReadyMessage, frameNumber int, scale float64, startTime time.Time) (FrameUpdate, error) {
	img := scaleImage(frame.Image, scale)
	imageData, err := s.imageToBase64PNG(img)
	if err != nil {
		return FrameUpdate{}, fmt.Errorf("failed to encode frame: %v", err)
	}

	bounds := img.Bounds()
	return FrameUpdate{
		FrameNumber: frameNumber,
		Generation:  frame.Generation,
		Width:       bounds.Dx(),
		Height:      bounds.Dy(),
		ImageData:   imageData,
		Stats: FrameStats{
			UnitsOfWork:   frame.Stats.UnitsOfWork,
			RaysTraced:    frame.Stats.RaysTraced,
			NewLights:     frame.Stats.NewLights,
			NoResults:     frame.Stats.NoResults,
			PartialLights: frame.Stats.PartialLights,
			FullLights:    frame.Stats.FullLights,
		},
		IsComplete: frame.Complete,
		ElapsedMs:  time.Since(startTime).Milliseconds(),
	}, nil
}

// scaleImage resizes img by scale with bilinear filtering. A scale of 1 returns img unchanged.
func scaleImage(img *image.RGBA, scale float64) image.Image {
	if scale == 1 || scale <= 0 {
		return img
	}
	bounds := img.Bounds()
	w := max(1, int(float64(bounds.Dx())*scale+0.5))
	h := max(1, int(float64(bounds.Dy())*scale+0.5))

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	xdraw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, bounds, xdraw.Src, nil)
	return dst
}

// setSSEHeaders sets the required headers for Server-Sent Events
func (s *Server) setSSEHeaders(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
}

// setupConsoleLogging creates console channel and web logger for a preview
func (s *Server) setupConsoleLogging() (chan ConsoleMessage, core.Logger) {
	consoleChan := make(chan ConsoleMessage, 50)
	previewID := fmt.Sprintf("preview-%d", time.Now().UnixNano())
	return consoleChan, NewWebLogger(previewID, consoleChan)
}

// writeSSEEvents writes frame and console events from a single goroutine until
// sseEventChan is closed or the client goes away
func (s *Server) writeSSEEvents(ctx context.Context, w *echo.Response, sseEventChan <-chan SSEEvent, consoleChan <-chan ConsoleMessage) {
	for {
		var event SSEEvent
		select {
		case e, ok := <-sseEventChan:
			if !ok {
				s.drainConsole(w, consoleChan)
				return
			}
			event = e

		case msg := <-consoleChan:
			data, err := json.Marshal(msg)
			if err != nil {
				log.Printf("Error marshaling console message: %v", err)
				continue
			}
			event = SSEEvent{Type: "console", Data: string(data)}

		case <-ctx.Done():
			// Client disconnected
			return
		}

		if err := writeSSEEvent(w, event); err != nil {
			return
		}
	}
}

// drainConsole flushes console messages still queued when the stream ends
func (s *Server) drainConsole(w *echo.Response, consoleChan <-chan ConsoleMessage) {
	for {
		select {
		case msg := <-consoleChan:
			data, err := json.Marshal(msg)
			if err != nil {
				continue
			}
			if writeSSEEvent(w, SSEEvent{Type: "console", Data: string(data)}) != nil {
				return
			}
		default:
			return
		}
	}
}

func writeSSEEvent(w *echo.Response, event SSEEvent) error {
	if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event.Type, event.Data); err != nil {
		return err
	}
	w.Flush()
	return nil
}

// imageToBase64PNG converts an image to base64-encoded PNG
func (s *Server) imageToBase64PNG(img image.Image) (string, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

// handleError sends an error event to the SSE channel
func (s *Server) handleError(ctx context.Context, sseEventChan chan<- SSEEvent, message string) {
	select {
	case sseEventChan <- SSEEvent{Type: "error", Data: message}:
	case <-ctx.Done():
		// Client disconnected, don't block
	}
}
