package server

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"runtime"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"

	"github.com/df07/go-lighting-preview/pkg/preview"
	"github.com/df07/go-lighting-preview/pkg/scene"
)

// Parameter limits shared by the preview, scene-config and inspect endpoints
const (
	MinPreviewSize = 16
	MaxPreviewSize = 2000
)

// Server handles web requests for the lighting preview
type Server struct {
	port      int
	staticDir string
	config    preview.Config
	echo      *echo.Echo
}

// NewServer creates a new web server serving static files from staticDir
func NewServer(port int, staticDir string) *Server {
	s := &Server{
		port:      port,
		staticDir: staticDir,
		config:    preview.DefaultConfig(),
	}

	e := echo.New()
	e.HideBanner = true
	e.Use(corsMiddleware)

	e.GET("/api/health", s.handleHealth)
	e.GET("/api/scenes", s.handleScenes)
	e.GET("/api/scene-config", s.handleSceneConfig)
	e.GET("/api/preview", s.handlePreview)
	e.GET("/api/inspect", s.handleInspect)
	if staticDir != "" {
		e.Static("/", staticDir)
	}

	s.echo = e
	return s
}

// PreviewRequest represents a preview request from the client
type PreviewRequest struct {
	Scene        string        `json:"scene"`        // Scene id (e.g., "cornell")
	Width        int           `json:"width"`        // Buffer width
	Height       int           `json:"height"`       // Buffer height
	Interval     time.Duration `json:"interval"`     // Minimum time between intermediate frames
	Scale        float64       `json:"scale"`        // Output image scale factor
	AmbientScale float64       `json:"ambientScale"` // Length of the ambient estimate
}

// Handler exposes the router, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Start starts the web server
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.port)
	log.Printf("Starting web server on http://localhost%s", addr)
	if err := s.echo.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func corsMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		c.Response().Header().Set("Access-Control-Allow-Origin", "*")
		c.Response().Header().Set("Access-Control-Allow-Methods", "GET")
		c.Response().Header().Set("Access-Control-Allow-Headers", "Content-Type, Accept")
		return next(c)
	}
}

// HealthResponse reports server status and host resources
type HealthResponse struct {
	Status          string  `json:"status"`
	CPUs            int     `json:"cpus"`
	Goroutines      int     `json:"goroutines"`
	MemoryTotalMB   uint64  `json:"memoryTotalMB,omitempty"`
	MemoryAvailMB   uint64  `json:"memoryAvailableMB,omitempty"`
	MemoryUsedRatio float64 `json:"memoryUsedPercent,omitempty"`
}

// handleHealth provides a health check with a snapshot of host memory
func (s *Server) handleHealth(c echo.Context) error {
	response := HealthResponse{
		Status:     "ok",
		CPUs:       runtime.NumCPU(),
		Goroutines: runtime.NumGoroutine(),
	}

	if counts, err := cpu.Counts(true); err == nil && counts > 0 {
		response.CPUs = counts
	}
	if memInfo, err := mem.VirtualMemory(); err == nil {
		response.MemoryTotalMB = memInfo.Total / (1024 * 1024)
		response.MemoryAvailMB = memInfo.Available / (1024 * 1024)
		response.MemoryUsedRatio = memInfo.UsedPercent
	} else {
		log.Printf("Health check: memory stats unavailable: %v", err)
	}

	return c.JSON(http.StatusOK, response)
}

// handleScenes lists built-in and discovered mesh scenes
func (s *Server) handleScenes(c echo.Context) error {
	response, err := scene.ListAllScenes()
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, response)
}

// LightSummary describes one scene light for the client
type LightSummary struct {
	ID       int        `json:"id"`
	Type     string     `json:"type"`
	Position [3]float64 `json:"position"`
	Color    [3]float64 `json:"color"`
}

// handleSceneConfig returns the camera defaults and lights of a scene
func (s *Server) handleSceneConfig(c echo.Context) error {
	sceneID := c.QueryParam("scene")
	if sceneID == "" {
		sceneID = "cornell"
	}

	sceneObj, err := scene.NewSceneByID(sceneID)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	lightList := make([]LightSummary, 0, len(sceneObj.Lights))
	for _, light := range sceneObj.Lights {
		p, col := light.Position(), light.Color()
		lightList = append(lightList, LightSummary{
			ID:       light.ID(),
			Type:     string(light.Type()),
			Position: [3]float64{p.X, p.Y, p.Z},
			Color:    [3]float64{col.X, col.Y, col.Z},
		})
	}

	response := map[string]interface{}{
		"scene": sceneID,
		"defaults": map[string]interface{}{
			"width":        sceneObj.CameraConfig.Width,
			"height":       sceneObj.CameraConfig.Height(),
			"intervalMs":   s.config.SendInterval.Milliseconds(),
			"ambientScale": s.config.AmbientScale,
		},
		"triangles": sceneObj.GetPrimitiveCount(),
		"lights":    lightList,
		"limits": map[string]interface{}{
			"width":        map[string]int{"min": MinPreviewSize, "max": MaxPreviewSize},
			"height":       map[string]int{"min": MinPreviewSize, "max": MaxPreviewSize},
			"intervalMs":   map[string]int{"min": 0, "max": 60000},
			"scale":        map[string]float64{"min": 0.25, "max": 4},
			"ambientScale": map[string]float64{"min": 0, "max": 1},
		},
	}
	return c.JSON(http.StatusOK, response)
}

// parseCommonSceneParams parses the scene id and buffer size
func (s *Server) parseCommonSceneParams(values url.Values, req *PreviewRequest) error {
	req.Scene = values.Get("scene")
	if req.Scene == "" {
		req.Scene = "cornell"
	}

	var err error
	if req.Width, err = parseIntParam(values, "width", 400, MinPreviewSize, MaxPreviewSize); err != nil {
		return err
	}
	if req.Height, err = parseIntParam(values, "height", 400, MinPreviewSize, MaxPreviewSize); err != nil {
		return err
	}
	return nil
}

// parsePreviewRequest parses and validates preview parameters
func (s *Server) parsePreviewRequest(values url.Values) (*PreviewRequest, error) {
	req := &PreviewRequest{}
	if err := s.parseCommonSceneParams(values, req); err != nil {
		return nil, err
	}

	intervalMs, err := parseIntParam(values, "interval", int(s.config.SendInterval.Milliseconds()), 0, 60000)
	if err != nil {
		return nil, err
	}
	req.Interval = time.Duration(intervalMs) * time.Millisecond

	if req.Scale, err = parseFloatParam(values, "scale", 1, 0.25, 4); err != nil {
		return nil, err
	}
	if req.AmbientScale, err = parseFloatParam(values, "ambientScale", s.config.AmbientScale, 0, 1); err != nil {
		return nil, err
	}
	return req, nil
}

// createScene builds the requested scene with a camera matching the buffer aspect ratio
func (s *Server) createScene(req *PreviewRequest) (*scene.Scene, error) {
	return scene.NewSceneByID(req.Scene, scene.CameraConfig{
		Width:       req.Width,
		AspectRatio: float64(req.Width) / float64(req.Height),
	})
}

// parseIntParam parses an integer parameter from URL query with validation
func parseIntParam(values url.Values, key string, defaultValue, min, max int) (int, error) {
	if value := values.Get(key); value != "" {
		parsed, err := strconv.Atoi(value)
		if err != nil {
			return 0, fmt.Errorf("invalid %s: %s", key, value)
		}
		if parsed < min || parsed > max {
			return 0, fmt.Errorf("%s must be between %d and %d, got: %d", key, min, max, parsed)
		}
		return parsed, nil
	}
	return defaultValue, nil
}

// parseFloatParam parses a float parameter from URL query with validation
func parseFloatParam(values url.Values, key string, defaultValue, min, max float64) (float64, error) {
	if value := values.Get(key); value != "" {
		parsed, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid %s: %s", key, value)
		}
		if parsed < min || parsed > max {
			return 0, fmt.Errorf("%s must be between %g and %g, got: %g", key, min, max, parsed)
		}
		return parsed, nil
	}
	return defaultValue, nil
}
