package server

import (
	"fmt"
	"math"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/df07/go-lighting-preview/pkg/core"
	"github.com/df07/go-lighting-preview/pkg/geometry"
	"github.com/df07/go-lighting-preview/pkg/preview"
	"github.com/df07/go-lighting-preview/pkg/scene"
)

// InspectResponse represents the JSON response for pixel inspection
type InspectResponse struct {
	Hit        bool          `json:"hit"`
	TriangleID int           `json:"triangleId,omitempty"`
	Point      [3]float64    `json:"point"`
	Normal     [3]float64    `json:"normal"`
	Albedo     [3]float64    `json:"albedo"`
	Distance   float64       `json:"distance"`
	Lights     []LightSample `json:"lights,omitempty"`
}

// LightSample is one light's unshadowed and shadowed contribution at the inspected point
type LightSample struct {
	ID           int        `json:"id"`
	Type         string     `json:"type"`
	Contribution [3]float64 `json:"contribution"`
	Occluded     bool       `json:"occluded"`
	OccluderID   int        `json:"occluderId,omitempty"`
	Distance     float64    `json:"distance"` // Infinite distances are reported as -1
}

// InspectResult contains what the camera ray through a pixel hit and how each light sees it
type InspectResult struct {
	Hit     bool
	Record  *geometry.Hit
	Samples []LightSample
}

// inspectPixel casts a ray through the center of the given pixel and tests every
// light's shadow ray from the first surface hit
func inspectPixel(sceneObj *scene.Scene, width, height, pixelX, pixelY int, shadowOffset float64) InspectResult {
	tracer := geometry.NewTracer()
	tracer.AddTriangles(sceneObj.Triangles)
	tracer.BuildAccelerationStructure()

	hit, isHit := tracer.Intersect(sceneObj.PixelRay(pixelX, pixelY, width, height), 1e-4, math.Inf(1))
	if !isHit {
		return InspectResult{Hit: false}
	}

	samples := make([]LightSample, 0, len(sceneObj.Lights))
	for _, light := range sceneObj.Lights {
		value := light.ComputeContribution(hit.Point, hit.Normal)
		ray, distance := preview.ShadowRay(light, hit.Point, shadowOffset)

		sample := LightSample{
			ID:           light.ID(),
			Type:         string(light.Type()),
			Contribution: toArray(value),
			Distance:     distance,
		}
		if math.IsInf(distance, 1) {
			sample.Distance = -1
		}

		if !value.IsZero() {
			hitDistance, occluderID := 0.0, 0
			blocker, blocked := tracer.Intersect(ray, 0, distance)
			if blocked {
				hitDistance, occluderID = blocker.T, blocker.TriangleID
			}
			if preview.Occluded(blocked, hitDistance, distance) {
				sample.Occluded = true
				sample.OccluderID = occluderID
			}
		}
		samples = append(samples, sample)
	}

	return InspectResult{Hit: true, Record: hit, Samples: samples}
}

func toArray(v core.Vec3) [3]float64 {
	return [3]float64{v.X, v.Y, v.Z}
}

// handleInspect handles pixel inspection requests
func (s *Server) handleInspect(c echo.Context) error {
	inspectReq := &PreviewRequest{}
	if err := s.parseCommonSceneParams(c.QueryParams(), inspectReq); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid scene parameters: " + err.Error()})
	}

	pixelX, err := strconv.Atoi(c.QueryParam("x"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid x coordinate"})
	}
	pixelY, err := strconv.Atoi(c.QueryParam("y"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid y coordinate"})
	}
	if pixelX < 0 || pixelX >= inspectReq.Width || pixelY < 0 || pixelY >= inspectReq.Height {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Pixel coordinates out of bounds"})
	}

	sceneObj, err := s.createScene(inspectReq)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": fmt.Sprintf("Unknown scene: %s", inspectReq.Scene)})
	}

	result := inspectPixel(sceneObj, inspectReq.Width, inspectReq.Height, pixelX, pixelY, s.config.ShadowRayOffset)
	if !result.Hit {
		return c.JSON(http.StatusOK, InspectResponse{Hit: false})
	}

	return c.JSON(http.StatusOK, InspectResponse{
		Hit:        true,
		TriangleID: result.Record.TriangleID,
		Point:      toArray(result.Record.Point),
		Normal:     toArray(result.Record.Normal),
		Albedo:     toArray(result.Record.Color),
		Distance:   result.Record.T,
		Lights:     result.Samples,
	})
}
