package preview

import (
	"image"
	"image/color"

	"github.com/df07/go-lighting-preview/pkg/core"
)

const (
	displayGamma = 2.2
	ambientEps   = 1e-9
)

// ambientColor estimates a uniform fill light from the linked lights' colors,
// weighted by how much each one contributed.
func (w *Worker) ambientColor() core.Vec3 {
	var weighted core.Vec3
	var total float64
	for _, info := range w.linked {
		if info.TotalMagnitude <= 0 {
			continue
		}
		weighted = weighted.Add(info.Light.Color().Multiply(info.TotalMagnitude))
		total += info.TotalMagnitude
	}

	return weighted.Multiply(1 / max(total, ambientEps)).Normalize().Multiply(w.config.AmbientScale)
}

// composite blends cached contributions into a linear-light result matrix
func (w *Worker) composite() *Matrix {
	buffers := w.buffers
	width, height := buffers.Width(), buffers.Height()
	result := NewMatrix(width, height)

	ambient := w.ambientColor()
	for i, albedo := range buffers.Albedo.Data {
		result.Data[i] = albedo.MultiplyVec(ambient)
	}

	for _, info := range w.linked {
		if info.TotalMagnitude <= 0 || !info.hasResults() || info.Contribution == nil {
			continue
		}

		for y := 0; y < height; y++ {
			src := info.Contribution.Row(refinement.SourceRow(info.Stage, y))
			albedo := buffers.Albedo.Row(y)
			dst := result.Row(y)
			for x := 0; x < width; x++ {
				dst[x] = dst[x].Add(src[x].MultiplyVec(albedo[x]))
			}
		}
	}

	return result
}

// toRGBA gamma-encodes a linear matrix into an 8-bit image
func toRGBA(m *Matrix) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, m.Width, m.Height))
	for y := 0; y < m.Height; y++ {
		row := m.Row(y)
		for x := 0; x < m.Width; x++ {
			c := row[x].GammaCorrect(displayGamma).Clamp(0, 1)
			img.SetRGBA(x, y, color.RGBA{
				R: uint8(c.X*255 + 0.5),
				G: uint8(c.Y*255 + 0.5),
				B: uint8(c.Z*255 + 0.5),
				A: 255,
			})
		}
	}
	return img
}

// SendResult composites the current state and pushes a frame to the host
func (w *Worker) SendResult() {
	if w.buffers == nil {
		w.pending = false
		return
	}

	img := toRGBA(w.composite())

	w.stats.FramesSent++
	w.stats.countStates(w.linked)

	frame := FrameReadyMessage{
		Image:                  img,
		Generation:             w.buffers.Generation,
		ContributionGeneration: w.contributionGeneration,
		Complete:               !w.AnyUsefulWorkToDo() && w.pipe.ToWorker.Len() == 0,
		Stats:                  w.stats,
	}
	w.pipe.ToHost.Push(frame)

	w.pending = false
	w.lastSend = w.now()
	w.logger.Printf("Preview frame %d sent (%dx%d, %s)\n",
		w.stats.FramesSent, img.Bounds().Dx(), img.Bounds().Dy(), w.stats)
}
