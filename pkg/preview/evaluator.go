package preview

import (
	"github.com/df07/go-lighting-preview/pkg/core"
	"github.com/df07/go-lighting-preview/pkg/geometry"
	"github.com/df07/go-lighting-preview/pkg/lights"
)

// ShadowBatchSize is the number of shadow rays traced together
const ShadowBatchSize = 4

// ShadowRay returns the shadow ray from a surface point toward light, started
// offset along the light direction, and the light's distance from position.
// Directional lights report an infinite distance.
func ShadowRay(light lights.Light, position core.Vec3, offset float64) (core.Ray, float64) {
	dir, distance := light.DirectionFrom(position)
	return core.NewRay(position.Add(dir.Multiply(offset)), dir), distance
}

// Occluded reports whether a shadow ray hit at hitDistance blocks a light at lightDistance
func Occluded(hit bool, hitDistance, lightDistance float64) bool {
	return hit && hitDistance < lightDistance
}

// shadowLane is one pending shadow test in a batch
type shadowLane struct {
	x            int
	contribution core.Vec3
	distance     float64
}

// shadowBatch collects shadow rays for one row and resolves them in groups
type shadowBatch struct {
	tracer    *geometry.Tracer
	threshold float64
	row       []core.Vec3

	lanes   [ShadowBatchSize]shadowLane
	rays    [ShadowBatchSize]core.Ray
	results [ShadowBatchSize]geometry.TraceResult
	count   int

	magnitude float64
	raysTotal int64
}

// store writes a resolved value into the row, applying the magnitude threshold
func (sb *shadowBatch) store(x int, value core.Vec3) {
	mag := value.AbsSum()
	if mag < sb.threshold {
		sb.row[x] = core.Vec3{}
		return
	}
	sb.row[x] = value
	sb.magnitude += mag
}

// add queues a shadow test and flushes when the batch is full
func (sb *shadowBatch) add(x int, contribution core.Vec3, ray core.Ray, distance float64) {
	sb.lanes[sb.count] = shadowLane{x: x, contribution: contribution, distance: distance}
	sb.rays[sb.count] = ray
	sb.count++
	if sb.count == ShadowBatchSize {
		sb.flush()
	}
}

// flush traces the queued rays. A hit closer than a lane's light occludes that lane.
func (sb *shadowBatch) flush() {
	if sb.count == 0 {
		return
	}

	tMax := 0.0
	for i := 0; i < sb.count; i++ {
		tMax = max(tMax, sb.lanes[i].distance)
	}

	sb.tracer.TraceBatch(sb.rays[:sb.count], 0, tMax, sb.results[:sb.count])
	sb.raysTotal += int64(sb.count)

	for i := 0; i < sb.count; i++ {
		lane := sb.lanes[i]
		result := sb.results[i]
		if Occluded(result.Hit, result.Distance, lane.distance) {
			sb.store(lane.x, core.Vec3{})
			continue
		}
		sb.store(lane.x, lane.contribution)
	}
	sb.count = 0
}

// CalculateForLight runs one refinement pass for info, computing the rows of the
// next stage that no earlier stage covered.
func (w *Worker) CalculateForLight(info *IncrementalLightInfo) {
	newStage := 0
	prevStage := -1
	if info.State == StatePartialResults {
		newStage = info.Stage + 1
		prevStage = info.Stage
	}
	newly := refinement.NewlyVisited(prevStage, newStage)

	buffers := w.buffers
	width, height := buffers.Width(), buffers.Height()

	contribution := info.Contribution
	if contribution == nil || prevStage < 0 || !contribution.SameSize(buffers.Position) {
		contribution = NewMatrix(width, height)
	}

	batch := &shadowBatch{
		tracer:    w.tracer,
		threshold: w.config.MagnitudeThreshold,
	}

	light := info.Light
	for y := 0; y < height; y++ {
		if newly&(1<<(y&phaseMask)) == 0 {
			continue
		}

		batch.row = contribution.Row(y)
		positions := buffers.Position.Row(y)
		normals := buffers.Normal.Row(y)

		for x := 0; x < width; x++ {
			normal := normals[x]
			if normal.IsZero() {
				batch.row[x] = core.Vec3{}
				continue
			}

			position := positions[x]
			value := light.ComputeContribution(position, normal)
			if value.IsZero() {
				batch.row[x] = core.Vec3{}
				continue
			}

			ray, distance := ShadowRay(light, position, w.config.ShadowRayOffset)
			batch.add(x, value, ray, distance)
		}
		batch.flush()
	}

	w.stats.RaysTraced += batch.raysTotal
	w.stats.UnitsOfWork++

	info.TotalMagnitude = batch.magnitude
	if batch.magnitude == 0 {
		info.Contribution = nil
	} else {
		info.Contribution = contribution
		info.LastNonZeroTimestamp = w.contributionGeneration
	}

	info.Stage = newStage
	if newStage == Steps-1 {
		info.State = StateFullResults
	} else {
		info.State = StatePartialResults
	}
}
