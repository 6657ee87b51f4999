package preview

import (
	"github.com/df07/go-lighting-preview/pkg/core"
	"github.com/df07/go-lighting-preview/pkg/lights"
)

// LightState tracks how far a light's contribution has been computed
type LightState int

const (
	StateNew            LightState = iota // Never computed
	StateNoResults                        // Computed before, results discarded
	StatePartialResults                   // Some scanline phases computed
	StateFullResults                      // Every scanline phase computed
)

func (s LightState) String() string {
	switch s {
	case StateNew:
		return "new"
	case StateNoResults:
		return "no-results"
	case StatePartialResults:
		return "partial"
	case StateFullResults:
		return "full"
	default:
		return "unknown"
	}
}

// IncrementalLightInfo is the per-light refinement state kept by the worker
type IncrementalLightInfo struct {
	Light lights.Light

	State LightState
	Stage int // Last completed stage, meaningful for partial and full results

	// Contribution caches the shadowed, pre-albedo light per pixel.
	// nil means no cached data.
	Contribution *Matrix

	// TotalMagnitude is the magnitude figure of the last refinement pass.
	// Kept across discards so that previously bright lights are rescheduled first.
	TotalMagnitude float64

	DistanceToEye        float64
	LastNonZeroTimestamp int64

	missedUpdates int // Consecutive light updates this light was absent from
}

// newIncrementalLightInfo creates the state for a light seen for the first time
func newIncrementalLightInfo(light lights.Light) *IncrementalLightInfo {
	return &IncrementalLightInfo{
		Light: light,
		State: StateNew,
	}
}

// HasWorkToDo reports whether another refinement step is possible
func (info *IncrementalLightInfo) HasWorkToDo() bool {
	return info.State != StateFullResults
}

// hasResults reports whether a cached contribution may exist
func (info *IncrementalLightInfo) hasResults() bool {
	return info.State == StatePartialResults || info.State == StateFullResults
}

func (info *IncrementalLightInfo) hasContribution() bool {
	return info.TotalMagnitude > 0
}

// IsHighPriority reports a never-computed light that can affect the view.
// Directional lights reach everything and always count as inside the view.
func (info *IncrementalLightInfo) IsHighPriority(viewBox core.AABB) bool {
	if info.State != StateNew {
		return false
	}
	if info.Light != nil && info.Light.Type() == lights.LightTypeDirectional {
		return true
	}
	return info.Light != nil && viewBox.IsValid() && viewBox.Contains(info.Light.Position())
}

// updateDistance recomputes the scheduling distance for a new eye position
func (info *IncrementalLightInfo) updateDistance(eye core.Vec3) {
	if info.Light.Type() == lights.LightTypeDirectional {
		info.DistanceToEye = 0
		return
	}
	info.DistanceToEye = info.Light.Position().Subtract(eye).Length()
}

// discard drops cached results. New lights stay new.
func (info *IncrementalLightInfo) discard() {
	if info.State == StateNew {
		return
	}
	info.State = StateNoResults
	info.Stage = 0
	info.Contribution = nil
}

// IsLowerPriorityThan reports whether info should be refined after other
func (info *IncrementalLightInfo) IsLowerPriorityThan(other *IncrementalLightInfo, viewBox core.AABB) bool {
	aHigh, bHigh := info.IsHighPriority(viewBox), other.IsHighPriority(viewBox)
	if aHigh != bHigh {
		return bHigh
	}

	switch {
	case info.State == StateNew && other.State == StateNew:
		return info.DistanceToEye > other.DistanceToEye
	case info.State == StateNew:
		if other.State == StateNoResults {
			return other.hasContribution()
		}
		return true
	case other.State == StateNew:
		if info.State == StateNoResults {
			return !info.hasContribution()
		}
		return false
	}

	// Nonzero first for every remaining pair, two discarded lights included
	aNonZero, bNonZero := info.hasContribution(), other.hasContribution()
	if aNonZero != bNonZero {
		return bNonZero
	}

	if aNonZero && info.hasResults() && other.hasResults() {
		stageGap := info.Stage - other.Stage
		if stageGap >= -1 && stageGap <= 1 {
			return info.TotalMagnitude > other.TotalMagnitude
		}
		return info.Stage > other.Stage
	}

	if info.LastNonZeroTimestamp != other.LastNonZeroTimestamp {
		return info.LastNonZeroTimestamp < other.LastNonZeroTimestamp
	}

	// Equal timestamps: a light with results goes before one without
	return !info.hasResults() && other.hasResults()
}
