package preview

import (
	"fmt"
	"testing"

	"github.com/df07/go-lighting-preview/pkg/core"
	"github.com/df07/go-lighting-preview/pkg/lights"
)

var testViewBox = core.NewAABB(core.NewVec3(-1, -1, -1), core.NewVec3(1, 1, 1))

func newTestInfo(state LightState, inView bool, magnitude float64) *IncrementalLightInfo {
	position := core.NewVec3(50, 0, 0)
	if inView {
		position = core.NewVec3(0, 0, 0)
	}
	info := newIncrementalLightInfo(lights.NewPointLight(1, position, core.NewVec3(1, 1, 1), lights.InverseSquare))
	info.State = state
	info.TotalMagnitude = magnitude
	info.DistanceToEye = 5
	info.LastNonZeroTimestamp = 3
	switch state {
	case StatePartialResults:
		info.Stage = Steps - 2
	case StateFullResults:
		info.Stage = Steps - 1
	}
	return info
}

func TestIsHighPriority(t *testing.T) {
	tests := []struct {
		name     string
		info     *IncrementalLightInfo
		expected bool
	}{
		{"New in view", newTestInfo(StateNew, true, 0), true},
		{"New out of view", newTestInfo(StateNew, false, 0), false},
		{"Partial in view", newTestInfo(StatePartialResults, true, 1), false},
		{"No results in view", newTestInfo(StateNoResults, true, 1), false},
		{"New directional", newIncrementalLightInfo(lights.NewDirectionalLight(2, core.NewVec3(0, -1, 0), core.NewVec3(1, 1, 1))), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.info.IsHighPriority(testViewBox); got != tt.expected {
				t.Errorf("Expected %v, got %v", tt.expected, got)
			}
		})
	}
}

func TestIsHighPriority_EmptyView(t *testing.T) {
	// Buffers with no geometry produce an empty view box
	if newTestInfo(StateNew, true, 0).IsHighPriority(core.EmptyAABB()) {
		t.Error("Expected a point light to be low priority with an empty view box")
	}
	directional := newIncrementalLightInfo(lights.NewDirectionalLight(2, core.NewVec3(0, -1, 0), core.NewVec3(1, 1, 1)))
	if !directional.IsHighPriority(core.EmptyAABB()) {
		t.Error("Expected a new directional light to stay high priority")
	}
}

func TestIsLowerPriorityThan_Rules(t *testing.T) {
	tests := []struct {
		name     string
		a, b     func() *IncrementalLightInfo
		expected bool // a is lower priority than b
	}{
		{
			name:     "High priority beats partial",
			a:        func() *IncrementalLightInfo { return newTestInfo(StatePartialResults, true, 10) },
			b:        func() *IncrementalLightInfo { return newTestInfo(StateNew, true, 0) },
			expected: true,
		},
		{
			name: "Closer new light wins",
			a: func() *IncrementalLightInfo {
				info := newTestInfo(StateNew, false, 0)
				info.DistanceToEye = 10
				return info
			},
			b:        func() *IncrementalLightInfo { return newTestInfo(StateNew, false, 0) },
			expected: true,
		},
		{
			name:     "Bright discarded light beats new light",
			a:        func() *IncrementalLightInfo { return newTestInfo(StateNew, false, 0) },
			b:        func() *IncrementalLightInfo { return newTestInfo(StateNoResults, false, 2) },
			expected: true,
		},
		{
			name:     "New light beats dark discarded light",
			a:        func() *IncrementalLightInfo { return newTestInfo(StateNoResults, false, 0) },
			b:        func() *IncrementalLightInfo { return newTestInfo(StateNew, false, 0) },
			expected: true,
		},
		{
			name:     "Partial beats new out of view",
			a:        func() *IncrementalLightInfo { return newTestInfo(StateNew, false, 0) },
			b:        func() *IncrementalLightInfo { return newTestInfo(StatePartialResults, false, 0) },
			expected: true,
		},
		{
			name:     "Nonzero partial beats zero partial",
			a:        func() *IncrementalLightInfo { return newTestInfo(StatePartialResults, false, 0) },
			b:        func() *IncrementalLightInfo { return newTestInfo(StatePartialResults, false, 1) },
			expected: true,
		},
		{
			name: "Adjacent stages: dimmer wins",
			a:    func() *IncrementalLightInfo { return newTestInfo(StatePartialResults, false, 5) },
			b: func() *IncrementalLightInfo {
				info := newTestInfo(StatePartialResults, false, 1)
				info.Stage = Steps - 3
				return info
			},
			expected: true,
		},
		{
			name: "Distant stages: lower stage wins",
			a:    func() *IncrementalLightInfo { return newTestInfo(StatePartialResults, false, 1) },
			b: func() *IncrementalLightInfo {
				info := newTestInfo(StatePartialResults, false, 5)
				info.Stage = 2
				return info
			},
			expected: true,
		},
		{
			name: "Zero partials: newer timestamp wins",
			a:    func() *IncrementalLightInfo { return newTestInfo(StatePartialResults, false, 0) },
			b: func() *IncrementalLightInfo {
				info := newTestInfo(StatePartialResults, false, 0)
				info.LastNonZeroTimestamp = 4
				return info
			},
			expected: true,
		},
		{
			name:     "Bright discarded light beats zero partial",
			a:        func() *IncrementalLightInfo { return newTestInfo(StatePartialResults, false, 0) },
			b:        func() *IncrementalLightInfo { return newTestInfo(StateNoResults, false, 1) },
			expected: true,
		},
		{
			name: "Discarded lights: newer timestamp wins",
			a:    func() *IncrementalLightInfo { return newTestInfo(StateNoResults, false, 1) },
			b: func() *IncrementalLightInfo {
				info := newTestInfo(StateNoResults, false, 1)
				info.LastNonZeroTimestamp = 9
				return info
			},
			expected: true,
		},
		{
			name: "Discarded lights: nonzero beats newer zero",
			a: func() *IncrementalLightInfo {
				info := newTestInfo(StateNoResults, false, 0)
				info.LastNonZeroTimestamp = 5
				return info
			},
			b:        func() *IncrementalLightInfo { return newTestInfo(StateNoResults, false, 1) },
			expected: true,
		},
		{
			name: "Discarded zero lights: newer timestamp wins",
			a:    func() *IncrementalLightInfo { return newTestInfo(StateNoResults, false, 0) },
			b: func() *IncrementalLightInfo {
				info := newTestInfo(StateNoResults, false, 0)
				info.LastNonZeroTimestamp = 9
				return info
			},
			expected: true,
		},
		{
			name:     "Equal timestamps: results beat no results",
			a:        func() *IncrementalLightInfo { return newTestInfo(StateNoResults, false, 1) },
			b:        func() *IncrementalLightInfo { return newTestInfo(StatePartialResults, false, 1) },
			expected: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, b := tt.a(), tt.b()
			if got := a.IsLowerPriorityThan(b, testViewBox); got != tt.expected {
				t.Errorf("Expected a<b to be %v, got %v", tt.expected, got)
			}
			if tt.expected && b.IsLowerPriorityThan(a, testViewBox) {
				t.Error("Expected b<a to be false when a<b")
			}
		})
	}
}

// TestIsLowerPriorityThan_StrictWeakOrder enumerates state x in-view x zero/nonzero
// with all other fields equal and checks the ordering axioms.
func TestIsLowerPriorityThan_StrictWeakOrder(t *testing.T) {
	type class struct {
		name string
		info *IncrementalLightInfo
	}

	var classes []class
	for _, state := range []LightState{StateNew, StateNoResults, StatePartialResults, StateFullResults} {
		for _, inView := range []bool{false, true} {
			for _, magnitude := range []float64{0, 1} {
				if state == StateNew && magnitude != 0 {
					continue
				}
				classes = append(classes, class{
					name: fmt.Sprintf("%s/view=%v/mag=%v", state, inView, magnitude),
					info: newTestInfo(state, inView, magnitude),
				})
			}
		}
	}

	less := func(a, b class) bool { return a.info.IsLowerPriorityThan(b.info, testViewBox) }
	incomparable := func(a, b class) bool { return !less(a, b) && !less(b, a) }

	for _, a := range classes {
		if less(a, a) {
			t.Errorf("%s: relation is not irreflexive", a.name)
		}
		for _, b := range classes {
			if less(a, b) && less(b, a) {
				t.Errorf("%s, %s: relation is not asymmetric", a.name, b.name)
			}
			for _, c := range classes {
				if less(a, b) && less(b, c) && !less(a, c) {
					t.Errorf("%s < %s < %s but not %s < %s", a.name, b.name, c.name, a.name, c.name)
				}
				if incomparable(a, b) && incomparable(b, c) && !incomparable(a, c) {
					t.Errorf("incomparability not transitive over %s, %s, %s", a.name, b.name, c.name)
				}
			}
		}
	}
}

func TestDiscard(t *testing.T) {
	partial := newTestInfo(StatePartialResults, true, 3)
	partial.Contribution = NewMatrix(2, 2)
	partial.discard()

	if partial.State != StateNoResults {
		t.Errorf("Expected no-results state, got %s", partial.State)
	}
	if partial.Contribution != nil {
		t.Error("Expected contribution to be dropped")
	}
	if partial.TotalMagnitude != 3 {
		t.Errorf("Expected magnitude 3 to be kept, got %f", partial.TotalMagnitude)
	}

	fresh := newTestInfo(StateNew, true, 0)
	fresh.discard()
	if fresh.State != StateNew {
		t.Errorf("Expected new light to stay new, got %s", fresh.State)
	}
}
