package preview

import "math/bits"

// Steps is the number of refinement stages. Each stage adds one scanline phase
// out of Steps, so a light's contribution image is complete after Steps passes.
const Steps = 32

const phaseMask = Steps - 1

// RefinementTable holds the interlaced reveal order
type RefinementTable struct {
	// LineMask[i] has bit p set when phase p has been computed by stage i
	LineMask [Steps]uint32
	// ClosestLine[stage][phase] is the computed phase used to fill phase at stage
	ClosestLine [Steps][Steps]int
}

// refinement is immutable after init and shared by every worker
var refinement = NewRefinementTable()

// bitReverse5 reverses the low five bits of i
func bitReverse5(i int) int {
	return int(bits.Reverse8(uint8(i)) >> 3)
}

// NewRefinementTable builds the bit-reversal line masks and closest-line lookup
func NewRefinementTable() *RefinementTable {
	rt := &RefinementTable{}

	var mask uint32
	for i := 0; i < Steps; i++ {
		mask |= 1 << bitReverse5(i)
		rt.LineMask[i] = mask
	}

	for stage := 0; stage < Steps; stage++ {
		for phase := 0; phase < Steps; phase++ {
			best := -1
			for p := 0; p <= phase; p++ {
				if rt.LineMask[stage]&(1<<p) == 0 {
					continue
				}
				// Ties go to the larger phase
				if best < 0 || phase-p <= phase-best {
					best = p
				}
			}
			rt.ClosestLine[stage][phase] = best
		}
	}

	return rt
}

// NewlyVisited returns the phases computed at stage that were not computed at prevStage.
// prevStage < 0 means nothing has been computed yet.
func (rt *RefinementTable) NewlyVisited(prevStage, stage int) uint32 {
	var prev uint32
	if prevStage >= 0 {
		prev = rt.LineMask[prevStage]
	}
	return rt.LineMask[stage] &^ prev
}

// SourceRow returns the computed row used to display row y at stage
func (rt *RefinementTable) SourceRow(stage, y int) int {
	return (y &^ phaseMask) + rt.ClosestLine[stage][y&phaseMask]
}
