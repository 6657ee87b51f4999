package preview

import "fmt"

// WorkerStats contains counters describing the worker's progress
type WorkerStats struct {
	UnitsOfWork int   // Refinement passes evaluated since start
	RaysTraced  int64 // Shadow rays traced since start
	FramesSent  int   // Frames composited, including this one

	// Linked lights by state at send time
	NewLights     int
	NoResults     int
	PartialLights int
	FullLights    int
}

// TotalLights returns the number of linked lights
func (ws WorkerStats) TotalLights() int {
	return ws.NewLights + ws.NoResults + ws.PartialLights + ws.FullLights
}

// String formats the stats for log lines
func (ws WorkerStats) String() string {
	return fmt.Sprintf("%d units, %d rays, %d lights (new=%d none=%d partial=%d full=%d)",
		ws.UnitsOfWork, ws.RaysTraced, ws.TotalLights(), ws.NewLights, ws.NoResults, ws.PartialLights, ws.FullLights)
}

// countStates fills the per-state light counts from infos
func (ws *WorkerStats) countStates(infos []*IncrementalLightInfo) {
	ws.NewLights, ws.NoResults, ws.PartialLights, ws.FullLights = 0, 0, 0, 0
	for _, info := range infos {
		switch info.State {
		case StateNew:
			ws.NewLights++
		case StateNoResults:
			ws.NoResults++
		case StatePartialResults:
			ws.PartialLights++
		case StateFullResults:
			ws.FullLights++
		}
	}
}
