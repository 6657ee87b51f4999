package preview

// nextLight returns the highest-priority linked light that still has work, or nil
func (w *Worker) nextLight() *IncrementalLightInfo {
	var best *IncrementalLightInfo
	for _, info := range w.linked {
		if !info.HasWorkToDo() {
			continue
		}
		if best == nil || best.IsLowerPriorityThan(info, w.viewBox) {
			best = info
		}
	}
	return best
}

// DoWork performs a single refinement pass on the highest-priority light
func (w *Worker) DoWork() {
	best := w.nextLight()
	if best == nil {
		return
	}

	if w.tracer.NeedsRebuild() {
		w.tracer.BuildAccelerationStructure()
		stats := w.tracer.Stats()
		w.logger.Printf("Built BVH over %d triangles (%d nodes, %d leaves, depth %d)\n",
			w.tracer.TriangleCount(), stats.TotalNodes, stats.LeafNodes, stats.MaxDepth)
	}

	w.CalculateForLight(best)
	w.pending = true
}

// AnyUsefulWorkToDo reports whether DoWork would make progress
func (w *Worker) AnyUsefulWorkToDo() bool {
	if w.paused || w.buffers == nil {
		return false
	}
	for _, info := range w.linked {
		if info.HasWorkToDo() {
			return true
		}
	}
	return false
}
