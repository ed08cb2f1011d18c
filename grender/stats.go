package grender

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// MarchStats summarizes the sphere tracing cost of a rendered frame. Step
// statistics cover every trace; travel statistics cover hits only, since a
// missed ray's travel is bounded by the clip window rather than geometry.
type MarchStats struct {
	// Rays is the number of traces in the frame.
	Rays int
	// Hits is the number of traces that terminated on a surface.
	Hits int
	// StepsMean and StepsStdDev describe the field evaluations per ray.
	StepsMean   float64
	StepsStdDev float64
	// StepsP90 is the 90th percentile of field evaluations per ray.
	StepsP90 float64
	// HitTravelMean is the mean travel distance of hitting rays.
	HitTravelMean float64
}

// Stats computes the march statistics of the frame.
func (fr *Frame) Stats() MarchStats {
	st := MarchStats{Rays: len(fr.traces)}
	if st.Rays == 0 {
		return st
	}
	steps := make([]float64, len(fr.traces))
	var travel []float64
	for i := range fr.traces {
		t := &fr.traces[i]
		steps[i] = float64(t.Steps)
		if t.Hit() {
			travel = append(travel, float64(t.Distance))
		}
	}
	st.Hits = len(travel)
	st.StepsMean, st.StepsStdDev = stat.MeanStdDev(steps, nil)
	sort.Float64s(steps)
	st.StepsP90 = stat.Quantile(0.9, stat.Empirical, steps, nil)
	if st.Hits > 0 {
		st.HitTravelMean = stat.Mean(travel, nil)
	}
	return st
}

func (st MarchStats) String() string {
	return fmt.Sprintf("rays=%d hits=%d steps(mean=%.1f sd=%.1f p90=%.0f) hit travel mean=%.3g",
		st.Rays, st.Hits, st.StepsMean, st.StepsStdDev, st.StepsP90, st.HitTravelMean)
}
