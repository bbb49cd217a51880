/*
Copyright © 2026 the swathgrid authors.
This file is part of swathgrid.

swathgrid is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

swathgrid is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with swathgrid.  If not, see <http://www.gnu.org/licenses/>.
*/

package swathgrid

import (
	"fmt"
	"math"
)

// WeightConfig controls the elliptical footprint of each swath sample
// and the acceptance thresholds of the EWA resampler.
type WeightConfig struct {
	// Count is the number of entries in the precomputed weight table.
	Count int

	// Min is the weight at the edge of a footprint. Contributions
	// smaller than Min are skipped.
	Min float64

	// DistanceMax is the footprint radius in destination pixels.
	DistanceMax float64

	// DeltaMax is the largest half-extent, in destination pixels, that a
	// footprint may have along either grid axis.
	DeltaMax float64

	// SumMin is the weight a destination cell must accumulate before its
	// average is considered valid. Values <= 0 accept any positive weight.
	SumMin float64

	// MaximumWeightMode makes each cell take the value of its single
	// highest-weighted contribution instead of a weighted average.
	MaximumWeightMode bool
}

// DefaultWeightConfig returns the default weighting settings.
func DefaultWeightConfig() WeightConfig {
	return WeightConfig{
		Count:       10000,
		Min:         0.01,
		DistanceMax: 1.0,
		DeltaMax:    10.0,
		SumMin:      0,
	}
}

// Validate checks that the weighting settings are usable.
func (w WeightConfig) Validate() error {
	switch {
	case w.Count < 2:
		return configErrorf("weight count", ">= 2", "%d", w.Count)
	case !(w.Min > 0 && w.Min < 1):
		return configErrorf("weight min", "a value in (0, 1)", "%g", w.Min)
	case !(w.DistanceMax > 0) || math.IsInf(w.DistanceMax, 0):
		return configErrorf("weight distance max", "a finite value > 0", "%g", w.DistanceMax)
	case !(w.DeltaMax > 0) || math.IsInf(w.DeltaMax, 0):
		return configErrorf("weight delta max", "a finite value > 0", "%g", w.DeltaMax)
	case math.IsNaN(w.SumMin):
		return configErrorf("weight sum min", "a number", "NaN")
	}
	return nil
}

func (w WeightConfig) String() string {
	return fmt.Sprintf("count=%d min=%g distance_max=%g delta_max=%g sum_min=%g max_weight=%v",
		w.Count, w.Min, w.DistanceMax, w.DeltaMax, w.SumMin, w.MaximumWeightMode)
}

// sumMinEpsilon is the acceptance threshold used when SumMin <= 0.
const sumMinEpsilon = 1.e-8

// weightTable is a lookup table of the gaussian weight as a function of
// the normalized squared elliptical distance q in [0, qmax).
type weightTable struct {
	w       []float64
	qmax    float64
	qfactor float64
	min     float64
	sumMin  float64
}

func newWeightTable(c WeightConfig) *weightTable {
	t := &weightTable{
		w:      make([]float64, c.Count),
		qmax:   c.DistanceMax * c.DistanceMax,
		min:    c.Min,
		sumMin: c.SumMin,
	}
	if t.sumMin <= 0 {
		t.sumMin = sumMinEpsilon
	}
	alpha := -math.Log(c.Min) / t.qmax
	t.qfactor = float64(c.Count) / t.qmax
	for i := range t.w {
		t.w[i] = math.Exp(-alpha * t.qmax * float64(i) / float64(c.Count))
	}
	return t
}

// weight returns the weight for squared elliptical distance q, which
// must be in [0, qmax).
func (t *weightTable) weight(q float64) float64 {
	i := int(q * t.qfactor)
	if i >= len(t.w) {
		i = len(t.w) - 1
	}
	return t.w[i]
}
