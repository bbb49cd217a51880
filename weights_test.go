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
	"math"
	"testing"
)

func TestWeightConfigValidate(t *testing.T) {
	if err := DefaultWeightConfig().Validate(); err != nil {
		t.Fatal(err)
	}
	for _, test := range []struct {
		name   string
		change func(*WeightConfig)
	}{
		{"count", func(w *WeightConfig) { w.Count = 1 }},
		{"min zero", func(w *WeightConfig) { w.Min = 0 }},
		{"min one", func(w *WeightConfig) { w.Min = 1 }},
		{"distance", func(w *WeightConfig) { w.DistanceMax = -1 }},
		{"distance inf", func(w *WeightConfig) { w.DistanceMax = math.Inf(1) }},
		{"delta", func(w *WeightConfig) { w.DeltaMax = math.NaN() }},
		{"sum min", func(w *WeightConfig) { w.SumMin = math.NaN() }},
	} {
		t.Run(test.name, func(t *testing.T) {
			w := DefaultWeightConfig()
			test.change(&w)
			if err := w.Validate(); !IsConfigError(err) {
				t.Errorf("want configuration error but have %v", err)
			}
		})
	}
}

func TestWeightTable(t *testing.T) {
	c := DefaultWeightConfig()
	c.DistanceMax = 2
	tab := newWeightTable(c)
	if tab.weight(0) != 1 {
		t.Errorf("center weight: want 1 but have %g", tab.weight(0))
	}
	edge := tab.weight(tab.qmax * (1 - 1e-9))
	if different(edge, c.Min, 1e-2) {
		t.Errorf("edge weight: want %g but have %g", c.Min, edge)
	}
	mid := tab.weight(tab.qmax / 2)
	if want := math.Sqrt(c.Min); different(mid, want, 1e-3) {
		t.Errorf("midpoint weight: want %g but have %g", want, mid)
	}
	for i := 1; i < len(tab.w); i++ {
		if tab.w[i] > tab.w[i-1] {
			t.Fatalf("weights increase at %d", i)
		}
	}
	if tab.sumMin != sumMinEpsilon {
		t.Errorf("sum min: want %g but have %g", sumMinEpsilon, tab.sumMin)
	}
}
