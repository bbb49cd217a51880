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

	"github.com/ctessum/sparse"
	"gonum.org/v1/gonum/floats"
)

// Stats summarizes the valid values of an array.
type Stats struct {
	N              int // number of valid values
	Min, Max, Mean float64
	Sum            float64
}

// ValidStats returns summary statistics of the values of a that are
// finite and not equal to fill.
func ValidStats(a *sparse.DenseArray, fill float64) Stats {
	v := make([]float64, 0, len(a.Elements))
	for _, e := range a.Elements {
		if isFill(e, fill) || math.IsInf(e, 0) {
			continue
		}
		v = append(v, e)
	}
	if len(v) == 0 {
		return Stats{Min: math.NaN(), Max: math.NaN(), Mean: math.NaN()}
	}
	s := Stats{
		N:   len(v),
		Min: floats.Min(v),
		Max: floats.Max(v),
		Sum: floats.Sum(v),
	}
	s.Mean = s.Sum / float64(s.N)
	return s
}

func (s Stats) String() string {
	if s.N == 0 {
		return "no valid values"
	}
	return fmt.Sprintf("n=%d min=%g max=%g mean=%g", s.N, s.Min, s.Max, s.Mean)
}
