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

	"github.com/ctessum/sparse"
)

func TestValidStats(t *testing.T) {
	a := sparse.ZerosDense(2, 3)
	copy(a.Elements, []float64{1, -999, 3, math.NaN(), math.Inf(1), 8})
	s := ValidStats(a, -999)
	if s.N != 3 || s.Min != 1 || s.Max != 8 || s.Sum != 12 || s.Mean != 4 {
		t.Errorf("have %+v", s)
	}
	if want := "n=3 min=1 max=8 mean=4"; s.String() != want {
		t.Errorf("want %q but have %q", want, s.String())
	}

	empty := ValidStats(sparse.ZerosDense(2, 2), 0)
	if empty.N != 0 || !math.IsNaN(empty.Mean) {
		t.Errorf("all fill: have %+v", empty)
	}
	if empty.String() != "no valid values" {
		t.Errorf("all fill: have %q", empty.String())
	}
}
