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

package hash

import (
	"math"
	"testing"
)

type settings struct {
	Name  string
	Fill  float64
	Sizes map[string]int
}

func TestSum(t *testing.T) {
	a := settings{Name: "a", Fill: math.NaN(), Sizes: map[string]int{"x": 1, "y": 2}}
	b := settings{Name: "a", Fill: math.NaN(), Sizes: map[string]int{"y": 2, "x": 1}}
	if Sum(a) != Sum(b) {
		t.Errorf("equal settings hashed differently: %s != %s", Sum(a), Sum(b))
	}
	if len(Sum(a)) != 32 {
		t.Errorf("digest length: want 32 but have %d", len(Sum(a)))
	}
	b.Name = "b"
	if Sum(a) == Sum(b) {
		t.Error("different settings hashed the same")
	}
	if Sum(a, 1) == Sum(a, 2) {
		t.Error("trailing values ignored")
	}
}
