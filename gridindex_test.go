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
	"reflect"
	"testing"
)

func TestGridDefsCovering(t *testing.T) {
	defs, err := LoadGridDefs()
	if err != nil {
		t.Fatal(err)
	}
	defs["box"] = NewStaticGrid("box", lonLatProj, 1, -1, 10, 50, 4, 2)
	for _, test := range []struct {
		name     string
		lon, lat float64
		want     []string
	}{
		{name: "conus", lon: -97, lat: 40, want: []string{"lcc_conus_12km", "lcc_conus_4km"}},
		{name: "box", lon: 12, lat: 49, want: []string{"box"}},
		{name: "ocean", lon: -30, lat: 0},
	} {
		t.Run(test.name, func(t *testing.T) {
			have, err := defs.Covering(test.lon, test.lat)
			if err != nil {
				t.Fatal(err)
			}
			if !reflect.DeepEqual(have, test.want) {
				t.Errorf("want %v but have %v", test.want, have)
			}
		})
	}
}
