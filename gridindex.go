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
	"sort"

	"github.com/ctessum/geom"
	"github.com/ctessum/geom/index/rtree"
)

// gridFootprint is the outline of a named static grid.
type gridFootprint struct {
	geom.Polygon
	name string
}

// Covering returns the sorted names of the static grids whose footprint
// contains the point (lon, lat). Dynamic grids are not included.
func (d GridDefs) Covering(lon, lat float64) ([]string, error) {
	index := rtree.NewTree(25, 50)
	for name, g := range d {
		if !g.Resolved() {
			continue
		}
		fp, err := g.Footprint()
		if err != nil {
			return nil, err
		}
		index.Insert(gridFootprint{Polygon: fp, name: name})
	}
	p := geom.Point{X: lon, Y: lat}
	var names []string
	for _, f := range index.SearchIntersect(p.Bounds()) {
		fp := f.(gridFootprint)
		if p.Within(fp.Polygon) != geom.Outside {
			names = append(names, fp.name)
		}
	}
	sort.Strings(names)
	return names, nil
}
