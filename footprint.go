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
	"io"

	"github.com/ctessum/geom"
	"github.com/ctessum/geom/encoding/geojson"
	"github.com/ctessum/geom/encoding/shp"
)

// footprintRecord is one row of a footprint shapefile.
type footprintRecord struct {
	geom.Polygon
	Name          string
	Width, Height int
	CellWidth     float64
	CellHeight    float64
}

// WriteFootprintShp writes the outlines of the given resolved grids to
// a shapefile in longitude and latitude.
func WriteFootprintShp(filename string, grids ...*GridDescriptor) error {
	e, err := shp.NewEncoder(filename, footprintRecord{})
	if err != nil {
		return fmt.Errorf("swathgrid: creating footprint shapefile: %v", err)
	}
	defer e.Close()
	for _, g := range grids {
		fp, err := g.Footprint()
		if err != nil {
			return err
		}
		err = e.Encode(&footprintRecord{
			Polygon:    fp,
			Name:       g.Name,
			Width:      g.Width,
			Height:     g.Height,
			CellWidth:  g.CellWidth,
			CellHeight: g.CellHeight,
		})
		if err != nil {
			return fmt.Errorf("swathgrid: writing footprint of grid %s: %v", g.Name, err)
		}
	}
	return nil
}

// WriteFootprintGeoJSON writes the outline of resolved grid g to w as a
// GeoJSON polygon.
func WriteFootprintGeoJSON(w io.Writer, g *GridDescriptor) error {
	fp, err := g.Footprint()
	if err != nil {
		return err
	}
	b, err := geojson.Encode(fp)
	if err != nil {
		return fmt.Errorf("swathgrid: encoding footprint of grid %s: %v", g.Name, err)
	}
	_, err = w.Write(b)
	return err
}
