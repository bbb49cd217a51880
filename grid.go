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
	"strings"

	"github.com/ctessum/geom"
)

// GridDescriptor defines a rectangular destination grid in a map
// projection. OriginX and OriginY are the projected coordinates of the
// upper-left corner of pixel (0, 0). CellHeight is normally negative so
// that rows increase downward.
//
// A dynamic grid leaves OriginX and OriginY as NaN and Width and Height
// as zero; the projector fills them in from the swath coverage.
type GridDescriptor struct {
	Name  string
	Proj4 string // projection definition; PROJ.4 or WKT

	CellWidth, CellHeight float64 // projection units per pixel
	OriginX, OriginY      float64 // projection units
	Width, Height         int     // pixels
}

// NewDynamicGrid returns a grid whose origin and size will be inferred
// from the data.
func NewDynamicGrid(name, proj4 string, cellWidth, cellHeight float64) *GridDescriptor {
	return &GridDescriptor{
		Name:       name,
		Proj4:      proj4,
		CellWidth:  cellWidth,
		CellHeight: cellHeight,
		OriginX:    math.NaN(),
		OriginY:    math.NaN(),
	}
}

// NewStaticGrid returns a fully specified grid.
func NewStaticGrid(name, proj4 string, cellWidth, cellHeight, originX, originY float64, width, height int) *GridDescriptor {
	return &GridDescriptor{
		Name:       name,
		Proj4:      proj4,
		CellWidth:  cellWidth,
		CellHeight: cellHeight,
		OriginX:    originX,
		OriginY:    originY,
		Width:      width,
		Height:     height,
	}
}

// IsDynamic reports whether none of the origin and size parameters
// are set.
func (g *GridDescriptor) IsDynamic() bool {
	return math.IsNaN(g.OriginX) && math.IsNaN(g.OriginY) && g.Width == 0 && g.Height == 0
}

// Resolved reports whether all of the origin and size parameters are set.
func (g *GridDescriptor) Resolved() bool {
	return !math.IsNaN(g.OriginX) && !math.IsNaN(g.OriginY) && g.Width > 0 && g.Height > 0
}

// Validate checks the grid parameters for consistency. Cell sizes are
// always required, while the origin and size must either all be set or
// all be unset.
func (g *GridDescriptor) Validate() error {
	if g.Proj4 == "" {
		return configErrorf("grid projection", "a PROJ.4 or WKT definition", "empty string")
	}
	for _, v := range []struct {
		name string
		val  float64
	}{{"cell width", g.CellWidth}, {"cell height", g.CellHeight}} {
		if v.val == 0 || math.IsNaN(v.val) || math.IsInf(v.val, 0) {
			return configErrorf(v.name, "a finite, non-zero value", "%g", v.val)
		}
	}
	if g.Width < 0 || g.Height < 0 {
		return configErrorf("grid size", "non-negative width and height",
			"width=%d height=%d", g.Width, g.Height)
	}
	if g.IsDynamic() || g.Resolved() {
		return nil
	}
	var missing []string
	if math.IsNaN(g.OriginX) {
		missing = append(missing, "origin_x")
	}
	if math.IsNaN(g.OriginY) {
		missing = append(missing, "origin_y")
	}
	if g.Width == 0 {
		missing = append(missing, "width")
	}
	if g.Height == 0 {
		missing = append(missing, "height")
	}
	return configErrorf("grid "+g.Name, "origin_x, origin_y, width and height to be all set or all unset",
		"missing %s", strings.Join(missing, ", "))
}

// Copy returns a copy of g.
func (g *GridDescriptor) Copy() *GridDescriptor {
	g2 := *g
	return &g2
}

// Bounds returns the projected extent of a resolved grid.
func (g *GridDescriptor) Bounds() *geom.Bounds {
	x1 := g.OriginX + g.CellWidth*float64(g.Width)
	y1 := g.OriginY + g.CellHeight*float64(g.Height)
	return &geom.Bounds{
		Min: geom.Point{X: math.Min(g.OriginX, x1), Y: math.Min(g.OriginY, y1)},
		Max: geom.Point{X: math.Max(g.OriginX, x1), Y: math.Max(g.OriginY, y1)},
	}
}

// footprintSteps is the number of segments each grid edge is split into
// when tracing its outline in geographic coordinates.
const footprintSteps = 16

// Footprint returns the outline of a resolved grid in longitude and
// latitude. Each edge is sampled at regular intervals through the
// inverse projection, so curved edges are approximated.
func (g *GridDescriptor) Footprint() (geom.Polygon, error) {
	if !g.Resolved() {
		return nil, configErrorf("grid "+g.Name, "a resolved grid", "dynamic grid")
	}
	p, err := NewProjection(g.Proj4)
	if err != nil {
		return nil, err
	}
	b := g.Bounds()
	corners := []geom.Point{
		{X: b.Min.X, Y: b.Max.Y}, {X: b.Max.X, Y: b.Max.Y},
		{X: b.Max.X, Y: b.Min.Y}, {X: b.Min.X, Y: b.Min.Y},
	}
	var ring []geom.Point
	for i, c := range corners {
		next := corners[(i+1)%len(corners)]
		for s := 0; s < footprintSteps; s++ {
			f := float64(s) / footprintSteps
			lon, lat, err := p.Inverse(c.X+(next.X-c.X)*f, c.Y+(next.Y-c.Y)*f)
			if err != nil {
				return nil, fmt.Errorf("swathgrid: tracing footprint of grid %s: %v", g.Name, err)
			}
			ring = append(ring, geom.Point{X: lon, Y: lat})
		}
	}
	ring = append(ring, ring[0])
	return geom.Polygon{ring}, nil
}

func (g *GridDescriptor) String() string {
	return fmt.Sprintf("%s: %s cell=(%g, %g) origin=(%g, %g) size=%dx%d",
		g.Name, g.Proj4, g.CellWidth, g.CellHeight, g.OriginX, g.OriginY, g.Width, g.Height)
}
