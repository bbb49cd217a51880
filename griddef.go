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
	"math"
	"os"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
)

// gridDefTOML is the TOML representation of one grid definition.
// Origin and size are pointers so that dynamic grids can omit them.
type gridDefTOML struct {
	Proj4      string   `toml:"proj4"`
	CellWidth  float64  `toml:"cell_width"`
	CellHeight float64  `toml:"cell_height"`
	OriginX    *float64 `toml:"origin_x,omitempty"`
	OriginY    *float64 `toml:"origin_y,omitempty"`
	Width      *int     `toml:"width,omitempty"`
	Height     *int     `toml:"height,omitempty"`
}

type gridDefsTOML struct {
	Grids map[string]gridDefTOML `toml:"grids"`
}

// GridDefs is a set of named grid definitions.
type GridDefs map[string]*GridDescriptor

// BuiltinGrids holds the grid definitions that are always available.
// The lcc_conus grids share the projection and extent of the default
// InMAP outer nest.
const BuiltinGrids = `
[grids.wgs84_fit]
proj4 = "+proj=longlat +datum=WGS84 +no_defs"
cell_width = 0.0057
cell_height = -0.0057

[grids.wgs84_fit_250]
proj4 = "+proj=longlat +datum=WGS84 +no_defs"
cell_width = 0.0022
cell_height = -0.0022

[grids.merc_fit]
proj4 = "+proj=merc +datum=WGS84 +units=m +no_defs"
cell_width = 1000.0
cell_height = -1000.0

[grids.lcc_conus_12km]
proj4 = "+proj=lcc +lat_1=33.000000 +lat_2=45.000000 +lat_0=40.000000 +lon_0=-97.000000 +x_0=0 +y_0=0 +a=6370997.000000 +b=6370997.000000 +to_meter=1"
cell_width = 12000.0
cell_height = -12000.0
origin_x = -2736000.0
origin_y = 1944000.0
width = 432
height = 336

[grids.lcc_conus_4km]
proj4 = "+proj=lcc +lat_1=33.000000 +lat_2=45.000000 +lat_0=40.000000 +lon_0=-97.000000 +x_0=0 +y_0=0 +a=6370997.000000 +b=6370997.000000 +to_meter=1"
cell_width = 4000.0
cell_height = -4000.0
origin_x = -2736000.0
origin_y = 1944000.0
width = 1296
height = 1008
`

// ReadGridDefs parses TOML grid definitions from r. Each grid is a table
// under [grids.<name>] with proj4, cell_width and cell_height, and,
// for static grids, origin_x, origin_y, width and height.
func ReadGridDefs(r io.Reader) (GridDefs, error) {
	var defs gridDefsTOML
	if _, err := toml.DecodeReader(r, &defs); err != nil {
		return nil, fmt.Errorf("swathgrid: reading grid definitions: %v", err)
	}
	o := make(GridDefs, len(defs.Grids))
	for name, d := range defs.Grids {
		g := NewDynamicGrid(name, d.Proj4, d.CellWidth, d.CellHeight)
		if d.OriginX != nil {
			g.OriginX = *d.OriginX
		}
		if d.OriginY != nil {
			g.OriginY = *d.OriginY
		}
		if d.Width != nil {
			g.Width = *d.Width
		}
		if d.Height != nil {
			g.Height = *d.Height
		}
		if err := g.Validate(); err != nil {
			return nil, err
		}
		o[name] = g
	}
	return o, nil
}

// LoadGridDefs returns the built-in grid definitions together with the
// definitions in the given TOML files. Later definitions replace earlier
// ones with the same name.
func LoadGridDefs(files ...string) (GridDefs, error) {
	defs, err := ReadGridDefs(strings.NewReader(BuiltinGrids))
	if err != nil {
		return nil, err
	}
	for _, file := range files {
		f, err := os.Open(os.ExpandEnv(file))
		if err != nil {
			return nil, fmt.Errorf("swathgrid: opening grid definitions: %v", err)
		}
		d, err := ReadGridDefs(f)
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("%w (file %s)", err, file)
		}
		for name, g := range d {
			defs[name] = g
		}
	}
	return defs, nil
}

// Get returns a copy of the named grid, so that resolving a dynamic
// grid does not change the definition.
func (d GridDefs) Get(name string) (*GridDescriptor, error) {
	g, ok := d[name]
	if !ok {
		return nil, &ConfigError{Param: "grid name", Expected: "one of " + strings.Join(d.Names(), ", "),
			Actual: name}
	}
	return g.Copy(), nil
}

// Names returns the sorted grid names.
func (d GridDefs) Names() []string {
	names := make([]string, 0, len(d))
	for n := range d {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// WriteTo writes the definitions in d as TOML.
func (d GridDefs) WriteTo(w io.Writer) (int64, error) {
	out := gridDefsTOML{Grids: make(map[string]gridDefTOML, len(d))}
	for name, g := range d {
		t := gridDefTOML{Proj4: g.Proj4, CellWidth: g.CellWidth, CellHeight: g.CellHeight}
		if !math.IsNaN(g.OriginX) {
			t.OriginX = &g.OriginX
		}
		if !math.IsNaN(g.OriginY) {
			t.OriginY = &g.OriginY
		}
		if g.Width != 0 {
			t.Width = &g.Width
		}
		if g.Height != 0 {
			t.Height = &g.Height
		}
		out.Grids[name] = t
	}
	cw := &countWriter{w: w}
	err := toml.NewEncoder(cw).Encode(out)
	return cw.n, err
}

type countWriter struct {
	w io.Writer
	n int64
}

func (c *countWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}
