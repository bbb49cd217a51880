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

	"github.com/ctessum/geom/proj"
)

// Projection converts between geographic longitude/latitude in degrees
// and projected grid coordinates. Implementations are not required to be
// safe for concurrent use; the projector creates one per worker.
type Projection interface {
	Forward(lon, lat float64) (x, y float64, err error)
	Inverse(x, y float64) (lon, lat float64, err error)
}

// wgs84 is the geographic spatial reference that swath coordinates
// are given in.
const wgs84 = "+proj=longlat +datum=WGS84 +no_defs"

// srProjection is a Projection backed by a parsed spatial reference.
type srProjection struct {
	forward, inverse proj.Transformer
}

func (p *srProjection) Forward(lon, lat float64) (float64, float64, error) {
	return p.forward(lon, lat)
}

func (p *srProjection) Inverse(x, y float64) (float64, float64, error) {
	return p.inverse(x, y)
}

// lonLat is the unprojected case, where grid coordinates are degrees.
type lonLat struct{}

func (lonLat) Forward(lon, lat float64) (float64, float64, error) { return lon, lat, nil }
func (lonLat) Inverse(x, y float64) (float64, float64, error)     { return x, y, nil }

// NewProjection creates a Projection from a PROJ.4 or WKT definition.
func NewProjection(def string) (Projection, error) {
	def = normalizeProj4(def)
	if def == "" {
		return nil, configErrorf("projection", "a PROJ.4 or WKT definition", "empty string")
	}
	sr, err := proj.Parse(def)
	if err != nil {
		return nil, &ConfigError{Param: "projection", Actual: fmt.Sprintf("%q: %v", def, err)}
	}
	if strings.ToLower(sr.Name) == "longlat" {
		return lonLat{}, nil
	}
	geo, err := proj.Parse(wgs84)
	if err != nil {
		return nil, fmt.Errorf("swathgrid: parsing geographic reference: %v", err)
	}
	fwd, err := geo.NewTransform(sr)
	if err != nil {
		return nil, &ConfigError{Param: "projection", Actual: fmt.Sprintf("%q: %v", def, err)}
	}
	inv, err := sr.NewTransform(geo)
	if err != nil {
		return nil, &ConfigError{Param: "projection", Actual: fmt.Sprintf("%q: %v", def, err)}
	}
	// Make sure the projection is one the library can evaluate.
	if _, _, err := sr.Transformers(); err != nil {
		return nil, &ConfigError{Param: "projection", Actual: fmt.Sprintf("%q: %v", def, err)}
	}
	return &srProjection{forward: fwd, inverse: inv}, nil
}

// normalizeProj4 maps the geographic aliases accepted by PROJ.4 onto
// the name the projection library registers.
func normalizeProj4(def string) string {
	def = strings.TrimSpace(def)
	for _, alias := range []string{"latlong", "lonlat", "latlon"} {
		def = strings.Replace(def, "+proj="+alias, "+proj=longlat", -1)
	}
	return def
}

// Circumference returns the projected x distance that corresponds to
// 360° of longitude if p is cylindrical, and 0 otherwise.
//
// The projection is probed around the longitude and latitude of its
// origin: x must change linearly with longitude, y must not change with
// longitude, and x must not change with latitude.
func Circumference(p Projection) float64 {
	lon0, lat0, err := p.Inverse(0, 0)
	if err != nil || math.IsNaN(lon0) || math.IsNaN(lat0) {
		return 0
	}
	lat1 := lat0 + 5
	if lat1 > 85 {
		lat1 = lat0 - 5
	}
	x0, y0, err0 := p.Forward(lon0, lat0)
	xq, yq, errq := p.Forward(wrapLon(lon0+45), lat0)
	xh, yh, errh := p.Forward(wrapLon(lon0+90), lat0)
	xl, _, errl := p.Forward(wrapLon(lon0+90), lat1)
	for _, err := range []error{err0, errq, errh, errl} {
		if err != nil {
			return 0
		}
	}
	if !near(y0, yq) || !near(y0, yh) || !near(xh, xl) {
		return 0
	}
	if !near(xh-x0, 2*(xq-x0)) || near(xh, x0) {
		return 0
	}
	return math.Abs(xh-x0) * 4
}

// wrapLon wraps a longitude into [-180, 180).
func wrapLon(lon float64) float64 {
	lon = math.Mod(lon+180, 360)
	if lon < 0 {
		lon += 360
	}
	return lon - 180
}

func near(a, b float64) bool {
	const tol = 1.e-6
	scale := math.Max(1, math.Max(math.Abs(a), math.Abs(b)))
	return math.Abs(a-b) <= tol*scale
}
