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
	"runtime"
	"sync"

	"github.com/ctessum/geom"
	"github.com/ctessum/sparse"
	"github.com/sirupsen/logrus"
)

// Default projector settings.
const (
	// DefaultAntimeridianThreshold is the fraction of the projection
	// circumference that the projected x extent of a swath must span
	// before it is assumed to cross the anti-meridian. It is a heuristic
	// rather than a geometric law.
	DefaultAntimeridianThreshold = 0.75

	// DefaultMaxProjected bounds the absolute value of projected
	// coordinates; larger values come from projections evaluated
	// outside of their domain and are discarded.
	DefaultMaxProjected = 1.e30

	// DefaultMinGridSize is the smallest width or height, in pixels, that
	// an inferred dynamic grid may have.
	DefaultMinGridSize = 5
)

// Projector converts swath longitude and latitude into destination grid
// column and row coordinates (ll2cr).
type Projector struct {
	// Fill is the sentinel marking invalid input samples. It is also
	// written to the column/row arrays where a sample is invalid.
	Fill float64

	AntimeridianThreshold float64
	MaxProjected          float64
	MinGridSize           int

	// Workers is the number of goroutines used to project rows.
	// If 0, runtime.GOMAXPROCS(0) is used.
	Workers int

	Log logrus.FieldLogger
}

// NewProjector returns a projector with the default settings.
func NewProjector(fill float64) *Projector {
	return &Projector{
		Fill:                  fill,
		AntimeridianThreshold: DefaultAntimeridianThreshold,
		MaxProjected:          DefaultMaxProjected,
		MinGridSize:           DefaultMinGridSize,
		Log:                   logrus.StandardLogger(),
	}
}

// ColRow holds continuous destination pixel coordinates for every swath
// sample. Pixel (i, j) covers columns [i, i+1) and rows [j, j+1), so the
// centre of a pixel is at (i+0.5, j+0.5).
type ColRow struct {
	Cols, Rows *sparse.DenseArray

	// Fill marks samples that were invalid or could not be projected.
	Fill float64

	// InGrid is the number of samples that fall within the grid,
	// allowing a margin of one pixel on each side.
	InGrid int

	// Valid is the number of samples that could be projected.
	Valid int

	// Grid is the resolved destination grid.
	Grid *GridDescriptor

	// CrossedAntimeridian is true if projected x coordinates were folded
	// across the anti-meridian.
	CrossedAntimeridian bool
}

// Coverage returns the fraction of valid samples that fall within
// the grid.
func (cr *ColRow) Coverage() float64 {
	if cr.Valid == 0 {
		return 0
	}
	return float64(cr.InGrid) / float64(cr.Valid)
}

// Project is a convenience wrapper around Projector.Project using the
// default settings. It returns the number of in-grid samples, the
// column/row field and the resolved grid, which is g itself.
func Project(lon, lat *sparse.DenseArray, g *GridDescriptor, fill float64) (int, *ColRow, *GridDescriptor, error) {
	cr, err := NewProjector(fill).Project(lon, lat, g)
	if err != nil {
		return 0, nil, nil, err
	}
	return cr.InGrid, cr, cr.Grid, nil
}

// Project converts the longitude and latitude arrays to column and row
// coordinates in grid g. If g is dynamic, its origin and size are
// inferred from the swath and written into g. g is left untouched when
// an error is returned.
func (p *Projector) Project(lon, lat *sparse.DenseArray, g *GridDescriptor) (*ColRow, error) {
	if err := g.Validate(); err != nil {
		return nil, err
	}
	if err := checkShape2D("longitude", lon); err != nil {
		return nil, err
	}
	if err := checkShape2D("latitude", lat); err != nil {
		return nil, err
	}
	if !sameShape(lon, lat) {
		return nil, configErrorf("latitude shape", shapeString(lon), "%s", shapeString(lat))
	}
	log := p.logger().WithField("grid", g.Name)

	x, y, err := p.forward(lon, lat, g.Proj4)
	if err != nil {
		return nil, err
	}
	b, valid := extent(x, y)
	if valid == 0 {
		return nil, &DataError{Err: ErrNoValidData,
			Msg: fmt.Sprintf("none of the %d swath samples could be projected to grid %s", len(x), g.Name)}
	}

	pr, err := NewProjection(g.Proj4)
	if err != nil {
		return nil, err
	}
	circum := Circumference(pr)

	res := g.Copy()
	var crossed bool
	if g.IsDynamic() {
		if circum > 0 && b.Max.X-b.Min.X >= p.threshold()*circum {
			log.WithFields(logrus.Fields{
				"xmin": b.Min.X, "xmax": b.Max.X, "circumference": circum,
			}).Info("data crosses the anti-meridian")
			foldNegative(x, circum, nil)
			b, _ = extent(x, y)
			crossed = true
		}
		if err := p.infer(res, b); err != nil {
			return nil, err
		}
	} else if circum > 0 {
		crossed = foldNegative(x, circum, res.Bounds()) > 0
		if crossed {
			log.Info("folded samples across the anti-meridian into the grid")
		}
	}

	cr := &ColRow{
		Cols:                filledDense(lon.Shape[0], lon.Shape[1], p.Fill),
		Rows:                filledDense(lon.Shape[0], lon.Shape[1], p.Fill),
		Fill:                p.Fill,
		Valid:               valid,
		Grid:                g,
		CrossedAntimeridian: crossed,
	}
	w, h := float64(res.Width), float64(res.Height)
	for k, xx := range x {
		if math.IsNaN(xx) {
			continue
		}
		col := (xx - res.OriginX) / res.CellWidth
		row := (y[k] - res.OriginY) / res.CellHeight
		cr.Cols.Elements[k] = col
		cr.Rows.Elements[k] = row
		if col >= -1 && col <= w+1 && row >= -1 && row <= h+1 {
			cr.InGrid++
		}
	}
	*g = *res

	log.WithFields(logrus.Fields{
		"valid":   valid,
		"in_grid": cr.InGrid,
		"width":   g.Width,
		"height":  g.Height,
	}).Debug("ll2cr finished")
	return cr, nil
}

// forward projects every valid sample. Rows are distributed across
// workers, each with its own Projection. Invalid samples are NaN in
// the returned x and y.
func (p *Projector) forward(lon, lat *sparse.DenseArray, def string) (x, y []float64, err error) {
	rows, cols := lon.Shape[0], lon.Shape[1]
	x = make([]float64, len(lon.Elements))
	y = make([]float64, len(lon.Elements))
	for i := range x {
		x[i], y[i] = math.NaN(), math.NaN()
	}

	nprocs := p.Workers
	if nprocs <= 0 {
		nprocs = runtime.GOMAXPROCS(0)
	}
	if nprocs > rows {
		nprocs = rows
	}
	errs := make([]error, nprocs)
	var wg sync.WaitGroup
	wg.Add(nprocs)
	for pp := 0; pp < nprocs; pp++ {
		go func(pp int) {
			defer wg.Done()
			pr, err := NewProjection(def)
			if err != nil {
				errs[pp] = err
				return
			}
			for j := pp; j < rows; j += nprocs {
				for i := j * cols; i < (j+1)*cols; i++ {
					lo, la := lon.Elements[i], lat.Elements[i]
					if isFill(lo, p.Fill) || isFill(la, p.Fill) ||
						math.Abs(la) > 90 || math.Abs(lo) > 360 {
						continue
					}
					xx, yy, err := pr.Forward(wrapLon(lo), la)
					if err != nil || !p.finite(xx) || !p.finite(yy) {
						continue
					}
					x[i], y[i] = xx, yy
				}
			}
		}(pp)
	}
	wg.Wait()
	for _, err := range errs {
		if err != nil {
			return nil, nil, err
		}
	}
	return x, y, nil
}

func (p *Projector) finite(v float64) bool {
	max := p.MaxProjected
	if max <= 0 {
		max = DefaultMaxProjected
	}
	return !math.IsNaN(v) && !math.IsInf(v, 0) && math.Abs(v) <= max
}

func (p *Projector) threshold() float64 {
	if p.AntimeridianThreshold <= 0 {
		return DefaultAntimeridianThreshold
	}
	return p.AntimeridianThreshold
}

func (p *Projector) logger() logrus.FieldLogger {
	if p.Log == nil {
		return logrus.StandardLogger()
	}
	return p.Log
}

// infer sets the origin and size of dynamic grid g so that it covers
// extent b.
func (p *Projector) infer(g *GridDescriptor, b *geom.Bounds) error {
	g.OriginX = b.Min.X
	if g.CellWidth < 0 {
		g.OriginX = b.Max.X
	}
	g.OriginY = b.Max.Y
	if g.CellHeight > 0 {
		g.OriginY = b.Min.Y
	}
	g.Width = int(math.Floor((b.Max.X - b.Min.X) / math.Abs(g.CellWidth)))
	g.Height = int(math.Floor((b.Max.Y - b.Min.Y) / math.Abs(g.CellHeight)))

	min := p.MinGridSize
	if min <= 0 {
		min = DefaultMinGridSize
	}
	if g.Width < min || g.Height < min {
		return &DataError{Err: ErrGridTooSmall,
			Msg: fmt.Sprintf("inferred grid %s is %dx%d pixels but must be at least %dx%d",
				g.Name, g.Width, g.Height, min, min)}
	}
	return nil
}

// extent returns the bounds of the non-NaN points and their number.
func extent(x, y []float64) (*geom.Bounds, int) {
	b := geom.NewBounds()
	var n int
	for i, xx := range x {
		if math.IsNaN(xx) {
			continue
		}
		n++
		b.Min.X = math.Min(b.Min.X, xx)
		b.Max.X = math.Max(b.Max.X, xx)
		b.Min.Y = math.Min(b.Min.Y, y[i])
		b.Max.Y = math.Max(b.Max.Y, y[i])
	}
	return b, n
}

// foldNegative adds circum to negative x values. If within is not nil,
// only values outside of within that fall inside it after folding are
// changed. It returns the number of folded values.
func foldNegative(x []float64, circum float64, within *geom.Bounds) int {
	var n int
	for i, xx := range x {
		if math.IsNaN(xx) || xx >= 0 {
			continue
		}
		if within != nil {
			f := xx + circum
			if (xx >= within.Min.X && xx <= within.Max.X) || f < within.Min.X || f > within.Max.X {
				continue
			}
		}
		x[i] += circum
		n++
	}
	return n
}
