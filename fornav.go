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

	"github.com/ctessum/sparse"
	"github.com/sirupsen/logrus"
)

// Resampler scatters swath channel values into a destination grid using
// elliptical weighted averaging (fornav).
type Resampler struct {
	// RowsPerScan is the number of swath rows in each scan.
	RowsPerScan int

	Weight WeightConfig

	// SrcFill marks invalid swath values; NaN values are always invalid.
	SrcFill float64

	// DstFill is written to destination cells that receive too little
	// weight.
	DstFill float64

	// NumChannels, if not zero, is the number of channels the caller
	// expects to supply. It is checked against the arrays passed to
	// Resample.
	NumChannels int

	// Workers is the number of goroutines that accumulate into the
	// destination grid, each owning a band of destination rows.
	// If 0, runtime.GOMAXPROCS(0) is used.
	Workers int

	Log logrus.FieldLogger
}

// NewResampler returns a resampler with the default weighting settings
// and NaN fill values.
func NewResampler(rowsPerScan int) *Resampler {
	return &Resampler{
		RowsPerScan: rowsPerScan,
		Weight:      DefaultWeightConfig(),
		SrcFill:     math.NaN(),
		DstFill:     math.NaN(),
		Log:         logrus.StandardLogger(),
	}
}

// ResampleResult holds the output of a resampling run.
type ResampleResult struct {
	// Channels holds one (height, width) array per input channel.
	Channels []*sparse.DenseArray

	// ValidCells is the number of destination cells with a valid value
	// in each channel. Zero is not an error; callers decide whether an
	// empty grid is acceptable.
	ValidCells []int
}

// Resample is a convenience wrapper around Resampler.Resample. It returns
// the valid cell count and the output array for each channel.
func Resample(cr *ColRow, channels []*sparse.DenseArray, rowsPerScan int, w WeightConfig,
	height, width int, dstFill, srcFill float64) ([]int, []*sparse.DenseArray, error) {
	r := NewResampler(rowsPerScan)
	r.Weight = w
	r.DstFill = dstFill
	r.SrcFill = srcFill
	res, err := r.Resample(cr, channels, height, width, nil)
	if err != nil {
		return nil, nil, err
	}
	return res.ValidCells, res.Channels, nil
}

// Resample resamples channels, which are co-registered with the
// column/row field cr, onto a (height, width) grid. If out is not nil it
// must hold one (height, width) array per channel, which will be
// overwritten; otherwise new arrays are allocated. All inputs are checked
// before any accumulation starts.
func (r *Resampler) Resample(cr *ColRow, channels []*sparse.DenseArray, height, width int, out []*sparse.DenseArray) (*ResampleResult, error) {
	if err := r.check(cr, channels, height, width, out); err != nil {
		return nil, err
	}
	rows, cols := cr.Cols.Shape[0], cr.Cols.Shape[1]
	nscans := rows / r.RowsPerScan

	u := make([]float64, len(cr.Cols.Elements))
	v := make([]float64, len(cr.Rows.Elements))
	for i, c := range cr.Cols.Elements {
		rr := cr.Rows.Elements[i]
		if isFill(c, cr.Fill) || isFill(rr, cr.Fill) {
			u[i], v[i] = math.NaN(), math.NaN()
			continue
		}
		u[i], v[i] = c, rr
	}

	nprocs := r.Workers
	if nprocs <= 0 {
		nprocs = runtime.GOMAXPROCS(0)
	}

	// Footprints depend only on the column/row field, so they are
	// computed once per scan and shared by all of the row bands.
	ells := make([][]ellipse, nscans)
	spans := make([][2]float64, nscans)
	var wg sync.WaitGroup
	wg.Add(nprocs)
	for pp := 0; pp < nprocs; pp++ {
		go func(pp int) {
			defer wg.Done()
			for s := pp; s < nscans; s += nprocs {
				ells[s] = scanEllipses(u, v, rows, cols, r.RowsPerScan, s, r.Weight)
				spans[s] = scanSpan(v, ells[s], cols, s*r.RowsPerScan, r.RowsPerScan)
			}
		}(pp)
	}
	wg.Wait()

	acc := newAccumulator(len(channels), height, width, r.Weight)
	if nprocs > height {
		nprocs = height
	}
	band := (height + nprocs - 1) / nprocs
	touched := make([]int, nprocs)
	wg.Add(nprocs)
	for pp := 0; pp < nprocs; pp++ {
		go func(pp int) {
			defer wg.Done()
			rowLo, rowHi := pp*band, (pp+1)*band
			if rowHi > height {
				rowHi = height
			}
			vals := make([]float64, len(channels))
			valid := make([]bool, len(channels))
			for s := 0; s < nscans; s++ {
				if spans[s][1] < float64(rowLo) || spans[s][0] > float64(rowHi) {
					continue
				}
				for j := s * r.RowsPerScan; j < (s+1)*r.RowsPerScan; j++ {
					for i := 0; i < cols; i++ {
						k := j*cols + i
						if math.IsNaN(u[k]) {
							continue
						}
						var usable bool
						for ch, c := range channels {
							vals[ch] = c.Elements[k]
							valid[ch] = !isFill(vals[ch], r.SrcFill)
							usable = usable || valid[ch]
						}
						if !usable {
							continue
						}
						if acc.scatter(u[k], v[k], &ells[s][i], vals, valid, rowLo, rowHi) {
							touched[pp]++
						}
					}
				}
			}
		}(pp)
	}
	wg.Wait()

	res := &ResampleResult{
		Channels:   out,
		ValidCells: make([]int, len(channels)),
	}
	if res.Channels == nil {
		res.Channels = make([]*sparse.DenseArray, len(channels))
		for ch := range res.Channels {
			res.Channels[ch] = sparse.ZerosDense(height, width)
		}
	}
	for ch, o := range res.Channels {
		for cell := range o.Elements {
			if val, ok := acc.value(ch, cell); ok {
				o.Elements[cell] = val
				res.ValidCells[ch]++
			} else {
				o.Elements[cell] = r.DstFill
			}
		}
	}

	log := r.logger()
	var nTouched int
	for _, t := range touched {
		nTouched += t
	}
	log.WithFields(logrus.Fields{
		"scans":         nscans,
		"channels":      len(channels),
		"contributions": nTouched,
		"valid_cells":   res.ValidCells,
	}).Debug("fornav finished")
	for ch, n := range res.ValidCells {
		if n == 0 {
			log.WithField("channel", ch).Warn("no destination cells received valid data")
		}
	}
	return res, nil
}

// scanSpan returns the range of destination rows that the footprints of
// the samples in the scan starting at row first can reach.
func scanSpan(v []float64, ells []ellipse, cols, first, rowsPerScan int) [2]float64 {
	span := [2]float64{math.Inf(1), math.Inf(-1)}
	for j := first; j < first+rowsPerScan; j++ {
		for i := 0; i < cols; i++ {
			vv := v[j*cols+i]
			if math.IsNaN(vv) {
				continue
			}
			span[0] = math.Min(span[0], vv-ells[i].vDel-1)
			span[1] = math.Max(span[1], vv+ells[i].vDel+1)
		}
	}
	return span
}

// check validates every input before anything is accumulated.
func (r *Resampler) check(cr *ColRow, channels []*sparse.DenseArray, height, width int, out []*sparse.DenseArray) error {
	if err := r.Weight.Validate(); err != nil {
		return err
	}
	if len(channels) == 0 {
		return configErrorf("channels", "at least one channel", "none")
	}
	if r.NumChannels != 0 && r.NumChannels != len(channels) {
		return configErrorf("channel count", fmt.Sprintf("%d", r.NumChannels), "%d arrays", len(channels))
	}
	if cr == nil {
		return configErrorf("column/row field", "a projected swath", "nil")
	}
	if err := checkShape2D("column array", cr.Cols); err != nil {
		return err
	}
	if err := checkShape2D("row array", cr.Rows); err != nil {
		return err
	}
	if !sameShape(cr.Cols, cr.Rows) {
		return configErrorf("row array shape", shapeString(cr.Cols), "%s", shapeString(cr.Rows))
	}
	for i, c := range channels {
		name := fmt.Sprintf("channel %d", i)
		if err := checkShape2D(name, c); err != nil {
			return err
		}
		if !sameShape(cr.Cols, c) {
			return configErrorf(name+" shape", shapeString(cr.Cols), "%s", shapeString(c))
		}
	}
	if err := checkRowsPerScan(r.RowsPerScan, cr.Cols.Shape[0]); err != nil {
		return err
	}
	if height <= 0 || width <= 0 {
		return configErrorf("destination shape", "positive height and width", "[%d %d]", height, width)
	}
	if g := cr.Grid; g != nil && g.Resolved() && (g.Height != height || g.Width != width) {
		return configErrorf("destination shape", fmt.Sprintf("[%d %d] from grid %s", g.Height, g.Width, g.Name),
			"[%d %d]", height, width)
	}
	if out == nil {
		return nil
	}
	if len(out) != len(channels) {
		return configErrorf("output count", fmt.Sprintf("%d", len(channels)), "%d", len(out))
	}
	for i, o := range out {
		name := fmt.Sprintf("output %d", i)
		if err := checkShape2D(name, o); err != nil {
			return err
		}
		if o.Shape[0] != height || o.Shape[1] != width {
			return configErrorf(name+" shape", fmt.Sprintf("[%d %d]", height, width), "%s", shapeString(o))
		}
	}
	return nil
}

func (r *Resampler) logger() logrus.FieldLogger {
	if r.Log == nil {
		return logrus.StandardLogger()
	}
	return r.Log
}
