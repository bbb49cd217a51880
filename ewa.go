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

import "math"

const ewaEpsilon = 1.e-8

// ellipse is the footprint of one swath column within one scan, in
// destination pixel units. A destination cell at offset (du, dv) from
// the sample receives weight when 0 <= a·du² + b·du·dv + c·dv² < f.
type ellipse struct {
	a, b, c, f float64

	// uDel and vDel are the half-extents of the footprint's bounding box.
	uDel, vDel float64
}

// scanEllipses computes the footprint of each column of scan s from the
// spacing of the column/row field around it: the cross-track derivative
// is taken on the middle row of the scan and the along-track derivative
// between the first and last rows of the scan. u and v hold NaN where
// the column/row field is invalid.
func scanEllipses(u, v []float64, rows, cols, rowsPerScan, s int, w WeightConfig) []ellipse {
	qmax := w.DistanceMax * w.DistanceMax
	first := s * rowsPerScan
	last := first + rowsPerScan - 1
	mid := first + rowsPerScan/2

	ells := make([]ellipse, cols)
	for col := range ells {
		left, right := col-1, col+1
		if left < 0 {
			left = 0
		}
		if right > cols-1 {
			right = cols - 1
		}
		ux, vx := math.NaN(), math.NaN()
		if right > left {
			n := float64(right - left)
			ux = (u[mid*cols+right] - u[mid*cols+left]) / n * w.DistanceMax
			vx = (v[mid*cols+right] - v[mid*cols+left]) / n * w.DistanceMax
		}

		top, bottom := first, last
		if rowsPerScan == 1 {
			// A single-row scan has no along-track spacing of its own,
			// so borrow it from the neighbouring scans.
			top, bottom = first-1, first+1
			if top < 0 {
				top = 0
			}
			if bottom > rows-1 {
				bottom = rows - 1
			}
		}
		uy, vy := math.NaN(), math.NaN()
		if bottom > top {
			n := float64(bottom - top)
			uy = (u[bottom*cols+col] - u[top*cols+col]) / n * w.DistanceMax
			vy = (v[bottom*cols+col] - v[top*cols+col]) / n * w.DistanceMax
		}
		ells[col] = newEllipse(ux, vx, uy, vy, qmax, w)
	}
	return ells
}

// newEllipse derives the footprint from the scaled derivatives of the
// column (u) and row (v) coordinates across (x) and along (y) the scan.
func newEllipse(ux, vx, uy, vy, qmax float64, w WeightConfig) ellipse {
	if math.IsNaN(ux) || math.IsNaN(vx) || math.IsNaN(uy) || math.IsNaN(vy) {
		// Circular footprint with radius DistanceMax.
		return ellipse{a: 1, c: 1, f: qmax, uDel: w.DistanceMax, vDel: w.DistanceMax}
	}
	fScale := ux*vy - uy*vx
	fScale *= fScale
	if fScale < ewaEpsilon {
		fScale = ewaEpsilon
	}
	fScale = qmax / fScale
	e := ellipse{
		a: (vx*vx + vy*vy) * fScale,
		b: -2 * (ux*vx + uy*vy) * fScale,
		c: (ux*ux + uy*uy) * fScale,
		f: qmax,
	}
	d := 4*e.a*e.c - e.b*e.b
	if d < ewaEpsilon {
		d = ewaEpsilon
	}
	d = 4 * qmax / d
	e.uDel = math.Min(math.Sqrt(e.c*d), w.DeltaMax)
	e.vDel = math.Min(math.Sqrt(e.a*d), w.DeltaMax)
	return e
}

// accumulator holds the running totals for each channel of the
// destination grid.
type accumulator struct {
	width, height int
	maxWeight     bool
	table         *weightTable

	sum    [][]float64 // weighted value sum, or best value in maximum weight mode
	weight [][]float64 // weight sum, or best weight in maximum weight mode
}

func newAccumulator(nChannels, height, width int, w WeightConfig) *accumulator {
	acc := &accumulator{
		width:     width,
		height:    height,
		maxWeight: w.MaximumWeightMode,
		table:     newWeightTable(w),
		sum:       make([][]float64, nChannels),
		weight:    make([][]float64, nChannels),
	}
	for i := range acc.sum {
		acc.sum[i] = make([]float64, width*height)
		acc.weight[i] = make([]float64, width*height)
	}
	return acc
}

// scatter adds the contribution of the sample at (u0, v0) with channel
// values vals to every destination cell in rows [rowLo, rowHi) whose
// centre lies inside footprint e. valid flags which channel values are
// usable. It reports whether any cell was touched.
func (acc *accumulator) scatter(u0, v0 float64, e *ellipse, vals []float64, valid []bool, rowLo, rowHi int) bool {
	iu1 := int(math.Ceil(u0 - e.uDel - 0.5))
	iu2 := int(math.Floor(u0 + e.uDel - 0.5))
	iv1 := int(math.Ceil(v0 - e.vDel - 0.5))
	iv2 := int(math.Floor(v0 + e.vDel - 0.5))
	if iu1 < 0 {
		iu1 = 0
	}
	if iu2 > acc.width-1 {
		iu2 = acc.width - 1
	}
	if iv1 < rowLo {
		iv1 = rowLo
	}
	if iv2 > rowHi-1 {
		iv2 = rowHi - 1
	}
	if iu1 > iu2 || iv1 > iv2 {
		return false
	}
	var touched bool
	for iv := iv1; iv <= iv2; iv++ {
		dv := float64(iv) + 0.5 - v0
		for iu := iu1; iu <= iu2; iu++ {
			du := float64(iu) + 0.5 - u0
			q := (e.a*du+e.b*dv)*du + e.c*dv*dv
			if q < 0 || q >= e.f {
				continue
			}
			wt := acc.table.weight(q)
			if wt < acc.table.min {
				continue
			}
			touched = true
			cell := iv*acc.width + iu
			for ch, val := range vals {
				if !valid[ch] {
					continue
				}
				if acc.maxWeight {
					if wt > acc.weight[ch][cell] {
						acc.weight[ch][cell] = wt
						acc.sum[ch][cell] = val
					}
					continue
				}
				acc.weight[ch][cell] += wt
				acc.sum[ch][cell] += val * wt
			}
		}
	}
	return touched
}

// value returns the final value of a cell and whether it is valid.
func (acc *accumulator) value(ch, cell int) (float64, bool) {
	w := acc.weight[ch][cell]
	if acc.maxWeight {
		if w > 0 {
			return acc.sum[ch][cell], true
		}
		return 0, false
	}
	if w < acc.table.sumMin {
		return 0, false
	}
	v := acc.sum[ch][cell] / w
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}
