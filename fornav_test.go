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
	"math"
	"testing"

	"github.com/ctessum/sparse"
	"github.com/gonum/floats"
)

// regularColRow returns a column/row field in which swath sample
// (j, i) lies at the centre of destination cell (j+rowOff, i+colOff).
func regularColRow(rows, cols, rowOff, colOff int) *ColRow {
	cr := &ColRow{
		Cols: sparse.ZerosDense(rows, cols),
		Rows: sparse.ZerosDense(rows, cols),
		Fill: math.NaN(),
	}
	for j := 0; j < rows; j++ {
		for i := 0; i < cols; i++ {
			cr.Cols.Set(float64(i+colOff)+0.5, j, i)
			cr.Rows.Set(float64(j+rowOff)+0.5, j, i)
		}
	}
	return cr
}

func rampChannel(rows, cols int) *sparse.DenseArray {
	c := sparse.ZerosDense(rows, cols)
	for j := 0; j < rows; j++ {
		for i := 0; i < cols; i++ {
			c.Set(float64(10*j+i+1), j, i)
		}
	}
	return c
}

func validSum(a *sparse.DenseArray) float64 {
	var s float64
	for _, v := range a.Elements {
		if !math.IsNaN(v) {
			s += v
		}
	}
	return s
}

func TestResampleConservation(t *testing.T) {
	for _, rps := range []int{1, 2, 4} {
		const rows, cols = 4, 6
		cr := regularColRow(rows, cols, 2, 1)
		in := rampChannel(rows, cols)
		r := NewResampler(rps)
		res, err := r.Resample(cr, []*sparse.DenseArray{in}, 8, 9, nil)
		if err != nil {
			t.Fatal(err)
		}
		if res.ValidCells[0] != rows*cols {
			t.Errorf("rows per scan %d: valid cells: want %d but have %d", rps, rows*cols, res.ValidCells[0])
		}
		out := res.Channels[0]
		for j := 0; j < rows; j++ {
			for i := 0; i < cols; i++ {
				if have, want := out.Get(j+2, i+1), in.Get(j, i); have != want {
					t.Errorf("rows per scan %d: cell (%d, %d): want %g but have %g", rps, j+2, i+1, want, have)
				}
			}
		}
		if have, want := validSum(out), floats.Sum(in.Elements); have != want {
			t.Errorf("rows per scan %d: sum: want %g but have %g", rps, want, have)
		}
		if !math.IsNaN(out.Get(0, 0)) || !math.IsNaN(out.Get(7, 8)) {
			t.Errorf("rows per scan %d: uncovered cells should hold the fill value", rps)
		}
	}
}

func TestResampleWeightSumThreshold(t *testing.T) {
	cr := &ColRow{
		Cols: dense2D([][]float64{{2.5}}),
		Rows: dense2D([][]float64{{2.5}}),
		Fill: math.NaN(),
	}
	ch := []*sparse.DenseArray{dense2D([][]float64{{7}})}
	w := DefaultWeightConfig()
	w.DistanceMax = 2

	// With any positive weight accepted, the centre cell, its four
	// edge neighbours and its four corner neighbours are filled.
	counts, out, err := Resample(cr, ch, 1, w, 5, 5, -1, math.NaN())
	if err != nil {
		t.Fatal(err)
	}
	if counts[0] != 9 {
		t.Errorf("valid cells: want 9 but have %d", counts[0])
	}
	for _, v := range out[0].Elements {
		if math.Abs(v-7) > 1.e-12 && v != -1 {
			t.Errorf("cells should hold 7 or the fill value but one has %g", v)
		}
	}

	// Neighbours only get a weight of about 0.32.
	w.SumMin = 0.5
	counts, out, err = Resample(cr, ch, 1, w, 5, 5, -1, math.NaN())
	if err != nil {
		t.Fatal(err)
	}
	if counts[0] != 1 {
		t.Errorf("valid cells: want 1 but have %d", counts[0])
	}
	if out[0].Get(2, 2) != 7 {
		t.Errorf("centre: want 7 but have %g", out[0].Get(2, 2))
	}
	for _, idx := range [][2]int{{1, 2}, {2, 1}, {3, 3}} {
		if v := out[0].Get(idx[0], idx[1]); v != -1 {
			t.Errorf("cell %v: want fill but have %g", idx, v)
		}
	}
}

func TestResampleMaximumWeight(t *testing.T) {
	cr := &ColRow{
		Cols: dense2D([][]float64{{2.5, 3.2}}),
		Rows: dense2D([][]float64{{2.5, 2.5}}),
		Fill: math.NaN(),
	}
	ch := []*sparse.DenseArray{dense2D([][]float64{{10, 20}})}
	w := DefaultWeightConfig()
	w.DistanceMax = 2

	_, avg, err := Resample(cr, ch, 1, w, 5, 6, math.NaN(), math.NaN())
	if err != nil {
		t.Fatal(err)
	}
	if v := avg[0].Get(2, 2); !(v > 10 && v < 20) {
		t.Errorf("weighted average: want a value between 10 and 20 but have %g", v)
	}

	w.MaximumWeightMode = true
	_, max, err := Resample(cr, ch, 1, w, 5, 6, math.NaN(), math.NaN())
	if err != nil {
		t.Fatal(err)
	}
	if v := max[0].Get(2, 2); v != 10 {
		t.Errorf("cell (2, 2): want 10 but have %g", v)
	}
	if v := max[0].Get(2, 3); v != 20 {
		t.Errorf("cell (2, 3): want 20 but have %g", v)
	}
	for _, v := range max[0].Elements {
		if !math.IsNaN(v) && v != 10 && v != 20 {
			t.Errorf("maximum weight mode produced %g, which is not an input value", v)
		}
	}
}

func TestResampleSourceFill(t *testing.T) {
	const rows, cols = 2, 4
	cr := regularColRow(rows, cols, 0, 0)
	cr.Fill = -999
	cr.Cols.Set(-999, 1, 3)
	cr.Rows.Set(-999, 1, 3)
	a := rampChannel(rows, cols)
	a.Set(-1, 0, 1)
	b := rampChannel(rows, cols)
	b.Set(math.NaN(), 1, 0)

	r := NewResampler(2)
	r.SrcFill = -1
	res, err := r.Resample(cr, []*sparse.DenseArray{a, b}, rows, cols, nil)
	if err != nil {
		t.Fatal(err)
	}
	if res.ValidCells[0] != 6 || res.ValidCells[1] != 6 {
		t.Errorf("valid cells: want [6 6] but have %v", res.ValidCells)
	}
	if !math.IsNaN(res.Channels[0].Get(0, 1)) || res.Channels[1].Get(0, 1) != b.Get(0, 1) {
		t.Errorf("fill in one channel should not affect the other")
	}
	if !math.IsNaN(res.Channels[1].Get(1, 0)) {
		t.Errorf("NaN source value should leave the cell empty")
	}
	if !math.IsNaN(res.Channels[0].Get(1, 3)) {
		t.Errorf("unprojected sample should not contribute")
	}
}

func TestResampleNoValidData(t *testing.T) {
	cr := regularColRow(2, 2, 0, 0)
	ch := dense2D([][]float64{{math.NaN(), math.NaN()}, {math.NaN(), math.NaN()}})
	counts, _, err := Resample(cr, []*sparse.DenseArray{ch}, 2, DefaultWeightConfig(), 3, 3, 0, math.NaN())
	if err != nil {
		t.Fatalf("an empty result should not be an error: %v", err)
	}
	if counts[0] != 0 {
		t.Errorf("valid cells: want 0 but have %d", counts[0])
	}
}

func TestResampleErrors(t *testing.T) {
	cr := regularColRow(4, 3, 0, 0)
	good := rampChannel(4, 3)
	grid := NewStaticGrid("g", lonLatProj, 1, -1, 0, 0, 5, 6)
	sentinel := func() []*sparse.DenseArray {
		o := sparse.ZerosDense(6, 5)
		for i := range o.Elements {
			o.Elements[i] = 42
		}
		return []*sparse.DenseArray{o}
	}
	for _, test := range []struct {
		name          string
		cr            *ColRow
		channels      []*sparse.DenseArray
		rps           int
		numChannels   int
		height, width int
		out           []*sparse.DenseArray
		weight        func(*WeightConfig)
	}{
		{name: "no channels", cr: cr, rps: 2, height: 6, width: 5},
		{name: "channel shape", cr: cr, channels: []*sparse.DenseArray{good, rampChannel(4, 4)}, rps: 2, height: 6, width: 5},
		{name: "channel count", cr: cr, channels: []*sparse.DenseArray{good}, numChannels: 2, rps: 2, height: 6, width: 5},
		{name: "rows per scan", cr: cr, channels: []*sparse.DenseArray{good}, rps: 3, height: 6, width: 5},
		{name: "zero rows per scan", cr: cr, channels: []*sparse.DenseArray{good}, rps: 0, height: 6, width: 5},
		{name: "destination", cr: cr, channels: []*sparse.DenseArray{good}, rps: 2, height: 0, width: 5},
		{name: "grid shape", cr: &ColRow{Cols: cr.Cols, Rows: cr.Rows, Fill: cr.Fill, Grid: grid},
			channels: []*sparse.DenseArray{good}, rps: 2, height: 5, width: 6},
		{name: "output shape", cr: cr, channels: []*sparse.DenseArray{good}, rps: 2, height: 5, width: 6, out: sentinel()},
		{name: "output count", cr: cr, channels: []*sparse.DenseArray{good}, rps: 2, height: 6, width: 5,
			out: append(sentinel(), sentinel()...)},
		{name: "row array", cr: &ColRow{Cols: cr.Cols, Rows: sparse.ZerosDense(4, 2)},
			channels: []*sparse.DenseArray{good}, rps: 2, height: 6, width: 5},
		{name: "nil field", channels: []*sparse.DenseArray{good}, rps: 2, height: 6, width: 5},
		{name: "weight", cr: cr, channels: []*sparse.DenseArray{good}, rps: 2, height: 6, width: 5,
			weight: func(w *WeightConfig) { w.Min = 1.5 }},
	} {
		t.Run(test.name, func(t *testing.T) {
			r := NewResampler(test.rps)
			r.NumChannels = test.numChannels
			if test.weight != nil {
				test.weight(&r.Weight)
			}
			_, err := r.Resample(test.cr, test.channels, test.height, test.width, test.out)
			if !IsConfigError(err) {
				t.Fatalf("want configuration error but have %v", err)
			}
			for _, o := range test.out {
				for _, v := range o.Elements {
					if v != 42 {
						t.Fatalf("output was modified before the error was detected")
					}
				}
			}
		})
	}
}

func TestResampleIntoOutput(t *testing.T) {
	cr := regularColRow(2, 3, 0, 0)
	in := rampChannel(2, 3)
	out := []*sparse.DenseArray{sparse.ZerosDense(2, 3)}
	r := NewResampler(1)
	res, err := r.Resample(cr, []*sparse.DenseArray{in}, 2, 3, out)
	if err != nil {
		t.Fatal(err)
	}
	if res.Channels[0] != out[0] {
		t.Errorf("result should use the supplied output array")
	}
	if !floats.Equal(out[0].Elements, in.Elements) {
		t.Errorf("want %v but have %v", in.Elements, out[0].Elements)
	}
}

func TestResampleWorkers(t *testing.T) {
	lon, lat := regularSwath(16, 12, -100, 40, 0.11, -0.09)
	// Perturb the swath so that footprints overlap irregularly.
	for i := range lon.Elements {
		lon.Elements[i] += 0.03 * math.Sin(float64(i))
		lat.Elements[i] += 0.02 * math.Cos(float64(3*i))
	}
	g := NewDynamicGrid("dyn", lonLatProj, 0.05, -0.05)
	cr, err := NewProjector(math.NaN()).Project(lon, lat, g)
	if err != nil {
		t.Fatal(err)
	}
	ch := sparse.ZerosDense(16, 12)
	for i := range ch.Elements {
		ch.Elements[i] = math.Mod(float64(i)*7.3, 11)
	}
	var results []*ResampleResult
	for _, n := range []int{1, 4, 7, 64} {
		r := NewResampler(4)
		r.Workers = n
		res, err := r.Resample(cr, []*sparse.DenseArray{ch}, g.Height, g.Width, nil)
		if err != nil {
			t.Fatal(err)
		}
		results = append(results, res)
	}
	if results[0].ValidCells[0] == 0 {
		t.Fatal("no valid cells")
	}
	for k, res := range results[1:] {
		if res.ValidCells[0] != results[0].ValidCells[0] {
			t.Errorf("run %d: valid cells: want %d but have %d", k+1, results[0].ValidCells[0], res.ValidCells[0])
		}
		for i, v := range res.Channels[0].Elements {
			w := results[0].Channels[0].Elements[i]
			if v != w && !(math.IsNaN(v) && math.IsNaN(w)) {
				t.Fatalf("run %d: cell %d: want %g but have %g", k+1, i, w, v)
			}
		}
	}
}
