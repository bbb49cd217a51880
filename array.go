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

	"github.com/ctessum/sparse"
)

// Swath holds satellite observations organized as scans of
// RowsPerScan consecutive rows. Every array has the same
// (rows, columns) shape.
type Swath struct {
	Lon, Lat *sparse.DenseArray // degrees

	// Channels holds the data values, one array per channel.
	Channels []*sparse.DenseArray

	// ChannelNames optionally names each channel.
	ChannelNames []string

	// RowsPerScan is the number of rows acquired together in one scan.
	// It must divide the number of rows exactly.
	RowsPerScan int

	// Fill is the sentinel for invalid longitude, latitude and
	// channel values. NaN is always treated as invalid as well.
	Fill float64
}

// Rows returns the number of swath rows.
func (s *Swath) Rows() int { return s.Lon.Shape[0] }

// Cols returns the number of swath columns.
func (s *Swath) Cols() int { return s.Lon.Shape[1] }

// Validate checks that the swath arrays are consistent with each other.
func (s *Swath) Validate() error {
	if err := checkShape2D("longitude", s.Lon); err != nil {
		return err
	}
	if err := checkShape2D("latitude", s.Lat); err != nil {
		return err
	}
	if !sameShape(s.Lon, s.Lat) {
		return configErrorf("latitude shape", shapeString(s.Lon), "%s", shapeString(s.Lat))
	}
	if len(s.ChannelNames) != 0 && len(s.ChannelNames) != len(s.Channels) {
		return configErrorf("channel count", fmt.Sprintf("%d", len(s.ChannelNames)),
			"%d", len(s.Channels))
	}
	for i, c := range s.Channels {
		if err := checkShape2D(s.channelName(i), c); err != nil {
			return err
		}
		if !sameShape(s.Lon, c) {
			return configErrorf(s.channelName(i)+" shape", shapeString(s.Lon), "%s", shapeString(c))
		}
	}
	return checkRowsPerScan(s.RowsPerScan, s.Rows())
}

func (s *Swath) channelName(i int) string {
	if i < len(s.ChannelNames) {
		return fmt.Sprintf("channel %s", s.ChannelNames[i])
	}
	return fmt.Sprintf("channel %d", i)
}

func checkRowsPerScan(rowsPerScan, rows int) error {
	if rowsPerScan <= 0 {
		return configErrorf("rows per scan", "> 0", "%d", rowsPerScan)
	}
	if rows%rowsPerScan != 0 {
		return configErrorf("rows per scan", fmt.Sprintf("a divisor of %d rows", rows),
			"%d", rowsPerScan)
	}
	return nil
}

// checkShape2D makes sure a is a non-empty two dimensional array whose
// element count matches its shape.
func checkShape2D(name string, a *sparse.DenseArray) error {
	if a == nil {
		return configErrorf(name, "a 2-D array", "nil")
	}
	if len(a.Shape) != 2 {
		return configErrorf(name+" shape", "2 dimensions", "%d dimensions", len(a.Shape))
	}
	if a.Shape[0] <= 0 || a.Shape[1] <= 0 {
		return configErrorf(name+" shape", "non-empty dimensions", "%s", shapeString(a))
	}
	if len(a.Elements) != a.Shape[0]*a.Shape[1] {
		return configErrorf(name+" length", fmt.Sprintf("%d", a.Shape[0]*a.Shape[1]),
			"%d", len(a.Elements))
	}
	return nil
}

func sameShape(a, b *sparse.DenseArray) bool {
	if len(a.Shape) != len(b.Shape) {
		return false
	}
	for i, d := range a.Shape {
		if b.Shape[i] != d {
			return false
		}
	}
	return true
}

func shapeString(a *sparse.DenseArray) string {
	return fmt.Sprint(a.Shape)
}

// filledDense returns a new (rows, cols) array with every element set
// to fill.
func filledDense(rows, cols int, fill float64) *sparse.DenseArray {
	a := sparse.ZerosDense(rows, cols)
	if fill != 0 {
		for i := range a.Elements {
			a.Elements[i] = fill
		}
	}
	return a
}

// isFill reports whether v is NaN or equal to fill.
func isFill(v, fill float64) bool {
	return math.IsNaN(v) || v == fill
}
