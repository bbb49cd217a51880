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

// Package swathgrid resamples satellite swath observations onto regular
// projected grids.
//
// Resampling happens in two stages. The coordinate projector (ll2cr)
// converts the per-pixel longitude and latitude of a swath into continuous
// column and row positions in the pixel space of a destination grid,
// inferring the grid extent from the data when the grid is dynamic. The
// resampler (fornav) then scatters the swath channel values into the grid
// using elliptical weighted averaging (EWA), where every swath sample
// covers an elliptical footprint sized from the spacing of its neighbours
// within the same scan.
//
// All arrays are *sparse.DenseArray values with two dimensions,
// (rows, columns), stored in scan-line-major order.
package swathgrid

// Version gives the version number.
const Version = "1.0.0"
