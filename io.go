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

	"github.com/ctessum/cdf"
	"github.com/ctessum/sparse"
)

// SwathVars names the NetCDF variables that make up a swath.
type SwathVars struct {
	Lon, Lat string
	Channels []string

	// RowsPerScan is used when the file does not carry a global
	// rows_per_scan attribute, and overrides it otherwise when non-zero.
	RowsPerScan int

	// Fill marks invalid values in the file.
	Fill float64
}

// ReadSwathNCF reads a swath from a NetCDF file holding 2-D float
// variables for longitude, latitude and each channel.
func ReadSwathNCF(rw cdf.ReaderWriterAt, vars SwathVars) (*Swath, error) {
	f, err := cdf.Open(rw)
	if err != nil {
		return nil, fmt.Errorf("swathgrid: opening swath file: %v", err)
	}
	s := &Swath{
		ChannelNames: vars.Channels,
		RowsPerScan:  vars.RowsPerScan,
		Fill:         vars.Fill,
	}
	if s.Lon, err = readNCF2D(f, vars.Lon); err != nil {
		return nil, err
	}
	if s.Lat, err = readNCF2D(f, vars.Lat); err != nil {
		return nil, err
	}
	for _, name := range vars.Channels {
		c, err := readNCF2D(f, name)
		if err != nil {
			return nil, err
		}
		s.Channels = append(s.Channels, c)
	}
	if s.RowsPerScan == 0 {
		if rps, ok := f.Header.GetAttribute("", "rows_per_scan").([]int32); ok && len(rps) > 0 {
			s.RowsPerScan = int(rps[0])
		}
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// WriteNCF writes s to w in the format read by ReadSwathNCF, using the
// variable names in vars.
func (s *Swath) WriteNCF(w cdf.ReaderWriterAt, vars SwathVars) error {
	if err := s.Validate(); err != nil {
		return err
	}
	if len(vars.Channels) != len(s.Channels) {
		return configErrorf("channel names", fmt.Sprintf("%d", len(s.Channels)), "%d", len(vars.Channels))
	}
	if err := uniqueNames(append([]string{vars.Lon, vars.Lat}, vars.Channels...)); err != nil {
		return err
	}
	h := cdf.NewHeader([]string{"y", "x"}, []int{s.Rows(), s.Cols()})
	h.AddAttribute("", "comment", "swathgrid swath file")
	h.AddAttribute("", "rows_per_scan", []int32{int32(s.RowsPerScan)})
	h.AddVariable(vars.Lon, []string{"y", "x"}, []float64{0})
	h.AddAttribute(vars.Lon, "units", "degrees_east")
	h.AddVariable(vars.Lat, []string{"y", "x"}, []float64{0})
	h.AddAttribute(vars.Lat, "units", "degrees_north")
	for _, name := range vars.Channels {
		h.AddVariable(name, []string{"y", "x"}, []float32{0})
		h.AddAttribute(name, "_FillValue", []float32{float32(s.Fill)})
	}
	h.Define()
	f, err := cdf.Create(w, h)
	if err != nil {
		return fmt.Errorf("swathgrid: creating swath file: %v", err)
	}
	if err := writeNCF(f, vars.Lon, s.Lon, false); err != nil {
		return err
	}
	if err := writeNCF(f, vars.Lat, s.Lat, false); err != nil {
		return err
	}
	for i, name := range vars.Channels {
		if err := writeNCF(f, name, s.Channels[i], true); err != nil {
			return err
		}
	}
	return nil
}

// WriteNCF writes the column/row field and the resolved grid to w.
func (cr *ColRow) WriteNCF(w cdf.ReaderWriterAt) error {
	if err := checkShape2D("column array", cr.Cols); err != nil {
		return err
	}
	if cr.Grid == nil || !cr.Grid.Resolved() {
		return configErrorf("column/row grid", "a resolved grid", "unresolved grid")
	}
	h := cdf.NewHeader([]string{"y", "x"}, []int{cr.Cols.Shape[0], cr.Cols.Shape[1]})
	h.AddAttribute("", "comment", "swathgrid column/row file")
	addGridAttributes(h, cr.Grid)
	h.AddAttribute("", "fill_value", []float64{cr.Fill})
	h.AddAttribute("", "in_grid", []int32{int32(cr.InGrid)})
	h.AddAttribute("", "valid", []int32{int32(cr.Valid)})
	var crossed int32
	if cr.CrossedAntimeridian {
		crossed = 1
	}
	h.AddAttribute("", "crossed_antimeridian", []int32{crossed})
	h.AddVariable("cols", []string{"y", "x"}, []float64{0})
	h.AddVariable("rows", []string{"y", "x"}, []float64{0})
	h.Define()
	f, err := cdf.Create(w, h)
	if err != nil {
		return fmt.Errorf("swathgrid: creating column/row file: %v", err)
	}
	if err := writeNCF(f, "cols", cr.Cols, false); err != nil {
		return err
	}
	return writeNCF(f, "rows", cr.Rows, false)
}

// ReadColRowNCF reads a column/row field written by ColRow.WriteNCF.
func ReadColRowNCF(rw cdf.ReaderWriterAt) (*ColRow, error) {
	f, err := cdf.Open(rw)
	if err != nil {
		return nil, fmt.Errorf("swathgrid: opening column/row file: %v", err)
	}
	cr := new(ColRow)
	if cr.Grid, err = readGridAttributes(f.Header); err != nil {
		return nil, err
	}
	cr.Fill = getFloatAttribute(f.Header, "fill_value")
	cr.InGrid = getIntAttribute(f.Header, "in_grid")
	cr.Valid = getIntAttribute(f.Header, "valid")
	cr.CrossedAntimeridian = getIntAttribute(f.Header, "crossed_antimeridian") != 0
	if cr.Cols, err = readNCF2D(f, "cols"); err != nil {
		return nil, err
	}
	if cr.Rows, err = readNCF2D(f, "rows"); err != nil {
		return nil, err
	}
	return cr, nil
}

// GridProduct is a set of resampled channels on one grid.
type GridProduct struct {
	Grid       *GridDescriptor
	Names      []string
	Channels   []*sparse.DenseArray
	ValidCells []int
	Fill       float64

	// ConfigHash identifies the settings that produced the product.
	ConfigHash string
}

// WriteNCF writes the product to w with one float32 variable per channel.
func (p *GridProduct) WriteNCF(w cdf.ReaderWriterAt) error {
	if p.Grid == nil || !p.Grid.Resolved() {
		return configErrorf("product grid", "a resolved grid", "unresolved grid")
	}
	if len(p.Names) != len(p.Channels) || len(p.ValidCells) != len(p.Channels) {
		return configErrorf("product channels", fmt.Sprintf("%d names and counts", len(p.Channels)),
			"%d names, %d counts", len(p.Names), len(p.ValidCells))
	}
	if err := uniqueNames(p.Names); err != nil {
		return err
	}
	h := cdf.NewHeader([]string{"y", "x"}, []int{p.Grid.Height, p.Grid.Width})
	h.AddAttribute("", "comment", "swathgrid gridded product")
	addGridAttributes(h, p.Grid)
	if p.ConfigHash != "" {
		h.AddAttribute("", "config_hash", p.ConfigHash)
	}
	for i, name := range p.Names {
		c := p.Channels[i]
		if len(c.Shape) != 2 || c.Shape[0] != p.Grid.Height || c.Shape[1] != p.Grid.Width {
			return configErrorf(name+" shape", fmt.Sprintf("[%d %d]", p.Grid.Height, p.Grid.Width),
				"%s", shapeString(c))
		}
		h.AddVariable(name, []string{"y", "x"}, []float32{0})
		h.AddAttribute(name, "_FillValue", []float32{float32(p.Fill)})
		h.AddAttribute(name, "valid_cells", []int32{int32(p.ValidCells[i])})
		if st := ValidStats(c, p.Fill); st.N > 0 {
			h.AddAttribute(name, "valid_min", []float64{st.Min})
			h.AddAttribute(name, "valid_max", []float64{st.Max})
		}
	}
	h.Define()
	f, err := cdf.Create(w, h)
	if err != nil {
		return fmt.Errorf("swathgrid: creating product file: %v", err)
	}
	for i, name := range p.Names {
		if err := writeNCF(f, name, p.Channels[i], true); err != nil {
			return err
		}
	}
	return nil
}

// ReadGridProductNCF reads the named channels of a product written by
// GridProduct.WriteNCF.
func ReadGridProductNCF(rw cdf.ReaderWriterAt, names []string) (*GridProduct, error) {
	f, err := cdf.Open(rw)
	if err != nil {
		return nil, fmt.Errorf("swathgrid: opening product file: %v", err)
	}
	p := &GridProduct{Names: names, Fill: math.NaN()}
	if p.Grid, err = readGridAttributes(f.Header); err != nil {
		return nil, err
	}
	if h, ok := f.Header.GetAttribute("", "config_hash").(string); ok {
		p.ConfigHash = h
	}
	for _, name := range names {
		c, err := readNCF2D(f, name)
		if err != nil {
			return nil, err
		}
		if fv, ok := f.Header.GetAttribute(name, "_FillValue").([]float32); ok && len(fv) > 0 {
			p.Fill = float64(fv[0])
		}
		p.Channels = append(p.Channels, c)
		var n int
		if vc, ok := f.Header.GetAttribute(name, "valid_cells").([]int32); ok && len(vc) > 0 {
			n = int(vc[0])
		}
		p.ValidCells = append(p.ValidCells, n)
	}
	return p, nil
}

func addGridAttributes(h *cdf.Header, g *GridDescriptor) {
	if g.Name != "" {
		h.AddAttribute("", "grid_name", g.Name)
	}
	h.AddAttribute("", "proj4", g.Proj4)
	h.AddAttribute("", "cell_width", []float64{g.CellWidth})
	h.AddAttribute("", "cell_height", []float64{g.CellHeight})
	h.AddAttribute("", "origin_x", []float64{g.OriginX})
	h.AddAttribute("", "origin_y", []float64{g.OriginY})
	h.AddAttribute("", "width", []int32{int32(g.Width)})
	h.AddAttribute("", "height", []int32{int32(g.Height)})
}

func readGridAttributes(h *cdf.Header) (*GridDescriptor, error) {
	name, _ := h.GetAttribute("", "grid_name").(string)
	p4, _ := h.GetAttribute("", "proj4").(string)
	g := NewStaticGrid(name, p4,
		getFloatAttribute(h, "cell_width"), getFloatAttribute(h, "cell_height"),
		getFloatAttribute(h, "origin_x"), getFloatAttribute(h, "origin_y"),
		getIntAttribute(h, "width"), getIntAttribute(h, "height"))
	if err := g.Validate(); err != nil {
		return nil, err
	}
	return g, nil
}

func getFloatAttribute(h *cdf.Header, a string) float64 {
	switch v := h.GetAttribute("", a).(type) {
	case []float64:
		if len(v) > 0 {
			return v[0]
		}
	case []float32:
		if len(v) > 0 {
			return float64(v[0])
		}
	}
	return math.NaN()
}

func getIntAttribute(h *cdf.Header, a string) int {
	if v, ok := h.GetAttribute("", a).([]int32); ok && len(v) > 0 {
		return int(v[0])
	}
	return 0
}

// readNCF2D reads 2-D variable name from f.
func readNCF2D(f *cdf.File, name string) (*sparse.DenseArray, error) {
	dims := f.Header.Lengths(name)
	if len(dims) == 0 {
		return nil, configErrorf("variable "+name, "a variable in the file", "not found")
	}
	if len(dims) != 2 {
		return nil, configErrorf("variable "+name, "2 dimensions", "%d dimensions", len(dims))
	}
	r := f.Reader(name, nil, nil)
	buf := r.Zero(dims[0] * dims[1])
	if _, err := r.Read(buf); err != nil {
		return nil, fmt.Errorf("swathgrid: reading netcdf variable %s: %v", name, err)
	}
	data := sparse.ZerosDense(dims...)
	switch b := buf.(type) {
	case []float32:
		for i, v := range b {
			data.Elements[i] = float64(v)
		}
	case []float64:
		copy(data.Elements, b)
	case []int16:
		for i, v := range b {
			data.Elements[i] = float64(v)
		}
	case []int32:
		for i, v := range b {
			data.Elements[i] = float64(v)
		}
	default:
		return nil, configErrorf("variable "+name, "a numeric type", "%T", buf)
	}
	return data, nil
}

// writeNCF writes data to variable name, as float32 if single is true.
// The end index is one past the last element so that the writer does not
// report io.EOF after the final value.
func writeNCF(f *cdf.File, name string, data *sparse.DenseArray, single bool) error {
	w := f.Writer(name, []int{0, 0}, []int{data.Shape[0], data.Shape[1]})
	var err error
	if single {
		data32 := make([]float32, len(data.Elements))
		for i, e := range data.Elements {
			data32[i] = float32(e)
		}
		_, err = w.Write(data32)
	} else {
		_, err = w.Write(data.Elements)
	}
	if err != nil {
		return fmt.Errorf("swathgrid: writing netcdf variable %s: %v", name, err)
	}
	return nil
}

func uniqueNames(names []string) error {
	seen := make(map[string]bool, len(names))
	for _, n := range names {
		if n == "" {
			return configErrorf("variable name", "a non-empty name", "empty string")
		}
		if seen[n] {
			return configErrorf("variable name", "unique names", "%s repeated", n)
		}
		seen[n] = true
	}
	return nil
}
