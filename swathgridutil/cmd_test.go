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

package swathgridutil

import (
	"bytes"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ctessum/sparse"
	"github.com/sirupsen/logrus"
	"github.com/spatialmodel/swathgrid"
)

// writeTestSwath writes an 8x10 swath over the central United States to
// a NetCDF file in dir and returns its path.
func writeTestSwath(t *testing.T, dir string) string {
	const rows, cols = 8, 10
	s := &swathgrid.Swath{
		Lon:         sparse.ZerosDense(rows, cols),
		Lat:         sparse.ZerosDense(rows, cols),
		Channels:    []*sparse.DenseArray{sparse.ZerosDense(rows, cols)},
		RowsPerScan: 2,
		Fill:        -999,
	}
	for j := 0; j < rows; j++ {
		for i := 0; i < cols; i++ {
			s.Lon.Set(-100+0.05*float64(i), j, i)
			s.Lat.Set(40-0.05*float64(j), j, i)
			s.Channels[0].Set(float64(j*cols+i), j, i)
		}
	}
	s.Channels[0].Set(-999, 3, 4)
	path := filepath.Join(dir, "swath.nc")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	vars := swathgrid.SwathVars{Lon: "lon", Lat: "lat", Channels: []string{"band1"}}
	if err := s.WriteNCF(f, vars); err != nil {
		t.Fatal(err)
	}
	return path
}

// setTestConfig points the configuration at a test swath in dir.
func setTestConfig(t *testing.T, dir string) {
	Cfg.Set("config", "")
	Cfg.Set("LogLevel", "error")
	Cfg.Set("LogFile", "")
	Cfg.Set("SwathFile", writeTestSwath(t, dir))
	Cfg.Set("LonVar", "lon")
	Cfg.Set("LatVar", "lat")
	Cfg.Set("Channels", []string{"band1"})
	Cfg.Set("RowsPerScan", 0)
	Cfg.Set("SwathFill", -999.0)
	Cfg.Set("GridFill", math.NaN())
	Cfg.Set("GridFiles", []string{})
	Cfg.Set("Grids", []string{"wgs84_fit"})
	Cfg.Set("ColRowFile", filepath.Join(dir, "colrow.nc"))
	Cfg.Set("GridCoverage", 0.1)
	Cfg.Set("Footprint", false)
	Cfg.Set("Workers", 2)
}

func execute(t *testing.T, args ...string) string {
	buf := new(bytes.Buffer)
	Root.SetOutput(buf)
	defer Root.SetOutput(nil)
	Root.SetArgs(args)
	if err := Root.Execute(); err != nil {
		t.Fatal(err)
	}
	return buf.String()
}

func readProduct(t *testing.T, path string) *swathgrid.GridProduct {
	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	p, err := swathgrid.ReadGridProductNCF(f, []string{"band1"})
	if err != nil {
		t.Fatal(err)
	}
	return p
}

func TestVersion(t *testing.T) {
	out := execute(t, "version")
	if want := "swathgrid v" + swathgrid.Version + "\n"; out != want {
		t.Errorf("want %q but have %q", want, out)
	}
}

func TestGrids(t *testing.T) {
	dir := t.TempDir()
	setTestConfig(t, dir)

	Cfg.Set("GridFormat", "table")
	Cfg.Set("Covering", "")
	Cfg.Set("FootprintFile", filepath.Join(dir, "footprints.shp"))
	out := execute(t, "grids")
	for _, line := range []string{"lcc_conus_12km", "static", "wgs84_fit", "dynamic"} {
		if !strings.Contains(out, line) {
			t.Errorf("output does not contain %q:\n%s", line, out)
		}
	}
	if _, err := os.Stat(filepath.Join(dir, "footprints.shp")); err != nil {
		t.Error(err)
	}

	Cfg.Set("GridFormat", "toml")
	Cfg.Set("FootprintFile", "")
	defs, err := swathgrid.ReadGridDefs(strings.NewReader(execute(t, "grids")))
	if err != nil {
		t.Fatal(err)
	}
	if len(defs) != 5 {
		t.Errorf("want 5 grids but have %d", len(defs))
	}

	Cfg.Set("GridFormat", "xml")
	Root.SetArgs([]string{"grids"})
	if err := Root.Execute(); err == nil {
		t.Errorf("invalid format should cause an error")
	}
	Cfg.Set("GridFormat", "table")
}

func TestRemap(t *testing.T) {
	dir := t.TempDir()
	setTestConfig(t, dir)
	Cfg.Set("OutputFile", filepath.Join(dir, "remap_[GRID].nc"))
	Cfg.Set("Footprint", true)
	execute(t, "remap")

	p := readProduct(t, filepath.Join(dir, "remap_wgs84_fit.nc"))
	if p.Grid.Name != "wgs84_fit" || !p.Grid.Resolved() {
		t.Errorf("grid: have %v", p.Grid)
	}
	if p.ValidCells[0] == 0 {
		t.Errorf("no valid cells")
	}
	if len(p.ConfigHash) != 32 {
		t.Errorf("config hash: have %q", p.ConfigHash)
	}
	st := swathgrid.ValidStats(p.Channels[0], p.Fill)
	if st.Min < 0 || st.Max > 79 {
		t.Errorf("resampled values out of the range of the swath: %v", st)
	}
	if _, err := os.Stat(filepath.Join(dir, "remap_wgs84_fit.geojson")); err != nil {
		t.Error(err)
	}
}

func TestLL2CRFornav(t *testing.T) {
	dir := t.TempDir()
	setTestConfig(t, dir)
	Cfg.Set("Footprint", false)
	Cfg.Set("OutputFile", filepath.Join(dir, "remap_[GRID].nc"))
	execute(t, "remap")

	Cfg.Set("OutputFile", filepath.Join(dir, "fornav_[GRID].nc"))
	execute(t, "ll2cr")
	execute(t, "fornav")

	want := readProduct(t, filepath.Join(dir, "remap_wgs84_fit.nc"))
	have := readProduct(t, filepath.Join(dir, "fornav_wgs84_fit.nc"))
	if have.Grid.String() != want.Grid.String() {
		t.Fatalf("grid: want %v but have %v", want.Grid, have.Grid)
	}
	if have.ValidCells[0] != want.ValidCells[0] {
		t.Errorf("valid cells: want %d but have %d", want.ValidCells[0], have.ValidCells[0])
	}
	for i, w := range want.Channels[0].Elements {
		h := have.Channels[0].Elements[i]
		if w != h && !(math.IsNaN(w) && math.IsNaN(h)) {
			t.Fatalf("element %d: want %g but have %g", i, w, h)
		}
	}
	if have.ConfigHash != want.ConfigHash {
		t.Errorf("config hash: want %s but have %s", want.ConfigHash, have.ConfigHash)
	}
}

func TestRemapSkipsGrids(t *testing.T) {
	dir := t.TempDir()
	setTestConfig(t, dir)
	s, err := readSwath(Cfg.GetString("SwathFile"), swathgrid.SwathVars{
		Lon: "lon", Lat: "lat", Channels: []string{"band1"}, Fill: -999,
	})
	if err != nil {
		t.Fatal(err)
	}
	log := logrus.New()
	log.Out = new(bytes.Buffer)
	r, err := newResampler(Cfg, s, log)
	if err != nil {
		t.Fatal(err)
	}
	p := newProjector(Cfg, s.Fill, log)
	far := swathgrid.NewStaticGrid("far", "+proj=longlat +datum=WGS84", 1, -1, 0, 10, 5, 5)
	tiny := swathgrid.NewDynamicGrid("coarse", "+proj=longlat +datum=WGS84", 10, -10)
	fine := swathgrid.NewDynamicGrid("fine", "+proj=longlat +datum=WGS84", 0.01, -0.01)
	o := RemapOptions{OutputFile: filepath.Join(dir, "[GRID].nc"), GridCoverage: 0.1}

	written, err := Remap(log, s, []*swathgrid.GridDescriptor{far, tiny, fine}, p, r, o)
	if err != nil {
		t.Fatal(err)
	}
	if len(written) != 1 || filepath.Base(written[0]) != "fine.nc" {
		t.Errorf("want only fine.nc but have %v", written)
	}

	far = swathgrid.NewStaticGrid("far", "+proj=longlat +datum=WGS84", 1, -1, 0, 10, 5, 5)
	if _, err := Remap(log, s, []*swathgrid.GridDescriptor{far}, p, r, o); err == nil {
		t.Errorf("want an error when no grid is produced")
	}

	bad := swathgrid.NewDynamicGrid("bad", "+proj=nonesuch", 1, -1)
	if _, err := Remap(log, s, []*swathgrid.GridDescriptor{bad, fine}, p, r, o); !swathgrid.IsConfigError(err) {
		t.Errorf("want configuration error but have %v", err)
	}
}

func TestGetStringSlice(t *testing.T) {
	Cfg.Set("Channels", "a,b")
	s, err := getStringSlice(Cfg, "Channels")
	if err != nil {
		t.Fatal(err)
	}
	if len(s) != 2 || s[0] != "a" || s[1] != "b" {
		t.Errorf("want [a b] but have %v", s)
	}
	Cfg.Set("Channels", []string{"c"})
	if s, _ = getStringSlice(Cfg, "Channels"); len(s) != 1 || s[0] != "c" {
		t.Errorf("want [c] but have %v", s)
	}
}

func TestOutputPath(t *testing.T) {
	if have := outputPath("out/[GRID].nc", "lcc"); have != "out/lcc.nc" {
		t.Errorf("want out/lcc.nc but have %s", have)
	}
	if have := outputPath("out.nc", "lcc"); have != "out.nc" {
		t.Errorf("want out.nc but have %s", have)
	}
}

func TestCoveringGrids(t *testing.T) {
	defs, err := swathgrid.LoadGridDefs()
	if err != nil {
		t.Fatal(err)
	}
	o, err := coveringGrids(defs, "-97, 40")
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"lcc_conus_12km", "lcc_conus_4km", "merc_fit", "wgs84_fit", "wgs84_fit_250"}
	if have := o.Names(); strings.Join(have, " ") != strings.Join(want, " ") {
		t.Errorf("want %v but have %v", want, have)
	}
	o, err = coveringGrids(defs, "10,50")
	if err != nil {
		t.Fatal(err)
	}
	if len(o) != 3 {
		t.Errorf("want only the dynamic grids but have %v", o.Names())
	}
	for _, bad := range []string{"10", "a,50", "10,b"} {
		if _, err := coveringGrids(defs, bad); err == nil {
			t.Errorf("%q should cause an error", bad)
		}
	}
}
