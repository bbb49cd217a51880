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
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spatialmodel/swathgrid"
	"github.com/spatialmodel/swathgrid/internal/hash"
)

// ListGrids writes the grid definitions to w, either as a table
// (format "table") or as TOML (format "toml"). If footprintFile is not
// empty, the outlines of the static grids are written to it as a
// shapefile.
func ListGrids(w io.Writer, defs swathgrid.GridDefs, format, footprintFile string) error {
	var static []*swathgrid.GridDescriptor
	for _, name := range defs.Names() {
		if g := defs[name]; g.Resolved() {
			static = append(static, g)
		}
	}
	switch format {
	case "table":
		for _, name := range defs.Names() {
			g := defs[name]
			kind := "dynamic"
			if g.Resolved() {
				kind = "static"
			}
			fmt.Fprintf(w, "%-16s %-8s %s\n", name, kind, g.Proj4)
		}
	case "toml":
		if _, err := defs.WriteTo(w); err != nil {
			return fmt.Errorf("swathgrid: writing grid definitions: %v", err)
		}
	default:
		return fmt.Errorf("swathgrid: invalid GridFormat %q; valid options are \"table\" and \"toml\"", format)
	}
	if footprintFile == "" {
		return nil
	}
	return swathgrid.WriteFootprintShp(footprintFile, static...)
}

// LL2CR projects the swath onto grid g and saves the column and row
// positions and the resolved grid in colRowFile.
func LL2CR(log logrus.FieldLogger, s *swathgrid.Swath, g *swathgrid.GridDescriptor,
	p *swathgrid.Projector, colRowFile string) error {

	cr, err := p.Project(s.Lon, s.Lat, g)
	if err != nil {
		return err
	}
	log.WithFields(logrus.Fields{
		"grid":     g.Name,
		"in_grid":  cr.InGrid,
		"coverage": cr.Coverage(),
	}).Info("projected swath")

	f, err := os.Create(colRowFile)
	if err != nil {
		return fmt.Errorf("swathgrid: creating column/row file: %v", err)
	}
	if err := cr.WriteNCF(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Fornav resamples the swath channels onto the grid saved in colRowFile
// and writes the product to outputFile, with [GRID] replaced by the
// grid name.
func Fornav(log logrus.FieldLogger, s *swathgrid.Swath, colRowFile string,
	r *swathgrid.Resampler, outputFile string) error {

	f, err := os.Open(colRowFile)
	if err != nil {
		return fmt.Errorf("swathgrid: opening column/row file: %v", err)
	}
	cr, err := swathgrid.ReadColRowNCF(f)
	f.Close()
	if err != nil {
		return err
	}
	_, err = resampleGrid(log, s, cr, r, outputFile)
	return err
}

// RemapOptions holds the settings of Remap that are not part of the
// projector or resampler.
type RemapOptions struct {
	// OutputFile is the output path; [GRID] is replaced by the grid name.
	OutputFile string

	// GridCoverage is the smallest fraction of valid swath pixels that
	// must fall inside a grid for the grid to be resampled.
	GridCoverage float64

	// If Footprint is true, a GeoJSON outline is written next to each
	// output file.
	Footprint bool
}

// Remap runs both resampling stages for each grid in turn and returns
// the paths of the files it wrote. Grids that the swath does not cover
// are skipped with a warning; configuration errors stop the run.
func Remap(log logrus.FieldLogger, s *swathgrid.Swath, grids []*swathgrid.GridDescriptor,
	p *swathgrid.Projector, r *swathgrid.Resampler, o RemapOptions) ([]string, error) {

	var written []string
	for _, g := range grids {
		glog := log.WithField("grid", g.Name)
		cr, err := p.Project(s.Lon, s.Lat, g)
		if swathgrid.IsDataError(err) {
			glog.WithError(err).Warn("skipping grid")
			continue
		} else if err != nil {
			return written, err
		}
		if cov := cr.Coverage(); cov < o.GridCoverage {
			glog.WithFields(logrus.Fields{
				"coverage": cov,
				"minimum":  o.GridCoverage,
			}).Warn("skipping grid: not enough of the swath falls inside it")
			continue
		}
		path, err := resampleGrid(glog, s, cr, r, o.OutputFile)
		if err != nil {
			return written, err
		}
		written = append(written, path)
		if o.Footprint {
			fp, err := writeFootprint(path, g)
			if err != nil {
				return written, err
			}
			written = append(written, fp)
		}
	}
	if len(written) == 0 {
		return nil, fmt.Errorf("swathgrid: none of the %d grids could be produced from the swath", len(grids))
	}
	return written, nil
}

// resampleGrid resamples s onto the grid of cr and writes the product.
func resampleGrid(log logrus.FieldLogger, s *swathgrid.Swath, cr *swathgrid.ColRow,
	r *swathgrid.Resampler, outputFile string) (string, error) {

	g := cr.Grid
	res, err := r.Resample(cr, s.Channels, g.Height, g.Width, nil)
	if err != nil {
		return "", err
	}
	prod := &swathgrid.GridProduct{
		Grid:       g,
		Names:      s.ChannelNames,
		Channels:   res.Channels,
		ValidCells: res.ValidCells,
		Fill:       r.DstFill,
		ConfigHash: hash.Sum(r.Weight, r.RowsPerScan, r.SrcFill, r.DstFill, g),
	}
	path := outputPath(outputFile, g.Name)
	w, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("swathgrid: creating output file: %v", err)
	}
	if err := prod.WriteNCF(w); err != nil {
		w.Close()
		return "", err
	}
	if err := w.Close(); err != nil {
		return "", err
	}
	for i, name := range prod.Names {
		log.WithFields(logrus.Fields{
			"channel":     name,
			"valid_cells": prod.ValidCells[i],
		}).Info(swathgrid.ValidStats(prod.Channels[i], prod.Fill))
	}
	log.WithField("file", path).Info("wrote gridded product")
	return path, nil
}

func writeFootprint(productPath string, g *swathgrid.GridDescriptor) (string, error) {
	path := strings.TrimSuffix(productPath, filepath.Ext(productPath)) + ".geojson"
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("swathgrid: creating footprint file: %v", err)
	}
	if err := swathgrid.WriteFootprintGeoJSON(f, g); err != nil {
		f.Close()
		return "", err
	}
	return path, f.Close()
}

// outputPath replaces [GRID] in template with the grid name.
func outputPath(template, grid string) string {
	if grid == "" {
		grid = "grid"
	}
	return strings.Replace(template, "[GRID]", grid, -1)
}
