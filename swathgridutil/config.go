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
	"strings"

	"github.com/lnashier/viper"
	"github.com/sirupsen/logrus"
	"github.com/spatialmodel/swathgrid"
	"github.com/spf13/cast"
	"github.com/spf13/cobra"
)

// expandPath expands environment variables in a file path.
func expandPath(p string) string { return os.ExpandEnv(p) }

// expandStringSlice expands the environment variables in a slice of strings.
func expandStringSlice(s []string) []string {
	o := make([]string, len(s))
	for i, v := range s {
		o[i] = os.ExpandEnv(v)
	}
	return o
}

// getStringSlice reads a list option, accepting either a list from a
// configuration file or a comma-separated string from the environment.
func getStringSlice(cfg *viper.Viper, name string) ([]string, error) {
	v := cfg.Get(name)
	if s, ok := v.(string); ok {
		if s == "" {
			return nil, nil
		}
		return strings.Split(s, ","), nil
	}
	s, err := cast.ToStringSliceE(v)
	if err != nil {
		return nil, fmt.Errorf("swathgrid: reading '%s': %v", name, err)
	}
	return s, nil
}

func loadGridDefs(cfg *viper.Viper) (swathgrid.GridDefs, error) {
	files, err := getStringSlice(cfg, "GridFiles")
	if err != nil {
		return nil, err
	}
	return swathgrid.LoadGridDefs(expandStringSlice(files)...)
}

// selectGrids returns copies of the grids named in the Grids option.
func selectGrids(cfg *viper.Viper, defs swathgrid.GridDefs) ([]*swathgrid.GridDescriptor, error) {
	names, err := getStringSlice(cfg, "Grids")
	if err != nil {
		return nil, err
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("swathgrid: no grids specified; set the Grids option to one or more of %s",
			strings.Join(defs.Names(), ", "))
	}
	grids := make([]*swathgrid.GridDescriptor, len(names))
	for i, n := range names {
		if grids[i], err = defs.Get(strings.TrimSpace(n)); err != nil {
			return nil, err
		}
	}
	return grids, nil
}

// coveringGrids returns the dynamic grids in defs and the static grids
// that contain location, a "longitude,latitude" pair. All of defs is
// returned if location is empty.
func coveringGrids(defs swathgrid.GridDefs, location string) (swathgrid.GridDefs, error) {
	if location == "" {
		return defs, nil
	}
	ll := strings.Split(location, ",")
	if len(ll) != 2 {
		return nil, fmt.Errorf("swathgrid: invalid Covering location %q; it should be in the format \"longitude,latitude\"", location)
	}
	lon, err := cast.ToFloat64E(strings.TrimSpace(ll[0]))
	if err != nil {
		return nil, fmt.Errorf("swathgrid: invalid Covering longitude: %v", err)
	}
	lat, err := cast.ToFloat64E(strings.TrimSpace(ll[1]))
	if err != nil {
		return nil, fmt.Errorf("swathgrid: invalid Covering latitude: %v", err)
	}
	names, err := defs.Covering(lon, lat)
	if err != nil {
		return nil, err
	}
	o := make(swathgrid.GridDefs)
	for _, n := range names {
		o[n] = defs[n]
	}
	for n, g := range defs {
		if g.IsDynamic() {
			o[n] = g
		}
	}
	return o, nil
}

func swathVars(cfg *viper.Viper) (swathgrid.SwathVars, error) {
	channels, err := getStringSlice(cfg, "Channels")
	return swathgrid.SwathVars{
		Lon:         cfg.GetString("LonVar"),
		Lat:         cfg.GetString("LatVar"),
		Channels:    channels,
		RowsPerScan: cfg.GetInt("RowsPerScan"),
		Fill:        cfg.GetFloat64("SwathFill"),
	}, err
}

func readSwath(path string, vars swathgrid.SwathVars) (*swathgrid.Swath, error) {
	if path == "" {
		return nil, fmt.Errorf("swathgrid: you need to specify a SwathFile")
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("swathgrid: opening swath file: %v", err)
	}
	defer f.Close()
	return swathgrid.ReadSwathNCF(f, vars)
}

func weightConfig(cfg *viper.Viper) (swathgrid.WeightConfig, error) {
	w := swathgrid.WeightConfig{
		Count:             cfg.GetInt("Weight.Count"),
		Min:               cfg.GetFloat64("Weight.Min"),
		DistanceMax:       cfg.GetFloat64("Weight.DistanceMax"),
		DeltaMax:          cfg.GetFloat64("Weight.DeltaMax"),
		SumMin:            cfg.GetFloat64("Weight.SumMin"),
		MaximumWeightMode: cfg.GetBool("Weight.MaximumWeightMode"),
	}
	return w, w.Validate()
}

func newProjector(cfg *viper.Viper, fill float64, log logrus.FieldLogger) *swathgrid.Projector {
	p := swathgrid.NewProjector(fill)
	p.AntimeridianThreshold = cfg.GetFloat64("AntimeridianThreshold")
	p.Workers = cfg.GetInt("Workers")
	p.Log = log
	return p
}

func newResampler(cfg *viper.Viper, s *swathgrid.Swath, log logrus.FieldLogger) (*swathgrid.Resampler, error) {
	w, err := weightConfig(cfg)
	if err != nil {
		return nil, err
	}
	r := swathgrid.NewResampler(s.RowsPerScan)
	r.Weight = w
	r.SrcFill = s.Fill
	r.DstFill = cfg.GetFloat64("GridFill")
	r.Workers = cfg.GetInt("Workers")
	r.Log = log
	return r, nil
}

// newLogger returns a logger writing to the command's output and, if the
// LogFile option is set, to that file. The returned function closes the
// log file.
func newLogger(cmd *cobra.Command, cfg *viper.Viper) (*logrus.Logger, func() error, error) {
	level, err := logrus.ParseLevel(cfg.GetString("LogLevel"))
	if err != nil {
		return nil, nil, fmt.Errorf("swathgrid: invalid LogLevel: %v", err)
	}
	log := logrus.New()
	log.Level = level
	log.Out = cmd.OutOrStdout()
	closer := func() error { return nil }
	if logFile := expandPath(cfg.GetString("LogFile")); logFile != "" {
		f, err := os.Create(logFile)
		if err != nil {
			return nil, nil, fmt.Errorf("swathgrid: problem creating log file: %v", err)
		}
		log.Out = io.MultiWriter(cmd.OutOrStdout(), f)
		closer = f.Close
	}
	return log, closer, nil
}
