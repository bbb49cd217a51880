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

// Package swathgridutil holds the configuration handling and command-line
// interface of swathgrid.
package swathgridutil

import (
	"fmt"
	"math"
	"strings"

	"github.com/lnashier/viper"
	"github.com/spatialmodel/swathgrid"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// Cfg holds configuration information.
var Cfg *viper.Viper

type option struct {
	name, usage, shorthand string
	defaultVal             interface{}
	flagsets               []*pflag.FlagSet
}

var options []option

func init() {
	weight := swathgrid.DefaultWeightConfig()
	swathSets := []*pflag.FlagSet{ll2crCmd.Flags(), fornavCmd.Flags(), remapCmd.Flags()}
	gridSets := []*pflag.FlagSet{gridsCmd.Flags(), ll2crCmd.Flags(), remapCmd.Flags()}
	fornavSets := []*pflag.FlagSet{fornavCmd.Flags(), remapCmd.Flags()}
	runSets := []*pflag.FlagSet{ll2crCmd.Flags(), fornavCmd.Flags(), remapCmd.Flags()}

	// Options are the configuration options available to swathgrid.
	options = []option{
		{
			name: "config",
			usage: `
              config specifies the configuration file location.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "LogFile",
			usage: `
              LogFile is the path to a file that log messages should be copied to,
              in addition to standard output. It can include environment variables.
              If it is left blank, messages are only written to standard output.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "LogLevel",
			usage: `
              LogLevel is the minimum severity of log messages that should be
              written. Valid options are "debug", "info", "warning" and "error".`,
			defaultVal: "info",
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "GridFiles",
			usage: `
              GridFiles are paths to TOML files holding additional named grid
              definitions. Definitions in later files replace built-in grids
              and grids from earlier files with the same name. The paths can
              include environment variables.`,
			defaultVal: []string{},
			flagsets:   gridSets,
		},
		{
			name: "Grids",
			usage: `
              Grids are the names of the grids to resample onto. The ll2cr
              command only uses the first one.`,
			shorthand:  "g",
			defaultVal: []string{"wgs84_fit"},
			flagsets:   gridSets,
		},
		{
			name: "FootprintFile",
			usage: `
              FootprintFile is the path of a shapefile that the outlines of all
              static grids should be written to by the grids command. Nothing
              is written if it is left blank.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{gridsCmd.Flags()},
		},
		{
			name: "GridFormat",
			usage: `
              GridFormat is the format the grids command lists the grid definitions
              in. "table" gives one line per grid, and "toml" gives the definitions
              in the format read from GridFiles.`,
			defaultVal: "table",
			flagsets:   []*pflag.FlagSet{gridsCmd.Flags()},
		},
		{
			name: "Covering",
			usage: `
              Covering is a "longitude,latitude" pair. If it is set, the grids command
              only lists the dynamic grids and the static grids whose outline
              contains that location.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{gridsCmd.Flags()},
		},
		{
			name: "SwathFile",
			usage: `
              SwathFile is the path to the NetCDF file holding the swath longitude,
              latitude and channel variables. It can include environment variables.`,
			shorthand:  "i",
			defaultVal: "",
			flagsets:   swathSets,
		},
		{
			name: "LonVar",
			usage: `
              LonVar is the name of the longitude variable in SwathFile.`,
			defaultVal: "longitude",
			flagsets:   swathSets,
		},
		{
			name: "LatVar",
			usage: `
              LatVar is the name of the latitude variable in SwathFile.`,
			defaultVal: "latitude",
			flagsets:   swathSets,
		},
		{
			name: "Channels",
			usage: `
              Channels are the names of the data variables in SwathFile that
              should be resampled.`,
			defaultVal: []string{},
			flagsets:   swathSets,
		},
		{
			name: "RowsPerScan",
			usage: `
              RowsPerScan is the number of swath rows in one instrument scan. If
              it is 0, the rows_per_scan attribute of SwathFile is used.`,
			defaultVal: 0,
			flagsets:   swathSets,
		},
		{
			name: "SwathFill",
			usage: `
              SwathFill is the value marking invalid longitude, latitude and channel
              values in SwathFile. NaN values are always treated as invalid.`,
			defaultVal: -999.0,
			flagsets:   swathSets,
		},
		{
			name: "GridFill",
			usage: `
              GridFill is the value written to output grid cells that receive no
              valid data.`,
			defaultVal: math.NaN(),
			flagsets:   fornavSets,
		},
		{
			name: "ColRowFile",
			usage: `
              ColRowFile is the NetCDF file that the ll2cr command writes swath
              column and row positions to and that the fornav command reads them from.
              It can include environment variables.`,
			defaultVal: "colrow.nc",
			flagsets:   []*pflag.FlagSet{ll2crCmd.Flags(), fornavCmd.Flags()},
		},
		{
			name: "OutputFile",
			usage: `
              OutputFile is the path to the output gridded NetCDF file. [GRID]
              is replaced by the grid name. It can include environment variables.`,
			shorthand:  "o",
			defaultVal: "swathgrid_[GRID].nc",
			flagsets:   fornavSets,
		},
		{
			name: "Footprint",
			usage: `
              If Footprint is true, a GeoJSON outline of each output grid is written
              next to the output file.`,
			defaultVal: false,
			flagsets:   []*pflag.FlagSet{remapCmd.Flags()},
		},
		{
			name: "GridCoverage",
			usage: `
              GridCoverage is the minimum fraction of valid swath pixels that must
              fall inside a grid for it to be resampled. Grids with less coverage
              are skipped.`,
			defaultVal: 0.1,
			flagsets:   []*pflag.FlagSet{remapCmd.Flags()},
		},
		{
			name: "AntimeridianThreshold",
			usage: `
              AntimeridianThreshold is the fraction of the projection's
              circumference that the projected swath must span for the swath to
              be treated as crossing the anti-meridian on dynamic grids.`,
			defaultVal: swathgrid.DefaultAntimeridianThreshold,
			flagsets:   []*pflag.FlagSet{ll2crCmd.Flags(), remapCmd.Flags()},
		},
		{
			name: "Workers",
			usage: `
              Workers is the number of goroutines used for projection and
              resampling. If it is less than 1, all available processors are used.`,
			defaultVal: 0,
			flagsets:   runSets,
		},
		{
			name: "Weight.Count",
			usage: `
              Weight.Count is the number of entries in the gaussian weight lookup table.`,
			defaultVal: weight.Count,
			flagsets:   fornavSets,
		},
		{
			name: "Weight.Min",
			usage: `
              Weight.Min is the weight at the edge of a swath pixel's ellipse.
              Smaller weights are ignored.`,
			defaultVal: weight.Min,
			flagsets:   fornavSets,
		},
		{
			name: "Weight.DistanceMax",
			usage: `
              Weight.DistanceMax is the scale of a swath pixel's ellipse in units
              of the pixel spacing.`,
			defaultVal: weight.DistanceMax,
			flagsets:   fornavSets,
		},
		{
			name: "Weight.DeltaMax",
			usage: `
              Weight.DeltaMax is the largest half-extent of a swath pixel's
              ellipse, in grid cells.`,
			defaultVal: weight.DeltaMax,
			flagsets:   fornavSets,
		},
		{
			name: "Weight.SumMin",
			usage: `
              Weight.SumMin is the smallest accumulated weight for an output cell
              to be valid. If it is not positive, any positive weight is enough.`,
			defaultVal: weight.SumMin,
			flagsets:   fornavSets,
		},
		{
			name: "Weight.MaximumWeightMode",
			usage: `
              If Weight.MaximumWeightMode is true, each output cell takes the value of
              the swath pixel with the highest weight instead of the weighted average.`,
			defaultVal: weight.MaximumWeightMode,
			flagsets:   fornavSets,
		},
	}

	Cfg = viper.New()

	// Set the prefix for configuration environment variables.
	Cfg.SetEnvPrefix("SWATHGRID")
	Cfg.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	Cfg.AutomaticEnv()

	for _, option := range options {
		for i, set := range option.flagsets {
			if i != 0 { // The same flag is shared among commands.
				set.AddFlag(option.flagsets[0].Lookup(option.name))
				continue
			}
			switch v := option.defaultVal.(type) {
			case string:
				set.StringP(option.name, option.shorthand, v, option.usage)
			case []string:
				set.StringSliceP(option.name, option.shorthand, v, option.usage)
			case bool:
				set.BoolP(option.name, option.shorthand, v, option.usage)
			case int:
				set.IntP(option.name, option.shorthand, v, option.usage)
			case float64:
				set.Float64P(option.name, option.shorthand, v, option.usage)
			default:
				panic(fmt.Sprintf("invalid default type %T for option %s", v, option.name))
			}
			Cfg.BindPFlag(option.name, set.Lookup(option.name))
		}
	}
}

func init() {
	// Link the commands together.
	Root.AddCommand(versionCmd)
	Root.AddCommand(gridsCmd)
	Root.AddCommand(ll2crCmd)
	Root.AddCommand(fornavCmd)
	Root.AddCommand(remapCmd)
}

// setConfig finds and reads in the configuration file, if there is one.
func setConfig() error {
	if cfgpath := Cfg.GetString("config"); cfgpath != "" {
		Cfg.SetConfigFile(cfgpath)
		if err := Cfg.ReadInConfig(); err != nil {
			return fmt.Errorf("swathgrid: problem reading configuration file: %v", err)
		}
	}
	return nil
}

// Root is the main command.
var Root = &cobra.Command{
	Use:   "swathgrid",
	Short: "Resample satellite swaths onto map grids.",
	Long: `swathgrid resamples satellite swath observations onto regular projected
grids. It first projects the swath longitudes and latitudes into the column
and row space of each grid (ll2cr) and then spreads every swath pixel over
the grid cells it covers with elliptical weighted averaging (fornav).

Refer to the subcommand documentation for configuration options and default settings.
Configuration can be changed by using a configuration file (and providing the
path to the file using the --config flag), by using command-line arguments,
or by setting environment variables in the format 'SWATHGRID_var' where 'var' is the
name of the variable to be set, with '.' replaced by '_'.
Refer to https://github.com/spf13/viper for additional configuration information.`,
	DisableAutoGenTag: true,
	SilenceUsage:      true,
	PersistentPreRunE: func(*cobra.Command, []string) error { return setConfig() },
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Long:  "version prints the version number of this version of swathgrid.",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Printf("swathgrid v%s\n", swathgrid.Version)
	},
	DisableAutoGenTag: true,
}

// gridsCmd lists the available grid definitions.
var gridsCmd = &cobra.Command{
	Use:   "grids",
	Short: "List the available grids",
	Long: `grids lists the built-in grid definitions and any definitions from the
files in GridFiles, in the format given by GridFormat. If FootprintFile
is set, the outlines of the static grids are also written to it as a
shapefile.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		defs, err := loadGridDefs(Cfg)
		if err != nil {
			return err
		}
		if defs, err = coveringGrids(defs, Cfg.GetString("Covering")); err != nil {
			return err
		}
		return ListGrids(cmd.OutOrStdout(), defs, Cfg.GetString("GridFormat"),
			expandPath(Cfg.GetString("FootprintFile")))
	},
	DisableAutoGenTag: true,
}

// ll2crCmd projects a swath onto a grid.
var ll2crCmd = &cobra.Command{
	Use:   "ll2cr",
	Short: "Project swath coordinates into grid columns and rows",
	Long: `ll2cr projects the longitudes and latitudes in SwathFile into the column
and row space of the first grid in Grids and saves the result in ColRowFile.
Dynamic grids are sized to fit the swath.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		log, closeLog, err := newLogger(cmd, Cfg)
		if err != nil {
			return err
		}
		defer closeLog()

		defs, err := loadGridDefs(Cfg)
		if err != nil {
			return err
		}
		grids, err := selectGrids(Cfg, defs)
		if err != nil {
			return err
		}
		vars, err := swathVars(Cfg)
		if err != nil {
			return err
		}
		vars.Channels = nil
		swath, err := readSwath(expandPath(Cfg.GetString("SwathFile")), vars)
		if err != nil {
			return err
		}
		return LL2CR(log, swath, grids[0], newProjector(Cfg, swath.Fill, log),
			expandPath(Cfg.GetString("ColRowFile")))
	},
	DisableAutoGenTag: true,
}

// fornavCmd resamples swath channels using saved column and row positions.
var fornavCmd = &cobra.Command{
	Use:   "fornav",
	Short: "Resample swath channels onto a grid",
	Long: `fornav resamples the Channels in SwathFile onto the grid stored in
ColRowFile, using the column and row positions that ll2cr saved there, and
writes the result to OutputFile.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		log, closeLog, err := newLogger(cmd, Cfg)
		if err != nil {
			return err
		}
		defer closeLog()

		vars, err := swathVars(Cfg)
		if err != nil {
			return err
		}
		swath, err := readSwath(expandPath(Cfg.GetString("SwathFile")), vars)
		if err != nil {
			return err
		}
		r, err := newResampler(Cfg, swath, log)
		if err != nil {
			return err
		}
		return Fornav(log, swath, expandPath(Cfg.GetString("ColRowFile")), r,
			expandPath(Cfg.GetString("OutputFile")))
	},
	DisableAutoGenTag: true,
}

// remapCmd runs both resampling stages for each selected grid.
var remapCmd = &cobra.Command{
	Use:   "remap",
	Short: "Resample a swath onto one or more grids",
	Long: `remap projects the swath in SwathFile onto each grid in Grids and resamples
the Channels onto the grids that the swath covers well enough, writing one
OutputFile per grid. Grids that the swath does not cover are skipped with a
warning.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		log, closeLog, err := newLogger(cmd, Cfg)
		if err != nil {
			return err
		}
		defer closeLog()

		defs, err := loadGridDefs(Cfg)
		if err != nil {
			return err
		}
		grids, err := selectGrids(Cfg, defs)
		if err != nil {
			return err
		}
		vars, err := swathVars(Cfg)
		if err != nil {
			return err
		}
		swath, err := readSwath(expandPath(Cfg.GetString("SwathFile")), vars)
		if err != nil {
			return err
		}
		r, err := newResampler(Cfg, swath, log)
		if err != nil {
			return err
		}
		_, err = Remap(log, swath, grids, newProjector(Cfg, swath.Fill, log), r, RemapOptions{
			OutputFile:   expandPath(Cfg.GetString("OutputFile")),
			GridCoverage: Cfg.GetFloat64("GridCoverage"),
			Footprint:    Cfg.GetBool("Footprint"),
		})
		return err
	},
	DisableAutoGenTag: true,
}
