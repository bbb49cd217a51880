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
	"errors"
	"fmt"
)

var (
	// ErrNoValidData is returned when a swath has no samples that are
	// both valid and projectable.
	ErrNoValidData = errors.New("no valid data")

	// ErrGridTooSmall is returned when a dynamic grid inferred from the
	// swath coverage is smaller than the minimum viable size.
	ErrGridTooSmall = errors.New("no data in grid")
)

// ConfigError reports an inconsistent or incomplete input: grid
// parameters, array shapes, channel counts or weighting settings.
// It is always fatal to the call that returned it.
type ConfigError struct {
	Param    string // name of the offending parameter
	Expected string
	Actual   string
}

func (e *ConfigError) Error() string {
	if e.Expected == "" {
		return fmt.Sprintf("swathgrid: invalid %s: %s", e.Param, e.Actual)
	}
	return fmt.Sprintf("swathgrid: invalid %s: expected %s but have %s",
		e.Param, e.Expected, e.Actual)
}

// DataError reports that the input was well formed but holds no usable
// data, for example a swath with no valid samples.
type DataError struct {
	Err error  // ErrNoValidData or ErrGridTooSmall
	Msg string // details
}

func (e *DataError) Error() string {
	if e.Msg == "" {
		return "swathgrid: " + e.Err.Error()
	}
	return fmt.Sprintf("swathgrid: %v: %s", e.Err, e.Msg)
}

func (e *DataError) Unwrap() error { return e.Err }

func configErrorf(param, expected, format string, args ...interface{}) error {
	return &ConfigError{Param: param, Expected: expected, Actual: fmt.Sprintf(format, args...)}
}

// IsConfigError reports whether err was caused by invalid configuration
// or mismatched array shapes.
func IsConfigError(err error) bool {
	var ce *ConfigError
	return errors.As(err, &ce)
}

// IsDataError reports whether err was caused by input that holds no
// usable data.
func IsDataError(err error) bool {
	var de *DataError
	return errors.As(err, &de)
}
