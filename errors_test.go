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
	"testing"
)

func TestErrorKinds(t *testing.T) {
	ce := configErrorf("cell width", "a finite, non-zero value", "%g", 0.0)
	if want := "swathgrid: invalid cell width: expected a finite, non-zero value but have 0"; ce.Error() != want {
		t.Errorf("want %q but have %q", want, ce.Error())
	}
	wrapped := fmt.Errorf("grid x: %w", ce)
	if !IsConfigError(wrapped) || IsDataError(wrapped) {
		t.Errorf("wrapped configuration error misclassified")
	}

	de := &DataError{Err: ErrGridTooSmall, Msg: "3x1 cells"}
	if want := "swathgrid: no data in grid: 3x1 cells"; de.Error() != want {
		t.Errorf("want %q but have %q", want, de.Error())
	}
	if !IsDataError(de) || IsConfigError(de) {
		t.Errorf("data error misclassified")
	}
	if !errors.Is(de, ErrGridTooSmall) {
		t.Errorf("data error should unwrap to its cause")
	}
	if want := "swathgrid: no valid data"; (&DataError{Err: ErrNoValidData}).Error() != want {
		t.Errorf("want %q", want)
	}
}
