// Alga
// Copyright (C) 2013-2019+ James Shubin and the project contributors
// Written by James Shubin <james@shubin.ca> and the project contributors
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <http://www.gnu.org/licenses/>.

//go:build !root

package lawcheck

import (
	"testing"

	"github.com/purpleidea/alga/catalog"
)

type point struct {
	x, y float64
}

func TestEqual0(t *testing.T) {
	exact, err := NewEqual(&catalog.EqualityPolicy{Mode: catalog.EqualityExact})
	if err != nil {
		t.Errorf("can't build equality: %+v", err)
		return
	}
	approx, err := NewEqual(&catalog.EqualityPolicy{Mode: catalog.EqualityApprox, Fraction: 1e-9, Margin: 1e-9})
	if err != nil {
		t.Errorf("can't build equality: %+v", err)
		return
	}

	a, b := 0.1, 0.2 // not constants, so the sum is rounded

	type test struct {
		x, y          interface{}
		exact, approx bool
	}
	for i, tc := range []test{
		{int64(1), int64(1), true, true},
		{int64(1), int64(2), false, false},
		{int64(1), 1, false, false}, // different types
		{point{1, 2}, point{1, 2}, true, true},
		{point{1, 2}, point{1, 2 + 1e-12}, false, true},
		{point{1, 2}, point{1, 2.1}, false, false},
		{a + b, 0.3, false, true},
		{"ab", "ab", true, true},
	} {
		if got, err := exact(tc.x, tc.y); err != nil || got != tc.exact {
			t.Errorf("test #%d: exact: got %t, %+v", i, got, err)
		}
		if got, err := approx(tc.x, tc.y); err != nil || got != tc.approx {
			t.Errorf("test #%d: approx: got %t, %+v", i, got, err)
		}
	}

	if _, err := NewEqual(&catalog.EqualityPolicy{Mode: "nope"}); err == nil {
		t.Errorf("expected an invalid mode to fail")
	}
	if _, err := NewEqual(nil); err == nil {
		t.Errorf("expected a nil policy to fail")
	}
}
