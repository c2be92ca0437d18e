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

package errwrap

import (
	"errors"
	"fmt"
	"testing"
)

func TestWrapfErr1(t *testing.T) {
	if err := Wrapf(nil, "whatever: %d", 42); err != nil {
		t.Errorf("expected nil result")
	}
}

func TestWrapfErr2(t *testing.T) {
	sentinel := fmt.Errorf("sentinel")
	err := Wrapf(sentinel, "kind %s", "Group<Additive>")
	if !errors.Is(err, sentinel) {
		t.Errorf("expected wrapped error to match sentinel")
	}
	if s := err.Error(); s != "kind Group<Additive>: sentinel" {
		t.Errorf("unexpected message: %s", s)
	}
}

func TestAppendErr1(t *testing.T) {
	if err := Append(nil, nil); err != nil {
		t.Errorf("expected nil result")
	}
}

func TestAppendErr2(t *testing.T) {
	reterr := fmt.Errorf("reterr")
	if err := Append(reterr, nil); err != reterr {
		t.Errorf("expected reterr")
	}
}

func TestAppendErr3(t *testing.T) {
	err := fmt.Errorf("err")
	if reterr := Append(nil, err); reterr != err {
		t.Errorf("expected err")
	}
}

func TestJoin1(t *testing.T) {
	if err := Join(nil); err != nil {
		t.Errorf("expected nil result")
	}
	if err := Join([]error{nil, nil}); err != nil {
		t.Errorf("expected nil result")
	}

	e1 := fmt.Errorf("e1")
	e2 := fmt.Errorf("e2")
	err := Join([]error{e1, nil, e2})
	if c := Count(err); c != 2 {
		t.Errorf("expected 2 errors, got: %d", c)
	}
	if !errors.Is(err, e1) || !errors.Is(err, e2) {
		t.Errorf("expected both errors to be found in: %v", err)
	}
}

func TestCount1(t *testing.T) {
	if c := Count(nil); c != 0 {
		t.Errorf("expected 0, got: %d", c)
	}
	if c := Count(fmt.Errorf("single")); c != 1 {
		t.Errorf("expected 1, got: %d", c)
	}
}

func TestString1(t *testing.T) {
	var err error
	if String(err) != "" {
		t.Errorf("expected empty result")
	}

	msg := "this is an error"
	if err := errors.New(msg); String(err) != msg {
		t.Errorf("expected different result")
	}
}
