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

package util

import (
	"reflect"
	"testing"
)

func TestStrInList0(t *testing.T) {
	if !StrInList("b", []string{"a", "b", "c"}) {
		t.Errorf("expected to find b")
	}
	if StrInList("d", []string{"a", "b", "c"}) {
		t.Errorf("did not expect to find d")
	}
	if StrInList("", nil) {
		t.Errorf("did not expect to find anything in nil")
	}
}

func TestStrRemoveDuplicatesInList0(t *testing.T) {
	in := []string{"Magma", "Semigroup", "Magma", "Monoid", "Semigroup"}
	out := []string{"Magma", "Semigroup", "Monoid"}
	if got := StrRemoveDuplicatesInList(in); !reflect.DeepEqual(got, out) {
		t.Errorf("unexpected result: %v", got)
	}
}

func TestStrMapKeys0(t *testing.T) {
	m := map[string]int{"zero": 0, "add": 1, "neg": 2}
	if got := StrMapKeys(m); !reflect.DeepEqual(got, []string{"add", "neg", "zero"}) {
		t.Errorf("unexpected result: %v", got)
	}
}

func TestSplitArgs0(t *testing.T) {
	if got := SplitArgs(" "); got != nil {
		t.Errorf("expected nil, got: %v", got)
	}
	if got := SplitArgs("Additive, Multiplicative"); !reflect.DeepEqual(got, []string{"Additive", "Multiplicative"}) {
		t.Errorf("unexpected result: %v", got)
	}
}

func TestCode0(t *testing.T) {
	code := `
	kinds:
		- name: Magma
	`
	exp := "kinds:\n\t- name: Magma\n"
	if got := Code(code); got != exp {
		t.Errorf("unexpected result: %q", got)
	}
}

func TestError0(t *testing.T) {
	const e = Error("some error")
	if e.Error() != "some error" {
		t.Errorf("unexpected error string")
	}
}
