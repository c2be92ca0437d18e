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

package types

import (
	"fmt"
	"reflect"
	"testing"

	"github.com/kylelemons/godebug/pretty"
)

func TestNewType0(t *testing.T) {
	type test struct { // an individual test
		name string
		str  string
		typ  *Type
	}
	testCases := []test{}

	{
		testCases = append(testCases, test{
			name: "elem",
			str:  "T",
			typ:  &Type{Kind: KindElem},
		})
	}
	{
		testCases = append(testCases, test{
			name: "other",
			str:  "other(error)",
			typ:  &Type{Kind: KindOther, Name: "error"},
		})
	}
	{
		testCases = append(testCases, test{
			name: "nullary",
			str:  "func() T",
			typ: &Type{
				Kind: KindFunc,
				Args: []*Type{},
				Out:  &Type{Kind: KindElem},
			},
		})
	}
	{
		testCases = append(testCases, test{
			name: "binary",
			str:  "func(T, T) T",
			typ: &Type{
				Kind: KindFunc,
				Args: []*Type{{Kind: KindElem}, {Kind: KindElem}},
				Out:  &Type{Kind: KindElem},
			},
		})
	}
	{
		testCases = append(testCases, test{
			name: "scale",
			str:  "func(S, T) T",
			typ: &Type{
				Kind: KindFunc,
				Args: []*Type{{Kind: KindScalar}, {Kind: KindElem}},
				Out:  &Type{Kind: KindElem},
			},
		})
	}
	{
		testCases = append(testCases, test{
			name: "nested",
			str:  "func(func(T) T, T) bool",
			typ: &Type{
				Kind: KindFunc,
				Args: []*Type{
					{
						Kind: KindFunc,
						Args: []*Type{{Kind: KindElem}},
						Out:  &Type{Kind: KindElem},
					},
					{Kind: KindElem},
				},
				Out: &Type{Kind: KindBool},
			},
		})
	}
	{
		testCases = append(testCases, test{
			name: "garbage",
			str:  "int",
			typ:  nil,
		})
	}
	{
		testCases = append(testCases, test{
			name: "unterminated",
			str:  "func(T, T T",
			typ:  nil,
		})
	}
	{
		testCases = append(testCases, test{
			name: "no result",
			str:  "func(T)",
			typ:  nil,
		})
	}

	for index, tc := range testCases { // run all the tests
		t.Run(fmt.Sprintf("test #%d (%s)", index, tc.name), func(t *testing.T) {
			typ := NewType(tc.str)
			if diff := pretty.Compare(typ, tc.typ); diff != "" {
				t.Errorf("test #%d: types differ:\n%s", index, diff)
				return
			}
			if typ == nil {
				return
			}
			// round trip through the canonical string
			if s := typ.String(); NewType(s).Cmp(typ) != nil {
				t.Errorf("test #%d: string %s did not round trip", index, s)
			}
		})
	}
}

func TestTypeString0(t *testing.T) {
	if s := NewType("func(  T,T )   T").String(); s != "func(T, T) T" {
		t.Errorf("unexpected canonical form: %s", s)
	}
	if s := NewType("func() S").String(); s != "func() S" {
		t.Errorf("unexpected canonical form: %s", s)
	}
}

func TestTypeCmp0(t *testing.T) {
	binary := NewType("func(T, T) T")
	if err := binary.Cmp(NewType("func(T,T) T")); err != nil {
		t.Errorf("expected equal types: %+v", err)
	}
	if err := binary.Cmp(NewType("func(T) T")); err == nil {
		t.Errorf("expected arity mismatch")
	}
	if err := binary.Cmp(NewType("func(T, S) T")); err == nil {
		t.Errorf("expected operand mismatch")
	}
	if err := binary.Cmp(NewType("func(T, T) bool")); err == nil {
		t.Errorf("expected result mismatch")
	}
	if err := binary.Cmp(nil); err == nil {
		t.Errorf("expected nil comparison to fail")
	}
	if err := NewType("other(int)").Cmp(NewType("other(string)")); err == nil {
		t.Errorf("expected other mismatch")
	}
}

func TestTypeCmpSelfScalar0(t *testing.T) {
	scale := NewType("func(S, T) T")
	if err := scale.Cmp(NewType("func(T, T) T")); err == nil {
		t.Errorf("expected operand mismatch")
	}
	if err := scale.CmpSelfScalar(NewType("func(T, T) T")); err != nil {
		t.Errorf("expected a scalar to accept the carrier: %+v", err)
	}
	if err := scale.CmpSelfScalar(NewType("func(S, T) T")); err != nil {
		t.Errorf("expected equal types: %+v", err)
	}
	if err := NewType("func(T, T) T").CmpSelfScalar(NewType("func(S, T) T")); err == nil {
		t.Errorf("expected a carrier to reject a scalar")
	}
	if err := scale.CmpSelfScalar(NewType("func(S, T) bool")); err == nil {
		t.Errorf("expected result mismatch")
	}
}

func TestTypeArity0(t *testing.T) {
	if a := NewType("func() T").Arity(); a != 0 {
		t.Errorf("expected arity 0, got: %d", a)
	}
	if a := NewType("func(S, T) T").Arity(); a != 2 {
		t.Errorf("expected arity 2, got: %d", a)
	}
	if a := TypeElem.Arity(); a != -1 {
		t.Errorf("expected arity -1, got: %d", a)
	}
}

func TestTypeHasKind0(t *testing.T) {
	if !NewType("func(S, T) T").HasKind(KindScalar) {
		t.Errorf("expected scalar kind")
	}
	if NewType("func(T, T) T").HasKind(KindScalar) {
		t.Errorf("did not expect scalar kind")
	}
}

func TestTypeCopy0(t *testing.T) {
	typ := NewType("func(S, T) T")
	cp := typ.Copy()
	if err := typ.Cmp(cp); err != nil {
		t.Errorf("copy differs: %+v", err)
	}
	cp.Args[0] = TypeElem
	if err := typ.Cmp(cp); err == nil {
		t.Errorf("copy is not independent")
	}
}

type vec2 struct{ X, Y float64 }

func (obj vec2) Add(v vec2) vec2 { return vec2{obj.X + v.X, obj.Y + v.Y} }

func TestTypeOf0(t *testing.T) {
	elem := reflect.TypeOf(vec2{})
	scalar := reflect.TypeOf(float64(0))

	typ, err := TypeOf(reflect.TypeOf(func(s float64, v vec2) vec2 { return v }), elem, scalar)
	if err != nil {
		t.Errorf("unexpected error: %+v", err)
		return
	}
	if s := typ.String(); s != "func(S, T) T" {
		t.Errorf("unexpected type: %s", s)
	}

	// method expressions take the receiver as the first operand
	m, ok := elem.MethodByName("Add")
	if !ok {
		t.Errorf("method not found")
		return
	}
	typ, err = TypeOf(m.Type, elem, scalar)
	if err != nil {
		t.Errorf("unexpected error: %+v", err)
		return
	}
	if s := typ.String(); s != "func(T, T) T" {
		t.Errorf("unexpected type: %s", s)
	}

	typ, err = TypeOf(reflect.TypeOf(func(v vec2) (vec2, error) { return v, nil }), elem, nil)
	if err != nil {
		t.Errorf("unexpected error: %+v", err)
		return
	}
	if s := typ.String(); s != "func(T) T" {
		t.Errorf("unexpected type: %s", s)
	}

	typ, err = TypeOf(reflect.TypeOf(func(v vec2) int { return 0 }), elem, nil)
	if err != nil {
		t.Errorf("unexpected error: %+v", err)
		return
	}
	if s := typ.String(); s != "func(T) other(int)" {
		t.Errorf("unexpected type: %s", s)
	}

	if _, err := TypeOf(reflect.TypeOf(func(v vec2) (vec2, int) { return v, 0 }), elem, nil); err == nil {
		t.Errorf("expected error for non-error second result")
	}
	if _, err := TypeOf(reflect.TypeOf(42), elem, nil); err == nil {
		t.Errorf("expected error for non func")
	}
	if _, err := TypeOf(reflect.TypeOf(func(v ...vec2) vec2 { return vec2{} }), elem, nil); err == nil {
		t.Errorf("expected error for variadic func")
	}
}
