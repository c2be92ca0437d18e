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

// Package types describes the signatures of the operations that a candidate
// type declares, and which the structure catalog requires. The type system is
// deliberately tiny: it only needs to express how the operands and the result
// of an operation relate to the carrier type and to its scalars.
package types

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/purpleidea/alga/util/errwrap"
)

var (
	// TypeElem is the carrier type, the type under derivation.
	TypeElem = NewType("T")
	// TypeScalar is the scalar type of a module or vector space.
	TypeScalar = NewType("S")
	// TypeBool is the boolean type.
	TypeBool = NewType("bool")
)

// Kind represents the base type of each signature component.
type Kind int

// Each Kind represents a type in the signature type system.
const (
	KindNil Kind = iota
	KindElem
	KindScalar
	KindBool
	KindOther
	KindFunc
)

// String returns a short name for the kind.
func (k Kind) String() string {
	switch k {
	case KindNil:
		return "nil"
	case KindElem:
		return "elem"
	case KindScalar:
		return "scalar"
	case KindBool:
		return "bool"
	case KindOther:
		return "other"
	case KindFunc:
		return "func"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Type is the datastructure representing any type. Function types are the
// only recursive ones, and they describe an operation.
type Type struct {
	Kind Kind

	Name string  // if Kind == Other, a descriptive name for it
	Args []*Type // if Kind == Func, the ordered operand types
	Out  *Type   // if Kind == Func, the result type
}

// NewType creates the Type from the string representation. It returns nil if
// the string can't be parsed.
func NewType(s string) *Type {
	s = strings.TrimSpace(s)
	switch s {
	case "T":
		return &Type{
			Kind: KindElem,
		}
	case "S":
		return &Type{
			Kind: KindScalar,
		}
	case "bool":
		return &Type{
			Kind: KindBool,
		}
	}

	// KindOther
	if strings.HasPrefix(s, "other(") && strings.HasSuffix(s, ")") {
		name := s[len("other(") : len(s)-1]
		if name == "" {
			return nil
		}
		return &Type{
			Kind: KindOther,
			Name: name,
		}
	}

	// KindFunc
	if strings.HasPrefix(s, "func(") {
		s := s[len("func("):]
		var found = -1
		var delta = 1
		for i, c := range s {
			if c == '(' { // open
				delta++
			}
			if c == ')' { // close
				delta--
			}
			if delta == 0 {
				found = i
				break
			}
		}
		if found < 0 { // nope if we fall off the end...
			return nil
		}

		args := []*Type{}
		for _, x := range splitTopLevel(s[:found]) {
			typ := NewType(x)
			if typ == nil {
				return nil
			}
			args = append(args, typ)
		}

		out := NewType(s[found+1:])
		if out == nil {
			return nil // we always require a result
		}
		return &Type{
			Kind: KindFunc,
			Args: args,
			Out:  out,
		}
	}

	return nil // not found
}

// splitTopLevel splits a list of function arguments at the commas which are
// not nested inside of an inner function type.
func splitTopLevel(s string) []string {
	if strings.TrimSpace(s) == "" {
		return []string{}
	}
	out := []string{}
	var delta int
	var start int
	for i, c := range s {
		switch c {
		case '(':
			delta++
		case ')':
			delta--
		case ',':
			if delta == 0 {
				out = append(out, s[start:i])
				start = i + 1
			}
		}
	}
	return append(out, s[start:])
}

// String returns the textual representation for this type.
func (obj *Type) String() string {
	if obj == nil {
		return "<nil>"
	}
	switch obj.Kind {
	case KindElem:
		return "T"
	case KindScalar:
		return "S"
	case KindBool:
		return "bool"
	case KindOther:
		return fmt.Sprintf("other(%s)", obj.Name)
	case KindFunc:
		args := []string{}
		for _, x := range obj.Args {
			args = append(args, x.String())
		}
		return fmt.Sprintf("func(%s) %s", strings.Join(args, ", "), obj.Out.String())
	}

	panic("malformed type")
}

// Cmp compares this type to another. It returns nil if they're identical.
func (obj *Type) Cmp(typ *Type) error {
	return obj.cmp(typ, false)
}

// CmpSelfScalar compares a required signature to a declared one of a type that
// is its own scalar. Such a type has no separate S, so every S in the required
// signature also accepts a T.
func (obj *Type) CmpSelfScalar(typ *Type) error {
	return obj.cmp(typ, true)
}

func (obj *Type) cmp(typ *Type, self bool) error {
	if obj == nil || typ == nil {
		return fmt.Errorf("cannot compare to nil")
	}
	if self && obj.Kind == KindScalar && typ.Kind == KindElem {
		return nil
	}

	if obj.Kind != typ.Kind {
		return fmt.Errorf("base kind does not match (%s != %s)", obj.Kind, typ.Kind)
	}
	switch obj.Kind {
	case KindElem, KindScalar, KindBool:
		return nil

	case KindOther:
		if obj.Name != typ.Name {
			return fmt.Errorf("other type differs (%s != %s)", obj.Name, typ.Name)
		}
		return nil

	case KindFunc:
		if obj.Out == nil || typ.Out == nil {
			panic("malformed func type")
		}
		if len(obj.Args) != len(typ.Args) {
			return fmt.Errorf("func arity differs (%d != %d)", len(obj.Args), len(typ.Args))
		}
		var reterr error
		for i := range obj.Args {
			if err := obj.Args[i].cmp(typ.Args[i], self); err != nil {
				reterr = errwrap.Append(reterr, errwrap.Wrapf(err, "arg %d", i))
			}
		}
		if err := obj.Out.cmp(typ.Out, self); err != nil {
			reterr = errwrap.Append(reterr, errwrap.Wrapf(err, "result"))
		}
		return reterr
	}

	return fmt.Errorf("unknown kind")
}

// Copy copies this type so that it can be modified independently.
func (obj *Type) Copy() *Type {
	if obj == nil {
		return nil
	}
	typ := &Type{
		Kind: obj.Kind,
		Name: obj.Name,
		Out:  obj.Out.Copy(),
	}
	if obj.Args != nil {
		typ.Args = []*Type{}
		for _, x := range obj.Args {
			typ.Args = append(typ.Args, x.Copy())
		}
	}
	return typ
}

// Arity returns the number of operands of a function type. It returns -1 if
// this is not a function.
func (obj *Type) Arity() int {
	if obj == nil || obj.Kind != KindFunc {
		return -1
	}
	return len(obj.Args)
}

// HasKind returns true if this type, or any of its components, is of the given
// kind.
func (obj *Type) HasKind(kind Kind) bool {
	if obj == nil {
		return false
	}
	if obj.Kind == kind {
		return true
	}
	for _, x := range obj.Args {
		if x.HasKind(kind) {
			return true
		}
	}
	return obj.Out.HasKind(kind)
}

// TypeOf takes a reflect.Type of a golang function and returns the equivalent
// signature. The elem and scalar arguments name the golang types that are
// represented by T and S respectively. The scalar may be nil. Any other golang
// type becomes a KindOther, except bool. A function which returns two values
// is accepted if the second one is an error, since the operation may fail for
// a particular input. A method expression is accepted too, and its receiver is
// simply the first operand.
func TypeOf(t, elem, scalar reflect.Type) (*Type, error) {
	if t == nil || t.Kind() != reflect.Func {
		return nil, fmt.Errorf("not a func")
	}
	if elem == nil {
		return nil, fmt.Errorf("elem type is nil")
	}
	if t.IsVariadic() {
		return nil, fmt.Errorf("variadic funcs are not supported")
	}

	conv := func(x reflect.Type) *Type {
		switch {
		case x == elem:
			return &Type{Kind: KindElem}
		case scalar != nil && x == scalar:
			return &Type{Kind: KindScalar}
		case x.Kind() == reflect.Bool:
			return &Type{Kind: KindBool}
		}
		return &Type{Kind: KindOther, Name: x.String()}
	}

	args := []*Type{}
	for i := 0; i < t.NumIn(); i++ {
		args = append(args, conv(t.In(i)))
	}

	switch c := t.NumOut(); c {
	case 1:
	case 2:
		if t.Out(1) != reflect.TypeOf((*error)(nil)).Elem() {
			return nil, fmt.Errorf("second return value must be an error")
		}
	default:
		return nil, fmt.Errorf("func has %d return values", c)
	}

	return &Type{
		Kind: KindFunc,
		Args: args,
		Out:  conv(t.Out(0)),
	}, nil
}
