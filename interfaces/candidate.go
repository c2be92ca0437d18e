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

// Package interfaces contains the data model that is shared between the
// different parts of the derivation engine.
package interfaces

import (
	"fmt"
	"sort"

	"github.com/purpleidea/alga/types"
)

// Callable is the uniform calling convention for a declared operation. The
// operands are passed in signature order, and the result is returned. An
// operation which is undefined for some particular input should error.
type Callable func(args ...interface{}) (interface{}, error)

// Operation is a single operation that a candidate type declares.
type Operation struct {
	// Name is the declared name of the operation, eg: `add` or `combine`.
	Name string

	// Type is the signature of the operation. It is always a func type.
	Type *types.Type

	// Fallible is true if the underlying implementation also returns an
	// error. This is only needed when rendering source code.
	Fallible bool

	// Symbol is the golang expression which refers to the implementation,
	// eg: `algebras.ZMod7.Add`. It is only used when rendering source code.
	Symbol string

	// Fn runs the operation.
	Fn Callable
}

// String returns a representation of this operation.
func (obj *Operation) String() string {
	return fmt.Sprintf("%s %s", obj.Name, obj.Type)
}

// Description is what a user hands to the operation extractor. It describes a
// golang type and the functions which implement its operations.
type Description struct {
	// Name is a unique human readable name for the type.
	Name string

	// TypeID is the key used to look up the value generator for the
	// carrier type. It defaults to the golang type name of Elem.
	TypeID string

	// ScalarID is the key used to look up the value generator for the
	// scalar type. It defaults to the golang type name of Scalar.
	ScalarID string

	// Category selects the equality policy in the catalog. It defaults to
	// the category named after the golang type of Elem if the catalog has
	// one, and to the exact policy otherwise.
	Category string

	// Elem is any value of the carrier type.
	Elem interface{}

	// Scalar is any value of the scalar type, for modules and vector
	// spaces. It may be nil.
	Scalar interface{}

	// Funcs maps the name of each declared operation to a golang func.
	Funcs map[string]interface{}

	// Methods lists the methods of Elem which are declared operations. The
	// receiver is the first operand, and the operation is named in snake
	// case, so that a method ScalarAdd is declared as `scalar_add`.
	Methods []string

	// Requested lists the kinds that the author expects this type to
	// resolve to. It's an error if any of them doesn't.
	Requested []string
}

// CandidateType is the type under derivation. It is created by the operation
// extractor and is read-only afterwards.
type CandidateType struct {
	Name     string
	TypeID   string
	ScalarID string
	Category string

	// GoElem and GoScalar are the golang names of the carrier and scalar
	// types. They're only used when rendering source code.
	GoElem   string
	GoScalar string

	// Operations is the declared operation set, sorted by name.
	Operations []*Operation

	Requested []string
}

// String returns the name of the candidate.
func (obj *CandidateType) String() string {
	return obj.Name
}

// Lookup returns the declared operation with this name, if it exists.
func (obj *CandidateType) Lookup(name string) (*Operation, bool) {
	for _, x := range obj.Operations {
		if x.Name == name {
			return x, true
		}
	}
	return nil, false
}

// Names returns the sorted list of declared operation names.
func (obj *CandidateType) Names() []string {
	names := []string{}
	for _, x := range obj.Operations {
		names = append(names, x.Name)
	}
	sort.Strings(names)
	return names
}
