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

// Package laws contains the registry of algebraic laws. A law is an equation
// over one or more operators, which must hold for every choice of operands.
// The structure catalog refers to laws by name, and the law-check generator
// evaluates them against sampled values.
package laws

import (
	"fmt"
	"sort"
	"sync"

	"github.com/purpleidea/alga/types"
)

// The roles that an operator may provide.
const (
	// RoleOperate is the binary operation itself.
	RoleOperate = "operate"

	// RoleIdentity is the nullary operation returning the identity element.
	RoleIdentity = "identity"

	// RoleInverse is the unary operation returning the inverse element.
	RoleInverse = "inverse"

	// RoleDifference is the binary operation that combines the first
	// operand with the inverse of the second.
	RoleDifference = "difference"
)

// registeredLaws is a global map of all possible laws which can be used. You
// should never touch this map directly. Use methods like Register instead.
var registeredLaws = make(map[string]*Law)
var registeredLawsMutex = &sync.Mutex{}

// Env is what a law uses to run the operations that it is about.
type Env interface {
	// Call runs the operation of the given role, of the operator which is
	// bound to the law parameter at index param.
	Call(param int, role string, args ...interface{}) (interface{}, error)
}

// Use is an operation that a law needs.
type Use struct {
	Param int
	Role  string
}

// Guard excludes samples from a law. The operand at Position must not be equal
// to the excluded element of the operator bound to parameter Param. A sample
// which is excluded counts as a vacuous pass.
type Guard struct {
	Position int
	Param    int
}

// Equation is a single equality that a law asserts.
type Equation struct {
	Name  string
	Left  interface{}
	Right interface{}
}

// Law is a named algebraic law.
type Law struct {
	// Name of the law, eg: `associativity`.
	Name string

	// Formula is a human readable rendition of the law.
	Formula string

	// Params is the number of operators that the law is parameterized by.
	Params int

	// Operands is the kind of each sampled value. It's either the carrier
	// kind or the scalar kind.
	Operands []types.Kind

	// Uses lists every operation that Eval may call.
	Uses []Use

	// Nonzero lists the guards of this law.
	Nonzero []Guard

	// Eval computes the equations for one sample.
	Eval func(env Env, args []interface{}) ([]*Equation, error)
}

// String returns the name of the law.
func (obj *Law) String() string {
	return obj.Name
}

// NeedsScalar returns true if any operand of the law is a scalar.
func (obj *Law) NeedsScalar() bool {
	for _, k := range obj.Operands {
		if k == types.KindScalar {
			return true
		}
	}
	return false
}

// Validate checks that the law is internally consistent.
func (obj *Law) Validate() error {
	if obj.Name == "" {
		return fmt.Errorf("empty law name")
	}
	if obj.Params <= 0 {
		return fmt.Errorf("law %s must have at least one parameter", obj.Name)
	}
	if len(obj.Operands) == 0 {
		return fmt.Errorf("law %s must have operands", obj.Name)
	}
	for _, k := range obj.Operands {
		if k != types.KindElem && k != types.KindScalar {
			return fmt.Errorf("law %s has an invalid operand kind: %s", obj.Name, k)
		}
	}
	for _, u := range obj.Uses {
		if u.Param < 0 || u.Param >= obj.Params {
			return fmt.Errorf("law %s uses an invalid parameter: %d", obj.Name, u.Param)
		}
	}
	for _, g := range obj.Nonzero {
		if g.Param < 0 || g.Param >= obj.Params {
			return fmt.Errorf("law %s guards an invalid parameter: %d", obj.Name, g.Param)
		}
		if g.Position < 0 || g.Position >= len(obj.Operands) {
			return fmt.Errorf("law %s guards an invalid position: %d", obj.Name, g.Position)
		}
	}
	if obj.Eval == nil {
		return fmt.Errorf("law %s has no Eval function", obj.Name)
	}
	return nil
}

// Register takes a law and adds it to our global registry. It panics if the
// law is invalid or if the name is already taken, because those are
// programming errors.
func Register(law *Law) {
	registeredLawsMutex.Lock()
	defer registeredLawsMutex.Unlock()
	if err := law.Validate(); err != nil {
		panic(fmt.Sprintf("invalid law: %+v", err))
	}
	if _, exists := registeredLaws[law.Name]; exists {
		panic(fmt.Sprintf("a law named %s is already registered", law.Name))
	}
	registeredLaws[law.Name] = law
}

// Lookup returns the law with this name.
func Lookup(name string) (*Law, error) {
	registeredLawsMutex.Lock()
	defer registeredLawsMutex.Unlock()
	law, exists := registeredLaws[name]
	if !exists {
		return nil, fmt.Errorf("law %s not found", name)
	}
	return law, nil
}

// Names returns a sorted list of all the registered law names.
func Names() []string {
	registeredLawsMutex.Lock()
	defer registeredLawsMutex.Unlock()
	names := []string{}
	for name := range registeredLaws {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// calc runs a sequence of operations and remembers the first error. After an
// error every further call is skipped.
type calc struct {
	env Env
	err error
}

func (obj *calc) call(param int, role string, args ...interface{}) interface{} {
	if obj.err != nil {
		return nil
	}
	v, err := obj.env.Call(param, role, args...)
	if err != nil {
		obj.err = err
		return nil
	}
	return v
}

func (obj *calc) op(param int, a, b interface{}) interface{} {
	return obj.call(param, RoleOperate, a, b)
}

func (obj *calc) inv(param int, a interface{}) interface{} {
	return obj.call(param, RoleInverse, a)
}

func (obj *calc) id(param int) interface{} {
	return obj.call(param, RoleIdentity)
}

// result builds the return value of Eval from pairs of names and sides.
func (obj *calc) result(eqs ...*Equation) ([]*Equation, error) {
	if obj.err != nil {
		return nil, obj.err
	}
	return eqs, nil
}
