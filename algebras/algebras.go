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

// Package algebras is a collection of candidate types which exercise the
// catalog. Each one registers its description, and the types which the
// builtin generators don't cover also register a generator.
package algebras

import (
	"fmt"

	"github.com/purpleidea/alga/gen"
	"github.com/purpleidea/alga/interfaces"
	"github.com/purpleidea/alga/util"
)

var registeredAlgebras = make(map[string]func() *interfaces.Description) // must initialize

var registeredGenerators = make(map[string]gen.Generator) // must initialize

// Register takes a func which returns a new description and makes it
// available by name. It is commonly called in the init() method of each
// algebra at program startup. There is no matching Unregister function.
func Register(name string, fn func() *interfaces.Description) {
	if _, exists := registeredAlgebras[name]; exists {
		panic(fmt.Sprintf("an algebra named %s is already registered", name))
	}
	registeredAlgebras[name] = fn
}

// RegisterGenerator adds the generator of a type which an algebra uses.
func RegisterGenerator(typeID string, fn gen.Generator) {
	if _, exists := registeredGenerators[typeID]; exists {
		panic(fmt.Sprintf("a generator for %s is already registered", typeID))
	}
	registeredGenerators[typeID] = fn
}

// Lookup returns a new description of the named algebra.
func Lookup(name string) (*interfaces.Description, error) {
	fn, exists := registeredAlgebras[name]
	if !exists {
		return nil, fmt.Errorf("algebra %s not found", name)
	}
	return fn(), nil
}

// Names returns the sorted names of every algebra.
func Names() []string {
	return util.StrMapKeys(registeredAlgebras)
}

// RegisterGenerators adds the generators of every algebra to the registry.
func RegisterGenerators(reg *gen.Registry) error {
	for _, typeID := range util.StrMapKeys(registeredGenerators) {
		if err := reg.Register(typeID, registeredGenerators[typeID]); err != nil {
			return err
		}
	}
	return nil
}

// Registry returns a registry with the builtin generators and the ones of
// every algebra.
func Registry() (*gen.Registry, error) {
	reg := gen.NewRegistry()
	if err := gen.RegisterBuiltin(reg); err != nil {
		return nil, err
	}
	if err := RegisterGenerators(reg); err != nil {
		return nil, err
	}
	return reg, nil
}
