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

// Package gen contains the value generators which feed sampled operands to the
// law checks. A generator is keyed by a type identifier, and it must return
// the same value for the same seed, so that every check is reproducible.
package gen

import (
	"fmt"
	"math/rand/v2"
	"sort"
	"sync"

	"github.com/purpleidea/alga/interfaces"
	"github.com/purpleidea/alga/util/errwrap"
)

// Generator returns a value which is fully determined by the seed.
type Generator func(seed uint64) (interface{}, error)

// Interface is what the resolver and the law checks need from a registry.
type Interface interface {
	// Has returns true if a generator is registered for the type.
	Has(typeID string) bool

	// Generate returns the value of the type for this seed.
	Generate(typeID string, seed uint64) (interface{}, error)
}

// FromRand builds a generator from a function which draws a value from a
// pseudo random source. The source is seeded with the seed and nothing else.
func FromRand(fn func(r *rand.Rand) interface{}) Generator {
	return func(seed uint64) (interface{}, error) {
		r := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
		return fn(r), nil
	}
}

// Registry is a set of generators. It is safe for concurrent use.
type Registry struct {
	mutex      *sync.RWMutex
	generators map[string]Generator
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		mutex:      &sync.RWMutex{},
		generators: make(map[string]Generator),
	}
}

// Register adds a generator. It errors if the type already has one.
func (obj *Registry) Register(typeID string, fn Generator) error {
	if typeID == "" {
		return fmt.Errorf("empty type id")
	}
	if fn == nil {
		return fmt.Errorf("nil generator for %s", typeID)
	}
	obj.mutex.Lock()
	defer obj.mutex.Unlock()
	if _, exists := obj.generators[typeID]; exists {
		return fmt.Errorf("a generator for %s is already registered", typeID)
	}
	obj.generators[typeID] = fn
	return nil
}

// Has returns true if a generator is registered for the type.
func (obj *Registry) Has(typeID string) bool {
	obj.mutex.RLock()
	defer obj.mutex.RUnlock()
	_, exists := obj.generators[typeID]
	return exists
}

// Generate returns the value of the type for this seed. A missing generator is
// an ErrNoGenerator error. A panic inside the generator becomes an error too.
func (obj *Registry) Generate(typeID string, seed uint64) (v interface{}, reterr error) {
	obj.mutex.RLock()
	fn, exists := obj.generators[typeID]
	obj.mutex.RUnlock()
	if !exists {
		return nil, errwrap.Wrapf(interfaces.ErrNoGenerator, "type %s", typeID)
	}
	defer func() {
		if r := recover(); r != nil {
			reterr = fmt.Errorf("generator for %s panicked: %v", typeID, r)
		}
	}()
	v, err := fn(seed)
	if err != nil {
		return nil, errwrap.Wrapf(err, "generator for %s failed", typeID)
	}
	if v == nil {
		return nil, fmt.Errorf("generator for %s returned nil", typeID)
	}
	return v, nil
}

// Names returns the sorted list of type ids which have a generator.
func (obj *Registry) Names() []string {
	obj.mutex.RLock()
	defer obj.mutex.RUnlock()
	names := []string{}
	for name := range obj.generators {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
