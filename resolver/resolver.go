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

// Package resolver contains the hierarchy resolver. It walks the structure
// catalog in topological order and claims every kind whose parents are
// claimed, and whose own required operations are all declared by the
// candidate type. The result is the maximal consistent set of kinds.
package resolver

import (
	"fmt"
	"strings"

	"github.com/purpleidea/alga/catalog"
	"github.com/purpleidea/alga/interfaces"
	"github.com/purpleidea/alga/types"
	"github.com/purpleidea/alga/util"
	"github.com/purpleidea/alga/util/errwrap"
)

// Generators is what the resolver needs to know about the value generators.
type Generators interface {
	Has(typeID string) bool
}

// ResolvedKind is a kind that the candidate type satisfies.
type ResolvedKind struct {
	Kind *catalog.StructureKind

	// Matches maps each own requirement to the declared operations which
	// can fill it. There is at least one of each.
	Matches map[catalog.RoleRef][]*interfaces.Operation

	// Unverifiable kinds are derived, but can't have their laws checked.
	Unverifiable bool

	// Reason explains why the kind is unverifiable.
	Reason string
}

// String returns the name of the kind.
func (obj *ResolvedKind) String() string {
	return obj.Kind.Name
}

// Resolution is the set of resolved kinds of one candidate type.
type Resolution struct {
	Candidate *interfaces.CandidateType

	// Kinds is in topological order.
	Kinds []*ResolvedKind

	index map[string]*ResolvedKind
}

// Has returns true if the kind is in the set.
func (obj *Resolution) Has(name string) bool {
	_, exists := obj.index[name]
	return exists
}

// Lookup returns the resolved kind with this name.
func (obj *Resolution) Lookup(name string) (*ResolvedKind, bool) {
	rk, exists := obj.index[name]
	return rk, exists
}

// Names returns the names of the resolved kinds in topological order.
func (obj *Resolution) Names() []string {
	names := []string{}
	for _, rk := range obj.Kinds {
		names = append(names, rk.Kind.Name)
	}
	return names
}

// Unverifiable returns the names of the unverifiable kinds.
func (obj *Resolution) Unverifiable() []string {
	names := []string{}
	for _, rk := range obj.Kinds {
		if rk.Unverifiable {
			names = append(names, rk.Kind.Name)
		}
	}
	return names
}

// Resolver computes the resolution of candidate types against a catalog.
type Resolver struct {
	Catalog *catalog.Catalog

	// Generators may be nil, in which case every kind with laws is
	// unverifiable.
	Generators Generators

	Debug bool
	Logf  func(format string, v ...interface{})
}

func (obj *Resolver) logf(format string, v ...interface{}) {
	if obj.Logf == nil {
		return
	}
	obj.Logf(format, v...)
}

// Match returns the declared operations which can fill the requirement. The
// name must be one of the names of the role, and the signature must match.
func Match(candidate *interfaces.CandidateType, req *catalog.Requirement) []*interfaces.Operation {
	matches := []*interfaces.Operation{}
	for _, op := range candidate.Operations {
		if !util.StrInList(op.Name, req.Role.Names) {
			continue
		}
		if err := signature(candidate, req, op); err != nil {
			continue
		}
		matches = append(matches, op)
	}
	return matches
}

// signature compares the declared signature to the required one. A type which
// is its own scalar declares its scalar operands as T.
func signature(candidate *interfaces.CandidateType, req *catalog.Requirement, op *interfaces.Operation) error {
	if candidate.GoScalar != "" && candidate.GoScalar == candidate.GoElem {
		return req.Role.Type.CmpSelfScalar(op.Type)
	}
	return req.Role.Type.Cmp(op.Type)
}

// Resolve returns the resolved kinds of the candidate. It is a pure function
// of its inputs. It errors with ErrMissingOperation if a claimed kind has an
// ancestor which isn't satisfied, since that means the catalog or the type is
// inconsistent.
func (obj *Resolver) Resolve(candidate *interfaces.CandidateType) (*Resolution, error) {
	if obj.Catalog == nil {
		return nil, fmt.Errorf("the Catalog is missing")
	}
	if candidate == nil {
		return nil, fmt.Errorf("the candidate is missing")
	}

	resolution := &Resolution{
		Candidate: candidate,
		Kinds:     []*ResolvedKind{},
		index:     make(map[string]*ResolvedKind),
	}

	for _, kind := range obj.Catalog.Kinds() { // parents before children
		claimed := true
		for _, p := range kind.Parents {
			if !resolution.Has(p) {
				claimed = false
				break
			}
		}
		if !claimed {
			continue
		}

		matches := make(map[catalog.RoleRef][]*interfaces.Operation)
		for _, req := range kind.Requires {
			m := Match(candidate, req)
			if len(m) == 0 {
				if obj.Debug {
					obj.debugMismatch(candidate, kind, req)
				}
				claimed = false
				break
			}
			matches[req.Ref()] = m
		}
		if !claimed {
			continue
		}

		rk := &ResolvedKind{
			Kind:    kind,
			Matches: matches,
		}
		if reason := obj.unverifiable(candidate, kind); reason != "" {
			rk.Unverifiable = true
			rk.Reason = reason
		}
		if obj.Debug {
			obj.logf("%s: claimed %s", candidate, kind)
		}
		resolution.Kinds = append(resolution.Kinds, rk)
		resolution.index[kind.Name] = rk
	}

	if err := obj.closure(resolution); err != nil {
		return nil, err
	}
	return resolution, nil
}

// debugMismatch logs declared operations which have the right name but the
// wrong signature. They are the usual reason for an unexpected resolution.
func (obj *Resolver) debugMismatch(candidate *interfaces.CandidateType, kind *catalog.StructureKind, req *catalog.Requirement) {
	for _, op := range candidate.Operations {
		if !util.StrInList(op.Name, req.Role.Names) {
			continue
		}
		if err := signature(candidate, req, op); err != nil {
			obj.logf("%s: %s: operation %s can't fill %s: %s", candidate, kind, op, req, err)
		}
	}
}

// unverifiable returns the reason why the laws of the kind can't be checked, or
// the empty string if they can.
func (obj *Resolver) unverifiable(candidate *interfaces.CandidateType, kind *catalog.StructureKind) string {
	if len(kind.Laws) == 0 {
		return ""
	}
	needs := map[types.Kind]bool{}
	for _, l := range kind.Laws {
		for _, k := range l.Law.Operands {
			needs[k] = true
		}
	}
	missing := []string{}
	if needs[types.KindElem] && !obj.has(candidate.TypeID) {
		missing = append(missing, candidate.TypeID)
	}
	if needs[types.KindScalar] && !obj.has(candidate.ScalarID) {
		id := candidate.ScalarID
		if id == "" {
			id = "(no scalar)"
		}
		missing = append(missing, id)
	}
	if len(missing) == 0 {
		return ""
	}
	err := errwrap.Wrapf(interfaces.ErrNoGenerator, "type %s", strings.Join(missing, ", "))
	return err.Error()
}

func (obj *Resolver) has(typeID string) bool {
	if obj.Generators == nil || typeID == "" {
		return false
	}
	return obj.Generators.Has(typeID)
}

// closure checks that the resolved set is closed under ancestry, and that every
// ancestor requirement of a resolved kind is satisfied. Resolve only claims a
// kind once its parents and requirements are matched, so this can't fail on a
// resolution built by Resolve. It is an invariant guard which catches a
// resolution that was built or modified elsewhere.
func (obj *Resolver) closure(resolution *Resolution) error {
	var reterr error
	for _, rk := range resolution.Kinds {
		for _, a := range obj.Catalog.Ancestors(rk.Kind) {
			ra, exists := resolution.Lookup(a.Name)
			if !exists {
				err := errwrap.Wrapf(interfaces.ErrMissingOperation, "kind %s is resolved without ancestor %s", rk.Kind, a)
				reterr = errwrap.Append(reterr, err)
				continue
			}
			for _, req := range a.Requires {
				if len(ra.Matches[req.Ref()]) == 0 {
					err := errwrap.Wrapf(interfaces.ErrMissingOperation, "kind %s needs %s of ancestor %s", rk.Kind, req, a)
					reterr = errwrap.Append(reterr, err)
				}
			}
		}
	}
	return reterr
}
