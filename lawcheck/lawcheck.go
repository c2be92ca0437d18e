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

// Package lawcheck contains the law-check generator and the procedures that it
// builds. A procedure checks one law of one kind against sampled values, and
// ends as verified, falsified or inconclusive.
package lawcheck

import (
	"encoding/binary"
	"fmt"
	"time"

	"github.com/purpleidea/alga/catalog"
	"github.com/purpleidea/alga/derive"
	"github.com/purpleidea/alga/gen"
	"github.com/purpleidea/alga/interfaces"
	"github.com/purpleidea/alga/laws"
	"github.com/purpleidea/alga/resolver"
	"github.com/purpleidea/alga/util/errwrap"

	"github.com/cespare/xxhash/v2"
	"github.com/google/uuid"
	"github.com/sanity-io/litter"
)

// DefaultSampleCount is the number of samples when none is given.
const DefaultSampleCount = 100

// Outcome is the result of a procedure.
type Outcome int

const (
	// OutcomeVerified means that every sample passed.
	OutcomeVerified Outcome = iota

	// OutcomeFalsified means that a sample failed. It always comes with a
	// counterexample.
	OutcomeFalsified

	// OutcomeInconclusive means that a sample couldn't be evaluated, or
	// that the run stopped before every sample was evaluated.
	OutcomeInconclusive
)

// String returns the name of the outcome.
func (obj Outcome) String() string {
	switch obj {
	case OutcomeVerified:
		return "verified"
	case OutcomeFalsified:
		return "falsified"
	case OutcomeInconclusive:
		return "inconclusive"
	}
	return fmt.Sprintf("Outcome(%d)", int(obj))
}

// Counterexample is a sample that falsified a law.
type Counterexample struct {
	// Index is the position of the sample in the enumeration.
	Index int

	Values []interface{}

	// Equation is the name of the equation that failed.
	Equation string

	Left  interface{}
	Right interface{}
}

// String returns a readable dump of the counterexample.
func (obj *Counterexample) String() string {
	sq := litter.Options{
		Compact:           true,
		HidePrivateFields: false,
	}
	return fmt.Sprintf("sample #%d %s: %s: %s != %s", obj.Index, sq.Sdump(obj.Values), obj.Equation, sq.Sdump(obj.Left), sq.Sdump(obj.Right))
}

// Result is the outcome of one run of a procedure.
type Result struct {
	Procedure *Procedure
	Outcome   Outcome

	// Counterexample is set when the law is falsified.
	Counterexample *Counterexample

	// Reason explains an inconclusive outcome.
	Reason string

	// Samples is the number of samples that were evaluated.
	Samples int

	// Vacuous is the number of samples which a guard excluded.
	Vacuous int

	Duration time.Duration
}

// String returns a one line summary of the result.
func (obj *Result) String() string {
	switch obj.Outcome {
	case OutcomeFalsified:
		return fmt.Sprintf("%s: %s: %s", obj.Procedure, obj.Outcome, obj.Counterexample)
	case OutcomeInconclusive:
		return fmt.Sprintf("%s: %s: %s", obj.Procedure, obj.Outcome, obj.Reason)
	}
	return fmt.Sprintf("%s: %s (%d samples, %d vacuous)", obj.Procedure, obj.Outcome, obj.Samples, obj.Vacuous)
}

// guard is a resolved laws.Guard.
type guard struct {
	position int
	excluded *derive.Binding
}

// Procedure checks one law of one kind of a candidate type.
type Procedure struct {
	ID        string
	Candidate *interfaces.CandidateType
	Kind      *catalog.StructureKind
	Law       *catalog.LawRef

	// Capability is the capability of the kind.
	Capability *derive.Capability

	Generators  gen.Interface
	Equal       Equal
	SampleCount int

	// Seed is the seed of this procedure, derived from the run seed.
	Seed uint64

	// Workers is the number of goroutines that evaluate samples.
	Workers int

	guards []*guard
}

// String returns the name of the procedure.
func (obj *Procedure) String() string {
	return fmt.Sprintf("%s: %s: %s", obj.Candidate, obj.Kind, obj.Law)
}

// sampleSeed returns the seed of one operand of one sample. It only depends on
// the procedure seed and the position, so that a larger sample count keeps the
// samples of a smaller one.
func (obj *Procedure) sampleSeed(index, position int) uint64 {
	buf := make([]byte, 24)
	binary.LittleEndian.PutUint64(buf[0:], obj.Seed)
	binary.LittleEndian.PutUint64(buf[8:], uint64(index))
	binary.LittleEndian.PutUint64(buf[16:], uint64(position))
	return xxhash.Sum64(buf)
}

// Generator builds procedures.
type Generator struct {
	Catalog    *catalog.Catalog
	Generators gen.Interface

	// Workers is the number of goroutines per procedure. Zero means one.
	Workers int

	Debug bool
	Logf  func(format string, v ...interface{})
}

func (obj *Generator) logf(format string, v ...interface{}) {
	if obj.Logf == nil {
		return
	}
	obj.Logf(format, v...)
}

// Generate returns one procedure per law, at the first kind in topological
// order which introduces it. Unverifiable kinds get none. A sample count of
// zero means the default.
func (obj *Generator) Generate(derivation *derive.Derivation, resolution *resolver.Resolution, sampleCount int, seed uint64) ([]*Procedure, error) {
	if obj.Catalog == nil {
		return nil, fmt.Errorf("the Catalog is missing")
	}
	if obj.Generators == nil {
		return nil, fmt.Errorf("the Generators are missing")
	}
	if sampleCount < 0 {
		return nil, fmt.Errorf("negative sample count: %d", sampleCount)
	}
	if sampleCount == 0 {
		sampleCount = DefaultSampleCount
	}
	workers := obj.Workers
	if workers <= 0 {
		workers = 1
	}
	candidate := derivation.Candidate

	category := candidate.Category
	if category == "" {
		category = obj.Catalog.Category(candidate.GoElem)
	}
	policy, err := obj.Catalog.Equality(category)
	if err != nil {
		return nil, errwrap.Wrapf(err, "candidate %s", candidate)
	}
	equal, err := NewEqual(policy)
	if err != nil {
		return nil, errwrap.Wrapf(err, "candidate %s", candidate)
	}

	procedures := []*Procedure{}
	seen := make(map[string]struct{})
	for _, rk := range resolution.Kinds {
		if rk.Unverifiable {
			if obj.Debug {
				obj.logf("%s: skipping %s: %s", candidate, rk, rk.Reason)
			}
			continue
		}
		capability, exists := derivation.Lookup(rk.Kind.Name)
		if !exists {
			return nil, fmt.Errorf("kind %s has no capability", rk.Kind)
		}
		for _, l := range rk.Kind.Laws {
			key := l.String()
			if _, exists := seen[key]; exists {
				continue // a sibling branch introduced it
			}
			seen[key] = struct{}{}

			p := &Procedure{
				ID:          uuid.New().String(),
				Candidate:   candidate,
				Kind:        rk.Kind,
				Law:         l,
				Capability:  capability,
				Generators:  obj.Generators,
				Equal:       equal,
				SampleCount: sampleCount,
				Seed:        xxhash.Sum64String(fmt.Sprintf("%d/%s/%s", seed, candidate.Name, key)),
				Workers:     workers,
				guards:      []*guard{},
			}
			if err := obj.guards(p, derivation); err != nil {
				return nil, err
			}
			procedures = append(procedures, p)
		}
	}
	return procedures, nil
}

// guards resolves the excluded element of each guard of the law. An operator
// whose excluded element isn't derived for this candidate has no guard.
func (obj *Generator) guards(p *Procedure, derivation *derive.Derivation) error {
	for _, g := range p.Law.Law.Nonzero {
		op, err := obj.Catalog.Operator(p.Law.Operators[g.Param])
		if err != nil {
			return err
		}
		if op.Excludes == nil {
			continue
		}
		b, exists := derivation.Binding(*op.Excludes)
		if !exists {
			continue
		}
		p.guards = append(p.guards, &guard{
			position: g.Position,
			excluded: b,
		})
	}
	return nil
}

// env binds the law parameters to the operators of the procedure.
type env struct {
	procedure *Procedure
}

// Call runs an operation of the capability.
func (obj *env) Call(param int, role string, args ...interface{}) (interface{}, error) {
	ops := obj.procedure.Law.Operators
	if param < 0 || param >= len(ops) {
		return nil, fmt.Errorf("invalid parameter: %d", param)
	}
	ref := catalog.RoleRef{Operator: ops[param], Role: role}
	b, exists := obj.procedure.Capability.Lookup(ref)
	if !exists {
		return nil, errwrap.Wrapf(interfaces.ErrMissingOperation, "role %s", ref)
	}
	return b.Fn(args...)
}

var _ laws.Env = &env{} // ensure it meets the interface
