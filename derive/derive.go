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

// Package derive contains the derivation synthesizer. It builds one capability
// for each resolved kind, which binds the operations the kind requires to the
// declared operations of the candidate type. The only operations which aren't
// forwarded verbatim are the ones that the catalog lists as a transform.
package derive

import (
	"fmt"
	"strings"

	"github.com/purpleidea/alga/catalog"
	"github.com/purpleidea/alga/interfaces"
	"github.com/purpleidea/alga/laws"
	"github.com/purpleidea/alga/resolver"
	"github.com/purpleidea/alga/util/errwrap"

	"github.com/google/uuid"
)

// Binding is one operation of a capability.
type Binding struct {
	Ref catalog.RoleRef

	// Operation is the declared operation that is forwarded to. It is nil
	// if the binding is synthesized.
	Operation *interfaces.Operation

	// Transform is set if the binding is synthesized.
	Transform *catalog.Transform

	// Sources are the bindings that a synthesized binding is built from.
	Sources []*Binding

	Fn interfaces.Callable
}

// Synthesized returns true if the binding is not a declared operation.
func (obj *Binding) Synthesized() bool {
	return obj.Transform != nil
}

// String returns a representation of the binding.
func (obj *Binding) String() string {
	if obj.Synthesized() {
		return fmt.Sprintf("%s = %s", obj.Ref, obj.Transform.Method)
	}
	return fmt.Sprintf("%s = %s", obj.Ref, obj.Operation.Name)
}

// Capability is the derived implementation of one kind for the candidate type.
// It only binds the operations introduced at its kind, and reaches the rest
// through its parents.
type Capability struct {
	Kind    *catalog.StructureKind
	Parents []*Capability

	// Bindings are the own operations of the kind, in catalog order.
	Bindings []*Binding

	// Unverifiable is copied from the resolution.
	Unverifiable bool
}

// String returns the name of the kind.
func (obj *Capability) String() string {
	return obj.Kind.Name
}

// Lookup returns the binding of the role, searching this capability first and
// then its ancestors depth first.
func (obj *Capability) Lookup(ref catalog.RoleRef) (*Binding, bool) {
	for _, b := range obj.Bindings {
		if b.Ref == ref {
			return b, true
		}
	}
	for _, p := range obj.Parents {
		if b, ok := p.Lookup(ref); ok {
			return b, true
		}
	}
	return nil, false
}

// Forwarded returns the own bindings which are declared operations.
func (obj *Capability) Forwarded() []*Binding {
	out := []*Binding{}
	for _, b := range obj.Bindings {
		if !b.Synthesized() {
			out = append(out, b)
		}
	}
	return out
}

// Synthesized returns the own bindings which are built by a transform.
func (obj *Capability) Synthesized() []*Binding {
	out := []*Binding{}
	for _, b := range obj.Bindings {
		if b.Synthesized() {
			out = append(out, b)
		}
	}
	return out
}

// Derivation is the set of capabilities of one candidate type.
type Derivation struct {
	// ID identifies this derivation in logs and reports.
	ID string

	Candidate *interfaces.CandidateType

	// Capabilities is in topological order.
	Capabilities []*Capability

	index map[string]*Capability
}

// Lookup returns the capability of the kind.
func (obj *Derivation) Lookup(name string) (*Capability, bool) {
	c, exists := obj.index[name]
	return c, exists
}

// Binding returns the binding of the role from any capability. It's used for
// roles that a law needs but its kind doesn't reach, such as the element that
// a guard excludes.
func (obj *Derivation) Binding(ref catalog.RoleRef) (*Binding, bool) {
	for _, c := range obj.Capabilities {
		for _, b := range c.Bindings {
			if b.Ref == ref {
				return b, true
			}
		}
	}
	return nil, false
}

// Synthesizer builds derivations.
type Synthesizer struct {
	Catalog *catalog.Catalog

	Debug bool
	Logf  func(format string, v ...interface{})
}

func (obj *Synthesizer) logf(format string, v ...interface{}) {
	if obj.Logf == nil {
		return
	}
	obj.Logf(format, v...)
}

// Synthesize builds the capabilities of every resolved kind. Every ambiguous
// role is reported together with ErrAmbiguousDerivation.
func (obj *Synthesizer) Synthesize(candidate *interfaces.CandidateType, resolution *resolver.Resolution) (*Derivation, error) {
	if obj.Catalog == nil {
		return nil, fmt.Errorf("the Catalog is missing")
	}
	if candidate == nil || resolution == nil {
		return nil, fmt.Errorf("nothing to synthesize")
	}
	derivation := &Derivation{
		ID:           uuid.New().String(),
		Candidate:    candidate,
		Capabilities: []*Capability{},
		index:        make(map[string]*Capability),
	}

	var reterr error
	for _, rk := range resolution.Kinds {
		capability := &Capability{
			Kind:         rk.Kind,
			Parents:      []*Capability{},
			Bindings:     []*Binding{},
			Unverifiable: rk.Unverifiable,
		}
		for _, name := range rk.Kind.Parents {
			p, exists := derivation.index[name]
			if !exists {
				// the resolver guarantees the closure
				return nil, errwrap.Wrapf(interfaces.ErrMissingOperation, "kind %s has no parent capability %s", rk.Kind, name)
			}
			capability.Parents = append(capability.Parents, p)
		}

		for _, req := range rk.Kind.Requires {
			op, err := pick(req.Role, rk.Matches[req.Ref()])
			if err != nil {
				reterr = errwrap.Append(reterr, errwrap.Wrapf(err, "kind %s role %s", rk.Kind, req.Ref()))
				continue
			}
			capability.Bindings = append(capability.Bindings, forward(req.Ref(), op))
		}

		for _, t := range rk.Kind.Transforms {
			b, err := obj.transform(candidate, capability, t)
			if err != nil {
				reterr = errwrap.Append(reterr, errwrap.Wrapf(err, "kind %s", rk.Kind))
				continue
			}
			capability.Bindings = append(capability.Bindings, b)
		}

		if obj.Debug {
			obj.logf("%s: %s: %d own bindings", candidate, rk.Kind, len(capability.Bindings))
		}
		derivation.Capabilities = append(derivation.Capabilities, capability)
		derivation.index[rk.Kind.Name] = capability
	}
	if reterr != nil {
		return nil, errwrap.Wrapf(reterr, "can't derive %s", candidate)
	}
	return derivation, nil
}

// pick returns the single operation which fills the role. If more than one
// does, the prefer list of the role decides, and if it doesn't, it errors.
func pick(role *catalog.Role, matches []*interfaces.Operation) (*interfaces.Operation, error) {
	switch len(matches) {
	case 0:
		return nil, interfaces.ErrMissingOperation
	case 1:
		return matches[0], nil
	}
	for _, name := range role.Prefer {
		for _, op := range matches {
			if op.Name == name {
				return op, nil
			}
		}
	}
	names := []string{}
	for _, op := range matches {
		names = append(names, op.Name)
	}
	return nil, errwrap.Wrapf(interfaces.ErrAmbiguousDerivation, "candidates %s", strings.Join(names, ", "))
}

// forward binds the role to a declared operation. The callable is the very
// same one, so the binding behaves exactly like the operation.
func forward(ref catalog.RoleRef, op *interfaces.Operation) *Binding {
	return &Binding{
		Ref:       ref,
		Operation: op,
		Fn:        op.Fn,
	}
}

// transform binds the target of a catalog transform. A declared operation for
// the target is still preferred, so the transform only fills a gap.
func (obj *Synthesizer) transform(candidate *interfaces.CandidateType, capability *Capability, t *catalog.Transform) (*Binding, error) {
	operator, err := obj.Catalog.Operator(t.Target.Operator)
	if err != nil {
		return nil, err
	}
	role, exists := operator.Roles[t.Target.Role]
	if !exists {
		return nil, fmt.Errorf("operator %s has no role %s", operator, t.Target.Role)
	}
	req := &catalog.Requirement{
		Operator: t.Target.Operator,
		Role:     role,
	}
	if matches := resolver.Match(candidate, req); len(matches) > 0 {
		op, err := pick(role, matches)
		if err != nil {
			return nil, errwrap.Wrapf(err, "role %s", t.Target)
		}
		return forward(t.Target, op), nil
	}

	switch t.Method {
	case catalog.TransformComposeInverse:
		operate, ok1 := capability.Lookup(catalog.RoleRef{Operator: t.Source, Role: laws.RoleOperate})
		inverse, ok2 := capability.Lookup(catalog.RoleRef{Operator: t.Source, Role: laws.RoleInverse})
		if !ok1 || !ok2 {
			return nil, errwrap.Wrapf(interfaces.ErrMissingOperation, "transform %s", t)
		}
		if obj.Debug {
			obj.logf("%s: synthesizing %s", candidate, t)
		}
		return &Binding{
			Ref:       t.Target,
			Transform: t,
			Sources:   []*Binding{operate, inverse},
			Fn:        composeInverse(operate.Fn, inverse.Fn),
		}, nil
	}
	return nil, fmt.Errorf("unknown transform method: %s", t.Method)
}

// composeInverse returns a ∘ b⁻¹.
func composeInverse(operate, inverse interfaces.Callable) interfaces.Callable {
	return func(args ...interface{}) (interface{}, error) {
		if len(args) != 2 {
			return nil, fmt.Errorf("got %d operands, want 2", len(args))
		}
		inv, err := inverse(args[1])
		if err != nil {
			return nil, err
		}
		return operate(args[0], inv)
	}
}

// Names returns the names of the capabilities in topological order.
func (obj *Derivation) Names() []string {
	names := []string{}
	for _, c := range obj.Capabilities {
		names = append(names, c.Kind.Name)
	}
	return names
}
