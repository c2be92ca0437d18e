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

// Package catalog contains the structure catalog. It is the read-only registry
// of every structure kind, the operators that they are parameterized by, the
// operations that each kind requires, and the laws which it introduces. It is
// built and validated once, and is safe for concurrent use afterwards.
package catalog

import (
	"fmt"
	"strings"

	"github.com/purpleidea/alga/laws"
	"github.com/purpleidea/alga/pgraph"
	"github.com/purpleidea/alga/types"
	"github.com/purpleidea/alga/util/errwrap"
)

const (
	// EqualityExact compares two values for exact equality.
	EqualityExact = "exact"

	// EqualityApprox compares two values with a tolerance on every
	// floating point component.
	EqualityApprox = "approx"

	// DefaultCategory is the equality category used when none is given.
	DefaultCategory = "exact"

	// TransformComposeInverse synthesizes the difference role of an
	// operator as a ∘ b⁻¹.
	TransformComposeInverse = "compose_inverse"
)

// RoleRef names one role of one operator, eg: `Additive.identity`.
type RoleRef struct {
	Operator string
	Role     string
}

// String returns the dotted representation of this reference.
func (obj RoleRef) String() string {
	return fmt.Sprintf("%s.%s", obj.Operator, obj.Role)
}

// Role is a single operation that an operator can provide.
type Role struct {
	Name string

	// Type is the signature that a declared operation must have.
	Type *types.Type

	// Names lists the declared operation names that can fill this role.
	Names []string

	// Prefer is the priority rule which picks one operation when more than
	// one declared operation fills the role. The first match wins.
	Prefer []string
}

// Operator is a marker which distinguishes the different binary operations of
// the same carrier, eg: `Additive` and `Multiplicative`.
type Operator struct {
	Name string

	// Carrier is either the carrier kind or the scalar kind.
	Carrier types.Kind

	// Generic operators are the default instances of one parameter kinds.
	Generic bool

	// Excludes is the element that guarded law operands must avoid, such
	// as the additive identity for the multiplicative inverse.
	Excludes *RoleRef

	Roles map[string]*Role
}

// String returns the name of the operator.
func (obj *Operator) String() string {
	return obj.Name
}

// Requirement is an operation that a structure kind requires.
type Requirement struct {
	Operator string
	Role     *Role
}

// Ref returns the role reference of this requirement.
func (obj *Requirement) Ref() RoleRef {
	return RoleRef{Operator: obj.Operator, Role: obj.Role.Name}
}

// String returns a representation of the requirement with its signature.
func (obj *Requirement) String() string {
	return fmt.Sprintf("%s %s", obj.Ref(), obj.Role.Type)
}

// LawRef is a law bound to the operators of a structure kind.
type LawRef struct {
	Law       *laws.Law
	Operators []string
}

// String returns the law with its operators, eg: `inverse(Additive)`. It is
// unique for each distinct check.
func (obj *LawRef) String() string {
	return fmt.Sprintf("%s(%s)", obj.Law.Name, strings.Join(obj.Operators, ", "))
}

// Transform synthesizes the target role from other operations, when the
// candidate type doesn't declare it.
type Transform struct {
	Target RoleRef
	Method string
	Source string // operator
}

// String returns a representation of the transform.
func (obj *Transform) String() string {
	return fmt.Sprintf("%s = %s(%s)", obj.Target, obj.Method, obj.Source)
}

// StructureKind is a node in the structure DAG, eg: `Group<Additive>`.
type StructureKind struct {
	// Name is unique in the catalog.
	Name string

	// Template is the name of the kind without operators, eg: `Group`.
	Template string

	// Operators lists the operators that this kind is instantiated with.
	Operators []string

	Description string

	// Parents lists the names of the direct parents.
	Parents []string

	// Requires lists the operations required directly at this kind. The
	// operations of the ancestors are not repeated.
	Requires []*Requirement

	// Laws lists the laws introduced at this kind.
	Laws []*LawRef

	Transforms []*Transform
}

// String returns the name of the kind. This satisfies the pgraph.Vertex API.
func (obj *StructureKind) String() string {
	return obj.Name
}

// EqualityPolicy is how the sides of a law are compared for a category of
// types.
type EqualityPolicy struct {
	Mode string `yaml:"mode"`

	// Fraction is the relative tolerance of approximate equality.
	Fraction float64 `yaml:"fraction"`

	// Margin is the absolute tolerance of approximate equality.
	Margin float64 `yaml:"margin"`
}

// UnmarshalYAML is the standard unmarshal method for this struct.
func (obj *EqualityPolicy) UnmarshalYAML(unmarshal func(interface{}) error) error {
	type indirect EqualityPolicy // indirection to avoid infinite recursion
	raw := indirect(EqualityPolicy{
		Mode: EqualityExact, // the defaults go here
	})
	if err := unmarshal(&raw); err != nil {
		return err
	}
	*obj = EqualityPolicy(raw) // restore from indirection with type conversion!
	return nil
}

// Validate checks that the policy is usable.
func (obj *EqualityPolicy) Validate() error {
	switch obj.Mode {
	case EqualityExact:
	case EqualityApprox:
		if obj.Fraction < 0 || obj.Margin < 0 {
			return fmt.Errorf("negative tolerance")
		}
	default:
		return fmt.Errorf("unknown mode: %s", obj.Mode)
	}
	return nil
}

// String returns a representation of the policy.
func (obj *EqualityPolicy) String() string {
	if obj.Mode == EqualityApprox {
		return fmt.Sprintf("approx(fraction=%g, margin=%g)", obj.Fraction, obj.Margin)
	}
	return obj.Mode
}

// Catalog is the validated structure catalog.
type Catalog struct {
	operators     map[string]*Operator
	operatorOrder []*Operator
	kinds         map[string]*StructureKind
	order         []*StructureKind // topological
	graph         *pgraph.Graph
	equality      map[string]*EqualityPolicy
}

// Kinds returns every kind in topological order, parents before children. Ties
// are broken by name, so the order is stable.
func (obj *Catalog) Kinds() []*StructureKind {
	kinds := make([]*StructureKind, len(obj.order))
	copy(kinds, obj.order)
	return kinds
}

// Lookup returns the kind with this name.
func (obj *Catalog) Lookup(name string) (*StructureKind, error) {
	kind, exists := obj.kinds[name]
	if !exists {
		return nil, fmt.Errorf("kind %s not found", name)
	}
	return kind, nil
}

// Operator returns the operator with this name.
func (obj *Catalog) Operator(name string) (*Operator, error) {
	op, exists := obj.operators[name]
	if !exists {
		return nil, fmt.Errorf("operator %s not found", name)
	}
	return op, nil
}

// Operators returns every operator in declaration order.
func (obj *Catalog) Operators() []*Operator {
	ops := make([]*Operator, len(obj.operatorOrder))
	copy(ops, obj.operatorOrder)
	return ops
}

// Parents returns the direct parents of the kind.
func (obj *Catalog) Parents(kind *StructureKind) []*StructureKind {
	parents := []*StructureKind{}
	for _, name := range kind.Parents {
		if p, exists := obj.kinds[name]; exists {
			parents = append(parents, p)
		}
	}
	return parents
}

// Ancestors returns every transitive parent of the kind in topological order.
func (obj *Catalog) Ancestors(kind *StructureKind) []*StructureKind {
	ancestors := obj.graph.Ancestors(kind)
	out := []*StructureKind{}
	for _, k := range obj.order { // keep the topological order
		if pgraph.VertexContains(k, ancestors) {
			out = append(out, k)
		}
	}
	return out
}

// Available returns every role that the kind and its ancestors require or
// synthesize.
func (obj *Catalog) Available(kind *StructureKind) map[RoleRef]struct{} {
	out := make(map[RoleRef]struct{})
	for _, k := range append(obj.Ancestors(kind), kind) {
		for _, req := range k.Requires {
			out[req.Ref()] = struct{}{}
		}
		for _, t := range k.Transforms {
			out[t.Target] = struct{}{}
		}
	}
	return out
}

// Equality returns the equality policy of the category. The empty category is
// the default one.
func (obj *Catalog) Equality(category string) (*EqualityPolicy, error) {
	if category == "" {
		category = DefaultCategory
	}
	policy, exists := obj.equality[category]
	if !exists {
		return nil, fmt.Errorf("equality category %s not found", category)
	}
	return policy, nil
}

// Category returns the equality category of a golang type name. The catalog
// may key a category by the type name, eg: `float64`, otherwise it is the
// default category.
func (obj *Catalog) Category(goType string) string {
	if _, exists := obj.equality[goType]; exists {
		return goType
	}
	return DefaultCategory
}

// Graph returns the structure DAG. The edges point from parent to child. It
// must not be modified.
func (obj *Catalog) Graph() *pgraph.Graph {
	return obj.graph
}

// Graphviz returns the structure DAG in the graphviz dot format.
func (obj *Catalog) Graphviz() string {
	return obj.graph.Graphviz()
}

// check validates the kinds against their ancestors. It runs after the DAG
// has been sorted, so that every kind is checked after its ancestors are.
func (obj *Catalog) check() error {
	var reterr error
	for _, kind := range obj.order {
		ancestors := obj.Ancestors(kind)

		inherited := make(map[RoleRef]string) // role -> ancestor
		introduced := make(map[string]string) // law -> ancestor
		for _, a := range ancestors {
			for _, req := range a.Requires {
				inherited[req.Ref()] = a.Name
			}
			for _, t := range a.Transforms {
				inherited[t.Target] = a.Name
			}
			for _, l := range a.Laws {
				introduced[l.String()] = a.Name
			}
		}

		own := make(map[RoleRef]struct{})
		for _, req := range kind.Requires {
			ref := req.Ref()
			if a, exists := inherited[ref]; exists {
				err := errwrap.Wrapf(ErrInconsistentKind, "kind %s requires %s which ancestor %s already provides", kind, ref, a)
				reterr = errwrap.Append(reterr, err)
			}
			if _, exists := own[ref]; exists {
				err := errwrap.Wrapf(ErrInconsistentKind, "kind %s requires %s twice", kind, ref)
				reterr = errwrap.Append(reterr, err)
			}
			own[ref] = struct{}{}
		}

		for _, t := range kind.Transforms {
			if _, exists := own[t.Target]; exists {
				err := errwrap.Wrapf(ErrInconsistentKind, "kind %s both requires and synthesizes %s", kind, t.Target)
				reterr = errwrap.Append(reterr, err)
			}
			if a, exists := inherited[t.Target]; exists {
				err := errwrap.Wrapf(ErrInconsistentKind, "kind %s synthesizes %s which ancestor %s already provides", kind, t.Target, a)
				reterr = errwrap.Append(reterr, err)
			}
		}

		available := obj.Available(kind)
		for _, t := range kind.Transforms {
			for _, role := range []string{laws.RoleOperate, laws.RoleInverse} {
				ref := RoleRef{Operator: t.Source, Role: role}
				if _, exists := available[ref]; !exists {
					err := errwrap.Wrapf(ErrInconsistentKind, "kind %s transform %s needs %s", kind, t, ref)
					reterr = errwrap.Append(reterr, err)
				}
			}
		}

		seen := make(map[string]struct{})
		for _, l := range kind.Laws {
			if a, exists := introduced[l.String()]; exists {
				err := errwrap.Wrapf(ErrInconsistentKind, "kind %s repeats law %s of ancestor %s", kind, l, a)
				reterr = errwrap.Append(reterr, err)
			}
			if _, exists := seen[l.String()]; exists {
				err := errwrap.Wrapf(ErrInconsistentKind, "kind %s lists law %s twice", kind, l)
				reterr = errwrap.Append(reterr, err)
			}
			seen[l.String()] = struct{}{}

			for _, use := range l.Law.Uses {
				ref := RoleRef{Operator: l.Operators[use.Param], Role: use.Role}
				if _, exists := available[ref]; !exists {
					err := errwrap.Wrapf(ErrInconsistentKind, "kind %s law %s uses unavailable %s", kind, l, ref)
					reterr = errwrap.Append(reterr, err)
				}
			}
		}
	}
	return reterr
}
