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

package catalog

import (
	"fmt"
	"strings"

	"github.com/purpleidea/alga/laws"
	"github.com/purpleidea/alga/pgraph"
	"github.com/purpleidea/alga/types"
	"github.com/purpleidea/alga/util"
	"github.com/purpleidea/alga/util/errwrap"

	"github.com/spf13/afero"
	yaml "gopkg.in/yaml.v2"
)

// document is the on-disk representation of the catalog.
type document struct {
	Equality  map[string]*EqualityPolicy `yaml:"equality"`
	Operators []*operatorDoc             `yaml:"operators"`
	Kinds     []*kindDoc                 `yaml:"kinds"`
}

type operatorDoc struct {
	Name     string              `yaml:"name"`
	Carrier  string              `yaml:"carrier"`
	Generic  bool                `yaml:"generic,omitempty"`
	Excludes string              `yaml:"excludes,omitempty"`
	Roles    map[string]*roleDoc `yaml:"roles"`
}

type roleDoc struct {
	Type   string   `yaml:"type"`
	Names  []string `yaml:"names"`
	Prefer []string `yaml:"prefer,omitempty"`
}

type kindDoc struct {
	Name        string     `yaml:"name"`
	Description string     `yaml:"description,omitempty"`
	Params      []string   `yaml:"params,omitempty"`
	Instances   [][]string `yaml:"instances,omitempty"`
	Parents     []string   `yaml:"parents,omitempty"`
	Requires    []string   `yaml:"requires,omitempty"`
	Laws        []string   `yaml:"laws,omitempty"`
	Transforms  []string   `yaml:"transforms,omitempty"`
}

// LoadFile reads and validates a catalog from a file.
func LoadFile(fs afero.Fs, filename string) (*Catalog, error) {
	data, err := afero.ReadFile(fs, filename)
	if err != nil {
		return nil, errwrap.Wrapf(err, "can't read catalog")
	}
	c, err := Parse(data)
	if err != nil {
		return nil, errwrap.Wrapf(err, "invalid catalog %s", filename)
	}
	return c, nil
}

// Parse builds and validates a catalog from its yaml representation. Unknown
// fields are an error. All of the problems that are found at one stage are
// reported together.
func Parse(data []byte) (*Catalog, error) {
	doc := &document{}
	if err := yaml.UnmarshalStrict(data, doc); err != nil {
		return nil, errwrap.Wrapf(err, "can't parse catalog")
	}
	return build(doc)
}

func build(doc *document) (*Catalog, error) {
	obj := &Catalog{
		operators:     make(map[string]*Operator),
		operatorOrder: []*Operator{},
		kinds:         make(map[string]*StructureKind),
		order:         []*StructureKind{},
		equality: map[string]*EqualityPolicy{
			EqualityExact: {Mode: EqualityExact},
		},
	}

	var reterr error
	for category, policy := range doc.Equality {
		if policy == nil {
			policy = &EqualityPolicy{Mode: EqualityExact}
		}
		if err := policy.Validate(); err != nil {
			reterr = errwrap.Append(reterr, errwrap.Wrapf(err, "invalid equality category %s", category))
			continue
		}
		obj.equality[category] = policy
	}

	for _, x := range doc.Operators {
		op, err := x.build()
		if err != nil {
			reterr = errwrap.Append(reterr, err)
			continue
		}
		if _, exists := obj.operators[op.Name]; exists {
			reterr = errwrap.Append(reterr, fmt.Errorf("duplicate operator: %s", op.Name))
			continue
		}
		obj.operators[op.Name] = op
		obj.operatorOrder = append(obj.operatorOrder, op)
	}
	for _, op := range obj.operatorOrder {
		if op.Excludes == nil {
			continue
		}
		if _, err := obj.role(*op.Excludes); err != nil {
			reterr = errwrap.Append(reterr, errwrap.Wrapf(err, "operator %s excludes an invalid element", op.Name))
		}
	}
	if reterr != nil {
		return nil, reterr // the kinds can't be expanded
	}

	declared := []*StructureKind{}
	for _, x := range doc.Kinds {
		kinds, err := obj.expand(x)
		if err != nil {
			reterr = errwrap.Append(reterr, err)
			continue
		}
		for _, kind := range kinds {
			if _, exists := obj.kinds[kind.Name]; exists {
				reterr = errwrap.Append(reterr, errwrap.Wrapf(ErrDuplicateKind, "kind %s", kind.Name))
				continue
			}
			obj.kinds[kind.Name] = kind
			declared = append(declared, kind)
		}
	}
	if reterr != nil {
		return nil, reterr
	}

	g, err := pgraph.NewGraph("catalog")
	if err != nil {
		return nil, err
	}
	for _, kind := range declared {
		g.AddVertex(kind)
	}
	for _, kind := range declared {
		for _, name := range kind.Parents {
			parent, exists := obj.kinds[name]
			if !exists {
				reterr = errwrap.Append(reterr, errwrap.Wrapf(ErrDanglingParent, "kind %s has parent %s", kind.Name, name))
				continue
			}
			g.AddEdge(parent, kind, &pgraph.SimpleEdge{Name: "parent"})
		}
	}
	if reterr != nil {
		return nil, reterr
	}
	obj.graph = g

	sorted, err := g.TopologicalSort()
	if err != nil {
		cycle := pgraph.CycleString(g.FindCycle())
		return nil, errwrap.Wrapf(ErrCatalogCycle, "found %s", cycle)
	}
	for _, v := range sorted {
		obj.order = append(obj.order, v.(*StructureKind))
	}

	if err := obj.check(); err != nil {
		return nil, err
	}
	return obj, nil
}

func (obj *operatorDoc) build() (*Operator, error) {
	if obj.Name == "" {
		return nil, fmt.Errorf("operator with an empty name")
	}
	if strings.ContainsAny(obj.Name, "<>(),. ") {
		return nil, fmt.Errorf("operator %s has an invalid name", obj.Name)
	}
	op := &Operator{
		Name:    obj.Name,
		Generic: obj.Generic,
		Roles:   make(map[string]*Role),
	}
	switch obj.Carrier {
	case "", "T":
		op.Carrier = types.KindElem
	case "S":
		op.Carrier = types.KindScalar
	default:
		return nil, fmt.Errorf("operator %s has an invalid carrier: %s", obj.Name, obj.Carrier)
	}
	if obj.Excludes != "" {
		ref, err := parseRoleRef(obj.Excludes)
		if err != nil {
			return nil, errwrap.Wrapf(err, "operator %s", obj.Name)
		}
		op.Excludes = &ref
	}
	if len(obj.Roles) == 0 {
		return nil, fmt.Errorf("operator %s has no roles", obj.Name)
	}
	for name, x := range obj.Roles {
		if x == nil {
			return nil, fmt.Errorf("operator %s has an empty role %s", obj.Name, name)
		}
		typ := types.NewType(x.Type)
		if typ == nil || typ.Kind != types.KindFunc {
			return nil, fmt.Errorf("operator %s role %s has an invalid type: %s", obj.Name, name, x.Type)
		}
		names := x.Names
		if len(names) == 0 {
			names = []string{name}
		}
		for _, p := range x.Prefer {
			if !util.StrInList(p, names) {
				return nil, fmt.Errorf("operator %s role %s prefers unknown name %s", obj.Name, name, p)
			}
		}
		op.Roles[name] = &Role{
			Name:   name,
			Type:   typ,
			Names:  names,
			Prefer: x.Prefer,
		}
	}
	return op, nil
}

// role returns the role that the reference points to.
func (obj *Catalog) role(ref RoleRef) (*Role, error) {
	op, exists := obj.operators[ref.Operator]
	if !exists {
		return nil, errwrap.Wrapf(ErrInconsistentKind, "unknown operator %s", ref.Operator)
	}
	role, exists := op.Roles[ref.Role]
	if !exists {
		return nil, errwrap.Wrapf(ErrInconsistentKind, "operator %s has no role %s", ref.Operator, ref.Role)
	}
	return role, nil
}

// expand instantiates a kind template once for each of its instances.
func (obj *Catalog) expand(x *kindDoc) ([]*StructureKind, error) {
	if x.Name == "" {
		return nil, fmt.Errorf("kind with an empty name")
	}
	instances := x.Instances
	if len(x.Params) == 0 {
		if len(instances) > 0 {
			return nil, fmt.Errorf("kind %s has instances but no params", x.Name)
		}
		instances = [][]string{{}}
	}
	if len(x.Params) > 0 && len(instances) == 0 {
		if len(x.Params) > 1 {
			return nil, fmt.Errorf("kind %s needs explicit instances", x.Name)
		}
		for _, op := range obj.operatorOrder {
			if op.Generic {
				instances = append(instances, []string{op.Name})
			}
		}
	}

	kinds := []*StructureKind{}
	var reterr error
	for _, inst := range instances {
		kind, err := obj.instantiate(x, inst)
		if err != nil {
			reterr = errwrap.Append(reterr, err)
			continue
		}
		kinds = append(kinds, kind)
	}
	return kinds, reterr
}

func (obj *Catalog) instantiate(x *kindDoc, inst []string) (*StructureKind, error) {
	if len(inst) != len(x.Params) {
		return nil, fmt.Errorf("kind %s has %d params but an instance has %d operators", x.Name, len(x.Params), len(inst))
	}
	binding := make(map[string]string)
	for i, param := range x.Params {
		if _, exists := obj.operators[inst[i]]; !exists {
			return nil, errwrap.Wrapf(ErrInconsistentKind, "kind %s is instantiated with unknown operator %s", x.Name, inst[i])
		}
		binding[param] = inst[i]
	}
	subst := func(s string) string {
		if op, exists := binding[s]; exists {
			return op
		}
		return s
	}

	kind := &StructureKind{
		Name:        x.Name,
		Template:    x.Name,
		Operators:   inst,
		Description: x.Description,
		Parents:     []string{},
		Requires:    []*Requirement{},
		Laws:        []*LawRef{},
		Transforms:  []*Transform{},
	}
	if len(inst) > 0 {
		kind.Name = fmt.Sprintf("%s<%s>", x.Name, strings.Join(inst, ", "))
	}

	for _, s := range x.Parents {
		template, args, err := parseCall(s, '<', '>')
		if err != nil {
			return nil, errwrap.Wrapf(err, "kind %s has an invalid parent", kind.Name)
		}
		name := template
		if len(args) > 0 {
			for i := range args {
				args[i] = subst(args[i])
			}
			name = fmt.Sprintf("%s<%s>", template, strings.Join(args, ", "))
		}
		kind.Parents = append(kind.Parents, name)
	}

	for _, s := range x.Requires {
		ref, err := parseRoleRef(s)
		if err != nil {
			return nil, errwrap.Wrapf(err, "kind %s", kind.Name)
		}
		ref.Operator = subst(ref.Operator)
		role, err := obj.role(ref)
		if err != nil {
			return nil, errwrap.Wrapf(err, "kind %s requires %s", kind.Name, s)
		}
		kind.Requires = append(kind.Requires, &Requirement{
			Operator: ref.Operator,
			Role:     role,
		})
	}

	for _, s := range x.Laws {
		name, args, err := parseCall(s, '(', ')')
		if err != nil {
			return nil, errwrap.Wrapf(err, "kind %s has an invalid law", kind.Name)
		}
		law, err := laws.Lookup(name)
		if err != nil {
			return nil, errwrap.Wrapf(ErrInconsistentKind, "kind %s: %s", kind.Name, err.Error())
		}
		if len(args) != law.Params {
			return nil, errwrap.Wrapf(ErrInconsistentKind, "kind %s law %s needs %d operators", kind.Name, name, law.Params)
		}
		for i := range args {
			args[i] = subst(args[i])
			if _, exists := obj.operators[args[i]]; !exists {
				return nil, errwrap.Wrapf(ErrInconsistentKind, "kind %s law %s has unknown operator %s", kind.Name, name, args[i])
			}
		}
		kind.Laws = append(kind.Laws, &LawRef{
			Law:       law,
			Operators: args,
		})
	}

	for _, s := range x.Transforms {
		t, err := parseTransform(s)
		if err != nil {
			return nil, errwrap.Wrapf(err, "kind %s", kind.Name)
		}
		t.Target.Operator = subst(t.Target.Operator)
		t.Source = subst(t.Source)
		if _, err := obj.role(t.Target); err != nil {
			return nil, errwrap.Wrapf(err, "kind %s transform %s", kind.Name, s)
		}
		if t.Target.Operator != t.Source {
			return nil, errwrap.Wrapf(ErrInconsistentKind, "kind %s transform %s must use its own operator", kind.Name, s)
		}
		kind.Transforms = append(kind.Transforms, t)
	}

	return kind, nil
}

// parseCall splits `name<a, b>` or `name(a, b)` into the name and arguments. A
// name without any brackets has no arguments.
func parseCall(s string, open, close byte) (string, []string, error) {
	s = strings.TrimSpace(s)
	i := strings.IndexByte(s, open)
	if i < 0 {
		if s == "" || strings.IndexByte(s, close) >= 0 {
			return "", nil, fmt.Errorf("invalid reference: `%s`", s)
		}
		return s, nil, nil
	}
	if i == 0 || s[len(s)-1] != close {
		return "", nil, fmt.Errorf("invalid reference: `%s`", s)
	}
	args := util.SplitArgs(s[i+1 : len(s)-1])
	if len(args) == 0 {
		return "", nil, fmt.Errorf("empty arguments: `%s`", s)
	}
	for _, a := range args {
		if a == "" {
			return "", nil, fmt.Errorf("empty argument: `%s`", s)
		}
	}
	return strings.TrimSpace(s[:i]), args, nil
}

// parseRoleRef parses `Operator.role`.
func parseRoleRef(s string) (RoleRef, error) {
	parts := strings.Split(strings.TrimSpace(s), ".")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return RoleRef{}, errwrap.Wrapf(ErrInconsistentKind, "invalid role reference: `%s`", s)
	}
	return RoleRef{Operator: parts[0], Role: parts[1]}, nil
}

// parseTransform parses `Operator.role = method(Operator)`.
func parseTransform(s string) (*Transform, error) {
	lhs, rhs, found := strings.Cut(s, "=")
	if !found {
		return nil, errwrap.Wrapf(ErrInconsistentKind, "invalid transform: `%s`", s)
	}
	target, err := parseRoleRef(lhs)
	if err != nil {
		return nil, err
	}
	method, args, err := parseCall(rhs, '(', ')')
	if err != nil {
		return nil, errwrap.Wrapf(ErrInconsistentKind, "invalid transform: `%s`", s)
	}
	if method != TransformComposeInverse {
		return nil, errwrap.Wrapf(ErrInconsistentKind, "unknown transform method: %s", method)
	}
	if len(args) != 1 {
		return nil, errwrap.Wrapf(ErrInconsistentKind, "transform %s needs one operator", method)
	}
	return &Transform{
		Target: target,
		Method: method,
		Source: args[0],
	}, nil
}
