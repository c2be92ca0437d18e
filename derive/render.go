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

package derive

import (
	"bytes"
	_ "embed" // for go:embed
	"fmt"
	"go/format"
	"regexp"
	"sort"
	"strings"
	"text/template"

	"github.com/purpleidea/alga/interfaces"
	"github.com/purpleidea/alga/types"
	"github.com/purpleidea/alga/util/errwrap"

	"github.com/iancoleman/strcase"
)

//go:embed render.tpl
var renderTemplate string

var nonIdent = regexp.MustCompile(`[^A-Za-z0-9]+`)

// RenderOptions control the generated source.
type RenderOptions struct {
	// Package is the name of the generated package.
	Package string

	// Imports are added verbatim. They should provide the packages that
	// the operation symbols refer to.
	Imports []string

	// Local is the package of the operation symbols when the generated
	// code is part of that same package. Its qualifier is dropped.
	Local string
}

type renderFile struct {
	Package string
	Imports []string
	Name    string
	Types   []*renderType
}

type renderType struct {
	Ident   string
	Kind    string
	Embeds  []string
	Methods []*renderMethod
}

type renderMethod struct {
	Receiver string
	Name     string
	Doc      string
	Params   string
	Args     string
	Result   string
	Body     string
}

// promoted is a method in the method set of a capability type, at the depth of
// the shallowest embedding that has it.
type promoted struct {
	depth  int
	count  int // more than one at the same depth is an ambiguous selector
	method *renderMethod
	via    string // the embedded capability that leads to it
}

// promote returns the method set of a type with these own methods that embeds
// the capability types in embeds, following the golang selector rules.
func promote(own []*renderMethod, embeds []string, sets map[string]map[string]*promoted) (map[string]*promoted, error) {
	out := make(map[string]*promoted)
	for _, m := range own {
		out[m.Name] = &promoted{count: 1, method: m}
	}
	for _, e := range embeds {
		set, exists := sets[e]
		if !exists {
			return nil, fmt.Errorf("parent %s is not rendered yet", e)
		}
		for name, p := range set {
			depth := p.depth + 1
			cur, exists := out[name]
			if !exists || depth < cur.depth {
				out[name] = &promoted{
					depth:  depth,
					count:  p.count,
					method: p.method,
					via:    e,
				}
				continue
			}
			if depth == cur.depth {
				cur.count += p.count
			}
		}
	}
	return out, nil
}

// Ident returns the golang identifier of the capability type.
func (obj *Derivation) Ident(c *Capability) string {
	name := c.Kind.Template + strings.Join(c.Kind.Operators, "")
	return strcase.ToCamel(nonIdent.ReplaceAllString(obj.Candidate.Name, "_")) + strcase.ToCamel(name)
}

// MethodName returns the golang method name of a binding.
func MethodName(b *Binding) string {
	return strcase.ToCamel(b.Ref.Operator) + strcase.ToCamel(b.Ref.Role)
}

// Render returns golang source code with one struct type per capability. Each
// struct embeds the structs of its parents and gets one method per own
// binding, so that no operation is implemented twice. A method that two
// parents both lead to at the same depth would be an ambiguous selector, so
// the struct gets a method which forwards it through the first parent.
func Render(derivation *Derivation, opts *RenderOptions) (string, error) {
	if opts == nil {
		opts = &RenderOptions{}
	}
	pkg := opts.Package
	if pkg == "" {
		pkg = "main"
	}
	file := &renderFile{
		Package: pkg,
		Imports: opts.Imports,
		Name:    derivation.Candidate.Name,
		Types:   []*renderType{},
	}

	sets := make(map[string]map[string]*promoted) // method sets by ident
	for _, c := range derivation.Capabilities {
		rt := &renderType{
			Ident:   derivation.Ident(c),
			Kind:    c.Kind.Name,
			Embeds:  []string{},
			Methods: []*renderMethod{},
		}
		for _, p := range c.Parents {
			rt.Embeds = append(rt.Embeds, derivation.Ident(p))
		}
		for _, b := range c.Bindings {
			m, err := derivation.method(rt.Ident, b, opts.Local)
			if err != nil {
				return "", errwrap.Wrapf(err, "can't render %s", b)
			}
			rt.Methods = append(rt.Methods, m)
		}

		set, err := promote(rt.Methods, rt.Embeds, sets)
		if err != nil {
			return "", errwrap.Wrapf(err, "can't render %s", c)
		}
		ambiguous := []string{}
		for name, p := range set {
			if p.count > 1 {
				ambiguous = append(ambiguous, name)
			}
		}
		sort.Strings(ambiguous)
		for _, name := range ambiguous {
			p := set[name]
			rt.Methods = append(rt.Methods, &renderMethod{
				Receiver: "obj " + rt.Ident,
				Name:     name,
				Doc:      fmt.Sprintf("resolves to the %s capability.", p.via),
				Params:   p.method.Params,
				Args:     p.method.Args,
				Result:   p.method.Result,
				Body:     fmt.Sprintf("\treturn obj.%s.%s(%s)", p.via, name, p.method.Args),
			})
			p.depth, p.count = 0, 1
		}
		sets[rt.Ident] = set
		file.Types = append(file.Types, rt)
	}

	t, err := template.New("render").Parse(renderTemplate)
	if err != nil {
		return "", errwrap.Wrapf(err, "invalid template")
	}
	buf := &bytes.Buffer{}
	if err := t.Execute(buf, file); err != nil {
		return "", errwrap.Wrapf(err, "can't execute template")
	}
	out, err := format.Source(buf.Bytes())
	if err != nil {
		return "", errwrap.Wrapf(err, "generated invalid source")
	}
	return string(out), nil
}

// golang returns the golang name of a signature type.
func (obj *Derivation) golang(typ *types.Type) (string, error) {
	switch typ.Kind {
	case types.KindElem:
		return obj.Candidate.GoElem, nil
	case types.KindScalar:
		if obj.Candidate.GoScalar == "" {
			return "", fmt.Errorf("no scalar type")
		}
		return obj.Candidate.GoScalar, nil
	case types.KindBool:
		return "bool", nil
	case types.KindOther:
		return typ.Name, nil
	}
	return "", fmt.Errorf("can't render type %s", typ)
}

// symbol returns the expression of an operation symbol in the generated file.
func symbol(op *interfaces.Operation, local string) string {
	if local == "" {
		return op.Symbol
	}
	return strings.TrimPrefix(op.Symbol, local+".")
}

func (obj *Derivation) method(ident string, b *Binding, local string) (*renderMethod, error) {
	op := b.Operation
	if b.Synthesized() {
		op = b.Sources[0].Operation // operate has the signature
	}
	if op == nil {
		return nil, fmt.Errorf("no operation")
	}
	args := []string{}
	params := []string{}
	for i, a := range op.Type.Args {
		s, err := obj.golang(a)
		if err != nil {
			return nil, err
		}
		name := string(rune('a' + i))
		args = append(args, name)
		params = append(params, fmt.Sprintf("%s %s", name, s))
	}
	out, err := obj.golang(op.Type.Out)
	if err != nil {
		return nil, err
	}

	m := &renderMethod{
		Receiver: ident,
		Name:     MethodName(b),
		Params:   strings.Join(params, ", "),
		Args:     strings.Join(args, ", "),
		Result:   out,
	}

	if !b.Synthesized() {
		if op.Symbol == "" {
			return nil, fmt.Errorf("operation %s has no symbol", op.Name)
		}
		if op.Fallible {
			m.Result = fmt.Sprintf("(%s, error)", out)
		}
		m.Doc = fmt.Sprintf("forwards to %s.", op.Symbol)
		m.Body = fmt.Sprintf("\treturn %s(%s)", symbol(op, local), m.Args)
		return m, nil
	}

	// compose_inverse is the only transform
	operate, inverse := b.Sources[0].Operation, b.Sources[1].Operation
	if operate == nil || inverse == nil || operate.Symbol == "" || inverse.Symbol == "" {
		return nil, fmt.Errorf("transform %s has an unrenderable source", b.Transform)
	}
	m.Doc = fmt.Sprintf("is synthesized as %s(a, %s(b)).", operate.Symbol, inverse.Symbol)
	opSym, invSym := symbol(operate, local), symbol(inverse, local)
	if !operate.Fallible && !inverse.Fallible {
		m.Body = fmt.Sprintf("\treturn %s(a, %s(b))", opSym, invSym)
		return m, nil
	}
	m.Result = fmt.Sprintf("(r %s, err error)", out)
	if !inverse.Fallible {
		m.Body = fmt.Sprintf("\treturn %s(a, %s(b))", opSym, invSym)
		return m, nil
	}
	lines := []string{
		fmt.Sprintf("\tinv, err := %s(b)", invSym),
		"\tif err != nil {",
		"\t\treturn r, err",
		"\t}",
	}
	if operate.Fallible {
		lines = append(lines, fmt.Sprintf("\treturn %s(a, inv)", opSym))
	} else {
		lines = append(lines, fmt.Sprintf("\treturn %s(a, inv), nil", opSym))
	}
	m.Body = strings.Join(lines, "\n")
	return m, nil
}
