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

//go:build !root

package derive

import (
	"errors"
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"go/types"
	"strings"
	"testing"

	"github.com/purpleidea/alga/catalog"
	"github.com/purpleidea/alga/extract"
	"github.com/purpleidea/alga/gen"
	"github.com/purpleidea/alga/interfaces"
	"github.com/purpleidea/alga/resolver"
)

func add64(a, b int64) int64  { return a + b }
func plus64(a, b int64) int64 { return a + b }
func zero64() int64           { return 0 }
func neg64(a int64) int64     { return -a }
func sub64(a, b int64) int64  { return a - b }
func mul64(a, b int64) int64  { return a * b }
func one64() int64            { return 1 }

func combine64(a, b int64) int64 { return a + b }
func invert64(a int64) int64     { return a }

func recip64(a int64) (int64, error) {
	if a != 1 && a != -1 {
		return 0, fmt.Errorf("no inverse of %d", a)
	}
	return a, nil
}

func derive(t *testing.T, funcs map[string]interface{}) (*Derivation, error) {
	t.Helper()
	c, err := catalog.Default()
	if err != nil {
		t.Fatalf("default catalog is invalid: %+v", err)
	}
	candidate, err := extract.Extract(&interfaces.Description{
		Name:  "int64",
		Elem:  int64(0),
		Funcs: funcs,
	})
	if err != nil {
		t.Fatalf("extract failed: %+v", err)
	}
	reg := gen.NewRegistry()
	if err := gen.RegisterBuiltin(reg); err != nil {
		t.Fatalf("can't register generators: %+v", err)
	}
	r := &resolver.Resolver{
		Catalog:    c,
		Generators: reg,
	}
	resolution, err := r.Resolve(candidate)
	if err != nil {
		t.Fatalf("resolve failed: %+v", err)
	}
	s := &Synthesizer{
		Catalog: c,
		Debug:   testing.Verbose(),
		Logf: func(format string, v ...interface{}) {
			t.Logf("derive: "+format, v...)
		},
	}
	return s.Synthesize(candidate, resolution)
}

var ring = map[string]interface{}{
	"add":  add64,
	"zero": zero64,
	"neg":  neg64,
	"mul":  mul64,
	"one":  one64,
}

func TestSynthesize0(t *testing.T) {
	d, err := derive(t, ring)
	if err != nil {
		t.Errorf("synthesize failed: %+v", err)
		return
	}
	if d.ID == "" {
		t.Errorf("expected an id")
	}
	group, ok := d.Lookup("GroupAbelian<Additive>")
	if !ok {
		t.Errorf("expected GroupAbelian<Additive>")
		return
	}
	if len(group.Bindings) != 0 {
		t.Errorf("GroupAbelian<Additive> should not bind anything itself")
	}

	// forwarded from the magma
	b, ok := group.Lookup(catalog.RoleRef{Operator: "Additive", Role: "operate"})
	if !ok || b.Synthesized() || b.Operation.Name != "add" {
		t.Errorf("unexpected binding: %v", b)
		return
	}
	if out, err := b.Fn(int64(3), int64(4)); err != nil || out != int64(7) {
		t.Errorf("unexpected result: %v, %+v", out, err)
	}
	magma, _ := d.Lookup("Magma<Additive>")
	if len(magma.Forwarded()) != 1 || magma.Forwarded()[0] != b {
		t.Errorf("expected the magma to own the binding")
	}

	// synthesized at the group
	b, ok = group.Lookup(catalog.RoleRef{Operator: "Additive", Role: "difference"})
	if !ok || !b.Synthesized() {
		t.Errorf("expected a synthesized difference: %v", b)
		return
	}
	if out, err := b.Fn(int64(10), int64(3)); err != nil || out != int64(7) {
		t.Errorf("unexpected result: %v, %+v", out, err)
	}
	if _, err := b.Fn(int64(10)); err == nil {
		t.Errorf("expected a missing operand to fail")
	}
	g, _ := d.Lookup("Group<Additive>")
	if len(g.Synthesized()) != 1 {
		t.Errorf("expected one synthesized binding")
	}
}

func TestDeclaredDifference0(t *testing.T) {
	funcs := map[string]interface{}{}
	for k, v := range ring {
		funcs[k] = v
	}
	funcs["sub"] = sub64
	d, err := derive(t, funcs)
	if err != nil {
		t.Errorf("synthesize failed: %+v", err)
		return
	}
	g, _ := d.Lookup("Group<Additive>")
	if len(g.Synthesized()) != 0 {
		t.Errorf("a declared operation must be forwarded")
	}
	b, ok := g.Lookup(catalog.RoleRef{Operator: "Additive", Role: "difference"})
	if !ok || b.Operation == nil || b.Operation.Name != "sub" {
		t.Errorf("unexpected binding: %v", b)
	}
}

// TestNoDuplication0 checks that no capability binds what an ancestor binds.
func TestNoDuplication0(t *testing.T) {
	d, err := derive(t, ring)
	if err != nil {
		t.Errorf("synthesize failed: %+v", err)
		return
	}
	c, _ := catalog.Default()
	for _, capability := range d.Capabilities {
		for _, a := range c.Ancestors(capability.Kind) {
			ancestor, ok := d.Lookup(a.Name)
			if !ok {
				t.Errorf("capability %s is missing ancestor %s", capability, a)
				continue
			}
			for _, b := range capability.Bindings {
				for _, x := range ancestor.Bindings {
					if b.Ref == x.Ref {
						t.Errorf("capability %s rebinds %s of %s", capability, b.Ref, ancestor)
					}
				}
			}
		}
	}
}

func TestAmbiguous0(t *testing.T) {
	_, err := derive(t, map[string]interface{}{
		"combine": add64,
		"op":      plus64,
	})
	if !errors.Is(err, interfaces.ErrAmbiguousDerivation) {
		t.Errorf("expected an ambiguous derivation, got: %+v", err)
	}
}

func TestPrefer0(t *testing.T) {
	d, err := derive(t, map[string]interface{}{
		"add":  add64,
		"plus": plus64,
	})
	if err != nil {
		t.Errorf("synthesize failed: %+v", err)
		return
	}
	magma, _ := d.Lookup("Magma<Additive>")
	if b := magma.Bindings[0]; b.Operation.Name != "add" {
		t.Errorf("expected the preferred name, got: %s", b)
	}
}

func TestEmpty0(t *testing.T) {
	d, err := derive(t, nil)
	if err != nil {
		t.Errorf("synthesize failed: %+v", err)
		return
	}
	if len(d.Capabilities) != 0 {
		t.Errorf("expected no capabilities, got: %v", d.Names())
	}
}

func TestRender0(t *testing.T) {
	d, err := derive(t, ring)
	if err != nil {
		t.Errorf("synthesize failed: %+v", err)
		return
	}
	out, err := Render(d, &RenderOptions{Package: "example"})
	if err != nil {
		t.Errorf("render failed: %+v", err)
		return
	}
	if _, err := parser.ParseFile(token.NewFileSet(), "example.go", out, 0); err != nil {
		t.Errorf("rendered invalid source: %+v\n%s", err, out)
		return
	}
	for _, s := range []string{
		"package example",
		"type Int64GroupAdditive struct {",
		"\tInt64LoopAdditive\n",
		"func (Int64MagmaAdditive) AdditiveOperate(a int64, b int64) int64 {",
		"return derive.add64(a, b)",
		"return derive.add64(a, derive.neg64(b))",
		"func (obj Int64GroupAdditive) AdditiveIdentity() int64 {",
		"return obj.Int64LoopAdditive.AdditiveIdentity()",
	} {
		if !strings.Contains(out, s) {
			t.Errorf("missing %q in:\n%s", s, out)
		}
	}
}

func TestRenderFallible0(t *testing.T) {
	d, err := derive(t, map[string]interface{}{
		"mul":   mul64,
		"one":   one64,
		"recip": recip64,
	})
	if err != nil {
		t.Errorf("synthesize failed: %+v", err)
		return
	}
	out, err := Render(d, nil)
	if err != nil {
		t.Errorf("render failed: %+v", err)
		return
	}
	if _, err := parser.ParseFile(token.NewFileSet(), "main.go", out, 0); err != nil {
		t.Errorf("rendered invalid source: %+v\n%s", err, out)
		return
	}
	for _, s := range []string{
		"MultiplicativeInverse(a int64) (int64, error) {",
		"MultiplicativeDifference(a int64, b int64) (r int64, err error) {",
		"inv, err := derive.recip64(b)",
	} {
		if !strings.Contains(out, s) {
			t.Errorf("missing %q in:\n%s", s, out)
		}
	}
}

// stubs are the operations of the tests, as seen from a rendered file that is
// part of this package.
var stubs = `package derive

func add64(a, b int64) int64     { return a + b }
func zero64() int64              { return 0 }
func neg64(a int64) int64        { return -a }
func mul64(a, b int64) int64     { return a * b }
func one64() int64               { return 1 }
func combine64(a, b int64) int64 { return a + b }
func invert64(a int64) int64     { return a }

func recip64(a int64) (int64, error) { return a, nil }
`

// typecheck runs the golang type checker on a package made of these files.
func typecheck(files ...string) error {
	fset := token.NewFileSet()
	parsed := []*ast.File{}
	for i, src := range files {
		f, err := parser.ParseFile(fset, fmt.Sprintf("file%d.go", i), src, 0)
		if err != nil {
			return err
		}
		parsed = append(parsed, f)
	}
	config := &types.Config{}
	_, err := config.Check("derive", fset, parsed, nil)
	return err
}

func TestRenderTypecheck0(t *testing.T) {
	type test struct { // an individual test
		name  string
		funcs map[string]interface{}
		use   string
	}
	testCases := []test{}

	testCases = append(testCases, test{
		name:  "ring",
		funcs: ring,
		use: `package derive

func use() {
	var g Int64GroupAdditive
	_ = g.AdditiveOperate(g.AdditiveIdentity(), g.AdditiveInverse(1))
	_ = g.AdditiveDifference(1, 2)
	var a Int64GroupAbelianAdditive
	_ = a.AdditiveOperate(a.AdditiveIdentity(), 2)
	var r Int64RingCommutativeAdditiveMultiplicative
	_ = r.AdditiveOperate(r.MultiplicativeOperate(1, 2), r.MultiplicativeIdentity())
	_ = r.AdditiveDifference(r.AdditiveIdentity(), 1)
}
`,
	})
	testCases = append(testCases, test{
		name: "group",
		funcs: map[string]interface{}{
			"combine": combine64,
			"zero":    zero64,
			"invert":  invert64,
		},
		use: `package derive

func use() {
	var g Int64GroupAbstract
	_ = g.AbstractOperate(g.AbstractIdentity(), g.AbstractInverse(1))
	_ = g.AbstractDifference(1, 2)
}
`,
	})
	testCases = append(testCases, test{
		name: "fallible",
		funcs: map[string]interface{}{
			"mul":   mul64,
			"one":   one64,
			"recip": recip64,
		},
		use: `package derive

func use() error {
	var g Int64GroupMultiplicative
	_ = g.MultiplicativeOperate(g.MultiplicativeIdentity(), 2)
	_, err := g.MultiplicativeDifference(1, 1)
	return err
}
`,
	})

	for index, tc := range testCases { // run all the tests
		name, funcs, use := tc.name, tc.funcs, tc.use
		t.Run(fmt.Sprintf("test #%d (%s)", index, name), func(t *testing.T) {
			d, err := derive(t, funcs)
			if err != nil {
				t.Errorf("test #%d: FAIL", index)
				t.Errorf("test #%d: synthesize failed: %+v", index, err)
				return
			}
			out, err := Render(d, &RenderOptions{
				Package: "derive",
				Local:   "derive",
			})
			if err != nil {
				t.Errorf("test #%d: FAIL", index)
				t.Errorf("test #%d: render failed: %+v", index, err)
				return
			}
			if err := typecheck(stubs, out, use); err != nil {
				t.Errorf("test #%d: FAIL", index)
				t.Errorf("test #%d: type check failed: %+v\n%s", index, err, out)
			}
		})
	}
}
