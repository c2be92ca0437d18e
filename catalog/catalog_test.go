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

package catalog

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/purpleidea/alga/util"

	"github.com/davecgh/go-spew/spew"
	"github.com/kylelemons/godebug/pretty"
	"github.com/spf13/afero"
)

// operators is a small set of operators which the test catalogs share.
var operators = util.Code(`
	operators:
	  - name: Additive
	    generic: true
	    roles:
	      operate:
	        type: func(T, T) T
	        names: [add]
	      identity:
	        type: func() T
	        names: [zero]
	      inverse:
	        type: func(T) T
	        names: [neg]
	      difference:
	        type: func(T, T) T
	        names: [sub]
`)

func TestDefault0(t *testing.T) {
	c, err := Default()
	if err != nil {
		t.Errorf("default catalog is invalid: %+v", err)
		return
	}
	again, err := Default()
	if err != nil || again != c {
		t.Errorf("expected the same default catalog")
	}

	for _, name := range []string{
		"Magma<Abstract>",
		"Magma<Meet>",
		"Quasigroup<Additive>",
		"Group<Multiplicative>",
		"GroupAbelian<Additive>",
		"Lattice<Meet, Join>",
		"Ring<Additive, Multiplicative>",
		"Field<Additive, Multiplicative>",
		"VectorSpace<Additive, Scale, ScalarAdditive, ScalarMultiplicative>",
	} {
		if _, err := c.Lookup(name); err != nil {
			t.Errorf("kind %s is missing: %+v", name, err)
		}
	}
	for _, name := range []string{"Monoid<Meet>", "Magma<Scale>", "Group"} {
		if _, err := c.Lookup(name); err == nil {
			t.Errorf("kind %s should not exist", name)
		}
	}
}

func TestTopologicalOrder0(t *testing.T) {
	c, err := Default()
	if err != nil {
		t.Errorf("default catalog is invalid: %+v", err)
		return
	}
	position := make(map[string]int)
	for i, kind := range c.Kinds() {
		position[kind.Name] = i
	}
	for _, kind := range c.Kinds() {
		for _, p := range kind.Parents {
			if position[p] >= position[kind.Name] {
				t.Errorf("parent %s is not before %s", p, kind.Name)
			}
		}
	}
}

func TestAncestors0(t *testing.T) {
	c, err := Default()
	if err != nil {
		t.Errorf("default catalog is invalid: %+v", err)
		return
	}
	kind, err := c.Lookup("Group<Additive>")
	if err != nil {
		t.Errorf("lookup failed: %+v", err)
		return
	}
	names := []string{}
	for _, k := range c.Ancestors(kind) {
		names = append(names, k.Name)
	}
	// ties are broken by name as soon as a kind is ready
	expected := []string{
		"Magma<Additive>",
		"Quasigroup<Additive>",
		"Loop<Additive>",
		"Semigroup<Additive>",
		"Monoid<Additive>",
	}
	if diff := pretty.Compare(names, expected); diff != "" {
		t.Errorf("unexpected ancestors: %s", diff)
	}

	parents := []string{}
	for _, k := range c.Parents(kind) {
		parents = append(parents, k.Name)
	}
	if diff := pretty.Compare(parents, []string{"Loop<Additive>", "Monoid<Additive>"}); diff != "" {
		t.Errorf("unexpected parents: %s", diff)
	}
}

func TestAvailable0(t *testing.T) {
	c, err := Default()
	if err != nil {
		t.Errorf("default catalog is invalid: %+v", err)
		return
	}
	kind, err := c.Lookup("Group<Additive>")
	if err != nil {
		t.Errorf("lookup failed: %+v", err)
		return
	}
	available := c.Available(kind)
	for _, role := range []string{"operate", "identity", "inverse", "difference"} {
		if _, exists := available[RoleRef{"Additive", role}]; !exists {
			t.Errorf("role %s is not available", role)
		}
	}
	if _, exists := available[RoleRef{"Multiplicative", "operate"}]; exists {
		t.Errorf("unrelated role is available")
	}
}

func TestKindContents0(t *testing.T) {
	c, err := Default()
	if err != nil {
		t.Errorf("default catalog is invalid: %+v", err)
		return
	}
	kind, err := c.Lookup("Group<Multiplicative>")
	if err != nil {
		t.Errorf("lookup failed: %+v", err)
		return
	}
	if len(kind.Requires) != 0 {
		t.Errorf("unexpected requirements: %s", spew.Sdump(kind.Requires))
	}
	laws := []string{}
	for _, l := range kind.Laws {
		laws = append(laws, l.String())
	}
	if diff := pretty.Compare(laws, []string{"inverse(Multiplicative)", "difference(Multiplicative)"}); diff != "" {
		t.Errorf("unexpected laws: %s", diff)
	}
	if len(kind.Transforms) != 1 || kind.Transforms[0].String() != "Multiplicative.difference = compose_inverse(Multiplicative)" {
		t.Errorf("unexpected transforms: %s", spew.Sdump(kind.Transforms))
	}

	op, err := c.Operator("Multiplicative")
	if err != nil {
		t.Errorf("lookup failed: %+v", err)
		return
	}
	if op.Excludes == nil || op.Excludes.String() != "Additive.identity" {
		t.Errorf("unexpected excludes: %v", op.Excludes)
	}
	if s := op.Roles["operate"].Type.String(); s != "func(T, T) T" {
		t.Errorf("unexpected type: %s", s)
	}
}

func TestEquality0(t *testing.T) {
	c, err := Default()
	if err != nil {
		t.Errorf("default catalog is invalid: %+v", err)
		return
	}
	exact, err := c.Equality("")
	if err != nil || exact.Mode != EqualityExact {
		t.Errorf("unexpected default equality: %v, %+v", exact, err)
	}
	approx, err := c.Equality("float64")
	if err != nil || approx.Mode != EqualityApprox || approx.Fraction != 1e-9 {
		t.Errorf("unexpected float64 equality: %v, %+v", approx, err)
	}
	if category := c.Category("float64"); category != "float64" {
		t.Errorf("unexpected category of float64: %s", category)
	}
	if category := c.Category("int64"); category != DefaultCategory {
		t.Errorf("unexpected category of int64: %s", category)
	}
	if _, err := c.Equality("nope"); err == nil {
		t.Errorf("expected an unknown category to fail")
	}
}

func TestParse0(t *testing.T) {
	type test struct { // an individual test
		name string
		code string
		fail error // sentinel, or nil if anything goes
		pass bool
	}
	testCases := []test{}

	testCases = append(testCases, test{
		name: "simple",
		code: util.Code(`
			kinds:
			  - name: Magma
			    params: [O]
			    requires: [O.operate]
			  - name: Semigroup
			    params: [O]
			    parents: [Magma<O>]
			    laws: [associativity(O)]
			`),
		pass: true,
	})
	testCases = append(testCases, test{
		name: "self parent",
		code: util.Code(`
			kinds:
			  - name: Magma
			    parents: [Magma]
			`),
		fail: ErrCatalogCycle,
	})
	testCases = append(testCases, test{
		name: "longer cycle",
		code: util.Code(`
			kinds:
			  - name: A
			    parents: [C]
			  - name: B
			    parents: [A]
			  - name: C
			    parents: [B]
			`),
		fail: ErrCatalogCycle,
	})
	testCases = append(testCases, test{
		name: "duplicate kind",
		code: util.Code(`
			kinds:
			  - name: Magma
			    params: [O]
			    requires: [O.operate]
			  - name: Magma
			    params: [O]
			    requires: [O.operate]
			`),
		fail: ErrDuplicateKind,
	})
	testCases = append(testCases, test{
		name: "dangling parent",
		code: util.Code(`
			kinds:
			  - name: Semigroup
			    params: [O]
			    parents: [Magma<O>]
			`),
		fail: ErrDanglingParent,
	})
	testCases = append(testCases, test{
		name: "repeated requirement",
		code: util.Code(`
			kinds:
			  - name: Magma
			    params: [O]
			    requires: [O.operate]
			  - name: Semigroup
			    params: [O]
			    parents: [Magma<O>]
			    requires: [O.operate]
			`),
		fail: ErrInconsistentKind,
	})
	testCases = append(testCases, test{
		name: "law uses unavailable role",
		code: util.Code(`
			kinds:
			  - name: Magma
			    params: [O]
			    requires: [O.operate]
			    laws: [identity(O)]
			`),
		fail: ErrInconsistentKind,
	})
	testCases = append(testCases, test{
		name: "repeated law",
		code: util.Code(`
			kinds:
			  - name: Semigroup
			    params: [O]
			    requires: [O.operate]
			    laws: [associativity(O)]
			  - name: Twice
			    params: [O]
			    parents: [Semigroup<O>]
			    laws: [associativity(O)]
			`),
		fail: ErrInconsistentKind,
	})
	testCases = append(testCases, test{
		name: "unknown law",
		code: util.Code(`
			kinds:
			  - name: Magma
			    params: [O]
			    requires: [O.operate]
			    laws: [nope(O)]
			`),
		fail: ErrInconsistentKind,
	})
	testCases = append(testCases, test{
		name: "unknown operator",
		code: util.Code(`
			kinds:
			  - name: Magma
			    params: [O]
			    instances: [[Nope]]
			    requires: [O.operate]
			`),
		fail: ErrInconsistentKind,
	})
	testCases = append(testCases, test{
		name: "unknown role",
		code: util.Code(`
			kinds:
			  - name: Magma
			    params: [O]
			    requires: [O.nope]
			`),
		fail: ErrInconsistentKind,
	})
	testCases = append(testCases, test{
		name: "unknown field",
		code: util.Code(`
			kinds:
			  - name: Magma
			    parentz: [Nope]
			`),
	})
	testCases = append(testCases, test{
		name: "transform without inverse",
		code: util.Code(`
			kinds:
			  - name: Magma
			    params: [O]
			    requires: [O.operate]
			    transforms: ["O.difference = compose_inverse(O)"]
			`),
		fail: ErrInconsistentKind,
	})

	for index, tc := range testCases { // run all the tests
		name, code, fail, pass := tc.name, tc.code, tc.fail, tc.pass
		t.Run(fmt.Sprintf("test #%d (%s)", index, name), func(t *testing.T) {
			c, err := Parse([]byte(operators + code))
			if pass && err != nil {
				t.Errorf("test #%d: FAIL", index)
				t.Errorf("test #%d: parse failed: %+v", index, err)
				return
			}
			if pass {
				if n := len(c.Kinds()); n != 2 {
					t.Errorf("test #%d: expected 2 kinds, got: %d", index, n)
				}
				return
			}
			if err == nil {
				t.Errorf("test #%d: FAIL", index)
				t.Errorf("test #%d: parse passed, expected fail", index)
				return
			}
			if fail != nil && !errors.Is(err, fail) {
				t.Errorf("test #%d: FAIL", index)
				t.Errorf("test #%d: expected error %v, got: %+v", index, fail, err)
			}
		})
	}
}

func TestCycleMessage0(t *testing.T) {
	code := util.Code(`
		kinds:
		  - name: Magma
		    parents: [Magma]
		`)
	_, err := Parse([]byte(operators + code))
	if err == nil {
		t.Errorf("expected a cycle")
		return
	}
	if !strings.Contains(err.Error(), "Magma -> Magma") {
		t.Errorf("unexpected error message: %s", err.Error())
	}
}

func TestLoadFile0(t *testing.T) {
	fs := afero.NewMemMapFs()
	if err := afero.WriteFile(fs, "/catalog.yaml", DefaultData(), 0644); err != nil {
		t.Errorf("can't write file: %+v", err)
		return
	}
	c, err := LoadFile(fs, "/catalog.yaml")
	if err != nil {
		t.Errorf("can't load file: %+v", err)
		return
	}
	d, err := Default()
	if err != nil {
		t.Errorf("default catalog is invalid: %+v", err)
		return
	}
	if len(c.Kinds()) != len(d.Kinds()) {
		t.Errorf("expected the same number of kinds")
	}
	if _, err := LoadFile(fs, "/missing.yaml"); err == nil {
		t.Errorf("expected a missing file to fail")
	}
}

func TestGraphviz0(t *testing.T) {
	c, err := Default()
	if err != nil {
		t.Errorf("default catalog is invalid: %+v", err)
		return
	}
	out := c.Graphviz()
	if !strings.Contains(out, `"Monoid<Additive>" -> "Group<Additive>"`) {
		t.Errorf("missing edge in: %s", out)
	}
}

func TestToYAML0(t *testing.T) {
	d, err := Default()
	if err != nil {
		t.Errorf("default catalog is invalid: %+v", err)
		return
	}
	data, err := d.ToYAML()
	if err != nil {
		t.Errorf("can't dump: %+v", err)
		return
	}
	c, err := Parse(data)
	if err != nil {
		t.Errorf("dump does not parse: %+v", err)
		t.Logf("dump:\n%s", data)
		return
	}
	names := func(kinds []*StructureKind) []string {
		out := []string{}
		for _, kind := range kinds {
			out = append(out, kind.Name)
		}
		return out
	}
	if diff := pretty.Compare(names(d.Kinds()), names(c.Kinds())); diff != "" {
		t.Errorf("kinds differ after a round trip: %s", diff)
	}
	for _, kind := range d.Kinds() {
		x, err := c.Lookup(kind.Name)
		if err != nil {
			t.Errorf("missing kind %s", kind.Name)
			continue
		}
		if len(x.Requires) != len(kind.Requires) || len(x.Laws) != len(kind.Laws) || len(x.Transforms) != len(kind.Transforms) {
			t.Errorf("kind %s differs after a round trip", kind.Name)
		}
	}
}
