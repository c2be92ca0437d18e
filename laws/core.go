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

package laws

import (
	"github.com/purpleidea/alga/types"
)

var (
	elem   = types.KindElem
	scalar = types.KindScalar
)

func init() {
	Register(&Law{
		Name:     "associativity",
		Formula:  "(a ∘ b) ∘ c = a ∘ (b ∘ c)",
		Params:   1,
		Operands: []types.Kind{elem, elem, elem},
		Uses:     []Use{{0, RoleOperate}},
		Eval: func(env Env, args []interface{}) ([]*Equation, error) {
			c := &calc{env: env}
			a, b, d := args[0], args[1], args[2]
			return c.result(&Equation{
				Name:  "associativity",
				Left:  c.op(0, c.op(0, a, b), d),
				Right: c.op(0, a, c.op(0, b, d)),
			})
		},
	})

	Register(&Law{
		Name:     "commutativity",
		Formula:  "a ∘ b = b ∘ a",
		Params:   1,
		Operands: []types.Kind{elem, elem},
		Uses:     []Use{{0, RoleOperate}},
		Eval: func(env Env, args []interface{}) ([]*Equation, error) {
			c := &calc{env: env}
			a, b := args[0], args[1]
			return c.result(&Equation{
				Name:  "commutativity",
				Left:  c.op(0, a, b),
				Right: c.op(0, b, a),
			})
		},
	})

	Register(&Law{
		Name:     "identity",
		Formula:  "a ∘ e = a = e ∘ a",
		Params:   1,
		Operands: []types.Kind{elem},
		Uses:     []Use{{0, RoleOperate}, {0, RoleIdentity}},
		Eval: func(env Env, args []interface{}) ([]*Equation, error) {
			c := &calc{env: env}
			a := args[0]
			e := c.id(0)
			return c.result(
				&Equation{Name: "right identity", Left: c.op(0, a, e), Right: a},
				&Equation{Name: "left identity", Left: c.op(0, e, a), Right: a},
			)
		},
	})

	Register(&Law{
		Name:     "inverse",
		Formula:  "a ∘ a⁻¹ = e = a⁻¹ ∘ a",
		Params:   1,
		Operands: []types.Kind{elem},
		Uses:     []Use{{0, RoleOperate}, {0, RoleIdentity}, {0, RoleInverse}},
		Nonzero:  []Guard{{Position: 0, Param: 0}},
		Eval: func(env Env, args []interface{}) ([]*Equation, error) {
			c := &calc{env: env}
			a := args[0]
			e := c.id(0)
			i := c.inv(0, a)
			return c.result(
				&Equation{Name: "right inverse", Left: c.op(0, a, i), Right: e},
				&Equation{Name: "left inverse", Left: c.op(0, i, a), Right: e},
			)
		},
	})

	// This is the divisibility property: the equations a ∘ x = b and
	// y ∘ a = b always have a solution, which the inverse computes.
	Register(&Law{
		Name:     "latin_square",
		Formula:  "(a ∘ b⁻¹) ∘ b = a = a ∘ (b⁻¹ ∘ b)",
		Params:   1,
		Operands: []types.Kind{elem, elem},
		Uses:     []Use{{0, RoleOperate}, {0, RoleInverse}},
		Nonzero:  []Guard{{Position: 1, Param: 0}},
		Eval: func(env Env, args []interface{}) ([]*Equation, error) {
			c := &calc{env: env}
			a, b := args[0], args[1]
			i := c.inv(0, b)
			return c.result(
				&Equation{Name: "right division", Left: c.op(0, c.op(0, a, i), b), Right: a},
				&Equation{Name: "left division", Left: c.op(0, a, c.op(0, i, b)), Right: a},
			)
		},
	})

	Register(&Law{
		Name:     "difference",
		Formula:  "a / b = a ∘ b⁻¹",
		Params:   1,
		Operands: []types.Kind{elem, elem},
		Uses:     []Use{{0, RoleOperate}, {0, RoleInverse}, {0, RoleDifference}},
		Nonzero:  []Guard{{Position: 1, Param: 0}},
		Eval: func(env Env, args []interface{}) ([]*Equation, error) {
			c := &calc{env: env}
			a, b := args[0], args[1]
			return c.result(&Equation{
				Name:  "difference",
				Left:  c.call(0, RoleDifference, a, b),
				Right: c.op(0, a, c.inv(0, b)),
			})
		},
	})

	Register(&Law{
		Name:     "idempotence",
		Formula:  "a ∘ a = a",
		Params:   1,
		Operands: []types.Kind{elem},
		Uses:     []Use{{0, RoleOperate}},
		Eval: func(env Env, args []interface{}) ([]*Equation, error) {
			c := &calc{env: env}
			a := args[0]
			return c.result(&Equation{Name: "idempotence", Left: c.op(0, a, a), Right: a})
		},
	})

	// Parameters: 0 is the meet and 1 is the join.
	Register(&Law{
		Name:     "absorption",
		Formula:  "a ∧ (a ∨ b) = a = a ∨ (a ∧ b)",
		Params:   2,
		Operands: []types.Kind{elem, elem},
		Uses:     []Use{{0, RoleOperate}, {1, RoleOperate}},
		Eval: func(env Env, args []interface{}) ([]*Equation, error) {
			c := &calc{env: env}
			a, b := args[0], args[1]
			return c.result(
				&Equation{Name: "meet absorbs join", Left: c.op(0, a, c.op(1, a, b)), Right: a},
				&Equation{Name: "join absorbs meet", Left: c.op(1, a, c.op(0, a, b)), Right: a},
			)
		},
	})

	// Parameters: 0 is the addition and 1 is the multiplication.
	Register(&Law{
		Name:     "distributivity",
		Formula:  "a * (b + c) = a * b + a * c, (b + c) * a = b * a + c * a",
		Params:   2,
		Operands: []types.Kind{elem, elem, elem},
		Uses:     []Use{{0, RoleOperate}, {1, RoleOperate}},
		Eval: func(env Env, args []interface{}) ([]*Equation, error) {
			c := &calc{env: env}
			a, b, d := args[0], args[1], args[2]
			return c.result(
				&Equation{
					Name:  "left distributivity",
					Left:  c.op(1, a, c.op(0, b, d)),
					Right: c.op(0, c.op(1, a, b), c.op(1, a, d)),
				},
				&Equation{
					Name:  "right distributivity",
					Left:  c.op(1, c.op(0, b, d), a),
					Right: c.op(0, c.op(1, b, a), c.op(1, d, a)),
				},
			)
		},
	})
}
