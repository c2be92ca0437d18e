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

// The laws of a module over a ring of scalars. By convention the vector
// addition is the first parameter, and the scalar multiplication is the
// operate role of the Scale operator.
func init() {
	// Parameters: 0 is the vector addition and 1 is the scaling.
	Register(&Law{
		Name:     "scale_distributes_vector",
		Formula:  "s · (a + b) = s · a + s · b",
		Params:   2,
		Operands: []types.Kind{scalar, elem, elem},
		Uses:     []Use{{0, RoleOperate}, {1, RoleOperate}},
		Eval: func(env Env, args []interface{}) ([]*Equation, error) {
			c := &calc{env: env}
			s, a, b := args[0], args[1], args[2]
			return c.result(&Equation{
				Name:  "scale distributes over vector addition",
				Left:  c.op(1, s, c.op(0, a, b)),
				Right: c.op(0, c.op(1, s, a), c.op(1, s, b)),
			})
		},
	})

	// Parameters: 0 is the vector addition, 1 is the scaling and 2 is the
	// scalar addition.
	Register(&Law{
		Name:     "scale_distributes_scalar",
		Formula:  "(r + s) · a = r · a + s · a",
		Params:   3,
		Operands: []types.Kind{scalar, scalar, elem},
		Uses:     []Use{{0, RoleOperate}, {1, RoleOperate}, {2, RoleOperate}},
		Eval: func(env Env, args []interface{}) ([]*Equation, error) {
			c := &calc{env: env}
			r, s, a := args[0], args[1], args[2]
			return c.result(&Equation{
				Name:  "scale distributes over scalar addition",
				Left:  c.op(1, c.op(2, r, s), a),
				Right: c.op(0, c.op(1, r, a), c.op(1, s, a)),
			})
		},
	})

	// Parameters: 0 is the scaling and 1 is the scalar multiplication.
	Register(&Law{
		Name:     "scale_compatible",
		Formula:  "(r * s) · a = r · (s · a)",
		Params:   2,
		Operands: []types.Kind{scalar, scalar, elem},
		Uses:     []Use{{0, RoleOperate}, {1, RoleOperate}},
		Eval: func(env Env, args []interface{}) ([]*Equation, error) {
			c := &calc{env: env}
			r, s, a := args[0], args[1], args[2]
			return c.result(&Equation{
				Name:  "scale compatibility",
				Left:  c.op(0, c.op(1, r, s), a),
				Right: c.op(0, r, c.op(0, s, a)),
			})
		},
	})

	// Parameters: 0 is the scaling and 1 is the scalar multiplication.
	Register(&Law{
		Name:     "scale_identity",
		Formula:  "1 · a = a",
		Params:   2,
		Operands: []types.Kind{elem},
		Uses:     []Use{{0, RoleOperate}, {1, RoleIdentity}},
		Eval: func(env Env, args []interface{}) ([]*Equation, error) {
			c := &calc{env: env}
			a := args[0]
			return c.result(&Equation{
				Name:  "scale identity",
				Left:  c.op(0, c.id(1), a),
				Right: a,
			})
		},
	})

	// Parameters: 0 is the scaling and 1 is the scalar multiplication.
	Register(&Law{
		Name:     "scale_invertible",
		Formula:  "s⁻¹ · (s · a) = a",
		Params:   2,
		Operands: []types.Kind{scalar, elem},
		Uses:     []Use{{0, RoleOperate}, {1, RoleInverse}},
		Nonzero:  []Guard{{Position: 0, Param: 1}},
		Eval: func(env Env, args []interface{}) ([]*Equation, error) {
			c := &calc{env: env}
			s, a := args[0], args[1]
			return c.result(&Equation{
				Name:  "scale invertible",
				Left:  c.op(0, c.inv(1, s), c.op(0, s, a)),
				Right: a,
			})
		},
	})
}
