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

package algebras

import (
	"github.com/purpleidea/alga/interfaces"
)

// CategoryFloat64 is the equality category of float64 based types.
const CategoryFloat64 = "float64"

func init() {
	Register("float64", func() *interfaces.Description {
		return &interfaces.Description{
			Name:     "float64",
			Category: CategoryFloat64,
			Elem:     float64(0),
			Funcs: map[string]interface{}{
				"add":   Float64Add,
				"zero":  Float64Zero,
				"neg":   Float64Neg,
				"sub":   Float64Sub,
				"mul":   Float64Mul,
				"one":   Float64One,
				"recip": Float64Recip,
				"div":   Float64Div,
			},
			Requested: []string{"Field<Additive, Multiplicative>"},
		}
	})
}

// Float64Add is the sum.
func Float64Add(a, b float64) float64 { return a + b }

// Float64Zero is the additive identity.
func Float64Zero() float64 { return 0 }

// Float64Neg is the additive inverse.
func Float64Neg(a float64) float64 { return -a }

// Float64Sub is the difference.
func Float64Sub(a, b float64) float64 { return a - b }

// Float64Mul is the product.
func Float64Mul(a, b float64) float64 { return a * b }

// Float64One is the multiplicative identity.
func Float64One() float64 { return 1 }

// Float64Recip is the multiplicative inverse. It is infinite for zero.
func Float64Recip(a float64) float64 { return 1 / a }

// Float64Div is the quotient.
func Float64Div(a, b float64) float64 { return a / b }
