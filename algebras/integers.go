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

func init() {
	Register("int64", func() *interfaces.Description {
		return &interfaces.Description{
			Name: "int64",
			Elem: int64(0),
			Funcs: map[string]interface{}{
				"add":  Int64Add,
				"zero": Int64Zero,
				"neg":  Int64Neg,
				"mul":  Int64Mul,
				"one":  Int64One,
			},
			Requested: []string{"RingCommutative<Additive, Multiplicative>"},
		}
	})
}

// Int64Add wraps around on overflow, which keeps the ring laws.
func Int64Add(a, b int64) int64 { return a + b }

// Int64Zero is the additive identity.
func Int64Zero() int64 { return 0 }

// Int64Neg is the additive inverse.
func Int64Neg(a int64) int64 { return -a }

// Int64Mul wraps around on overflow.
func Int64Mul(a, b int64) int64 { return a * b }

// Int64One is the multiplicative identity.
func Int64One() int64 { return 1 }
