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
	"fmt"
	"math/rand/v2"

	"github.com/purpleidea/alga/gen"
	"github.com/purpleidea/alga/interfaces"
)

// ZMod7TypeID is the generator key of ZMod7.
const ZMod7TypeID = "zmod7"

func init() {
	Register("zmod7", func() *interfaces.Description {
		return &interfaces.Description{
			Name:    "zmod7",
			TypeID:  ZMod7TypeID,
			Elem:    ZMod7(0),
			Methods: []string{"Add", "Neg", "Sub", "Mul", "Recip"},
			Funcs: map[string]interface{}{
				"zero": ZMod7Zero,
				"one":  ZMod7One,
			},
			Requested: []string{"Field<Additive, Multiplicative>"},
		}
	})
	RegisterGenerator(ZMod7TypeID, gen.FromRand(func(r *rand.Rand) interface{} {
		return ZMod7(r.IntN(7))
	}))
}

// ZMod7 is an integer modulo seven. Seven is prime, so it is a field.
type ZMod7 uint8

// ZMod7Zero is the additive identity.
func ZMod7Zero() ZMod7 { return 0 }

// ZMod7One is the multiplicative identity.
func ZMod7One() ZMod7 { return 1 }

// Add returns the sum.
func (obj ZMod7) Add(x ZMod7) ZMod7 { return (obj + x) % 7 }

// Neg returns the additive inverse.
func (obj ZMod7) Neg() ZMod7 { return (7 - obj) % 7 }

// Sub returns the difference.
func (obj ZMod7) Sub(x ZMod7) ZMod7 { return obj.Add(x.Neg()) }

// Mul returns the product.
func (obj ZMod7) Mul(x ZMod7) ZMod7 { return (obj * x) % 7 }

// Recip returns the multiplicative inverse. Zero has none.
func (obj ZMod7) Recip() (ZMod7, error) {
	a := obj % 7
	if a == 0 {
		return 0, fmt.Errorf("zero has no inverse")
	}
	for x := ZMod7(1); x < 7; x++ {
		if a.Mul(x) == 1 {
			return x, nil
		}
	}
	return 0, fmt.Errorf("no inverse of %d", a) // unreachable
}

// String returns the value with its modulus.
func (obj ZMod7) String() string {
	return fmt.Sprintf("%d (mod 7)", uint8(obj))
}
