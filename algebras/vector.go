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
	"math/rand/v2"

	"github.com/purpleidea/alga/gen"
	"github.com/purpleidea/alga/interfaces"
)

// Vec2TypeID is the generator key of Vec2.
const Vec2TypeID = "vec2"

func init() {
	Register("vec2", func() *interfaces.Description {
		return &interfaces.Description{
			Name:     "vec2",
			TypeID:   Vec2TypeID,
			Category: CategoryFloat64,
			Elem:     Vec2{},
			Scalar:   float64(0),
			Methods:  []string{"Add", "Neg", "Sub"},
			Funcs: map[string]interface{}{
				"zero":         Vec2Zero,
				"scale":        Vec2Scale,
				"scalar_add":   Float64Add,
				"scalar_zero":  Float64Zero,
				"scalar_neg":   Float64Neg,
				"scalar_mul":   Float64Mul,
				"scalar_one":   Float64One,
				"scalar_recip": Float64Recip,
			},
			Requested: []string{"VectorSpace<Additive, Scale, ScalarAdditive, ScalarMultiplicative>"},
		}
	})
	RegisterGenerator(Vec2TypeID, gen.FromRand(func(r *rand.Rand) interface{} {
		return Vec2{
			X: (r.Float64()*2 - 1) * gen.FloatRange,
			Y: (r.Float64()*2 - 1) * gen.FloatRange,
		}
	}))
}

// Vec2 is a vector of the real plane.
type Vec2 struct {
	X float64
	Y float64
}

// Vec2Zero is the zero vector.
func Vec2Zero() Vec2 { return Vec2{} }

// Vec2Scale multiplies each component by the scalar.
func Vec2Scale(s float64, v Vec2) Vec2 { return Vec2{X: s * v.X, Y: s * v.Y} }

// Add returns the sum.
func (obj Vec2) Add(v Vec2) Vec2 { return Vec2{X: obj.X + v.X, Y: obj.Y + v.Y} }

// Neg returns the opposite vector.
func (obj Vec2) Neg() Vec2 { return Vec2{X: -obj.X, Y: -obj.Y} }

// Sub returns the difference.
func (obj Vec2) Sub(v Vec2) Vec2 { return obj.Add(v.Neg()) }
