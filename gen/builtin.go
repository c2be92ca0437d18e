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

package gen

import (
	"math/rand/v2"
	"strings"

	"github.com/purpleidea/alga/util/errwrap"
)

// FloatRange bounds the generated floats. Keeping them small keeps the rounding
// error of a few operations below the default tolerance.
const FloatRange = 100.0

// alphabet is short, so that generated strings often share a prefix.
const alphabet = "ab"

// Builtin returns the generators of the basic golang types, keyed by their
// golang type name.
func Builtin() map[string]Generator {
	return map[string]Generator{
		"bool": FromRand(func(r *rand.Rand) interface{} {
			return r.IntN(2) == 1
		}),
		"int": FromRand(func(r *rand.Rand) interface{} {
			return int(r.Int64())
		}),
		"int64": FromRand(func(r *rand.Rand) interface{} {
			return r.Int64()
		}),
		"int32": FromRand(func(r *rand.Rand) interface{} {
			return r.Int32()
		}),
		"uint64": FromRand(func(r *rand.Rand) interface{} {
			return r.Uint64()
		}),
		"float64": FromRand(func(r *rand.Rand) interface{} {
			return (r.Float64()*2 - 1) * FloatRange
		}),
		"float32": FromRand(func(r *rand.Rand) interface{} {
			return float32((r.Float64()*2 - 1) * FloatRange)
		}),
		"string": FromRand(func(r *rand.Rand) interface{} {
			n := r.IntN(4)
			var sb strings.Builder
			for i := 0; i < n; i++ {
				sb.WriteByte(alphabet[r.IntN(len(alphabet))])
			}
			return sb.String()
		}),
	}
}

// RegisterBuiltin adds every builtin generator to the registry.
func RegisterBuiltin(reg *Registry) error {
	var reterr error
	for typeID, fn := range Builtin() {
		if err := reg.Register(typeID, fn); err != nil {
			reterr = errwrap.Append(reterr, err)
		}
	}
	return reterr
}
