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
	// Concatenation is associative with an identity, but it doesn't
	// commute, so the abelian kinds are falsified.
	Register("string", func() *interfaces.Description {
		return &interfaces.Description{
			Name: "string",
			Elem: "",
			Funcs: map[string]interface{}{
				"combine": StringCombine,
				"empty":   StringEmpty,
			},
			Requested: []string{"Monoid<Abstract>"},
		}
	})
}

// StringCombine concatenates.
func StringCombine(a, b string) string { return a + b }

// StringEmpty is the empty string.
func StringEmpty() string { return "" }
