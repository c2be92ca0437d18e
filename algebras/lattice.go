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
	Register("maxmin", func() *interfaces.Description {
		return &interfaces.Description{
			Name: "maxmin",
			Elem: int64(0),
			Funcs: map[string]interface{}{
				"min": MaxMinMeet,
				"max": MaxMinJoin,
			},
			Requested: []string{"Lattice<Meet, Join>"},
		}
	})
}

// MaxMinMeet is the greatest lower bound of the total order.
func MaxMinMeet(a, b int64) int64 { return min(a, b) }

// MaxMinJoin is the least upper bound of the total order.
func MaxMinJoin(a, b int64) int64 { return max(a, b) }
