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

package lawcheck

import (
	"fmt"
	"reflect"

	"github.com/purpleidea/alga/catalog"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

// Equal compares both sides of a law.
type Equal func(x, y interface{}) (bool, error)

// NewEqual returns the comparison of an equality policy. Unexported fields are
// compared too, since most algebraic types hide their representation. The
// approximate mode applies its tolerance to every float component.
func NewEqual(policy *catalog.EqualityPolicy) (Equal, error) {
	if policy == nil {
		return nil, fmt.Errorf("nil policy")
	}
	if err := policy.Validate(); err != nil {
		return nil, err
	}
	opts := []cmp.Option{
		cmp.Exporter(func(reflect.Type) bool { return true }),
	}
	if policy.Mode == catalog.EqualityApprox {
		opts = append(opts, cmpopts.EquateApprox(policy.Fraction, policy.Margin))
	}
	return func(x, y interface{}) (b bool, reterr error) {
		defer func() {
			if r := recover(); r != nil {
				reterr = fmt.Errorf("can't compare %T and %T: %v", x, y, r)
			}
		}()
		return cmp.Equal(x, y, opts...), nil
	}, nil
}
