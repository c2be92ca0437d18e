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

package catalog

import (
	"sort"

	"github.com/purpleidea/alga/types"
	"github.com/purpleidea/alga/util/errwrap"

	yaml "gopkg.in/yaml.v2"
)

// ToYAML returns the expanded catalog as a document that Parse accepts. Every
// kind is written out as a concrete kind without params, in topological order,
// so the result parses to a catalog with the same kinds and the same order.
func (obj *Catalog) ToYAML() ([]byte, error) {
	doc := &document{
		Equality:  obj.equality,
		Operators: []*operatorDoc{},
		Kinds:     []*kindDoc{},
	}

	for _, op := range obj.operatorOrder {
		carrier := "T"
		if op.Carrier == types.KindScalar {
			carrier = "S"
		}
		x := &operatorDoc{
			Name:    op.Name,
			Carrier: carrier,
			Generic: op.Generic,
			Roles:   make(map[string]*roleDoc),
		}
		if op.Excludes != nil {
			x.Excludes = op.Excludes.String()
		}
		for name, role := range op.Roles {
			x.Roles[name] = &roleDoc{
				Type:   role.Type.String(),
				Names:  role.Names,
				Prefer: role.Prefer,
			}
		}
		doc.Operators = append(doc.Operators, x)
	}

	for _, kind := range obj.order {
		x := &kindDoc{
			Name:        kind.Name,
			Description: kind.Description,
			Parents:     append([]string{}, kind.Parents...),
		}
		for _, req := range kind.Requires {
			x.Requires = append(x.Requires, req.Ref().String())
		}
		for _, l := range kind.Laws {
			x.Laws = append(x.Laws, l.String())
		}
		for _, t := range kind.Transforms {
			x.Transforms = append(x.Transforms, t.String())
		}
		sort.Strings(x.Parents)
		doc.Kinds = append(doc.Kinds, x)
	}

	data, err := yaml.Marshal(doc)
	if err != nil {
		return nil, errwrap.Wrapf(err, "can't encode catalog")
	}
	return data, nil
}
