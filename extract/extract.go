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

// Package extract is the operation extractor. It reads a type description and
// returns the candidate type with its declared operation set. Nothing here
// knows about the structure catalog.
package extract

import (
	"fmt"
	"reflect"
	"runtime"
	"sort"
	"strings"

	"github.com/purpleidea/alga/interfaces"
	"github.com/purpleidea/alga/types"
	"github.com/purpleidea/alga/util/errwrap"

	"github.com/iancoleman/strcase"
)

var errorInterface = reflect.TypeOf((*error)(nil)).Elem()

// Extract builds the candidate type from a description. Every problem with the
// declared operations is reported together.
func Extract(desc *interfaces.Description) (*interfaces.CandidateType, error) {
	if desc == nil {
		return nil, fmt.Errorf("nil description")
	}
	if desc.Name == "" {
		return nil, fmt.Errorf("description has no name")
	}
	if desc.Elem == nil {
		return nil, fmt.Errorf("description %s has no carrier value", desc.Name)
	}
	elem := reflect.TypeOf(desc.Elem)
	var scalar reflect.Type
	if desc.Scalar != nil {
		scalar = reflect.TypeOf(desc.Scalar)
	}

	candidate := &interfaces.CandidateType{
		Name:       desc.Name,
		TypeID:     desc.TypeID,
		ScalarID:   desc.ScalarID,
		Category:   desc.Category,
		GoElem:     elem.String(),
		Operations: []*interfaces.Operation{},
		Requested:  desc.Requested,
	}
	if candidate.TypeID == "" {
		candidate.TypeID = elem.String()
	}
	if scalar != nil {
		candidate.GoScalar = scalar.String()
		if candidate.ScalarID == "" {
			candidate.ScalarID = scalar.String()
		}
	}

	var reterr error
	seen := make(map[string]struct{})
	add := func(op *interfaces.Operation) {
		if _, exists := seen[op.Name]; exists {
			reterr = errwrap.Append(reterr, fmt.Errorf("operation %s is declared twice", op.Name))
			return
		}
		seen[op.Name] = struct{}{}
		candidate.Operations = append(candidate.Operations, op)
	}

	for name, fn := range desc.Funcs {
		if name == "" {
			reterr = errwrap.Append(reterr, fmt.Errorf("operation with an empty name"))
			continue
		}
		op, err := operation(name, reflect.ValueOf(fn), elem, scalar)
		if err != nil {
			reterr = errwrap.Append(reterr, errwrap.Wrapf(err, "operation %s", name))
			continue
		}
		op.Symbol = symbol(reflect.ValueOf(fn))
		add(op)
	}

	for _, method := range desc.Methods {
		m, exists := elem.MethodByName(method)
		if !exists {
			reterr = errwrap.Append(reterr, fmt.Errorf("type %s has no method %s", elem, method))
			continue
		}
		name := strcase.ToSnake(method)
		op, err := operation(name, m.Func, elem, scalar)
		if err != nil {
			reterr = errwrap.Append(reterr, errwrap.Wrapf(err, "method %s", method))
			continue
		}
		op.Symbol = fmt.Sprintf("%s.%s", elem, method) // method expression
		add(op)
	}

	if reterr != nil {
		return nil, errwrap.Wrapf(reterr, "can't extract %s", desc.Name)
	}

	sort.Slice(candidate.Operations, func(i, j int) bool {
		return candidate.Operations[i].Name < candidate.Operations[j].Name
	})
	return candidate, nil
}

// operation builds one declared operation from a func value.
func operation(name string, fn reflect.Value, elem, scalar reflect.Type) (*interfaces.Operation, error) {
	if !fn.IsValid() || fn.Kind() != reflect.Func || fn.IsNil() {
		return nil, fmt.Errorf("not a func")
	}
	typ, err := types.TypeOf(fn.Type(), elem, scalar)
	if err != nil {
		return nil, err
	}
	fallible := fn.Type().NumOut() == 2 && fn.Type().Out(1) == errorInterface
	return &interfaces.Operation{
		Name:     name,
		Type:     typ,
		Fallible: fallible,
		Fn:       wrap(name, fn, fallible),
	}, nil
}

// wrap returns the uniform calling convention for a func value. The operands
// are checked, so that a mistyped sample is an error and not a panic.
func wrap(name string, fn reflect.Value, fallible bool) interfaces.Callable {
	t := fn.Type()
	return func(args ...interface{}) (interface{}, error) {
		if len(args) != t.NumIn() {
			return nil, fmt.Errorf("%s: got %d operands, want %d", name, len(args), t.NumIn())
		}
		in := make([]reflect.Value, len(args))
		for i, arg := range args {
			if arg == nil {
				return nil, fmt.Errorf("%s: operand %d is nil", name, i)
			}
			v := reflect.ValueOf(arg)
			if !v.Type().AssignableTo(t.In(i)) {
				return nil, fmt.Errorf("%s: operand %d is %s, want %s", name, i, v.Type(), t.In(i))
			}
			in[i] = v
		}
		out := fn.Call(in)
		if fallible {
			if err, ok := out[1].Interface().(error); ok && err != nil {
				return nil, errwrap.Wrapf(err, "%s failed", name)
			}
		}
		return out[0].Interface(), nil
	}
}

// symbol returns the golang expression of a named func, eg: `algebras.add`.
// Closures get a name which only identifies them.
func symbol(fn reflect.Value) string {
	f := runtime.FuncForPC(fn.Pointer())
	if f == nil {
		return ""
	}
	name := f.Name()
	if i := strings.LastIndex(name, "/"); i >= 0 {
		name = name[i+1:]
	}
	return name
}
