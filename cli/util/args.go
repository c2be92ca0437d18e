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

package util

import (
	"reflect"
	"strings"
)

// LookupSubcommand returns the name of the subcommand in the obj, of a struct.
// This is useful for determining the name of the subcommand that was activated.
// It returns an empty string if a specific name was not found.
func LookupSubcommand(obj interface{}, st interface{}) string {
	val := reflect.ValueOf(obj)
	if val.Kind() == reflect.Ptr { // max one de-referencing
		val = val.Elem()
	}

	v := reflect.ValueOf(st) // value of the struct
	typ := val.Type()
	for i := 0; i < typ.NumField(); i++ {
		f := val.Field(i) // value of the field
		if f.Kind() != reflect.Ptr || f.Interface() != v.Interface() {
			continue
		}

		field := typ.Field(i)
		alias, ok := field.Tag.Lookup("arg")
		if !ok {
			continue
		}

		prefix := "subcommand"
		split := strings.Split(alias, ":")
		if len(split) != 2 || split[0] != prefix {
			continue
		}

		return split[1] // found
	}
	return "" // not found
}

// CatalogArgs are the flags that every subcommand which loads the catalog
// shares. It is embedded, so it can't be a pointer.
type CatalogArgs struct {
	// Catalog is the path of a catalog file. The compiled in catalog is
	// used when it is empty.
	Catalog string `arg:"--catalog,env:ALGA_CATALOG" help:"path of a yaml structure catalog"`
}

// DeriveArgs is the derive CLI parsing structure and type of the parsed
// result.
type DeriveArgs struct {
	CatalogArgs

	Types []string `arg:"--type,separate" help:"name of an algebra to derive, may be repeated (default: all)"`

	Samples       int    `arg:"--samples" default:"100" help:"number of samples of each law"`
	Seed          uint64 `arg:"--seed,env:ALGA_SEED" help:"seed that every sample is derived from"`
	Workers       int    `arg:"--workers" help:"number of laws checked at once (default: number of cpus)"`
	SampleWorkers int    `arg:"--sample-workers" default:"1" help:"number of goroutines inside each law check"`
	Timeout       uint   `arg:"--timeout" help:"stop checking after approximately this many seconds"`

	MetricsFile      string `arg:"--metrics-file" help:"write the metrics to this file in the prometheus text format"`
	Prometheus       bool   `arg:"--prometheus" help:"serve the metrics while running"`
	PrometheusListen string `arg:"--prometheus-listen" help:"specify prometheus instance binding"`
}

// CatalogCmdArgs is the catalog CLI parsing structure and type of the parsed
// result.
type CatalogCmdArgs struct {
	CatalogArgs

	Graphviz string `arg:"--graphviz" help:"output file for graphviz data"`
	Dump     bool   `arg:"--dump" help:"print the expanded catalog as yaml"`
}

// RenderArgs is the render CLI parsing structure and type of the parsed
// result.
type RenderArgs struct {
	CatalogArgs

	Type    string `arg:"--type,required" help:"name of the algebra to render"`
	Package string `arg:"--package" default:"main" help:"golang package of the generated code"`
	Output  string `arg:"--output" help:"output file (default: stdout)"`
}
