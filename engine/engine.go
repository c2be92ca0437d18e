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

// Package engine wires the derivation pipeline together. A type description
// is extracted, resolved against the catalog, its capabilities are
// synthesized, and the laws of its kinds are generated and run.
package engine

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"github.com/purpleidea/alga/catalog"
	"github.com/purpleidea/alga/derive"
	"github.com/purpleidea/alga/extract"
	"github.com/purpleidea/alga/gen"
	"github.com/purpleidea/alga/harness"
	"github.com/purpleidea/alga/interfaces"
	"github.com/purpleidea/alga/lawcheck"
	"github.com/purpleidea/alga/resolver"
	"github.com/purpleidea/alga/util"
	"github.com/purpleidea/alga/util/errwrap"
)

// Metrics receives the results of the engine.
type Metrics interface {
	harness.Metrics

	// UpdateDerivation records whether a candidate type was derived.
	UpdateDerivation(candidate string, err error) error
}

// Result is everything that was derived for one candidate type.
type Result struct {
	// ID is the id of the derivation.
	ID string

	Candidate  *interfaces.CandidateType
	Resolution *resolver.Resolution
	Derivation *derive.Derivation
	Procedures []*lawcheck.Procedure
	Report     *harness.Report
}

// Engine runs derivations. Run Init() on it before use. It can be used for
// many candidate types, concurrently.
type Engine struct {
	// Catalog is the catalog to resolve against. It defaults to the
	// compiled in one.
	Catalog *catalog.Catalog

	// Generators defaults to a registry of the builtin generators.
	Generators gen.Interface

	// SampleCount is the number of samples of each procedure.
	SampleCount int

	// Seed is the seed that every procedure seed is derived from.
	Seed uint64

	// Workers is the number of procedures that run at once.
	Workers int

	// SampleWorkers is the number of goroutines inside each procedure.
	SampleWorkers int

	// Metrics is optional.
	Metrics Metrics

	Debug bool
	Logf  func(format string, v ...interface{})

	resolver    *resolver.Resolver
	synthesizer *derive.Synthesizer
	generator   *lawcheck.Generator
	runner      *harness.Runner
}

// Init validates the engine and sets the defaults.
func (obj *Engine) Init() error {
	if obj.Logf == nil {
		return fmt.Errorf("the Logf function is missing")
	}
	if obj.SampleCount < 0 {
		return fmt.Errorf("the SampleCount must not be negative")
	}
	if obj.SampleCount == 0 {
		obj.SampleCount = lawcheck.DefaultSampleCount
	}
	if obj.Workers <= 0 {
		obj.Workers = runtime.NumCPU()
	}
	if obj.SampleWorkers <= 0 {
		obj.SampleWorkers = 1
	}
	if obj.Catalog == nil {
		c, err := catalog.Default()
		if err != nil {
			return errwrap.Wrapf(err, "can't load the default catalog")
		}
		obj.Catalog = c
	}
	if obj.Generators == nil {
		reg := gen.NewRegistry()
		if err := gen.RegisterBuiltin(reg); err != nil {
			return err
		}
		obj.Generators = reg
	}

	obj.resolver = &resolver.Resolver{
		Catalog:    obj.Catalog,
		Generators: obj.Generators,
		Debug:      obj.Debug,
		Logf: func(format string, v ...interface{}) {
			obj.Logf("resolver: "+format, v...)
		},
	}
	obj.synthesizer = &derive.Synthesizer{
		Catalog: obj.Catalog,
		Debug:   obj.Debug,
		Logf: func(format string, v ...interface{}) {
			obj.Logf("derive: "+format, v...)
		},
	}
	obj.generator = &lawcheck.Generator{
		Catalog:    obj.Catalog,
		Generators: obj.Generators,
		Workers:    obj.SampleWorkers,
		Debug:      obj.Debug,
		Logf: func(format string, v ...interface{}) {
			obj.Logf("lawcheck: "+format, v...)
		},
	}
	obj.runner = &harness.Runner{
		Workers: obj.Workers,
		Debug:   obj.Debug,
		Logf: func(format string, v ...interface{}) {
			obj.Logf("harness: "+format, v...)
		},
	}
	if obj.Metrics != nil {
		obj.runner.Metrics = obj.Metrics
	}
	return nil
}

// Derive runs the whole pipeline for one candidate type. Falsified laws are
// not an error, they are in the report.
func (obj *Engine) Derive(ctx context.Context, desc *interfaces.Description) (*Result, error) {
	result, err := obj.derive(ctx, desc)
	if obj.Metrics != nil && desc != nil {
		if e := obj.Metrics.UpdateDerivation(desc.Name, err); e != nil {
			obj.Logf("metrics: %+v", e)
		}
	}
	return result, err
}

func (obj *Engine) derive(ctx context.Context, desc *interfaces.Description) (*Result, error) {
	if desc == nil {
		return nil, fmt.Errorf("nil description")
	}
	start := time.Now()

	candidate, err := extract.Extract(desc)
	if err != nil {
		return nil, errwrap.Wrapf(err, "can't extract %s", desc.Name)
	}
	if obj.Debug {
		obj.Logf("extract: %s: %s", candidate, candidate.Names())
	}

	resolution, err := obj.resolver.Resolve(candidate)
	if err != nil {
		return nil, errwrap.Wrapf(err, "can't resolve %s", candidate)
	}

	var reterr error
	for _, name := range util.StrRemoveDuplicatesInList(candidate.Requested) {
		if _, err := obj.Catalog.Lookup(name); err != nil {
			reterr = errwrap.Append(reterr, errwrap.Wrapf(err, "requested kind %s", name))
			continue
		}
		if !resolution.Has(name) {
			reterr = errwrap.Append(reterr, errwrap.Wrapf(interfaces.ErrNotResolved, "%s: %s", candidate, name))
		}
	}
	if reterr != nil {
		return nil, reterr
	}

	derivation, err := obj.synthesizer.Synthesize(candidate, resolution)
	if err != nil {
		return nil, errwrap.Wrapf(err, "can't synthesize %s", candidate)
	}

	procedures, err := obj.generator.Generate(derivation, resolution, obj.SampleCount, obj.Seed)
	if err != nil {
		return nil, errwrap.Wrapf(err, "can't generate procedures for %s", candidate)
	}

	report, err := obj.runner.Run(ctx, procedures)
	if err != nil {
		obj.Logf("metrics: %+v", err) // the report is still valid
	}

	obj.Logf("%s: %d kinds (%d unverifiable): %s in %s", candidate, len(resolution.Kinds), len(resolution.Unverifiable()), report.Summary, time.Since(start))

	return &Result{
		ID:         derivation.ID,
		Candidate:  candidate,
		Resolution: resolution,
		Derivation: derivation,
		Procedures: procedures,
		Report:     report,
	}, nil
}

// DeriveAll derives every description. An error with one candidate type does
// not stop the others. The results of the successful ones are returned in
// order, along with every error.
func (obj *Engine) DeriveAll(ctx context.Context, descs []*interfaces.Description) ([]*Result, error) {
	results := []*Result{}
	var reterr error
	for _, desc := range descs {
		result, err := obj.Derive(ctx, desc)
		if err != nil {
			reterr = errwrap.Append(reterr, err)
			continue
		}
		results = append(results, result)
	}
	return results, reterr
}
