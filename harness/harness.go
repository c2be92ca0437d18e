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

// Package harness runs law-check procedures and aggregates their results.
package harness

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"github.com/purpleidea/alga/lawcheck"

	"golang.org/x/sync/errgroup"
)

// Metrics receives the result of every procedure that runs.
type Metrics interface {
	UpdateProcedure(kind, law, outcome string, samples, vacuous int, duration time.Duration) error
}

// Summary counts the outcomes of a run.
type Summary struct {
	Total        int
	Verified     int
	Falsified    int
	Inconclusive int
}

// String returns a one line summary.
func (obj *Summary) String() string {
	return fmt.Sprintf("%d procedures: %d verified, %d falsified, %d inconclusive", obj.Total, obj.Verified, obj.Falsified, obj.Inconclusive)
}

// OK returns true if nothing was falsified or inconclusive.
func (obj *Summary) OK() bool {
	return obj.Falsified == 0 && obj.Inconclusive == 0
}

// Report holds the results of a run, in the order of the procedures.
type Report struct {
	Results []*lawcheck.Result
	Summary *Summary
}

// Falsified returns the results that found a counterexample.
func (obj *Report) Falsified() []*lawcheck.Result {
	return obj.filter(lawcheck.OutcomeFalsified)
}

// Inconclusive returns the results that couldn't decide the law.
func (obj *Report) Inconclusive() []*lawcheck.Result {
	return obj.filter(lawcheck.OutcomeInconclusive)
}

func (obj *Report) filter(outcome lawcheck.Outcome) []*lawcheck.Result {
	out := []*lawcheck.Result{}
	for _, r := range obj.Results {
		if r.Outcome == outcome {
			out = append(out, r)
		}
	}
	return out
}

// Runner runs procedures concurrently. Procedures are independent, so they
// may run in any order, but the report keeps the order they were given in.
type Runner struct {
	// Workers is the number of procedures that run at once. Zero means the
	// number of CPUs.
	Workers int

	// Metrics is optional.
	Metrics Metrics

	Debug bool
	Logf  func(format string, v ...interface{})
}

func (obj *Runner) logf(format string, v ...interface{}) {
	if obj.Logf == nil {
		return
	}
	obj.Logf(format, v...)
}

// Run runs every procedure. A cancelled context makes every procedure which
// did not finish inconclusive. It only errors if the metrics can't be updated.
func (obj *Runner) Run(ctx context.Context, procedures []*lawcheck.Procedure) (*Report, error) {
	workers := obj.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	results := make([]*lawcheck.Result, len(procedures))
	wg := &errgroup.Group{}
	wg.SetLimit(workers)
	for i, p := range procedures {
		wg.Go(func() error {
			results[i] = lawcheck.Run(ctx, p)
			if obj.Debug {
				obj.logf("%s", results[i])
			}
			return nil
		})
	}
	_ = wg.Wait() // procedures never error

	report := &Report{
		Results: results,
		Summary: &Summary{
			Total: len(results),
		},
	}
	var reterr error
	for _, r := range results {
		switch r.Outcome {
		case lawcheck.OutcomeVerified:
			report.Summary.Verified++
		case lawcheck.OutcomeFalsified:
			report.Summary.Falsified++
			obj.logf("falsified: %s", r)
		case lawcheck.OutcomeInconclusive:
			report.Summary.Inconclusive++
			obj.logf("inconclusive: %s", r)
		}
		if obj.Metrics == nil {
			continue
		}
		p := r.Procedure
		if err := obj.Metrics.UpdateProcedure(p.Kind.Name, p.Law.String(), r.Outcome.String(), r.Samples, r.Vacuous, r.Duration); err != nil && reterr == nil {
			reterr = err
		}
	}
	return report, reterr
}
