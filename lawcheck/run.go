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
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/purpleidea/alga/types"
	"github.com/purpleidea/alga/util/errwrap"

	"golang.org/x/sync/errgroup"
)

type status int

const (
	statusPassed status = iota
	statusVacuous
	statusFailed
	statusErrored
)

type sample struct {
	status         status
	counterexample *Counterexample
	err            error
}

// Run runs the procedure. This is the entry point that a harness calls for
// each procedure.
func Run(ctx context.Context, procedure *Procedure) *Result {
	return procedure.Run(ctx)
}

// Run evaluates every sample of the procedure. The samples are split between
// the workers, but the reported counterexample is always the one with the
// lowest index, so the result only depends on the seed. A falsified sample
// wins over an error, and an error wins over a cancelled run. Cancelling the
// context stops scheduling new samples.
func (obj *Procedure) Run(ctx context.Context) *Result {
	start := time.Now()
	n := obj.SampleCount
	samples := make([]*sample, n)

	minFail := &atomic.Int64{}
	minFail.Store(int64(n))

	workers := obj.Workers
	if workers <= 0 {
		workers = 1
	}
	if workers > n {
		workers = n
	}

	wg := &errgroup.Group{}
	for w := 0; w < workers; w++ {
		wg.Go(func() error {
			for i := w; i < n; i += workers {
				if int64(i) > minFail.Load() {
					return nil // a lower sample already failed
				}
				select {
				case <-ctx.Done():
					return nil
				default:
				}
				s := obj.sample(i)
				samples[i] = s
				if s.status != statusFailed {
					continue
				}
				for {
					cur := minFail.Load()
					if int64(i) >= cur || minFail.CompareAndSwap(cur, int64(i)) {
						break
					}
				}
			}
			return nil
		})
	}
	_ = wg.Wait() // workers never error

	result := &Result{
		Procedure: obj,
	}
	var errored *sample
	var erroredIndex int
	for i, s := range samples {
		if s == nil {
			continue
		}
		result.Samples++
		switch s.status {
		case statusVacuous:
			result.Vacuous++
		case statusFailed:
			if result.Counterexample == nil {
				result.Counterexample = s.counterexample
			}
		case statusErrored:
			if errored == nil {
				errored, erroredIndex = s, i
			}
		}
	}
	result.Duration = time.Since(start)

	switch {
	case result.Counterexample != nil:
		result.Outcome = OutcomeFalsified
	case errored != nil:
		result.Outcome = OutcomeInconclusive
		result.Reason = fmt.Sprintf("sample #%d: %s", erroredIndex, errored.err)
	case result.Samples < n:
		result.Outcome = OutcomeInconclusive
		result.Reason = fmt.Sprintf("stopped after %d of %d samples", result.Samples, n)
	default:
		result.Outcome = OutcomeVerified
	}
	return result
}

// sample evaluates the sample with this index.
func (obj *Procedure) sample(index int) (s *sample) {
	defer func() {
		if r := recover(); r != nil {
			s = &sample{
				status: statusErrored,
				err:    fmt.Errorf("panic: %v", r),
			}
		}
	}()
	errored := func(err error) *sample {
		return &sample{
			status: statusErrored,
			err:    err,
		}
	}

	law := obj.Law.Law
	values := make([]interface{}, len(law.Operands))
	for pos, kind := range law.Operands {
		typeID := obj.Candidate.TypeID
		if kind == types.KindScalar {
			typeID = obj.Candidate.ScalarID
		}
		v, err := obj.Generators.Generate(typeID, obj.sampleSeed(index, pos))
		if err != nil {
			return errored(errwrap.Wrapf(err, "can't draw operand %d", pos))
		}
		values[pos] = v
	}

	for _, g := range obj.guards {
		z, err := g.excluded.Fn()
		if err != nil {
			return errored(errwrap.Wrapf(err, "can't compute %s", g.excluded.Ref))
		}
		excluded, err := obj.Equal(values[g.position], z)
		if err != nil {
			return errored(err)
		}
		if excluded {
			return &sample{status: statusVacuous}
		}
	}

	eqs, err := law.Eval(&env{procedure: obj}, values)
	if err != nil {
		return errored(err)
	}
	for _, eq := range eqs {
		ok, err := obj.Equal(eq.Left, eq.Right)
		if err != nil {
			return errored(err)
		}
		if ok {
			continue
		}
		return &sample{
			status: statusFailed,
			counterexample: &Counterexample{
				Index:    index,
				Values:   values,
				Equation: eq.Name,
				Left:     eq.Left,
				Right:    eq.Right,
			},
		}
	}
	return &sample{status: statusPassed}
}
