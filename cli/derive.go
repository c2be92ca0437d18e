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

package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/purpleidea/alga/algebras"
	cliUtil "github.com/purpleidea/alga/cli/util"
	"github.com/purpleidea/alga/engine"
	"github.com/purpleidea/alga/interfaces"
	"github.com/purpleidea/alga/lawcheck"
	"github.com/purpleidea/alga/prometheus"
	"github.com/purpleidea/alga/util/errwrap"
)

// deriveCmd is the run of the `derive` subcommand. It derives every selected
// algebra, prints the outcome of each law, and errors if any law did not
// verify.
func deriveCmd(ctx context.Context, data *cliUtil.Data, name string, args *cliUtil.DeriveArgs) (bool, error) {
	Logf := func(format string, v ...interface{}) {
		data.Flags.Logf(name+": "+format, v...)
	}

	c, err := cliUtil.LoadCatalog(data.Fs, args.Catalog)
	if err != nil {
		return false, err
	}
	reg, err := algebras.Registry()
	if err != nil {
		return false, err
	}

	names := args.Types
	if len(names) == 0 {
		names = algebras.Names()
	}
	descs := []*interfaces.Description{}
	for _, x := range names {
		desc, err := algebras.Lookup(x)
		if err != nil {
			return false, cliUtil.CliParseError(err)
		}
		descs = append(descs, desc)
	}

	var prom *prometheus.Prometheus
	if args.Prometheus || args.MetricsFile != "" {
		prom = &prometheus.Prometheus{
			Listen: args.PrometheusListen,
		}
		if err := prom.Init(); err != nil {
			return false, errwrap.Wrapf(err, "can't initialize prometheus")
		}
	}
	if prom != nil && args.Prometheus {
		Logf("prometheus: starting instance on %s", prom.Listen)
		if err := prom.Start(); err != nil {
			return false, errwrap.Wrapf(err, "can't start prometheus")
		}
		defer func() {
			if err := prom.Stop(); err != nil {
				Logf("prometheus: stop: %+v", err)
			}
		}()
	}

	e := &engine.Engine{
		Catalog:       c,
		Generators:    reg,
		SampleCount:   args.Samples,
		Seed:          args.Seed,
		Workers:       args.Workers,
		SampleWorkers: args.SampleWorkers,
		Debug:         data.Flags.Debug,
		Logf:          Logf,
	}
	if prom != nil {
		e.Metrics = prom
		for _, kind := range c.Kinds() {
			laws := []string{}
			for _, l := range kind.Laws {
				laws = append(laws, l.String())
			}
			if err := prom.InitLawMetrics(kind.Name, laws); err != nil {
				return false, err
			}
		}
	}
	if err := e.Init(); err != nil {
		return false, err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	if args.Timeout > 0 {
		var cancelTimeout context.CancelFunc
		ctx, cancelTimeout = context.WithTimeout(ctx, time.Duration(args.Timeout)*time.Second)
		defer cancelTimeout()
	}

	// install the exit signal handler
	wg := &sync.WaitGroup{}
	defer wg.Wait()
	exit := make(chan struct{})
	defer close(exit)
	wg.Add(1)
	go func() {
		defer wg.Done()
		signals := make(chan os.Signal, 1+1) // 1 * ^C + 1 * SIGTERM
		signal.Notify(signals, os.Interrupt, syscall.SIGTERM)
		defer signal.Stop(signals)
		select {
		case sig := <-signals:
			Logf("interrupted by %v, unchecked laws are inconclusive", sig)
			cancel()
		case <-exit:
		}
	}()

	results, reterr := e.DeriveAll(ctx, descs)
	failed := 0
	for _, result := range results {
		fmt.Printf("%s (%s):\n", result.Candidate, result.ID)
		for _, rk := range result.Resolution.Kinds {
			suffix := ""
			if rk.Unverifiable {
				suffix = fmt.Sprintf(" (unverifiable: %s)", rk.Reason)
			}
			fmt.Printf("  kind %s%s\n", rk.Kind, suffix)
		}
		for _, r := range result.Report.Results {
			fmt.Printf("  %s\n", format(r))
		}
		fmt.Printf("  %s\n", result.Report.Summary)
		if !result.Report.Summary.OK() {
			failed++
		}
	}

	if prom != nil && args.MetricsFile != "" {
		if err := prom.WriteTextfile(args.MetricsFile); err != nil {
			reterr = errwrap.Append(reterr, errwrap.Wrapf(err, "can't write metrics"))
		}
	}

	if failed > 0 {
		reterr = errwrap.Append(reterr, errwrap.Wrapf(cliUtil.LawsFailed, "%d of %d algebras", failed, len(results)))
	}
	if reterr != nil {
		return false, reterr
	}
	return true, nil
}

// format returns the line of one law in the report.
func format(r *lawcheck.Result) string {
	p := r.Procedure
	switch r.Outcome {
	case lawcheck.OutcomeFalsified:
		return fmt.Sprintf("%-12s %s %s: %s", r.Outcome, p.Kind, p.Law, r.Counterexample)
	case lawcheck.OutcomeInconclusive:
		return fmt.Sprintf("%-12s %s %s: %s", r.Outcome, p.Kind, p.Law, r.Reason)
	}
	vacuous := ""
	if r.Vacuous > 0 {
		vacuous = fmt.Sprintf(", %d vacuous", r.Vacuous)
	}
	return fmt.Sprintf("%-12s %s %s (%d samples%s)", r.Outcome, p.Kind, p.Law, r.Samples, vacuous)
}
