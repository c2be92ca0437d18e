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

//go:build !root

package prometheus

import (
	"fmt"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/spf13/afero"
)

// TestInitLawMetrics tests that we are initializing the Prometheus metrics
// correctly for all the laws of a kind.
func TestInitLawMetrics(t *testing.T) {
	var prom Prometheus
	if err := prom.Init(); err != nil {
		t.Errorf("init failed: %+v", err)
		return
	}
	if err := prom.InitLawMetrics("Group<Additive>", []string{"inverse(Additive)", "difference(Additive)"}); err != nil {
		t.Errorf("init failed: %+v", err)
		return
	}

	// Get a list of metrics collected by Prometheus. This is the only way
	// to get Prometheus metrics without implicitly creating them.
	metrics, err := prom.Registry().Gather()
	if err != nil {
		t.Errorf("error while gathering metrics: %s", err)
		return
	}

	// expectedMetrics is a map: keys are metrics name and values are
	// expected and actual count of metrics with that name.
	expectedMetrics := map[string][2]int{
		"alga_procedures_total": {
			6, 0,
		},
		"alga_process_start_time_seconds": {
			1, 0,
		},
	}

	for _, metric := range metrics {
		for name, count := range expectedMetrics {
			if metric.GetName() == name {
				value := len(metric.Metric)
				expectedMetrics[name] = [2]int{count[0], value}
			}
		}
	}

	for name, count := range expectedMetrics {
		if count[1] != count[0] {
			t.Errorf("with: %s, expected %d metrics, got %d metrics", name, count[0], count[1])
		}
	}
}

func TestUpdateProcedure(t *testing.T) {
	var prom Prometheus
	if err := prom.Init(); err != nil {
		t.Errorf("init failed: %+v", err)
		return
	}
	for i := 0; i < 3; i++ {
		if err := prom.UpdateProcedure("Group<Abstract>", "inverse(Abstract)", "falsified", 10, 2, time.Millisecond); err != nil {
			t.Errorf("update failed: %+v", err)
			return
		}
	}
	if err := prom.UpdateDerivation("int64", nil); err != nil {
		t.Errorf("update failed: %+v", err)
	}
	if err := prom.UpdateDerivation("int64", fmt.Errorf("nope")); err != nil {
		t.Errorf("update failed: %+v", err)
	}

	falsified := prom.proceduresTotal.WithLabelValues("Group<Abstract>", "inverse(Abstract)", "falsified")
	if v := testutil.ToFloat64(falsified); v != 3 {
		t.Errorf("expected 3 procedures, got: %f", v)
	}
	if v := testutil.ToFloat64(prom.samplesTotal.WithLabelValues("inverse(Abstract)", "false")); v != 24 {
		t.Errorf("expected 24 samples, got: %f", v)
	}
	if v := testutil.ToFloat64(prom.samplesTotal.WithLabelValues("inverse(Abstract)", "true")); v != 6 {
		t.Errorf("expected 6 vacuous samples, got: %f", v)
	}
	if n := testutil.CollectAndCount(prom.derivationsTotal); n != 2 {
		t.Errorf("expected 2 derivation series, got: %d", n)
	}
}

func TestWriteTextfile(t *testing.T) {
	var prom Prometheus
	if err := prom.Init(); err != nil {
		t.Errorf("init failed: %+v", err)
		return
	}
	if err := prom.UpdateProcedure("Magma<Additive>", "associativity(Additive)", "verified", 100, 0, time.Millisecond); err != nil {
		t.Errorf("update failed: %+v", err)
		return
	}
	filename := filepath.Join(t.TempDir(), "alga.prom")
	if err := prom.WriteTextfile(filename); err != nil {
		t.Errorf("write failed: %+v", err)
		return
	}
	data, err := afero.ReadFile(afero.NewOsFs(), filename)
	if err != nil {
		t.Errorf("read failed: %+v", err)
		return
	}
	if !strings.Contains(string(data), `alga_procedures_total{kind="Magma<Additive>",law="associativity(Additive)",outcome="verified"} 1`) {
		t.Errorf("unexpected contents: %s", data)
	}
}
