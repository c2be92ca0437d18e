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

// Package prometheus provides functions that are useful to control and manage
// the built-in prometheus instance.
package prometheus

import (
	"context"
	"net/http"
	"time"

	"github.com/purpleidea/alga/util/errwrap"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// DefaultPrometheusListen is the default listen address of the metrics
// server. The port follows the one used by many small exporters.
const DefaultPrometheusListen = "127.0.0.1:9233"

// Outcomes lists every procedure outcome label value.
var Outcomes = []string{"verified", "falsified", "inconclusive"}

// Prometheus is the struct that contains information about the prometheus
// instance. Run Init() on it.
type Prometheus struct {
	Listen string // the listen specification for the net/http server

	registry *prometheus.Registry
	server   *http.Server

	proceduresTotal         *prometheus.CounterVec   // procedures by kind, law and outcome
	samplesTotal            *prometheus.CounterVec   // samples by law and whether they were vacuous
	procedureSeconds        *prometheus.HistogramVec // run duration by law
	derivationsTotal        *prometheus.CounterVec   // derivations by candidate and result
	processStartTimeSeconds prometheus.Gauge         // process start time in seconds since unix epoch
}

// Init creates the metrics. Each instance has its own registry.
func (obj *Prometheus) Init() error {
	if len(obj.Listen) == 0 {
		obj.Listen = DefaultPrometheusListen
	}
	obj.registry = prometheus.NewRegistry()

	obj.proceduresTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "alga_procedures_total",
			Help: "Number of law-check procedures that have run.",
		},
		// Labels for this metric.
		// kind: structure kind: Group<Additive>, ...
		// law: law with its operators: inverse(Additive), ...
		// outcome: verified, falsified or inconclusive
		[]string{"kind", "law", "outcome"},
	)
	obj.samplesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "alga_samples_total",
			Help: "Number of samples that have been evaluated.",
		},
		[]string{"law", "vacuous"},
	)
	obj.procedureSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "alga_procedure_duration_seconds",
			Help:    "Duration of law-check procedures.",
			Buckets: prometheus.ExponentialBuckets(0.0001, 4, 10),
		},
		[]string{"law"},
	)
	obj.derivationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "alga_derivations_total",
			Help: "Number of candidate types that have been derived.",
		},
		// result: ok or error
		[]string{"candidate", "result"},
	)
	obj.processStartTimeSeconds = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "alga_process_start_time_seconds",
			Help: "Start time of the process since unix epoch in seconds.",
		},
	)

	for _, c := range []prometheus.Collector{
		obj.proceduresTotal,
		obj.samplesTotal,
		obj.procedureSeconds,
		obj.derivationsTotal,
		obj.processStartTimeSeconds,
	} {
		if err := obj.registry.Register(c); err != nil {
			return errwrap.Wrapf(err, "can't register metric")
		}
	}
	// directly set the processStartTimeSeconds
	obj.processStartTimeSeconds.SetToCurrentTime()

	return nil
}

// Registry returns the registry that the metrics are in.
func (obj *Prometheus) Registry() *prometheus.Registry {
	return obj.registry
}

// InitLawMetrics creates the procedure counters of every kind and law with
// every outcome, so that they are exported before the first run.
func (obj *Prometheus) InitLawMetrics(kind string, laws []string) error {
	for _, law := range laws {
		for _, outcome := range Outcomes {
			labels := prometheus.Labels{"kind": kind, "law": law, "outcome": outcome}
			if _, err := obj.proceduresTotal.GetMetricWith(labels); err != nil {
				return errwrap.Wrapf(err, "can't create metric")
			}
		}
	}
	return nil
}

// UpdateProcedure records the result of a procedure.
func (obj *Prometheus) UpdateProcedure(kind, law, outcome string, samples, vacuous int, duration time.Duration) error {
	labels := prometheus.Labels{"kind": kind, "law": law, "outcome": outcome}
	metric, err := obj.proceduresTotal.GetMetricWith(labels)
	if err != nil {
		return errwrap.Wrapf(err, "can't get metric")
	}
	metric.Inc()
	obj.samplesTotal.With(prometheus.Labels{"law": law, "vacuous": "false"}).Add(float64(samples - vacuous))
	obj.samplesTotal.With(prometheus.Labels{"law": law, "vacuous": "true"}).Add(float64(vacuous))
	obj.procedureSeconds.With(prometheus.Labels{"law": law}).Observe(duration.Seconds())
	return nil
}

// UpdateDerivation records whether a candidate type was derived.
func (obj *Prometheus) UpdateDerivation(candidate string, err error) error {
	result := "ok"
	if err != nil {
		result = "error"
	}
	labels := prometheus.Labels{"candidate": candidate, "result": result}
	metric, e := obj.derivationsTotal.GetMetricWith(labels)
	if e != nil {
		return errwrap.Wrapf(e, "can't get metric")
	}
	metric.Inc()
	return nil
}

// WriteTextfile writes every metric in the text exposition format, so that it
// can be picked up by the node exporter textfile collector.
func (obj *Prometheus) WriteTextfile(filename string) error {
	return prometheus.WriteToTextfile(filename, obj.registry)
}

// Start runs a http server in a go routine, that responds to /metrics as
// prometheus would expect.
func (obj *Prometheus) Start() error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(obj.registry, promhttp.HandlerOpts{}))
	obj.server = &http.Server{
		Addr:              obj.Listen,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go obj.server.ListenAndServe() // returns ErrServerClosed on Stop
	return nil
}

// Stop the http server.
func (obj *Prometheus) Stop() error {
	if obj.server == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return obj.server.Shutdown(ctx)
}
