/*
 * MIT License
 *
 * Copyright (c) 2025 Nicolas JUHEL
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 *
 */

// Package metrics wraps the scheduler/endpoint observability surface
// (queue depth, running-job count, connected-client count, barrier-wait
// duration, per-job-class aggregation errors) as Prometheus collectors.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Collector owns every metric SLAMD exports. It is built unregistered so a
// caller can attach it to either the default registry or a private one
// (tests use their own to avoid collisions across parallel suites).
type Collector struct {
	JobsPending   prometheus.Gauge
	JobsRunning   prometheus.Gauge
	JobsCompleted *prometheus.CounterVec

	ConnectedClients prometheus.Gauge

	BarrierWait prometheus.Histogram

	AggregationErrors *prometheus.CounterVec
}

// NewCollector builds the collector set with the "slamd" namespace.
func NewCollector() *Collector {
	return &Collector{
		JobsPending: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "slamd", Subsystem: "scheduler", Name: "jobs_pending",
			Help: "Number of jobs currently in the pending queue.",
		}),
		JobsRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "slamd", Subsystem: "scheduler", Name: "jobs_running",
			Help: "Number of jobs currently past their start barrier.",
		}),
		JobsCompleted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "slamd", Subsystem: "scheduler", Name: "jobs_completed_total",
			Help: "Total jobs that reached a terminal state, by outcome.",
		}, []string{"outcome"}),
		ConnectedClients: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "slamd", Subsystem: "registry", Name: "connected_clients",
			Help: "Number of load-generator clients currently connected.",
		}),
		BarrierWait: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "slamd", Subsystem: "scheduler", Name: "barrier_wait_seconds",
			Help:    "Time spent in the start barrier waiting for client acceptance.",
			Buckets: prometheus.DefBuckets,
		}),
		AggregationErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "slamd", Subsystem: "stats", Name: "aggregation_errors_total",
			Help: "Statistics aggregation failures, by job class.",
		}, []string{"class"}),
	}
}

// Register attaches every collector to reg.
func (c *Collector) Register(reg prometheus.Registerer) error {
	for _, m := range []prometheus.Collector{
		c.JobsPending, c.JobsRunning, c.JobsCompleted,
		c.ConnectedClients, c.BarrierWait, c.AggregationErrors,
	} {
		if err := reg.Register(m); err != nil {
			return err
		}
	}
	return nil
}

func (c *Collector) JobCompleted(outcome string) {
	c.JobsCompleted.WithLabelValues(outcome).Inc()
}

func (c *Collector) ObserveBarrierWait(d time.Duration) {
	c.BarrierWait.Observe(d.Seconds())
}

func (c *Collector) AggregationFailed(class string) {
	c.AggregationErrors.WithLabelValues(class).Inc()
}
