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

package metrics_test

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	io_prometheus_client "github.com/prometheus/client_model/go"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/nabbar/slamd/internal/metrics"
)

func counterValue(c prometheus.Counter) float64 {
	m := &io_prometheus_client.Metric{}
	_ = c.Write(m)
	return m.GetCounter().GetValue()
}

func histogramCount(h prometheus.Histogram) uint64 {
	m := &io_prometheus_client.Metric{}
	_ = h.(prometheus.Metric).Write(m)
	return m.GetHistogram().GetSampleCount()
}

var _ = Describe("Collector", func() {
	It("registers every metric without collision on a private registry", func() {
		c := metrics.NewCollector()
		reg := prometheus.NewRegistry()
		Expect(c.Register(reg)).To(BeNil())
	})

	It("tracks completed-job outcomes by label", func() {
		c := metrics.NewCollector()
		c.JobCompleted("completed-successfully")
		c.JobCompleted("completed-successfully")
		c.JobCompleted("cancelled")

		Expect(counterValue(c.JobsCompleted.WithLabelValues("completed-successfully"))).To(Equal(2.0))
		Expect(counterValue(c.JobsCompleted.WithLabelValues("cancelled"))).To(Equal(1.0))
	})

	It("records barrier wait observations", func() {
		c := metrics.NewCollector()
		c.ObserveBarrierWait(50 * time.Millisecond)
		c.ObserveBarrierWait(75 * time.Millisecond)
		Expect(histogramCount(c.BarrierWait)).To(Equal(uint64(2)))
	})

	It("tracks aggregation failures by job class", func() {
		c := metrics.NewCollector()
		c.AggregationFailed("http-get")
		Expect(counterValue(c.AggregationErrors.WithLabelValues("http-get"))).To(Equal(1.0))
	})
})
