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

package optimizer_test

import (
	"context"
	"net"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/nabbar/slamd/internal/endpoint"
	"github.com/nabbar/slamd/internal/errs"
	"github.com/nabbar/slamd/internal/job"
	"github.com/nabbar/slamd/internal/logging"
	"github.com/nabbar/slamd/internal/optimizer"
	"github.com/nabbar/slamd/internal/paramset"
	"github.com/nabbar/slamd/internal/protocol"
	"github.com/nabbar/slamd/internal/registry"
	"github.com/nabbar/slamd/internal/scheduler"
)

// runSimClient plays an always-accepting, always-successful remote client
// for as many JobRequests as arrive, until the connection closes.
func runSimClient(conn net.Conn) {
	w := protocol.NewWriter(conn)
	r := protocol.NewReader(conn)
	for {
		env, err := r.ReadEnvelope()
		if err != nil {
			return
		}
		if env.Tag != protocol.TagJobRequest {
			continue
		}
		var req protocol.JobRequest
		if err := env.Unpack(&req); err != nil {
			return
		}

		accept, _ := protocol.Pack(env.ID, protocol.TagJobResponse, protocol.JobResponse{JobID: req.JobID, Code: protocol.JobAccepted})
		if err := w.WriteEnvelope(accept); err != nil {
			return
		}

		time.Sleep(5 * time.Millisecond)
		term, _ := protocol.Pack(0, protocol.TagJobResponse, protocol.JobResponse{JobID: req.JobID, Code: protocol.JobCompletedSuccessfully})
		if err := w.WriteEnvelope(term); err != nil {
			return
		}
	}
}

var _ = Describe("Driver", func() {
	var (
		log    logging.Logger
		reg    *registry.Registry
		sch    *scheduler.Scheduler
		ctx    context.Context
		cancel context.CancelFunc
		server net.Conn
		client net.Conn
	)

	BeforeEach(func() {
		log = logging.New()
		reg = registry.New()
		sch = scheduler.New(log, reg)
		ctx, cancel = context.WithCancel(context.Background())

		server, client = net.Pipe()
		reg.RegisterClient(&registry.ClientRecord{ConnectionID: "conn-1", Host: "host-a", ClientID: "conn-1"})
		conn := endpoint.New("conn-1", "host-a", server, endpoint.Config{
			HandshakeTimeout: time.Second,
			RequestTimeout:   2 * time.Second,
		})
		sch.Attach(endpoint.NewClientConn(conn))
		go func() { _ = conn.Run(ctx) }()
		go runSimClient(client)

		go sch.Run(ctx)
	})

	AfterEach(func() {
		cancel()
		_ = client.Close()
	})

	It("walks the thread range and records the best-scoring iteration", func() {
		scores := map[int]float64{2: 5, 4: 10, 6: 8}
		objective := func(j *job.Job) (float64, errs.Error) {
			return scores[j.Spec().ThreadsPerClient], nil
		}

		drv := optimizer.New(log, sch, objective)

		spec := job.OptimizingSpec{
			ID:                "opt-1",
			ClassName:         "http-get",
			Parameters:        paramset.Bag{},
			BaseSpec:          job.Spec{ClientCount: 1, StartTime: time.Now()},
			MinThreads:        2,
			MaxThreads:        6,
			ThreadIncrement:   2,
			IterationDuration: 10 * time.Millisecond,
			MaxNonImproving:   1,
			Direction:         job.Maximize,
		}

		o, err := drv.Run(ctx, spec)
		Expect(err).To(BeNil())
		Expect(o.Status()).To(Equal(job.OptimizingCompleted))

		best, ok := o.Best()
		Expect(ok).To(BeTrue())
		Expect(best.Threads).To(Equal(4))
		Expect(best.Value).To(Equal(10.0))
		Expect(len(o.Iterations())).To(Equal(3)) // t=2 (improves), t=4 (improves), t=6 (non-improving, stops)
	})

	It("reruns the best iteration when requested", func() {
		scores := map[int]float64{2: 1, 4: 3}
		objective := func(j *job.Job) (float64, errs.Error) {
			return scores[j.Spec().ThreadsPerClient], nil
		}

		drv := optimizer.New(log, sch, objective)

		spec := job.OptimizingSpec{
			ID:                "opt-2",
			ClassName:         "http-get",
			Parameters:        paramset.Bag{},
			BaseSpec:          job.Spec{ClientCount: 1, StartTime: time.Now()},
			MinThreads:        2,
			MaxThreads:        4,
			ThreadIncrement:   2,
			IterationDuration: 10 * time.Millisecond,
			RerunBest:         true,
			RerunDuration:     10 * time.Millisecond,
			Direction:         job.Maximize,
		}

		o, err := drv.Run(ctx, spec)
		Expect(err).To(BeNil())
		Expect(o.RerunJobID()).ToNot(BeEmpty())
	})
})
