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

package scheduler_test

import (
	"context"
	"net"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/nabbar/slamd/internal/endpoint"
	"github.com/nabbar/slamd/internal/job"
	"github.com/nabbar/slamd/internal/logging"
	"github.com/nabbar/slamd/internal/paramset"
	"github.com/nabbar/slamd/internal/protocol"
	"github.com/nabbar/slamd/internal/registry"
	"github.com/nabbar/slamd/internal/scheduler"
	"github.com/nabbar/slamd/internal/stats"
)

// rig wires one simulated client connection: the scheduler's ClientConn on
// one side of a net.Pipe, a bare protocol.Writer/Reader standing in for the
// remote client on the other.
type rig struct {
	connID string
	host   string
	server *endpoint.Conn
	remote *protocol.Writer
	reader *protocol.Reader
}

func newRig(connID, host string) *rig {
	server, client := net.Pipe()
	cfg := endpoint.Config{
		HandshakeTimeout:   time.Second,
		RequestTimeout:     2 * time.Second,
		KeepaliveInterval:  0,
		MaxMissedKeepalive: 3,
	}
	return &rig{
		connID: connID,
		host:   host,
		server: endpoint.New(connID, host, server, cfg),
		remote: protocol.NewWriter(client),
		reader: protocol.NewReader(client),
	}
}

// acceptAndComplete plays the remote client: reads one JobRequest, replies
// JobAccepted, then after a short delay sends a terminal JobResponse.
func (r *rig) acceptAndComplete(code protocol.JobResponseCode) {
	go func() {
		defer GinkgoRecover()
		env, err := r.reader.ReadEnvelope()
		Expect(err).To(BeNil())
		Expect(env.Tag).To(Equal(protocol.TagJobRequest))

		var req protocol.JobRequest
		Expect(env.Unpack(&req)).To(BeNil())

		accept, perr := protocol.Pack(env.ID, protocol.TagJobResponse, protocol.JobResponse{JobID: req.JobID, Code: protocol.JobAccepted})
		Expect(perr).To(BeNil())
		Expect(r.remote.WriteEnvelope(accept)).To(BeNil())

		time.Sleep(20 * time.Millisecond)

		bag := stats.Bag{"requests": stats.NewCounter("requests", time.Second)}
		payload, berr := bag.Marshal()
		Expect(berr).To(BeNil())

		term, perr := protocol.Pack(0, protocol.TagJobResponse, protocol.JobResponse{JobID: req.JobID, Code: code, StatPayload: payload})
		Expect(perr).To(BeNil())
		Expect(r.remote.WriteEnvelope(term)).To(BeNil())
	}()
}

var _ = Describe("Scheduler", func() {
	var (
		log  logging.Logger
		reg  *registry.Registry
		sch  *scheduler.Scheduler
		ctx  context.Context
		stop context.CancelFunc
		rigs []*rig
	)

	BeforeEach(func() {
		log = logging.New()
		reg = registry.New()
		sch = scheduler.New(log, reg)
		ctx, stop = context.WithCancel(context.Background())
		rigs = nil

		go sch.Run(ctx)
	})

	AfterEach(func() {
		stop()
		for _, r := range rigs {
			_ = r.server.Close()
		}
	})

	attachClient := func(connID, host string) *rig {
		r := newRig(connID, host)
		rigs = append(rigs, r)

		reg.RegisterClient(&registry.ClientRecord{ConnectionID: connID, Host: host, ClientID: connID})
		cc := endpoint.NewClientConn(r.server)
		sch.Attach(cc)
		go func() { _ = r.server.Run(ctx) }()
		return r
	}

	It("runs a single-client job through the start barrier to completion", func() {
		r := attachClient("conn-1", "host-a")
		r.acceptAndComplete(protocol.JobCompletedSuccessfully)

		var finished chan *job.Job = make(chan *job.Job, 1)
		sch.OnTerminal(func(j *job.Job) { finished <- j })

		spec := job.Spec{
			ID:                 "job-1",
			ClassName:          "http-get",
			Parameters:         paramset.Bag{},
			StartTime:          time.Now(),
			ClientCount:        1,
			ThreadsPerClient:   4,
			CollectionInterval: time.Second,
		}
		_, err := sch.Submit(spec)
		Expect(err).To(BeNil())

		var done *job.Job
		Eventually(finished, 2*time.Second).Should(Receive(&done))
		Expect(done.State()).To(Equal(job.StateCompletedSuccessfully))
		Expect(done.Statistics()).To(HaveKey("requests"))
	})

	It("records a failed client slot as completed-with-errors", func() {
		r := attachClient("conn-2", "host-b")
		r.acceptAndComplete(protocol.JobCompletedWithErrors)

		finished := make(chan *job.Job, 1)
		sch.OnTerminal(func(j *job.Job) { finished <- j })

		spec := job.Spec{
			ID:          "job-2",
			ClassName:   "http-get",
			Parameters:  paramset.Bag{},
			StartTime:   time.Now(),
			ClientCount: 1,
		}
		_, err := sch.Submit(spec)
		Expect(err).To(BeNil())

		var done *job.Job
		Eventually(finished, 2*time.Second).Should(Receive(&done))
		Expect(done.State()).To(Equal(job.StateCompletedWithErrors))
	})

	It("cancels a job when not enough clients are available", func() {
		spec := job.Spec{
			ID:          "job-3",
			ClassName:   "http-get",
			Parameters:  paramset.Bag{},
			StartTime:   time.Now(),
			ClientCount: 1,
		}
		j, err := sch.Submit(spec)
		Expect(err).To(BeNil())

		Eventually(j.State, 2*time.Second).Should(Equal(job.StateCancelled))
	})
})

var _ = Describe("Scheduler job accessors and control", func() {
	var (
		log  logging.Logger
		reg  *registry.Registry
		sch  *scheduler.Scheduler
		ctx  context.Context
		stop context.CancelFunc
	)

	BeforeEach(func() {
		log = logging.New()
		reg = registry.New()
		sch = scheduler.New(log, reg)
		ctx, stop = context.WithCancel(context.Background())
		go sch.Run(ctx)
	})

	AfterEach(func() { stop() })

	It("lists and looks up submitted jobs", func() {
		spec := job.Spec{
			ID:          "job-acc-1",
			ClassName:   "http-get",
			Parameters:  paramset.Bag{},
			StartTime:   time.Now().Add(time.Hour),
			ClientCount: 1,
		}
		_, err := sch.Submit(spec)
		Expect(err).To(BeNil())

		got, ok := sch.Job("job-acc-1")
		Expect(ok).To(BeTrue())
		Expect(got.ID()).To(Equal("job-acc-1"))

		_, ok = sch.Job("no-such-job")
		Expect(ok).To(BeFalse())

		all := sch.Jobs()
		Expect(all).To(HaveLen(1))
		Expect(all[0].ID()).To(Equal("job-acc-1"))
	})

	It("disables a pending job through ControlJob", func() {
		spec := job.Spec{
			ID:          "job-acc-2",
			ClassName:   "http-get",
			Parameters:  paramset.Bag{},
			StartTime:   time.Now().Add(time.Hour),
			ClientCount: 1,
		}
		_, err := sch.Submit(spec)
		Expect(err).To(BeNil())

		Expect(sch.ControlJob(ctx, "job-acc-2", protocol.JobControlDisable)).To(BeNil())

		got, ok := sch.Job("job-acc-2")
		Expect(ok).To(BeTrue())
		Expect(got.State()).To(Equal(job.StateDisabled))
	})

	It("rejects control of an unknown job", func() {
		err := sch.ControlJob(ctx, "ghost-job", protocol.JobControlStop)
		Expect(err).NotTo(BeNil())
	})
})
