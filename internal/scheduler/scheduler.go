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

// Package scheduler implements the pending queue, the multi-client start
// barrier, the termination policy, and the per-job statistic aggregation
// trigger.
package scheduler

import (
	"container/heap"
	"context"
	"sync"
	"time"

	"github.com/nabbar/slamd/internal/endpoint"
	"github.com/nabbar/slamd/internal/errs"
	"github.com/nabbar/slamd/internal/job"
	"github.com/nabbar/slamd/internal/logging"
	"github.com/nabbar/slamd/internal/protocol"
	"github.com/nabbar/slamd/internal/registry"
	"github.com/nabbar/slamd/internal/stats"
)

// DefaultBarrierSlack is the extra lead time given to a JobRequest's
// start-time so that clock skew between clients does not desynchronise the
// barrier.
const DefaultBarrierSlack = 5 * time.Second

// TerminalHook is called once a job reaches a terminal state and its
// statistics (if any) have been aggregated — the optimizing-job driver
// attaches itself here to learn when an iteration finishes.
type TerminalHook func(j *job.Job)

// Scheduler drives every job from submission through its terminal state.
type Scheduler struct {
	log logging.Logger
	reg *registry.Registry

	barrierSlack time.Duration

	mu      sync.Mutex
	conns   map[string]*endpoint.ClientConn
	jobs    map[string]*job.Job
	runtime map[string]*jobRuntime
	pending pendingQueue
	seq     int64

	wake chan struct{}

	hooksMu sync.Mutex
	hooks   []TerminalHook
}

// New builds a Scheduler bound to reg for client selection. log must not be
// nil.
func New(log logging.Logger, reg *registry.Registry) *Scheduler {
	return &Scheduler{
		log:          log,
		reg:          reg,
		barrierSlack: DefaultBarrierSlack,
		conns:        map[string]*endpoint.ClientConn{},
		jobs:         map[string]*job.Job{},
		runtime:      map[string]*jobRuntime{},
		wake:         make(chan struct{}, 1),
	}
}

// OnTerminal registers a callback invoked after every job's terminal
// transition and statistic aggregation.
func (s *Scheduler) OnTerminal(h TerminalHook) {
	s.hooksMu.Lock()
	defer s.hooksMu.Unlock()
	s.hooks = append(s.hooks, h)
}

func (s *Scheduler) fireHooks(j *job.Job) {
	s.hooksMu.Lock()
	hooks := append([]TerminalHook(nil), s.hooks...)
	s.hooksMu.Unlock()
	for _, h := range hooks {
		h(j)
	}
}

// Attach registers a newly handshaken client connection, wiring the
// scheduler's JobResponse/RealTimeStatistics handlers onto it. Call once per
// connection, after registry.RegisterClient and before Conn.Run.
func (s *Scheduler) Attach(c *endpoint.ClientConn) {
	s.mu.Lock()
	s.conns[c.ConnectionID] = c
	s.mu.Unlock()

	c.Handle(protocol.TagJobResponse, s.handleJobResponse)
	c.Handle(protocol.TagRealTimeStatistics, s.handleRealTimeStatistics)
	c.Handle(protocol.TagKeepAlive, handleKeepAlive)
}

// handleKeepAlive answers a client's own keepalive echo: Conn.Run already
// touches the connection's last-activity clock for every received envelope,
// so there is nothing further to do here. Without a registered handler an
// echoed KeepAlive falls into Conn.Run's unmatched-message-id branch and
// tears the connection down roughly once per keepalive interval.
func handleKeepAlive(*endpoint.Conn, protocol.Envelope) {}

// Detach removes a connection on disconnect. If the connection was occupying
// a slot in a still-running job, that slot is recorded as failed under the
// client-disconnect-during-run rule and the job proceeds accordingly.
func (s *Scheduler) Detach(connID string) {
	s.mu.Lock()
	delete(s.conns, connID)
	runtimes := make([]*jobRuntime, 0, len(s.runtime))
	jobs := make([]*job.Job, 0, len(s.runtime))
	for id, rt := range s.runtime {
		if _, tracked := rt.clientNumber[connID]; tracked {
			runtimes = append(runtimes, rt)
			jobs = append(jobs, s.jobs[id])
		}
	}
	s.mu.Unlock()

	for i, rt := range runtimes {
		j := jobs[i]
		cn := rt.clientNumber[connID]
		j.RecordClientFailure(cn, "client disconnected during run")
		if rt.forceReport(connID, protocol.JobResponse{JobID: j.ID(), Code: protocol.JobAborted, Message: "disconnected"}) {
			s.finish(j, rt)
		}
	}
}

// Submit enqueues spec as a new pending job.
func (s *Scheduler) Submit(spec job.Spec) (*job.Job, errs.Error) {
	j := job.New(spec)
	if err := j.Enqueue(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.jobs[j.ID()] = j
	s.seq++
	heap.Push(&s.pending, &pendingEntry{job: j, start: spec.StartTime, seq: s.seq})
	s.mu.Unlock()

	select {
	case s.wake <- struct{}{}:
	default:
	}
	return j, nil
}

// Cancel moves a pending job to cancelled and drops it from the queue; it is
// a no-op once the job has already fired.
func (s *Scheduler) Cancel(jobID, reason string) errs.Error {
	s.mu.Lock()
	j, ok := s.jobs[jobID]
	s.mu.Unlock()
	if !ok {
		return errs.CodeJobOther.Errorf("no such job %q", jobID)
	}
	if err := j.Cancel(reason); err != nil {
		return err
	}
	s.fireHooks(j)
	return nil
}

// Run drives the dispatch loop until ctx is cancelled: it sleeps until the
// earliest pending job's start time, fires every job whose time has arrived,
// and repeats.
func (s *Scheduler) Run(ctx context.Context) {
	for {
		s.mu.Lock()
		next := s.pending.peek()
		s.mu.Unlock()

		var timer *time.Timer
		if next == nil {
			timer = time.NewTimer(time.Hour)
		} else {
			timer = time.NewTimer(time.Until(next.start))
		}

		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-s.wake:
			timer.Stop()
		case <-timer.C:
		}

		s.fireReady(ctx)
	}
}

func (s *Scheduler) fireReady(ctx context.Context) {
	now := time.Now()
	for {
		s.mu.Lock()
		next := s.pending.peek()
		if next == nil || next.start.After(now) {
			s.mu.Unlock()
			return
		}
		heap.Pop(&s.pending)
		s.mu.Unlock()

		if next.job.State() != job.StatePending {
			continue // disabled/cancelled while queued
		}
		go s.execute(ctx, next.job)
	}
}

func (s *Scheduler) connFor(connID string) (*endpoint.ClientConn, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.conns[connID]
	return c, ok
}

func (s *Scheduler) handleJobResponse(c *endpoint.Conn, e protocol.Envelope) {
	var resp protocol.JobResponse
	if err := e.Unpack(&resp); err != nil {
		s.log.Warning("malformed JobResponse", logging.Fields{"connection": c.ConnectionID, "error": err.Error()})
		return
	}

	s.mu.Lock()
	rt, ok := s.runtime[resp.JobID]
	j := s.jobs[resp.JobID]
	s.mu.Unlock()
	if !ok {
		return
	}

	if resp.Code.IsTerminal() && len(resp.StatPayload) > 0 {
		s.attachClientStats(rt, c.ConnectionID, resp.StatPayload)
	}

	if resp.Code == protocol.JobCompletedWithErrors {
		if cn, ok := rt.clientNumberOf(c.ConnectionID); ok {
			j.RecordClientFailure(cn, "client completed with errors: "+resp.Message)
		}
	}

	if rt.deliver(c.ConnectionID, resp) {
		s.finish(j, rt)
	}
}

func (s *Scheduler) handleRealTimeStatistics(c *endpoint.Conn, e protocol.Envelope) {
	var rts protocol.RealTimeStatistics
	if err := e.Unpack(&rts); err != nil {
		s.log.Warning("malformed RealTimeStatistics", logging.Fields{"connection": c.ConnectionID, "error": err.Error()})
		return
	}
	// Intermediate interval snapshots are informational only;
	// only the final JobResponse payload feeds aggregation.
}

func (s *Scheduler) attachClientStats(rt *jobRuntime, connID string, payload []byte) {
	bag, err := stats.UnmarshalBag(payload)
	if err != nil {
		s.log.Warning("failed to decode client statistics payload", logging.Fields{"error": err.Error()})
		return
	}
	for name, t := range bag {
		rt.attachTracker(connID, name, t)
	}
}

func (s *Scheduler) finish(j *job.Job, rt *jobRuntime) {
	aggregateStats(j, rt.trackers(), rt.clientNumberOf, s.log)

	var err errs.Error
	if j.AnyFailed() {
		err = j.Complete()
	} else {
		switch rt.dominantCode() {
		case protocol.JobStoppedByOperator:
			err = j.StopByUser()
		case protocol.JobStoppedStopTimeReached:
			err = j.StopDueToStopTime()
		case protocol.JobStoppedDurationReached:
			err = j.StopDueToDuration()
		default:
			err = j.Complete()
		}
	}
	if err != nil {
		s.log.Warning("job completion transition rejected", logging.Fields{"job": j.ID(), "error": err.Error()})
	}

	for _, slot := range j.Slots() {
		s.reg.MarkIdle(slot.ConnectionID)
		if c, ok := s.connFor(slot.ConnectionID); ok {
			_ = c.LeaveRunning()
		}
	}

	s.mu.Lock()
	delete(s.runtime, j.ID())
	s.mu.Unlock()

	s.fireHooks(j)
}
