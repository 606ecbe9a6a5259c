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

package scheduler

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/nabbar/slamd/internal/errs"
	"github.com/nabbar/slamd/internal/job"
	"github.com/nabbar/slamd/internal/logging"
	"github.com/nabbar/slamd/internal/protocol"
	"github.com/nabbar/slamd/internal/registry"
)

// execute carries one ready job through the start barrier and, on success,
// waits out its run to termination (steps 1-3).
func (s *Scheduler) execute(ctx context.Context, j *job.Job) {
	spec := j.Spec()

	chosen, err := s.reg.Select(j.ID(), registry.SelectionRequest{
		Count:            spec.ClientCount,
		RequestedClients: spec.RequestedClients,
	})
	if err != nil {
		s.log.Warning("client selection failed, job cancelled",
			logging.Fields{"job": j.ID(), "error": err.Error()})
		_ = j.Cancel(err.Error())
		s.fireHooks(j)
		return
	}

	params, perr := spec.Parameters.Marshal()
	if perr != nil {
		s.log.Warning("parameter bag failed to encode, job cancelled",
			logging.Fields{"job": j.ID(), "error": perr.Error()})
		s.reg.Release(chosen)
		_ = j.Cancel(perr.Error())
		s.fireHooks(j)
		return
	}

	start := spec.StartTime
	if floor := time.Now().Add(s.barrierSlack); start.Before(floor) {
		start = floor
	}

	clientNumber := make(map[string]int, len(chosen))
	for i, c := range chosen {
		clientNumber[c.ConnectionID] = i + 1
	}
	rt := newJobRuntime(clientNumber)

	s.mu.Lock()
	s.runtime[j.ID()] = rt
	s.mu.Unlock()

	slots, ok := s.enterBarrier(ctx, j, rt, chosen, clientNumber, start, params)
	if !ok {
		s.reg.Release(chosen)
		s.mu.Lock()
		delete(s.runtime, j.ID())
		s.mu.Unlock()
		return
	}

	if err := j.Start(slots); err != nil {
		s.log.Warning("job failed to enter running state", logging.Fields{"job": j.ID(), "error": err.Error()})
		s.reg.Release(chosen)
		s.mu.Lock()
		delete(s.runtime, j.ID())
		s.mu.Unlock()
		return
	}
	for _, c := range chosen {
		if conn, ok := s.connFor(c.ConnectionID); ok {
			_ = conn.EnterRunning()
		}
	}

	select {
	case <-rt.done:
	case <-ctx.Done():
	}

	s.mu.Lock()
	_, stillTracked := s.runtime[j.ID()]
	s.mu.Unlock()
	if stillTracked {
		s.finish(j, rt)
	}
}

// enterBarrier sends every selected client its JobRequest concurrently and
// waits for JobAccepted from all of them, reverting the whole selection on
// the first rejection, timeout, or disconnect. The fan-out/fan-in and
// first-error cancellation is an errgroup.Group, the same structured
// concurrency SPEC_FULL.md's domain stack calls for at this join point.
func (s *Scheduler) enterBarrier(
	ctx context.Context,
	j *job.Job,
	rt *jobRuntime,
	chosen []*registry.ClientRecord,
	clientNumber map[string]int,
	start time.Time,
	params []byte,
) ([]job.ClientSlot, bool) {
	spec := j.Spec()

	barrierCtx, cancel := context.WithDeadline(ctx, start.Add(s.barrierSlack))
	defer cancel()

	g, gctx := errgroup.WithContext(barrierCtx)
	slots := make([]job.ClientSlot, len(chosen))

	for i, c := range chosen {
		i, c := i, c
		conn, ok := s.connFor(c.ConnectionID)
		if !ok {
			g.Go(func() error { return errs.CodeTransportClosed.Errorf("client %s not connected", c.ConnectionID) })
			continue
		}
		num := clientNumber[c.ConnectionID]

		g.Go(func() error {
			req := protocol.JobRequest{
				JobID:               j.ID(),
				ClassName:           spec.ClassName,
				StartTime:           start,
				StopTime:            spec.StopTime,
				Duration:            spec.Duration,
				ClientNumber:        num,
				Threads:             spec.ThreadsPerClient,
				ThreadStartupDelay:  spec.ThreadStartupDelay,
				CollectionInterval:  spec.CollectionInterval,
				WarmUp:              spec.WarmUp,
				CoolDown:            spec.CoolDown,
				Parameters:          params,
				StatPersistInterval: spec.StatPersistInterval,
			}
			resp, err := conn.SendJobRequest(gctx, req)
			if err != nil {
				return err
			}
			if resp.Code != protocol.JobAccepted {
				return errs.CodeJobRestricted.Errorf("client %s rejected job %s", c.ConnectionID, j.ID())
			}
			slots[i] = job.ClientSlot{ClientNumber: num, ConnectionID: c.ConnectionID}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		s.log.Warning("start barrier failed, reverting selection", logging.Fields{"job": j.ID(), "error": err.Error()})
		return nil, false
	}
	return slots, true
}
