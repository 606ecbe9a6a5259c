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
	"sort"

	"github.com/nabbar/slamd/internal/errs"
	"github.com/nabbar/slamd/internal/job"
	"github.com/nabbar/slamd/internal/logging"
	"github.com/nabbar/slamd/internal/protocol"
)

// Job returns the tracked job by id, for status inspection by the admin API.
func (s *Scheduler) Job(id string) (*job.Job, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	j, ok := s.jobs[id]
	return j, ok
}

// Jobs returns every tracked job, sorted by id, for listing by the admin API.
func (s *Scheduler) Jobs() []*job.Job {
	s.mu.Lock()
	out := make([]*job.Job, 0, len(s.jobs))
	for _, j := range s.jobs {
		out = append(out, j)
	}
	s.mu.Unlock()

	sort.Slice(out, func(i, k int) bool { return out[i].ID() < out[k].ID() })
	return out
}

// ControlJob sends a job-control request (stop/abort) to every client
// currently running jobID and records the operator's intent on the job
// itself. Disable only transitions the job and sends nothing to clients. A
// pending (not yet started) job has no client slots to notify; only its own
// state transitions.
func (s *Scheduler) ControlJob(ctx context.Context, jobID string, action protocol.JobControlAction) errs.Error {
	j, ok := s.Job(jobID)
	if !ok {
		return errs.CodeJobOther.Errorf("no such job %q", jobID)
	}

	switch action {
	case protocol.JobControlStop:
		if err := j.StopByUser(); err != nil {
			return err
		}
	case protocol.JobControlDisable:
		if err := j.Disable(); err != nil {
			return err
		}
		s.fireHooks(j)
		return nil
	case protocol.JobControlAbort:
		if err := j.StopByUser(); err != nil {
			return err
		}
	}

	for _, slot := range j.Slots() {
		conn, ok := s.connFor(slot.ConnectionID)
		if !ok {
			continue
		}
		if _, err := conn.SendJobControl(ctx, jobID, action); err != nil {
			s.log.Warning("job control delivery failed", logging.Fields{
				"job": jobID, "client": slot.ConnectionID, "error": err.Error(),
			})
		}
	}
	return nil
}
