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

package job

import (
	"sync"
	"time"

	"github.com/nabbar/slamd/internal/errs"
	"github.com/nabbar/slamd/internal/paramset"
	"github.com/nabbar/slamd/internal/stats"
)

// ClientSlot is one of a job's N assigned positions, tracking both the
// client occupying it and whether that client reported successfully.
type ClientSlot struct {
	ClientNumber int
	ConnectionID string
	Failed       bool
	StopReason   string
}

// Spec is the immutable scheduling description a Job is created from —
// everything the operator supplies before the scheduler ever touches it.
type Spec struct {
	ID                 string
	ClassName          string
	Parameters         paramset.Bag
	StartTime          time.Time
	StopTime           time.Time
	Duration           time.Duration
	ClientCount        int
	RequestedClients   []string
	ThreadsPerClient   int
	ThreadStartupDelay time.Duration
	CollectionInterval time.Duration
	WarmUp             time.Duration
	CoolDown           time.Duration
	StatPersistInterval time.Duration
	ParentOptimizingID string
}

// Job is one scheduled execution of Spec.ClassName across Spec.ClientCount
// clients. All state transitions go through transition, which is the only
// place that mutates state and is guarded by mu.
type Job struct {
	mu sync.Mutex

	spec  Spec
	state State

	slots      []ClientSlot
	stopReason string

	trackers map[string]stats.Tracker
}

// New creates a job in StateUninitialized; call Enqueue to move it to
// StatePending once the scheduler accepts it.
func New(spec Spec) *Job {
	return &Job{spec: spec, state: StateUninitialized, trackers: map[string]stats.Tracker{}}
}

func (j *Job) ID() string      { return j.spec.ID }
func (j *Job) Spec() Spec      { return j.spec }

func (j *Job) State() State {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.state
}

func (j *Job) StopReason() string {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.stopReason
}

// Slots returns a copy of the job's assigned client slots.
func (j *Job) Slots() []ClientSlot {
	j.mu.Lock()
	defer j.mu.Unlock()
	out := make([]ClientSlot, len(j.slots))
	copy(out, j.slots)
	return out
}

// transition moves the job to "to", rejecting any edge not present in
// canTransition. Callers hold no lock; transition takes j.mu itself.
func (j *Job) transition(to State, reason string) errs.Error {
	j.mu.Lock()
	defer j.mu.Unlock()

	if !j.state.Next(to) {
		return errs.CodeJobOther.Errorf("job %s: illegal transition %s -> %s", j.spec.ID, j.state, to)
	}
	j.state = to
	if reason != "" {
		j.stopReason = reason
	}
	return nil
}

// Enqueue moves an uninitialized job into the pending queue.
func (j *Job) Enqueue() errs.Error {
	return j.transition(StatePending, "")
}

// Disable moves an uninitialized or pending job out of scheduling entirely.
func (j *Job) Disable() errs.Error {
	return j.transition(StateDisabled, "operator disabled")
}

// Cancel moves a pending job to cancelled, e.g. after client selection fails
// ("insufficient clients").
func (j *Job) Cancel(reason string) errs.Error {
	return j.transition(StateCancelled, reason)
}

// Start assigns slots and moves a pending job to running once the start
// barrier has every client's acceptance.
func (j *Job) Start(slots []ClientSlot) errs.Error {
	if err := j.transition(StateRunning, ""); err != nil {
		return err
	}
	j.mu.Lock()
	j.slots = append([]ClientSlot(nil), slots...)
	j.mu.Unlock()
	return nil
}

// RecordClientFailure marks one slot failed, e.g. on disconnect mid-run
// ("Client disconnect during run").
func (j *Job) RecordClientFailure(clientNumber int, reason string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	for i := range j.slots {
		if j.slots[i].ClientNumber == clientNumber {
			j.slots[i].Failed = true
			j.slots[i].StopReason = reason
			return
		}
	}
}

// AllReported reports whether every assigned slot has a terminal outcome
// recorded, i.e. either a failure or a successful stat attach.
func (j *Job) AllReported(reported map[int]bool) bool {
	j.mu.Lock()
	defer j.mu.Unlock()
	for _, s := range j.slots {
		if s.Failed {
			continue
		}
		if !reported[s.ClientNumber] {
			return false
		}
	}
	return true
}

// AnyFailed reports whether any assigned slot failed.
func (j *Job) AnyFailed() bool {
	j.mu.Lock()
	defer j.mu.Unlock()
	for _, s := range j.slots {
		if s.Failed {
			return true
		}
	}
	return false
}

// Complete moves a running job through completing to its terminal
// completed-* state, chosen by whether any slot failed.
func (j *Job) Complete() errs.Error {
	if err := j.transition(StateCompleting, ""); err != nil {
		return err
	}
	if j.AnyFailed() {
		return j.transition(StateCompletedWithErrors, "one or more clients failed")
	}
	return j.transition(StateCompletedSuccessfully, "")
}

// StopByUser moves a running job to stopped-by-user, an operator-initiated
// stop.
func (j *Job) StopByUser() errs.Error {
	return j.transition(StateStoppedByUser, "operator stop")
}

// StopDueToError moves a running job to stopped-due-to-error, the job-level
// outcome the optimizing driver treats as a hard stop.
func (j *Job) StopDueToError(reason string) errs.Error {
	return j.transition(StateStoppedDueToError, reason)
}

// StopDueToStopTime moves a running job to stopped-due-to-stop-time.
func (j *Job) StopDueToStopTime() errs.Error {
	return j.transition(StateStoppedDueToStopTime, "stop time reached")
}

// StopDueToDuration moves a running job to stopped-due-to-duration.
func (j *Job) StopDueToDuration() errs.Error {
	return j.transition(StateStoppedDueToDuration, "duration reached")
}

// AttachStatistics records an aggregated tracker under its statistic name.
// Statistics are only meaningful once State().Terminal() is true; no such
// restriction is enforced here since the scheduler only calls this after a
// terminal transition.
func (j *Job) AttachStatistics(name string, t stats.Tracker) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.trackers[name] = t
}

// Statistics returns the job's attached trackers keyed by statistic name.
func (j *Job) Statistics() map[string]stats.Tracker {
	j.mu.Lock()
	defer j.mu.Unlock()
	out := make(map[string]stats.Tracker, len(j.trackers))
	for k, v := range j.trackers {
		out[k] = v
	}
	return out
}
