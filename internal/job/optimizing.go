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
	"sync/atomic"
	"time"

	"github.com/nabbar/slamd/internal/paramset"
)

// Direction is the sense in which OptimizingSpec.Objective is optimized.
type Direction uint8

const (
	Maximize Direction = iota
	Minimize
)

// Better reports whether candidate strictly improves on current under d.
func (d Direction) Better(candidate, current float64) bool {
	if d == Minimize {
		return candidate < current
	}
	return candidate > current
}

// OptimizingSpec describes an optimizing-job: a base job description
// iterated over a thread-count range, driven toward a direction on an
// objective computed from each completed iteration.
type OptimizingSpec struct {
	ID        string
	BaseSpec  Spec
	ClassName string
	Parameters paramset.Bag

	MinThreads         int
	MaxThreads         int
	ThreadIncrement    int
	IterationDuration  time.Duration
	InterIterationGap  time.Duration
	MaxNonImproving    int
	RerunBest          bool
	RerunDuration      time.Duration

	Direction Direction
}

// Iteration records one child job's outcome for the optimizing-job driver's
// best-so-far bookkeeping.
type Iteration struct {
	JobID   string
	Threads int
	Value   float64
}

// OptimizingStatus is the optimizing-job's own small state, independent of
// any iteration's Job state ("transition to completed").
type OptimizingStatus uint8

const (
	OptimizingRunning OptimizingStatus = iota
	OptimizingCompleted
	OptimizingStoppedByUser
	OptimizingStoppedDueToError
)

func (s OptimizingStatus) String() string {
	switch s {
	case OptimizingRunning:
		return "running"
	case OptimizingCompleted:
		return "completed"
	case OptimizingStoppedByUser:
		return "stopped-by-user"
	case OptimizingStoppedDueToError:
		return "stopped-due-to-error"
	}
	return "unknown"
}

// OptimizingJob owns only the ids of its iterations plus the monotonic best-so-far the driver updates.
type OptimizingJob struct {
	mu sync.Mutex

	spec OptimizingSpec

	iterations   []Iteration
	best         *Iteration
	nonImproving int
	rerunJobID   string
	stopReason   string

	status     atomic.Uint32
	stopSignal atomic.Bool // set by StopByUser, polled by the driver's loop condition
}

func NewOptimizingJob(spec OptimizingSpec) *OptimizingJob {
	return &OptimizingJob{spec: spec}
}

// Status returns the optimizing-job's own completion state.
func (o *OptimizingJob) Status() OptimizingStatus {
	return OptimizingStatus(o.status.Load())
}

// Running reports whether the driver's loop condition ("state == running")
// still holds — false once an operator stop has been requested or the
// optimizing-job has already reached a terminal status.
func (o *OptimizingJob) Running() bool {
	return !o.stopSignal.Load() && o.Status() == OptimizingRunning
}

// StopByUser requests an operator-initiated stop; the driver observes this
// via Running() at the top of its next loop iteration.
func (o *OptimizingJob) StopByUser() {
	o.stopSignal.Store(true)
}

// Complete marks the optimizing-job finished normally (loop exhausted the
// thread range or hit the non-improving limit).
func (o *OptimizingJob) Complete() {
	o.finish(OptimizingCompleted, "")
}

// StopDueToError marks the optimizing-job stopped because an iteration ended
// in *stopped-due-to-error*.
func (o *OptimizingJob) StopDueToError(reason string) {
	o.finish(OptimizingStoppedDueToError, reason)
}

func (o *OptimizingJob) finish(status OptimizingStatus, reason string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if OptimizingStatus(o.status.Load()) != OptimizingRunning {
		return
	}
	if o.stopSignal.Load() {
		status = OptimizingStoppedByUser
	}
	o.stopReason = reason
	o.status.Store(uint32(status))
}

// StopReason returns the reason recorded by StopDueToError, if any.
func (o *OptimizingJob) StopReason() string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.stopReason
}

func (o *OptimizingJob) ID() string           { return o.spec.ID }
func (o *OptimizingJob) Spec() OptimizingSpec { return o.spec }

// RecordIteration appends a completed iteration and updates best-so-far and
// the non-improving counter loop body. It returns whether
// this iteration strictly improved on the previous best.
func (o *OptimizingJob) RecordIteration(it Iteration) bool {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.iterations = append(o.iterations, it)

	if o.best == nil || o.spec.Direction.Better(it.Value, o.best.Value) {
		cp := it
		o.best = &cp
		o.nonImproving = 0
		return true
	}
	o.nonImproving++
	return false
}

// ShouldStop reports whether the non-improving count has reached the
// configured maximum (stop criterion K).
func (o *OptimizingJob) ShouldStop() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.spec.MaxNonImproving > 0 && o.nonImproving >= o.spec.MaxNonImproving
}

// Best returns the best iteration recorded so far, or false if none yet.
func (o *OptimizingJob) Best() (Iteration, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.best == nil {
		return Iteration{}, false
	}
	return *o.best, true
}

// Iterations returns a copy of every iteration recorded so far, in order.
func (o *OptimizingJob) Iterations() []Iteration {
	o.mu.Lock()
	defer o.mu.Unlock()
	out := make([]Iteration, len(o.iterations))
	copy(out, o.iterations)
	return out
}

// SetRerunJobID records the id of the optional rerun-best iteration.
func (o *OptimizingJob) SetRerunJobID(id string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.rerunJobID = id
}

func (o *OptimizingJob) RerunJobID() string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.rerunJobID
}
