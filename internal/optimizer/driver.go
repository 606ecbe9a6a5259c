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

// Package optimizer implements the optimizing-job driver: it iterates a
// base job over a thread-count range, tracks the best iteration against a
// caller-supplied objective, and optionally reruns the winner.
package optimizer

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/nabbar/slamd/internal/errs"
	"github.com/nabbar/slamd/internal/job"
	"github.com/nabbar/slamd/internal/logging"
	"github.com/nabbar/slamd/internal/scheduler"
)

// Objective computes the scalar the driver optimizes from one completed
// iteration's Job record.
type Objective func(j *job.Job) (float64, errs.Error)

// CompletionHook is called once an optimizing-job reaches its own terminal
// status.
type CompletionHook func(o *job.OptimizingJob)

// Driver runs one or more optimizing-jobs against a shared Scheduler. A
// single Driver may drive many concurrent Run calls; each keeps its own
// iteration sequence.
type Driver struct {
	sched     *scheduler.Scheduler
	log       logging.Logger
	objective Objective

	mu      sync.Mutex
	waiters map[string]chan *job.Job

	hooksMu sync.Mutex
	hooks   []CompletionHook
}

// New builds a Driver bound to sched. objective is consulted once per
// successfully completed iteration.
func New(log logging.Logger, sched *scheduler.Scheduler, objective Objective) *Driver {
	d := &Driver{
		sched:     sched,
		log:       log,
		objective: objective,
		waiters:   map[string]chan *job.Job{},
	}
	sched.OnTerminal(d.dispatch)
	return d
}

// OnCompletion registers a callback invoked once an optimizing-job finishes.
func (d *Driver) OnCompletion(h CompletionHook) {
	d.hooksMu.Lock()
	defer d.hooksMu.Unlock()
	d.hooks = append(d.hooks, h)
}

func (d *Driver) fireHooks(o *job.OptimizingJob) {
	d.hooksMu.Lock()
	hooks := append([]CompletionHook(nil), d.hooks...)
	d.hooksMu.Unlock()
	for _, h := range hooks {
		h(o)
	}
}

// dispatch is the scheduler.TerminalHook that routes a terminal Job to
// whichever Run call is waiting on its id.
func (d *Driver) dispatch(j *job.Job) {
	d.mu.Lock()
	ch, ok := d.waiters[j.ID()]
	if ok {
		delete(d.waiters, j.ID())
	}
	d.mu.Unlock()
	if ok {
		ch <- j
	}
}

func (d *Driver) awaitTerminal(jobID string) <-chan *job.Job {
	ch := make(chan *job.Job, 1)
	d.mu.Lock()
	d.waiters[jobID] = ch
	d.mu.Unlock()
	return ch
}

// Run drives spec to completion: submit one iteration per thread-count
// step, wait for its terminal state, score it, track the best-so-far, and
// stop on the non-improving limit, an operator stop, max-threads
// exhaustion, or an iteration ending in any terminal state other than
// completed-successfully or stopped-by-user. If
// spec.RerunBest is set and a best iteration was found, a final rerun
// iteration is submitted at that thread-count.
func (d *Driver) Run(ctx context.Context, spec job.OptimizingSpec) (*job.OptimizingJob, errs.Error) {
	o := job.NewOptimizingJob(spec)

	seq := 0
iterations:
	for t := spec.MinThreads; spec.MaxThreads <= 0 || t <= spec.MaxThreads; t += spec.ThreadIncrement {
		if !o.Running() {
			break
		}
		if ctx.Err() != nil {
			o.StopDueToError(ctx.Err().Error())
			d.fireHooks(o)
			return o, errs.CodeJobOther.Error(ctx.Err())
		}

		seq++
		j, err := d.runIteration(ctx, spec, seq, t)
		if err != nil {
			o.StopDueToError(err.Error())
			break
		}

		switch j.State() {
		case job.StateCompletedSuccessfully:
			// fall through to objective scoring below
		case job.StateStoppedByUser:
			o.StopByUser()
			break iterations
		default:
			// Every other terminal state is a hard stop: record the error
			// and break out of the iteration loop.
			reason := j.StopReason()
			if reason == "" {
				reason = j.State().String()
			}
			o.StopDueToError(reason)
			d.fireHooks(o)
			return o, errs.CodeJobExecution.Errorf("iteration %s ended in state %s", j.ID(), j.State().String())
		}

		value, verr := d.objective(j)
		if verr != nil {
			d.log.Warning("objective evaluation failed, stopping optimizing-job",
				logging.Fields{"optimizing_job": spec.ID, "iteration": j.ID(), "error": verr.Error()})
			o.StopDueToError(verr.Error())
			break
		}

		o.RecordIteration(job.Iteration{JobID: j.ID(), Threads: t, Value: value})
		if o.ShouldStop() {
			break
		}

		if spec.InterIterationGap > 0 {
			select {
			case <-time.After(spec.InterIterationGap):
			case <-ctx.Done():
				o.StopDueToError(ctx.Err().Error())
				d.fireHooks(o)
				return o, errs.CodeJobOther.Error(ctx.Err())
			}
		}
	}

	if spec.RerunBest {
		d.rerun(ctx, spec, o)
	}

	o.Complete()
	d.fireHooks(o)
	return o, nil
}

func (d *Driver) runIteration(ctx context.Context, spec job.OptimizingSpec, seq, threads int) (*job.Job, errs.Error) {
	child := spec.BaseSpec
	child.ID = fmt.Sprintf("%s-iter-%d", spec.ID, seq)
	child.ClassName = spec.ClassName
	child.Parameters = spec.Parameters
	child.ThreadsPerClient = threads
	child.Duration = spec.IterationDuration
	child.ParentOptimizingID = spec.ID

	j, err := d.sched.Submit(child)
	if err != nil {
		return nil, err
	}

	ch := d.awaitTerminal(j.ID())
	select {
	case <-ch:
		return j, nil
	case <-ctx.Done():
		return j, errs.CodeJobOther.Error(ctx.Err())
	}
}

// rerun re-executes the best-scoring thread-count for rerun-duration and
// records it on o, without folding its outcome back into best-so-far
// bookkeeping.
func (d *Driver) rerun(ctx context.Context, spec job.OptimizingSpec, o *job.OptimizingJob) {
	best, ok := o.Best()
	if !ok {
		return
	}

	child := spec.BaseSpec
	child.ID = fmt.Sprintf("%s-rerun", spec.ID)
	child.ClassName = spec.ClassName
	child.Parameters = spec.Parameters
	child.ThreadsPerClient = best.Threads
	child.Duration = spec.RerunDuration
	child.ParentOptimizingID = spec.ID

	j, err := d.sched.Submit(child)
	if err != nil {
		d.log.Warning("rerun-best submission failed", logging.Fields{"optimizing_job": spec.ID, "error": err.Error()})
		return
	}

	ch := d.awaitTerminal(j.ID())
	select {
	case <-ch:
		o.SetRerunJobID(j.ID())
	case <-ctx.Done():
	}
}
