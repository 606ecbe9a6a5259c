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

package job_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/nabbar/slamd/internal/job"
	"github.com/nabbar/slamd/internal/stats"
)

var _ = Describe("Job", func() {
	newJob := func(n int) *job.Job {
		return job.New(job.Spec{ID: "j1", ClassName: "noop", ClientCount: n})
	}

	It("starts uninitialized", func() {
		Expect(newJob(1).State()).To(Equal(job.StateUninitialized))
	})

	It("walks the single-client happy path to completed-successfully", func() {
		j := newJob(1)
		Expect(j.Enqueue()).To(BeNil())
		Expect(j.Start([]job.ClientSlot{{ClientNumber: 0, ConnectionID: "c1"}})).To(BeNil())
		Expect(j.State()).To(Equal(job.StateRunning))

		Expect(j.Complete()).To(BeNil())
		Expect(j.State()).To(Equal(job.StateCompletedSuccessfully))
	})

	It("moves to completed-with-errors when any slot failed", func() {
		j := newJob(3)
		Expect(j.Enqueue()).To(BeNil())
		Expect(j.Start([]job.ClientSlot{
			{ClientNumber: 0, ConnectionID: "c1"},
			{ClientNumber: 1, ConnectionID: "c2"},
			{ClientNumber: 2, ConnectionID: "c3"},
		})).To(BeNil())

		j.RecordClientFailure(1, "disconnected mid-run")

		Expect(j.Complete()).To(BeNil())
		Expect(j.State()).To(Equal(job.StateCompletedWithErrors))
		Expect(j.StopReason()).To(ContainSubstring("failed"))
	})

	It("rejects an illegal transition", func() {
		j := newJob(1)
		Expect(j.Start(nil)).ToNot(BeNil())
	})

	It("never regresses state (monotonicity)", func() {
		j := newJob(1)
		Expect(j.Enqueue()).To(BeNil())
		Expect(j.Cancel("insufficient clients")).To(BeNil())
		Expect(j.State()).To(Equal(job.StateCancelled))
		Expect(j.Enqueue()).ToNot(BeNil())
	})

	It("attaches statistics after a terminal transition", func() {
		j := newJob(1)
		Expect(j.Enqueue()).To(BeNil())
		Expect(j.Start([]job.ClientSlot{{ClientNumber: 0}})).To(BeNil())
		Expect(j.Complete()).To(BeNil())

		c := stats.NewCounter("Operations Completed", 0)
		c.Add(42)
		j.AttachStatistics("Operations Completed", c)

		got := j.Statistics()["Operations Completed"]
		Expect(got).ToNot(BeNil())
		Expect(got.Summary()).To(ContainSubstring("42"))
	})
})

var _ = Describe("OptimizingJob", func() {
	It("tracks best-so-far under maximize and resets non-improving on strict improvement", func() {
		o := job.NewOptimizingJob(job.OptimizingSpec{
			ID: "opt1", MinThreads: 1, MaxThreads: 5, ThreadIncrement: 1,
			MaxNonImproving: 2, Direction: job.Maximize,
		})

		improved := o.RecordIteration(job.Iteration{JobID: "j1", Threads: 1, Value: 100})
		Expect(improved).To(BeTrue())

		improved = o.RecordIteration(job.Iteration{JobID: "j2", Threads: 2, Value: 180})
		Expect(improved).To(BeTrue())

		improved = o.RecordIteration(job.Iteration{JobID: "j3", Threads: 3, Value: 200})
		Expect(improved).To(BeTrue())
		Expect(o.ShouldStop()).To(BeFalse())

		improved = o.RecordIteration(job.Iteration{JobID: "j4", Threads: 4, Value: 180})
		Expect(improved).To(BeFalse())
		Expect(o.ShouldStop()).To(BeFalse())

		improved = o.RecordIteration(job.Iteration{JobID: "j5", Threads: 5, Value: 160})
		Expect(improved).To(BeFalse())
		Expect(o.ShouldStop()).To(BeTrue())

		best, ok := o.Best()
		Expect(ok).To(BeTrue())
		Expect(best.Threads).To(Equal(3))
		Expect(best.Value).To(Equal(200.0))
	})

	It("picks the lower value under minimize", func() {
		o := job.NewOptimizingJob(job.OptimizingSpec{Direction: job.Minimize, MaxNonImproving: 1})
		o.RecordIteration(job.Iteration{JobID: "a", Threads: 1, Value: 50})
		improved := o.RecordIteration(job.Iteration{JobID: "b", Threads: 2, Value: 40})
		Expect(improved).To(BeTrue())

		best, _ := o.Best()
		Expect(best.Threads).To(Equal(2))
	})

	It("starts running and transitions to completed exactly once", func() {
		o := job.NewOptimizingJob(job.OptimizingSpec{ID: "opt2", Direction: job.Maximize})
		Expect(o.Status()).To(Equal(job.OptimizingRunning))
		Expect(o.Running()).To(BeTrue())

		o.Complete()
		Expect(o.Status()).To(Equal(job.OptimizingCompleted))
		Expect(o.Running()).To(BeFalse())

		o.StopDueToError("should be ignored")
		Expect(o.Status()).To(Equal(job.OptimizingCompleted))
		Expect(o.StopReason()).To(BeEmpty())
	})

	It("records the reason when stopped due to error", func() {
		o := job.NewOptimizingJob(job.OptimizingSpec{ID: "opt3", Direction: job.Maximize})
		o.StopDueToError("iteration j1 ended in state stopped-due-to-error")
		Expect(o.Status()).To(Equal(job.OptimizingStoppedDueToError))
		Expect(o.StopReason()).To(Equal("iteration j1 ended in state stopped-due-to-error"))
		Expect(o.Running()).To(BeFalse())
	})

	It("prefers the operator stop over a concurrently reported error", func() {
		o := job.NewOptimizingJob(job.OptimizingSpec{ID: "opt4", Direction: job.Maximize})
		o.StopByUser()
		Expect(o.Running()).To(BeFalse())

		o.StopDueToError("iteration failed")
		Expect(o.Status()).To(Equal(job.OptimizingStoppedByUser))
	})
})
