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
)

var _ = Describe("State", func() {
	It("allows pending to running", func() {
		Expect(job.StatePending.Next(job.StateRunning)).To(BeTrue())
	})

	It("rejects uninitialized to running directly", func() {
		Expect(job.StateUninitialized.Next(job.StateRunning)).To(BeFalse())
	})

	It("rejects any edge out of a terminal state", func() {
		Expect(job.StateCompletedSuccessfully.Next(job.StatePending)).To(BeFalse())
		Expect(job.StateCancelled.Next(job.StateRunning)).To(BeFalse())
	})

	It("classifies terminal states", func() {
		Expect(job.StateCompletedSuccessfully.Terminal()).To(BeTrue())
		Expect(job.StateStoppedDueToError.Terminal()).To(BeTrue())
		Expect(job.StateRunning.Terminal()).To(BeFalse())
		Expect(job.StatePending.Terminal()).To(BeFalse())
	})

	It("only StateCompletedSuccessfully counts as Successful", func() {
		Expect(job.StateCompletedSuccessfully.Successful()).To(BeTrue())
		Expect(job.StateCompletedWithErrors.Successful()).To(BeFalse())
	})
})
