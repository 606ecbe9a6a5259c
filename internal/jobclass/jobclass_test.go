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

package jobclass_test

import (
	"context"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/nabbar/slamd/internal/errs"
	"github.com/nabbar/slamd/internal/jobclass"
	"github.com/nabbar/slamd/internal/paramset"
	"github.com/nabbar/slamd/internal/stats"
)

var _ = Describe("Registry", func() {
	It("has the built-in noop class registered at init", func() {
		d, ok := jobclass.Lookup(jobclass.NoopName)
		Expect(ok).To(BeTrue())
		Expect(d.Metadata().Name).To(Equal(jobclass.NoopName))
		Expect(jobclass.Names()).To(ContainElement(jobclass.NoopName))
	})

	It("returns false for an unregistered class name", func() {
		_, ok := jobclass.Lookup("does-not-exist")
		Expect(ok).To(BeFalse())
	})

	It("replaces a previous registration under the same name", func() {
		jobclass.Register("custom", fakeDescriptor{n: 1})
		jobclass.Register("custom", fakeDescriptor{n: 2})
		d, _ := jobclass.Lookup("custom")
		Expect(d.(fakeDescriptor).n).To(Equal(2))
	})
})

var _ = Describe("noop job-class", func() {
	It("emits an operations-completed counter on every tick and on stop", func() {
		d, _ := jobclass.Lookup(jobclass.NoopName)
		params := d.ParameterStubs()
		params["tick"] = paramset.NewInteger(paramset.Meta{}, 5)

		runner, err := d.NewRunner(params)
		Expect(err).To(BeNil())

		var emitted []stats.Tracker
		ctx, cancel := context.WithTimeout(context.Background(), 17*time.Millisecond)
		defer cancel()

		rerr := runner.Run(ctx, make(chan struct{}), func(t stats.Tracker) { emitted = append(emitted, t) })
		Expect(rerr).To(BeNil())
		Expect(len(emitted)).To(BeNumerically(">=", 2))
		Expect(emitted[0].Name()).To(Equal("Operations Completed"))
	})
})

type fakeDescriptor struct{ n int }

func (fakeDescriptor) Metadata() jobclass.Metadata        { return jobclass.Metadata{Name: "custom"} }
func (fakeDescriptor) ParameterStubs() paramset.Bag { return paramset.Bag{} }
func (f fakeDescriptor) NewRunner(paramset.Bag) (jobclass.Runner, errs.Error) {
	return nil, nil
}
