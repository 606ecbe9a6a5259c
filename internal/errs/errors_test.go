/*
 * MIT License
 *
 * Copyright (c) 2020 Nicolas JUHEL
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

package errs_test

import (
	"errors"

	. "github.com/nabbar/slamd/internal/errs"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Error creation", func() {
	It("builds an error from a code", func() {
		err := CodeJobBusy.Error(nil)
		Expect(err).ToNot(BeNil())
		Expect(err.Code()).To(Equal(CodeJobBusy))
		Expect(err.Error()).To(Equal("client is busy"))
	})

	It("captures the caller's file and line", func() {
		err := New(CodeTransportTimeout, "timed out")
		Expect(err.File()).To(ContainSubstring("errors_test.go"))
		Expect(err.Line()).To(BeNumerically(">", 0))
	})

	It("formats with Newf", func() {
		err := Newf(CodeConfigInvalid, "bad field %q", "threads")
		Expect(err.Error()).To(ContainSubstring("bad field \"threads\""))
	})

	Describe("parent chains", func() {
		It("adds and reports parents", func() {
			base := errors.New("socket reset")
			err := New(CodeTransportIO, "write failed", base)
			Expect(err.Parents()).To(HaveLen(1))
			Expect(err.Error()).To(ContainSubstring("socket reset"))
		})

		It("HasCode finds a code on a parent", func() {
			parent := CodeJobNoSuchClass.Error(nil)
			err := New(CodeJobOther, "rejected", parent)
			Expect(err.IsCode(CodeJobOther)).To(BeTrue())
			Expect(err.IsCode(CodeJobNoSuchClass)).To(BeFalse())
			Expect(err.HasCode(CodeJobNoSuchClass)).To(BeTrue())
		})

		It("ignores nil parents", func() {
			err := New(CodeJobBusy, "busy", nil, nil)
			Expect(err.Parents()).To(BeEmpty())
		})
	})

	Describe("IsCode helper", func() {
		It("returns false for a plain error", func() {
			Expect(IsCode(errors.New("plain"), CodeJobBusy)).To(BeFalse())
		})

		It("returns true when the error carries the code", func() {
			Expect(IsCode(CodeJobBusy.Error(nil), CodeJobBusy)).To(BeTrue())
		})

		It("returns false for nil", func() {
			Expect(IsCode(nil, CodeJobBusy)).To(BeFalse())
		})
	})
})
