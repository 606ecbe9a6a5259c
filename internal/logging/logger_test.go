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

package logging_test

import (
	"errors"

	. "github.com/nabbar/slamd/internal/logging"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Level", func() {
	It("parses case-insensitively", func() {
		Expect(ParseLevel("DEBUG")).To(Equal(DebugLevel))
		Expect(ParseLevel("warn")).To(Equal(WarnLevel))
		Expect(ParseLevel("bogus")).To(Equal(InfoLevel))
	})

	It("stringifies", func() {
		Expect(InfoLevel.String()).To(Equal("Info"))
		Expect(NilLevel.String()).To(Equal(""))
	})
})

var _ = Describe("Fields", func() {
	It("Add does not mutate the receiver", func() {
		base := Fields{"a": 1}
		derived := base.Add("b", 2)

		Expect(base).To(HaveLen(1))
		Expect(derived).To(HaveLen(2))
	})

	It("Merge overlays keys", func() {
		base := Fields{"a": 1, "b": 1}
		merged := base.Merge(Fields{"b": 2, "c": 3})

		Expect(merged["a"]).To(Equal(1))
		Expect(merged["b"]).To(Equal(2))
		Expect(merged["c"]).To(Equal(3))
	})
})

var _ = Describe("Logger", func() {
	var l Logger

	BeforeEach(func() {
		l = New()
	})

	It("defaults to InfoLevel", func() {
		Expect(l.GetLevel()).To(Equal(InfoLevel))
	})

	It("SetLevel/GetLevel round-trip", func() {
		l.SetLevel(DebugLevel)
		Expect(l.GetLevel()).To(Equal(DebugLevel))
	})

	It("With derives a logger without mutating the parent", func() {
		l.SetFields(Fields{"job": "j-1"})
		child := l.With(Fields{"client": "c-1"})

		Expect(l.GetFields()).To(HaveLen(1))
		Expect(child.GetFields()).To(HaveLen(2)) // child carries the parent's fields plus its own
	})

	Describe("CheckError", func() {
		It("returns false and logs at lvlKO when err is non-nil", func() {
			ok := l.CheckError(ErrorLevel, InfoLevel, "operation failed", errors.New("boom"))
			Expect(ok).To(BeFalse())
		})

		It("returns true when err is nil", func() {
			ok := l.CheckError(ErrorLevel, InfoLevel, "operation ok", nil)
			Expect(ok).To(BeTrue())
		})
	})
})
