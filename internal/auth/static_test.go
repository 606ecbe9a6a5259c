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

package auth_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/nabbar/slamd/internal/auth"
)

var _ = Describe("StaticTable", func() {
	It("accepts a matching auth id/credential pair", func() {
		t := auth.NewStaticTable(map[string]string{"bench1": "secret"})
		Expect(t.Validator()("bench1", "secret")).To(BeNil())
	})

	It("rejects an unknown auth id", func() {
		t := auth.NewStaticTable(nil)
		Expect(t.Validator()("nobody", "secret")).ToNot(BeNil())
	})

	It("rejects a credential mismatch", func() {
		t := auth.NewStaticTable(map[string]string{"bench1": "secret"})
		Expect(t.Validator()("bench1", "wrong")).ToNot(BeNil())
	})

	It("picks up entries added after construction", func() {
		t := auth.NewStaticTable(nil)
		t.Set("bench2", "xyz")
		Expect(t.Validator()("bench2", "xyz")).To(BeNil())

		t.Remove("bench2")
		Expect(t.Validator()("bench2", "xyz")).ToNot(BeNil())
	})
})
