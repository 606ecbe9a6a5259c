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

package paramset_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/nabbar/slamd/internal/paramset"
)

var _ = Describe("Value", func() {
	It("rejects an integer below its minimum", func() {
		v := paramset.NewInteger(paramset.Meta{DisplayName: "threads", MinSet: true, Min: 1}, 0)
		Expect(v.Validate()).ToNot(BeNil())
	})

	It("rejects an integer above its maximum", func() {
		v := paramset.NewInteger(paramset.Meta{DisplayName: "threads", MaxSet: true, Max: 10}, 11)
		Expect(v.Validate()).ToNot(BeNil())
	})

	It("accepts an integer within bounds", func() {
		v := paramset.NewInteger(paramset.Meta{DisplayName: "threads", MinSet: true, Min: 1, MaxSet: true, Max: 10}, 5)
		Expect(v.Validate()).To(BeNil())
	})

	It("rejects a multi-choice value outside its choice set", func() {
		v := paramset.NewMultiChoice(paramset.Meta{DisplayName: "protocol", Choices: []string{"http", "https"}}, "ftp")
		Expect(v.Validate()).ToNot(BeNil())
	})

	It("rejects a required string left empty", func() {
		v := paramset.NewString(paramset.Meta{DisplayName: "target", Required: true}, "")
		Expect(v.Validate()).ToNot(BeNil())
	})
})

var _ = Describe("Bag", func() {
	It("round-trips through its canonical CBOR form", func() {
		bag := paramset.Bag{
			"target": paramset.NewString(paramset.Meta{DisplayName: "target", Required: true}, "10.0.0.1"),
			"threads": paramset.NewInteger(paramset.Meta{DisplayName: "threads", MinSet: true, Min: 1}, 8),
			"verbose": paramset.NewBoolean(paramset.Meta{DisplayName: "verbose"}, true),
			"headers": paramset.NewMultiValuedBitmask(paramset.Meta{DisplayName: "headers", Choices: []string{"a", "b", "c"}}, []string{"a", "c"}),
		}

		data, err := bag.Marshal()
		Expect(err).To(BeNil())

		decoded, err := paramset.Unmarshal(data)
		Expect(err).To(BeNil())

		Expect(decoded["target"].String()).To(Equal("10.0.0.1"))
		Expect(decoded["threads"].Integer()).To(Equal(int64(8)))
		Expect(decoded["verbose"].Boolean()).To(BeTrue())
		Expect(decoded["headers"].Bitmask()).To(ConsistOf("a", "c"))
	})

	It("validates every entry, surfacing the first failure", func() {
		bag := paramset.Bag{
			"threads": paramset.NewInteger(paramset.Meta{DisplayName: "threads", MinSet: true, Min: 1}, 0),
		}
		Expect(bag.Validate()).ToNot(BeNil())
	})

	It("rejects malformed CBOR", func() {
		_, err := paramset.Unmarshal([]byte("not cbor"))
		Expect(err).ToNot(BeNil())
	})
})
