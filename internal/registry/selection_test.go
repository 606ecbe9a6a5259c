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

package registry_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/nabbar/slamd/internal/registry"
)

var _ = Describe("Registry selection", func() {
	var r *registry.Registry

	BeforeEach(func() {
		r = registry.New()
	})

	It("round-robins across distinct hosts before revisiting any host", func() {
		r.RegisterClient(&registry.ClientRecord{ConnectionID: "h1a", Host: "h1"})
		r.RegisterClient(&registry.ClientRecord{ConnectionID: "h1b", Host: "h1"})
		r.RegisterClient(&registry.ClientRecord{ConnectionID: "h2a", Host: "h2"})

		chosen, err := r.Select("job-1", registry.SelectionRequest{Count: 2})
		Expect(err).To(BeNil())
		Expect(chosen).To(HaveLen(2))

		hosts := map[string]bool{}
		for _, c := range chosen {
			hosts[c.Host] = true
		}
		Expect(hosts).To(HaveLen(2), "should prefer distinct hosts before revisiting h1")
	})

	It("excludes restricted clients from round-robin selection", func() {
		r.RegisterClient(&registry.ClientRecord{ConnectionID: "c1", Host: "h1", Restricted: true})
		r.RegisterClient(&registry.ClientRecord{ConnectionID: "c2", Host: "h2"})

		_, err := r.Select("job-1", registry.SelectionRequest{Count: 2})
		Expect(err).ToNot(BeNil())
	})

	It("allows a restricted client only via an explicit requested-clients entry", func() {
		r.RegisterClient(&registry.ClientRecord{ConnectionID: "c1", Host: "h1", Restricted: true})

		chosen, err := r.Select("job-1", registry.SelectionRequest{Count: 1, RequestedClients: []string{"c1"}})
		Expect(err).To(BeNil())
		Expect(chosen).To(HaveLen(1))
	})

	It("fails with insufficient clients when fewer than N are idle", func() {
		r.RegisterClient(&registry.ClientRecord{ConnectionID: "c1", Host: "h1"})
		_, err := r.Select("job-1", registry.SelectionRequest{Count: 2})
		Expect(err).ToNot(BeNil())
	})

	It("marks selected clients running and excludes them from further selection", func() {
		r.RegisterClient(&registry.ClientRecord{ConnectionID: "c1", Host: "h1"})

		chosen, err := r.Select("job-1", registry.SelectionRequest{Count: 1})
		Expect(err).To(BeNil())
		Expect(chosen[0].Status).To(Equal(registry.ClientRunning))

		_, err = r.Select("job-2", registry.SelectionRequest{Count: 1})
		Expect(err).ToNot(BeNil())
	})

	It("returns released clients to the idle pool", func() {
		r.RegisterClient(&registry.ClientRecord{ConnectionID: "c1", Host: "h1"})
		chosen, err := r.Select("job-1", registry.SelectionRequest{Count: 1})
		Expect(err).To(BeNil())

		r.Release(chosen)

		again, err := r.Select("job-2", registry.SelectionRequest{Count: 1})
		Expect(err).To(BeNil())
		Expect(again[0].ConnectionID).To(Equal("c1"))
	})
})
