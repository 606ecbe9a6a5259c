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

var _ = Describe("Registry", func() {
	var r *registry.Registry

	BeforeEach(func() {
		r = registry.New()
	})

	It("registers and looks up a client by connection id", func() {
		r.RegisterClient(&registry.ClientRecord{ConnectionID: "c1", Host: "h1"})
		c, ok := r.ClientByConnection("c1")
		Expect(ok).To(BeTrue())
		Expect(c.Status).To(Equal(registry.ClientIdle))
	})

	It("removes a client on unregister", func() {
		r.RegisterClient(&registry.ClientRecord{ConnectionID: "c1", Host: "h1"})
		r.UnregisterClient("c1")
		_, ok := r.ClientByConnection("c1")
		Expect(ok).To(BeFalse())
	})

	It("toggles idle<->running via MarkRunning/MarkIdle", func() {
		r.RegisterClient(&registry.ClientRecord{ConnectionID: "c1", Host: "h1"})
		Expect(r.MarkRunning("c1", "job-1")).To(BeNil())

		c, _ := r.ClientByConnection("c1")
		Expect(c.Status).To(Equal(registry.ClientRunning))
		Expect(c.RunningJobID).To(Equal("job-1"))

		r.MarkIdle("c1")
		c, _ = r.ClientByConnection("c1")
		Expect(c.Status).To(Equal(registry.ClientIdle))
		Expect(c.RunningJobID).To(Equal(""))
	})

	It("rejects MarkRunning on a client that is already running", func() {
		r.RegisterClient(&registry.ClientRecord{ConnectionID: "c1", Host: "h1"})
		Expect(r.MarkRunning("c1", "job-1")).To(BeNil())
		Expect(r.MarkRunning("c1", "job-2")).ToNot(BeNil())
	})

	It("registers and unregisters monitor connections", func() {
		r.RegisterMonitor(&registry.MonitorRecord{ConnectionID: "m1", Host: "h1"})
		m, ok := r.MonitorByConnection("m1")
		Expect(ok).To(BeTrue())
		Expect(m.ObservedJobs).ToNot(BeNil())

		r.UnregisterMonitor("m1")
		_, ok = r.MonitorByConnection("m1")
		Expect(ok).To(BeFalse())
	})
})
