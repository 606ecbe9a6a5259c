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

package protocol_test

import (
	"bytes"
	"time"

	. "github.com/nabbar/slamd/internal/protocol"
	"github.com/nabbar/slamd/internal/errs"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Envelope round-trip", func() {
	It("packs and unpacks a HelloRequest", func() {
		req := HelloRequest{AuthID: "op", ClientID: "c-1", ClientVersion: "1.4.0"}

		env, err := Pack(42, TagHelloRequest, req)
		Expect(err).To(BeNil())
		Expect(env.ID).To(Equal(int64(42)))
		Expect(env.Tag).To(Equal(TagHelloRequest))

		var got HelloRequest
		Expect(env.Unpack(&got)).To(BeNil())
		Expect(got).To(Equal(req))
	})

	It("preserves a JobRequest through the full wire codec", func() {
		buf := &bytes.Buffer{}
		w := NewWriter(buf)
		r := NewReader(buf)

		jr := JobRequest{
			JobID:              "job-1",
			ClassName:          "http-load",
			StartTime:          time.Unix(1700000000, 0).UTC(),
			Duration:           5 * time.Minute,
			ClientNumber:       2,
			Threads:            8,
			CollectionInterval: 10 * time.Second,
			Parameters:         []byte{0xa1, 0x01, 0x02},
		}

		env, perr := Pack(1, TagJobRequest, jr)
		Expect(perr).To(BeNil())
		Expect(w.WriteEnvelope(env)).To(BeNil())

		out, rerr := r.ReadEnvelope()
		Expect(rerr).To(BeNil())
		Expect(out.ID).To(Equal(int64(1)))
		Expect(out.Tag).To(Equal(TagJobRequest))

		var got JobRequest
		Expect(out.Unpack(&got)).To(BeNil())
		Expect(got.JobID).To(Equal("job-1"))
		Expect(got.Threads).To(Equal(8))
		Expect(got.Parameters).To(Equal([]byte{0xa1, 0x01, 0x02}))
	})

	It("writes multiple frames back to back without corrupting boundaries", func() {
		buf := &bytes.Buffer{}
		w := NewWriter(buf)
		r := NewReader(buf)

		for i := int64(0); i < 5; i++ {
			env, _ := Pack(i, TagKeepAlive, KeepAlive{})
			Expect(w.WriteEnvelope(env)).To(BeNil())
		}

		for i := int64(0); i < 5; i++ {
			out, err := r.ReadEnvelope()
			Expect(err).To(BeNil())
			Expect(out.ID).To(Equal(i))
			Expect(out.Tag).To(Equal(TagKeepAlive))
		}
	})

	It("rejects a malformed body on unpack", func() {
		env := Envelope{ID: 1, Tag: TagHelloRequest, Body: []byte("not valid cbor")}

		var got HelloRequest
		err := env.Unpack(&got)
		Expect(err).NotTo(BeNil())
		Expect(err.IsCode(errs.CodeProtocolMalformed)).To(BeTrue())
	})
})

var _ = Describe("JobResponseCode", func() {
	It("classifies terminal vs non-terminal codes", func() {
		Expect(JobAccepted.IsTerminal()).To(BeFalse())
		Expect(JobCompletedSuccessfully.IsTerminal()).To(BeTrue())
		Expect(JobStoppedDurationReached.IsTerminal()).To(BeTrue())
	})

	It("stringifies", func() {
		Expect(JobRejectedNoSuchClass.String()).To(Equal("rejected-no-such-class"))
	})
})
