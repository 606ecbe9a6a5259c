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

package endpoint_test

import (
	"context"
	"net"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/nabbar/slamd/internal/endpoint"
	"github.com/nabbar/slamd/internal/protocol"
)

// peer wraps one end of a net.Pipe with the bare protocol.Writer/Reader so
// tests can play the role of the remote side without a second Conn.
type peer struct {
	w *protocol.Writer
	r *protocol.Reader
}

func newPeer(c net.Conn) *peer {
	return &peer{w: protocol.NewWriter(c), r: protocol.NewReader(c)}
}

func fastConfig() endpoint.Config {
	return endpoint.Config{
		HandshakeTimeout:   200 * time.Millisecond,
		RequestTimeout:     200 * time.Millisecond,
		KeepaliveInterval:  0, // disabled unless a test opts in
		MaxMissedKeepalive: 3,
	}
}

var _ = Describe("Conn", func() {
	var (
		server, client net.Conn
		conn           *endpoint.Conn
		other          *peer
	)

	BeforeEach(func() {
		server, client = net.Pipe()
		conn = endpoint.New("conn-1", "host-a", server, fastConfig())
		other = newPeer(client)
	})

	AfterEach(func() {
		_ = client.Close()
	})

	It("starts connected", func() {
		Expect(conn.State()).To(Equal(endpoint.StateConnected))
	})

	It("completes a request/reply round trip", func() {
		go func() {
			defer GinkgoRecover()
			env, err := other.r.ReadEnvelope()
			Expect(err).To(BeNil())
			Expect(env.Tag).To(Equal(protocol.TagStatusRequest))

			reply, perr := protocol.Pack(env.ID, protocol.TagStatusResponse, protocol.StatusResponse{Available: true})
			Expect(perr).To(BeNil())
			Expect(other.w.WriteEnvelope(reply)).To(BeNil())
		}()

		env, err := conn.Request(context.Background(), protocol.TagStatusRequest, protocol.StatusRequest{})
		Expect(err).To(BeNil())

		var resp protocol.StatusResponse
		Expect(env.Unpack(&resp)).To(BeNil())
		Expect(resp.Available).To(BeTrue())
	})

	It("times out a request with no reply", func() {
		go func() {
			defer GinkgoRecover()
			_, _ = other.r.ReadEnvelope()
			// never replies
		}()

		_, err := conn.Request(context.Background(), protocol.TagStatusRequest, protocol.StatusRequest{})
		Expect(err).ToNot(BeNil())
	})

	It("closes the connection on an unmatched message-id", func() {
		done := make(chan error, 1)
		go func() {
			done <- conn.Run(context.Background())
		}()

		env, perr := protocol.Pack(999, protocol.TagKeepAlive, protocol.KeepAlive{})
		Expect(perr).To(BeNil())
		Expect(other.w.WriteEnvelope(env)).To(BeNil())

		Eventually(done, time.Second).Should(Receive())
		Expect(conn.State()).To(Equal(endpoint.StateDisconnected))
	})

	It("dispatches a non-reply message to its registered handler", func() {
		seen := make(chan protocol.Tag, 1)
		conn.Handle(protocol.TagKeepAlive, func(c *endpoint.Conn, e protocol.Envelope) {
			seen <- e.Tag
		})

		go func() { _ = conn.Run(context.Background()) }()

		env, perr := protocol.Pack(1, protocol.TagKeepAlive, protocol.KeepAlive{})
		Expect(perr).To(BeNil())
		Expect(other.w.WriteEnvelope(env)).To(BeNil())

		Eventually(seen, time.Second).Should(Receive(Equal(protocol.TagKeepAlive)))
	})
})
