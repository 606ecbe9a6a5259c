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
	"github.com/nabbar/slamd/internal/errs"
	"github.com/nabbar/slamd/internal/protocol"
)

var _ = Describe("Hello handshake", func() {
	var (
		server, client net.Conn
		conn           *endpoint.Conn
		other          *peer
	)

	BeforeEach(func() {
		server, client = net.Pipe()
		conn = endpoint.New("conn-2", "host-a", server, fastConfig())
		other = newPeer(client)
	})

	AfterEach(func() {
		_ = client.Close()
	})

	It("accepts a well-formed hello", func() {
		go func() {
			defer GinkgoRecover()
			env, err := protocol.Pack(1, protocol.TagHelloRequest, protocol.HelloRequest{
				AuthID: "alice", Credential: "secret", ClientID: "c1", ClientVersion: "1.2.0",
			})
			Expect(err).To(BeNil())
			Expect(other.w.WriteEnvelope(env)).To(BeNil())

			resp, rerr := other.r.ReadEnvelope()
			Expect(rerr).To(BeNil())
			Expect(resp.Tag).To(Equal(protocol.TagHelloResponse))
		}()

		id, err := conn.ServerHello("1.0.0", func(authID, credential string) errs.Error {
			Expect(authID).To(Equal("alice"))
			Expect(credential).To(Equal("secret"))
			return nil
		})
		Expect(err).To(BeNil())
		Expect(id.AuthID).To(Equal("alice"))
		Expect(id.ClientID).To(Equal("c1"))
		Expect(conn.State()).To(Equal(endpoint.StateIdle))
	})

	It("rejects a client version below the minimum", func() {
		go func() {
			defer GinkgoRecover()
			env, err := protocol.Pack(1, protocol.TagHelloRequest, protocol.HelloRequest{
				AuthID: "alice", ClientID: "c1", ClientVersion: "0.9.0",
			})
			Expect(err).To(BeNil())
			Expect(other.w.WriteEnvelope(env)).To(BeNil())
			_, _ = other.r.ReadEnvelope()
		}()

		_, err := conn.ServerHello("1.0.0", nil)
		Expect(err).ToNot(BeNil())
		Expect(conn.State()).To(Equal(endpoint.StateDisconnected))
	})

	It("rejects invalid credentials", func() {
		go func() {
			defer GinkgoRecover()
			env, err := protocol.Pack(1, protocol.TagHelloRequest, protocol.HelloRequest{
				AuthID: "mallory", Credential: "wrong", ClientID: "c1", ClientVersion: "1.0.0",
			})
			Expect(err).To(BeNil())
			Expect(other.w.WriteEnvelope(env)).To(BeNil())
			_, _ = other.r.ReadEnvelope()
		}()

		_, err := conn.ServerHello("1.0.0", func(authID, credential string) errs.Error {
			return errs.CodeProtocolHandshake.Errorf("bad credentials")
		})
		Expect(err).ToNot(BeNil())
		Expect(conn.State()).To(Equal(endpoint.StateDisconnected))
	})

	It("times out when no hello arrives", func() {
		_, err := conn.ServerHello("", nil)
		Expect(err).ToNot(BeNil())
		Expect(conn.State()).To(Equal(endpoint.StateDisconnected))
	})

	It("accepts a monitor hello with no version field", func() {
		go func() {
			defer GinkgoRecover()
			env, err := protocol.Pack(1, protocol.TagHelloMonitorRequest, protocol.HelloMonitorRequest{
				AuthID: "mon1", ClientID: "m1",
			})
			Expect(err).To(BeNil())
			Expect(other.w.WriteEnvelope(env)).To(BeNil())

			resp, rerr := other.r.ReadEnvelope()
			Expect(rerr).To(BeNil())
			Expect(resp.Tag).To(Equal(protocol.TagHelloMonitorResponse))
		}()

		id, err := conn.ServerHelloMonitor(nil)
		Expect(err).To(BeNil())
		Expect(id.AuthID).To(Equal("mon1"))
		Expect(conn.State()).To(Equal(endpoint.StateIdle))
	})
})

var _ = Describe("keepalive watchdog", func() {
	It("closes the connection after missing too many keepalives", func() {
		server, client := net.Pipe()
		defer client.Close()

		cfg := endpoint.Config{
			HandshakeTimeout:   time.Second,
			RequestTimeout:     time.Second,
			KeepaliveInterval:  20 * time.Millisecond,
			MaxMissedKeepalive: 2,
		}
		conn := endpoint.New("conn-3", "host-a", server, cfg)

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		go func() { _ = conn.Run(ctx) }()

		// drain whatever the keepalive watchdog writes so it never blocks on
		// the unbuffered pipe, but never touch the connection's activity
		// clock ourselves.
		go func() {
			r := protocol.NewReader(client)
			for {
				if _, err := r.ReadEnvelope(); err != nil {
					return
				}
			}
		}()

		Eventually(func() endpoint.State {
			return conn.State()
		}, time.Second, 5*time.Millisecond).Should(Equal(endpoint.StateDisconnected))
	})
})
