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

package endpoint

import (
	"context"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/nabbar/slamd/internal/errs"
	"github.com/nabbar/slamd/internal/protocol"
)

// Config holds the per-connection timing knobs.
type Config struct {
	HandshakeTimeout   time.Duration
	RequestTimeout     time.Duration
	KeepaliveInterval  time.Duration
	MaxMissedKeepalive int
}

func DefaultConfig() Config {
	return Config{
		HandshakeTimeout:   10 * time.Second,
		RequestTimeout:     60 * time.Second,
		KeepaliveInterval:  30 * time.Second,
		MaxMissedKeepalive: 3,
	}
}

// Handler processes a non-reply envelope dispatched by Conn's read loop.
type Handler func(Conn *Conn, e protocol.Envelope)

// Conn is the server-side view of one socket: a write mutex (via
// protocol.Writer), a read loop, an in-flight reply table keyed by
// message-id, and a keepalive watchdog.
type Conn struct {
	ConnectionID string
	Host         string

	cfg Config
	rwc io.ReadWriteCloser

	w *protocol.Writer
	r *protocol.Reader

	nextID int64

	mu      sync.Mutex
	state   State
	waiters map[int64]chan protocol.Envelope

	handlers map[protocol.Tag]Handler

	lastActivity atomic.Int64 // unix nano

	closeOnce sync.Once
}

// New wraps rwc; the connection starts in StateConnected.
func New(connID, host string, rwc io.ReadWriteCloser, cfg Config) *Conn {
	c := &Conn{
		ConnectionID: connID,
		Host:         host,
		cfg:          cfg,
		rwc:          rwc,
		w:            protocol.NewWriter(rwc),
		r:            protocol.NewReader(rwc),
		state:        StateConnected,
		waiters:      map[int64]chan protocol.Envelope{},
		handlers:     map[protocol.Tag]Handler{},
	}
	c.touch()
	return c
}

func (c *Conn) touch() {
	c.lastActivity.Store(time.Now().UnixNano())
}

func (c *Conn) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// transition moves the connection's state, rejecting illegal edges (state.go).
func (c *Conn) transition(to State) errs.Error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.state.Next(to) {
		return errs.CodeProtocolHandshake.Errorf("connection %s: illegal transition %s -> %s", c.ConnectionID, c.state, to)
	}
	c.state = to
	return nil
}

// Handle registers the callback for a non-reply message tag. Call before Run.
func (c *Conn) Handle(tag protocol.Tag, h Handler) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.handlers[tag] = h
}

// Send writes body under tag with a freshly generated message-id and does
// not wait for a reply — used for fire-and-forget messages (KeepAlive,
// Shutdown, RealTimeStatistics).
func (c *Conn) Send(tag protocol.Tag, body interface{}) errs.Error {
	id := atomic.AddInt64(&c.nextID, 1)
	env, err := protocol.Pack(id, tag, body)
	if err != nil {
		return err
	}
	return c.w.WriteEnvelope(env)
}

// Request writes body under tag and blocks for the matching reply, bounded
// by ctx and the connection's RequestTimeout.
func (c *Conn) Request(ctx context.Context, tag protocol.Tag, body interface{}) (protocol.Envelope, errs.Error) {
	id := atomic.AddInt64(&c.nextID, 1)
	env, err := protocol.Pack(id, tag, body)
	if err != nil {
		return protocol.Envelope{}, err
	}

	ch := make(chan protocol.Envelope, 1)
	c.mu.Lock()
	c.waiters[id] = ch
	c.mu.Unlock()
	defer func() {
		c.mu.Lock()
		delete(c.waiters, id)
		c.mu.Unlock()
	}()

	if err := c.w.WriteEnvelope(env); err != nil {
		return protocol.Envelope{}, err
	}

	timer := time.NewTimer(c.cfg.RequestTimeout)
	defer timer.Stop()

	select {
	case reply := <-ch:
		return reply, nil
	case <-timer.C:
		return protocol.Envelope{}, errs.CodeTransportTimeout.Error()
	case <-ctx.Done():
		return protocol.Envelope{}, errs.CodeTransportTimeout.Error(ctx.Err())
	}
}

// Run drives the read loop until the socket closes or ctx is cancelled,
// dispatching each envelope to its waiting requester or registered handler.
// Unmatched replies close the connection.
func (c *Conn) Run(ctx context.Context) errs.Error {
	go c.keepaliveWatch(ctx)

	for {
		select {
		case <-ctx.Done():
			c.Close()
			return nil
		default:
		}

		env, err := c.r.ReadEnvelope()
		if err != nil {
			_ = c.transition(StateDisconnected)
			return err
		}
		c.touch()

		c.mu.Lock()
		ch, waiting := c.waiters[env.ID]
		h, handled := c.handlers[env.Tag]
		c.mu.Unlock()

		switch {
		case waiting:
			ch <- env
		case handled:
			h(c, env)
		default:
			_ = c.transition(StateDisconnected)
			return errs.CodeProtocolReplyUnmatched.Errorf("connection %s: unmatched message-id %d", c.ConnectionID, env.ID)
		}
	}
}

func (c *Conn) keepaliveWatch(ctx context.Context) {
	interval := c.cfg.KeepaliveInterval
	if interval <= 0 {
		return
	}
	deadline := time.Duration(c.cfg.MaxMissedKeepalive) * interval

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			_ = c.Send(protocol.TagKeepAlive, protocol.KeepAlive{})

			last := time.Unix(0, c.lastActivity.Load())
			if time.Since(last) > deadline {
				c.Close()
				return
			}
		}
	}
}

// Close closes the underlying socket exactly once and marks the connection
// disconnected.
func (c *Conn) Close() {
	c.closeOnce.Do(func() {
		_ = c.transition(StateDisconnected)
		_ = c.rwc.Close()
	})
}
