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

package monitorclient

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/nabbar/slamd/internal/errs"
	"github.com/nabbar/slamd/internal/protocol"
)

// Config tunes a Client's handshake and sampling behavior.
type Config struct {
	AuthID     string
	Credential string
	ClientID   string
	Interval   time.Duration
}

// Client is the resource-monitor client's own view of one connection to the
// server: it performs the HelloMonitor handshake, then reacts to
// MonitorRequest by starting or stopping a per-job sampling loop that
// pushes RealTimeStatistics at Config.Interval.
type Client struct {
	cfg     Config
	sampler Sampler

	w *protocol.Writer
	r *protocol.Reader

	writeMu sync.Mutex

	mu      sync.Mutex
	cancels map[string]context.CancelFunc

	nextID int64
}

// New builds a Client bound to conn, sampling via sampler.
func New(conn io.ReadWriter, sampler Sampler, cfg Config) *Client {
	if cfg.Interval <= 0 {
		cfg.Interval = 10 * time.Second
	}
	return &Client{
		cfg:     cfg,
		sampler: sampler,
		w:       protocol.NewWriter(conn),
		r:       protocol.NewReader(conn),
		cancels: map[string]context.CancelFunc{},
	}
}

func (c *Client) send(tag protocol.Tag, body interface{}) errs.Error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	c.nextID++
	env, err := protocol.Pack(c.nextID, tag, body)
	if err != nil {
		return err
	}
	return c.w.WriteEnvelope(env)
}

// Handshake performs the HelloMonitor exchange; it must succeed before Run
// is called.
func (c *Client) Handshake() errs.Error {
	if err := c.send(protocol.TagHelloMonitorRequest, protocol.HelloMonitorRequest{
		AuthID: c.cfg.AuthID, Credential: c.cfg.Credential, ClientID: c.cfg.ClientID,
	}); err != nil {
		return err
	}

	env, err := c.r.ReadEnvelope()
	if err != nil {
		return err
	}
	if env.Tag != protocol.TagHelloMonitorResponse {
		return errs.CodeProtocolHandshake.Errorf("expected HelloMonitorResponse, got %s", env.Tag)
	}

	var resp protocol.HelloMonitorResponse
	if err := env.Unpack(&resp); err != nil {
		return err
	}
	if !resp.Success {
		return errs.CodeProtocolHandshake.Errorf("monitor hello rejected: %s", resp.Reason)
	}
	return nil
}

// Run reads server envelopes until ctx is done or the connection closes,
// dispatching MonitorRequest/KeepAlive as they arrive.
func (c *Client) Run(ctx context.Context) errs.Error {
	for {
		env, err := c.r.ReadEnvelope()
		if err != nil {
			c.stopAll()
			return err
		}

		switch env.Tag {
		case protocol.TagMonitorRequest:
			var req protocol.MonitorRequest
			if err := env.Unpack(&req); err != nil {
				continue
			}
			c.handleMonitorRequest(ctx, req)
		case protocol.TagKeepAlive:
			_ = c.send(protocol.TagKeepAlive, protocol.KeepAlive{})
		}

		if ctx.Err() != nil {
			c.stopAll()
			return errs.CodeTransportClosed.Error(ctx.Err())
		}
	}
}

func (c *Client) handleMonitorRequest(ctx context.Context, req protocol.MonitorRequest) {
	if req.Start {
		c.startSampling(ctx, req.JobID)
	} else {
		c.stopSampling(req.JobID)
	}
	_ = c.send(protocol.TagMonitorResponse, protocol.MonitorResponse{JobID: req.JobID, Success: true})
}

func (c *Client) startSampling(parent context.Context, jobID string) {
	c.mu.Lock()
	if _, exists := c.cancels[jobID]; exists {
		c.mu.Unlock()
		return
	}
	jobCtx, cancel := context.WithCancel(parent)
	c.cancels[jobID] = cancel
	c.mu.Unlock()

	go c.sampleLoop(jobCtx, jobID)
}

func (c *Client) stopSampling(jobID string) {
	c.mu.Lock()
	cancel, ok := c.cancels[jobID]
	delete(c.cancels, jobID)
	c.mu.Unlock()
	if ok {
		cancel()
	}
}

func (c *Client) stopAll() {
	c.mu.Lock()
	cancels := c.cancels
	c.cancels = map[string]context.CancelFunc{}
	c.mu.Unlock()
	for _, cancel := range cancels {
		cancel()
	}
}

func (c *Client) sampleLoop(ctx context.Context, jobID string) {
	announced := map[string]bool{}
	t := time.NewTicker(c.cfg.Interval)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			bag, err := c.sampler.Sample(c.cfg.Interval)
			if err != nil {
				continue
			}

			for name, tr := range bag {
				if !announced[name] {
					_ = c.send(protocol.TagRegisterStatistic, protocol.RegisterStatistic{
						Name: tr.Name(), Interval: c.cfg.Interval,
					})
					announced[name] = true
				}
			}

			payload, perr := bag.Marshal()
			if perr != nil {
				continue
			}
			_ = c.send(protocol.TagRealTimeStatistics, protocol.RealTimeStatistics{
				JobID: jobID, Interval: int(c.cfg.Interval.Milliseconds()), Payload: payload,
			})
		}
	}
}
