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

// Package loadclient is the load-generator daemon's own view of its one
// connection to the server: it performs the Hello handshake, then reacts to
// JobRequest/JobControlRequest/Shutdown as they arrive, running the
// job-class Runner registered under the requested class name.
package loadclient

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/nabbar/slamd/internal/errs"
	"github.com/nabbar/slamd/internal/jobclass"
	"github.com/nabbar/slamd/internal/paramset"
	"github.com/nabbar/slamd/internal/protocol"
	"github.com/nabbar/slamd/internal/stats"
)

// Config tunes a Client's handshake identity and version string.
type Config struct {
	AuthID        string
	Credential    string
	ClientID      string
	ClientVersion string
}

// runningJob tracks one job-class Runner executing on behalf of a single
// JobRequest, so a later JobControlRequest can cancel it. graceful is closed
// on an operator stop ("clients complete the current operation, stop") and
// left open on an operator abort, where cancel is called instead so the
// Runner drops in-progress work immediately.
type runningJob struct {
	cancel   context.CancelFunc
	graceful chan struct{}

	gracefulOnce sync.Once
	stopped      bool
	aborted      bool
}

func (rj *runningJob) closeGraceful() {
	rj.gracefulOnce.Do(func() { close(rj.graceful) })
}

// Client is the daemon-side counterpart to the server's ClientConn: it owns
// the wire connection, answers JobRequest by running the matching job-class
// Runner, and reports outcomes back as JobResponse.
type Client struct {
	cfg Config

	w *protocol.Writer
	r *protocol.Reader

	writeMu sync.Mutex
	nextID  int64

	mu   sync.Mutex
	jobs map[string]*runningJob
}

// New builds a Client bound to conn.
func New(conn io.ReadWriter, cfg Config) *Client {
	return &Client{
		cfg:  cfg,
		w:    protocol.NewWriter(conn),
		r:    protocol.NewReader(conn),
		jobs: map[string]*runningJob{},
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

// Handshake performs the Hello exchange; it must succeed before Run is
// called.
func (c *Client) Handshake() errs.Error {
	if err := c.send(protocol.TagHelloRequest, protocol.HelloRequest{
		AuthID: c.cfg.AuthID, Credential: c.cfg.Credential,
		ClientID: c.cfg.ClientID, ClientVersion: c.cfg.ClientVersion,
	}); err != nil {
		return err
	}

	env, err := c.r.ReadEnvelope()
	if err != nil {
		return err
	}
	if env.Tag != protocol.TagHelloResponse {
		return errs.CodeProtocolHandshake.Errorf("expected HelloResponse, got %s", env.Tag)
	}

	var resp protocol.HelloResponse
	if err := env.Unpack(&resp); err != nil {
		return err
	}
	if !resp.Success {
		return errs.CodeProtocolHandshake.Errorf("hello rejected: %s", resp.Reason)
	}
	return nil
}

// Run reads server envelopes until ctx is done or the connection closes,
// dispatching JobRequest/JobControlRequest/Shutdown/KeepAlive as they
// arrive. Each JobRequest is executed in its own goroutine so a slow or
// blocked job never stalls the read loop.
func (c *Client) Run(ctx context.Context) errs.Error {
	for {
		env, err := c.r.ReadEnvelope()
		if err != nil {
			c.cancelAll()
			return err
		}

		switch env.Tag {
		case protocol.TagJobRequest:
			var req protocol.JobRequest
			if err := env.Unpack(&req); err != nil {
				continue
			}
			go c.handleJobRequest(ctx, req)
		case protocol.TagJobControlRequest:
			var req protocol.JobControlRequest
			if err := env.Unpack(&req); err != nil {
				continue
			}
			c.handleJobControl(req)
		case protocol.TagShutdown:
			c.cancelAll()
			return nil
		case protocol.TagKeepAlive:
			_ = c.send(protocol.TagKeepAlive, protocol.KeepAlive{})
		}

		if ctx.Err() != nil {
			c.cancelAll()
			return errs.CodeTransportClosed.Error(ctx.Err())
		}
	}
}

func (c *Client) handleJobRequest(parent context.Context, req protocol.JobRequest) {
	descriptor, ok := jobclass.Lookup(req.ClassName)
	if !ok {
		_ = c.send(protocol.TagJobResponse, protocol.JobResponse{
			JobID: req.JobID, Code: protocol.JobRejectedNoSuchClass, Message: req.ClassName,
		})
		return
	}

	params := paramset.Bag{}
	if len(req.Parameters) > 0 {
		var perr errs.Error
		params, perr = paramset.Unmarshal(req.Parameters)
		if perr != nil {
			_ = c.send(protocol.TagJobResponse, protocol.JobResponse{
				JobID: req.JobID, Code: protocol.JobRejectedOther, Message: perr.Error(),
			})
			return
		}
	}

	runner, rerr := descriptor.NewRunner(params)
	if rerr != nil {
		_ = c.send(protocol.TagJobResponse, protocol.JobResponse{
			JobID: req.JobID, Code: protocol.JobRejectedOther, Message: rerr.Error(),
		})
		return
	}

	ctx, cancel := context.WithCancel(parent)
	rj := &runningJob{cancel: cancel, graceful: make(chan struct{})}
	c.mu.Lock()
	c.jobs[req.JobID] = rj
	c.mu.Unlock()

	if err := c.send(protocol.TagJobResponse, protocol.JobResponse{JobID: req.JobID, Code: protocol.JobAccepted}); err != nil {
		c.dropJob(req.JobID)
		return
	}

	if req.ThreadStartupDelay > 0 {
		select {
		case <-ctx.Done():
		case <-time.After(req.ThreadStartupDelay):
		}
	}

	c.executeJob(ctx, req, rj, runner)
}

func (c *Client) executeJob(ctx context.Context, req protocol.JobRequest, rj *runningJob, runner jobclass.Runner) {
	defer c.dropJob(req.JobID)

	if req.StopTime.IsZero() && req.Duration > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, req.Duration)
		defer cancel()
	} else if !req.StopTime.IsZero() {
		var cancel context.CancelFunc
		ctx, cancel = context.WithDeadline(ctx, req.StopTime)
		defer cancel()
	}

	bag := stats.Bag{}
	var bagMu sync.Mutex
	emit := func(t stats.Tracker) {
		bagMu.Lock()
		bag[t.Name()] = t
		bagMu.Unlock()
	}

	stopTicker := c.streamStatistics(ctx, req.JobID, req.StatPersistInterval, &bagMu, bag)
	defer stopTicker()

	runErr := runner.Run(ctx, rj.graceful, emit)

	bagMu.Lock()
	payload, merr := bag.Marshal()
	bagMu.Unlock()
	if merr != nil {
		payload = nil
	}

	code := protocol.JobCompletedSuccessfully
	message := ""
	switch {
	case runErr != nil:
		code = protocol.JobCompletedWithErrors
		message = runErr.Error()
	case c.wasAborted(req.JobID):
		code = protocol.JobAborted
	case c.wasStopped(req.JobID):
		code = protocol.JobStoppedByOperator
	case ctx.Err() != nil && !req.StopTime.IsZero():
		code = protocol.JobStoppedStopTimeReached
	}

	_ = c.send(protocol.TagJobResponse, protocol.JobResponse{
		JobID: req.JobID, Code: code, Message: message, StatPayload: payload,
	})
}

// streamStatistics pushes an interval snapshot of bag every interval, if
// the server asked for real-time statistics (a non-zero stat-persistence
// interval); it returns a stop function that must be
// called once the job finishes.
func (c *Client) streamStatistics(ctx context.Context, jobID string, interval time.Duration, bagMu *sync.Mutex, bag stats.Bag) func() {
	if interval <= 0 {
		return func() {}
	}

	done := make(chan struct{})
	go func() {
		t := time.NewTicker(interval)
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-done:
				return
			case <-t.C:
				bagMu.Lock()
				payload, err := bag.Marshal()
				bagMu.Unlock()
				if err != nil {
					continue
				}
				_ = c.send(protocol.TagRealTimeStatistics, protocol.RealTimeStatistics{
					JobID: jobID, Interval: int(interval.Milliseconds()), Payload: payload,
				})
			}
		}
	}()
	return func() { close(done) }
}

func (c *Client) handleJobControl(req protocol.JobControlRequest) {
	switch req.Action {
	case protocol.JobControlStop:
		c.mu.Lock()
		rj, ok := c.jobs[req.JobID]
		if ok {
			rj.stopped = true
		}
		c.mu.Unlock()
		if ok {
			rj.closeGraceful()
		}
		_ = c.send(protocol.TagJobControlResponse, protocol.JobControlResponse{JobID: req.JobID, Success: ok})
	case protocol.JobControlAbort:
		c.mu.Lock()
		rj, ok := c.jobs[req.JobID]
		if ok {
			rj.aborted = true
		}
		c.mu.Unlock()
		if ok {
			rj.cancel()
		}
		_ = c.send(protocol.TagJobControlResponse, protocol.JobControlResponse{JobID: req.JobID, Success: ok})
	default:
		_ = c.send(protocol.TagJobControlResponse, protocol.JobControlResponse{JobID: req.JobID, Success: false, Reason: "unsupported on a load-generator client"})
	}
}

func (c *Client) wasStopped(jobID string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	rj, ok := c.jobs[jobID]
	return ok && rj.stopped
}

func (c *Client) wasAborted(jobID string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	rj, ok := c.jobs[jobID]
	return ok && rj.aborted
}

func (c *Client) dropJob(jobID string) {
	c.mu.Lock()
	delete(c.jobs, jobID)
	c.mu.Unlock()
}

func (c *Client) cancelAll() {
	c.mu.Lock()
	jobs := c.jobs
	c.jobs = map[string]*runningJob{}
	c.mu.Unlock()
	for _, rj := range jobs {
		rj.cancel()
	}
}
