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

	"github.com/nabbar/slamd/internal/errs"
	"github.com/nabbar/slamd/internal/protocol"
)

// ClientConn is the server-side view of one load-generator client
// connection.
type ClientConn struct {
	*Conn
}

func NewClientConn(c *Conn) *ClientConn { return &ClientConn{Conn: c} }

// EnterRunning moves the connection idle -> running when a JobRequest is
// accepted.
func (c *ClientConn) EnterRunning() errs.Error { return c.transition(StateRunning) }

// LeaveRunning moves the connection running -> idle once the client's final
// JobResponse for that job has been processed.
func (c *ClientConn) LeaveRunning() errs.Error { return c.transition(StateIdle) }

// SendJobRequest enters the start barrier for one client slot and waits for
// the client's acceptance JobResponse.
func (c *ClientConn) SendJobRequest(ctx context.Context, req protocol.JobRequest) (protocol.JobResponse, errs.Error) {
	env, err := c.Request(ctx, protocol.TagJobRequest, req)
	if err != nil {
		return protocol.JobResponse{}, err
	}
	var resp protocol.JobResponse
	if err := env.Unpack(&resp); err != nil {
		return protocol.JobResponse{}, err
	}
	return resp, nil
}

// SendJobControl issues a start/stop/abort/disable control message.
func (c *ClientConn) SendJobControl(ctx context.Context, jobID string, action protocol.JobControlAction) (protocol.JobControlResponse, errs.Error) {
	env, err := c.Request(ctx, protocol.TagJobControlRequest, protocol.JobControlRequest{JobID: jobID, Action: action})
	if err != nil {
		return protocol.JobControlResponse{}, err
	}
	var resp protocol.JobControlResponse
	if err := env.Unpack(&resp); err != nil {
		return protocol.JobControlResponse{}, err
	}
	return resp, nil
}

// SendShutdown asks the client to close in an orderly fashion.
func (c *ClientConn) SendShutdown(reason string) errs.Error {
	return c.Send(protocol.TagShutdown, protocol.Shutdown{Reason: reason})
}
