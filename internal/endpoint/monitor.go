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

// MonitorConn is the server-side view of one resource-monitor client
// connection.
type MonitorConn struct {
	*Conn
}

func NewMonitorConn(c *Conn) *MonitorConn { return &MonitorConn{Conn: c} }

// EnterMonitoring moves the connection idle -> monitoring once it starts
// observing at least one job.
func (m *MonitorConn) EnterMonitoring() errs.Error { return m.transition(StateMonitoring) }

// LeaveMonitoring moves the connection monitoring -> idle once it stops
// observing every job.
func (m *MonitorConn) LeaveMonitoring() errs.Error { return m.transition(StateIdle) }

// SendMonitorRequest asks the monitor client to start or stop observing a
// job.
func (m *MonitorConn) SendMonitorRequest(ctx context.Context, jobID string, start bool) (protocol.MonitorResponse, errs.Error) {
	env, err := m.Request(ctx, protocol.TagMonitorRequest, protocol.MonitorRequest{JobID: jobID, Start: start})
	if err != nil {
		return protocol.MonitorResponse{}, err
	}
	var resp protocol.MonitorResponse
	if err := env.Unpack(&resp); err != nil {
		return protocol.MonitorResponse{}, err
	}
	return resp, nil
}
