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

package protocol

import "time"

// HelloRequest authenticates a client connection before any other message
// may be exchanged.
type HelloRequest struct {
	AuthID        string `cbor:"1,keyasint"`
	Credential    string `cbor:"2,keyasint,omitempty"`
	ClientID      string `cbor:"3,keyasint"`
	ClientVersion string `cbor:"4,keyasint"`
}

type HelloResponse struct {
	Success bool   `cbor:"1,keyasint"`
	Reason  string `cbor:"2,keyasint,omitempty"`
}

// HelloMonitorRequest is HelloRequest's analogue for monitor-only clients.
type HelloMonitorRequest struct {
	AuthID     string `cbor:"1,keyasint"`
	Credential string `cbor:"2,keyasint,omitempty"`
	ClientID   string `cbor:"3,keyasint"`
}

type HelloMonitorResponse struct {
	Success bool   `cbor:"1,keyasint"`
	Reason  string `cbor:"2,keyasint,omitempty"`
}

// KeepAlive carries no payload; either peer may send it and no reply is
// required.
type KeepAlive struct{}

// ClassTransferRequest asks the peer to send a job-class definition by name.
type ClassTransferRequest struct {
	ClassName string `cbor:"1,keyasint"`
}

type ClassTransferResponse struct {
	ClassName string `cbor:"1,keyasint"`
	Found     bool   `cbor:"2,keyasint"`
	Payload   []byte `cbor:"3,keyasint,omitempty"`
}

// JobRequest is sent server to client to enter the start barrier for a job.
type JobRequest struct {
	JobID               string            `cbor:"1,keyasint"`
	ClassName           string            `cbor:"2,keyasint"`
	StartTime           time.Time         `cbor:"3,keyasint"`
	StopTime            time.Time         `cbor:"4,keyasint,omitempty"`
	Duration            time.Duration     `cbor:"5,keyasint,omitempty"`
	ClientNumber        int               `cbor:"6,keyasint"`
	Threads             int               `cbor:"7,keyasint"`
	ThreadStartupDelay  time.Duration     `cbor:"8,keyasint,omitempty"`
	CollectionInterval  time.Duration     `cbor:"9,keyasint"`
	WarmUp              time.Duration     `cbor:"10,keyasint,omitempty"`
	CoolDown            time.Duration     `cbor:"11,keyasint,omitempty"`
	// Parameters carries a paramset.Bag in its own canonical CBOR form; the
	// wire codec stays agnostic of the parameter-bag package to avoid an
	// import cycle (internal/paramset never needs to know about envelopes).
	Parameters          []byte            `cbor:"12,keyasint,omitempty"`
	StatPersistInterval time.Duration     `cbor:"13,keyasint,omitempty"`
}

// JobResponse is sent client to server, both to confirm barrier entry
// (JobAccepted) and to report the job's terminal outcome.
type JobResponse struct {
	JobID        string          `cbor:"1,keyasint"`
	Code         JobResponseCode `cbor:"2,keyasint"`
	Message      string          `cbor:"3,keyasint,omitempty"`
	StatPayload  []byte          `cbor:"4,keyasint,omitempty"`
}

type JobControlRequest struct {
	JobID  string           `cbor:"1,keyasint"`
	Action JobControlAction `cbor:"2,keyasint"`
}

type JobControlResponse struct {
	JobID   string `cbor:"1,keyasint"`
	Success bool   `cbor:"2,keyasint"`
	Reason  string `cbor:"3,keyasint,omitempty"`
}

type StatusRequest struct{}

type StatusResponse struct {
	Available    bool    `cbor:"1,keyasint"`
	CurrentJobID string  `cbor:"2,keyasint,omitempty"`
	Load         float64 `cbor:"3,keyasint"`
}

// RealTimeStatistics streams interval updates for a running job; only sent
// when the job's stat-persistence-interval requests it.
type RealTimeStatistics struct {
	JobID    string `cbor:"1,keyasint"`
	Interval int    `cbor:"2,keyasint"`
	Payload  []byte `cbor:"3,keyasint"`
}

// Shutdown is sent server to client for an orderly close.
type Shutdown struct {
	Reason string `cbor:"1,keyasint,omitempty"`
}

// ServerShutdown is sent client to server when the client is going away.
type ServerShutdown struct {
	Reason string `cbor:"1,keyasint,omitempty"`
}

// RegisterStatistic is sent monitor to server, announcing a tracker.
type RegisterStatistic struct {
	Name     string        `cbor:"1,keyasint"`
	Interval time.Duration `cbor:"2,keyasint"`
}

type MonitorRequest struct {
	JobID string `cbor:"1,keyasint"`
	Start bool   `cbor:"2,keyasint"`
}

type MonitorResponse struct {
	JobID   string `cbor:"1,keyasint"`
	Success bool   `cbor:"2,keyasint"`
	Reason  string `cbor:"3,keyasint,omitempty"`
}
