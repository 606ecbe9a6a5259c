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

// Package registry holds the set of currently connected clients and
// resource-monitor clients, indexed by connection id and by host, and
// implements the client-selection policy a job needing N clients consults.
package registry

import "time"

// ClientStatus is a client's status.
type ClientStatus uint8

const (
	ClientIdle ClientStatus = iota
	ClientRunning
	ClientDisconnected
)

func (s ClientStatus) String() string {
	switch s {
	case ClientIdle:
		return "idle"
	case ClientRunning:
		return "running"
	case ClientDisconnected:
		return "disconnected"
	}
	return "unknown"
}

// ClientRecord is the registry's view of one connected load-generator client.
type ClientRecord struct {
	ConnectionID string
	AuthID       string
	Host         string
	ClientID     string

	Status     ClientStatus
	Restricted bool

	// SupportedClasses is populated lazily on first need and cached until
	// disconnect.
	SupportedClasses map[string]bool

	// RunningJobID is set while Status == ClientRunning.
	RunningJobID string

	// idleSince orders the FIFO tie-break among idle clients on the same
	// host.
	idleSince time.Time
}

// MonitorStatus is a resource-monitor client's status.
type MonitorStatus uint8

const (
	MonitorIdle MonitorStatus = iota
	MonitorActive
	MonitorDisconnected
)

func (s MonitorStatus) String() string {
	switch s {
	case MonitorIdle:
		return "idle"
	case MonitorActive:
		return "active"
	case MonitorDisconnected:
		return "disconnected"
	}
	return "unknown"
}

// MonitorRecord is the registry's view of one connected resource-monitor
// client. It may observe many jobs concurrently, so it carries
// a set of observed job ids rather than a single one.
type MonitorRecord struct {
	ConnectionID string
	AuthID       string
	Host         string

	Status      MonitorStatus
	ObservedJobs map[string]bool
}
