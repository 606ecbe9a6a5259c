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

// Package endpoint implements the server-side view of one connection —
// ClientConn for a load-generator client, MonitorConn for a resource-monitor
// client — each owning a write mutex (via protocol.Writer), a read loop, an
// in-flight reply table, a keepalive ticker, and the hello handshake.
package endpoint

// State is a connection's position in per-connection state
// machine: connected -> authenticating -> idle -> (running|monitoring) ->
// idle -> ... -> disconnected.
type State uint8

const (
	StateConnected State = iota
	StateAuthenticating
	StateIdle
	StateRunning
	StateMonitoring
	StateDisconnected
)

func (s State) String() string {
	switch s {
	case StateConnected:
		return "connected"
	case StateAuthenticating:
		return "authenticating"
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StateMonitoring:
		return "monitoring"
	case StateDisconnected:
		return "disconnected"
	}
	return "unknown"
}

var canTransition = map[State]map[State]bool{
	StateConnected:      {StateAuthenticating: true},
	StateAuthenticating: {StateIdle: true, StateDisconnected: true},
	StateIdle:           {StateRunning: true, StateMonitoring: true, StateDisconnected: true},
	StateRunning:        {StateIdle: true, StateDisconnected: true},
	StateMonitoring:     {StateIdle: true, StateDisconnected: true},
}

// Next reports whether to is a legal transition target from s. Every state
// may also move to StateDisconnected directly.
func (s State) Next(to State) bool {
	if to == StateDisconnected {
		return true
	}
	return canTransition[s][to]
}
