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
	"time"

	hcversion "github.com/hashicorp/go-version"

	"github.com/nabbar/slamd/internal/errs"
	"github.com/nabbar/slamd/internal/protocol"
)

// AuthValidator checks an AUTH_ID/credential pair, returning an error if
// the client should be rejected. The LDAP-backed and static-table
// implementations live in internal/auth.
type AuthValidator func(authID, credential string) errs.Error

// Identity is what a successful Hello exchange establishes about the peer.
type Identity struct {
	AuthID   string
	ClientID string
}

// ServerHello waits (bounded by HandshakeTimeout) for a HelloRequest,
// validates its client version against minVersion and its credentials
// against validate, and replies with a HelloResponse. On success the
// connection moves authenticating -> idle. On any failure it replies with a
// rejection and moves to disconnected, closing the socket.
func (c *Conn) ServerHello(minVersion string, validate AuthValidator) (Identity, errs.Error) {
	if err := c.transition(StateAuthenticating); err != nil {
		return Identity{}, err
	}

	type result struct {
		env protocol.Envelope
		err errs.Error
	}
	done := make(chan result, 1)

	go func() {
		env, err := c.r.ReadEnvelope()
		done <- result{env, err}
	}()

	var env protocol.Envelope
	select {
	case res := <-done:
		if res.err != nil {
			_ = c.transition(StateDisconnected)
			return Identity{}, errs.CodeProtocolHandshake.Error(res.err)
		}
		env = res.env
	case <-time.After(c.cfg.HandshakeTimeout):
		_ = c.transition(StateDisconnected)
		return Identity{}, errs.CodeProtocolHandshake.Errorf("connection %s: hello handshake timed out", c.ConnectionID)
	}

	if env.Tag != protocol.TagHelloRequest {
		_ = c.transition(StateDisconnected)
		return Identity{}, errs.CodeProtocolHandshake.Errorf("connection %s: expected HelloRequest, got %s", c.ConnectionID, env.Tag)
	}

	var req protocol.HelloRequest
	if err := env.Unpack(&req); err != nil {
		_ = c.transition(StateDisconnected)
		return Identity{}, err
	}

	if rejErr := c.checkHello(req.ClientVersion, minVersion, req.AuthID, req.Credential, validate); rejErr != nil {
		_ = c.Send(protocol.TagHelloResponse, protocol.HelloResponse{Success: false, Reason: rejErr.Error()})
		_ = c.transition(StateDisconnected)
		return Identity{}, rejErr
	}

	if err := c.Send(protocol.TagHelloResponse, protocol.HelloResponse{Success: true}); err != nil {
		return Identity{}, err
	}
	if err := c.transition(StateIdle); err != nil {
		return Identity{}, err
	}
	c.touch()

	return Identity{AuthID: req.AuthID, ClientID: req.ClientID}, nil
}

func (c *Conn) checkHello(clientVersion, minVersion, authID, credential string, validate AuthValidator) errs.Error {
	if minVersion != "" {
		if clientVersion == "" {
			return errs.CodeProtocolHandshake.Errorf("connection %s: missing client version", c.ConnectionID)
		}
		cv, err := hcversion.NewVersion(clientVersion)
		if err != nil {
			return errs.CodeProtocolHandshake.Error(err)
		}
		mv, err := hcversion.NewVersion(minVersion)
		if err != nil {
			return errs.CodeProtocolHandshake.Error(err)
		}
		if cv.LessThan(mv) {
			return errs.CodeProtocolHandshake.Errorf("connection %s: client version %s is below minimum %s", c.ConnectionID, clientVersion, minVersion)
		}
	}
	if validate != nil {
		if err := validate(authID, credential); err != nil {
			return errs.CodeProtocolHandshake.Error(err)
		}
	}
	return nil
}

// ServerHelloMonitor is ServerHello's analogue for monitor-only clients,
// which carry no client-version field.
func (c *Conn) ServerHelloMonitor(validate AuthValidator) (Identity, errs.Error) {
	if err := c.transition(StateAuthenticating); err != nil {
		return Identity{}, err
	}

	type result struct {
		env protocol.Envelope
		err errs.Error
	}
	done := make(chan result, 1)
	go func() {
		env, err := c.r.ReadEnvelope()
		done <- result{env, err}
	}()

	var env protocol.Envelope
	select {
	case res := <-done:
		if res.err != nil {
			_ = c.transition(StateDisconnected)
			return Identity{}, errs.CodeProtocolHandshake.Error(res.err)
		}
		env = res.env
	case <-time.After(c.cfg.HandshakeTimeout):
		_ = c.transition(StateDisconnected)
		return Identity{}, errs.CodeProtocolHandshake.Errorf("connection %s: hello handshake timed out", c.ConnectionID)
	}

	if env.Tag != protocol.TagHelloMonitorRequest {
		_ = c.transition(StateDisconnected)
		return Identity{}, errs.CodeProtocolHandshake.Errorf("connection %s: expected HelloMonitorRequest, got %s", c.ConnectionID, env.Tag)
	}

	var req protocol.HelloMonitorRequest
	if err := env.Unpack(&req); err != nil {
		_ = c.transition(StateDisconnected)
		return Identity{}, err
	}

	if validate != nil {
		if err := validate(req.AuthID, req.Credential); err != nil {
			_ = c.Send(protocol.TagHelloMonitorResponse, protocol.HelloMonitorResponse{Success: false, Reason: err.Error()})
			_ = c.transition(StateDisconnected)
			return Identity{}, errs.CodeProtocolHandshake.Error(err)
		}
	}

	if err := c.Send(protocol.TagHelloMonitorResponse, protocol.HelloMonitorResponse{Success: true}); err != nil {
		return Identity{}, err
	}
	if err := c.transition(StateIdle); err != nil {
		return Identity{}, err
	}
	c.touch()

	return Identity{AuthID: req.AuthID, ClientID: req.ClientID}, nil
}
