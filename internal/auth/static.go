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

// Package auth implements the backends behind a HelloRequest's AUTH_ID/
// credential check: a default in-memory static table, and an optional
// LDAP-backed validator for deployments that centralize credentials in a
// directory.
package auth

import (
	"sync"

	"github.com/nabbar/slamd/internal/endpoint"
	"github.com/nabbar/slamd/internal/errs"
)

// StaticTable is the default, always-available AuthValidator backend: an
// in-memory map of auth id to expected credential, populated from server
// configuration.
type StaticTable struct {
	mu    sync.RWMutex
	creds map[string]string
}

// NewStaticTable builds a StaticTable from a fixed auth-id/credential map.
// A nil or empty map rejects every AUTH_ID.
func NewStaticTable(creds map[string]string) *StaticTable {
	t := &StaticTable{creds: make(map[string]string, len(creds))}
	for k, v := range creds {
		t.creds[k] = v
	}
	return t
}

// Set adds or replaces one auth id's expected credential.
func (t *StaticTable) Set(authID, credential string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.creds[authID] = credential
}

// Remove drops an auth id from the table.
func (t *StaticTable) Remove(authID string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.creds, authID)
}

// Validator returns an endpoint.AuthValidator bound to this table.
func (t *StaticTable) Validator() endpoint.AuthValidator {
	return func(authID, credential string) errs.Error {
		t.mu.RLock()
		want, ok := t.creds[authID]
		t.mu.RUnlock()

		if !ok {
			return errs.CodeProtocolHandshake.Errorf("unknown auth id %q", authID)
		}
		if want != credential {
			return errs.CodeProtocolHandshake.Errorf("credential mismatch for auth id %q", authID)
		}
		return nil
	}
}
