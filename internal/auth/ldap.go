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

package auth

import (
	"fmt"

	"github.com/go-ldap/ldap/v3"

	"github.com/nabbar/slamd/internal/endpoint"
	"github.com/nabbar/slamd/internal/errs"
)

// LDAPConfig is the subset of ldap.Config needed to locate a
// user entry and attempt a bind against it.
type LDAPConfig struct {
	URI          string
	BaseDN       string
	UserFilter   string // e.g. "(uid=%s)"; %s is replaced with the AUTH_ID
	BindDN       string // service account used to search for the user entry
	BindPassword string
}

// LDAPValidator checks an AUTH_ID/credential pair against a directory: bind
// as the service account, search for the user entry, then attempt a second
// bind as that entry using the supplied credential. Collapsed into one
// AuthValidator call since the core never needs the directory connection
// outside the handshake.
type LDAPValidator struct {
	cfg LDAPConfig
}

func NewLDAPValidator(cfg LDAPConfig) *LDAPValidator {
	return &LDAPValidator{cfg: cfg}
}

// Validator returns an endpoint.AuthValidator bound to this directory.
func (v *LDAPValidator) Validator() endpoint.AuthValidator {
	return func(authID, credential string) errs.Error {
		conn, err := ldap.DialURL(v.cfg.URI)
		if err != nil {
			return errs.CodeProtocolHandshake.Errorf("ldap dial %s: %v", v.cfg.URI, err)
		}
		defer conn.Close()

		if v.cfg.BindDN != "" {
			if err := conn.Bind(v.cfg.BindDN, v.cfg.BindPassword); err != nil {
				return errs.CodeProtocolHandshake.Errorf("ldap service bind: %v", err)
			}
		}

		filter := fmt.Sprintf(v.cfg.UserFilter, ldap.EscapeFilter(authID))
		req := ldap.NewSearchRequest(
			v.cfg.BaseDN, ldap.ScopeWholeSubtree, ldap.NeverDerefAliases,
			0, 0, false, filter, []string{"dn"}, nil,
		)

		res, err := conn.Search(req)
		if err != nil {
			return errs.CodeProtocolHandshake.Errorf("ldap search for %q: %v", authID, err)
		}
		if len(res.Entries) != 1 {
			return errs.CodeProtocolHandshake.Errorf("ldap search for %q returned %d entries", authID, len(res.Entries))
		}

		if err := conn.Bind(res.Entries[0].DN, credential); err != nil {
			return errs.CodeProtocolHandshake.Errorf("ldap credential bind for %q: %v", authID, err)
		}
		return nil
	}
}
