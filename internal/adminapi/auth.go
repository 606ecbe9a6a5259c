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

package adminapi

import (
	"encoding/base64"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/nabbar/slamd/internal/endpoint"
	"github.com/nabbar/slamd/internal/logging"
)

const wwwAuthenticate = `Basic realm="slamd-admin"`

// BasicAuth builds gin middleware that validates the admin API's HTTP Basic
// credentials through validate, the same AuthValidator the TCP handshake
// uses — one auth.StaticTable or auth.LDAPValidator backs both surfaces.
func BasicAuth(log logging.Logger, validate endpoint.AuthValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		authID, credential, ok := parseBasicAuth(c.GetHeader("Authorization"))
		if !ok {
			c.Header("WWW-Authenticate", wwwAuthenticate)
			c.AbortWithStatus(http.StatusUnauthorized)
			return
		}

		if err := validate(authID, credential); err != nil {
			log.Warning("admin API authentication rejected", logging.Fields{
				"auth_id": authID, "error": err.Error(),
			})
			c.Header("WWW-Authenticate", wwwAuthenticate)
			c.AbortWithStatus(http.StatusUnauthorized)
			return
		}

		c.Set("auth_id", authID)
		c.Next()
	}
}

func parseBasicAuth(header string) (authID, credential string, ok bool) {
	const prefix = "Basic "
	if !strings.HasPrefix(header, prefix) {
		return "", "", false
	}

	raw, err := base64.StdEncoding.DecodeString(header[len(prefix):])
	if err != nil {
		return "", "", false
	}

	parts := strings.SplitN(string(raw), ":", 2)
	if len(parts) != 2 {
		return "", "", false
	}
	return parts[0], parts[1], true
}
