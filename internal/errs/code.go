/*
 * MIT License
 *
 * Copyright (c) 2020 Nicolas JUHEL
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

// Package errs provides SLAMD's coded error taxonomy: numeric codes, parent
// chains and stack-frame capture, in place of bare fmt.Errorf. Every error
// surfaced across a connection, a job, or a scheduler decision carries one of
// the codes below so that the scheduler can branch on the taxonomy from
// without string matching.
package errs

import (
	"strconv"
)

// CodeError is a numeric classification of an error, analogous to an HTTP
// status code. Zero means unclassified.
type CodeError uint16

const (
	UnknownError CodeError = 0

	// Transient transport: socket read/write error, timeout, keepalive loss.
	CodeTransportTimeout CodeError = 1000
	CodeTransportClosed  CodeError = 1001
	CodeTransportIO      CodeError = 1002

	// Protocol violation: malformed envelope, unknown tag, mismatched reply id.
	CodeProtocolMalformed   CodeError = 2000
	CodeProtocolUnknownTag  CodeError = 2001
	CodeProtocolReplyUnmatched CodeError = 2002
	CodeProtocolHandshake   CodeError = 2003

	// Job rejection: no such class, restricted, busy.
	CodeJobNoSuchClass CodeError = 3000
	CodeJobRestricted  CodeError = 3001
	CodeJobBusy        CodeError = 3002
	CodeJobOther       CodeError = 3003

	// Job execution failure.
	CodeJobExecution CodeError = 4000

	// Configuration / parameter error, rejected before any client is touched.
	CodeConfigInvalid         CodeError = 5000
	CodeConfigComponentNotFound CodeError = 5001
	CodeConfigFlagRegistration  CodeError = 5002

	// Scheduling failures that are neither transport nor job-execution.
	CodeInsufficientClients CodeError = 6000
	CodeSelectionTimeout    CodeError = 6001

	// Blob-store failures: key absent, backend I/O, serialization.
	CodeBlobNotFound CodeError = 7000
	CodeBlobIO       CodeError = 7001
)

var messages = map[CodeError]string{
	CodeTransportTimeout:       "request timed out",
	CodeTransportClosed:        "connection closed",
	CodeTransportIO:            "transport I/O error",
	CodeProtocolMalformed:      "malformed envelope",
	CodeProtocolUnknownTag:     "unknown message tag",
	CodeProtocolReplyUnmatched: "reply message-id has no matching in-flight request",
	CodeProtocolHandshake:      "hello handshake failed",
	CodeJobNoSuchClass:         "no such job class",
	CodeJobRestricted:          "client is restricted",
	CodeJobBusy:                "client is busy",
	CodeJobOther:               "job rejected",
	CodeJobExecution:           "job execution failed",
	CodeConfigInvalid:          "invalid configuration",
	CodeConfigComponentNotFound: "component not found",
	CodeConfigFlagRegistration:  "flag registration failed",
	CodeInsufficientClients:    "insufficient clients",
	CodeSelectionTimeout:       "timed out waiting for clients to become idle",
	CodeBlobNotFound:           "blob not found",
	CodeBlobIO:                 "blob store I/O error",
}

func (c CodeError) Uint16() uint16 { return uint16(c) }

func (c CodeError) String() string { return strconv.Itoa(int(c)) }

// Message returns the human-readable text registered for this code, or a
// generic fallback if none is registered.
func (c CodeError) Message() string {
	if m, ok := messages[c]; ok {
		return m
	}
	return "unknown error"
}

// Error builds a new Error value with this code and the given parents.
func (c CodeError) Error(parents ...error) Error {
	return New(c, c.Message(), parents...)
}

// Errorf builds a new Error value with this code and a formatted message.
func (c CodeError) Errorf(format string, args ...interface{}) Error {
	return Newf(c, format, args...)
}
