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

package errs

import (
	"fmt"
	"runtime"
	"strings"
)

type ers struct {
	c CodeError
	m string
	p []error
	f string
	l int
}

// New creates an Error with the given code and message, capturing the
// caller's source location and attaching any non-nil parents.
func New(code CodeError, message string, parents ...error) Error {
	e := &ers{c: code, m: message}
	e.capture(2)
	e.Add(parents...)
	return e
}

// Newf creates an Error with a formatted message.
func Newf(code CodeError, format string, args ...interface{}) Error {
	e := &ers{c: code, m: fmt.Sprintf(format, args...)}
	e.capture(2)
	return e
}

func (e *ers) capture(skip int) {
	if _, file, line, ok := runtime.Caller(skip); ok {
		e.f = file
		e.l = line
	}
}

func (e *ers) Error() string {
	if e == nil {
		return ""
	}

	var sb strings.Builder
	sb.WriteString(e.m)

	for _, p := range e.p {
		if p == nil {
			continue
		}
		sb.WriteString(": ")
		sb.WriteString(p.Error())
	}

	return sb.String()
}

func (e *ers) Code() CodeError { return e.c }

func (e *ers) IsCode(code CodeError) bool { return e.c == code }

func (e *ers) HasCode(code CodeError) bool {
	if e.IsCode(code) {
		return true
	}
	for _, p := range e.p {
		if er, ok := p.(Error); ok && er.HasCode(code) {
			return true
		}
	}
	return false
}

func (e *ers) Add(parents ...error) {
	for _, p := range parents {
		if p != nil {
			e.p = append(e.p, p)
		}
	}
}

func (e *ers) Parents() []error { return e.p }

func (e *ers) File() string { return e.f }

func (e *ers) Line() int { return e.l }

// IsCode reports whether a plain error is a SLAMD Error carrying this code.
func IsCode(err error, code CodeError) bool {
	if err == nil {
		return false
	}
	if e, ok := err.(Error); ok {
		return e.HasCode(code)
	}
	return false
}
