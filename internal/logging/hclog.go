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

package logging

import (
	"io"
	"log"

	"github.com/hashicorp/go-hclog"
)

// hclogShim adapts a Logger to hclog.Logger, so components written against
// hclog (any HashiCorp-shaped subcomponent) can share SLAMD's single logging backend instead of
// configuring their own.
type hclogShim struct {
	l    Logger
	name string
	args []interface{}
}

// NewHCLog wraps a Logger as an hclog.Logger.
func NewHCLog(l Logger, name string) hclog.Logger {
	return &hclogShim{l: l, name: name}
}

func (h *hclogShim) fields() Fields {
	f := Fields{}
	if h.name != "" {
		f["hclog.name"] = h.name
	}
	for i := 0; i+1 < len(h.args); i += 2 {
		if key, ok := h.args[i].(string); ok {
			f[key] = h.args[i+1]
		}
	}
	return f
}

func (h *hclogShim) Log(level hclog.Level, msg string, args ...interface{}) {
	switch level {
	case hclog.NoLevel, hclog.Off:
	case hclog.Trace, hclog.Debug:
		h.l.Debug(msg, h.fields())
	case hclog.Info:
		h.l.Info(msg, h.fields())
	case hclog.Warn:
		h.l.Warning(msg, h.fields())
	case hclog.Error:
		h.l.Error(msg, h.fields())
	}
}

func (h *hclogShim) Trace(msg string, args ...interface{}) { h.l.Debug(msg, h.fields()) }
func (h *hclogShim) Debug(msg string, args ...interface{}) { h.l.Debug(msg, h.fields()) }
func (h *hclogShim) Info(msg string, args ...interface{})  { h.l.Info(msg, h.fields()) }
func (h *hclogShim) Warn(msg string, args ...interface{})  { h.l.Warning(msg, h.fields()) }
func (h *hclogShim) Error(msg string, args ...interface{}) { h.l.Error(msg, h.fields()) }

func (h *hclogShim) IsTrace() bool { return true }
func (h *hclogShim) IsDebug() bool { return true }
func (h *hclogShim) IsInfo() bool  { return true }
func (h *hclogShim) IsWarn() bool  { return true }
func (h *hclogShim) IsError() bool { return true }

func (h *hclogShim) ImpliedArgs() []interface{} { return h.args }

func (h *hclogShim) With(args ...interface{}) hclog.Logger {
	return &hclogShim{l: h.l, name: h.name, args: append(append([]interface{}{}, h.args...), args...)}
}

func (h *hclogShim) Name() string { return h.name }

func (h *hclogShim) Named(name string) hclog.Logger {
	n := h.name
	if n != "" {
		n = n + "." + name
	} else {
		n = name
	}
	return &hclogShim{l: h.l, name: n, args: h.args}
}

func (h *hclogShim) ResetNamed(name string) hclog.Logger {
	return &hclogShim{l: h.l, name: name, args: h.args}
}

func (h *hclogShim) SetLevel(level hclog.Level) {}

func (h *hclogShim) GetLevel() hclog.Level { return hclog.Info }

func (h *hclogShim) StandardLogger(opts *hclog.StandardLoggerOptions) *log.Logger {
	return log.New(h.StandardWriter(opts), "", 0)
}

func (h *hclogShim) StandardWriter(opts *hclog.StandardLoggerOptions) io.Writer {
	return io.Discard
}
