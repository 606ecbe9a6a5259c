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
	"sync"

	"github.com/sirupsen/logrus"
)

// logrusAdapter is the single point of contact with the logrus backend;
// every lgr instance created via With() shares one adapter so level changes
// and output redirection apply process-wide.
type logrusAdapter struct {
	mu  sync.Mutex
	log *logrus.Logger
}

func newLogrusAdapter() *logrusAdapter {
	l := logrus.New()
	l.SetFormatter(&logrus.JSONFormatter{})
	return &logrusAdapter{log: l}
}

func (a *logrusAdapter) setLevel(lvl Level) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.log.SetLevel(lvl.logrus())
}

func (a *logrusAdapter) setOutput(w io.Writer) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.log.SetOutput(w)
}

func (a *logrusAdapter) log(lvl Level, message string, fields Fields, args ...interface{}) {
	entry := a.log.WithFields(fields.logrus())

	if len(args) > 0 {
		entry.Logf(lvl.logrus(), message, args...)
		return
	}
	entry.Log(lvl.logrus(), message)
}
