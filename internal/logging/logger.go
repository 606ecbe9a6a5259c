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

// Package logging is SLAMD's structured logging facade: a small Logger
// interface backed by logrus, wrapping it behind its own Logger interface
// so the rest of the codebase never imports logrus directly.
package logging

import (
	"io"
	"sync"
)

// FuncLog is a lazily-evaluated logger provider: components accept a
// FuncLog instead of a concrete Logger so the caller can swap backends
// without touching every constructor signature.
type FuncLog func() Logger

// Logger is the structured logging surface every SLAMD component depends on.
type Logger interface {
	SetLevel(lvl Level)
	GetLevel() Level

	SetFields(f Fields)
	GetFields() Fields

	Debug(message string, fields Fields, args ...interface{})
	Info(message string, fields Fields, args ...interface{})
	Warning(message string, fields Fields, args ...interface{})
	Error(message string, fields Fields, args ...interface{})
	Fatal(message string, fields Fields, args ...interface{})

	// CheckError logs err at lvlKO if non-nil, else at lvlOK if lvlOK != NilLevel.
	// Returns true if err was nil.
	CheckError(lvlKO, lvlOK Level, message string, err error) bool

	// With returns a derived Logger carrying extra fields merged on top of
	// the current ones, without mutating the receiver.
	With(f Fields) Logger

	io.Closer
}

type lgr struct {
	mu  sync.RWMutex
	lvl Level
	fld Fields
	out *logrusAdapter
}

// New creates a Logger writing to its own logrus instance at InfoLevel.
func New() Logger {
	l := &lgr{
		lvl: InfoLevel,
		fld: Fields{},
		out: newLogrusAdapter(),
	}
	l.out.setLevel(InfoLevel)
	return l
}

func (l *lgr) SetLevel(lvl Level) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.lvl = lvl
	l.out.setLevel(lvl)
}

func (l *lgr) GetLevel() Level {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.lvl
}

func (l *lgr) SetFields(f Fields) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.fld = f
}

func (l *lgr) GetFields() Fields {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.fld
}

func (l *lgr) With(f Fields) Logger {
	l.mu.RLock()
	merged := l.fld.Merge(f)
	lvl := l.lvl
	l.mu.RUnlock()

	return &lgr{lvl: lvl, fld: merged, out: l.out}
}

func (l *lgr) log(lvl Level, message string, fields Fields, args ...interface{}) {
	l.mu.RLock()
	cur := l.lvl
	base := l.fld
	l.mu.RUnlock()

	if lvl > cur {
		return
	}

	l.out.log(lvl, message, base.Merge(fields), args...)
}

func (l *lgr) Debug(message string, fields Fields, args ...interface{}) {
	l.log(DebugLevel, message, fields, args...)
}

func (l *lgr) Info(message string, fields Fields, args ...interface{}) {
	l.log(InfoLevel, message, fields, args...)
}

func (l *lgr) Warning(message string, fields Fields, args ...interface{}) {
	l.log(WarnLevel, message, fields, args...)
}

func (l *lgr) Error(message string, fields Fields, args ...interface{}) {
	l.log(ErrorLevel, message, fields, args...)
}

func (l *lgr) Fatal(message string, fields Fields, args ...interface{}) {
	l.log(FatalLevel, message, fields, args...)
}

func (l *lgr) CheckError(lvlKO, lvlOK Level, message string, err error) bool {
	if err != nil {
		l.log(lvlKO, message, Fields{"error": err.Error()})
		return false
	}
	if lvlOK != NilLevel {
		l.log(lvlOK, message, nil)
	}
	return true
}

func (l *lgr) Close() error {
	return nil
}
