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

package config

import (
	"os"
	"sync"

	"github.com/fsnotify/fsnotify"
	spfvpr "github.com/spf13/viper"

	"github.com/nabbar/slamd/internal/errs"
	"github.com/nabbar/slamd/internal/logging"
)

// FuncEvent is a lifecycle hook called before/after Start, Reload or Stop.
type FuncEvent func() errs.Error

// Manager owns the viper instance, the component Registry and the
// before/after lifecycle hooks, and drives Start/Reload/Stop across every
// registered component; Start and Reload follow dependency order, Stop
// does not.
type Manager interface {
	Registry

	Viper() *spfvpr.Viper
	Logger() logging.Logger

	RegisterFuncStartBefore(fct FuncEvent)
	RegisterFuncStartAfter(fct FuncEvent)
	RegisterFuncReloadBefore(fct FuncEvent)
	RegisterFuncReloadAfter(fct FuncEvent)
	RegisterFuncStopBefore(fct func())
	RegisterFuncStopAfter(fct func())

	// WatchConfig enables viper's fsnotify-backed file watch, calling Reload
	// on every change. Safe to call once.
	WatchConfig()

	// Shutdown stops every component then exits the process with code.
	Shutdown(code int)
}

type manager struct {
	Registry

	mu  sync.Mutex
	vpr *spfvpr.Viper
	log logging.Logger

	watching bool

	fctStartBefore  FuncEvent
	fctStartAfter   FuncEvent
	fctReloadBefore FuncEvent
	fctReloadAfter  FuncEvent
	fctStopBefore   func()
	fctStopAfter    func()
}

// NewManager creates a Manager backed by its own registry and viper instance.
func NewManager(log logging.Logger) Manager {
	return &manager{
		Registry: NewRegistry(),
		vpr:      spfvpr.New(),
		log:      log,
	}
}

func (m *manager) Viper() *spfvpr.Viper { return m.vpr }

func (m *manager) Logger() logging.Logger { return m.log }

func (m *manager) configGet(key string, model interface{}) error {
	if !m.Registry.Has(key) {
		return errs.CodeConfigComponentNotFound.Errorf("component: %s", key)
	}
	return m.vpr.UnmarshalKey(key, model)
}

func (m *manager) RegisterFuncStartBefore(fct FuncEvent) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fctStartBefore = fct
}

func (m *manager) RegisterFuncStartAfter(fct FuncEvent) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fctStartAfter = fct
}

func (m *manager) RegisterFuncReloadBefore(fct FuncEvent) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fctReloadBefore = fct
}

func (m *manager) RegisterFuncReloadAfter(fct FuncEvent) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fctReloadAfter = fct
}

func (m *manager) RegisterFuncStopBefore(fct func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fctStopBefore = fct
}

func (m *manager) RegisterFuncStopAfter(fct func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fctStopAfter = fct
}

func (m *manager) Start(_ FuncConfigGet) errs.Error {
	m.mu.Lock()
	before, after := m.fctStartBefore, m.fctStartAfter
	m.mu.Unlock()

	if before != nil {
		if e := before(); e != nil {
			return e
		}
	}

	if e := m.Registry.Start(m.configGet); e != nil {
		return e
	}

	if after != nil {
		if e := after(); e != nil {
			return e
		}
	}

	return nil
}

func (m *manager) Reload(_ FuncConfigGet) errs.Error {
	m.mu.Lock()
	before, after := m.fctReloadBefore, m.fctReloadAfter
	m.mu.Unlock()

	if before != nil {
		if e := before(); e != nil {
			return e
		}
	}

	if e := m.Registry.Reload(m.configGet); e != nil {
		return e
	}

	if after != nil {
		if e := after(); e != nil {
			return e
		}
	}

	if m.log != nil {
		m.log.Info("configuration reloaded", nil)
	}

	return nil
}

func (m *manager) Stop() {
	m.mu.Lock()
	before, after := m.fctStopBefore, m.fctStopAfter
	m.mu.Unlock()

	if before != nil {
		before()
	}

	m.Registry.Stop()

	if after != nil {
		after()
	}
}

func (m *manager) WatchConfig() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.watching {
		return
	}
	m.watching = true

	m.vpr.OnConfigChange(func(_ fsnotify.Event) {
		if e := m.Reload(nil); e != nil && m.log != nil {
			m.log.Error("config reload failed", logging.Fields{"error": e.Error()})
		}
	})
	m.vpr.WatchConfig()
}

func (m *manager) Shutdown(code int) {
	m.Stop()
	os.Exit(code)
}
