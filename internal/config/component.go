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

// Package config implements SLAMD's component-registry configuration model:
// a pluggable subsystem registers itself as a Component under a string key
// (in this repository, the server component, which owns the scheduler, the
// client registry and the blob store), and the Manager drives
// Start/Reload/Stop across the whole registry; Start and Reload follow
// dependency order, Stop does not.
package config

import (
	spfcbr "github.com/spf13/cobra"
	spfvpr "github.com/spf13/viper"

	"github.com/nabbar/slamd/internal/errs"
)

// FuncConfigGet retrieves a component's own config model, decoded from the
// viper instance the Manager holds, given a pointer to decode into.
type FuncConfigGet func(key string, model interface{}) error

// Component is implemented by every pluggable SLAMD subsystem (scheduler,
// job-class registry, blob store backend, monitor client pool, ...).
type Component interface {
	// Type returns the component family name (e.g. "scheduler", "blobstore").
	Type() string

	// RegisterFlag registers the component's command-line flags, bound to
	// the given viper instance under its own key namespace.
	RegisterFlag(cmd *spfcbr.Command, vpr *spfvpr.Viper) error

	// Dependencies lists the keys of components that must be started (or
	// reloaded) before this one.
	Dependencies() []string

	// IsStarted reports whether Start has completed successfully.
	IsStarted() bool

	// IsRunning reports whether the component's managed work is ongoing;
	// atLeast relaxes "all sub-workers running" to "at least one running".
	IsRunning(atLeast bool) bool

	// Start brings the component up using its decoded config model.
	Start(get FuncConfigGet) errs.Error

	// Reload re-applies configuration without a full restart where possible.
	Reload(get FuncConfigGet) errs.Error

	// Stop brings the component down. Must not block indefinitely.
	Stop()

	// DefaultConfig returns the component's default config as indented JSON.
	DefaultConfig(indent string) []byte
}
