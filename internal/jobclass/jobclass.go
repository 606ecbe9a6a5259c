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

// Package jobclass is the registry of job-class descriptors: a string-keyed
// registry of {metadata(), parameterStubs(), newRunner()}
// plug-ins, registered at program start. The core (scheduler, client run
// loop) only ever sees a Descriptor by name; it never knows about LDAP,
// HTTP, SMTP or SQL probes directly.
package jobclass

import (
	"context"
	"sort"
	"sync"

	"github.com/nabbar/slamd/internal/errs"
	"github.com/nabbar/slamd/internal/paramset"
	"github.com/nabbar/slamd/internal/stats"
)

// Metadata describes a job-class for discovery purposes (class-transfer
// replies, operator tooling) without requiring the caller to instantiate it.
type Metadata struct {
	Name        string
	DisplayName string
	Description string
}

// Runner is one instantiated job-class execution, bound to a single client's
// slice of a job. The thread-startup-delay phase is handled by the caller;
// Run itself executes until ctx is done, graceful is closed, or the
// workload completes on its own.
type Runner interface {
	// Run executes the workload, invoking emit for every tracker it wants
	// folded into the job's per-client statistics at collection-interval
	// boundaries. ctx is cancelled for stop-time/duration expiry and for an
	// operator abort — Run should drop in-progress work and return as soon
	// as possible. graceful is closed only for an operator stop: Run should
	// finish its current operation, then return. Run returns when either
	// signal fires or the workload is finished.
	Run(ctx context.Context, graceful <-chan struct{}, emit func(stats.Tracker)) errs.Error
}

// Descriptor is the abstract interface a job-class plug-in implements: it
// can describe itself, describe its parameters, and build a Runner bound to
// a concrete parameter bag.
type Descriptor interface {
	Metadata() Metadata
	ParameterStubs() paramset.Bag
	NewRunner(params paramset.Bag) (Runner, errs.Error)
}

var (
	mu  sync.Mutex
	reg = map[string]Descriptor{}
)

// Register adds a Descriptor under name, replacing any previous registration
// under the same name. Intended to be called from an init() in the package
// that implements a concrete job-class, mirroring the component-registration
// pattern (config.Registry) one layer down.
func Register(name string, d Descriptor) {
	mu.Lock()
	defer mu.Unlock()
	reg[name] = d
}

// Lookup returns the Descriptor registered under name, if any.
func Lookup(name string) (Descriptor, bool) {
	mu.Lock()
	defer mu.Unlock()
	d, ok := reg[name]
	return d, ok
}

// Names returns every registered job-class name, sorted.
func Names() []string {
	mu.Lock()
	defer mu.Unlock()
	out := make([]string, 0, len(reg))
	for n := range reg {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}
