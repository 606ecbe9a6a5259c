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

package jobclass

import (
	"context"
	"time"

	"github.com/nabbar/slamd/internal/errs"
	"github.com/nabbar/slamd/internal/paramset"
	"github.com/nabbar/slamd/internal/stats"
)

const NoopName = "noop"

func init() {
	Register(NoopName, noopDescriptor{})
}

// noopDescriptor is a minimal built-in job-class: it sleeps for its
// configured tick and emits a synthetic "Operations Completed" counter each
// tick, for tests and local smoke-runs that need a runnable class without a
// real probe.
type noopDescriptor struct{}

func (noopDescriptor) Metadata() Metadata {
	return Metadata{
		Name:        NoopName,
		DisplayName: "No-Op",
		Description: "Sleeps and emits a synthetic operations counter; used for tests and smoke-runs.",
	}
}

func (noopDescriptor) ParameterStubs() paramset.Bag {
	return paramset.Bag{
		"tick": paramset.NewInteger(paramset.Meta{
			DisplayName: "Tick (ms)", MinSet: true, Min: 1, MaxSet: true, Max: 60000,
		}, 100),
	}
}

func (noopDescriptor) NewRunner(params paramset.Bag) (Runner, errs.Error) {
	tick := 100 * time.Millisecond
	if v, ok := params["tick"]; ok {
		tick = time.Duration(v.Integer()) * time.Millisecond
	}
	return &noopRunner{tick: tick}, nil
}

type noopRunner struct {
	tick time.Duration
}

func (r *noopRunner) Run(ctx context.Context, graceful <-chan struct{}, emit func(stats.Tracker)) errs.Error {
	counter := stats.NewCounter("Operations Completed", r.tick)

	t := time.NewTicker(r.tick)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			emit(counter)
			return nil
		case <-graceful:
			emit(counter)
			return nil
		case <-t.C:
			counter.Add(1)
			emit(counter)
		}
	}
}
