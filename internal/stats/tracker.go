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

// Package stats implements SLAMD's typed statistic trackers: the per-client
// time series a job collects every collection-interval, and the rule each
// tracker kind uses to aggregate several clients' trackers of the same name
// into one.
package stats

import (
	"time"

	"github.com/nabbar/slamd/internal/errs"
)

// Kind identifies a tracker's variant, each with its own aggregation rule.
type Kind uint8

const (
	KindCounter Kind = iota
	KindTimeSeries
	KindCategorical
	KindHistogram
	KindBytesPerInterval
)

func (k Kind) String() string {
	switch k {
	case KindCounter:
		return "counter"
	case KindTimeSeries:
		return "time-series"
	case KindCategorical:
		return "categorical-counter"
	case KindHistogram:
		return "histogram"
	case KindBytesPerInterval:
		return "bytes-per-interval"
	}
	return "unknown"
}

// Tracker is a typed per-interval statistic produced by one client during
// one job run, or the aggregate of several such trackers.
type Tracker interface {
	// Name is the display name used to group trackers of the same statistic
	// across clients ("statistic name").
	Name() string

	Kind() Kind

	// Interval is the collection interval every input tracker must share to
	// be aggregated together.
	Interval() time.Duration

	// Len returns the number of collected intervals.
	Len() int

	// Clone returns an empty tracker with the same name, kind and interval —
	// the "newInstance()" companion asks aggregation to build.
	Clone() Tracker

	// Aggregate combines this tracker with others of the same Name/Kind and
	// Interval into a new tracker. The receiver's own data participates.
	Aggregate(others ...Tracker) (Tracker, errs.Error)

	// Summary renders one human line: the statistic's overall figure.
	Summary() string

	// Detail renders the full per-interval breakdown.
	Detail() string
}

// sameShape validates that all trackers share name, kind and interval with
// want before they can be aggregated together.
func sameShape(want Tracker, others []Tracker) errs.Error {
	for _, o := range others {
		if o == nil {
			continue
		}
		if o.Name() != want.Name() || o.Kind() != want.Kind() || o.Interval() != want.Interval() {
			return errs.CodeConfigInvalid.Errorf(
				"tracker %q: mismatched shape for aggregation (kind=%s interval=%s vs kind=%s interval=%s)",
				want.Name(), want.Kind(), want.Interval(), o.Kind(), o.Interval())
		}
	}
	return nil
}
