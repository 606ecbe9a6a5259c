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

package stats

import (
	"fmt"
	"time"

	"github.com/nabbar/slamd/internal/errs"
)

// TimeSeries holds a per-interval double value, e.g. "Response Time (ms)".
// Aggregation is a per-interval mean across inputs.
type TimeSeries struct {
	name     string
	interval time.Duration
	values   []float64
}

func NewTimeSeries(name string, interval time.Duration) *TimeSeries {
	return &TimeSeries{name: name, interval: interval}
}

func (t *TimeSeries) Name() string           { return t.name }
func (t *TimeSeries) Kind() Kind             { return KindTimeSeries }
func (t *TimeSeries) Interval() time.Duration { return t.interval }
func (t *TimeSeries) Len() int               { return len(t.values) }

func (t *TimeSeries) Add(v float64) {
	t.values = append(t.values, v)
}

func (t *TimeSeries) Clone() Tracker {
	return NewTimeSeries(t.name, t.interval)
}

func (t *TimeSeries) Aggregate(others ...Tracker) (Tracker, errs.Error) {
	if err := sameShape(t, others); err != nil {
		return nil, err
	}

	out := NewTimeSeries(t.name, t.interval)
	n := t.Len()
	for _, o := range others {
		if ot, ok := o.(*TimeSeries); ok && ot.Len() > n {
			n = ot.Len()
		}
	}

	for i := 0; i < n; i++ {
		var sum float64
		var count int
		if i < t.Len() {
			sum += t.values[i]
			count++
		}
		for _, o := range others {
			if ot, ok := o.(*TimeSeries); ok && i < ot.Len() {
				sum += ot.values[i]
				count++
			}
		}
		if count == 0 {
			out.values = append(out.values, 0)
		} else {
			out.values = append(out.values, sum/float64(count))
		}
	}

	return out, nil
}

func (t *TimeSeries) mean() float64 {
	if len(t.values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range t.values {
		sum += v
	}
	return sum / float64(len(t.values))
}

func (t *TimeSeries) Summary() string {
	return fmt.Sprintf("%s: mean=%.3f over %d intervals", t.name, t.mean(), t.Len())
}

func (t *TimeSeries) Detail() string {
	return fmt.Sprintf("%s %v", t.name, t.values)
}
