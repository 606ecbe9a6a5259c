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
	"strings"
	"time"

	"github.com/nabbar/slamd/internal/errs"
)

// Histogram tracks counts across a fixed set of buckets, e.g. response-time
// buckets. Buckets are upper bounds; the final bucket is implicitly +Inf.
// Aggregation is a per-bucket sum across inputs.
type Histogram struct {
	name     string
	interval time.Duration
	bounds   []float64
	counts   []int64
}

// NewHistogram builds an empty histogram with len(bounds)+1 buckets: one per
// bound plus an overflow bucket for values above the last bound.
func NewHistogram(name string, interval time.Duration, bounds []float64) *Histogram {
	b := make([]float64, len(bounds))
	copy(b, bounds)
	return &Histogram{
		name:     name,
		interval: interval,
		bounds:   b,
		counts:   make([]int64, len(b)+1),
	}
}

func (h *Histogram) Name() string           { return h.name }
func (h *Histogram) Kind() Kind              { return KindHistogram }
func (h *Histogram) Interval() time.Duration { return h.interval }
func (h *Histogram) Len() int                { return len(h.counts) }

// Observe places v into the first bucket whose bound it does not exceed.
func (h *Histogram) Observe(v float64) {
	for i, bound := range h.bounds {
		if v <= bound {
			h.counts[i]++
			return
		}
	}
	h.counts[len(h.counts)-1]++
}

func (h *Histogram) Clone() Tracker {
	return NewHistogram(h.name, h.interval, h.bounds)
}

func (h *Histogram) Aggregate(others ...Tracker) (Tracker, errs.Error) {
	if err := sameShape(h, others); err != nil {
		return nil, err
	}
	for _, o := range others {
		if oh, ok := o.(*Histogram); ok && len(oh.bounds) != len(h.bounds) {
			return nil, errs.CodeConfigInvalid.Errorf(
				"tracker %q: mismatched histogram buckets for aggregation", h.name)
		}
	}

	out := NewHistogram(h.name, h.interval, h.bounds)
	for i, v := range h.counts {
		out.counts[i] += v
	}
	for _, o := range others {
		if oh, ok := o.(*Histogram); ok {
			for i, v := range oh.counts {
				out.counts[i] += v
			}
		}
	}

	return out, nil
}

func (h *Histogram) total() int64 {
	var sum int64
	for _, v := range h.counts {
		sum += v
	}
	return sum
}

func (h *Histogram) Summary() string {
	return fmt.Sprintf("%s: %d observations across %d buckets", h.name, h.total(), len(h.counts))
}

func (h *Histogram) Detail() string {
	parts := make([]string, 0, len(h.counts))
	for i, v := range h.counts {
		if i < len(h.bounds) {
			parts = append(parts, fmt.Sprintf("<=%g:%d", h.bounds[i], v))
		} else {
			parts = append(parts, fmt.Sprintf("+Inf:%d", v))
		}
	}
	return fmt.Sprintf("%s {%s}", h.name, strings.Join(parts, ","))
}
