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

// Counter holds a monotonic per-interval count, e.g. "Operations Completed".
// Aggregation is a per-interval sum across inputs.
type Counter struct {
	name     string
	interval time.Duration
	values   []int64
}

func NewCounter(name string, interval time.Duration) *Counter {
	return &Counter{name: name, interval: interval}
}

func (c *Counter) Name() string          { return c.name }
func (c *Counter) Kind() Kind            { return KindCounter }
func (c *Counter) Interval() time.Duration { return c.interval }
func (c *Counter) Len() int              { return len(c.values) }

// Add appends the count collected for the next interval.
func (c *Counter) Add(v int64) {
	c.values = append(c.values, v)
}

func (c *Counter) Clone() Tracker {
	return NewCounter(c.name, c.interval)
}

func (c *Counter) Aggregate(others ...Tracker) (Tracker, errs.Error) {
	if err := sameShape(c, others); err != nil {
		return nil, err
	}

	out := NewCounter(c.name, c.interval)
	n := c.Len()
	for _, o := range others {
		if oc, ok := o.(*Counter); ok && oc.Len() > n {
			n = oc.Len()
		}
	}

	for i := 0; i < n; i++ {
		var sum int64
		if i < c.Len() {
			sum += c.values[i]
		}
		for _, o := range others {
			if oc, ok := o.(*Counter); ok && i < oc.Len() {
				sum += oc.values[i]
			}
		}
		out.values = append(out.values, sum)
	}

	return out, nil
}

// Total sums every collected interval.
func (c *Counter) Total() int64 {
	var sum int64
	for _, v := range c.values {
		sum += v
	}
	return sum
}

func (c *Counter) Summary() string {
	return fmt.Sprintf("%s: total=%d over %d intervals", c.name, c.Total(), c.Len())
}

func (c *Counter) Detail() string {
	parts := make([]string, len(c.values))
	for i, v := range c.values {
		parts[i] = fmt.Sprintf("%d", v)
	}
	return fmt.Sprintf("%s [%s]", c.name, strings.Join(parts, ","))
}
