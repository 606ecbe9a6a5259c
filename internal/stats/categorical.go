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
	"sort"
	"strings"
	"time"

	"github.com/nabbar/slamd/internal/errs"
)

// Categorical is a label→count tracker, e.g. HTTP status code counts.
// Aggregation is a per-label sum across inputs.
type Categorical struct {
	name     string
	interval time.Duration
	counts   map[string]int64
}

func NewCategorical(name string, interval time.Duration) *Categorical {
	return &Categorical{name: name, interval: interval, counts: map[string]int64{}}
}

func (c *Categorical) Name() string            { return c.name }
func (c *Categorical) Kind() Kind               { return KindCategorical }
func (c *Categorical) Interval() time.Duration  { return c.interval }
func (c *Categorical) Len() int                 { return len(c.counts) }

func (c *Categorical) Incr(label string, by int64) {
	c.counts[label] += by
}

func (c *Categorical) Clone() Tracker {
	return NewCategorical(c.name, c.interval)
}

func (c *Categorical) Aggregate(others ...Tracker) (Tracker, errs.Error) {
	if err := sameShape(c, others); err != nil {
		return nil, err
	}

	out := NewCategorical(c.name, c.interval)
	for label, v := range c.counts {
		out.counts[label] += v
	}
	for _, o := range others {
		if oc, ok := o.(*Categorical); ok {
			for label, v := range oc.counts {
				out.counts[label] += v
			}
		}
	}

	return out, nil
}

func (c *Categorical) labels() []string {
	labels := make([]string, 0, len(c.counts))
	for l := range c.counts {
		labels = append(labels, l)
	}
	sort.Strings(labels)
	return labels
}

func (c *Categorical) Summary() string {
	var total int64
	for _, v := range c.counts {
		total += v
	}
	return fmt.Sprintf("%s: total=%d across %d labels", c.name, total, len(c.counts))
}

func (c *Categorical) Detail() string {
	parts := make([]string, 0, len(c.counts))
	for _, l := range c.labels() {
		parts = append(parts, fmt.Sprintf("%s=%d", l, c.counts[l]))
	}
	return fmt.Sprintf("%s {%s}", c.name, strings.Join(parts, ","))
}
