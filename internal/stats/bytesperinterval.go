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

// BytesPerInterval is a long-value-tracker: bytes transferred during each
// interval. Aggregation is a per-interval sum, identical in shape to Counter
// but kept as its own type so Kind() distinguishes it on the wire.
type BytesPerInterval struct {
	name     string
	interval time.Duration
	values   []int64
}

func NewBytesPerInterval(name string, interval time.Duration) *BytesPerInterval {
	return &BytesPerInterval{name: name, interval: interval}
}

func (b *BytesPerInterval) Name() string            { return b.name }
func (b *BytesPerInterval) Kind() Kind               { return KindBytesPerInterval }
func (b *BytesPerInterval) Interval() time.Duration  { return b.interval }
func (b *BytesPerInterval) Len() int                 { return len(b.values) }

func (b *BytesPerInterval) Add(v int64) {
	b.values = append(b.values, v)
}

func (b *BytesPerInterval) Clone() Tracker {
	return NewBytesPerInterval(b.name, b.interval)
}

func (b *BytesPerInterval) Aggregate(others ...Tracker) (Tracker, errs.Error) {
	if err := sameShape(b, others); err != nil {
		return nil, err
	}

	out := NewBytesPerInterval(b.name, b.interval)
	n := b.Len()
	for _, o := range others {
		if ob, ok := o.(*BytesPerInterval); ok && ob.Len() > n {
			n = ob.Len()
		}
	}

	for i := 0; i < n; i++ {
		var sum int64
		if i < b.Len() {
			sum += b.values[i]
		}
		for _, o := range others {
			if ob, ok := o.(*BytesPerInterval); ok && i < ob.Len() {
				sum += ob.values[i]
			}
		}
		out.values = append(out.values, sum)
	}

	return out, nil
}

func (b *BytesPerInterval) total() int64 {
	var sum int64
	for _, v := range b.values {
		sum += v
	}
	return sum
}

func (b *BytesPerInterval) Summary() string {
	return fmt.Sprintf("%s: %d bytes over %d intervals", b.name, b.total(), b.Len())
}

func (b *BytesPerInterval) Detail() string {
	return fmt.Sprintf("%s %v", b.name, b.values)
}
