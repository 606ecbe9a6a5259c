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
	"time"

	libcbr "github.com/fxamacker/cbor/v2"

	"github.com/nabbar/slamd/internal/errs"
)

// Bag is the set of trackers one client reports for one job, keyed by
// statistic name — the shape carried in JobResponse.StatPayload and
// RealTimeStatistics.Payload ("statistic name" grouping).
type Bag map[string]Tracker

// wireTracker is the canonical CBOR form every tracker kind serializes
// through, the same typed-value/parallel-wire-struct shape
// internal/paramset's Bag uses for its own wire form.
type wireTracker struct {
	Kind     Kind          `cbor:"1,keyasint"`
	Name     string        `cbor:"2,keyasint"`
	Interval time.Duration `cbor:"3,keyasint"`

	IntValues   []int64            `cbor:"4,keyasint,omitempty"`
	FloatValues []float64          `cbor:"5,keyasint,omitempty"`
	Labels      map[string]int64   `cbor:"6,keyasint,omitempty"`
	Bounds      []float64          `cbor:"7,keyasint,omitempty"`
}

func toWire(t Tracker) (wireTracker, errs.Error) {
	w := wireTracker{Kind: t.Kind(), Name: t.Name(), Interval: t.Interval()}
	switch v := t.(type) {
	case *Counter:
		w.IntValues = v.values
	case *BytesPerInterval:
		w.IntValues = v.values
	case *TimeSeries:
		w.FloatValues = v.values
	case *Categorical:
		w.Labels = v.counts
	case *Histogram:
		w.Bounds = v.bounds
		w.IntValues = v.counts
	default:
		return wireTracker{}, errs.CodeProtocolMalformed.Errorf("stats: unknown tracker type for %q", t.Name())
	}
	return w, nil
}

func (w wireTracker) toTracker() (Tracker, errs.Error) {
	switch w.Kind {
	case KindCounter:
		t := NewCounter(w.Name, w.Interval)
		t.values = append(t.values, w.IntValues...)
		return t, nil
	case KindBytesPerInterval:
		t := NewBytesPerInterval(w.Name, w.Interval)
		t.values = append(t.values, w.IntValues...)
		return t, nil
	case KindTimeSeries:
		t := NewTimeSeries(w.Name, w.Interval)
		t.values = append(t.values, w.FloatValues...)
		return t, nil
	case KindCategorical:
		t := NewCategorical(w.Name, w.Interval)
		for label, v := range w.Labels {
			t.counts[label] = v
		}
		return t, nil
	case KindHistogram:
		t := NewHistogram(w.Name, w.Interval, w.Bounds)
		copy(t.counts, w.IntValues)
		return t, nil
	}
	return nil, errs.CodeProtocolMalformed.Errorf("stats: unknown wire tracker kind %d", w.Kind)
}

// Marshal encodes the bag as CBOR, the way internal/paramset.Bag encodes its
// own tagged values.
func (b Bag) Marshal() ([]byte, errs.Error) {
	wire := make(map[string]wireTracker, len(b))
	for name, t := range b {
		w, err := toWire(t)
		if err != nil {
			return nil, err
		}
		wire[name] = w
	}
	p, err := libcbr.Marshal(wire)
	if err != nil {
		return nil, errs.CodeProtocolMalformed.Error(err)
	}
	return p, nil
}

// UnmarshalBag decodes a Bag previously produced by Marshal.
func UnmarshalBag(data []byte) (Bag, errs.Error) {
	var wire map[string]wireTracker
	if err := libcbr.Unmarshal(data, &wire); err != nil {
		return nil, errs.CodeProtocolMalformed.Error(err)
	}
	out := make(Bag, len(wire))
	for name, w := range wire {
		t, err := w.toTracker()
		if err != nil {
			return nil, err
		}
		out[name] = t
	}
	return out, nil
}
