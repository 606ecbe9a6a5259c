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

package paramset

import (
	"sort"

	"github.com/fxamacker/cbor/v2"

	"github.com/nabbar/slamd/internal/errs"
)

// Bag is a named collection of parameter Values, opaque to the scheduler
// beyond its wire form.
type Bag map[string]Value

// Validate runs Value.Validate on every entry, returning the first failure.
func (b Bag) Validate() errs.Error {
	for _, name := range b.names() {
		if err := b[name].Validate(); err != nil {
			return err
		}
	}
	return nil
}

func (b Bag) names() []string {
	names := make([]string, 0, len(b))
	for n := range b {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// wireValue is the single canonical serialization form for any Value kind.
type wireValue struct {
	Kind    Kind     `cbor:"0,keyasint"`
	Str     string   `cbor:"1,keyasint,omitempty"`
	Int     int64    `cbor:"2,keyasint,omitempty"`
	Bool    bool     `cbor:"3,keyasint,omitempty"`
	Bitmask []string `cbor:"4,keyasint,omitempty"`

	DisplayName string   `cbor:"10,keyasint,omitempty"`
	Required    bool     `cbor:"11,keyasint,omitempty"`
	Sensitive   bool     `cbor:"12,keyasint,omitempty"`
	Choices     []string `cbor:"13,keyasint,omitempty"`
	Min         int64    `cbor:"14,keyasint,omitempty"`
	Max         int64    `cbor:"15,keyasint,omitempty"`
	MinSet      bool     `cbor:"16,keyasint,omitempty"`
	MaxSet      bool     `cbor:"17,keyasint,omitempty"`
}

func toWire(v Value) wireValue {
	return wireValue{
		Kind:    v.Kind,
		Str:     v.str,
		Int:     v.i64,
		Bool:    v.b,
		Bitmask: v.choice,

		DisplayName: v.Meta.DisplayName,
		Required:    v.Meta.Required,
		Sensitive:   v.Meta.Sensitive,
		Choices:     v.Meta.Choices,
		Min:         v.Meta.Min,
		Max:         v.Meta.Max,
		MinSet:      v.Meta.MinSet,
		MaxSet:      v.Meta.MaxSet,
	}
}

func (w wireValue) toValue() Value {
	return Value{
		Kind: w.Kind,
		Meta: Meta{
			DisplayName: w.DisplayName,
			Required:    w.Required,
			Sensitive:   w.Sensitive,
			Choices:     w.Choices,
			Min:         w.Min,
			Max:         w.Max,
			MinSet:      w.MinSet,
			MaxSet:      w.MaxSet,
		},
		str:    w.Str,
		i64:    w.Int,
		b:      w.Bool,
		choice: w.Bitmask,
	}
}

// Marshal encodes the bag into its canonical CBOR form.
func (b Bag) Marshal() ([]byte, errs.Error) {
	wire := make(map[string]wireValue, len(b))
	for name, v := range b {
		wire[name] = toWire(v)
	}
	out, err := cbor.Marshal(wire)
	if err != nil {
		return nil, errs.CodeProtocolMalformed.Error(err)
	}
	return out, nil
}

// Unmarshal decodes a Bag from its canonical CBOR form.
func Unmarshal(data []byte) (Bag, errs.Error) {
	wire := map[string]wireValue{}
	if err := cbor.Unmarshal(data, &wire); err != nil {
		return nil, errs.CodeProtocolMalformed.Error(err)
	}
	b := make(Bag, len(wire))
	for name, w := range wire {
		b[name] = w.toValue()
	}
	return b, nil
}
