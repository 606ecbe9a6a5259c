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
	"github.com/nabbar/slamd/internal/errs"
)

// Meta carries the display/validation metadata every parameter kind shares,
// independent of the typed value it describes.
type Meta struct {
	DisplayName string
	Required    bool
	Sensitive   bool

	// Choices constrains KindMultiChoice / KindMultiValuedBitmask values.
	Choices []string

	// Min/Max bound KindInteger values when MaxSet/MinSet is true.
	Min, Max       int64
	MinSet, MaxSet bool
}

// Value is one named entry in a parameter bag: a tagged variant with exactly
// one populated field per Kind, plus the metadata every kind carries.
type Value struct {
	Kind Kind
	Meta Meta

	str    string
	i64    int64
	b      bool
	choice []string
}

func NewString(meta Meta, v string) Value {
	return Value{Kind: KindString, Meta: meta, str: v}
}

func NewMultiLine(meta Meta, v string) Value {
	return Value{Kind: KindMultiLine, Meta: meta, str: v}
}

func NewFileURL(meta Meta, v string) Value {
	return Value{Kind: KindFileURL, Meta: meta, str: v}
}

func NewInteger(meta Meta, v int64) Value {
	return Value{Kind: KindInteger, Meta: meta, i64: v}
}

func NewBoolean(meta Meta, v bool) Value {
	return Value{Kind: KindBoolean, Meta: meta, b: v}
}

func NewMultiChoice(meta Meta, v string) Value {
	return Value{Kind: KindMultiChoice, Meta: meta, str: v}
}

func NewMultiValuedBitmask(meta Meta, v []string) Value {
	c := make([]string, len(v))
	copy(c, v)
	return Value{Kind: KindMultiValuedBitmask, Meta: meta, choice: c}
}

// String returns the value for the string-shaped kinds (String, MultiLine,
// FileURL, MultiChoice).
func (v Value) String() string { return v.str }

func (v Value) Integer() int64 { return v.i64 }

func (v Value) Boolean() bool { return v.b }

func (v Value) Bitmask() []string {
	c := make([]string, len(v.choice))
	copy(c, v.choice)
	return c
}

// Validate checks the value against its own Meta: required-ness, integer
// bounds, and choice-set membership. It never checks other values in the
// same bag — cross-field validation is the job-class descriptor's job.
func (v Value) Validate() errs.Error {
	switch v.Kind {
	case KindInteger:
		if v.Meta.MinSet && v.i64 < v.Meta.Min {
			return errs.CodeConfigInvalid.Errorf("%s: %d is below minimum %d", v.Meta.DisplayName, v.i64, v.Meta.Min)
		}
		if v.Meta.MaxSet && v.i64 > v.Meta.Max {
			return errs.CodeConfigInvalid.Errorf("%s: %d is above maximum %d", v.Meta.DisplayName, v.i64, v.Meta.Max)
		}
	case KindMultiChoice:
		if len(v.Meta.Choices) > 0 && !contains(v.Meta.Choices, v.str) {
			return errs.CodeConfigInvalid.Errorf("%s: %q is not one of %v", v.Meta.DisplayName, v.str, v.Meta.Choices)
		}
	case KindMultiValuedBitmask:
		for _, c := range v.choice {
			if len(v.Meta.Choices) > 0 && !contains(v.Meta.Choices, c) {
				return errs.CodeConfigInvalid.Errorf("%s: %q is not one of %v", v.Meta.DisplayName, c, v.Meta.Choices)
			}
		}
	case KindString, KindMultiLine, KindFileURL:
		if v.Meta.Required && v.str == "" {
			return errs.CodeConfigInvalid.Errorf("%s: required value is empty", v.Meta.DisplayName)
		}
	}
	return nil
}

func contains(choices []string, v string) bool {
	for _, c := range choices {
		if c == v {
			return true
		}
	}
	return false
}
