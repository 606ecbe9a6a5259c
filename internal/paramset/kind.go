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

// Package paramset implements the job-class parameter bag: a tagged variant
// with one case per parameter kind, replacing a polymorphic
// parameter-class hierarchy with a single sum type the scheduler can
// serialize uniformly regardless of job class.
package paramset

// Kind identifies which variant of Value is populated.
type Kind uint8

const (
	KindString Kind = iota
	KindInteger
	KindBoolean
	KindMultiChoice
	KindMultiLine
	KindMultiValuedBitmask
	KindFileURL
)

func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindInteger:
		return "integer"
	case KindBoolean:
		return "boolean"
	case KindMultiChoice:
		return "multi-choice"
	case KindMultiLine:
		return "multi-line"
	case KindMultiValuedBitmask:
		return "multi-valued-bitmask"
	case KindFileURL:
		return "file-url"
	}
	return "unknown"
}
