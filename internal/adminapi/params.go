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

package adminapi

import (
	"fmt"

	"github.com/nabbar/slamd/internal/errs"
	"github.com/nabbar/slamd/internal/jobclass"
	"github.com/nabbar/slamd/internal/paramset"
)

// decodeParameters turns the raw JSON parameter map an operator posts into a
// paramset.Bag, typed against className's registered stubs so a string in
// the request body becomes the stub's actual Kind rather than KindString.
func decodeParameters(className string, raw map[string]interface{}) (paramset.Bag, errs.Error) {
	descriptor, ok := jobclass.Lookup(className)
	if !ok {
		return nil, errs.CodeJobNoSuchClass.Errorf("no such job class %q", className)
	}

	stubs := descriptor.ParameterStubs()
	bag := make(paramset.Bag, len(raw))

	for name, v := range raw {
		stub, known := stubs[name]
		if !known {
			return nil, errs.CodeConfigInvalid.Errorf("%s: unknown parameter for class %q", name, className)
		}

		value, err := toValue(stub.Meta, stub.Kind, v)
		if err != nil {
			return nil, errs.CodeConfigInvalid.Error(fmt.Errorf("%s: %w", name, err))
		}
		bag[name] = value
	}

	for name, stub := range stubs {
		if _, present := bag[name]; !present && stub.Meta.Required {
			return nil, errs.CodeConfigInvalid.Errorf("%s: required parameter is missing", name)
		}
	}

	return bag, nil
}

func toValue(meta paramset.Meta, kind paramset.Kind, raw interface{}) (paramset.Value, error) {
	switch kind {
	case paramset.KindString:
		s, ok := raw.(string)
		if !ok {
			return paramset.Value{}, fmt.Errorf("expected a string")
		}
		return paramset.NewString(meta, s), nil
	case paramset.KindMultiLine:
		s, ok := raw.(string)
		if !ok {
			return paramset.Value{}, fmt.Errorf("expected a string")
		}
		return paramset.NewMultiLine(meta, s), nil
	case paramset.KindFileURL:
		s, ok := raw.(string)
		if !ok {
			return paramset.Value{}, fmt.Errorf("expected a string")
		}
		return paramset.NewFileURL(meta, s), nil
	case paramset.KindMultiChoice:
		s, ok := raw.(string)
		if !ok {
			return paramset.Value{}, fmt.Errorf("expected a string")
		}
		return paramset.NewMultiChoice(meta, s), nil
	case paramset.KindInteger:
		switch n := raw.(type) {
		case float64:
			return paramset.NewInteger(meta, int64(n)), nil
		default:
			return paramset.Value{}, fmt.Errorf("expected a number")
		}
	case paramset.KindBoolean:
		b, ok := raw.(bool)
		if !ok {
			return paramset.Value{}, fmt.Errorf("expected a boolean")
		}
		return paramset.NewBoolean(meta, b), nil
	case paramset.KindMultiValuedBitmask:
		items, ok := raw.([]interface{})
		if !ok {
			return paramset.Value{}, fmt.Errorf("expected an array of strings")
		}
		out := make([]string, 0, len(items))
		for _, item := range items {
			s, ok := item.(string)
			if !ok {
				return paramset.Value{}, fmt.Errorf("expected an array of strings")
			}
			out = append(out, s)
		}
		return paramset.NewMultiValuedBitmask(meta, out), nil
	}
	return paramset.Value{}, fmt.Errorf("unsupported parameter kind %s", kind)
}
