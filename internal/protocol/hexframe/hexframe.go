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

// Package hexframe hex-encodes an envelope's raw CBOR bytes before they are
// framed between delimiters, so a delimiter byte that happens to occur inside
// the binary record can never be mistaken for a frame boundary. Grounded on
// encoding/hexa package, trimmed to the Encode/Decode pair the
// wire codec actually calls.
package hexframe

import "encoding/hex"

// Encode returns the hex text form of p. Never returns an error: hex encoding
// of an arbitrary byte slice cannot fail.
func Encode(p []byte) []byte {
	if len(p) == 0 {
		return []byte{}
	}

	d := make([]byte, hex.EncodedLen(len(p)))
	hex.Encode(d, p)
	return d
}

// Decode reverses Encode.
func Decode(p []byte) ([]byte, error) {
	if len(p) == 0 {
		return []byte{}, nil
	}

	d := make([]byte, hex.DecodedLen(len(p)))
	n, err := hex.Decode(d, p)
	if err != nil {
		return nil, err
	}
	return d[:n], nil
}
