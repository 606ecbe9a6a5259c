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

package protocol

import (
	libcbr "github.com/fxamacker/cbor/v2"

	"github.com/nabbar/slamd/internal/errs"
)

// Envelope is the common frame every message rides in: an id the sender
// picked (echoed unchanged in any reply) plus a tagged body.
type Envelope struct {
	ID   int64  `cbor:"i"`
	Tag  Tag    `cbor:"t"`
	Body []byte `cbor:"b"`
}

// Pack marshals body as CBOR and wraps it in an Envelope tagged for the
// given message kind.
func Pack(id int64, tag Tag, body interface{}) (Envelope, errs.Error) {
	p, err := libcbr.Marshal(body)
	if err != nil {
		return Envelope{}, errs.CodeProtocolMalformed.Error(err)
	}
	return Envelope{ID: id, Tag: tag, Body: p}, nil
}

// Unpack decodes an Envelope's body into out, which must match the shape
// registered for e.Tag.
func (e Envelope) Unpack(out interface{}) errs.Error {
	if err := libcbr.Unmarshal(e.Body, out); err != nil {
		return errs.CodeProtocolMalformed.Error(err)
	}
	return nil
}

// marshalEnvelope/unmarshalEnvelope are the raw CBOR codec for the Envelope
// itself, used by the Writer/Reader in codec.go.
func marshalEnvelope(e Envelope) ([]byte, error) {
	return libcbr.Marshal(e)
}

func unmarshalEnvelope(p []byte, e *Envelope) error {
	return libcbr.Unmarshal(p, e)
}
