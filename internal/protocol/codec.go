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
	"bufio"
	"bytes"
	"io"
	"sync"

	"github.com/nabbar/slamd/internal/errs"
	"github.com/nabbar/slamd/internal/protocol/hexframe"
)

// delim terminates every frame on the wire. Because the frame's payload is
// hex-encoded first, delim can never appear inside it by accident.
const delim = '\n'

// Writer serialises outbound Envelopes onto a single io.Writer. One Writer
// is shared by every goroutine producing frames for a connection, guarding
// the shared stream with one mutex.
type Writer struct {
	mu sync.Mutex
	w  io.Writer
}

func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

func (w *Writer) WriteEnvelope(e Envelope) errs.Error {
	raw, err := marshalEnvelope(e)
	if err != nil {
		return errs.CodeProtocolMalformed.Error(err)
	}

	frame := hexframe.Encode(raw)
	frame = append(frame, delim)

	w.mu.Lock()
	_, werr := w.w.Write(frame)
	w.mu.Unlock()

	if werr != nil {
		return errs.CodeTransportIO.Error(werr)
	}
	return nil
}

// Reader deserialises one Envelope at a time from a buffered io.Reader, one
// delimited record at a time.
type Reader struct {
	r *bufio.Reader
}

func NewReader(r io.Reader) *Reader {
	return &Reader{r: bufio.NewReader(r)}
}

func (r *Reader) ReadEnvelope() (Envelope, errs.Error) {
	b, err := r.r.ReadBytes(delim)
	if err != nil {
		return Envelope{}, errs.CodeTransportClosed.Error(err)
	}
	b = bytes.TrimSuffix(b, []byte{delim})

	raw, derr := hexframe.Decode(b)
	if derr != nil {
		return Envelope{}, errs.CodeProtocolMalformed.Error(derr)
	}

	var e Envelope
	if uerr := unmarshalEnvelope(raw, &e); uerr != nil {
		return Envelope{}, errs.CodeProtocolMalformed.Error(uerr)
	}

	return e, nil
}
