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

// Package blobstore implements a content-addressed blob store keyed by job
// id: a narrow put/get/list/delete interface over the canonical
// serialization of a job/optimizing-job/stat-tracker record, with a
// filesystem-backed default and swappable S3/SQL backends.
package blobstore

import (
	"context"

	"github.com/nabbar/slamd/internal/errs"
)

// Store is the narrow interface the core relies on: it never knows the
// record shape, only that a key maps to an opaque blob.
type Store interface {
	Put(ctx context.Context, key string, data []byte) errs.Error
	Get(ctx context.Context, key string) ([]byte, errs.Error)
	List(ctx context.Context, prefix string) ([]string, errs.Error)
	Delete(ctx context.Context, key string) errs.Error
}

// CodeNotFound is the code a backend returns from Get/Delete on a missing
// key; callers branch on the code rather than a sentinel error value,
// consistent with internal/errs's coded-error taxonomy.
const CodeNotFound = errs.CodeBlobNotFound
