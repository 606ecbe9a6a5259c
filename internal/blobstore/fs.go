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

package blobstore

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/nabbar/slamd/internal/errs"
)

// FSStore is the default Store backend: one file per key under root, the
// key reduced to its final path element so directory separators in a key
// are dropped.
type FSStore struct {
	root string
}

func NewFSStore(root string) (*FSStore, errs.Error) {
	if err := os.MkdirAll(root, 0o750); err != nil {
		return nil, errs.CodeBlobIO.Error(err)
	}
	return &FSStore{root: root}, nil
}

// path maps key to a file under root using filepath.Base(key); no key is
// rejected, and only the last element of a key containing separators is
// kept.
func (s *FSStore) path(key string) string {
	return filepath.Join(s.root, filepath.Base(key))
}

func (s *FSStore) Put(_ context.Context, key string, data []byte) errs.Error {
	if err := os.WriteFile(s.path(key), data, 0o640); err != nil {
		return errs.CodeBlobIO.Error(err)
	}
	return nil
}

func (s *FSStore) Get(_ context.Context, key string) ([]byte, errs.Error) {
	data, err := os.ReadFile(s.path(key))
	if errors.Is(err, os.ErrNotExist) {
		return nil, errs.CodeBlobNotFound.Errorf("key %q", key)
	}
	if err != nil {
		return nil, errs.CodeBlobIO.Error(err)
	}
	return data, nil
}

func (s *FSStore) List(_ context.Context, prefix string) ([]string, errs.Error) {
	entries, err := os.ReadDir(s.root)
	if err != nil {
		return nil, errs.CodeBlobIO.Error(err)
	}

	out := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if strings.HasPrefix(e.Name(), prefix) {
			out = append(out, e.Name())
		}
	}
	sort.Strings(out)
	return out, nil
}

func (s *FSStore) Delete(_ context.Context, key string) errs.Error {
	err := os.Remove(s.path(key))
	if errors.Is(err, os.ErrNotExist) {
		return errs.CodeBlobNotFound.Errorf("key %q", key)
	}
	if err != nil {
		return errs.CodeBlobIO.Error(err)
	}
	return nil
}
