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

package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	spfcbr "github.com/spf13/cobra"
	spfvpr "github.com/spf13/viper"

	"github.com/nabbar/slamd/internal/errs"
)

const jsonIndent = "  "

// Registry holds the set of components a Manager drives, keyed by name.
type Registry interface {
	Has(key string) bool
	Get(key string) Component
	Set(key string, cpt Component)
	Del(key string)
	Keys() []string

	Start(get FuncConfigGet) errs.Error
	Reload(get FuncConfigGet) errs.Error
	Stop()

	IsStarted() bool
	IsRunning(atLeast bool) bool

	DefaultConfig() []byte
	RegisterFlag(cmd *spfcbr.Command, vpr *spfvpr.Viper) error
}

type registry struct {
	mu sync.Mutex
	l  map[string]Component
}

// NewRegistry creates an empty component Registry.
func NewRegistry() Registry {
	return &registry{l: make(map[string]Component)}
}

func (r *registry) Has(key string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.l[key]
	return ok
}

func (r *registry) Get(key string) Component {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.l[key]
}

func (r *registry) Set(key string, cpt Component) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.l[key] = cpt
}

func (r *registry) Del(key string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.l, key)
}

func (r *registry) Keys() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	res := make([]string, 0, len(r.l))
	for k := range r.l {
		res = append(res, k)
	}
	return res
}

func (r *registry) startOne(key string, get FuncConfigGet) errs.Error {
	cpt := r.Get(key)
	if cpt == nil {
		return errs.CodeConfigComponentNotFound.Errorf("component: %s", key)
	} else if cpt.IsStarted() {
		return nil
	}

	for _, dep := range cpt.Dependencies() {
		var e errs.Error

		for retry := 0; retry < 3; retry++ {
			if e = r.startOne(dep, get); e == nil {
				break
			}
			time.Sleep(100 * time.Millisecond)
		}

		if e != nil {
			return e
		}
	}

	if e := cpt.Start(get); e != nil {
		return e
	}

	r.Set(key, cpt)
	return nil
}

func (r *registry) Start(get FuncConfigGet) errs.Error {
	for _, key := range r.Keys() {
		if e := r.startOne(key, get); e != nil {
			return e
		}
	}
	return nil
}

func (r *registry) reloadOne(done []string, key string, get FuncConfigGet) ([]string, errs.Error) {
	cpt := r.Get(key)
	if cpt == nil {
		return done, errs.CodeConfigComponentNotFound.Errorf("component: %s", key)
	}

	for _, k := range done {
		if k == key {
			return done, nil
		}
	}

	for _, dep := range cpt.Dependencies() {
		var e errs.Error
		if done, e = r.reloadOne(done, dep, get); e != nil {
			return done, e
		}
	}

	if e := cpt.Reload(get); e != nil {
		return done, e
	}

	r.Set(key, cpt)
	return append(done, key), nil
}

func (r *registry) Reload(get FuncConfigGet) errs.Error {
	done := make([]string, 0)

	for _, key := range r.Keys() {
		var e errs.Error
		if done, e = r.reloadOne(done, key, get); e != nil {
			return e
		}
	}
	return nil
}

func (r *registry) Stop() {
	for _, key := range r.Keys() {
		if cpt := r.Get(key); cpt != nil {
			cpt.Stop()
		}
	}
}

func (r *registry) IsStarted() bool {
	for _, key := range r.Keys() {
		if cpt := r.Get(key); cpt != nil && !cpt.IsStarted() {
			return false
		}
	}
	return true
}

func (r *registry) IsRunning(atLeast bool) bool {
	for _, key := range r.Keys() {
		if cpt := r.Get(key); cpt != nil && !cpt.IsRunning(atLeast) {
			return false
		}
	}
	return true
}

func (r *registry) DefaultConfig() []byte {
	buf := bytes.NewBufferString("{\n")
	n := buf.Len()

	for _, key := range r.Keys() {
		cpt := r.Get(key)
		if cpt == nil {
			continue
		}

		p := cpt.DefaultConfig(jsonIndent)
		if len(p) == 0 {
			continue
		}

		if buf.Len() > n {
			buf.WriteString(",\n")
		}
		buf.WriteString(fmt.Sprintf("%s%q: ", jsonIndent, key))
		buf.Write(p)
	}

	buf.WriteString("\n}")

	res := &bytes.Buffer{}
	if err := json.Indent(res, buf.Bytes(), "", jsonIndent); err != nil {
		return buf.Bytes()
	}
	return res.Bytes()
}

func (r *registry) RegisterFlag(cmd *spfcbr.Command, vpr *spfvpr.Viper) error {
	err := errs.CodeConfigFlagRegistration.Error()

	for _, key := range r.Keys() {
		cpt := r.Get(key)
		if cpt == nil {
			continue
		}
		if e := cpt.RegisterFlag(cmd, vpr); e != nil {
			err.Add(e)
		} else {
			r.Set(key, cpt)
		}
	}

	if len(err.Parents()) > 0 {
		return err
	}
	return nil
}
