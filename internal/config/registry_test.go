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

package config_test

import (
	"fmt"
	"sync"

	spfcbr "github.com/spf13/cobra"
	spfvpr "github.com/spf13/viper"

	. "github.com/nabbar/slamd/internal/config"
	"github.com/nabbar/slamd/internal/errs"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

type fakeComponent struct {
	mu      sync.Mutex
	typ     string
	deps    []string
	started bool
	flagErr error

	startOrder *[]string
}

func (f *fakeComponent) Type() string { return f.typ }

func (f *fakeComponent) RegisterFlag(cmd *spfcbr.Command, vpr *spfvpr.Viper) error {
	return f.flagErr
}

func (f *fakeComponent) Dependencies() []string { return f.deps }

func (f *fakeComponent) IsStarted() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.started
}

func (f *fakeComponent) IsRunning(atLeast bool) bool { return f.IsStarted() }

func (f *fakeComponent) Start(get FuncConfigGet) errs.Error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.started = true
	if f.startOrder != nil {
		*f.startOrder = append(*f.startOrder, f.typ)
	}
	return nil
}

func (f *fakeComponent) Reload(get FuncConfigGet) errs.Error { return nil }

func (f *fakeComponent) Stop() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.started = false
}

func (f *fakeComponent) DefaultConfig(indent string) []byte {
	return []byte(fmt.Sprintf("{%s\"type\": %q%s}", indent, f.typ, indent))
}

var _ = Describe("Registry", func() {
	var reg Registry

	BeforeEach(func() {
		reg = NewRegistry()
	})

	It("starts dependencies before dependents", func() {
		var order []string

		reg.Set("base", &fakeComponent{typ: "base", startOrder: &order})
		reg.Set("scheduler", &fakeComponent{typ: "scheduler", deps: []string{"base"}, startOrder: &order})

		Expect(reg.Start(nil)).To(BeNil())
		Expect(order).To(Equal([]string{"base", "scheduler"}))
	})

	It("reports a missing dependency", func() {
		reg.Set("scheduler", &fakeComponent{typ: "scheduler", deps: []string{"missing"}})

		err := reg.Start(nil)
		Expect(err).NotTo(BeNil())
		Expect(err.IsCode(errs.CodeConfigComponentNotFound)).To(BeTrue())
	})

	It("aggregates default config across components", func() {
		reg.Set("a", &fakeComponent{typ: "a"})
		reg.Set("b", &fakeComponent{typ: "b"})

		out := reg.DefaultConfig()
		Expect(string(out)).To(ContainSubstring(`"a"`))
		Expect(string(out)).To(ContainSubstring(`"b"`))
	})

	It("collects flag registration errors from every component", func() {
		reg.Set("a", &fakeComponent{typ: "a", flagErr: fmt.Errorf("bad flag")})

		err := reg.RegisterFlag(nil, nil)
		Expect(err).To(HaveOccurred())
	})

	It("stops every started component", func() {
		c := &fakeComponent{typ: "a"}
		reg.Set("a", c)

		Expect(reg.Start(nil)).To(BeNil())
		Expect(c.IsStarted()).To(BeTrue())

		reg.Stop()
		Expect(c.IsStarted()).To(BeFalse())
	})
})
