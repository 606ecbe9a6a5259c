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
	. "github.com/nabbar/slamd/internal/config"
	"github.com/nabbar/slamd/internal/errs"
	"github.com/nabbar/slamd/internal/logging"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Manager", func() {
	var mgr Manager

	BeforeEach(func() {
		mgr = NewManager(logging.New())
	})

	It("runs start hooks around component start", func() {
		var seq []string

		mgr.RegisterFuncStartBefore(func() errs.Error {
			seq = append(seq, "before")
			return nil
		})
		mgr.RegisterFuncStartAfter(func() errs.Error {
			seq = append(seq, "after")
			return nil
		})
		mgr.Set("a", &fakeComponent{typ: "a", startOrder: func() *[]string { s := []string{}; return &s }()})

		Expect(mgr.Start(nil)).To(BeNil())
		Expect(seq).To(Equal([]string{"before", "after"}))
	})

	It("aborts start when the before-hook fails", func() {
		mgr.RegisterFuncStartBefore(func() errs.Error {
			return errs.CodeConfigInvalid.Error()
		})

		err := mgr.Start(nil)
		Expect(err).NotTo(BeNil())
	})

	It("exposes its own viper instance", func() {
		Expect(mgr.Viper()).NotTo(BeNil())
	})
})
