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
	"os"
	"path/filepath"
	"strings"

	"github.com/nabbar/slamd/internal/errs"
)

const envPrefix = "SLAMD"

// LoadFile points viper at path, reads it and applies SLAMD_-prefixed
// environment variable overrides. The extension selects the codec among
// those viper understands natively (json, yaml, toml, ...).
func (m *manager) LoadFile(path string) errs.Error {
	m.vpr.SetConfigFile(path)
	m.vpr.SetEnvPrefix(envPrefix)
	m.vpr.AutomaticEnv()

	if err := m.vpr.ReadInConfig(); err != nil {
		return errs.CodeConfigInvalid.Error(err)
	}
	return nil
}

// WriteDefault renders the registry's aggregated default config and writes
// it to path, creating parent directories as needed.
func (m *manager) WriteDefault(path string) errs.Error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errs.CodeConfigInvalid.Error(err)
	}

	data := m.Registry.DefaultConfig()

	if ext := strings.ToLower(filepath.Ext(path)); ext != ".json" && ext != "" {
		m.vpr.SetConfigType(strings.TrimPrefix(ext, "."))
	}

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return errs.CodeConfigInvalid.Error(err)
	}
	return nil
}
