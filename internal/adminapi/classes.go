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
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nabbar/slamd/internal/jobclass"
)

type parameterStub struct {
	Name        string   `json:"name"`
	Kind        string   `json:"kind"`
	DisplayName string   `json:"display_name,omitempty"`
	Required    bool     `json:"required,omitempty"`
	Sensitive   bool     `json:"sensitive,omitempty"`
	Choices     []string `json:"choices,omitempty"`
	Min         int64    `json:"min,omitempty"`
	Max         int64    `json:"max,omitempty"`
}

type classSummary struct {
	Name        string          `json:"name"`
	DisplayName string          `json:"display_name"`
	Description string          `json:"description"`
	Parameters  []parameterStub `json:"parameters"`
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) handleListClasses(c *gin.Context) {
	names := jobclass.Names()
	out := make([]classSummary, 0, len(names))

	for _, name := range names {
		descriptor, ok := jobclass.Lookup(name)
		if !ok {
			continue
		}
		meta := descriptor.Metadata()
		stubs := descriptor.ParameterStubs()

		params := make([]parameterStub, 0, len(stubs))
		for pname, v := range stubs {
			params = append(params, parameterStub{
				Name: pname, Kind: v.Kind.String(),
				DisplayName: v.Meta.DisplayName, Required: v.Meta.Required,
				Sensitive: v.Meta.Sensitive, Choices: v.Meta.Choices,
				Min: v.Meta.Min, Max: v.Meta.Max,
			})
		}

		out = append(out, classSummary{
			Name: meta.Name, DisplayName: meta.DisplayName,
			Description: meta.Description, Parameters: params,
		})
	}

	c.JSON(http.StatusOK, gin.H{"classes": out})
}
