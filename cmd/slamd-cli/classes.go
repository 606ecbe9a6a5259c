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

package main

import (
	"fmt"

	color "github.com/fatih/color"
	spfcbr "github.com/spf13/cobra"
)

func newClassesCommand(newClient func() *apiClient) *spfcbr.Command {
	return &spfcbr.Command{
		Use:   "classes",
		Short: "List job classes known to the coordinator",
		RunE: func(cmd *spfcbr.Command, args []string) error {
			classes, err := newClient().Classes()
			if err != nil {
				return err
			}

			bold := color.New(color.Bold)
			for _, c := range classes {
				bold.Printf("%s", c.Name)
				fmt.Printf(" — %s\n", c.Description)
				for _, p := range c.Parameters {
					req := ""
					if p.Required {
						req = " (required)"
					}
					fmt.Printf("  %-20s %-14s%s\n", p.Name, p.Kind, req)
				}
			}
			return nil
		},
	}
}
