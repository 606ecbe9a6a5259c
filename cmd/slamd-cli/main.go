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

// Command slamd-cli is the operator's command-line front end to a running
// coordinator's admin API: submit and watch jobs, list job classes, drive
// optimizing runs, and control in-flight jobs.
package main

import (
	"fmt"
	"os"

	color "github.com/fatih/color"
	spfcbr "github.com/spf13/cobra"
	"golang.org/x/term"
)

func main() {
	var (
		server   string
		user     string
		password string
	)

	root := &spfcbr.Command{
		Use:           "slamd-cli",
		Short:         "Operator CLI for a SLAMD coordinator's admin API.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *spfcbr.Command, args []string) error {
			if user != "" && password == "" {
				fmt.Fprintf(os.Stderr, "password for %s: ", user)
				b, err := term.ReadPassword(int(os.Stdin.Fd()))
				fmt.Fprintln(os.Stderr)
				if err != nil {
					return err
				}
				password = string(b)
			}
			return nil
		},
	}
	root.PersistentFlags().StringVar(&server, "server", "http://127.0.0.1:7714", "admin API base URL")
	root.PersistentFlags().StringVar(&user, "user", "", "basic auth user, if the coordinator requires it")
	root.PersistentFlags().StringVar(&password, "password", "", "basic auth password; prompted securely if omitted")

	newClient := func() *apiClient {
		return newAPIClient(server, user, password)
	}

	root.AddCommand(
		newClassesCommand(newClient),
		newSubmitCommand(newClient),
		newJobsCommand(newClient),
		newJobCommand(newClient),
		newWatchCommand(newClient),
		newControlCommand(newClient, "stop"),
		newControlCommand(newClient, "abort"),
		newControlCommand(newClient, "disable"),
		newCancelCommand(newClient),
		newOptimizeCommand(newClient),
	)

	if err := root.Execute(); err != nil {
		color.New(color.FgRed).Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}
}
