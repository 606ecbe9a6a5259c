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

func stateColor(state string) *color.Color {
	switch state {
	case "pending", "running", "completing":
		return color.New(color.FgYellow)
	case "completed-successfully":
		return color.New(color.FgGreen)
	case "completed-with-errors", "cancelled", "stopped-due-to-error":
		return color.New(color.FgRed)
	default:
		return color.New(color.FgWhite)
	}
}

func newJobsCommand(newClient func() *apiClient) *spfcbr.Command {
	return &spfcbr.Command{
		Use:   "jobs",
		Short: "List jobs known to the coordinator",
		RunE: func(cmd *spfcbr.Command, args []string) error {
			jobs, err := newClient().ListJobs()
			if err != nil {
				return err
			}

			for _, j := range jobs {
				fmt.Printf("%-24s %-16s ", j.ID, j.ClassName)
				stateColor(j.State).Printf("%s\n", j.State)
			}
			return nil
		},
	}
}

func newJobCommand(newClient func() *apiClient) *spfcbr.Command {
	return &spfcbr.Command{
		Use:   "job <job-id>",
		Short: "Show one job's current state, slots, and statistics",
		Args:  spfcbr.ExactArgs(1),
		RunE: func(cmd *spfcbr.Command, args []string) error {
			j, err := newClient().GetJob(args[0])
			if err != nil {
				return err
			}
			printJob(j)
			return nil
		},
	}
}

func printJob(j jobSummary) {
	fmt.Printf("%s  class=%s  state=", j.ID, j.ClassName)
	stateColor(j.State).Printf("%s\n", j.State)
	if j.StopReason != "" {
		fmt.Printf("  stop reason: %s\n", j.StopReason)
	}
	for _, s := range j.Slots {
		status := "ok"
		if s.Failed {
			status = "failed: " + s.StopReason
		}
		fmt.Printf("  client %-3d %-24s %s\n", s.ClientNumber, s.ConnectionID, status)
	}
	for name, st := range j.Statistics {
		fmt.Printf("  %-20s %s\n", name, st.Summary)
	}
}
