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
	"time"

	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"
	spfcbr "github.com/spf13/cobra"
)

// terminal mirrors internal/job.State.Terminal()'s case set: the admin API
// only ever hands the CLI the state's string form, not the enum itself.
func terminal(state string) bool {
	switch state {
	case "completed-successfully", "completed-with-errors", "cancelled",
		"stopped-by-user", "stopped-due-to-error", "stopped-due-to-stop-time",
		"stopped-due-to-duration", "disabled":
		return true
	}
	return false
}

func newWatchCommand(newClient func() *apiClient) *spfcbr.Command {
	var interval time.Duration

	cmd := &spfcbr.Command{
		Use:   "watch <job-id>",
		Short: "Poll a job until it reaches a terminal state, showing progress",
		Args:  spfcbr.ExactArgs(1),
		RunE: func(cmd *spfcbr.Command, args []string) error {
			client := newClient()
			id := args[0]

			p := mpb.New(mpb.WithWidth(40))
			bar := p.New(0, mpb.SpinnerStyle().Build(),
				mpb.PrependDecorators(decor.Name(id+" ")),
				mpb.AppendDecorators(decor.Elapsed(decor.ET_STYLE_GO)),
			)

			var last jobSummary
			for {
				j, err := client.GetJob(id)
				if err != nil {
					bar.Abort(true)
					p.Wait()
					return err
				}
				last = j

				if terminal(j.State) {
					bar.SetTotal(bar.Current(), true)
					break
				}
				bar.Increment()
				time.Sleep(interval)
			}
			p.Wait()

			printJob(last)
			return nil
		},
	}
	cmd.Flags().DurationVar(&interval, "interval", 2*time.Second, "poll interval")
	return cmd
}
