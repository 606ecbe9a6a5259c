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
	"strconv"
	"strings"

	spfcbr "github.com/spf13/cobra"
)

// parseParams turns a slice of "name=value" strings into a JSON-ready map,
// coercing values that look like integers or booleans so numeric and
// boolean parameter kinds round-trip without extra flags.
func parseParams(raw []string) (map[string]interface{}, error) {
	out := make(map[string]interface{}, len(raw))
	for _, kv := range raw {
		name, value, ok := strings.Cut(kv, "=")
		if !ok {
			return nil, fmt.Errorf("malformed --param %q, want name=value", kv)
		}

		if n, err := strconv.ParseInt(value, 10, 64); err == nil {
			out[name] = float64(n)
			continue
		}
		if b, err := strconv.ParseBool(value); err == nil {
			out[name] = b
			continue
		}
		out[name] = value
	}
	return out, nil
}

func newSubmitCommand(newClient func() *apiClient) *spfcbr.Command {
	var (
		className          string
		durationSeconds    int
		clientCount        int
		threadsPerClient   int
		collectionInterval int
		warmUpSeconds      int
		coolDownSeconds    int
		params             []string
	)

	cmd := &spfcbr.Command{
		Use:   "submit <job-id>",
		Short: "Submit a load-generation job",
		Args:  spfcbr.ExactArgs(1),
		RunE: func(cmd *spfcbr.Command, args []string) error {
			parameters, err := parseParams(params)
			if err != nil {
				return err
			}

			j, err := newClient().SubmitJob(submitJobRequest{
				JobID:               args[0],
				ClassName:           className,
				DurationSeconds:     durationSeconds,
				ClientCount:         clientCount,
				ThreadsPerClient:    threadsPerClient,
				CollectionInterval:  collectionInterval,
				WarmUpSeconds:       warmUpSeconds,
				CoolDownSeconds:     coolDownSeconds,
				Parameters:          parameters,
			})
			if err != nil {
				return err
			}

			fmt.Printf("accepted %s (%s), state=%s\n", j.ID, j.ClassName, j.State)
			return nil
		},
	}

	cmd.Flags().StringVar(&className, "class", "", "job class to run (see 'slamd-cli classes')")
	cmd.Flags().IntVar(&durationSeconds, "duration", 0, "run duration in seconds")
	cmd.Flags().IntVar(&clientCount, "clients", 0, "number of load-generator clients to use")
	cmd.Flags().IntVar(&threadsPerClient, "threads", 0, "threads per client")
	cmd.Flags().IntVar(&collectionInterval, "collection-interval", 0, "statistics collection interval in seconds")
	cmd.Flags().IntVar(&warmUpSeconds, "warm-up", 0, "warm-up duration in seconds, excluded from statistics")
	cmd.Flags().IntVar(&coolDownSeconds, "cool-down", 0, "cool-down duration in seconds, excluded from statistics")
	cmd.Flags().StringArrayVar(&params, "param", nil, "job-class parameter as name=value, repeatable")
	_ = cmd.MarkFlagRequired("class")

	return cmd
}
