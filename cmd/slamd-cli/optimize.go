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
	"time"

	spfcbr "github.com/spf13/cobra"
)

func newOptimizeCommand(newClient func() *apiClient) *spfcbr.Command {
	cmd := &spfcbr.Command{
		Use:   "optimize",
		Short: "Submit and inspect optimizing (thread-count search) jobs",
	}
	cmd.AddCommand(newOptimizeSubmitCommand(newClient), newOptimizeStatusCommand(newClient))
	return cmd
}

func newOptimizeSubmitCommand(newClient func() *apiClient) *spfcbr.Command {
	var (
		className         string
		minThreads        int
		maxThreads        int
		threadIncrement   int
		iterationSeconds  int
		interIterationGap int
		maxNonImproving   int
		rerunBest         bool
		rerunSeconds      int
		direction         string
		params            []string
	)

	cmd := &spfcbr.Command{
		Use:   "submit <id>",
		Short: "Submit an optimizing job",
		Args:  spfcbr.ExactArgs(1),
		RunE: func(cmd *spfcbr.Command, args []string) error {
			parameters, err := parseParams(params)
			if err != nil {
				return err
			}

			err = newClient().SubmitOptimizing(submitOptimizingRequest{
				ID:                args[0],
				ClassName:         className,
				Parameters:        parameters,
				MinThreads:        minThreads,
				MaxThreads:        maxThreads,
				ThreadIncrement:   threadIncrement,
				IterationSeconds:  iterationSeconds,
				InterIterationGap: interIterationGap,
				MaxNonImproving:   maxNonImproving,
				RerunBest:         rerunBest,
				RerunSeconds:      rerunSeconds,
				Direction:         direction,
			})
			if err != nil {
				return err
			}

			fmt.Printf("%s: running\n", args[0])
			return nil
		},
	}

	cmd.Flags().StringVar(&className, "class", "", "job class to optimize")
	cmd.Flags().IntVar(&minThreads, "min-threads", 1, "starting thread count per client")
	cmd.Flags().IntVar(&maxThreads, "max-threads", 0, "thread count ceiling, 0 for unbounded")
	cmd.Flags().IntVar(&threadIncrement, "thread-increment", 1, "thread count step between iterations")
	cmd.Flags().IntVar(&iterationSeconds, "iteration-duration", 60, "duration of each iteration in seconds")
	cmd.Flags().IntVar(&interIterationGap, "inter-iteration-gap", 0, "gap between iterations in seconds")
	cmd.Flags().IntVar(&maxNonImproving, "max-non-improving", 3, "iterations without improvement before stopping")
	cmd.Flags().BoolVar(&rerunBest, "rerun-best", false, "re-run the best iteration once the search stops")
	cmd.Flags().IntVar(&rerunSeconds, "rerun-duration", 0, "duration of the best-iteration re-run in seconds")
	cmd.Flags().StringVar(&direction, "direction", "maximize", "maximize or minimize the objective")
	cmd.Flags().StringArrayVar(&params, "param", nil, "job-class parameter as name=value, repeatable")
	_ = cmd.MarkFlagRequired("class")

	return cmd
}

func newOptimizeStatusCommand(newClient func() *apiClient) *spfcbr.Command {
	var watch bool

	cmd := &spfcbr.Command{
		Use:   "status <id>",
		Short: "Show an optimizing job's iterations and best result so far",
		Args:  spfcbr.ExactArgs(1),
		RunE: func(cmd *spfcbr.Command, args []string) error {
			client := newClient()
			for {
				o, err := client.GetOptimizing(args[0])
				if err != nil {
					return err
				}
				printOptimizing(o)

				if !watch || o.Status != "running" {
					return nil
				}
				time.Sleep(2 * time.Second)
			}
		},
	}
	cmd.Flags().BoolVar(&watch, "watch", false, "poll until the search finishes")
	return cmd
}

func printOptimizing(o optimizingSummary) {
	fmt.Printf("%s: %s\n", o.ID, o.Status)
	for _, it := range o.Iterations {
		fmt.Printf("  threads=%-4d value=%-12.2f job=%s\n", it.Threads, it.Value, it.JobID)
	}
	if o.Best != nil {
		fmt.Printf("  best: threads=%d value=%.2f job=%s\n", o.Best.Threads, o.Best.Value, o.Best.JobID)
	}
	if o.RerunJobID != "" {
		fmt.Printf("  rerun job: %s\n", o.RerunJobID)
	}
	if o.StopReason != "" {
		fmt.Printf("  stop reason: %s\n", o.StopReason)
	}
}
