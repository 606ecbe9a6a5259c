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
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/nabbar/slamd/internal/job"
)

type submitOptimizingRequest struct {
	ID        string `json:"id" binding:"required"`
	ClassName string `json:"class_name" binding:"required"`

	Parameters map[string]interface{} `json:"parameters,omitempty"`

	MinThreads        int    `json:"min_threads"`
	MaxThreads        int    `json:"max_threads,omitempty"`
	ThreadIncrement   int    `json:"thread_increment"`
	IterationSeconds  int    `json:"iteration_duration_seconds"`
	InterIterationGap int    `json:"inter_iteration_gap_seconds,omitempty"`
	MaxNonImproving   int    `json:"max_non_improving,omitempty"`
	RerunBest         bool   `json:"rerun_best,omitempty"`
	RerunSeconds      int    `json:"rerun_duration_seconds,omitempty"`
	Direction         string `json:"direction,omitempty"`
}

type iterationSummary struct {
	JobID   string  `json:"job_id"`
	Threads int     `json:"threads"`
	Value   float64 `json:"value"`
}

type optimizingSummary struct {
	ID         string             `json:"id"`
	Status     string             `json:"status"`
	Iterations []iterationSummary `json:"iterations,omitempty"`
	Best       *iterationSummary  `json:"best,omitempty"`
	RerunJobID string             `json:"rerun_job_id,omitempty"`
	StopReason string             `json:"stop_reason,omitempty"`
}

func toOptimizingSummary(o *job.OptimizingJob) optimizingSummary {
	iters := o.Iterations()
	out := make([]iterationSummary, 0, len(iters))
	for _, it := range iters {
		out = append(out, iterationSummary{JobID: it.JobID, Threads: it.Threads, Value: it.Value})
	}

	summary := optimizingSummary{
		ID: o.ID(), Status: o.Status().String(),
		Iterations: out, RerunJobID: o.RerunJobID(), StopReason: o.StopReason(),
	}
	if best, ok := o.Best(); ok {
		summary.Best = &iterationSummary{JobID: best.JobID, Threads: best.Threads, Value: best.Value}
	}
	return summary
}

func (s *Server) handleSubmitOptimizing(c *gin.Context) {
	var req submitOptimizingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	params, perr := decodeParameters(req.ClassName, req.Parameters)
	if perr != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": perr.Error()})
		return
	}

	direction := job.Maximize
	if req.Direction == "minimize" {
		direction = job.Minimize
	}

	spec := job.OptimizingSpec{
		ID:                req.ID,
		ClassName:         req.ClassName,
		Parameters:        params,
		MinThreads:        req.MinThreads,
		MaxThreads:        req.MaxThreads,
		ThreadIncrement:   req.ThreadIncrement,
		IterationDuration: time.Duration(req.IterationSeconds) * time.Second,
		InterIterationGap: time.Duration(req.InterIterationGap) * time.Second,
		MaxNonImproving:   req.MaxNonImproving,
		RerunBest:         req.RerunBest,
		RerunDuration:     time.Duration(req.RerunSeconds) * time.Second,
		Direction:         direction,
	}

	s.mu.Lock()
	s.submitted[spec.ID] = true
	s.mu.Unlock()

	go func() {
		_, _ = s.drv.Run(context.Background(), spec)
	}()

	c.JSON(http.StatusAccepted, gin.H{"id": spec.ID, "status": "running"})
}

func (s *Server) handleGetOptimizing(c *gin.Context) {
	id := c.Param("id")

	s.mu.Lock()
	o, done := s.optimizing[id]
	_, submitted := s.submitted[id]
	s.mu.Unlock()

	if done {
		c.JSON(http.StatusOK, toOptimizingSummary(o))
		return
	}
	if submitted {
		c.JSON(http.StatusOK, gin.H{"id": id, "status": "running"})
		return
	}
	c.JSON(http.StatusNotFound, gin.H{"error": "no such optimizing job"})
}
