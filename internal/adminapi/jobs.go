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
	"time"

	"github.com/gin-gonic/gin"

	"github.com/nabbar/slamd/internal/errs"
	"github.com/nabbar/slamd/internal/job"
	"github.com/nabbar/slamd/internal/protocol"
)

type submitJobRequest struct {
	JobID     string `json:"job_id" binding:"required"`
	ClassName string `json:"class_name" binding:"required"`

	StartTime time.Time `json:"start_time,omitempty"`
	StopTime  time.Time `json:"stop_time,omitempty"`

	DurationSeconds int `json:"duration_seconds,omitempty"`

	ClientCount        int      `json:"client_count,omitempty"`
	RequestedClients   []string `json:"requested_clients,omitempty"`
	ThreadsPerClient   int      `json:"threads_per_client,omitempty"`
	ThreadStartupDelay int      `json:"thread_startup_delay_seconds,omitempty"`
	CollectionInterval int      `json:"collection_interval_seconds,omitempty"`
	WarmUpSeconds      int      `json:"warm_up_seconds,omitempty"`
	CoolDownSeconds    int      `json:"cool_down_seconds,omitempty"`
	StatPersistSeconds int      `json:"stat_persist_interval_seconds,omitempty"`

	Parameters map[string]interface{} `json:"parameters,omitempty"`
}

type slotSummary struct {
	ClientNumber int    `json:"client_number"`
	ConnectionID string `json:"connection_id"`
	Failed       bool   `json:"failed"`
	StopReason   string `json:"stop_reason,omitempty"`
}

type statSummary struct {
	Kind    string `json:"kind"`
	Summary string `json:"summary"`
	Detail  string `json:"detail"`
}

type jobSummary struct {
	ID         string                 `json:"id"`
	ClassName  string                 `json:"class_name"`
	State      string                 `json:"state"`
	StopReason string                 `json:"stop_reason,omitempty"`
	Slots      []slotSummary          `json:"slots,omitempty"`
	Statistics map[string]statSummary `json:"statistics,omitempty"`
}

func toJobSummary(j *job.Job) jobSummary {
	slots := j.Slots()
	slotOut := make([]slotSummary, 0, len(slots))
	for _, s := range slots {
		slotOut = append(slotOut, slotSummary{
			ClientNumber: s.ClientNumber, ConnectionID: s.ConnectionID,
			Failed: s.Failed, StopReason: s.StopReason,
		})
	}

	stats := j.Statistics()
	statOut := make(map[string]statSummary, len(stats))
	for name, t := range stats {
		statOut[name] = statSummary{Kind: t.Kind().String(), Summary: t.Summary(), Detail: t.Detail()}
	}

	return jobSummary{
		ID: j.ID(), ClassName: j.Spec().ClassName, State: j.State().String(),
		StopReason: j.StopReason(), Slots: slotOut, Statistics: statOut,
	}
}

func (s *Server) handleSubmitJob(c *gin.Context) {
	var req submitJobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	params, perr := decodeParameters(req.ClassName, req.Parameters)
	if perr != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": perr.Error()})
		return
	}

	spec := job.Spec{
		ID:                 req.JobID,
		ClassName:          req.ClassName,
		Parameters:         params,
		StartTime:          req.StartTime,
		StopTime:           req.StopTime,
		Duration:           time.Duration(req.DurationSeconds) * time.Second,
		ClientCount:        req.ClientCount,
		RequestedClients:   req.RequestedClients,
		ThreadsPerClient:   req.ThreadsPerClient,
		ThreadStartupDelay: time.Duration(req.ThreadStartupDelay) * time.Second,
		CollectionInterval: time.Duration(req.CollectionInterval) * time.Second,
		WarmUp:             time.Duration(req.WarmUpSeconds) * time.Second,
		CoolDown:           time.Duration(req.CoolDownSeconds) * time.Second,
		StatPersistInterval: time.Duration(req.StatPersistSeconds) * time.Second,
	}

	j, err := s.sched.Submit(spec)
	if err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusAccepted, toJobSummary(j))
}

func (s *Server) handleListJobs(c *gin.Context) {
	jobs := s.sched.Jobs()
	out := make([]jobSummary, 0, len(jobs))
	for _, j := range jobs {
		out = append(out, toJobSummary(j))
	}
	c.JSON(http.StatusOK, gin.H{"jobs": out})
}

func (s *Server) handleGetJob(c *gin.Context) {
	j, ok := s.sched.Job(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "no such job"})
		return
	}
	c.JSON(http.StatusOK, toJobSummary(j))
}

func (s *Server) handleCancelJob(c *gin.Context) {
	var body struct {
		Reason string `json:"reason"`
	}
	_ = c.ShouldBindJSON(&body)

	if err := s.sched.Cancel(c.Param("id"), body.Reason); err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "cancelled"})
}

func (s *Server) handleControlJob(action string) gin.HandlerFunc {
	var pa protocol.JobControlAction
	switch action {
	case "stop":
		pa = protocol.JobControlStop
	case "abort":
		pa = protocol.JobControlAbort
	case "disable":
		pa = protocol.JobControlDisable
	}

	return func(c *gin.Context) {
		ctx := c.Request.Context()
		if err := s.sched.ControlJob(ctx, c.Param("id"), pa); err != nil {
			status := http.StatusConflict
			if err.IsCode(errs.CodeJobOther) {
				status = http.StatusNotFound
			}
			c.JSON(status, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": action})
	}
}
