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
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// apiClient is a thin JSON/HTTP wrapper around a coordinator's admin API. The
// response shapes mirror internal/adminapi's own (unexported) wire structs.
type apiClient struct {
	base string
	user string
	pass string
	http *http.Client
}

func newAPIClient(base, user, pass string) *apiClient {
	return &apiClient{
		base: strings.TrimRight(base, "/"),
		user: user,
		pass: pass,
		http: &http.Client{Timeout: 30 * time.Second},
	}
}

func (a *apiClient) do(method, path string, body, out interface{}) error {
	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return err
		}
		rdr = bytes.NewReader(b)
	}

	req, err := http.NewRequest(method, a.base+path, rdr)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if a.user != "" {
		req.SetBasicAuth(a.user, a.pass)
	}

	resp, err := a.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode >= http.StatusBadRequest {
		var apiErr struct {
			Error string `json:"error"`
		}
		_ = json.Unmarshal(data, &apiErr)
		if apiErr.Error != "" {
			return fmt.Errorf("%s: %s", resp.Status, apiErr.Error)
		}
		return fmt.Errorf("%s", resp.Status)
	}

	if out != nil && len(data) > 0 {
		return json.Unmarshal(data, out)
	}
	return nil
}

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

type submitJobRequest struct {
	JobID     string `json:"job_id"`
	ClassName string `json:"class_name"`

	DurationSeconds int `json:"duration_seconds,omitempty"`

	ClientCount        int                    `json:"client_count,omitempty"`
	ThreadsPerClient   int                    `json:"threads_per_client,omitempty"`
	ThreadStartupDelay int                    `json:"thread_startup_delay_seconds,omitempty"`
	CollectionInterval int                    `json:"collection_interval_seconds,omitempty"`
	WarmUpSeconds      int                    `json:"warm_up_seconds,omitempty"`
	CoolDownSeconds    int                    `json:"cool_down_seconds,omitempty"`
	Parameters         map[string]interface{} `json:"parameters,omitempty"`
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

type submitOptimizingRequest struct {
	ID        string `json:"id"`
	ClassName string `json:"class_name"`

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

func (a *apiClient) Classes() ([]classSummary, error) {
	var out struct {
		Classes []classSummary `json:"classes"`
	}
	if err := a.do(http.MethodGet, "/classes", nil, &out); err != nil {
		return nil, err
	}
	return out.Classes, nil
}

func (a *apiClient) SubmitJob(req submitJobRequest) (jobSummary, error) {
	var out jobSummary
	err := a.do(http.MethodPost, "/jobs", req, &out)
	return out, err
}

func (a *apiClient) ListJobs() ([]jobSummary, error) {
	var out struct {
		Jobs []jobSummary `json:"jobs"`
	}
	if err := a.do(http.MethodGet, "/jobs", nil, &out); err != nil {
		return nil, err
	}
	return out.Jobs, nil
}

func (a *apiClient) GetJob(id string) (jobSummary, error) {
	var out jobSummary
	err := a.do(http.MethodGet, "/jobs/"+id, nil, &out)
	return out, err
}

func (a *apiClient) ControlJob(id, action string) error {
	return a.do(http.MethodPost, "/jobs/"+id+"/"+action, nil, nil)
}

func (a *apiClient) CancelJob(id, reason string) error {
	return a.do(http.MethodPost, "/jobs/"+id+"/cancel", map[string]string{"reason": reason}, nil)
}

func (a *apiClient) SubmitOptimizing(req submitOptimizingRequest) error {
	return a.do(http.MethodPost, "/optimize", req, nil)
}

func (a *apiClient) GetOptimizing(id string) (optimizingSummary, error) {
	var out optimizingSummary
	err := a.do(http.MethodGet, "/optimize/"+id, nil, &out)
	return out, err
}
