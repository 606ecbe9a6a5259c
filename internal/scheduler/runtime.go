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

package scheduler

import (
	"sync"

	"github.com/nabbar/slamd/internal/protocol"
	"github.com/nabbar/slamd/internal/stats"
)

// jobRuntime is the scheduler's bookkeeping for one job between the moment
// clients are selected and the moment every slot has reported a terminal
// outcome. It is the landing place for every JobResponse the read loops of
// the job's client connections dispatch, demultiplexed by connection id.
type jobRuntime struct {
	mu sync.Mutex

	clientNumber map[string]int // connection id -> client number
	acceptCh     map[string]chan protocol.JobResponse

	reported map[int]bool
	reports  map[int]protocol.JobResponse

	perClientTrackers map[string]map[string]stats.Tracker // statistic name -> connection id -> tracker

	done chan struct{}
	once sync.Once
}

func newJobRuntime(clients map[string]int) *jobRuntime {
	return &jobRuntime{
		clientNumber:      clients,
		acceptCh:          map[string]chan protocol.JobResponse{},
		reported:          map[int]bool{},
		reports:           map[int]protocol.JobResponse{},
		perClientTrackers: map[string]map[string]stats.Tracker{},
		done:              make(chan struct{}),
	}
}

// awaitAccept registers a one-shot channel for connID's barrier-entry reply.
func (rt *jobRuntime) awaitAccept(connID string) chan protocol.JobResponse {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	ch := make(chan protocol.JobResponse, 1)
	rt.acceptCh[connID] = ch
	return ch
}

// deliver routes one JobResponse envelope to the accept waiter or, if it
// carries a terminal code, records it as that client's final report. Returns
// true once every expected client has reported ("when the
// last client has reported").
func (rt *jobRuntime) deliver(connID string, resp protocol.JobResponse) (allReported bool) {
	rt.mu.Lock()
	defer rt.mu.Unlock()

	cn, ok := rt.clientNumber[connID]
	if !ok {
		return false
	}

	if !resp.Code.IsTerminal() {
		if ch, ok := rt.acceptCh[connID]; ok {
			ch <- resp
		}
		return false
	}

	if rt.reported[cn] {
		return false
	}
	rt.reported[cn] = true
	rt.reports[cn] = resp

	if len(rt.reported) >= len(rt.clientNumber) {
		rt.once.Do(func() { close(rt.done) })
		return true
	}
	return false
}

// forceReport is used when a client disconnects mid-run instead of sending a
// final JobResponse ("client disconnect during run: scheduler
// records the partial result and proceeds").
func (rt *jobRuntime) forceReport(connID string, resp protocol.JobResponse) (allReported bool) {
	return rt.deliver(connID, resp)
}

func (rt *jobRuntime) attachTracker(connID, name string, t stats.Tracker) {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	byClient, ok := rt.perClientTrackers[name]
	if !ok {
		byClient = map[string]stats.Tracker{}
		rt.perClientTrackers[name] = byClient
	}
	byClient[connID] = t
}

// trackers returns statistic name -> connection id -> tracker, so the
// caller can attribute an interval mismatch to the reporting client.
func (rt *jobRuntime) trackers() map[string]map[string]stats.Tracker {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	out := make(map[string]map[string]stats.Tracker, len(rt.perClientTrackers))
	for name, byClient := range rt.perClientTrackers {
		cp := make(map[string]stats.Tracker, len(byClient))
		for connID, t := range byClient {
			cp[connID] = t
		}
		out[name] = cp
	}
	return out
}

// clientNumberOf returns the client number a connection id occupies in this
// job's runtime, for mapping a mismatched tracker back to RecordClientFailure.
func (rt *jobRuntime) clientNumberOf(connID string) (int, bool) {
	cn, ok := rt.clientNumber[connID]
	return cn, ok
}

// dominantCode summarises every client's final report into the single
// outcome the scheduler drives the job's own state transition from, when no
// slot failed outright. Operator actions (stop or abort) take precedence
// over a natural stop-time/duration expiry, which in turn takes precedence
// over an ordinary successful completion.
func (rt *jobRuntime) dominantCode() protocol.JobResponseCode {
	rt.mu.Lock()
	defer rt.mu.Unlock()

	var operatorStopped, stopTime, duration bool
	for _, resp := range rt.reports {
		switch resp.Code {
		case protocol.JobAborted, protocol.JobStoppedByOperator:
			operatorStopped = true
		case protocol.JobStoppedStopTimeReached:
			stopTime = true
		case protocol.JobStoppedDurationReached:
			duration = true
		}
	}

	switch {
	case operatorStopped:
		return protocol.JobStoppedByOperator
	case stopTime:
		return protocol.JobStoppedStopTimeReached
	case duration:
		return protocol.JobStoppedDurationReached
	}
	return protocol.JobCompletedSuccessfully
}
