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
	"container/heap"
	"time"

	"github.com/nabbar/slamd/internal/job"
)

// pendingEntry is one job waiting for its start time, ordered by
// (StartTime, insertion sequence) : "pending queue (ordered
// by start time, ties by insertion order)".
type pendingEntry struct {
	job   *job.Job
	start time.Time
	seq   int64
	index int
}

// pendingQueue is a container/heap min-heap over pendingEntry.
type pendingQueue []*pendingEntry

func (q pendingQueue) Len() int { return len(q) }

func (q pendingQueue) Less(i, j int) bool {
	if q[i].start.Equal(q[j].start) {
		return q[i].seq < q[j].seq
	}
	return q[i].start.Before(q[j].start)
}

func (q pendingQueue) Swap(i, j int) {
	q[i], q[j] = q[j], q[i]
	q[i].index = i
	q[j].index = j
}

func (q *pendingQueue) Push(x interface{}) {
	e := x.(*pendingEntry)
	e.index = len(*q)
	*q = append(*q, e)
}

func (q *pendingQueue) Pop() interface{} {
	old := *q
	n := len(old)
	e := old[n-1]
	old[n-1] = nil
	e.index = -1
	*q = old[:n-1]
	return e
}

// peek returns the earliest-due entry without removing it.
func (q pendingQueue) peek() *pendingEntry {
	if len(q) == 0 {
		return nil
	}
	return q[0]
}

var _ heap.Interface = (*pendingQueue)(nil)
