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
	"github.com/nabbar/slamd/internal/job"
	"github.com/nabbar/slamd/internal/logging"
	"github.com/nabbar/slamd/internal/stats"
)

// aggregateStats implements the stat-aggregation step: walk each statistic
// name reported by any client, reject any client's tracker whose collection
// interval does not match the job's own configured interval — marking that
// client's slot failed so the job ends in completed-with-errors — and build
// one aggregate tracker from the remaining, consistent trackers per the
// tracker's own Aggregate rule.
func aggregateStats(j *job.Job, perName map[string]map[string]stats.Tracker, clientNumberOf func(string) (int, bool), log logging.Logger) {
	want := j.Spec().CollectionInterval

	for name, byClient := range perName {
		if len(byClient) == 0 {
			continue
		}

		var valid []stats.Tracker
		for connID, t := range byClient {
			if want > 0 && t.Interval() != want {
				log.Warning("client reported statistic at a collection interval that does not match the job, marking contribution invalid",
					logging.Fields{"job": j.ID(), "statistic": name, "connection": connID,
						"expected": want.String(), "reported": t.Interval().String()})
				if cn, ok := clientNumberOf(connID); ok {
					j.RecordClientFailure(cn, "statistic "+name+" reported at wrong collection interval")
				}
				continue
			}
			valid = append(valid, t)
		}

		if len(valid) == 0 {
			continue
		}

		first := valid[0]
		agg, err := first.Aggregate(valid[1:]...)
		if err != nil {
			log.Warning("failed to aggregate statistic",
				logging.Fields{"job": j.ID(), "statistic": name, "error": err.Error()})
			j.AttachStatistics(name, first)
			continue
		}
		j.AttachStatistics(name, agg)
	}
}
