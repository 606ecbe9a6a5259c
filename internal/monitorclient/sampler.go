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

// Package monitorclient is the resource-monitor side of the wire protocol.
// OS-specific collectors (Linux /proc, Solaris kstat, AIX/HP-UX netstat,
// Windows netstat) are out of scope; a cross-platform gopsutil-backed
// sampler demonstrates the protocol exchange end to end (RegisterStatistic,
// MonitorRequest/Response, RealTimeStatistics) without committing to any
// one platform's collector.
package monitorclient

import (
	"time"

	"github.com/shirou/gopsutil/cpu"
	"github.com/shirou/gopsutil/load"
	"github.com/shirou/gopsutil/mem"

	"github.com/nabbar/slamd/internal/errs"
	"github.com/nabbar/slamd/internal/stats"
)

// Sampler produces one round of trackers for a monitored job tick.
type Sampler interface {
	Sample(interval time.Duration) (stats.Bag, errs.Error)
}

// GopsutilSampler reports CPU percent, memory-used percent and 1-minute
// load average: a stand-in trio that exercises the monitor-client side of
// the protocol rather than a production collector.
type GopsutilSampler struct{}

func (GopsutilSampler) Sample(interval time.Duration) (stats.Bag, errs.Error) {
	bag := stats.Bag{}

	if pct, err := cpu.Percent(0, false); err == nil && len(pct) > 0 {
		c := stats.NewCounter("CPU Percent", interval)
		c.Add(int64(pct[0]))
		bag["cpu_percent"] = c
	}

	if vm, err := mem.VirtualMemory(); err == nil {
		c := stats.NewCounter("Memory Used Percent", interval)
		c.Add(int64(vm.UsedPercent))
		bag["mem_used_percent"] = c
	}

	if la, err := load.Avg(); err == nil {
		c := stats.NewCounter("Load Average 1m", interval)
		c.Add(int64(la.Load1 * 100))
		bag["load1"] = c
	}

	if len(bag) == 0 {
		return nil, errs.CodeJobOther.Errorf("no resource samples available on this host")
	}
	return bag, nil
}
