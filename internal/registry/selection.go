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

package registry

import (
	"sort"

	"github.com/nabbar/slamd/internal/errs"
)

// SelectionRequest describes the N clients a job needs.
type SelectionRequest struct {
	Count            int
	RequestedClients []string // hostnames or connection ids; may be empty
}

// Select applies the client-selection policy: explicit requested-clients list first
// (each entry must resolve to an idle, non-restricted client unless
// explicitly named), else round-robin-by-host with FIFO tie-break among
// restricted-excluded idle clients. It reserves (MarkRunning) every chosen
// client for jobID atomically with the selection.
func (r *Registry) Select(jobID string, req SelectionRequest) ([]*ClientRecord, errs.Error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var chosen []*ClientRecord

	if len(req.RequestedClients) > 0 {
		for _, ref := range req.RequestedClients {
			c := r.resolveLocked(ref)
			if c == nil || c.Status != ClientIdle {
				return nil, errs.CodeInsufficientClients.Errorf("requested client %q is not available", ref)
			}
			chosen = append(chosen, c)
		}
	} else {
		chosen = r.roundRobinByHostLocked(req.Count)
	}

	if len(chosen) < req.Count {
		return nil, errs.CodeInsufficientClients.Error()
	}

	for _, c := range chosen {
		c.Status = ClientRunning
		c.RunningJobID = jobID
		r.idle.Clear(r.slotFor(c.ConnectionID))
	}

	return chosen, nil
}

func (r *Registry) resolveLocked(ref string) *ClientRecord {
	if c, ok := r.clients[ref]; ok {
		return c
	}
	for _, id := range r.byHost[ref] {
		if c, ok := r.clients[id]; ok && c.Status == ClientIdle {
			return c
		}
	}
	return nil
}

// roundRobinByHostLocked implements "partition idle, unrestricted clients by
// host. Round-robin across distinct hosts first; only after every host has
// contributed one client does the algorithm revisit hosts. Ties are broken
// by least-recently-used (FIFO of idle return)." Restricted clients are
// never eligible here — only via an explicit requested-clients entry.
func (r *Registry) roundRobinByHostLocked(count int) []*ClientRecord {
	hosts := make([]string, 0, len(r.byHost))
	for h := range r.byHost {
		hosts = append(hosts, h)
	}
	sort.Strings(hosts) // deterministic host visiting order

	perHost := make(map[string][]*ClientRecord, len(hosts))
	for _, h := range hosts {
		var idle []*ClientRecord
		for _, id := range r.byHost[h] {
			c := r.clients[id]
			if c.Status != ClientIdle {
				continue
			}
			if r.restricted.Test(r.slotFor(c.ConnectionID)) {
				continue
			}
			idle = append(idle, c)
		}
		sort.SliceStable(idle, func(i, j int) bool { return idle[i].idleSince.Before(idle[j].idleSince) })
		perHost[h] = idle
	}

	var out []*ClientRecord
	for round := 0; len(out) < count; round++ {
		any := false
		for _, h := range hosts {
			if round < len(perHost[h]) {
				out = append(out, perHost[h][round])
				any = true
				if len(out) == count {
					return out
				}
			}
		}
		if !any {
			break
		}
	}
	return out
}

// Release reverts every chosen client back to idle — used when the start
// barrier fails to get full acceptance.
func (r *Registry) Release(clients []*ClientRecord) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range clients {
		r.markIdle(c)
	}
}
