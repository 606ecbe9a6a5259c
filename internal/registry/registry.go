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
	"sync"
	"time"

	"github.com/bits-and-blooms/bitset"

	"github.com/nabbar/slamd/internal/errs"
)

// Registry holds every currently connected ClientRecord and MonitorRecord,
// indexed by connection id and by host. Idle and restricted membership are
// also tracked as bitsets over a stable per-connection slot index; the
// selection round-robin walks the per-host index, reads each record's
// status, and consults the restricted bitset.
type Registry struct {
	mu sync.Mutex

	clients  map[string]*ClientRecord
	monitors map[string]*MonitorRecord

	byHost map[string][]string // host -> connection ids, insertion order

	slot    map[string]uint // connection id -> bitset index
	nextSlot uint
	idle       *bitset.BitSet
	restricted *bitset.BitSet
}

func New() *Registry {
	return &Registry{
		clients:    map[string]*ClientRecord{},
		monitors:   map[string]*MonitorRecord{},
		byHost:     map[string][]string{},
		slot:       map[string]uint{},
		idle:       bitset.New(64),
		restricted: bitset.New(64),
	}
}

func (r *Registry) slotFor(connID string) uint {
	if s, ok := r.slot[connID]; ok {
		return s
	}
	s := r.nextSlot
	r.nextSlot++
	r.slot[connID] = s
	return s
}

// RegisterClient adds a newly authenticated client connection.
func (r *Registry) RegisterClient(c *ClientRecord) {
	r.mu.Lock()
	defer r.mu.Unlock()

	c.Status = ClientIdle
	c.idleSince = now()
	r.clients[c.ConnectionID] = c
	r.byHost[c.Host] = append(r.byHost[c.Host], c.ConnectionID)

	s := r.slotFor(c.ConnectionID)
	r.idle.Set(s)
	if c.Restricted {
		r.restricted.Set(s)
	}
}

// UnregisterClient removes a client on disconnect.
func (r *Registry) UnregisterClient(connID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.clients[connID]
	if !ok {
		return
	}
	delete(r.clients, connID)
	r.removeFromHost(c.Host, connID)
	if s, ok := r.slot[connID]; ok {
		r.idle.Clear(s)
		r.restricted.Clear(s)
		delete(r.slot, connID)
	}
}

func (r *Registry) removeFromHost(host, connID string) {
	ids := r.byHost[host]
	for i, id := range ids {
		if id == connID {
			r.byHost[host] = append(ids[:i], ids[i+1:]...)
			break
		}
	}
	if len(r.byHost[host]) == 0 {
		delete(r.byHost, host)
	}
}

// ClientByConnection looks up a registered client by connection id.
func (r *Registry) ClientByConnection(connID string) (*ClientRecord, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.clients[connID]
	return c, ok
}

// ClientByHost returns the first idle client at host, if any — used to
// resolve an explicit requested-clients entry given as a hostname.
func (r *Registry) ClientByHost(host string) (*ClientRecord, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, id := range r.byHost[host] {
		if c := r.clients[id]; c.Status == ClientIdle {
			return c, true
		}
	}
	return nil, false
}

// markIdle (unexported, caller holds r.mu) flips bookkeeping to idle.
func (r *Registry) markIdle(c *ClientRecord) {
	c.Status = ClientIdle
	c.RunningJobID = ""
	c.idleSince = now()
	r.idle.Set(r.slotFor(c.ConnectionID))
}

// MarkRunning reserves a client for a job; only the scheduler calls this,
// and only on an idle client.
func (r *Registry) MarkRunning(connID, jobID string) errs.Error {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.clients[connID]
	if !ok {
		return errs.CodeJobOther.Errorf("no such client connection %q", connID)
	}
	if c.Status != ClientIdle {
		return errs.CodeJobBusy.Error()
	}
	c.Status = ClientRunning
	c.RunningJobID = jobID
	r.idle.Clear(r.slotFor(connID))
	return nil
}

// MarkIdle returns a client to the idle pool after its job finishes.
func (r *Registry) MarkIdle(connID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if c, ok := r.clients[connID]; ok {
		r.markIdle(c)
	}
}

// MarkDisconnected flips a client to disconnected without removing it from
// the registry's indices — callers should follow with UnregisterClient once
// any in-flight job bookkeeping referencing the slot is done.
func (r *Registry) MarkDisconnected(connID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if c, ok := r.clients[connID]; ok {
		c.Status = ClientDisconnected
		r.idle.Clear(r.slotFor(connID))
	}
}

// RegisterMonitor adds a newly authenticated monitor connection.
func (r *Registry) RegisterMonitor(m *MonitorRecord) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if m.ObservedJobs == nil {
		m.ObservedJobs = map[string]bool{}
	}
	r.monitors[m.ConnectionID] = m
}

// UnregisterMonitor removes a monitor connection on disconnect.
func (r *Registry) UnregisterMonitor(connID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.monitors, connID)
}

func (r *Registry) MonitorByConnection(connID string) (*MonitorRecord, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.monitors[connID]
	return m, ok
}

// now is a seam so tests can avoid asserting on wall-clock idle ordering by
// registering clients in the desired FIFO order instead.
var now = time.Now
