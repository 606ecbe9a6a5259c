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

// Package job implements the Job entity: the state machine that turns a job
// description into coordinated work across N remote clients, and the
// terminal-state bookkeeping an optimizing-job driver consults.
package job

// State is one node of the job lifecycle DAG. Transitions only ever move
// forward along the edges State.Next() exposes; there is no backward edge.
type State uint8

const (
	StateUninitialized State = iota
	StatePending
	StateRunning
	StateCompleting
	StateCompletedSuccessfully
	StateCompletedWithErrors
	StateCancelled
	StateStoppedByUser
	StateStoppedDueToError
	StateStoppedDueToStopTime
	StateStoppedDueToDuration
	StateDisabled
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StatePending:
		return "pending"
	case StateRunning:
		return "running"
	case StateCompleting:
		return "completing"
	case StateCompletedSuccessfully:
		return "completed-successfully"
	case StateCompletedWithErrors:
		return "completed-with-errors"
	case StateCancelled:
		return "cancelled"
	case StateStoppedByUser:
		return "stopped-by-user"
	case StateStoppedDueToError:
		return "stopped-due-to-error"
	case StateStoppedDueToStopTime:
		return "stopped-due-to-stop-time"
	case StateStoppedDueToDuration:
		return "stopped-due-to-duration"
	case StateDisabled:
		return "disabled"
	}
	return "unknown"
}

// Terminal reports whether a job in this state collects no further client
// activity; its statistics, if any, are final.
func (s State) Terminal() bool {
	switch s {
	case StateCompletedSuccessfully, StateCompletedWithErrors, StateCancelled,
		StateStoppedByUser, StateStoppedDueToError, StateStoppedDueToStopTime,
		StateStoppedDueToDuration, StateDisabled:
		return true
	}
	return false
}

// Successful reports whether a terminal state is the non-error completion
// path the optimizing-job driver requires before consulting the objective.
func (s State) Successful() bool {
	return s == StateCompletedSuccessfully
}

// canTransition is the adjacency list of the state DAG. A transition not
// listed here is rejected by (*Job).transition.
var canTransition = map[State]map[State]bool{
	StateUninitialized: {StatePending: true, StateDisabled: true},
	StatePending: {
		StateRunning:   true,
		StateCancelled: true,
		StateDisabled:  true,
	},
	StateRunning: {
		StateCompleting:           true,
		StateStoppedByUser:        true,
		StateStoppedDueToError:    true,
		StateStoppedDueToStopTime: true,
		StateStoppedDueToDuration: true,
	},
	StateCompleting: {
		StateCompletedSuccessfully: true,
		StateCompletedWithErrors:   true,
	},
}

// Next reports whether to is a legal transition target from s.
func (s State) Next(to State) bool {
	return canTransition[s][to]
}
