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

// Package protocol implements the wire codec every SLAMD connection speaks:
// a TLV envelope {message-id, tagged body} carried as CBOR over a hex-framed,
// newline-delimited stream, framing payloads over a single io.Writer guarded
// by a writer mutex.
package protocol

// Tag selects the body type carried by an Envelope. The numeric space is
// part of the wire compatibility surface: never renumber an existing tag.
type Tag uint16

const (
	TagUnknown Tag = 0

	TagHelloRequest  Tag = 1
	TagHelloResponse Tag = 2

	TagHelloMonitorRequest  Tag = 3
	TagHelloMonitorResponse Tag = 4

	TagKeepAlive Tag = 5

	TagClassTransferRequest  Tag = 6
	TagClassTransferResponse Tag = 7

	TagJobRequest  Tag = 8
	TagJobResponse Tag = 9

	TagJobControlRequest  Tag = 10
	TagJobControlResponse Tag = 11

	TagStatusRequest  Tag = 12
	TagStatusResponse Tag = 13

	TagRealTimeStatistics Tag = 14

	TagShutdown       Tag = 15
	TagServerShutdown Tag = 16

	TagRegisterStatistic Tag = 17

	TagMonitorRequest  Tag = 18
	TagMonitorResponse Tag = 19
)

func (t Tag) String() string {
	switch t {
	case TagHelloRequest:
		return "HelloRequest"
	case TagHelloResponse:
		return "HelloResponse"
	case TagHelloMonitorRequest:
		return "HelloMonitorRequest"
	case TagHelloMonitorResponse:
		return "HelloMonitorResponse"
	case TagKeepAlive:
		return "KeepAlive"
	case TagClassTransferRequest:
		return "ClassTransferRequest"
	case TagClassTransferResponse:
		return "ClassTransferResponse"
	case TagJobRequest:
		return "JobRequest"
	case TagJobResponse:
		return "JobResponse"
	case TagJobControlRequest:
		return "JobControlRequest"
	case TagJobControlResponse:
		return "JobControlResponse"
	case TagStatusRequest:
		return "StatusRequest"
	case TagStatusResponse:
		return "StatusResponse"
	case TagRealTimeStatistics:
		return "RealTimeStatistics"
	case TagShutdown:
		return "Shutdown"
	case TagServerShutdown:
		return "ServerShutdown"
	case TagRegisterStatistic:
		return "RegisterStatistic"
	case TagMonitorRequest:
		return "MonitorRequest"
	case TagMonitorResponse:
		return "MonitorResponse"
	}
	return "Unknown"
}

// JobResponseCode enumerates every outcome a client can report for a job,
// matching JobResponse response-code enumeration bit-exactly.
type JobResponseCode uint8

const (
	JobAccepted JobResponseCode = iota
	JobRejectedNoSuchClass
	JobRejectedBusy
	JobRejectedOther
	JobAborted
	JobCompletedSuccessfully
	JobCompletedWithErrors
	JobStoppedByOperator
	JobStoppedStopTimeReached
	JobStoppedDurationReached
)

func (c JobResponseCode) String() string {
	switch c {
	case JobAccepted:
		return "accepted"
	case JobRejectedNoSuchClass:
		return "rejected-no-such-class"
	case JobRejectedBusy:
		return "rejected-busy"
	case JobRejectedOther:
		return "rejected-other"
	case JobAborted:
		return "job-aborted"
	case JobCompletedSuccessfully:
		return "job-completed-successfully"
	case JobCompletedWithErrors:
		return "job-completed-with-errors"
	case JobStoppedByOperator:
		return "job-stopped-by-operator"
	case JobStoppedStopTimeReached:
		return "job-stopped-stop-time-reached"
	case JobStoppedDurationReached:
		return "job-stopped-duration-reached"
	}
	return "unknown"
}

// IsTerminal reports whether the code ends a job's run (as opposed to
// JobAccepted, which only confirms barrier entry).
func (c JobResponseCode) IsTerminal() bool {
	return c >= JobAborted
}

// JobControlAction is the control verb carried by JobControlRequest.
type JobControlAction uint8

const (
	JobControlStart JobControlAction = iota
	JobControlStop
	JobControlAbort
	JobControlDisable
)

func (a JobControlAction) String() string {
	switch a {
	case JobControlStart:
		return "start"
	case JobControlStop:
		return "stop"
	case JobControlAbort:
		return "abort"
	case JobControlDisable:
		return "disable"
	}
	return "unknown"
}
