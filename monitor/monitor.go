// File: monitor/monitor.go
// Author: momentics <momentics@gmail.com>
//
// Monitor is a process-wide implementation of api.Monitor, generalized from
// control/metrics.go's MetricsRegistry: the registry's string-keyed map of
// mutable counters becomes a fixed set of atomic counters matching the
// connection core's lifecycle events, and its updated timestamp becomes a
// send-blocked flag flipped by backpressure-aware callers.

package monitor

import (
	"sync/atomic"

	"github.com/momentics/connio/api"
)

// Monitor counts connection lifecycle events and exposes a send-blocked
// gate. All methods are safe for concurrent use without external locking.
type Monitor struct {
	sendBlocked int32

	scheduled         int64
	sendsStarted      int64
	sendsCompleted    int64
	sendErrors        int64
	recvsStarted      int64
	recvsCompleted    int64
	recvErrors        int64
	recvsDispatched   int64
	bytesScheduled    int64
	bytesSent         int64
	bytesDispatched   int64
	closes            int64
}

// New returns a Monitor with every counter at zero and sends unblocked.
func New() *Monitor {
	return &Monitor{}
}

// SetSendBlocked flips the backpressure gate IsSendBlocked reports.
func (m *Monitor) SetSendBlocked(blocked bool) {
	if blocked {
		atomic.StoreInt32(&m.sendBlocked, 1)
	} else {
		atomic.StoreInt32(&m.sendBlocked, 0)
	}
}

// IsSendBlocked implements api.Monitor.
func (m *Monitor) IsSendBlocked() bool {
	return atomic.LoadInt32(&m.sendBlocked) != 0
}

// Scheduled implements api.Monitor.
func (m *Monitor) Scheduled(n int) {
	atomic.AddInt64(&m.scheduled, 1)
	atomic.AddInt64(&m.bytesScheduled, int64(n))
}

// SendStarting implements api.Monitor.
func (m *Monitor) SendStarting(n int) {
	atomic.AddInt64(&m.sendsStarted, 1)
}

// SendCompleted implements api.Monitor.
func (m *Monitor) SendCompleted(n int, err error) {
	atomic.AddInt64(&m.sendsCompleted, 1)
	if err != nil {
		atomic.AddInt64(&m.sendErrors, 1)
		return
	}
	atomic.AddInt64(&m.bytesSent, int64(n))
}

// ReceiveStarting implements api.Monitor.
func (m *Monitor) ReceiveStarting() {
	atomic.AddInt64(&m.recvsStarted, 1)
}

// ReceiveCompleted implements api.Monitor.
func (m *Monitor) ReceiveCompleted(n int, err error) {
	atomic.AddInt64(&m.recvsCompleted, 1)
	if err != nil {
		atomic.AddInt64(&m.recvErrors, 1)
	}
}

// ReceiveDispatched implements api.Monitor.
func (m *Monitor) ReceiveDispatched(n int) {
	atomic.AddInt64(&m.recvsDispatched, 1)
	atomic.AddInt64(&m.bytesDispatched, int64(n))
}

// Closed implements api.Monitor.
func (m *Monitor) Closed(err error) {
	atomic.AddInt64(&m.closes, 1)
}

// Snapshot is a point-in-time copy of every counter, for tests and
// diagnostics.
type Snapshot struct {
	Scheduled       int64
	SendsStarted    int64
	SendsCompleted  int64
	SendErrors      int64
	RecvsStarted    int64
	RecvsCompleted  int64
	RecvErrors      int64
	RecvsDispatched int64
	BytesScheduled  int64
	BytesSent       int64
	BytesDispatched int64
	Closes          int64
}

// Snapshot returns a consistent-enough (not atomically joint) copy of all
// counters, in the spirit of control/metrics.go's GetSnapshot.
func (m *Monitor) Snapshot() Snapshot {
	return Snapshot{
		Scheduled:       atomic.LoadInt64(&m.scheduled),
		SendsStarted:    atomic.LoadInt64(&m.sendsStarted),
		SendsCompleted:  atomic.LoadInt64(&m.sendsCompleted),
		SendErrors:      atomic.LoadInt64(&m.sendErrors),
		RecvsStarted:    atomic.LoadInt64(&m.recvsStarted),
		RecvsCompleted:  atomic.LoadInt64(&m.recvsCompleted),
		RecvErrors:      atomic.LoadInt64(&m.recvErrors),
		RecvsDispatched: atomic.LoadInt64(&m.recvsDispatched),
		BytesScheduled:  atomic.LoadInt64(&m.bytesScheduled),
		BytesSent:       atomic.LoadInt64(&m.bytesSent),
		BytesDispatched: atomic.LoadInt64(&m.bytesDispatched),
		Closes:          atomic.LoadInt64(&m.closes),
	}
}

var _ api.Monitor = (*Monitor)(nil)
