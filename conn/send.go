// File: conn/send.go
// Author: momentics <momentics@gmail.com>
//
// Outbound Coalescing Engine. Grounded on pool/batch.go's slice-coalescing
// shape and lowlevel/client/batch.go's flush-on-threshold batching,
// generalized to the spec's enqueue/drain/complete state machine backed by
// an eapache/queue.Queue FIFO instead of a plain slice.

package conn

import (
	"sync/atomic"
)

// EnqueueSend appends slices to the send queue in order and kicks a drain.
// Silently dropped once the connection is closed.
func (c *Connection) EnqueueSend(slices [][]byte) {
	if c.isClosed() {
		return
	}
	total := 0
	c.sendMu.Lock()
	for _, s := range slices {
		c.sendQueue.Add(s)
		total += len(s)
	}
	c.sendMu.Unlock()
	c.monitor.Scheduled(total)
	c.drain()
}

// drain arms at most one send. A completion arriving later re-enters drain
// from its own goroutine, not from this call's stack, so repeated
// completions never deepen the call stack regardless of whether the active
// Socket backend completes synchronously or asynchronously.
func (c *Connection) drain() {
	if c.isClosed() {
		return
	}

	c.sendMu.Lock()
	if c.inFlight || c.sendQueue.Length() == 0 || c.socket == nil || c.monitor.IsSendBlocked() {
		c.sendMu.Unlock()
		return
	}
	c.inFlight = true
	socket := c.socket
	c.sendMu.Unlock()

	c.sendMu.Lock()
	staging := c.staging[:0]
	for c.sendQueue.Length() > 0 && len(staging) < c.cfg.MaxSendPacketSize {
		slice := c.sendQueue.Remove().([]byte)
		staging = append(staging, slice...)
	}
	c.staging = staging
	c.sendMu.Unlock()

	if len(staging) == 0 {
		c.sendMu.Lock()
		c.inFlight = false
		c.sendMu.Unlock()
		return
	}

	c.sendCtx.Bind(staging, socket, nil)
	atomic.AddInt64(&c.asyncSent, 1)
	c.monitor.SendStarting(len(staging))

	packetLen := len(staging)
	_, err := socket.PostSend(staging, func(n int, sendErr error) {
		c.onSendComplete(n, sendErr, packetLen)
	})
	if err != nil {
		// Post itself failed: no completion will ever fire for this
		// attempt, so this call is responsible for clearing in_flight.
		c.sendMu.Lock()
		c.inFlight = false
		c.sendMu.Unlock()
		c.triggerClose(err)
	}
}

func (c *Connection) onSendComplete(n int, err error, packetLen int) {
	if err != nil {
		c.monitor.SendCompleted(0, err)
		c.sendMu.Lock()
		c.inFlight = false
		ctx := c.sendCtx
		c.sendCtx = nil
		c.sendMu.Unlock()
		if ctx != nil {
			c.ctxPool.Put(ctx)
		}
		c.triggerClose(err)
		return
	}

	c.monitor.SendCompleted(n, nil)
	atomic.AddInt64(&c.packetsSent, 1)
	atomic.AddInt64(&c.bytesSent, int64(n))

	c.sendMu.Lock()
	c.inFlight = false
	closedNow := c.isClosed()
	c.sendMu.Unlock()

	if closedNow {
		// Close raced in while this send was in flight; per the
		// asymmetry rule the in-flight completion handler returns the
		// send context itself, not close_internal.
		c.sendMu.Lock()
		returnedCtx := c.sendCtx
		c.sendCtx = nil
		c.sendMu.Unlock()
		if returnedCtx != nil {
			c.ctxPool.Put(returnedCtx)
		}
		return
	}

	go c.drain()
}
