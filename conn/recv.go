// File: conn/recv.go
// Author: momentics <momentics@gmail.com>
//
// Inbound Dispatch Engine. Grounded on internal/websocket/connection.go's
// messageLoop/dispatch-to-handler shape, generalized from a blocking
// RecvZeroCopy loop to the completion-callback arm/complete/dispatch cycle,
// with the receive queue backed by an eapache/queue.Queue FIFO.

package conn

import (
	"sync/atomic"

	"github.com/momentics/connio/api"
)

// RegisterConsumer stores callback as the single registered receive
// consumer and attempts to dispatch any already-queued ranges. Fails with
// api.ErrConsumerRegistered if one is already registered.
func (c *Connection) RegisterConsumer(callback func([]api.FilledRange)) error {
	c.recvMu.Lock()
	if c.consumer != nil {
		c.recvMu.Unlock()
		return api.ErrConsumerRegistered
	}
	c.consumer = callback
	c.recvMu.Unlock()

	c.dispatch()
	return nil
}

// startReceive checks out a buffer and binds it to the receive context under
// recvCtxMu, then releases that lock before posting. api.Socket.PostRecv may
// invoke its completion inline (completedSync == true) from within this very
// call, and onRecvComplete itself needs recvCtxMu to detach/release the
// context — holding the lock across the post call would make that inline
// completion re-enter a mutex its own call stack already holds. Nothing else
// can unbind the context between the bind above and the post below, so
// releasing the lock here does not reopen the disposal race it guards
// against.
func (c *Connection) startReceive() {
	if c.isClosed() {
		return
	}

	buf, err := c.bufPool.CheckOut()
	if err != nil {
		c.triggerClose(err)
		return
	}

	socket := c.boundSocket()
	if socket == nil {
		buf.Release()
		return
	}

	c.recvCtxMu.Lock()
	c.recvBound = buf
	c.recvCtx.Bind(buf.Bytes(), socket, nil)
	c.recvCtxMu.Unlock()

	atomic.AddInt64(&c.asyncReceived, 1)
	c.monitor.ReceiveStarting()
	_, postErr := socket.PostRecv(buf.Bytes(), func(n int, recvErr error) {
		c.onRecvComplete(n, recvErr)
	})

	if postErr != nil {
		c.onRecvComplete(0, postErr)
	}
}

func (c *Connection) onRecvComplete(n int, err error) {
	if err != nil || n == 0 {
		// A zero-byte, no-error receive is a normal peer close.
		c.monitor.ReceiveCompleted(0, err)
		c.recvCtxMu.Lock()
		buf := c.recvBound
		c.recvBound = nil
		ctx := c.recvCtx
		c.recvCtx = nil
		c.recvCtxMu.Unlock()
		if buf != nil {
			buf.Release()
		}
		if ctx != nil {
			c.ctxPool.Put(ctx)
		}
		c.triggerClose(err)
		return
	}

	c.monitor.ReceiveCompleted(n, nil)
	atomic.AddInt64(&c.packetsReceived, 1)
	atomic.AddInt64(&c.bytesReceived, int64(n))

	c.recvCtxMu.Lock()
	buf := c.recvBound
	c.recvBound = nil
	c.recvCtx.Detach()
	c.recvCtxMu.Unlock()

	rng := api.FilledRange{Data: buf.Bytes()[:n], Buffer: buf}
	entry := recvEntry{rng: rng, release: rng.Release}

	c.recvMu.Lock()
	c.recvQueue.Add(entry)
	c.recvMu.Unlock()

	c.startReceive()
	c.dispatch()
}

// dispatch atomically takes the queued batch and the registered consumer,
// clearing the callback slot, then hands the batch to the consumer outside
// any lock. The consumer may re-register synchronously from within its own
// invocation to keep receiving; this is the normal pattern for a connection
// that wants every arriving byte delivered.
func (c *Connection) dispatch() {
	c.recvMu.Lock()
	if c.consumer == nil || c.recvQueue.Length() == 0 {
		c.recvMu.Unlock()
		return
	}
	consumer := c.consumer
	c.consumer = nil

	n := c.recvQueue.Length()
	entries := make([]recvEntry, n)
	for i := 0; i < n; i++ {
		entries[i] = c.recvQueue.Remove().(recvEntry)
	}
	c.recvMu.Unlock()

	ranges := make([]api.FilledRange, len(entries))
	for i, e := range entries {
		ranges[i] = e.rng
	}

	consumer(ranges)

	total := 0
	for _, e := range entries {
		e.release()
		total += len(e.rng.Data)
	}
	c.monitor.ReceiveDispatched(total)
}
