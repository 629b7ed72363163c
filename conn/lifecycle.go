// File: conn/lifecycle.go
// Author: momentics <momentics@gmail.com>
//
// Connection lifecycle: Unbound -> Open -> Closed. Grounded on
// facade/hioload.go's Stop/Shutdown sequencing, generalized to the spec's
// single-owner-per-socket close protocol with its deliberate asymmetry
// between send- and receive-context return paths.

package conn

import (
	"sync/atomic"
	"time"

	"github.com/momentics/connio/api"
	"github.com/momentics/connio/logging"
	"go.uber.org/zap"
)

// initSocket transitions Unbound -> Open: disables Nagle, stores the
// socket, checks out both operation contexts, and starts the perpetual
// receive loop. If the socket is already disposed, init short-circuits
// straight to Closed.
func (c *Connection) initSocket(socket api.Socket) {
	c.sendMu.Lock()
	c.socket = socket
	c.sendMu.Unlock()

	if err := socket.SetNoDelay(true); err != nil {
		c.triggerClose(err)
		return
	}

	sendCtx, err := c.ctxPool.Get()
	if err != nil {
		c.triggerClose(err)
		return
	}
	recvCtx, err := c.ctxPool.Get()
	if err != nil {
		c.ctxPool.Put(sendCtx)
		c.triggerClose(err)
		return
	}

	c.sendMu.Lock()
	c.sendCtx = sendCtx
	c.sendMu.Unlock()

	c.recvCtxMu.Lock()
	c.recvCtx = recvCtx
	c.recvCtxMu.Unlock()

	atomic.StoreInt32(&c.state, int32(stateOpen))

	c.startReceive()
	c.drain()
}

// Close initiates the close protocol with a nil (graceful, caller-invoked)
// error. Idempotent.
func (c *Connection) Close() {
	c.closeInternal(nil)
}

// triggerClose initiates the close protocol with a transport-reported
// error.
func (c *Connection) triggerClose(err error) {
	c.closeInternal(err)
}

// closeInternal is idempotent and single-shot via CAS on state: it accepts
// either Unbound (init_socket failed before ever reaching Open) or Open as
// the prior state, and never runs its body twice.
func (c *Connection) closeInternal(err error) {
	for {
		s := atomic.LoadInt32(&c.state)
		if state(s) == stateClosed {
			return
		}
		if atomic.CompareAndSwapInt32(&c.state, s, int32(stateClosed)) {
			break
		}
	}

	c.monitor.Closed(err)
	if c.cfg.Verbose {
		c.logStats()
	}

	c.sendMu.Lock()
	socket := c.socket
	c.sendMu.Unlock()

	if socket != nil {
		c.closeSocketWithTimeout(socket)
	}

	c.sendMu.Lock()
	var sendCtx *api.OperationContext
	if !c.inFlight {
		sendCtx = c.sendCtx
		c.sendCtx = nil
	}
	c.sendMu.Unlock()
	if sendCtx != nil {
		c.ctxPool.Put(sendCtx)
	}

	if c.onClosed != nil {
		c.onClosed(err)
	}
}

// closeSocketWithTimeout runs Shutdown/Close on a spawned goroutine and
// waits up to cfg.SocketCloseTimeout, grounded on server/hioload.go's
// Shutdown wrapping Stop() with a select/time.After deadline. The close
// call is still allowed to finish in the background past the deadline; the
// descriptor is not leaked, only this call stops waiting on it.
func (c *Connection) closeSocketWithTimeout(socket api.Socket) {
	done := make(chan struct{})
	go func() {
		_ = socket.Shutdown(api.ShutdownBoth)
		_ = socket.Close()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(c.cfg.SocketCloseTimeout):
		logging.L.Warn("socket close exceeded timeout",
			zap.String("endpoint", c.endpoint),
			zap.Duration("timeout", c.cfg.SocketCloseTimeout),
		)
	}
}
