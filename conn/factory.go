// File: conn/factory.go
// Author: momentics <momentics@gmail.com>
//
// Factory Surface: Connect (async dial) and FromAccepted (immediate Open).
// Grounded on lowlevel/server/listener.go's Accept-then-wrap shape and
// lowlevel/client/facade.go's NewClient dial-then-wrap shape.

package conn

import (
	"context"
	"sync/atomic"

	"github.com/momentics/connio/api"
)

// Connect constructs an Unbound Connection and asks connector to resolve a
// socket for remote. On success the connection transitions to Open and
// onEstablished fires; a drain is kicked afterward in case EnqueueSend ran
// before Open. On failure onFailed fires and the Connection never leaves
// Unbound.
func Connect(
	ctx context.Context,
	remote string,
	connector api.Connector,
	bufPool api.BufferPool,
	ctxPool api.OperationContextPool,
	monitor api.Monitor,
	cfg Config,
	onEstablished func(*Connection),
	onFailed func(error),
	onClosed func(error),
) *Connection {
	c := newConnection(cfg, bufPool, ctxPool, monitor, remote, onClosed)

	connector.Connect(ctx, "tcp", remote, func(socket api.Socket, err error) {
		if err != nil {
			if onFailed != nil {
				onFailed(err)
			}
			return
		}
		c.initSocket(socket)
		if atomic.LoadInt32(&c.state) == int32(stateOpen) {
			if onEstablished != nil {
				onEstablished(c)
			}
			c.drain()
		}
	})

	return c
}

// FromAccepted constructs a Connection bound to an already-accepted socket
// and immediately transitions it to Open.
func FromAccepted(
	endpoint string,
	socket api.Socket,
	bufPool api.BufferPool,
	ctxPool api.OperationContextPool,
	monitor api.Monitor,
	cfg Config,
	onClosed func(error),
) *Connection {
	c := newConnection(cfg, bufPool, ctxPool, monitor, endpoint, onClosed)
	c.initSocket(socket)
	return c
}
