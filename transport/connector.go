// File: transport/connector.go
// Author: momentics <momentics@gmail.com>
//
// Connector dials TCP addresses asynchronously, grounded on
// lowlevel/client/facade.go's NewClient dial step generalized to the
// api.Connector contract: resolution and dialing run on a spawned
// goroutine rather than blocking the caller.

package transport

import (
	"context"
	"net"

	"golang.org/x/sync/singleflight"

	"github.com/momentics/connio/api"
	"github.com/momentics/connio/logging"
	"go.uber.org/zap"
)

// Connector is the default api.Connector, dialing plain TCP via net.Dialer.
// Concurrent Connect calls for the same host share one DNS resolution
// through a singleflight.Group keyed by host (the port is not part of the
// key); each caller still performs its
// own independent dial and receives its own, uniquely owned Socket — a
// dialed connection is never shared between callers.
type Connector struct {
	dialer   net.Dialer
	resolver singleflight.Group
}

// NewConnector returns a ready-to-use Connector.
func NewConnector() *Connector {
	return &Connector{}
}

// Connect implements api.Connector.
func (c *Connector) Connect(ctx context.Context, network, address string, onComplete func(api.Socket, error)) {
	go func() {
		host, port, err := net.SplitHostPort(address)
		if err != nil {
			onComplete(nil, err)
			return
		}

		resolved, err, _ := c.resolver.Do(host, func() (any, error) {
			return net.DefaultResolver.LookupHost(ctx, host)
		})
		if err != nil {
			onComplete(nil, err)
			return
		}
		addrs := resolved.([]string)
		if len(addrs) == 0 {
			onComplete(nil, api.ErrNotFound)
			return
		}

		conn, err := c.dialer.DialContext(ctx, network, net.JoinHostPort(addrs[0], port))
		if err != nil {
			logging.L.Warn("dial failed", zap.String("address", address), zap.Error(err))
			onComplete(nil, err)
			return
		}
		tcpConn, ok := conn.(*net.TCPConn)
		if !ok {
			conn.Close()
			onComplete(nil, api.ErrNotSupported)
			return
		}
		if err := setSocketOptions(tcpConn); err != nil {
			tcpConn.Close()
			onComplete(nil, err)
			return
		}
		onComplete(NewNetSocket(tcpConn), nil)
	}()
}

var _ api.Connector = (*Connector)(nil)
