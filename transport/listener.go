// File: transport/listener.go
// Author: momentics <momentics@gmail.com>
//
// Listener accepts TCP connections and hands back api.Socket values,
// generalized from lowlevel/server/listener.go's accept-then-handshake
// shape with the WebSocket handshake step removed — this core hands raw
// byte streams to the Factory Surface's FromAccepted, not framed messages.

package transport

import (
	"fmt"
	"net"

	"github.com/momentics/connio/api"
)

// Listener accepts plain TCP connections.
type Listener struct {
	ln *net.TCPListener
}

// NewListener binds addr and returns a ready Listener.
func NewListener(addr string) (*Listener, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("listen %s: %w", addr, err)
	}
	tcpLn, ok := ln.(*net.TCPListener)
	if !ok {
		ln.Close()
		return nil, api.ErrNotSupported
	}
	return &Listener{ln: tcpLn}, nil
}

// Accept waits for and returns the next connection as an api.Socket.
func (l *Listener) Accept() (api.Socket, error) {
	conn, err := l.ln.AcceptTCP()
	if err != nil {
		return nil, err
	}
	if err := setSocketOptions(conn); err != nil {
		conn.Close()
		return nil, err
	}
	return NewNetSocket(conn), nil
}

// Close shuts down the listener. Accepted sockets are unaffected.
func (l *Listener) Close() error {
	return l.ln.Close()
}

// Addr returns the listener's bound address.
func (l *Listener) Addr() net.Addr {
	return l.ln.Addr()
}
