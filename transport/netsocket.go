// File: transport/netsocket.go
// Author: momentics <momentics@gmail.com>
//
// netSocket is the default api.Socket backend: every PostSend/PostRecv is
// completed by spawning a goroutine that performs the blocking net.Conn
// call and invokes onComplete from that goroutine, generalizing
// transport/netconn.go's direct, synchronous Read/Write wrapper into the
// completion-callback shape the connection core requires. completedSync is
// always false here except when the socket is already closed, which fails
// the post outright rather than posting a goroutine at all — the genuine
// synchronous-completion path is reserved for the io_uring-gated backend
// (see uring_linux.go).

package transport

import (
	"errors"
	"io"
	"net"
	"sync"
	"sync/atomic"

	"github.com/momentics/connio/api"
)

// netSocket wraps a *net.TCPConn as an api.Socket.
type netSocket struct {
	conn   *net.TCPConn
	closed int32
	mu     sync.Mutex // guards Shutdown/Close against concurrent use
}

// NewNetSocket wraps conn as an api.Socket.
func NewNetSocket(conn *net.TCPConn) api.Socket {
	return &netSocket{conn: conn}
}

func (s *netSocket) SetNoDelay(enabled bool) error {
	return s.conn.SetNoDelay(enabled)
}

func (s *netSocket) isClosed() bool {
	return atomic.LoadInt32(&s.closed) != 0
}

func (s *netSocket) PostSend(buf []byte, onComplete func(n int, err error)) (bool, error) {
	if s.isClosed() {
		return true, api.ErrTransportClosed
	}
	go func() {
		n, err := s.conn.Write(buf)
		onComplete(n, err)
	}()
	return false, nil
}

func (s *netSocket) PostRecv(buf []byte, onComplete func(n int, err error)) (bool, error) {
	if s.isClosed() {
		return true, api.ErrTransportClosed
	}
	go func() {
		n, err := s.conn.Read(buf)
		if errors.Is(err, io.EOF) {
			// Peer close: report a zero-byte, no-error completion.
			err = nil
		}
		onComplete(n, err)
	}()
	return false, nil
}

func (s *netSocket) Shutdown(how api.ShutdownHow) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch how {
	case api.ShutdownRead:
		return s.conn.CloseRead()
	case api.ShutdownWrite:
		return s.conn.CloseWrite()
	case api.ShutdownBoth:
		err1 := s.conn.CloseRead()
		err2 := s.conn.CloseWrite()
		if err1 != nil {
			return err1
		}
		return err2
	default:
		return errors.New("transport: unknown ShutdownHow")
	}
}

func (s *netSocket) Close() error {
	if !atomic.CompareAndSwapInt32(&s.closed, 0, 1) {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conn.Close()
}

func (s *netSocket) RemoteAddr() net.Addr {
	if s.conn == nil {
		return nil
	}
	return s.conn.RemoteAddr()
}

var _ api.Socket = (*netSocket)(nil)
