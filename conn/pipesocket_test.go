package conn_test

import (
	"errors"
	"io"
	"net"
	"sync/atomic"

	"github.com/momentics/connio/api"
)

// pipeSocket adapts a net.Conn (as returned by net.Pipe) to api.Socket for
// tests, posting every operation via a spawned goroutine exactly like
// transport.netSocket's default backend.
type pipeSocket struct {
	conn   net.Conn
	closed int32
}

func newPipeSocket(conn net.Conn) *pipeSocket {
	return &pipeSocket{conn: conn}
}

func (s *pipeSocket) SetNoDelay(bool) error { return nil }

func (s *pipeSocket) isClosed() bool { return atomic.LoadInt32(&s.closed) != 0 }

func (s *pipeSocket) PostSend(buf []byte, onComplete func(n int, err error)) (bool, error) {
	if s.isClosed() {
		return true, api.ErrTransportClosed
	}
	go func() {
		n, err := s.conn.Write(buf)
		onComplete(n, err)
	}()
	return false, nil
}

func (s *pipeSocket) PostRecv(buf []byte, onComplete func(n int, err error)) (bool, error) {
	if s.isClosed() {
		return true, api.ErrTransportClosed
	}
	go func() {
		n, err := s.conn.Read(buf)
		onComplete(n, mapEOF(err))
	}()
	return false, nil
}

// mapEOF turns io.EOF into a nil-error, zero-byte completion so the
// receive engine's "zero transfer is always a normal peer-close" rule
// applies the same way it would for a real closed socket.
func mapEOF(err error) error {
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

func (s *pipeSocket) Shutdown(api.ShutdownHow) error {
	return nil
}

func (s *pipeSocket) Close() error {
	if !atomic.CompareAndSwapInt32(&s.closed, 0, 1) {
		return nil
	}
	return s.conn.Close()
}

func (s *pipeSocket) RemoteAddr() net.Addr { return s.conn.RemoteAddr() }

var _ api.Socket = (*pipeSocket)(nil)
