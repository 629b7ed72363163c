// File: transport/uring_linux.go
//go:build linux && io_uring

// Author: momentics <momentics@gmail.com>
//
// Optional Linux backend exercising a genuine synchronous/asynchronous
// completion bifurcation, adapted from
// internal/transport/transport_linux_uring.go. The teacher's own file
// already conceded its io_uring submission queue was decorative ("In a
// real implementation, we would submit SEND/RECV operations to io_uring
// SQ... for this simplified implementation, we'll use the regular syscall
// as fallback") — this adaptation keeps that same honest fallback shape
// but makes it functionally correct for api.Socket: a non-blocking raw fd
// is written/read immediately, and only falls back to a poll-and-retry
// goroutine when the kernel reports EAGAIN, giving PostSend/PostRecv a
// real sync-vs-async split instead of always posting a goroutine the way
// the default net.Conn backend (netsocket.go) does.

package transport

import (
	"fmt"
	"net"
	"sync"
	"sync/atomic"

	"golang.org/x/sys/unix"

	"github.com/momentics/connio/api"
)

// uringSocket is an api.Socket backed by a non-blocking raw fd.
type uringSocket struct {
	fd         int
	remoteAddr net.Addr
	closed     int32
	mu         sync.Mutex
}

// NewUringSocket wraps an already-connected, non-blocking fd as an
// api.Socket. Dialing/accepting such an fd is out of scope for this file;
// callers obtain fd via their own uring-aware listener/connector.
func NewUringSocket(fd int, remoteAddr net.Addr) api.Socket {
	return &uringSocket{fd: fd, remoteAddr: remoteAddr}
}

func (s *uringSocket) SetNoDelay(enabled bool) error {
	v := 0
	if enabled {
		v = 1
	}
	return unix.SetsockoptInt(s.fd, unix.IPPROTO_TCP, unix.TCP_NODELAY, v)
}

func (s *uringSocket) isClosed() bool { return atomic.LoadInt32(&s.closed) != 0 }

// PostSend writes buf immediately. A full synchronous write completes
// inline (completedSync == true); EAGAIN falls back to a poller goroutine
// that waits for writability and retries, completing asynchronously.
func (s *uringSocket) PostSend(buf []byte, onComplete func(n int, err error)) (bool, error) {
	if s.isClosed() {
		return true, api.ErrTransportClosed
	}
	n, err := unix.Write(s.fd, buf)
	if err == unix.EAGAIN || err == unix.EWOULDBLOCK {
		go s.waitAndRetrySend(buf, onComplete)
		return false, nil
	}
	onComplete(n, err)
	return true, nil
}

func (s *uringSocket) waitAndRetrySend(buf []byte, onComplete func(n int, err error)) {
	if err := s.pollWait(unix.POLLOUT); err != nil {
		onComplete(0, err)
		return
	}
	n, err := unix.Write(s.fd, buf)
	onComplete(n, err)
}

// PostRecv reads into buf immediately, falling back to a poller goroutine
// on EAGAIN exactly as PostSend does.
func (s *uringSocket) PostRecv(buf []byte, onComplete func(n int, err error)) (bool, error) {
	if s.isClosed() {
		return true, api.ErrTransportClosed
	}
	n, err := unix.Read(s.fd, buf)
	if err == unix.EAGAIN || err == unix.EWOULDBLOCK {
		go s.waitAndRetryRecv(buf, onComplete)
		return false, nil
	}
	onComplete(n, err)
	return true, nil
}

func (s *uringSocket) waitAndRetryRecv(buf []byte, onComplete func(n int, err error)) {
	if err := s.pollWait(unix.POLLIN); err != nil {
		onComplete(0, err)
		return
	}
	n, err := unix.Read(s.fd, buf)
	onComplete(n, err)
}

func (s *uringSocket) pollWait(events int16) error {
	fds := []unix.PollFd{{Fd: int32(s.fd), Events: events}}
	for {
		n, err := unix.Poll(fds, -1)
		if err == unix.EINTR {
			continue
		}
		if err != nil {
			return err
		}
		if n > 0 {
			return nil
		}
	}
}

func (s *uringSocket) Shutdown(how api.ShutdownHow) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch how {
	case api.ShutdownRead:
		return unix.Shutdown(s.fd, unix.SHUT_RD)
	case api.ShutdownWrite:
		return unix.Shutdown(s.fd, unix.SHUT_WR)
	case api.ShutdownBoth:
		return unix.Shutdown(s.fd, unix.SHUT_RDWR)
	default:
		return fmt.Errorf("transport: unknown ShutdownHow")
	}
}

func (s *uringSocket) Close() error {
	if !atomic.CompareAndSwapInt32(&s.closed, 0, 1) {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return unix.Close(s.fd)
}

func (s *uringSocket) RemoteAddr() net.Addr { return s.remoteAddr }

var _ api.Socket = (*uringSocket)(nil)
