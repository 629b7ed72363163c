// File: transport/sockopt_linux.go
//go:build linux

// Author: momentics <momentics@gmail.com>
//
// Linux-specific socket tuning applied at connection-init time, grounded on
// internal/transport/transport_linux.go's use of golang.org/x/sys/unix for
// options net.TCPConn does not expose directly.

package transport

import (
	"net"

	"golang.org/x/sys/unix"
)

func setSocketOptions(conn *net.TCPConn) error {
	rawConn, err := conn.SyscallConn()
	if err != nil {
		return err
	}
	var sockErr error
	err = rawConn.Control(func(fd uintptr) {
		sockErr = unix.SetsockoptInt(int(fd), unix.IPPROTO_TCP, unix.TCP_NODELAY, 1)
	})
	if err != nil {
		return err
	}
	return sockErr
}
