// File: transport/sockopt_other.go
//go:build !linux

// Author: momentics <momentics@gmail.com>
//
// Non-Linux builds rely on net.TCPConn.SetNoDelay, called directly by
// netSocket.SetNoDelay; no extra raw socket option is needed here.

package transport

import "net"

func setSocketOptions(conn *net.TCPConn) error {
	return conn.SetNoDelay(true)
}
