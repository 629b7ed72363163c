// File: conn/config.go
// Author: momentics <momentics@gmail.com>
//
// Config enumerates every tunable the connection core exposes, grounded on
// lowlevel/client/facade.go's Config/DefaultConfig shape.

package conn

import "time"

// Config configures a Connection. BufferChunksCount, SocketBufferSize and
// SendReceivePoolSize describe the pools a caller builds and passes to
// Connect or FromAccepted; the conn package itself does not read them.
type Config struct {
	// BufferChunksCount is the size of the byte buffer pool.
	BufferChunksCount int
	// SocketBufferSize is the chunk size handed out by the buffer pool.
	SocketBufferSize int
	// SendReceivePoolSize is the size of the operation context pool.
	SendReceivePoolSize int
	// SocketCloseTimeout bounds how long close_internal waits for the OS
	// close call.
	SocketCloseTimeout time.Duration
	// MaxSendPacketSize is the soft coalescing ceiling; a staged packet may
	// exceed it by at most one slice.
	MaxSendPacketSize int
	// Verbose enables a counters-snapshot log line on close.
	Verbose bool
}

// DefaultConfig returns sensible defaults: a 64-buffer pool of 64 KiB
// chunks, a two-context pool (one send, one receive), and the spec's 64
// KiB coalescing ceiling.
func DefaultConfig() Config {
	return Config{
		BufferChunksCount:   64,
		SocketBufferSize:    64 * 1024,
		SendReceivePoolSize: 2,
		SocketCloseTimeout:  5 * time.Second,
		MaxSendPacketSize:   64 * 1024,
		Verbose:             false,
	}
}
