// Package api
// Author: momentics
//
// Socket is the completion-style boundary the connection core posts
// operations against. A real backend may complete a posted operation
// synchronously (data already available) or asynchronously (the completion
// callback fires later, off a different goroutine) — callers must handle
// both per PostSend/PostRecv's completedSync return.

package api

import "net"

// Socket is a single, exclusively-owned, connected byte stream. Nothing in
// this package assumes TCP specifically, but the connection core's
// close/shutdown sequencing is written against TCP's half-close semantics.
type Socket interface {
	// SetNoDelay toggles Nagle's algorithm.
	SetNoDelay(enabled bool) error

	// PostSend arms a send of buf. onComplete fires exactly once, either
	// before PostSend returns (completedSync == true) or later from another
	// goroutine (completedSync == false). err is non-nil only when the
	// socket refused the operation outright (already closed); completedSync
	// is then true and onComplete does not fire at all.
	PostSend(buf []byte, onComplete func(n int, err error)) (completedSync bool, err error)

	// PostRecv arms a receive into buf. Same completion contract as
	// PostSend.
	PostRecv(buf []byte, onComplete func(n int, err error)) (completedSync bool, err error)

	// Shutdown closes one or both halves of the stream without releasing
	// the underlying descriptor.
	Shutdown(how ShutdownHow) error

	// Close releases the underlying descriptor. Idempotent.
	Close() error

	// RemoteAddr returns the peer address. The backends in this module keep
	// returning it after Close.
	RemoteAddr() net.Addr
}

// ShutdownHow selects which half of a Socket to shut down.
type ShutdownHow int

const (
	ShutdownRead ShutdownHow = iota
	ShutdownWrite
	ShutdownBoth
)
