// File: api/pool.go
// Author: momentics <momentics@gmail.com>
//
// Socket Operation Context: a reusable descriptor bundling a pending socket
// operation's buffer, owning socket, and completion callback. Bounds
// per-operation allocation by recycling through OperationContextPool instead
// of allocating a fresh descriptor per send/receive.

package api

import "sync"

// OperationContext carries the state of one pending (or idle) socket
// operation. A context's buffer and socket lifetimes are independent of one
// another: returning a context to its pool clears both.
type OperationContext struct {
	mu         sync.Mutex
	buf        []byte
	socket     Socket
	onComplete func(n int, err error)
}

// NewOperationContext returns an empty, unbound context.
func NewOperationContext() *OperationContext {
	return &OperationContext{}
}

// Bind attaches the buffer, owning socket, and completion callback for the
// next posted operation.
func (c *OperationContext) Bind(buf []byte, socket Socket, onComplete func(n int, err error)) {
	c.mu.Lock()
	c.buf = buf
	c.socket = socket
	c.onComplete = onComplete
	c.mu.Unlock()
}

// Buf returns the currently bound buffer, or nil if detached.
func (c *OperationContext) Buf() []byte {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.buf
}

// Socket returns the owning socket set by the most recent Bind, or nil.
func (c *OperationContext) Socket() Socket {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.socket
}

// OnComplete returns the bound completion callback.
func (c *OperationContext) OnComplete() func(n int, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.onComplete
}

// Detach clears the bound buffer only, leaving socket and callback intact so
// the next arm can rebind without fetching a new context from the pool.
func (c *OperationContext) Detach() {
	c.mu.Lock()
	c.buf = nil
	c.mu.Unlock()
}

// Reset clears every slot. Called by OperationContextPool when a context is
// returned to it; not meant to be called by engine code directly.
func (c *OperationContext) Reset() {
	c.mu.Lock()
	c.buf = nil
	c.socket = nil
	c.onComplete = nil
	c.mu.Unlock()
}

// OperationContextPool hands out contexts with empty slots and reclaims
// them on return, clearing any socket/buffer reference so context and
// socket lifetimes never become entangled.
type OperationContextPool interface {
	// Get yields a context with all slots empty.
	Get() (*OperationContext, error)

	// Put detaches any listener, clears the socket reference, and clears
	// the buffer pointer before storing the context for reuse.
	Put(c *OperationContext)
}
