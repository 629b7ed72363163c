// Package api
// Author: momentics <momentics@gmail.com>
//
// Common error types and error handling utilities for the connection core.

package api

import "fmt"

// Common errors used across the library.
var (
	ErrTransportClosed   = fmt.Errorf("transport is closed")
	ErrBufferPoolClosed  = fmt.Errorf("buffer pool is closed")
	ErrInvalidArgument   = fmt.Errorf("invalid argument")
	ErrResourceExhausted = fmt.Errorf("resource exhausted")
	ErrOperationTimeout  = fmt.Errorf("operation timeout")
	ErrNotSupported      = fmt.Errorf("operation not supported")
	ErrAlreadyExists     = fmt.Errorf("resource already exists")
	ErrNotFound          = fmt.Errorf("resource not found")

	// ErrClosed reports a connection that has transitioned to Closed.
	// Connection's own operations do not return it: after close,
	// EnqueueSend drops its slices silently.
	ErrClosed = fmt.Errorf("connection is closed")

	// ErrConsumerRegistered is returned by RegisterConsumer when a consumer
	// is already registered; the Inbound Dispatch Engine allows exactly one.
	ErrConsumerRegistered = fmt.Errorf("consumer already registered")

	// ErrPoolExhausted is returned by a non-blocking pool CheckOut/Get when
	// no region or context is available.
	ErrPoolExhausted = fmt.Errorf("pool exhausted")

	// ErrDoubleRelease is the panic value when a Buffer is released twice.
	ErrDoubleRelease = fmt.Errorf("buffer released twice")

	// ErrDoubleContextReturn names an OperationContext returned to its pool
	// twice. pool.OpContextPool does not detect double returns and never
	// reports it.
	ErrDoubleContextReturn = fmt.Errorf("operation context returned twice")
)
