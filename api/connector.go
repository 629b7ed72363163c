// Package api
// Author: momentics
//
// Connector is the dial-side half of the Factory Surface: it resolves and
// establishes a Socket asynchronously, off the caller's goroutine.

package api

import "context"

// Connector dials a remote address and yields a Socket once established.
type Connector interface {
	// Connect resolves address and dials it, invoking onComplete exactly
	// once with the resulting Socket, or a non-nil err if resolution or
	// dialing failed. Connect itself returns immediately; the dial runs in
	// the background.
	Connect(ctx context.Context, network, address string, onComplete func(Socket, error))
}
