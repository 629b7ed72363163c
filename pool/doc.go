// Package pool
// Author: momentics <momentics@gmail.com>
//
// Fixed-capacity pooling for the connection core: BufferPool hands out
// byte regions, OpContextPool hands out reusable socket operation
// contexts. See bufferpool.go and opctxpool.go.
package pool
