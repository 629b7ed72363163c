// Package api
// Author: momentics
//
// Borrowed-buffer and buffer-pool contracts for the connection core. A
// Buffer is the full (region, offset, length) triple as loaned by a
// BufferPool; it must be returned exactly once. A FilledRange is the prefix
// of a Buffer actually populated by a receive — releasing it always
// releases the original Buffer, never a narrowed view of it.

package api

import "sync/atomic"

// Buffer is a region on loan from a BufferPool. Bytes returns the full
// loaned region, not a narrowed view, so that release actions constructed
// from it always refer back to the original triple.
type Buffer struct {
	pool     BufferPool
	region   []byte
	released int32
}

// NewBorrowedBuffer wraps region as freshly checked out of pool.
func NewBorrowedBuffer(pool BufferPool, region []byte) *Buffer {
	return &Buffer{pool: pool, region: region}
}

// Bytes returns the full backing region of this loan.
func (b *Buffer) Bytes() []byte { return b.region }

// Release returns the buffer to its pool. Calling Release a second time on
// the same Buffer is a programming error and panics with ErrDoubleRelease.
func (b *Buffer) Release() {
	if !atomic.CompareAndSwapInt32(&b.released, 0, 1) {
		panic(ErrDoubleRelease)
	}
	b.pool.CheckIn(b)
}

// FilledRange is the sub-slice of a Buffer actually populated by a receive.
// Release always returns the original Buffer, never the narrowed Data view —
// this is load-bearing for buffer accounting.
type FilledRange struct {
	Data   []byte
	Buffer *Buffer
}

// Release runs the release action: returning the original loaned Buffer.
func (f FilledRange) Release() { f.Buffer.Release() }

// BufferPool hands out fixed-size Borrowed Buffers and reclaims them. Pool
// size and chunk size are fixed at construction; regions are interchangeable
// and are never zeroed between loans.
type BufferPool interface {
	// CheckOut yields a region of exactly ChunkSize() bytes, or
	// ErrPoolExhausted if the pool is configured to fail rather than block.
	CheckOut() (*Buffer, error)

	// CheckIn returns a previously checked-out Buffer. Double check-in is a
	// programming error detected by Buffer.Release, not by CheckIn itself.
	CheckIn(b *Buffer)

	// ChunkSize returns the fixed region size handed out by CheckOut.
	ChunkSize() int
}
