// File: pool/bufferpool.go
// Author: momentics <momentics@gmail.com>
//
// Fixed-capacity, fixed-chunk-size BufferPool. Regions are interchangeable
// and are never zeroed between loans; callers must not assume a freshly
// checked-out Buffer is zeroed.

package pool

import (
	"github.com/momentics/connio/api"
)

// BufferPool is a channel-backed api.BufferPool, generalized from the
// teacher's map-of-channels NUMA segmentation (BufferPoolManager, this file
// previously) down to a single fixed-size channel: this pool has no notion
// of NUMA locality, only a fixed loan count and chunk size.
type BufferPool struct {
	slots     chan []byte
	chunkSize int
	blocking  bool
}

// NewBufferPool constructs a pool of count regions of chunkSize bytes each.
// When blocking is false, CheckOut returns api.ErrPoolExhausted instead of
// waiting when every region is on loan.
func NewBufferPool(count, chunkSize int, blocking bool) *BufferPool {
	p := &BufferPool{
		slots:     make(chan []byte, count),
		chunkSize: chunkSize,
		blocking:  blocking,
	}
	for i := 0; i < count; i++ {
		p.slots <- make([]byte, chunkSize)
	}
	return p
}

// ChunkSize returns the fixed region size handed out by CheckOut.
func (p *BufferPool) ChunkSize() int { return p.chunkSize }

// CheckOut yields the next available region as an *api.Buffer.
func (p *BufferPool) CheckOut() (*api.Buffer, error) {
	if p.blocking {
		region := <-p.slots
		return api.NewBorrowedBuffer(p, region), nil
	}
	select {
	case region := <-p.slots:
		return api.NewBorrowedBuffer(p, region), nil
	default:
		return nil, api.ErrPoolExhausted
	}
}

// CheckIn returns b's region to the pool. Double check-in is caught by
// Buffer.Release's CAS guard before CheckIn is ever reached twice for the
// same loan.
func (p *BufferPool) CheckIn(b *api.Buffer) {
	region := b.Bytes()
	select {
	case p.slots <- region:
	default:
		// Constructed with cap(slots) == count; unreachable unless a
		// region not on loan is returned, which Release already guards.
	}
}
