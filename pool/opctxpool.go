// File: pool/opctxpool.go
// Author: momentics <momentics@gmail.com>
//
// OpContextPool is a small, bounded pool of reusable api.OperationContext
// instances, generalized from the teacher's generic SyncPool (objpool.go)
// to a fixed-capacity channel so Get can fail fast under
// api.ErrPoolExhausted rather than silently allocating past the configured
// bound — sync.Pool gives no such guarantee, which is why it is not reused
// here.

package pool

import (
	"github.com/momentics/connio/api"
)

// OpContextPool hands out *api.OperationContext values from a fixed-size
// channel and resets them fully on return.
type OpContextPool struct {
	slots chan *api.OperationContext
}

// NewOpContextPool constructs a pool of count empty contexts.
func NewOpContextPool(count int) *OpContextPool {
	p := &OpContextPool{slots: make(chan *api.OperationContext, count)}
	for i := 0; i < count; i++ {
		p.slots <- api.NewOperationContext()
	}
	return p
}

// Get yields a context with every slot cleared, or api.ErrPoolExhausted if
// none is currently available.
func (p *OpContextPool) Get() (*api.OperationContext, error) {
	select {
	case c := <-p.slots:
		return c, nil
	default:
		return nil, api.ErrPoolExhausted
	}
}

// Put resets c and returns it to the pool. Returning a context not
// originally issued by this pool, or returning the same context twice
// concurrently, is a programming error; callers are expected to track
// ownership themselves (the connection core never double-returns a
// context it still has posted).
func (p *OpContextPool) Put(c *api.OperationContext) {
	c.Reset()
	select {
	case p.slots <- c:
	default:
		// Constructed with cap(slots) == count; unreachable under correct
		// single-owner-per-context usage.
	}
}
