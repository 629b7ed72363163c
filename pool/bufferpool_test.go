package pool_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/momentics/connio/api"
	"github.com/momentics/connio/pool"
)

func TestBufferPoolCheckOutCheckIn(t *testing.T) {
	bp := pool.NewBufferPool(2, 128, false)

	b1, err := bp.CheckOut()
	require.NoError(t, err)
	require.Len(t, b1.Bytes(), 128)

	b2, err := bp.CheckOut()
	require.NoError(t, err)

	_, err = bp.CheckOut()
	require.ErrorIs(t, err, api.ErrPoolExhausted)

	b1.Release()
	b3, err := bp.CheckOut()
	require.NoError(t, err)
	require.Len(t, b3.Bytes(), 128)

	b2.Release()
	b3.Release()
}

func TestBufferDoubleReleasePanics(t *testing.T) {
	bp := pool.NewBufferPool(1, 64, false)
	b, err := bp.CheckOut()
	require.NoError(t, err)

	b.Release()
	require.Panics(t, func() { b.Release() })
}

func TestFilledRangeReleasesOriginalBuffer(t *testing.T) {
	bp := pool.NewBufferPool(1, 64, false)
	b, err := bp.CheckOut()
	require.NoError(t, err)

	rng := api.FilledRange{Data: b.Bytes()[:10], Buffer: b}
	rng.Release()

	b2, err := bp.CheckOut()
	require.NoError(t, err)
	require.Len(t, b2.Bytes(), 64)
}

func TestOpContextPoolResetsOnReturn(t *testing.T) {
	cp := pool.NewOpContextPool(1)

	ctx, err := cp.Get()
	require.NoError(t, err)

	ctx.Bind([]byte("x"), nil, func(int, error) {})
	cp.Put(ctx)

	require.Nil(t, ctx.Buf())
	require.Nil(t, ctx.Socket())
	require.Nil(t, ctx.OnComplete())

	again, err := cp.Get()
	require.NoError(t, err)
	require.Same(t, ctx, again)
}

func TestOpContextPoolExhausted(t *testing.T) {
	cp := pool.NewOpContextPool(1)
	_, err := cp.Get()
	require.NoError(t, err)

	_, err = cp.Get()
	require.ErrorIs(t, err, api.ErrPoolExhausted)
}
