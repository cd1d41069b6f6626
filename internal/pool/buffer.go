// Package pool hands out reusable fixed-size byte buffers for streaming
// file contents.
package pool

import (
	"fmt"
	"sync"
)

// FixedBufferPool recycles buffers of exactly one size.
type FixedBufferPool struct {
	size int
	pool sync.Pool
}

// NewFixedBufferPool creates a pool of size-byte buffers. size must be
// positive.
func NewFixedBufferPool(size int) *FixedBufferPool {
	if size <= 0 {
		panic(fmt.Sprintf("buffer size %d must be positive", size))
	}
	return &FixedBufferPool{
		size: size,
		pool: sync.Pool{
			New: func() any {
				b := make([]byte, size)
				return &b
			},
		},
	}
}

// Get returns a buffer of the pool's fixed size.
func (fp *FixedBufferPool) Get() *[]byte {
	return fp.pool.Get().(*[]byte)
}

// Put returns b to the pool. Buffers of a different capacity are dropped.
func (fp *FixedBufferPool) Put(b *[]byte) {
	if b == nil || cap(*b) != fp.size {
		return
	}
	*b = (*b)[:fp.size]
	fp.pool.Put(b)
}
