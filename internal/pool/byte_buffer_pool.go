// Package pool provides a pooled growable byte buffer used when
// serializing a day-block's 1,440-slot array before compression.
package pool

import "sync"

// BlockBufferDefaultSize is the default capacity handed out by the
// default block buffer pool: large enough to hold a full day-block's
// serialized form (1,440 * bar.Size = 57,600 bytes) without growing.
const (
	BlockBufferDefaultSize  = 1024 * 64 // 64KiB
	BlockBufferMaxThreshold = 1024 * 512
)

// ByteBuffer is a growable byte slice wrapper designed for pool reuse:
// Reset keeps the underlying array, so repeated Get/Put cycles avoid
// reallocating once the pool has warmed up.
type ByteBuffer struct {
	B []byte
}

// NewByteBuffer creates a ByteBuffer with the given initial capacity.
func NewByteBuffer(defaultSize int) *ByteBuffer {
	return &ByteBuffer{B: make([]byte, 0, defaultSize)}
}

// Bytes returns the underlying slice.
func (bb *ByteBuffer) Bytes() []byte {
	return bb.B
}

// Reset empties the buffer while retaining its backing array.
func (bb *ByteBuffer) Reset() {
	bb.B = bb.B[:0]
}

// Grow ensures the buffer can accept requiredBytes more bytes without
// reallocating again. Capacity grows by a fixed BlockBufferDefaultSize
// step while it is at most 4*BlockBufferDefaultSize, then by 25% of the
// current capacity, and never by less than requiredBytes.
func (bb *ByteBuffer) Grow(requiredBytes int) {
	available := cap(bb.B) - len(bb.B)
	if available >= requiredBytes {
		return
	}

	growBy := BlockBufferDefaultSize
	if cap(bb.B) > 4*BlockBufferDefaultSize {
		growBy = cap(bb.B) / 4
	}
	if growBy < requiredBytes {
		growBy = requiredBytes
	}

	newBuf := make([]byte, len(bb.B), len(bb.B)+growBy)
	copy(newBuf, bb.B)
	bb.B = newBuf
}

// Write appends data to the buffer, growing it as needed.
func (bb *ByteBuffer) Write(data []byte) (int, error) {
	bb.Grow(len(data))
	bb.B = append(bb.B, data...)

	return len(data), nil
}

// ByteBufferPool pools ByteBuffers to cut allocations on the ingest hot
// path, where a new buffer would otherwise be allocated once per
// (symbol, day) block build.
type ByteBufferPool struct {
	pool         sync.Pool
	maxThreshold int
}

// NewByteBufferPool creates a pool whose buffers default to defaultSize
// and are discarded (not retained) if they grow past maxThreshold.
func NewByteBufferPool(defaultSize, maxThreshold int) *ByteBufferPool {
	return &ByteBufferPool{
		pool: sync.Pool{
			New: func() any { return NewByteBuffer(defaultSize) },
		},
		maxThreshold: maxThreshold,
	}
}

// Get retrieves a ByteBuffer from the pool.
func (p *ByteBufferPool) Get() *ByteBuffer {
	bb, _ := p.pool.Get().(*ByteBuffer)

	return bb
}

// Put returns a ByteBuffer to the pool, discarding it instead if its
// capacity exceeds maxThreshold (prevents one oversized block from
// bloating the pool for every subsequent caller).
func (p *ByteBufferPool) Put(bb *ByteBuffer) {
	if bb == nil {
		return
	}
	if p.maxThreshold > 0 && cap(bb.B) > p.maxThreshold {
		return
	}

	bb.Reset()
	p.pool.Put(bb)
}

var defaultPool = NewByteBufferPool(BlockBufferDefaultSize, BlockBufferMaxThreshold)

// Get retrieves a ByteBuffer from the package-default pool.
func Get() *ByteBuffer { return defaultPool.Get() }

// Put returns a ByteBuffer to the package-default pool.
func Put(bb *ByteBuffer) { defaultPool.Put(bb) }
