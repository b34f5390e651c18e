package pool

import (
	"io"
	"sync"
)

const (
	// PacketBufferDefaultSize holds one patch packet of either command.
	PacketBufferDefaultSize  = 512
	PacketBufferMaxThreshold = 4 * 1024
	// BankBufferDefaultSize holds a full pack of Replace Patch packets.
	BankBufferDefaultSize  = 128 * 352
	BankBufferMaxThreshold = 1024 * 1024
)

// ByteBuffer is a growable byte slice that can be recycled through a
// ByteBufferPool.
type ByteBuffer struct {
	// B is the underlying byte slice.
	B []byte
}

// NewByteBuffer creates a new ByteBuffer with the specified default capacity.
func NewByteBuffer(defaultSize int) *ByteBuffer {
	return &ByteBuffer{
		B: make([]byte, 0, defaultSize),
	}
}

// Bytes returns the underlying byte slice.
func (bb *ByteBuffer) Bytes() []byte {
	return bb.B
}

// Reset empties the buffer and keeps its memory.
func (bb *ByteBuffer) Reset() {
	bb.B = bb.B[:0]
}

func (bb *ByteBuffer) Len() int {
	return len(bb.B)
}

func (bb *ByteBuffer) Cap() int {
	return cap(bb.B)
}

// Grow makes room for requiredBytes more bytes without a later reallocation.
//
// Small buffers grow by at least PacketBufferDefaultSize, larger ones by a
// quarter of their capacity.
func (bb *ByteBuffer) Grow(requiredBytes int) {
	if cap(bb.B)-len(bb.B) >= requiredBytes {
		return
	}

	growBy := PacketBufferDefaultSize
	if cap(bb.B) > 4*PacketBufferDefaultSize {
		growBy = cap(bb.B) / 4
	}
	growBy = max(growBy, requiredBytes)

	newBuf := make([]byte, len(bb.B), len(bb.B)+growBy)
	copy(newBuf, bb.B)
	bb.B = newBuf
}

// Write appends data to the buffer. It never fails.
func (bb *ByteBuffer) Write(data []byte) (int, error) {
	bb.B = append(bb.B, data...)
	return len(data), nil
}

// WriteTo writes the contents of the buffer to w.
func (bb *ByteBuffer) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(bb.B)
	return int64(n), err
}

// ByteBufferPool recycles ByteBuffers. Buffers that grew beyond maxThreshold
// are dropped instead of being pooled.
type ByteBufferPool struct {
	pool         sync.Pool
	maxThreshold int
}

// NewByteBufferPool creates a pool of buffers with capacity defaultSize. A
// maxThreshold of 0 pools buffers of any size.
func NewByteBufferPool(defaultSize int, maxThreshold int) *ByteBufferPool {
	return &ByteBufferPool{
		pool: sync.Pool{
			New: func() any {
				return NewByteBuffer(defaultSize)
			},
		},
		maxThreshold: maxThreshold,
	}
}

// Get retrieves an empty ByteBuffer from the pool.
func (bbp *ByteBufferPool) Get() *ByteBuffer {
	bb, _ := bbp.pool.Get().(*ByteBuffer)
	return bb
}

// Put returns bb to the pool. bb must not be used afterwards.
func (bbp *ByteBufferPool) Put(bb *ByteBuffer) {
	if bb == nil {
		return
	}

	if bbp.maxThreshold > 0 && cap(bb.B) > bbp.maxThreshold {
		return
	}

	bb.Reset()
	bbp.pool.Put(bb)
}

var (
	packetPool = NewByteBufferPool(PacketBufferDefaultSize, PacketBufferMaxThreshold)
	bankPool   = NewByteBufferPool(BankBufferDefaultSize, BankBufferMaxThreshold)
)

// GetPacketBuffer retrieves a buffer sized for one patch packet.
func GetPacketBuffer() *ByteBuffer {
	return packetPool.Get()
}

func PutPacketBuffer(bb *ByteBuffer) {
	packetPool.Put(bb)
}

// GetBankBuffer retrieves a buffer sized for a concatenated pack of packets.
func GetBankBuffer() *ByteBuffer {
	return bankPool.Get()
}

func PutBankBuffer(bb *ByteBuffer) {
	bankPool.Put(bb)
}
