// Package pool provides reusable byte buffers for streaming transfers.
// Pooling the copy buffers keeps high-throughput batch operations from
// allocating per object.
package pool

import (
	"sync"
)

const (
	// SmallBufferSize suits header-sized reads (4KB)
	SmallBufferSize = 4 * 1024
	// MediumBufferSize suits streaming copies (64KB)
	MediumBufferSize = 64 * 1024
	// LargeBufferSize suits part staging (1MB)
	LargeBufferSize = 1024 * 1024
)

// BufferPool manages reusable buffers in three size classes.
type BufferPool struct {
	small  sync.Pool
	medium sync.Pool
	large  sync.Pool
}

// NewBufferPool creates a pool with the default size classes.
func NewBufferPool() *BufferPool {
	return &BufferPool{
		small: sync.Pool{New: func() interface{} {
			buf := make([]byte, SmallBufferSize)
			return &buf
		}},
		medium: sync.Pool{New: func() interface{} {
			buf := make([]byte, MediumBufferSize)
			return &buf
		}},
		large: sync.Pool{New: func() interface{} {
			buf := make([]byte, LargeBufferSize)
			return &buf
		}},
	}
}

// Get returns a full-length buffer of at least size bytes.
// Requests above the large class are allocated fresh and never pooled.
func (bp *BufferPool) Get(size int) []byte {
	switch {
	case size <= SmallBufferSize:
		return *(bp.small.Get().(*[]byte))
	case size <= MediumBufferSize:
		return *(bp.medium.Get().(*[]byte))
	case size <= LargeBufferSize:
		return *(bp.large.Get().(*[]byte))
	default:
		return make([]byte, size)
	}
}

// Put returns a buffer to its size class.
// Buffers that do not match a size class are dropped.
func (bp *BufferPool) Put(buf []byte) {
	switch cap(buf) {
	case SmallBufferSize:
		buf = buf[:SmallBufferSize]
		bp.small.Put(&buf)
	case MediumBufferSize:
		buf = buf[:MediumBufferSize]
		bp.medium.Put(&buf)
	case LargeBufferSize:
		buf = buf[:LargeBufferSize]
		bp.large.Put(&buf)
	}
}

// Package-level pool shared by the transfer paths.
var globalBufferPool = NewBufferPool()

// GetBuffer returns a buffer from the package-level pool.
func GetBuffer(size int) []byte {
	return globalBufferPool.Get(size)
}

// PutBuffer returns a buffer to the package-level pool.
func PutBuffer(buf []byte) {
	globalBufferPool.Put(buf)
}
