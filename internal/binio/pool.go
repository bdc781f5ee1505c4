// Package binio provides the little-endian binary read/write substrate
// shared by every MSB entry type: fixed-width primitives, null-terminated
// UTF-16 strings, alignment padding, and validated fixed-size record I/O.
package binio

import "sync"

var bufferPool = sync.Pool{
	New: func() interface{} {
		return make([]byte, 0, 64)
	},
}

// getBuffer returns a zeroed byte slice of exactly size bytes from the pool.
func getBuffer(size int) []byte {
	buf := bufferPool.Get().([]byte)
	if cap(buf) < size {
		return make([]byte, size)
	}
	buf = buf[:size]
	for i := range buf {
		buf[i] = 0
	}
	return buf
}

// releaseBuffer returns a buffer to the pool for reuse.
func releaseBuffer(buf []byte) {
	//nolint:staticcheck // slice descriptor copy is fine for sync.Pool
	bufferPool.Put(buf[:0])
}
