package binio

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
)

// Reader wraps a seekable byte source and exposes little-endian (or, per
// dialect, big-endian) primitive reads plus the position/seek pair every
// entry deserializer needs to compute offset-relative reads.
type Reader struct {
	r     io.ReadSeeker
	order binary.ByteOrder
}

// NewReader wraps r for little-endian reads, the MSB default.
func NewReader(r io.ReadSeeker) *Reader {
	return &Reader{r: r, order: binary.LittleEndian}
}

// SetByteOrder switches the reader's byte order. Called once, immediately
// after the file header's byte-order flag has been read, before any other
// field is decoded.
func (r *Reader) SetByteOrder(order binary.ByteOrder) {
	r.order = order
}

// ByteOrder returns the reader's current byte order.
func (r *Reader) ByteOrder() binary.ByteOrder {
	return r.order
}

// Position returns the reader's current absolute offset.
func (r *Reader) Position() (int64, error) {
	return r.r.Seek(0, io.SeekCurrent)
}

// Seek moves the reader to an absolute offset.
func (r *Reader) Seek(abs int64) error {
	if abs < 0 {
		return fmt.Errorf("binio: negative seek offset %d", abs)
	}
	_, err := r.r.Seek(abs, io.SeekStart)
	return err
}

// Skip advances the reader by n bytes without inspecting them.
func (r *Reader) Skip(n int64) error {
	_, err := r.r.Seek(n, io.SeekCurrent)
	return err
}

func (r *Reader) read(n int) ([]byte, error) {
	buf := getBuffer(n)
	if _, err := io.ReadFull(r.r, buf); err != nil {
		releaseBuffer(buf)
		return nil, fmt.Errorf("binio: short read (%d bytes): %w", n, err)
	}
	return buf, nil
}

// ReadBytes reads and returns a copy of the next n raw bytes.
func (r *Reader) ReadBytes(n int) ([]byte, error) {
	buf, err := r.read(n)
	if err != nil {
		return nil, err
	}
	out := make([]byte, n)
	copy(out, buf)
	releaseBuffer(buf)
	return out, nil
}

// ReadInt8 reads a signed 8-bit integer.
func (r *Reader) ReadInt8() (int8, error) {
	buf, err := r.read(1)
	if err != nil {
		return 0, err
	}
	v := int8(buf[0])
	releaseBuffer(buf)
	return v, nil
}

// ReadUint8 reads an unsigned 8-bit integer.
func (r *Reader) ReadUint8() (uint8, error) {
	buf, err := r.read(1)
	if err != nil {
		return 0, err
	}
	v := buf[0]
	releaseBuffer(buf)
	return v, nil
}

// ReadInt16 reads a signed 16-bit integer.
func (r *Reader) ReadInt16() (int16, error) {
	v, err := r.ReadUint16()
	return int16(v), err
}

// ReadUint16 reads an unsigned 16-bit integer.
func (r *Reader) ReadUint16() (uint16, error) {
	buf, err := r.read(2)
	if err != nil {
		return 0, err
	}
	v := r.order.Uint16(buf)
	releaseBuffer(buf)
	return v, nil
}

// ReadInt32 reads a signed 32-bit integer.
func (r *Reader) ReadInt32() (int32, error) {
	v, err := r.ReadUint32()
	return int32(v), err
}

// ReadUint32 reads an unsigned 32-bit integer.
func (r *Reader) ReadUint32() (uint32, error) {
	buf, err := r.read(4)
	if err != nil {
		return 0, err
	}
	v := r.order.Uint32(buf)
	releaseBuffer(buf)
	return v, nil
}

// ReadInt64 reads a signed 64-bit integer.
func (r *Reader) ReadInt64() (int64, error) {
	v, err := r.ReadUint64()
	return int64(v), err
}

// ReadUint64 reads an unsigned 64-bit integer.
func (r *Reader) ReadUint64() (uint64, error) {
	buf, err := r.read(8)
	if err != nil {
		return 0, err
	}
	v := r.order.Uint64(buf)
	releaseBuffer(buf)
	return v, nil
}

// ReadFloat32 reads an IEEE-754 binary32 float.
func (r *Reader) ReadFloat32() (float32, error) {
	v, err := r.ReadUint32()
	if err != nil {
		return 0, err
	}
	return math.Float32frombits(v), nil
}
