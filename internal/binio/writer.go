package binio

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
)

// Writer wraps a seekable byte sink and exposes little-endian (or, per
// dialect, big-endian) primitive writes plus position/seek/align, matching
// Reader field for field.
type Writer struct {
	w     io.WriteSeeker
	order binary.ByteOrder
}

// NewWriter wraps w for little-endian writes, the MSB default.
func NewWriter(w io.WriteSeeker) *Writer {
	return &Writer{w: w, order: binary.LittleEndian}
}

// SetByteOrder switches the writer's byte order.
func (w *Writer) SetByteOrder(order binary.ByteOrder) {
	w.order = order
}

// ByteOrder returns the writer's current byte order.
func (w *Writer) ByteOrder() binary.ByteOrder {
	return w.order
}

// Position returns the writer's current absolute offset.
func (w *Writer) Position() (int64, error) {
	return w.w.Seek(0, io.SeekCurrent)
}

// Seek moves the writer to an absolute offset.
func (w *Writer) Seek(abs int64) error {
	if abs < 0 {
		return fmt.Errorf("binio: negative seek offset %d", abs)
	}
	_, err := w.w.Seek(abs, io.SeekStart)
	return err
}

func (w *Writer) write(buf []byte) error {
	n, err := w.w.Write(buf)
	if err != nil {
		return fmt.Errorf("binio: write failed: %w", err)
	}
	if n != len(buf) {
		return fmt.Errorf("binio: short write: wrote %d of %d bytes", n, len(buf))
	}
	return nil
}

// WriteBytes writes raw bytes verbatim.
func (w *Writer) WriteBytes(b []byte) error {
	return w.write(b)
}

// Pad writes n zero bytes.
func (w *Writer) Pad(n int) error {
	if n <= 0 {
		return nil
	}
	buf := getBuffer(n)
	defer releaseBuffer(buf)
	return w.write(buf)
}

// Align advances the writer to the next multiple of n (a power of two),
// padding with zero bytes.
func (w *Writer) Align(n int64) error {
	pos, err := w.Position()
	if err != nil {
		return err
	}
	rem := pos % n
	if rem == 0 {
		return nil
	}
	return w.Pad(int(n - rem))
}

// WriteInt8 writes a signed 8-bit integer.
func (w *Writer) WriteInt8(v int8) error {
	return w.write([]byte{byte(v)})
}

// WriteUint8 writes an unsigned 8-bit integer.
func (w *Writer) WriteUint8(v uint8) error {
	return w.write([]byte{v})
}

// WriteInt16 writes a signed 16-bit integer.
func (w *Writer) WriteInt16(v int16) error {
	return w.WriteUint16(uint16(v))
}

// WriteUint16 writes an unsigned 16-bit integer.
func (w *Writer) WriteUint16(v uint16) error {
	buf := getBuffer(2)
	defer releaseBuffer(buf)
	w.order.PutUint16(buf, v)
	return w.write(buf)
}

// WriteInt32 writes a signed 32-bit integer.
func (w *Writer) WriteInt32(v int32) error {
	return w.WriteUint32(uint32(v))
}

// WriteUint32 writes an unsigned 32-bit integer.
func (w *Writer) WriteUint32(v uint32) error {
	buf := getBuffer(4)
	defer releaseBuffer(buf)
	w.order.PutUint32(buf, v)
	return w.write(buf)
}

// WriteInt64 writes a signed 64-bit integer.
func (w *Writer) WriteInt64(v int64) error {
	return w.WriteUint64(uint64(v))
}

// WriteUint64 writes an unsigned 64-bit integer.
func (w *Writer) WriteUint64(v uint64) error {
	buf := getBuffer(8)
	defer releaseBuffer(buf)
	w.order.PutUint64(buf, v)
	return w.write(buf)
}

// WriteFloat32 writes an IEEE-754 binary32 float.
func (w *Writer) WriteFloat32(v float32) error {
	return w.WriteUint32(math.Float32bits(v))
}
