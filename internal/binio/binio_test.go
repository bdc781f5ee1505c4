package binio_test

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mapstudio/msb/internal/binio"
)

// seekBuf adapts a bytes.Buffer into the io.ReadWriteSeeker every Reader and
// Writer needs, mirroring how an os.File behaves for position tracking.
type seekBuf struct {
	buf *bytes.Reader
}

func newSeekBuf(data []byte) *seekBuf {
	return &seekBuf{buf: bytes.NewReader(data)}
}

func (s *seekBuf) Read(p []byte) (int, error)                  { return s.buf.Read(p) }
func (s *seekBuf) Seek(off int64, whence int) (int64, error)   { return s.buf.Seek(off, whence) }

// growingWriter is a minimal io.WriteSeeker backed by an in-memory slice,
// growing on write past the end, for Writer round-trip tests.
type growingWriter struct {
	data []byte
	pos  int64
}

func (g *growingWriter) Write(p []byte) (int, error) {
	end := g.pos + int64(len(p))
	if end > int64(len(g.data)) {
		grown := make([]byte, end)
		copy(grown, g.data)
		g.data = grown
	}
	copy(g.data[g.pos:end], p)
	g.pos = end
	return len(p), nil
}

func (g *growingWriter) Seek(off int64, whence int) (int64, error) {
	switch whence {
	case 0:
		g.pos = off
	case 1:
		g.pos += off
	case 2:
		g.pos = int64(len(g.data)) + off
	}
	return g.pos, nil
}

func TestReaderWriterPrimitivesRoundTrip(t *testing.T) {
	gw := &growingWriter{}
	w := binio.NewWriter(gw)

	require.NoError(t, w.WriteInt8(-12))
	require.NoError(t, w.WriteUint8(200))
	require.NoError(t, w.WriteInt16(-1000))
	require.NoError(t, w.WriteUint16(60000))
	require.NoError(t, w.WriteInt32(-70000))
	require.NoError(t, w.WriteUint32(4000000000))
	require.NoError(t, w.WriteInt64(-1 << 40))
	require.NoError(t, w.WriteUint64(1 << 63))
	require.NoError(t, w.WriteFloat32(3.25))

	r := binio.NewReader(newSeekBuf(gw.data))

	i8, err := r.ReadInt8()
	require.NoError(t, err)
	assert.Equal(t, int8(-12), i8)

	u8, err := r.ReadUint8()
	require.NoError(t, err)
	assert.Equal(t, uint8(200), u8)

	i16, err := r.ReadInt16()
	require.NoError(t, err)
	assert.Equal(t, int16(-1000), i16)

	u16, err := r.ReadUint16()
	require.NoError(t, err)
	assert.Equal(t, uint16(60000), u16)

	i32, err := r.ReadInt32()
	require.NoError(t, err)
	assert.Equal(t, int32(-70000), i32)

	u32, err := r.ReadUint32()
	require.NoError(t, err)
	assert.Equal(t, uint32(4000000000), u32)

	i64, err := r.ReadInt64()
	require.NoError(t, err)
	assert.Equal(t, int64(-1<<40), i64)

	u64, err := r.ReadUint64()
	require.NoError(t, err)
	assert.Equal(t, uint64(1<<63), u64)

	f32, err := r.ReadFloat32()
	require.NoError(t, err)
	assert.Equal(t, float32(3.25), f32)
}

func TestReaderBigEndian(t *testing.T) {
	gw := &growingWriter{}
	w := binio.NewWriter(gw)
	w.SetByteOrder(binary.BigEndian)
	require.NoError(t, w.WriteUint32(0x01020304))

	r := binio.NewReader(newSeekBuf(gw.data))
	r.SetByteOrder(binary.BigEndian)
	v, err := r.ReadUint32()
	require.NoError(t, err)
	assert.Equal(t, uint32(0x01020304), v)
	assert.Equal(t, binary.BigEndian, r.ByteOrder())
}

func TestWriterAlign(t *testing.T) {
	gw := &growingWriter{}
	w := binio.NewWriter(gw)
	require.NoError(t, w.WriteUint8(1))
	require.NoError(t, w.Align(8))
	pos, err := w.Position()
	require.NoError(t, err)
	assert.Equal(t, int64(8), pos)

	// Already aligned: Align is a no-op.
	require.NoError(t, w.Align(8))
	pos, err = w.Position()
	require.NoError(t, err)
	assert.Equal(t, int64(8), pos)
}

func TestReaderAlignAndSkip(t *testing.T) {
	r := binio.NewReader(newSeekBuf(make([]byte, 16)))
	require.NoError(t, r.Skip(3))
	require.NoError(t, r.Align(8))
	pos, err := r.Position()
	require.NoError(t, err)
	assert.Equal(t, int64(8), pos)
}

func TestSeekRejectsNegativeOffset(t *testing.T) {
	r := binio.NewReader(newSeekBuf(make([]byte, 4)))
	err := r.Seek(-1)
	assert.Error(t, err)

	gw := &growingWriter{}
	w := binio.NewWriter(gw)
	err = w.Seek(-1)
	assert.Error(t, err)
}

func TestUTF16StringRoundTrip(t *testing.T) {
	cases := []string{"", "m999999", "A composite region's name", "日本語"}

	for _, s := range cases {
		gw := &growingWriter{}
		w := binio.NewWriter(gw)
		require.NoError(t, binio.WriteUTF16String(w, s))

		r := binio.NewReader(newSeekBuf(gw.data))
		got, err := binio.ReadUTF16String(r)
		require.NoError(t, err)
		assert.Equal(t, s, got)
	}
}

func TestWriteUTF16StringRejectsEmbeddedNUL(t *testing.T) {
	gw := &growingWriter{}
	w := binio.NewWriter(gw)
	err := binio.WriteUTF16String(w, "bad\x00name")
	assert.Error(t, err)
}

func TestSafeMul(t *testing.T) {
	v, err := binio.SafeMul(10, 20)
	require.NoError(t, err)
	assert.Equal(t, int64(200), v)

	v, err = binio.SafeMul(0, 500)
	require.NoError(t, err)
	assert.Equal(t, int64(0), v)

	_, err = binio.SafeMul(-1, 5)
	assert.Error(t, err)

	_, err = binio.SafeMul(1<<62, 4)
	assert.Error(t, err)
}

type validatedRecord struct {
	Magic   uint32
	Version int32
}

func (r *validatedRecord) Validate() error {
	if r.Magic != 0xABCD {
		return binio.NewValidationError("Magic", "0xABCD", "other")
	}
	return nil
}

func TestReadWriteValidatedRoundTrip(t *testing.T) {
	gw := &growingWriter{}
	w := binio.NewWriter(gw)
	rec := validatedRecord{Magic: 0xABCD, Version: 3}
	require.NoError(t, binio.WriteValidated(w, rec))

	r := binio.NewReader(newSeekBuf(gw.data))
	got, err := binio.ReadValidated[validatedRecord](r)
	require.NoError(t, err)
	assert.Equal(t, rec, got)
}

func TestWriteValidatedRejectsInvalidRecord(t *testing.T) {
	gw := &growingWriter{}
	w := binio.NewWriter(gw)
	err := binio.WriteValidated(w, validatedRecord{Magic: 0, Version: 1})
	var verr *binio.ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestEncodeValidatedMatchesWriteValidated(t *testing.T) {
	rec := validatedRecord{Magic: 0xABCD, Version: 7}

	encoded, err := binio.EncodeValidated(binary.LittleEndian, rec)
	require.NoError(t, err)

	gw := &growingWriter{}
	w := binio.NewWriter(gw)
	require.NoError(t, binio.WriteValidated(w, rec))

	assert.Equal(t, gw.data, encoded)
}

func TestSize(t *testing.T) {
	assert.Equal(t, 8, binio.Size(validatedRecord{}))
}
