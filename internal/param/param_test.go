package param_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mapstudio/msb/internal/binio"
	"github.com/mapstudio/msb/internal/entry"
	"github.com/mapstudio/msb/internal/param"
)

// fakeEntry is a minimal Entry with a settable Subtype, serialized as just
// its name, for exercising Param without a real supertype package.
type fakeEntry struct {
	entry.Base
	subtype uint32
}

func newFakeEntry(name string, subtype uint32) *fakeEntry {
	e := &fakeEntry{Base: entry.NewBase(name), subtype: subtype}
	return e
}

func (e *fakeEntry) Subtype() uint32 { return e.subtype }

func (e *fakeEntry) Serialize(w *binio.Writer, supertypeIndex, subtypeIndex int32) error {
	if err := w.WriteUint32(e.subtype); err != nil {
		return err
	}
	return binio.WriteUTF16String(w, e.Name())
}

func (e *fakeEntry) Deserialize(r *binio.Reader) error {
	subtype, err := r.ReadUint32()
	if err != nil {
		return err
	}
	e.subtype = subtype
	name, err := binio.ReadUTF16String(r)
	if err != nil {
		return err
	}
	e.SetName(name)
	return nil
}

func newFakeEntryFromReader(r *binio.Reader) (*fakeEntry, error) {
	e := &fakeEntry{}
	if err := e.Deserialize(r); err != nil {
		return nil, err
	}
	return e, nil
}

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

type seekReader struct {
	data []byte
	pos  int64
}

func (s *seekReader) Read(p []byte) (int, error) {
	n := copy(p, s.data[s.pos:])
	if n == 0 && len(p) > 0 {
		return 0, fmt.Errorf("eof")
	}
	s.pos += int64(n)
	return n, nil
}

func (s *seekReader) Seek(off int64, whence int) (int64, error) {
	switch whence {
	case 0:
		s.pos = off
	case 1:
		s.pos += off
	case 2:
		s.pos = int64(len(s.data)) + off
	}
	return s.pos, nil
}

func TestParamSerializeDeserializeRoundTrip(t *testing.T) {
	p := param.New[*fakeEntry]("TEST_PARAM_ST", 1)
	p.Add(newFakeEntry("b-entry", 1))
	p.Add(newFakeEntry("a-entry", 0))
	p.Add(newFakeEntry("c-entry", 1))

	gw := &growingWriter{}
	w := binio.NewWriter(gw)
	require.NoError(t, p.Serialize(w))

	p2 := param.New[*fakeEntry]("TEST_PARAM_ST", 0)
	r := binio.NewReader(&seekReader{data: gw.data})
	require.NoError(t, p2.Deserialize(r, newFakeEntryFromReader))

	require.Equal(t, 3, p2.Len())
	// Canonical order: grouped by subtype ascending, stable within group.
	assert.Equal(t, "a-entry", p2.Entries()[0].Name())
	assert.Equal(t, "b-entry", p2.Entries()[1].Name())
	assert.Equal(t, "c-entry", p2.Entries()[2].Name())
	assert.Equal(t, int32(0), p2.Entries()[1].SubtypeIndex())
	assert.Equal(t, int32(1), p2.Entries()[2].SubtypeIndex())
}

func TestParamDeserializeAlreadyCanonicalIsStable(t *testing.T) {
	p := param.New[*fakeEntry]("TEST_PARAM_ST", 1)
	p.Add(newFakeEntry("a-entry", 0))
	p.Add(newFakeEntry("b-entry", 1))
	p.Add(newFakeEntry("c-entry", 1))

	gw := &growingWriter{}
	w := binio.NewWriter(gw)
	require.NoError(t, p.Serialize(w))
	firstPass := append([]byte(nil), gw.data...)

	p2 := param.New[*fakeEntry]("TEST_PARAM_ST", 0)
	r := binio.NewReader(&seekReader{data: gw.data})
	require.NoError(t, p2.Deserialize(r, newFakeEntryFromReader))

	gw2 := &growingWriter{}
	w2 := binio.NewWriter(gw2)
	require.NoError(t, p2.Serialize(w2))

	assert.Equal(t, firstPass, gw2.data, "a read-then-write round trip of an already canonical param must be byte-exact")
}

func TestParamDeserializeRejectsNameMismatch(t *testing.T) {
	p := param.New[*fakeEntry]("ACTUAL_NAME", 1)
	p.Add(newFakeEntry("x", 0))

	gw := &growingWriter{}
	w := binio.NewWriter(gw)
	require.NoError(t, p.Serialize(w))

	p2 := param.New[*fakeEntry]("EXPECTED_NAME", 0)
	r := binio.NewReader(&seekReader{data: gw.data})
	err := p2.Deserialize(r, newFakeEntryFromReader)
	assert.Error(t, err)
}

func TestParamFindByName(t *testing.T) {
	p := param.New[*fakeEntry]("TEST_PARAM_ST", 1)
	p.Add(newFakeEntry("first", 0))
	p.Add(newFakeEntry("dup", 0))
	p.Add(newFakeEntry("dup", 0))

	e, ok := p.FindByName("dup")
	require.True(t, ok)
	assert.Same(t, p.Entries()[1], e)

	_, ok = p.FindByName("missing")
	assert.False(t, ok)
}

func TestParamRemoveAt(t *testing.T) {
	p := param.New[*fakeEntry]("TEST_PARAM_ST", 1)
	p.Add(newFakeEntry("a", 0))
	p.Add(newFakeEntry("b", 0))
	p.Add(newFakeEntry("c", 0))

	p.RemoveAt(1)
	require.Equal(t, 2, p.Len())
	assert.Equal(t, "a", p.Entries()[0].Name())
	assert.Equal(t, "c", p.Entries()[1].Name())
}

func TestAssignIndicesGroupsBySubtype(t *testing.T) {
	p := param.New[*fakeEntry]("TEST_PARAM_ST", 1)
	e0 := newFakeEntry("x", 2)
	e1 := newFakeEntry("y", 1)
	e2 := newFakeEntry("z", 1)
	p.Add(e0)
	p.Add(e1)
	p.Add(e2)

	ordered := p.AssignIndices()
	assert.Equal(t, []uint32{1, 1, 2}, []uint32{ordered[0].Subtype(), ordered[1].Subtype(), ordered[2].Subtype()})
	assert.Equal(t, int32(0), ordered[0].SubtypeIndex())
	assert.Equal(t, int32(1), ordered[1].SubtypeIndex())
	assert.Equal(t, int32(0), ordered[2].SubtypeIndex())
}
