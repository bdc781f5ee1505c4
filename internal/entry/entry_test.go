package entry_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mapstudio/msb/internal/binio"
	"github.com/mapstudio/msb/internal/entry"
	"github.com/mapstudio/msb/internal/msberr"
)

// stub is a minimal comparable Entry implementation, standing in for a
// concrete supertype (model.Model, part.Part, ...) so Ref/RefPair can be
// exercised without a real entry package.
type stub struct {
	name string
}

func (s *stub) Name() string                    { return s.name }
func (s *stub) SetName(n string)                { s.name = n }
func (s *stub) Description() string             { return "" }
func (s *stub) SetDescription(string)           {}
func (s *stub) EntityID() int32                 { return 0 }
func (s *stub) SetEntityID(int32)               {}
func (s *stub) Subtype() uint32                 { return 0 }
func (s *stub) SubtypeIndex() int32             { return 0 }
func (s *stub) SetSubtypeIndex(int32)           {}
func (s *stub) Deserialize(*binio.Reader) error { return nil }
func (s *stub) Serialize(*binio.Writer, int32, int32) error { return nil }

func TestRefNullByDefault(t *testing.T) {
	var r entry.Ref[*stub]
	assert.True(t, r.IsNull())
	_, ok := r.Get()
	assert.False(t, ok)
}

func TestRefSetAndClear(t *testing.T) {
	target := &stub{name: "target"}
	var r entry.Ref[*stub]
	r.Set(target)
	assert.False(t, r.IsNull())
	got, ok := r.Get()
	require.True(t, ok)
	assert.Same(t, target, got)

	r.Clear()
	assert.True(t, r.IsNull())
}

func TestRefResolveFromIndex(t *testing.T) {
	entries := []*stub{{name: "a"}, {name: "b"}, {name: "c"}}

	var r entry.Ref[*stub]
	require.NoError(t, r.ResolveFromIndex(entries, 1))
	got, ok := r.Get()
	require.True(t, ok)
	assert.Same(t, entries[1], got)

	require.NoError(t, r.ResolveFromIndex(entries, -1))
	assert.True(t, r.IsNull())

	err := r.ResolveFromIndex(entries, 5)
	assert.Error(t, err)
}

func TestRefToIndex(t *testing.T) {
	entries := []*stub{{name: "a"}, {name: "b"}}
	source := &stub{name: "source"}

	var r entry.Ref[*stub]
	idx, err := r.ToIndex(source, "Field", entries)
	require.NoError(t, err)
	assert.Equal(t, int32(-1), idx)

	r.Set(entries[1])
	idx, err = r.ToIndex(source, "Field", entries)
	require.NoError(t, err)
	assert.Equal(t, int32(1), idx)
}

func TestRefToIndexDanglingReference(t *testing.T) {
	entries := []*stub{{name: "a"}}
	source := &stub{name: "source"}
	dangling := &stub{name: "gone"}

	var r entry.Ref[*stub]
	r.Set(dangling)
	_, err := r.ToIndex(source, "Target", entries)
	require.Error(t, err)
	var derr *msberr.DanglingReferenceError
	require.ErrorAs(t, err, &derr)
	assert.Equal(t, "source", derr.Source)
	assert.Equal(t, "Target", derr.Field)
	assert.Equal(t, "gone", derr.Target)
}

// subtypeIndexed is a stub that reports a settable SubtypeIndex, for
// exercising RefPair's compound index consistency check.
type subtypeIndexed struct {
	stub
	idx int32
}

func (s *subtypeIndexed) SubtypeIndex() int32     { return s.idx }
func (s *subtypeIndexed) SetSubtypeIndex(i int32) { s.idx = i }

func TestRefPairResolveFromIndices(t *testing.T) {
	entries := []*subtypeIndexed{
		{stub: stub{name: "a"}, idx: 0},
		{stub: stub{name: "b"}, idx: 1},
	}

	var rp entry.RefPair[*subtypeIndexed]
	require.NoError(t, rp.ResolveFromIndices(entries, 1, 1))
	got, ok := rp.Get()
	require.True(t, ok)
	assert.Same(t, entries[1], got)

	require.NoError(t, rp.ResolveFromIndices(entries, -1, -1))
	assert.True(t, rp.IsNull())
}

func TestRefPairResolveFromIndicesRejectsMismatch(t *testing.T) {
	entries := []*subtypeIndexed{
		{stub: stub{name: "a"}, idx: 0},
		{stub: stub{name: "b"}, idx: 7}, // inconsistent with its own position
	}

	var rp entry.RefPair[*subtypeIndexed]
	err := rp.ResolveFromIndices(entries, 1, 1)
	assert.Error(t, err)
}

func TestRefPairToIndicesRoundTrip(t *testing.T) {
	entries := []*subtypeIndexed{
		{stub: stub{name: "a"}, idx: 0},
		{stub: stub{name: "b"}, idx: 1},
	}
	source := &stub{name: "source"}

	var rp entry.RefPair[*subtypeIndexed]
	rp.Set(entries[1])
	superIdx, subIdx, err := rp.ToIndices(source, "Field", entries)
	require.NoError(t, err)
	assert.Equal(t, int32(1), superIdx)
	assert.Equal(t, int32(1), subIdx)

	rp.Clear()
	superIdx, subIdx, err = rp.ToIndices(source, "Field", entries)
	require.NoError(t, err)
	assert.Equal(t, int32(-1), superIdx)
	assert.Equal(t, int32(-1), subIdx)
}

func TestSupertypeString(t *testing.T) {
	cases := map[entry.Supertype]string{
		entry.SupertypeModel:  "Model",
		entry.SupertypeEvent:  "Event",
		entry.SupertypePart:   "Part",
		entry.SupertypeRegion: "Region",
		entry.SupertypeRoute:  "Route",
	}
	for st, want := range cases {
		assert.Equal(t, want, st.String())
	}
}

func TestBaseAccessors(t *testing.T) {
	b := entry.NewBase("m999999")
	assert.Equal(t, "m999999", b.Name())

	b.SetName("renamed")
	assert.Equal(t, "renamed", b.Name())

	b.SetDescription("a description")
	assert.Equal(t, "a description", b.Description())

	b.SetEntityID(42)
	assert.Equal(t, int32(42), b.EntityID())

	b.SetSubtypeIndex(3)
	assert.Equal(t, int32(3), b.SubtypeIndex())
}
