package event_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mapstudio/msb/event"
	"github.com/mapstudio/msb/internal/binio"
	"github.com/mapstudio/msb/part"
	"github.com/mapstudio/msb/region"
)

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

type sliceReadSeeker struct {
	data []byte
	pos  int64
}

func (s *sliceReadSeeker) Read(p []byte) (int, error) {
	n := copy(p, s.data[s.pos:])
	if n == 0 && len(p) > 0 {
		return 0, assert.AnError
	}
	s.pos += int64(n)
	return n, nil
}

func (s *sliceReadSeeker) Seek(off int64, whence int) (int64, error) {
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

func serialize(t *testing.T, e event.Event, subtypeIndex int32) []byte {
	t.Helper()
	gw := &growingWriter{}
	w := binio.NewWriter(gw)
	require.NoError(t, e.Serialize(w, 0, subtypeIndex))
	return gw.data
}

func deserialize(t *testing.T, data []byte) event.Event {
	t.Helper()
	r := binio.NewReader(&sliceReadSeeker{data: data})
	got, err := event.NewEntry(r)
	require.NoError(t, err)
	return got
}

func TestMapOffsetEventRoundTrip(t *testing.T) {
	e := event.NewMapOffsetEvent()
	e.SetName("travel-offset")
	e.Translate = [3]float32{10, 0, -5}
	e.RotationY = 90

	data := serialize(t, e, 0)
	got := deserialize(t, data)
	gotOffset, ok := got.(*event.MapOffsetEvent)
	require.True(t, ok)
	assert.Equal(t, [3]float32{10, 0, -5}, gotOffset.Translate)
	assert.Equal(t, float32(90), gotOffset.RotationY)
}

func TestObjActionEventRoundTrip(t *testing.T) {
	e := event.NewObjActionEvent()
	e.SetName("lever-1")
	e.ActionID = 42

	data := serialize(t, e, 0)
	got := deserialize(t, data)
	gotAction, ok := got.(*event.ObjActionEvent)
	require.True(t, ok)
	assert.Equal(t, int32(42), gotAction.ActionID)
}

func TestEventReferencesBothPartAndRegion(t *testing.T) {
	p := part.NewMapPiece()
	p.SetName("door-frame")
	r := region.NewSpawnPointRegion()
	r.SetName("trigger-zone")

	e := event.NewGenericEvent()
	e.SetName("door-open")
	e.SetAttachedPart(p)
	e.SetAttachedRegion(r)

	parts := []part.Part{p}
	regions := []region.Region{r}
	require.NoError(t, p.PopulateIndices(nil, parts))
	require.NoError(t, r.PopulateIndices(regions, nil))
	require.NoError(t, e.PopulateIndices(parts, regions))

	data := serialize(t, e, 0)
	got := deserialize(t, data)
	require.NoError(t, got.ResolveReferences(parts, regions))

	resolvedPart, ok := got.AttachedPart()
	require.True(t, ok)
	assert.Equal(t, "door-frame", resolvedPart.Name())

	resolvedRegion, ok := got.AttachedRegion()
	require.True(t, ok)
	assert.Equal(t, "trigger-zone", resolvedRegion.Name())
}

func TestGenericEventWithoutAnchorsRoundTrips(t *testing.T) {
	e := event.NewGenericEvent()
	e.SetName("ambient-script")
	e.SetEntityID(9001)

	data := serialize(t, e, 0)
	got := deserialize(t, data)
	assert.Equal(t, "ambient-script", got.Name())
	assert.Equal(t, int32(9001), got.EntityID())

	_, ok := got.AttachedPart()
	assert.False(t, ok)
	_, ok = got.AttachedRegion()
	assert.False(t, ok)
}

func TestPopulateIndicesRejectsDanglingRegionReference(t *testing.T) {
	r := region.NewSpawnPointRegion()
	r.SetName("never-added")

	e := event.NewGenericEvent()
	e.SetName("broken-event")
	e.SetAttachedRegion(r)

	err := e.PopulateIndices(nil, nil)
	assert.Error(t, err)
}
