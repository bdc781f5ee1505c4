package route_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mapstudio/msb/internal/binio"
	"github.com/mapstudio/msb/route"
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

func TestRouteRoundTrip(t *testing.T) {
	for _, rt := range []route.Type{route.TypePatrol, route.TypeMapPoint} {
		e := route.NewEntry(rt)
		e.SetName("patrol-a")
		e.SetEntityID(3)

		gw := &growingWriter{}
		w := binio.NewWriter(gw)
		require.NoError(t, e.Serialize(w, 0, 0))

		r := binio.NewReader(&sliceReadSeeker{data: gw.data})
		got, err := route.NewEntryFromReader(r)
		require.NoError(t, err)

		assert.Equal(t, "patrol-a", got.Name())
		assert.Equal(t, int32(3), got.EntityID())
		assert.Equal(t, uint32(rt), got.Subtype())
	}
}
