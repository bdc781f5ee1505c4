// Package route implements the MSB Route supertype: a named, ordered path
// used for patrol and travel scripting. The original format defines
// several route variants distinguished only by how scripts interpret
// their name and entity id; this engine models that as a single concrete
// type carrying a subtype tag, rather than inventing per-variant payload
// fields the spec does not call for.
package route

import (
	"fmt"

	"github.com/mapstudio/msb/internal/binio"
	"github.com/mapstudio/msb/internal/entry"
	"github.com/mapstudio/msb/internal/reserve"
)

// Type tags a Route subtype.
type Type uint32

// The Route subtypes this engine implements.
const (
	TypePatrol Type = iota
	TypeMapPoint
)

// Route is the interface every concrete Route subtype implements.
type Route interface {
	entry.Entry
}

type header struct {
	NameOffset   int64
	RouteType    Type
	SubtypeIndex int32
	EntityID     int32
}

func (h *header) Validate() error {
	if h.NameOffset == 0 {
		return binio.NewValidationError("Route.NameOffset", "!= 0", "0")
	}
	return nil
}

var headerSize = binio.Size(header{})

// Entry is the one concrete Route subtype this engine implements; its
// Subtype tag distinguishes a patrol route from a map-point route without
// either needing subtype-specific fields.
type Entry struct {
	entry.Base
	routeType Type
}

// NewEntry constructs an unbound Route of the given subtype, for callers
// building a route by hand.
func NewEntry(routeType Type) *Entry {
	return &Entry{Base: entry.NewBase(""), routeType: routeType}
}

func (e *Entry) Subtype() uint32 { return uint32(e.routeType) }

func (e *Entry) Deserialize(r *binio.Reader) error {
	start, err := r.Position()
	if err != nil {
		return err
	}
	h, err := binio.ReadValidated[header](r)
	if err != nil {
		return err
	}
	e.routeType = h.RouteType
	e.SetEntityID(h.EntityID)

	if err := r.Seek(start + h.NameOffset); err != nil {
		return err
	}
	name, err := binio.ReadUTF16String(r)
	if err != nil {
		return err
	}
	e.SetName(name)
	return nil
}

func (e *Entry) Serialize(w *binio.Writer, supertypeIndex, subtypeIndex int32) error {
	start, err := w.Position()
	if err != nil {
		return err
	}
	rs := reserve.New(w)
	if err := rs.Reserve("header", headerSize); err != nil {
		return err
	}

	h := header{
		RouteType:    e.routeType,
		SubtypeIndex: subtypeIndex,
		EntityID:     e.EntityID(),
	}

	namePos, err := w.Position()
	if err != nil {
		return err
	}
	h.NameOffset = namePos - start
	if err := binio.WriteUTF16String(w, e.Name()); err != nil {
		return err
	}
	if err := w.Align(8); err != nil {
		return err
	}

	encoded, err := binio.EncodeValidated(w.ByteOrder(), h)
	if err != nil {
		return err
	}
	if err := rs.Fill("header", encoded); err != nil {
		return err
	}
	return rs.Finish()
}

// NewEntryFromReader reads one Route entry. It satisfies
// param.NewEntryFunc[Route].
func NewEntryFromReader(r *binio.Reader) (Route, error) {
	e := &Entry{}
	if err := e.Deserialize(r); err != nil {
		return nil, fmt.Errorf("route: %w", err)
	}
	return e, nil
}
