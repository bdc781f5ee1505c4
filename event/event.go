// Package event implements the MSB Event supertype: scripted behavior
// bound to a placement in the map, optionally anchored to a Part and/or a
// Region so the event only fires while its anchor is relevant.
package event

import (
	"fmt"

	"github.com/mapstudio/msb/internal/binio"
	"github.com/mapstudio/msb/internal/entry"
	"github.com/mapstudio/msb/internal/msberr"
	"github.com/mapstudio/msb/internal/reserve"
	"github.com/mapstudio/msb/part"
	"github.com/mapstudio/msb/region"
)

// Type tags an Event subtype.
type Type uint32

// The Event subtypes this engine implements.
const (
	TypeGeneric Type = iota
	TypeMapOffset
	TypeObjAction
)

// Event is the interface every concrete Event subtype implements.
type Event interface {
	entry.Entry
	AttachedPart() (part.Part, bool)
	SetAttachedPart(p part.Part)
	AttachedRegion() (region.Region, bool)
	SetAttachedRegion(r region.Region)

	ResolveReferences(parts []part.Part, regions []region.Region) error
	PopulateIndices(parts []part.Part, regions []region.Region) error
}

type header struct {
	NameOffset        int64
	EventType         Type
	SubtypeIndex      int32
	EntityID          int32
	AttachedPartIndex   int32
	AttachedRegionIndex int32
	SubtypeDataOffset   int64
}

func (h *header) Validate() error {
	if h.NameOffset == 0 {
		return binio.NewValidationError("Event.NameOffset", "!= 0", "0")
	}
	return nil
}

var headerSize = binio.Size(header{})

// base implements the fields and (de)serialize algorithm shared by every
// Event subtype.
type base struct {
	entry.Base
	attachedPart   entry.Ref[part.Part]
	attachedRegion entry.Ref[region.Region]

	attachedPartIndex   int32
	attachedRegionIndex int32
}

func newBase(name string) base {
	return base{Base: entry.NewBase(name)}
}

func (b *base) AttachedPart() (part.Part, bool)     { return b.attachedPart.Get() }
func (b *base) SetAttachedPart(p part.Part)         { b.attachedPart.Set(p) }
func (b *base) AttachedRegion() (region.Region, bool) { return b.attachedRegion.Get() }
func (b *base) SetAttachedRegion(r region.Region)     { b.attachedRegion.Set(r) }

func (b *base) resolveReferences(parts []part.Part, regions []region.Region) error {
	if err := b.attachedPart.ResolveFromIndex(parts, b.attachedPartIndex); err != nil {
		return err
	}
	return b.attachedRegion.ResolveFromIndex(regions, b.attachedRegionIndex)
}

func (b *base) populateIndices(source Event, parts []part.Part, regions []region.Region) error {
	partIdx, err := b.attachedPart.ToIndex(source, "AttachedPart", parts)
	if err != nil {
		return err
	}
	b.attachedPartIndex = partIdx

	regionIdx, err := b.attachedRegion.ToIndex(source, "AttachedRegion", regions)
	if err != nil {
		return err
	}
	b.attachedRegionIndex = regionIdx
	return nil
}

type decodedHeader struct {
	h     header
	start int64
}

func (b *base) deserialize(r *binio.Reader, wantType Type) (decodedHeader, error) {
	start, err := r.Position()
	if err != nil {
		return decodedHeader{}, err
	}
	h, err := binio.ReadValidated[header](r)
	if err != nil {
		return decodedHeader{}, err
	}
	if h.EventType != wantType {
		return decodedHeader{}, msberr.NewFormatError(start, fmt.Sprintf("Event subtype mismatch: header says %d, expected %d", h.EventType, wantType))
	}
	b.SetEntityID(h.EntityID)
	b.attachedPartIndex = h.AttachedPartIndex
	b.attachedRegionIndex = h.AttachedRegionIndex

	if err := r.Seek(start + h.NameOffset); err != nil {
		return decodedHeader{}, err
	}
	name, err := binio.ReadUTF16String(r)
	if err != nil {
		return decodedHeader{}, err
	}
	b.SetName(name)

	return decodedHeader{h: h, start: start}, nil
}

func (b *base) serializeWithData(w *binio.Writer, eventType Type, subtypeIndex int32, writeData func() error) error {
	start, err := w.Position()
	if err != nil {
		return err
	}
	rs := reserve.New(w)
	if err := rs.Reserve("header", headerSize); err != nil {
		return err
	}

	h := header{
		EventType:           eventType,
		SubtypeIndex:        subtypeIndex,
		EntityID:            b.EntityID(),
		AttachedPartIndex:   b.attachedPartIndex,
		AttachedRegionIndex: b.attachedRegionIndex,
	}

	namePos, err := w.Position()
	if err != nil {
		return err
	}
	h.NameOffset = namePos - start
	if err := binio.WriteUTF16String(w, b.Name()); err != nil {
		return err
	}
	if err := w.Align(8); err != nil {
		return err
	}

	if writeData != nil {
		dataPos, err := w.Position()
		if err != nil {
			return err
		}
		h.SubtypeDataOffset = dataPos - start
		if err := writeData(); err != nil {
			return err
		}
		if err := w.Align(8); err != nil {
			return err
		}
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

// NewEntry reads one Event entry, dispatching on its subtype tag. It
// satisfies param.NewEntryFunc[Event].
func NewEntry(r *binio.Reader) (Event, error) {
	t, err := peekType(r)
	if err != nil {
		return nil, err
	}
	var e Event
	switch t {
	case TypeGeneric:
		e = NewGenericEvent()
	case TypeMapOffset:
		e = NewMapOffsetEvent()
	case TypeObjAction:
		e = NewObjActionEvent()
	default:
		pos, _ := r.Position()
		return nil, msberr.NewFormatError(pos, fmt.Sprintf("event: unknown subtype tag %d", t))
	}
	if err := e.Deserialize(r); err != nil {
		return nil, err
	}
	return e, nil
}

func peekType(r *binio.Reader) (Type, error) {
	start, err := r.Position()
	if err != nil {
		return 0, err
	}
	if err := r.Skip(8); err != nil { // NameOffset
		return 0, err
	}
	raw, err := r.ReadUint32()
	if err != nil {
		return 0, err
	}
	if err := r.Seek(start); err != nil {
		return 0, err
	}
	return Type(raw), nil
}

// GenericEvent is a scripted event with no subtype data of its own.
type GenericEvent struct{ base }

// NewGenericEvent constructs an unbound GenericEvent.
func NewGenericEvent() *GenericEvent {
	return &GenericEvent{base: newBase("")}
}

func (e *GenericEvent) Subtype() uint32 { return uint32(TypeGeneric) }

func (e *GenericEvent) Deserialize(r *binio.Reader) error {
	_, err := e.base.deserialize(r, TypeGeneric)
	return err
}

func (e *GenericEvent) Serialize(w *binio.Writer, supertypeIndex, subtypeIndex int32) error {
	return e.base.serializeWithData(w, TypeGeneric, subtypeIndex, nil)
}

func (e *GenericEvent) ResolveReferences(parts []part.Part, regions []region.Region) error {
	return e.base.resolveReferences(parts, regions)
}

func (e *GenericEvent) PopulateIndices(parts []part.Part, regions []region.Region) error {
	return e.base.populateIndices(e, parts, regions)
}

// MapOffsetEvent offsets an entire connected map by a translation and
// rotation, for seamless travel between adjoining maps.
type MapOffsetEvent struct {
	base
	Translate [3]float32
	RotationY float32
}

// NewMapOffsetEvent constructs an unbound MapOffsetEvent.
func NewMapOffsetEvent() *MapOffsetEvent {
	return &MapOffsetEvent{base: newBase("")}
}

func (e *MapOffsetEvent) Subtype() uint32 { return uint32(TypeMapOffset) }

func (e *MapOffsetEvent) Deserialize(r *binio.Reader) error {
	dec, err := e.base.deserialize(r, TypeMapOffset)
	if err != nil {
		return err
	}
	if dec.h.SubtypeDataOffset == 0 {
		return nil
	}
	if err := r.Seek(dec.start + dec.h.SubtypeDataOffset); err != nil {
		return err
	}
	for i := range e.Translate {
		if e.Translate[i], err = r.ReadFloat32(); err != nil {
			return err
		}
	}
	e.RotationY, err = r.ReadFloat32()
	return err
}

func (e *MapOffsetEvent) Serialize(w *binio.Writer, supertypeIndex, subtypeIndex int32) error {
	return e.base.serializeWithData(w, TypeMapOffset, subtypeIndex, func() error {
		for _, v := range e.Translate {
			if err := w.WriteFloat32(v); err != nil {
				return err
			}
		}
		return w.WriteFloat32(e.RotationY)
	})
}

func (e *MapOffsetEvent) ResolveReferences(parts []part.Part, regions []region.Region) error {
	return e.base.resolveReferences(parts, regions)
}

func (e *MapOffsetEvent) PopulateIndices(parts []part.Part, regions []region.Region) error {
	return e.base.populateIndices(e, parts, regions)
}

// ObjActionEvent drives a scripted interaction (a lever, a door, a
// breakable prop) anchored to a Part, identified by an action id.
type ObjActionEvent struct {
	base
	ActionID int32
}

// NewObjActionEvent constructs an unbound ObjActionEvent.
func NewObjActionEvent() *ObjActionEvent {
	return &ObjActionEvent{base: newBase("")}
}

func (e *ObjActionEvent) Subtype() uint32 { return uint32(TypeObjAction) }

func (e *ObjActionEvent) Deserialize(r *binio.Reader) error {
	dec, err := e.base.deserialize(r, TypeObjAction)
	if err != nil {
		return err
	}
	if dec.h.SubtypeDataOffset == 0 {
		return nil
	}
	if err := r.Seek(dec.start + dec.h.SubtypeDataOffset); err != nil {
		return err
	}
	e.ActionID, err = r.ReadInt32()
	return err
}

func (e *ObjActionEvent) Serialize(w *binio.Writer, supertypeIndex, subtypeIndex int32) error {
	return e.base.serializeWithData(w, TypeObjAction, subtypeIndex, func() error {
		return w.WriteInt32(e.ActionID)
	})
}

func (e *ObjActionEvent) ResolveReferences(parts []part.Part, regions []region.Region) error {
	return e.base.resolveReferences(parts, regions)
}

func (e *ObjActionEvent) PopulateIndices(parts []part.Part, regions []region.Region) error {
	return e.base.populateIndices(e, parts, regions)
}
