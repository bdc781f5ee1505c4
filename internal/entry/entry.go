// Package entry defines the common entry identity shared by every MSB
// supertype (Model, Event, Part, Region, Route), the Entry interface each
// concrete subtype implements, and the bidirectional pointer/index
// reference types entries use to point at each other.
//
// Grounded on the teacher library's ObjectHeader (an entry's header is an
// object header analog) and HeaderMessage (a subtype's tag is a message
// type tag): one small struct carries identity, one interface carries
// dispatch.
package entry

import "github.com/mapstudio/msb/internal/binio"

// Supertype is one of the five MSB entry families.
type Supertype int

// The five MSB supertypes, in the dialect's on-disk order.
const (
	SupertypeModel Supertype = iota
	SupertypeEvent
	SupertypePart
	SupertypeRegion
	SupertypeRoute
)

// String names a supertype for diagnostics.
func (s Supertype) String() string {
	switch s {
	case SupertypeModel:
		return "Model"
	case SupertypeEvent:
		return "Event"
	case SupertypePart:
		return "Part"
	case SupertypeRegion:
		return "Region"
	case SupertypeRoute:
		return "Route"
	default:
		return "Unknown"
	}
}

// Entry is the interface every concrete subtype (MapPieceModel,
// SoundRegion, ...) implements. Param[T] operates on this interface to stay
// generic across subtypes within one supertype.
type Entry interface {
	// Name is the entry's UTF-16 display name; not required to be unique.
	Name() string
	SetName(name string)

	// Description is optional UTF-16 text; empty string means absent.
	Description() string
	SetDescription(description string)

	// EntityID is the 32-bit id used by scripted events to address this
	// entry; 0 (or -1 depending on subtype convention) means unused.
	EntityID() int32
	SetEntityID(id int32)

	// Subtype returns the entry's compile-time subtype tag.
	Subtype() uint32

	// SubtypeIndex is this entry's ordinal among same-subtype siblings in
	// its supertype's canonical write order. Param assigns it at write
	// time; it is meaningful to read only after a Serialize/Deserialize
	// round trip.
	SubtypeIndex() int32
	SetSubtypeIndex(index int32)

	// Deserialize reads this entry's body, starting at the reader's
	// current position, leaving the reader positioned immediately past
	// the last byte this entry owns.
	Deserialize(r *binio.Reader) error

	// Serialize writes this entry's body at the writer's current
	// position. supertypeIndex and subtypeIndex are assigned by the
	// owning Param in canonical order; subtypeIndex is written into the
	// entry's header as-is, and header layouts with no supertype index
	// field ignore supertypeIndex.
	Serialize(w *binio.Writer, supertypeIndex, subtypeIndex int32) error
}

// Base implements the identity fields common to every Entry. Concrete
// subtypes embed Base and add Subtype/Deserialize/Serialize themselves.
type Base struct {
	name         string
	description  string
	entityID     int32
	subtypeIndex int32
}

// NewBase constructs a Base with the given name, as every subtype's
// zero-value constructor does (mirroring the original format's per-subtype
// default names, e.g. "m999999" for an unplaced MapPiece model).
func NewBase(name string) Base {
	return Base{name: name}
}

func (b *Base) Name() string               { return b.name }
func (b *Base) SetName(name string)        { b.name = name }
func (b *Base) Description() string        { return b.description }
func (b *Base) SetDescription(d string)    { b.description = d }
func (b *Base) EntityID() int32            { return b.entityID }
func (b *Base) SetEntityID(id int32)       { b.entityID = id }
func (b *Base) SubtypeIndex() int32        { return b.subtypeIndex }
func (b *Base) SetSubtypeIndex(i int32)    { b.subtypeIndex = i }
