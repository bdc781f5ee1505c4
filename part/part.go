// Package part implements the MSB Part supertype: a placed instance of a
// Model at a transform, plus collision- and character-specific variants.
// Grounded on the same header/base/subtype shape as package model. Cross-
// entry references travel as a raw on-disk index between Deserialize and a
// later ResolveReferences call (read side), or between an earlier
// PopulateIndices call and Serialize (write side) — the same two-pass
// scheme region entries use for their own references, so a reference can
// point at an entry that has not been read, or not yet been written, yet.
package part

import (
	"fmt"

	"github.com/mapstudio/msb/internal/binio"
	"github.com/mapstudio/msb/internal/entry"
	"github.com/mapstudio/msb/internal/msberr"
	"github.com/mapstudio/msb/internal/reserve"
	"github.com/mapstudio/msb/model"
)

// Type tags a Part subtype.
type Type uint32

// The Part subtypes this engine implements. The original format defines
// several more game-specific variants; full field catalogs for those are
// out of scope here.
const (
	TypeMapPiece Type = iota
	TypeCollision
	TypeConnectCollision
	TypeCharacter
)

// Part is the interface every concrete Part subtype implements.
type Part interface {
	entry.Entry
	Model() (model.Model, bool)
	SetModel(m model.Model)
	Translate() [3]float32
	SetTranslate(v [3]float32)
	Rotate() [3]float32
	SetRotate(v [3]float32)
	Scale() [3]float32
	SetScale(v [3]float32)

	// ResolveReferences and PopulateIndices are called by the owning MSB
	// container, once every supertype's entries are known, to translate
	// this entry's cross-entry pointers to and from raw on-disk indices.
	ResolveReferences(models []model.Model, parts []Part) error
	PopulateIndices(models []model.Model, parts []Part) error
}

type header struct {
	NameOffset        int64
	PartType          Type
	SubtypeIndex      int32
	ModelIndex        int32
	Unk14             int32
	TranslateX        float32
	TranslateY        float32
	TranslateZ        float32
	RotateX           float32
	RotateY           float32
	RotateZ           float32
	ScaleX            float32
	ScaleY            float32
	ScaleZ            float32
	EntityID          int32
	SubtypeDataOffset int64
}

func (h *header) Validate() error {
	if h.NameOffset == 0 {
		return binio.NewValidationError("Part.NameOffset", "!= 0", "0")
	}
	return nil
}

var headerSize = binio.Size(header{})

// base implements the fields and (de)serialize algorithm shared by every
// Part subtype.
type base struct {
	entry.Base
	model      entry.Ref[model.Model]
	modelIndex int32 // raw index, valid between Deserialize/ResolveReferences or PopulateIndices/Serialize
	translate  [3]float32
	rotate     [3]float32
	scale      [3]float32
}

func newBase(name string) base {
	b := base{Base: entry.NewBase(name)}
	b.scale = [3]float32{1, 1, 1}
	return b
}

func (b *base) Model() (model.Model, bool) { return b.model.Get() }
func (b *base) SetModel(m model.Model)     { b.model.Set(m) }
func (b *base) Translate() [3]float32      { return b.translate }
func (b *base) SetTranslate(v [3]float32)  { b.translate = v }
func (b *base) Rotate() [3]float32         { return b.rotate }
func (b *base) SetRotate(v [3]float32)     { b.rotate = v }
func (b *base) Scale() [3]float32          { return b.scale }
func (b *base) SetScale(v [3]float32)      { b.scale = v }

// resolveModel resolves the model reference from the index captured by the
// most recent Deserialize.
func (b *base) resolveModel(models []model.Model) error {
	return b.model.ResolveFromIndex(models, b.modelIndex)
}

// populateModelIndex recomputes the raw index for the next Serialize from
// the live model reference.
func (b *base) populateModelIndex(source Part, models []model.Model) error {
	idx, err := b.model.ToIndex(source, "Model", models)
	if err != nil {
		return err
	}
	b.modelIndex = idx
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
	if h.PartType != wantType {
		return decodedHeader{}, msberr.NewFormatError(start, fmt.Sprintf("Part subtype mismatch: header says %d, expected %d", h.PartType, wantType))
	}
	b.SetEntityID(h.EntityID)
	b.translate = [3]float32{h.TranslateX, h.TranslateY, h.TranslateZ}
	b.rotate = [3]float32{h.RotateX, h.RotateY, h.RotateZ}
	b.scale = [3]float32{h.ScaleX, h.ScaleY, h.ScaleZ}
	b.modelIndex = h.ModelIndex

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

// serializeHeader writes the common header, reserving its bytes until
// subtypeDataOffset (0 if the subtype has no subtype data) and every
// pre-populated index field are known.
func (b *base) serializeHeader(w *binio.Writer, partType Type, subtypeIndex int32, subtypeDataOffset int64) error {
	start, err := w.Position()
	if err != nil {
		return err
	}
	rs := reserve.New(w)
	if err := rs.Reserve("header", headerSize); err != nil {
		return err
	}

	h := header{
		PartType:          partType,
		SubtypeIndex:      subtypeIndex,
		ModelIndex:        b.modelIndex,
		TranslateX:        b.translate[0],
		TranslateY:        b.translate[1],
		TranslateZ:        b.translate[2],
		RotateX:           b.rotate[0],
		RotateY:           b.rotate[1],
		RotateZ:           b.rotate[2],
		ScaleX:            b.scale[0],
		ScaleY:            b.scale[1],
		ScaleZ:            b.scale[2],
		EntityID:          b.EntityID(),
		SubtypeDataOffset: subtypeDataOffset,
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

	encoded, err := binio.EncodeValidated(w.ByteOrder(), h)
	if err != nil {
		return err
	}
	if err := rs.Fill("header", encoded); err != nil {
		return err
	}
	return rs.Finish()
}

// NewEntry reads one Part entry, dispatching on its subtype tag. It
// satisfies param.NewEntryFunc[Part].
func NewEntry(r *binio.Reader) (Part, error) {
	t, err := peekType(r)
	if err != nil {
		return nil, err
	}
	var p Part
	switch t {
	case TypeMapPiece:
		p = NewMapPiece()
	case TypeCollision:
		p = NewCollision()
	case TypeConnectCollision:
		p = NewConnectCollision()
	case TypeCharacter:
		p = NewCharacter()
	default:
		pos, _ := r.Position()
		return nil, msberr.NewFormatError(pos, fmt.Sprintf("part: unknown subtype tag %d", t))
	}
	if err := p.Deserialize(r); err != nil {
		return nil, err
	}
	return p, nil
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

// MapPiece is a placed instance of a MapPieceModel, with no subtype data
// of its own.
type MapPiece struct{ base }

// NewMapPiece constructs an unplaced MapPiece part.
func NewMapPiece() *MapPiece {
	return &MapPiece{base: newBase("")}
}

func (p *MapPiece) Subtype() uint32 { return uint32(TypeMapPiece) }

func (p *MapPiece) Deserialize(r *binio.Reader) error {
	_, err := p.base.deserialize(r, TypeMapPiece)
	return err
}

func (p *MapPiece) Serialize(w *binio.Writer, supertypeIndex, subtypeIndex int32) error {
	return p.base.serializeHeader(w, TypeMapPiece, subtypeIndex, 0)
}

func (p *MapPiece) ResolveReferences(models []model.Model, parts []Part) error {
	return p.base.resolveModel(models)
}

func (p *MapPiece) PopulateIndices(models []model.Model, parts []Part) error {
	return p.base.populateModelIndex(p, models)
}

// Collision is a collision mesh instance with a hit-filter scalar.
type Collision struct {
	base
	HitFilterID int32
}

// NewCollision constructs an unplaced Collision part.
func NewCollision() *Collision {
	return &Collision{base: newBase("")}
}

func (p *Collision) Subtype() uint32 { return uint32(TypeCollision) }

func (p *Collision) Deserialize(r *binio.Reader) error {
	dec, err := p.base.deserialize(r, TypeCollision)
	if err != nil {
		return err
	}
	if dec.h.SubtypeDataOffset == 0 {
		return nil
	}
	if err := r.Seek(dec.start + dec.h.SubtypeDataOffset); err != nil {
		return err
	}
	p.HitFilterID, err = r.ReadInt32()
	return err
}

func (p *Collision) Serialize(w *binio.Writer, supertypeIndex, subtypeIndex int32) error {
	return p.serializeWithData(w, TypeCollision, subtypeIndex, func() error {
		return w.WriteInt32(p.HitFilterID)
	})
}

// serializeWithData writes the common header around a subtype-specific
// data block written by writeData, at the offset the header expects.
func (b *base) serializeWithData(w *binio.Writer, partType Type, subtypeIndex int32, writeData func() error) error {
	start, err := w.Position()
	if err != nil {
		return err
	}
	rs := reserve.New(w)
	if err := rs.Reserve("header", headerSize); err != nil {
		return err
	}

	h := header{
		PartType:     partType,
		SubtypeIndex: subtypeIndex,
		ModelIndex:   b.modelIndex,
		TranslateX:   b.translate[0], TranslateY: b.translate[1], TranslateZ: b.translate[2],
		RotateX: b.rotate[0], RotateY: b.rotate[1], RotateZ: b.rotate[2],
		ScaleX: b.scale[0], ScaleY: b.scale[1], ScaleZ: b.scale[2],
		EntityID: b.EntityID(),
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

	encoded, err := binio.EncodeValidated(w.ByteOrder(), h)
	if err != nil {
		return err
	}
	if err := rs.Fill("header", encoded); err != nil {
		return err
	}
	return rs.Finish()
}

func (p *Collision) ResolveReferences(models []model.Model, parts []Part) error {
	return p.base.resolveModel(models)
}

func (p *Collision) PopulateIndices(models []model.Model, parts []Part) error {
	return p.base.populateModelIndex(p, models)
}

// ConnectCollision links one collision mesh to another, as a transition
// trigger between map areas; it demonstrates a Part-to-Part reference.
type ConnectCollision struct {
	Collision
	target      entry.Ref[Part]
	targetIndex int32
}

// NewConnectCollision constructs an unplaced ConnectCollision part.
func NewConnectCollision() *ConnectCollision {
	return &ConnectCollision{Collision: *NewCollision()}
}

func (p *ConnectCollision) Subtype() uint32 { return uint32(TypeConnectCollision) }

// Target returns the linked Collision part, if set.
func (p *ConnectCollision) Target() (Part, bool) { return p.target.Get() }

// SetTarget links this ConnectCollision to another Collision part.
func (p *ConnectCollision) SetTarget(target Part) { p.target.Set(target) }

func (p *ConnectCollision) Deserialize(r *binio.Reader) error {
	dec, err := p.base.deserialize(r, TypeConnectCollision)
	if err != nil {
		return err
	}
	if dec.h.SubtypeDataOffset == 0 {
		return msberr.NewFormatError(dec.start, "ConnectCollision.subtypeDataOffset must not be 0")
	}
	if err := r.Seek(dec.start + dec.h.SubtypeDataOffset); err != nil {
		return err
	}
	if p.HitFilterID, err = r.ReadInt32(); err != nil {
		return err
	}
	p.targetIndex, err = r.ReadInt32()
	return err
}

func (p *ConnectCollision) Serialize(w *binio.Writer, supertypeIndex, subtypeIndex int32) error {
	return p.base.serializeWithData(w, TypeConnectCollision, subtypeIndex, func() error {
		if err := w.WriteInt32(p.HitFilterID); err != nil {
			return err
		}
		return w.WriteInt32(p.targetIndex)
	})
}

func (p *ConnectCollision) ResolveReferences(models []model.Model, parts []Part) error {
	if err := p.base.resolveModel(models); err != nil {
		return err
	}
	return p.target.ResolveFromIndex(parts, p.targetIndex)
}

func (p *ConnectCollision) PopulateIndices(models []model.Model, parts []Part) error {
	if err := p.base.populateModelIndex(p, models); err != nil {
		return err
	}
	idx, err := p.target.ToIndex(p, "Target", parts)
	if err != nil {
		return err
	}
	p.targetIndex = idx
	return nil
}

// Character is a placed NPC instance with a talk-script override scalar.
type Character struct {
	base
	TalkID int32
}

// NewCharacter constructs an unplaced Character part.
func NewCharacter() *Character {
	return &Character{base: newBase("")}
}

func (p *Character) Subtype() uint32 { return uint32(TypeCharacter) }

func (p *Character) Deserialize(r *binio.Reader) error {
	dec, err := p.base.deserialize(r, TypeCharacter)
	if err != nil {
		return err
	}
	if dec.h.SubtypeDataOffset == 0 {
		return nil
	}
	if err := r.Seek(dec.start + dec.h.SubtypeDataOffset); err != nil {
		return err
	}
	p.TalkID, err = r.ReadInt32()
	return err
}

func (p *Character) Serialize(w *binio.Writer, supertypeIndex, subtypeIndex int32) error {
	return p.base.serializeWithData(w, TypeCharacter, subtypeIndex, func() error {
		return w.WriteInt32(p.TalkID)
	})
}

func (p *Character) ResolveReferences(models []model.Model, parts []Part) error {
	return p.base.resolveModel(models)
}

func (p *Character) PopulateIndices(models []model.Model, parts []Part) error {
	return p.base.populateModelIndex(p, models)
}
