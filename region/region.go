// Package region implements the MSB Region supertype: a named volume of
// space (point, circle, sphere, cylinder, rectangle, box, or a composite of
// up to 8 child regions) used to trigger scripted events, spawn points,
// ambient sound, and similar area-based behavior.
//
// A Region's Shape is a tagged variant value embedded directly in Region,
// per shape.go's doc comment. Composite's children are stored on Region
// itself rather than inside Shape, so the cross-entry reference resolver
// in ResolveReferences/PopulateIndices never has to descend into
// shape-specific state — it walks a Region's own fields and, for
// Composite, its CompositeChildren array, uniformly for every shape.
package region

import (
	"fmt"

	"github.com/mapstudio/msb/internal/binio"
	"github.com/mapstudio/msb/internal/entry"
	"github.com/mapstudio/msb/internal/msberr"
	"github.com/mapstudio/msb/internal/reserve"
	"github.com/mapstudio/msb/part"
)

// Type tags a Region subtype.
type Type uint32

// The Region subtypes this engine implements.
const (
	TypeSpawnPoint Type = iota
	TypeSound
	TypeWindVFX
	TypeGroupDefeatReward
	TypeMessage
	TypeInvasionPoint
	TypeOther Type = 0xFFFFFFFF
)

// CompositeChildren holds a Composite shape's up to 8 child Region
// references plus each slot's accompanying operator word, stored on Region
// rather than inside Shape (see the package doc comment).
type CompositeChildren struct {
	Children [8]entry.Ref[Region]
	Operator [8]int32

	indices [8]int32 // raw indices, valid between Deserialize/ResolveReferences or PopulateIndices/Serialize
}

// Region is the interface every concrete Region subtype implements.
type Region interface {
	entry.Entry
	Shape() Shape
	SetShape(s Shape)
	Translate() [3]float32
	SetTranslate(v [3]float32)
	Rotate() [3]float32
	SetRotate(v [3]float32)
	EventLayer() int32
	SetEventLayer(layer int32)
	AttachedPart() (part.Part, bool)
	SetAttachedPart(p part.Part)
	// CompositeChildren returns this region's composite-child slots, or nil
	// if its shape is not Composite.
	CompositeChildren() *CompositeChildren

	ResolveReferences(regions []Region, parts []part.Part) error
	PopulateIndices(regions []Region, parts []part.Part) error
}

type header struct {
	NameOffset          int64
	ShapeType           ShapeType
	RegionType          Type
	SubtypeIndex        int32
	ShapeDataOffset     int64
	CompositeDataOffset int64
	EntityDataOffset    int64
	SubtypeDataOffset   int64
	TranslateX          float32
	TranslateY          float32
	TranslateZ          float32
	RotateX             float32
	RotateY             float32
	RotateZ             float32
	EventLayer          int32
	// AttachedPart is a compound reference (supertype index + subtype
	// index), per the Open Question resolution in this engine's design
	// notes: unlike Region-to-Region and Region-to-Part-list references
	// (composite children, sound children, wind anchor, watch list), which
	// the format encodes as a single supertype-wide index, the attached
	// Part reference is written as a (Part supertype index, Part subtype
	// index) pair, so it round-trips through RefPair instead of Ref.
	AttachedPartIndex        int32
	AttachedPartSubtypeIndex int32
}

func (h *header) Validate() error {
	if h.NameOffset == 0 {
		return binio.NewValidationError("Region.NameOffset", "!= 0", "0")
	}
	if h.ShapeType == ShapeComposite && h.CompositeDataOffset == 0 {
		return binio.NewValidationError("Region.CompositeDataOffset", "!= 0", "0")
	}
	if h.ShapeType != ShapeComposite && h.CompositeDataOffset != 0 {
		return binio.NewValidationError("Region.CompositeDataOffset", "0", fmt.Sprintf("%d", h.CompositeDataOffset))
	}
	return nil
}

var headerSize = binio.Size(header{})

// base implements the fields and (de)serialize algorithm shared by every
// Region subtype.
type base struct {
	entry.Base
	shape        Shape
	composite    *CompositeChildren
	translate    [3]float32
	rotate       [3]float32
	eventLayer   int32
	attachedPart entry.RefPair[part.Part]

	attachedPartIndex        int32
	attachedPartSubtypeIndex int32
}

func newBase(name string) base {
	b := base{Base: entry.NewBase(name)}
	b.shape = Point{}
	return b
}

func (b *base) Shape() Shape { return b.shape }

func (b *base) SetShape(s Shape) {
	b.shape = s
	if s.Type() == ShapeComposite {
		if b.composite == nil {
			b.composite = &CompositeChildren{}
		}
	} else {
		b.composite = nil
	}
}

func (b *base) Translate() [3]float32     { return b.translate }
func (b *base) SetTranslate(v [3]float32) { b.translate = v }
func (b *base) Rotate() [3]float32        { return b.rotate }
func (b *base) SetRotate(v [3]float32)    { b.rotate = v }
func (b *base) EventLayer() int32         { return b.eventLayer }
func (b *base) SetEventLayer(l int32)     { b.eventLayer = l }

func (b *base) AttachedPart() (part.Part, bool) { return b.attachedPart.Get() }
func (b *base) SetAttachedPart(p part.Part)     { b.attachedPart.Set(p) }

func (b *base) CompositeChildren() *CompositeChildren { return b.composite }

func (b *base) resolveReferences(regions []Region, parts []part.Part) error {
	if err := b.attachedPart.ResolveFromIndices(parts, b.attachedPartIndex, b.attachedPartSubtypeIndex); err != nil {
		return err
	}
	if b.composite == nil {
		return nil
	}
	for i := range b.composite.Children {
		if err := b.composite.Children[i].ResolveFromIndex(regions, b.composite.indices[i]); err != nil {
			return err
		}
	}
	return nil
}

func (b *base) populateIndices(source Region, regions []Region, parts []part.Part) error {
	superIdx, subIdx, err := b.attachedPart.ToIndices(source, "AttachedPart", parts)
	if err != nil {
		return err
	}
	b.attachedPartIndex = superIdx
	b.attachedPartSubtypeIndex = subIdx

	if b.composite == nil {
		return nil
	}
	for i := range b.composite.Children {
		idx, err := b.composite.Children[i].ToIndex(source, fmt.Sprintf("CompositeChildren[%d]", i), regions)
		if err != nil {
			return err
		}
		b.composite.indices[i] = idx
	}
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
	if h.RegionType != wantType {
		return decodedHeader{}, msberr.NewFormatError(start, fmt.Sprintf("Region subtype mismatch: header says %d, expected %d", h.RegionType, wantType))
	}
	if err := b.deserializeCommon(r, start, h); err != nil {
		return decodedHeader{}, err
	}
	return decodedHeader{h: h, start: start}, nil
}

// deserializeCommon reads every field that follows the fixed header and does
// not depend on which subtype tag the header carries: name, shape data, the
// composite-children block (if the shape is Composite), and entity data.
// Both the tag-dispatched subtypes (via deserialize) and OtherRegion, the
// unrecognized-tag fallback, read this same block so an unrecognized tag
// never skips data a recognized one would have read.
func (b *base) deserializeCommon(r *binio.Reader, start int64, h header) error {
	b.translate = [3]float32{h.TranslateX, h.TranslateY, h.TranslateZ}
	b.rotate = [3]float32{h.RotateX, h.RotateY, h.RotateZ}
	b.eventLayer = h.EventLayer
	b.attachedPartIndex = h.AttachedPartIndex
	b.attachedPartSubtypeIndex = h.AttachedPartSubtypeIndex

	if err := r.Seek(start + h.NameOffset); err != nil {
		return err
	}
	name, err := binio.ReadUTF16String(r)
	if err != nil {
		return err
	}
	b.SetName(name)

	shape, err := newShape(h.ShapeType)
	if err != nil {
		return err
	}
	if shape.dataSize() > 0 {
		if err := r.Seek(start + h.ShapeDataOffset); err != nil {
			return err
		}
		if err := shape.deserializeData(r); err != nil {
			return err
		}
	}
	b.shape = shape

	if h.ShapeType == ShapeComposite {
		if err := r.Seek(start + h.CompositeDataOffset); err != nil {
			return err
		}
		cc := &CompositeChildren{}
		for i := range cc.indices {
			idx, err := r.ReadInt32()
			if err != nil {
				return err
			}
			cc.indices[i] = idx
		}
		for i := range cc.Operator {
			op, err := r.ReadInt32()
			if err != nil {
				return err
			}
			cc.Operator[i] = op
		}
		b.composite = cc
	}

	if h.EntityDataOffset != 0 {
		if err := r.Seek(start + h.EntityDataOffset); err != nil {
			return err
		}
		entityID, err := r.ReadInt32()
		if err != nil {
			return err
		}
		b.SetEntityID(entityID)
	}

	return nil
}

// serializeWithData writes the common header, the shape's data block, the
// composite-children block (if any), the entity-data block, and a
// subtype-specific data block written by writeSubtypeData (nil for
// subtypes with no data of their own).
func (b *base) serializeWithData(w *binio.Writer, regionType Type, subtypeIndex int32, writeSubtypeData func() error) error {
	start, err := w.Position()
	if err != nil {
		return err
	}
	rs := reserve.New(w)
	if err := rs.Reserve("header", headerSize); err != nil {
		return err
	}

	h := header{
		ShapeType:                b.shape.Type(),
		RegionType:                regionType,
		SubtypeIndex:              subtypeIndex,
		TranslateX:                b.translate[0],
		TranslateY:                b.translate[1],
		TranslateZ:                b.translate[2],
		RotateX:                   b.rotate[0],
		RotateY:                   b.rotate[1],
		RotateZ:                   b.rotate[2],
		EventLayer:                b.eventLayer,
		AttachedPartIndex:         b.attachedPartIndex,
		AttachedPartSubtypeIndex:  b.attachedPartSubtypeIndex,
	}

	namePos, err := w.Position()
	if err != nil {
		return err
	}
	h.NameOffset = namePos - start
	if err := binio.WriteUTF16String(w, b.Name()); err != nil {
		return err
	}
	if err := w.Align(4); err != nil {
		return err
	}

	if b.shape.dataSize() > 0 {
		shapePos, err := w.Position()
		if err != nil {
			return err
		}
		h.ShapeDataOffset = shapePos - start
		if err := b.shape.serializeData(w); err != nil {
			return err
		}
		if err := w.Align(4); err != nil {
			return err
		}
	}

	if b.composite != nil {
		compositePos, err := w.Position()
		if err != nil {
			return err
		}
		h.CompositeDataOffset = compositePos - start
		for _, idx := range b.composite.indices {
			if err := w.WriteInt32(idx); err != nil {
				return err
			}
		}
		for _, op := range b.composite.Operator {
			if err := w.WriteInt32(op); err != nil {
				return err
			}
		}
		if err := w.Align(4); err != nil {
			return err
		}
	}

	entityPos, err := w.Position()
	if err != nil {
		return err
	}
	h.EntityDataOffset = entityPos - start
	if err := w.WriteInt32(b.EntityID()); err != nil {
		return err
	}
	if err := w.Align(4); err != nil {
		return err
	}

	if writeSubtypeData != nil {
		dataPos, err := w.Position()
		if err != nil {
			return err
		}
		h.SubtypeDataOffset = dataPos - start
		if err := writeSubtypeData(); err != nil {
			return err
		}
		if err := w.Align(8); err != nil {
			return err
		}
	} else {
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

// NewEntry reads one Region entry, dispatching on its subtype tag. It
// satisfies param.NewEntryFunc[Region].
func NewEntry(r *binio.Reader) (Region, error) {
	t, err := peekType(r)
	if err != nil {
		return nil, err
	}
	var reg Region
	switch t {
	case TypeSpawnPoint:
		reg = NewSpawnPointRegion()
	case TypeSound:
		reg = NewSoundRegion()
	case TypeWindVFX:
		reg = NewWindVFXRegion()
	case TypeGroupDefeatReward:
		reg = NewGroupDefeatRewardRegion()
	case TypeMessage:
		reg = NewMessageRegion()
	case TypeInvasionPoint:
		reg = NewInvasionPointRegion()
	default:
		reg = NewOtherRegion()
	}
	if err := reg.Deserialize(r); err != nil {
		return nil, err
	}
	return reg, nil
}

func peekType(r *binio.Reader) (Type, error) {
	start, err := r.Position()
	if err != nil {
		return 0, err
	}
	if err := r.Skip(8); err != nil { // NameOffset
		return 0, err
	}
	if err := r.Skip(4); err != nil { // ShapeType
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

// SpawnPointRegion marks a player or NPC spawn location, with no subtype
// data of its own.
type SpawnPointRegion struct{ base }

// NewSpawnPointRegion constructs an unplaced SpawnPointRegion.
func NewSpawnPointRegion() *SpawnPointRegion {
	b := newBase("")
	return &SpawnPointRegion{base: b}
}

func (r *SpawnPointRegion) Subtype() uint32 { return uint32(TypeSpawnPoint) }

func (r *SpawnPointRegion) Deserialize(rd *binio.Reader) error {
	_, err := r.base.deserialize(rd, TypeSpawnPoint)
	return err
}

func (r *SpawnPointRegion) Serialize(w *binio.Writer, supertypeIndex, subtypeIndex int32) error {
	return r.base.serializeWithData(w, TypeSpawnPoint, subtypeIndex, nil)
}

func (r *SpawnPointRegion) ResolveReferences(regions []Region, parts []part.Part) error {
	return r.base.resolveReferences(regions, parts)
}

func (r *SpawnPointRegion) PopulateIndices(regions []Region, parts []part.Part) error {
	return r.base.populateIndices(r, regions, parts)
}

// InvasionPointRegion marks an invading-phantom spawn location, ordered by
// a priority scalar.
type InvasionPointRegion struct {
	base
	Priority int32
}

// NewInvasionPointRegion constructs an unplaced InvasionPointRegion.
func NewInvasionPointRegion() *InvasionPointRegion {
	return &InvasionPointRegion{base: newBase("")}
}

func (r *InvasionPointRegion) Subtype() uint32 { return uint32(TypeInvasionPoint) }

func (r *InvasionPointRegion) Deserialize(rd *binio.Reader) error {
	dec, err := r.base.deserialize(rd, TypeInvasionPoint)
	if err != nil {
		return err
	}
	if dec.h.SubtypeDataOffset == 0 {
		return nil
	}
	if err := rd.Seek(dec.start + dec.h.SubtypeDataOffset); err != nil {
		return err
	}
	r.Priority, err = rd.ReadInt32()
	return err
}

func (r *InvasionPointRegion) Serialize(w *binio.Writer, supertypeIndex, subtypeIndex int32) error {
	return r.base.serializeWithData(w, TypeInvasionPoint, subtypeIndex, func() error {
		return w.WriteInt32(r.Priority)
	})
}

func (r *InvasionPointRegion) ResolveReferences(regions []Region, parts []part.Part) error {
	return r.base.resolveReferences(regions, parts)
}

func (r *InvasionPointRegion) PopulateIndices(regions []Region, parts []part.Part) error {
	return r.base.populateIndices(r, regions, parts)
}

// MessageRegion displays a scripted hint message while occupied. present
// stores the original format's "is this message currently shown" flag,
// which the original source packs as a full int32 rather than a single
// byte; this engine keeps that width on the wire but exposes it as a bool.
type MessageRegion struct {
	base
	MessageID int32
	present   int32
}

// NewMessageRegion constructs an unplaced MessageRegion.
func NewMessageRegion() *MessageRegion {
	return &MessageRegion{base: newBase("")}
}

func (r *MessageRegion) Subtype() uint32 { return uint32(TypeMessage) }

// Present reports whether the message currently displays.
func (r *MessageRegion) Present() bool { return r.present != 0 }

// SetPresent sets whether the message currently displays.
func (r *MessageRegion) SetPresent(present bool) {
	if present {
		r.present = 1
	} else {
		r.present = 0
	}
}

func (r *MessageRegion) Deserialize(rd *binio.Reader) error {
	dec, err := r.base.deserialize(rd, TypeMessage)
	if err != nil {
		return err
	}
	if dec.h.SubtypeDataOffset == 0 {
		return nil
	}
	if err := rd.Seek(dec.start + dec.h.SubtypeDataOffset); err != nil {
		return err
	}
	if r.MessageID, err = rd.ReadInt32(); err != nil {
		return err
	}
	r.present, err = rd.ReadInt32()
	return err
}

func (r *MessageRegion) Serialize(w *binio.Writer, supertypeIndex, subtypeIndex int32) error {
	return r.base.serializeWithData(w, TypeMessage, subtypeIndex, func() error {
		if err := w.WriteInt32(r.MessageID); err != nil {
			return err
		}
		return w.WriteInt32(r.present)
	})
}

func (r *MessageRegion) ResolveReferences(regions []Region, parts []part.Part) error {
	return r.base.resolveReferences(regions, parts)
}

func (r *MessageRegion) PopulateIndices(regions []Region, parts []part.Part) error {
	return r.base.populateIndices(r, regions, parts)
}

// SoundRegion plays ambient sound while occupied, and can chain to up to 16
// child sound regions so one trigger volume can drive several emitters.
type SoundRegion struct {
	base
	SoundType int32
	SoundID   int32

	children        [16]entry.Ref[Region]
	childIndices    [16]int32
}

// NewSoundRegion constructs an unplaced SoundRegion.
func NewSoundRegion() *SoundRegion {
	return &SoundRegion{base: newBase("")}
}

func (r *SoundRegion) Subtype() uint32 { return uint32(TypeSound) }

// Child returns the i'th chained sound region, if set.
func (r *SoundRegion) Child(i int) (Region, bool) { return r.children[i].Get() }

// SetChild sets the i'th chained sound region.
func (r *SoundRegion) SetChild(i int, target Region) { r.children[i].Set(target) }

func (r *SoundRegion) Deserialize(rd *binio.Reader) error {
	dec, err := r.base.deserialize(rd, TypeSound)
	if err != nil {
		return err
	}
	if dec.h.SubtypeDataOffset == 0 {
		return nil
	}
	if err := rd.Seek(dec.start + dec.h.SubtypeDataOffset); err != nil {
		return err
	}
	if r.SoundType, err = rd.ReadInt32(); err != nil {
		return err
	}
	if r.SoundID, err = rd.ReadInt32(); err != nil {
		return err
	}
	for i := range r.childIndices {
		if r.childIndices[i], err = rd.ReadInt32(); err != nil {
			return err
		}
	}
	return nil
}

func (r *SoundRegion) Serialize(w *binio.Writer, supertypeIndex, subtypeIndex int32) error {
	return r.base.serializeWithData(w, TypeSound, subtypeIndex, func() error {
		if err := w.WriteInt32(r.SoundType); err != nil {
			return err
		}
		if err := w.WriteInt32(r.SoundID); err != nil {
			return err
		}
		for _, idx := range r.childIndices {
			if err := w.WriteInt32(idx); err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *SoundRegion) ResolveReferences(regions []Region, parts []part.Part) error {
	if err := r.base.resolveReferences(regions, parts); err != nil {
		return err
	}
	for i := range r.children {
		if err := r.children[i].ResolveFromIndex(regions, r.childIndices[i]); err != nil {
			return err
		}
	}
	return nil
}

func (r *SoundRegion) PopulateIndices(regions []Region, parts []part.Part) error {
	if err := r.base.populateIndices(r, regions, parts); err != nil {
		return err
	}
	for i := range r.children {
		idx, err := r.children[i].ToIndex(r, fmt.Sprintf("Child[%d]", i), regions)
		if err != nil {
			return err
		}
		r.childIndices[i] = idx
	}
	return nil
}

// WindVFXRegion plays a wind particle effect while occupied, optionally
// keyed to a single other region.
type WindVFXRegion struct {
	base
	EffectID int32
	Strength float32

	anchor      entry.Ref[Region]
	anchorIndex int32
}

// NewWindVFXRegion constructs an unplaced WindVFXRegion.
func NewWindVFXRegion() *WindVFXRegion {
	return &WindVFXRegion{base: newBase("")}
}

func (r *WindVFXRegion) Subtype() uint32 { return uint32(TypeWindVFX) }

// Anchor returns the region this effect is keyed to, if set.
func (r *WindVFXRegion) Anchor() (Region, bool) { return r.anchor.Get() }

// SetAnchor keys this effect to another region.
func (r *WindVFXRegion) SetAnchor(target Region) { r.anchor.Set(target) }

func (r *WindVFXRegion) Deserialize(rd *binio.Reader) error {
	dec, err := r.base.deserialize(rd, TypeWindVFX)
	if err != nil {
		return err
	}
	if dec.h.SubtypeDataOffset == 0 {
		return nil
	}
	if err := rd.Seek(dec.start + dec.h.SubtypeDataOffset); err != nil {
		return err
	}
	if r.EffectID, err = rd.ReadInt32(); err != nil {
		return err
	}
	if r.Strength, err = rd.ReadFloat32(); err != nil {
		return err
	}
	r.anchorIndex, err = rd.ReadInt32()
	return err
}

func (r *WindVFXRegion) Serialize(w *binio.Writer, supertypeIndex, subtypeIndex int32) error {
	return r.base.serializeWithData(w, TypeWindVFX, subtypeIndex, func() error {
		if err := w.WriteInt32(r.EffectID); err != nil {
			return err
		}
		if err := w.WriteFloat32(r.Strength); err != nil {
			return err
		}
		return w.WriteInt32(r.anchorIndex)
	})
}

func (r *WindVFXRegion) ResolveReferences(regions []Region, parts []part.Part) error {
	if err := r.base.resolveReferences(regions, parts); err != nil {
		return err
	}
	return r.anchor.ResolveFromIndex(regions, r.anchorIndex)
}

func (r *WindVFXRegion) PopulateIndices(regions []Region, parts []part.Part) error {
	if err := r.base.populateIndices(r, regions, parts); err != nil {
		return err
	}
	idx, err := r.anchor.ToIndex(r, "Anchor", regions)
	if err != nil {
		return err
	}
	r.anchorIndex = idx
	return nil
}

// GroupDefeatRewardRegion grants a reward once every Part in its watch
// list has been defeated.
type GroupDefeatRewardRegion struct {
	base
	RewardID int32

	watch        [8]entry.Ref[part.Part]
	watchIndices [8]int32
}

// NewGroupDefeatRewardRegion constructs an unplaced GroupDefeatRewardRegion.
func NewGroupDefeatRewardRegion() *GroupDefeatRewardRegion {
	return &GroupDefeatRewardRegion{base: newBase("")}
}

func (r *GroupDefeatRewardRegion) Subtype() uint32 { return uint32(TypeGroupDefeatReward) }

// Watch returns the i'th watched Part, if set.
func (r *GroupDefeatRewardRegion) Watch(i int) (part.Part, bool) { return r.watch[i].Get() }

// SetWatch sets the i'th watched Part.
func (r *GroupDefeatRewardRegion) SetWatch(i int, target part.Part) { r.watch[i].Set(target) }

func (r *GroupDefeatRewardRegion) Deserialize(rd *binio.Reader) error {
	dec, err := r.base.deserialize(rd, TypeGroupDefeatReward)
	if err != nil {
		return err
	}
	if dec.h.SubtypeDataOffset == 0 {
		return nil
	}
	if err := rd.Seek(dec.start + dec.h.SubtypeDataOffset); err != nil {
		return err
	}
	if r.RewardID, err = rd.ReadInt32(); err != nil {
		return err
	}
	for i := range r.watchIndices {
		if r.watchIndices[i], err = rd.ReadInt32(); err != nil {
			return err
		}
	}
	return nil
}

func (r *GroupDefeatRewardRegion) Serialize(w *binio.Writer, supertypeIndex, subtypeIndex int32) error {
	return r.base.serializeWithData(w, TypeGroupDefeatReward, subtypeIndex, func() error {
		if err := w.WriteInt32(r.RewardID); err != nil {
			return err
		}
		for _, idx := range r.watchIndices {
			if err := w.WriteInt32(idx); err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *GroupDefeatRewardRegion) ResolveReferences(regions []Region, parts []part.Part) error {
	if err := r.base.resolveReferences(regions, parts); err != nil {
		return err
	}
	for i := range r.watch {
		if err := r.watch[i].ResolveFromIndex(parts, r.watchIndices[i]); err != nil {
			return err
		}
	}
	return nil
}

func (r *GroupDefeatRewardRegion) PopulateIndices(regions []Region, parts []part.Part) error {
	if err := r.base.populateIndices(r, regions, parts); err != nil {
		return err
	}
	for i := range r.watch {
		idx, err := r.watch[i].ToIndex(r, fmt.Sprintf("Watch[%d]", i), parts)
		if err != nil {
			return err
		}
		r.watchIndices[i] = idx
	}
	return nil
}

// OtherRegion is the fallback for a subtype tag this engine does not model
// specifically. Its tag, name, placement, shape, composite children,
// attached part and entity id round-trip; its subtype data block is not
// read, so writing it back emits no subtype data.
type OtherRegion struct {
	base
	rawTag  Type
	payload []byte
}

// NewOtherRegion constructs an unplaced OtherRegion with the fallback tag.
func NewOtherRegion() *OtherRegion {
	return &OtherRegion{base: newBase(""), rawTag: TypeOther}
}

func (r *OtherRegion) Subtype() uint32 { return uint32(r.rawTag) }

func (r *OtherRegion) Deserialize(rd *binio.Reader) error {
	start, err := rd.Position()
	if err != nil {
		return err
	}
	h, err := binio.ReadValidated[header](rd)
	if err != nil {
		return err
	}
	r.rawTag = h.RegionType

	if err := r.base.deserializeCommon(rd, start, h); err != nil {
		return err
	}

	if h.SubtypeDataOffset != 0 {
		if err := rd.Seek(start + h.SubtypeDataOffset); err != nil {
			return err
		}
		// Unknown subtype: preserve whatever remains before the next
		// 8-byte-aligned entry boundary is unknowable without a length
		// field, so OtherRegion carries no payload bytes through today;
		// len(r.payload) stays 0 until a concrete subtype is added.
		r.payload = nil
	}

	return nil
}

func (r *OtherRegion) Serialize(w *binio.Writer, supertypeIndex, subtypeIndex int32) error {
	var writeData func() error
	if len(r.payload) > 0 {
		writeData = func() error { return w.WriteBytes(r.payload) }
	}
	return r.base.serializeWithData(w, r.rawTag, subtypeIndex, writeData)
}

func (r *OtherRegion) ResolveReferences(regions []Region, parts []part.Part) error {
	return r.base.resolveReferences(regions, parts)
}

func (r *OtherRegion) PopulateIndices(regions []Region, parts []part.Part) error {
	return r.base.populateIndices(r, regions, parts)
}
