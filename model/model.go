// Package model implements the MSB Model supertype: external asset
// references (map pieces, characters, the player, collision meshes, and
// generic assets) with no subtype-specific payload, grounded on the
// original format's Model.cpp/Model.h (kept in this pack's reference
// material under original_source/).
package model

import (
	"fmt"

	"github.com/mapstudio/msb/internal/binio"
	"github.com/mapstudio/msb/internal/entry"
	"github.com/mapstudio/msb/internal/msberr"
	"github.com/mapstudio/msb/internal/reserve"
)

var headerSize = binio.Size(header{})

// Type tags a Model subtype.
type Type uint32

// The five Model subtypes.
const (
	TypeMapPiece Type = iota
	TypeCharacter
	TypePlayer
	TypeCollision
	TypeAsset
)

// Model is the interface every concrete Model subtype implements.
type Model interface {
	entry.Entry
	SibPath() string
	SetSibPath(path string)
	InstanceCount() int32
	SetInstanceCount(n int32)
}

// header is Model's fixed-size on-disk header, validated on both read and
// write per the original format's rule that a model entry never carries
// subtype data.
type header struct {
	NameOffset        int64
	ModelType         Type
	SubtypeIndex      int32
	SibPathOffset     int64
	InstanceCount     int32
	Unk1C             int32
	SubtypeDataOffset int64
}

func (h *header) Validate() error {
	if h.NameOffset == 0 {
		return binio.NewValidationError("Model.NameOffset", "!= 0", "0")
	}
	if h.SibPathOffset == 0 {
		return binio.NewValidationError("Model.SibPathOffset", "!= 0", "0")
	}
	if h.SubtypeDataOffset != 0 {
		return binio.NewValidationError("Model.SubtypeDataOffset", "0", fmt.Sprintf("%d", h.SubtypeDataOffset))
	}
	return nil
}

// base implements the fields and (de)serialize algorithm shared by every
// Model subtype; concrete types embed base and supply only Subtype().
type base struct {
	entry.Base
	sibPath       string
	instanceCount int32
	unk1C         int32
}

func (b *base) SibPath() string         { return b.sibPath }
func (b *base) SetSibPath(p string)     { b.sibPath = p }
func (b *base) InstanceCount() int32    { return b.instanceCount }
func (b *base) SetInstanceCount(n int32) { b.instanceCount = n }

func (b *base) deserialize(r *binio.Reader, wantType Type) error {
	start, err := r.Position()
	if err != nil {
		return err
	}
	h, err := binio.ReadValidated[header](r)
	if err != nil {
		return err
	}
	if h.ModelType != wantType {
		return msberr.NewFormatError(start, fmt.Sprintf("Model subtype mismatch: header says %d, expected %d", h.ModelType, wantType))
	}
	b.instanceCount = h.InstanceCount
	b.unk1C = h.Unk1C

	if err := r.Seek(start + h.NameOffset); err != nil {
		return err
	}
	name, err := binio.ReadUTF16String(r)
	if err != nil {
		return err
	}
	b.SetName(name)

	if err := r.Seek(start + h.SibPathOffset); err != nil {
		return err
	}
	sib, err := binio.ReadUTF16String(r)
	if err != nil {
		return err
	}
	b.sibPath = sib
	return nil
}

func (b *base) serialize(w *binio.Writer, modelType Type, subtypeIndex int32) error {
	start, err := w.Position()
	if err != nil {
		return err
	}

	rs := reserve.New(w)
	if err := rs.Reserve("header", headerSize); err != nil {
		return err
	}

	h := header{
		ModelType:     modelType,
		SubtypeIndex:  subtypeIndex,
		InstanceCount: b.instanceCount,
		Unk1C:         b.unk1C,
	}

	namePos, err := w.Position()
	if err != nil {
		return err
	}
	h.NameOffset = namePos - start
	if err := binio.WriteUTF16String(w, b.Name()); err != nil {
		return err
	}

	sibPos, err := w.Position()
	if err != nil {
		return err
	}
	h.SibPathOffset = sibPos - start
	if err := binio.WriteUTF16String(w, b.sibPath); err != nil {
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

// peekType reads the header's subtype tag without consuming the reader,
// so the dispatcher below can construct the right concrete type before
// calling its Deserialize.
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

// NewEntry reads one Model entry, dispatching on its subtype tag. It
// satisfies param.NewEntryFunc[Model].
func NewEntry(r *binio.Reader) (Model, error) {
	t, err := peekType(r)
	if err != nil {
		return nil, err
	}
	var m Model
	switch t {
	case TypeMapPiece:
		m = NewMapPieceModel()
	case TypeCharacter:
		m = NewCharacterModel()
	case TypePlayer:
		m = NewPlayerModel()
	case TypeCollision:
		m = NewCollisionModel()
	case TypeAsset:
		m = NewAssetModel()
	default:
		pos, _ := r.Position()
		return nil, msberr.NewFormatError(pos, fmt.Sprintf("model: unknown subtype tag %d", t))
	}
	if err := m.Deserialize(r); err != nil {
		return nil, err
	}
	return m, nil
}

// MapPieceModel is static level geometry.
type MapPieceModel struct{ base }

// NewMapPieceModel constructs an unplaced MapPieceModel with the original
// format's default name.
func NewMapPieceModel() *MapPieceModel {
	return &MapPieceModel{base{Base: entry.NewBase("m999999")}}
}

func (m *MapPieceModel) Subtype() uint32 { return uint32(TypeMapPiece) }

func (m *MapPieceModel) Deserialize(r *binio.Reader) error {
	return m.base.deserialize(r, TypeMapPiece)
}

func (m *MapPieceModel) Serialize(w *binio.Writer, supertypeIndex, subtypeIndex int32) error {
	return m.base.serialize(w, TypeMapPiece, subtypeIndex)
}

// CharacterModel is a non-player character's model.
type CharacterModel struct{ base }

// NewCharacterModel constructs an unplaced CharacterModel with the
// original format's default name.
func NewCharacterModel() *CharacterModel {
	return &CharacterModel{base{Base: entry.NewBase("c9999")}}
}

func (m *CharacterModel) Subtype() uint32 { return uint32(TypeCharacter) }

func (m *CharacterModel) Deserialize(r *binio.Reader) error {
	return m.base.deserialize(r, TypeCharacter)
}

func (m *CharacterModel) Serialize(w *binio.Writer, supertypeIndex, subtypeIndex int32) error {
	return m.base.serialize(w, TypeCharacter, subtypeIndex)
}

// PlayerModel is the player character's model.
type PlayerModel struct{ base }

// NewPlayerModel constructs an unplaced PlayerModel with the original
// format's default name.
func NewPlayerModel() *PlayerModel {
	return &PlayerModel{base{Base: entry.NewBase("c0000")}}
}

func (m *PlayerModel) Subtype() uint32 { return uint32(TypePlayer) }

func (m *PlayerModel) Deserialize(r *binio.Reader) error {
	return m.base.deserialize(r, TypePlayer)
}

func (m *PlayerModel) Serialize(w *binio.Writer, supertypeIndex, subtypeIndex int32) error {
	return m.base.serialize(w, TypePlayer, subtypeIndex)
}

// CollisionModel is a collision mesh.
type CollisionModel struct{ base }

// NewCollisionModel constructs an unplaced CollisionModel with the
// original format's default name.
func NewCollisionModel() *CollisionModel {
	return &CollisionModel{base{Base: entry.NewBase("h999999")}}
}

func (m *CollisionModel) Subtype() uint32 { return uint32(TypeCollision) }

func (m *CollisionModel) Deserialize(r *binio.Reader) error {
	return m.base.deserialize(r, TypeCollision)
}

func (m *CollisionModel) Serialize(w *binio.Writer, supertypeIndex, subtypeIndex int32) error {
	return m.base.serialize(w, TypeCollision, subtypeIndex)
}

// AssetModel is a placed generic asset (furniture, decoration, and similar
// dressing props).
type AssetModel struct{ base }

// NewAssetModel constructs an unplaced AssetModel with the original
// format's default name.
func NewAssetModel() *AssetModel {
	return &AssetModel{base{Base: entry.NewBase("AEG999_999")}}
}

func (m *AssetModel) Subtype() uint32 { return uint32(TypeAsset) }

func (m *AssetModel) Deserialize(r *binio.Reader) error {
	return m.base.deserialize(r, TypeAsset)
}

func (m *AssetModel) Serialize(w *binio.Writer, supertypeIndex, subtypeIndex int32) error {
	return m.base.serialize(w, TypeAsset, subtypeIndex)
}
