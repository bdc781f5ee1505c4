package entry

import "github.com/mapstudio/msb/internal/msberr"

// RefTarget is the constraint every Ref/RefPair target type must satisfy:
// it must be an Entry (so a dangling reference can be named and, for
// RefPair, so its already-assigned SubtypeIndex can be read back), and it
// must be comparable so two references to the same entry compare equal by
// pointer identity. Concrete per-supertype interfaces (model.Model,
// region.Region, ...) all satisfy this.
type RefTarget interface {
	Entry
	comparable
}

// Ref is a non-owning reference to an entry of supertype T, serialized on
// disk as a single signed 32-bit supertype index (sentinel -1 for "no
// reference"). It has exactly two states: null, and resolved-to-pointer —
// there is no unresolved-index state once construction has happened, since
// resolution is always driven immediately from a freshly read index.
type Ref[T RefTarget] struct {
	ptr T
	ok  bool
}

// Get returns the referenced entry and whether the reference is non-null.
func (r Ref[T]) Get() (T, bool) {
	return r.ptr, r.ok
}

// Set points the reference at target.
func (r *Ref[T]) Set(target T) {
	r.ptr = target
	r.ok = true
}

// Clear makes the reference null.
func (r *Ref[T]) Clear() {
	var zero T
	r.ptr = zero
	r.ok = false
}

// IsNull reports whether the reference is null.
func (r Ref[T]) IsNull() bool {
	return !r.ok
}

// ResolveFromIndex promotes a freshly read on-disk index to a pointer:
// index < 0 clears the reference, otherwise it is set to entries[index].
// entries must be in the target supertype's canonical order (the order
// Param stores and serializes them in), since that order is what the index
// was written against.
func (r *Ref[T]) ResolveFromIndex(entries []T, index int32) error {
	if index < 0 {
		r.Clear()
		return nil
	}
	if int(index) >= len(entries) {
		return msberr.NewFormatError(0, "entry reference index out of range")
	}
	r.Set(entries[index])
	return nil
}

// ToIndex converts the reference back to a supertype index: -1 if null, the
// position of the referenced entry in entries otherwise. source names the
// entry holding this reference, for a DanglingReferenceError if the target
// cannot be found in entries.
func (r Ref[T]) ToIndex(source Entry, field string, entries []T) (int32, error) {
	if !r.ok {
		return -1, nil
	}
	for i, e := range entries {
		if e == r.ptr {
			return int32(i), nil
		}
	}
	return -1, &msberr.DanglingReferenceError{
		Source: source.Name(),
		Field:  field,
		Target: r.ptr.Name(),
	}
}

// RefPair is a compound reference serialized as a (supertype_index,
// subtype_index) pair, for dialects/fields that need subtype
// disambiguation rather than a single supertype-wide index.
type RefPair[T RefTarget] struct {
	ptr T
	ok  bool
}

// Get returns the referenced entry and whether the reference is non-null.
func (r RefPair[T]) Get() (T, bool) {
	return r.ptr, r.ok
}

// Set points the reference at target.
func (r *RefPair[T]) Set(target T) {
	r.ptr = target
	r.ok = true
}

// Clear makes the reference null.
func (r *RefPair[T]) Clear() {
	var zero T
	r.ptr = zero
	r.ok = false
}

// IsNull reports whether the reference is null.
func (r RefPair[T]) IsNull() bool {
	return !r.ok
}

// ResolveFromIndices promotes a freshly read (supertypeIndex, subtypeIndex)
// pair to a pointer. supertypeIndex < 0 clears the reference. Otherwise the
// pointed-to entry's own SubtypeIndex (assigned by its Param in the same
// read pass) must match subtypeIndex, confirming the pair is internally
// consistent.
func (r *RefPair[T]) ResolveFromIndices(entries []T, supertypeIndex, subtypeIndex int32) error {
	if supertypeIndex < 0 {
		r.Clear()
		return nil
	}
	if int(supertypeIndex) >= len(entries) {
		return msberr.NewFormatError(0, "compound entry reference supertype index out of range")
	}
	target := entries[supertypeIndex]
	if target.SubtypeIndex() != subtypeIndex {
		return msberr.NewFormatError(0, "compound entry reference subtype index mismatch")
	}
	r.Set(target)
	return nil
}

// ToIndices converts the reference back to a (supertypeIndex, subtypeIndex)
// pair: (-1, -1) if null.
func (r RefPair[T]) ToIndices(source Entry, field string, entries []T) (supertypeIndex, subtypeIndex int32, err error) {
	if !r.ok {
		return -1, -1, nil
	}
	for i, e := range entries {
		if e == r.ptr {
			return int32(i), e.SubtypeIndex(), nil
		}
	}
	return -1, -1, &msberr.DanglingReferenceError{
		Source: source.Name(),
		Field:  field,
		Target: r.ptr.Name(),
	}
}
