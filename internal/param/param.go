// Package param implements the MSB EntryParam table: an ordered, homogeneous
// (within one supertype) list of entries, serialized as a version, an
// entry count, an offset table, the entry bodies, and a terminating
// parameter-name string.
//
// Grounded on the teacher library's object-header message table (a
// tag-prefixed, offset-addressed sequence read by walking one offset at a
// time) generalized with Go generics, since every supertype needs the exact
// same table shape around a different concrete entry type.
package param

import (
	"fmt"
	"sort"

	"github.com/mapstudio/msb/internal/binio"
	"github.com/mapstudio/msb/internal/entry"
	"github.com/mapstudio/msb/internal/msberr"
	"github.com/mapstudio/msb/internal/reserve"
)

// NewEntryFunc reads one entry from r, starting at the reader's current
// position: it determines the entry's concrete subtype (typically by
// peeking the header's subtype tag field and seeking back), constructs the
// right concrete variant, calls its Deserialize, and returns it. Each
// supertype package (model, event, part, region, route) supplies one.
type NewEntryFunc[T entry.Entry] func(r *binio.Reader) (T, error)

// Param is an ordered list of entries of one supertype.
type Param[T entry.Entry] struct {
	// Name is the dialect-fixed UTF-16 string that terminates this
	// param's offset table (e.g. "MODEL_PARAM_ST").
	Name    string
	Version int32

	entries []T
}

// New constructs an empty Param for the given dialect param name.
func New[T entry.Entry](name string, version int32) *Param[T] {
	return &Param[T]{Name: name, Version: version}
}

// Entries returns the param's entries in their current (canonical after any
// Serialize call) order. The returned slice must not be mutated by the
// caller; use Add/RemoveAt.
func (p *Param[T]) Entries() []T {
	return p.entries
}

// Len returns the number of entries.
func (p *Param[T]) Len() int {
	return len(p.entries)
}

// Add appends an entry.
func (p *Param[T]) Add(e T) {
	p.entries = append(p.entries, e)
}

// RemoveAt deletes the entry at position i.
func (p *Param[T]) RemoveAt(i int) {
	p.entries = append(p.entries[:i], p.entries[i+1:]...)
}

// FindByName returns the first entry with the given name, per spec's rule
// that name-based lookups target the first match.
func (p *Param[T]) FindByName(name string) (T, bool) {
	for _, e := range p.entries {
		if e.Name() == name {
			return e, true
		}
	}
	var zero T
	return zero, false
}

// canonicalOrder returns a stably sorted copy of entries grouped by subtype
// tag in ascending order, preserving relative order within each subtype.
// This is the order entries are written in, and therefore the order that
// defines supertype index and subtype index. A freshly read MSB's entries
// are already in this order (the file was written that way), so sorting
// again is a no-op — stability is what keeps a read-then-write round trip
// byte-exact.
func canonicalOrder[T entry.Entry](entries []T) []T {
	ordered := make([]T, len(entries))
	copy(ordered, entries)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Subtype() < ordered[j].Subtype()
	})
	return ordered
}

// AssignIndices computes canonical order and assigns each entry's
// SubtypeIndex accordingly, without writing anything. RefPair fields on
// other entries may need these indices before this param's own Serialize
// runs, since references can point across params and even back to entries
// this param hasn't serialized yet.
func (p *Param[T]) AssignIndices() []T {
	ordered := canonicalOrder(p.entries)
	bySubtype := make(map[uint32]int32)
	for _, e := range ordered {
		idx := bySubtype[e.Subtype()]
		e.SetSubtypeIndex(idx)
		bySubtype[e.Subtype()] = idx + 1
	}
	return ordered
}

// Deserialize reads version, entry_count, the entry offset table, every
// entry body (via newEntry), and the terminating param-name string,
// validating it against p.Name.
func (p *Param[T]) Deserialize(r *binio.Reader, newEntry NewEntryFunc[T]) error {
	version, err := r.ReadInt32()
	if err != nil {
		return fmt.Errorf("param: reading version: %w", err)
	}
	count, err := r.ReadInt32()
	if err != nil {
		return fmt.Errorf("param: reading entry_count: %w", err)
	}
	if count < 0 {
		return msberr.NewFormatError(0, "param: negative entry_count")
	}
	p.Version = version

	offsets := make([]int64, count+1)
	for i := range offsets {
		off, err := r.ReadInt64()
		if err != nil {
			return fmt.Errorf("param: reading offset table entry %d: %w", i, err)
		}
		offsets[i] = off
	}

	p.entries = make([]T, 0, count)
	for i := 0; i < int(count); i++ {
		if err := r.Seek(offsets[i]); err != nil {
			return fmt.Errorf("param: seeking to entry %d: %w", i, err)
		}
		e, err := newEntry(r)
		if err != nil {
			return fmt.Errorf("param: reading entry %d: %w", i, err)
		}
		e.SetSubtypeIndex(0) // recomputed precisely by AssignIndices after the full param loads
		p.entries = append(p.entries, e)
	}

	if err := r.Seek(offsets[count]); err != nil {
		return fmt.Errorf("param: seeking to param name: %w", err)
	}
	name, err := binio.ReadUTF16String(r)
	if err != nil {
		return fmt.Errorf("param: reading param name: %w", err)
	}
	if p.Name != "" && name != p.Name {
		return msberr.NewFormatError(offsets[count],
			fmt.Sprintf("param name mismatch: want %q, got %q", p.Name, name))
	}
	p.Name = name

	ordered := p.AssignIndices()
	p.entries = ordered
	return nil
}

// Serialize writes version, entry_count, a reserved offset table, every
// entry body in canonical order, and the param-name string, then fills in
// the offset table.
func (p *Param[T]) Serialize(w *binio.Writer) error {
	ordered := p.AssignIndices()

	if err := w.WriteInt32(p.Version); err != nil {
		return err
	}
	count := int32(len(ordered))
	if err := w.WriteInt32(count); err != nil {
		return err
	}

	rs := reserve.New(w)
	tableSize, err := binio.SafeMul(int64(count)+1, 8)
	if err != nil {
		return err
	}
	offsetTableName := "offsetTable"
	if err := rs.Reserve(offsetTableName, int(tableSize)); err != nil {
		return err
	}

	offsets := make([]int64, count+1)
	for i, e := range ordered {
		pos, err := w.Position()
		if err != nil {
			return err
		}
		offsets[i] = pos
		if err := e.Serialize(w, int32(i), e.SubtypeIndex()); err != nil {
			return fmt.Errorf("param: writing entry %d (%q): %w", i, e.Name(), err)
		}
	}

	namePos, err := w.Position()
	if err != nil {
		return err
	}
	offsets[count] = namePos
	if err := binio.WriteUTF16String(w, p.Name); err != nil {
		return fmt.Errorf("param: writing param name: %w", err)
	}
	if err := w.Align(8); err != nil {
		return err
	}

	tableBytes := make([]byte, tableSize)
	for i, off := range offsets {
		w.ByteOrder().PutUint64(tableBytes[i*8:], uint64(off))
	}
	if err := rs.Fill(offsetTableName, tableBytes); err != nil {
		return err
	}
	if err := rs.Finish(); err != nil {
		return err
	}

	p.entries = ordered
	return nil
}
