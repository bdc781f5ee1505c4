// Package reserve implements the named placeholder / back-fill technique
// every MSB header needs: a header field holds the offset to data that is
// only written after the header itself, so the writer must reserve the
// field's bytes now and come back to fill them in once the real value is
// known.
//
// The bookkeeping (a slice of named, offset+size-tracked blocks) is grounded
// on an end-of-file space allocator from the teacher library, adapted from
// "allocate once, never revisit" to "allocate now, overwrite exactly once
// later": Fill seeks back into a block Reserve already claimed, instead of
// claiming a new one.
package reserve

import (
	"fmt"

	"github.com/mapstudio/msb/internal/binio"
	"github.com/mapstudio/msb/internal/msberr"
)

type block struct {
	position int64
	size     int
	filled   bool
}

// Reservations is a scoped helper bound to one Writer. Names are local to
// the helper; reserving or filling the same name twice is an error.
type Reservations struct {
	w      *binio.Writer
	byName map[string]*block
	order  []string
}

// New binds a reservation helper to w.
func New(w *binio.Writer) *Reservations {
	return &Reservations{
		w:      w,
		byName: make(map[string]*block),
	}
}

// Reserve records the writer's current position as the placeholder for
// name, then advances the writer by size zeroed bytes.
func (rs *Reservations) Reserve(name string, size int) error {
	if _, exists := rs.byName[name]; exists {
		return fmt.Errorf("reserve: %q already reserved", name)
	}
	pos, err := rs.w.Position()
	if err != nil {
		return err
	}
	if err := rs.w.Pad(size); err != nil {
		return fmt.Errorf("reserve: reserving %q: %w", name, err)
	}
	rs.byName[name] = &block{position: pos, size: size}
	rs.order = append(rs.order, name)
	return nil
}

// Fill seeks back to name's reserved position, writes bytes (whose length
// must equal the originally reserved size), and restores the writer to
// whatever position it held before the call.
func (rs *Reservations) Fill(name string, data []byte) error {
	b, ok := rs.byName[name]
	if !ok {
		return fmt.Errorf("reserve: fill of unknown reservation %q", name)
	}
	if b.filled {
		return fmt.Errorf("reserve: %q already filled", name)
	}
	if len(data) != b.size {
		return fmt.Errorf("reserve: fill of %q: reserved %d bytes, got %d", name, b.size, len(data))
	}
	cur, err := rs.w.Position()
	if err != nil {
		return err
	}
	if err := rs.w.Seek(b.position); err != nil {
		return err
	}
	if err := rs.w.WriteBytes(data); err != nil {
		return fmt.Errorf("reserve: filling %q: %w", name, err)
	}
	if err := rs.w.Seek(cur); err != nil {
		return err
	}
	b.filled = true
	return nil
}

// ReserveStruct reserves structSize bytes under name. It is a thin,
// strongly-typed-by-convention wrapper over Reserve for callers that keep a
// struct's encoded size in one place.
func (rs *Reservations) ReserveStruct(name string, structSize int) error {
	return rs.Reserve(name, structSize)
}

// FillStruct fills name with a struct's already-encoded bytes (as produced by
// binio.EncodeValidated with the bound writer's byte order). It is a thin
// wrapper over Fill, paired with ReserveStruct.
func (rs *Reservations) FillStruct(name string, encoded []byte) error {
	return rs.Fill(name, encoded)
}

// Finish fails if any reservation remains unfilled. It must be called
// exactly once, after the last Fill, before the Reservations helper is
// discarded — an unfinished helper left to go out of scope is a programmer
// error, not a recoverable one.
func (rs *Reservations) Finish() error {
	var unfilled []string
	for _, name := range rs.order {
		if !rs.byName[name].filled {
			unfilled = append(unfilled, name)
		}
	}
	if len(unfilled) > 0 {
		return msberr.NewInvariantError(fmt.Sprintf("reserve: unfilled reservations remain: %v", unfilled))
	}
	return nil
}
