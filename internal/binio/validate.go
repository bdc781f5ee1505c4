package binio

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

// ValidationError reports a packed record that failed its own Validate()
// predicate: a non-zero pad field, an unexpected magic value, or an
// out-of-range scalar.
type ValidationError struct {
	Offset int64
	Field  string
	Want   string
	Got    string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("binio: validation failed at offset %d, field %q: want %s, got %s",
		e.Offset, e.Field, e.Want, e.Got)
}

// NewValidationError builds a ValidationError at the given field.
func NewValidationError(field, want, got string) *ValidationError {
	return &ValidationError{Field: field, Want: want, Got: got}
}

// ReadValidated reads a fixed-size packed record of type T (every field a
// fixed-width integer or float, laid out in declaration order) and invokes
// its Validate method before returning it. PT exists only to let the
// compiler see that *T implements Validate() error without the caller
// writing out the constraint at each call site.
func ReadValidated[T any, PT interface {
	*T
	Validate() error
}](r *Reader) (T, error) {
	var v T
	start, _ := r.Position()
	if err := binary.Read(r.r, r.order, &v); err != nil {
		return v, fmt.Errorf("binio: reading record at %d: %w", start, err)
	}
	if err := PT(&v).Validate(); err != nil {
		if ve, ok := err.(*ValidationError); ok {
			ve.Offset = start
		}
		return v, err
	}
	return v, nil
}

// WriteValidated invokes v's Validate method, then emits it as a fixed-size
// packed record.
func WriteValidated[T any, PT interface {
	*T
	Validate() error
}](w *Writer, v T) error {
	if err := PT(&v).Validate(); err != nil {
		return err
	}
	if err := binary.Write(w.w, w.order, v); err != nil {
		return fmt.Errorf("binio: writing record: %w", err)
	}
	return nil
}

// EncodeValidated invokes v's Validate method, then encodes it to a byte
// slice using order. Callers that must reserve a header's bytes before its
// field values are known (any offset pointing past the header) encode into
// bytes here and hand them to reserve.Reservations.Fill once every offset is
// known, rather than writing the header directly.
func EncodeValidated[T any, PT interface {
	*T
	Validate() error
}](order binary.ByteOrder, v T) ([]byte, error) {
	if err := PT(&v).Validate(); err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := binary.Write(&buf, order, v); err != nil {
		return nil, fmt.Errorf("binio: encoding record: %w", err)
	}
	return buf.Bytes(), nil
}

// Size returns the fixed on-disk size of a packed record of type T.
func Size[T any](v T) int {
	return binary.Size(v)
}
