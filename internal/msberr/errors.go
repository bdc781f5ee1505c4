// Package msberr defines the error kinds shared across the MSB engine:
// structural format violations, dangling cross-entry references, and
// programmer-usage invariant violations. Every kind carries enough context
// (file offset, field path, or entry names) to diagnose without a debugger,
// in the same wrapped-error idiom the teacher library uses throughout
// (a small concrete error type plus Unwrap, rather than sentinel values).
package msberr

import "fmt"

// FormatError reports a structural violation of the MSB layout: bad magic,
// misaligned data, an offset out of range, a string missing its null
// terminator, or a subtype tag mismatch between a header and the concrete
// type reading it.
type FormatError struct {
	Offset int64
	Detail string
	Cause  error
}

func (e *FormatError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("msb: format error at offset %d: %s: %v", e.Offset, e.Detail, e.Cause)
	}
	return fmt.Sprintf("msb: format error at offset %d: %s", e.Offset, e.Detail)
}

func (e *FormatError) Unwrap() error { return e.Cause }

// NewFormatError builds a FormatError.
func NewFormatError(offset int64, detail string) *FormatError {
	return &FormatError{Offset: offset, Detail: detail}
}

// WrapFormatError builds a FormatError around an underlying cause.
func WrapFormatError(offset int64, detail string, cause error) *FormatError {
	return &FormatError{Offset: offset, Detail: detail, Cause: cause}
}

// DanglingReferenceError reports a pointer-to-index conversion that could
// not find its target in the target supertype's entry list: the target was
// never added to the MSB, or was removed after the reference was set.
type DanglingReferenceError struct {
	Source string // name of the entry holding the dangling reference
	Field  string // name of the reference field
	Target string // name of the entry that could not be found, if known
}

func (e *DanglingReferenceError) Error() string {
	if e.Target != "" {
		return fmt.Sprintf("msb: dangling reference: %s.%s points to %q, which is not in the MSB",
			e.Source, e.Field, e.Target)
	}
	return fmt.Sprintf("msb: dangling reference: %s.%s points to an entry that is not in the MSB",
		e.Source, e.Field)
}

// InvariantError reports a usage error: a required field left at a
// forbidden default before write, a reservation helper finished with
// outstanding placeholders, or similar programmer mistakes rather than
// malformed file data.
type InvariantError struct {
	Detail string
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("msb: invariant violated: %s", e.Detail)
}

// NewInvariantError builds an InvariantError.
func NewInvariantError(detail string) *InvariantError {
	return &InvariantError{Detail: detail}
}

// WrapIO enriches an I/O failure with the file name and operation name, the
// one enrichment point besides FormatError's offset field. Only the
// top-level Open/Write entry points call this.
func WrapIO(op, path string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("msb: %s %q: %w", op, path, err)
}
