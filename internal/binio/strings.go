package binio

import (
	"fmt"
	"unicode/utf16"
)

// ReadUTF16String reads 16-bit code units until a null code unit, decodes
// them as UTF-16LE (or big-endian, per the reader's byte order), and leaves
// the cursor immediately past the terminator. An embedded null terminates
// the string even if the caller expected more content at this offset.
func ReadUTF16String(r *Reader) (string, error) {
	var units []uint16
	for {
		u, err := r.ReadUint16()
		if err != nil {
			return "", fmt.Errorf("binio: reading utf16 string: %w", err)
		}
		if u == 0 {
			break
		}
		units = append(units, u)
	}
	return string(utf16.Decode(units)), nil
}

// WriteUTF16String transcodes s to 16-bit code units and writes them
// followed by a null terminator. s must not contain an embedded NUL rune.
func WriteUTF16String(w *Writer, s string) error {
	for _, r := range s {
		if r == 0 {
			return fmt.Errorf("binio: string contains embedded NUL: %q", s)
		}
	}
	for _, u := range utf16.Encode([]rune(s)) {
		if err := w.WriteUint16(u); err != nil {
			return err
		}
	}
	return w.WriteUint16(0)
}

// Align advances the reader to the next multiple of n, discarding the
// intervening padding bytes.
func (r *Reader) Align(n int64) error {
	pos, err := r.Position()
	if err != nil {
		return err
	}
	rem := pos % n
	if rem == 0 {
		return nil
	}
	return r.Skip(n - rem)
}
