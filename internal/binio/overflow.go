package binio

import (
	"fmt"
	"math"
)

// SafeMul multiplies two non-negative int64 values, returning an error
// instead of silently wrapping if the product would overflow. Used when
// turning a param's entry count into the byte size of its offset table.
func SafeMul(a, b int64) (int64, error) {
	if a == 0 || b == 0 {
		return 0, nil
	}
	if a < 0 || b < 0 {
		return 0, fmt.Errorf("binio: negative operand in multiplication (%d * %d)", a, b)
	}
	if a > math.MaxInt64/b {
		return 0, fmt.Errorf("binio: multiplication overflow: %d * %d", a, b)
	}
	return a * b, nil
}
