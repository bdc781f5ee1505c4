package msberr_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mapstudio/msb/internal/msberr"
)

func TestFormatErrorMessage(t *testing.T) {
	err := msberr.NewFormatError(128, "bad magic")
	assert.Contains(t, err.Error(), "128")
	assert.Contains(t, err.Error(), "bad magic")
}

func TestFormatErrorUnwrap(t *testing.T) {
	cause := errors.New("underlying")
	err := msberr.WrapFormatError(0, "wrapped", cause)
	assert.ErrorIs(t, err, cause)
}

func TestDanglingReferenceErrorMessage(t *testing.T) {
	err := &msberr.DanglingReferenceError{Source: "Region1", Field: "Anchor", Target: "Region2"}
	msg := err.Error()
	assert.Contains(t, msg, "Region1")
	assert.Contains(t, msg, "Anchor")
	assert.Contains(t, msg, "Region2")
}

func TestDanglingReferenceErrorWithoutTarget(t *testing.T) {
	err := &msberr.DanglingReferenceError{Source: "Region1", Field: "Anchor"}
	assert.NotContains(t, err.Error(), `""`)
}

func TestInvariantErrorMessage(t *testing.T) {
	err := msberr.NewInvariantError("reservation left unfilled")
	assert.Contains(t, err.Error(), "reservation left unfilled")
}

func TestWrapIO(t *testing.T) {
	assert.Nil(t, msberr.WrapIO("opening", "a.msb", nil))

	cause := errors.New("disk full")
	err := msberr.WrapIO("writing", "b.msb", cause)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "b.msb")
	assert.Contains(t, err.Error(), "writing")
}
