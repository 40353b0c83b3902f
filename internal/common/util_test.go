package common

import (
	"errors"
	"fmt"
	"testing"
)

func TestWipeByteArray_ZerosBuffer(t *testing.T) {
	buf := []byte("secret")
	WipeByteArray(buf)
	for i, v := range buf {
		if v != 0 {
			t.Fatalf("expected buf[%d]==0, got %d", i, v)
		}
	}
}

func TestWipeByteArray_NilSafe(t *testing.T) {
	WipeByteArray(nil)
}

func TestValidationErrorsWrap(t *testing.T) {
	err := fmt.Errorf("%w: %w", ErrValidation, ErrFileTooLarge)
	if !errors.Is(err, ErrValidation) || !errors.Is(err, ErrFileTooLarge) {
		t.Fatalf("expected both sentinels to match, got %v", err)
	}
}
