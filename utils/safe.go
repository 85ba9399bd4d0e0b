// This file contains safe arithmetic and allocation helpers to prevent
// integer overflow and denial-of-service via absurd grid allocations.

package utils

import (
	"errors"
	"math"
)

// Maximum allowed sizes to prevent DoS via large allocations.
const (
	// MaxGridElements is the maximum allowed number of cells in a padded
	// grid plane (and so the maximum order of the diffusion operator).
	MaxGridElements = 1 << 24 // 16M cells

	// MaxFieldLength is the maximum allowed length for a serialized state
	// field across all channels.
	MaxFieldLength = 3 * MaxGridElements

	// MaxPayloadLength is the maximum allowed length of a serialized
	// ciphertext container.
	MaxPayloadLength = 1 << 30 // 1GB
)

var (
	// ErrOverflow indicates an integer overflow occurred.
	ErrOverflow = errors.New("integer overflow")

	// ErrExceedsLimit indicates a value exceeds the allowed limit.
	ErrExceedsLimit = errors.New("value exceeds allowed limit")

	// ErrInvalidLength indicates an invalid length value.
	ErrInvalidLength = errors.New("invalid length")
)

// SafeMultiply multiplies two non-negative integers and returns an error if
// overflow occurs.
func SafeMultiply(a, b int) (int, error) {
	if a < 0 || b < 0 {
		return 0, ErrInvalidLength
	}
	if a == 0 || b == 0 {
		return 0, nil
	}
	if a > math.MaxInt/b {
		return 0, ErrOverflow
	}
	return a * b, nil
}

// SafeMakeFloat64Slice creates a float64 slice with bounds checking.
// Returns an error if count is negative or exceeds maxAllowed.
func SafeMakeFloat64Slice(count, maxAllowed int) ([]float64, error) {
	if count < 0 {
		return nil, ErrInvalidLength
	}
	if count > maxAllowed {
		return nil, ErrExceedsLimit
	}
	return make([]float64, count), nil
}

// CheckLength validates that length is within [0, maxAllowed].
func CheckLength(length, maxAllowed int) error {
	if length < 0 {
		return ErrInvalidLength
	}
	if length > maxAllowed {
		return ErrExceedsLimit
	}
	return nil
}

// SafeReadLength reads a uint32 length from data at offset, validates it, and
// returns the value. Returns an error if not enough bytes are available or
// the length exceeds maxAllowed.
func SafeReadLength(data []byte, offset, maxAllowed int) (length int, newOffset int, err error) {
	if offset < 0 || offset+4 > len(data) {
		return 0, offset, errors.New("truncated length field")
	}
	raw := uint32(data[offset]) | uint32(data[offset+1])<<8 | uint32(data[offset+2])<<16 | uint32(data[offset+3])<<24
	if raw > uint32(maxAllowed) || (maxAllowed > math.MaxInt32 && int(raw) < 0) {
		return 0, offset, ErrExceedsLimit
	}
	return int(raw), offset + 4, nil
}
