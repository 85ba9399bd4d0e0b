package grayscott

import "fmt"

// MinKeyLength is the minimum accepted secret key length in bytes.
const MinKeyLength = 8

// InvalidKeyError is returned at construction when the secret key is shorter
// than MinKeyLength. It is fatal and never retried.
type InvalidKeyError struct {
	Length int
}

func (e *InvalidKeyError) Error() string {
	return fmt.Sprintf("invalid key: %d bytes, need at least %d", e.Length, MinKeyLength)
}

// ShapeMismatchError is returned when an input or ciphertext array is
// inconsistent with the grid the engine was configured for.
type ShapeMismatchError struct {
	Field string // which array: "image", "u", "v"
	Want  int
	Got   int
}

func (e *ShapeMismatchError) Error() string {
	return fmt.Sprintf("shape mismatch: %s has %d elements, engine expects %d", e.Field, e.Got, e.Want)
}

// ReversibilityError is returned when a diffusion solve fails (singular
// Crank-Nicolson operator). Such a failure means the pass cannot be inverted,
// so it is fatal rather than swallowed.
type ReversibilityError struct {
	Op  string
	Err error
}

func (e *ReversibilityError) Error() string {
	return fmt.Sprintf("reversibility lost in %s: %v", e.Op, e.Err)
}

func (e *ReversibilityError) Unwrap() error { return e.Err }
