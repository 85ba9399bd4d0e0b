package engine

import (
	"encoding/binary"
	"errors"
	"math"

	grayscott "github.com/graycipher/gray-scott-go"
	"github.com/graycipher/gray-scott-go/utils"
)

// Ciphertext container format: magic, version, shape header, then the two
// state fields, each as a little-endian uint32 element count followed by the
// raw IEEE-754 values.
const (
	containerMagic   = "GSRD"
	containerVersion = 1
)

var (
	// ErrBadContainer indicates a malformed or truncated ciphertext container.
	ErrBadContainer = errors.New("malformed ciphertext container")

	// ErrBadVersion indicates an unsupported container version.
	ErrBadVersion = errors.New("unsupported container version")
)

// Serialize encodes a ciphertext into the on-disk container format.
func Serialize(ct *Ciphertext) []byte {
	headerLen := 4 + 1 + 4*4
	out := make([]byte, 0, headerLen+4+len(ct.U)*8+4+len(ct.V)*8)

	out = append(out, containerMagic...)
	out = append(out, containerVersion)
	out = appendUint32(out, uint32(ct.Shape.H))
	out = appendUint32(out, uint32(ct.Shape.W))
	out = appendUint32(out, uint32(ct.Shape.Channels))
	out = appendUint32(out, uint32(ct.Pad))

	out = appendField(out, ct.U)
	out = appendField(out, ct.V)
	return out
}

// Deserialize decodes a ciphertext container. Lengths are validated before
// any allocation, so hostile input cannot force absurd allocations.
func Deserialize(data []byte) (*Ciphertext, error) {
	if err := utils.CheckLength(len(data), utils.MaxPayloadLength); err != nil {
		return nil, err
	}
	if len(data) < 4+1 || string(data[:4]) != containerMagic {
		return nil, ErrBadContainer
	}
	if data[4] != containerVersion {
		return nil, ErrBadVersion
	}
	offset := 5

	h, offset, err := utils.SafeReadLength(data, offset, utils.MaxGridElements)
	if err != nil {
		return nil, err
	}
	w, offset, err := utils.SafeReadLength(data, offset, utils.MaxGridElements)
	if err != nil {
		return nil, err
	}
	channels, offset, err := utils.SafeReadLength(data, offset, 3)
	if err != nil {
		return nil, err
	}
	pad, offset, err := utils.SafeReadLength(data, offset, utils.MaxGridElements)
	if err != nil {
		return nil, err
	}

	u, offset, err := readField(data, offset, utils.MaxFieldLength)
	if err != nil {
		return nil, err
	}
	v, offset, err := readField(data, offset, utils.MaxGridElements)
	if err != nil {
		return nil, err
	}
	if offset != len(data) {
		return nil, ErrBadContainer
	}

	return &Ciphertext{
		Shape: grayscott.Shape{H: h, W: w, Channels: channels},
		Pad:   pad,
		U:     u,
		V:     v,
	}, nil
}

func appendUint32(out []byte, v uint32) []byte {
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], v)
	return append(out, buf[:]...)
}

func appendField(out []byte, field []float64) []byte {
	out = appendUint32(out, uint32(len(field)))
	var buf [8]byte
	for _, x := range field {
		binary.LittleEndian.PutUint64(buf[:], math.Float64bits(x))
		out = append(out, buf[:]...)
	}
	return out
}

func readField(data []byte, offset, maxLen int) ([]float64, int, error) {
	count, offset, err := utils.SafeReadLength(data, offset, maxLen)
	if err != nil {
		return nil, offset, err
	}
	byteLen, err := utils.SafeMultiply(count, 8)
	if err != nil {
		return nil, offset, err
	}
	if offset+byteLen > len(data) {
		return nil, offset, ErrBadContainer
	}
	field, err := utils.SafeMakeFloat64Slice(count, maxLen)
	if err != nil {
		return nil, offset, err
	}
	for i := 0; i < count; i++ {
		field[i] = math.Float64frombits(binary.LittleEndian.Uint64(data[offset+i*8:]))
	}
	return field, offset + byteLen, nil
}
