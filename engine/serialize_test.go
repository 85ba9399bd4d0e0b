package engine

import (
	"errors"
	"testing"

	grayscott "github.com/graycipher/gray-scott-go"
	"github.com/graycipher/gray-scott-go/utils"
	"gonum.org/v1/gonum/floats"
)

func sampleCiphertext() *Ciphertext {
	return &Ciphertext{
		Shape: grayscott.Shape{H: 4, W: 3, Channels: 1},
		Pad:   2,
		U:     []float64{0.1, -2.5, 0, 1e-300, 3.75, 1, 0.5, 0.25},
		V:     []float64{0.9, 0.8, 0.7},
	}
}

func TestSerializeRoundTrip(t *testing.T) {
	ct := sampleCiphertext()

	got, err := Deserialize(Serialize(ct))
	if err != nil {
		t.Fatalf("deserialize failed: %v", err)
	}
	if got.Shape != ct.Shape || got.Pad != ct.Pad {
		t.Errorf("header mismatch: %+v vs %+v", got.Shape, ct.Shape)
	}
	if !floats.Equal(got.U, ct.U) || !floats.Equal(got.V, ct.V) {
		t.Error("state fields corrupted by round trip")
	}
}

func TestDeserializeRejectsBadMagic(t *testing.T) {
	data := Serialize(sampleCiphertext())
	data[0] ^= 0xFF

	if _, err := Deserialize(data); !errors.Is(err, ErrBadContainer) {
		t.Errorf("got %v, want ErrBadContainer", err)
	}
}

func TestDeserializeRejectsBadVersion(t *testing.T) {
	data := Serialize(sampleCiphertext())
	data[4] = 99

	if _, err := Deserialize(data); !errors.Is(err, ErrBadVersion) {
		t.Errorf("got %v, want ErrBadVersion", err)
	}
}

func TestDeserializeRejectsTruncation(t *testing.T) {
	data := Serialize(sampleCiphertext())

	for _, cut := range []int{3, 5, 12, 24, len(data) - 1} {
		if _, err := Deserialize(data[:cut]); err == nil {
			t.Errorf("truncation at %d bytes accepted", cut)
		}
	}
}

func TestDeserializeRejectsTrailingBytes(t *testing.T) {
	data := append(Serialize(sampleCiphertext()), 0)

	if _, err := Deserialize(data); !errors.Is(err, ErrBadContainer) {
		t.Errorf("got %v, want ErrBadContainer", err)
	}
}

func TestDeserializeRejectsOversizedLength(t *testing.T) {
	ct := sampleCiphertext()
	data := Serialize(ct)

	// Field length claims more elements than MaxFieldLength allows.
	off := 4 + 1 + 16
	data[off] = 0xFF
	data[off+1] = 0xFF
	data[off+2] = 0xFF
	data[off+3] = 0xFF

	if _, err := Deserialize(data); !errors.Is(err, utils.ErrExceedsLimit) {
		t.Errorf("got %v, want ErrExceedsLimit", err)
	}
}
