package engine

import (
	"errors"
	"testing"

	grayscott "github.com/graycipher/gray-scott-go"
	"gonum.org/v1/gonum/floats"
)

const testKey = "correct horse battery staple"

// fastConfig keeps unit-test passes short: 2 Strang steps on a small grid.
func fastConfig() grayscott.Config {
	return grayscott.Config{
		TimeStep:  grayscott.Float64(0.5),
		TotalTime: grayscott.Float64(1.0),
		PadWidth:  grayscott.Int(2),
	}
}

func testImage(shape grayscott.Shape) []float64 {
	img := make([]float64, shape.Len())
	for i := range img {
		img[i] = float64(i%97) / 96
	}
	return img
}

func TestNewRejectsShortKey(t *testing.T) {
	_, err := New("short", grayscott.Shape{H: 8, W: 8, Channels: 1}, fastConfig())

	var keyErr *grayscott.InvalidKeyError
	if !errors.As(err, &keyErr) {
		t.Fatalf("got %v, want InvalidKeyError", err)
	}
	if keyErr.Length != 5 {
		t.Errorf("reported length %d, want 5", keyErr.Length)
	}
}

func TestNewRejectsBadShape(t *testing.T) {
	cases := []grayscott.Shape{
		{H: 0, W: 8, Channels: 1},
		{H: 8, W: 0, Channels: 1},
		{H: 8, W: 8, Channels: 2},
		{H: 8, W: 8, Channels: 4},
	}
	for _, shape := range cases {
		if _, err := New(testKey, shape, fastConfig()); err == nil {
			t.Errorf("shape %+v accepted", shape)
		}
	}
}

func TestNewRejectsOversizedPad(t *testing.T) {
	cfg := fastConfig()
	cfg.PadWidth = grayscott.Int(8)

	if _, err := New(testKey, grayscott.Shape{H: 8, W: 6, Channels: 1}, cfg); err == nil {
		t.Error("padding wider than the image accepted")
	}
}

func TestParameterOverrides(t *testing.T) {
	cfg := fastConfig()
	cfg.FeedRate = grayscott.Float64(0.033)
	cfg.DiffU = grayscott.Float64(1.25)

	e, err := New(testKey, grayscott.Shape{H: 8, W: 8, Channels: 1}, cfg)
	if err != nil {
		t.Fatalf("construction failed: %v", err)
	}

	p := e.Parameters()
	if p.FeedRate != 0.033 {
		t.Errorf("FeedRate = %v, want the exact override", p.FeedRate)
	}
	if p.DiffU != 1.25 || p.DiffV != 0.625 {
		t.Errorf("DiffU/DiffV = %v/%v, want 1.25/0.625", p.DiffU, p.DiffV)
	}
	if p.StepCount != 2 {
		t.Errorf("StepCount = %d, want 2", p.StepCount)
	}
}

func TestEncryptShapeMismatch(t *testing.T) {
	e, err := New(testKey, grayscott.Shape{H: 8, W: 8, Channels: 1}, fastConfig())
	if err != nil {
		t.Fatalf("construction failed: %v", err)
	}

	_, err = e.Encrypt(make([]float64, 63))
	var shapeErr *grayscott.ShapeMismatchError
	if !errors.As(err, &shapeErr) {
		t.Fatalf("got %v, want ShapeMismatchError", err)
	}
	if shapeErr.Field != "image" {
		t.Errorf("field %q, want image", shapeErr.Field)
	}
}

func TestDecryptShapeMismatch(t *testing.T) {
	shape := grayscott.Shape{H: 8, W: 8, Channels: 1}
	e, err := New(testKey, shape, fastConfig())
	if err != nil {
		t.Fatalf("construction failed: %v", err)
	}
	ct, err := e.Encrypt(testImage(shape))
	if err != nil {
		t.Fatalf("encrypt failed: %v", err)
	}

	var shapeErr *grayscott.ShapeMismatchError

	bad := &Ciphertext{Shape: ct.Shape, Pad: ct.Pad, U: ct.U[:len(ct.U)-1], V: ct.V}
	if _, err := e.Decrypt(bad); !errors.As(err, &shapeErr) || shapeErr.Field != "u" {
		t.Errorf("truncated u: got %v", err)
	}

	bad = &Ciphertext{Shape: ct.Shape, Pad: ct.Pad, U: ct.U, V: append(ct.V, 0)}
	if _, err := e.Decrypt(bad); !errors.As(err, &shapeErr) || shapeErr.Field != "v" {
		t.Errorf("extended v: got %v", err)
	}
}

func TestEncryptDeterministic(t *testing.T) {
	shape := grayscott.Shape{H: 8, W: 7, Channels: 1}
	img := testImage(shape)

	encrypt := func() *Ciphertext {
		e, err := New(testKey, shape, fastConfig())
		if err != nil {
			t.Fatalf("construction failed: %v", err)
		}
		ct, err := e.Encrypt(img)
		if err != nil {
			t.Fatalf("encrypt failed: %v", err)
		}
		return ct
	}

	a, b := encrypt(), encrypt()
	if !floats.Equal(a.U, b.U) || !floats.Equal(a.V, b.V) {
		t.Error("same key produced different ciphertexts")
	}
}

func TestEncryptKeySensitive(t *testing.T) {
	shape := grayscott.Shape{H: 8, W: 7, Channels: 1}
	img := testImage(shape)

	encrypt := func(key string) *Ciphertext {
		e, err := New(key, shape, fastConfig())
		if err != nil {
			t.Fatalf("construction failed: %v", err)
		}
		ct, err := e.Encrypt(img)
		if err != nil {
			t.Fatalf("encrypt failed: %v", err)
		}
		return ct
	}

	a := encrypt(testKey)
	b := encrypt(testKey + "x")

	differing := 0
	for i := range a.U {
		if a.U[i] != b.U[i] {
			differing++
		}
	}
	if differing < len(a.U)/2 {
		t.Errorf("only %d of %d cells differ between keys", differing, len(a.U))
	}
}

func TestDiagnosticsAccumulate(t *testing.T) {
	shape := grayscott.Shape{H: 8, W: 8, Channels: 1}
	e, err := New(testKey, shape, fastConfig())
	if err != nil {
		t.Fatalf("construction failed: %v", err)
	}

	if _, err := e.Encrypt(testImage(shape)); err != nil {
		t.Fatalf("encrypt failed: %v", err)
	}

	d := e.Diagnostics()
	// 2 steps, 2 reaction half-steps each.
	if d.HalfSteps != 4 {
		t.Errorf("HalfSteps = %d, want 4", d.HalfSteps)
	}
}
