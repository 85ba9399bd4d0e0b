package catalyst

import (
	"testing"

	"github.com/graycipher/gray-scott-go/utils"
	"gonum.org/v1/gonum/floats"
)

func TestSynthesizeDeterministic(t *testing.T) {
	v1 := Synthesize(utils.NewStream(424242), 20, 30)
	v2 := Synthesize(utils.NewStream(424242), 20, 30)

	if len(v1) != 20*30 {
		t.Fatalf("field length %d, want %d", len(v1), 20*30)
	}
	if !floats.Equal(v1, v2) {
		t.Error("same seed produced different catalyst fields")
	}
}

func TestSynthesizeSeedSensitive(t *testing.T) {
	v1 := Synthesize(utils.NewStream(1), 16, 16)
	v2 := Synthesize(utils.NewStream(2), 16, 16)

	if floats.Equal(v1, v2) {
		t.Error("different seeds produced identical catalyst fields")
	}
}

func TestSynthesizeBounds(t *testing.T) {
	// Stacked kernels can sum past the ceiling; the rescale must bring every
	// seed's field back under it. The slack covers the scale multiply.
	const slack = 1e-12
	for _, seed := range []uint32{1, 7, 42, 777, 31337} {
		v := Synthesize(utils.NewStream(seed), 32, 32)
		for i, x := range v {
			if x < 0 {
				t.Fatalf("seed %d: cell %d negative: %v", seed, i, x)
			}
			if x > FieldCeiling+slack {
				t.Fatalf("seed %d: cell %d = %v exceeds ceiling %v", seed, i, x, FieldCeiling)
			}
		}
		if floats.Max(v) <= 0 {
			t.Errorf("seed %d: catalyst field is identically zero", seed)
		}
	}
}

func TestSampleKernelRanges(t *testing.T) {
	kernels := sample(utils.NewStream(9), 40, 60)

	if len(kernels) < KernelCountMin || len(kernels) >= KernelCountMax {
		t.Fatalf("kernel count %d outside [%d, %d)", len(kernels), KernelCountMin, KernelCountMax)
	}
	for i, k := range kernels {
		if k.Amplitude < AmplitudeMin || k.Amplitude >= AmplitudeMax {
			t.Errorf("kernel %d amplitude %v out of range", i, k.Amplitude)
		}
		if k.Sigma < SigmaMin || k.Sigma >= SigmaMax {
			t.Errorf("kernel %d sigma %v out of range", i, k.Sigma)
		}
		if k.CX < 0 || k.CX >= 60 || k.CY < 0 || k.CY >= 40 {
			t.Errorf("kernel %d center (%v, %v) outside grid", i, k.CX, k.CY)
		}
	}
}
