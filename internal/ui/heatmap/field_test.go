package heatmap

import (
	"math"
	"testing"
)

func TestNew_RejectsMismatchedLength(t *testing.T) {
	if _, err := New(3, 2, make([]float64, 5)); err == nil {
		t.Fatal("expected length mismatch error")
	}
	if _, err := New(0, 2, nil); err == nil {
		t.Fatal("expected empty grid error")
	}
}

func TestField_AtAndMinMax(t *testing.T) {
	f, err := New(3, 2, []float64{1, 2, 3, 4, 5, 6})
	if err != nil {
		t.Fatalf("New error: %v", err)
	}

	if got := f.At(2, 0); got != 3 {
		t.Errorf("At(2,0) = %g, want 3", got)
	}
	if got := f.At(0, 1); got != 4 {
		t.Errorf("At(0,1) = %g, want 4", got)
	}

	min, max := f.MinMax()
	if min != 1 || max != 6 {
		t.Errorf("MinMax = %g, %g, want 1, 6", min, max)
	}
}

func TestField_Scaled(t *testing.T) {
	f, _ := New(2, 1, []float64{210, 420})
	g := f.Scaled(100.0 / 10000.0)

	if got := g.At(0, 0); math.Abs(got-2.1) > 1e-12 {
		t.Errorf("scaled value = %g, want 2.1", got)
	}
	if f.At(0, 0) != 210 {
		t.Error("Scaled must not mutate the receiver")
	}
}

func TestField_DownsampleAverages(t *testing.T) {
	// 4x2 field, stride 2 blocks average to 2x1.
	f, _ := New(4, 2, []float64{
		1, 3, 10, 30,
		5, 7, 50, 70,
	})

	g := f.Downsample(2)
	if g.NX != 2 || g.NY != 1 {
		t.Fatalf("downsampled to %dx%d, want 2x1", g.NX, g.NY)
	}
	if got := g.At(0, 0); got != 4 {
		t.Errorf("block mean = %g, want 4", got)
	}
	if got := g.At(1, 0); got != 40 {
		t.Errorf("block mean = %g, want 40", got)
	}
}

func TestField_DownsampleNoOpWhenNarrow(t *testing.T) {
	f, _ := New(3, 2, []float64{1, 2, 3, 4, 5, 6})
	g := f.Downsample(10)
	if g.NX != 3 || g.NY != 2 {
		t.Fatalf("unexpected resample to %dx%d", g.NX, g.NY)
	}
}
