package filter

import (
	"errors"
	"image"
	"image/color"
	"testing"
)

func TestThreshold(t *testing.T) {
	tests := []struct {
		name string
		f    Threshold
		in   color.NRGBA
		want color.NRGBA
	}{
		{
			name: "white above cutoff",
			f:    Threshold{Value: 0.2, Maximum: 1},
			in:   color.NRGBA{R: 255, G: 255, B: 255, A: 255},
			want: color.NRGBA{R: 255, G: 255, B: 255, A: 255},
		},
		{
			name: "black below cutoff",
			f:    Threshold{Value: 0.2, Maximum: 1},
			in:   color.NRGBA{A: 255},
			want: color.NRGBA{A: 255},
		},
		{
			name: "pure blue is dark under rec709",
			f:    Threshold{Value: 0.2, Maximum: 1},
			in:   color.NRGBA{B: 255, A: 255},
			want: color.NRGBA{A: 255},
		},
		{
			name: "pure green is bright under rec709",
			f:    Threshold{Value: 0.2, Maximum: 1},
			in:   color.NRGBA{G: 255, A: 255},
			want: color.NRGBA{R: 255, G: 255, B: 255, A: 255},
		},
		{
			name: "custom maximum",
			f:    Threshold{Value: 0.1, Maximum: 0.5},
			in:   color.NRGBA{R: 200, G: 200, B: 200, A: 255},
			want: color.NRGBA{R: 128, G: 128, B: 128, A: 255},
		},
		{
			name: "custom transform picks blue",
			f:    Threshold{Value: 0.5, Maximum: 1, Transform: [3]float32{0, 0, 1}},
			in:   color.NRGBA{B: 255, A: 255},
			want: color.NRGBA{R: 255, G: 255, B: 255, A: 255},
		},
		{
			name: "alpha preserved",
			f:    Threshold{Value: 0.2, Maximum: 1},
			in:   color.NRGBA{R: 255, G: 255, B: 255, A: 40},
			want: color.NRGBA{R: 255, G: 255, B: 255, A: 40},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := filledImage(3, 2, tt.in)
			dst := image.NewNRGBA(src.Bounds())
			if err := tt.f.Apply(dst, src); err != nil {
				t.Fatalf("Apply() error = %v", err)
			}
			if got := dst.NRGBAAt(1, 1); got != tt.want {
				t.Errorf("pixel = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestThresholdStrictlyGreater(t *testing.T) {
	// Gray exactly at the cutoff stays 0.
	src := filledImage(1, 1, color.NRGBA{R: 51, G: 51, B: 51, A: 255})
	dst := image.NewNRGBA(src.Bounds())
	if err := (Threshold{Value: 0.2, Maximum: 1, Transform: [3]float32{1, 0, 0}}).Apply(dst, src); err != nil {
		t.Fatal(err)
	}
	if got := dst.NRGBAAt(0, 0).R; got != 0 {
		t.Errorf("pixel at cutoff = %d, want 0", got)
	}
}

func TestThresholdErrors(t *testing.T) {
	a := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	b := image.NewNRGBA(image.Rect(0, 0, 2, 3))
	f := Threshold{Value: 0.2, Maximum: 1}

	if err := f.Apply(nil, a); !errors.Is(err, ErrNilImage) {
		t.Errorf("nil dst: error = %v, want ErrNilImage", err)
	}
	if err := f.Apply(a, b); !errors.Is(err, ErrSizeMismatch) {
		t.Errorf("size mismatch: error = %v, want ErrSizeMismatch", err)
	}
}
