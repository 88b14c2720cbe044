package filter

import "image"

// Rec709 is the default linear gray transform (BT.709 luma weights).
var Rec709 = [3]float32{0.2126, 0.7152, 0.0722}

// Threshold is a binary threshold on linear gray: pixels whose gray value
// is strictly greater than Value become Maximum in every color channel,
// all others become 0. Alpha is preserved.
type Threshold struct {
	// Value is the cutoff in [0, 1].
	Value float32

	// Maximum is the output for pixels above the cutoff, in [0, 1].
	Maximum float32

	// Transform weights R, G and B into gray. Zero means Rec709.
	Transform [3]float32
}

// Apply thresholds src into dst. src and dst may be the same image.
func (f Threshold) Apply(dst, src *image.NRGBA) error {
	if err := checkPair(dst, src); err != nil {
		return err
	}

	w := f.Transform
	if w == [3]float32{} {
		w = Rec709
	}
	cutoff := f.Value * 255
	high := clampUint8(f.Maximum * 255)

	b := src.Bounds()
	for y := 0; y < b.Dy(); y++ {
		srow := src.Pix[y*src.Stride : y*src.Stride+b.Dx()*4]
		drow := dst.Pix[y*dst.Stride : y*dst.Stride+b.Dx()*4]
		for i := 0; i < len(srow); i += 4 {
			gray := w[0]*float32(srow[i]) + w[1]*float32(srow[i+1]) + w[2]*float32(srow[i+2])
			var out uint8
			if gray > cutoff {
				out = high
			}
			a := srow[i+3]
			drow[i+0] = out
			drow[i+1] = out
			drow[i+2] = out
			drow[i+3] = a
		}
	}
	return nil
}
