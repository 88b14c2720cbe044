package filter

import (
	"image"
	"sync"
)

// Blur applies a separable Gaussian blur.
// Pixels outside the image repeat the nearest edge pixel.
type Blur struct {
	// Sigma is the standard deviation of the Gaussian in pixels.
	// Sigma <= 0 copies the source unchanged.
	Sigma float64
}

// Apply blurs src into dst. The two passes are:
//  1. Horizontal: convolve each row of src into a float buffer
//  2. Vertical: convolve each column of the buffer into dst
//
// src and dst may be the same image.
func (f Blur) Apply(dst, src *image.NRGBA) error {
	if err := checkPair(dst, src); err != nil {
		return err
	}

	if f.Sigma <= 0 {
		copyRows(dst, src)
		return nil
	}

	b := src.Bounds()
	width, height := b.Dx(), b.Dy()
	if width == 0 || height == 0 {
		return nil
	}

	kernel := CachedGaussianKernel(f.Sigma)

	temp := getTempBuffer(width * height * 4)
	defer putTempBuffer(temp)

	blurRows(src, temp, width, height, kernel)
	blurColumns(temp, dst, width, height, kernel)
	return nil
}

// blurRows convolves every row of src horizontally into temp (RGBA float32).
func blurRows(src *image.NRGBA, temp []float32, width, height int, kernel []float32) {
	half := len(kernel) / 2

	for y := 0; y < height; y++ {
		row := src.Pix[y*src.Stride : y*src.Stride+width*4]
		for x := 0; x < width; x++ {
			var r, g, bl, a float32
			for k, weight := range kernel {
				kx := clampInt(x+k-half, 0, width-1)
				i := kx * 4
				r += float32(row[i+0]) * weight
				g += float32(row[i+1]) * weight
				bl += float32(row[i+2]) * weight
				a += float32(row[i+3]) * weight
			}
			t := (y*width + x) * 4
			temp[t+0] = r
			temp[t+1] = g
			temp[t+2] = bl
			temp[t+3] = a
		}
	}
}

// blurColumns convolves every column of temp vertically into dst.
func blurColumns(temp []float32, dst *image.NRGBA, width, height int, kernel []float32) {
	half := len(kernel) / 2

	for y := 0; y < height; y++ {
		row := dst.Pix[y*dst.Stride : y*dst.Stride+width*4]
		for x := 0; x < width; x++ {
			var r, g, bl, a float32
			for k, weight := range kernel {
				ky := clampInt(y+k-half, 0, height-1)
				t := (ky*width + x) * 4
				r += temp[t+0] * weight
				g += temp[t+1] * weight
				bl += temp[t+2] * weight
				a += temp[t+3] * weight
			}
			i := x * 4
			row[i+0] = clampUint8(r)
			row[i+1] = clampUint8(g)
			row[i+2] = clampUint8(bl)
			row[i+3] = clampUint8(a)
		}
	}
}

// checkPair validates a source/destination pair.
func checkPair(dst, src *image.NRGBA) error {
	if dst == nil || src == nil {
		return ErrNilImage
	}
	if dst.Bounds().Size() != src.Bounds().Size() {
		return ErrSizeMismatch
	}
	return nil
}

// copyRows copies the pixels of src into dst.
func copyRows(dst, src *image.NRGBA) {
	w := src.Bounds().Dx() * 4
	for y := 0; y < src.Bounds().Dy(); y++ {
		copy(dst.Pix[y*dst.Stride:y*dst.Stride+w], src.Pix[y*src.Stride:y*src.Stride+w])
	}
}

// floatBuffer wraps a slice for sync.Pool to avoid allocation warnings.
type floatBuffer struct {
	data []float32
}

var tempBufferPool = sync.Pool{
	New: func() any {
		return &floatBuffer{data: make([]float32, 512*512*4)}
	},
}

// getTempBuffer returns a buffer of exactly size elements.
func getTempBuffer(size int) []float32 {
	wrapper := tempBufferPool.Get().(*floatBuffer)
	if len(wrapper.data) < size {
		tempBufferPool.Put(wrapper)
		return make([]float32, size)
	}
	return wrapper.data[:size]
}

// putTempBuffer returns a buffer to the pool.
func putTempBuffer(buf []float32) {
	// 64MB max
	if cap(buf) <= 16*1024*1024 {
		tempBufferPool.Put(&floatBuffer{data: buf[:cap(buf)]})
	}
}

// clampInt clamps v to [lo, hi].
func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// clampUint8 clamps a float32 to [0, 255] and rounds to nearest.
func clampUint8(v float32) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v + 0.5)
}
