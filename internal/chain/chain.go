// Package chain runs the threshold, turn-over, blur and present passes on
// the CPU. Its output is the reference the GPU programs in package host are
// compared against.
package chain

import (
	"context"
	"errors"
	"fmt"
	"image"

	xdraw "golang.org/x/image/draw"

	"github.com/gogpu/argtable"
	"github.com/gogpu/argtable/internal/filter"
)

// Default pass parameters.
const (
	DefaultThreshold = 0.2
	DefaultMaximum   = 1.0
	DefaultSigma     = 10.0
)

var (
	// ErrNilSource is returned when Run is called without a source image.
	ErrNilSource = errors.New("chain: nil source image")

	// ErrInvalidSize is returned for a negative output size.
	ErrInvalidSize = errors.New("chain: invalid output size")
)

type config struct {
	threshold float32
	maximum   float32
	sigma     float64
	size      image.Point
}

// Option configures Run.
type Option func(*config)

// WithThreshold sets the binary threshold cutoff in [0, 1].
func WithThreshold(v float32) Option {
	return func(c *config) { c.threshold = v }
}

// WithMaximum sets the value written for pixels above the cutoff.
func WithMaximum(v float32) Option {
	return func(c *config) { c.maximum = v }
}

// WithSigma sets the blur standard deviation in pixels.
func WithSigma(sigma float64) Option {
	return func(c *config) { c.sigma = sigma }
}

// WithSize sets the output size. A zero width or height keeps that
// dimension of the source.
func WithSize(width, height int) Option {
	return func(c *config) { c.size = image.Pt(width, height) }
}

// Run applies the four passes to src and returns the presented image.
// The context is checked before each pass.
func Run(ctx context.Context, src image.Image, opts ...Option) (*image.NRGBA, error) {
	if src == nil {
		return nil, ErrNilSource
	}

	cfg := config{
		threshold: DefaultThreshold,
		maximum:   DefaultMaximum,
		sigma:     DefaultSigma,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.size.X < 0 || cfg.size.Y < 0 {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSize, cfg.size)
	}

	log := argtable.Logger()

	img := toNRGBA(src)
	b := img.Bounds()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	thr := filter.Threshold{Value: cfg.threshold, Maximum: cfg.maximum}
	if err := thr.Apply(img, img); err != nil {
		return nil, fmt.Errorf("chain: threshold: %w", err)
	}
	log.Debug("chain: threshold", "value", cfg.threshold, "maximum", cfg.maximum)

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	turned := image.NewNRGBA(b)
	TurnOver(turned, img)

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := (filter.Blur{Sigma: cfg.sigma}).Apply(turned, turned); err != nil {
		return nil, fmt.Errorf("chain: blur: %w", err)
	}
	log.Debug("chain: blur", "sigma", cfg.sigma, "kernel", filter.KernelSize(cfg.sigma))

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out := Present(turned, cfg.size)
	log.Debug("chain: present", "bounds", out.Bounds())
	return out, nil
}

// TurnOver writes src mirrored top to bottom into dst, the way the
// turn-over fragment program samples with v = 1 - v. dst and src must have
// the same size and must not alias.
func TurnOver(dst, src *image.NRGBA) {
	b := src.Bounds()
	w := b.Dx() * 4
	h := b.Dy()
	for y := 0; y < h; y++ {
		s := src.Pix[(h-1-y)*src.Stride : (h-1-y)*src.Stride+w]
		copy(dst.Pix[y*dst.Stride:y*dst.Stride+w], s)
	}
}

// Present fits src into a new image of the given size. A zero dimension
// keeps the source dimension; a size equal to the source returns a copy.
func Present(src *image.NRGBA, size image.Point) *image.NRGBA {
	sb := src.Bounds()
	if size.X == 0 {
		size.X = sb.Dx()
	}
	if size.Y == 0 {
		size.Y = sb.Dy()
	}
	if size == sb.Size() {
		out := image.NewNRGBA(image.Rectangle{Max: sb.Size()})
		xdraw.Copy(out, image.Point{}, src, sb, xdraw.Src, nil)
		return out
	}
	out := image.NewNRGBA(image.Rectangle{Max: size})
	xdraw.CatmullRom.Scale(out, out.Bounds(), src, sb, xdraw.Src, nil)
	return out
}

// toNRGBA returns a fresh NRGBA copy of src anchored at the origin.
func toNRGBA(src image.Image) *image.NRGBA {
	b := src.Bounds()
	dst := image.NewNRGBA(image.Rectangle{Max: b.Size()})
	xdraw.Copy(dst, image.Point{}, src, b, xdraw.Src, nil)
	return dst
}
