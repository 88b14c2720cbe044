package filter

import (
	"math"
	"sync"
)

// GaussianKernel generates a 1D Gaussian kernel for standard deviation
// sigma, normalized so all values sum to 1.0.
//
// The kernel size is 2 * ceil(sigma * 3) + 1, covering three standard
// deviations on each side.
//
// For sigma <= 0, returns a single-element kernel [1.0] (identity).
func GaussianKernel(sigma float64) []float32 {
	if sigma <= 0 {
		return []float32{1.0}
	}

	halfSize := int(math.Ceil(sigma * 3))
	size := halfSize*2 + 1

	// exp(-x²/(2σ²)); the 1/(σ√(2π)) factor cancels in the normalization.
	weights := make([]float64, size)
	twoSigmaSq := 2 * sigma * sigma
	var sum float64
	for i := range weights {
		x := float64(i - halfSize)
		weights[i] = math.Exp(-(x * x) / twoSigmaSq)
		sum += weights[i]
	}

	kernel := make([]float32, size)
	for i, w := range weights {
		kernel[i] = float32(w / sum)
	}
	return kernel
}

// kernelCache caches computed Gaussian kernels.
// Key is the bit pattern of sigma, value is kernel.
type kernelCache struct {
	mu     sync.RWMutex
	cache  map[uint64][]float32
	maxLen int
}

var defaultKernelCache = newKernelCache(64)

// newKernelCache creates a kernel cache with the given maximum entries.
func newKernelCache(maxLen int) *kernelCache {
	return &kernelCache{
		cache:  make(map[uint64][]float32),
		maxLen: maxLen,
	}
}

// get retrieves a kernel from cache or generates and caches it.
func (c *kernelCache) get(sigma float64) []float32 {
	key := math.Float64bits(sigma)

	// Try read lock first
	c.mu.RLock()
	if kernel, ok := c.cache[key]; ok {
		c.mu.RUnlock()
		return kernel
	}
	c.mu.RUnlock()

	// Generate kernel
	kernel := GaussianKernel(sigma)

	// Cache with write lock
	c.mu.Lock()
	if len(c.cache) >= c.maxLen {
		// Evict half the cache
		count := 0
		for k := range c.cache {
			delete(c.cache, k)
			count++
			if count >= c.maxLen/2 {
				break
			}
		}
	}
	c.cache[key] = kernel
	c.mu.Unlock()

	return kernel
}

// CachedGaussianKernel returns a cached Gaussian kernel for sigma.
// The returned slice is shared and must not be modified.
func CachedGaussianKernel(sigma float64) []float32 {
	return defaultKernelCache.get(sigma)
}

// KernelSize returns the length of the Gaussian kernel for sigma.
func KernelSize(sigma float64) int {
	if sigma <= 0 {
		return 1
	}
	return int(math.Ceil(sigma*3))*2 + 1
}
