package filter

import (
	"math"
	"sync"
)

// GaussianKernel returns a normalized 1D Gaussian kernel with sigma
// equal to radius. The kernel has 2*ceil(3*radius)+1 taps, which covers
// three standard deviations on each side.
//
// For radius <= 0 the identity kernel [1] is returned.
func GaussianKernel(radius float64) []float32 {
	if radius <= 0 {
		return []float32{1}
	}
	half := Margin(radius)
	kernel := make([]float32, 2*half+1)

	twoSigmaSq := 2 * radius * radius
	sum := 0.0
	for i := range kernel {
		x := float64(i - half)
		v := math.Exp(-(x * x) / twoSigmaSq)
		kernel[i] = float32(v)
		sum += v
	}
	inv := float32(1 / sum)
	for i := range kernel {
		kernel[i] *= inv
	}
	return kernel
}

// Margin returns how many pixels a blur of the given radius spreads on
// each side.
func Margin(radius float64) int {
	if radius <= 0 {
		return 0
	}
	return int(math.Ceil(radius * 3))
}

// kernelCache keeps kernels per radius quantized to 1/100 pixel.
// Diagrams use a handful of shadow depths, so it stays small.
type kernelCache struct {
	mu     sync.RWMutex
	byKey  map[int][]float32
	maxLen int
}

var defaultKernelCache = &kernelCache{byKey: make(map[int][]float32), maxLen: 64}

func (c *kernelCache) get(radius float64) []float32 {
	key := int(radius * 100)

	c.mu.RLock()
	k, ok := c.byKey[key]
	c.mu.RUnlock()
	if ok {
		return k
	}

	k = GaussianKernel(radius)
	c.mu.Lock()
	if len(c.byKey) >= c.maxLen {
		clear(c.byKey)
	}
	c.byKey[key] = k
	c.mu.Unlock()
	return k
}

// CachedGaussianKernel is [GaussianKernel] through a shared cache.
// The returned slice must not be modified.
func CachedGaussianKernel(radius float64) []float32 {
	return defaultKernelCache.get(radius)
}
