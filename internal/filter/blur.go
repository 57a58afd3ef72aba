package filter

import "image"

// BlurAlpha returns a copy of src blurred with a Gaussian of the given
// radius. The result has the same bounds as src; samples past the edges
// repeat the edge value, so masks should be padded by [Margin] pixels.
func BlurAlpha(src *image.Alpha, radius float64) *image.Alpha {
	b := src.Bounds()
	dst := image.NewAlpha(b)
	if radius <= 0 || b.Empty() {
		for y := 0; y < b.Dy(); y++ {
			copy(dst.Pix[y*dst.Stride:y*dst.Stride+b.Dx()], src.Pix[y*src.Stride:])
		}
		return dst
	}

	kernel := CachedGaussianKernel(radius)
	half := len(kernel) / 2
	w, h := b.Dx(), b.Dy()
	temp := make([]float32, w*h)

	// Horizontal pass into temp.
	for y := 0; y < h; y++ {
		row := src.Pix[y*src.Stride:]
		for x := 0; x < w; x++ {
			var sum float32
			for k, kv := range kernel {
				sx := clampInt(x+k-half, 0, w-1)
				sum += float32(row[sx]) * kv
			}
			temp[y*w+x] = sum
		}
	}

	// Vertical pass into dst.
	for y := 0; y < h; y++ {
		out := dst.Pix[y*dst.Stride:]
		for x := 0; x < w; x++ {
			var sum float32
			for k, kv := range kernel {
				sy := clampInt(y+k-half, 0, h-1)
				sum += temp[sy*w+x] * kv
			}
			out[x] = clampUint8(sum)
		}
	}
	return dst
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampUint8(v float32) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(v + 0.5)
}
