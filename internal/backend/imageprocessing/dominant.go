package imageprocessing

import (
	"errors"
	"image"
	"log/slog"

	"github.com/disintegration/imaging"
	"github.com/jo-hoe/artcolor/internal/backend/palette"
)

const (
	// bits kept per channel when bucketing pixels
	significantBits = 5
	bucketShift     = 8 - significantBits
	bucketCount     = 1 << (3 * significantBits)

	minAlpha   = 125
	whiteFloor = 250
)

// ErrNoOpaquePixels is returned for images without a single sufficiently opaque pixel.
var ErrNoOpaquePixels = errors.New("image has no opaque pixels")

type bucket struct {
	count            uint32
	sumR, sumG, sumB uint64
}

// Downscale shrinks img so that neither side exceeds maxDimension, keeping the aspect ratio.
// Images that already fit are returned unchanged.
func Downscale(img image.Image, maxDimension int) image.Image {
	bounds := img.Bounds()
	if maxDimension <= 0 || (bounds.Dx() <= maxDimension && bounds.Dy() <= maxDimension) {
		return img
	}
	return imaging.Fit(img, maxDimension, maxDimension, imaging.Box)
}

// DominantColor returns the most prevalent color of img.
//
// Pixels are grouped into buckets of 5 significant bits per channel. Pixels with an alpha
// below 125 are ignored, as are near-white pixels unless the image has nothing else.
// The fullest bucket wins, ties going to the lowest bucket index, and the result is the
// rounded mean of the pixels in that bucket.
func DominantColor(img image.Image) (palette.RGB, error) {
	buckets := make([]bucket, bucketCount)
	var whites bucket
	counted := 0

	bounds := img.Bounds()
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r16, g16, b16, a16 := img.At(x, y).RGBA()
			a := uint8(a16 >> 8)
			if a < minAlpha {
				continue
			}
			r, g, b := unpremultiply(r16, a16), unpremultiply(g16, a16), unpremultiply(b16, a16)
			if r > whiteFloor && g > whiteFloor && b > whiteFloor {
				whites.add(r, g, b)
				continue
			}
			buckets[bucketIndex(r, g, b)].add(r, g, b)
			counted++
		}
	}

	if counted == 0 {
		if whites.count == 0 {
			return palette.RGB{}, ErrNoOpaquePixels
		}
		slog.Debug("DominantColor: only near-white pixels found; using their mean")
		return whites.mean(), nil
	}

	best := 0
	for i := 1; i < len(buckets); i++ {
		if buckets[i].count > buckets[best].count {
			best = i
		}
	}
	return buckets[best].mean(), nil
}

func (b *bucket) add(r, g, bl uint8) {
	b.count++
	b.sumR += uint64(r)
	b.sumG += uint64(g)
	b.sumB += uint64(bl)
}

func (b *bucket) mean() palette.RGB {
	half := uint64(b.count) / 2
	n := uint64(b.count)
	return palette.RGB{
		uint8((b.sumR + half) / n),
		uint8((b.sumG + half) / n),
		uint8((b.sumB + half) / n),
	}
}

func bucketIndex(r, g, b uint8) int {
	return int(r>>bucketShift)<<(2*significantBits) |
		int(g>>bucketShift)<<significantBits |
		int(b>>bucketShift)
}

// unpremultiply converts a premultiplied 16-bit channel into a straight 8-bit value.
func unpremultiply(c, a uint32) uint8 {
	if a == 0 {
		return 0
	}
	if a == 0xffff {
		return uint8(c >> 8)
	}
	return uint8((c * 0xffff / a) >> 8)
}
