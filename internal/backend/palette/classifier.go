// Package palette classifies dominant image colors into coarse primary color labels.
package palette

import (
	colorful "github.com/lucasb-eyer/go-colorful"
)

// PrimaryColor is the coarse label attached to a dominant color.
type PrimaryColor string

const (
	Red   PrimaryColor = "Red"
	Green PrimaryColor = "Green"
	Blue  PrimaryColor = "Blue"
	None  PrimaryColor = "None"
)

// channelOrder fixes the tie-break order used by DominantChannel.
var channelOrder = [3]PrimaryColor{Red, Green, Blue}

// RGB is an 8-bit color triple in red, green, blue order.
type RGB [3]uint8

// Ints returns the triple as a slice of ints, the shape used in JSON responses.
func (c RGB) Ints() []int {
	return []int{int(c[0]), int(c[1]), int(c[2])}
}

// Hex renders the color as "#rrggbb".
func (c RGB) Hex() string {
	return colorful.Color{
		R: float64(c[0]) / 255.0,
		G: float64(c[1]) / 255.0,
		B: float64(c[2]) / 255.0,
	}.Hex()
}

// IsGrayscale reports whether all three channels are exactly equal.
func IsGrayscale(c RGB) bool {
	return c[0] == c[1] && c[1] == c[2]
}

// DominantChannel returns the label of the channel holding the maximum value.
// When several channels share the maximum the first one in R, G, B order wins.
func DominantChannel(c RGB) PrimaryColor {
	dominant := 0
	for i := 1; i < len(c); i++ {
		if c[i] > c[dominant] {
			dominant = i
		}
	}
	return channelOrder[dominant]
}

// Classify returns None for grayscale colors and the dominant channel otherwise.
func Classify(c RGB) PrimaryColor {
	if IsGrayscale(c) {
		return None
	}
	return DominantChannel(c)
}
