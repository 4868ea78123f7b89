package palette

import (
	"testing"
)

func TestIsGrayscale_MatchesChannelEquality(t *testing.T) {
	values := []uint8{0, 1, 10, 127, 128, 254, 255}
	for _, r := range values {
		for _, g := range values {
			for _, b := range values {
				c := RGB{r, g, b}
				expected := r == g && g == b
				if got := IsGrayscale(c); got != expected {
					t.Errorf("IsGrayscale(%v) = %v, expected %v", c, got, expected)
				}
			}
		}
	}
}

func TestIsGrayscale_TwoEqualChannels(t *testing.T) {
	for r := 0; r < 256; r += 15 {
		c := RGB{uint8(r), 100, 100}
		expected := r == 100
		if got := IsGrayscale(c); got != expected {
			t.Errorf("IsGrayscale(%v) = %v, expected %v", c, got, expected)
		}
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		color    RGB
		expected PrimaryColor
	}{
		{name: "green dominant", color: RGB{5, 10, 3}, expected: Green},
		{name: "grayscale", color: RGB{10, 10, 10}, expected: None},
		{name: "red and green tie", color: RGB{10, 10, 3}, expected: Red},
		{name: "red and green tie at seven", color: RGB{7, 7, 2}, expected: Red},
		{name: "green and blue tie", color: RGB{1, 9, 9}, expected: Green},
		{name: "red and blue tie", color: RGB{9, 1, 9}, expected: Red},
		{name: "blue dominant", color: RGB{0, 0, 1}, expected: Blue},
		{name: "black", color: RGB{0, 0, 0}, expected: None},
		{name: "white", color: RGB{255, 255, 255}, expected: None},
		{name: "red dominant", color: RGB{200, 30, 40}, expected: Red},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.color); got != tt.expected {
				t.Errorf("Classify(%v) = %q, expected %q", tt.color, got, tt.expected)
			}
		})
	}
}

func TestDominantChannel_AllEqualReturnsRed(t *testing.T) {
	if got := DominantChannel(RGB{42, 42, 42}); got != Red {
		t.Errorf("expected Red for three-way tie, got %q", got)
	}
}

func TestRGB_Hex(t *testing.T) {
	tests := []struct {
		color    RGB
		expected string
	}{
		{RGB{0, 0, 0}, "#000000"},
		{RGB{255, 255, 255}, "#ffffff"},
		{RGB{255, 0, 128}, "#ff0080"},
	}
	for _, tt := range tests {
		if got := tt.color.Hex(); got != tt.expected {
			t.Errorf("Hex(%v) = %q, expected %q", tt.color, got, tt.expected)
		}
	}
}

func TestRGB_Ints(t *testing.T) {
	got := RGB{1, 2, 3}.Ints()
	if len(got) != 3 || got[0] != 1 || got[1] != 2 || got[2] != 3 {
		t.Errorf("expected [1 2 3], got %v", got)
	}
}
