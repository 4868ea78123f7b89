package imageprocessing

import (
	"errors"
	"image"
	"image/color"
	"testing"

	"github.com/jo-hoe/artcolor/internal/backend/palette"
)

func TestDominantColor_SolidImage(t *testing.T) {
	got, err := DominantColor(createSolidImage(10, 10, color.RGBA{12, 200, 34, 255}))
	if err != nil {
		t.Fatalf("DominantColor error: %v", err)
	}
	expected := palette.RGB{12, 200, 34}
	if got != expected {
		t.Errorf("expected %v, got %v", expected, got)
	}
}

func TestDominantColor_MajorityWins(t *testing.T) {
	img := createSolidImage(10, 10, color.RGBA{20, 30, 220, 255})
	// paint 30 of 100 pixels red
	for y := 0; y < 3; y++ {
		for x := 0; x < 10; x++ {
			img.Set(x, y, color.RGBA{220, 20, 20, 255})
		}
	}

	got, err := DominantColor(img)
	if err != nil {
		t.Fatalf("DominantColor error: %v", err)
	}
	if got != (palette.RGB{20, 30, 220}) {
		t.Errorf("expected blue majority color, got %v", got)
	}
}

func TestDominantColor_AveragesWithinBucket(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 2, 1))
	// both pixels share the 5-bit bucket 0b10000
	img.Set(0, 0, color.RGBA{128, 64, 0, 255})
	img.Set(1, 0, color.RGBA{131, 67, 3, 255})

	got, err := DominantColor(img)
	if err != nil {
		t.Fatalf("DominantColor error: %v", err)
	}
	if got != (palette.RGB{130, 66, 2}) {
		t.Errorf("expected rounded mean (130,66,2), got %v", got)
	}
}

func TestDominantColor_IgnoresWhiteAndTransparent(t *testing.T) {
	img := createSolidImage(10, 10, color.RGBA{255, 255, 255, 255})
	for x := 0; x < 10; x++ {
		img.Set(x, 0, color.RGBA{90, 10, 10, 255})
	}
	for x := 0; x < 10; x++ {
		img.Set(x, 1, color.RGBA{0, 0, 0, 0})
		img.Set(x, 2, color.RGBA{0, 0, 0, 0})
	}

	got, err := DominantColor(img)
	if err != nil {
		t.Fatalf("DominantColor error: %v", err)
	}
	if got != (palette.RGB{90, 10, 10}) {
		t.Errorf("expected non-white color to win, got %v", got)
	}
}

func TestDominantColor_OnlyWhite(t *testing.T) {
	got, err := DominantColor(createSolidImage(5, 5, color.RGBA{252, 252, 252, 255}))
	if err != nil {
		t.Fatalf("DominantColor error: %v", err)
	}
	if got != (palette.RGB{252, 252, 252}) {
		t.Errorf("expected white fallback, got %v", got)
	}
}

func TestDominantColor_FullyTransparent(t *testing.T) {
	_, err := DominantColor(image.NewRGBA(image.Rect(0, 0, 3, 3)))
	if !errors.Is(err, ErrNoOpaquePixels) {
		t.Errorf("expected ErrNoOpaquePixels, got %v", err)
	}
}

func TestDownscale(t *testing.T) {
	tests := []struct {
		name         string
		w, h         int
		maxDimension int
		expectedW    int
		expectedH    int
	}{
		{name: "landscape", w: 400, h: 200, maxDimension: 100, expectedW: 100, expectedH: 50},
		{name: "portrait", w: 100, h: 300, maxDimension: 60, expectedW: 20, expectedH: 60},
		{name: "already small", w: 50, h: 40, maxDimension: 100, expectedW: 50, expectedH: 40},
		{name: "disabled", w: 500, h: 500, maxDimension: 0, expectedW: 500, expectedH: 500},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := Downscale(image.NewRGBA(image.Rect(0, 0, tt.w, tt.h)), tt.maxDimension)
			if out.Bounds().Dx() != tt.expectedW || out.Bounds().Dy() != tt.expectedH {
				t.Errorf("expected %dx%d, got %dx%d", tt.expectedW, tt.expectedH, out.Bounds().Dx(), out.Bounds().Dy())
			}
		})
	}
}

func TestDownscale_KeepsDominantColor(t *testing.T) {
	img := createSolidImage(300, 300, color.RGBA{40, 180, 60, 255})
	got, err := DominantColor(Downscale(img, 32))
	if err != nil {
		t.Fatalf("DominantColor error: %v", err)
	}
	if palette.Classify(got) != palette.Green {
		t.Errorf("expected Green after downscale, got %v (%s)", got, palette.Classify(got))
	}
}
