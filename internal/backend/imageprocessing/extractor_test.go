package imageprocessing

import (
	"context"
	"errors"
	"image/color"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/jo-hoe/artcolor/internal/backend/palette"
	"github.com/jo-hoe/artcolor/internal/common"
)

func newImageServer(t *testing.T, routes map[string][]byte) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, ok := routes[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write(data)
	}))
	t.Cleanup(server.Close)
	return server
}

func TestExtractor_DominantColor(t *testing.T) {
	server := newImageServer(t, map[string][]byte{
		"/red.png": encodePNG(t, createSolidImage(64, 64, color.RGBA{210, 40, 30, 255})),
	})

	extractor := NewExtractor(server.Client(), ExtractorConfig{MaxDimension: 16})
	got, err := extractor.DominantColor(context.Background(), server.URL+"/red.png")
	if err != nil {
		t.Fatalf("DominantColor error: %v", err)
	}
	if palette.Classify(got) != palette.Red {
		t.Errorf("expected Red, got %v", got)
	}
}

func TestExtractor_NotFound(t *testing.T) {
	server := newImageServer(t, map[string][]byte{})

	extractor := NewExtractor(server.Client(), ExtractorConfig{})
	_, err := extractor.DominantColor(context.Background(), server.URL+"/missing.jpg")

	var remoteErr *common.RemoteCallError
	if !errors.As(err, &remoteErr) {
		t.Fatalf("expected RemoteCallError, got %v", err)
	}
	if remoteErr.StatusCode != http.StatusNotFound {
		t.Errorf("expected status 404, got %d", remoteErr.StatusCode)
	}
}

func TestExtractor_UndecodableImage(t *testing.T) {
	server := newImageServer(t, map[string][]byte{
		"/broken.jpg": []byte("definitely not a jpeg"),
	})

	extractor := NewExtractor(server.Client(), ExtractorConfig{})
	_, err := extractor.DominantColor(context.Background(), server.URL+"/broken.jpg")

	var parseErr *common.ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("expected ParseError, got %v", err)
	}
}

func TestExtractor_ImageTooLarge(t *testing.T) {
	data := encodePNG(t, createSolidImage(32, 32, color.RGBA{1, 2, 3, 255}))
	server := newImageServer(t, map[string][]byte{"/big.png": data})

	extractor := NewExtractor(server.Client(), ExtractorConfig{MaxImageBytes: int64(len(data) - 1)})
	_, err := extractor.DominantColor(context.Background(), server.URL+"/big.png")

	var parseErr *common.ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("expected ParseError for oversized image, got %v", err)
	}
}

func TestExtractor_PixelBudgetExceeded(t *testing.T) {
	data := withPNGSize(t, encodePNG(t, createSolidImage(2, 2, color.White)), 60000, 60000)
	server := newImageServer(t, map[string][]byte{"/huge.png": data})

	extractor := NewExtractor(server.Client(), ExtractorConfig{MaxPixels: 1_000_000})
	_, err := extractor.DominantColor(context.Background(), server.URL+"/huge.png")

	var parseErr *common.ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("expected ParseError, got %v", err)
	}
	if !errors.Is(err, ErrImageTooLarge) {
		t.Errorf("expected ErrImageTooLarge, got %v", err)
	}
}

func TestExtractor_InvalidURL(t *testing.T) {
	extractor := NewExtractor(nil, ExtractorConfig{})
	_, err := extractor.DominantColor(context.Background(), "://no-scheme")

	var remoteErr *common.RemoteCallError
	if !errors.As(err, &remoteErr) {
		t.Fatalf("expected RemoteCallError, got %v", err)
	}
}
