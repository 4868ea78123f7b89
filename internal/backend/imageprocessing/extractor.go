// Package imageprocessing downloads artwork images and derives their dominant color.
package imageprocessing

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/jo-hoe/artcolor/internal/backend/palette"
	"github.com/jo-hoe/artcolor/internal/common"
)

// ExtractorConfig tunes how images are fetched and analysed.
type ExtractorConfig struct {
	MaxDimension      int
	MaxImageBytes     int64
	MaxPixels         int
	SvgFallbackWidth  int
	SvgFallbackHeight int
}

// Extractor derives the dominant color of remote images.
type Extractor struct {
	httpClient   *http.Client
	decoder      *Decoder
	maxDimension int
	maxBytes     int64
}

// NewExtractor creates an extractor. A nil httpClient falls back to http.DefaultClient.
func NewExtractor(httpClient *http.Client, config ExtractorConfig) *Extractor {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	decoder := NewDecoder(DecoderConfig{
		MaxDimension:      config.MaxDimension,
		MaxPixels:         config.MaxPixels,
		SvgFallbackWidth:  config.SvgFallbackWidth,
		SvgFallbackHeight: config.SvgFallbackHeight,
	})
	return &Extractor{
		httpClient:   httpClient,
		decoder:      decoder,
		maxDimension: config.MaxDimension,
		maxBytes:     config.MaxImageBytes,
	}
}

// DominantColor downloads the image at imageURL and returns its dominant color.
func (e *Extractor) DominantColor(ctx context.Context, imageURL string) (palette.RGB, error) {
	data, err := e.download(ctx, imageURL)
	if err != nil {
		return palette.RGB{}, err
	}

	img, format, err := e.decoder.Decode(data)
	if err != nil {
		return palette.RGB{}, &common.ParseError{URL: imageURL, Err: err}
	}

	color, err := DominantColor(Downscale(img, e.maxDimension))
	if err != nil {
		return palette.RGB{}, &common.ParseError{URL: imageURL, Err: err}
	}

	slog.Debug("Extractor: dominant color computed",
		"url", imageURL,
		"format", format,
		"input_size_bytes", len(data),
		"color", color.Hex())
	return color, nil
}

func (e *Extractor) download(ctx context.Context, imageURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return nil, &common.RemoteCallError{URL: imageURL, Err: err}
	}

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return nil, &common.RemoteCallError{URL: imageURL, Err: err}
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, &common.RemoteCallError{
			URL:        imageURL,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("unexpected status %s", resp.Status),
		}
	}

	var body io.Reader = resp.Body
	if e.maxBytes > 0 {
		body = io.LimitReader(resp.Body, e.maxBytes+1)
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return nil, &common.RemoteCallError{URL: imageURL, Err: fmt.Errorf("failed to read image body: %w", err)}
	}
	if e.maxBytes > 0 && int64(len(data)) > e.maxBytes {
		return nil, &common.ParseError{URL: imageURL, Err: fmt.Errorf("image exceeds %d bytes", e.maxBytes)}
	}
	return data, nil
}
