package imageprocessing

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"log/slog"
	"strings"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

const (
	formatSVG = "svg"

	// DefaultMaxPixels bounds the raster size of images decoded without an explicit budget.
	DefaultMaxPixels = 40_000_000
	// svgMaxRenderDimension caps the SVG canvas when no analysis size is configured.
	svgMaxRenderDimension = 4096
	// svgMaxAttrValue saturates parsed width and height attributes.
	svgMaxAttrValue = 1 << 30
)

// ErrImageTooLarge reports a raster image whose declared size exceeds the pixel budget.
var ErrImageTooLarge = errors.New("image exceeds pixel budget")

// DecoderConfig bounds the images a Decoder is willing to materialize.
type DecoderConfig struct {
	// MaxDimension is the longest side of a rendered SVG canvas.
	MaxDimension int
	// MaxPixels is the largest width*height a raster image may declare.
	MaxPixels         int
	SvgFallbackWidth  int
	SvgFallbackHeight int
}

// Decoder turns downloaded image bytes into an image.Image.
// Raster formats go through image.Decode; SVG documents are rasterized.
type Decoder struct {
	maxDimension      int
	maxPixels         int64
	svgFallbackWidth  int
	svgFallbackHeight int
}

// NewDecoder creates a decoder. The fallback dimensions are only used for SVG
// documents that do not declare an explicit width and height.
func NewDecoder(config DecoderConfig) *Decoder {
	maxDimension := config.MaxDimension
	if maxDimension <= 0 || maxDimension > svgMaxRenderDimension {
		maxDimension = svgMaxRenderDimension
	}
	maxPixels := config.MaxPixels
	if maxPixels <= 0 {
		maxPixels = DefaultMaxPixels
	}
	return &Decoder{
		maxDimension:      maxDimension,
		maxPixels:         int64(maxPixels),
		svgFallbackWidth:  config.SvgFallbackWidth,
		svgFallbackHeight: config.SvgFallbackHeight,
	}
}

// Decode returns the decoded image and its format name.
func (d *Decoder) Decode(data []byte) (image.Image, string, error) {
	if isSVGData(data) {
		img, err := d.decodeSVG(data)
		if err != nil {
			return nil, formatSVG, err
		}
		return img, formatSVG, nil
	}

	// the header is read first so oversized rasters are never allocated
	config, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("failed to decode image header: %w", err)
	}
	if config.Width <= 0 || config.Height <= 0 {
		return nil, format, fmt.Errorf("invalid image size %dx%d", config.Width, config.Height)
	}
	if int64(config.Width)*int64(config.Height) > d.maxPixels {
		return nil, format, fmt.Errorf("%w: %dx%d is more than %d pixels",
			ErrImageTooLarge, config.Width, config.Height, d.maxPixels)
	}

	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("failed to decode image: %w", err)
	}

	slog.Debug("Decoder: decoded raster image",
		"format", format,
		"width", img.Bounds().Dx(),
		"height", img.Bounds().Dy())
	return img, format, nil
}

func (d *Decoder) decodeSVG(data []byte) (image.Image, error) {
	w, h, ok := parseSvgExplicitSize(data)
	if ok {
		slog.Debug("Decoder: SVG has explicit size", "width", w, "height", h)
	} else {
		w, h = d.svgFallbackWidth, d.svgFallbackHeight
		if w <= 0 || h <= 0 {
			return nil, fmt.Errorf("SVG fallback size not set; cannot render SVG without explicit size")
		}
		slog.Debug("Decoder: SVG lacks explicit size; using fallback", "width", w, "height", h)
	}

	// the result is downscaled to maxDimension anyway, so render no larger than that
	w, h = fitWithin(w, h, d.maxDimension)

	img, err := renderSVG(data, w, h)
	if err != nil {
		return nil, fmt.Errorf("failed to render SVG: %w", err)
	}
	return img, nil
}

// fitWithin shrinks w x h so that neither side exceeds limit, keeping the aspect ratio.
func fitWithin(w, h, limit int) (int, int) {
	if w <= limit && h <= limit {
		return w, h
	}
	if w >= h {
		return limit, max(1, int(float64(h)*float64(limit)/float64(w)))
	}
	return max(1, int(float64(w)*float64(limit)/float64(h))), limit
}

// parseSvgExplicitSize extracts the width and height attributes of the <svg> start tag.
// viewBox is deliberately not treated as a pixel size.
func parseSvgExplicitSize(data []byte) (int, int, bool) {
	n := len(data)
	if n > 8192 {
		n = 8192
	}
	s := strings.ToLower(string(data[:n]))
	i := strings.Index(s, "<svg")
	if i < 0 {
		return 0, 0, false
	}
	j := strings.Index(s[i:], ">")
	if j < 0 {
		j = len(s)
	} else {
		j = i + j
	}
	tag := s[i:j]

	w, wOk := parseNumericAttr(tag, "width")
	h, hOk := parseNumericAttr(tag, "height")
	if wOk && hOk {
		return w, h, true
	}
	return 0, 0, false
}

// parseNumericAttr reads the leading integer of a quoted attribute value, e.g. width="123px".
func parseNumericAttr(tag, attr string) (int, bool) {
	pos := strings.Index(tag, " "+attr+"=")
	if pos < 0 {
		return 0, false
	}
	rest := tag[pos+len(attr)+2:]
	if rest == "" || (rest[0] != '"' && rest[0] != '\'') {
		return 0, false
	}
	quote := rest[0]
	val := rest[1:]
	if end := strings.IndexByte(val, quote); end >= 0 {
		val = val[:end]
	}

	num := 0
	found := false
	for k := 0; k < len(val); k++ {
		ch := val[k]
		if ch >= '0' && ch <= '9' {
			found = true
			num = min(num*10+int(ch-'0'), svgMaxAttrValue)
		} else if found || ch != ' ' {
			break
		}
	}
	if !found || num <= 0 {
		return 0, false
	}
	return num, true
}

// isSVGData sniffs the first 4KB for an <svg tag or the SVG namespace.
func isSVGData(data []byte) bool {
	if len(data) == 0 {
		return false
	}
	n := len(data)
	if n > 4096 {
		n = 4096
	}
	header := bytes.ToLower(bytes.TrimSpace(data[:n]))
	return bytes.Contains(header, []byte("<svg")) ||
		bytes.Contains(header, []byte("xmlns=\"http://www.w3.org/2000/svg\"")) ||
		bytes.Contains(header, []byte("xmlns='http://www.w3.org/2000/svg'"))
}

// renderSVG rasterizes an SVG document onto a white canvas of the given size.
func renderSVG(svgData []byte, targetW, targetH int) (*image.RGBA, error) {
	icon, err := oksvg.ReadIconStream(bytes.NewReader(svgData))
	if err != nil {
		return nil, fmt.Errorf("failed to parse SVG: %w", err)
	}
	icon.SetTarget(0, 0, float64(targetW), float64(targetH))

	dst := image.NewRGBA(image.Rect(0, 0, targetW, targetH))
	draw.Draw(dst, dst.Bounds(), &image.Uniform{C: color.RGBA{255, 255, 255, 255}}, image.Point{}, draw.Src)

	scanner := rasterx.NewScannerGV(targetW, targetH, dst, dst.Bounds())
	dasher := rasterx.NewDasher(targetW, targetH, scanner)
	icon.Draw(dasher, 1.0)
	return dst, nil
}
