// Package media turns uploaded images into inline data URLs for Image and
// Navbar logo nodes
package media

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/AtRiskMedia/pagetree-go/internal/infrastructure/observability/logging"
	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"
)

var (
	ErrEmptyImage       = errors.New("empty image data")
	ErrImageTooLarge    = errors.New("image exceeds upload limit")
	ErrUnsupportedImage = errors.New("unsupported image format")
)

// ImageProcessor downsizes raster images and re-encodes them as WebP
type ImageProcessor struct {
	maxWidth int
	quality  float32
	maxBytes int
	logger   *logging.ChanneledLogger
}

// NewImageProcessor creates a processor. maxWidth of zero keeps the
// original width; maxBytes of zero accepts any size.
func NewImageProcessor(maxWidth, quality, maxBytes int, logger *logging.ChanneledLogger) *ImageProcessor {
	if quality <= 0 || quality > 100 {
		quality = 85
	}
	if logger == nil {
		logger = logging.NewDiscardLogger()
	}
	return &ImageProcessor{
		maxWidth: maxWidth,
		quality:  float32(quality),
		maxBytes: maxBytes,
		logger:   logger,
	}
}

// ToDataURL returns data as a data URL. SVG passes through untouched; any
// other format imaging can decode is resized to the width limit and
// re-encoded as WebP.
func (p *ImageProcessor) ToDataURL(data []byte) (string, error) {
	start := time.Now()
	if len(data) == 0 {
		return "", ErrEmptyImage
	}
	if p.maxBytes > 0 && len(data) > p.maxBytes {
		return "", fmt.Errorf("%w: %d bytes (limit %d)", ErrImageTooLarge, len(data), p.maxBytes)
	}

	if isSVG(data) {
		p.logger.Media().Debug("SVG upload passed through", "bytes", len(data))
		return "data:image/svg+xml;base64," + base64.StdEncoding.EncodeToString(data), nil
	}

	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		p.logger.Media().Warn("Failed to decode image upload", "error", err.Error(), "bytes", len(data))
		return "", fmt.Errorf("%w: %v", ErrUnsupportedImage, err)
	}

	original := img.Bounds()
	if p.maxWidth > 0 && original.Dx() > p.maxWidth {
		img = imaging.Resize(img, p.maxWidth, 0, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := webp.Encode(&buf, img, &webp.Options{Quality: p.quality}); err != nil {
		p.logger.Media().Error("Failed to encode WebP", "error", err.Error())
		return "", fmt.Errorf("failed to encode webp: %w", err)
	}

	p.logger.Media().Info("Image converted to WebP data URL",
		"originalWidth", original.Dx(), "width", img.Bounds().Dx(),
		"inBytes", len(data), "outBytes", buf.Len(), "duration", time.Since(start))
	return "data:image/webp;base64," + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

var dataURLPattern = regexp.MustCompile(`^data:(image/[\w.+-]+);base64,`)

// DecodeDataURL extracts the bytes and MIME type of a base64 image data URL
func DecodeDataURL(s string) ([]byte, string, error) {
	m := dataURLPattern.FindStringSubmatch(s)
	if m == nil {
		return nil, "", fmt.Errorf("%w: not a base64 image data URL", ErrUnsupportedImage)
	}
	decoded, err := base64.StdEncoding.DecodeString(s[len(m[0]):])
	if err != nil {
		return nil, "", fmt.Errorf("failed to decode base64: %w", err)
	}
	return decoded, m[1], nil
}

func isSVG(data []byte) bool {
	head := data
	if len(head) > 512 {
		head = head[:512]
	}
	s := strings.ToLower(strings.TrimSpace(string(head)))
	if strings.HasPrefix(s, "<svg") {
		return true
	}
	return strings.HasPrefix(s, "<?xml") && strings.Contains(s, "<svg")
}
