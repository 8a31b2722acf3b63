package utils

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg"
	"image/png"

	"github.com/nfnt/resize"
)

// ThumbnailWidth is the width of generated site photo thumbnails
const ThumbnailWidth = 320

// MaxImagePixels caps the decoded canvas. A small compressed file can declare a huge one.
const MaxImagePixels = 40_000_000

// MakeThumbnail decodes a PNG or JPEG and returns a PNG at most ThumbnailWidth wide,
// preserving aspect ratio
func MakeThumbnail(data []byte) ([]byte, error) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, &FileUploadError{Code: "INVALID_IMAGE", Message: "Failed to decode image"}
	}
	if int64(cfg.Width)*int64(cfg.Height) > MaxImagePixels {
		return nil, &FileUploadError{
			Code:    "IMAGE_TOO_LARGE",
			Message: fmt.Sprintf("Image dimensions %dx%d exceed the %d megapixel limit", cfg.Width, cfg.Height, MaxImagePixels/1_000_000),
		}
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, &FileUploadError{Code: "INVALID_IMAGE", Message: "Failed to decode image"}
	}

	if img.Bounds().Dx() > ThumbnailWidth {
		img = resize.Resize(ThumbnailWidth, 0, img, resize.Lanczos3)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode thumbnail: %w", err)
	}
	return buf.Bytes(), nil
}
