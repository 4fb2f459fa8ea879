package utils

import (
	"bytes"
	"image"
	"image/jpeg"
	"image/png"
	"strings"

	"github.com/nfnt/resize"
)

// IsImage checks if the content type is a supported image format
func IsImage(contentType string) bool {
	return strings.HasPrefix(contentType, "image/jpeg") ||
		strings.HasPrefix(contentType, "image/png")
}

// OptimizeAvatar downscales a sender photo to at most maxWidth pixels wide
// and re-encodes it. Images already small enough pass through untouched.
func OptimizeAvatar(data []byte, maxWidth uint) ([]byte, error) {
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}

	bounds := img.Bounds()
	if uint(bounds.Dx()) <= maxWidth {
		return data, nil // No resize needed
	}

	// Lanczos3 for quality
	m := resize.Resize(maxWidth, 0, img, resize.Lanczos3)

	var buf bytes.Buffer
	switch format {
	case "jpeg":
		err = jpeg.Encode(&buf, m, &jpeg.Options{Quality: 85})
	case "png":
		err = png.Encode(&buf, m)
	default:
		// Decoded but not a format we re-encode; serve the original bytes.
		return data, nil
	}

	if err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}
