package files

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"os"

	"golang.org/x/image/draw"

	// Decoders for the formats Thumbnail accepts.
	_ "image/gif"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// Thumbnail bounds and encoding quality.
const (
	ThumbnailMaxSize = 200
	ThumbnailQuality = 70
)

// Thumbnail decodes the image at path and returns a base64 JPEG scaled to
// fit within ThumbnailMaxSize on both sides, keeping its aspect ratio.
func Thumbnail(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer func() { _ = f.Close() }()

	src, _, err := image.Decode(f)
	if err != nil {
		return "", fmt.Errorf("failed to decode image: %w", err)
	}

	data, err := EncodeThumbnail(src)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(data), nil
}

// EncodeThumbnail scales img and encodes it as JPEG.
func EncodeThumbnail(img image.Image) ([]byte, error) {
	b := img.Bounds()
	w, h := fitWithin(b.Dx(), b.Dy(), ThumbnailMaxSize)

	// JPEG has no alpha; flatten onto white like a browser would show it.
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(dst, dst.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Over, nil)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: ThumbnailQuality}); err != nil {
		return nil, fmt.Errorf("failed to encode JPEG: %w", err)
	}
	return buf.Bytes(), nil
}

// fitWithin scales w x h down to fit a max x max box. Images already
// inside the box keep their size.
func fitWithin(w, h, limit int) (int, int) {
	if w <= 0 || h <= 0 {
		return 1, 1
	}
	if w <= limit && h <= limit {
		return w, h
	}
	if w >= h {
		return limit, max(1, h*limit/w)
	}
	return max(1, w*limit/h), limit
}
