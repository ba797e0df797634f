package cli

import (
	"bytes"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// LoadImage loads a file from disk into an image.Image. PNG, JPEG, GIF, BMP,
// TIFF and WebP are recognised by their decoders; the returned format is the
// name the decoder registered.
func LoadImage(path string) (image.Image, string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, "", err
	}
	img, format, err := image.Decode(bytes.NewReader(b))
	if err != nil {
		return nil, "", err
	}
	return img, format, nil
}

// SaveImage saves an image.Image to disk using format inferred from the filename extension.
// Supports .png, .jpg/.jpeg, .gif, .bmp and .tif/.tiff; anything else is written as PNG.
func SaveImage(path string, img image.Image) (err error) {
	if img == nil {
		return fmt.Errorf("nil image")
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jpg", ".jpeg":
		return jpeg.Encode(f, img, &jpeg.Options{Quality: 92})
	case ".gif":
		return gif.Encode(f, img, nil)
	case ".bmp":
		return bmp.Encode(f, img)
	case ".tif", ".tiff":
		return tiff.Encode(f, img, &tiff.Options{Compression: tiff.Deflate})
	default:
		return png.Encode(f, img)
	}
}
